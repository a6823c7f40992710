package framework

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/compress/zstd"
	goarchive "github.com/moby/go-archive"
	"github.com/moby/go-archive/compression"
)

// ExportBundle archives a generated swarm project directory into a
// zstd-compressed tarball at outputPath, suitable for shipping a workspace
// to another machine.
func ExportBundle(projectDir, outputPath string) error {
	info, err := os.Stat(projectDir)
	if err != nil {
		return fmt.Errorf("stat project dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", projectDir)
	}

	tarStream, err := goarchive.TarWithOptions(projectDir, &goarchive.TarOptions{
		Compression: compression.None,
	})
	if err != nil {
		return fmt.Errorf("tar %s: %w", projectDir, err)
	}
	defer tarStream.Close()

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}

	if _, err := io.Copy(zw, tarStream); err != nil {
		zw.Close()
		return fmt.Errorf("write bundle: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zstd: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close bundle: %w", err)
	}

	if stat, err := os.Stat(outputPath); err == nil {
		slog.Info("bundle exported", "path", outputPath, "bytes", stat.Size())
	}
	return nil
}
