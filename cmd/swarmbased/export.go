package main

import (
	"archive/tar"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/jzftran/swarmbase-core/internal/config"
	"github.com/klauspost/compress/zstd"
	goarchive "github.com/moby/go-archive"
	"github.com/moby/go-archive/compression"
)

// runExport archives the store's data directory and the generated
// workspaces into a single zstd-compressed tarball.
func runExport(args []string) error {
	var outputPath string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-f":
			if i+1 >= len(args) {
				return fmt.Errorf("missing value for -f")
			}
			i++
			outputPath = args[i]
		}
	}

	if outputPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: swarmbased export -f <output.tar.zst>\n")
		return fmt.Errorf("missing -f flag")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dirs := map[string]string{
		"data":       filepath.Dir(cfg.Store.Path),
		"workspaces": cfg.Workspaces.BasePath,
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	defer zw.Close()

	tw := tar.NewWriter(zw)
	defer tw.Close()

	exported := 0
	for prefix, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			slog.Warn("skipping missing directory", "dir", dir)
			continue
		}
		slog.Info("exporting directory", "dir", dir)
		if err := exportDir(tw, dir, prefix); err != nil {
			return fmt.Errorf("export %s: %w", dir, err)
		}
		exported++
	}

	// Close everything explicitly to catch write errors
	if err := tw.Close(); err != nil {
		return fmt.Errorf("close tar: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zstd: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}

	info, _ := os.Stat(outputPath)
	size := int64(0)
	if info != nil {
		size = info.Size()
	}

	fmt.Printf("Export complete: %d directories, %s\n", exported, formatSize(size))
	return nil
}

// exportDir streams one directory into tw, prefixing every entry name so
// archives from different directories never collide.
func exportDir(tw *tar.Writer, dir, prefix string) error {
	stream, err := goarchive.TarWithOptions(dir, &goarchive.TarOptions{
		Compression: compression.None,
	})
	if err != nil {
		return fmt.Errorf("tar %s: %w", dir, err)
	}
	defer stream.Close()

	src := tar.NewReader(stream)
	for {
		hdr, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar entry: %w", err)
		}

		hdr.Name = path.Join(prefix, hdr.Name)
		if hdr.Typeflag == tar.TypeDir {
			hdr.Name += "/"
		}

		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("write tar header: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := io.Copy(tw, src); err != nil {
				return fmt.Errorf("copy %s: %w", hdr.Name, err)
			}
		}
	}
	return nil
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMG"[exp])
}
