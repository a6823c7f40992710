// Package logging configures slog for the swarmbased process and hands out
// per-component loggers that tee to a component log file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jzftran/swarmbase-core/strutil"
)

// Init installs a text handler on stderr as the default logger.
func Init(level slog.Level) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// ForComponent returns a logger tagged with the component name that writes
// to stderr and, when dir is non-empty, also appends to
// <dir>/<component>.log. Component names are snake_cased for the filename.
func ForComponent(component, dir string) (*slog.Logger, error) {
	var w io.Writer = os.Stderr
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		path := filepath.Join(dir, strutil.SnakeCase(component)+".log")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, f)
	}

	handler := slog.NewTextHandler(w, nil)
	return slog.New(handler).With("component", component), nil
}
