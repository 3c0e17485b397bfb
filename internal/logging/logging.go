// Package logging configures the process-wide slog logger
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
)

// Logger is the global slog instance for the application
var Logger *slog.Logger

// Init points logging at dir/workboard.log. Interactive commands log to a
// file so the terminal stays clean.
func Init(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	logPath := filepath.Join(dir, "workboard.log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	setup(file, slog.LevelDebug)
	return nil
}

// InitStderr is used by the long running commands (serve, daemon)
func InitStderr(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	setup(os.Stderr, level)
}

func setup(w io.Writer, level slog.Level) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})

	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	// Anything still using the standard log package ends up in the same place
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags)
}
