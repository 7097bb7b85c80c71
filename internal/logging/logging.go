// Package logging builds the slog loggers used by the CLI and the TUI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/lcconsultores/ticketera/internal/config"
)

// New returns a logger writing to w in the given format ("text" or "json").
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, options)
	} else {
		handler = slog.NewTextHandler(w, options)
	}
	return slog.New(handler)
}

// NewCommandLogger logs to w (normally stderr) for one-shot commands. An
// empty format picks text on a terminal and JSON otherwise.
func NewCommandLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	if format == "" {
		format = "json"
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			format = "text"
		}
	}
	return New(w, level, format)
}

// OpenFile returns a logger appending to path. The TUI owns the terminal,
// so it logs to a file instead of stderr. Close the returned closer on exit.
func OpenFile(path string, level slog.Level, format string) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, nil, fmt.Errorf("logging: create dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: open %s: %w", path, err)
	}
	return New(f, level, format), f, nil
}

// FromConfig opens the log file named by cfg.
func FromConfig(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return OpenFile(cfg.LogPath(), level, cfg.LogFormat)
}
