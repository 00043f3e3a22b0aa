// Package logging builds the slog logger used by the koref binaries.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cours-de-latin/koref/internal/config"
	"github.com/natefinch/lumberjack"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger writing to console and, when cfg.File is set, to a
// rotated file as well. The returned Closer flushes and closes that file.
func New(cfg config.LogConfig, console io.Writer) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
		}
	}

	w := console
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		w = io.MultiWriter(console, file)
		closer = file
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, nil, fmt.Errorf("log format %q: want text or json", cfg.Format)
	}
	return slog.New(h), closer, nil
}
