// Package logging builds the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/example/go-german-tts/internal/config"
)

// Rotation limits for the optional log file.
const (
	maxSizeMB  = 16
	maxBackups = 3
	maxAgeDays = 14
)

// Options selects the level and outputs of the logger.
type Options struct {
	Level string
	// File, when set, receives a copy of every record and is rotated by size.
	File   string
	Stderr io.Writer
}

// New returns a JSON slog logger and a closer for the log file, if any.
// An unknown level falls back to info.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	lvl, err := config.ParseLogLevel(opts.Level)
	if err != nil {
		lvl = slog.LevelInfo
	}

	var out io.Writer = opts.Stderr
	if out == nil {
		out = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}

		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(out, file)
		closer = file
	}

	h := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lvl})

	return slog.New(h), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
