// Package logging sends the standard logger to a rotated log file. The TUI
// owns the terminal, so nothing may be written to stderr while it runs.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultFile is used when no path is given
const DefaultFile = "comboselect.log"

// Rotation limits
const (
	MaxSizeMB  = 15
	MaxBackups = 3
	MaxAgeDays = 28
)

// Setup points the standard logger at path and returns the writer so the
// caller can close it on exit. An empty path means DefaultFile; "-" keeps
// stderr.
func Setup(path string) (io.Closer, error) {
	if path == "-" {
		log.SetOutput(os.Stderr)
		return io.NopCloser(nil), nil
	}
	if path == "" {
		path = DefaultFile
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    MaxSizeMB, // megabytes
		MaxBackups: MaxBackups,
		MaxAge:     MaxAgeDays, // days
		Compress:   true,
	}
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags)
	return w, nil
}

// New returns a separate rotated logger with a prefix, for long running
// servers that keep an access log apart from the main one
func New(path, prefix string) *log.Logger {
	return log.New(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    MaxSizeMB,
		MaxBackups: MaxBackups,
		MaxAge:     MaxAgeDays,
		Compress:   true,
	}, prefix, log.LstdFlags)
}
