// Package diag records errors to a rotating log file.
//
// While the TUI owns the terminal nothing may be written to stderr, so all
// diagnostics go through a lumberjack-backed slog JSON handler instead.
package diag

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the log file created inside the log directory.
const FileName = "typespeed.log"

// Rotation holds lumberjack rotation limits.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Logger is an append-only, best-effort error log.
type Logger struct {
	logger *slog.Logger
	closer io.Closer
	path   string
}

// Setup creates a logger writing JSON lines to dir/typespeed.log with rotation.
func Setup(dir string, level slog.Leveler, rotation Rotation) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, FileName)
	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rotation.MaxSizeMB,
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAgeDays,
		Compress:   rotation.Compress,
	}
	return &Logger{
		logger: slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level})),
		closer: writer,
		path:   path,
	}, nil
}

// NewWithWriter creates a logger that writes to w. Useful in tests.
func NewWithWriter(w io.Writer, level slog.Leveler) *Logger {
	return &Logger{logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWithWriter(io.Discard, slog.LevelError)
}

// LogError appends an error entry for the named activity. It never fails.
func (l *Logger) LogError(activity string, err error) {
	if l == nil || err == nil {
		return
	}
	l.logger.Error("activity failed", "activity", activity, "error", err.Error())
}

// Slog exposes the underlying structured logger.
func (l *Logger) Slog() *slog.Logger {
	return l.logger
}

// Path returns the log file path, or "" for writer-backed loggers.
func (l *Logger) Path() string {
	return l.path
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
