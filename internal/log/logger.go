// Package log is the process-wide logger for mdxgen. Every stage reports
// through the free functions below so that --log-level applies everywhere.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Level is a --log-level value.
type Level string

const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"
)

var levels = map[Level]slog.Level{
	LevelError: slog.LevelError,
	LevelWarn:  slog.LevelWarn,
	LevelInfo:  slog.LevelInfo,
	LevelDebug: slog.LevelDebug,
}

var (
	logger    *slog.Logger
	threshold slog.Level = slog.LevelInfo
	output    io.Writer  = os.Stderr
)

func init() {
	rebuild()
}

// SetLevel drops records below level from then on.
func SetLevel(level Level) error {
	l, ok := levels[level]
	if !ok {
		return fmt.Errorf("invalid log level: %s", level)
	}
	threshold = l
	rebuild()
	return nil
}

// ParseLevel accepts a level name in any case, ignoring surrounding space.
func ParseLevel(s string) (Level, error) {
	level := Level(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := levels[level]; !ok {
		return "", fmt.Errorf("invalid log level: %s", s)
	}
	return level, nil
}

// SetOutput sends log records to w. Tests use it to capture warnings.
func SetOutput(w io.Writer) {
	output = w
	rebuild()
}

// rebuild replaces the logger after the level or writer changed.
func rebuild() {
	handler := charmlog.NewWithOptions(output, charmlog.Options{
		Level:           charmlog.Level(threshold),
		ReportTimestamp: false,
	})
	logger = slog.New(handler)
}

func Error(msg string, args ...any) { logger.Error(msg, args...) }

func Warn(msg string, args ...any) { logger.Warn(msg, args...) }

func Info(msg string, args ...any) { logger.Info(msg, args...) }

func Debug(msg string, args ...any) { logger.Debug(msg, args...) }

// IsDebugEnabled reports whether Debug records are emitted.
func IsDebugEnabled() bool {
	return threshold <= slog.LevelDebug
}
