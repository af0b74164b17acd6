// Package logging configures the process-wide slog logger and bridges gorm's
// logger onto it.
package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"github.com/teamsync/teamsync/internal/config"
)

// Logger is the global slog instance for the application
var Logger = slog.Default()

var logFile *os.File

// Init builds the handler described by cfg and installs it as the default
// logger. Logs go to stderr unless cfg.File is set.
func Init(cfg config.LogConfig) (*slog.Logger, error) {
	var out io.Writer = os.Stderr
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, err
		}
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		Close()
		logFile = file
		out = file
	}

	Logger = New(out, cfg)
	slog.SetDefault(Logger)

	// Redirect standard log package output to the same destination
	log.SetOutput(out)
	log.SetFlags(log.LstdFlags)

	return Logger, nil
}

// New creates a logger writing to w without touching the global state
func New(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Close closes the log file opened by Init, if any
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// ParseLevel maps debug, info, warn and error onto slog levels; anything
// else is info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// ============================================================================
// GORM BRIDGE
// ============================================================================

// slogWriter adapts a slog.Logger to gorm's logger.Writer
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.logger.Log(context.Background(), slog.LevelInfo, strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "gorm")
}

// Gorm returns a gorm logger that writes through logger. level is one of
// silent, error, warn or info.
func Gorm(logger *slog.Logger, level string) gormlogger.Interface {
	return gormlogger.New(slogWriter{logger: logger}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLevel(level),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func gormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	}
	return gormlogger.Warn
}
