// Package logger writes structured records to a rotating file beside the
// habit store, keeping command and TUI output clean.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	fileName   = "fruitful.log"
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// std is nil until Init runs; the package functions are no-ops before that,
// so packages under test can log freely.
var std *log.Logger

type Config struct {
	// Dir is the storage directory; log files land in Dir/logs.
	Dir string
	// Debug mirrors records to stderr and reports callers.
	Debug bool
	// Level overrides the default warn threshold when non-empty
	// (debug|info|warn|error).
	Level string
}

// Init wires the package-level logger with file rotation.
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.Dir, "logs")
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return err
	}

	rotating := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, fileName),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
	}
	if cfg.Level != "" {
		parsed, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	var out io.Writer = rotating
	if cfg.Debug {
		out = io.MultiWriter(os.Stderr, rotating)
	}

	std = log.NewWithOptions(out, log.Options{
		Prefix:          "fruitful",
		Level:           level,
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
	})
	return nil
}

func Debug(msg string, keyvals ...interface{}) {
	if std != nil {
		std.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if std != nil {
		std.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if std != nil {
		std.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if std != nil {
		std.Error(msg, keyvals...)
	}
}
