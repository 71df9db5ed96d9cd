package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Dir: dir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(dir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if std == nil {
		t.Fatal("logger is nil after initialization")
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestInitDebugMode(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Dir: dir, Debug: true}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	if std.GetLevel().String() != "debug" {
		t.Errorf("debug mode level = %s, want debug", std.GetLevel())
	}
}

func TestInitLevelOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Dir: dir, Level: "info"}); err != nil {
		t.Fatalf("Failed to initialize logger with level override: %v", err)
	}
	if std.GetLevel().String() != "info" {
		t.Errorf("level = %s, want info", std.GetLevel())
	}

	if err := Init(Config{Dir: dir, Level: "verbose"}); err == nil {
		t.Error("expected error for unknown level name")
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	std = nil

	// These should not panic before Init
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}
