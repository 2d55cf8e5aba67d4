// internal/utils/logger_test.go
package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"", InfoLevel},
		{"bogus", InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput(WarnLevel, &buf)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("expected low-severity messages to be filtered, got: %s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("expected warn and error messages, got: %s", out)
	}
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput(InfoLevel, &buf)

	logger.WithField("check", "top_level_contexts").WithField("status", "passed").Info("check finished")

	out := buf.String()
	if !strings.Contains(out, "check=top_level_contexts") {
		t.Errorf("expected check field in output, got: %s", out)
	}
	if !strings.Contains(out, "status=passed") {
		t.Errorf("expected status field in output, got: %s", out)
	}

	// Parent logger must not accumulate fields from derived loggers.
	buf.Reset()
	logger.Info("bare message")
	if strings.Contains(buf.String(), "fields=") {
		t.Errorf("expected no fields on parent logger, got: %s", buf.String())
	}
}

func TestLoggerFieldOrderingDeterministic(t *testing.T) {
	fields := map[string]interface{}{"b": 2, "a": 1, "c": 3}
	first := formatFields(fields)
	for i := 0; i < 10; i++ {
		if formatFields(fields) != first {
			t.Fatal("expected deterministic field ordering")
		}
	}
	if first != "{a=1, b=2, c=3}" {
		t.Errorf("expected sorted fields, got %s", first)
	}
}
