package internal

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"ERROR", LogLevelError},
		{"warn", LogLevelWarn},
		{"Warning", LogLevelWarn},
		{"INFO", LogLevelInfo},
		{" debug ", LogLevelDebug},
		{"TRACE", LogLevelTrace},
		{"", LogLevelInfo},
		{"verbose", LogLevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.input); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LogLevelInfo, &buf)

	logger.Debug("hidden %d", 1)
	logger.Info("shown %d", 2)
	logger.Error("also shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at INFO level: %q", out)
	}
	if !strings.Contains(out, "[INFO] shown 2") {
		t.Errorf("missing info line: %q", out)
	}
	if !strings.Contains(out, "[ERROR] also shown") {
		t.Errorf("missing error line: %q", out)
	}
}

func TestLoggerComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LogLevelDebug, &buf).WithComponent("normalizer")

	logger.Debug("column %q settled", "amount")

	if !strings.Contains(buf.String(), `[DEBUG] [normalizer] column "amount" settled`) {
		t.Errorf("unexpected output: %q", buf.String())
	}
	if logger.GetLevel() != LogLevelDebug {
		t.Errorf("component logger lost its level")
	}
}

func TestNilLoggerIsSilent(t *testing.T) {
	var logger *Logger
	if logger.Enabled(LogLevelError) {
		t.Error("nil logger should not be enabled")
	}
	logger.Error("does not panic")
}
