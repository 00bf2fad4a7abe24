package pkg

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetLogLevel(t *testing.T) {
	original := GetLogLevel()
	defer SetLogLevel(original)

	tests := []struct {
		name  string
		level slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetLogLevel(tt.level)
			if got := GetLogLevel(); got != tt.level {
				t.Errorf("GetLogLevel() = %v, want %v", got, tt.level)
			}
			if got := Leveler().Level(); got != tt.level {
				t.Errorf("Leveler().Level() = %v, want %v", got, tt.level)
			}
		})
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	if logger == nil {
		t.Fatal("NewJSONLogger returned nil")
	}

	logger.Info("test message")
	output := buf.String()
	if !strings.Contains(output, `"msg":"test message"`) {
		t.Errorf("JSON log output missing message: %s", output)
	}
}

func TestComponentLogging(t *testing.T) {
	original := Logger()
	defer SetLogger(original)

	tests := []struct {
		name      string
		log       func(Component, string, ...any)
		component Component
		msg       string
	}{
		{"debug", LogDebug, ComponentDevice, "debug message"},
		{"info", LogInfo, ComponentHost, "info message"},
		{"warn", LogWarn, ComponentSession, "warn message"},
		{"error", LogError, ComponentFIFO, "error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			SetLogger(NewLogger(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			tt.log(tt.component, tt.msg, "key", "value")
			output := buf.String()
			if !strings.Contains(output, tt.msg) {
				t.Errorf("log missing message: %s", output)
			}
			if !strings.Contains(output, "component="+string(tt.component)) {
				t.Errorf("log missing component: %s", output)
			}
			if !strings.Contains(output, "key=value") {
				t.Errorf("log missing attribute: %s", output)
			}
		})
	}
}

func TestLogLevelFilters(t *testing.T) {
	original := Logger()
	defer SetLogger(original)

	var buf bytes.Buffer
	SetLogger(NewLogger(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	LogInfo(ComponentDevice, "hidden")
	if buf.Len() != 0 {
		t.Errorf("info message passed warn filter: %s", buf.String())
	}
}

func TestNewHandler(t *testing.T) {
	originalLevel := GetLogLevel()
	defer SetLogLevel(originalLevel)
	SetLogLevel(slog.LevelInfo)

	var text, json bytes.Buffer
	slog.New(NewHandler(&text, LogFormatText)).Info("plain")
	slog.New(NewHandler(&json, LogFormatJSON)).Info("structured")

	if !strings.Contains(text.String(), "msg=plain") {
		t.Errorf("text handler output = %q", text.String())
	}
	if !strings.Contains(json.String(), `"msg":"structured"`) {
		t.Errorf("JSON handler output = %q", json.String())
	}
}
