package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "softchar.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	want := Default()
	if *cfg != *want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
	if cfg.Level() != slog.LevelWarn {
		t.Errorf("Level() = %v, want warn", cfg.Level())
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
bus_dir: /run/softchar
device: greeter
log_level: debug
json_log: true
chunk: 7
log_capacity: 16
poll_interval: 25ms
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	want := Config{
		BusDir:       "/run/softchar",
		Device:       "greeter",
		LogLevel:     "debug",
		JSONLog:      true,
		Chunk:        7,
		LogCapacity:  16,
		PollInterval: 25 * time.Millisecond,
	}
	if *cfg != want {
		t.Errorf("Load() = %+v, want %+v", *cfg, want)
	}
}

func TestLoadPartialFile(t *testing.T) {
	cfg, err := Load(writeFile(t, "chunk: 3\n"))
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Chunk != 3 {
		t.Errorf("Chunk = %d, want 3", cfg.Chunk)
	}
	if cfg.Device != "softchar" {
		t.Errorf("Device = %q, want default", cfg.Device)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "device: fromfile\nchunk: 9\n")
	t.Setenv("SOFTCHAR_DEVICE", "fromenv")
	t.Setenv("SOFTCHAR_LOG_LEVEL", "error")
	t.Setenv("SOFTCHAR_POLL_INTERVAL", "1s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Device != "fromenv" {
		t.Errorf("Device = %q, want fromenv", cfg.Device)
	}
	if cfg.Chunk != 9 {
		t.Errorf("Chunk = %d, want 9", cfg.Chunk)
	}
	if cfg.Level() != slog.LevelError {
		t.Errorf("Level() = %v, want error", cfg.Level())
	}
	if cfg.PollInterval != time.Second {
		t.Errorf("PollInterval = %v, want 1s", cfg.PollInterval)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		want    string
	}{
		{"bad yaml", "chunk: [1, 2\n", nil, "parse"},
		{"bad level", "log_level: loud\n", nil, "unknown log level"},
		{"chunk too large", "chunk: 5000\n", nil, "chunk"},
		{"zero chunk", "chunk: 0\n", nil, "chunk"},
		{"empty device", "device: \"\"\n", nil, "device"},
		{"bad env int", "", map[string]string{"SOFTCHAR_CHUNK": "many"}, "parse env"},
		{"negative capacity", "", map[string]string{"SOFTCHAR_LOG_CAPACITY": "-1"}, "log_capacity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.content != "" {
				path = writeFile(t, tt.content)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load(absent) = %v, want not-exist", err)
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() succeeded on zero config")
	}
	for _, field := range []string{"bus_dir", "device", "log level", "chunk", "log_capacity", "poll_interval"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("Validate() = %v, missing %q", err, field)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"Warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"", 0, true},
		{"trace", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
