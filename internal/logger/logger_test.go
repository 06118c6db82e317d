package logger

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":    LevelDebug,
		" WARN ":   LevelWarn,
		"warning":  LevelWarn,
		"error":    LevelError,
		"info":     LevelInfo,
		"":         LevelInfo,
		"verbose":  LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitWithConfigWritesJSONToFile(t *testing.T) {
	prev := globalLogger
	t.Cleanup(func() {
		globalLogger = prev
		slog.SetDefault(prev)
	})

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	if err := InitWithConfig(Config{Level: LevelWarn, OutputPath: path, Format: "json"}); err != nil {
		t.Fatal(err)
	}

	Info("dropped below level")
	Component("hub").Warn("subscriber buffer full", "session_id", "s1")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines: %q", len(lines), data)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatal(err)
	}
	if entry["component"] != "hub" || entry["session_id"] != "s1" || entry["level"] != "WARN" {
		t.Errorf("entry = %v", entry)
	}
}
