package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewJSONLoggerTagsService(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, "scan-uploader", "warn")

	logger.Info("hidden")
	logger.Warn("upload_failed", "batch_id", "b-1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected only the warn line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["service"] != "scan-uploader" || entry["msg"] != "upload_failed" || entry["batch_id"] != "b-1" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestOpenOutput(t *testing.T) {
	w, err := OpenOutput("-")
	if err != nil {
		t.Fatalf("OpenOutput(-) error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing stderr output must be a no-op: %v", err)
	}

	path := filepath.Join(t.TempDir(), "uploader.log")
	w, err = OpenOutput(path)
	if err != nil {
		t.Fatalf("OpenOutput(file) error = %v", err)
	}
	_, _ = w.Write([]byte("line\n"))
	_ = w.Close()
	data, _ := os.ReadFile(path)
	if string(data) != "line\n" {
		t.Fatalf("unexpected file content %q", data)
	}
}
