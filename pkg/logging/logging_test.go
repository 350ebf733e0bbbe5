package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for name, want := range tests {
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn)

	logger.Info("Book returned", "fine", 0)
	logger.Warn("ReturnBook failed", "book_id", 999)

	out := buf.String()
	if strings.Contains(out, "Book returned") {
		t.Errorf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "ReturnBook failed") || !strings.Contains(out, "book_id") {
		t.Errorf("warn line missing: %q", out)
	}
}
