package slogutil

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	logger.Info("record saved", "id", "abc", "count", 3)

	out := buf.String()
	if !strings.Contains(out, "[info] record saved") {
		t.Errorf("output missing level and message: %q", out)
	}
	if !strings.Contains(out, "id=abc") || !strings.Contains(out, "count=3") {
		t.Errorf("output missing attributes: %q", out)
	}
}

func TestHandlerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)

	logger.Info("should be dropped")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Errorf("info message should have been filtered: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestHandlerWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo).With("component", "store")

	logger.WithGroup("merge").Info("done", "added", 2)

	out := buf.String()
	if !strings.Contains(out, "component=store") {
		t.Errorf("pre-set attr missing: %q", out)
	}
	if !strings.Contains(out, "merge.added=2") {
		t.Errorf("group prefix missing: %q", out)
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := LevelFromString(tt.in); got != tt.want {
			t.Errorf("LevelFromString(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	if got := LevelFromVerbosity(0, true); got <= slog.LevelError {
		t.Errorf("quiet should suppress all levels, got %v", got)
	}
	if got := LevelFromVerbosity(0, false); got != slog.LevelWarn {
		t.Errorf("verbosity 0 = %v, want warn", got)
	}
	if got := LevelFromVerbosity(2, false); got != slog.LevelDebug {
		t.Errorf("verbosity 2 = %v, want debug", got)
	}
}
