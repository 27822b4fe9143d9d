package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_Formats(t *testing.T) {
	t.Parallel()

	var jsonBuf, textBuf bytes.Buffer
	New("info", "json", &jsonBuf).Info("hello", slog.String("k", "v"))
	New("info", "text", &textBuf).Info("hello", slog.String("k", "v"))

	if !strings.Contains(jsonBuf.String(), `"msg":"hello"`) || !strings.Contains(jsonBuf.String(), `"k":"v"`) {
		t.Errorf("unexpected json output: %s", jsonBuf.String())
	}
	if !strings.Contains(textBuf.String(), "msg=hello") || !strings.Contains(textBuf.String(), "k=v") {
		t.Errorf("unexpected text output: %s", textBuf.String())
	}
}

func TestNew_LevelFilters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New("warn", "json", &buf)
	logger.Info("dropped")
	logger.Warn("kept")

	if strings.Contains(buf.String(), "dropped") {
		t.Error("info line should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Error("warn line missing")
	}
}
