package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: unexpected error state %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestWriterLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, slog.LevelWarn)

	l.Infof("hidden %d", 1)
	l.Warnf("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered")
	}
	if !strings.Contains(out, "shown 2") {
		t.Errorf("expected warning in output, got %q", out)
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	l.Debug("dropped")
	l.Info("dropped")
	if l.With("k", "v") != nil {
		t.Error("With on nil logger should stay nil")
	}
}
