package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)
}

func newTestLogger(buf *bytes.Buffer, format string) *Logger {
	l := New(Config{Level: LevelDebug, Output: buf, Prefix: "test", Format: format})
	l.now = fixedClock
	return l
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"Warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownLevel) {
				t.Errorf("ParseLevel(%q) error = %v, want ErrUnknownLevel", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	if got := LevelWarn.String(); got != "WARN" {
		t.Errorf("LevelWarn.String() = %q, want WARN", got)
	}
	if got := Level(42).String(); got != "UNKNOWN" {
		t.Errorf("Level(42).String() = %q, want UNKNOWN", got)
	}
}

func TestTextLine(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, FormatText).WithFields(map[string]any{"step": "s1", "layer": 2})

	l.Info("undo %s", "s1")

	want := "2024-03-01T12:30:45.000 [INFO] test: undo s1 {layer=2, step=s1}\n"
	if got := buf.String(); got != want {
		t.Errorf("line = %q, want %q", got, want)
	}
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, FormatText)
	l.SetLevel(LevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown too")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "[WARN]") || !strings.Contains(lines[1], "[ERROR]") {
		t.Errorf("lines = %q", lines)
	}
	if l.Enabled(LevelInfo) {
		t.Error("Enabled(LevelInfo) = true at warn level")
	}
}

func TestJSONLine(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, FormatJSON).WithComponent("history").WithField("a.b", 3)

	l.Warn("rule %q failed", "x")

	line := buf.String()
	checks := map[string]string{
		"time":      "2024-03-01T12:30:45.000",
		"level":     "WARN",
		"logger":    "test",
		"msg":       `rule "x" failed`,
		"component": "history",
		`a\.b`:      "3",
	}
	for path, want := range checks {
		if got := gjson.Get(line, path).String(); got != want {
			t.Errorf("%s = %q, want %q (line %s)", path, got, want, line)
		}
	}
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := newTestLogger(&buf, FormatText)
	_ = parent.WithField("k", "v")

	parent.Info("plain")
	if strings.Contains(buf.String(), "k=v") {
		t.Errorf("parent logger gained child field: %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	// Discard must be safe to use and derive from.
	Discard.WithComponent("x").Error("nothing")
	if Discard.Enabled(LevelError) {
		t.Error("Discard.Enabled() = true")
	}
}
