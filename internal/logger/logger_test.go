package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    charmlog.Level
		wantErr bool
	}{
		{"", charmlog.InfoLevel, false},
		{"info", charmlog.InfoLevel, false},
		{"debug", charmlog.DebugLevel, false},
		{"WARN", charmlog.WarnLevel, false},
		{"error", charmlog.ErrorLevel, false},
		{"loud", charmlog.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	off, err := ParseLevel("off")
	if err != nil || off <= charmlog.FatalLevel {
		t.Errorf("ParseLevel(off) = %v, %v; want a level above fatal", off, err)
	}
}

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: "warn", Output: &buf})

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	out := buf.String()
	for _, s := range []string{"debug message", "info message"} {
		if strings.Contains(out, s) {
			t.Errorf("output contains filtered %q", s)
		}
	}
	for _, s := range []string{"warn message", "error message"} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q", s)
		}
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: "info", JSON: true, Output: &buf})
	l.Info("filled", "fields", 3)

	out := buf.String()
	if !strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("expected JSON output, got %q", out)
	}
	if !strings.Contains(out, `"fields":3`) {
		t.Errorf("output missing key/value: %q", out)
	}
}

func TestNew_Off(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: "off", Output: &buf})
	l.Error("error message")
	if buf.Len() != 0 {
		t.Errorf("disabled logger wrote %q", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	l := New(TestConfig())
	ctx := ContextWithLogger(context.Background(), l)
	if got := FromContext(ctx); got != l {
		t.Error("FromContext() did not return the stored logger")
	}
	if got := FromContext(context.Background()); got == nil {
		t.Error("FromContext() without logger returned nil")
	}
}
