// Package logger builds the structured loggers used by the CLI and the
// server. Library packages do not log.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

type ctxKey struct{}

// Config describes a logger.
type Config struct {
	Level      string // debug, info, warn, error or off
	JSON       bool
	Output     io.Writer
	TimeFormat string
}

// DefaultConfig logs at info level to stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Output:     os.Stderr,
		TimeFormat: "15:04:05",
	}
}

// TestConfig discards everything.
func TestConfig() *Config {
	return &Config{
		Level:      "off",
		Output:     io.Discard,
		TimeFormat: "15:04:05",
	}
}

// ParseLevel converts a level name. "off" disables logging.
func ParseLevel(s string) (charmlog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return charmlog.InfoLevel, nil
	case "off", "none", "disabled":
		return charmlog.FatalLevel + 100, nil
	}
	level, err := charmlog.ParseLevel(s)
	if err != nil {
		return charmlog.InfoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// New creates a logger. An unknown level falls back to info.
func New(cfg *Config) *charmlog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	level, _ := ParseLevel(cfg.Level)

	l := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           level,
	})
	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	} else {
		l.SetFormatter(charmlog.TextFormatter)
	}
	return l
}

// ContextWithLogger returns a copy of ctx carrying l.
func ContextWithLogger(ctx context.Context, l *charmlog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx, or the package default.
func FromContext(ctx context.Context) *charmlog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*charmlog.Logger); ok && l != nil {
		return l
	}
	return charmlog.Default()
}
