// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
)

// Config is the server configuration.
type Config struct {
	Addr        string
	Environment string
	CORSOrigins []string
	MaxUploadMB int
	MaxConns    int // 0 means unlimited
	PhotoWidth  float64
	LogLevel    string
	LogJSON     bool
}

// Load reads the configuration from the environment. Variables found in the
// given env files (".env" when none are given) are applied first; a missing
// file is not an error, and real environment variables win.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	env := getEnv("DOCFILL_ENV", "dev")
	cfg := &Config{
		Addr:        getEnv("DOCFILL_ADDR", ":8080"),
		Environment: env,
		CORSOrigins: splitList(getEnv("DOCFILL_CORS_ORIGINS", "*")),
		LogLevel:    getEnv("DOCFILL_LOG_LEVEL", defaultLogLevel(env)),
	}

	var err error
	if cfg.MaxUploadMB, err = getInt("DOCFILL_MAX_UPLOAD_MB", 20); err != nil {
		return nil, err
	}
	if cfg.MaxConns, err = getInt("DOCFILL_MAX_CONNS", 64); err != nil {
		return nil, err
	}
	if cfg.PhotoWidth, err = getFloat("DOCFILL_PHOTO_WIDTH", 1.25); err != nil {
		return nil, err
	}
	if cfg.LogJSON, err = getBool("DOCFILL_LOG_JSON", env == "prod"); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.Environment, validation.Required, validation.In("dev", "test", "prod")),
		validation.Field(&c.CORSOrigins, validation.Required, validation.Each(validation.By(validateOrigin))),
		validation.Field(&c.MaxUploadMB, validation.Required, validation.Min(1), validation.Max(512)),
		validation.Field(&c.MaxConns, validation.Min(0)),
		validation.Field(&c.PhotoWidth, validation.Required, validation.Min(0.25), validation.Max(8.5)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error", "off")),
	)
}

// MaxUploadBytes returns the request body limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func validateOrigin(value interface{}) error {
	origin, _ := value.(string)
	if origin == "*" {
		return nil
	}
	return is.URL.Validate(origin)
}

func defaultLogLevel(env string) string {
	if env == "dev" {
		return "debug"
	}
	return "info"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, s)
	}
	return n, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", key, s)
	}
	return f, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%s: %q is not a boolean", key, s)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
