package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var envKeys = []string{
	"DOCFILL_ADDR",
	"DOCFILL_ENV",
	"DOCFILL_CORS_ORIGINS",
	"DOCFILL_MAX_UPLOAD_MB",
	"DOCFILL_MAX_CONNS",
	"DOCFILL_PHOTO_WIDTH",
	"DOCFILL_LOG_LEVEL",
	"DOCFILL_LOG_JSON",
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(noEnvFile(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := &Config{
		Addr:        ":8080",
		Environment: "dev",
		CORSOrigins: []string{"*"},
		MaxUploadMB: 20,
		MaxConns:    64,
		PhotoWidth:  1.25,
		LogLevel:    "debug",
		LogJSON:     false,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.MaxUploadBytes(); got != 20<<20 {
		t.Errorf("MaxUploadBytes() = %d, want %d", got, 20<<20)
	}
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOCFILL_ADDR", "127.0.0.1:9000")
	t.Setenv("DOCFILL_ENV", "prod")
	t.Setenv("DOCFILL_CORS_ORIGINS", "https://cv.example.com, http://localhost:3000")
	t.Setenv("DOCFILL_MAX_UPLOAD_MB", "5")
	t.Setenv("DOCFILL_MAX_CONNS", "0")
	t.Setenv("DOCFILL_PHOTO_WIDTH", "1.5")

	cfg, err := Load(noEnvFile(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := &Config{
		Addr:        "127.0.0.1:9000",
		Environment: "prod",
		CORSOrigins: []string{"https://cv.example.com", "http://localhost:3000"},
		MaxUploadMB: 5,
		MaxConns:    0,
		PhotoWidth:  1.5,
		LogLevel:    "info",
		LogJSON:     true,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOCFILL_ADDR", ":7000")

	path := filepath.Join(t.TempDir(), ".env")
	content := "DOCFILL_ADDR=:6000\nDOCFILL_MAX_UPLOAD_MB=8\nDOCFILL_LOG_LEVEL=warn\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("Addr = %q, want the environment to win over the file", cfg.Addr)
	}
	if cfg.MaxUploadMB != 8 {
		t.Errorf("MaxUploadMB = %d, want 8", cfg.MaxUploadMB)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    string
	}{
		{"DOCFILL_MAX_UPLOAD_MB", "lots", "not an integer"},
		{"DOCFILL_MAX_UPLOAD_MB", "0", "MaxUploadMB"},
		{"DOCFILL_MAX_UPLOAD_MB", "4096", "MaxUploadMB"},
		{"DOCFILL_MAX_CONNS", "-1", "MaxConns"},
		{"DOCFILL_PHOTO_WIDTH", "wide", "not a number"},
		{"DOCFILL_PHOTO_WIDTH", "20", "PhotoWidth"},
		{"DOCFILL_ENV", "staging", "Environment"},
		{"DOCFILL_LOG_LEVEL", "chatty", "LogLevel"},
		{"DOCFILL_LOG_JSON", "maybe", "not a boolean"},
		{"DOCFILL_CORS_ORIGINS", "not a url", "CORSOrigins"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(noEnvFile(t))
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}
