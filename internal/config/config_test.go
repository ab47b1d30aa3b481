package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/lehigh-university-libraries/catgallery/internal/catapi"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(env.Options{Environment: map[string]string{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.BaseURL != "https://cataas.com" {
		t.Errorf("BaseURL = %s", cfg.BaseURL)
	}
	if cfg.MinInterval != 2*time.Second {
		t.Errorf("MinInterval = %s", cfg.MinInterval)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d", cfg.MaxAttempts)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %s", cfg.SessionTTL)
	}
	if cfg.JanitorSchedule != "@every 1m" {
		t.Errorf("JanitorSchedule = %s", cfg.JanitorSchedule)
	}
	if cfg.Addr != ":8888" {
		t.Errorf("Addr = %s", cfg.Addr)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	cfg, err := load(env.Options{Environment: map[string]string{
		"CATGALLERY_BASE_URL":     "http://localhost:9000",
		"CATGALLERY_MIN_INTERVAL": "500ms",
		"CATGALLERY_MAX_ATTEMPTS": "5",
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "http://localhost:9000" || cfg.MinInterval != 500*time.Millisecond || cfg.MaxAttempts != 5 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catgallery.yaml")
	content := "min_interval: 3s\nmax_attempts: 4\nsession_ttl: 1h\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := load(env.Options{Environment: map[string]string{
		"CATGALLERY_CONFIG":       path,
		"CATGALLERY_MAX_ATTEMPTS": "7",
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MinInterval != 3*time.Second {
		t.Errorf("MinInterval = %s", cfg.MinInterval)
	}
	if cfg.MaxAttempts != 4 {
		t.Errorf("expected file to override env, got %d", cfg.MaxAttempts)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %s", cfg.SessionTTL)
	}
	if cfg.BaseURL != "https://cataas.com" {
		t.Errorf("keys absent from the file must keep their value, got %s", cfg.BaseURL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := load(env.Options{Environment: map[string]string{
		"CATGALLERY_CONFIG": filepath.Join(t.TempDir(), "nope.yaml"),
	}})
	if err == nil || !strings.Contains(err.Error(), "error reading config file") {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"relative base url", func(c *Config) { c.BaseURL = "cataas.com" }, "base_url (CATGALLERY_BASE_URL)"},
		{"ftp base url", func(c *Config) { c.BaseURL = "ftp://cataas.com" }, "base_url (CATGALLERY_BASE_URL)"},
		{"zero interval", func(c *Config) { c.MinInterval = 0 }, "min_interval (CATGALLERY_MIN_INTERVAL)"},
		{"zero attempts", func(c *Config) { c.MaxAttempts = 0 }, "max_attempts (CATGALLERY_MAX_ATTEMPTS)"},
		{"zero ttl", func(c *Config) { c.SessionTTL = 0 }, "session_ttl (CATGALLERY_SESSION_TTL)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := load(env.Options{Environment: map[string]string{}})
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %s, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestClientOptions(t *testing.T) {
	cfg, err := load(env.Options{Environment: map[string]string{
		"CATGALLERY_MIN_INTERVAL": "750ms",
		"CATGALLERY_MAX_ATTEMPTS": "2",
	}})
	if err != nil {
		t.Fatal(err)
	}

	client := catapi.NewClient(cfg.ClientOptions()...)
	if client.MaxAttempts() != 2 {
		t.Errorf("MaxAttempts = %d", client.MaxAttempts())
	}
	if client.Throttle().Interval() != 750*time.Millisecond {
		t.Errorf("Interval = %s", client.Throttle().Interval())
	}
}

func TestLoad_YAMLValidationNamesField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catgallery.yaml")
	if err := os.WriteFile(path, []byte("min_interval: 0s\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := load(env.Options{Environment: map[string]string{"CATGALLERY_CONFIG": path}})
	if err == nil || !strings.Contains(err.Error(), "min_interval") {
		t.Errorf("expected error naming the yaml key min_interval, got %v", err)
	}
}
