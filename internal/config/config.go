package config

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/lehigh-university-libraries/catgallery/internal/catapi"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of the gallery.
type Config struct {
	BaseURL         string        `env:"CATGALLERY_BASE_URL" envDefault:"https://cataas.com" yaml:"base_url"`        // Image service root
	MinInterval     time.Duration `env:"CATGALLERY_MIN_INTERVAL" envDefault:"2s" yaml:"min_interval"`                // Minimum spacing between outbound calls
	MaxAttempts     int           `env:"CATGALLERY_MAX_ATTEMPTS" envDefault:"3" yaml:"max_attempts"`                 // Retry budget per fetch
	RequestTimeout  time.Duration `env:"CATGALLERY_REQUEST_TIMEOUT" envDefault:"10s" yaml:"request_timeout"`         // Per-attempt HTTP timeout
	MaxImageBytes   int64         `env:"CATGALLERY_MAX_IMAGE_BYTES" envDefault:"10485760" yaml:"max_image_bytes"`    // Larger bodies are rejected
	SessionTTL      time.Duration `env:"CATGALLERY_SESSION_TTL" envDefault:"30m" yaml:"session_ttl"`                 // Idle time after which a session ends
	JanitorSchedule string        `env:"CATGALLERY_JANITOR_SCHEDULE" envDefault:"@every 1m" yaml:"janitor_schedule"` // Cron spec for the expiry sweep
	Addr            string        `env:"CATGALLERY_ADDR" envDefault:":8888" yaml:"addr"`                             // Listen address
	ConfigFile      string        `env:"CATGALLERY_CONFIG" yaml:"-"`                                                 // Optional YAML overrides
}

// Load reads the environment (call godotenv first if a .env file should be
// honoured) and then applies the optional YAML file named by CATGALLERY_CONFIG.
func Load() (*Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg, opts); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}

	if cfg.ConfigFile != "" {
		if err := cfg.applyFile(cfg.ConfigFile); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url (CATGALLERY_BASE_URL) is invalid: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url (CATGALLERY_BASE_URL) must be an absolute http(s) URL, got %q", c.BaseURL)
	}
	if c.MinInterval <= 0 {
		return fmt.Errorf("min_interval (CATGALLERY_MIN_INTERVAL) must be positive")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts (CATGALLERY_MAX_ATTEMPTS) must be at least 1")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout (CATGALLERY_REQUEST_TIMEOUT) must be positive")
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("max_image_bytes (CATGALLERY_MAX_IMAGE_BYTES) must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl (CATGALLERY_SESSION_TTL) must be positive")
	}
	return nil
}

// ClientOptions converts the settings into options for catapi.NewClient.
func (c *Config) ClientOptions() []catapi.Option {
	return []catapi.Option{
		catapi.WithBaseURL(c.BaseURL),
		catapi.WithHTTPClient(&http.Client{Timeout: c.RequestTimeout}),
		catapi.WithMinInterval(c.MinInterval),
		catapi.WithMaxAttempts(c.MaxAttempts),
		catapi.WithMaxImageBytes(c.MaxImageBytes),
	}
}
