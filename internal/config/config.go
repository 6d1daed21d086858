package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	API      APIConfig      `yaml:"api"`
	Session  SessionConfig  `yaml:"session"`
	Realtime RealtimeConfig `yaml:"realtime"`
	Geo      GeoConfig      `yaml:"geo"`
}

// APIConfig configures the HTTP façade.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	// MaxAttempts and Backoff apply to idempotent GETs only.
	MaxAttempts int           `yaml:"max_attempts"`
	Backoff     time.Duration `yaml:"backoff"`
	// LoginPath is where the client navigates after a forced logout.
	LoginPath    string `yaml:"login_path"`
	IPServiceURL string `yaml:"ip_service_url"`
}

type SessionConfig struct {
	DatabasePath string `yaml:"database_path"`
}

type RealtimeConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type GeoConfig struct {
	HighAccuracy       bool          `yaml:"high_accuracy"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	ContinuousInterval time.Duration `yaml:"continuous_interval"`
	// PushesPerMinute bounds continuous-update calls to the backend.
	PushesPerMinute   int `yaml:"pushes_per_minute"`
	DefaultDistanceKM int `yaml:"default_distance_km"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		API: APIConfig{
			BaseURL:      getEnv("MESHLINE_BASE_URL", "https://api.meshline.app"),
			Timeout:      15 * time.Second,
			MaxAttempts:  3,
			Backoff:      500 * time.Millisecond,
			LoginPath:    "/login",
			IPServiceURL: getEnv("MESHLINE_IP_SERVICE_URL", "https://ipapi.co/json/"),
		},
		Session: SessionConfig{
			DatabasePath: getEnv("MESHLINE_SESSION_PATH", "meshline.db"),
		},
		Realtime: RealtimeConfig{
			Endpoint: getEnv("MESHLINE_REALTIME_ENDPOINT", "wss://rt.meshline.app"),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields and fills nested zero values with defaults.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = 15 * time.Second
	}
	if c.API.MaxAttempts <= 0 {
		c.API.MaxAttempts = 3
	}
	if c.API.Backoff <= 0 {
		c.API.Backoff = 500 * time.Millisecond
	}
	if c.API.LoginPath == "" {
		c.API.LoginPath = "/login"
	}
	if c.Session.DatabasePath == "" {
		return fmt.Errorf("session.database_path is required")
	}
	if c.Geo.RequestTimeout <= 0 {
		c.Geo.RequestTimeout = 10 * time.Second
	}
	if c.Geo.ContinuousInterval <= 0 {
		c.Geo.ContinuousInterval = 30 * time.Second
	}
	if c.Geo.PushesPerMinute <= 0 {
		c.Geo.PushesPerMinute = 4
	}
	if c.Geo.DefaultDistanceKM <= 0 {
		c.Geo.DefaultDistanceKM = 10
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
