// Package config loads TeamSync's server configuration from a YAML file,
// a .env file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Event backends
const (
	BackendNone  = "none"
	BackendRedis = "redis"
	BackendNATS  = "nats"
)

// ErrMissingDatabaseURL is returned by Validate when no database is configured
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Events   EventsConfig   `yaml:"events"`
	Session  SessionConfig  `yaml:"session"`
	Upload   UploadConfig   `yaml:"upload"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig selects the entity store. postgres:// URLs use PostgreSQL,
// sqlite: and file: URLs use SQLite.
type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	LogLevel     string `yaml:"log_level"` // silent, error, warn, info
}

// RedisConfig locates the Redis server used for sessions and events
type RedisConfig struct {
	URL string `yaml:"url"`
}

// EventsConfig selects where change events are published
type EventsConfig struct {
	Backend string `yaml:"backend"` // none, redis, nats
	Channel string `yaml:"channel"`
	NATSURL string `yaml:"nats_url"`
}

// SessionConfig configures login sessions
type SessionConfig struct {
	TTL          time.Duration `yaml:"ttl"`
	CookieName   string        `yaml:"cookie_name"`
	SecureCookie bool          `yaml:"secure_cookie"`
}

// UploadConfig limits request bodies carrying files
type UploadConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

// LogConfig configures the process logger
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`   // empty logs to stderr
}

// Load reads .env, then the config file, then applies environment overrides
// and defaults. A missing config file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}

	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv(os.Getenv)
	cfg.applyDefaults()
	return cfg, nil
}

// Default returns a configuration holding only defaults
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// getConfigPath returns the first config file that exists. TEAMSYNC_CONFIG
// must exist when set; the other locations are optional.
func getConfigPath() (string, error) {
	if explicit := os.Getenv("TEAMSYNC_CONFIG"); explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("failed to find config: %w", err)
		}
		return explicit, nil
	}

	candidates := []string{"teamsync.yaml"}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		candidates = append(candidates, filepath.Join(configHome, "teamsync", "config.yaml"))
	} else if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, ".config", "teamsync", "config.yaml"))
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// applyEnv overrides file values with the environment
func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	set(&c.Database.URL, "DATABASE_URL")
	set(&c.Redis.URL, "REDIS_URL")
	set(&c.Events.NATSURL, "NATS_URL")
	set(&c.Events.Backend, "TEAMSYNC_EVENTS")
	set(&c.Log.Level, "LOG_LEVEL")
	set(&c.Log.Format, "LOG_FORMAT")

	if port := strings.TrimSpace(getenv("PORT")); port != "" {
		c.Server.Addr = ":" + port
	}
	set(&c.Server.Addr, "TEAMSYNC_ADDR")

	if origins := getenv("CORS_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.Server.AllowedOrigins = append(c.Server.AllowedOrigins, o)
			}
		}
	}
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.LogLevel == "" {
		c.Database.LogLevel = "warn"
	}

	if c.Events.Backend == "" {
		switch {
		case c.Events.NATSURL != "":
			c.Events.Backend = BackendNATS
		case c.Redis.URL != "":
			c.Events.Backend = BackendRedis
		default:
			c.Events.Backend = BackendNone
		}
	}
	if c.Events.Channel == "" {
		c.Events.Channel = "teamsync.events"
	}

	if c.Session.TTL == 0 {
		c.Session.TTL = 7 * 24 * time.Hour
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "teamsync_session"
	}

	if c.Upload.MaxBytes == 0 {
		c.Upload.MaxBytes = 5 << 20
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate reports configuration the server cannot start with
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, ErrMissingDatabaseURL)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log format %q must be text or json", c.Log.Format))
	}
	switch c.Events.Backend {
	case BackendNone:
	case BackendRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("redis events need REDIS_URL"))
		}
	case BackendNATS:
		if c.Events.NATSURL == "" {
			errs = append(errs, errors.New("nats events need NATS_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown events backend %q", c.Events.Backend))
	}
	if c.Upload.MaxBytes < 0 {
		errs = append(errs, errors.New("upload.max_bytes cannot be negative"))
	}
	return errors.Join(errs...)
}
