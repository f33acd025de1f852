// Package config resolves CLI settings. Later sources win:
// defaults, a YAML file, environment variables, then command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"alumni/logging"
)

// Environment variable names.
const (
	EnvConfigFile  = "ALUMNI_CONFIG"
	EnvAPIURL      = "ALUMNI_API_URL"
	EnvTimeout     = "ALUMNI_TIMEOUT"
	EnvStorage     = "ALUMNI_STORAGE"
	EnvSessionFile = "ALUMNI_SESSION_FILE"
	EnvSessionKey  = "ALUMNI_SESSION_KEY"
	EnvNamespace   = "ALUMNI_NAMESPACE"
	EnvSessionTTL  = "ALUMNI_SESSION_TTL"
	EnvRedisURL    = "REDIS_URL"
	EnvDatabaseURL = "DATABASE_URL"
	EnvLogLevel    = "ALUMNI_LOG_LEVEL"
	EnvLogFormat   = "ALUMNI_LOG_FORMAT"
)

// Session storage backends.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type Config struct {
	APIURL      string        `yaml:"api_url"`
	Timeout     time.Duration `yaml:"timeout"`
	Storage     string        `yaml:"storage"`
	SessionFile string        `yaml:"session_file,omitempty"`
	SessionKey  string        `yaml:"session_key,omitempty"`
	Namespace   string        `yaml:"namespace"`
	SessionTTL  time.Duration `yaml:"session_ttl"`
	RedisURL    string        `yaml:"redis_url,omitempty"`
	DatabaseURL string        `yaml:"database_url,omitempty"`
	LogLevel    string        `yaml:"log_level"`
	LogFormat   string        `yaml:"log_format"`
}

func Default() *Config {
	return &Config{
		APIURL:     "http://localhost:5000/api",
		Timeout:    30 * time.Second,
		Storage:    StorageFile,
		Namespace:  "default",
		SessionTTL: 7 * 24 * time.Hour,
		LogLevel:   "warn",
		LogFormat:  "text",
	}
}

// LoadDotEnv reads .env outside production. A missing file is not an error.
func LoadDotEnv() {
	if os.Getenv("APP_ENV") == "production" {
		return
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "err", err)
	}
}

// Load applies the YAML file at path (skipped when empty) and then the
// environment on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path from user-provided CLI config
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.APIURL = getEnvAsString(EnvAPIURL, c.APIURL)
	c.Timeout = getEnvAsDuration(EnvTimeout, c.Timeout)
	c.Storage = getEnvAsString(EnvStorage, c.Storage)
	c.SessionFile = getEnvAsString(EnvSessionFile, c.SessionFile)
	c.SessionKey = getEnvAsString(EnvSessionKey, c.SessionKey)
	c.Namespace = getEnvAsString(EnvNamespace, c.Namespace)
	c.SessionTTL = getEnvAsDuration(EnvSessionTTL, c.SessionTTL)
	c.RedisURL = getEnvAsString(EnvRedisURL, c.RedisURL)
	c.DatabaseURL = getEnvAsString(EnvDatabaseURL, c.DatabaseURL)
	c.LogLevel = getEnvAsString(EnvLogLevel, c.LogLevel)
	c.LogFormat = getEnvAsString(EnvLogFormat, c.LogFormat)
}

// BindFlags registers global flags on fs, defaulting to the current values,
// so parsed flags override everything loaded before.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.APIURL, "api", c.APIURL, "backend base URL")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "per-request timeout (0 disables)")
	fs.StringVar(&c.Storage, "storage", c.Storage, "session storage: memory, file, redis, postgres")
	fs.StringVar(&c.SessionFile, "session-file", c.SessionFile, "session file path for file storage")
	fs.StringVar(&c.Namespace, "namespace", c.Namespace, "session namespace for redis and postgres storage")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: "+logging.LevelNames())
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format: text or json")
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api url %q must be absolute", c.APIURL)
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}

	switch strings.ToLower(c.Storage) {
	case StorageMemory, StorageFile:
	case StorageRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("redis storage needs %s", EnvRedisURL)
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("postgres storage needs %s", EnvDatabaseURL)
		}
	default:
		return fmt.Errorf("unknown storage %q (valid: memory, file, redis, postgres)", c.Storage)
	}

	if err := logging.Validate(c.LogLevel); err != nil {
		return err
	}
	return logging.ValidateFormat(c.LogFormat)
}

// Logging returns the logging options carried by c.
func (c *Config) Logging() logging.Options {
	return logging.Options{Level: c.LogLevel, Format: c.LogFormat}
}
