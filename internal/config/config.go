// Package config loads process configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DevelopmentSecret is the fallback JWT and encryption secret. Validate warns when it is in use.
const DevelopmentSecret = "development-secret-change-in-production"

// Config is the root configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	LLM      LLMConfig      `yaml:"llm"`
	Watcher  WatcherConfig  `yaml:"watcher"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig configures the provider registry database
type DatabaseConfig struct {
	// URL is a postgres:// connection string or a SQLite file path
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// RedisConfig configures the optional Redis backend. An empty URL disables it.
type RedisConfig struct {
	URL           string        `yaml:"url"`
	ModelCacheTTL time.Duration `yaml:"model_cache_ttl"`
}

// AuthConfig configures API tokens and secret-at-rest encryption
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	// SecretKey derives the provider API key encryption key. Defaults to JWTSecret.
	SecretKey string        `yaml:"secret_key"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// LLMConfig configures outbound completion calls
type LLMConfig struct {
	Timeout     time.Duration `yaml:"timeout"` // per-call transport deadline; 0 disables it
	Temperature float64       `yaml:"temperature"`
}

// WatcherConfig configures the inbox watcher
type WatcherConfig struct {
	Inbox       string `yaml:"inbox"`
	Outbox      string `yaml:"outbox"`
	Concurrency int    `yaml:"concurrency"`
	// ProviderID and ModelName apply to requests that leave them empty
	ProviderID string `yaml:"provider_id"`
	ModelName  string `yaml:"model_name"`
}

// LoggingConfig configures the slog handler
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in defaults
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8483,
			WriteTimeout: 6 * time.Minute,
		},
		Database: DatabaseConfig{
			URL:             "notegen.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: time.Minute,
		},
		Redis: RedisConfig{
			ModelCacheTTL: 10 * time.Minute,
		},
		Auth: AuthConfig{
			JWTSecret: DevelopmentSecret,
			TokenTTL:  24 * time.Hour,
		},
		LLM: LLMConfig{
			Timeout:     5 * time.Minute,
			Temperature: 0.7,
		},
		Watcher: WatcherConfig{
			Inbox:       "inbox",
			Outbox:      "outbox",
			Concurrency: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path (when non-empty) over the defaults, then applies environment overrides.
// A missing file at the default path is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// env-only configuration
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overrides fields from the environment
func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("NOTEGEN_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("PORT", getEnvInt("NOTEGEN_PORT", cfg.Server.Port))
	if origins := getEnv("NOTEGEN_ALLOWED_ORIGINS", ""); origins != "" {
		cfg.Server.AllowedOrigins = splitList(origins)
	}
	cfg.Server.WriteTimeout = getEnvDuration("NOTEGEN_WRITE_TIMEOUT", cfg.Server.WriteTimeout)

	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)
	cfg.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)

	cfg.Redis.URL = getEnv("REDIS_URL", cfg.Redis.URL)
	cfg.Redis.ModelCacheTTL = getEnvDuration("NOTEGEN_MODEL_CACHE_TTL", cfg.Redis.ModelCacheTTL)

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.SecretKey = getEnv("NOTEGEN_SECRET_KEY", cfg.Auth.SecretKey)
	cfg.Auth.TokenTTL = getEnvDuration("NOTEGEN_TOKEN_TTL", cfg.Auth.TokenTTL)

	cfg.LLM.Timeout = getEnvDuration("NOTEGEN_LLM_TIMEOUT", cfg.LLM.Timeout)
	cfg.LLM.Temperature = getEnvFloat("NOTEGEN_TEMPERATURE", cfg.LLM.Temperature)

	cfg.Watcher.Inbox = getEnv("NOTEGEN_INBOX", cfg.Watcher.Inbox)
	cfg.Watcher.Outbox = getEnv("NOTEGEN_OUTBOX", cfg.Watcher.Outbox)
	cfg.Watcher.Concurrency = getEnvInt("NOTEGEN_WATCH_CONCURRENCY", cfg.Watcher.Concurrency)
	cfg.Watcher.ProviderID = getEnv("NOTEGEN_PROVIDER_ID", cfg.Watcher.ProviderID)
	cfg.Watcher.ModelName = getEnv("NOTEGEN_MODEL_NAME", cfg.Watcher.ModelName)

	cfg.Logging.Level = getEnv("NOTEGEN_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("NOTEGEN_LOG_FORMAT", cfg.Logging.Format)
}

// Validate fills derived defaults and rejects unusable values
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if strings.TrimSpace(c.Database.URL) == "" {
		return errors.New("database.url is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.Auth.SecretKey == "" {
		c.Auth.SecretKey = c.Auth.JWTSecret
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be within [0, 2], got %v", c.LLM.Temperature)
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("llm.timeout must not be negative")
	}
	if c.Watcher.Concurrency < 1 {
		c.Watcher.Concurrency = 1
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// UsesDevelopmentSecret reports whether the fallback secret is in use
func (c *Config) UsesDevelopmentSecret() bool {
	return c.Auth.JWTSecret == DevelopmentSecret || c.Auth.SecretKey == DevelopmentSecret
}

// SlogLevel parses the configured level
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}

// NewLogger builds a slog.Logger writing to stderr in the configured format
func (l LoggingConfig) NewLogger() *slog.Logger {
	level, err := l.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
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
