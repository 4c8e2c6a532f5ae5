// Package config loads server settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cvhariharan/actordir/store"
)

type Config struct {
	Domain    string          `yaml:"domain"`
	Port      int             `yaml:"port"`
	LogLevel  string          `yaml:"log_level"`
	Store     StoreConfig     `yaml:"store"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type StoreConfig struct {
	Backend  string         `yaml:"backend"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type TelemetryConfig struct {
	Retention time.Duration `yaml:"retention"`
}

func Default() Config {
	return Config{
		Domain:   "localhost:8000",
		Port:     8000,
		LogLevel: "info",
		Store: StoreConfig{
			Backend: store.BackendMemory,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "actordir:",
			},
		},
		Telemetry: TelemetryConfig{Retention: 5 * time.Minute},
	}
}

// Load reads path (if non-empty) over the defaults, then applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Domain = getString("DOMAIN", c.Domain)
	c.LogLevel = getString("LOG_LEVEL", c.LogLevel)
	c.Store.Backend = strings.ToLower(getString("STORE_BACKEND", c.Store.Backend))
	c.Store.Redis.Addr = getString("REDIS_ADDR", c.Store.Redis.Addr)
	c.Store.Redis.Password = getString("REDIS_PASSWORD", c.Store.Redis.Password)
	c.Store.Redis.Prefix = getString("REDIS_PREFIX", c.Store.Redis.Prefix)
	c.Store.Postgres.DSN = getString("DATABASE_URL", c.Store.Postgres.DSN)

	var err error
	if c.Port, err = getInt("PORT", c.Port); err != nil {
		return err
	}
	if c.Store.Redis.DB, err = getInt("REDIS_DB", c.Store.Redis.DB); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("LATENCY_RETENTION"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid LATENCY_RETENTION %q: %w", v, err)
		}
		c.Telemetry.Retention = d
	}
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Domain) == "" {
		return errors.New("domain must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Telemetry.Retention <= 0 {
		return errors.New("telemetry retention must be positive")
	}
	switch c.Store.Backend {
	case store.BackendMemory:
	case store.BackendRedis:
		if c.Store.Redis.Addr == "" {
			return errors.New("redis backend requires an address")
		}
	case store.BackendPostgres:
		if c.Store.Postgres.DSN == "" {
			return errors.New("postgres backend requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func getString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return parsed, nil
}
