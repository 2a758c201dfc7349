package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Store struct {
		Driver     string `yaml:"driver"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"store"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Log  Log `yaml:"log"`
	Quiz struct {
		// Seed loads the built-in questions into an empty store on start.
		Seed *bool `yaml:"seed"`
	} `yaml:"quiz"`
}

// Log configures the zap logger.
type Log struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
	// File enables a rotating JSON log file next to the console output.
	File string `yaml:"file"`
}

// Default mirrors a standalone deployment: SQLite file, no cache, info logs.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "5000"
	cfg.Store.Driver = DriverSQLite
	cfg.Store.SQLitePath = "quiz.db"
	cfg.Log.Level = "info"
	cfg.Log.Encoding = "console"
	return cfg
}

// Load reads YAML config from path on top of Default. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects unknown drivers and drivers missing their connection settings.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("store driver %q requires postgres.url", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return nil
}

// SeedEnabled defaults to true when quiz.seed is not set.
func (c Config) SeedEnabled() bool {
	return c.Quiz.Seed == nil || *c.Quiz.Seed
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
