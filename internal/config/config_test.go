package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Driver != DriverSQLite || cfg.Store.SQLitePath != "quiz.db" {
		t.Fatalf("unexpected store defaults: %+v", cfg.Store)
	}
	if cfg.Server.Port != "5000" {
		t.Fatalf("unexpected port %q", cfg.Server.Port)
	}
	if !cfg.SeedEnabled() {
		t.Fatalf("expected seeding enabled by default")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: "9090"
store:
  driver: memory
redis:
  addr: localhost:6379
  ttl: 30s
log:
  level: debug
quiz:
  seed: false
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Store.Driver != DriverMemory {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Encoding != "console" {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
	if cfg.SeedEnabled() {
		t.Fatalf("expected seeding disabled")
	}
	if got := TTLDuration(cfg.Redis.TTL, time.Minute); got != 30*time.Second {
		t.Fatalf("ttl = %v", got)
	}
}

func TestValidateRejectsPostgresWithoutURL(t *testing.T) {
	cfg := Default()
	cfg.Store.Driver = DriverPostgres
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for postgres without url")
	}
	cfg.Store.Driver = "mongo"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("empty ttl = %v", got)
	}
	if got := TTLDuration("bogus", time.Minute); got != time.Minute {
		t.Fatalf("invalid ttl = %v", got)
	}
}
