package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mind-engage/mindengage-courses/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Mode != config.ModeOffline || cfg.HTTPAddr != ":8080" || cfg.DBDriver != "sqlite" || cfg.StoreDriver != "sql" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.HMACSecret == "" {
		t.Fatal("offline mode should fall back to a dev secret")
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("timeout = %v", cfg.RequestTimeout)
	}
	if len(cfg.CORSOrigins()) != 3 {
		t.Fatalf("offline origins = %v", cfg.CORSOrigins())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MODE", "online")
	t.Setenv("AUTH_HMAC_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ORIGINS_ONLINE", " https://a.example , https://b.example ,")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Mode != config.ModeOnline || cfg.HMACSecret != "s3cret" || cfg.StoreDriver != "redis" || cfg.RedisDB != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	got := cfg.CORSOrigins()
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("origins = %q", got)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := "http_addr: \":9090\"\nsite_id: campus-1\n"
	if err := os.WriteFile(filepath.Join(dir, "config", "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" || cfg.SiteID != "campus-1" {
		t.Fatalf("file not applied: %+v", cfg)
	}
}

func TestOnlineRequiresSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MODE", "online")
	if _, err := config.Load(); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidateRejectsUnknownDrivers(t *testing.T) {
	base := config.Config{Mode: config.ModeOffline, DBDriver: "sqlite", StoreDriver: "sql", HMACSecret: "x"}
	if err := base.Validate(); err != nil {
		t.Fatalf("base invalid: %v", err)
	}
	bad := base
	bad.DBDriver = "mysql"
	if err := bad.Validate(); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("db driver: %v", err)
	}
	bad = base
	bad.StoreDriver = "mongo"
	if err := bad.Validate(); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("store driver: %v", err)
	}
}
