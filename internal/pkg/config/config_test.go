package config

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8080/api" {
		t.Errorf("unexpected base url: %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 60*time.Second || cfg.API.ReportTimeout != 120*time.Second {
		t.Errorf("unexpected timeouts: %v %v", cfg.API.Timeout, cfg.API.ReportTimeout)
	}
	if cfg.Store.Backend != "sqlite" {
		t.Errorf("unexpected backend: %s", cfg.Store.Backend)
	}
	if filepath.Base(cfg.Store.Path) != "session.db" {
		t.Errorf("expected derived store path, got %s", cfg.Store.Path)
	}
	if !strings.HasSuffix(cfg.Reports.Dir, "reports") {
		t.Errorf("expected derived report dir, got %s", cfg.Reports.Dir)
	}
	if cfg.FakeAPI.TokenTTL != 24*time.Hour || cfg.FakeAPI.MaxUpload != 10<<20 || !cfg.FakeAPI.SeedCatalog {
		t.Errorf("unexpected fake API defaults: %+v", cfg.FakeAPI)
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"STOREFRONT_API_URL": "https://shop.example.com/api",
		"STOREFRONT_TIMEOUT": "5s",
		"STORE_BACKEND":      "redis",
		"REDIS_ADDR":         "cache:6380",
		"SESSION_TTL":        "24h",
		"STORE_PATH":         "/tmp/s.db",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.API.BaseURL != "https://shop.example.com/api" || cfg.API.Timeout != 5*time.Second {
		t.Errorf("api overrides not applied: %+v", cfg.API)
	}
	if cfg.Store.Backend != "redis" || cfg.Store.Path != "/tmp/s.db" {
		t.Errorf("store overrides not applied: %+v", cfg.Store)
	}
	if cfg.Redis.Addr != "cache:6380" || cfg.Redis.SessionTTL != 24*time.Hour {
		t.Errorf("redis overrides not applied: %+v", cfg.Redis)
	}
}

func TestLoadWith_UnknownBackend(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_BACKEND": "etcd",
	}))
	if err == nil {
		t.Fatal("expected error for unsupported backend")
	}
}
