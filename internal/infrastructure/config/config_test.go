package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("port: got %d, want 8000", cfg.Server.Port)
	}
	if cfg.Portfolio.StartingCash != 100000.0 {
		t.Errorf("starting cash: got %v, want 100000", cfg.Portfolio.StartingCash)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("driver: got %q, want sqlite", cfg.Storage.Driver)
	}
	if cfg.MarketData.BaseURL == "" {
		t.Error("marketdata base url default missing")
	}
	if cfg.Addr() != "0.0.0.0:8000" {
		t.Errorf("addr: got %q", cfg.Addr())
	}
}

func TestLoadFullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[server]
host = "127.0.0.1"
port = 9090
allowed_origins = ["http://localhost:5173"]

[auth]
[auth.tokens]
devtoken = "user-1"

[storage]
driver = "REDIS"

[storage.redis]
addr = "localhost:6379"
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Driver != "redis" {
		t.Errorf("driver not normalized: %q", cfg.Storage.Driver)
	}
	if cfg.Auth.Tokens["devtoken"] != "user-1" {
		t.Errorf("auth tokens: %+v", cfg.Auth.Tokens)
	}
	if len(cfg.Server.AllowedOrigins) != 1 {
		t.Errorf("origins: %+v", cfg.Server.AllowedOrigins)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	_, err := Load(writeConfig(t, `
[storage]
driver = "mongodb"
`))
	if err == nil {
		t.Fatal("expected unknown driver error")
	}
}

func TestLoadRejectsRedisWithoutAddr(t *testing.T) {
	_, err := Load(writeConfig(t, `
[storage]
driver = "redis"
`))
	if err == nil {
		t.Fatal("expected missing addr error")
	}
}
