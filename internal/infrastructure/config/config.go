package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server struct {
		Host              string   `toml:"host"`
		Port              int      `toml:"port"`
		AllowedOrigins    []string `toml:"allowed_origins"`
		StreamIntervalSec int      `toml:"stream_interval_sec"`
	} `toml:"server"`

	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`

	// Auth maps pre-shared bearer tokens to user ids. A real deployment
	// swaps the static verifier for an identity-provider backed one.
	Auth struct {
		Tokens map[string]string `toml:"tokens"`
	} `toml:"auth"`

	MarketData struct {
		BaseURL    string `toml:"base_url"`
		TimeoutSec int    `toml:"timeout_sec"`
		MaxRetries int    `toml:"max_retries"`
	} `toml:"marketdata"`

	Portfolio struct {
		StartingCash float64 `toml:"starting_cash"`
	} `toml:"portfolio"`

	Storage struct {
		Driver string `toml:"driver"`

		SQLite struct {
			Path string `toml:"path"`
		} `toml:"sqlite"`

		Redis struct {
			Addr     string `toml:"addr"`
			Password string `toml:"password"`
			DB       int    `toml:"db"`
			Prefix   string `toml:"prefix"`
		} `toml:"redis"`

		Postgres struct {
			DSN string `toml:"dsn"`
		} `toml:"postgres"`
	} `toml:"storage"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.StreamIntervalSec <= 0 {
		cfg.Server.StreamIntervalSec = 15
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.MarketData.BaseURL == "" {
		cfg.MarketData.BaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.MarketData.TimeoutSec <= 0 {
		cfg.MarketData.TimeoutSec = 10
	}
	if cfg.MarketData.MaxRetries < 0 {
		cfg.MarketData.MaxRetries = 0
	}
	if cfg.Portfolio.StartingCash <= 0 {
		cfg.Portfolio.StartingCash = 100000.0
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "sqlite"
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = "data/trademo.db"
	}
	if cfg.Storage.Redis.Prefix == "" {
		cfg.Storage.Redis.Prefix = "trademo"
	}
}

func validate(cfg *Config) error {
	switch cfg.Storage.Driver {
	case "memory", "sqlite":
	case "redis":
		if strings.TrimSpace(cfg.Storage.Redis.Addr) == "" {
			return errors.New("storage.redis.addr empty but driver is redis")
		}
	case "postgres":
		if strings.TrimSpace(cfg.Storage.Postgres.DSN) == "" {
			return errors.New("storage.postgres.dsn empty but driver is postgres")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", cfg.Storage.Driver)
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
