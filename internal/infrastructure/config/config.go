package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"stockfolio/internal/infrastructure/scheduler"
)

const DefaultPath = "configs/config.toml"

type Config struct {
	App struct {
		LogLevel string `toml:"log_level"`
		// Ephemeral keeps positions in memory only when no store is enabled.
		Ephemeral bool `toml:"ephemeral"`
	} `toml:"app"`

	Quote struct {
		APIKey     string `toml:"api_key"`
		BaseURL    string `toml:"base_url"`
		TimeoutSec int    `toml:"timeout_sec"`
	} `toml:"quote"`

	SQLite struct {
		Enabled bool   `toml:"enabled"`
		Path    string `toml:"path"`
	} `toml:"sqlite"`

	Postgres struct {
		Enabled bool   `toml:"enabled"`
		DSN     string `toml:"dsn"`
	} `toml:"postgres"`

	Redis struct {
		Enabled    bool   `toml:"enabled"`
		Addr       string `toml:"addr"`
		Password   string `toml:"password"`
		DB         int    `toml:"db"`
		Prefix     string `toml:"prefix"`
		TTLSeconds int    `toml:"ttl_seconds"`
	} `toml:"redis"`

	Portfolio struct {
		RevalueAll bool `toml:"revalue_all"`
	} `toml:"portfolio"`

	Watch struct {
		Schedule string `toml:"schedule"`
	} `toml:"watch"`

	Display struct {
		Currency string `toml:"currency"`
	} `toml:"display"`
}

// Defaults returns a Config with every optional field set.
func Defaults() Config {
	var cfg Config
	cfg.App.LogLevel = "info"
	cfg.Quote.TimeoutSec = 10
	cfg.SQLite.Enabled = true
	cfg.SQLite.Path = "data/stockfolio.db"
	cfg.Redis.Addr = "127.0.0.1:6379"
	cfg.Redis.Prefix = "stockfolio"
	cfg.Redis.TTLSeconds = 60
	cfg.Portfolio.RevalueAll = true
	cfg.Watch.Schedule = "0 */5 * * * *"
	cfg.Display.Currency = "USD"
	return cfg
}

// Load decodes path over the defaults, applies .env and STOCKFOLIO_* overrides
// and validates the result. A missing file leaves the defaults in place.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	// .env is optional
	_ = godotenv.Load()
	applyEnvOverrides(&cfg)

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Quote.APIKey, "API_KEY")
	setStr(&cfg.Quote.APIKey, "STOCKFOLIO_API_KEY")
	setStr(&cfg.Quote.BaseURL, "STOCKFOLIO_QUOTE_BASE_URL")
	setStr(&cfg.App.LogLevel, "STOCKFOLIO_LOG_LEVEL")

	setBool(&cfg.SQLite.Enabled, "STOCKFOLIO_SQLITE_ENABLED")
	setStr(&cfg.SQLite.Path, "STOCKFOLIO_SQLITE_PATH")

	setBool(&cfg.Postgres.Enabled, "STOCKFOLIO_POSTGRES_ENABLED")
	setStr(&cfg.Postgres.DSN, "STOCKFOLIO_POSTGRES_DSN")

	setBool(&cfg.Redis.Enabled, "STOCKFOLIO_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "STOCKFOLIO_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "STOCKFOLIO_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "STOCKFOLIO_REDIS_DB")
}

func applyDefaults(cfg *Config) {
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = "info"
	}
	if cfg.Quote.TimeoutSec <= 0 {
		cfg.Quote.TimeoutSec = 10
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "stockfolio"
	}
	if cfg.Redis.TTLSeconds <= 0 {
		cfg.Redis.TTLSeconds = 60
	}
	if strings.TrimSpace(cfg.Watch.Schedule) == "" {
		cfg.Watch.Schedule = "0 */5 * * * *"
	}
	cfg.Display.Currency = strings.ToUpper(strings.TrimSpace(cfg.Display.Currency))
	if cfg.Display.Currency == "" {
		cfg.Display.Currency = "USD"
	}
}

// ErrMissingAPIKey is returned when no quote API key is configured.
var ErrMissingAPIKey = errors.New("quote.api_key is empty (set STOCKFOLIO_API_KEY or API_KEY)")

func validate(cfg *Config) error {
	cfg.Quote.APIKey = strings.TrimSpace(cfg.Quote.APIKey)
	if cfg.Quote.APIKey == "" {
		return ErrMissingAPIKey
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.App.LogLevel)); err != nil {
		return fmt.Errorf("app.log_level: %w", err)
	}
	if cfg.SQLite.Enabled && strings.TrimSpace(cfg.SQLite.Path) == "" {
		return errors.New("sqlite.path empty but enabled")
	}
	if cfg.Postgres.Enabled && strings.TrimSpace(cfg.Postgres.DSN) == "" {
		return errors.New("postgres.dsn empty but enabled")
	}
	if cfg.Redis.Enabled && strings.TrimSpace(cfg.Redis.Addr) == "" {
		return errors.New("redis.addr empty but enabled")
	}
	if err := scheduler.Validate(cfg.Watch.Schedule); err != nil {
		return fmt.Errorf("watch.schedule: %w", err)
	}
	return nil
}

// QuoteTimeout is the per-request timeout of the quote client.
func (c *Config) QuoteTimeout() time.Duration {
	return time.Duration(c.Quote.TimeoutSec) * time.Second
}

// RedisTTL is how long a cached quote stays fresh.
func (c *Config) RedisTTL() time.Duration {
	return time.Duration(c.Redis.TTLSeconds) * time.Second
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
