package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// ConsoleViewer is the viewer identity used when TAGDECK_VIEWER is unset.
var ConsoleViewer = uuid.MustParse("00000000-0000-4000-8000-000000000001")

// Config holds runtime settings for the CLI app.
type Config struct {
	DBPath      string        `env:"TAGDECK_DB_PATH" envDefault:"tagdeck.db"`
	CatalogPath string        `env:"TAGDECK_CATALOG_PATH" envDefault:"tags.yaml"`
	MenuPath    string        `env:"TAGDECK_MENU_PATH" envDefault:"menu.yaml"`
	RedisURL    string        `env:"TAGDECK_REDIS_URL"`
	RedisPrefix string        `env:"TAGDECK_REDIS_PREFIX" envDefault:"tagdeck:"`
	LogLevel    string        `env:"TAGDECK_LOG_LEVEL" envDefault:"info"`
	LogFile     string        `env:"TAGDECK_LOG_FILE" envDefault:"tagdeck.log"`
	Locale      string        `env:"TAGDECK_LOCALE" envDefault:"en"`
	Viewer      string        `env:"TAGDECK_VIEWER"`
	Tick        time.Duration `env:"TAGDECK_TICK" envDefault:"50ms"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("TAGDECK_DB_PATH is required")
	}
	if c.CatalogPath == "" {
		return errors.New("TAGDECK_CATALOG_PATH is required")
	}
	if c.Tick <= 0 {
		return fmt.Errorf("TAGDECK_TICK must be positive: %s", c.Tick)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("TAGDECK_LOCALE is not a language tag: %s", c.Locale)
	}
	if c.Viewer != "" {
		if _, err := uuid.Parse(c.Viewer); err != nil {
			return fmt.Errorf("TAGDECK_VIEWER must be a UUID: %s", c.Viewer)
		}
	}
	return nil
}

// UseRedisFavorites reports whether favorites live in Redis instead of SQLite.
func (c Config) UseRedisFavorites() bool {
	return c.RedisURL != ""
}

func (c Config) ViewerID() uuid.UUID {
	if id, err := uuid.Parse(c.Viewer); err == nil {
		return id
	}
	return ConsoleViewer
}

func (c Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("TAGDECK_LOG_LEVEL must be debug, info, warn or error: %s", s)
	}
}
