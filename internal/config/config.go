package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/alexanderramin/roamer/internal/domain"
	"github.com/alexanderramin/roamer/internal/optimizer"
)

type Config struct {
	Store   StoreConfig
	Log     LogConfig
	Search  SearchConfig
	Display DisplayConfig
}

type StoreConfig struct {
	Path string
}

type LogConfig struct {
	Level string
}

type SearchConfig struct {
	MaxPlans       int
	RepeatCap      int
	TopK           int
	HassleUnit     domain.Money
	SearchSpace    int
	Workers        int
	Timeout        time.Duration
	UnknownPromoAs domain.PromoRecurrence
}

// DisplayConfig adds a secondary currency to reports. An empty Currency
// shows USD only.
type DisplayConfig struct {
	Currency string
	Rate     float64
}

// Load reads an optional .env file, then ROAMER_* variables. Unset or
// unparsable numeric values fall back to their defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	storePath, err := defaultStorePath()
	if err != nil {
		return nil, err
	}

	unknownAs, err := domain.ParsePromoRecurrence(getEnv("ROAMER_UNKNOWN_PROMO", "unlimited"))
	if err != nil {
		return nil, fmt.Errorf("ROAMER_UNKNOWN_PROMO: %w", err)
	}
	if unknownAs == domain.PromoUnknown {
		return nil, fmt.Errorf("ROAMER_UNKNOWN_PROMO must be one-time or unlimited")
	}

	cfg := &Config{
		Store: StoreConfig{Path: getEnv("ROAMER_DB", storePath)},
		Log:   LogConfig{Level: getEnv("ROAMER_LOG_LEVEL", "info")},
		Search: SearchConfig{
			MaxPlans:       getIntEnv("ROAMER_MAX_PLANS", optimizer.DefaultMaxPlans),
			RepeatCap:      getIntEnv("ROAMER_REPEAT_CAP", optimizer.DefaultRepeatCap),
			TopK:           getIntEnv("ROAMER_TOP_K", optimizer.DefaultTopK),
			HassleUnit:     domain.Cents(getFloatEnv("ROAMER_HASSLE_UNIT", optimizer.DefaultHassleUnit.Dollars())),
			SearchSpace:    getIntEnv("ROAMER_SEARCH_SPACE", optimizer.DefaultSearchSpace),
			Workers:        getIntEnv("ROAMER_WORKERS", 0),
			Timeout:        getDurationEnv("ROAMER_TIMEOUT", 0),
			UnknownPromoAs: unknownAs,
		},
		Display: DisplayConfig{
			Currency: strings.ToUpper(getEnv("ROAMER_DISPLAY_CURRENCY", "")),
			Rate:     getFloatEnv("ROAMER_DISPLAY_RATE", 0),
		},
	}
	if cfg.Display.Currency != "" && cfg.Display.Rate <= 0 {
		return nil, fmt.Errorf("ROAMER_DISPLAY_RATE must be positive when ROAMER_DISPLAY_CURRENCY is set")
	}
	return cfg, nil
}

// SearchParams returns the engine parameters the config describes.
func (c *Config) SearchParams() optimizer.Params {
	return optimizer.Params{
		MaxPlans:       c.Search.MaxPlans,
		RepeatCap:      c.Search.RepeatCap,
		TopK:           c.Search.TopK,
		HassleUnit:     c.Search.HassleUnit,
		SearchSpace:    c.Search.SearchSpace,
		Workers:        c.Search.Workers,
		UnknownPromoAs: c.Search.UnknownPromoAs,
	}
}

func defaultStorePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".roamer", "roamer.db"), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getDurationEnv accepts Go durations ("45s", "2m") or plain seconds.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
