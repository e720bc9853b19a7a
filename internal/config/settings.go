package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// StorageDriver selects where carts are persisted.
type StorageDriver string

const (
	StorageFile     StorageDriver = "file"
	StoragePostgres StorageDriver = "postgres"
	StorageMemory   StorageDriver = "memory"
)

const (
	defaultHTTPMinInterval = 100 * time.Millisecond
	defaultMockAddr        = ":3000"
)

// Settings holds runtime settings read from the environment.
type Settings struct {
	APIBaseURL      string
	Storage         StorageDriver
	StorageDir      string
	DatabaseURL     string
	LogLevel        zapcore.Level
	HTTPMinInterval time.Duration
	OrderScheme     string
	MockAddr        string
}

// LoadSettings reads settings from the environment, loading a .env file first when present.
func LoadSettings() (Settings, error) {
	_ = godotenv.Load()
	return settingsFromEnv(os.Getenv)
}

func settingsFromEnv(lookup func(string) string) (Settings, error) {
	getEnv := func(key, def string) string {
		if v := strings.TrimSpace(lookup(key)); v != "" {
			return v
		}
		return def
	}

	settings := Settings{
		APIBaseURL:      getEnv("TABLEORDER_API_URL", ""),
		StorageDir:      getEnv("TABLEORDER_STORAGE_DIR", ""),
		DatabaseURL:     getEnv("TABLEORDER_DATABASE_URL", ""),
		OrderScheme:     getEnv("TABLEORDER_ORDER_SCHEME", ""),
		MockAddr:        getEnv("TABLEORDER_MOCK_ADDR", defaultMockAddr),
		HTTPMinInterval: defaultHTTPMinInterval,
		LogLevel:        zapcore.WarnLevel,
	}

	switch driver := StorageDriver(strings.ToLower(getEnv("TABLEORDER_STORAGE", string(StorageFile)))); driver {
	case StorageFile, StorageMemory:
		settings.Storage = driver
	case StoragePostgres:
		if settings.DatabaseURL == "" {
			return Settings{}, fmt.Errorf("TABLEORDER_DATABASE_URL is required for postgres storage")
		}
		settings.Storage = driver
	default:
		return Settings{}, fmt.Errorf("invalid TABLEORDER_STORAGE %q", driver)
	}

	if raw := getEnv("TABLEORDER_LOG_LEVEL", ""); raw != "" {
		level, err := zapcore.ParseLevel(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid TABLEORDER_LOG_LEVEL: %w", err)
		}
		settings.LogLevel = level
	}

	if raw := getEnv("TABLEORDER_HTTP_MIN_INTERVAL_MS", ""); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err == nil && ms >= 0 {
			settings.HTTPMinInterval = time.Duration(ms) * time.Millisecond
		}
	}
	return settings, nil
}
