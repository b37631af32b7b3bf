package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          string
	LogLevel      string
	LogPretty     bool
	ClientOrigin  string
	CountriesFile string
	DefaultLocale string
	DailySalt     string
	TokenSecret   string
	SecureCookies bool
	Store         StoreConfig
	Defaults      ModeDefaults
}

type StoreConfig struct {
	Backend    string
	SQLitePath string
	RedisAddr  string
	Retention  time.Duration
}

// ModeDefaults are the player's global settings used to seed each new day.
type ModeDefaults struct {
	NoImageMode  bool
	RotationMode bool
}

func Load() (*Config, error) {
	pretty, err := getBool("LOG_PRETTY", false)
	if err != nil {
		return nil, err
	}
	noImage, err := getBool("NO_IMAGE_MODE", false)
	if err != nil {
		return nil, err
	}
	rotation, err := getBool("ROTATION_MODE", false)
	if err != nil {
		return nil, err
	}
	retention, err := time.ParseDuration(getEnv("STORE_RETENTION", "48h"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_RETENTION: %w", err)
	}

	cfg := &Config{
		Port:          getEnv("PORT", "5175"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogPretty:     pretty,
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		CountriesFile: getEnv("COUNTRIES_FILE", ""),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		DailySalt:     getEnv("DAILY_SALT", "local_dev_salt"),
		TokenSecret:   getEnv("TOKEN_SECRET", "dev_secret_change_me"),
		SecureCookies: os.Getenv("NODE_ENV") == "production",
		Store: StoreConfig{
			Backend:    getEnv("STORE_BACKEND", "memory"),
			SQLitePath: getEnv("SQLITE_PATH", "./data/worldle.db"),
			RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
			Retention:  retention,
		},
		Defaults: ModeDefaults{
			NoImageMode:  noImage,
			RotationMode: rotation,
		},
	}

	switch cfg.Store.Backend {
	case "memory", "sqlite", "redis":
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q", cfg.Store.Backend)
	}
	if cfg.DailySalt == "" {
		return nil, fmt.Errorf("DAILY_SALT is required")
	}
	if cfg.TokenSecret == "" {
		return nil, fmt.Errorf("TOKEN_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
