package internal

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Port     uint16
	Widget   WidgetConfig
	Dir      DirectoryConfig
}

// DirectoryConfig points at the remote locality directory service.
type DirectoryConfig struct {
	// BaseURL of the lookup endpoint. Empty means the public directory.
	BaseURL string

	// Timeout for a single lookup request.
	Timeout time.Duration
}

// WidgetConfig tunes the per-session validation widget.
type WidgetConfig struct {
	// DebounceDelay is the quiescence window before a field edit triggers
	// a lookup.
	DebounceDelay time.Duration

	// SessionTTL is how long an idle form session is kept alive.
	SessionTTL time.Duration

	// TemplatesDir and StaticDir hold the form's templates and assets.
	TemplatesDir string
	StaticDir    string
}

func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Default().Warn(".env file not found, using environment variables and defaults")
	}

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvInt("PORT", 3000),
		Widget: WidgetConfig{
			DebounceDelay: getEnvDuration("WIDGET_DEBOUNCE_DELAY", time.Second),
			SessionTTL:    getEnvDuration("WIDGET_SESSION_TTL", 30*time.Minute),
			TemplatesDir:  getEnv("TEMPLATES_DIR", "web/templates"),
			StaticDir:     getEnv("STATIC_DIR", "web/static"),
		},
		Dir: DirectoryConfig{
			BaseURL: getEnv("DIRECTORY_BASE_URL", ""),
			Timeout: getEnvDuration("DIRECTORY_TIMEOUT", 10*time.Second),
		},
	}

	// Validate env
	if cfg.Env != "dev" && cfg.Env != "prod" {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.Widget.DebounceDelay <= 0 {
		return nil, fmt.Errorf("WIDGET_DEBOUNCE_DELAY must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		slog.Default().Warn("Invalid duration value", slog.String("key", key), slog.String("value", value))
	}
	return defaultValue
}
