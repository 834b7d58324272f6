package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ServerName    = "Evolution API Server"
	ServerVersion = "1.0.0"
)

// Config holds everything read from the environment at process start.
type Config struct {
	Evolution   EvolutionConfig
	Webhook     WebhookConfig
	MetricsAddr string
	LogLevel    slog.Level
}

// EvolutionConfig describes how to reach the remote gateway.
type EvolutionConfig struct {
	BaseURL  string
	APIKey   string
	Instance string
	Timeout  time.Duration
}

// WebhookConfig configures the local webhook listener.
type WebhookConfig struct {
	Port          int
	Path          string
	AllowedNumber string // empty means every sender is kept
	AutoStart     bool
}

// Default returns a Config with the documented defaults.
func Default() Config {
	return Config{
		Evolution: EvolutionConfig{
			BaseURL:  "https://your-evolution-api.example.com",
			APIKey:   "your-api-key",
			Instance: "default-instance",
			Timeout:  30 * time.Second,
		},
		Webhook: WebhookConfig{
			Port: 3001,
			Path: "/webhook",
		},
		LogLevel: slog.LevelInfo,
	}
}

// Load reads an optional .env file, then overlays the process environment.
func Load() Config {
	// A missing .env file is the normal case.
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv. Absent or malformed values keep their defaults.
func FromEnv(getenv func(string) string) Config {
	cfg := Default()

	envStr := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	envInt := func(key string, dst *int) {
		if v, err := strconv.Atoi(strings.TrimSpace(getenv(key))); err == nil && v >= 0 {
			*dst = v
		}
	}

	envStr("EVOLUTION_API_URL", &cfg.Evolution.BaseURL)
	envStr("EVOLUTION_API_KEY", &cfg.Evolution.APIKey)
	envStr("EVOLUTION_API_INSTANCE", &cfg.Evolution.Instance)
	if d, err := time.ParseDuration(strings.TrimSpace(getenv("EVOLUTION_API_TIMEOUT"))); err == nil && d > 0 {
		cfg.Evolution.Timeout = d
	}
	cfg.Evolution.BaseURL = strings.TrimRight(cfg.Evolution.BaseURL, "/")

	envInt("WEBHOOK_PORT", &cfg.Webhook.Port)
	envStr("WEBHOOK_PATH", &cfg.Webhook.Path)
	if !strings.HasPrefix(cfg.Webhook.Path, "/") {
		cfg.Webhook.Path = "/" + cfg.Webhook.Path
	}
	envStr("WEBHOOK_ALLOWED_NUMBER", &cfg.Webhook.AllowedNumber)
	cfg.Webhook.AutoStart = getenv("ENABLE_WEBHOOK") == "true"

	envStr("METRICS_ADDR", &cfg.MetricsAddr)

	switch strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL"))) {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "warn", "warning":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	}

	return cfg
}
