package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port           string
	SeedPath       string
	RateLimitRPS   float64
	RateLimitBurst int
	AdminPassword  string
	LogLevel       slog.Level
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		SeedPath:       getEnv("SEED_PATH", ""),
		RateLimitRPS:   getEnvFloat64("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
		LogLevel:       getEnvLevel("LOG_LEVEL", slog.LevelInfo),
	}
}

// AuthEnabled reports whether mutating routes require basic auth.
func (c *Config) AuthEnabled() bool {
	return c.AdminPassword != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat64(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvLevel(key string, fallback slog.Level) slog.Level {
	if val := os.Getenv(key); val != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(strings.TrimSpace(val))); err == nil {
			return level
		}
	}
	return fallback
}
