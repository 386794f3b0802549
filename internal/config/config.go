package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv          string
	Port            string
	BaseURL         string
	DatabaseURL     string
	RedisURL        string
	GeminiAPIKey    string
	GeminiModel     string
	AgoraAppID      string
	AgoraToken      string
	DiscussionStore string
	LogLevel        string
	LogFormat       string
}

func Load() (*Config, error) {
	// Optional .env file for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		BaseURL:         getEnv("BASE_URL", ""),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisURL:        getEnv("REDIS_URL", ""),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		AgoraAppID:      getEnv("AGORA_APP_ID", ""),
		AgoraToken:      getEnv("AGORA_TOKEN", ""),
		DiscussionStore: getEnv("DISCUSSION_STORE", "postgres"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}
	if cfg.DiscussionStore != "postgres" && cfg.DiscussionStore != "memory" {
		return nil, fmt.Errorf("DISCUSSION_STORE must be 'postgres' or 'memory', got %q", cfg.DiscussionStore)
	}

	// The AI key is server-side only. A missing key is allowed at startup: the
	// dependent endpoints fail with a configuration error instead.
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
