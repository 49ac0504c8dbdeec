// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds every knob the service reads at startup.
type Config struct {
	ListenAddr    string
	GinMode       string
	DatabaseDSN   string
	RedisAddr     string
	SegmenterAddr string
	JWTSecret     string
	JWTAudience   string
	OpenAIAPIKey  string
}

// Load reads the environment (and .env if present) into a Config.
func Load() *Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		GinMode:       getEnv("GIN_MODE", "release"),
		DatabaseDSN:   getEnv("DATABASE_DSN", "host=postgres user=postgres password=postgres dbname=colovision port=5432 sslmode=disable"),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		SegmenterAddr: getEnv("SEGMENTER_ADDR", "segmenter:50051"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret"),
		JWTAudience:   os.Getenv("JWT_AUDIENCE"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
