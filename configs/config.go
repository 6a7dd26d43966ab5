package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var loadEnv sync.Once

func Config(key string) string {
	loadEnv.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("Warning: .env file not found, reading from system environment variables")
		}
	})
	return os.Getenv(key)
}

// MustConfig fails the process when a required variable is missing, so a
// misconfigured deployment dies at startup instead of on first request.
func MustConfig(key string) string {
	v := Config(key)
	if v == "" {
		log.Fatalf("🔥 Required environment variable %s is not set", key)
	}
	return v
}

// IsProduction gates debug detail in error responses.
func IsProduction() bool {
	return Config("APP_ENV") == "production"
}
