package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// GlobalMet API endpoint and bearer-style auth token.
	GlobalMetURL   string
	GlobalMetToken string

	// HTTPTimeout bounds the outbound call to the GlobalMet API.
	HTTPTimeout time.Duration

	// Timezone is the station's fixed named timezone; "today" and all
	// time-of-day formatting are resolved in it.
	Timezone string

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.GlobalMetURL = os.Getenv("GLOBALMET_API_URL")
	if cfg.GlobalMetURL == "" {
		return nil, fmt.Errorf("GLOBALMET_API_URL is required")
	}

	cfg.GlobalMetToken = os.Getenv("GLOBALMET_API_TOKEN")
	if cfg.GlobalMetToken == "" {
		return nil, fmt.Errorf("GLOBALMET_API_TOKEN is required")
	}

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Timezone = getenvDefault("STATION_TIMEZONE", "America/Hermosillo")
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
