// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Defaults for the two bundled providers. Both can be pointed elsewhere
// (e.g. at a test double) via environment variables.
const (
	defaultProvider1URL = "https://assignment.devotel.io/api/provider1/jobs"
	defaultProvider2URL = "https://assignment.devotel.io/api/provider2/jobs"
)

// Config holds all runtime configuration for the aggregator service.
type Config struct {
	Port              string
	DatabaseURL       string
	RedisURL          string // optional — sync events are skipped when empty
	Provider1URL      string
	Provider2URL      string
	SyncIntervalHours int // how often the cron job fires
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	interval := 1
	if s := os.Getenv("SYNC_INTERVAL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("SYNC_INTERVAL_HOURS must be a positive integer, got %q", s)
		}
		interval = v
	}

	port := os.Getenv("AGGREGATOR_PORT")
	if port == "" {
		port = "8080"
	}

	p1 := os.Getenv("PROVIDER1_URL")
	if p1 == "" {
		p1 = defaultProvider1URL
	}
	p2 := os.Getenv("PROVIDER2_URL")
	if p2 == "" {
		p2 = defaultProvider2URL
	}

	return &Config{
		Port:              port,
		DatabaseURL:       dbURL,
		RedisURL:          os.Getenv("REDIS_URL"),
		Provider1URL:      p1,
		Provider2URL:      p2,
		SyncIntervalHours: interval,
	}, nil
}
