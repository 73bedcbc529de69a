// Package config reads the service configuration from environment
// variables, so the binary runs unchanged in a container.
package config

import (
	"os"
	"strings"
	"time"
)

// Config holds all runtime settings.
type Config struct {
	Port string

	// Comma-separated vendor credentials. Either list may be empty;
	// that vendor then contributes no vehicles.
	SamsaraTokens []string
	MotiveTokens  []string

	RefreshInterval time.Duration
	FreshnessWindow time.Duration
	RequestTimeout  time.Duration

	// StorageType selects the preferences backend: memory, sqlite or
	// dynamodb.
	StorageType string
	SQLitePath  string
	DynamoTable string
}

// Load reads the environment. Missing variables fall back to defaults;
// validation of vendor credentials happens later, at aggregation time.
func Load() Config {
	return Config{
		Port:            envOr("PORT", "8080"),
		SamsaraTokens:   splitTokens(os.Getenv("SAMSARA_API_TOKENS")),
		MotiveTokens:    splitTokens(os.Getenv("MOTIVE_API_TOKENS")),
		RefreshInterval: durationOr("REFRESH_INTERVAL", 5*time.Minute),
		FreshnessWindow: durationOr("FRESHNESS_WINDOW", 48*time.Hour),
		RequestTimeout:  durationOr("VENDOR_REQUEST_TIMEOUT", 30*time.Second),
		StorageType:     envOr("STORAGE_TYPE", "memory"),
		SQLitePath:      envOr("SQLITE_PATH", "preferences.db"),
		DynamoTable:     os.Getenv("DYNAMODB_PREFERENCES_TABLE"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitTokens(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
