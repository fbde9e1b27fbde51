package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration, loaded from environment
// variables with sensible defaults for local development.
type Config struct {
	Port            string
	DBPath          string
	MigrationsPath  string
	JWTSecret       string
	DefaultProvider string

	// RefreshInterval drives the background materializer loop. Zero
	// disables the loop: the latest-value view then only moves when the
	// refresh endpoint is called explicitly.
	RefreshInterval time.Duration

	// RateLimitRPM caps requests per client IP per minute.
	RateLimitRPM int
}

// Load loads configuration from the environment.
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/speeds.db"
	}

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
	}

	provider := os.Getenv("DEFAULT_PROVIDER")
	if provider == "" {
		provider = "google-routes"
	}

	refresh := time.Duration(0)
	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			refresh = d
		}
	}

	rpm := 300
	if v := os.Getenv("RATE_LIMIT_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rpm = n
		}
	}

	return &Config{
		Port:            port,
		DBPath:          dbPath,
		MigrationsPath:  migrationsPath,
		JWTSecret:       jwtSecret,
		DefaultProvider: provider,
		RefreshInterval: refresh,
		RateLimitRPM:    rpm,
	}
}
