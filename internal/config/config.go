package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Oracle    OracleConfig
	Secrets   SecretsConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// OracleConfig holds price-oracle configuration. Timeout bounds every quote
// request; a hung oracle surfaces as "price unavailable", never as a stall.
type OracleConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SecretsConfig holds the fernet key used to encrypt stored secrets.
type SecretsConfig struct {
	FernetKey string
}

// SchedulerConfig holds the cron schedule for the nightly price sweep.
type SchedulerConfig struct {
	Enabled          bool
	PriceRefreshCron string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	oracleTimeout, err := time.ParseDuration(getEnv("ORACLE_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORACLE_TIMEOUT: %w", err)
	}

	schedulerEnabled, err := strconv.ParseBool(getEnv("SCHEDULER_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_ENABLED: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/holdings.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Oracle: OracleConfig{
			BaseURL: getEnv("ORACLE_BASE_URL", "https://quotes.example.com"),
			Timeout: oracleTimeout,
		},
		Secrets: SecretsConfig{
			FernetKey: os.Getenv("FERNET_KEY"),
		},
		Scheduler: SchedulerConfig{
			Enabled:          schedulerEnabled,
			PriceRefreshCron: getEnv("PRICE_REFRESH_CRON", "0 18 * * *"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
