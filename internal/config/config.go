// Package config loads application configuration from environment
// variables and holds the tuning constants shared across components.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// Search results are always served in pages of this size.
	SearchPageSize = 10

	// SearchContextTTL bounds how long a pagination callback can still
	// reconstruct the query that produced the results.
	SearchContextTTL = 30 * time.Minute

	// Broadcast delivery fan-out.
	BroadcastWorkers   = 8
	BroadcastBatchSize = 50

	// Every outbound call to Telegram carries this timeout.
	ProviderTimeout = 10 * time.Second

	AdminTokenLifetime = 72 * time.Hour
)

// Config holds all configuration for the service.
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	HTTP     HTTPConfig
	Admin    AdminConfig
	Logging  LoggingConfig
	Uploads  UploadsConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// HTTPConfig holds the HTTP server and webhook settings.
type HTTPConfig struct {
	Listen string
	// WebhookBase is the public base URL Telegram delivers updates to,
	// e.g. https://bots.example.com. The per-bot path is appended to it.
	WebhookBase string
}

// AdminConfig holds admin API credentials.
type AdminConfig struct {
	Username  string
	Password  string
	JWTSecret string
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string
}

// UploadsConfig holds the file storage location.
type UploadsConfig struct {
	Dir string
}

// Load reads configuration from the environment. A .env file is honoured
// when present so local runs match the docker-compose setup.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "tgfilebot"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		HTTP: HTTPConfig{
			Listen:      getEnv("HTTP_LISTEN", ":8080"),
			WebhookBase: getEnv("WEBHOOK_BASE_URL", ""),
		},
		Admin: AdminConfig{
			Username:  getEnv("ADMIN_USERNAME", "admin"),
			Password:  getEnv("ADMIN_PASSWORD", ""),
			JWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Uploads: UploadsConfig{
			Dir: getEnv("UPLOADS_DIR", "uploads"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.HTTP.WebhookBase == "" {
		return fmt.Errorf("WEBHOOK_BASE_URL is required")
	}
	if c.Admin.Password == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	if c.Admin.JWTSecret == "" {
		return fmt.Errorf("ADMIN_JWT_SECRET is required")
	}
	return nil
}

// DSN builds the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Name, c.Port)
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
