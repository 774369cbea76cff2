package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string // sqlite (default), postgres, mysql
	DatabasePath   string // sqlite only
	DatabaseURL    string // postgres/mysql only
	MigrationsPath string
	ImagesPath     string // where downloaded reveal images are stored

	// Daily selection
	SelectInterval   time.Duration // how often the scheduled selector runs
	SelectMaxRetries int

	// Admin access
	AdminUser         string
	AdminPasswordHash string // bcrypt hash; empty disables admin routes
	JWTSecret         string
	TokenDuration     time.Duration

	// Operator alerts (SES); AlertFromEmail empty disables alerting
	AWSRegion      string
	AlertFromEmail string
	AlertToEmail   string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	// Missing .env is fine, env vars win either way
	_ = godotenv.Load()

	return &Config{
		ServerPort:        getEnv("PORT", "8080"),
		DatabaseType:      getEnv("DB_TYPE", "sqlite"),
		DatabasePath:      getEnv("DB_PATH", "./cardle.db"),
		DatabaseURL:       getEnv("DB_URL", ""),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", "./migrations"),
		ImagesPath:        getEnv("IMAGES_PATH", "./imgs"),
		SelectInterval:    getEnvDuration("SELECT_INTERVAL", 5*time.Minute),
		SelectMaxRetries:  getEnvInt("SELECT_MAX_RETRIES", 32),
		AdminUser:         getEnv("ADMIN_USER", "admin"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		TokenDuration:     getEnvDuration("TOKEN_DURATION", 24*time.Hour),
		AWSRegion:         getEnv("AWS_REGION", "eu-west-1"),
		AlertFromEmail:    getEnv("ALERT_FROM_EMAIL", ""),
		AlertToEmail:      getEnv("ALERT_TO_EMAIL", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration reads a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
