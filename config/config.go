package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Logging     LoggingConfig
	Auth        AuthConfig
	FootballAPI FootballAPIConfig
	Stripe      StripeConfig
	App         AppConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string
	Host           string
	Environment    string
	AllowedOrigins []string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	SSLMode  string
	Timeout  time.Duration
}

// RedisConfig holds Redis cache configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret   string
	TokenExpiry time.Duration
}

// FootballAPIConfig holds fixture provider configuration
type FootballAPIConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// StripeConfig holds billing provider configuration
type StripeConfig struct {
	APIKey        string
	PriceID       string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	IsDevelopment            bool
	BackgroundUpdaterEnabled bool
	UpdateInterval           time.Duration
	FixtureCacheTTL          time.Duration
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Don't treat a missing .env as an error
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	environment := getEnv("ENVIRONMENT", "development")
	isDevelopment := strings.ToLower(environment) == "development"

	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Environment:    environment,
			AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Username: getEnv("DB_USERNAME", "matchpredict"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "matchpredict"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Timeout:  getDurationEnv("DB_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getBoolEnv("LOG_PRETTY", isDevelopment),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			TokenExpiry: getDurationEnv("TOKEN_EXPIRY", 30*24*time.Hour),
		},
		FootballAPI: FootballAPIConfig{
			BaseURL: getEnv("FOOTBALL_API_URL", "https://v3.football.api-sports.io"),
			APIKey:  getEnv("FOOTBALL_API_KEY", ""),
			Timeout: getDurationEnv("FOOTBALL_API_TIMEOUT", 10*time.Second),
		},
		Stripe: StripeConfig{
			APIKey:        getEnv("STRIPE_API_KEY", ""),
			PriceID:       getEnv("STRIPE_SUBSCRIPTION_PRICE_ID", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			SuccessURL:    getEnv("STRIPE_SUCCESS_URL", "http://localhost:5173/billing/success"),
			CancelURL:     getEnv("STRIPE_CANCEL_URL", "http://localhost:5173/billing/cancel"),
		},
		App: AppConfig{
			IsDevelopment:            isDevelopment,
			BackgroundUpdaterEnabled: getBoolEnv("BACKGROUND_UPDATER_ENABLED", true),
			UpdateInterval:           getDurationEnv("UPDATE_INTERVAL", 2*time.Minute),
			FixtureCacheTTL:          getDurationEnv("FIXTURE_CACHE_TTL", 5*time.Minute),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// Validate validates the configuration for required fields and sensible values
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.Auth.JWTSecret == "your-secret-key-change-in-production" && !c.App.IsDevelopment {
		return fmt.Errorf("JWT secret must be changed in production")
	}
	if c.FootballAPI.APIKey == "" && !c.App.IsDevelopment {
		return fmt.Errorf("football API key is required in production")
	}
	return nil
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
