package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Auth. Tokens are issued by the identity service; this service only
	// verifies them.
	JWTSecret      string
	PipelineAPIKey string

	// Baskets
	DefaultCurrency string

	// Pricing
	PriceStaleAfter      time.Duration
	PriceRefreshSchedule string
	PriceRequestTimeout  time.Duration
	PriceRefreshTimeout  time.Duration
	YahooBaseURL         string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "smallcase"),
		DBPassword: getEnv("DB_PASSWORD", "smallcase"),
		DBName:     getEnv("DB_NAME", "smallcase"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:      getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		PipelineAPIKey: os.Getenv("PIPELINE_API_KEY"),

		DefaultCurrency: strings.ToUpper(getEnv("DEFAULT_CURRENCY", "INR")),

		PriceStaleAfter:      getDuration("PRICE_STALE_AFTER", 5*time.Minute),
		PriceRefreshSchedule: os.Getenv("PRICE_REFRESH_SCHEDULE"),
		PriceRequestTimeout:  getDuration("PRICE_REQUEST_TIMEOUT", 10*time.Second),
		PriceRefreshTimeout:  getDuration("PRICE_REFRESH_TIMEOUT", 2*time.Minute),
		YahooBaseURL:         os.Getenv("YAHOO_BASE_URL"),
	}
	if _, set := os.LookupEnv("PRICE_REFRESH_SCHEDULE"); !set {
		config.PriceRefreshSchedule = "@every 15m"
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a duration variable, falling back to defaultValue when
// it is unset or malformed.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
