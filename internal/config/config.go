package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	Logger LoggerConfig

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	// StripeWebhookSecret signs inbound webhook payloads. Empty means the
	// webhook endpoint is misconfigured; handlers answer 500 rather than
	// crashing at startup.
	StripeWebhookSecret string

	AIGatewayURL    string
	AIGatewayAPIKey string
	AIModel         string
}

type LoggerConfig struct {
	Level string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "margin"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		Logger: LoggerConfig{
			Level: strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL", "info"))),
		},
		DBType:              getenv("DATABASE_TYPE", "postgres"),
		DBHost:              getenv("DATABASE_HOST", "localhost"),
		DBPort:              getenv("DATABASE_PORT", "5432"),
		DBName:              getenv("DATABASE_NAME", "margin"),
		DBUser:              getenv("DATABASE_USER", "postgres"),
		DBPassword:          getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:           getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:       getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:       getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime:   getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
		StripeWebhookSecret: strings.TrimSpace(getenv("STRIPE_WEBHOOK_SECRET", "")),
		AIGatewayURL:        strings.TrimSpace(getenv("AI_GATEWAY_URL", "https://ai.gateway.lovable.dev/v1/chat/completions")),
		AIGatewayAPIKey:     strings.TrimSpace(getenv("AI_GATEWAY_API_KEY", "")),
		AIModel:             getenv("AI_MODEL", "google/gemini-3-flash-preview"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
