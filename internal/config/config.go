package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL   string
	RedisAddr     string
	RedisPassword string

	GeminiAPIKey string
	GeminiModel  string
	LLMTimeout   time.Duration

	TwilioAccountSID    string
	TwilioAuthToken     string
	TwilioWhatsAppFrom  string
	TwilioWebhookSecret string

	SessionTTL   time.Duration
	HistoryTTL   time.Duration
	HistoryLimit int

	BusinessOpenHour  int
	BusinessCloseHour int

	DealershipName    string
	DealershipPhone   string
	DealershipEmail   string
	DealershipAddress string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		LLMTimeout:   getEnvAsDuration("LLM_TIMEOUT", 10*time.Second),

		TwilioAccountSID:    getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:     getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppFrom:  getEnv("TWILIO_WHATSAPP_FROM", ""),
		TwilioWebhookSecret: getEnv("TWILIO_WEBHOOK_SECRET", ""),

		SessionTTL:   getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		HistoryTTL:   getEnvAsDuration("HISTORY_TTL", 168*time.Hour),
		HistoryLimit: getEnvAsInt("HISTORY_LIMIT", 10),

		BusinessOpenHour:  getEnvAsInt("BUSINESS_OPEN_HOUR", 9),
		BusinessCloseHour: getEnvAsInt("BUSINESS_CLOSE_HOUR", 18),

		DealershipName:    getEnv("DEALERSHIP_NAME", "San Juan Motors"),
		DealershipPhone:   getEnv("DEALERSHIP_PHONE", "(787) 555-0123"),
		DealershipEmail:   getEnv("DEALERSHIP_EMAIL", "contact@sanjuanmotors.com"),
		DealershipAddress: getEnv("DEALERSHIP_ADDRESS", "123 Main Avenue, San Juan"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
