package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Placeholder payment links used when no real link is configured. Orders are
// still recorded; the operator swaps links before launch.
const placeholderPayURL = "https://pay.example.com/"

// Config holds all runtime configuration sourced from the environment.
type Config struct {
	AppEnv           string
	LogLevel         string
	HTTPListenAddr   string
	PublicBasePath   string
	MetricsNamespace string

	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string
	TwilioBaseURL      string
	TwilioTimeout      time.Duration

	OperatorWhatsAppTo string

	DatabaseURL    string
	DatabaseSchema string
	SQLitePath     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTLS      bool
	DedupeTTL     time.Duration

	PayURLPremium   string
	PayURLExecutive string
	PayURLCasual    string
	PayURLKids      string
}

// Load reads configuration from environment variables. Missing Twilio
// credentials are a fatal condition; missing payment links fall back to
// placeholders.
func Load() (Config, error) {
	cfg := Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		HTTPListenAddr:   getEnv("HTTP_LISTEN_ADDR", ":8000"),
		PublicBasePath:   getEnv("PUBLIC_BASE_PATH", ""),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "aetv_bot"),

		TwilioAccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:    getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppFrom: getEnv("TWILIO_WHATSAPP_FROM", ""),
		TwilioBaseURL:      getEnv("TWILIO_BASE_URL", "https://api.twilio.com"),
		TwilioTimeout:      getEnvAsDuration("TWILIO_TIMEOUT", 15*time.Second),

		OperatorWhatsAppTo: getEnv("OPERATOR_WHATSAPP_TO", ""),

		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DatabaseSchema: getEnv("DATABASE_SCHEMA", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "data/aetv-bot.db"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		DedupeTTL:     getEnvAsDuration("INBOUND_DEDUPE_TTL", 10*time.Minute),

		PayURLPremium:   getEnv("PAY_URL_PREMIUM", placeholderPayURL+"premium"),
		PayURLExecutive: getEnv("PAY_URL_EXECUTIVE", placeholderPayURL+"executive"),
		PayURLCasual:    getEnv("PAY_URL_CASUAL", placeholderPayURL+"casual"),
		PayURLKids:      getEnv("PAY_URL_KIDS", placeholderPayURL+"kids"),
	}

	var missing []string
	if cfg.TwilioAccountSID == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if cfg.TwilioAuthToken == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN")
	}
	if cfg.TwilioWhatsAppFrom == "" {
		missing = append(missing, "TWILIO_WHATSAPP_FROM")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		return strings.TrimSpace(val)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}
