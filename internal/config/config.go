package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avvvet/storebuddy-assistant/internal/intent"
	"github.com/avvvet/storebuddy-assistant/internal/llm"
)

type Config struct {
	// Service configuration
	ServiceName string
	LogLevel    string
	LogFormat   string

	// NATS configuration
	NatsURL            string
	NatsRequestSubject string
	NatsEventSubject   string
	NatsTimeout        time.Duration

	// HTTP configuration
	HTTPAddr           string
	HTTPRequestTimeout time.Duration

	// Session storage
	RedisURL   string
	SessionTTL time.Duration

	// Catalog data
	CatalogPath string

	// Fallback configuration
	FallbackProvider  string
	AnthropicAPIKey   string
	AnthropicModel    string
	GeminiAPIKey      string
	GeminiModel       string
	FallbackTimeout   time.Duration
	FallbackMaxTokens int

	// Store details used by the canned responses
	StoreName         string
	StoreOpens        string
	StoreCloses       string
	DeliveryRadiusKm  int
	FreeDeliveryAbove decimal.Decimal
	ReturnWindowDays  int
	CurrencySymbol    string
	GreetingMaxLen    int
}

func Load() *Config {
	store := intent.DefaultStoreInfo()

	return &Config{
		// Service settings
		ServiceName: getEnv("SERVICE_NAME", "storebuddy-assistant"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "console"),

		// NATS settings
		NatsURL:            getOptionalEnv("NATS_URL", "nats://localhost:4222"),
		NatsRequestSubject: getEnv("NATS_REQUEST_SUBJECT", "assistant.submit"),
		NatsEventSubject:   getEnv("NATS_EVENT_SUBJECT", "assistant.events"),
		NatsTimeout:        getDurationEnv("NATS_TIMEOUT", 30*time.Second),

		// HTTP settings
		HTTPAddr:           getOptionalEnv("HTTP_ADDR", ":8080"),
		HTTPRequestTimeout: getDurationEnv("HTTP_REQUEST_TIMEOUT", 45*time.Second),

		// Storage settings
		RedisURL:   getEnv("REDIS_URL", ""),
		SessionTTL: getDurationEnv("SESSION_TTL", 30*time.Minute),

		CatalogPath: getEnv("CATALOG_PATH", "data/catalog.yaml"),

		// Fallback settings
		FallbackProvider:  getEnv("FALLBACK_PROVIDER", llm.ProviderAnthropic),
		AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:    getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-20241022"),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		FallbackTimeout:   getDurationEnv("FALLBACK_TIMEOUT", 20*time.Second),
		FallbackMaxTokens: getIntEnv("FALLBACK_MAX_TOKENS", 300),

		// Store settings
		StoreName:         getEnv("STORE_NAME", store.Name),
		StoreOpens:        getEnv("STORE_OPENS", store.Opens),
		StoreCloses:       getEnv("STORE_CLOSES", store.Closes),
		DeliveryRadiusKm:  getIntEnv("DELIVERY_RADIUS_KM", store.DeliveryRadiusKm),
		FreeDeliveryAbove: getDecimalEnv("FREE_DELIVERY_ABOVE", store.FreeDeliveryAbove),
		ReturnWindowDays:  getIntEnv("RETURN_WINDOW_DAYS", store.ReturnWindowDays),
		CurrencySymbol:    getEnv("CURRENCY_SYMBOL", store.Currency),
		GreetingMaxLen:    getIntEnv("GREETING_MAX_LEN", intent.DefaultGreetingMaxLen),
	}
}

// StoreInfo returns the details rendered into the canned responses.
func (c *Config) StoreInfo() intent.StoreInfo {
	return intent.StoreInfo{
		Name:              c.StoreName,
		Opens:             c.StoreOpens,
		Closes:            c.StoreCloses,
		DeliveryRadiusKm:  c.DeliveryRadiusKm,
		FreeDeliveryAbove: c.FreeDeliveryAbove,
		ReturnWindowDays:  c.ReturnWindowDays,
		Currency:          c.CurrencySymbol,
	}
}

// LLMSettings returns the fallback provider selection.
func (c *Config) LLMSettings() llm.Settings {
	return llm.Settings{
		Provider:        c.FallbackProvider,
		AnthropicAPIKey: c.AnthropicAPIKey,
		AnthropicModel:  c.AnthropicModel,
		GeminiAPIKey:    c.GeminiAPIKey,
		GeminiModel:     c.GeminiModel,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getOptionalEnv is like getEnv but a variable set to an empty string
// disables the feature instead of selecting the default.
func getOptionalEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDecimalEnv(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}
