// Package config provides configuration management for the calendar assistant.
// It handles loading configuration from environment variables with sensible
// defaults and validates the configuration to ensure the application starts
// safely.
//
// The assistant speaks to three messaging platforms (WhatsApp Cloud API,
// Twilio WhatsApp, MessageBird) and one OCR backend (Google Cloud Vision).
// Each platform is optional: its webhook is only registered when the matching
// credentials are configured.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - BASE_URL: Public base URL used for short redirect links
//
// WhatsApp Cloud API:
//   - WHATSAPP_API_TOKEN: Graph API access token
//   - WHATSAPP_PHONE_NUMBER_ID: Phone number ID the bot sends from
//   - WHATSAPP_VERIFY_TOKEN: Webhook verification token
//   - WHATSAPP_API_URL: Graph API base URL (default: https://graph.facebook.com/v18.0)
//   - TOKEN_CHECK_SCHEDULE: Cron schedule for token health checks (default: every 12h)
//
// Twilio:
//   - TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN: API credentials
//   - TWILIO_PHONE_NUMBER: Sender number (default: Twilio WhatsApp sandbox)
//
// MessageBird:
//   - MESSAGEBIRD_ACCESS_KEY: Conversations API access key
//
// OCR:
//   - VISION_API_KEY: Google Cloud Vision API key
//   - VISION_API_URL: Vision endpoint (default: https://vision.googleapis.com)
//
// Short links (Redis-backed):
//   - SHORT_LINKS_ENABLED: Enable the /r/{id} redirect service (default: false)
//   - REDIS_ADDRESS: Redis server address (default: localhost:6379)
//   - REDIS_PASSWORD: Redis password
//   - REDIS_DB: Redis database number 0-15 (default: 0)
//   - REDIS_POOL_SIZE: Redis connection pool size (default: 10)
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration values for the calendar assistant.
// All string fields correspond to environment variables that can be set to
// override the default values.
type Config struct {
	// Application settings
	Port     string // Server port number
	LogLevel string // Logging level (debug, info, warn, error)
	BaseURL  string // Public base URL for short redirect links

	// WhatsApp Cloud API configuration
	WhatsAppAPIToken      string // Graph API access token
	WhatsAppPhoneNumberID string // Phone number ID used for sends
	WhatsAppVerifyToken   string // Webhook verification token
	WhatsAppAPIURL        string // Graph API base URL
	TokenCheckSchedule    string // Cron schedule for token health checks

	// Twilio configuration
	TwilioAccountSID string // Twilio account SID
	TwilioAuthToken  string // Twilio auth token
	TwilioFromNumber string // WhatsApp sender number (whatsapp:+...)

	// MessageBird configuration
	MessageBirdAccessKey string // Conversations API access key

	// OCR configuration
	VisionAPIKey string // Google Cloud Vision API key
	VisionAPIURL string // Vision endpoint base URL

	// Short link configuration
	ShortLinksEnabled bool   // Whether the redirect service is enabled
	RedisAddress      string // Redis server address (host:port)
	RedisPassword     string // Redis authentication password
	RedisDB           string // Redis database number (0-15)
	RedisPoolSize     string // Redis connection pool size
}

// Load creates a new Config instance with values loaded from environment
// variables. If an environment variable is not set, the corresponding default
// value is used.
//
// This function does not validate the configuration - call Validate() on the
// returned Config to ensure all required values are properly set and valid.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		BaseURL:  getEnv("BASE_URL", "http://localhost:8080"),

		WhatsAppAPIToken:      getEnv("WHATSAPP_API_TOKEN", ""),
		WhatsAppPhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		WhatsAppVerifyToken:   getEnv("WHATSAPP_VERIFY_TOKEN", ""),
		WhatsAppAPIURL:        getEnv("WHATSAPP_API_URL", "https://graph.facebook.com/v18.0"),
		TokenCheckSchedule:    getEnv("TOKEN_CHECK_SCHEDULE", "@every 12h"),

		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: getEnv("TWILIO_PHONE_NUMBER", "whatsapp:+14155238886"),

		MessageBirdAccessKey: getEnv("MESSAGEBIRD_ACCESS_KEY", ""),

		VisionAPIKey: getEnv("VISION_API_KEY", ""),
		VisionAPIURL: getEnv("VISION_API_URL", "https://vision.googleapis.com"),

		ShortLinksEnabled: getBoolEnv("SHORT_LINKS_ENABLED", false),
		RedisAddress:      getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnv("REDIS_DB", "0"),
		RedisPoolSize:     getEnv("REDIS_POOL_SIZE", "10"),
	}
}

// WhatsAppConfigured reports whether the WhatsApp Cloud API credentials are set.
func (c *Config) WhatsAppConfigured() bool {
	return c.WhatsAppAPIToken != "" && c.WhatsAppPhoneNumberID != ""
}

// TwilioConfigured reports whether the Twilio credentials are set.
func (c *Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != ""
}

// MessageBirdConfigured reports whether the MessageBird access key is set.
func (c *Config) MessageBirdConfigured() bool {
	return c.MessageBirdAccessKey != ""
}

// getEnv retrieves an environment variable value or returns a default value if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv retrieves a boolean environment variable value or returns a default value.
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Validate performs validation on the configuration to ensure all required
// fields are present and all values are valid.
//
// The application should call this method after loading configuration and
// before starting to ensure safe operation.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	if c.VisionAPIKey == "" {
		return fmt.Errorf("VISION_API_KEY environment variable is required")
	}

	if !c.WhatsAppConfigured() && !c.TwilioConfigured() && !c.MessageBirdConfigured() {
		return fmt.Errorf("at least one messaging platform must be configured " +
			"(WhatsApp, Twilio or MessageBird)")
	}

	// WhatsApp webhook verification needs the verify token
	if c.WhatsAppConfigured() && c.WhatsAppVerifyToken == "" {
		return fmt.Errorf("WHATSAPP_VERIFY_TOKEN is required when WhatsApp is configured")
	}

	// Validate Redis config when short links are enabled
	if c.ShortLinksEnabled {
		if c.RedisAddress == "" {
			return fmt.Errorf("REDIS_ADDRESS is required when short links are enabled")
		}
		if db, err := strconv.Atoi(c.RedisDB); err != nil || db < 0 || db > 15 {
			return fmt.Errorf("REDIS_DB must be a number between 0 and 15")
		}
		if poolSize, err := strconv.Atoi(c.RedisPoolSize); err != nil || poolSize < 1 {
			return fmt.Errorf("REDIS_POOL_SIZE must be a positive number")
		}
		if c.BaseURL == "" {
			return fmt.Errorf("BASE_URL is required when short links are enabled")
		}
	}

	return nil
}
