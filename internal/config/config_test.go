package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:                  "8080",
		LogLevel:              "info",
		BaseURL:               "http://localhost:8080",
		VisionAPIKey:          "vision-key",
		VisionAPIURL:          "https://vision.googleapis.com",
		WhatsAppAPIToken:      "token",
		WhatsAppPhoneNumberID: "12345",
		WhatsAppVerifyToken:   "verify",
		WhatsAppAPIURL:        "https://graph.facebook.com/v18.0",
		TokenCheckSchedule:    "@every 12h",
		RedisAddress:          "localhost:6379",
		RedisDB:               "0",
		RedisPoolSize:         "10",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://graph.facebook.com/v18.0", cfg.WhatsAppAPIURL)
	assert.Equal(t, "https://vision.googleapis.com", cfg.VisionAPIURL)
	assert.Equal(t, "@every 12h", cfg.TokenCheckSchedule)
	assert.Equal(t, "whatsapp:+14155238886", cfg.TwilioFromNumber)
	assert.False(t, cfg.ShortLinksEnabled)
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("bad port", func(t *testing.T) {
		cfg := validConfig()
		cfg.Port = "notaport"
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing vision key", func(t *testing.T) {
		cfg := validConfig()
		cfg.VisionAPIKey = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("no messaging platform", func(t *testing.T) {
		cfg := validConfig()
		cfg.WhatsAppAPIToken = ""
		cfg.WhatsAppPhoneNumberID = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("twilio only is enough", func(t *testing.T) {
		cfg := validConfig()
		cfg.WhatsAppAPIToken = ""
		cfg.WhatsAppPhoneNumberID = ""
		cfg.WhatsAppVerifyToken = ""
		cfg.TwilioAccountSID = "AC123"
		cfg.TwilioAuthToken = "secret"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("whatsapp requires verify token", func(t *testing.T) {
		cfg := validConfig()
		cfg.WhatsAppVerifyToken = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("short links require redis address", func(t *testing.T) {
		cfg := validConfig()
		cfg.ShortLinksEnabled = true
		cfg.RedisAddress = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestPlatformConfigured(t *testing.T) {
	cfg := validConfig()
	assert.True(t, cfg.WhatsAppConfigured())
	assert.False(t, cfg.TwilioConfigured())
	assert.False(t, cfg.MessageBirdConfigured())

	cfg.TwilioAccountSID = "AC123"
	cfg.TwilioAuthToken = "secret"
	assert.True(t, cfg.TwilioConfigured())

	cfg.MessageBirdAccessKey = "key"
	assert.True(t, cfg.MessageBirdConfigured())
}
