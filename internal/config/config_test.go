package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "DB_PATH", "PORT", "LOG_LEVEL", "WEBHOOK_TIMEOUT", "WEBHOOK_MAX_RETRIES", "COMPANY_NAME"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, defaultDBPath, cfg.DBPath)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, 3, cfg.WebhookMaxRetries)
	assert.Equal(t, "Pool Smart", cfg.CompanyName)
	assert.True(t, cfg.IsDev())
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("WEBHOOK_URL", "https://flows.example.com/webhook/cotizacion")
	t.Setenv("WEBHOOK_TIMEOUT", "3s")
	t.Setenv("WEBHOOK_MAX_RETRIES", "5")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("MAIL_FROM", "cotizaciones@poolsmart.co")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "https://flows.example.com/webhook/cotizacion", cfg.WebhookURL)
	assert.Equal(t, 3*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, 5, cfg.WebhookMaxRetries)
	assert.True(t, cfg.MailEnabled())
}

func TestWarnings(t *testing.T) {
	cfg := Config{AdminEmail: "admin@poolsmart.co"}

	assert.Equal(t, []string{"ADMIN_PASSWORD is not set", "SESSION_SECRET is not set"}, cfg.Warnings())
}
