package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultDBPath = "./dev.db"
	defaultPort   = "8080"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string
	AdminEmail    string
	AdminPassword string
	SessionSecret string
	DBPath        string
	Port          string

	LogLevel  string
	LogFormat string
	LogFile   string

	WebhookURL        string
	WebhookTimeout    time.Duration
	WebhookMaxRetries int

	AWSRegion string
	MailFrom  string

	CompanyName   string
	CompanyHandle string
}

// IsDev reports whether the app runs in development mode.
func (c Config) IsDev() bool {
	return c.Env == "" || c.Env == "development"
}

// MailEnabled reports whether quotes can be emailed to clients.
func (c Config) MailEnabled() bool {
	return c.AWSRegion != "" && c.MailFrom != ""
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("app_env", "development")
	v.SetDefault("db_path", defaultDBPath)
	v.SetDefault("port", defaultPort)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("webhook_timeout", 10*time.Second)
	v.SetDefault("webhook_max_retries", 3)
	v.SetDefault("company_name", "Pool Smart")
	v.SetDefault("company_handle", "@poolsmart")

	return v
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: production should use real env injection.
	if err := loadDotEnv(".env"); err != nil {
		log.Printf("warning: could not read .env: %v", err)
	}

	v := newViper()
	cfg := Config{
		Env:               v.GetString("app_env"),
		AdminEmail:        v.GetString("admin_email"),
		AdminPassword:     v.GetString("admin_password"),
		SessionSecret:     v.GetString("session_secret"),
		DBPath:            v.GetString("db_path"),
		Port:              v.GetString("port"),
		LogLevel:          v.GetString("log_level"),
		LogFormat:         v.GetString("log_format"),
		LogFile:           v.GetString("log_file"),
		WebhookURL:        v.GetString("webhook_url"),
		WebhookTimeout:    v.GetDuration("webhook_timeout"),
		WebhookMaxRetries: v.GetInt("webhook_max_retries"),
		AWSRegion:         v.GetString("aws_region"),
		MailFrom:          v.GetString("mail_from"),
		CompanyName:       v.GetString("company_name"),
		CompanyHandle:     v.GetString("company_handle"),
	}

	if cfg.WebhookTimeout <= 0 {
		cfg.WebhookTimeout = 10 * time.Second
	}
	if cfg.WebhookMaxRetries < 0 {
		cfg.WebhookMaxRetries = 0
	}

	return cfg
}

// Warnings lists settings that are missing but not fatal.
func (c Config) Warnings() []string {
	var warnings []string
	if c.AdminEmail == "" {
		warnings = append(warnings, "ADMIN_EMAIL is not set")
	}
	if c.AdminPassword == "" {
		warnings = append(warnings, "ADMIN_PASSWORD is not set")
	}
	if c.SessionSecret == "" {
		warnings = append(warnings, "SESSION_SECRET is not set")
	}
	return warnings
}
