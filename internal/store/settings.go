package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Simplici0/poolsmart/internal/pricing"
)

// Settings is the quote settings singleton.
type Settings struct {
	DefaultHourlyRate float64
	WebhookURL        string
	CompanyName       string
	CompanyHandle     string
	Currency          string
}

// DefaultSettings returns the values a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{DefaultHourlyRate: pricing.DefaultHourlyRate, Currency: "USD"}
}

// Validate checks settings submitted by an administrator.
func (st Settings) Validate() error {
	if st.DefaultHourlyRate <= 0 {
		return fmt.Errorf("la tarifa por hora debe ser mayor a 0")
	}
	if u := strings.TrimSpace(st.WebhookURL); u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return fmt.Errorf("la URL del webhook debe comenzar con http:// o https://")
	}
	return nil
}

// EnsureSettings creates the settings singleton if it is missing.
func (s *Store) EnsureSettings(ctx context.Context) error {
	d := DefaultSettings()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quote_settings (id, default_hourly_rate, webhook_url, company_name, company_handle, currency)
		VALUES (1, ?, '', '', '', ?)
		ON CONFLICT(id) DO NOTHING
	`, d.DefaultHourlyRate, d.Currency)
	if err != nil {
		return fmt.Errorf("insert default quote_settings: %w", err)
	}
	return nil
}

// GetSettings returns the settings singleton, creating it when needed.
func (s *Store) GetSettings(ctx context.Context) (Settings, error) {
	if err := s.EnsureSettings(ctx); err != nil {
		return Settings{}, err
	}

	var st Settings
	err := s.db.QueryRowContext(ctx, `
		SELECT default_hourly_rate, webhook_url, company_name, company_handle, currency
		FROM quote_settings
		WHERE id = 1
	`).Scan(&st.DefaultHourlyRate, &st.WebhookURL, &st.CompanyName, &st.CompanyHandle, &st.Currency)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Settings{}, fmt.Errorf("quote_settings singleton not found")
		}
		return Settings{}, fmt.Errorf("query quote_settings: %w", err)
	}
	return st, nil
}

// UpdateSettings replaces the editable settings. Currency is fixed.
func (s *Store) UpdateSettings(ctx context.Context, st Settings) error {
	if err := st.Validate(); err != nil {
		return err
	}
	if err := s.EnsureSettings(ctx); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE quote_settings
		SET default_hourly_rate = ?,
			webhook_url = ?,
			company_name = ?,
			company_handle = ?,
			updated_at = datetime('now')
		WHERE id = 1
	`, st.DefaultHourlyRate, strings.TrimSpace(st.WebhookURL), strings.TrimSpace(st.CompanyName), strings.TrimSpace(st.CompanyHandle))
	if err != nil {
		return fmt.Errorf("update quote_settings: %w", err)
	}
	return nil
}
