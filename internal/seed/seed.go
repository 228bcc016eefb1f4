package seed

import (
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Simplici0/poolsmart/internal/pricing"
)

const defaultCurrency = "USD"

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
	CompanyName   string
	CompanyHandle string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := seedAdmin(tx, cfg.AdminEmail, cfg.AdminPassword, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureSettings(tx, cfg, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(tx *sql.Tx, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := tx.Exec(`INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, hash); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("generate bcrypt hash: %w", err)
	}
	return string(hash), nil
}

// ensureSettings creates the quote settings singleton. Company fields left
// blank in the database are filled from the configuration.
func ensureSettings(tx *sql.Tx, cfg Config, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM quote_settings WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check quote settings existence: %w", err)
	}

	if !exists {
		if _, err := tx.Exec(`
			INSERT INTO quote_settings (id, default_hourly_rate, webhook_url, company_name, company_handle, currency)
			VALUES (1, ?, ?, ?, ?, ?)
		`, pricing.DefaultHourlyRate, "", cfg.CompanyName, cfg.CompanyHandle, defaultCurrency); err != nil {
			return fmt.Errorf("insert quote settings singleton: %w", err)
		}
		stats.Inserts++
		return nil
	}

	res, err := tx.Exec(`
		UPDATE quote_settings
		SET company_name = CASE WHEN company_name = '' THEN ? ELSE company_name END,
			company_handle = CASE WHEN company_handle = '' THEN ? ELSE company_handle END
		WHERE id = 1 AND ((company_name = '' AND ? <> '') OR (company_handle = '' AND ? <> ''))
	`, cfg.CompanyName, cfg.CompanyHandle, cfg.CompanyName, cfg.CompanyHandle)
	if err != nil {
		return fmt.Errorf("backfill quote settings company: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		stats.Updates++
	}
	return nil
}
