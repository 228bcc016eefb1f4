// Package store persists issued quotes and the quote settings singleton in
// SQLite. A stored quote is a snapshot: reading it back never re-prices the
// job.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/poolsmart/internal/pricing"
)

// Quote statuses.
const (
	StatusPending = "pendiente"
	StatusSent    = "enviada"
)

const timeLayout = "2006-01-02 15:04:05"

// ErrNotFound is returned when a quote id does not exist.
var ErrNotFound = errors.New("quote not found")

// Store reads and writes quotes.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New returns a Store over an open database with migrations applied.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Record is a persisted quote together with the job it priced.
type Record struct {
	ID        int64
	Reference string
	CreatedAt time.Time
	Status    string
	Job       pricing.JobSpec
	Quote     pricing.Quote
}

// Summary is one row of the quote list.
type Summary struct {
	ID          int64
	Reference   string
	CreatedAt   time.Time
	ClientName  string
	ClientEmail string
	WorkType    pricing.WorkType
	Total       float64
	Status      string
}

func newReference() string {
	return "COT-" + strings.ToUpper(uuid.NewString()[:8])
}

// SaveQuote stores a priced job and returns the new record.
func (s *Store) SaveQuote(ctx context.Context, job pricing.JobSpec, q pricing.Quote) (Record, error) {
	jobJSON, err := json.Marshal(job)
	if err != nil {
		return Record{}, fmt.Errorf("encode job: %w", err)
	}

	rec := Record{
		Reference: newReference(),
		CreatedAt: s.now().UTC().Truncate(time.Second),
		Status:    StatusPending,
		Job:       job,
		Quote:     q,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, fmt.Errorf("begin save quote transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	dims := job.Dimensions
	geo := q.Geometry
	res, err := tx.ExecContext(ctx, `
		INSERT INTO quotes (
			reference, created_at,
			client_name, client_email, client_phone,
			shape, length, width, depth,
			volume, ceramic_area, thermal_floor_area,
			work_type,
			material_subtotal, work_subtotal, additional_subtotal,
			subtotal, discount, total,
			notes, status, job_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.Reference, rec.CreatedAt.Format(timeLayout),
		job.Client.Name, strings.TrimSpace(job.Client.Email), job.Client.Phone,
		string(dims.Shape), dims.Length, dims.Width, dims.Depth,
		geo.Volume, geo.CeramicArea, geo.ThermalFloorArea,
		string(job.WorkType),
		q.MaterialSubtotal, q.WorkSubtotal, q.AdditionalSubtotal,
		q.Subtotal, q.Discount, q.Total,
		job.Notes, rec.Status, string(jobJSON),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert quote: %w", err)
	}
	rec.ID, err = res.LastInsertId()
	if err != nil {
		return Record{}, fmt.Errorf("read quote id: %w", err)
	}

	sections := []struct {
		name  string
		items []pricing.LineItem
	}{
		{"materials", q.Materials},
		{"work", q.Work},
		{"additional", q.Additional},
	}
	for _, sec := range sections {
		for i, item := range sec.items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO quote_line_items (quote_id, section, position, kind, description, quantity, unit, unit_price, total)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, rec.ID, sec.name, i, string(item.Kind), item.Description, item.Quantity, item.Unit, item.UnitPrice, item.Total); err != nil {
				return Record{}, fmt.Errorf("insert %s line item: %w", sec.name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("commit save quote transaction: %w", err)
	}
	return rec, nil
}

// GetQuote loads a stored quote by id.
func (s *Store) GetQuote(ctx context.Context, id int64) (Record, error) {
	var (
		rec       Record
		createdAt string
		jobJSON   string
		q         pricing.Quote
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT
			id, reference, created_at, status, job_json,
			volume, ceramic_area, thermal_floor_area,
			material_subtotal, work_subtotal, additional_subtotal,
			subtotal, discount, total
		FROM quotes
		WHERE id = ?
	`, id).Scan(
		&rec.ID, &rec.Reference, &createdAt, &rec.Status, &jobJSON,
		&q.Geometry.Volume, &q.Geometry.CeramicArea, &q.Geometry.ThermalFloorArea,
		&q.MaterialSubtotal, &q.WorkSubtotal, &q.AdditionalSubtotal,
		&q.Subtotal, &q.Discount, &q.Total,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("query quote %d: %w", id, err)
	}

	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal([]byte(jobJSON), &rec.Job); err != nil {
		return Record{}, fmt.Errorf("decode job for quote %d: %w", id, err)
	}

	q.Materials, q.Work, q.Additional = []pricing.LineItem{}, []pricing.LineItem{}, []pricing.LineItem{}
	rows, err := s.db.QueryContext(ctx, `
		SELECT section, kind, description, quantity, unit, unit_price, total
		FROM quote_line_items
		WHERE quote_id = ?
		ORDER BY section, position
	`, id)
	if err != nil {
		return Record{}, fmt.Errorf("query line items for quote %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var section, kind string
		var item pricing.LineItem
		if err := rows.Scan(&section, &kind, &item.Description, &item.Quantity, &item.Unit, &item.UnitPrice, &item.Total); err != nil {
			return Record{}, fmt.Errorf("scan line item: %w", err)
		}
		item.Kind = pricing.Kind(kind)
		switch section {
		case "materials":
			q.Materials = append(q.Materials, item)
		case "work":
			q.Work = append(q.Work, item)
		case "additional":
			q.Additional = append(q.Additional, item)
		}
	}
	if err := rows.Err(); err != nil {
		return Record{}, fmt.Errorf("iterate line items: %w", err)
	}

	rec.Quote = q
	return rec, nil
}

// ListQuotes returns stored quotes, newest first. A non-empty query filters
// by reference, client name, client email or notes.
func (s *Store) ListQuotes(ctx context.Context, query string) ([]Summary, error) {
	query = strings.TrimSpace(query)
	search := "%" + query + "%"
	return s.listSummaries(ctx, `
		WHERE (? = '' OR reference LIKE ? OR client_name LIKE ? OR client_email LIKE ? OR notes LIKE ?)
	`, query, search, search, search, search)
}

// ListByClientEmail returns the quotes issued to one client, newest first.
// Emails compare case-insensitively.
func (s *Store) ListByClientEmail(ctx context.Context, email string) ([]Summary, error) {
	return s.listSummaries(ctx, `WHERE lower(client_email) = lower(?)`, strings.TrimSpace(email))
}

func (s *Store) listSummaries(ctx context.Context, where string, args ...any) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, reference, created_at, client_name, client_email, work_type, total, status
		FROM quotes
		`+where+`
		ORDER BY datetime(created_at) DESC, id DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]Summary, 0)
	for rows.Next() {
		var item Summary
		var createdAt, workType string
		if err := rows.Scan(&item.ID, &item.Reference, &createdAt, &item.ClientName, &item.ClientEmail, &workType, &item.Total, &item.Status); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		if item.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		item.WorkType = pricing.WorkType(workType)
		quotes = append(quotes, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}
	return quotes, nil
}

// UpdateStatus sets the status of a stored quote.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE quotes SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update quote status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update quote status: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func parseTime(raw string) (time.Time, error) {
	for _, layout := range []string{timeLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q", raw)
}
