package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/poolsmart/internal/db"
	"github.com/Simplici0/poolsmart/internal/migrations"
	"github.com/Simplici0/poolsmart/internal/pricing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "store-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, migrations.Up(database))
	return New(database)
}

func repairJob(t *testing.T, name, email string) (pricing.JobSpec, pricing.Quote) {
	t.Helper()
	job := pricing.NewJobSpec()
	job.Dimensions = pricing.Dimensions{Shape: pricing.ShapeRectangular, Length: 10, Width: 5, Depth: 2}
	job.WorkType = pricing.WorkRepair
	job.Materials = pricing.Materials{}
	job.Excavation = false
	job.Repairs = pricing.Repairs{Leaks: true, Cracks: true}
	job.Permits = true
	job.Client = pricing.ClientInfo{Name: name, Email: email, Phone: "555"}
	job.Notes = "Revisar bomba"

	q, err := pricing.Calculate(job)
	require.NoError(t, err)
	return job, q
}

func TestSaveAndGetQuoteRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	job, q := repairJob(t, "Ana", "ana@example.com")

	rec, err := s.SaveQuote(ctx, job, q)
	require.NoError(t, err)
	assert.NotZero(t, rec.ID)
	assert.Regexp(t, `^COT-[0-9A-F]{8}$`, rec.Reference)
	assert.Equal(t, StatusPending, rec.Status)

	got, err := s.GetQuote(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Reference, got.Reference)
	assert.Equal(t, StatusPending, got.Status)
	assert.Equal(t, job, got.Job)
	assert.InDelta(t, q.Total, got.Quote.Total, 1e-9)
	assert.InDelta(t, q.Geometry.CeramicArea, got.Quote.Geometry.CeramicArea, 1e-9)
	assert.Equal(t, q.Materials, got.Quote.Materials)
	assert.Equal(t, q.Work, got.Quote.Work)
	assert.Equal(t, q.Additional, got.Quote.Additional)

	labor, ok := got.Quote.Labor()
	require.True(t, ok)
	assert.Equal(t, pricing.KindLabor, labor.Kind)
}

func TestGetQuoteReadsSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	job, q := repairJob(t, "Ana", "ana@example.com")

	rec, err := s.SaveQuote(ctx, job, q)
	require.NoError(t, err)

	// A later edit to the stored total must be what readers see.
	_, err = s.db.Exec(`UPDATE quotes SET total = 999.99 WHERE id = ?`, rec.ID)
	require.NoError(t, err)

	got, err := s.GetQuote(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 999.99, got.Quote.Total)
}

func TestGetQuoteNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetQuote(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListQuotesOrderAndSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	for i, name := range []string{"Primera", "Segunda", "Tercera"} {
		at := base.Add(time.Duration(i) * 24 * time.Hour)
		s.now = func() time.Time { return at }
		job, q := repairJob(t, name, name+"@example.com")
		_, err := s.SaveQuote(ctx, job, q)
		require.NoError(t, err)
	}

	all, err := s.ListQuotes(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Tercera", all[0].ClientName)
	assert.Equal(t, "Segunda", all[1].ClientName)
	assert.Equal(t, "Primera", all[2].ClientName)
	assert.Equal(t, pricing.WorkRepair, all[0].WorkType)
	assert.Equal(t, base.Add(48*time.Hour), all[0].CreatedAt)

	filtered, err := s.ListQuotes(ctx, "Segu")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Segunda", filtered[0].ClientName)

	none, err := s.ListQuotes(ctx, "nadie")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListByClientEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, email := range []string{"ana@example.com", "luis@example.com", "ANA@example.com"} {
		job, q := repairJob(t, "x", email)
		_, err := s.SaveQuote(ctx, job, q)
		require.NoError(t, err)
	}

	quotes, err := s.ListByClientEmail(ctx, " ana@example.com ")
	require.NoError(t, err)
	assert.Len(t, quotes, 2)
}

func TestUpdateStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	job, q := repairJob(t, "Ana", "ana@example.com")
	rec, err := s.SaveQuote(ctx, job, q)
	require.NoError(t, err)

	require.NoError(t, s.UpdateStatus(ctx, rec.ID, StatusSent))
	got, err := s.GetQuote(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, got.Status)

	assert.ErrorIs(t, s.UpdateStatus(ctx, rec.ID+100, StatusSent), ErrNotFound)
}

func TestSettings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	st, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), st)

	st.DefaultHourlyRate = 65
	st.WebhookURL = " https://hooks.example.com/quotes "
	st.CompanyName = "Pool Smart"
	require.NoError(t, s.UpdateSettings(ctx, st))

	got, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 65.0, got.DefaultHourlyRate)
	assert.Equal(t, "https://hooks.example.com/quotes", got.WebhookURL)
	assert.Equal(t, "Pool Smart", got.CompanyName)
	assert.Equal(t, "USD", got.Currency)

	assert.Error(t, s.UpdateSettings(ctx, Settings{DefaultHourlyRate: 0}))
	assert.Error(t, s.UpdateSettings(ctx, Settings{DefaultHourlyRate: 10, WebhookURL: "ftp://x"}))
}

func TestSaveQuoteRollsBackOnLineItemFailure(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	job, q := repairJob(t, "Ana", "ana@example.com")

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO quotes`).WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(`INSERT INTO quote_line_items`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err = New(database).SaveQuote(context.Background(), job, q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetQuoteWrapsQueryError(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	mock.ExpectQuery(`SELECT(.|\n)*FROM quotes`).WithArgs(int64(3)).WillReturnError(sql.ErrConnDone)

	_, err = New(database).GetQuote(context.Background(), 3)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}
