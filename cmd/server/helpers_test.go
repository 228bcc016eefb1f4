package main

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/poolsmart/internal/db"
	"github.com/Simplici0/poolsmart/internal/document"
	"github.com/Simplici0/poolsmart/internal/logger"
	"github.com/Simplici0/poolsmart/internal/migrations"
	"github.com/Simplici0/poolsmart/internal/pricing"
	"github.com/Simplici0/poolsmart/internal/store"
	"github.com/Simplici0/poolsmart/internal/webhook"
)

func newTestServer(t *testing.T) *server {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "server-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	log := logger.NewTestLogger(t)
	return &server{
		auth:      newAuthService(database, "test-secret"),
		db:        database,
		store:     store.New(database),
		log:       log,
		webhook:   webhook.NewClient(webhook.Options{BaseDelay: time.Millisecond}, log),
		company:   document.Company{Name: "Pool Smart", Handle: "@poolsmart"},
		templates: "../../web/templates",
	}
}

func constructionJob() pricing.JobSpec {
	job := pricing.NewJobSpec()
	job.Dimensions = pricing.Dimensions{Shape: pricing.ShapeRectangular, Length: 10, Width: 5, Depth: 2}
	job.WorkType = pricing.WorkConstruction
	job.Materials = pricing.Materials{TileGrade: pricing.TileStandard}
	job.Excavation = true
	job.Client = pricing.ClientInfo{Name: "Ana Pérez", Email: "ana@example.com"}
	return job
}

func saveTestQuote(t *testing.T, srv *server, job pricing.JobSpec) store.Record {
	t.Helper()

	q, err := pricing.Calculate(job)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	rec, err := srv.store.SaveQuote(context.Background(), job, q)
	if err != nil {
		t.Fatalf("save quote: %v", err)
	}
	return rec
}

func withRouteID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
