package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Simplici0/poolsmart/internal/pricing"
	"github.com/Simplici0/poolsmart/internal/seed"
	"github.com/Simplici0/poolsmart/internal/store"
)

func seedNamedQuote(t *testing.T, srv *server, createdAt, name, notes string) {
	t.Helper()

	job := constructionJob()
	job.Client = pricing.ClientInfo{Name: name, Email: strings.ToLower(name) + "@example.com"}
	job.Notes = notes
	rec := saveTestQuote(t, srv, job)
	if _, err := srv.db.Exec(`UPDATE quotes SET created_at = ? WHERE id = ?`, createdAt, rec.ID); err != nil {
		t.Fatalf("set created_at: %v", err)
	}
}

func TestListQuotesOrdersByDateDesc(t *testing.T) {
	srv := newTestServer(t)

	seedNamedQuote(t, srv, "2024-01-01 10:00:00", "Primera", "nota uno")
	seedNamedQuote(t, srv, "2024-01-03 12:00:00", "Tercera", "nota tres")
	seedNamedQuote(t, srv, "2024-01-02 11:00:00", "Segunda", "nota dos")

	quotes, err := srv.listQuotes(context.Background(), "")
	if err != nil {
		t.Fatalf("listQuotes returned error: %v", err)
	}
	if len(quotes) != 3 {
		t.Fatalf("expected 3 quotes, got %d", len(quotes))
	}
	if quotes[0].ClientName != "Tercera" || quotes[1].ClientName != "Segunda" || quotes[2].ClientName != "Primera" {
		t.Fatalf("quotes are not sorted desc by created_at: %+v", quotes)
	}
	if quotes[0].Total != 45000 || quotes[0].Status != store.StatusPending {
		t.Fatalf("unexpected summary: %+v", quotes[0])
	}
}

func TestListQuotesFilterByClientAndNotes(t *testing.T) {
	srv := newTestServer(t)

	seedNamedQuote(t, srv, "2024-01-01 10:00:00", "Casa", "piscina roja")
	seedNamedQuote(t, srv, "2024-01-02 10:00:00", "Hotel", "cliente vip")
	seedNamedQuote(t, srv, "2024-01-03 10:00:00", "Club", "urgente para casa")

	byName, err := srv.listQuotes(context.Background(), "Hot")
	if err != nil {
		t.Fatalf("listQuotes name filter returned error: %v", err)
	}
	if len(byName) != 1 || byName[0].ClientName != "Hotel" {
		t.Fatalf("expected 1 quote filtered by name, got %+v", byName)
	}

	byNotes, err := srv.listQuotes(context.Background(), "casa")
	if err != nil {
		t.Fatalf("listQuotes notes filter returned error: %v", err)
	}
	if len(byNotes) != 2 {
		t.Fatalf("expected 2 quotes matching name or notes, got %+v", byNotes)
	}
}

func loggedInRequest(t *testing.T, srv *server, method, target string, form url.Values) *http.Request {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: srv.auth.createSessionValue("admin@poolsmart.com")})
	return req
}

func TestQuoteCalcPersistsAndRedirects(t *testing.T) {
	srv := newTestServer(t)
	router := srv.routes()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, loggedInRequest(t, srv, http.MethodPost, "/quote/calc", validQuoteForm()))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); !strings.HasPrefix(loc, "/quotes/1?success=") {
		t.Fatalf("unexpected redirect %q", loc)
	}

	rec, err := srv.store.GetQuote(context.Background(), 1)
	if err != nil {
		t.Fatalf("get saved quote: %v", err)
	}
	if rec.Job.WorkType != pricing.WorkRepair || rec.Quote.Total <= 0 {
		t.Fatalf("unexpected saved quote: %+v", rec)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, loggedInRequest(t, srv, http.MethodGet, "/quotes/1", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), rec.Reference) {
		t.Fatalf("expected detail page with reference, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestQuoteCalcRejectsInvalidForm(t *testing.T) {
	srv := newTestServer(t)

	form := validQuoteForm()
	form.Set("width", "-2")

	rr := httptest.NewRecorder()
	srv.routes().ServeHTTP(rr, loggedInRequest(t, srv, http.MethodPost, "/quote/calc", form))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "ancho debe ser mayor a 0") {
		t.Fatalf("expected validation message, got: %s", rr.Body.String())
	}

	quotes, err := srv.listQuotes(context.Background(), "")
	if err != nil || len(quotes) != 0 {
		t.Fatalf("expected nothing saved, got %v %+v", err, quotes)
	}
}

func TestQuoteCalcRejectsNonFiniteNumbers(t *testing.T) {
	srv := newTestServer(t)

	for _, tc := range []struct{ field, value string }{
		{"hourly_rate", "NaN"},
		{"hours", "Inf"},
		{"hourly_rate", "Inf"},
	} {
		form := validQuoteForm()
		form.Set(tc.field, tc.value)

		rr := httptest.NewRecorder()
		srv.routes().ServeHTTP(rr, loggedInRequest(t, srv, http.MethodPost, "/quote/calc", form))

		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s=%s: expected 422, got %d: %s", tc.field, tc.value, rr.Code, rr.Body.String())
		}
		if !strings.Contains(rr.Body.String(), "debe ser numérico") {
			t.Fatalf("%s=%s: expected validation message, got: %s", tc.field, tc.value, rr.Body.String())
		}
	}

	quotes, err := srv.listQuotes(context.Background(), "")
	if err != nil || len(quotes) != 0 {
		t.Fatalf("expected nothing saved, got %v %+v", err, quotes)
	}
}

func TestQuoteSendUsesSubmittedURLAndMarksSent(t *testing.T) {
	var received int
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received++
		w.WriteHeader(http.StatusOK)
	}))
	defer hook.Close()

	srv := newTestServer(t)
	rec := saveTestQuote(t, srv, constructionJob())

	rr := httptest.NewRecorder()
	srv.routes().ServeHTTP(rr, loggedInRequest(t, srv, http.MethodPost, "/quotes/1/send", url.Values{"webhook_url": {hook.URL}}))

	if rr.Code != http.StatusSeeOther || !strings.Contains(rr.Header().Get("Location"), "success=") {
		t.Fatalf("expected success redirect, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
	if received != 1 {
		t.Fatalf("expected webhook to be called once, got %d", received)
	}

	got, err := srv.store.GetQuote(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("get quote: %v", err)
	}
	if got.Status != store.StatusSent {
		t.Fatalf("expected status %q, got %q", store.StatusSent, got.Status)
	}
}

func TestQuoteSendWithoutURL(t *testing.T) {
	srv := newTestServer(t)
	saveTestQuote(t, srv, constructionJob())

	rr := httptest.NewRecorder()
	srv.routes().ServeHTTP(rr, loggedInRequest(t, srv, http.MethodPost, "/quotes/1/send", url.Values{}))

	if !strings.Contains(rr.Header().Get("Location"), "error=") {
		t.Fatalf("expected error redirect, got %q", rr.Header().Get("Location"))
	}
}

func TestQuoteEmailWithoutMailer(t *testing.T) {
	srv := newTestServer(t)
	saveTestQuote(t, srv, constructionJob())

	rr := httptest.NewRecorder()
	srv.routes().ServeHTTP(rr, loggedInRequest(t, srv, http.MethodPost, "/quotes/1/email", url.Values{}))

	if rr.Code != http.StatusSeeOther || !strings.Contains(rr.Header().Get("Location"), "error=") {
		t.Fatalf("expected error redirect, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestUnauthenticatedRequestsRedirectToLogin(t *testing.T) {
	srv := newTestServer(t)

	rr := httptest.NewRecorder()
	srv.routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/quotes", nil))

	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestLoginWithSeededAdmin(t *testing.T) {
	srv := newTestServer(t)
	if _, err := seed.Run(srv.db, seed.Config{AdminEmail: "admin@poolsmart.com", AdminPassword: "secreto"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	ok, err := srv.auth.validateCredentials("admin@poolsmart.com", "secreto")
	if err != nil || !ok {
		t.Fatalf("expected valid credentials, got %v %v", ok, err)
	}
	ok, err = srv.auth.validateCredentials("admin@poolsmart.com", "otra")
	if err != nil || ok {
		t.Fatalf("expected invalid credentials, got %v %v", ok, err)
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=admin%40poolsmart.com&password=secreto"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after login, got %d", rr.Code)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != sessionCookieName {
		t.Fatalf("expected session cookie, got %+v", cookies)
	}
	if email, ok := srv.auth.verifySessionValue(cookies[0].Value); !ok || email != "admin@poolsmart.com" {
		t.Fatalf("unexpected session %q %v", email, ok)
	}
}

func TestAdminSettingsUpdate(t *testing.T) {
	srv := newTestServer(t)

	form := url.Values{
		"default_hourly_rate": {"72.5"},
		"webhook_url":         {"https://hooks.example.com/quotes"},
		"company_name":        {"Piscinas del Sur"},
	}
	rr := httptest.NewRecorder()
	srv.routes().ServeHTTP(rr, loggedInRequest(t, srv, http.MethodPost, "/admin/settings", form))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d: %s", rr.Code, rr.Body.String())
	}

	settings, err := srv.store.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if settings.DefaultHourlyRate != 72.5 || settings.CompanyName != "Piscinas del Sur" {
		t.Fatalf("unexpected settings: %+v", settings)
	}

	rr = httptest.NewRecorder()
	srv.routes().ServeHTTP(rr, loggedInRequest(t, srv, http.MethodPost, "/admin/settings", url.Values{"default_hourly_rate": {"0"}}))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid rate, got %d", rr.Code)
	}
}
