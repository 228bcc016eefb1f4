package main

import (
	"context"
	"database/sql"
	"fmt"
	"html/template"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Simplici0/poolsmart/internal/config"
	"github.com/Simplici0/poolsmart/internal/db"
	"github.com/Simplici0/poolsmart/internal/document"
	"github.com/Simplici0/poolsmart/internal/export"
	"github.com/Simplici0/poolsmart/internal/logger"
	"github.com/Simplici0/poolsmart/internal/mail"
	"github.com/Simplici0/poolsmart/internal/migrations"
	"github.com/Simplici0/poolsmart/internal/pricing"
	"github.com/Simplici0/poolsmart/internal/seed"
	"github.com/Simplici0/poolsmart/internal/store"
	"github.com/Simplici0/poolsmart/internal/webhook"
)

const templatesDir = "web/templates"

type server struct {
	auth    *authService
	db      *sql.DB
	store   *store.Store
	log     logger.Logger
	webhook *webhook.Client
	mailer  *mail.Mailer
	company document.Company
	// templates overrides templatesDir in tests.
	templates string
}

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
}

type loginViewData struct {
	baseViewData
}

func main() {
	cfg := config.Load()

	appLog := logger.NewStructured(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	defer func() { _ = appLog.Sync() }()
	for _, w := range cfg.Warnings() {
		appLog.Warn("configuration warning", map[string]interface{}{"detail": w})
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database); err != nil {
			log.Fatalf("failed to run database migrations: %v", err)
		}
	}
	version, err := migrations.Version(database)
	if err != nil {
		log.Fatalf("failed to read schema version: %v", err)
	}
	appLog.Info("database ready", map[string]interface{}{"path": cfg.DBPath, "schemaVersion": version})

	stats, err := seed.Run(database, seed.Config{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		CompanyName:   cfg.CompanyName,
		CompanyHandle: cfg.CompanyHandle,
	})
	if err != nil {
		log.Fatalf("failed to seed database: %v", err)
	}
	appLog.Info("seed complete", map[string]interface{}{"inserts": stats.Inserts, "updates": stats.Updates})

	srv := &server{
		auth:  newAuthService(database, cfg.SessionSecret),
		db:    database,
		store: store.New(database),
		log:   appLog,
		webhook: webhook.NewClient(webhook.Options{
			URL:        cfg.WebhookURL,
			Timeout:    cfg.WebhookTimeout,
			MaxRetries: uint64(cfg.WebhookMaxRetries),
		}, appLog),
		company: document.Company{Name: cfg.CompanyName, Handle: cfg.CompanyHandle},
	}

	if cfg.MailEnabled() {
		mailer, err := mail.NewSES(context.Background(), cfg.AWSRegion, cfg.MailFrom, appLog)
		if err != nil {
			log.Fatalf("failed to configure mail: %v", err)
		}
		srv.mailer = mailer
	}

	addr := ":" + cfg.Port
	appLog.Info("listening", map[string]interface{}{"addr": addr})
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.authMiddleware)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", s.handleHome)
	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLoginSubmit)
	r.Post("/logout", s.handleLogout)
	r.Get("/quote", s.handleQuoteForm)
	r.Post("/quote/calc", s.handleQuoteCalc)
	r.Get("/quotes", s.handleQuotesList)
	r.Get("/quotes/{id}", s.handleQuoteDetail)
	r.Get("/quotes/{id}/text", s.handleQuoteText)
	r.Get("/quotes/{id}/pdf", s.handleQuotePDF)
	r.Get("/quotes/{id}/xlsx", s.handleQuoteExcel)
	r.Get("/quotes/{id}/json", s.handleQuoteJSON)
	r.Post("/quotes/{id}/send", s.handleQuoteSend)
	r.Post("/quotes/{id}/email", s.handleQuoteEmail)
	r.Get("/admin/settings", s.handleAdminSettingsForm)
	r.Post("/admin/settings", s.handleAdminSettingsSubmit)
	return r
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, "home.html", nil)
}

func (s *server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if isAuthenticated(r, s.auth) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderTemplate(w, "login.html", loginViewData{})
}

func (s *server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	valid, err := s.auth.validateCredentials(email, password)
	if err != nil {
		s.log.WithError(err).Error("login failed", nil)
		http.Error(w, "authentication error", http.StatusInternalServerError)
		return
	}
	if !valid {
		w.WriteHeader(http.StatusUnauthorized)
		s.renderTemplate(w, "login.html", loginViewData{baseViewData: baseViewData{ErrorMessage: "Credenciales inválidas. Intenta de nuevo."}})
		return
	}

	s.auth.setSessionCookie(w, email)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// parseFiniteFloat rejects text that is not a number, including NaN, Inf and
// values that overflow float64.
func parseFiniteFloat(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%s debe ser numérico", field)
	}
	return value, nil
}

func parseNonNegativeFloat(raw, field string) (float64, error) {
	value, err := parseFiniteFloat(raw, field)
	if err != nil {
		return 0, err
	}
	if value < 0 {
		return 0, fmt.Errorf("%s debe ser mayor o igual a 0", field)
	}
	return value, nil
}

func parsePositiveFloat(raw, field string) (float64, error) {
	value, err := parseFiniteFloat(raw, field)
	if err != nil {
		return 0, err
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s debe ser mayor a 0", field)
	}
	return value, nil
}

func redirectWithMessage(w http.ResponseWriter, r *http.Request, path, key, message string) {
	http.Redirect(w, r, path+"?"+key+"="+url.QueryEscape(message), http.StatusSeeOther)
}

func messagesFromQuery(r *http.Request) baseViewData {
	return baseViewData{
		ErrorMessage:   r.URL.Query().Get("error"),
		SuccessMessage: r.URL.Query().Get("success"),
	}
}

var templateFuncs = template.FuncMap{
	"money": document.Money,
	"round": pricing.Round2,
	"date":  export.FormatDate,
}

func (s *server) renderTemplate(w http.ResponseWriter, page string, data any) {
	dir := s.templates
	if dir == "" {
		dir = templatesDir
	}
	templates, err := template.New("layout.html").Funcs(templateFuncs).ParseFiles(
		dir+"/layout.html",
		dir+"/"+page,
	)
	if err != nil {
		http.Error(w, "failed to parse template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, "layout.html", data); err != nil {
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}
}

func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" || r.URL.Path == "/metrics" || r.URL.Path == "/static" || strings.HasPrefix(r.URL.Path, "/static/") {
			next.ServeHTTP(w, r)
			return
		}

		if !isAuthenticated(r, s.auth) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isAuthenticated(r *http.Request, auth *authService) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}

	_, ok := auth.verifySessionValue(cookie.Value)
	return ok
}
