package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/poolsmart/internal/document"
	"github.com/Simplici0/poolsmart/internal/export"
	"github.com/Simplici0/poolsmart/internal/mail"
	"github.com/Simplici0/poolsmart/internal/metrics"
	"github.com/Simplici0/poolsmart/internal/pricing"
	"github.com/Simplici0/poolsmart/internal/store"
	"github.com/Simplici0/poolsmart/internal/webhook"
)

type quoteFormViewData struct {
	baseViewData
	Values url.Values
}

type quotesViewData struct {
	baseViewData
	Query  string
	Quotes []store.Summary
}

// quoteDetail is a stored quote ready for rendering.
type quoteDetail struct {
	store.Record
	Document document.Document
	Labor    pricing.LineItem
	HasLabor bool
}

type quoteDetailViewData struct {
	baseViewData
	Detail      quoteDetail
	WebhookURL  string
	MailEnabled bool
}

func (s *server) handleQuoteForm(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		return
	}

	job := pricing.NewJobSpec()
	job.Labor.HourlyRate = settings.DefaultHourlyRate
	s.renderTemplate(w, "quote_form.html", quoteFormViewData{Values: formValuesFromJob(job)})
}

func (s *server) handleQuoteCalc(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		return
	}

	job, err := parseQuoteFormValues(r, settings.DefaultHourlyRate)
	if err == nil {
		var q pricing.Quote
		if q, err = pricing.Calculate(job); err == nil {
			rec, err := s.store.SaveQuote(r.Context(), job, q)
			if err != nil {
				s.log.WithError(err).Error("save quote failed", nil)
				http.Error(w, "failed to save quote", http.StatusInternalServerError)
				return
			}
			metrics.ObserveQuote(string(job.WorkType), q.Total)
			s.log.Info("quote computed", map[string]interface{}{
				"quoteId":   rec.ID,
				"reference": rec.Reference,
				"workType":  string(job.WorkType),
				"total":     pricing.Round2(q.Total),
			})
			redirectWithMessage(w, r, fmt.Sprintf("/quotes/%d", rec.ID), "success", "Cotización guardada correctamente")
			return
		}
	}

	metrics.QuotesRejected.Inc()
	w.WriteHeader(http.StatusUnprocessableEntity)
	s.renderTemplate(w, "quote_form.html", quoteFormViewData{
		baseViewData: baseViewData{ErrorMessage: formErrorMessage(err)},
		Values:       r.PostForm,
	})
}

func formErrorMessage(err error) string {
	switch {
	case errors.Is(err, pricing.ErrInvalidDimensions):
		return "Las dimensiones deben ser números mayores a 0 y de un tamaño razonable."
	case errors.Is(err, pricing.ErrOutOfRange):
		return "Los valores ingresados producen un monto fuera de rango."
	}
	return err.Error()
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	var (
		quotes []store.Summary
		err    error
	)
	if email := strings.TrimSpace(r.URL.Query().Get("email")); email != "" {
		quotes, err = s.store.ListByClientEmail(r.Context(), email)
		query = email
	} else {
		quotes, err = s.listQuotes(r.Context(), query)
	}
	if err != nil {
		http.Error(w, "failed to load quotes", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "quotes.html", quotesViewData{
		Query:  query,
		Quotes: quotes,
	})
}

func (s *server) listQuotes(ctx context.Context, query string) ([]store.Summary, error) {
	return s.store.ListQuotes(ctx, query)
}

// getQuoteDetail loads the stored snapshot of a quote. It never re-prices.
func (s *server) getQuoteDetail(ctx context.Context, id int64) (quoteDetail, error) {
	rec, err := s.store.GetQuote(ctx, id)
	if err != nil {
		return quoteDetail{}, err
	}

	company := s.company
	if settings, err := s.store.GetSettings(ctx); err == nil {
		if settings.CompanyName != "" {
			company.Name = settings.CompanyName
		}
		if settings.CompanyHandle != "" {
			company.Handle = settings.CompanyHandle
		}
	}

	detail := quoteDetail{
		Record:   rec,
		Document: document.New(rec.Reference, company, rec.Job, rec.Quote, rec.CreatedAt),
	}
	detail.Labor, detail.HasLabor = rec.Quote.Labor()
	return detail, nil
}

// loadQuote resolves the {id} route parameter and writes the error response
// itself when the quote cannot be loaded.
func (s *server) loadQuote(w http.ResponseWriter, r *http.Request) (quoteDetail, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid quote id", http.StatusBadRequest)
		return quoteDetail{}, false
	}

	detail, err := s.getQuoteDetail(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return quoteDetail{}, false
	}
	if err != nil {
		s.log.WithError(err).Error("load quote failed", map[string]interface{}{"quoteId": id})
		http.Error(w, "failed to load quote", http.StatusInternalServerError)
		return quoteDetail{}, false
	}
	return detail, true
}

func (s *server) handleQuoteDetail(w http.ResponseWriter, r *http.Request) {
	detail, ok := s.loadQuote(w, r)
	if !ok {
		return
	}

	view := quoteDetailViewData{
		baseViewData: messagesFromQuery(r),
		Detail:       detail,
		MailEnabled:  s.mailer != nil,
	}
	if settings, err := s.store.GetSettings(r.Context()); err == nil {
		view.WebhookURL = settings.WebhookURL
	}
	s.renderTemplate(w, "quote_detail.html", view)
}

func (s *server) handleQuoteText(w http.ResponseWriter, r *http.Request) {
	detail, ok := s.loadQuote(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(document.RenderText(detail.Document)))
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *server) handleQuotePDF(w http.ResponseWriter, r *http.Request) {
	detail, ok := s.loadQuote(w, r)
	if !ok {
		return
	}

	data, err := document.RenderPDF(detail.Document)
	if err != nil {
		s.log.WithError(err).Error("render pdf failed", map[string]interface{}{"quoteId": detail.ID})
		http.Error(w, "failed to render pdf", http.StatusInternalServerError)
		return
	}
	writeAttachment(w, "application/pdf", detail.Reference+".pdf", data)
}

func (s *server) handleQuoteExcel(w http.ResponseWriter, r *http.Request) {
	detail, ok := s.loadQuote(w, r)
	if !ok {
		return
	}

	data, err := document.RenderExcel(detail.Document)
	if err != nil {
		s.log.WithError(err).Error("render xlsx failed", map[string]interface{}{"quoteId": detail.ID})
		http.Error(w, "failed to render spreadsheet", http.StatusInternalServerError)
		return
	}
	writeAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", detail.Reference+".xlsx", data)
}

func (s *server) handleQuoteJSON(w http.ResponseWriter, r *http.Request) {
	detail, ok := s.loadQuote(w, r)
	if !ok {
		return
	}

	data, err := export.Marshal(export.Build(detail.Reference, detail.Job, detail.Quote, detail.CreatedAt))
	if err != nil {
		s.log.WithError(err).Error("export json failed", map[string]interface{}{"quoteId": detail.ID})
		http.Error(w, "failed to export quote", http.StatusInternalServerError)
		return
	}
	writeAttachment(w, "application/json", export.Filename(detail.Job.Client.Name, detail.CreatedAt), data)
}

// handleQuoteSend posts the quote to the workflow webhook. A URL submitted
// with the form wins over the one saved in settings, which wins over the
// configured default.
func (s *server) handleQuoteSend(w http.ResponseWriter, r *http.Request) {
	detail, ok := s.loadQuote(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	back := fmt.Sprintf("/quotes/%d", detail.ID)

	target := strings.TrimSpace(r.FormValue("webhook_url"))
	if target == "" {
		if settings, err := s.store.GetSettings(r.Context()); err == nil {
			target = settings.WebhookURL
		}
	}

	payload := export.Build(detail.Reference, detail.Job, detail.Quote, detail.CreatedAt)
	err := s.webhook.SendTo(r.Context(), target, payload)
	switch {
	case errors.Is(err, webhook.ErrNoURL):
		redirectWithMessage(w, r, back, "error", "No hay una URL de webhook configurada")
		return
	case err != nil:
		redirectWithMessage(w, r, back, "error", "No se pudo enviar la cotización: "+err.Error())
		return
	}

	if err := s.store.UpdateStatus(r.Context(), detail.ID, store.StatusSent); err != nil {
		s.log.WithError(err).Warn("update quote status failed", map[string]interface{}{"quoteId": detail.ID})
	}
	redirectWithMessage(w, r, back, "success", "Cotización enviada correctamente")
}

func (s *server) handleQuoteEmail(w http.ResponseWriter, r *http.Request) {
	detail, ok := s.loadQuote(w, r)
	if !ok {
		return
	}
	back := fmt.Sprintf("/quotes/%d", detail.ID)

	if s.mailer == nil {
		redirectWithMessage(w, r, back, "error", "El envío por correo no está configurado")
		return
	}

	_, err := s.mailer.SendQuote(r.Context(), detail.Document)
	switch {
	case errors.Is(err, mail.ErrNoRecipient):
		redirectWithMessage(w, r, back, "error", "La cotización no tiene email de cliente")
		return
	case err != nil:
		redirectWithMessage(w, r, back, "error", "No se pudo enviar el correo")
		return
	}

	if err := s.store.UpdateStatus(r.Context(), detail.ID, store.StatusSent); err != nil {
		s.log.WithError(err).Warn("update quote status failed", map[string]interface{}{"quoteId": detail.ID})
	}
	redirectWithMessage(w, r, back, "success", "Cotización enviada a "+detail.Job.Client.Email)
}
