package main

import (
	"net/http"
	"strings"

	"github.com/Simplici0/poolsmart/internal/store"
)

type settingsViewData struct {
	baseViewData
	Settings store.Settings
}

func (s *server) handleAdminSettingsForm(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "admin_settings.html", settingsViewData{
		baseViewData: messagesFromQuery(r),
		Settings:     settings,
	})
}

func (s *server) handleAdminSettingsSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	settings, err := parseSettingsForm(r)
	if err == nil {
		err = s.store.UpdateSettings(r.Context(), settings)
	}
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		s.renderTemplate(w, "admin_settings.html", settingsViewData{
			baseViewData: baseViewData{ErrorMessage: err.Error()},
			Settings:     settings,
		})
		return
	}

	redirectWithMessage(w, r, "/admin/settings", "success", "Configuración actualizada correctamente")
}

func parseSettingsForm(r *http.Request) (store.Settings, error) {
	settings := store.Settings{
		WebhookURL:    strings.TrimSpace(r.FormValue("webhook_url")),
		CompanyName:   strings.TrimSpace(r.FormValue("company_name")),
		CompanyHandle: strings.TrimSpace(r.FormValue("company_handle")),
		Currency:      "USD",
	}

	var err error
	settings.DefaultHourlyRate, err = parsePositiveFloat(r.FormValue("default_hourly_rate"), "default_hourly_rate")
	if err != nil {
		return settings, err
	}
	return settings, nil
}
