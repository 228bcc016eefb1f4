package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/Simplici0/poolsmart/internal/pricing"
)

func checkbox(form url.Values, field string) bool {
	switch form.Get(field) {
	case "1", "on", "true":
		return true
	}
	return false
}

// parseQuoteFormValues turns the submitted quote form into a job. A blank
// hourly rate falls back to defaultRate; blank hours mean "estimate".
func parseQuoteFormValues(r *http.Request, defaultRate float64) (pricing.JobSpec, error) {
	form := r.Form
	job := pricing.NewJobSpec()

	var err error
	if job.Dimensions.Shape, err = pricing.ParseShape(form.Get("shape")); err != nil {
		return job, fmt.Errorf("forma inválida")
	}
	if job.WorkType, err = pricing.ParseWorkType(form.Get("work_type")); err != nil {
		return job, fmt.Errorf("tipo de trabajo inválido")
	}
	if job.Materials.TileGrade, err = pricing.ParseTileGrade(form.Get("tile_grade")); err != nil {
		return job, fmt.Errorf("calidad de cerámicos inválida")
	}
	if job.Access, err = pricing.ParseAccess(form.Get("access")); err != nil {
		return job, fmt.Errorf("dificultad de acceso inválida")
	}

	if job.Dimensions.Length, err = parsePositiveFloat(form.Get("length"), "largo"); err != nil {
		return job, err
	}
	if job.Dimensions.Width, err = parsePositiveFloat(form.Get("width"), "ancho"); err != nil {
		return job, err
	}
	if job.Dimensions.Depth, err = parsePositiveFloat(form.Get("depth"), "profundidad"); err != nil {
		return job, err
	}

	if raw := strings.TrimSpace(form.Get("hours")); raw != "" {
		hours, err := parseNonNegativeFloat(raw, "horas")
		if err != nil {
			return job, err
		}
		job.Labor.Hours = &hours
	}
	job.Labor.HourlyRate = defaultRate
	if raw := strings.TrimSpace(form.Get("hourly_rate")); raw != "" {
		if job.Labor.HourlyRate, err = parsePositiveFloat(raw, "tarifa por hora"); err != nil {
			return job, err
		}
	}

	m := &job.Materials
	for field, dst := range map[string]*bool{
		"ceramics": &m.Ceramics, "thermal_floor": &m.ThermalFloor, "pump": &m.Pump, "filter": &m.Filter,
		"lighting": &m.Lighting, "heating": &m.Heating, "cover": &m.Cover, "ladder": &m.Ladder,
	} {
		*dst = checkbox(form, field)
	}
	rp := &job.Repairs
	for field, dst := range map[string]*bool{
		"leaks": &rp.Leaks, "cracks": &rp.Cracks, "coating": &rp.Coating,
		"plumbing": &rp.Plumbing, "electrical": &rp.Electrical, "cleaning": &rp.Cleaning,
	} {
		*dst = checkbox(form, field)
	}
	job.Permits = checkbox(form, "permits")
	job.Excavation = checkbox(form, "excavation")

	job.Client = pricing.ClientInfo{
		Name:  strings.TrimSpace(form.Get("client_name")),
		Email: strings.TrimSpace(form.Get("client_email")),
		Phone: strings.TrimSpace(form.Get("client_phone")),
	}
	job.Notes = strings.TrimSpace(form.Get("notes"))

	if err := validateClient(job.Client); err != nil {
		return job, err
	}
	return job, nil
}

func validateClient(c pricing.ClientInfo) error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Length(0, 120)),
		validation.Field(&c.Email, is.EmailFormat),
		validation.Field(&c.Phone, validation.Length(0, 40)),
	)
	if err != nil {
		return fmt.Errorf("datos del cliente inválidos: %w", err)
	}
	return nil
}

// formValuesFromJob fills the quote form with the values of job.
func formValuesFromJob(job pricing.JobSpec) url.Values {
	v := url.Values{}
	v.Set("shape", string(job.Dimensions.Shape))
	v.Set("work_type", string(job.WorkType))
	v.Set("tile_grade", string(job.Materials.TileGrade))
	v.Set("access", string(job.Access))
	if job.Dimensions.Length > 0 {
		v.Set("length", strconv.FormatFloat(job.Dimensions.Length, 'f', -1, 64))
		v.Set("width", strconv.FormatFloat(job.Dimensions.Width, 'f', -1, 64))
		v.Set("depth", strconv.FormatFloat(job.Dimensions.Depth, 'f', -1, 64))
	}
	if job.Labor.Hours != nil {
		v.Set("hours", strconv.FormatFloat(*job.Labor.Hours, 'f', -1, 64))
	}
	v.Set("hourly_rate", strconv.FormatFloat(job.Labor.Rate(), 'f', -1, 64))

	m, rp := job.Materials, job.Repairs
	for field, on := range map[string]bool{
		"ceramics": m.Ceramics, "thermal_floor": m.ThermalFloor, "pump": m.Pump, "filter": m.Filter,
		"lighting": m.Lighting, "heating": m.Heating, "cover": m.Cover, "ladder": m.Ladder,
		"leaks": rp.Leaks, "cracks": rp.Cracks, "coating": rp.Coating,
		"plumbing": rp.Plumbing, "electrical": rp.Electrical, "cleaning": rp.Cleaning,
		"permits": job.Permits, "excavation": job.Excavation,
	} {
		if on {
			v.Set(field, "1")
		}
	}
	v.Set("client_name", job.Client.Name)
	v.Set("client_email", job.Client.Email)
	v.Set("client_phone", job.Client.Phone)
	v.Set("notes", job.Notes)
	return v
}
