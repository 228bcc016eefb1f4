// Package document renders a finished quote for people: plain text, PDF and
// spreadsheet. It never prices anything itself.
package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Simplici0/poolsmart/internal/export"
	"github.com/Simplici0/poolsmart/internal/pricing"
)

// DefaultValidDays is how long a printed quote is honored.
const DefaultValidDays = 7

// Company identifies the issuer printed on every document.
type Company struct {
	Name   string
	Handle string
}

// Document bundles everything a rendition needs.
type Document struct {
	Reference string
	IssuedAt  time.Time
	ValidDays int
	Company   Company
	Job       pricing.JobSpec
	Quote     pricing.Quote
}

// New returns a Document with the default validity period.
func New(reference string, company Company, job pricing.JobSpec, q pricing.Quote, issuedAt time.Time) Document {
	return Document{
		Reference: reference,
		IssuedAt:  issuedAt,
		ValidDays: DefaultValidDays,
		Company:   company,
		Job:       job,
		Quote:     q,
	}
}

// Money formats an amount in USD with thousands separators. Negative amounts
// carry the sign before the currency symbol.
func Money(v float64) string {
	v = pricing.Round2(v)
	if v == 0 {
		// Drop the sign of -0 left by rounding tiny negatives.
		v = 0
	}
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func number(v float64) string {
	return humanize.FormatFloat("#,###.##", pricing.Round2(v))
}

func (d Document) clientName() string {
	if name := strings.TrimSpace(d.Job.Client.Name); name != "" {
		return name
	}
	return "Cliente"
}

func (d Document) title() string {
	if d.Reference == "" {
		return "Cotización"
	}
	return "Cotización " + d.Reference
}

func (d Document) validityNote() string {
	days := d.ValidDays
	if days <= 0 {
		days = DefaultValidDays
	}
	return fmt.Sprintf("La cotización es válida por %d días. La fecha de ejecución del servicio se coordinará según disponibilidad.", days)
}

// assumptions lists the approximations a reader should know about.
func (d Document) assumptions() []string {
	out := []string{d.validityNote(), "Valores expresados en " + export.Currency + "."}
	if d.Job.Dimensions.Shape == pricing.ShapeOval {
		out = append(out, "La piscina ovalada se calcula como circular usando el ancho como diámetro.")
	}
	if _, ok := d.Quote.Labor(); ok && (d.Job.Labor.Hours == nil || *d.Job.Labor.Hours <= 0) {
		out = append(out, "Las horas de mano de obra son estimadas.")
	}
	return out
}

type section struct {
	title string
	items []pricing.LineItem
}

func (d Document) sections() []section {
	return []section{
		{"Materiales", d.Quote.Materials},
		{"Trabajo", d.Quote.Work},
		{"Adicionales", d.Quote.Additional},
	}
}
