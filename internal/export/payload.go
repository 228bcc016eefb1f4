// Package export flattens a job and its quote into the payload sent to the
// external workflow system and offered as a JSON download.
package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Simplici0/poolsmart/internal/pricing"
)

// Currency of every exported amount.
const Currency = "USD"

const defaultClientName = "Cliente"

// LineItem is the exported form of a quote row, rounded to cents.
type LineItem struct {
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unitPrice"`
	Total     float64 `json:"total"`
}

type Details struct {
	Materials  []LineItem `json:"materiales"`
	Work       []LineItem `json:"trabajo"`
	Additional []LineItem `json:"adicionales"`
}

type Dimensions struct {
	Shape            string  `json:"tipo"`
	Length           float64 `json:"largo"`
	Width            float64 `json:"ancho"`
	Depth            float64 `json:"profundidad"`
	Volume           float64 `json:"volumen"`
	CeramicArea      float64 `json:"areaCeramica"`
	ThermalFloorArea float64 `json:"areaPisoTermico"`
}

type Budget struct {
	Subtotal   float64    `json:"subtotal"`
	Discount   float64    `json:"descuento"`
	Total      float64    `json:"total"`
	Currency   string     `json:"moneda"`
	Date       string     `json:"fecha"`
	Details    Details    `json:"detalles"`
	Dimensions Dimensions `json:"dimensiones"`
	Notes      string     `json:"notas"`
}

type Client struct {
	FullName string `json:"nombreCompleto"`
	Email    string `json:"email"`
	Phone    string `json:"telefono"`
}

type Work struct {
	Type  string `json:"tipo"`
	Label string `json:"tipoTexto"`
}

type Materials struct {
	Ceramics     bool   `json:"ceramicos"`
	TileGrade    string `json:"calidadCeramicos"`
	ThermalFloor bool   `json:"pisoTermico"`
	Pump         bool   `json:"bomba"`
	Filter       bool   `json:"filtro"`
	Lighting     bool   `json:"iluminacion"`
	Heating      bool   `json:"calefaccion"`
	Cover        bool   `json:"cubierta"`
	Ladder       bool   `json:"escalera"`
}

type Repairs struct {
	Leaks      bool `json:"filtraciones"`
	Cracks     bool `json:"grietas"`
	Coating    bool `json:"revestimiento"`
	Plumbing   bool `json:"plomeria"`
	Electrical bool `json:"electrica"`
	Cleaning   bool `json:"limpieza"`
}

type Labor struct {
	Hours      *float64 `json:"horas"`
	HourlyRate float64  `json:"tarifaPorHora"`
	Cost       float64  `json:"costoTotal"`
}

type OtherFactors struct {
	Access     string `json:"dificultadAcceso"`
	Permits    bool   `json:"incluyePermisos"`
	Excavation bool   `json:"incluyeExcavacion"`
	Notes      string `json:"notasAdicionales"`
}

type Summary struct {
	Materials  []LineItem `json:"materiales"`
	Work       []LineItem `json:"trabajo"`
	Additional []LineItem `json:"adicionales"`
	Subtotal   float64    `json:"subtotal"`
	Discount   float64    `json:"descuento"`
	Total      float64    `json:"total"`
	Currency   string     `json:"moneda"`
}

type FullInfo struct {
	Client       Client       `json:"cliente"`
	Pool         Dimensions   `json:"piscina"`
	Work         Work         `json:"trabajo"`
	Materials    Materials    `json:"materiales"`
	Repairs      Repairs      `json:"reparaciones"`
	Labor        Labor        `json:"manoDeObra"`
	OtherFactors OtherFactors `json:"otrosFactores"`
	Summary      Summary      `json:"detallesPresupuesto"`
}

// Payload is the document posted to the workflow webhook.
type Payload struct {
	Reference string   `json:"referencia,omitempty"`
	FullName  string   `json:"nombreCompleto"`
	Email     string   `json:"email"`
	Phone     string   `json:"telefono"`
	WorkLabel string   `json:"tipoTrabajo"`
	Budget    Budget   `json:"presupuesto"`
	FullInfo  FullInfo `json:"informacionCompleta"`
}

// Build flattens a job and its quote. The quote is read, never recomputed.
func Build(reference string, job pricing.JobSpec, q pricing.Quote, issuedAt time.Time) Payload {
	materials := lineItems(q.Materials)
	work := lineItems(q.Work)
	additional := lineItems(q.Additional)

	shape := job.Dimensions.Shape
	if shape == "" {
		shape = pricing.ShapeRectangular
	}
	dims := Dimensions{
		Shape:            string(shape),
		Length:           job.Dimensions.Length,
		Width:            job.Dimensions.Width,
		Depth:            job.Dimensions.Depth,
		Volume:           pricing.Round2(q.Geometry.Volume),
		CeramicArea:      pricing.Round2(q.Geometry.CeramicArea),
		ThermalFloorArea: pricing.Round2(q.Geometry.ThermalFloorArea),
	}

	client := Client{
		FullName: job.Client.Name,
		Email:    job.Client.Email,
		Phone:    job.Client.Phone,
	}

	var laborCost float64
	if item, ok := q.Labor(); ok {
		laborCost = pricing.Round2(item.Total)
	}

	grade := job.Materials.TileGrade
	if grade == "" {
		grade = pricing.TileStandard
	}
	access := job.Access
	if access == "" {
		access = pricing.AccessNormal
	}

	return Payload{
		Reference: reference,
		FullName:  client.FullName,
		Email:     client.Email,
		Phone:     client.Phone,
		WorkLabel: job.WorkType.Label(),
		Budget: Budget{
			Subtotal: pricing.Round2(q.Subtotal),
			Discount: pricing.Round2(q.Discount),
			Total:    pricing.Round2(q.Total),
			Currency: Currency,
			Date:     FormatDate(issuedAt),
			Details: Details{
				Materials:  materials,
				Work:       work,
				Additional: additional,
			},
			Dimensions: dims,
			Notes:      job.Notes,
		},
		FullInfo: FullInfo{
			Client: client,
			Pool:   dims,
			Work: Work{
				Type:  string(job.WorkType),
				Label: job.WorkType.Label(),
			},
			Materials: Materials{
				Ceramics:     job.Materials.Ceramics,
				TileGrade:    string(grade),
				ThermalFloor: job.Materials.ThermalFloor,
				Pump:         job.Materials.Pump,
				Filter:       job.Materials.Filter,
				Lighting:     job.Materials.Lighting,
				Heating:      job.Materials.Heating,
				Cover:        job.Materials.Cover,
				Ladder:       job.Materials.Ladder,
			},
			Repairs: Repairs{
				Leaks:      job.Repairs.Leaks,
				Cracks:     job.Repairs.Cracks,
				Coating:    job.Repairs.Coating,
				Plumbing:   job.Repairs.Plumbing,
				Electrical: job.Repairs.Electrical,
				Cleaning:   job.Repairs.Cleaning,
			},
			Labor: Labor{
				Hours:      job.Labor.Hours,
				HourlyRate: job.Labor.Rate(),
				Cost:       laborCost,
			},
			OtherFactors: OtherFactors{
				Access:     string(access),
				Permits:    job.Permits,
				Excavation: job.Excavation,
				Notes:      job.Notes,
			},
			Summary: Summary{
				Materials:  materials,
				Work:       work,
				Additional: additional,
				Subtotal:   pricing.Round2(q.Subtotal),
				Discount:   pricing.Round2(q.Discount),
				Total:      pricing.Round2(q.Total),
				Currency:   Currency,
			},
		},
	}
}

func lineItems(items []pricing.LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, LineItem{
			Name:      item.Description,
			Kind:      string(item.Kind),
			Quantity:  pricing.Round2(item.Quantity),
			Unit:      item.Unit,
			UnitPrice: pricing.Round2(item.UnitPrice),
			Total:     pricing.Round2(item.Total),
		})
	}
	return out
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatDate renders a date the way quotes print it, e.g. "19 de octubre de 2026".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// unsafeFilename matches runs of anything other than letters, digits, '-' and
// '_', so separators and dots never reach the file name.
var unsafeFilename = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)

// Filename returns the download name for a payload issued at t.
func Filename(clientName string, t time.Time) string {
	name := strings.Trim(unsafeFilename.ReplaceAllString(clientName, "_"), "_")
	if name == "" {
		name = defaultClientName
	}
	return fmt.Sprintf("presupuesto_%s_%s.json", name, t.Format("2006-01-02"))
}
