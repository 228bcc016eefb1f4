package pricing

import (
	"fmt"
	"math"
)

// Kind tags the role of a line item within a quote.
type Kind string

const (
	KindMaterial  Kind = "material"
	KindEquipment Kind = "equipment"
	KindWork      Kind = "work"
	KindRepair    Kind = "repair"
	KindLabor     Kind = "labor"
	KindSurcharge Kind = "surcharge"
	KindPermit    Kind = "permit"
)

// Units used by line items.
const (
	UnitSquareMeter = "m²"
	UnitCubicMeter  = "m³"
	UnitPiece       = "unidad"
	UnitService     = "servicio"
	UnitHour        = "horas"
)

// LineItem is one priced row of a quote. Total always equals
// Quantity * UnitPrice; flat fees use a quantity of 1.
type LineItem struct {
	Kind        Kind    `json:"kind"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

func measured(kind Kind, description string, quantity float64, unit string, unitPrice float64) LineItem {
	return LineItem{
		Kind:        kind,
		Description: description,
		Quantity:    quantity,
		Unit:        unit,
		UnitPrice:   unitPrice,
		Total:       quantity * unitPrice,
	}
}

func flat(kind Kind, description, unit string, amount float64) LineItem {
	return LineItem{
		Kind:        kind,
		Description: description,
		Quantity:    1,
		Unit:        unit,
		UnitPrice:   amount,
		Total:       amount,
	}
}

type section struct {
	items    []LineItem
	subtotal float64
}

func (s *section) add(item LineItem) {
	s.items = append(s.items, item)
	s.subtotal += item.Total
}

// Quote is the itemized result of a calculation. Values are unrounded; use
// Round2 when presenting them.
type Quote struct {
	Geometry           Geometry   `json:"geometry"`
	Materials          []LineItem `json:"materials"`
	Work               []LineItem `json:"work"`
	Additional         []LineItem `json:"additional"`
	MaterialSubtotal   float64    `json:"materialSubtotal"`
	WorkSubtotal       float64    `json:"workSubtotal"`
	AdditionalSubtotal float64    `json:"additionalSubtotal"`
	Subtotal           float64    `json:"subtotal"`
	Discount           float64    `json:"discount"`
	Total              float64    `json:"total"`
}

// Calculate prices a job. It fails when the dimensions are invalid or an
// amount overflows, in which case no quote is produced.
func Calculate(job JobSpec) (Quote, error) {
	geo, err := ResolveGeometry(job.Dimensions)
	if err != nil {
		return Quote{}, err
	}

	materials := priceMaterials(geo, job.Materials)
	work := priceWork(geo, job)
	additional := priceSurcharges(materials.subtotal, work.subtotal, job.Access, job.Permits)

	subtotal := materials.subtotal + work.subtotal + additional.subtotal
	// No discount policy exists yet.
	discount := 0.0
	if !finite(subtotal) {
		return Quote{}, fmt.Errorf("%w: subtotal %v", ErrOutOfRange, subtotal)
	}

	return Quote{
		Geometry:           geo,
		Materials:          nonNil(materials.items),
		Work:               nonNil(work.items),
		Additional:         nonNil(additional.items),
		MaterialSubtotal:   materials.subtotal,
		WorkSubtotal:       work.subtotal,
		AdditionalSubtotal: additional.subtotal,
		Subtotal:           subtotal,
		Discount:           discount,
		Total:              subtotal - discount,
	}, nil
}

// Labor returns the labor line item of the quote.
func (q Quote) Labor() (LineItem, bool) {
	for _, item := range q.Work {
		if item.Kind == KindLabor {
			return item, true
		}
	}
	return LineItem{}, false
}

// Round2 rounds a value to two decimals for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func nonNil(items []LineItem) []LineItem {
	if items == nil {
		return []LineItem{}
	}
	return items
}
