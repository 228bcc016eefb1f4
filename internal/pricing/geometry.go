package pricing

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDimensions is returned when length, width or depth is not a
// finite number greater than zero, or when the derived geometry overflows.
var ErrInvalidDimensions = errors.New("invalid dimensions")

// ErrOutOfRange is returned when a priced amount does not fit a finite float.
var ErrOutOfRange = errors.New("quote amount out of range")

// Geometry contains the derived pool measurements.
type Geometry struct {
	Volume           float64 `json:"volume"`
	CeramicArea      float64 `json:"ceramicArea"`
	ThermalFloorArea float64 `json:"thermalFloorArea"`
}

// Validate reports whether every dimension is a finite positive number.
func (d Dimensions) Validate() error {
	for _, field := range []struct {
		name  string
		value float64
	}{
		{"length", d.Length},
		{"width", d.Width},
		{"depth", d.Depth},
	} {
		if math.IsNaN(field.value) || math.IsInf(field.value, 0) || field.value <= 0 {
			return fmt.Errorf("%w: %s must be greater than 0, got %v", ErrInvalidDimensions, field.name, field.value)
		}
	}
	return nil
}

// ResolveGeometry computes volume, tiled surface and floor surface.
//
// Oval pools use the circular formula with width as the diameter; length is
// ignored for both round shapes.
func ResolveGeometry(d Dimensions) (Geometry, error) {
	if err := d.Validate(); err != nil {
		return Geometry{}, err
	}

	var geo Geometry
	switch d.Shape {
	case ShapeCircular, ShapeOval:
		radius := d.Width / 2
		floor := math.Pi * radius * radius
		geo = Geometry{
			Volume:           floor * d.Depth,
			CeramicArea:      floor + 2*math.Pi*radius*d.Depth,
			ThermalFloorArea: floor,
		}
	default:
		floor := d.Length * d.Width
		geo = Geometry{
			Volume:           d.Length * d.Width * d.Depth,
			CeramicArea:      floor + 2*(d.Length*d.Depth) + 2*(d.Width*d.Depth),
			ThermalFloorArea: floor,
		}
	}

	if !finite(geo.Volume) || !finite(geo.CeramicArea) || !finite(geo.ThermalFloorArea) {
		return Geometry{}, fmt.Errorf("%w: dimensions %vx%vx%v are too large", ErrInvalidDimensions, d.Length, d.Width, d.Depth)
	}
	return geo, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
