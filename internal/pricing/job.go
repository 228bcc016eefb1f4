package pricing

import (
	"fmt"
	"strings"
)

// Shape identifies the pool outline used by the geometry resolver.
type Shape string

const (
	ShapeRectangular Shape = "rectangular"
	ShapeCircular    Shape = "circular"
	ShapeOval        Shape = "oval"
)

// WorkType selects which work pricing branch applies.
type WorkType string

const (
	WorkConstruction WorkType = "construction"
	WorkRepair       WorkType = "repair"
	WorkRenovation   WorkType = "renovation"
	WorkMaintenance  WorkType = "maintenance"
)

// TileGrade selects the ceramics price per square meter.
type TileGrade string

const (
	TileStandard TileGrade = "standard"
	TilePremium  TileGrade = "premium"
	TileLuxury   TileGrade = "luxury"
)

// AccessDifficulty reflects how hard it is to reach the site.
type AccessDifficulty string

const (
	AccessEasy      AccessDifficulty = "easy"
	AccessNormal    AccessDifficulty = "normal"
	AccessDifficult AccessDifficulty = "difficult"
)

// DefaultHourlyRate is applied when the job carries no positive hourly rate.
const DefaultHourlyRate = 50.0

// Dimensions holds the pool measurements in meters.
type Dimensions struct {
	Shape  Shape   `json:"shape"`
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
}

// Materials holds the material and equipment selections.
type Materials struct {
	Ceramics     bool      `json:"ceramics"`
	ThermalFloor bool      `json:"thermalFloor"`
	Pump         bool      `json:"pump"`
	Filter       bool      `json:"filter"`
	Lighting     bool      `json:"lighting"`
	Heating      bool      `json:"heating"`
	Cover        bool      `json:"cover"`
	Ladder       bool      `json:"ladder"`
	TileGrade    TileGrade `json:"tileGrade"`
}

// Repairs holds the repair selections. Only read when the work type is repair.
type Repairs struct {
	Leaks      bool `json:"leaks"`
	Cracks     bool `json:"cracks"`
	Coating    bool `json:"coating"`
	Plumbing   bool `json:"plumbing"`
	Electrical bool `json:"electrical"`
	Cleaning   bool `json:"cleaning"`
}

// Count returns how many repairs are selected.
func (r Repairs) Count() int {
	n := 0
	for _, selected := range []bool{r.Leaks, r.Cracks, r.Coating, r.Plumbing, r.Electrical, r.Cleaning} {
		if selected {
			n++
		}
	}
	return n
}

// Labor holds the labor inputs. A nil Hours means hours were not given and
// triggers estimation.
type Labor struct {
	Hours      *float64 `json:"hours,omitempty"`
	HourlyRate float64  `json:"hourlyRate"`
}

// Rate returns the hourly rate, falling back to DefaultHourlyRate.
func (l Labor) Rate() float64 {
	if l.HourlyRate > 0 {
		return l.HourlyRate
	}
	return DefaultHourlyRate
}

// ClientInfo is carried through to documents and exports untouched.
type ClientInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// JobSpec describes a pool job. It is never modified by Calculate.
type JobSpec struct {
	Dimensions Dimensions       `json:"dimensions"`
	WorkType   WorkType         `json:"workType"`
	Materials  Materials        `json:"materials"`
	Repairs    Repairs          `json:"repairs"`
	Labor      Labor            `json:"labor"`
	Access     AccessDifficulty `json:"accessDifficulty"`
	Permits    bool             `json:"permits"`
	Excavation bool             `json:"excavation"`
	Client     ClientInfo       `json:"client"`
	Notes      string           `json:"notes"`
}

// NewJobSpec returns a JobSpec holding the defaults of a fresh quote form.
func NewJobSpec() JobSpec {
	return JobSpec{
		Dimensions: Dimensions{Shape: ShapeRectangular},
		WorkType:   WorkConstruction,
		Materials: Materials{
			Ceramics:     true,
			ThermalFloor: true,
			TileGrade:    TileStandard,
		},
		Labor:      Labor{HourlyRate: DefaultHourlyRate},
		Access:     AccessNormal,
		Excavation: true,
	}
}

// ParseShape converts a form value into a Shape.
func ParseShape(raw string) (Shape, error) {
	switch s := Shape(strings.ToLower(strings.TrimSpace(raw))); s {
	case ShapeRectangular, ShapeCircular, ShapeOval:
		return s, nil
	}
	return "", fmt.Errorf("unknown pool shape %q", raw)
}

// ParseWorkType converts a form value into a WorkType.
func ParseWorkType(raw string) (WorkType, error) {
	switch w := WorkType(strings.ToLower(strings.TrimSpace(raw))); w {
	case WorkConstruction, WorkRepair, WorkRenovation, WorkMaintenance:
		return w, nil
	}
	return "", fmt.Errorf("unknown work type %q", raw)
}

// ParseTileGrade converts a form value into a TileGrade. Empty means standard.
func ParseTileGrade(raw string) (TileGrade, error) {
	switch g := TileGrade(strings.ToLower(strings.TrimSpace(raw))); g {
	case "":
		return TileStandard, nil
	case TileStandard, TilePremium, TileLuxury:
		return g, nil
	}
	return "", fmt.Errorf("unknown tile grade %q", raw)
}

// ParseAccess converts a form value into an AccessDifficulty. Empty means normal.
func ParseAccess(raw string) (AccessDifficulty, error) {
	switch a := AccessDifficulty(strings.ToLower(strings.TrimSpace(raw))); a {
	case "":
		return AccessNormal, nil
	case AccessEasy, AccessNormal, AccessDifficult:
		return a, nil
	}
	return "", fmt.Errorf("unknown access difficulty %q", raw)
}

// Label returns the Spanish display name of the work type.
func (w WorkType) Label() string {
	switch w {
	case WorkConstruction:
		return "Construcción Nueva"
	case WorkRepair:
		return "Reparación"
	case WorkRenovation:
		return "Renovación"
	case WorkMaintenance:
		return "Mantenimiento"
	}
	return string(w)
}
