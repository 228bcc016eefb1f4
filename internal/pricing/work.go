package pricing

import "math"

const (
	constructionPricePerM3 = 300.0
	excavationPricePerM3   = 50.0
	renovationPricePerM2   = 60.0

	hoursPerCubicMeter = 2.0
	hoursPerRepair     = 4.0
	defaultLaborHours  = 8.0
)

type repairRate struct {
	selected func(Repairs) bool
	label    string
	base     float64
	perM2    float64
}

// Emission order of repair line items.
var repairTable = []repairRate{
	{func(r Repairs) bool { return r.Leaks }, "Reparación de filtraciones", 500, 30},
	{func(r Repairs) bool { return r.Cracks }, "Reparación de grietas", 400, 25},
	{func(r Repairs) bool { return r.Coating }, "Revestimiento", 800, 50},
	{func(r Repairs) bool { return r.Plumbing }, "Reparación de plomería", 600, 0},
	{func(r Repairs) bool { return r.Electrical }, "Reparación eléctrica", 500, 0},
	{func(r Repairs) bool { return r.Cleaning }, "Limpieza profunda", 200, 10},
}

func priceWork(geo Geometry, job JobSpec) section {
	var s section

	switch job.WorkType {
	case WorkConstruction:
		s.add(measured(KindWork, "Construcción de piscina", geo.Volume, UnitCubicMeter, constructionPricePerM3))
		if job.Excavation {
			s.add(measured(KindWork, "Excavación", geo.Volume, UnitCubicMeter, excavationPricePerM3))
		}
	case WorkRepair:
		for _, r := range repairTable {
			if r.selected(job.Repairs) {
				s.add(flat(KindRepair, r.label, UnitService, r.base+r.perM2*geo.CeramicArea))
			}
		}
	case WorkRenovation:
		s.add(measured(KindWork, "Renovación completa", geo.CeramicArea, UnitSquareMeter, renovationPricePerM2))
	}

	s.add(priceLabor(geo, job))
	return s
}

func priceLabor(geo Geometry, job JobSpec) LineItem {
	rate := job.Labor.Rate()
	if h := job.Labor.Hours; h != nil && *h > 0 {
		return measured(KindLabor, "Mano de obra", *h, UnitHour, rate)
	}
	return measured(KindLabor, "Mano de obra (estimada)", estimateHours(geo, job), UnitHour, rate)
}

func estimateHours(geo Geometry, job JobSpec) float64 {
	switch job.WorkType {
	case WorkConstruction:
		return math.Ceil(geo.Volume * hoursPerCubicMeter)
	case WorkRepair:
		return float64(job.Repairs.Count()) * hoursPerRepair
	default:
		return defaultLaborHours
	}
}
