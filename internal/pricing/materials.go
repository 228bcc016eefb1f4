package pricing

const thermalFloorPricePerM2 = 80.0

var tilePrices = map[TileGrade]float64{
	TileStandard: 50,
	TilePremium:  75,
	TileLuxury:   120,
}

var tileLabels = map[TileGrade]string{
	TileStandard: "Cerámicos Estándar",
	TilePremium:  "Cerámicos Premium",
	TileLuxury:   "Cerámicos Lujo",
}

type equipment struct {
	selected func(Materials) bool
	label    string
	price    float64
}

// Emission order of equipment line items.
var equipmentTable = []equipment{
	{func(m Materials) bool { return m.Pump }, "Bomba de agua", 800},
	{func(m Materials) bool { return m.Filter }, "Sistema de filtrado", 600},
	{func(m Materials) bool { return m.Lighting }, "Iluminación LED", 300},
	{func(m Materials) bool { return m.Heating }, "Sistema de calefacción", 2500},
	{func(m Materials) bool { return m.Cover }, "Cubierta de seguridad", 400},
	{func(m Materials) bool { return m.Ladder }, "Escalera", 250},
}

func tileGradeOrStandard(g TileGrade) TileGrade {
	if _, ok := tilePrices[g]; ok {
		return g
	}
	return TileStandard
}

func priceMaterials(geo Geometry, m Materials) section {
	var s section

	if m.Ceramics {
		grade := tileGradeOrStandard(m.TileGrade)
		s.add(measured(KindMaterial, tileLabels[grade], geo.CeramicArea, UnitSquareMeter, tilePrices[grade]))
	}
	if m.ThermalFloor {
		s.add(measured(KindMaterial, "Pisos térmicos", geo.ThermalFloorArea, UnitSquareMeter, thermalFloorPricePerM2))
	}

	for _, e := range equipmentTable {
		if e.selected(m) {
			s.add(measured(KindEquipment, e.label, 1, UnitPiece, e.price))
		}
	}

	return s
}
