package pricing

const permitsFee = 500.0

var accessMultipliers = map[AccessDifficulty]float64{
	AccessEasy:      0.9,
	AccessNormal:    1.0,
	AccessDifficult: 1.3,
}

var accessLabels = map[AccessDifficulty]string{
	AccessEasy:      "Recargo por acceso fácil",
	AccessDifficult: "Recargo por acceso difícil",
}

// AccessMultiplier returns the factor applied to the combined material and
// work subtotals. Unknown values behave like normal access.
func AccessMultiplier(a AccessDifficulty) float64 {
	if m, ok := accessMultipliers[a]; ok {
		return m
	}
	return 1.0
}

func priceSurcharges(materialSubtotal, workSubtotal float64, access AccessDifficulty, permits bool) section {
	var s section

	if m := AccessMultiplier(access); m != 1.0 {
		s.add(flat(KindSurcharge, accessLabels[access], UnitService, (materialSubtotal+workSubtotal)*(m-1.0)))
	}
	if permits {
		s.add(flat(KindPermit, "Permisos y licencias", UnitService, permitsFee))
	}

	return s
}
