package model

// Area is one of the seven life dimensions a user tracks.
type Area = string

const (
	AreaPhysical     Area = "physical"
	AreaMental       Area = "mental"
	AreaProductivity Area = "productivity"
	AreaSocial       Area = "social"
	AreaFinancial    Area = "financial"
	AreaPersonal     Area = "personal"
	AreaSpiritual    Area = "spiritual"
)

// AllAreas lists every life area in catalog order.
var AllAreas = []Area{
	AreaPhysical,
	AreaMental,
	AreaProductivity,
	AreaSocial,
	AreaFinancial,
	AreaPersonal,
	AreaSpiritual,
}

// ValidArea reports whether a is a known life area.
func ValidArea(a string) bool {
	for _, area := range AllAreas {
		if area == a {
			return true
		}
	}
	return false
}
