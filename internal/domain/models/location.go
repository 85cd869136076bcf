// internal/domain/models/location.go
package models

// Administration is a top-level administrative region grouping locations.
// It is a grouping key, not a stored entity.
type Administration string

// The administrative regions. These are fixed; the UI renders one card per
// region on the home screen.
const (
	AdmCentral Administration = "ADM Central"
	AdmNorte   Administration = "ADM Norte"
	AdmSul     Administration = "ADM Sul"
	AdmLeste   Administration = "ADM Leste"
)

// Administrations lists every region in display order.
var Administrations = []Administration{AdmCentral, AdmNorte, AdmSul, AdmLeste}

// ValidAdministration reports whether adm names a known region.
func ValidAdministration(adm string) bool {
	for _, a := range Administrations {
		if string(a) == adm {
			return true
		}
	}
	return false
}

// Location is a physical site (a church) belonging to one region and hosting
// zero or more organs. Locations are static reference data seeded at startup;
// they are not user-editable at runtime.
type Location struct {
	ID   string         `bson:"_id" json:"id"`
	Name string         `bson:"name" json:"name"`
	Adm  Administration `bson:"adm" json:"adm"`
}
