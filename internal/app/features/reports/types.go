// internal/app/features/reports/types.go
package reports

import (
	"net/http"
	"strings"
	"time"

	"github.com/psalmeida/organregistry/internal/domain/models"
)

// filter holds the parsed report query parameters. Empty fields mean "no
// constraint". From/To are YYYY-MM-DD strings compared inclusively.
type filter struct {
	Adm        models.Administration
	LocationID string
	From       string
	To         string
}

func parseFilter(r *http.Request) filter {
	q := r.URL.Query()
	f := filter{
		LocationID: strings.TrimSpace(q.Get("location")),
		From:       strings.TrimSpace(q.Get("from")),
		To:         strings.TrimSpace(q.Get("to")),
	}
	if adm := strings.TrimSpace(q.Get("adm")); models.ValidAdministration(adm) {
		f.Adm = models.Administration(adm)
	}
	return f
}

// inDateRange compares a YYYY-MM-DD date string against the filter bounds.
// Lexicographic comparison equals chronological comparison for this layout.
func (f filter) inDateRange(date string) bool {
	if f.From != "" && date < f.From {
		return false
	}
	if f.To != "" && date > f.To {
		return false
	}
	return true
}

// maintenanceRow is one line of the maintenance report, denormalized with
// the organ and location the visit belongs to.
type maintenanceRow struct {
	Date        string                `json:"date"`
	OrganModel  string                `json:"organModel"`
	Patrimony   string                `json:"patrimony"`
	Adm         models.Administration `json:"adm"`
	Location    string                `json:"location"`
	Technicians string                `json:"technicians"`
	Occurrence  string                `json:"occurrence"`
}

// deletedRow is one line of the deletion history report.
type deletedRow struct {
	DeletedAt time.Time             `json:"deletedAt"`
	Type      string                `json:"type"`
	Info      string                `json:"info"`
	Patrimony string                `json:"patrimony"`
	Adm       models.Administration `json:"adm"`
	Location  string                `json:"location"`
	Reason    string                `json:"reason"`
}
