// Package pending derives maintenance-overdue status for organs, locations
// and administrative regions.
//
// Pending status is never stored. It is recomputed from the current data
// snapshot and the wall clock on every evaluation, so an organ can flip to
// pending purely because time passed between two requests.
package pending

import (
	"time"

	"github.com/psalmeida/organregistry/internal/domain/models"
)

// Evaluator classifies entities as maintenance-pending over an in-memory
// snapshot of organs, maintenances and locations. It holds no other state
// and performs no I/O.
type Evaluator struct {
	Organs       []models.Organ
	Maintenances []models.Maintenance
	Locations    []models.Location

	// Now supplies the wall clock; nil means time.Now. Tests pin it.
	Now func() time.Time
}

// New returns an Evaluator over the given snapshot slices.
func New(organs []models.Organ, maintenances []models.Maintenance, locations []models.Location) *Evaluator {
	return &Evaluator{Organs: organs, Maintenances: maintenances, Locations: locations}
}

func (e *Evaluator) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// threshold is "one calendar year before today", at local midnight. AddDate
// follows the standard rollover rule (a Feb 29 anchor lands on Mar 1 in a
// non-leap year). Truncating to midnight makes the boundary a clean date
// comparison: a visit exactly one year ago today is not yet overdue.
func (e *Evaluator) threshold() time.Time {
	n := e.now()
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location())
	return today.AddDate(-1, 0, 0)
}

// OrganPending reports whether the organ's maintenance is overdue: it has no
// maintenance records at all, or its most recent visit is strictly older than
// one year. The organ ID need not exist in the maintenance set.
func (e *Evaluator) OrganPending(organID string) bool {
	last := ""
	for _, m := range e.Maintenances {
		if m.OrganID != organID {
			continue
		}
		// Dates are YYYY-MM-DD strings, so the lexicographic maximum
		// is the chronological maximum.
		if m.Date > last {
			last = m.Date
		}
	}
	if last == "" {
		// Never serviced: presumed overdue.
		return true
	}

	lastDate, err := time.ParseInLocation(models.DateLayout, last, e.now().Location())
	if err != nil {
		// An unparsable date cannot prove the organ was serviced
		// within the year.
		return true
	}
	return lastDate.Before(e.threshold())
}

// LocationPending reports whether any organ at the location is pending.
// A location with zero organs is never pending: an organ with no history is
// presumed overdue, but a location with no organs has nothing to be overdue
// about.
func (e *Evaluator) LocationPending(locationID string) bool {
	for _, o := range e.Organs {
		if o.LocationID == locationID && e.OrganPending(o.ID) {
			return true
		}
	}
	return false
}

// RegionPending reports whether any location under the region is pending.
func (e *Evaluator) RegionPending(adm models.Administration) bool {
	for _, l := range e.Locations {
		if l.Adm == adm && e.LocationPending(l.ID) {
			return true
		}
	}
	return false
}

// PendingOrganCount returns how many organs at the location are pending.
// The location detail view shows this next to the organ list.
func (e *Evaluator) PendingOrganCount(locationID string) int {
	n := 0
	for _, o := range e.Organs {
		if o.LocationID == locationID && e.OrganPending(o.ID) {
			n++
		}
	}
	return n
}
