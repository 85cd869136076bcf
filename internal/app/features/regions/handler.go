// Package regions serves the region cards of the home screen and the
// per-region location dashboards.
package regions

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/psalmeida/organregistry/internal/app/system/httpjson"
	"github.com/psalmeida/organregistry/internal/app/system/snapshot"
	"github.com/psalmeida/organregistry/internal/domain/models"
)

// Handler serves region-level read endpoints over the snapshot.
type Handler struct {
	Snapshot *snapshot.Cache
	Log      *zap.Logger
}

// NewHandler constructs a regions Handler.
func NewHandler(snap *snapshot.Cache, logger *zap.Logger) *Handler {
	return &Handler{Snapshot: snap, Log: logger}
}

type regionView struct {
	Adm     models.Administration `json:"adm"`
	Pending bool                  `json:"pending"`
}

type locationView struct {
	ID                string                `json:"id"`
	Name              string                `json:"name"`
	Adm               models.Administration `json:"adm"`
	Pending           bool                  `json:"pending"`
	OrganCount        int                   `json:"organCount"`
	PendingOrganCount int                   `json:"pendingOrganCount"`
}

// ServeList handles GET /regions: every region in display order with its
// transitive pending flag. Pending is derived from the live snapshot and the
// wall clock on every request.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ev := h.Snapshot.Evaluator()

	out := make([]regionView, 0, len(models.Administrations))
	for _, adm := range models.Administrations {
		out = append(out, regionView{Adm: adm, Pending: ev.RegionPending(adm)})
	}
	httpjson.OK(w, out)
}

// ServeLocations handles GET /regions/{adm}/locations: the region's
// locations with pending flags and organ counts.
func (h *Handler) ServeLocations(w http.ResponseWriter, r *http.Request) {
	adm := chi.URLParam(r, "adm")
	if !models.ValidAdministration(adm) {
		httpjson.NotFound(w, "unknown region")
		return
	}

	ev := h.Snapshot.Evaluator()

	organCount := make(map[string]int)
	for _, o := range h.Snapshot.Organs() {
		organCount[o.LocationID]++
	}

	out := []locationView{}
	for _, l := range h.Snapshot.Locations() {
		if l.Adm != models.Administration(adm) {
			continue
		}
		out = append(out, locationView{
			ID:                l.ID,
			Name:              l.Name,
			Adm:               l.Adm,
			Pending:           ev.LocationPending(l.ID),
			OrganCount:        organCount[l.ID],
			PendingOrganCount: ev.PendingOrganCount(l.ID),
		})
	}
	httpjson.OK(w, out)
}
