// Package locations serves the location detail view: the organs at a site,
// their pending status and their maintenance histories.
package locations

import (
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/psalmeida/organregistry/internal/app/system/httpjson"
	"github.com/psalmeida/organregistry/internal/app/system/snapshot"
	"github.com/psalmeida/organregistry/internal/domain/models"
)

// Handler serves location-level read endpoints over the snapshot.
type Handler struct {
	Snapshot *snapshot.Cache
	Log      *zap.Logger
}

// NewHandler constructs a locations Handler.
func NewHandler(snap *snapshot.Cache, logger *zap.Logger) *Handler {
	return &Handler{Snapshot: snap, Log: logger}
}

type organView struct {
	models.Organ
	Pending      bool                 `json:"pending"`
	Maintenances []models.Maintenance `json:"maintenances"`
}

type detailView struct {
	models.Location
	Organs            []organView `json:"organs"`
	PendingOrganCount int         `json:"pendingOrganCount"`
}

// matches reports whether the organ matches the free-text search. The
// search box covers model, serial number and patrimony number,
// case-insensitively.
func matches(o models.Organ, q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(o.Model), q) ||
		strings.Contains(strings.ToLower(o.SerialNumber), q) ||
		strings.Contains(strings.ToLower(o.PatrimonyNumber), q)
}

// ServeDetail handles GET /locations/{id}?q=. Each organ carries its full
// maintenance history sorted most recent first. The pending organ count
// covers the whole site regardless of the search filter.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	loc, ok := h.Snapshot.Location(id)
	if !ok {
		httpjson.NotFound(w, "unknown location")
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	ev := h.Snapshot.Evaluator()

	historyByOrgan := make(map[string][]models.Maintenance)
	for _, m := range h.Snapshot.Maintenances() {
		historyByOrgan[m.OrganID] = append(historyByOrgan[m.OrganID], m)
	}
	for _, hist := range historyByOrgan {
		sort.Slice(hist, func(i, j int) bool { return hist[i].Date > hist[j].Date })
	}

	out := detailView{Location: loc, Organs: []organView{}}
	for _, o := range h.Snapshot.Organs() {
		if o.LocationID != id {
			continue
		}
		if !matches(o, q) {
			continue
		}
		hist := historyByOrgan[o.ID]
		if hist == nil {
			hist = []models.Maintenance{}
		}
		out.Organs = append(out.Organs, organView{
			Organ:        o,
			Pending:      ev.OrganPending(o.ID),
			Maintenances: hist,
		})
	}
	out.PendingOrganCount = ev.PendingOrganCount(id)

	httpjson.OK(w, out)
}
