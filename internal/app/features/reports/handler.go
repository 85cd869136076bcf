// Package reports serves the consolidated maintenance report and the gated
// deletion-history report, as JSON and as CSV downloads.
package reports

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/psalmeida/organregistry/internal/app/system/httpjson"
	"github.com/psalmeida/organregistry/internal/app/system/session"
	"github.com/psalmeida/organregistry/internal/app/system/snapshot"
	"github.com/psalmeida/organregistry/internal/domain/models"
)

// Handler serves the report endpoints over the snapshot.
type Handler struct {
	Snapshot *snapshot.Cache
	Log      *zap.Logger
}

// NewHandler constructs a reports Handler.
func NewHandler(snap *snapshot.Cache, logger *zap.Logger) *Handler {
	return &Handler{Snapshot: snap, Log: logger}
}

// maintenanceRows builds the filtered, date-descending maintenance report.
func (h *Handler) maintenanceRows(f filter) []maintenanceRow {
	organByID := make(map[string]models.Organ)
	for _, o := range h.Snapshot.Organs() {
		organByID[o.ID] = o
	}
	locByID := make(map[string]models.Location)
	for _, l := range h.Snapshot.Locations() {
		locByID[l.ID] = l
	}

	rows := []maintenanceRow{}
	for _, m := range h.Snapshot.Maintenances() {
		organ, ok := organByID[m.OrganID]
		if !ok {
			continue
		}
		loc := locByID[organ.LocationID]

		if f.Adm != "" && loc.Adm != f.Adm {
			continue
		}
		if f.LocationID != "" && organ.LocationID != f.LocationID {
			continue
		}
		if !f.inDateRange(m.Date) {
			continue
		}

		rows = append(rows, maintenanceRow{
			Date:        m.Date,
			OrganModel:  organ.Model,
			Patrimony:   organ.PatrimonyNumber,
			Adm:         loc.Adm,
			Location:    loc.Name,
			Technicians: strings.Join(m.Technicians, " & "),
			Occurrence:  m.Occurrence,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date > rows[j].Date })
	return rows
}

// deletedRows builds the filtered, most-recent-first deletion history.
// Location context comes from the denormalized metadata, so rows stay
// filterable after the source records are gone. The location filter matches
// by name: the metadata carries the name captured at delete time, not the id.
func (h *Handler) deletedRows(f filter) []deletedRow {
	locationName := ""
	if f.LocationID != "" {
		loc, ok := h.Snapshot.Location(f.LocationID)
		if !ok {
			return []deletedRow{}
		}
		locationName = loc.Name
	}

	rows := []deletedRow{}
	for _, it := range h.Snapshot.DeletedItems() {
		if f.Adm != "" && it.Metadata.Adm != f.Adm {
			continue
		}
		if locationName != "" && it.Metadata.LocationName != locationName {
			continue
		}
		if !f.inDateRange(it.DeletedAt.Format(models.DateLayout)) {
			continue
		}

		row := deletedRow{
			DeletedAt: it.DeletedAt,
			Type:      it.Type,
			Adm:       it.Metadata.Adm,
			Location:  it.Metadata.LocationName,
			Reason:    it.Reason,
		}
		switch it.Type {
		case models.DeletedTypeOrgan:
			var o models.Organ
			if err := bson.Unmarshal(it.Data, &o); err == nil {
				row.Info = o.Model
				row.Patrimony = o.PatrimonyNumber
			}
		case models.DeletedTypeMaintenance:
			var m models.Maintenance
			if err := bson.Unmarshal(it.Data, &m); err == nil {
				row.Info = fmt.Sprintf("maintenance of %s", m.Date)
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].DeletedAt.After(rows[j].DeletedAt) })
	return rows
}

// ServeMaintenances handles GET /reports/maintenances.
func (h *Handler) ServeMaintenances(w http.ResponseWriter, r *http.Request) {
	httpjson.OK(w, h.maintenanceRows(parseFilter(r)))
}

// requireHistoryAuthorized enforces the session gate on the deletion
// history. The marker tells the client to run the history challenge rather
// than treat this as a hard failure.
func requireHistoryAuthorized(w http.ResponseWriter, r *http.Request) bool {
	if session.HistoryAuthorized(r) {
		return true
	}
	httpjson.Write(w, http.StatusUnauthorized, map[string]any{
		"error":         "history access requires passing the code challenge",
		"gate_required": true,
	})
	return false
}

// ServeDeleted handles GET /reports/deleted.
func (h *Handler) ServeDeleted(w http.ResponseWriter, r *http.Request) {
	if !requireHistoryAuthorized(w, r) {
		return
	}
	httpjson.OK(w, h.deletedRows(parseFilter(r)))
}
