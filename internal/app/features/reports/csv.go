// internal/app/features/reports/csv.go
package reports

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/psalmeida/organregistry/internal/app/system/csvutil"
)

// ServeMaintenancesCSV handles GET /reports/maintenances.csv with the same
// filters as the JSON endpoint.
func (h *Handler) ServeMaintenancesCSV(w http.ResponseWriter, r *http.Request) {
	rows := h.maintenanceRows(parseFilter(r))

	cw := csvutil.NewExportWriter(w, csvutil.FilenameFromQuery(r, "maintenances"))
	defer cw.Flush()

	_ = cw.Write([]string{"date", "organ_model", "patrimony", "adm", "location", "technicians", "occurrence"})

	count := 0
	for _, row := range rows {
		if count >= csvutil.MaxExportRows {
			break
		}
		_ = cw.Write(csvutil.SanitizeRow([]string{
			row.Date,
			row.OrganModel,
			row.Patrimony,
			string(row.Adm),
			row.Location,
			row.Technicians,
			row.Occurrence,
		}))
		count++
	}

	h.Log.Info("maintenance CSV exported", zap.Int("rows", count))
}

// ServeDeletedCSV handles GET /reports/deleted.csv. Gated like the JSON
// endpoint.
func (h *Handler) ServeDeletedCSV(w http.ResponseWriter, r *http.Request) {
	if !requireHistoryAuthorized(w, r) {
		return
	}

	rows := h.deletedRows(parseFilter(r))

	cw := csvutil.NewExportWriter(w, csvutil.FilenameFromQuery(r, "deleted"))
	defer cw.Flush()

	_ = cw.Write([]string{"deleted_at", "type", "info", "patrimony", "adm", "location", "reason"})

	count := 0
	for _, row := range rows {
		if count >= csvutil.MaxExportRows {
			break
		}
		_ = cw.Write(csvutil.SanitizeRow([]string{
			row.DeletedAt.UTC().Format(time.RFC3339),
			row.Type,
			row.Info,
			row.Patrimony,
			string(row.Adm),
			row.Location,
			row.Reason,
		}))
		count++
	}

	h.Log.Info("deletion history CSV exported", zap.Int("rows", count))
}
