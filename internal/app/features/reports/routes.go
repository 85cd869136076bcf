// internal/app/features/reports/routes.go
package reports

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the report endpoints, mounted under
// /reports.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/maintenances", h.ServeMaintenances)
	r.Get("/maintenances.csv", h.ServeMaintenancesCSV)
	r.Get("/deleted", h.ServeDeleted)
	r.Get("/deleted.csv", h.ServeDeletedCSV)
	return r
}
