// internal/app/features/maintenances/routes.go
package maintenances

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the maintenance endpoints, mounted under
// /maintenances.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeCreate)
	r.Put("/{id}", h.ServeUpdate)
	r.Delete("/{id}", h.ServeDelete)
	return r
}
