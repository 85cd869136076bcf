// internal/app/features/organs/routes.go
package organs

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the organ endpoints, mounted under /organs.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeCreate)
	r.Put("/{id}", h.ServeUpdate)
	r.Delete("/{id}", h.ServeDelete)
	r.Get("/{id}/maintenances", h.ServeHistory)
	return r
}
