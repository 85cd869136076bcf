// internal/app/features/regions/routes.go
package regions

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the region endpoints, mounted under
// /regions.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{adm}/locations", h.ServeLocations)
	return r
}
