// internal/app/features/locations/routes.go
package locations

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the location endpoints, mounted under
// /locations.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}", h.ServeDetail)
	return r
}
