// internal/app/features/gate/routes.go
package gate

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the challenge endpoints, mounted under
// /gate.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/challenge", h.ServeChallenge)
	r.Post("/history", h.ServeAuthorizeHistory)
	r.Get("/history", h.ServeHistoryStatus)
	return r
}
