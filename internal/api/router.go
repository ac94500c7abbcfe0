package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(h *Handler, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Post("/capture", h.Capture)
	r.Get("/search", h.Search)
	r.Get("/captures", h.Recent)
	r.Get("/linking", h.Linking)
	r.Get("/history", h.History)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
