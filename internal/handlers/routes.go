package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router wires every route of the scanner service
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthcheck", h.HandleHealthcheck)
	r.Get("/markers.json", h.HandleMarkers)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", h.HandleCreateSession)
		r.Get("/sessions/{id}", h.HandleGetSession)
		r.Delete("/sessions/{id}", h.HandleDeleteSession)
		r.Post("/sessions/{id}/events", h.HandleEvent)
		r.Get("/books/{isbn}", h.HandleLookup)
	})

	r.Handle("/*", http.HandlerFunc(h.HandleStatic))

	return r
}
