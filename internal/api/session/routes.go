package session

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers session routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Post("/{id}/draft", h.UpdateDraft)
		r.Get("/{id}/state", h.GetState)
		r.Post("/{id}/attach", h.Attach)
		r.Post("/{id}/detach", h.Detach)
		r.Post("/{id}/toggle", h.Toggle)
		r.Post("/{id}/mode", h.SetMode)
		r.Post("/{id}/submit", h.Submit)
		r.Delete("/{id}", h.DeleteSession)
	})
}
