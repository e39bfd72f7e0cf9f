package availability

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns availability router
func (h *Handler) Routes(authMiddleware, staffMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public routes
	r.Get("/", h.ListAvailable)

	// Staff routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(staffMiddleware)
		r.Get("/all", h.ListRange)
		r.Post("/", h.Create)
		r.Post("/block", h.Block)
		r.Put("/{id}/notes", h.UpdateNotes)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
