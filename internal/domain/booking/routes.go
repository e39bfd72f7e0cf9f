package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns booking router
func (h *Handler) Routes(authMiddleware, optionalAuthMiddleware, staffMiddleware, adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public intake; anonymous clients use the reference lookup to track status
	r.Group(func(r chi.Router) {
		r.Use(optionalAuthMiddleware)
		r.Post("/", h.Create)
	})
	r.Get("/ref/{reference}", h.GetByReference)

	// Client routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/my", h.ListMy)
		r.Post("/{id}/cancel", h.Cancel)
	})

	// Staff routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(staffMiddleware)
		r.Get("/", h.List)
		r.Get("/pending/count", h.CountPending)
		r.Get("/{id}", h.GetByID)
		r.Post("/{id}/confirm", h.Confirm)
		r.Post("/{id}/decline", h.Decline)
		r.Post("/{id}/convert", h.Convert)
		r.Patch("/{id}/notes", h.UpdateNotes)
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
