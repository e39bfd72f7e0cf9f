package servicepackage

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lenswork/lenswork-api/internal/pkg/response"
)

// Handler handles service package HTTP requests
type Handler struct {
	repo Repository
}

// NewHandler creates service package handler
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// PackageResponse represents a package in API responses
type PackageResponse struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description,omitempty"`
	Price                float64   `json:"price"`
	DefaultDurationHours float64   `json:"default_duration_hours"`
	CreatedAt            time.Time `json:"created_at"`
}

// List handles GET /packages
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	packages, err := h.repo.ListActive(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*PackageResponse, len(packages))
	for i, p := range packages {
		items[i] = &PackageResponse{
			ID:                   p.ID,
			Name:                 p.Name,
			Price:                p.Price,
			DefaultDurationHours: p.DefaultDurationHours,
			CreatedAt:            p.CreatedAt,
		}
		if p.Description.Valid {
			items[i].Description = p.Description.String
		}
	}

	response.OK(w, items)
}

// Routes returns service package router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	return r
}
