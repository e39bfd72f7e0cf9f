package availability

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lenswork/lenswork-api/internal/pkg/response"
	"github.com/lenswork/lenswork-api/internal/pkg/validator"
)

// Handler handles availability HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates availability handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListAvailable handles GET /availability?date=2026-03-01&photographer_id=...
func (h *Handler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	date, err := time.Parse("2006-01-02", query.Get("date"))
	if err != nil {
		response.BadRequest(w, "Invalid or missing date, expected YYYY-MM-DD")
		return
	}

	var photographerID *uuid.UUID
	if p := query.Get("photographer_id"); p != "" {
		id, err := uuid.Parse(p)
		if err != nil {
			response.BadRequest(w, "Invalid photographer ID")
			return
		}
		photographerID = &id
	}

	slots, err := h.service.ListAvailable(r.Context(), photographerID, date)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*SlotResponse, len(slots))
	for i, s := range slots {
		items[i] = SlotResponseFromEntity(s)
	}

	response.OK(w, items)
}

// ListRange handles GET /availability/all?photographer_id=...&from=...&to=...
func (h *Handler) ListRange(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	photographerID, err := uuid.Parse(query.Get("photographer_id"))
	if err != nil {
		response.BadRequest(w, "Invalid or missing photographer ID")
		return
	}

	from, err := time.Parse("2006-01-02", query.Get("from"))
	if err != nil {
		response.BadRequest(w, "Invalid or missing from date, expected YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", query.Get("to"))
	if err != nil {
		response.BadRequest(w, "Invalid or missing to date, expected YYYY-MM-DD")
		return
	}

	slots, err := h.service.ListRange(r.Context(), photographerID, from, to)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			response.BadRequest(w, "to must be after from")
			return
		}
		response.InternalError(w)
		return
	}

	items := make([]*SlotResponse, len(slots))
	for i, s := range slots {
		items[i] = SlotResponseFromEntity(s)
	}

	response.OK(w, items)
}

// Create handles POST /availability
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	slot, err := h.service.CreateSlot(r.Context(), req.PhotographerID, req.StartTime, req.EndTime, req.RecurringDayOfWeek)
	if err != nil {
		h.writeSlotError(w, err)
		return
	}

	response.Created(w, SlotResponseFromEntity(slot))
}

// Block handles POST /availability/block
func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	var req BlockSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	slot, err := h.service.BlockSlot(r.Context(), req.PhotographerID, req.StartTime, req.EndTime, req.Notes)
	if err != nil {
		h.writeSlotError(w, err)
		return
	}

	response.Created(w, SlotResponseFromEntity(slot))
}

// UpdateNotes handles PUT /availability/{id}/notes
func (h *Handler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid slot ID")
		return
	}

	var req UpdateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.service.UpdateNotes(r.Context(), id, req.Notes); err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			response.NotFound(w, "Slot not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}

// Delete handles DELETE /availability/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid slot ID")
		return
	}

	if err := h.service.DeleteSlot(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrSlotNotFound):
			response.NotFound(w, "Slot not found")
		case errors.Is(err, ErrSlotInUse):
			response.Conflict(w, "Slot is booked by an active booking")
		default:
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}

func (h *Handler) writeSlotError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidRange):
		response.ValidationError(w, map[string]string{"end_time": "end_time must be after start_time"})
	case errors.Is(err, ErrInvalidWeekday):
		response.ValidationError(w, map[string]string{"recurring_day_of_week": "must be between 0 and 6"})
	case errors.Is(err, ErrOverlap):
		response.Conflict(w, "Slot overlaps an existing booked or blocked slot")
	default:
		response.InternalError(w)
	}
}
