package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lenswork/lenswork-api/internal/middleware"
	"github.com/lenswork/lenswork-api/internal/pkg/response"
	"github.com/lenswork/lenswork-api/internal/pkg/validator"
)

// Handler handles booking HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /bookings. Open to anonymous clients; authenticated
// clients are bound to their own identity.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	authClientID := uuid.Nil
	if !middleware.IsStaff(r.Context()) {
		authClientID = middleware.GetUserID(r.Context())
	}

	b, err := h.service.Create(r.Context(), authClientID, &req)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	response.Created(w, BookingResponseFromEntity(b))
}

// GetByReference handles GET /bookings/ref/{reference}
func (h *Handler) GetByReference(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	if reference == "" {
		response.BadRequest(w, "Missing booking reference")
		return
	}

	b, err := h.service.GetByReference(r.Context(), reference)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	response.OK(w, BookingResponseFromEntity(b))
}

// GetByID handles GET /bookings/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	b, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	response.OK(w, BookingResponseFromEntity(b))
}

// List handles GET /bookings?status=pending
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var status *Status
	if s := r.URL.Query().Get("status"); s != "" {
		candidate := Status(s)
		switch candidate {
		case StatusPending, StatusConfirmed, StatusDeclined, StatusCancelled, StatusCompleted:
			status = &candidate
		default:
			response.BadRequest(w, "Invalid status filter")
			return
		}
	}

	bookings, err := h.service.List(r.Context(), status)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, BookingListResponse(bookings))
}

// ListMy handles GET /bookings/my
func (h *Handler) ListMy(w http.ResponseWriter, r *http.Request) {
	clientID := middleware.GetUserID(r.Context())
	if clientID == uuid.Nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	bookings, err := h.service.ListByClient(r.Context(), clientID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, BookingListResponse(bookings))
}

// CountPending handles GET /bookings/pending/count
func (h *Handler) CountPending(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CountPending(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]int{"count": count})
}

// Confirm handles POST /bookings/{id}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	b, err := h.service.Confirm(r.Context(), id, &req)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	response.OK(w, BookingResponseFromEntity(b))
}

// Decline handles POST /bookings/{id}/decline
func (h *Handler) Decline(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	var req DeclineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	b, err := h.service.Decline(r.Context(), id, req.Reason)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	response.OK(w, BookingResponseFromEntity(b))
}

// Cancel handles POST /bookings/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	callerID := middleware.GetUserID(r.Context())
	callerIsStaff := middleware.IsStaff(r.Context())

	b, err := h.service.Cancel(r.Context(), id, callerID, callerIsStaff)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	response.OK(w, BookingResponseFromEntity(b))
}

// Convert handles POST /bookings/{id}/convert
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	shootID, err := h.service.ConvertToShoot(r.Context(), id)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	response.OK(w, map[string]string{"shoot_id": shootID.String()})
}

// UpdateNotes handles PATCH /bookings/{id}/notes
func (h *Handler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
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

	if err := h.service.UpdateAdminNotes(r.Context(), id, req.AdminNotes); err != nil {
		h.writeBookingError(w, err)
		return
	}

	response.NoContent(w)
}

// Delete handles DELETE /bookings/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeBookingError(w, err)
		return
	}

	response.NoContent(w)
}

func (h *Handler) writeBookingError(w http.ResponseWriter, err error) {
	var validationErrs ValidationErrors
	if errors.As(err, &validationErrs) {
		response.ValidationError(w, validationErrs)
		return
	}

	switch {
	case errors.Is(err, ErrBookingNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, ErrPackageNotFound):
		response.NotFound(w, "Service package not found")
	case errors.Is(err, ErrNotBookingOwner):
		response.Forbidden(w, "You can only cancel your own bookings")
	case errors.Is(err, ErrPhotographerRequired):
		response.ValidationError(w, map[string]string{"photographer_id": "a photographer must be assigned before confirmation"})
	case errors.Is(err, ErrNoAvailability):
		response.Conflict(w, "No available slot covers the requested time window")
	case errors.Is(err, ErrAlreadyTerminal), errors.Is(err, ErrInvalidTransition):
		response.Conflict(w, "Booking is not in a state that allows this action")
	case errors.Is(err, ErrNotConfirmed):
		response.Conflict(w, "Only confirmed bookings can be converted to shoots")
	case errors.Is(err, ErrAlreadyConverted):
		response.Conflict(w, "Booking has already been converted to a shoot")
	default:
		response.InternalError(w)
	}
}
