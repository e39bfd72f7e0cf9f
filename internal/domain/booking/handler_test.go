package booking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func noopMW(next http.Handler) http.Handler { return next }

func newTestRouter(repo *fakeBookingRepo) http.Handler {
	svc := NewService(repo, &fakePackageRepo{}, newFakeScheduler(), &fakeConverter{})
	return NewHandler(svc).Routes(noopMW, noopMW, noopMW, noopMW)
}

func TestDeclineHandlerRejectsEmptyReason(t *testing.T) {
	repo := newFakeBookingRepo()
	b := pendingBooking(uuid.New())
	repo.put(b)
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/"+b.ID.String()+"/decline", strings.NewReader(`{"reason":""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Error   *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Success || resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected validation error envelope, got %+v", resp)
	}
}

func TestGetByReferenceHandlerNotFound(t *testing.T) {
	router := newTestRouter(newFakeBookingRepo())

	req := httptest.NewRequest(http.MethodGet, "/ref/BK-20260101-0000", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateHandlerInvalidJSON(t *testing.T) {
	router := newTestRouter(newFakeBookingRepo())

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestConfirmHandlerConflictOnTerminalBooking(t *testing.T) {
	repo := newFakeBookingRepo()
	b := pendingBooking(uuid.New())
	b.Status = StatusCancelled
	repo.put(b)
	router := newTestRouter(repo)

	photographer := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/"+b.ID.String()+"/confirm",
		strings.NewReader(`{"photographer_id":"`+photographer.String()+`"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestListHandlerRejectsUnknownStatus(t *testing.T) {
	router := newTestRouter(newFakeBookingRepo())

	req := httptest.NewRequest(http.MethodGet, "/?status=archived", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
