package shootmgmt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCreateShootSuccess(t *testing.T) {
	want := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/internal/shoots" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected auth header %q", got)
		}

		var payload CreateShootRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		if payload.BookingReference == "" {
			t.Error("expected booking reference in payload")
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]string{"shoot_id": want.String()},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", 5*time.Second, "test")
	got, err := client.CreateShoot(context.Background(), CreateShootRequest{
		BookingReference: "BK-20260501-1234",
		ClientID:         uuid.New(),
		PhotographerID:   uuid.New(),
		EventType:        "portrait",
		StartTime:        time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		DurationHours:    2,
	})
	if err != nil {
		t.Fatalf("create shoot failed: %v", err)
	}
	if got != want {
		t.Fatalf("expected shoot id %v, got %v", want, got)
	}
}

func TestCreateShootServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", 5*time.Second, "test")
	if _, err := client.CreateShoot(context.Background(), CreateShootRequest{BookingReference: "BK-20260501-0001"}); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestCreateShootRejectsMissingConfig(t *testing.T) {
	client := NewClient("", "", 0, "")
	if _, err := client.CreateShoot(context.Background(), CreateShootRequest{}); err == nil {
		t.Fatal("expected error with empty base URL")
	}
}

func TestCreateShootTimeoutClassified(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL, "test-token", 50*time.Millisecond, "test")
	_, err := client.CreateShoot(context.Background(), CreateShootRequest{BookingReference: "BK-20260501-0003"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Fatalf("expected error classified as timeout, got %v", err)
	}
}

func TestCreateShootApplicationFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   map[string]string{"code": "DUPLICATE", "message": "shoot already exists"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", 5*time.Second, "test")
	if _, err := client.CreateShoot(context.Background(), CreateShootRequest{BookingReference: "BK-20260501-0002"}); err == nil {
		t.Fatal("expected error on success=false reply")
	}
}
