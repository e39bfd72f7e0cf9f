package shootmgmt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 10 * time.Second

// Client represents the shoot-management HTTP client.
type Client struct {
	baseURL string
	token   string
	ua      string
	http    *http.Client
}

// CreateShootRequest represents the payload sent to shoot management.
type CreateShootRequest struct {
	BookingReference string    `json:"booking_reference"`
	ClientID         uuid.UUID `json:"client_id"`
	PhotographerID   uuid.UUID `json:"photographer_id"`
	EventType        string    `json:"event_type"`
	StartTime        time.Time `json:"start_time"`
	DurationHours    float64   `json:"duration_hours"`
	Location         string    `json:"location,omitempty"`
	Price            *float64  `json:"price,omitempty"`
	Notes            string    `json:"notes,omitempty"`
}

// CreateShootResponse represents the shoot-management reply.
type CreateShootResponse struct {
	Success bool `json:"success"`
	Data    struct {
		ShootID uuid.UUID `json:"shoot_id"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewClient creates a new shoot-management client.
func NewClient(baseURL, token string, timeout time.Duration, ua string) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		ua:      ua,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// CreateShoot creates a shoot record in the shoot-management subsystem.
func (c *Client) CreateShoot(ctx context.Context, p CreateShootRequest) (uuid.UUID, error) {
	if c == nil || c.http == nil {
		return uuid.Nil, fmt.Errorf("shootmgmt request error: client is nil")
	}
	if strings.TrimSpace(c.baseURL) == "" {
		return uuid.Nil, fmt.Errorf("shootmgmt config error: base_url is empty")
	}
	if strings.TrimSpace(c.token) == "" {
		return uuid.Nil, fmt.Errorf("shootmgmt config error: token is empty")
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return uuid.Nil, fmt.Errorf("shootmgmt request error: %w", err)
	}

	endpoint := c.baseURL + "/internal/shoots"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return uuid.Nil, fmt.Errorf("shootmgmt request error: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if c.ua != "" {
		req.Header.Set("User-Agent", c.ua)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return uuid.Nil, classifyRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return uuid.Nil, fmt.Errorf("shootmgmt http error: status=%d body=<failed to read body: %v>", resp.StatusCode, readErr)
		}
		return uuid.Nil, fmt.Errorf("shootmgmt http error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var parsed CreateShootResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return uuid.Nil, fmt.Errorf("shootmgmt response error: %w", err)
	}

	if !parsed.Success {
		if parsed.Error != nil {
			return uuid.Nil, fmt.Errorf("shootmgmt error: %s - %s", parsed.Error.Code, parsed.Error.Message)
		}
		return uuid.Nil, fmt.Errorf("shootmgmt returned success=false")
	}
	if parsed.Data.ShootID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("shootmgmt response error: missing shoot_id")
	}

	return parsed.Data.ShootID, nil
}

func classifyRequestError(ctx context.Context, err error) error {
	if isTimeoutError(ctx, err) {
		return fmt.Errorf("shootmgmt timeout: %w", err)
	}
	if isNetworkError(err) {
		return fmt.Errorf("shootmgmt network error: %w", err)
	}
	return fmt.Errorf("shootmgmt request error: %w", err)
}

func isTimeoutError(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
