package reservations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TokenSource mints the bearer token attached to every collaborator call.
type TokenSource interface {
	Issue(userID int64, email string) (string, error)
}

// RESTClient talks to the external reservation API at
// {base}/api/reservations/{userID} with a per-request bearer JWT.
type RESTClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewRESTClient creates a client for the reservation collaborator.
func NewRESTClient(baseURL string, tokens TokenSource, httpClient *http.Client) *RESTClient {
	if tokens == nil {
		panic("reservations: token source is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &RESTClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
	}
}

func (c *RESTClient) url(userID int64) string {
	return fmt.Sprintf("%s/api/reservations/%d", c.baseURL, userID)
}

func (c *RESTClient) do(ctx context.Context, method string, userID int64, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("reservations: failed to encode body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(userID), reader)
	if err != nil {
		return nil, fmt.Errorf("reservations: failed to build request: %w", err)
	}

	token, err := c.tokens.Issue(userID, "")
	if err != nil {
		return nil, fmt.Errorf("reservations: failed to mint token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reservations: %s failed: %w", method, err)
	}
	return resp, nil
}

// Get fetches the user's reservation, or nil when none exists.
func (c *RESTClient) Get(ctx context.Context, userID int64) (*Reservation, error) {
	resp, err := c.do(ctx, http.MethodGet, userID, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reservations: unexpected status %d on GET", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reservations: failed to read response: %w", err)
	}
	// The collaborator returns an empty body when no reservation exists.
	if len(bytes.TrimSpace(data)) == 0 || string(bytes.TrimSpace(data)) == "null" {
		return nil, nil
	}

	var r Reservation
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("reservations: failed to decode response: %w", err)
	}
	if r.Date == "" && r.Time == "" {
		return nil, nil
	}
	return &r, nil
}

// Create books a reservation for the user.
func (c *RESTClient) Create(ctx context.Context, userID int64, r Reservation) error {
	resp, err := c.do(ctx, http.MethodPost, userID, map[string]string{
		"date":    r.Date,
		"time":    r.Time,
		"purpose": r.Purpose,
	})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusCreated:
		return nil
	case http.StatusConflict:
		return ErrAlreadyExists
	default:
		return fmt.Errorf("reservations: unexpected status %d on POST", resp.StatusCode)
	}
}

// Update replaces the user's reservation.
func (c *RESTClient) Update(ctx context.Context, userID int64, r Reservation) error {
	status := r.Status
	if status == "" {
		status = "confirmed"
	}
	resp, err := c.do(ctx, http.MethodPut, userID, map[string]string{
		"date":    r.Date,
		"time":    r.Time,
		"purpose": r.Purpose,
		"status":  status,
	})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("reservations: unexpected status %d on PUT", resp.StatusCode)
	}
}

// Cancel deletes the user's reservation.
func (c *RESTClient) Cancel(ctx context.Context, userID int64) error {
	resp, err := c.do(ctx, http.MethodDelete, userID, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("reservations: unexpected status %d on DELETE", resp.StatusCode)
	}
}
