package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"vibedash/internal/models"
)

// fetchTimeout bounds every backend call. A hung backend surfaces as
// ErrTimeout rather than an indefinite spinner.
const fetchTimeout = 30 * time.Second

var (
	// ErrTimeout means the backend did not respond within the fetch
	// timeout.
	ErrTimeout = errors.New("server did not respond in time")

	// ErrServer means the backend answered with an application-level
	// error payload.
	ErrServer = errors.New("server reported an error")
)

// Client talks to the dashboard backend.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: fetchTimeout},
	}
}

// NewClientWithHTTP creates a Client with a custom http.Client, used
// by tests to shrink the timeout.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, http: httpClient}
}

// FetchData retrieves the full dashboard snapshot.
func (c *Client) FetchData(ctx context.Context) (models.DashboardData, error) {
	return c.fetchSnapshot(ctx, "/api/data")
}

// ScanProjects forces a rescan on the backend and returns the fresh
// snapshot.
func (c *Client) ScanProjects(ctx context.Context) (models.DashboardData, error) {
	return c.fetchSnapshot(ctx, "/api/scan-projects")
}

func (c *Client) fetchSnapshot(ctx context.Context, path string) (models.DashboardData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return models.DashboardData{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return models.DashboardData{}, classify(err)
	}
	defer resp.Body.Close()

	var data models.DashboardData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return models.DashboardData{}, fmt.Errorf("failed to decode response: %w", err)
	}

	// A 500 carries an error payload with empty lists
	if data.Error != "" {
		return data, fmt.Errorf("%w: %s", ErrServer, data.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return data, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	return data, nil
}

// OpenProject asks the backend to open the project in an editor
// ("code") or a terminal.
func (c *Client) OpenProject(ctx context.Context, path, action string) (models.ActionResult, error) {
	return c.postAction(ctx, "/api/open-project", map[string]string{
		"path":   path,
		"action": action,
	})
}

// VenvAction runs one of create, activate or delete.
func (c *Client) VenvAction(ctx context.Context, action, path string) (models.ActionResult, error) {
	return c.postAction(ctx, "/api/venv/"+action, map[string]string{"path": path})
}

// GitRequest carries the optional fields of a git action.
type GitRequest struct {
	Path        string `json:"path"`
	Message     string `json:"message,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// GitAction runs a git action against the project at req.Path.
func (c *Client) GitAction(ctx context.Context, action string, req GitRequest) (models.ActionResult, error) {
	return c.postAction(ctx, "/api/git/"+action, req)
}

func (c *Client) postAction(ctx context.Context, path string, body any) (models.ActionResult, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return models.ActionResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return models.ActionResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.ActionResult{}, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.ActionResult{}, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	var result models.ActionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.ActionResult{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return result, nil
}

// classify maps transport errors onto the client's sentinel errors.
// Timeouts and cancelled contexts both mean the backend took too long.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return ErrTimeout
	}
	return fmt.Errorf("request failed: %w", err)
}
