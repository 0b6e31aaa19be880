package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vmunix/carbon/internal/job"
	"github.com/vmunix/carbon/internal/queue"
)

// Client wraps HTTP calls to the carbon daemon.
type Client struct {
	baseURL    string
	httpClient *http.Client
	dialer     websocket.Dialer
}

// NewClient creates a new carbon API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		dialer: websocket.Dialer{HandshakeTimeout: 10 * time.Second},
	}
}

// APIError is a non-success answer from the daemon.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("server error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, result any, ok ...int) (int, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal error: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("request creation failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if len(ok) == 0 {
		ok = []int{http.StatusOK}
	}
	if !slices.Contains(ok, resp.StatusCode) {
		respBody, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		var e struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
			apiErr.Code, apiErr.Message = e.Code, e.Error
		}
		return resp.StatusCode, apiErr
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) get(path string, result any) error {
	_, err := c.do(context.Background(), http.MethodGet, path, nil, result)
	return err
}

// API response types (mirror server types)

type JobsResponse struct {
	Items         []job.Job `json:"items"`
	Total         int       `json:"total"`
	Version       uint64    `json:"version"`
	MaxConcurrent int       `json:"max_concurrent"`
	Active        int       `json:"active"`
}

type ConcurrencyResponse struct {
	MaxConcurrent int `json:"max_concurrent"`
	Active        int `json:"active"`
}

type EventResponse struct {
	ID         int64     `json:"id"`
	EventType  string    `json:"event_type"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Payload    string    `json:"payload,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ListEventsResponse struct {
	Items  []EventResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type StatusResponse struct {
	Status        string         `json:"status"`
	Version       string         `json:"version"`
	Uptime        string         `json:"uptime"`
	Jobs          map[string]int `json:"jobs"`
	Total         int            `json:"total"`
	MaxConcurrent int            `json:"max_concurrent"`
	Active        int            `json:"active"`
}

func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get("/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Jobs lists jobs in submission order, optionally only those in status.
func (c *Client) Jobs(status string) (*JobsResponse, error) {
	path := "/api/v1/jobs"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var resp JobsResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Job(id string) (*job.Job, error) {
	var resp job.Job
	if err := c.get("/api/v1/jobs/"+url.PathEscape(id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AddJob(rawURL, quality string) (*job.Job, error) {
	return c.addJob(context.Background(), rawURL, quality)
}

func (c *Client) addJob(ctx context.Context, rawURL, quality string) (*job.Job, error) {
	body := map[string]string{"url": rawURL}
	if quality != "" {
		body["quality"] = quality
	}
	var resp job.Job
	if _, err := c.do(ctx, http.MethodPost, "/api/v1/jobs", body, &resp, http.StatusCreated); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelJob reports whether the job had settled by the time the daemon
// answered, along with its state.
func (c *Client) CancelJob(ctx context.Context, id string) (*job.Job, bool, error) {
	var resp job.Job
	code, err := c.do(ctx, http.MethodPost, "/api/v1/jobs/"+url.PathEscape(id)+"/cancel", nil, &resp,
		http.StatusOK, http.StatusAccepted)
	if err != nil {
		return nil, false, err
	}
	return &resp, code == http.StatusOK, nil
}

func (c *Client) ClearJobs(ctx context.Context) (int, error) {
	var resp struct {
		Removed int `json:"removed"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/api/v1/jobs/clear", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Removed, nil
}

func (c *Client) Concurrency() (*ConcurrencyResponse, error) {
	var resp ConcurrencyResponse
	if err := c.get("/api/v1/queue/concurrency", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SetConcurrency(n int) (*ConcurrencyResponse, error) {
	var resp ConcurrencyResponse
	body := map[string]int{"max_concurrent": n}
	if _, err := c.do(context.Background(), http.MethodPut, "/api/v1/queue/concurrency", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Events pages through the journal newest first. A non-zero since limits
// the page to events at or after that time.
func (c *Client) Events(limit, offset int, since time.Time) (*ListEventsResponse, error) {
	path := "/api/v1/events?limit=" + strconv.Itoa(limit)
	if offset > 0 {
		path += "&offset=" + strconv.Itoa(offset)
	}
	if !since.IsZero() {
		path += "&since=" + url.QueryEscape(since.UTC().Format(time.RFC3339))
	}
	var resp ListEventsResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) JobEvents(id string) (*ListEventsResponse, error) {
	var resp ListEventsResponse
	if err := c.get("/api/v1/jobs/"+url.PathEscape(id)+"/events", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Submit, Cancel, Delete and ClearCompleted let the TUI drive the daemon.

func (c *Client) Submit(ctx context.Context, rawURL string) (string, error) {
	j, err := c.addJob(ctx, rawURL, "")
	if err != nil {
		return "", err
	}
	return j.ID, nil
}

func (c *Client) Cancel(ctx context.Context, id string) error {
	_, _, err := c.CancelJob(ctx, id)
	return err
}

func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/jobs/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
	return err
}

func (c *Client) ClearCompleted(ctx context.Context) (int, error) {
	return c.ClearJobs(ctx)
}

// Stream opens the snapshot websocket. The returned channel holds the latest
// snapshot and is closed when the connection ends or ctx is done.
func (c *Client) Stream(ctx context.Context) (<-chan queue.Snapshot, error) {
	wsURL, err := streamURL(c.baseURL)
	if err != nil {
		return nil, err
	}
	conn, _, err := c.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("connect stream: %w", err)
	}

	out := make(chan queue.Snapshot, 1)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()
	go func() {
		defer close(out)
		defer close(done)
		defer func() { _ = conn.Close() }()
		for {
			var snap queue.Snapshot
			if err := conn.ReadJSON(&snap); err != nil {
				return
			}
			select {
			case out <- snap:
				continue
			default:
			}
			// Reader is behind: replace the stale snapshot.
			select {
			case <-out:
			default:
			}
			out <- snap
		}
	}()
	return out, nil
}

func streamURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", errors.New("invalid server url: scheme must be http or https")
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/v1/ws"
	return u.String(), nil
}
