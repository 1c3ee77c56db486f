package kited

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dgallion1/kitesidebar/internal/urls"
)

const maxResponseSize = 4 << 20 // 4 MiB

// ErrRequest is wrapped by every failed daemon request.
var ErrRequest = errors.New("kited request failed")

// RequestError describes a request that reached the daemon, or tried to, and failed.
type RequestError struct {
	Path       string
	StatusCode int // 0 when no response was received
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("kited %s: %v", e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("kited %s: status %d: %v", e.Path, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("kited %s: status %d: %s", e.Path, e.StatusCode, e.Body)
	}
}

func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRequest}
	}
	return []error{ErrRequest, e.Err}
}

// AvailabilityError means the daemon cannot serve documentation right now.
type AvailabilityError struct {
	Reason string
	Err    error
}

func (e *AvailabilityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("kited unavailable: %s: %v", e.Reason, e.Err)
	}
	return "kited unavailable: " + e.Reason
}

func (e *AvailabilityError) Unwrap() error {
	return e.Err
}

// Plan is the subset of the daemon's plan response the sidebar cares about.
type Plan struct {
	ActiveSubscription string `json:"active_subscription"`
	Status             string `json:"status"`
}

// Client talks to the local kited daemon over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	stats      *Stats
}

func NewClient(baseURL string, timeout time.Duration, stats *Stats) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		stats: stats,
	}
}

// Request issues a single GET for path and returns the raw body. There is no retry.
func (c *Client) Request(ctx context.Context, path string) ([]byte, error) {
	start := time.Now()
	body, err := c.get(ctx, path)
	if c.stats != nil {
		c.stats.Record(time.Since(start), err != nil)
	}
	return body, err
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, &RequestError{Path: path, Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &RequestError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &RequestError{Path: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, &RequestError{Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	if len(body) > maxResponseSize {
		return nil, &RequestError{Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("response too large (limit %d bytes)", maxResponseSize)}
	}
	return body, nil
}

// QueryPlan fetches the user's plan. Any failure is reported as an AvailabilityError.
func (c *Client) QueryPlan(ctx context.Context) (*Plan, error) {
	body, err := c.Request(ctx, urls.PlanPath)
	if err != nil {
		return nil, &AvailabilityError{Reason: "plan request failed", Err: err}
	}
	var plan Plan
	if err := json.Unmarshal(body, &plan); err != nil {
		return nil, &AvailabilityError{Reason: "plan response is not valid JSON", Err: err}
	}
	return &plan, nil
}

// Available is the pre-flight gate run before every report request.
func (c *Client) Available(ctx context.Context) error {
	_, err := c.QueryPlan(ctx)
	return err
}

// Stats returns the latency tracker, which may be nil.
func (c *Client) Stats() *Stats {
	return c.stats
}

// Close drops idle keep-alive connections to the daemon.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
