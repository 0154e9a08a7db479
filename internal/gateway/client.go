// Package gateway provides the HTTP client the dashboard uses to talk to
// the leaddesk backend.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/leaddesk/leaddesk/internal/crm"
)

// fallbackMessage is shown when the backend returns an error without a
// usable detail body, or cannot be reached at all.
const fallbackMessage = "an error occurred; check that the backend is running"

// RequestError is a failed backend request. Message carries the backend's
// detail text when the response body had one.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// Client talks to the leaddesk backend API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given base URL, e.g. "http://localhost:8000".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 120 * time.Second},
	}
}

// RunResearch asks the backend to research a company domain and returns the
// workflow outcome.
func (c *Client) RunResearch(ctx context.Context, domain string) (*crm.ResearchOutcome, error) {
	body, err := json.Marshal(map[string]string{"company_domain": domain})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	var outcome crm.ResearchOutcome
	if err := c.do(ctx, http.MethodPost, "/api/research", bytes.NewReader(body), &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

// ListLeads returns all leads, newest first.
func (c *Client) ListLeads(ctx context.Context) ([]crm.Lead, error) {
	var leads []crm.Lead
	if err := c.do(ctx, http.MethodGet, "/api/leads", nil, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// ListLeadEmails returns the emails recorded for one lead, newest first.
func (c *Client) ListLeadEmails(ctx context.Context, leadID int64) ([]crm.Email, error) {
	var emails []crm.Email
	path := fmt.Sprintf("/api/leads/%d/emails", leadID)
	if err := c.do(ctx, http.MethodGet, path, nil, &emails); err != nil {
		return nil, err
	}
	return emails, nil
}

// DeleteLead deletes a lead and its emails.
func (c *Client) DeleteLead(ctx context.Context, leadID int64) error {
	path := fmt.Sprintf("/api/leads/%d", leadID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do performs one request and decodes the JSON response into out when the
// status is 2xx. Non-2xx responses become a RequestError carrying the
// backend's detail text when present.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Message: fallbackMessage}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Status: resp.StatusCode, Message: errorDetail(resp.Body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorDetail extracts the "detail" field from an error body, falling back
// to a generic message when the body is not in the expected shape.
func errorDetail(r io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil || payload.Detail == "" {
		return fallbackMessage
	}
	return payload.Detail
}
