// Package client provides the HTTP client used by the administrative list
// view to talk to the repair management API. It mirrors the endpoint table
// exposed by the server and normalizes every failure (transport errors,
// non-2xx statuses, envelopes without ok:true) into plain errors, since
// the view treats all of them identically: show a notification and leave the
// current snapshot untouched.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tbourn/go-repair-backend/internal/domain"
)

// Client issues requests against one repair management server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a Client for the server at baseURL (scheme://host[:port],
// no trailing slash required). A nil httpClient falls back to
// http.DefaultClient; callers that need timeouts supply their own.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("repair api: %s (%d %s)", e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("repair api: status %d", e.StatusCode)
}

// CreateRepair carries the optional creation fields. A blank status is
// defaulted to "active" by the server.
type CreateRepair struct {
	UserID       *string `json:"user_id,omitempty"`
	MachineID    *string `json:"machine_id,omitempty"`
	RepairStatus string  `json:"repair_status,omitempty"`
}

// UpdateRepair carries the full replacement values for a PUT.
type UpdateRepair struct {
	UserID       *string `json:"user_id"`
	MachineID    *string `json:"machine_id"`
	RepairStatus string  `json:"repair_status"`
}

// Response envelopes. Errors decode into the shared error shape; successes
/// carry ok:true plus the operation-specific payload.
type listEnvelope struct {
	OK      bool            `json:"ok"`
	Repairs []domain.Repair `json:"repairs"`
}

type repairEnvelope struct {
	OK     bool           `json:"ok"`
	Repair *domain.Repair `json:"repair"`
}

type messageEnvelope struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// List fetches the complete record set, newest first.
func (c *Client) List(ctx context.Context) ([]domain.Repair, error) {
	var env listEnvelope
	if err := c.do(ctx, http.MethodGet, "/management/repair", nil, &env); err != nil {
		return nil, err
	}
	if !env.OK {
		return nil, fmt.Errorf("repair api: list response not ok")
	}
	return env.Repairs, nil
}

// Get fetches one record by id.
func (c *Client) Get(ctx context.Context, id string) (*domain.Repair, error) {
	var env repairEnvelope
	if err := c.do(ctx, http.MethodGet, "/management/repair/"+url.PathEscape(id), nil, &env); err != nil {
		return nil, err
	}
	if !env.OK {
		return nil, fmt.Errorf("repair api: get response not ok")
	}
	return env.Repair, nil
}

// Create inserts a new record and returns it with the server-assigned id
// and creation timestamp.
func (c *Client) Create(ctx context.Context, in CreateRepair) (*domain.Repair, error) {
	var env repairEnvelope
	if err := c.do(ctx, http.MethodPost, "/management/repair", in, &env); err != nil {
		return nil, err
	}
	if !env.OK {
		return nil, fmt.Errorf("repair api: create response not ok")
	}
	return env.Repair, nil
}

// Update replaces the mutable fields of a record wholesale.
func (c *Client) Update(ctx context.Context, id string, in UpdateRepair) (*domain.Repair, error) {
	var env repairEnvelope
	if err := c.do(ctx, http.MethodPut, "/management/repair/"+url.PathEscape(id), in, &env); err != nil {
		return nil, err
	}
	if !env.OK {
		return nil, fmt.Errorf("repair api: update response not ok")
	}
	return env.Repair, nil
}

// Transition changes a record's status through the validated path and
// returns the updated record.
func (c *Client) Transition(ctx context.Context, id, status string) (*domain.Repair, error) {
	body := struct {
		Status string `json:"status"`
	}{Status: status}
	var env repairEnvelope
	if err := c.do(ctx, http.MethodPatch, "/management/repair/"+url.PathEscape(id)+"/status", body, &env); err != nil {
		return nil, err
	}
	if !env.OK {
		return nil, fmt.Errorf("repair api: transition response not ok")
	}
	return env.Repair, nil
}

// Delete removes a record permanently. Deleting an id twice fails the
// second time: the server reports Not-Found rather than a silent success.
func (c *Client) Delete(ctx context.Context, id string) error {
	var env messageEnvelope
	if err := c.do(ctx, http.MethodDelete, "/management/repair/"+url.PathEscape(id), nil, &env); err != nil {
		return err
	}
	if !env.OK {
		return fmt.Errorf("repair api: delete response not ok")
	}
	return nil
}

// do sends one request and decodes the response into out. Non-2xx statuses
// become *APIError with the server's code and message when the body carries
// the error envelope.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var env errorEnvelope
		if json.Unmarshal(data, &env) == nil {
			apiErr.Code = env.Code
			apiErr.Message = env.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
