// Package api is the HTTP client for the MG' REST API. The server is an
// external collaborator: this package only shapes requests, validates
// response payloads at the boundary, and maps failures into the shared error
// taxonomy. The session token is always passed explicitly; nothing here
// reads ambient storage.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"mgfeed/internal/models"
	"mgfeed/internal/observability"
)

// expiredTokenMessage is the server's wording for a rejected bearer token.
// Matching it is what turns a plain 403 into the session-invalid signal.
const expiredTokenMessage = "Invalid or expired token"

// Client talks to the MG' API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *observability.Logger
}

// NewClient returns a client for the API at baseURL. A zero timeout means
// calls only end when their context does.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  observability.GlobalLogger,
	}
}

// errorBody is the error envelope the server uses. Some endpoints fill
// "error", others "message"; both are consulted.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (b errorBody) text() string {
	if b.Error != "" {
		return b.Error
	}
	return b.Message
}

// do sends the request with a correlation ID and returns the response body
// and headers for 2xx statuses. Anything else is mapped into the error
// taxonomy: network failures, the session-invalid signal, or an API error
// carrying the server's message.
func (c *Client) do(ctx context.Context, req *http.Request) ([]byte, http.Header, error) {
	reqID := uuid.NewString()
	ctx = observability.WithRequestID(ctx, reqID)
	req = req.WithContext(ctx)
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.APICall(ctx, req.Method, req.URL.Path, 0, err)
		return nil, nil, models.NewNetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.APICall(ctx, req.Method, req.URL.Path, resp.StatusCode, err)
		return nil, nil, models.NewNetworkError(err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.APICall(ctx, req.Method, req.URL.Path, resp.StatusCode, nil)
		return body, resp.Header, nil
	}

	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	msg := eb.text()

	if (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) &&
		strings.Contains(msg, expiredTokenMessage) {
		c.logger.APICall(ctx, req.Method, req.URL.Path, resp.StatusCode, models.ErrSessionInvalid)
		return nil, nil, models.ErrSessionInvalid
	}
	apiErr := models.NewAPIError(resp.StatusCode, msg)
	c.logger.APICall(ctx, req.Method, req.URL.Path, resp.StatusCode, apiErr)
	return nil, nil, apiErr
}

// getJSON issues a GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	body, _, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return models.NewDecodeError("Unexpected response format", err)
	}
	return nil
}

// sendJSON issues a request with a JSON body and decodes the response into
// out when out is non-nil.
func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, _, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return models.NewDecodeError("Unexpected response format", err)
	}
	return nil
}
