// Package upstream holds the HTTP clients for the two downstream agent
// services. Calls return the downstream status and raw body so callers
// can pass responses through verbatim; a transport failure is the only
// error condition.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned when a service's base URL is missing from
// the environment.
var ErrNotConfigured = errors.New("service endpoint is not configured")

// Response carries a downstream HTTP result.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the downstream answered 200.
func (r *Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

// JSON decodes the body into a generic map.
func (r *Response) JSON() (map[string]interface{}, error) {
	var decoded map[string]interface{}
	if err := json.Unmarshal(r.Body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return decoded, nil
}

// StringField returns the named top-level string field of the JSON body,
// or "" when absent or not a string.
func (r *Response) StringField(name string) string {
	decoded, err := r.JSON()
	if err != nil {
		return ""
	}
	if s, ok := decoded[name].(string); ok {
		return s
	}
	return ""
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
	}
}

func postJSON(ctx context.Context, client *http.Client, url string, payload interface{}) (*Response, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func joinRoute(baseURL, route string, params map[string]string) string {
	for name, value := range params {
		route = strings.ReplaceAll(route, "{"+name+"}", value)
	}
	return strings.TrimSuffix(baseURL, "/") + route
}
