package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/metaagentlabs/agent-gateway-backend/internal/config"
)

// ToolsClient talks to the tool-execution agent service.
type ToolsClient struct {
	cfg    *config.ToolsConfig
	client *http.Client
}

// NewToolsClient creates a client for the given configuration.
func NewToolsClient(cfg *config.ToolsConfig) *ToolsClient {
	return &ToolsClient{
		cfg:    cfg,
		client: newHTTPClient(),
	}
}

// Provision registers the user's tool credentials with the service. The
// response body carries the assigned identifier under "unique_id".
func (c *ToolsClient) Provision(ctx context.Context, apiKeys map[string]string) (*Response, error) {
	if c.cfg.BaseURL == "" {
		return nil, fmt.Errorf("tools: %w", ErrNotConfigured)
	}

	url := joinRoute(c.cfg.BaseURL, c.cfg.Routes["set"], nil)
	payload := map[string]interface{}{
		"api_keys": apiKeys,
	}
	return postJSON(ctx, c.client, url, payload)
}

// Query dispatches a prompt to the tools agent identified by uniqueID.
// extraToolKey is forwarded when the caller supplied one.
func (c *ToolsClient) Query(ctx context.Context, uniqueID, query, extraToolKey string) (*Response, error) {
	if c.cfg.BaseURL == "" {
		return nil, fmt.Errorf("tools: %w", ErrNotConfigured)
	}

	url := joinRoute(c.cfg.BaseURL, c.cfg.Routes["query"], map[string]string{
		"unique_id": uniqueID,
	})
	payload := map[string]string{
		"unique_id": uniqueID,
		"query":     query,
	}
	if extraToolKey != "" {
		payload["extra_tool_key"] = extraToolKey
	}
	return postJSON(ctx, c.client, url, payload)
}
