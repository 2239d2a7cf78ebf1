package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/metaagentlabs/agent-gateway-backend/internal/config"
)

// ElizaClient talks to the Eliza conversational-agent service.
type ElizaClient struct {
	cfg    *config.ElizaConfig
	client *http.Client
}

// NewElizaClient creates a client for the given configuration.
func NewElizaClient(cfg *config.ElizaConfig) *ElizaClient {
	return &ElizaClient{
		cfg:    cfg,
		client: newHTTPClient(),
	}
}

// CreateAgent instantiates an agent from a character configuration. The
// response body carries the assigned agent id under "id".
func (c *ElizaClient) CreateAgent(ctx context.Context, characterJSON json.RawMessage) (*Response, error) {
	if c.cfg.BaseURL == "" {
		return nil, fmt.Errorf("eliza: %w", ErrNotConfigured)
	}

	url := joinRoute(c.cfg.BaseURL, c.cfg.Routes["create"], nil)
	payload := map[string]interface{}{
		"characterJson": characterJSON,
	}
	return postJSON(ctx, c.client, url, payload)
}

// Message sends a conversation turn to an existing agent.
func (c *ElizaClient) Message(ctx context.Context, agentID, text, user string) (*Response, error) {
	if c.cfg.BaseURL == "" {
		return nil, fmt.Errorf("eliza: %w", ErrNotConfigured)
	}

	url := joinRoute(c.cfg.BaseURL, c.cfg.Routes["message"], map[string]string{
		"agent_id": agentID,
	})
	payload := map[string]string{
		"text": text,
		"user": user,
	}
	return postJSON(ctx, c.client, url, payload)
}
