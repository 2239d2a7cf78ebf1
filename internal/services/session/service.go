// Package session composes the credential check, agent registration,
// downstream provisioning and query dispatch into the two request flows
// the gateway exposes.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/metaagentlabs/agent-gateway-backend/internal/services/apikey"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/mapping"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/registry"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/retriever"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/upstream"
)

// Status is the terminal state of a creation request that passed the
// gate checks.
type Status string

const (
	StatusSuccess        Status = "success"
	StatusPartialFailure Status = "partial_failure"
)

// ErrInvalidAPIKey rejects a request whose token matches no stored key.
var ErrInvalidAPIKey = errors.New("invalid API key")

// DuplicateAgentError rejects a creation request reusing an agent name.
type DuplicateAgentError struct {
	Name string
}

func (e *DuplicateAgentError) Error() string {
	return fmt.Sprintf("Multi-agent with name %s already exists", e.Name)
}

// CreateParams are the inputs to the agent creation flow.
type CreateParams struct {
	CharacterFile      json.RawMessage
	APIKey             string
	EnvJSON            map[string]string
	MultiAgentMainName string
	MultipleAgentsName string
}

// CreateResult reports the outcome of the dual-service creation flow.
// On success both raw downstream bodies are attached; on partial failure
// only the failing side's body is attached and the other side is null.
type CreateResult struct {
	Status             Status          `json:"status"`
	MultiAgentMainName string          `json:"multi_agent_main_name"`
	Eliza              json.RawMessage `json:"eliza"`
	Tools              json.RawMessage `json:"tools"`
	Failed             []string        `json:"failed,omitempty"`
}

// Service is the session/query orchestrator.
type Service struct {
	keys      *apikey.Service
	registry  *registry.Service
	mappings  *mapping.Service
	retriever *retriever.Retriever
	eliza     *upstream.ElizaClient
	tools     *upstream.ToolsClient
}

// NewService creates the orchestrator from its collaborators.
func NewService(
	keys *apikey.Service,
	reg *registry.Service,
	mappings *mapping.Service,
	ret *retriever.Retriever,
	eliza *upstream.ElizaClient,
	tools *upstream.ToolsClient,
) *Service {
	return &Service{
		keys:      keys,
		registry:  reg,
		mappings:  mappings,
		retriever: ret,
		eliza:     eliza,
		tools:     tools,
	}
}

// CreateSession runs the agent creation state machine. Both downstream
// calls are always issued and there is no rollback of one side when the
// other fails: an Eliza success is registered and a Tools success is
// persisted regardless of the other outcome, so a caller can retry the
// whole operation and rely on the existence check to skip what already
// succeeded.
func (s *Service) CreateSession(ctx context.Context, params CreateParams) (*CreateResult, error) {
	ok, err := s.keys.Verify(params.APIKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidAPIKey
	}

	userID, err := s.keys.UserIDFromKey(params.APIKey)
	if err != nil {
		return nil, err
	}

	exists, err := s.registry.Exists(userID, params.MultiAgentMainName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &DuplicateAgentError{Name: params.MultiAgentMainName}
	}

	elizaResp, elizaErr := s.eliza.CreateAgent(ctx, params.CharacterFile)
	if errors.Is(elizaErr, upstream.ErrNotConfigured) {
		return nil, elizaErr
	}
	toolsResp, toolsErr := s.tools.Provision(ctx, params.EnvJSON)
	if errors.Is(toolsErr, upstream.ErrNotConfigured) {
		return nil, toolsErr
	}

	elizaOK := elizaErr == nil && elizaResp.OK()
	toolsOK := toolsErr == nil && toolsResp.OK()

	if elizaOK {
		if _, err := s.registry.Register(userID, params.MultiAgentMainName, params.MultipleAgentsName); err != nil {
			return nil, err
		}
	}

	if toolsOK {
		var elizaAgentID string
		if elizaOK {
			elizaAgentID = elizaResp.StringField("id")
		}
		toolsAgentID := toolsResp.StringField("unique_id")
		if err := s.mappings.Save(params.MultiAgentMainName, elizaAgentID, toolsAgentID); err != nil {
			logrus.WithFields(logrus.Fields{
				"multi_agent_main_name": params.MultiAgentMainName,
			}).Warnf("Failed to save agent/tool mapping: %v", err)
		}
	}

	result := &CreateResult{
		MultiAgentMainName: params.MultiAgentMainName,
	}

	if elizaOK && toolsOK {
		result.Status = StatusSuccess
		result.Eliza = rawBody(elizaResp.Body)
		result.Tools = rawBody(toolsResp.Body)
		return result, nil
	}

	result.Status = StatusPartialFailure
	if !elizaOK {
		result.Failed = append(result.Failed, "eliza")
		result.Eliza = failureDetail(elizaResp, elizaErr)
	}
	if !toolsOK {
		result.Failed = append(result.Failed, "tools")
		result.Tools = failureDetail(toolsResp, toolsErr)
	}
	return result, nil
}

func failureDetail(resp *upstream.Response, err error) json.RawMessage {
	if err != nil {
		detail, _ := json.Marshal(map[string]string{"error": err.Error()})
		return detail
	}
	return rawBody(resp.Body)
}

// rawBody embeds an upstream body into the result. A body that is not
// valid JSON (a plain-text error page, say) is wrapped as a JSON string
// so the result still marshals and the text reaches the caller.
func rawBody(body []byte) json.RawMessage {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	wrapped, _ := json.Marshal(string(body))
	return wrapped
}
