package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/metaagentlabs/agent-gateway-backend/internal/models"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/routing"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/upstream"
)

// promptTemplate wraps the current question and the retrieved context
// into the prompt sent downstream.
const promptTemplate = "Answer the user's current question. Earlier turns of this conversation " +
	"are included below; use them only when they are relevant.\n\nQuestion: %s\n\n%s"

// messageUser is the user field sent with Eliza conversation turns.
const messageUser = "user"

// QueryAgent runs the query flow: mapping lookup, prompt augmentation,
// routing on the raw query, dispatch, then history append with eviction.
// The downstream response is returned as-is; a non-200 is not an error
// here, the caller decides how to surface it.
func (s *Service) QueryAgent(ctx context.Context, query, agentName, extraToolKey string) (*upstream.Response, error) {
	m, err := s.mappings.Get(agentName)
	if err != nil {
		return nil, err
	}

	contextText, err := s.retriever.Retrieve(ctx, query, m.History)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(promptTemplate, query, contextText)

	// The routing decision is made on the raw query, never the
	// augmented prompt.
	destination := routing.Route(query)

	var resp *upstream.Response
	switch destination {
	case routing.DestinationTools:
		resp, err = s.tools.Query(ctx, m.ToolsAgentID, prompt, extraToolKey)
	default:
		resp, err = s.eliza.Message(ctx, m.ElizaAgentID, prompt, messageUser)
	}
	if err != nil {
		return nil, err
	}

	if resp.OK() {
		s.recordExchange(m, agentName, query, resp.Body)
	}

	return resp, nil
}

// recordExchange appends the transcript line and rewrites the stored
// history. A persistence failure does not fail the query; the answer was
// already produced.
func (s *Service) recordExchange(m *models.AgentToolMapping, agentName, query string, body []byte) {
	answer := extractAnswer(body)
	m.AppendHistory(fmt.Sprintf("User: %s\nAI: %s", query, answer))
	if err := s.mappings.UpdateHistory(agentName, m.History); err != nil {
		logrus.WithField("multi_agent_main_name", agentName).
			Warnf("Failed to persist conversation history: %v", err)
	}
}

// extractAnswer pulls the answer text out of a downstream response body.
// Eliza answers as a list of messages with text fields; Tools answers as
// a single object. Anything unrecognized is kept verbatim.
func extractAnswer(body []byte) string {
	var asList []map[string]interface{}
	if err := json.Unmarshal(body, &asList); err == nil {
		var texts []string
		for _, msg := range asList {
			if text, ok := msg["text"].(string); ok {
				texts = append(texts, text)
			}
		}
		if len(texts) > 0 {
			return strings.Join(texts, "\n")
		}
	}

	var asObject map[string]interface{}
	if err := json.Unmarshal(body, &asObject); err == nil {
		for _, field := range []string{"text", "response", "answer"} {
			if text, ok := asObject[field].(string); ok {
				return text
			}
		}
	}

	return string(body)
}
