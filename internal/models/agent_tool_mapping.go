package models

import (
	"github.com/metaagentlabs/agent-gateway-backend/internal/store"
)

// HistoryLimit caps the conversation history kept on a mapping. When a
// new transcript line would exceed it, the oldest line is evicted.
const HistoryLimit = 20

// AgentToolMapping links a multi-agent name to the downstream identifiers
// returned by the Eliza and Tools services, along with the rolling
// conversation history used for prompt augmentation.
type AgentToolMapping struct {
	MultiAgentMainName string   `json:"multi_agent_main_name"`
	ElizaAgentID       string   `json:"agent_id"`
	ToolsAgentID       string   `json:"tools_agent_id"`
	History            []string `json:"history"`
}

// Item converts the mapping to its stored attribute map.
func (m *AgentToolMapping) Item() store.Item {
	return store.Item{
		"multi_agent_main_name": store.String(m.MultiAgentMainName),
		"agent_id":              store.String(m.ElizaAgentID),
		"tools_agent_id":        store.String(m.ToolsAgentID),
		"history":               store.StringList(m.History),
	}
}

// AgentToolMappingFromItem parses a stored attribute map into a mapping.
func AgentToolMappingFromItem(item store.Item) *AgentToolMapping {
	return &AgentToolMapping{
		MultiAgentMainName: item["multi_agent_main_name"].S,
		ElizaAgentID:       item["agent_id"].S,
		ToolsAgentID:       item["tools_agent_id"].S,
		History:            item["history"].SS,
	}
}

// AppendHistory appends a transcript line, evicting the oldest line when
// the history exceeds HistoryLimit.
func (m *AgentToolMapping) AppendHistory(entry string) {
	m.History = append(m.History, entry)
	if len(m.History) > HistoryLimit {
		m.History = m.History[len(m.History)-HistoryLimit:]
	}
}
