package models

import "encoding/json"

// CreateAPIKeyRequest is the body for POST /create_api_key.
type CreateAPIKeyRequest struct {
	UserID *int `json:"user_id"`
}

// CreateSessionRequest is the body for POST /create_session. The
// character file is passed through to the Eliza service verbatim; env
// keys are forwarded to the Tools service as its api_keys payload.
type CreateSessionRequest struct {
	CharacterFile      json.RawMessage   `json:"character_file"`
	APIKey             string            `json:"api_key"`
	EnvJSON            map[string]string `json:"env_json"`
	MultiAgentMainName string            `json:"multi_agent_main_name"`
	MultipleAgentsName string            `json:"multiple_agents_name"`
}

// AgentInfoRequest is the body for POST /agent_info.
type AgentInfoRequest struct {
	APIKey string `json:"api_key"`
	UserID *int   `json:"user_id"`
}

// QueryRequest is the body for POST /query.
type QueryRequest struct {
	Query        string `json:"query"`
	AgentName    string `json:"agent_name"`
	ExtraToolKey string `json:"extra_tool_key"`
}

// AgentDetail pairs a multi-agent name with its sub-agent list.
type AgentDetail struct {
	MainName  string `json:"main_name"`
	AgentList string `json:"agent_list"`
}
