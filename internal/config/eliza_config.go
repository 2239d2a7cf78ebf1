package config

import (
	"os"
)

// ElizaConfig contains Eliza service configuration
type ElizaConfig struct {
	Name    string            `json:"name"`
	BaseURL string            `json:"base_url"`
	Routes  map[string]string `json:"routes"`
}

// GetElizaConfig returns Eliza configuration
func GetElizaConfig() *ElizaConfig {
	return &ElizaConfig{
		Name:    "Eliza",
		BaseURL: os.Getenv("ELIZA_URL"),
		Routes: map[string]string{
			// Agent lifecycle
			"create": "/create",

			// Conversation - {agent_id} is replaced per request
			"message": "/{agent_id}/message",
		},
	}
}
