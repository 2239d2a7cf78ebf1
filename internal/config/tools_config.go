package config

import (
	"os"
)

// ToolsConfig contains Tools service configuration
type ToolsConfig struct {
	Name    string            `json:"name"`
	BaseURL string            `json:"base_url"`
	Routes  map[string]string `json:"routes"`
}

// GetToolsConfig returns Tools configuration
func GetToolsConfig() *ToolsConfig {
	return &ToolsConfig{
		Name:    "Tools",
		BaseURL: os.Getenv("TOOLS_URL"),
		Routes: map[string]string{
			// Provisioning
			"set": "/set",

			// Tool queries - {unique_id} is replaced per request
			"query": "/{unique_id}/query",
		},
	}
}
