package config

import (
	"os"
)

// StoreConfig names the logical tables used by the gateway.
type StoreConfig struct {
	APIKeyTable  string `json:"api_key_table"`
	AgentTable   string `json:"agent_table"`
	MappingTable string `json:"mapping_table"`
}

// GetStoreConfig returns table names from the environment, with the
// defaults the services were deployed with.
func GetStoreConfig() *StoreConfig {
	return &StoreConfig{
		APIKeyTable:  envOr("API_TABLE", "api_keys"),
		AgentTable:   envOr("AGENT_TABLE", "agents"),
		MappingTable: envOr("MAPPING_TABLE", "agent_tool_id"),
	}
}

func envOr(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
