package config

// EmbeddingConfig contains embedding provider configuration for the
// relevance retriever.
type EmbeddingConfig struct {
	APIKey string `json:"api_key"`
	Model  string `json:"model"`
}

// GetEmbeddingConfig returns embedding configuration
func GetEmbeddingConfig() *EmbeddingConfig {
	return &EmbeddingConfig{
		APIKey: envOr("GEMINI_API_KEY", ""),
		Model:  envOr("EMBEDDING_MODEL", "gemini-embedding-001"),
	}
}
