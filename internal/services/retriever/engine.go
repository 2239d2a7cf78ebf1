// Package retriever ranks past conversation turns by semantic similarity
// to a new query and assembles the prompt augmentation text.
package retriever

import (
	"context"
	"math"
)

// EmbeddingEngine generates vector embeddings for text.
type EmbeddingEngine interface {
	// Embed generates an embedding for a single text
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// CosineSimilarity calculates the cosine similarity between two vectors.
// Returns 0 for mismatched dimensions or zero-magnitude vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
