package retriever

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// topK is how many past turns the augmentation keeps.
const topK = 4

// placeholderDoc seeds the index so it is never empty. It is ranked like
// any other entry but never emitted in the augmentation text.
const placeholderDoc = "hello"

// Retriever builds an ephemeral semantic index over a bounded history on
// every call. There is no persistence or incremental update; the history
// cap keeps the per-call embedding cost small.
type Retriever struct {
	engine EmbeddingEngine
}

// New creates a retriever over the given embedding engine.
func New(engine EmbeddingEngine) *Retriever {
	return &Retriever{engine: engine}
}

type scoredEntry struct {
	text  string
	score float64
}

// Retrieve returns up to four history entries most similar to the query,
// verbatim, joined by blank-line separators. An empty history yields an
// empty string.
func (r *Retriever) Retrieve(ctx context.Context, query string, history []string) (string, error) {
	docs := make([]string, 0, len(history)+1)
	docs = append(docs, placeholderDoc)
	docs = append(docs, history...)

	docVectors, err := r.engine.EmbedBatch(ctx, docs)
	if err != nil {
		return "", fmt.Errorf("failed to embed history: %w", err)
	}
	if len(docVectors) != len(docs) {
		return "", fmt.Errorf("embedding count mismatch: got %d for %d texts", len(docVectors), len(docs))
	}

	queryVector, err := r.engine.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to embed query: %w", err)
	}

	// Index 0 is the placeholder; only real history entries are scored
	// for output.
	scored := make([]scoredEntry, 0, len(history))
	for i, entry := range history {
		scored = append(scored, scoredEntry{
			text:  entry,
			score: CosineSimilarity(queryVector, docVectors[i+1]),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	limit := topK
	if len(scored) < limit {
		limit = len(scored)
	}

	texts := make([]string, 0, limit)
	for _, entry := range scored[:limit] {
		texts = append(texts, entry.text)
	}
	return strings.Join(texts, "\n\n\n"), nil
}
