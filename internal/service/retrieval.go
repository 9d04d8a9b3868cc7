package service

import (
	"context"
	"fmt"
	"sort"

	"astromind/internal/domain"
	"astromind/internal/logger"
)

// DefaultTopK bounds how many chunks feed the answer prompt.
const DefaultTopK = 4

// Retriever embeds a query and searches one or more collections,
// merging results by similarity.
type Retriever struct {
	embedder    domain.Embedder
	store       domain.VectorStore
	collections []string
	topK        int
}

func NewRetriever(embedder domain.Embedder, store domain.VectorStore, collections []string, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{embedder: embedder, store: store, collections: collections, topK: topK}
}

// GetContext returns the text of the most relevant chunks for a query.
// entityHint narrows the search to a single entity when the backend
// supports it; an unmatched hint is not an error.
func (r *Retriever) GetContext(ctx context.Context, query, entityHint string) ([]string, error) {
	results, err := r.Search(ctx, query, entityHint)
	if err != nil {
		return nil, err
	}
	snippets := make([]string, 0, len(results))
	for _, res := range results {
		snippets = append(snippets, res.Chunk.RawText)
	}
	return snippets, nil
}

// Search returns the merged topK results across all collections.
func (r *Retriever) Search(ctx context.Context, query, entityHint string) ([]domain.SearchResult, error) {
	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	var filter *domain.Filter
	if entityHint != "" {
		filter = &domain.Filter{EntityName: entityHint}
	}

	var merged []domain.SearchResult
	for _, coll := range r.collections {
		results, err := r.store.Search(ctx, coll, vector, r.topK, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to search collection %s: %w", coll, err)
		}
		logger.Debug("Collection %s returned %d results", coll, len(results))
		merged = append(merged, results...)
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Score > merged[j].Score })
	if len(merged) > r.topK {
		merged = merged[:r.topK]
	}
	return merged, nil
}
