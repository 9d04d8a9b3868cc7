package domain

import "context"

// Embedder maps text to a fixed-dimension numeric vector, single or batched.
// A given instance must return vectors of one dimension across calls.
type Embedder interface {
	Name() string
	// Dimension reports the vector width this embedder produces. Remote
	// implementations may resolve it lazily with a probe call.
	Dimension(ctx context.Context) (int, error)
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedDocument(ctx context.Context, texts []string) ([][]float32, error)
}

// Filter narrows a similarity search by chunk metadata. How strictly the
// entity-name match is applied is backend-defined: Qdrant treats it as a
// "should" clause, Milvus as a hard expression, and a backend without
// filter support may ignore it entirely.
type Filter struct {
	EntityName string
}

// VectorStore is a collection-oriented store supporting upsert-by-vector
// and cosine similarity search with optional metadata filtering.
//
// Ordering among equal scores is backend-native and not normalized.
type VectorStore interface {
	InitCollection(ctx context.Context, name string, dimension int) error
	HasCollection(ctx context.Context, name string) (bool, error)
	DropCollection(ctx context.Context, name string) error
	Add(ctx context.Context, name string, chunks []ContentChunk, vectors [][]float32) error
	Search(ctx context.Context, name string, vector []float32, topK int, filter *Filter) ([]SearchResult, error)
	Close() error
}

// LLM is the language-model completion capability consumed by the answer
// service, never by the pipeline or retrieval core.
type LLM interface {
	Ask(ctx context.Context, contextSnippets []string, query string) (string, error)
}
