// Package memory is an in-memory vector store using brute-force cosine
// similarity. It backs tests and offline runs.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"astromind/internal/domain"
)

type collection struct {
	dimension int
	chunks    []domain.ContentChunk
	vectors   [][]float32
}

// Storage holds named collections guarded by one lock.
type Storage struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// NewStorage creates an empty in-memory store.
func NewStorage() *Storage {
	return &Storage{collections: make(map[string]*collection)}
}

// InitCollection creates or resets a collection with the given dimension.
func (s *Storage) InitCollection(ctx context.Context, name string, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[name] = &collection{dimension: dimension}
	return nil
}

// HasCollection reports whether a collection exists.
func (s *Storage) HasCollection(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.collections[name]
	return ok, nil
}

// DropCollection removes a collection. Dropping a missing collection is
// not an error.
func (s *Storage) DropCollection(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, name)
	return nil
}

// Add appends chunks and their vectors to a collection.
func (s *Storage) Add(ctx context.Context, name string, chunks []domain.ContentChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("unknown collection %q", name)
	}
	for _, v := range vectors {
		if len(v) != coll.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	coll.chunks = append(coll.chunks, chunks...)
	coll.vectors = append(coll.vectors, vectors...)
	return nil
}

// Search returns the topK most similar chunks. The entity-name filter is
// soft: when no stored point matches the hint, the search degrades to the
// whole collection instead of returning nothing.
func (s *Storage) Search(ctx context.Context, name string, vector []float32, topK int, filter *domain.Filter) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	coll, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", name)
	}
	if topK <= 0 {
		topK = 5
	}

	candidates := make([]int, 0, len(coll.chunks))
	if filter != nil && filter.EntityName != "" {
		for i := range coll.chunks {
			if coll.chunks[i].EntityName == filter.EntityName {
				candidates = append(candidates, i)
			}
		}
	}
	if len(candidates) == 0 {
		for i := range coll.chunks {
			candidates = append(candidates, i)
		}
	}

	// Vectors are assumed L2-normalized, so the dot product is the
	// cosine similarity.
	scores := make([]float32, len(candidates))
	for i, idx := range candidates {
		scores[i] = dot(coll.vectors[idx], vector)
	}
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	if topK > len(order) {
		topK = len(order)
	}
	results := make([]domain.SearchResult, 0, topK)
	for i := 0; i < topK; i++ {
		j := order[i]
		results = append(results, domain.SearchResult{Chunk: coll.chunks[candidates[j]], Score: scores[j]})
	}
	return results, nil
}

// Close releases nothing; the store lives and dies with the process.
func (s *Storage) Close() error { return nil }

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
