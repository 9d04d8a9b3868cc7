// Package pipeline drives ingestion: read wiki HTML pages from a
// dataset directory, carve them into section chunks, split oversized
// chunks, embed, and upsert into the vector store.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"astromind/internal/chunker"
	"astromind/internal/domain"
	"astromind/internal/logger"
)

// Pipeline ingests one entity kind into one collection.
type Pipeline struct {
	profile  chunker.Profile
	embedder domain.Embedder
	store    domain.VectorStore

	// Collection is the target collection name; defaults to the
	// profile's entity type.
	Collection string

	// Force drops and rebuilds an existing collection instead of
	// treating it as already ingested.
	Force bool
}

func New(profile chunker.Profile, embedder domain.Embedder, store domain.VectorStore) *Pipeline {
	return &Pipeline{
		profile:    profile,
		embedder:   embedder,
		store:      store,
		Collection: profile.EntityType,
	}
}

// Run ingests every HTML file under dir. A page that fails to parse is
// logged and skipped; embedding or store failures abort the run. When
// the collection already exists and Force is unset, Run is a no-op.
func (p *Pipeline) Run(ctx context.Context, dir string) error {
	exists, err := p.store.HasCollection(ctx, p.Collection)
	if err != nil {
		return fmt.Errorf("failed to check collection %s: %w", p.Collection, err)
	}
	if exists {
		if !p.Force {
			logger.Info("Collection %s already exists, skipping ingestion (use force to rebuild)", p.Collection)
			return nil
		}
		logger.Info("Rebuilding collection %s", p.Collection)
		if err := p.store.DropCollection(ctx, p.Collection); err != nil {
			return fmt.Errorf("failed to drop collection %s: %w", p.Collection, err)
		}
	}

	dimension, err := p.embedder.Dimension(ctx)
	if err != nil {
		return fmt.Errorf("failed to determine embedding dimension: %w", err)
	}
	if err := p.store.InitCollection(ctx, p.Collection, dimension); err != nil {
		return fmt.Errorf("failed to init collection %s: %w", p.Collection, err)
	}

	chunks, err := p.collectChunks(dir)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		logger.Warn("No content chunks extracted from %s", dir)
		return nil
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].RawText
	}
	vectors, err := p.embedder.EmbedDocument(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed %d chunks for %s: %w", len(chunks), p.Collection, err)
	}
	if err := p.store.Add(ctx, p.Collection, chunks, vectors); err != nil {
		return fmt.Errorf("failed to upsert chunks into %s: %w", p.Collection, err)
	}
	logger.Info("Ingested %d chunks into %s", len(chunks), p.Collection)
	return nil
}

func (p *Pipeline) collectChunks(dir string) ([]domain.ContentChunk, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset directory %s: %w", dir, err)
	}

	var all []domain.ContentChunk
	for _, entry := range entries {
		if entry.IsDir() || !isHTMLFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			continue
		}
		chunks, err := chunker.ExtractChunks(string(data), p.profile)
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			continue
		}
		chunks = chunker.SplitChunks(chunks)
		for _, c := range chunks {
			if strings.TrimSpace(c.RawText) == "" {
				continue
			}
			all = append(all, c)
		}
		logger.Debug("Extracted %d chunks from %s", len(chunks), entry.Name())
	}
	return all, nil
}

func isHTMLFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".html" || ext == ".htm"
}
