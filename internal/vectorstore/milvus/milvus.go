// Package milvus adapts Milvus as a vector store backend using the
// client/v2 API. Each payload field is a real column so the entity-name
// filter runs server-side.
package milvus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"

	"astromind/internal/domain"
	"astromind/internal/logger"
	"astromind/internal/vectorstore"
)

const (
	fieldID     = "id"
	fieldVector = "vector"

	idMaxLength   = "64"
	nameMaxLength = "512"
	textMaxLength = "65535"
	kindMaxLength = "64"
)

type Storage struct {
	client *milvusclient.Client
}

type Config struct {
	Address string
}

// NewStorage connects to a Milvus instance.
func NewStorage(ctx context.Context, cfg Config) (*Storage, error) {
	if cfg.Address == "" {
		return nil, errors.New("milvus address is required")
	}
	client, err := milvusclient.New(ctx, &milvusclient.ClientConfig{Address: cfg.Address})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus at %s: %w", cfg.Address, err)
	}
	return &Storage{client: client}, nil
}

// InitCollection creates the collection with an HNSW cosine index and
// loads it into memory. Existing collections are left untouched.
func (s *Storage) InitCollection(ctx context.Context, name string, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	exists, err := s.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(name))
	if err != nil {
		return fmt.Errorf("failed to check if collection exists: %w", err)
	}
	if !exists {
		schema := collectionSchema(name, dimension)
		if err := s.client.CreateCollection(ctx, milvusclient.NewCreateCollectionOption(name, schema)); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
		idx := index.NewHNSWIndex(entity.COSINE, 16, 200)
		if _, err := s.client.CreateIndex(ctx, milvusclient.NewCreateIndexOption(name, fieldVector, idx)); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", name, err)
		}
		logger.Info("Created milvus collection %s (dim=%d)", name, dimension)
	}
	if _, err := s.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(name)); err != nil {
		return fmt.Errorf("failed to load collection %s: %w", name, err)
	}
	return nil
}

// collectionSchema describes the chunk collection. Text and source are
// sized alike: source carries the section's raw HTML markup, which can run
// as long as the plain text.
func collectionSchema(name string, dimension int) *entity.Schema {
	return &entity.Schema{
		CollectionName: name,
		Description:    "Embedded wiki content chunks",
		Fields: []*entity.Field{
			{
				Name:       fieldID,
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{"max_length": idMaxLength},
			},
			{
				Name:       vectorstore.KeyEntityType,
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": kindMaxLength},
			},
			{
				Name:       vectorstore.KeyEntityName,
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": nameMaxLength},
			},
			{
				Name:       vectorstore.KeySectionType,
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": kindMaxLength},
			},
			{
				Name:     vectorstore.KeyHeaders,
				DataType: entity.FieldTypeJSON,
			},
			{
				Name:       vectorstore.KeyText,
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": textMaxLength},
			},
			{
				Name:       vectorstore.KeySource,
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": textMaxLength},
			},
			{
				Name:     vectorstore.KeyInfobox,
				DataType: entity.FieldTypeJSON,
			},
			{
				Name:       fieldVector,
				DataType:   entity.FieldTypeFloatVector,
				TypeParams: map[string]string{"dim": fmt.Sprintf("%d", dimension)},
			},
		},
	}
}

func (s *Storage) HasCollection(ctx context.Context, name string) (bool, error) {
	exists, err := s.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(name))
	if err != nil {
		return false, fmt.Errorf("failed to check if collection exists: %w", err)
	}
	return exists, nil
}

func (s *Storage) DropCollection(ctx context.Context, name string) error {
	if err := s.client.DropCollection(ctx, milvusclient.NewDropCollectionOption(name)); err != nil {
		return fmt.Errorf("failed to drop collection %s: %w", name, err)
	}
	return nil
}

func (s *Storage) Add(ctx context.Context, name string, chunks []domain.ContentChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	if len(chunks) == 0 {
		return nil
	}
	dim := len(vectors[0])

	ids := make([]string, len(chunks))
	entityTypes := make([]string, len(chunks))
	entityNames := make([]string, len(chunks))
	sectionTypes := make([]string, len(chunks))
	headers := make([][]byte, len(chunks))
	texts := make([]string, len(chunks))
	sources := make([]string, len(chunks))
	infoboxes := make([][]byte, len(chunks))
	for i, c := range chunks {
		ids[i] = uuid.NewString()
		entityTypes[i] = c.EntityType
		entityNames[i] = c.EntityName
		sectionTypes[i] = c.SectionType
		headerBytes, err := json.Marshal(c.Headers)
		if err != nil {
			return fmt.Errorf("failed to marshal headers: %w", err)
		}
		headers[i] = headerBytes
		texts[i] = c.RawText
		sources[i] = c.Source
		infobox := c.Infobox
		if infobox == nil {
			infobox = map[string]any{}
		}
		infoboxBytes, err := json.Marshal(infobox)
		if err != nil {
			return fmt.Errorf("failed to marshal infobox: %w", err)
		}
		infoboxes[i] = infoboxBytes
	}

	insertOpt := milvusclient.NewColumnBasedInsertOption(name,
		column.NewColumnVarChar(fieldID, ids),
		column.NewColumnVarChar(vectorstore.KeyEntityType, entityTypes),
		column.NewColumnVarChar(vectorstore.KeyEntityName, entityNames),
		column.NewColumnVarChar(vectorstore.KeySectionType, sectionTypes),
		column.NewColumnJSONBytes(vectorstore.KeyHeaders, headers),
		column.NewColumnVarChar(vectorstore.KeyText, texts),
		column.NewColumnVarChar(vectorstore.KeySource, sources),
		column.NewColumnJSONBytes(vectorstore.KeyInfobox, infoboxes),
		column.NewColumnFloatVector(fieldVector, dim, vectors),
	)
	if _, err := s.client.Insert(ctx, insertOpt); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", name, err)
	}
	return nil
}

// Search runs an ANN search with an optional strict entity-name filter.
// Milvus filter expressions are exact, so an unmatched hint returns no
// rows rather than degrading to the whole collection.
func (s *Storage) Search(ctx context.Context, name string, vector []float32, topK int, filter *domain.Filter) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}
	searchOpt := milvusclient.NewSearchOption(name, topK, []entity.Vector{entity.FloatVector(vector)}).
		WithANNSField(fieldVector).
		WithOutputFields(
			vectorstore.KeyEntityType,
			vectorstore.KeyEntityName,
			vectorstore.KeySectionType,
			vectorstore.KeyHeaders,
			vectorstore.KeyText,
			vectorstore.KeySource,
			vectorstore.KeyInfobox,
		)
	if filter != nil && filter.EntityName != "" {
		searchOpt = searchOpt.WithFilter(fmt.Sprintf(`%s == "%s"`, vectorstore.KeyEntityName, escapeExpr(filter.EntityName)))
	}

	resultSets, err := s.client.Search(ctx, searchOpt)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", name, err)
	}
	if len(resultSets) == 0 {
		return []domain.SearchResult{}, nil
	}

	rs := resultSets[0]
	results := make([]domain.SearchResult, 0, rs.ResultCount)
	for i := 0; i < rs.ResultCount; i++ {
		payload := map[string]any{}
		for _, key := range []string{
			vectorstore.KeyEntityType,
			vectorstore.KeyEntityName,
			vectorstore.KeySectionType,
			vectorstore.KeyText,
			vectorstore.KeySource,
		} {
			col := rs.GetColumn(key)
			if col == nil || i >= col.Len() {
				continue
			}
			v, err := col.GetAsString(i)
			if err != nil {
				logger.Warn("milvus: failed to read field %s: %v", key, err)
				continue
			}
			payload[key] = v
		}
		if col := rs.GetColumn(vectorstore.KeyHeaders); col != nil && i < col.Len() {
			if raw, err := col.GetAsString(i); err == nil {
				var hs []string
				if json.Unmarshal([]byte(raw), &hs) == nil {
					payload[vectorstore.KeyHeaders] = hs
				}
			}
		}
		if col := rs.GetColumn(vectorstore.KeyInfobox); col != nil && i < col.Len() {
			if raw, err := col.GetAsString(i); err == nil {
				var box map[string]any
				if json.Unmarshal([]byte(raw), &box) == nil && len(box) > 0 {
					payload[vectorstore.KeyInfobox] = box
				}
			}
		}
		var score float32
		if i < len(rs.Scores) {
			score = rs.Scores[i]
		}
		results = append(results, domain.SearchResult{
			Chunk: vectorstore.ChunkFromPayload(payload),
			Score: score,
		})
	}
	return results, nil
}

func (s *Storage) Close() error {
	return s.client.Close(context.Background())
}

func escapeExpr(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '"' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
