// Package vectorstore defines the shared payload layout used by every
// vector store backend. The backends themselves live in sub-packages and
// implement domain.VectorStore.
package vectorstore

import (
	"astromind/internal/domain"
)

// Payload field names, shared across backends so that collections written
// by one backend read back identically through another.
const (
	KeyEntityType  = "entity_type"
	KeyEntityName  = "entity_name"
	KeySectionType = "section_type"
	KeyHeaders     = "headers"
	KeyText        = "text"
	KeySource      = "source"
	KeyInfobox     = "infobox"
)

// PayloadFromChunk renders a chunk as a stored point payload.
func PayloadFromChunk(c domain.ContentChunk) map[string]any {
	payload := map[string]any{
		KeyEntityType:  c.EntityType,
		KeyEntityName:  c.EntityName,
		KeySectionType: c.SectionType,
		KeyHeaders:     c.Headers,
		KeyText:        c.RawText,
		KeySource:      c.Source,
	}
	if c.Infobox != nil {
		payload[KeyInfobox] = c.Infobox
	}
	return payload
}

// ChunkFromPayload reconstructs a chunk from a stored point payload.
// Unknown or missing fields are left zero.
func ChunkFromPayload(payload map[string]any) domain.ContentChunk {
	chunk := domain.ContentChunk{}
	if v, ok := payload[KeyEntityType].(string); ok {
		chunk.EntityType = v
	}
	if v, ok := payload[KeyEntityName].(string); ok {
		chunk.EntityName = v
	}
	if v, ok := payload[KeySectionType].(string); ok {
		chunk.SectionType = v
	}
	if v, ok := payload[KeyText].(string); ok {
		chunk.RawText = v
	}
	if v, ok := payload[KeySource].(string); ok {
		chunk.Source = v
	}
	switch headers := payload[KeyHeaders].(type) {
	case []string:
		chunk.Headers = headers
	case []any:
		for _, h := range headers {
			if s, ok := h.(string); ok {
				chunk.Headers = append(chunk.Headers, s)
			}
		}
	}
	if v, ok := payload[KeyInfobox].(map[string]any); ok {
		chunk.Infobox = v
	}
	return chunk
}
