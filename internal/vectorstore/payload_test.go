package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"astromind/internal/domain"
)

func TestChunkFromPayloadHeaderShapes(t *testing.T) {
	// Headers come back as []any after JSON decoding.
	chunk := ChunkFromPayload(map[string]any{
		KeyEntityName: "Adder",
		KeyHeaders:    []any{"Overview", "History"},
	})
	assert.Equal(t, "Adder", chunk.EntityName)
	assert.Equal(t, []string{"Overview", "History"}, chunk.Headers)

	chunk = ChunkFromPayload(map[string]any{KeyHeaders: []string{"Overview"}})
	assert.Equal(t, []string{"Overview"}, chunk.Headers)
}

func TestPayloadRoundTrip(t *testing.T) {
	in := domain.ContentChunk{
		EntityType:  "ship",
		EntityName:  "Adder",
		SectionType: domain.SectionOverview,
		Headers:     []string{"Overview"},
		RawText:     "A small freighter.",
		Source:      "<p>A small freighter.</p>",
		Infobox:     map[string]any{"cost": "87,810 CR"},
	}
	out := ChunkFromPayload(PayloadFromChunk(in))
	assert.Equal(t, in, out)
}
