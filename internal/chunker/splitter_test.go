package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astromind/internal/domain"
)

func TestSplitChunksPassThrough(t *testing.T) {
	chunks := []domain.ContentChunk{
		{EntityName: "Sidewinder", RawText: "Short text."},
		{EntityName: "Cobra", RawText: strings.Repeat("a", MaxChunkSize)},
	}
	out := SplitChunks(chunks)
	require.Len(t, out, 2)
	assert.Equal(t, chunks[0], out[0])
	assert.Equal(t, chunks[1], out[1])
}

func TestSplitChunksOversized(t *testing.T) {
	sentence := strings.Repeat("b", 400)
	raw := strings.Join([]string{sentence, sentence, sentence, sentence, sentence}, ". ")
	chunks := []domain.ContentChunk{{
		EntityType:  "ship",
		EntityName:  "Anaconda",
		SectionType: domain.SectionOverview,
		Headers:     []string{"Overview"},
		RawText:     raw,
	}}

	out := SplitChunks(chunks)
	require.Greater(t, len(out), 1)
	for _, frag := range out {
		assert.LessOrEqual(t, len(frag.RawText), MaxChunkSize+len(". "))
		assert.NotEmpty(t, frag.RawText)
		assert.Equal(t, "ship", frag.EntityType)
		assert.Equal(t, "Anaconda", frag.EntityName)
		assert.Equal(t, domain.SectionOverview, frag.SectionType)
		assert.Equal(t, []string{"Overview"}, frag.Headers)
	}
}

func TestSplitChunksReassembles(t *testing.T) {
	var sentences []string
	for i := 0; i < 12; i++ {
		sentences = append(sentences, strings.Repeat("c", 300))
	}
	raw := strings.Join(sentences, ". ")
	out := SplitChunks([]domain.ContentChunk{{RawText: raw}})

	var parts []string
	for _, frag := range out {
		parts = append(parts, frag.RawText)
	}
	assert.Equal(t, raw, strings.Join(parts, ". "))
}

func TestSplitChunksGiantFirstSentence(t *testing.T) {
	// A single sentence over the limit must not produce an empty leading
	// fragment.
	raw := strings.Repeat("d", MaxChunkSize+100) + ". tail"
	out := SplitChunks([]domain.ContentChunk{{RawText: raw}})
	require.NotEmpty(t, out)
	for _, frag := range out {
		assert.NotEmpty(t, frag.RawText)
	}
}

func TestSplitChunksTrailingTerminator(t *testing.T) {
	// A terminator at the very end yields an empty trailing unit from the
	// sentence split; the final flush must not emit it as a fragment.
	raw := strings.Repeat("e", MaxChunkSize+10) + ". "
	out := SplitChunks([]domain.ContentChunk{{RawText: raw}})
	require.NotEmpty(t, out)
	for _, frag := range out {
		assert.NotEmpty(t, frag.RawText)
	}
}

func TestSplitChunksPreservesOrder(t *testing.T) {
	big := strings.Join([]string{
		"first " + strings.Repeat("x", MaxChunkSize),
		"second",
	}, ". ")
	chunks := []domain.ContentChunk{
		{EntityName: "A", RawText: "before"},
		{EntityName: "B", RawText: big},
		{EntityName: "C", RawText: "after"},
	}
	out := SplitChunks(chunks)
	require.GreaterOrEqual(t, len(out), 4)
	assert.Equal(t, "A", out[0].EntityName)
	assert.Equal(t, "C", out[len(out)-1].EntityName)
	for _, frag := range out[1 : len(out)-1] {
		assert.Equal(t, "B", frag.EntityName)
	}
}
