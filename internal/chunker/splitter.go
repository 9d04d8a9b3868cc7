package chunker

import (
	"strings"

	"astromind/internal/domain"
)

const (
	// MaxChunkSize is the hard ceiling on a chunk's raw text length.
	MaxChunkSize = 1500
	// MinChunkSize is an advisory floor; the final fragment of a split
	// may come in under it.
	MinChunkSize = 300
)

// SplitChunks re-splits oversized chunks at sentence boundaries. Chunks at
// or under MaxChunkSize pass through unchanged; oversized chunks become
// contiguous fragments carrying the source chunk's metadata. The input is
// never mutated and output order equals input order.
func SplitChunks(chunks []domain.ContentChunk) []domain.ContentChunk {
	var out []domain.ContentChunk
	for _, chunk := range chunks {
		if len(chunk.RawText) <= MaxChunkSize {
			out = append(out, chunk)
			continue
		}
		sentences := strings.Split(chunk.RawText, ". ")
		var current []string
		size := 0
		flush := func() {
			text := strings.Join(current, ". ")
			if text == "" {
				current = nil
				size = 0
				return
			}
			fragment := chunk
			fragment.RawText = text
			out = append(out, fragment)
			current = nil
			size = 0
		}
		for _, sentence := range sentences {
			// "would exceed": a sentence landing exactly on the limit
			// stays in the current fragment.
			if size+len(sentence) > MaxChunkSize {
				flush()
			}
			current = append(current, sentence)
			size += len(sentence)
		}
		flush()
	}
	return out
}
