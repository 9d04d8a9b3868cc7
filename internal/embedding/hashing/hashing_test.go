package hashing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDimensionFixed(t *testing.T) {
	e := NewEmbedder(128)
	dim, err := e.Dimension(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 128, dim)

	e = NewEmbedder(0)
	dim, err = e.Dimension(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultDimension, dim)
}

func TestEmbedTextUnitNorm(t *testing.T) {
	e := NewEmbedder(64)
	vec, err := e.EmbedText(context.Background(), "The Sidewinder carries two small hardpoints.")
	require.NoError(t, err)
	require.Len(t, vec, 64)

	norm := 0.0
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestEmbedTextDeterministic(t *testing.T) {
	e := NewEmbedder(64)
	a, err := e.EmbedText(context.Background(), "dirty drive tuning")
	require.NoError(t, err)
	b, err := e.EmbedText(context.Background(), "dirty drive tuning")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEmbedTextNoTokens(t *testing.T) {
	e := NewEmbedder(32)
	vec, err := e.EmbedText(context.Background(), "123 456 !!!")
	require.NoError(t, err)
	require.Len(t, vec, 32)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestEmbedDocument(t *testing.T) {
	e := NewEmbedder(32)
	vectors, err := e.EmbedDocument(context.Background(), []string{"beam laser", "pulse laser", "cannon"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	for _, vec := range vectors {
		assert.Len(t, vec, 32)
	}
}
