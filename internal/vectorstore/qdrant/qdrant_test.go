package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astromind/internal/domain"
)

func TestInitCollection(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/collections/ship", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewStorage(Config{URL: srv.URL})
	require.NoError(t, s.InitCollection(context.Background(), "ship", 384))

	vectors, ok := gotBody["vectors"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(384), vectors["size"])
	assert.Equal(t, "Cosine", vectors["distance"])
}

func TestHasCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/collections/ship" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewStorage(Config{URL: srv.URL})
	ok, err := s.HasCollection(context.Background(), "ship")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.HasCollection(context.Background(), "weapon")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddSendsPayload(t *testing.T) {
	var gotBody struct {
		Points []struct {
			ID      string         `json:"id"`
			Vector  []float32      `json:"vector"`
			Payload map[string]any `json:"payload"`
		} `json:"points"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/ship/points", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("wait"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewStorage(Config{URL: srv.URL})
	chunks := []domain.ContentChunk{{
		EntityType:  "ship",
		EntityName:  "Adder",
		SectionType: domain.SectionOverview,
		Headers:     []string{"Overview"},
		RawText:     "A small freighter.",
	}}
	require.NoError(t, s.Add(context.Background(), "ship", chunks, [][]float32{{0.1, 0.2}}))

	require.Len(t, gotBody.Points, 1)
	p := gotBody.Points[0]
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, []float32{0.1, 0.2}, p.Vector)
	assert.Equal(t, "Adder", p.Payload["entity_name"])
	assert.Equal(t, "A small freighter.", p.Payload["text"])
}

func TestSearchFilterAndDecode(t *testing.T) {
	var gotReq map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/ship/points/search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		resp := map[string]any{
			"result": []map[string]any{
				{
					"score": 0.91,
					"payload": map[string]any{
						"entity_type":  "ship",
						"entity_name":  "Adder",
						"section_type": "overview",
						"headers":      []string{"Overview"},
						"text":         "A small freighter.",
					},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	s := NewStorage(Config{URL: srv.URL})
	results, err := s.Search(context.Background(), "ship", []float32{1, 0}, 4, &domain.Filter{EntityName: "Adder"})
	require.NoError(t, err)

	filter, ok := gotReq["filter"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, filter, "should")

	require.Len(t, results, 1)
	assert.InDelta(t, 0.91, float64(results[0].Score), 1e-6)
	assert.Equal(t, "Adder", results[0].Chunk.EntityName)
	assert.Equal(t, []string{"Overview"}, results[0].Chunk.Headers)
	assert.Equal(t, "A small freighter.", results[0].Chunk.RawText)
}

func TestSearchWithoutFilterOmitsIt(t *testing.T) {
	var gotReq map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(map[string]any{"result": []any{}})
	}))
	defer srv.Close()

	s := NewStorage(Config{URL: srv.URL})
	_, err := s.Search(context.Background(), "ship", []float32{1, 0}, 4, nil)
	require.NoError(t, err)
	assert.NotContains(t, gotReq, "filter")
}
