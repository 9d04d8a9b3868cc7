package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "hashing", cfg.Embedder.Type)
	assert.Equal(t, "memory", cfg.VectorStore.Type)
	assert.Equal(t, 4, cfg.Retrieval.TopK)
	assert.Equal(t, "dataset", cfg.Dataset.Root)
	assert.False(t, cfg.Ingest.Force)
}

func TestLoadIngestForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
ingest:
  force: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Ingest.Force)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
embedder:
  type: openai
  openai:
    model: ""
vector_store:
  type: qdrant
  qdrant:
    url: http://localhost:6333
llm:
  model: mistralai/mistral-small
retrieval:
  top_k: 8
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Embedder.OpenAI.BaseURL)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.OpenAI.APIKeyEnv)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedder.OpenAI.Model)
	assert.Equal(t, 32, cfg.Embedder.OpenAI.BatchSize)
	assert.Equal(t, "http://localhost:6333", cfg.VectorStore.Qdrant.URL)
	assert.Equal(t, "mistralai/mistral-small", cfg.LLM.Model)
	assert.Equal(t, "OPENROUTER_API_KEY", cfg.LLM.APIKeyEnv)
	assert.Equal(t, 8, cfg.Retrieval.TopK)
}

func TestDatasetDir(t *testing.T) {
	d := DatasetConfig{Root: "data", Weapons: "custom/weapons"}
	assert.Equal(t, filepath.Join("data", "ship"), d.Dir("ship"))
	assert.Equal(t, "custom/weapons", d.Dir("weapon"))
	assert.Equal(t, filepath.Join("data", "engineering"), d.Dir("engineering"))
}
