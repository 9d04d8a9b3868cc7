package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("TEST_LLM_KEY", "secret")
	c, err := NewClient(Config{BaseURL: srv.URL, APIKeyEnv: "TEST_LLM_KEY", Model: "test-model"})
	require.NoError(t, err)
	return c
}

func TestAskBuildsPromptAndStripsThink(t *testing.T) {
	var gotReq chatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		content := "<think>reasoning\\nsteps</think>\\nThe Adder costs 87,810 CR."
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"` + content + `"}}]}`))
	})

	answer, err := c.Ask(context.Background(), []string{"The Adder costs 87,810 CR."}, "How much does the Adder cost?")
	require.NoError(t, err)
	assert.Equal(t, "The Adder costs 87,810 CR.", answer)

	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	user := gotReq.Messages[1].Content
	assert.Contains(t, user, "<context>")
	assert.Contains(t, user, "The Adder costs 87,810 CR.")
	assert.Contains(t, user, "<question>\nHow much does the Adder cost?")
	assert.Equal(t, "test-model", gotReq.Model)
}

func TestAskReportsAPIErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})
	_, err := c.Ask(context.Background(), nil, "question")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv("EMPTY_LLM_KEY", "")
	_, err := NewClient(Config{APIKeyEnv: "EMPTY_LLM_KEY"})
	assert.Error(t, err)
}
