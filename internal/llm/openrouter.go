// Package llm answers questions through an OpenAI-compatible chat
// completions endpoint such as OpenRouter.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"astromind/internal/logger"
)

const systemPrompt = "You are a helpful assistant answering questions about " +
	"ships, weapons, equipment and engineering upgrades. Answer strictly from " +
	"the provided context. If the context does not contain the answer, say so."

// Client talks to an OpenAI-compatible chat completions API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	keyEnv := cfg.APIKeyEnv
	if keyEnv == "" {
		keyEnv = "OPENROUTER_API_KEY"
	}
	apiKey := os.Getenv(keyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("environment variable %s is not set", keyEnv)
	}
	model := cfg.Model
	if model == "" {
		model = "openai/gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		// LLM responses can take a while.
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// thinkRe strips reasoning blocks some models emit before the answer.
var thinkRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Ask builds a prompt from the context snippets and the question and
// returns the model's answer.
func (c *Client) Ask(ctx context.Context, contextSnippets []string, query string) (string, error) {
	prompt := buildPrompt(contextSnippets, query)
	reqBody := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	logger.Debug("Asking %s with %d context snippets", c.model, len(contextSnippets))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("chat completion failed with status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse chat completion response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("chat completion error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	answer := parsed.Choices[0].Message.Content
	answer = thinkRe.ReplaceAllString(answer, "")
	return strings.TrimSpace(answer), nil
}

func buildPrompt(contextSnippets []string, query string) string {
	var b strings.Builder
	b.WriteString("<context>\n")
	for _, s := range contextSnippets {
		b.WriteString(strings.TrimSpace(s))
		b.WriteString("\n\n")
	}
	b.WriteString("</context>\n\n<question>\n")
	b.WriteString(query)
	b.WriteString("\n</question>")
	return b.String()
}
