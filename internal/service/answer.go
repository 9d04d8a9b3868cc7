package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"astromind/internal/domain"
)

// AnswerService turns a question into an answer grounded on retrieved
// wiki chunks.
type AnswerService struct {
	retriever *Retriever
	llm       domain.LLM
}

func NewAnswerService(retriever *Retriever, llm domain.LLM) *AnswerService {
	return &AnswerService{retriever: retriever, llm: llm}
}

// hintRe matches the "@Entity Name: question" prefix syntax.
var hintRe = regexp.MustCompile(`^@([^:]+):\s*(.+)$`)

// ParseHint splits an optional "@Entity Name: question" prefix off a
// raw query. Without the prefix the hint is empty and the query is
// returned unchanged.
func ParseHint(raw string) (hint, query string) {
	raw = strings.TrimSpace(raw)
	if m := hintRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return "", raw
}

// Ask retrieves context for the question and asks the LLM. The raw
// input may carry an "@Entity Name:" hint.
func (a *AnswerService) Ask(ctx context.Context, raw string) (string, error) {
	hint, query := ParseHint(raw)
	if query == "" {
		return "", fmt.Errorf("empty question")
	}
	snippets, err := a.retriever.GetContext(ctx, query, hint)
	if err != nil {
		return "", err
	}
	return a.llm.Ask(ctx, snippets, query)
}
