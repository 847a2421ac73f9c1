package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
)

// mockExtractor returns the bytes as text, or an error for inputs listed in fail.
type mockExtractor struct {
	pages int
	fail  map[string]error
}

func (m *mockExtractor) Extract(_ context.Context, data []byte) (*driven.ExtractResult, error) {
	if err, ok := m.fail[string(data)]; ok {
		return nil, err
	}
	return &driven.ExtractResult{Text: string(data), PageCount: m.pages}, nil
}

func (m *mockExtractor) Name() string { return "mock" }

// mockLLM records prompts and replies with canned output.
type mockLLM struct {
	mu      sync.Mutex
	replies []string
	err     error
	prompts []string
	systems []string
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	m.systems = append(m.systems, opts.System)
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return "ok", nil
	}
	reply := m.replies[0]
	if len(m.replies) > 1 {
		m.replies = m.replies[1:]
	}
	return reply, nil
}

func (m *mockLLM) ModelName() string            { return "mock-model" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockPromptStore serves short templates with the same verb counts as the
// real ones.
type mockPromptStore struct {
	missing bool
}

var mockPrompts = map[string]string{
	driven.PromptLegalSystem:    "SYSTEM",
	driven.PromptLegalAnswer:    "DOCS[%s] Q[%s]",
	driven.PromptLegalReasoning: "WHY Q[%s] A[%s] T[%s]",
	driven.PromptLegalDraft:     "DRAFT type=%s title=%s instr=%s ctx=%s docs=%s",
	driven.PromptLegalValidate:  "REVIEW[%s]",
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.missing {
		return "", errors.New("prompt not found")
	}
	tmpl, ok := mockPrompts[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt: %s", name)
	}
	return tmpl, nil
}

func (m *mockPromptStore) Reload() {}

// mockRetriever returns fixed references and records the last call.
type mockRetriever struct {
	refs      []domain.DocumentReference
	err       error
	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockRetriever) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.DocumentReference, error) {
	m.lastQuery = query
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.refs, nil
}

// mockAIValidator records which validation ran.
type mockAIValidator struct {
	llmCalled   bool
	embedCalled bool
	err         error
}

func (m *mockAIValidator) ValidateLLM(_ *domain.LLMSettings) error {
	m.llmCalled = true
	return m.err
}

func (m *mockAIValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	m.embedCalled = true
	return m.err
}

func promptContains(prompts []string, sub string) bool {
	for _, p := range prompts {
		if strings.Contains(p, sub) {
			return true
		}
	}
	return false
}
