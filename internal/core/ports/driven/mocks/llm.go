package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/notegen/internal/core/domain"
	"github.com/custodia-labs/notegen/internal/core/ports/driven"
)

// Ensure the LLM mocks implement their ports
var (
	_ driven.LLMClient        = (*MockLLMClient)(nil)
	_ driven.LLMClientFactory = (*MockLLMClientFactory)(nil)
)

// MockLLMClient is a scriptable LLMClient. Calls are recorded for assertions.
type MockLLMClient struct {
	mu sync.Mutex

	CompleteFn   func(req *domain.CompletionRequest) (*domain.CompletionResult, error)
	ListModelsFn func() ([]domain.ModelDescriptor, error)

	CompleteCalls   []*domain.CompletionRequest
	ListModelsCalls int
	Closed          bool
}

// NewMockLLMClient creates a client that lists no models and answers "ok"
func NewMockLLMClient() *MockLLMClient {
	return &MockLLMClient{}
}

func (m *MockLLMClient) Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResult, error) {
	m.mu.Lock()
	m.CompleteCalls = append(m.CompleteCalls, req)
	fn := m.CompleteFn
	m.mu.Unlock()

	if fn != nil {
		return fn(req)
	}
	return CompletionWithContent("ok"), nil
}

func (m *MockLLMClient) ListModels(ctx context.Context) ([]domain.ModelDescriptor, error) {
	m.mu.Lock()
	m.ListModelsCalls++
	fn := m.ListModelsFn
	m.mu.Unlock()

	if fn != nil {
		return fn()
	}
	return []domain.ModelDescriptor{}, nil
}

func (m *MockLLMClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// CompleteCallCount returns the number of Complete calls
func (m *MockLLMClient) CompleteCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.CompleteCalls)
}

// MockLLMClientFactory hands out one shared MockLLMClient
type MockLLMClientFactory struct {
	mu sync.Mutex

	Client *MockLLMClient
	Err    error

	// Credentials records each (apiKey, baseURL) pair requested
	Credentials [][2]string
}

// NewMockLLMClientFactory creates a factory returning client
func NewMockLLMClientFactory(client *MockLLMClient) *MockLLMClientFactory {
	return &MockLLMClientFactory{Client: client}
}

func (f *MockLLMClientFactory) NewClient(apiKey, baseURL string) (driven.LLMClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Credentials = append(f.Credentials, [2]string{apiKey, baseURL})
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Client, nil
}

// CompletionWithContent builds a single-choice result carrying content
func CompletionWithContent(content string) *domain.CompletionResult {
	return &domain.CompletionResult{
		Model: "mock-model",
		Choices: []domain.CompletionChoice{
			{Message: &domain.CompletionMessage{Role: domain.ChatRoleAssistant, Content: &content}},
		},
	}
}
