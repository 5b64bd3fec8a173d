package llm

import (
	"context"
	"sync"
)

// MockClient is a scripted Client for tests. Each call consumes the next
// scripted result; when the script is exhausted the last entry repeats.
type MockClient struct {
	mu        sync.Mutex
	script    []MockResult
	index     int
	requests  []CompletionRequest
	modelName string
}

// MockResult is one scripted completion outcome.
type MockResult struct {
	Response CompletionResponse
	Err      error
}

// NewMockClient creates a mock client that replays the given results in order.
func NewMockClient(script ...MockResult) *MockClient {
	return &MockClient{
		script:    script,
		modelName: "mock-model",
	}
}

// MockResponse is a convenience constructor for a successful scripted result.
func MockResponse(content string) MockResult {
	return MockResult{Response: CompletionResponse{Content: content}}
}

// MockError is a convenience constructor for a failed scripted result.
func MockError(err error) MockResult {
	return MockResult{Err: err}
}

// Complete implements Client.
func (m *MockClient) Complete(_ context.Context, req CompletionRequest) (CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if len(m.script) == 0 {
		return CompletionResponse{Content: "{}"}, nil
	}

	result := m.script[m.index]
	if m.index < len(m.script)-1 {
		m.index++
	}

	if result.Err != nil {
		return CompletionResponse{}, result.Err
	}
	return result.Response, nil
}

// ModelName implements Client.
func (m *MockClient) ModelName() string {
	return m.modelName
}

// Calls returns the number of completions requested so far.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of all requests seen so far.
func (m *MockClient) Requests() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent request, or a zero value if none.
func (m *MockClient) LastRequest() CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return CompletionRequest{}
	}
	return m.requests[len(m.requests)-1]
}
