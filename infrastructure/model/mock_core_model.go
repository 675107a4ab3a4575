package model

import (
	"context"
	"sync"
	"time"
)

// MockCoreModel is a configurable CoreModel for middleware and client
// tests: it can delay, fail for the first N calls, and records every
// prompt it receives.
type MockCoreModel struct {
	mu sync.Mutex

	// Response is returned on success.
	Response string
	// Err, when set, is returned instead of Response.
	Err error
	// ModelName is returned by Model.
	ModelName string
	// Delay simulates provider latency before responding.
	Delay time.Duration
	// FailUntilAttempt makes the first N calls fail, then succeed.
	FailUntilAttempt int

	// CallCount and Prompts track received requests.
	CallCount int
	Prompts   []string
}

// NewMockCoreModel creates a mock with successful default behavior.
func NewMockCoreModel() *MockCoreModel {
	return &MockCoreModel{Response: "test response", ModelName: "test-model"}
}

// Complete implements CoreModel.
func (m *MockCoreModel) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.CallCount++
	count := m.CallCount
	m.Prompts = append(m.Prompts, prompt)
	delay := m.Delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailUntilAttempt > 0 && count <= m.FailUntilAttempt {
		if m.Err != nil {
			return "", m.Err
		}
		return "", NewProviderError("mock", ErrorTypeServerError, 500, "simulated failure", nil)
	}

	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// Model implements CoreModel.
func (m *MockCoreModel) Model() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ModelName
}

// Calls returns the number of Complete invocations so far.
func (m *MockCoreModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}
