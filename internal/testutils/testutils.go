// Package testutils provides deterministic test doubles for the ports
// interfaces so orchestration tests can run without network access.
package testutils

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/modelarena/go-arena/internal/domain"
	"github.com/modelarena/go-arena/internal/ports"
)

// ScriptedModel is a ports.ModelClient that answers from a script. The
// Answer function receives the prompt and returns the completion; when nil,
// every prompt gets DefaultAnswer.
type ScriptedModel struct {
	mu sync.Mutex

	// Answer computes the response for a prompt.
	Answer func(prompt string) (string, error)

	// DefaultAnswer is returned when Answer is nil.
	DefaultAnswer string

	// Delay simulates inference latency; the context is honored while
	// waiting, so per-instance timeouts behave as in production.
	Delay time.Duration

	// Prompts records every prompt received, in call order.
	Prompts []string
}

var _ ports.ModelClient = (*ScriptedModel)(nil)

// Infer implements ports.ModelClient.
func (s *ScriptedModel) Infer(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.Prompts = append(s.Prompts, prompt)
	answer := s.Answer
	delay := s.Delay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if answer != nil {
		out, err := answer(prompt)
		// A deadline that expired while the script was producing its
		// answer surfaces as a transport error, as it would over a real
		// connection.
		if cerr := ctx.Err(); cerr != nil {
			return "", cerr
		}
		return out, err
	}
	return s.DefaultAnswer, nil
}

// CallCount returns how many prompts the model has received.
func (s *ScriptedModel) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Prompts)
}

// EchoExpectedModel is a ports.ModelClient wired to a generator's output:
// it answers every prompt with the expected answer recorded for it,
// producing a perfect score. Prompts it has never seen get the fallback.
type EchoExpectedModel struct {
	mu       sync.Mutex
	answers  map[string]string
	Fallback string
}

var _ ports.ModelClient = (*EchoExpectedModel)(nil)

// NewEchoExpectedModel indexes the instances by prompt.
func NewEchoExpectedModel(instances ...domain.TaskInstance) *EchoExpectedModel {
	m := &EchoExpectedModel{answers: make(map[string]string, len(instances))}
	m.Learn(instances...)
	return m
}

// Learn records more prompt -> expected-answer pairs.
func (m *EchoExpectedModel) Learn(instances ...domain.TaskInstance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inst := range instances {
		m.answers[inst.Prompt] = inst.ExpectedAnswer
	}
}

// Infer implements ports.ModelClient.
func (m *EchoExpectedModel) Infer(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if answer, ok := m.answers[prompt]; ok {
		return answer, nil
	}
	return m.Fallback, nil
}

// StubGenerator is a ports.DatasetGenerator serving canned instances per
// task id, with optional per-task errors for failure-path tests.
type StubGenerator struct {
	// Instances maps task id to the instances Generate returns.
	Instances map[string][]domain.TaskInstance

	// Errors maps task id to an error returned instead of instances.
	Errors map[string]error
}

var _ ports.DatasetGenerator = (*StubGenerator)(nil)

// Generate implements ports.DatasetGenerator.
func (g *StubGenerator) Generate(ctx context.Context, taskID string, seed int64, count int) ([]domain.TaskInstance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := g.Errors[taskID]; ok {
		return nil, domain.NewGenerationError(taskID, err)
	}

	canned, ok := g.Instances[taskID]
	if !ok {
		return nil, domain.NewGenerationError(taskID, errors.New("no instances configured for task"))
	}
	if count > len(canned) {
		count = len(canned)
	}
	return canned[:count], nil
}

// NoopMetrics is a ports.MetricsCollector that discards everything.
type NoopMetrics struct{}

var _ ports.MetricsCollector = NoopMetrics{}

func (NoopMetrics) RecordLatency(string, time.Duration, map[string]string) {}
func (NoopMetrics) RecordCounter(string, float64, map[string]string)      {}
func (NoopMetrics) RecordHistogram(string, float64, map[string]string)    {}
