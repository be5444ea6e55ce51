package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/ghost-api/internal/domain"
	"github.com/phrazzld/ghost-api/internal/generation"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, in generation.Input) (*domain.Analysis, error)

	// Default response values
	Analysis *domain.Analysis
	Err      error

	// Call tracking for verification
	GenerateCalls struct {
		// mu protects the call tracking state for concurrent test cases
		mu sync.Mutex

		// Count tracks how many times Generate was called
		Count int

		// Inputs contains all inputs passed to Generate calls
		Inputs []generation.Input

		// Contexts contains all contexts passed to Generate calls
		Contexts []context.Context
	}
}

var _ generation.Generator = (*MockGenerator)(nil)

// Generate implements the generation.Generator interface
func (m *MockGenerator) Generate(ctx context.Context, in generation.Input) (*domain.Analysis, error) {
	// Track call details for verification
	m.GenerateCalls.mu.Lock()
	m.GenerateCalls.Count++
	m.GenerateCalls.Inputs = append(m.GenerateCalls.Inputs, in)
	m.GenerateCalls.Contexts = append(m.GenerateCalls.Contexts, ctx)
	m.GenerateCalls.mu.Unlock()

	// Use custom function if provided
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, in)
	}

	if m.Err != nil {
		return nil, m.Err
	}

	if m.Analysis == nil {
		return nil, nil
	}

	// Hand out a copy so callers cannot mutate the configured response
	a := *m.Analysis
	a.Actions = append([]string(nil), m.Analysis.Actions...)
	return &a, nil
}

// CallCount returns how many times Generate was called
func (m *MockGenerator) CallCount() int {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()
	return m.GenerateCalls.Count
}

// LastInput returns the most recent input, or the zero Input if there were no calls
func (m *MockGenerator) LastInput() generation.Input {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()
	if len(m.GenerateCalls.Inputs) == 0 {
		return generation.Input{}
	}
	return m.GenerateCalls.Inputs[len(m.GenerateCalls.Inputs)-1]
}

// DefaultAnalysis returns a fixed, fully populated analysis
func DefaultAnalysis() *domain.Analysis {
	return &domain.Analysis{
		Summary:    "A memo announcing a reorganization.",
		GhostTruth: "Layoffs are coming and this is the first notice.",
		Context:    "Reorganizations after a missed quarter usually precede cuts.",
		Actions:    []string{"Update your resume", "Ask your manager about team plans"},
	}
}

// NewMockGeneratorWithAnalysis creates a MockGenerator that returns the specified analysis
func NewMockGeneratorWithAnalysis(a *domain.Analysis) *MockGenerator {
	return &MockGenerator{
		Analysis: a,
	}
}

// NewMockGeneratorWithError creates a MockGenerator that returns the specified error
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{
		Err: err,
	}
}

// NewMockGeneratorWithSequence creates a MockGenerator that returns errs in
// order, one per call, and the default analysis once they run out. A nil
// entry also yields the default analysis.
func NewMockGeneratorWithSequence(errs ...error) *MockGenerator {
	m := &MockGenerator{}
	m.GenerateFn = func(_ context.Context, _ generation.Input) (*domain.Analysis, error) {
		// Count was already incremented for this call
		call := m.CallCount() - 1
		if call < len(errs) && errs[call] != nil {
			return nil, errs[call]
		}
		return DefaultAnalysis(), nil
	}
	return m
}

// MockGeneratorThatTimesOut creates a MockGenerator that simulates an attempt deadline
func MockGeneratorThatTimesOut() *MockGenerator {
	return &MockGenerator{
		Err: generation.ErrTimeout,
	}
}

// MockGeneratorWithContentBlocked creates a MockGenerator that simulates content being blocked
func MockGeneratorWithContentBlocked() *MockGenerator {
	return &MockGenerator{
		Err: generation.ErrContentBlocked,
	}
}

// Reset resets the call tracking state
func (m *MockGenerator) Reset() {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()

	m.GenerateCalls.Count = 0
	m.GenerateCalls.Inputs = nil
	m.GenerateCalls.Contexts = nil
}
