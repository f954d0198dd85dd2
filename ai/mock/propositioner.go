package mock

import (
	"context"
	"strings"
)

// MockPropositioner is a test double for ai.Propositioner.
// It allows custom behavior injection via function fields.
type MockPropositioner struct {
	// RewriteFunc is called by Rewrite if set.
	// If nil, uses default echo behavior.
	RewriteFunc func(ctx context.Context, text string) (string, error)

	callCount int
}

// NewMockPropositioner creates a mock propositioner with default echo behavior.
// Note: Returns concrete type to allow test assertions via GetMockPropositioner().
func NewMockPropositioner() *MockPropositioner {
	return &MockPropositioner{}
}

// Rewrite returns the input sentence with whitespace trimmed.
// Default behavior keeps sentences unchanged so chunking fixtures stay readable.
func (m *MockPropositioner) Rewrite(ctx context.Context, text string) (string, error) {
	m.callCount++

	if m.RewriteFunc != nil {
		return m.RewriteFunc(ctx, text)
	}

	return strings.TrimSpace(text), nil
}

// CallCount returns the number of times Rewrite was called.
func (m *MockPropositioner) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockPropositioner) Reset() {
	m.callCount = 0
	m.RewriteFunc = nil
}
