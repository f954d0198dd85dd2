package mock

import "github.com/mburaksayici/legal-rag/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates mock embedder and propositioner instances.
type MockProvider struct {
	embedder      *MockEmbedder
	propositioner *MockPropositioner
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use GetMockEmbedder()/GetMockPropositioner() to access concrete types for test assertions.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		embedder:      NewMockEmbedder(),
		propositioner: NewMockPropositioner(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(embedder *MockEmbedder, propositioner *MockPropositioner) ai.Provider {
	return &MockProvider{
		embedder:      embedder,
		propositioner: propositioner,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Propositioner returns the mock propositioner.
func (p *MockProvider) Propositioner() ai.Propositioner {
	return p.propositioner
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockPropositioner returns the underlying mock propositioner for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockPropositioner() *MockPropositioner {
	return p.propositioner
}
