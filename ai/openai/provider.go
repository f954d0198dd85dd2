package openai

import (
	"log/slog"

	"github.com/mburaksayici/legal-rag/ai"
)

// Provider implements ai.Provider using OpenAI-compatible services.
// It manages embedder and propositioner instances.
type Provider struct {
	config        *ai.Config
	embedder      *Embedder
	propositioner *Propositioner
	logger        *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create embedder (using internal constructor for concrete type)
	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	// Create propositioner (using internal constructor for concrete type)
	propositioner, err := newPropositioner(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:        config,
		embedder:      embedder,
		propositioner: propositioner,
		logger:        slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Propositioner returns the sentence rewriting service.
func (p *Provider) Propositioner() ai.Propositioner {
	return p.propositioner
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
