package ai

import "context"

// Embedder generates vector embeddings from text for semantic boundary
// detection and similarity search. Implementations must be thread-safe for
// concurrent use. Sentence- and chunk-level calls within one configuration
// return vectors of the same dimensionality.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Propositioner rewrites a sentence so that pronouns and implicit references
// are replaced by their explicit referents, preserving truth-conditional
// meaning. Implementations must be thread-safe for concurrent use.
type Propositioner interface {
	// Rewrite returns the decontextualized form of the sentence.
	// May fail with a timeout or with core.ErrMalformedOutput when the model
	// response cannot be parsed; callers are expected to fall back to the
	// original text after retries.
	Rewrite(ctx context.Context, text string) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder and Propositioner
// instances, ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Propositioner returns the sentence rewriting service.
	// The returned Propositioner is safe for concurrent use.
	Propositioner() Propositioner

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
