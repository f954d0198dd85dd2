// Package ai provides abstractions for the AI services used by the ingestion
// pipeline.
//
// This package defines interfaces for text embedding and sentence
// propositioning. It follows the dependency inversion principle, allowing the
// core domain and orchestration logic to depend on abstractions rather than
// concrete implementations.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Propositioner: Rewrites sentences with explicit referents
//   - Provider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// INTERFACE types to enforce abstraction. Test utility constructors
// (mock.NewMockEmbedder, mock.NewMockPropositioner) return CONCRETE types to
// enable test assertions and behavior injection via the mock's public fields.
package ai
