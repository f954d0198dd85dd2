package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// RewriteHost is the base URL for the propositionizer service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	RewriteHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "intfloat/e5-small-v2", "text-embedding-3-small"
	EmbeddingModel string

	// RewriteModel is the model identifier to use for sentence rewriting.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	RewriteModel string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithRewriteHost sets the propositionizer service host URL.
func WithRewriteHost(host string) ConfigOption {
	return func(c *Config) {
		c.RewriteHost = host
	}
}

// WithHost sets both embedding and rewrite hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.RewriteHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithRewriteModel sets the rewrite model identifier.
func WithRewriteModel(model string) ConfigOption {
	return func(c *Config) {
		c.RewriteModel = model
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services. By default, both services use the same host.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:  defaultHost,
		RewriteHost:    defaultHost,
		EmbeddingModel: "embeddinggemma",
		RewriteModel:   "qwen2.5:3b",
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options. This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:11434/v1"),
//	    WithEmbeddingModel("text-embedding-3-small"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/") + "/v1"
	}
	if c.RewriteHost != "" && !strings.HasSuffix(c.RewriteHost, "/v1") {
		c.RewriteHost = strings.TrimSuffix(c.RewriteHost, "/") + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.RewriteHost == "" {
		return errors.New("ai config: RewriteHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.RewriteModel == "" {
		return errors.New("ai config: RewriteModel is required")
	}
	return nil
}
