package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mburaksayici/legal-rag/ai"
	"github.com/mburaksayici/legal-rag/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Propositioner implements ai.Propositioner using OpenAI-compatible chat APIs.
type Propositioner struct {
	client llms.Model
	logger *slog.Logger
}

// rewrite is the wrapper structure for the LLM's JSON response.
type rewrite struct {
	Propositions []string `json:"propositions"`
}

// newPropositioner is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newPropositioner(config *ai.Config) (*Propositioner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat/rewriting
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.RewriteHost),
		openai.WithToken("none"),
		openai.WithModel(config.RewriteModel),
	)
	if err != nil {
		return nil, err
	}

	return &Propositioner{
		client: client,
		logger: slog.Default().With("component", "openai-propositioner"),
	}, nil
}

// NewPropositioner creates a new propositioner using the provided configuration.
//
// Returns ai.Propositioner interface to enforce abstraction.
func NewPropositioner(config *ai.Config) (ai.Propositioner, error) {
	return newPropositioner(config)
}

// Rewrite decontextualizes a sentence using an LLM, replacing pronouns and
// implicit references with their explicit referents. When the model returns
// several propositions for one sentence they are joined back into a single
// sentence with spaces so downstream ordinals stay stable.
func (p *Propositioner) Rewrite(ctx context.Context, text string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(propositionPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result rewrite
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := p.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			p.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return "", fmt.Errorf("%w: %v", core.ErrPropositioner, err)
		}

		if len(response.Choices) < 1 {
			p.logger.Debug("no choices returned from model")
			return "", fmt.Errorf("%w: model returned no choices", core.ErrMalformedOutput)
		}

		choice := response.Choices[0]

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			p.logger.Warn("error parsing propositioner response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		p.logger.Error("failed to parse propositioner response after retries", "err", lastErr)
		return "", fmt.Errorf("%w: %v", core.ErrMalformedOutput, lastErr)
	}

	joined := collapseWhitespace(strings.Join(result.Propositions, " "))
	if joined == "" {
		p.logger.Warn("propositioner returned no propositions", "input_length", len(text))
		return "", fmt.Errorf("%w: empty propositions array", core.ErrMalformedOutput)
	}

	p.logger.Debug("rewrote sentence",
		"input_length", len(text),
		"propositions", len(result.Propositions))

	return joined, nil
}
