package chunking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mburaksayici/legal-rag/ai"
	"github.com/mburaksayici/legal-rag/core"
)

// Assembler groups sentences into chunks along detected breakpoints and
// computes each chunk's persisted embedding with a fresh call over the
// assembled text.
type Assembler struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewAssembler creates a chunk assembler backed by the given embedder.
func NewAssembler(embedder ai.Embedder) *Assembler {
	return &Assembler{
		embedder: embedder,
		logger:   slog.Default().With("component", "chunk-assembler"),
	}
}

// Assemble builds the chunk sequence for one document. Sentences between
// consecutive breakpoints form one chunk; chunk text is the sentences joined
// with single spaces in original order. Chunk IDs derive deterministically
// from (documentRef, ordinal), so re-assembling the same document yields the
// same IDs. Returns len(breakpoints) chunks.
func (a *Assembler) Assemble(ctx context.Context, documentRef string, sentences []core.Sentence, breakpoints []int) ([]core.Chunk, error) {
	if len(sentences) == 0 {
		return nil, nil
	}
	if err := validateBreakpoints(breakpoints, len(sentences)); err != nil {
		return nil, err
	}

	chunks := make([]core.Chunk, 0, len(breakpoints))
	texts := make([]string, 0, len(breakpoints))
	for ordinal, start := range breakpoints {
		end := len(sentences)
		if ordinal+1 < len(breakpoints) {
			end = breakpoints[ordinal+1]
		}

		parts := make([]string, 0, end-start)
		for _, s := range sentences[start:end] {
			parts = append(parts, s.Text)
		}
		text := strings.Join(parts, " ")
		texts = append(texts, text)

		chunks = append(chunks, core.Chunk{
			ID:            core.ChunkID(documentRef, ordinal),
			DocumentRef:   documentRef,
			Ordinal:       ordinal,
			Text:          text,
			StartSentence: start,
			EndSentence:   end - 1,
			InsertedAt:    time.Now().UTC(),
		})
	}

	embeddings, err := a.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d chunks", core.ErrEmbedding, len(embeddings), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	a.logger.Debug("assembled chunks",
		"document_ref", documentRef,
		"sentences", len(sentences),
		"chunks", len(chunks))

	return chunks, nil
}

// validateBreakpoints enforces the detector's output contract before chunks
// are cut: starts at 0, strictly increasing, all within the document.
func validateBreakpoints(breakpoints []int, sentenceCount int) error {
	if len(breakpoints) == 0 || breakpoints[0] != 0 {
		return fmt.Errorf("%w: must start at sentence 0", ErrInvalidBreakpoints)
	}
	for i := 1; i < len(breakpoints); i++ {
		if breakpoints[i] <= breakpoints[i-1] {
			return fmt.Errorf("%w: not strictly increasing at position %d", ErrInvalidBreakpoints, i)
		}
	}
	if last := breakpoints[len(breakpoints)-1]; last >= sentenceCount {
		return fmt.Errorf("%w: breakpoint %d beyond last sentence %d", ErrInvalidBreakpoints, last, sentenceCount-1)
	}
	return nil
}
