package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mburaksayici/legal-rag/core"
)

// PlainTextExtractor reads text documents directly from disk.
type PlainTextExtractor struct {
	logger *slog.Logger
}

// NewPlainTextExtractor creates an extractor for .txt and .md documents.
func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{
		logger: slog.Default().With("component", "plaintext-extractor"),
	}
}

// Extract returns the file contents as-is.
func (e *PlainTextExtractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		e.logger.Error("failed to read document", "path", path, "err", err)
		return "", fmt.Errorf("%w: reading %q: %v", core.ErrExtraction, path, err)
	}
	return string(data), nil
}
