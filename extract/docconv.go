package extract

import (
	"context"
	"fmt"
	"log/slog"

	"code.sajari.com/docconv"
	"github.com/mburaksayici/legal-rag/core"
)

// DocconvExtractor extracts text from binary document formats using docconv.
type DocconvExtractor struct {
	logger *slog.Logger
}

// NewDocconvExtractor creates an extractor for PDF, DOCX and related formats.
func NewDocconvExtractor() *DocconvExtractor {
	return &DocconvExtractor{
		logger: slog.Default().With("component", "docconv-extractor"),
	}
}

// Extract converts the document at path to plain text.
func (e *DocconvExtractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	res, err := docconv.ConvertPath(path)
	if err != nil {
		e.logger.Error("docconv conversion failed", "path", path, "err", err)
		return "", fmt.Errorf("%w: converting %q: %v", core.ErrExtraction, path, err)
	}

	// docconv keeps running after conversion; honor cancellation before
	// handing a possibly large body to the pipeline.
	if err := ctx.Err(); err != nil {
		return "", err
	}

	return res.Body, nil
}
