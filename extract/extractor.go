package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mburaksayici/legal-rag/core"
)

// TextExtractor extracts the plain-text body of a single document.
// Implementations must be safe for concurrent use; the ingestion pipeline
// calls Extract from multiple worker goroutines.
type TextExtractor interface {
	// Extract returns the text content of the document at path.
	// Failures are wrapped in core.ErrExtraction and are permanent for the
	// document; the pipeline does not retry extraction.
	Extract(ctx context.Context, path string) (string, error)
}

// supportedExtensions maps a lowercase file extension to the extractor kind
// that handles it. Extensions absent from the map are rejected up front so a
// job never fans out over documents it cannot read.
var supportedExtensions = map[string]string{
	".pdf":  "docconv",
	".docx": "docconv",
	".doc":  "docconv",
	".rtf":  "docconv",
	".odt":  "docconv",
	".html": "docconv",
	".htm":  "docconv",
	".txt":  "plain",
	".md":   "plain",
}

// Extractor dispatches to a format-specific extractor based on file extension.
type Extractor struct {
	docconv *DocconvExtractor
	plain   *PlainTextExtractor
	logger  *slog.Logger
}

// New creates an extractor covering all supported document formats.
func New() *Extractor {
	return &Extractor{
		docconv: NewDocconvExtractor(),
		plain:   NewPlainTextExtractor(),
		logger:  slog.Default().With("component", "extractor"),
	}
}

// Supported reports whether documents with the given path's extension can be
// extracted.
func Supported(path string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extract returns the plain-text body of the document at path.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	kind, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("%w: unsupported document format %q", core.ErrExtraction, filepath.Ext(path))
	}

	e.logger.Debug("extracting document", "path", path, "kind", kind)

	var (
		text string
		err  error
	)
	switch kind {
	case "plain":
		text, err = e.plain.Extract(ctx, path)
	default:
		text, err = e.docconv.Extract(ctx, path)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: document %q produced no text", core.ErrExtraction, path)
	}
	return text, nil
}
