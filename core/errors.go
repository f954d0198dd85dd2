package core

import "errors"

// Pipeline error taxonomy. Errors are classified by wrapping one of these
// sentinels; callers dispatch with errors.Is.
var (
	// ErrExtraction indicates text extraction failed. Extraction failures are
	// treated as permanent: the document task fails without retry.
	ErrExtraction = errors.New("extraction failed")

	// ErrPropositioner indicates a sentence rewrite failed. Sentence-level
	// failures are recoverable: retry, then fall back to the original text.
	ErrPropositioner = errors.New("propositionizer failed")

	// ErrEmbedding indicates embedding generation failed after retries.
	// Document-level permanent failure.
	ErrEmbedding = errors.New("embedding failed")

	// ErrUpsert indicates the chunk store rejected an upsert after retries.
	// Document-level permanent failure.
	ErrUpsert = errors.New("chunk upsert failed")

	// ErrCoordinator indicates a job-level failure before fan-out.
	ErrCoordinator = errors.New("coordinator error")

	// ErrSourceNotFound indicates the ingestion source is empty or unreadable.
	ErrSourceNotFound = errors.New("source not found or empty")

	// ErrMalformedOutput indicates a model returned output that could not be
	// parsed even after repair.
	ErrMalformedOutput = errors.New("malformed model output")

	// ErrJobNotFound indicates the requested job does not exist.
	ErrJobNotFound = errors.New("job not found")
)
