package reembed

import (
	"context"

	"github.com/mburaksayici/legal-rag/core"
	"github.com/mburaksayici/legal-rag/storage"
)

// DocumentIterator iterates over all persisted chunks, one document at a time.
type DocumentIterator struct {
	repo storage.ChunkRepository
}

// NewDocumentIterator creates a new document iterator.
func NewDocumentIterator(repo storage.ChunkRepository) *DocumentIterator {
	return &DocumentIterator{repo: repo}
}

// CountChunks returns the total number of persisted chunks.
func (it *DocumentIterator) CountChunks(ctx context.Context) (int, error) {
	refs, err := it.repo.ListDocumentRefs(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, ref := range refs {
		chunks, err := it.repo.GetChunksByDocument(ctx, ref)
		if err != nil {
			return 0, err
		}
		total += len(chunks)
	}
	return total, nil
}

// ForEach iterates over all documents, calling fn with each document's chunks.
// Iteration stops on the first error from fn or when all documents are
// processed. Context cancellation is checked between documents.
func (it *DocumentIterator) ForEach(ctx context.Context, fn func([]*core.Chunk) error) error {
	refs, err := it.repo.ListDocumentRefs(ctx)
	if err != nil {
		return err
	}

	for _, ref := range refs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		chunks, err := it.repo.GetChunksByDocument(ctx, ref)
		if err != nil {
			return err
		}
		if len(chunks) == 0 {
			continue
		}

		if err := fn(chunks); err != nil {
			return err
		}
	}

	return nil
}
