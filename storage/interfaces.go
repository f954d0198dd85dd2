package storage

import (
	"context"

	"github.com/mburaksayici/legal-rag/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// JobRepository provides operations for managing ingestion job records.
type JobRepository interface {
	Repository

	// PutJob inserts or updates a job record.
	// Sets CreatedAt if not already set.
	PutJob(ctx context.Context, job *core.IngestionJob) error

	// GetJob retrieves a single job by ID.
	// Returns ErrNotFound if the job doesn't exist.
	GetJob(ctx context.Context, jobID string) (*core.IngestionJob, error)

	// ListJobs retrieves all persisted jobs ordered by creation time
	// descending (most recent first). Returns up to limit jobs; limit <= 0
	// means no limit.
	ListJobs(ctx context.Context, limit int) ([]*core.IngestionJob, error)
}

// TaskRepository provides operations for managing per-document task records.
type TaskRepository interface {
	Repository

	// PutTask inserts or updates a task record.
	PutTask(ctx context.Context, task *core.DocumentTask) error

	// GetTask retrieves a single task by job and task ID.
	// Returns ErrNotFound if the task doesn't exist.
	GetTask(ctx context.Context, jobID, taskID string) (*core.DocumentTask, error)

	// GetTasksByJob retrieves all tasks belonging to a job, ordered by task ID.
	GetTasksByJob(ctx context.Context, jobID string) ([]*core.DocumentTask, error)
}

// ChunkRepository provides chunk persistence and vector similarity search.
type ChunkRepository interface {
	Repository

	// UpsertChunks inserts or replaces chunks keyed by their deterministic
	// IDs. Re-upserting a chunk with the same ID replaces the stored record,
	// making repeated ingestion of the same document idempotent.
	UpsertChunks(ctx context.Context, chunks ...*core.Chunk) error

	// DeleteChunksByDocument removes all chunks for a document ref.
	// Deleting a document with no chunks is not an error.
	DeleteChunksByDocument(ctx context.Context, documentRef string) error

	// GetChunksByDocument retrieves all chunks of a document in ordinal order.
	GetChunksByDocument(ctx context.Context, documentRef string) ([]*core.Chunk, error)

	// ListDocumentRefs returns the distinct document refs that currently
	// have chunks, sorted by ref.
	ListDocumentRefs(ctx context.Context) ([]string, error)

	// FindSimilar finds chunks similar to the given vector.
	// Returns chunks with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)
}
