package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for content-addressed entities.
// It is generated deterministically from entity content.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ChunkID derives the deterministic ID of a chunk from its document reference
// and its ordinal within the document. Re-ingesting the same document yields
// the same IDs, which is what makes chunk upserts idempotent.
func ChunkID(documentRef string, ordinal int) ID {
	return IDFromContent(documentRef + "#" + strconv.Itoa(ordinal))
}

// JobStatus describes the aggregate lifecycle state of an ingestion job.
type JobStatus string

const (
	// JobStatusPending means the job record exists but no task has been dispatched.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning means tasks have been dispatched and are in flight.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted means every document processed successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusCompletedWithErrors means the job finished but some documents failed
	// or were skipped after a cancellation request.
	JobStatusCompletedWithErrors JobStatus = "completed_with_errors"
	// JobStatusFailed means the coordinator failed before any task ran.
	JobStatusFailed JobStatus = "failed"
	// JobStatusCancelled means the job was cancelled before any task was dispatched.
	JobStatusCancelled JobStatus = "cancelled"
)

// Terminal reports whether the status is a terminal state.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusCompletedWithErrors, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// TaskStatus describes the lifecycle state of a single document task.
type TaskStatus string

const (
	// TaskStatusQueued means the task was created at fan-out time and awaits a worker.
	TaskStatusQueued TaskStatus = "queued"
	// TaskStatusRunning means the task's pipeline is executing.
	TaskStatusRunning TaskStatus = "running"
	// TaskStatusRetrying means a retryable pipeline stage is backing off.
	TaskStatusRetrying TaskStatus = "retrying"
	// TaskStatusSucceeded means the document's chunks were upserted.
	TaskStatusSucceeded TaskStatus = "succeeded"
	// TaskStatusFailed means the document failed permanently.
	TaskStatusFailed TaskStatus = "failed"
	// TaskStatusCancelled means the task was skipped after a cancellation request.
	TaskStatusCancelled TaskStatus = "cancelled"
)

// Terminal reports whether the status is a terminal state.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskStatusSucceeded, TaskStatusFailed, TaskStatusCancelled:
		return true
	}
	return false
}

// IngestionJob is the aggregate record for one ingestion request.
// It is owned by the coordinator: counters are mutated only through the
// tracker's atomic operations, never written directly by task executors.
type IngestionJob struct {
	ID              string
	Source          string // folder or single-file reference
	Status          JobStatus
	TotalDocuments  int
	SuccessCount    int
	FailureCount    int
	CancelRequested bool
	CreatedAt       time.Time
	CompletedAt     time.Time // zero until the job reaches a terminal state
}

// ProcessedCount returns the number of documents that reached a success or
// failure outcome. Skipped (cancelled) tasks do not count as processed.
func (j *IngestionJob) ProcessedCount() int {
	return j.SuccessCount + j.FailureCount
}

// DocumentTask is the unit of work for one document within a job.
// Terminal state is written exactly once, by the task's own executor run.
type DocumentTask struct {
	ID            string
	JobID         string // back-reference, non-owning
	DocumentRef   string
	Status        TaskStatus
	AttemptCount  int
	LastError     string
	ChunkCount    int
	FallbackCount int // sentences that fell back to unrewritten text
	CreatedAt     time.Time
	CompletedAt   time.Time // zero until terminal
}

// Sentence is a transient record held only for the duration of one task run.
// Embedding is nil until the embedding stage has run.
type Sentence struct {
	Index     int // position in document, 0-based
	Text      string
	Embedding []float32
}

// Chunk is a persisted, immutable span of consecutive sentences.
// Chunks of one document are contiguous and non-overlapping; concatenated in
// Ordinal order they reconstruct the full sentence sequence.
type Chunk struct {
	ID            ID
	DocumentRef   string
	Ordinal       int // sequence position within document, 0-based
	Text          string
	Embedding     []float32
	StartSentence int // inclusive
	EndSentence   int // inclusive
	InsertedAt    time.Time
}

// FailedDocument summarizes one failed document for status queries.
type FailedDocument struct {
	DocumentRef  string
	ErrorSummary string
}

// JobSnapshot is a read-only, eventually-consistent view of a job returned
// by status queries. EstimatedRemaining is nil until at least one document
// has completed.
type JobSnapshot struct {
	Job                IngestionJob
	ProgressPercentage float64
	EstimatedRemaining *time.Duration
	CurrentDocument    string // best-effort, document in flight on some worker
	FailedDocuments    []FailedDocument
}

// SearchResult is a chunk match from vector similarity search.
type SearchResult struct {
	Chunk *Chunk
	Score float32
}
