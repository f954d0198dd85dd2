package ingestion

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/mburaksayici/legal-rag/core"
)

// Tracker aggregates progress for one job. Counters are mutated only through
// atomic increments so concurrent task completions never lose updates; tasks
// never read-modify-write shared state directly.
type Tracker struct {
	total           int64
	successCount    atomic.Int64
	failureCount    atomic.Int64
	skippedCount    atomic.Int64
	dispatchedCount atomic.Int64
	cancelRequested atomic.Bool
	currentDocument atomic.Value // string
	startTime       time.Time

	mu     sync.Mutex
	failed []core.FailedDocument
}

// NewTracker creates a tracker for a job with the given document count.
func NewTracker(total int) *Tracker {
	t := &Tracker{
		total:     int64(total),
		startTime: time.Now(),
	}
	t.currentDocument.Store("")
	return t
}

// MarkDispatched records that a task started executing (as opposed to being
// skipped after cancellation). Returns the number of dispatched tasks.
func (t *Tracker) MarkDispatched() int64 {
	return t.dispatchedCount.Add(1)
}

// IncrementSuccess atomically records one successful document.
// Returns the settled count after the increment.
func (t *Tracker) IncrementSuccess() int64 {
	return t.successCount.Add(1) + t.failureCount.Load()
}

// IncrementFailure atomically records one failed document and remembers it
// for status queries.
func (t *Tracker) IncrementFailure(documentRef, errorSummary string) int64 {
	t.mu.Lock()
	t.failed = append(t.failed, core.FailedDocument{
		DocumentRef:  documentRef,
		ErrorSummary: errorSummary,
	})
	t.mu.Unlock()

	return t.failureCount.Add(1) + t.successCount.Load()
}

// IncrementSkipped records one task skipped after a cancellation request.
// Skipped tasks reach a terminal state without counting as processed.
func (t *Tracker) IncrementSkipped() int64 {
	return t.skippedCount.Add(1)
}

// SuccessCount returns the number of successfully processed documents.
func (t *Tracker) SuccessCount() int {
	return int(t.successCount.Load())
}

// FailureCount returns the number of permanently failed documents.
func (t *Tracker) FailureCount() int {
	return int(t.failureCount.Load())
}

// Settled returns the number of documents that reached a terminal outcome.
func (t *Tracker) Settled() int {
	return int(t.successCount.Load() + t.failureCount.Load())
}

// Skipped returns the number of tasks skipped after cancellation.
func (t *Tracker) Skipped() int {
	return int(t.skippedCount.Load())
}

// Finished returns the number of tasks in any terminal state, including
// skipped ones. The job is finalized when Finished reaches the total.
func (t *Tracker) Finished() int {
	return t.Settled() + t.Skipped()
}

// Dispatched returns how many tasks started executing.
func (t *Tracker) Dispatched() int {
	return int(t.dispatchedCount.Load())
}

// RequestCancel raises the advisory cancellation flag.
// Tasks poll the flag between documents; in-flight work runs to completion.
func (t *Tracker) RequestCancel() {
	t.cancelRequested.Store(true)
}

// CancelRequested reports whether cancellation was requested.
func (t *Tracker) CancelRequested() bool {
	return t.cancelRequested.Load()
}

// SetCurrentDocument records the document currently in flight (best-effort;
// with several workers the value is one of the in-flight refs).
func (t *Tracker) SetCurrentDocument(documentRef string) {
	t.currentDocument.Store(documentRef)
}

// CurrentDocument returns the last recorded in-flight document ref.
func (t *Tracker) CurrentDocument() string {
	v, _ := t.currentDocument.Load().(string)
	return v
}

// FailedDocuments returns a copy of the failure list for status queries.
func (t *Tracker) FailedDocuments() []core.FailedDocument {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]core.FailedDocument, len(t.failed))
	copy(out, t.failed)
	return out
}

// Progress returns the processed fraction as a percentage in [0, 100].
func (t *Tracker) Progress() float64 {
	if t.total == 0 {
		return 0
	}
	return float64(t.Settled()) / float64(t.total) * 100.0
}

// EstimatedRemaining derives the remaining duration from the mean
// per-document time observed so far. Returns nil until at least one document
// has completed.
func (t *Tracker) EstimatedRemaining() *time.Duration {
	settled := int64(t.Settled())
	if settled == 0 {
		return nil
	}
	elapsed := time.Since(t.startTime)
	avg := elapsed / time.Duration(settled)
	remaining := avg * time.Duration(t.total-settled)
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}
