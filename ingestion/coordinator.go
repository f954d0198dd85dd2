package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/mburaksayici/legal-rag/ai"
	"github.com/mburaksayici/legal-rag/chunking"
	"github.com/mburaksayici/legal-rag/core"
	"github.com/mburaksayici/legal-rag/extract"
	"github.com/mburaksayici/legal-rag/storage"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
)

// jobState is the in-memory companion of a persisted job record. The tracker
// owns the live counters; the mutex serializes writes of the record itself.
type jobState struct {
	mu      sync.Mutex
	job     *core.IngestionJob
	tracker *Tracker
	once    sync.Once
	done    chan struct{}
}

// Coordinator fans an ingestion request out into per-document tasks and runs
// them on a bounded worker pool. It owns the job lifecycle: task executors
// report outcomes through the tracker and never write job records themselves.
type Coordinator struct {
	jobRepo   storage.JobRepository
	taskRepo  storage.TaskRepository
	chunkRepo storage.ChunkRepository
	provider  ai.Provider
	extractor extract.TextExtractor
	policy    chunking.ThresholdPolicy

	pool        *ants.Pool
	executor    *executor
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger

	mu     sync.Mutex
	states map[string]*jobState
	closed bool
	wg     sync.WaitGroup
}

// Option configures a Coordinator.
type Option func(*Coordinator) error

// WithPoolSize sets the worker pool size for concurrent document processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(c *Coordinator) error {
		if size < 1 {
			size = 1
		}
		if c.pool != nil {
			c.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		c.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithThresholdPolicy sets the boundary detection threshold policy.
// Default is chunking.DefaultPolicy().
func WithThresholdPolicy(policy chunking.ThresholdPolicy) Option {
	return func(c *Coordinator) error {
		if policy != nil {
			c.policy = policy
		}
		return nil
	}
}

// WithRetry configures retryable pipeline stages: maximum attempts per stage
// and the base delay of the exponential backoff.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(c *Coordinator) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		c.maxAttempts = maxAttempts
		c.baseDelay = baseDelay
		return nil
	}
}

// NewCoordinator creates an ingestion coordinator.
func NewCoordinator(
	jobRepo storage.JobRepository,
	taskRepo storage.TaskRepository,
	chunkRepo storage.ChunkRepository,
	provider ai.Provider,
	extractor extract.TextExtractor,
	opts ...Option,
) (*Coordinator, error) {
	if jobRepo == nil {
		return nil, ErrJobRepositoryRequired
	}
	if taskRepo == nil {
		return nil, ErrTaskRepositoryRequired
	}
	if chunkRepo == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		jobRepo:     jobRepo,
		taskRepo:    taskRepo,
		chunkRepo:   chunkRepo,
		provider:    provider,
		extractor:   extractor,
		policy:      chunking.DefaultPolicy(),
		pool:        pool,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		logger:      slog.Default().With("component", "ingestion-coordinator"),
		states:      make(map[string]*jobState),
	}

	for _, opt := range opts {
		if optErr := opt(c); optErr != nil {
			c.pool.Release()
			return nil, optErr
		}
	}

	c.executor = newExecutor(
		taskRepo,
		chunkRepo,
		provider.Embedder(),
		provider.Propositioner(),
		extractor,
		chunking.NewDetector(c.policy),
		c.maxAttempts,
		c.baseDelay,
		c.logger,
	)

	return c, nil
}

// Submit creates an ingestion job for the given source (a document file or a
// folder of documents), fans it out into one task per document, and starts
// processing asynchronously. Returns the job ID for status queries.
//
// An empty or unreadable source fails immediately with no job record: the
// error wraps core.ErrSourceNotFound for an unreadable source and
// core.ErrCoordinator for a source with no supported documents.
func (c *Coordinator) Submit(ctx context.Context, source string) (string, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return "", ErrCoordinatorClosed
	}
	c.mu.Unlock()

	refs, err := extract.EnumerateDocuments(source)
	if err != nil {
		return "", err
	}
	if len(refs) == 0 {
		return "", fmt.Errorf("%w: no supported documents in %q", core.ErrCoordinator, source)
	}

	job := &core.IngestionJob{
		ID:             uuid.NewString(),
		Source:         source,
		Status:         core.JobStatusPending,
		TotalDocuments: len(refs),
		CreatedAt:      time.Now().UTC(),
	}
	if err := c.jobRepo.PutJob(ctx, job); err != nil {
		return "", fmt.Errorf("%w: persisting job: %v", core.ErrCoordinator, err)
	}

	tasks := make([]*core.DocumentTask, len(refs))
	for i, ref := range refs {
		tasks[i] = &core.DocumentTask{
			ID:          uuid.NewString(),
			JobID:       job.ID,
			DocumentRef: ref,
			Status:      core.TaskStatusQueued,
			CreatedAt:   time.Now().UTC(),
		}
		if err := c.taskRepo.PutTask(ctx, tasks[i]); err != nil {
			job.Status = core.JobStatusFailed
			job.CompletedAt = time.Now().UTC()
			if putErr := c.jobRepo.PutJob(ctx, job); putErr != nil {
				c.logger.Error("failed to record job failure", "job_id", job.ID, "err", putErr)
			}
			return "", fmt.Errorf("%w: persisting task for %q: %v", core.ErrCoordinator, ref, err)
		}
	}

	state := &jobState{
		job:     job,
		tracker: NewTracker(len(refs)),
		done:    make(chan struct{}),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return "", ErrCoordinatorClosed
	}
	c.states[job.ID] = state
	c.mu.Unlock()

	job.Status = core.JobStatusRunning
	if err := c.jobRepo.PutJob(ctx, job); err != nil {
		c.logger.Warn("failed to persist running status", "job_id", job.ID, "err", err)
	}

	c.logger.Info("ingestion job submitted",
		"job_id", job.ID,
		"source", source,
		"documents", len(refs))

	c.wg.Add(1)
	go c.dispatch(state, tasks)

	return job.ID, nil
}

// dispatch feeds tasks to the worker pool. Pool submission blocks when every
// worker is busy, so the loop runs off the caller's goroutine and Submit
// returns as soon as the job is persisted and registered.
func (c *Coordinator) dispatch(state *jobState, tasks []*core.DocumentTask) {
	defer c.wg.Done()
	for _, task := range tasks {
		task := task
		c.wg.Add(1)
		if err := c.pool.Submit(func() { c.runTask(state, task) }); err != nil {
			c.wg.Done()
			c.logger.Error("failed to dispatch task",
				"job_id", state.job.ID,
				"document_ref", task.DocumentRef,
				"err", err)
			state.tracker.IncrementFailure(task.DocumentRef, err.Error())
			c.persistProgress(context.Background(), state)
			c.maybeFinalize(state)
		}
	}
}

// runTask executes one task on a pool worker. Tasks observing an earlier
// cancellation request are skipped with a terminal cancelled state; in-flight
// work is never interrupted.
func (c *Coordinator) runTask(state *jobState, task *core.DocumentTask) {
	defer c.wg.Done()
	ctx := context.Background()
	tracker := state.tracker

	if tracker.CancelRequested() {
		task.Status = core.TaskStatusCancelled
		task.CompletedAt = time.Now().UTC()
		if err := c.taskRepo.PutTask(ctx, task); err != nil {
			c.logger.Warn("failed to persist cancelled task", "task_id", task.ID, "err", err)
		}
		tracker.IncrementSkipped()
	} else {
		tracker.MarkDispatched()
		tracker.SetCurrentDocument(task.DocumentRef)
		if err := c.executor.run(ctx, task); err != nil {
			tracker.IncrementFailure(task.DocumentRef, err.Error())
		} else {
			tracker.IncrementSuccess()
		}
		c.persistProgress(ctx, state)
	}

	c.maybeFinalize(state)
}

// persistProgress writes the current counters into the job record. Writes are
// serialized per job so a slower goroutine can never clobber newer counts
// with stale ones.
func (c *Coordinator) persistProgress(ctx context.Context, state *jobState) {
	state.mu.Lock()
	defer state.mu.Unlock()

	if state.job.Status.Terminal() {
		return
	}
	state.job.SuccessCount = state.tracker.SuccessCount()
	state.job.FailureCount = state.tracker.FailureCount()
	if err := c.jobRepo.PutJob(ctx, state.job); err != nil {
		c.logger.Warn("failed to persist job progress", "job_id", state.job.ID, "err", err)
	}
}

// maybeFinalize resolves the job's terminal status once every task has
// reached a terminal state.
func (c *Coordinator) maybeFinalize(state *jobState) {
	if state.tracker.Finished() < state.job.TotalDocuments {
		return
	}
	state.once.Do(func() {
		state.mu.Lock()
		defer state.mu.Unlock()

		tracker := state.tracker
		job := state.job
		job.SuccessCount = tracker.SuccessCount()
		job.FailureCount = tracker.FailureCount()

		switch {
		case tracker.CancelRequested() && tracker.Dispatched() == 0:
			job.Status = core.JobStatusCancelled
		case tracker.FailureCount() == 0 && tracker.Skipped() == 0:
			job.Status = core.JobStatusCompleted
		default:
			job.Status = core.JobStatusCompletedWithErrors
		}
		job.CompletedAt = time.Now().UTC()

		if err := c.jobRepo.PutJob(context.Background(), job); err != nil {
			c.logger.Error("failed to persist terminal job status", "job_id", job.ID, "err", err)
		}

		c.logger.Info("ingestion job finished",
			"job_id", job.ID,
			"status", job.Status,
			"succeeded", job.SuccessCount,
			"failed", job.FailureCount,
			"skipped", tracker.Skipped())

		close(state.done)
	})
}

// Status returns a read-only snapshot of a job. For live jobs the snapshot is
// built from in-memory counters; after a restart it is reconstructed from
// persisted records. Returns an error wrapping core.ErrJobNotFound for an
// unknown job ID.
func (c *Coordinator) Status(ctx context.Context, jobID string) (*core.JobSnapshot, error) {
	c.mu.Lock()
	state := c.states[jobID]
	c.mu.Unlock()

	if state != nil {
		state.mu.Lock()
		job := *state.job
		state.mu.Unlock()

		tracker := state.tracker
		if !job.Status.Terminal() {
			job.SuccessCount = tracker.SuccessCount()
			job.FailureCount = tracker.FailureCount()
		}
		snapshot := &core.JobSnapshot{
			Job:                job,
			ProgressPercentage: tracker.Progress(),
			FailedDocuments:    tracker.FailedDocuments(),
		}
		if !job.Status.Terminal() {
			snapshot.EstimatedRemaining = tracker.EstimatedRemaining()
			snapshot.CurrentDocument = tracker.CurrentDocument()
		}
		return snapshot, nil
	}

	job, err := c.jobRepo.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", core.ErrJobNotFound, jobID)
		}
		return nil, err
	}

	snapshot := &core.JobSnapshot{Job: *job}
	if job.TotalDocuments > 0 {
		snapshot.ProgressPercentage = float64(job.ProcessedCount()) / float64(job.TotalDocuments) * 100.0
	}

	tasks, err := c.taskRepo.GetTasksByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	for _, task := range tasks {
		if task.Status == core.TaskStatusFailed {
			snapshot.FailedDocuments = append(snapshot.FailedDocuments, core.FailedDocument{
				DocumentRef:  task.DocumentRef,
				ErrorSummary: task.LastError,
			})
		}
	}

	return snapshot, nil
}

// Cancel requests cooperative cancellation of a job. Queued tasks are skipped;
// in-flight tasks run to completion. Cancelling a job that already reached a
// terminal state is a no-op.
func (c *Coordinator) Cancel(ctx context.Context, jobID string) error {
	c.mu.Lock()
	state := c.states[jobID]
	c.mu.Unlock()

	if state != nil {
		state.tracker.RequestCancel()

		state.mu.Lock()
		defer state.mu.Unlock()
		if state.job.Status.Terminal() {
			return nil
		}
		state.job.CancelRequested = true
		if err := c.jobRepo.PutJob(ctx, state.job); err != nil {
			c.logger.Warn("failed to persist cancel request", "job_id", jobID, "err", err)
		}

		c.logger.Info("cancellation requested", "job_id", jobID)
		return nil
	}

	job, err := c.jobRepo.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: %q", core.ErrJobNotFound, jobID)
		}
		return err
	}
	if job.Status.Terminal() {
		return nil
	}
	job.CancelRequested = true
	return c.jobRepo.PutJob(ctx, job)
}

// Jobs lists persisted jobs, most recent first. limit <= 0 means no limit.
func (c *Coordinator) Jobs(ctx context.Context, limit int) ([]*core.IngestionJob, error) {
	return c.jobRepo.ListJobs(ctx, limit)
}

// WaitForCompletion blocks until the job reaches a terminal state or the
// context is done, then returns its final snapshot. Only jobs submitted by
// this coordinator instance can be waited on.
func (c *Coordinator) WaitForCompletion(ctx context.Context, jobID string) (*core.JobSnapshot, error) {
	c.mu.Lock()
	state := c.states[jobID]
	c.mu.Unlock()

	if state == nil {
		return nil, fmt.Errorf("%w: %q", core.ErrJobNotFound, jobID)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-state.done:
		return c.Status(ctx, jobID)
	}
}

// Close stops accepting submissions, waits for in-flight tasks to finish, and
// releases the worker pool. The coordinator should not be used after Close.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.wg.Wait()
	c.pool.Release()
	return nil
}
