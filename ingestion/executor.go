package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mburaksayici/legal-rag/ai"
	"github.com/mburaksayici/legal-rag/chunking"
	"github.com/mburaksayici/legal-rag/core"
	"github.com/mburaksayici/legal-rag/extract"
	"github.com/mburaksayici/legal-rag/storage"
)

// executor runs the per-document pipeline: extract, split, propositionize,
// embed, detect boundaries, assemble, upsert. Each stage classifies its
// failures through the core error taxonomy so the executor can decide between
// retry, fallback, and permanent task failure.
type executor struct {
	taskRepo      storage.TaskRepository
	chunkRepo     storage.ChunkRepository
	embedder      ai.Embedder
	propositioner ai.Propositioner
	extractor     extract.TextExtractor
	detector      *chunking.Detector
	assembler     *chunking.Assembler
	maxAttempts   int
	baseDelay     time.Duration
	logger        *slog.Logger
}

func newExecutor(
	taskRepo storage.TaskRepository,
	chunkRepo storage.ChunkRepository,
	embedder ai.Embedder,
	propositioner ai.Propositioner,
	extractor extract.TextExtractor,
	detector *chunking.Detector,
	maxAttempts int,
	baseDelay time.Duration,
	logger *slog.Logger,
) *executor {
	return &executor{
		taskRepo:      taskRepo,
		chunkRepo:     chunkRepo,
		embedder:      embedder,
		propositioner: propositioner,
		extractor:     extractor,
		detector:      detector,
		assembler:     chunking.NewAssembler(embedder),
		maxAttempts:   maxAttempts,
		baseDelay:     baseDelay,
		logger:        logger,
	}
}

// rewriteResult tags one sentence with how its text was produced. A fallback
// keeps the original sentence text and records why the rewrite was abandoned.
type rewriteResult struct {
	Text     string
	Fallback bool
	Reason   string
}

// run executes the pipeline for one document task. The returned error is the
// document's permanent failure cause, or nil on success. The task's terminal
// state is written exactly once, here.
func (e *executor) run(ctx context.Context, task *core.DocumentTask) error {
	task.Status = core.TaskStatusRunning
	task.AttemptCount++
	e.putTask(ctx, task)

	// Extraction failures are permanent, no retry
	text, err := e.extractor.Extract(ctx, task.DocumentRef)
	if err != nil {
		return e.fail(ctx, task, err)
	}

	split := chunking.SplitSentences(text)
	if len(split) == 0 {
		return e.succeed(ctx, task, 0)
	}

	results := e.propositionize(ctx, task, split)
	sentences := make([]core.Sentence, len(results))
	for i, r := range results {
		sentences[i] = core.Sentence{Index: i, Text: r.Text}
	}

	texts := make([]string, len(sentences))
	for i, s := range sentences {
		texts[i] = s.Text
	}

	var embeddings [][]float32
	err = e.retryStage(ctx, task, func() error {
		vecs, embedErr := e.embedder.EmbedTexts(ctx, texts)
		if embedErr != nil {
			return embedErr
		}
		if len(vecs) != len(texts) {
			return fmt.Errorf("%w: got %d embeddings for %d sentences", core.ErrEmbedding, len(vecs), len(texts))
		}
		embeddings = vecs
		return nil
	})
	if err != nil {
		return e.fail(ctx, task, err)
	}
	for i := range sentences {
		sentences[i].Embedding = embeddings[i]
	}

	breakpoints := e.detector.Detect(embeddings)

	var chunks []core.Chunk
	err = e.retryStage(ctx, task, func() error {
		assembled, assembleErr := e.assembler.Assemble(ctx, task.DocumentRef, sentences, breakpoints)
		if assembleErr != nil {
			return assembleErr
		}
		chunks = assembled
		return nil
	})
	if err != nil {
		return e.fail(ctx, task, err)
	}

	refs := make([]*core.Chunk, len(chunks))
	for i := range chunks {
		refs[i] = &chunks[i]
	}
	// Delete first so re-ingesting a document that now yields fewer chunks
	// cannot leave stale records behind
	err = e.retryStage(ctx, task, func() error {
		if deleteErr := e.chunkRepo.DeleteChunksByDocument(ctx, task.DocumentRef); deleteErr != nil {
			return fmt.Errorf("%w: %v", core.ErrUpsert, deleteErr)
		}
		if upsertErr := e.chunkRepo.UpsertChunks(ctx, refs...); upsertErr != nil {
			return fmt.Errorf("%w: %v", core.ErrUpsert, upsertErr)
		}
		return nil
	})
	if err != nil {
		return e.fail(ctx, task, err)
	}

	return e.succeed(ctx, task, len(chunks))
}

// propositionize rewrites every sentence, degrading to the original text when
// a rewrite fails after retries. The task's FallbackCount is updated as a
// side effect; a fallback never fails the document.
func (e *executor) propositionize(ctx context.Context, task *core.DocumentTask, sentences []string) []rewriteResult {
	results := make([]rewriteResult, len(sentences))
	for i, sentence := range sentences {
		results[i] = e.rewriteSentence(ctx, sentence)
		if results[i].Fallback {
			task.FallbackCount++
			e.logger.Warn("sentence rewrite fell back to original text",
				"job_id", task.JobID,
				"document_ref", task.DocumentRef,
				"sentence_index", i,
				"reason", results[i].Reason)
		}
	}
	return results
}

func (e *executor) rewriteSentence(ctx context.Context, text string) rewriteResult {
	var rewritten string
	err := RetryWithBackoff(ctx, func() error {
		out, rewriteErr := e.propositioner.Rewrite(ctx, text)
		if rewriteErr != nil {
			return rewriteErr
		}
		rewritten = out
		return nil
	}, e.maxAttempts, e.baseDelay)
	if err != nil {
		return rewriteResult{Text: text, Fallback: true, Reason: err.Error()}
	}
	if strings.TrimSpace(rewritten) == "" {
		return rewriteResult{Text: text, Fallback: true, Reason: "empty rewrite"}
	}
	return rewriteResult{Text: rewritten, Fallback: false}
}

// retryStage wraps a retryable pipeline stage. After a failed attempt the
// task is persisted as retrying so status queries reflect the backoff.
func (e *executor) retryStage(ctx context.Context, task *core.DocumentTask, op func() error) error {
	attempt := 0
	return RetryWithBackoff(ctx, func() error {
		attempt++
		if attempt > 1 {
			task.Status = core.TaskStatusRetrying
			task.AttemptCount++
			e.putTask(ctx, task)
		}
		err := op()
		if err == nil && task.Status == core.TaskStatusRetrying {
			task.Status = core.TaskStatusRunning
			e.putTask(ctx, task)
		}
		return err
	}, e.maxAttempts, e.baseDelay)
}

func (e *executor) succeed(ctx context.Context, task *core.DocumentTask, chunkCount int) error {
	task.Status = core.TaskStatusSucceeded
	task.ChunkCount = chunkCount
	task.LastError = ""
	task.CompletedAt = time.Now().UTC()
	e.putTask(ctx, task)

	e.logger.Info("document ingested",
		"job_id", task.JobID,
		"document_ref", task.DocumentRef,
		"chunks", chunkCount,
		"fallbacks", task.FallbackCount)
	return nil
}

func (e *executor) fail(ctx context.Context, task *core.DocumentTask, cause error) error {
	task.Status = core.TaskStatusFailed
	task.LastError = cause.Error()
	task.CompletedAt = time.Now().UTC()
	e.putTask(ctx, task)

	e.logger.Error("document failed permanently",
		"job_id", task.JobID,
		"document_ref", task.DocumentRef,
		"attempts", task.AttemptCount,
		"err", cause)
	return cause
}

// putTask persists task state best-effort. A storage hiccup while recording
// progress must not fail the document; the terminal outcome is decided by the
// pipeline result, not by bookkeeping writes.
func (e *executor) putTask(ctx context.Context, task *core.DocumentTask) {
	if err := e.taskRepo.PutTask(ctx, task); err != nil && !errors.Is(err, context.Canceled) {
		e.logger.Warn("failed to persist task state",
			"job_id", task.JobID,
			"task_id", task.ID,
			"status", task.Status,
			"err", err)
	}
}
