package core

import (
	"fmt"
)

// Validation errors.
var (
	errEmptyJobID       = fmt.Errorf("job id cannot be empty")
	errEmptySource      = fmt.Errorf("source cannot be empty")
	errNegativeTotal    = fmt.Errorf("total documents cannot be negative")
	errEmptyTaskID      = fmt.Errorf("task id cannot be empty")
	errEmptyDocumentRef = fmt.Errorf("document ref cannot be empty")
	errEmptyChunkText   = fmt.Errorf("chunk text cannot be empty")
	errBadSentenceRange = fmt.Errorf("invalid sentence range")
)

// ValidateIngestionJob validates an IngestionJob according to domain rules.
//
// Validation rules:
//   - ID and Source must not be empty
//   - TotalDocuments must not be negative
//   - Status must be a known job status
//
// Counter consistency (SuccessCount+FailureCount <= TotalDocuments) is also
// enforced; the tracker maintains it, repositories only check it.
func ValidateIngestionJob(job *IngestionJob) error {
	if job == nil {
		return fmt.Errorf("job is nil")
	}
	if job.ID == "" {
		return errEmptyJobID
	}
	if job.Source == "" {
		return errEmptySource
	}
	if job.TotalDocuments < 0 {
		return errNegativeTotal
	}
	if err := ValidateJobStatus(job.Status); err != nil {
		return err
	}
	if job.SuccessCount+job.FailureCount > job.TotalDocuments {
		return fmt.Errorf("processed count %d exceeds total %d",
			job.SuccessCount+job.FailureCount, job.TotalDocuments)
	}
	return nil
}

// ValidateDocumentTask validates a DocumentTask according to domain rules.
func ValidateDocumentTask(task *DocumentTask) error {
	if task == nil {
		return fmt.Errorf("task is nil")
	}
	if task.ID == "" {
		return errEmptyTaskID
	}
	if task.JobID == "" {
		return errEmptyJobID
	}
	if task.DocumentRef == "" {
		return errEmptyDocumentRef
	}
	return ValidateTaskStatus(task.Status)
}

// ValidateChunk validates a Chunk according to domain rules.
//
// NOT validated:
//   - Embedding (may be empty until the assembler has embedded the chunk)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("chunk is nil")
	}
	if chunk.DocumentRef == "" {
		return errEmptyDocumentRef
	}
	if chunk.Text == "" {
		return errEmptyChunkText
	}
	if chunk.Ordinal < 0 {
		return fmt.Errorf("ordinal cannot be negative")
	}
	if chunk.StartSentence < 0 || chunk.EndSentence < chunk.StartSentence {
		return errBadSentenceRange
	}
	return nil
}

// ValidateJobStatus validates that a JobStatus has a known value.
func ValidateJobStatus(status JobStatus) error {
	switch status {
	case JobStatusPending, JobStatusRunning, JobStatusCompleted,
		JobStatusCompletedWithErrors, JobStatusFailed, JobStatusCancelled:
		return nil
	}
	return fmt.Errorf("invalid job status: %q", status)
}

// ValidateTaskStatus validates that a TaskStatus has a known value.
func ValidateTaskStatus(status TaskStatus) error {
	switch status {
	case TaskStatusQueued, TaskStatusRunning, TaskStatusRetrying,
		TaskStatusSucceeded, TaskStatusFailed, TaskStatusCancelled:
		return nil
	}
	return fmt.Errorf("invalid task status: %q", status)
}
