// Package ingestion orchestrates document ingestion jobs.
//
// A submitted source (a file or a folder of documents) is fanned out into one
// task per document. Tasks run concurrently on a bounded worker pool; each
// task extracts text, splits it into sentences, decontextualizes the
// sentences, embeds them, detects semantic boundaries, and upserts the
// resulting chunks. Progress is aggregated through atomic counters owned by
// the coordinator, and cancellation is cooperative: queued tasks are skipped,
// in-flight tasks run to completion.
package ingestion
