package storage

import (
	"testing"
	"time"

	"github.com/mburaksayici/legal-rag/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalID_RoundTrip(t *testing.T) {
	ids := []core.ID{0, 1, 42, core.IDFromContent("docs/a.pdf#0")}
	for _, id := range ids {
		got, err := UnmarshalID(MarshalID(id))
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestMarshalIngestionJob_RoundTrip(t *testing.T) {
	job := &core.IngestionJob{
		ID:              "job-1",
		Source:          "/data/legal",
		Status:          core.JobStatusCompletedWithErrors,
		TotalDocuments:  10,
		SuccessCount:    8,
		FailureCount:    2,
		CancelRequested: true,
		CreatedAt:       time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		CompletedAt:     time.Date(2026, 3, 14, 9, 26, 53, 589000, time.UTC),
	}

	got, err := UnmarshalIngestionJob(MarshalIngestionJob(job))
	require.NoError(t, err)
	assert.Equal(t, job, got)
}

func TestMarshalIngestionJob_ZeroCompletedAt(t *testing.T) {
	job := &core.IngestionJob{
		ID:        "job-1",
		Source:    "/data/legal",
		Status:    core.JobStatusRunning,
		CreatedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}

	got, err := UnmarshalIngestionJob(MarshalIngestionJob(job))
	require.NoError(t, err)
	assert.True(t, got.CompletedAt.IsZero())
}

func TestMarshalDocumentTask_RoundTrip(t *testing.T) {
	task := &core.DocumentTask{
		ID:            "task-3",
		JobID:         "job-1",
		DocumentRef:   "/data/legal/regulation_659.pdf",
		Status:        core.TaskStatusFailed,
		AttemptCount:  3,
		LastError:     "embedding service unavailable",
		ChunkCount:    0,
		FallbackCount: 2,
		CreatedAt:     time.Date(2026, 3, 14, 9, 1, 0, 0, time.UTC),
	}

	got, err := UnmarshalDocumentTask(MarshalDocumentTask(task))
	require.NoError(t, err)
	assert.Equal(t, task, got)
}

func TestMarshalChunk_RoundTrip(t *testing.T) {
	chunk := &core.Chunk{
		ID:            core.ChunkID("/data/legal/regulation_659.pdf", 4),
		DocumentRef:   "/data/legal/regulation_659.pdf",
		Ordinal:       4,
		Text:          "The Commission's request shall state the purpose of the information required.",
		Embedding:     []float32{0.12, -0.7, 0.33, 0.99},
		StartSentence: 20,
		EndSentence:   24,
		InsertedAt:    time.Date(2026, 3, 14, 9, 2, 0, 0, time.UTC),
	}

	got, err := UnmarshalChunk(MarshalChunk(chunk))
	require.NoError(t, err)
	assert.Equal(t, chunk, got)
}

func TestMarshalChunk_EmptyEmbedding(t *testing.T) {
	chunk := &core.Chunk{
		ID:          core.ChunkID("doc", 0),
		DocumentRef: "doc",
		Text:        "text",
		InsertedAt:  time.Unix(0, 0).UTC(),
	}

	got, err := UnmarshalChunk(MarshalChunk(chunk))
	require.NoError(t, err)
	assert.Nil(t, got.Embedding)
	assert.Equal(t, chunk.Text, got.Text)
}

func TestUnmarshalChunk_Truncated(t *testing.T) {
	chunk := &core.Chunk{
		ID:          core.ChunkID("doc", 0),
		DocumentRef: "doc",
		Text:        "some chunk text",
		Embedding:   []float32{0.1, 0.2},
		InsertedAt:  time.Unix(0, 0).UTC(),
	}
	data := MarshalChunk(chunk)

	_, err := UnmarshalChunk(data[:len(data)/2])
	assert.Error(t, err)
}
