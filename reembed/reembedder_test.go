package reembed

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mburaksayici/legal-rag/ai/mock"
	"github.com/mburaksayici/legal-rag/core"
)

func testConfig() *Config {
	return &Config{
		ReportInterval: 1,
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 100, cfg.ReportInterval)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
}

func TestReembedder_EmptyDatabase(t *testing.T) {
	repo := newTestChunkRepo(t)

	var buf bytes.Buffer
	r := NewReembedder(repo, mock.NewMockEmbedder(), testConfig(), &buf)

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, buf.String(), "No chunks found")
}

func TestReembedder_ReplacesEmbeddings(t *testing.T) {
	repo := newTestChunkRepo(t)
	seedDocument(t, repo, "acts/reg-1.txt", "Article one.", "Article two.")
	seedDocument(t, repo, "acts/reg-2.txt", "Single article.")

	replacement := []float32{0.1, 0.2, 0.3}
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = replacement
		}
		return out, nil
	}

	var buf bytes.Buffer
	r := NewReembedder(repo, embedder, testConfig(), &buf)
	require.NoError(t, r.Run(context.Background()))

	for _, ref := range []string{"acts/reg-1.txt", "acts/reg-2.txt"} {
		chunks, err := repo.GetChunksByDocument(context.Background(), ref)
		require.NoError(t, err)
		require.NotEmpty(t, chunks)
		for _, chunk := range chunks {
			assert.Equal(t, replacement, chunk.Embedding, "chunk %s should carry the new vector", chunk.ID)
		}
	}

	assert.Contains(t, buf.String(), "Starting reembedding of 3 chunks")
	assert.Contains(t, buf.String(), "Reembedding complete")
}

func TestReembedder_PreservesTextAndOrdinals(t *testing.T) {
	repo := newTestChunkRepo(t)
	original := seedDocument(t, repo, "acts/reg-1.txt", "Article one.", "Article two.")

	var buf bytes.Buffer
	r := NewReembedder(repo, mock.NewMockEmbedder(), testConfig(), &buf)
	require.NoError(t, r.Run(context.Background()))

	chunks, err := repo.GetChunksByDocument(context.Background(), "acts/reg-1.txt")
	require.NoError(t, err)
	require.Len(t, chunks, len(original))

	for i, chunk := range chunks {
		assert.Equal(t, original[i].ID, chunk.ID)
		assert.Equal(t, original[i].Text, chunk.Text)
		assert.Equal(t, original[i].Ordinal, chunk.Ordinal)
	}
}

func TestReembedder_RetriesTransientFailures(t *testing.T) {
	repo := newTestChunkRepo(t)
	seedDocument(t, repo, "acts/reg-1.txt", "Article one.")

	var calls atomic.Int64
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if calls.Add(1) < 3 {
			return nil, assert.AnError
		}
		out := make([][]float32, len(texts))
		for i, text := range texts {
			out[i] = mock.DeterministicVector(text+" v2", 8)
		}
		return out, nil
	}

	var buf bytes.Buffer
	r := NewReembedder(repo, embedder, testConfig(), &buf)
	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, int64(3), calls.Load())
}

func TestReembedder_FailsAfterRetriesExhausted(t *testing.T) {
	repo := newTestChunkRepo(t)
	seedDocument(t, repo, "acts/reg-1.txt", "Article one.")

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, assert.AnError
	}

	var buf bytes.Buffer
	r := NewReembedder(repo, embedder, testConfig(), &buf)
	err := r.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "acts/reg-1.txt")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestReembedder_CountMismatch(t *testing.T) {
	repo := newTestChunkRepo(t)
	seedDocument(t, repo, "acts/reg-1.txt", "Article one.", "Article two.")

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{0.5}}, nil
	}

	var buf bytes.Buffer
	r := NewReembedder(repo, embedder, testConfig(), &buf)
	err := r.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding count mismatch")
}

func TestReembedder_NilConfigUsesDefaults(t *testing.T) {
	repo := newTestChunkRepo(t)

	var buf bytes.Buffer
	r := NewReembedder(repo, mock.NewMockEmbedder(), nil, &buf)

	require.NotNil(t, r.config)
	assert.Equal(t, DefaultConfig().MaxRetries, r.config.MaxRetries)
}

func TestBatchProcessor_EmptyBatch(t *testing.T) {
	repo := newTestChunkRepo(t)

	bp := NewBatchProcessor(repo, mock.NewMockEmbedder(), 1, time.Millisecond)
	assert.NoError(t, bp.Process(context.Background(), nil))
	assert.NoError(t, bp.Process(context.Background(), []*core.Chunk{}))
}
