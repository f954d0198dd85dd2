package chunking

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mburaksayici/legal-rag/ai/mock"
	"github.com/mburaksayici/legal-rag/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sentencesFrom(texts ...string) []core.Sentence {
	out := make([]core.Sentence, len(texts))
	for i, text := range texts {
		out[i] = core.Sentence{Index: i, Text: text}
	}
	return out
}

func TestAssembler_GroupsAlongBreakpoints(t *testing.T) {
	sentences := sentencesFrom(
		"The Commission may request information.",
		"The Commission's request shall state the purpose.",
		"The request shall set a time limit.",
		"An information injunction may follow.",
	)

	a := NewAssembler(mock.NewMockEmbedder())
	chunks, err := a.Assemble(context.Background(), "docs/regulation_659.txt", sentences, []int{0, 2})
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "The Commission may request information. The Commission's request shall state the purpose.", chunks[0].Text)
	assert.Equal(t, "The request shall set a time limit. An information injunction may follow.", chunks[1].Text)

	assert.Equal(t, 0, chunks[0].Ordinal)
	assert.Equal(t, 1, chunks[1].Ordinal)
	assert.Equal(t, 0, chunks[0].StartSentence)
	assert.Equal(t, 1, chunks[0].EndSentence)
	assert.Equal(t, 2, chunks[1].StartSentence)
	assert.Equal(t, 3, chunks[1].EndSentence)

	for _, c := range chunks {
		assert.Equal(t, "docs/regulation_659.txt", c.DocumentRef)
		assert.Equal(t, core.ChunkID(c.DocumentRef, c.Ordinal), c.ID)
		assert.NotEmpty(t, c.Embedding)
		assert.False(t, c.InsertedAt.IsZero())
	}
}

func TestAssembler_ChunkCountMatchesBreakpoints(t *testing.T) {
	sentences := sentencesFrom("One.", "Two.", "Three.", "Four.", "Five.")

	a := NewAssembler(mock.NewMockEmbedder())
	chunks, err := a.Assemble(context.Background(), "doc", sentences, []int{0, 1, 3})
	require.NoError(t, err)
	assert.Len(t, chunks, 3)
}

func TestAssembler_Reconstruction(t *testing.T) {
	texts := []string{
		"Aid granted by a Member State shall be notified.",
		"The Commission shall examine the notification.",
		"The examination shall be completed within two months.",
		"Unlawful aid may be recovered.",
		"Recovery shall include interest.",
	}
	sentences := sentencesFrom(texts...)

	a := NewAssembler(mock.NewMockEmbedder())
	chunks, err := a.Assemble(context.Background(), "doc", sentences, []int{0, 2, 3})
	require.NoError(t, err)

	// Concatenating chunks in ordinal order reproduces the sentence sequence
	// with no gaps or duplicates.
	var rebuilt []string
	prevEnd := -1
	for _, c := range chunks {
		rebuilt = append(rebuilt, c.Text)
		assert.Equal(t, prevEnd+1, c.StartSentence)
		prevEnd = c.EndSentence
	}
	assert.Equal(t, len(sentences)-1, prevEnd)
	assert.Equal(t, strings.Join(texts, " "), strings.Join(rebuilt, " "))
}

func TestAssembler_DeterministicIDs(t *testing.T) {
	sentences := sentencesFrom("First sentence.", "Second sentence.", "Third sentence.")

	a := NewAssembler(mock.NewMockEmbedder())
	first, err := a.Assemble(context.Background(), "doc", sentences, []int{0, 2})
	require.NoError(t, err)
	second, err := a.Assemble(context.Background(), "doc", sentences, []int{0, 2})
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Text, second[i].Text)
		assert.Equal(t, first[i].Embedding, second[i].Embedding)
	}
}

func TestAssembler_EmptySentences(t *testing.T) {
	a := NewAssembler(mock.NewMockEmbedder())
	chunks, err := a.Assemble(context.Background(), "doc", nil, nil)
	require.NoError(t, err)
	assert.Nil(t, chunks)
}

func TestAssembler_InvalidBreakpoints(t *testing.T) {
	sentences := sentencesFrom("One.", "Two.", "Three.")
	a := NewAssembler(mock.NewMockEmbedder())

	tests := []struct {
		name        string
		breakpoints []int
	}{
		{"missing leading zero", []int{1, 2}},
		{"empty", nil},
		{"not strictly increasing", []int{0, 2, 2}},
		{"beyond last sentence", []int{0, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Assemble(context.Background(), "doc", sentences, tt.breakpoints)
			assert.True(t, errors.Is(err, ErrInvalidBreakpoints))
		})
	}
}

func TestAssembler_EmbedderFailure(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, core.ErrEmbedding
	}

	a := NewAssembler(embedder)
	_, err := a.Assemble(context.Background(), "doc", sentencesFrom("One."), []int{0})
	assert.True(t, errors.Is(err, core.ErrEmbedding))
}
