package chunking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// region returns n copies of the same unit vector so intra-region
// dissimilarity is exactly zero.
func region(v []float32, n int) [][]float32 {
	out := make([][]float32, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestDetector_EmptyInput(t *testing.T) {
	d := NewDetector(nil)
	assert.Nil(t, d.Detect(nil))
}

func TestDetector_SingleSentence(t *testing.T) {
	d := NewDetector(nil)
	got := d.Detect([][]float32{{1, 0, 0}})
	assert.Equal(t, []int{0}, got)
}

func TestDetector_UniformTopic(t *testing.T) {
	// Identical embeddings produce a flat dissimilarity signal; the strict
	// comparison must not split a single-topic document.
	d := NewDetector(nil)
	got := d.Detect(region([]float32{0.3, 0.7, 0.2}, 12))
	assert.Equal(t, []int{0}, got)
}

func TestDetector_TwoClusters(t *testing.T) {
	// Four sentences about one topic, then four about another: the single
	// large jump between index 3 and 4 is the only breakpoint.
	embeddings := append(
		region([]float32{1, 0}, 4),
		region([]float32{0, 1}, 4)...,
	)

	d := NewDetector(nil)
	got := d.Detect(embeddings)
	assert.Equal(t, []int{0, 4}, got)
}

func TestDetector_SixStableRegions(t *testing.T) {
	// Six stable regions of five sentences each, mirroring the reference
	// legal document whose transitions sit at the procedural topic shifts
	// (request purpose, information injunction, and so on). Five interior
	// jumps must yield six chunks.
	regions := [][]float32{
		{1, 0, 0, 0, 0, 0},
		{0, 1, 0, 0, 0, 0},
		{0, 0, 1, 0, 0, 0},
		{0, 0, 0, 1, 0, 0},
		{0, 0, 0, 0, 1, 0},
		{0, 0, 0, 0, 0, 1},
	}
	var embeddings [][]float32
	for _, r := range regions {
		embeddings = append(embeddings, region(r, 5)...)
	}

	d := NewDetector(nil)
	got := d.Detect(embeddings)
	assert.Equal(t, []int{0, 5, 10, 15, 20, 25}, got)
}

func TestDetector_StrictlyIncreasingOutput(t *testing.T) {
	embeddings := append(
		region([]float32{1, 0}, 2),
		append(
			region([]float32{0, 1}, 1),
			region([]float32{1, 0}, 3)...,
		)...,
	)

	d := NewDetector(AbsolutePolicy{Value: 0.5})
	got := d.Detect(embeddings)

	assert.Equal(t, 0, got[0])
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i], got[i-1], "every chunk must contain at least one sentence")
	}
}

func TestDetector_Deterministic(t *testing.T) {
	embeddings := append(
		region([]float32{0.9, 0.1, 0.2}, 3),
		region([]float32{0.1, 0.8, 0.4}, 3)...,
	)

	d := NewDetector(nil)
	first := d.Detect(embeddings)
	second := d.Detect(embeddings)
	assert.Equal(t, first, second)
}

func TestDetector_AbsolutePolicy(t *testing.T) {
	embeddings := append(
		region([]float32{1, 0}, 2),
		region([]float32{0, 1}, 2)...,
	)

	// Jump dissimilarity is 1.0; a fixed threshold above it suppresses the split
	high := NewDetector(AbsolutePolicy{Value: 1.5})
	assert.Equal(t, []int{0}, high.Detect(embeddings))

	low := NewDetector(AbsolutePolicy{Value: 0.5})
	assert.Equal(t, []int{0, 2}, low.Detect(embeddings))
}
