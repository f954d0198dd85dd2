package chunking

import "log/slog"

// Detector locates semantic breakpoints in an ordered sequence of sentence
// embeddings. A breakpoint at index i means sentence i begins a new chunk;
// index 0 is always an implicit breakpoint.
type Detector struct {
	policy ThresholdPolicy
	logger *slog.Logger
}

// NewDetector creates a boundary detector with the given threshold policy.
// A nil policy falls back to DefaultPolicy.
func NewDetector(policy ThresholdPolicy) *Detector {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Detector{
		policy: policy,
		logger: slog.Default().With("component", "boundary-detector"),
	}
}

// Detect returns the sorted breakpoint indices for the embedding sequence.
// The result always starts with 0 (for non-empty input) and is strictly
// increasing, so every chunk contains at least one sentence. For fixed input
// and policy the output is exactly reproducible.
func (d *Detector) Detect(embeddings [][]float32) []int {
	if len(embeddings) == 0 {
		return nil
	}
	breakpoints := []int{0}
	if len(embeddings) == 1 {
		return breakpoints
	}

	dissimilarities := make([]float64, len(embeddings)-1)
	for i := 0; i < len(embeddings)-1; i++ {
		dissimilarities[i] = 1 - CosineSimilarity(embeddings[i], embeddings[i+1])
	}

	threshold := d.policy.Threshold(dissimilarities)

	// Strictly exceeding the threshold avoids splitting on a flat signal:
	// uniform dissimilarities never produce interior breakpoints.
	for i, dis := range dissimilarities {
		if dis > threshold {
			breakpoints = append(breakpoints, i+1)
		}
	}

	d.logger.Debug("detected breakpoints",
		"sentences", len(embeddings),
		"threshold", threshold,
		"breakpoints", len(breakpoints))

	return breakpoints
}
