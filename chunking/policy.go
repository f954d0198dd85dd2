package chunking

import (
	"math"
	"sort"
)

// ThresholdPolicy derives the breakpoint threshold from the dissimilarity
// signal of one document. A jump is declared a breakpoint when it strictly
// exceeds the returned threshold, so the statistic adapts to each document's
// own signal rather than assuming a fixed constant.
type ThresholdPolicy interface {
	// Threshold returns the cut-off for the given adjacent-sentence
	// dissimilarity values. Called once per document with the full signal.
	Threshold(dissimilarities []float64) float64
}

// PercentilePolicy places breakpoints at dissimilarities above the given
// percentile of the document's signal, using linear interpolation between
// the two nearest ranks.
type PercentilePolicy struct {
	// Percentile in [0, 100]. Higher values produce fewer, larger chunks.
	Percentile float64
}

// Threshold returns the interpolated percentile of the dissimilarity signal.
func (p PercentilePolicy) Threshold(dissimilarities []float64) float64 {
	if len(dissimilarities) == 0 {
		return 0
	}

	sorted := make([]float64, len(dissimilarities))
	copy(sorted, dissimilarities)
	sort.Float64s(sorted)

	pct := p.Percentile
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	rank := pct / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// StdDevPolicy places breakpoints at dissimilarities above the signal's mean
// plus a configured number of standard deviations.
type StdDevPolicy struct {
	// Multiplier scales the standard deviation added to the mean.
	Multiplier float64
}

// Threshold returns mean + Multiplier * stddev of the dissimilarity signal.
func (p StdDevPolicy) Threshold(dissimilarities []float64) float64 {
	if len(dissimilarities) == 0 {
		return 0
	}

	var sum float64
	for _, d := range dissimilarities {
		sum += d
	}
	mean := sum / float64(len(dissimilarities))

	var variance float64
	for _, d := range dissimilarities {
		variance += (d - mean) * (d - mean)
	}
	variance /= float64(len(dissimilarities))

	return mean + p.Multiplier*math.Sqrt(variance)
}

// AbsolutePolicy places breakpoints at dissimilarities above a fixed value,
// independent of the document's own signal.
type AbsolutePolicy struct {
	Value float64
}

// Threshold returns the fixed cut-off.
func (p AbsolutePolicy) Threshold([]float64) float64 {
	return p.Value
}

// DefaultPolicy is the threshold policy used when none is configured.
// The 85th percentile tracks the reference segmentation behavior for the
// legal corpora this pipeline was tuned on.
func DefaultPolicy() ThresholdPolicy {
	return PercentilePolicy{Percentile: 85}
}
