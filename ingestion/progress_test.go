package ingestion

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_ConcurrentIncrements(t *testing.T) {
	tracker := NewTracker(200)

	var wg sync.WaitGroup
	for i := 0; i < 150; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.IncrementSuccess()
		}()
	}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			tracker.IncrementFailure("doc", "boom")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 150, tracker.SuccessCount())
	assert.Equal(t, 50, tracker.FailureCount())
	assert.Equal(t, 200, tracker.Settled())
	assert.Len(t, tracker.FailedDocuments(), 50)
	assert.InDelta(t, 100.0, tracker.Progress(), 0.001)
}

func TestTracker_SettledNeverExceedsTotal(t *testing.T) {
	tracker := NewTracker(10)
	for i := 0; i < 7; i++ {
		tracker.IncrementSuccess()
	}
	for i := 0; i < 3; i++ {
		tracker.IncrementFailure("doc", "err")
	}
	assert.Equal(t, 10, tracker.Settled())
	assert.Equal(t, 10, tracker.Finished())
}

func TestTracker_SkippedCountsAsFinishedNotProcessed(t *testing.T) {
	tracker := NewTracker(5)
	tracker.IncrementSuccess()
	tracker.IncrementSkipped()
	tracker.IncrementSkipped()

	assert.Equal(t, 1, tracker.Settled())
	assert.Equal(t, 3, tracker.Finished())
	assert.Equal(t, 2, tracker.Skipped())
}

func TestTracker_CancelFlag(t *testing.T) {
	tracker := NewTracker(3)
	assert.False(t, tracker.CancelRequested())

	tracker.RequestCancel()
	assert.True(t, tracker.CancelRequested())

	// Idempotent
	tracker.RequestCancel()
	assert.True(t, tracker.CancelRequested())
}

func TestTracker_EstimatedRemaining(t *testing.T) {
	tracker := NewTracker(4)
	assert.Nil(t, tracker.EstimatedRemaining(), "no estimate before the first completion")

	time.Sleep(5 * time.Millisecond)
	tracker.IncrementSuccess()

	remaining := tracker.EstimatedRemaining()
	require.NotNil(t, remaining)
	assert.Greater(t, *remaining, time.Duration(0))
}

func TestTracker_EstimatedRemainingAtCompletion(t *testing.T) {
	tracker := NewTracker(2)
	tracker.IncrementSuccess()
	tracker.IncrementSuccess()

	remaining := tracker.EstimatedRemaining()
	require.NotNil(t, remaining)
	assert.Equal(t, time.Duration(0), *remaining)
}

func TestTracker_CurrentDocument(t *testing.T) {
	tracker := NewTracker(2)
	assert.Empty(t, tracker.CurrentDocument())

	tracker.SetCurrentDocument("/data/legal/a.pdf")
	assert.Equal(t, "/data/legal/a.pdf", tracker.CurrentDocument())
}

func TestTracker_EmptyTotalProgress(t *testing.T) {
	tracker := NewTracker(0)
	assert.Equal(t, 0.0, tracker.Progress())
}
