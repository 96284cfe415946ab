/*
File: tracker_test.go
Description: Tests for the coverage tracker. Verifies concurrent increment
safety, coverage percentage semantics, merge accumulation, and the reset
behavior that zeroes counts while keeping the signal key set.
*/

package coverage

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTrackerIncrementAndGet tests basic signal accounting.
func TestTrackerIncrementAndGet(t *testing.T) {
	tracker := NewTracker()

	assert.Equal(t, uint64(0), tracker.Get("unknown"))

	tracker.Increment("branch:a", 1)
	tracker.Increment("branch:a", 2)
	assert.Equal(t, uint64(3), tracker.Get("branch:a"))
	assert.Equal(t, 1, tracker.Size())
}

// TestTrackerConcurrentIncrements verifies that simultaneous increments of the
// same signal never lose updates.
func TestTrackerConcurrentIncrements(t *testing.T) {
	tracker := NewTracker()

	const workers = 8
	const perWorker = 1000

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				tracker.Increment("hot", 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(workers*perWorker), tracker.Get("hot"))
}

// TestTrackerPercentageCovered verifies the hit ratio over the known key set.
func TestTrackerPercentageCovered(t *testing.T) {
	tracker := NewTracker()

	// No signals known yet: defined as zero, not NaN.
	assert.Equal(t, 0.0, tracker.PercentageCovered())

	tracker.Initialize("a")
	tracker.Initialize("b")
	tracker.Initialize("c")
	tracker.Initialize("d")
	assert.Equal(t, 0.0, tracker.PercentageCovered())

	tracker.Increment("a", 1)
	assert.InDelta(t, 0.25, tracker.PercentageCovered(), 1e-9)

	tracker.Increment("b", 5)
	tracker.Increment("c", 1)
	tracker.Increment("d", 1)
	assert.InDelta(t, 1.0, tracker.PercentageCovered(), 1e-9)
}

// TestTrackerMerge verifies per-key summation from an execution delta.
func TestTrackerMerge(t *testing.T) {
	tracker := NewTracker()
	tracker.Increment("x", 2)

	tracker.Merge(map[string]uint64{"x": 3, "y": 7})

	assert.Equal(t, uint64(5), tracker.Get("x"))
	assert.Equal(t, uint64(7), tracker.Get("y"))
	assert.Equal(t, 2, tracker.Size())
}

// TestTrackerMergeNew verifies novelty counting: a signal is new exactly once.
func TestTrackerMergeNew(t *testing.T) {
	tracker := NewTracker()
	tracker.Initialize("known")

	// "known" exists but was never hit, so its first hit still counts as new.
	assert.Equal(t, 2, tracker.MergeNew(map[string]uint64{"known": 1, "fresh": 3}))
	assert.Equal(t, 0, tracker.MergeNew(map[string]uint64{"known": 1, "fresh": 1}))

	// Zero-count deltas neither create novelty nor hits.
	assert.Equal(t, 0, tracker.MergeNew(map[string]uint64{"ghost": 0}))
	assert.Equal(t, uint64(2), tracker.Get("known"))
	assert.Equal(t, uint64(4), tracker.Get("fresh"))
}

// TestTrackerMergeNewConcurrent verifies parallel loops sharing a tracker
// cannot both claim the same signal as new coverage.
func TestTrackerMergeNewConcurrent(t *testing.T) {
	tracker := NewTracker()

	const workers = 8
	var total int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				atomic.AddInt64(&total, int64(tracker.MergeNew(map[string]uint64{"shared": 1})))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), total, "a signal must be credited as new exactly once")
	assert.Equal(t, uint64(workers*100), tracker.Get("shared"))
}

// TestTrackerReset verifies reset zeroes counts but keeps the key set.
func TestTrackerReset(t *testing.T) {
	tracker := NewTracker()
	tracker.Increment("a", 4)
	tracker.Increment("b", 1)

	tracker.Reset()

	assert.Equal(t, 2, tracker.Size())
	assert.Equal(t, uint64(0), tracker.Get("a"))
	assert.Equal(t, uint64(0), tracker.Get("b"))
	assert.Equal(t, 0.0, tracker.PercentageCovered())
}

// TestTrackerSnapshotIsCopy verifies callers cannot mutate tracker state
// through a snapshot.
func TestTrackerSnapshotIsCopy(t *testing.T) {
	tracker := NewTracker()
	tracker.Increment("a", 1)

	snap := tracker.Snapshot()
	require.Equal(t, uint64(1), snap["a"])
	snap["a"] = 100
	snap["b"] = 1

	assert.Equal(t, uint64(1), tracker.Get("a"))
	assert.Equal(t, 1, tracker.Size())
}

// TestTrackerManySignals exercises a wider key space.
func TestTrackerManySignals(t *testing.T) {
	tracker := NewTracker()
	for i := 0; i < 100; i++ {
		tracker.Increment(fmt.Sprintf("sig:%d", i), uint64(i+1))
	}

	assert.Equal(t, 100, tracker.Size())
	assert.Equal(t, uint64(100), tracker.Get("sig:99"))
	assert.InDelta(t, 1.0, tracker.PercentageCovered(), 1e-9)
}
