/*
File: tracker.go
Description: Coverage signal tracker for the Adaptix Fuzzer. Maintains a
thread-safe mapping from named coverage signal to a monotonically increasing
hit count. Shared between the orchestration loop and reporting sinks, so all
operations hold a reader/writer lock: reads proceed concurrently with each
other, writes are exclusive, and a single logical increment is never
observable as two separate steps.
*/

package coverage

import (
	"sync"
)

// Tracker maps signal names to hit counts. A signal once observed is never
// removed and counts never decrease except through an explicit Reset, which
// zeroes counts but keeps the key set.
type Tracker struct {
	signals map[string]uint64
	mu      sync.RWMutex
}

// NewTracker creates an empty coverage tracker.
func NewTracker() *Tracker {
	return &Tracker{
		signals: make(map[string]uint64),
	}
}

// Initialize creates a zero entry for the signal if it is absent.
// An existing count is left untouched.
func (t *Tracker) Initialize(signal string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.signals[signal]; !exists {
		t.signals[signal] = 0
	}
}

// Increment adds amount to the signal's hit count, creating the entry if
// needed. The create-then-increment is atomic as a unit.
func (t *Tracker) Increment(signal string, amount uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.signals[signal] += amount
}

// Get returns the hit count for a signal, or 0 if it was never observed.
func (t *Tracker) Get(signal string) uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.signals[signal]
}

// Snapshot returns a defensive copy of the full signal set.
func (t *Tracker) Snapshot() map[string]uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snapshot := make(map[string]uint64, len(t.signals))
	for signal, count := range t.signals {
		snapshot[signal] = count
	}
	return snapshot
}

// PercentageCovered returns the fraction of known signals with a nonzero hit
// count, in [0, 1]. An empty tracker reports 0.
func (t *Tracker) PercentageCovered() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.signals) == 0 {
		return 0.0
	}

	hit := 0
	for _, count := range t.signals {
		if count > 0 {
			hit++
		}
	}
	return float64(hit) / float64(len(t.signals))
}

// Merge folds another signal set into this tracker, summing counts per key.
// The key set becomes the union of both sets.
func (t *Tracker) Merge(other map[string]uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for signal, count := range other {
		t.signals[signal] += count
	}
}

// MergeNew folds another signal set into this tracker like Merge and reports
// how many of its signals had never been hit before. The novelty check and
// the merge happen under one write lock, so parallel loops sharing a tracker
// cannot both credit the same signal as new coverage.
func (t *Tracker) MergeNew(other map[string]uint64) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	newSignals := 0
	for signal, count := range other {
		if count > 0 && t.signals[signal] == 0 {
			newSignals++
		}
		t.signals[signal] += count
	}
	return newSignals
}

// Reset zeroes all existing counts without removing any key.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for signal := range t.signals {
		t.signals[signal] = 0
	}
}

// Size returns the number of known signals.
func (t *Tracker) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.signals)
}
