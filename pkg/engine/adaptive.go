/*
File: adaptive.go
Description: Adaptive mutation selection engine for the Adaptix Fuzzer.
Chooses the mutator for each iteration by utility-weighted roulette sampling
over per-mutator feedback statistics, with a uniform bootstrap phase so every
mutator gets a fair initial trial and an anti-starvation score floor so no
mutator's selection probability ever reaches zero.
*/

package engine

import (
	"fmt"

	"github.com/adaptixlabs/adaptix-fuzzer/pkg/interfaces"
)

const (
	// DefaultBootstrapThreshold is the minimum number of recorded executions
	// every mutator must accumulate before utility scoring replaces uniform
	// selection.
	DefaultBootstrapThreshold = 10

	// utilityFloor guarantees every mutator retains nonzero selection
	// probability regardless of how poorly it has performed.
	utilityFloor = 0.1

	// Utility score weights: coverage discovery dominates, crash discovery
	// matters, raw speed breaks ties.
	coverageWeight = 0.6
	crashWeight    = 0.3
	speedWeight    = 0.1
)

// AdaptiveEngine selects mutators proportionally to their historical utility.
type AdaptiveEngine struct {
	engineCore
	bootstrapThreshold int64
}

// NewAdaptiveEngine creates an adaptive engine seeded for reproducible runs.
// A zero seed derives one from the clock.
func NewAdaptiveEngine(seed int64) *AdaptiveEngine {
	return &AdaptiveEngine{
		engineCore:         newEngineCore(seed),
		bootstrapThreshold: DefaultBootstrapThreshold,
	}
}

// SetBootstrapThreshold overrides the minimum-sample threshold. Values below 1
// are clamped to 1.
func (e *AdaptiveEngine) SetBootstrapThreshold(threshold int64) {
	if threshold < 1 {
		threshold = 1
	}
	e.bootstrapThreshold = threshold
}

// SelectMutator picks the mutator for the next iteration. While every
// registered mutator is still below the bootstrap threshold, selection is
// uniform; afterwards scores are treated as unnormalized weights and one
// mutator is sampled with probability proportional to its weight.
func (e *AdaptiveEngine) SelectMutator() (interfaces.Mutator, error) {
	if len(e.mutators) == 0 {
		return nil, fmt.Errorf("no mutators registered")
	}

	if e.inBootstrap() {
		return e.selectUniform(), nil
	}

	scores := e.utilityScores()
	total := 0.0
	for _, score := range scores {
		total += score
	}

	draw := e.rng.Float64() * total
	cumulative := 0.0
	for i, score := range scores {
		cumulative += score
		if draw < cumulative {
			return e.mutators[i], nil
		}
	}

	// Floating point rounding pushed the draw past every cumulative band;
	// fall back to the last mutator in iteration order.
	return e.mutators[len(e.mutators)-1], nil
}

// Mutate selects a mutator and applies it to the seed in one call, returning
// the candidate and the mutator used so the caller can report feedback.
func (e *AdaptiveEngine) Mutate(seed []byte) ([]byte, interfaces.Mutator, error) {
	m, err := e.SelectMutator()
	if err != nil {
		return nil, nil, err
	}
	return e.applyMutator(m, seed), m, nil
}

// MutateN applies count sequential mutator selections, each operating on the
// previous step's output.
func (e *AdaptiveEngine) MutateN(seed []byte, count int) ([]byte, error) {
	if count < 1 {
		return nil, fmt.Errorf("mutation count must be positive, got %d", count)
	}

	out := append([]byte(nil), seed...)
	for i := 0; i < count; i++ {
		m, err := e.SelectMutator()
		if err != nil {
			return nil, err
		}
		out = e.applyMutator(m, out)
	}
	return out, nil
}

// inBootstrap reports whether every registered mutator is still below the
// minimum-sample threshold.
func (e *AdaptiveEngine) inBootstrap() bool {
	for _, stats := range e.stats {
		if stats.TotalExecutions >= e.bootstrapThreshold {
			return false
		}
	}
	return true
}

// utilityScores computes the selection weight for every mutator in
// registration order.
func (e *AdaptiveEngine) utilityScores() []float64 {
	maxLatency := 0.0
	for _, stats := range e.stats {
		if stats.AverageLatencyMs > maxLatency {
			maxLatency = stats.AverageLatencyMs
		}
	}

	scores := make([]float64, len(e.mutators))
	for i, m := range e.mutators {
		scores[i] = utilityScore(e.stats[m.Name()], maxLatency)
	}
	return scores
}

// utilityScore derives a mutator's selection weight from its statistics.
// A mutator with zero executions scores 1.0: unexplored mutators are treated
// optimistically rather than penalized. This matters when a mutator is
// registered after others have already passed the bootstrap threshold.
func utilityScore(s *MutatorStatistics, maxLatency float64) float64 {
	if s.TotalExecutions == 0 {
		return 1.0
	}

	coverageRate := float64(s.NewCoverageCount) / float64(s.TotalExecutions)
	crashRate := float64(s.CrashCount) / float64(s.TotalExecutions)

	normalizedSpeed := 1.0
	if maxLatency > 0 {
		normalizedSpeed = 1.0 - s.AverageLatencyMs/maxLatency
	}

	score := coverageWeight*coverageRate + crashWeight*crashRate + speedWeight*normalizedSpeed
	if score < utilityFloor {
		score = utilityFloor
	}
	return score
}
