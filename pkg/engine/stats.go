/*
File: stats.go
Description: Per-mutator statistics for the Adaptix Fuzzer selection engine.
Tracks executions, coverage and crash yield, and a running latency mean for
each registered mutator. Statistics are keyed by stable mutator name so that
reports and selection weights stay reproducible across process runs.
*/

package engine

// MutatorStatistics holds the running counters for a single mutator.
// Counts only increase; AverageLatencyMs is an incremental running mean and is
// never recomputed from history. The store is owned exclusively by its engine
// and, like the engine, is single-threaded per fuzzing loop instance.
type MutatorStatistics struct {
	TotalExecutions         int64   `json:"total_executions"`          // Feedback calls recorded
	NewCoverageCount        int64   `json:"new_coverage_count"`        // Executions that touched unseen signals
	CrashCount              int64   `json:"crash_count"`               // Executions that crashed the target
	AverageLatencyMs        float64 `json:"average_latency_ms"`        // Running mean execution latency
	SuccessfulMutationCount int64   `json:"successful_mutation_count"` // Externally-confirmed successes
	TotalCoverageIncrease   float64 `json:"total_coverage_increase"`   // Cumulative coverage gain magnitude
}

// recordFeedback absorbs one execution outcome into the counters.
// The running mean uses the post-increment execution count:
// avg' = (avg*(n-1) + latency) / n.
func (s *MutatorStatistics) recordFeedback(newCoverage, crashed bool, latencyMs float64) {
	n := s.TotalExecutions + 1
	s.AverageLatencyMs = (s.AverageLatencyMs*float64(n-1) + latencyMs) / float64(n)
	s.TotalExecutions = n

	if newCoverage {
		s.NewCoverageCount++
	}
	if crashed {
		s.CrashCount++
	}
}

// recordSuccess absorbs an externally-confirmed successful mutation.
// Deliberately decoupled from recordFeedback: callers may track "success" by a
// different criterion than raw new-coverage detection and call either or both.
func (s *MutatorStatistics) recordSuccess(coverageIncrease float64) {
	s.SuccessfulMutationCount++
	s.TotalCoverageIncrease += coverageIncrease
}

// reset zeroes all counters in place.
func (s *MutatorStatistics) reset() {
	*s = MutatorStatistics{}
}
