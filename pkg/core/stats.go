/*
File: stats.go
Description: Aggregate fuzzing-session statistics for the Adaptix Fuzzer.
Tracks executions, crashes, timeouts, and coverage events with atomic
counters so reporting sinks can read while the loop runs.
*/

package core

import (
	"sync/atomic"
	"time"
)

// FuzzerStats tracks overall session statistics.
// Uses atomic operations for thread-safe updates.
type FuzzerStats struct {
	Executions        int64     `json:"executions"`          // Total candidate executions
	Crashes           int64     `json:"crashes"`             // Total crashes found
	Timeouts          int64     `json:"timeouts"`            // Total timeouts
	NewCoverageEvents int64     `json:"new_coverage_events"` // Executions that touched unseen signals
	CorpusAdditions   int64     `json:"corpus_additions"`    // Candidates promoted into the corpus
	StartTime         time.Time `json:"start_time"`          // When the session started
	LastCrashTime     time.Time `json:"last_crash_time"`     // When the last crash was found
}

// IncrementExecutions atomically increments the execution counter.
func (s *FuzzerStats) IncrementExecutions() {
	atomic.AddInt64(&s.Executions, 1)
}

// IncrementCrashes atomically increments the crash counter.
func (s *FuzzerStats) IncrementCrashes() {
	atomic.AddInt64(&s.Crashes, 1)
}

// IncrementTimeouts atomically increments the timeout counter.
func (s *FuzzerStats) IncrementTimeouts() {
	atomic.AddInt64(&s.Timeouts, 1)
}

// IncrementNewCoverageEvents atomically increments the new-coverage counter.
func (s *FuzzerStats) IncrementNewCoverageEvents() {
	atomic.AddInt64(&s.NewCoverageEvents, 1)
}

// IncrementCorpusAdditions atomically increments the corpus-addition counter.
func (s *FuzzerStats) IncrementCorpusAdditions() {
	atomic.AddInt64(&s.CorpusAdditions, 1)
}

// Snapshot returns a consistent copy of the counters plus the derived
// execution rate.
func (s *FuzzerStats) Snapshot() FuzzerStatsSnapshot {
	snap := FuzzerStatsSnapshot{
		Executions:        atomic.LoadInt64(&s.Executions),
		Crashes:           atomic.LoadInt64(&s.Crashes),
		Timeouts:          atomic.LoadInt64(&s.Timeouts),
		NewCoverageEvents: atomic.LoadInt64(&s.NewCoverageEvents),
		CorpusAdditions:   atomic.LoadInt64(&s.CorpusAdditions),
		StartTime:         s.StartTime,
		LastCrashTime:     s.LastCrashTime,
	}
	if elapsed := time.Since(s.StartTime).Seconds(); elapsed > 0 {
		snap.ExecutionsPerSecond = float64(snap.Executions) / elapsed
	}
	return snap
}

// FuzzerStatsSnapshot is a point-in-time view of session statistics.
type FuzzerStatsSnapshot struct {
	Executions          int64     `json:"executions"`
	Crashes             int64     `json:"crashes"`
	Timeouts            int64     `json:"timeouts"`
	NewCoverageEvents   int64     `json:"new_coverage_events"`
	CorpusAdditions     int64     `json:"corpus_additions"`
	StartTime           time.Time `json:"start_time"`
	LastCrashTime       time.Time `json:"last_crash_time"`
	ExecutionsPerSecond float64   `json:"executions_per_second"`
}
