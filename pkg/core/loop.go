/*
File: loop.go
Description: Orchestration loop for the Adaptix Fuzzer. Ties the corpus, the
mutation engine, the executor, and the coverage tracker together: pull a seed,
mutate, execute, merge the coverage delta, feed the outcome back into the
engine's statistics, and promote interesting candidates into the corpus.
Each loop instance owns its engine and statistics exclusively; only the
coverage tracker is shared between parallel loops.
*/

package core

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/adaptixlabs/adaptix-fuzzer/pkg/corpus"
	"github.com/adaptixlabs/adaptix-fuzzer/pkg/coverage"
	"github.com/adaptixlabs/adaptix-fuzzer/pkg/engine"
	"github.com/adaptixlabs/adaptix-fuzzer/pkg/interfaces"
	"github.com/sirupsen/logrus"
)

// statsLogInterval controls how often the loop logs progress.
const statsLogInterval = 5 * time.Second

// Loop drives one fuzzing session over a single engine instance.
type Loop struct {
	config   *interfaces.FuzzerConfig
	engine   engine.Engine
	executor interfaces.Executor
	tracker  *coverage.Tracker
	corpus   *corpus.Corpus

	rng       *rand.Rand
	logger    *logrus.Logger
	stats     *FuzzerStats
	reporters []Reporter
}

// NewLoop wires a loop from its collaborators. All of them are required.
func NewLoop(config *interfaces.FuzzerConfig, eng engine.Engine, executor interfaces.Executor,
	tracker *coverage.Tracker, store *corpus.Corpus) (*Loop, error) {
	if config == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if eng == nil {
		return nil, fmt.Errorf("engine must not be nil")
	}
	if executor == nil {
		return nil, fmt.Errorf("executor must not be nil")
	}
	if tracker == nil {
		return nil, fmt.Errorf("coverage tracker must not be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("corpus must not be nil")
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Loop{
		config:   config,
		engine:   eng,
		executor: executor,
		tracker:  tracker,
		corpus:   store,
		rng:      rand.New(rand.NewSource(seed)),
		logger:   logrus.New(),
		stats:    &FuzzerStats{StartTime: time.Now()},
	}, nil
}

// SetLogger replaces the loop's logger.
func (l *Loop) SetLogger(logger *logrus.Logger) {
	if logger != nil {
		l.logger = logger
	}
}

// AddReporter registers a Reporter for telemetry and live reporting.
func (l *Loop) AddReporter(reporter Reporter) {
	l.reporters = append(l.reporters, reporter)
}

// GetStats returns a snapshot of the session statistics.
func (l *Loop) GetStats() FuzzerStatsSnapshot {
	return l.stats.Snapshot()
}

// Run executes the fuzzing loop until the configured iteration count is
// reached or the context is cancelled. Iterations of 0 run until cancelled.
func (l *Loop) Run(ctx context.Context) error {
	if l.corpus.Size() == 0 {
		return fmt.Errorf("corpus is empty; load or generate seeds first")
	}

	l.logger.WithFields(logrus.Fields{
		"iterations": l.config.Iterations,
		"engine":     l.config.Engine,
		"mutators":   len(l.engine.Mutators()),
	}).Info("Fuzzing loop started")

	lastLog := time.Now()
	for i := 0; l.config.Iterations == 0 || i < l.config.Iterations; i++ {
		select {
		case <-ctx.Done():
			l.logger.Info("Fuzzing loop cancelled")
			return ctx.Err()
		default:
		}

		if err := l.iterate(ctx); err != nil {
			return err
		}

		if time.Since(lastLog) >= statsLogInterval {
			l.logProgress()
			lastLog = time.Now()
		}
	}

	l.logProgress()
	l.logger.Info("Fuzzing loop completed")
	return nil
}

// iterate performs one mutate -> execute -> feedback cycle.
func (l *Loop) iterate(ctx context.Context) error {
	entry := l.corpus.PickSeed(l.rng)
	if entry == nil {
		return fmt.Errorf("corpus is empty")
	}
	entry.Executions++

	candidate, mutator, err := l.mutateSeed(entry.Data)
	if err != nil {
		return fmt.Errorf("mutation failed: %w", err)
	}

	result, err := l.executor.Execute(ctx, candidate)
	if err != nil {
		// Only context cancellation escapes the executor as an error.
		return err
	}
	l.stats.IncrementExecutions()

	newSignals := l.tracker.MergeNew(result.Signals)

	crashed := result.Status == interfaces.StatusCrash
	if mutator != nil {
		if err := l.engine.RecordFeedback(mutator, newSignals > 0, crashed, result.LatencyMs); err != nil {
			return fmt.Errorf("feedback rejected: %w", err)
		}
		if newSignals > 0 {
			if err := l.engine.RecordSuccess(mutator, float64(newSignals)); err != nil {
				return fmt.Errorf("success record rejected: %w", err)
			}
		}
	}

	switch {
	case crashed:
		l.handleCrash(entry, candidate, result)
	case result.Status == interfaces.StatusTimeout:
		l.stats.IncrementTimeouts()
	}

	if newSignals > 0 {
		l.stats.IncrementNewCoverageEvents()
		l.promote(entry, candidate, newSignals, crashed)
	}

	mutatorName := ""
	if mutator != nil {
		mutatorName = mutator.Name()
	}
	for _, r := range l.reporters {
		r.OnCandidateExecuted(result, mutatorName)
	}
	return nil
}

// mutateSeed produces one candidate. With a chain length above 1 the loop
// drives the engine through MutateN; per-mutator feedback attribution is only
// possible on the single-selection path, which is what the adaptive engine
// uses.
func (l *Loop) mutateSeed(seed []byte) ([]byte, interfaces.Mutator, error) {
	if l.config.MutationChainLength > 1 {
		candidate, err := l.engine.MutateN(seed, l.config.MutationChainLength)
		return candidate, nil, err
	}
	return l.engine.Mutate(seed)
}

// promote adds a candidate that discovered new coverage to the corpus.
func (l *Loop) promote(parent *corpus.Entry, candidate []byte, newSignals int, crashed bool) {
	child := corpus.NewEntry(candidate, parent.ID, parent.Generation+1)
	child.NewSignals = newSignals
	child.FoundCrash = crashed
	child.Priority += newSignals * 10

	if err := l.corpus.Add(child); err != nil {
		l.logger.WithError(err).Warn("Failed to add candidate to corpus")
		return
	}
	l.stats.IncrementCorpusAdditions()

	parent.NewSignals += newSignals
	for _, r := range l.reporters {
		r.OnCorpusEntryAdded(child)
	}
}

// handleCrash records crash statistics and persists the crashing input.
func (l *Loop) handleCrash(parent *corpus.Entry, candidate []byte, result *interfaces.ExecutionResult) {
	l.stats.IncrementCrashes()
	l.stats.LastCrashTime = time.Now()
	parent.FoundCrash = true

	message := ""
	if result.CrashInfo != nil {
		message = result.CrashInfo.Message
	}
	l.logger.WithFields(logrus.Fields{"message": message}).Warn("Crash detected")

	if l.config.CrashDir != "" {
		l.saveCrashFile(candidate)
	}
}

// saveCrashFile writes the crashing input to the crash directory with a
// content-derived name so duplicates collapse onto the same file.
func (l *Loop) saveCrashFile(candidate []byte) {
	if err := os.MkdirAll(l.config.CrashDir, 0755); err != nil {
		l.logger.WithError(err).Error("Failed to create crash directory")
		return
	}

	digest := sha256.Sum256(candidate)
	name := fmt.Sprintf("crash_%s_%x", time.Now().Format("20060102_150405"), digest[:8])
	path := filepath.Join(l.config.CrashDir, name)

	if err := os.WriteFile(path, candidate, 0644); err != nil {
		l.logger.WithError(err).Error("Failed to save crash file")
	}
}

// logProgress emits a progress line with session and coverage state.
func (l *Loop) logProgress() {
	snap := l.stats.Snapshot()
	l.logger.WithFields(logrus.Fields{
		"executions":   snap.Executions,
		"crashes":      snap.Crashes,
		"timeouts":     snap.Timeouts,
		"new_coverage": snap.NewCoverageEvents,
		"corpus_size":  l.corpus.Size(),
		"coverage_pct": fmt.Sprintf("%.1f%%", l.tracker.PercentageCovered()*100),
		"rate":         fmt.Sprintf("%.1f/sec", snap.ExecutionsPerSecond),
	}).Info("Fuzzing progress")
}
