/*
File: executor.go
Description: In-process executor for the Adaptix Fuzzer. Runs candidate inputs
against a target function, converts panics into crash outcomes, enforces a
per-run timeout, measures execution latency, and collects the coverage-signal
delta the target emits. The mutation core never touches target code directly;
it only consumes the result tuple produced here.
*/

package execution

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/adaptixlabs/adaptix-fuzzer/pkg/interfaces"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a single target run when no timeout is configured.
const DefaultTimeout = 1 * time.Second

// InProcessExecutor executes candidates by calling the target function
// directly in a worker goroutine.
type InProcessExecutor struct {
	target  interfaces.Target
	timeout time.Duration
	logger  *logrus.Logger
}

// NewInProcessExecutor creates an executor for the given target.
func NewInProcessExecutor(target interfaces.Target, timeout time.Duration) (*InProcessExecutor, error) {
	if target == nil {
		return nil, fmt.Errorf("target must not be nil")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &InProcessExecutor{
		target:  target,
		timeout: timeout,
		logger:  logrus.New(),
	}, nil
}

// SetLogger replaces the executor's logger.
func (e *InProcessExecutor) SetLogger(logger *logrus.Logger) {
	if logger != nil {
		e.logger = logger
	}
}

// runOutcome carries the target result from the worker goroutine.
type runOutcome struct {
	err   error
	crash *interfaces.CrashInfo
}

// Execute runs the candidate against the target and returns the feedback
// tuple: outcome, coverage-signal delta, and latency in milliseconds.
// A panic inside the target is reported as a crash, not propagated. Targets
// are expected to terminate on their own; the timeout classifies a run as
// hung but cannot preempt the target goroutine.
func (e *InProcessExecutor) Execute(ctx context.Context, data []byte) (*interfaces.ExecutionResult, error) {
	// The worker goroutine outlives Execute on the timeout paths and may keep
	// calling trace, so the signal map is lock-guarded and callers only ever
	// receive a copy taken under that lock.
	var mu sync.Mutex
	signals := make(map[string]uint64)
	trace := func(signal string) {
		mu.Lock()
		signals[signal]++
		mu.Unlock()
	}
	snapshotSignals := func() map[string]uint64 {
		mu.Lock()
		defer mu.Unlock()
		out := make(map[string]uint64, len(signals))
		for signal, count := range signals {
			out[signal] = count
		}
		return out
	}

	done := make(chan runOutcome, 1)
	start := time.Now()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- runOutcome{crash: &interfaces.CrashInfo{
					Message:    fmt.Sprint(r),
					StackTrace: string(debug.Stack()),
				}}
			}
		}()
		done <- runOutcome{err: e.target.Run(data, trace)}
	}()

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	result := &interfaces.ExecutionResult{}

	select {
	case <-ctx.Done():
		result.Status = interfaces.StatusTimeout
		result.LatencyMs = msSince(start)
		result.Signals = snapshotSignals()
		return result, ctx.Err()

	case <-timer.C:
		result.Status = interfaces.StatusTimeout
		result.LatencyMs = msSince(start)
		result.Signals = snapshotSignals()
		e.logger.WithFields(logrus.Fields{
			"target":  e.target.Name(),
			"timeout": e.timeout,
		}).Warn("Execution timed out")
		return result, nil

	case outcome := <-done:
		result.LatencyMs = msSince(start)
		result.Signals = snapshotSignals()
		switch {
		case outcome.crash != nil:
			result.Status = interfaces.StatusCrash
			result.CrashInfo = outcome.crash
		case outcome.err != nil:
			result.Status = interfaces.StatusCrash
			result.CrashInfo = &interfaces.CrashInfo{Message: outcome.err.Error()}
		default:
			result.Status = interfaces.StatusSuccess
		}
		return result, nil
	}
}

// msSince returns elapsed time since start in milliseconds.
func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
