/*
File: interfaces.go
Description: Shared interfaces for the Adaptix Fuzzer. Defines the core contracts
used across all packages to break import cycles and enable proper modular design.
The mutation engine, coverage tracker, executor, and orchestration loop all meet
through the types declared here.
*/

package interfaces

import (
	"context"
	"math/rand"
	"time"
)

// Mutator defines the interface for byte-buffer mutation strategies.
// Implementations must be stateless and pure: the output depends only on the
// input buffer and the supplied randomness source, the input buffer is never
// modified, and an empty or nil input always yields an empty buffer.
type Mutator interface {
	// Mutate returns a new buffer derived from data. The buffer may differ in
	// length from the input. All randomness must come from rng so that a fixed
	// seed sequence reproduces the output bitwise.
	Mutate(data []byte, rng *rand.Rand) []byte

	// Name returns the stable name of this mutator, used as a statistics key.
	Name() string

	// Description returns a human-readable description of this mutator.
	Description() string
}

// ExecutionStatus represents the three-valued outcome of a target execution.
type ExecutionStatus int

const (
	StatusSuccess ExecutionStatus = iota
	StatusCrash
	StatusTimeout
)

// String returns the status name for logging and reports.
func (s ExecutionStatus) String() string {
	switch s {
	case StatusCrash:
		return "crash"
	case StatusTimeout:
		return "timeout"
	default:
		return "success"
	}
}

// CrashInfo carries what the executor could capture about a crash.
type CrashInfo struct {
	Message    string `json:"message"`     // Panic message or failure description
	StackTrace string `json:"stack_trace"` // Goroutine stack at the crash point
}

// ExecutionResult is the per-execution feedback tuple the core consumes:
// outcome, coverage-signal delta, and elapsed time in milliseconds.
type ExecutionResult struct {
	Status    ExecutionStatus   `json:"status"`
	Signals   map[string]uint64 `json:"signals"` // Coverage signals touched this run
	LatencyMs float64           `json:"latency_ms"`
	Output    []byte            `json:"output"`
	CrashInfo *CrashInfo        `json:"crash_info,omitempty"`
}

// Target is a thing the executor can run candidate inputs against.
// Run reports coverage by invoking trace with a signal name for each
// behavior exercised; returning an error or panicking counts as a crash.
type Target interface {
	Name() string
	Run(data []byte, trace func(signal string)) error
}

// Executor runs candidate inputs against a target and produces feedback.
// Execution of the target is outside the mutation core; the core only
// consumes the ExecutionResult.
type Executor interface {
	Execute(ctx context.Context, data []byte) (*ExecutionResult, error)
}

// FuzzerConfig contains all configuration parameters for a fuzzing session.
// Supports both command-line flags and configuration files.
type FuzzerConfig struct {
	// Session configuration
	Seed       int64  `json:"seed"`       // RNG seed (0 = derive from clock)
	Iterations int    `json:"iterations"` // Iterations to run (0 = until stopped)
	Engine     string `json:"engine"`     // Selection engine: "adaptive" or "baseline"

	// Mutation configuration
	MutationChainLength int `json:"mutation_chain_length"` // Sequential mutations per candidate (baseline engine)
	BootstrapThreshold  int `json:"bootstrap_threshold"`   // Min samples per mutator before scoring

	// Corpus configuration
	CorpusDir     string `json:"corpus_dir"`      // Directory containing seed corpus
	OutputDir     string `json:"output_dir"`      // Directory for fuzzer output
	CrashDir      string `json:"crash_dir"`       // Directory for crash files
	MaxCorpusSize int    `json:"max_corpus_size"` // Maximum number of entries in corpus
	SeedCount     int    `json:"seed_count"`      // Generated seeds when corpus dir is empty

	// Execution configuration
	Timeout time.Duration `json:"timeout"` // Maximum execution time per candidate

	// Logging configuration
	LogLevel string `json:"log_level"` // Logging level (debug, info, warn, error)
	JSONLogs bool   `json:"json_logs"` // Use JSON log format
}
