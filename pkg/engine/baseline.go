/*
File: baseline.go
Description: Non-adaptive baseline engine for the Adaptix Fuzzer. Selects
mutators uniformly at random regardless of feedback. Records the same
statistics as the adaptive engine so the two can be compared on identical
reporting, but never uses them for selection. Primarily driven through
MutateN, chaining several uniform selections per candidate.
*/

package engine

import (
	"fmt"

	"github.com/adaptixlabs/adaptix-fuzzer/pkg/interfaces"
)

// BaselineEngine selects mutators uniformly at random.
type BaselineEngine struct {
	engineCore
}

// NewBaselineEngine creates a baseline engine seeded for reproducible runs.
// A zero seed derives one from the clock.
func NewBaselineEngine(seed int64) *BaselineEngine {
	return &BaselineEngine{engineCore: newEngineCore(seed)}
}

// SelectMutator picks a mutator uniformly at random; feedback statistics are
// recorded but never consulted.
func (e *BaselineEngine) SelectMutator() (interfaces.Mutator, error) {
	if len(e.mutators) == 0 {
		return nil, fmt.Errorf("no mutators registered")
	}
	return e.selectUniform(), nil
}

// Mutate selects a mutator and applies it to the seed in one call.
func (e *BaselineEngine) Mutate(seed []byte) ([]byte, interfaces.Mutator, error) {
	m, err := e.SelectMutator()
	if err != nil {
		return nil, nil, err
	}
	return e.applyMutator(m, seed), m, nil
}

// MutateN applies count sequential uniform selections, each operating on the
// previous step's output.
func (e *BaselineEngine) MutateN(seed []byte, count int) ([]byte, error) {
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
