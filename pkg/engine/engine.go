/*
File: engine.go
Description: Mutation engine core for the Adaptix Fuzzer. Owns the registered
mutator set and the per-mutator statistics store, applies mutators behind a
panic boundary, and exposes the feedback and statistics operations shared by
the adaptive and baseline engines. Selection policy lives in the concrete
engine types.
*/

package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/adaptixlabs/adaptix-fuzzer/pkg/interfaces"
	"github.com/sirupsen/logrus"
)

// Engine is the contract the orchestration loop programs against.
// Mutate selects one mutator and applies it; MutateN chains count sequential
// selections, each operating on the previous step's output. After executing a
// candidate the loop must call RecordFeedback (and optionally RecordSuccess)
// before the next Mutate call; the engine does not infer feedback on its own.
type Engine interface {
	RegisterMutator(m interfaces.Mutator) error
	SelectMutator() (interfaces.Mutator, error)
	Mutate(seed []byte) ([]byte, interfaces.Mutator, error)
	MutateN(seed []byte, count int) ([]byte, error)
	RecordFeedback(m interfaces.Mutator, newCoverage, crashed bool, latencyMs float64) error
	RecordSuccess(m interfaces.Mutator, coverageIncrease float64) error
	GetStatistics() map[string]MutatorStatistics
	ResetStatistics()
	Mutators() []interfaces.Mutator
}

// engineCore holds the state shared by both engine flavors: the mutator set in
// registration order, name-keyed statistics, and the injected randomness
// source. Engines are single-threaded per fuzzing loop instance; parallel
// loops each own an independent engine and merge only at the coverage tracker.
type engineCore struct {
	mutators []interfaces.Mutator
	stats    map[string]*MutatorStatistics
	rng      *rand.Rand
	logger   *logrus.Logger
}

// newEngineCore seeds the core's randomness source. A zero seed derives one
// from the clock; any other value yields fully reproducible selection and
// mutation sequences.
func newEngineCore(seed int64) engineCore {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return engineCore{
		stats:  make(map[string]*MutatorStatistics),
		rng:    rand.New(rand.NewSource(seed)),
		logger: logrus.New(),
	}
}

// SetLogger replaces the engine's logger.
func (c *engineCore) SetLogger(logger *logrus.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// RegisterMutator adds a mutator with fresh zero statistics. A nil mutator or
// a name collision with an already-registered mutator is rejected: statistics
// are keyed by stable name, and silently fragmenting or conflating them would
// make reports ambiguous.
func (c *engineCore) RegisterMutator(m interfaces.Mutator) error {
	if m == nil {
		return fmt.Errorf("cannot register nil mutator")
	}
	name := m.Name()
	if name == "" {
		return fmt.Errorf("cannot register mutator with empty name")
	}
	if _, exists := c.stats[name]; exists {
		return fmt.Errorf("mutator %q already registered", name)
	}

	c.mutators = append(c.mutators, m)
	c.stats[name] = &MutatorStatistics{}
	c.logger.WithFields(logrus.Fields{"mutator": name}).Debug("Mutator registered")
	return nil
}

// Mutators returns the registered mutators in registration order.
func (c *engineCore) Mutators() []interfaces.Mutator {
	out := make([]interfaces.Mutator, len(c.mutators))
	copy(out, c.mutators)
	return out
}

// RecordFeedback absorbs one execution outcome for the given mutator.
func (c *engineCore) RecordFeedback(m interfaces.Mutator, newCoverage, crashed bool, latencyMs float64) error {
	stats, err := c.lookup(m)
	if err != nil {
		return err
	}
	stats.recordFeedback(newCoverage, crashed, latencyMs)
	return nil
}

// RecordSuccess credits the mutator with an externally-confirmed success and
// the magnitude of coverage gain attributed to it.
func (c *engineCore) RecordSuccess(m interfaces.Mutator, coverageIncrease float64) error {
	stats, err := c.lookup(m)
	if err != nil {
		return err
	}
	stats.recordSuccess(coverageIncrease)
	return nil
}

// GetStatistics returns a name-keyed snapshot of all mutator statistics.
func (c *engineCore) GetStatistics() map[string]MutatorStatistics {
	snapshot := make(map[string]MutatorStatistics, len(c.stats))
	for name, stats := range c.stats {
		snapshot[name] = *stats
	}
	return snapshot
}

// ResetStatistics zeroes all per-mutator statistics without removing mutator
// registrations.
func (c *engineCore) ResetStatistics() {
	for _, stats := range c.stats {
		stats.reset()
	}
	c.logger.Debug("Mutator statistics reset")
}

// lookup resolves a mutator reference to its statistics entry.
func (c *engineCore) lookup(m interfaces.Mutator) (*MutatorStatistics, error) {
	if m == nil {
		return nil, fmt.Errorf("nil mutator reference")
	}
	stats, exists := c.stats[m.Name()]
	if !exists {
		return nil, fmt.Errorf("mutator %q is not registered", m.Name())
	}
	return stats, nil
}

// selectUniform picks a mutator uniformly at random.
func (c *engineCore) selectUniform() interfaces.Mutator {
	return c.mutators[c.rng.Intn(len(c.mutators))]
}

// applyMutator runs a mutator behind a panic boundary. A panic inside a
// mutator is a defect in that mutator, not a core failure mode: it is caught
// here and degraded to an unmodified copy of the input so the fuzzing loop
// keeps running.
func (c *engineCore) applyMutator(m interfaces.Mutator, data []byte) (out []byte) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.WithFields(logrus.Fields{
				"mutator": m.Name(),
				"panic":   fmt.Sprint(r),
			}).Warn("Mutator panicked; returning unmodified copy")
			out = append([]byte(nil), data...)
		}
	}()

	out = m.Mutate(data, c.rng)
	if out == nil {
		out = []byte{}
	}
	return out
}
