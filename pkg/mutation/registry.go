/*
File: registry.go
Description: Default mutator set for the Adaptix Fuzzer. Assembles the standard
transformation catalog in a fixed registration order so that selection is
deterministic for a fixed randomness seed.
*/

package mutation

import (
	"github.com/adaptixlabs/adaptix-fuzzer/pkg/interfaces"
)

// DefaultMutators returns the standard mutator set in registration order.
// Order matters: the selection engine iterates mutators in this order, and the
// roulette fallback lands on the last entry.
func DefaultMutators() []interfaces.Mutator {
	return []interfaces.Mutator{
		NewBitFlipMutator(),
		NewByteFlipMutator(),
		NewEndianSwapMutator(),
		NewStructuralMutator(),
		NewValueSubstitutionMutator(),
		NewFormatAwareMutator(),
		NewCorruptionMutator(),
	}
}
