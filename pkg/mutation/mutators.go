/*
File: mutators.go
Description: Byte-level mutation strategies for the Adaptix Fuzzer. Implements
bit flipping, byte flipping, endianness swapping, and boundary value
substitution. Every mutator is pure: it copies the input, draws all randomness
from the injected source, and degrades to an unmodified copy on degenerate
inputs instead of failing.
*/

package mutation

import (
	"math/rand"
)

// maxFlipCount bounds how many independent flip positions a single mutation
// selects. Duplicate positions are allowed; two flips landing on the same bit
// are a net no-op and that is accepted, not guarded against.
const maxFlipCount = 5

// BitFlipMutator implements bit-level mutation strategy.
// Flips 1-5 individual bits at random positions for fine-grained mutations.
type BitFlipMutator struct{}

// NewBitFlipMutator creates a new bit flip mutator.
func NewBitFlipMutator() *BitFlipMutator {
	return &BitFlipMutator{}
}

// Mutate creates a new buffer with up to maxFlipCount random bits inverted.
func (m *BitFlipMutator) Mutate(data []byte, rng *rand.Rand) []byte {
	out := cloneBuffer(data)
	if len(out) == 0 {
		return out
	}

	bits := len(out) * 8
	bound := maxFlipCount
	if bits < bound {
		bound = bits
	}

	flips := 1 + rng.Intn(bound)
	for i := 0; i < flips; i++ {
		pos := rng.Intn(bits)
		out[pos/8] ^= 1 << uint(pos%8)
	}

	return out
}

// Name returns the name of this mutator.
func (m *BitFlipMutator) Name() string {
	return "BitFlipMutator"
}

// Description returns a description of this mutator.
func (m *BitFlipMutator) Description() string {
	return "Flips 1-5 individual bits at random positions for fine-grained mutations"
}

// ByteFlipMutator implements byte-level inversion strategy.
// Bitwise-inverts 1-5 whole bytes at random offsets.
type ByteFlipMutator struct{}

// NewByteFlipMutator creates a new byte flip mutator.
func NewByteFlipMutator() *ByteFlipMutator {
	return &ByteFlipMutator{}
}

// Mutate creates a new buffer with up to maxFlipCount random bytes inverted.
func (m *ByteFlipMutator) Mutate(data []byte, rng *rand.Rand) []byte {
	out := cloneBuffer(data)
	if len(out) == 0 {
		return out
	}

	bound := maxFlipCount
	if len(out) < bound {
		bound = len(out)
	}

	flips := 1 + rng.Intn(bound)
	for i := 0; i < flips; i++ {
		out[rng.Intn(len(out))] ^= 0xFF
	}

	return out
}

// Name returns the name of this mutator.
func (m *ByteFlipMutator) Name() string {
	return "ByteFlipMutator"
}

// Description returns a description of this mutator.
func (m *ByteFlipMutator) Description() string {
	return "Bitwise-inverts 1-5 whole bytes at random offsets"
}

// EndianSwapMutator reverses byte order within randomly chosen spans.
// Targets 2-, 4-, and 8-byte spans to flip the endianness of embedded
// integer fields; spans may overlap across iterations of the same call.
type EndianSwapMutator struct{}

// NewEndianSwapMutator creates a new endianness swap mutator.
func NewEndianSwapMutator() *EndianSwapMutator {
	return &EndianSwapMutator{}
}

// spanSizes are the integer widths the endianness swap targets.
var spanSizes = []int{2, 4, 8}

// Mutate reverses 1-5 random spans of size 2, 4, or 8 bytes. Buffers shorter
// than the chosen span fall back to a 2-byte span, or skip the swap entirely
// when even that does not fit.
func (m *EndianSwapMutator) Mutate(data []byte, rng *rand.Rand) []byte {
	out := cloneBuffer(data)
	if len(out) < 2 {
		return out
	}

	swaps := 1 + rng.Intn(maxFlipCount)
	for i := 0; i < swaps; i++ {
		size := spanSizes[rng.Intn(len(spanSizes))]
		if size > len(out) {
			size = 2
		}
		if size > len(out) {
			continue
		}

		start := rng.Intn(len(out) - size + 1)
		for l, r := start, start+size-1; l < r; l, r = l+1, r-1 {
			out[l], out[r] = out[r], out[l]
		}
	}

	return out
}

// Name returns the name of this mutator.
func (m *EndianSwapMutator) Name() string {
	return "EndianSwapMutator"
}

// Description returns a description of this mutator.
func (m *EndianSwapMutator) Description() string {
	return "Reverses byte order within random 2/4/8-byte spans to flip integer endianness"
}

// ValueSubstitutionMutator overwrites random spans with boundary constants.
// Draws from the fixed catalog of zero/min/max values of the 1-, 2-, 4-, and
// 8-byte signed and unsigned integer ranges.
type ValueSubstitutionMutator struct{}

// NewValueSubstitutionMutator creates a new value substitution mutator.
func NewValueSubstitutionMutator() *ValueSubstitutionMutator {
	return &ValueSubstitutionMutator{}
}

// Mutate overwrites 1-3 randomly chosen spans with catalog boundary values.
// Catalog entries longer than the remaining buffer are skipped.
func (m *ValueSubstitutionMutator) Mutate(data []byte, rng *rand.Rand) []byte {
	out := cloneBuffer(data)
	if len(out) == 0 {
		return out
	}

	spans := 1 + rng.Intn(3)
	for i := 0; i < spans; i++ {
		value := boundaryValues[rng.Intn(len(boundaryValues))]
		if len(value) > len(out) {
			continue
		}
		pos := rng.Intn(len(out) - len(value) + 1)
		copy(out[pos:], value)
	}

	return out
}

// Name returns the name of this mutator.
func (m *ValueSubstitutionMutator) Name() string {
	return "ValueSubstitutionMutator"
}

// Description returns a description of this mutator.
func (m *ValueSubstitutionMutator) Description() string {
	return "Overwrites random spans with integer boundary constants from a fixed catalog"
}
