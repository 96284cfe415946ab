/*
File: structural.go
Description: Structural mutation strategy for the Adaptix Fuzzer. Edits buffer
shape rather than content: inserts random bytes, deletes contiguous runs,
duplicates segments, and swaps non-overlapping segments. Length-changing
edits probe parsers for off-by-one and truncation handling bugs.
*/

package mutation

import (
	"math/rand"
)

// structuralOpCount is the number of edit kinds the mutator picks between.
const structuralOpCount = 4

// StructuralMutator implements structure-changing mutations.
// Unlike the flip mutators it may grow or shrink the buffer.
type StructuralMutator struct{}

// NewStructuralMutator creates a new structural mutator.
func NewStructuralMutator() *StructuralMutator {
	return &StructuralMutator{}
}

// Mutate applies one of insert/delete/duplicate/swap to a copy of data.
// Buffers too short for the chosen edit fall back to an unmodified copy.
func (m *StructuralMutator) Mutate(data []byte, rng *rand.Rand) []byte {
	out := cloneBuffer(data)
	if len(out) == 0 {
		return out
	}

	switch rng.Intn(structuralOpCount) {
	case 0:
		return m.insertBytes(out, rng)
	case 1:
		return m.deleteBytes(out, rng)
	case 2:
		return m.duplicateSegment(out, rng)
	default:
		return m.swapSegments(out, rng)
	}
}

// insertBytes splices 1-10 random bytes into the buffer at a random offset.
func (m *StructuralMutator) insertBytes(out []byte, rng *rand.Rand) []byte {
	count := 1 + rng.Intn(10)
	insert := make([]byte, count)
	for i := range insert {
		insert[i] = byte(rng.Intn(256))
	}

	off := rng.Intn(len(out) + 1)
	result := make([]byte, 0, len(out)+count)
	result = append(result, out[:off]...)
	result = append(result, insert...)
	result = append(result, out[off:]...)
	return result
}

// deleteBytes removes 1 to half-length contiguous bytes at a random offset.
func (m *StructuralMutator) deleteBytes(out []byte, rng *rand.Rand) []byte {
	if len(out) < 2 {
		return out
	}

	count := 1 + rng.Intn(len(out)/2)
	off := rng.Intn(len(out) - count + 1)

	result := make([]byte, 0, len(out)-count)
	result = append(result, out[:off]...)
	result = append(result, out[off+count:]...)
	return result
}

// duplicateSegment copies a random contiguous segment and reinserts it at a
// random position, growing the buffer by the segment length.
func (m *StructuralMutator) duplicateSegment(out []byte, rng *rand.Rand) []byte {
	if len(out) < 2 {
		return out
	}

	segLen := 1 + rng.Intn(len(out)/2)
	start := rng.Intn(len(out) - segLen + 1)
	segment := make([]byte, segLen)
	copy(segment, out[start:start+segLen])

	insertAt := rng.Intn(len(out) + 1)
	result := make([]byte, 0, len(out)+segLen)
	result = append(result, out[:insertAt]...)
	result = append(result, segment...)
	result = append(result, out[insertAt:]...)
	return result
}

// swapSegments exchanges two non-overlapping small segments in place.
// Candidate ranges are computed before positions are drawn; when no valid
// non-overlapping placement exists the buffer is returned unmodified.
func (m *StructuralMutator) swapSegments(out []byte, rng *rand.Rand) []byte {
	if len(out) < 4 {
		return out
	}

	segMax := len(out) / 4
	if segMax < 1 {
		return out
	}
	segLen := 1 + rng.Intn(segMax)
	if 2*segLen > len(out) {
		return out
	}

	// First segment leaves room for the second one strictly after it.
	aStart := rng.Intn(len(out) - 2*segLen + 1)
	gap := len(out) - aStart - 2*segLen
	bStart := aStart + segLen + rng.Intn(gap+1)

	for i := 0; i < segLen; i++ {
		out[aStart+i], out[bStart+i] = out[bStart+i], out[aStart+i]
	}
	return out
}

// Name returns the name of this mutator.
func (m *StructuralMutator) Name() string {
	return "StructuralMutator"
}

// Description returns a description of this mutator.
func (m *StructuralMutator) Description() string {
	return "Inserts, deletes, duplicates, and swaps buffer segments to change input shape"
}
