/*
File: formataware.go
Description: Format-aware mutation strategy for the Adaptix Fuzzer. Locates
length-prefixed fields (a uvarint length marker followed by that many payload
bytes) and mutates the marker, the payload, or substitutes boundary values at
the field position. Also provides a deliberate whole-buffer corruption mode
for probing error-handling paths with malformed inputs.
*/

package mutation

import (
	"encoding/binary"
	"math/rand"
)

// lengthField describes a located length-prefixed field inside a buffer.
type lengthField struct {
	markerOff  int // Offset of the uvarint length marker
	markerLen  int // Encoded width of the marker in bytes
	payloadOff int // Offset of the first payload byte
	payloadLen int // Payload length as declared by the marker
}

// FormatAwareMutator edits length-prefixed structures inside the buffer.
// When no such field can be located it falls back to a single random byte
// overwrite. With corruption enabled it instead damages the whole buffer:
// truncation, mid-buffer splices, or scattered bit flips.
type FormatAwareMutator struct {
	corruption bool
}

// NewFormatAwareMutator creates a mutator that targets length-prefixed fields.
func NewFormatAwareMutator() *FormatAwareMutator {
	return &FormatAwareMutator{}
}

// NewCorruptionMutator creates a format-aware mutator in deliberate corruption
// mode, producing malformed rather than well-formed-but-boundary inputs.
func NewCorruptionMutator() *FormatAwareMutator {
	return &FormatAwareMutator{corruption: true}
}

// Mutate applies a format-aware edit to a copy of data.
func (m *FormatAwareMutator) Mutate(data []byte, rng *rand.Rand) []byte {
	out := cloneBuffer(data)
	if len(out) == 0 {
		return out
	}

	if m.corruption {
		return m.corrupt(out, rng)
	}

	fields := locateLengthFields(out)
	if len(fields) == 0 {
		// No parseable field: single random byte overwrite.
		out[rng.Intn(len(out))] = byte(rng.Intn(256))
		return out
	}

	field := fields[rng.Intn(len(fields))]
	switch rng.Intn(3) {
	case 0:
		m.mutateMarker(out, field, rng)
	case 1:
		m.corruptPayload(out, field, rng)
	default:
		m.substituteBoundary(out, field, rng)
	}

	return out
}

// locateLengthFields scans the buffer for plausible uvarint length-prefixed
// fields: a marker whose declared payload fits entirely inside the buffer.
func locateLengthFields(data []byte) []lengthField {
	var fields []lengthField
	for off := 0; off < len(data); off++ {
		value, n := binary.Uvarint(data[off:])
		if n <= 0 || value == 0 {
			continue
		}
		payloadOff := off + n
		if uint64(len(data)-payloadOff) < value {
			continue
		}
		fields = append(fields, lengthField{
			markerOff:  off,
			markerLen:  n,
			payloadOff: payloadOff,
			payloadLen: int(value),
		})
	}
	return fields
}

// mutateMarker flips a low bit inside the length marker, changing the declared
// length while leaving the payload bytes untouched. Only the 7 value bits of a
// marker byte are touched so the varint keeps its encoded width.
func (m *FormatAwareMutator) mutateMarker(out []byte, f lengthField, rng *rand.Rand) {
	idx := f.markerOff + rng.Intn(f.markerLen)
	out[idx] ^= 1 << uint(rng.Intn(7))
}

// corruptPayload overwrites a handful of payload bytes with random values.
func (m *FormatAwareMutator) corruptPayload(out []byte, f lengthField, rng *rand.Rand) {
	bound := 4
	if f.payloadLen < bound {
		bound = f.payloadLen
	}
	count := 1 + rng.Intn(bound)
	for i := 0; i < count; i++ {
		pos := f.payloadOff + rng.Intn(f.payloadLen)
		out[pos] = byte(rng.Intn(256))
	}
}

// substituteBoundary writes a catalog boundary value inside the payload,
// skipping catalog entries longer than the payload.
func (m *FormatAwareMutator) substituteBoundary(out []byte, f lengthField, rng *rand.Rand) {
	value := boundaryValues[rng.Intn(len(boundaryValues))]
	if len(value) > f.payloadLen {
		return
	}
	pos := f.payloadOff + rng.Intn(f.payloadLen-len(value)+1)
	copy(out[pos:], value)
}

// corrupt damages the buffer at the whole-buffer level: truncate to a random
// prefix, splice random bytes into the middle, or flip bits at several random
// locations.
func (m *FormatAwareMutator) corrupt(out []byte, rng *rand.Rand) []byte {
	switch rng.Intn(3) {
	case 0:
		return out[:rng.Intn(len(out)+1)]
	case 1:
		count := 1 + rng.Intn(8)
		splice := make([]byte, count)
		for i := range splice {
			splice[i] = byte(rng.Intn(256))
		}
		mid := rng.Intn(len(out) + 1)
		result := make([]byte, 0, len(out)+count)
		result = append(result, out[:mid]...)
		result = append(result, splice...)
		result = append(result, out[mid:]...)
		return result
	default:
		flips := 2 + rng.Intn(6)
		bits := len(out) * 8
		for i := 0; i < flips; i++ {
			pos := rng.Intn(bits)
			out[pos/8] ^= 1 << uint(pos%8)
		}
		return out
	}
}

// Name returns the name of this mutator.
func (m *FormatAwareMutator) Name() string {
	if m.corruption {
		return "CorruptionMutator"
	}
	return "FormatAwareMutator"
}

// Description returns a description of this mutator.
func (m *FormatAwareMutator) Description() string {
	if m.corruption {
		return "Deliberately corrupts whole buffers (truncate, splice, scatter bit flips)"
	}
	return "Targets uvarint length-prefixed fields: marker edits, payload corruption, boundary substitution"
}
