/*
File: catalog.go
Description: Boundary-value catalog for the Adaptix Fuzzer mutation strategies.
Provides the fixed set of interesting constants (zero, min, max of the 1-, 2-,
4-, and 8-byte signed and unsigned integer ranges) used by the value
substitution and format-aware mutators.
*/

package mutation

import (
	"encoding/binary"
	"math"
)

// boundaryValues is the immutable catalog of boundary constants used for value
// substitution. Entries are little-endian encodings; callers must treat the
// catalog and its entries as read-only and copy before writing into a buffer.
var boundaryValues = buildBoundaryCatalog()

// buildBoundaryCatalog assembles the boundary constants once at init time.
func buildBoundaryCatalog() [][]byte {
	catalog := [][]byte{
		// 1-byte boundaries
		{0x00},
		{0x7F}, // math.MaxInt8
		{0x80}, // math.MinInt8
		{0xFF}, // math.MaxUint8
	}

	u16 := []uint16{0, math.MaxInt16, 1 << 15, math.MaxUint16}
	for _, v := range u16 {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, v)
		catalog = append(catalog, b)
	}

	u32 := []uint32{0, math.MaxInt32, 1 << 31, math.MaxUint32}
	for _, v := range u32 {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, v)
		catalog = append(catalog, b)
	}

	u64 := []uint64{0, math.MaxInt64, 1 << 63, math.MaxUint64}
	for _, v := range u64 {
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, v)
		catalog = append(catalog, b)
	}

	return catalog
}

// cloneBuffer returns a fresh copy of data. Mutators always operate on a copy
// so the caller's buffer is never modified; a nil input yields an empty
// non-nil buffer.
func cloneBuffer(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	return out
}
