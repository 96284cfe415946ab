/*
File: generator.go
Description: Binary seed generator for the Adaptix Fuzzer. Produces the
initial corpus when no seed directory is supplied: plain random buffers plus
length-prefixed structured buffers (uvarint marker + payload) that give the
format-aware mutator realistic fields to locate.
*/

package corpus

import (
	"encoding/binary"
	"math/rand"
)

// Generator produces seed buffers from an injected randomness source.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a seed generator around the given randomness source.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate produces count seed entries with data up to maxLen bytes.
// Every other seed is structured so both well-formed and unstructured inputs
// are represented from the start.
func (g *Generator) Generate(count, maxLen int) []*Entry {
	if count <= 0 {
		return nil
	}
	if maxLen < 4 {
		maxLen = 4
	}

	entries := make([]*Entry, 0, count)
	for i := 0; i < count; i++ {
		var data []byte
		if i%2 == 0 {
			data = g.randomBuffer(maxLen)
		} else {
			data = g.structuredBuffer(maxLen)
		}
		entries = append(entries, NewEntry(data, "", 0))
	}
	return entries
}

// randomBuffer produces 1..maxLen uniformly random bytes.
func (g *Generator) randomBuffer(maxLen int) []byte {
	data := make([]byte, 1+g.rng.Intn(maxLen))
	for i := range data {
		data[i] = byte(g.rng.Intn(256))
	}
	return data
}

// structuredBuffer produces a uvarint length marker followed by exactly that
// many payload bytes, optionally with trailing garbage.
func (g *Generator) structuredBuffer(maxLen int) []byte {
	payloadLen := 1 + g.rng.Intn(maxLen/2)
	marker := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(marker, uint64(payloadLen))

	data := make([]byte, 0, n+payloadLen+4)
	data = append(data, marker[:n]...)
	for i := 0; i < payloadLen; i++ {
		data = append(data, byte(g.rng.Intn(256)))
	}

	// Trailing garbage exercises parsers that ignore input past the field.
	if g.rng.Intn(2) == 0 {
		for i := 0; i < 1+g.rng.Intn(3); i++ {
			data = append(data, byte(g.rng.Intn(256)))
		}
	}
	return data
}
