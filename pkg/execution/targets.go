/*
File: targets.go
Description: Built-in fuzz targets for the Adaptix Fuzzer. Provides a
length-prefixed codec round-trip target and a bounded LRU cache target, the
kinds of in-process subjects the engine is designed to drive. Both emit named
coverage signals through the trace callback and report malformed-input
handling failures as errors, which the executor classifies as crashes.
*/

package execution

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// CodecTarget decodes a uvarint length-prefixed record, re-encodes it, and
// verifies the round trip is byte-identical.
type CodecTarget struct{}

// NewCodecTarget creates the codec round-trip target.
func NewCodecTarget() *CodecTarget {
	return &CodecTarget{}
}

// Name returns the target name.
func (t *CodecTarget) Name() string { return "codec-roundtrip" }

// Run decodes and re-encodes the input record.
func (t *CodecTarget) Run(data []byte, trace func(string)) error {
	if len(data) == 0 {
		trace("codec:empty")
		return nil
	}

	length, n := binary.Uvarint(data)
	if n <= 0 {
		trace("codec:bad_marker")
		return nil
	}
	trace("codec:marker_ok")

	payloadEnd := n + int(length)
	if length > uint64(len(data)-n) {
		trace("codec:length_overrun")
		return nil
	}
	payload := data[n:payloadEnd]
	trace("codec:decoded")

	if payloadEnd < len(data) {
		trace("codec:trailing_bytes")
	}
	if length == 0 {
		trace("codec:empty_payload")
	}

	// Re-encode and verify the round trip.
	marker := make([]byte, binary.MaxVarintLen64)
	mn := binary.PutUvarint(marker, length)
	encoded := append(marker[:mn], payload...)

	if !bytes.Equal(encoded, data[:payloadEnd]) {
		trace("codec:roundtrip_mismatch")
		return fmt.Errorf("round trip mismatch: marker width %d re-encoded as %d", n, mn)
	}
	trace("codec:roundtrip_ok")
	return nil
}

// CacheTarget drives a bounded LRU cache with the input interpreted as an
// operation stream: each pair of bytes is (op, key).
type CacheTarget struct {
	capacity int
}

// NewCacheTarget creates the cache target with the given capacity.
func NewCacheTarget(capacity int) *CacheTarget {
	if capacity < 1 {
		capacity = 8
	}
	return &CacheTarget{capacity: capacity}
}

// Name returns the target name.
func (t *CacheTarget) Name() string { return "lru-cache" }

// Run replays the input as cache operations.
func (t *CacheTarget) Run(data []byte, trace func(string)) error {
	if len(data) == 0 {
		trace("cache:empty")
		return nil
	}

	store := make(map[byte]byte, t.capacity)
	order := make([]byte, 0, t.capacity)

	touch := func(key byte) {
		for i, k := range order {
			if k == key {
				order = append(order[:i], order[i+1:]...)
				break
			}
		}
		order = append(order, key)
	}

	for i := 0; i+1 < len(data); i += 2 {
		op, key := data[i]%3, data[i+1]
		switch op {
		case 0: // put
			if _, exists := store[key]; !exists && len(store) >= t.capacity {
				oldest := order[0]
				order = order[1:]
				delete(store, oldest)
				trace("cache:evict")
			}
			store[key] = data[i]
			touch(key)
			trace("cache:put")
		case 1: // get
			if _, ok := store[key]; ok {
				touch(key)
				trace("cache:get_hit")
			} else {
				trace("cache:get_miss")
			}
		default: // delete
			if _, ok := store[key]; ok {
				delete(store, key)
				for j, k := range order {
					if k == key {
						order = append(order[:j], order[j+1:]...)
						break
					}
				}
				trace("cache:delete")
			} else {
				trace("cache:delete_miss")
			}
		}
	}

	if len(store) > t.capacity {
		return fmt.Errorf("cache exceeded capacity: %d > %d", len(store), t.capacity)
	}
	if len(store) != len(order) {
		return fmt.Errorf("cache bookkeeping diverged: %d entries, %d in order list", len(store), len(order))
	}
	trace("cache:consistent")
	return nil
}
