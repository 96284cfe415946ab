/*
File: corpus_test.go
Description: Tests for the seed corpus. Covers entry construction, add/remove
semantics, deterministic seed picking, priority ordering, retention-based
cleanup, directory loading, and the synthetic seed generator.
*/

package corpus

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewEntry verifies entry construction copies data and sets defaults.
func TestNewEntry(t *testing.T) {
	data := []byte{1, 2, 3}
	entry := NewEntry(data, "parent", 2)

	require.NotEmpty(t, entry.ID)
	assert.Equal(t, data, entry.Data)
	assert.Equal(t, "parent", entry.ParentID)
	assert.Equal(t, 2, entry.Generation)
	assert.Equal(t, 100, entry.Priority)
	assert.False(t, entry.CreatedAt.IsZero())

	// Mutating the source buffer must not reach the stored seed.
	data[0] = 0xFF
	assert.Equal(t, byte(1), entry.Data[0])

	// Fresh IDs every time.
	assert.NotEqual(t, entry.ID, NewEntry(data, "", 0).ID)
}

// TestCorpusAddGetRemove verifies the basic store operations.
func TestCorpusAddGetRemove(t *testing.T) {
	c := NewCorpus()
	assert.Error(t, c.Add(nil))

	entry := NewEntry([]byte{1}, "", 0)
	require.NoError(t, c.Add(entry))
	assert.Equal(t, 1, c.Size())

	// Duplicate add is a no-op.
	require.NoError(t, c.Add(entry))
	assert.Equal(t, 1, c.Size())

	assert.Equal(t, entry, c.Get(entry.ID))
	assert.Nil(t, c.Get("missing"))

	assert.True(t, c.Remove(entry.ID))
	assert.False(t, c.Remove(entry.ID))
	assert.Equal(t, 0, c.Size())
}

// TestPickSeed verifies deterministic selection and the empty-corpus case.
func TestPickSeed(t *testing.T) {
	c := NewCorpus()
	assert.Nil(t, c.PickSeed(rand.New(rand.NewSource(1))))

	for i := 0; i < 10; i++ {
		require.NoError(t, c.Add(NewEntry([]byte{byte(i)}, "", 0)))
	}

	// Same rng seed, same pick sequence.
	first := make([]string, 0, 20)
	second := make([]string, 0, 20)
	rngA := rand.New(rand.NewSource(42))
	rngB := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		first = append(first, c.PickSeed(rngA).ID)
		second = append(second, c.PickSeed(rngB).ID)
	}
	assert.Equal(t, first, second)
}

// TestGetByPriority verifies descending priority order and count clamping.
func TestGetByPriority(t *testing.T) {
	c := NewCorpus()
	low := NewEntry([]byte{1}, "", 0)
	low.Priority = 10
	mid := NewEntry([]byte{2}, "", 0)
	mid.Priority = 50
	high := NewEntry([]byte{3}, "", 0)
	high.Priority = 90

	require.NoError(t, c.Add(low))
	require.NoError(t, c.Add(mid))
	require.NoError(t, c.Add(high))

	top := c.GetByPriority(2)
	require.Len(t, top, 2)
	assert.Equal(t, high.ID, top[0].ID)
	assert.Equal(t, mid.ID, top[1].ID)

	assert.Len(t, c.GetByPriority(100), 3)
	assert.Nil(t, c.GetByPriority(0))
}

// TestCleanupRetention verifies crash finders and generation-0 seeds survive
// eviction while worked-out entries go first.
func TestCleanupRetention(t *testing.T) {
	c := NewCorpus()

	crasher := NewEntry([]byte{1}, "", 3)
	crasher.FoundCrash = true
	seed := NewEntry([]byte{2}, "", 0)
	tired := NewEntry([]byte{3}, "p", 5)
	tired.Executions = 50

	require.NoError(t, c.Add(crasher))
	require.NoError(t, c.Add(seed))
	require.NoError(t, c.Add(tired))

	removed := c.Cleanup(2)
	assert.Equal(t, 1, removed)
	assert.NotNil(t, c.Get(crasher.ID))
	assert.NotNil(t, c.Get(seed.ID))
	assert.Nil(t, c.Get(tired.ID))

	// Already at or below target: nothing happens.
	assert.Equal(t, 0, c.Cleanup(5))
}

// TestMaxSizeEviction verifies adds beyond the cap evict instead of growing.
func TestMaxSizeEviction(t *testing.T) {
	c := NewCorpus()
	c.SetMaxSize(5)

	for i := 0; i < 20; i++ {
		require.NoError(t, c.Add(NewEntry([]byte{byte(i)}, "", 1)))
	}
	assert.Equal(t, 5, c.Size())

	// Shrinking the cap evicts immediately.
	c.SetMaxSize(2)
	assert.Equal(t, 2, c.Size())
}

// TestLoadDirectory verifies seeds load from disk as generation zero.
func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seed1"), []byte{1, 2, 3}, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seed2"), []byte{4, 5}, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	c := NewCorpus()
	loaded, err := c.LoadDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded)
	assert.Equal(t, 2, c.Size())

	for _, e := range c.GetAll() {
		assert.Equal(t, 0, e.Generation)
		assert.Empty(t, e.ParentID)
	}
}

// TestGeneratorProducesSeeds verifies count, size bounds, and that structured
// seeds are present.
func TestGeneratorProducesSeeds(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(7)))

	entries := gen.Generate(16, 64)
	require.Len(t, entries, 16)

	for _, e := range entries {
		assert.NotEmpty(t, e.Data)
		assert.Equal(t, 0, e.Generation)
	}

	assert.Nil(t, gen.Generate(0, 64))
}

// TestGeneratorDeterministic verifies a fixed seed reproduces the seed set.
func TestGeneratorDeterministic(t *testing.T) {
	a := NewGenerator(rand.New(rand.NewSource(3))).Generate(8, 32)
	b := NewGenerator(rand.New(rand.NewSource(3))).Generate(8, 32)

	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Data, b[i].Data)
	}
}
