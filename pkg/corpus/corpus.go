/*
File: corpus.go
Description: Seed corpus management for the Adaptix Fuzzer. Provides efficient
storage and retrieval of mutation seeds with priority-based cleanup.
Thread-safe for concurrent access, although each fuzzing loop instance
normally owns its own corpus view and shares only the coverage tracker.
*/

package corpus

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is a single corpus input: a byte buffer considered interesting enough
// to keep as a future mutation seed.
type Entry struct {
	ID         string    `json:"id"`          // Unique identifier
	Data       []byte    `json:"data"`        // The seed bytes
	ParentID   string    `json:"parent_id"`   // ID of the entry this was mutated from
	Generation int       `json:"generation"`  // 0 = seed, 1+ = mutated
	CreatedAt  time.Time `json:"created_at"`  // When this entry was added
	Executions int64     `json:"executions"`  // Times this entry has been used as a seed
	Priority   int       `json:"priority"`    // Scheduling priority (higher = more important)
	NewSignals int       `json:"new_signals"` // Coverage signals first seen via this entry
	FoundCrash bool      `json:"found_crash"` // Whether a mutation of this entry crashed
}

// NewEntry creates a corpus entry with a fresh ID, copying the data so later
// mutations cannot alias the stored seed.
func NewEntry(data []byte, parentID string, generation int) *Entry {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Entry{
		ID:         uuid.New().String(),
		Data:       buf,
		ParentID:   parentID,
		Generation: generation,
		CreatedAt:  time.Now(),
		Priority:   100,
	}
}

// Corpus manages the collection of mutation seeds.
type Corpus struct {
	entries map[string]*Entry
	mu      sync.RWMutex

	maxSize int
}

// NewCorpus creates a new corpus instance.
func NewCorpus() *Corpus {
	return &Corpus{
		entries: make(map[string]*Entry),
		maxSize: 10000,
	}
}

// Add adds an entry to the corpus, evicting low-value entries when full.
// Adding an entry that already exists is a no-op.
func (c *Corpus) Add(entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cannot add nil entry")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[entry.ID]; exists {
		return nil
	}

	if len(c.entries) >= c.maxSize {
		c.cleanupLocked(c.maxSize - 1)
	}

	c.entries[entry.ID] = entry
	return nil
}

// Get retrieves an entry by ID, or nil if it does not exist.
func (c *Corpus) Get(id string) *Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[id]
}

// PickSeed returns one entry chosen by the injected randomness source, or nil
// when the corpus is empty. Using the caller's source keeps seed selection
// reproducible for a fixed seed.
func (c *Corpus) PickSeed(rng *rand.Rand) *Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.entries) == 0 {
		return nil
	}

	idx := rng.Intn(len(c.entries))
	ids := c.sortedIDsLocked()
	return c.entries[ids[idx]]
}

// GetByPriority returns up to count entries sorted by descending priority.
func (c *Corpus) GetByPriority(count int) []*Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if count <= 0 || len(c.entries) == 0 {
		return nil
	}

	entries := make([]*Entry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	sortByScoreDesc(entries, func(e *Entry) int { return e.Priority })

	if count > len(entries) {
		count = len(entries)
	}
	return entries[:count]
}

// Remove removes an entry, reporting whether it was present.
func (c *Corpus) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[id]; exists {
		delete(c.entries, id)
		return true
	}
	return false
}

// Size returns the current number of entries.
func (c *Corpus) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// SetMaxSize sets the maximum corpus size, evicting immediately if the
// current size exceeds it.
func (c *Corpus) SetMaxSize(maxSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.maxSize = maxSize
	if len(c.entries) > maxSize {
		c.cleanupLocked(maxSize)
	}
}

// Cleanup evicts entries down to targetSize, returning how many were removed.
// Entries with low priority and high execution counts go first; crash finders
// and generation-0 seeds are retained longest.
func (c *Corpus) Cleanup(targetSize int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cleanupLocked(targetSize)
}

func (c *Corpus) cleanupLocked(targetSize int) int {
	if targetSize < 0 || len(c.entries) <= targetSize {
		return 0
	}

	entries := make([]*Entry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	sortByScoreDesc(entries, retentionScore)

	removed := 0
	for i := targetSize; i < len(entries); i++ {
		delete(c.entries, entries[i].ID)
		removed++
	}
	return removed
}

// retentionScore ranks entries for eviction; higher scores are kept.
func retentionScore(e *Entry) int {
	score := e.Priority
	score -= int(e.Executions) * 5
	score += e.NewSignals * 10
	if e.FoundCrash {
		score += 1000
	}
	if e.Generation == 0 {
		score += 500
	}
	return score
}

// GetAll returns all entries, useful for corpus analysis.
func (c *Corpus) GetAll() []*Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]*Entry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	return entries
}

// LoadDirectory reads every regular file in dir as a generation-0 seed.
// Returns the number of seeds loaded.
func (c *Corpus) LoadDirectory(dir string) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		return 0, fmt.Errorf("failed to glob corpus files: %w", err)
	}

	loaded := 0
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil || info.IsDir() {
			continue
		}
		data, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		if err := c.Add(NewEntry(data, "", 0)); err == nil {
			loaded++
		}
	}
	return loaded, nil
}

// sortedIDsLocked returns entry IDs in lexical order so that index-based
// random picks are deterministic for a fixed rng seed (map iteration is not).
func (c *Corpus) sortedIDsLocked() []string {
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	for i := 0; i < len(ids)-1; i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[j] < ids[i] {
				ids[i], ids[j] = ids[j], ids[i]
			}
		}
	}
	return ids
}

// sortByScoreDesc sorts entries by a score function, highest first.
func sortByScoreDesc(entries []*Entry, score func(*Entry) int) {
	for i := 0; i < len(entries)-1; i++ {
		for j := i + 1; j < len(entries); j++ {
			if score(entries[i]) < score(entries[j]) {
				entries[i], entries[j] = entries[j], entries[i]
			}
		}
	}
}
