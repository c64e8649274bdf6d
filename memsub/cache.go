// Package memsub adapts Akita's cache directory to the simulator's
// word-addressed memory, tracking hit/miss statistics for LW/LB/SW/SB
// accesses without changing their fixed execute-stage latency. It is
// instrumentation riding along with the existing memory access, not a
// second timing model: every access still takes the fixed MEM latency the
// execute stage gives it.
package memsub

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Config holds the geometry of the L1 data cache used for access
// statistics.
type Config struct {
	// Sets is the number of cache sets.
	Sets int
	// Associativity is the number of ways per set.
	Associativity int
	// WordsPerLine is the number of memory words per cache line.
	WordsPerLine int
}

// DefaultConfig returns a small L1-like geometry appropriate for the
// simulator's tiny word-addressed memory: 8 sets, 2-way, 4 words/line.
func DefaultConfig() Config {
	return Config{Sets: 8, Associativity: 2, WordsPerLine: 4}
}

// BackingStore is the next level behind the cache -- the simulator's flat
// word-addressed Memory.
type BackingStore interface {
	Read(addr int64) int64
	Write(addr, value int64)
}

// Stats holds cumulative cache access counters.
type Stats struct {
	Reads     uint64
	Writes    uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cache tracks hit/miss behavior for word-addressed memory accesses using
// an Akita cache directory for tag/LRU management. Data itself lives in
// the backing store; the cache only classifies accesses.
type Cache struct {
	config    Config
	directory *akitacache.DirectoryImpl
	backing   BackingStore
	stats     Stats
}

// New creates a Cache with the given geometry, backed by memory.
func New(config Config, backing BackingStore) *Cache {
	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			config.Sets,
			config.Associativity,
			config.WordsPerLine,
			akitacache.NewLRUVictimFinder(),
		),
		backing: backing,
	}
}

// Stats returns a copy of the cumulative access statistics.
func (c *Cache) Stats() Stats { return c.stats }

// Reset clears all cached lines and statistics.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Stats{}
}

// lineAddr returns the line-aligned address for addr, as a uint64 to match
// Akita's directory API (Lookup/FindVictim/Block.Tag all take/hold uint64).
func (c *Cache) lineAddr(addr int64) uint64 {
	words := int64(c.config.WordsPerLine)
	return uint64((addr / words) * words)
}

// Read classifies a load at addr as a hit or miss and returns the value
// from the backing store. The value always comes from backing.Read: this
// cache never holds data independently of the flat memory model, so a
// miss cannot desynchronize from a hit.
func (c *Cache) Read(addr int64) int64 {
	c.stats.Reads++
	line := c.lineAddr(addr)
	block := c.directory.Lookup(0, line)
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
	} else {
		c.stats.Misses++
		c.fill(line)
	}
	return c.backing.Read(addr)
}

// Write classifies a store at addr as a hit or miss, allocating the line
// on a miss (write-allocate), then writes through to the backing store.
func (c *Cache) Write(addr, value int64) {
	c.stats.Writes++
	line := c.lineAddr(addr)
	block := c.directory.Lookup(0, line)
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
	} else {
		c.stats.Misses++
		c.fill(line)
	}
	c.backing.Write(addr, value)
}

func (c *Cache) fill(line uint64) {
	victim := c.directory.FindVictim(line)
	if victim == nil {
		return
	}
	if victim.IsValid {
		c.stats.Evictions++
	}
	victim.Tag = line
	victim.IsValid = true
	victim.IsDirty = false
	c.directory.Visit(victim)
}
