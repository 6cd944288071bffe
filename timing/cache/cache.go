// Package cache provides a tag-only cache model, built on the Akita cache
// directory, that profiles bus traffic.
//
// The profiler never stores data. It only tracks which blocks a cache of
// the configured geometry would hold, so attaching it to the bus changes
// hit/miss statistics and nothing else.
package cache

import (
	"fmt"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/sarchlab/rvsim/emu"
)

// Config holds cache configuration parameters.
type Config struct {
	// Size in bytes
	Size int
	// Associativity (number of ways)
	Associativity int
	// BlockSize in bytes (cache line size)
	BlockSize int
	// HitLatency in cycles
	HitLatency uint64
	// MissLatency in cycles
	MissLatency uint64
}

// DefaultL1IConfig returns a small instruction cache: 4KB, 2-way, 16B
// lines.
func DefaultL1IConfig() Config {
	return Config{
		Size:          4 * 1024,
		Associativity: 2,
		BlockSize:     16,
		HitLatency:    1,
		MissLatency:   10,
	}
}

// Validate checks that the geometry describes at least one whole set.
func (c Config) Validate() error {
	if c.Associativity <= 0 {
		return fmt.Errorf("associativity must be > 0")
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("block_size must be > 0")
	}
	setBytes := c.Associativity * c.BlockSize
	if c.Size < setBytes || c.Size%setBytes != 0 {
		return fmt.Errorf("size %d must be a positive multiple of associativity*block_size (%d)",
			c.Size, setBytes)
	}
	return nil
}

// AccessResult contains the result of a profiled access.
type AccessResult struct {
	// Hit indicates whether the access was a cache hit.
	Hit bool
	// Latency is the number of cycles this access would take.
	Latency uint64
	// Evicted is true if a valid block was replaced.
	Evicted bool
	// EvictedAddr is the block address of the evicted block.
	EvictedAddr uint64
}

// Statistics holds profiler statistics.
type Statistics struct {
	Reads     uint64
	Writes    uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
	// Latency is the sum of the latencies of all accesses.
	Latency uint64
}

// HitRate returns hits / (hits + misses).
func (s Statistics) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Profiler models the tag state of a set-associative cache.
type Profiler struct {
	config    Config
	directory *akitacache.DirectoryImpl
	stats     Statistics

	// filter restricts which access kinds are profiled.
	reads, writes bool
}

// New creates a profiler that records both reads and writes.
func New(config Config) (*Profiler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cache config: %w", err)
	}

	numSets := config.Size / (config.Associativity * config.BlockSize)

	return &Profiler{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		reads:  true,
		writes: true,
	}, nil
}

// NewReadOnly creates a profiler that ignores writes, e.g. for
// instruction fetch.
func NewReadOnly(config Config) (*Profiler, error) {
	p, err := New(config)
	if err != nil {
		return nil, err
	}
	p.writes = false
	return p, nil
}

// Config returns the cache configuration.
func (p *Profiler) Config() Config {
	return p.config
}

// Stats returns profiler statistics.
func (p *Profiler) Stats() Statistics {
	return p.stats
}

// ResetStats clears statistics.
func (p *Profiler) ResetStats() {
	p.stats = Statistics{}
}

// Reset invalidates all blocks and clears statistics.
func (p *Profiler) Reset() {
	p.directory.Reset()
	p.stats = Statistics{}
}

// ObserveAccess implements emu.AccessObserver.
func (p *Profiler) ObserveAccess(kind emu.AccessKind, addr uint32) {
	switch kind {
	case emu.AccessRead:
		if p.reads {
			p.Access(uint64(addr), false)
		}
	case emu.AccessWrite:
		if p.writes {
			p.Access(uint64(addr), true)
		}
	}
}

// Access classifies one access and updates the tag state.
func (p *Profiler) Access(addr uint64, isWrite bool) AccessResult {
	if isWrite {
		p.stats.Writes++
	} else {
		p.stats.Reads++
	}

	blockAddr := p.blockAddr(addr)

	block := p.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		p.stats.Hits++
		p.stats.Latency += p.config.HitLatency
		p.directory.Visit(block)
		if isWrite {
			block.IsDirty = true
		}
		return AccessResult{Hit: true, Latency: p.config.HitLatency}
	}

	p.stats.Misses++
	p.stats.Latency += p.config.MissLatency
	return p.allocate(blockAddr, isWrite)
}

// allocate installs blockAddr after a miss.
func (p *Profiler) allocate(blockAddr uint64, isWrite bool) AccessResult {
	result := AccessResult{Latency: p.config.MissLatency}

	victim := p.directory.FindVictim(blockAddr)
	if victim == nil {
		return result
	}

	if victim.IsValid {
		p.stats.Evictions++
		result.Evicted = true
		result.EvictedAddr = victim.Tag
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = isWrite
	p.directory.Visit(victim)

	return result
}

// Contains reports whether the block holding addr is resident.
func (p *Profiler) Contains(addr uint64) bool {
	block := p.directory.Lookup(0, p.blockAddr(addr))
	return block != nil && block.IsValid
}

// ResidentBlocks returns the number of valid blocks.
func (p *Profiler) ResidentBlocks() int {
	n := 0
	for _, set := range p.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid {
				n++
			}
		}
	}
	return n
}

func (p *Profiler) blockAddr(addr uint64) uint64 {
	return (addr / uint64(p.config.BlockSize)) * uint64(p.config.BlockSize)
}
