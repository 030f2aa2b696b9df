package perft

import (
	"sync"
	"sync/atomic"
)

// Number of shards for table locking (power of 2 for fast modulo)
const tableShardCount = 256
const tableShardMask = tableShardCount - 1

type tableEntry struct {
	key   uint64 // full Zobrist key
	nodes uint64
	depth int32
}

// Table caches subtree counts by position hash and remaining depth. It is safe for
// concurrent use by the workers of one Run.
type Table struct {
	entries []tableEntry
	shards  [tableShardCount]sync.RWMutex
	mask    uint64

	hits   atomic.Uint64
	probes atomic.Uint64
}

// NewTable creates a table using about sizeMB megabytes.
func NewTable(sizeMB int) *Table {
	if sizeMB < 1 {
		sizeMB = 1
	}
	const entrySize = 24
	n := roundDownToPowerOf2(uint64(sizeMB) * 1024 * 1024 / entrySize)

	return &Table{
		entries: make([]tableEntry, n),
		mask:    n - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe returns the stored count for hash at depth.
func (t *Table) Probe(hash uint64, depth int) (uint64, bool) {
	t.probes.Add(1)

	idx := hash & t.mask
	shard := idx & tableShardMask

	t.shards[shard].RLock()
	e := t.entries[idx]
	t.shards[shard].RUnlock()

	if e.key == hash && e.depth == int32(depth) {
		t.hits.Add(1)
		return e.nodes, true
	}
	return 0, false
}

// Store records a count. A deeper entry for another position is kept, since it
// stands for more work.
func (t *Table) Store(hash uint64, depth int, nodes uint64) {
	idx := hash & t.mask
	shard := idx & tableShardMask

	t.shards[shard].Lock()
	e := &t.entries[idx]
	if e.key == hash || int32(depth) >= e.depth {
		*e = tableEntry{key: hash, nodes: nodes, depth: int32(depth)}
	}
	t.shards[shard].Unlock()
}

// Clear empties the table.
func (t *Table) Clear() {
	for i := range t.shards {
		t.shards[i].Lock()
	}
	clear(t.entries)
	for i := range t.shards {
		t.shards[i].Unlock()
	}
	t.hits.Store(0)
	t.probes.Store(0)
}

// HitRate returns the fraction of probes that found an entry.
func (t *Table) HitRate() float64 {
	probes := t.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(t.hits.Load()) / float64(probes)
}
