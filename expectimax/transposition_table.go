package expectimax

import (
	"errors"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

// CachePolicy decides how long transposition table entries live.
type CachePolicy int

const (
	// CachePerSearch empties the table at the start of every search.
	CachePerSearch CachePolicy = iota
	// CachePersistent keeps every entry for the lifetime of the solver, with
	// no bound on its size. Entries computed after the deadline are kept too.
	CachePersistent
	// CacheBounded keeps entries across searches in a fixed-size LRU.
	CacheBounded
)

var errUnknownCachePolicy = errors.New("unknown cache policy")

func (p CachePolicy) String() string {
	switch p {
	case CachePerSearch:
		return "per-search"
	case CachePersistent:
		return "persistent"
	case CacheBounded:
		return "bounded"
	}
	return fmt.Sprintf("CachePolicy(%d)", int(p))
}

func ParseCachePolicy(s string) (CachePolicy, error) {
	switch s {
	case "per-search", "":
		return CachePerSearch, nil
	case "persistent":
		return CachePersistent, nil
	case "bounded", "lru":
		return CacheBounded, nil
	}
	return 0, fmt.Errorf("%w: %q", errUnknownCachePolicy, s)
}

// Rough memory footprint of one bounded-cache entry: the key and value, the
// LRU list element and the map slot.
const entrySize = 96

// Smallest bounded table we will create, whatever the memory says.
const minBoundedEntries = 1 << 16

// TableKey identifies a search node. The same tiles at a different
// remaining depth or on a different turn are a different node.
type TableKey struct {
	Hash       uint64
	Depth      uint8
	Maximizing bool
}

type tableStore interface {
	get(k TableKey) (float64, bool)
	put(k TableKey, v float64)
	len() int
	clear()
}

type mapStore map[TableKey]float64

func (m mapStore) get(k TableKey) (float64, bool) {
	v, ok := m[k]
	return v, ok
}

func (m mapStore) put(k TableKey, v float64) { m[k] = v }
func (m mapStore) len() int                  { return len(m) }
func (m mapStore) clear()                    { clear(m) }

type lruStore struct {
	c *lru.Cache[TableKey, float64]
}

func (l lruStore) get(k TableKey) (float64, bool) { return l.c.Get(k) }
func (l lruStore) put(k TableKey, v float64)      { l.c.Add(k, v) }
func (l lruStore) len() int                       { return l.c.Len() }
func (l lruStore) clear()                         { l.c.Purge() }

// TranspositionTable memoizes node values. It is owned by a single solver
// and is not safe for concurrent use; parallel games each get their own
// solver. The counters are atomics so they can be read while a search runs.
type TranspositionTable struct {
	policy   CachePolicy
	capacity int
	entries  tableStore

	created atomic.Uint64
	lookups atomic.Uint64
	hits    atomic.Uint64
}

// BoundedCapacity converts a fraction of system memory into a number of
// entries for the bounded policy.
func BoundedCapacity(fractionOfMemory float64) int {
	totalMem := memory.TotalMemory()
	n := int(fractionOfMemory * float64(totalMem) / entrySize)
	if n < minBoundedEntries {
		n = minBoundedEntries
	}
	return n
}

// Reset throws away all entries and sets up the table for the given policy.
// capacity is only used by CacheBounded; if it is not positive it is derived
// from fractionOfMemory.
func (t *TranspositionTable) Reset(policy CachePolicy, capacity int, fractionOfMemory float64) error {
	switch policy {
	case CachePerSearch, CachePersistent:
		t.entries = mapStore{}
		t.capacity = 0
	case CacheBounded:
		if capacity <= 0 {
			capacity = BoundedCapacity(fractionOfMemory)
		}
		c, err := lru.New[TableKey, float64](capacity)
		if err != nil {
			return err
		}
		t.entries = lruStore{c}
		t.capacity = capacity
		log.Debug().Int("capacity", capacity).
			Float64("memory-fraction", fractionOfMemory).
			Uint64("total-system-memory-bytes", memory.TotalMemory()).
			Msg("bounded-transposition-table")
	default:
		return fmt.Errorf("%w: %d", errUnknownCachePolicy, int(policy))
	}
	t.policy = policy
	t.resetCounters()
	return nil
}

func (t *TranspositionTable) resetCounters() {
	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
}

// beginSearch is called at the start of every search.
func (t *TranspositionTable) beginSearch() {
	if t.entries == nil {
		t.entries = mapStore{}
	}
	if t.policy == CachePerSearch {
		t.entries.clear()
	}
	t.resetCounters()
}

func (t *TranspositionTable) lookup(k TableKey) (float64, bool) {
	t.lookups.Add(1)
	v, ok := t.entries.get(k)
	if ok {
		t.hits.Add(1)
	}
	return v, ok
}

func (t *TranspositionTable) store(k TableKey, v float64) {
	t.entries.put(k, v)
	t.created.Add(1)
}

func (t *TranspositionTable) Policy() CachePolicy {
	return t.policy
}

// Capacity is the maximum number of entries, or 0 if unbounded.
func (t *TranspositionTable) Capacity() int {
	return t.capacity
}

func (t *TranspositionTable) Len() int {
	if t.entries == nil {
		return 0
	}
	return t.entries.len()
}

// TableStats are the counters of the most recent search.
type TableStats struct {
	Created uint64 `yaml:"created"`
	Lookups uint64 `yaml:"lookups"`
	Hits    uint64 `yaml:"hits"`
	Size    int    `yaml:"size"`
}

func (t *TranspositionTable) Stats() TableStats {
	return TableStats{
		Created: t.created.Load(),
		Lookups: t.lookups.Load(),
		Hits:    t.hits.Load(),
		Size:    t.Len(),
	}
}
