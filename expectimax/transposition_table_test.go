package expectimax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCachePolicy(t *testing.T) {
	for _, p := range []CachePolicy{CachePerSearch, CachePersistent, CacheBounded} {
		parsed, err := ParseCachePolicy(p.String())
		assert.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
	_, err := ParseCachePolicy("forever")
	assert.ErrorIs(t, err, errUnknownCachePolicy)
}

func TestPerSearchTable(t *testing.T) {
	tt := &TranspositionTable{}
	assert.NoError(t, tt.Reset(CachePerSearch, 0, 0))
	tt.beginSearch()
	tt.store(TableKey{Hash: 1, Depth: 3}, 10)
	tt.store(TableKey{Hash: 1, Depth: 3, Maximizing: true}, 20)
	tt.store(TableKey{Hash: 1, Depth: 2}, 30)
	assert.Equal(t, 3, tt.Len())

	v, ok := tt.lookup(TableKey{Hash: 1, Depth: 3, Maximizing: true})
	assert.True(t, ok)
	assert.Equal(t, 20.0, v)
	_, ok = tt.lookup(TableKey{Hash: 2, Depth: 3})
	assert.False(t, ok)
	assert.Equal(t, TableStats{Created: 3, Lookups: 2, Hits: 1, Size: 3}, tt.Stats())

	tt.beginSearch()
	assert.Equal(t, 0, tt.Len())
	assert.Equal(t, TableStats{}, tt.Stats())
}

func TestPersistentTable(t *testing.T) {
	tt := &TranspositionTable{}
	assert.NoError(t, tt.Reset(CachePersistent, 0, 0))
	tt.beginSearch()
	for i := 0; i < 100; i++ {
		tt.store(TableKey{Hash: uint64(i), Depth: 1}, float64(i))
	}
	tt.beginSearch()
	assert.Equal(t, 100, tt.Len())
	v, ok := tt.lookup(TableKey{Hash: 42, Depth: 1})
	assert.True(t, ok)
	assert.Equal(t, 42.0, v)
	assert.Equal(t, 0, tt.Capacity())
}

func TestBoundedTableEvicts(t *testing.T) {
	tt := &TranspositionTable{}
	assert.NoError(t, tt.Reset(CacheBounded, 2, 0))
	assert.Equal(t, 2, tt.Capacity())
	tt.beginSearch()
	tt.store(TableKey{Hash: 1}, 1)
	tt.store(TableKey{Hash: 2}, 2)
	// Touch 1 so that 2 is the least recently used.
	_, ok := tt.lookup(TableKey{Hash: 1})
	assert.True(t, ok)
	tt.store(TableKey{Hash: 3}, 3)
	assert.Equal(t, 2, tt.Len())
	_, ok = tt.lookup(TableKey{Hash: 2})
	assert.False(t, ok)
	_, ok = tt.lookup(TableKey{Hash: 1})
	assert.True(t, ok)

	// Entries survive into the next search.
	tt.beginSearch()
	assert.Equal(t, 2, tt.Len())
}

func TestBoundedCapacityFromMemory(t *testing.T) {
	assert.GreaterOrEqual(t, BoundedCapacity(0), minBoundedEntries)
	assert.GreaterOrEqual(t, BoundedCapacity(0.01), minBoundedEntries)

	tt := &TranspositionTable{}
	assert.NoError(t, tt.Reset(CacheBounded, 0, 0.0001))
	assert.GreaterOrEqual(t, tt.Capacity(), minBoundedEntries)
}
