package db

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBudget(t *testing.T) {
	m := memoryBudget{limit: 100}
	assert.NoError(t, m.reserve(60))
	assert.ErrorIs(t, m.reserve(41), ErrOutOfMemory)
	assert.Equal(t, int64(60), m.used)
	assert.NoError(t, m.reserve(40))

	m.release(200)
	assert.Equal(t, int64(0), m.used)

	unbounded := memoryBudget{}
	assert.NoError(t, unbounded.reserve(1<<40))
}

func TestNewDictOverBudget(t *testing.T) {
	_, err := NewDict(nil, WithMaxMemory(slotsUsage(InitialCapacity)-1))
	assert.ErrorIs(t, err, ErrOutOfMemory)
}

func TestDictKeyCopyOverBudget(t *testing.T) {
	d := newTestDict(t, nil, WithMaxMemory(slotsUsage(InitialCapacity)))

	assert.ErrorIs(t, d.Put("a", 1), ErrOutOfMemory)
	assert.Equal(t, 0, d.Size())
	assert.False(t, d.Contains("a"))
	assert.Equal(t, slotsUsage(InitialCapacity), d.UsedMemory())
}

func TestDictResizeOverBudget(t *testing.T) {
	// room for the keys but not for a 32-slot array next to the current one
	d := newTestDict(t, nil, WithMaxMemory(2*slotsUsage(InitialCapacity)))

	for i := 0; i < 11; i++ {
		require.NoError(t, d.Put(fmt.Sprintf("k%02d", i), i))
	}
	before := d.Stats()

	assert.ErrorIs(t, d.Put("k11", 11), ErrOutOfMemory)
	assert.Equal(t, before, d.Stats(), "a refused resize leaves the table untouched")
	for i := 0; i < 11; i++ {
		value, err := d.Get(fmt.Sprintf("k%02d", i))
		require.NoError(t, err)
		assert.Equal(t, i, value)
	}

	// a compaction that does not fit is skipped, the key still goes in
	require.NoError(t, d.Delete("k00"))
	require.NoError(t, d.Put("k11", 11))
	stats := d.Stats()
	assert.Equal(t, 11, stats.Size)
	assert.Equal(t, 1, stats.Tombstones)
	assert.Equal(t, 0, stats.Compactions)
	assert.Equal(t, InitialCapacity, stats.Capacity)
	assert.True(t, d.Contains("k11"))
}

func TestDictResurrectOverBudget(t *testing.T) {
	rec := &destroyRecorder{}
	d := newTestDict(t, rec, WithMaxMemory(2*slotsUsage(InitialCapacity)))
	for i := 0; i < 11; i++ {
		require.NoError(t, d.Put(fmt.Sprintf("k%02d", i), i))
	}
	require.NoError(t, d.Delete("k00"))
	used := d.UsedMemory()

	require.NoError(t, d.Put("k00", 100), "the tombstoned key is still owned")
	assert.Equal(t, 11, d.Size())
	assert.Equal(t, 0, d.Stats().Tombstones)
	assert.Equal(t, used, d.UsedMemory())
	value, err := d.Get("k00")
	require.NoError(t, err)
	assert.Equal(t, 100, value)

	// overwriting a live key next to a tombstone needs no memory either
	require.NoError(t, d.Delete("k01"))
	require.NoError(t, d.Put("k02", 200))
	value, err = d.Get("k02")
	require.NoError(t, err)
	assert.Equal(t, 200, value)
	assert.Equal(t, []any{0, 1, 2}, rec.values)
	assert.Equal(t, 0, d.Stats().Compactions)
}

func TestDictUsedMemoryTracksKeys(t *testing.T) {
	d := newTestDict(t, nil)
	base := d.UsedMemory()

	require.NoError(t, d.Put("abc", 1))
	assert.Equal(t, base+keyUsage("abc"), d.UsedMemory())

	require.NoError(t, d.Put("abc", 2))
	assert.Equal(t, base+keyUsage("abc"), d.UsedMemory(), "overwrite keeps the owned key")

	for i := 0; i < 20; i++ {
		require.NoError(t, d.Put(fmt.Sprintf("key%d", i), i))
	}
	assert.Equal(t, 32, d.Capacity())
	want := slotsUsage(32) + keyUsage("abc")
	for i := 0; i < 20; i++ {
		want += keyUsage(fmt.Sprintf("key%d", i))
	}
	assert.Equal(t, want, d.UsedMemory())
}
