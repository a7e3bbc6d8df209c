package db

import (
	"unsafe"
)

// slotSize is the in-memory size of one slot header.
var slotSize = int64(unsafe.Sizeof(slot{}))

// memoryBudget tracks the estimated bytes held by one Dict: its slot array
// and the keys it owns.
type memoryBudget struct {
	used  int64
	limit int64 // zero means unbounded
}

// reserve accounts n more bytes, or fails with ErrOutOfMemory when that
// would pass the limit.
func (m *memoryBudget) reserve(n int64) error {
	if m.limit > 0 && m.used+n > m.limit {
		return ErrOutOfMemory
	}
	m.used += n
	return nil
}

func (m *memoryBudget) release(n int64) {
	m.used -= n
	if m.used < 0 {
		m.used = 0
	}
}

func slotsUsage(capacity int) int64 {
	return int64(capacity) * slotSize
}

// keyUsage estimates an owned key: 16 bytes for the string header on a
// 64-bit system plus the content.
func keyUsage(key string) int64 {
	return int64(16 + len(key))
}
