package db

import (
	"errors"
	"strings"

	"go.uber.org/zap"
)

const (
	// InitialCapacity is the number of slots of a freshly created Dict.
	InitialCapacity = 16

	// the table grows once (entries*loadDen) exceeds (capacity*loadNum),
	// i.e. past a 0.70 load factor
	loadNum = 7
	loadDen = 10
)

var (
	ErrInvalidArgument = errors.New("dict: invalid argument")
	ErrNotFound        = errors.New("dict: key not found")
	ErrTableFull       = errors.New("dict: table full")
	ErrOutOfMemory     = errors.New("dict: out of memory")
)

// DestroyFunc releases a value the Dict discards on its own initiative.
type DestroyFunc func(value any)

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotTombstone
)

// slot keeps its key after deletion so that a later Put of the same key
// can resurrect it in place.
type slot struct {
	key   string
	value any
	state slotState
}

// Dict is a string-keyed open-addressed hash table with linear probing.
//
// Values are opaque to the table. Whenever the table drops a value itself
// (overwrite, Delete, resize, Release) it hands it to the DestroyFunc given
// at creation; values returned by Pop belong to the caller.
//
// A Dict is not safe for concurrent use.
type Dict struct {
	slots      []slot
	size       int
	tombstones int
	destroy    DestroyFunc

	resizes     int
	compactions int

	mem    memoryBudget
	logger *zap.Logger
}

// Option configures a Dict at creation time.
type Option func(*Dict)

// WithLogger sets the logger used for resize and failure events.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dict) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMaxMemory bounds the estimated memory of the table in bytes. Zero
// means unbounded.
func WithMaxMemory(limit int64) Option {
	return func(d *Dict) {
		d.mem.limit = limit
	}
}

// NewDict returns an empty Dict with InitialCapacity slots. destroy may be nil.
func NewDict(destroy DestroyFunc, opts ...Option) (*Dict, error) {
	d := &Dict{
		destroy: destroy,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.mem.reserve(slotsUsage(InitialCapacity)); err != nil {
		return nil, err
	}
	d.slots = make([]slot, InitialCapacity)
	return d, nil
}

// hashKey is the polynomial hash h = h*33 + b over the unsigned key bytes,
// folded to the capacity.
func hashKey(key string, capacity int) int {
	var h uint64
	for i := 0; i < len(key); i++ {
		h = (h << 5) + h + uint64(key[i])
	}
	return int(h % uint64(capacity))
}

func overloaded(entries, capacity int) bool {
	return entries*loadDen > capacity*loadNum
}

func (d *Dict) valid(key string) bool {
	return d != nil && d.slots != nil && key != ""
}

func (d *Dict) discard(value any) {
	if d.destroy != nil && value != nil {
		d.destroy(value)
	}
}

// Put stores value under key. An existing value for key is handed to the
// DestroyFunc and replaced.
func (d *Dict) Put(key string, value any) error {
	if !d.valid(key) {
		return ErrInvalidArgument
	}
	if err := d.makeRoom(); err != nil {
		return err
	}

	capacity := len(d.slots)
	home := hashKey(key, capacity)
	for i := 0; i < capacity; i++ {
		s := &d.slots[(home+i)%capacity]
		switch s.state {
		case slotEmpty:
			if err := d.mem.reserve(keyUsage(key)); err != nil {
				d.logger.Warn("key copy refused by memory budget",
					zap.Int("keyLen", len(key)), zap.Int64("used", d.mem.used), zap.Int64("limit", d.mem.limit))
				return err
			}
			s.key = strings.Clone(key)
			s.value = value
			s.state = slotOccupied
			d.size++
			return nil
		case slotOccupied:
			if s.key == key {
				d.discard(s.value)
				s.value = value
				return nil
			}
		case slotTombstone:
			if s.key == key {
				s.value = value
				s.state = slotOccupied
				d.size++
				d.tombstones--
				return nil
			}
		}
	}

	d.logger.Warn("probe cycle exhausted",
		zap.Int("capacity", capacity), zap.Int("size", d.size), zap.Int("tombstones", d.tombstones))
	return ErrTableFull
}

// makeRoom doubles the table when one more live entry would pass the load
// factor. If only the tombstones push it over, the table is rehashed at the
// same capacity instead. Only growth can fail the caller: a refused
// compaction leaves the tombstones in place and the put probes as usual.
func (d *Dict) makeRoom() error {
	capacity := len(d.slots)
	switch {
	case overloaded(d.size+1, capacity):
		if err := d.rehash(capacity * 2); err != nil {
			return err
		}
		d.resizes++
	case overloaded(d.size+d.tombstones+1, capacity):
		if err := d.rehash(capacity); err != nil {
			d.logger.Debug("compaction skipped", zap.Int("capacity", capacity), zap.Error(err))
			return nil
		}
		d.compactions++
	}
	return nil
}

// rehash moves every live entry into a fresh array of the given capacity.
// Tombstones are dropped. The table is untouched if the new array does not
// fit the memory budget.
func (d *Dict) rehash(capacity int) error {
	if err := d.mem.reserve(slotsUsage(capacity)); err != nil {
		d.logger.Warn("resize refused by memory budget",
			zap.Int("capacity", capacity), zap.Int64("used", d.mem.used), zap.Int64("limit", d.mem.limit))
		return err
	}

	slots := make([]slot, capacity)
	freed := slotsUsage(len(d.slots))
	for i := range d.slots {
		s := &d.slots[i]
		switch s.state {
		case slotOccupied:
			place(slots, s.key, s.value)
		case slotTombstone:
			freed += keyUsage(s.key)
			d.discard(s.value)
		}
	}

	d.logger.Debug("rehash",
		zap.Int("from", len(d.slots)), zap.Int("to", capacity),
		zap.Int("size", d.size), zap.Int("droppedTombstones", d.tombstones))

	d.mem.release(freed)
	d.slots = slots
	d.tombstones = 0
	return nil
}

// place puts a live entry into the first empty slot of its probe sequence.
// slots must have room for it.
func place(slots []slot, key string, value any) {
	capacity := len(slots)
	home := hashKey(key, capacity)
	for i := 0; i < capacity; i++ {
		s := &slots[(home+i)%capacity]
		if s.state == slotEmpty {
			*s = slot{key: key, value: value, state: slotOccupied}
			return
		}
	}
}

// lookup returns the index of the live slot holding key. Tombstones are
// probed through; the first empty slot ends the search.
func (d *Dict) lookup(key string) (int, error) {
	if !d.valid(key) {
		return -1, ErrInvalidArgument
	}
	capacity := len(d.slots)
	home := hashKey(key, capacity)
	for i := 0; i < capacity; i++ {
		idx := (home + i) % capacity
		s := &d.slots[idx]
		switch s.state {
		case slotEmpty:
			return -1, ErrNotFound
		case slotOccupied:
			if s.key == key {
				return idx, nil
			}
		}
	}
	return -1, ErrNotFound
}

// Get returns the value stored under key. A nil value is a valid result;
// absence is only reported through ErrNotFound.
func (d *Dict) Get(key string) (any, error) {
	idx, err := d.lookup(key)
	if err != nil {
		return nil, err
	}
	return d.slots[idx].value, nil
}

// Contains reports whether key has a live entry.
func (d *Dict) Contains(key string) bool {
	_, err := d.lookup(key)
	return err == nil
}

// Delete removes key and hands its value to the DestroyFunc.
func (d *Dict) Delete(key string) error {
	idx, err := d.lookup(key)
	if err != nil {
		return err
	}
	s := &d.slots[idx]
	d.discard(s.value)
	d.bury(s)
	return nil
}

// Pop removes key and returns its value without destroying it.
func (d *Dict) Pop(key string) (any, error) {
	idx, err := d.lookup(key)
	if err != nil {
		return nil, err
	}
	s := &d.slots[idx]
	value := s.value
	d.bury(s)
	return value, nil
}

func (d *Dict) bury(s *slot) {
	s.value = nil
	s.state = slotTombstone
	d.size--
	d.tombstones++
}

// Size returns the number of live entries. A nil Dict is empty.
func (d *Dict) Size() int {
	if d == nil {
		return 0
	}
	return d.size
}

// Capacity returns the number of slots.
func (d *Dict) Capacity() int {
	if d == nil {
		return 0
	}
	return len(d.slots)
}

// Release destroys every live value and drops all keys. The Dict rejects
// every operation afterwards.
func (d *Dict) Release() {
	if d == nil || d.slots == nil {
		return
	}
	for i := range d.slots {
		if d.slots[i].state == slotOccupied {
			d.discard(d.slots[i].value)
		}
	}
	d.mem.release(d.mem.used)
	d.slots = nil
	d.size = 0
	d.tombstones = 0
}

// Stats is a snapshot of the table's shape.
type Stats struct {
	Size        int
	Capacity    int
	Tombstones  int
	Resizes     int
	Compactions int
	UsedMemory  int64
}

// Stats reports the current shape of the table. A nil Dict reports zeros.
func (d *Dict) Stats() Stats {
	if d == nil {
		return Stats{}
	}
	return Stats{
		Size:        d.size,
		Capacity:    len(d.slots),
		Tombstones:  d.tombstones,
		Resizes:     d.resizes,
		Compactions: d.compactions,
		UsedMemory:  d.mem.used,
	}
}

// UsedMemory returns the estimated bytes held by the table.
func (d *Dict) UsedMemory() int64 {
	if d == nil {
		return 0
	}
	return d.mem.used
}
