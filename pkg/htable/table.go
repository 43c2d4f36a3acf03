package htable

import (
	"fmt"
	"iter"
	"strings"
)

// SlotState is the lifecycle state of a single slot.
type SlotState uint8

const (
	// SlotEmpty has never held an entry since construction or the last Clear.
	// A probe for an existing key ends here.
	SlotEmpty SlotState = iota

	// SlotOccupied holds a live entry.
	SlotOccupied

	// SlotTombstone held an entry that was erased. Lookups probe past it,
	// inserts may reuse it.
	SlotTombstone
)

func (s SlotState) String() string {
	switch s {
	case SlotEmpty:
		return "empty"
	case SlotOccupied:
		return "occupied"
	case SlotTombstone:
		return "tombstone"
	default:
		return fmt.Sprintf("SlotState(%d)", uint8(s))
	}
}

// Slot is a copy of one slot record, returned by [Table.Slots].
// Key and Value are zero unless State is [SlotOccupied].
type Slot[V any] struct {
	Index int
	State SlotState
	Key   string
	Value V
}

type slot[V any] struct {
	state SlotState
	key   string
	value V
}

// Table is a fixed-capacity, open-addressed table from string keys to
// values of type V. Collisions are resolved by linear probing with
// wraparound.
//
// A Table is not safe for concurrent use.
type Table[V any] struct {
	slots []slot[V]
	used  int
	opts  options
}

// New creates a table with capacity slots, all empty. The capacity never
// changes. A capacity of 0 is valid and behaves as an always-full table.
func New[V any](capacity int, opts ...Option) (*Table[V], error) {
	if capacity < 0 {
		return nil, fmt.Errorf("capacity must be >= 0, got %d: %w", capacity, ErrInvalidInput)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.duplicates < Overwrite || o.duplicates > Coexist {
		return nil, fmt.Errorf("duplicate policy %v: %w", o.duplicates, ErrInvalidInput)
	}

	return &Table[V]{
		slots: make([]slot[V], capacity),
		opts:  o,
	}, nil
}

// MustNew is like [New] but panics on error.
func MustNew[V any](capacity int, opts ...Option) *Table[V] {
	t, err := New[V](capacity, opts...)
	if err != nil {
		panic(err)
	}

	return t
}

// Cap returns the fixed number of slots.
func (t *Table[V]) Cap() int {
	return len(t.slots)
}

// Len returns the number of occupied slots.
func (t *Table[V]) Len() int {
	return t.used
}

// Policy returns the duplicate-key policy the table was built with.
func (t *Table[V]) Policy() DuplicatePolicy {
	return t.opts.duplicates
}

// Home returns the slot index key hashes to, before any probing.
// A zero-capacity table has no slots, so it reports [ErrCapacityExhausted].
func (t *Table[V]) Home(key string) (int, error) {
	if len(t.slots) == 0 {
		return 0, fmt.Errorf("home of %q: %w", key, ErrCapacityExhausted)
	}

	return t.home(key), nil
}

func (t *Table[V]) home(key string) int {
	return int(t.opts.hash(key) % uint64(len(t.slots)))
}

// Insert stores key with value.
//
// It reports collided=true when the entry did not land in (or was not
// found at) its home slot, i.e. linear probing was needed.
//
// Duplicate keys follow the table's [DuplicatePolicy]. When the whole probe
// cycle holds no free slot, Insert returns [ErrCapacityExhausted] and leaves
// the table unchanged.
func (t *Table[V]) Insert(key string, value V) (bool, error) {
	n := len(t.slots)
	if n == 0 {
		return false, fmt.Errorf("insert %q: %w", key, ErrCapacityExhausted)
	}

	start := t.home(key)
	free := -1

	for probe := range n {
		idx := (start + probe) % n
		s := &t.slots[idx]

		if s.state == SlotOccupied {
			if t.opts.duplicates != Coexist && s.key == key {
				if t.opts.duplicates == Reject {
					return false, fmt.Errorf("insert %q: %w", key, ErrDuplicateKey)
				}

				s.value = value

				return idx != start, nil
			}

			continue
		}

		if free < 0 {
			free = idx
		}

		// Past an empty slot the key cannot be stored further along.
		if s.state == SlotEmpty || t.opts.duplicates == Coexist {
			break
		}
	}

	if free < 0 {
		return false, fmt.Errorf("insert %q: %w", key, ErrCapacityExhausted)
	}

	t.slots[free] = slot[V]{state: SlotOccupied, key: key, value: value}
	t.used++

	return free != start, nil
}

// Get returns the value stored under key, or [ErrKeyNotFound].
func (t *Table[V]) Get(key string) (V, error) {
	idx, ok := t.find(key)
	if !ok {
		var zero V

		return zero, fmt.Errorf("get %q: %w", key, ErrKeyNotFound)
	}

	return t.slots[idx].value, nil
}

// Ref returns a pointer to the value stored under key so callers can update
// it in place. The pointer stays valid until the entry is erased or the
// table is cleared.
func (t *Table[V]) Ref(key string) (*V, error) {
	idx, ok := t.find(key)
	if !ok {
		return nil, fmt.Errorf("get %q: %w", key, ErrKeyNotFound)
	}

	return &t.slots[idx].value, nil
}

// Contains reports whether key is stored.
func (t *Table[V]) Contains(key string) bool {
	_, ok := t.find(key)

	return ok
}

// Erase removes key, leaving a tombstone so entries further along the same
// probe chain stay reachable. Under [Coexist] only the first copy in probe
// order is removed.
func (t *Table[V]) Erase(key string) error {
	idx, ok := t.find(key)
	if !ok {
		return fmt.Errorf("erase %q: %w", key, ErrKeyNotFound)
	}

	t.slots[idx] = slot[V]{state: SlotTombstone}
	t.used--

	return nil
}

// Clear resets every slot to empty, reclaiming tombstones.
//
// Clearing a zero-capacity table is a no-op reported as a warning on the
// table's logger, not as an error.
func (t *Table[V]) Clear() {
	if len(t.slots) == 0 {
		t.opts.logger.WithField("capacity", 0).Warn("htable: clear on a table of zero capacity")

		return
	}

	clear(t.slots)
	t.used = 0
}

// find probes from key's home slot. Tombstones are skipped; an empty slot or
// a full cycle ends the search.
func (t *Table[V]) find(key string) (int, bool) {
	n := len(t.slots)
	if n == 0 {
		return 0, false
	}

	start := t.home(key)

	for probe := range n {
		idx := (start + probe) % n
		s := &t.slots[idx]

		switch s.state {
		case SlotEmpty:
			return 0, false
		case SlotTombstone:
			continue
		}

		if s.key == key {
			return idx, true
		}
	}

	return 0, false
}

// Slots returns a copy of every slot record in index order.
func (t *Table[V]) Slots() []Slot[V] {
	out := make([]Slot[V], len(t.slots))
	for i, s := range t.slots {
		out[i] = Slot[V]{Index: i, State: s.state, Key: s.key, Value: s.value}
	}

	return out
}

// All yields the occupied entries in slot order.
func (t *Table[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, s := range t.slots {
			if s.state != SlotOccupied {
				continue
			}

			if !yield(s.key, s.value) {
				return
			}
		}
	}
}

// String renders one "(key, value)" line per slot in index order, including
// empty and erased slots, without a trailing newline. It is a debug view,
// not a serialization format.
func (t *Table[V]) String() string {
	var b strings.Builder

	for i, s := range t.slots {
		if i > 0 {
			b.WriteByte('\n')
		}

		fmt.Fprintf(&b, "(%s, %v)", s.key, s.value)
	}

	return b.String()
}
