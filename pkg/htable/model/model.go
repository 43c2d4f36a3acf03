// Package model provides a deliberately simple, in-memory state model of
// htable's publicly observable behavior.
//
// The model is intentionally easy to audit: it favors clarity over
// performance and ignores slot layout. It answers what a table must return,
// not where entries live, so it covers the Overwrite and Reject policies
// only. Under Coexist the result of a lookup depends on probe order.
package model

import (
	"fmt"
	"maps"

	"github.com/calvinalkan/htable/pkg/htable"
)

// Table mirrors a htable.Table as a plain map bounded by Capacity.
type Table[V any] struct {
	Capacity int
	Policy   htable.DuplicatePolicy
	Entries  map[string]V
}

// New validates options and returns an empty model.
func New[V any](capacity int, policy htable.DuplicatePolicy) (*Table[V], error) {
	if capacity < 0 {
		return nil, htable.ErrInvalidInput
	}

	if policy != htable.Overwrite && policy != htable.Reject {
		return nil, fmt.Errorf("model does not cover policy %v: %w", policy, htable.ErrInvalidInput)
	}

	return &Table[V]{
		Capacity: capacity,
		Policy:   policy,
		Entries:  make(map[string]V),
	}, nil
}

// Clone makes a deep copy so tests can fork the exact same state.
func (m *Table[V]) Clone() *Table[V] {
	if m == nil {
		return nil
	}

	return &Table[V]{
		Capacity: m.Capacity,
		Policy:   m.Policy,
		Entries:  maps.Clone(m.Entries),
	}
}

// Len returns the number of stored keys.
func (m *Table[V]) Len() int {
	return len(m.Entries)
}

// Insert stores key, honoring the duplicate policy and capacity.
func (m *Table[V]) Insert(key string, value V) error {
	if _, found := m.Entries[key]; found {
		if m.Policy == htable.Reject {
			return htable.ErrDuplicateKey
		}

		m.Entries[key] = value

		return nil
	}

	if len(m.Entries) >= m.Capacity {
		return htable.ErrCapacityExhausted
	}

	m.Entries[key] = value

	return nil
}

// Get returns the value stored under key.
func (m *Table[V]) Get(key string) (V, error) {
	value, found := m.Entries[key]
	if !found {
		var zero V

		return zero, htable.ErrKeyNotFound
	}

	return value, nil
}

// Erase removes key.
func (m *Table[V]) Erase(key string) error {
	if _, found := m.Entries[key]; !found {
		return htable.ErrKeyNotFound
	}

	delete(m.Entries, key)

	return nil
}

// Clear removes every key. A zero-capacity model has nothing to clear.
func (m *Table[V]) Clear() {
	clear(m.Entries)
}
