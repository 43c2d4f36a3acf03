// Package htable provides a fixed-capacity, open-addressed hash table.
//
// Keys are strings; values are any type V. The slot count is set once at
// construction and never changes. Collisions are resolved by linear probing
// with wraparound from the key's home slot.
//
// # Basic Usage
//
//	shopping := htable.MustNew[int](7)
//
//	collided, err := shopping.Insert("milk", 3)
//	if errors.Is(err, htable.ErrCapacityExhausted) {
//	    // no free slot left
//	}
//
//	qty, err := shopping.Get("milk")
//	err = shopping.Erase("milk")
//	shopping.Clear()
//
// # Deletion
//
// Erase leaves a tombstone in the slot. Lookups probe past tombstones, so
// entries further along the same chain stay reachable; inserts reuse them.
// Clear turns every slot back to empty.
//
// # Duplicate Keys
//
// [WithDuplicates] selects what Insert does with a stored key: [Overwrite]
// (default) updates it in place, [Reject] returns [ErrDuplicateKey], and
// [Coexist] stores a second copy in another slot.
//
// # Concurrency
//
// A [Table] is not safe for concurrent use. Callers sharing one must hold a
// single lock for the duration of every operation.
//
// # Error Handling
//
// [ErrCapacityExhausted] and [ErrKeyNotFound] are ordinary outcomes; no
// operation retries on its own. Clearing a zero-capacity table is reported
// on the logger from [WithLogger], never as an error.
package htable
