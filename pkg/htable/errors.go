package htable

import "errors"

// Sentinel errors returned by table operations.
//
// Callers should use [errors.Is] to check error types:
//
//	if errors.Is(err, htable.ErrCapacityExhausted) {
//	    // allocate a larger table and reinsert
//	}
var (
	// ErrCapacityExhausted indicates no free slot exists on the whole probe
	// cycle. The table is left unchanged.
	//
	// Recovery: build a larger table, reinsert every entry from [Table.All],
	// and replace the old one.
	ErrCapacityExhausted = errors.New("htable: capacity exhausted")

	// ErrKeyNotFound indicates the probe sequence ended without a match.
	//
	// Callers may treat absence as an expected outcome.
	ErrKeyNotFound = errors.New("htable: key not found")

	// ErrDuplicateKey indicates an insert of a key that is already stored
	// while the table uses the [Reject] policy.
	ErrDuplicateKey = errors.New("htable: duplicate key")

	// ErrInvalidInput indicates invalid arguments were provided.
	//
	// Common causes: negative capacity, unknown policy or hash name.
	//
	// This is a programming error.
	ErrInvalidInput = errors.New("htable: invalid input")
)
