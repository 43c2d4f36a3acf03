package htable

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// HashFunc maps a key to a 64-bit hash. The table reduces it modulo its
// capacity to obtain the home slot.
type HashFunc func(key string) uint64

const (
	djb2Seed = 5381

	fnv1aOffsetBasis = 14695981039346656037
	fnv1aPrime       = 1099511628211
)

// Djb2 is the default hash: h = h*33 + b over the key bytes, starting at
// 5381. Overflow wraps.
func Djb2(key string) uint64 {
	var hash uint64 = djb2Seed
	for i := range len(key) {
		hash = hash*33 + uint64(key[i])
	}

	return hash
}

// FNV1a computes the FNV-1a 64-bit hash over key bytes.
func FNV1a(key string) uint64 {
	var hash uint64 = fnv1aOffsetBasis
	for i := range len(key) {
		hash ^= uint64(key[i])
		hash *= fnv1aPrime
	}

	return hash
}

// XXHash hashes with xxHash64.
func XXHash(key string) uint64 {
	return xxhash.Sum64String(key)
}

// Hash names accepted by [HashByName].
const (
	HashDjb2   = "djb2"
	HashFNV1a  = "fnv1a"
	HashXXHash = "xxhash"
)

// HashNames lists the names accepted by [HashByName].
var HashNames = []string{HashDjb2, HashFNV1a, HashXXHash}

// HashByName resolves a configured hash name. The empty name selects [Djb2].
func HashByName(name string) (HashFunc, error) {
	switch name {
	case "", HashDjb2:
		return Djb2, nil
	case HashFNV1a:
		return FNV1a, nil
	case HashXXHash:
		return XXHash, nil
	default:
		return nil, fmt.Errorf("unknown hash %q (want one of %v): %w", name, HashNames, ErrInvalidInput)
	}
}
