package htable

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// DuplicatePolicy decides what Insert does with a key that is already stored.
type DuplicatePolicy int

const (
	// Overwrite replaces the stored value in place.
	Overwrite DuplicatePolicy = iota

	// Reject fails the insert with [ErrDuplicateKey].
	Reject

	// Coexist skips duplicate detection. The new entry takes another slot
	// and lookups return whichever copy comes first in probe order.
	Coexist
)

var policyNames = [...]string{
	Overwrite: "overwrite",
	Reject:    "reject",
	Coexist:   "coexist",
}

func (p DuplicatePolicy) String() string {
	if p < 0 || int(p) >= len(policyNames) {
		return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
	}

	return policyNames[p]
}

// ParseDuplicatePolicy resolves a configured policy name. The empty name
// selects [Overwrite].
func ParseDuplicatePolicy(name string) (DuplicatePolicy, error) {
	if name == "" {
		return Overwrite, nil
	}

	for i, n := range policyNames {
		if n == name {
			return DuplicatePolicy(i), nil
		}
	}

	return 0, fmt.Errorf("unknown duplicate policy %q: %w", name, ErrInvalidInput)
}

// Option configures a table at construction.
type Option func(*options)

type options struct {
	hash       HashFunc
	duplicates DuplicatePolicy
	logger     logrus.FieldLogger
}

func defaultOptions() options {
	return options{
		hash:       Djb2,
		duplicates: Overwrite,
		logger:     logrus.StandardLogger(),
	}
}

// WithHash sets the key hash function. A nil fn keeps the default.
func WithHash(fn HashFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.hash = fn
		}
	}
}

// WithDuplicates sets the duplicate-key policy.
func WithDuplicates(policy DuplicatePolicy) Option {
	return func(o *options) {
		o.duplicates = policy
	}
}

// WithLogger routes diagnostics (such as clearing a zero-capacity table)
// to logger. A nil logger keeps the default.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
