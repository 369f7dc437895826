package wordpack

import "github.com/cockroachdb/errors"

// ErrPrecondition marks errors raised when input violates a format
// precondition (spec §7): in this package, a stream shorter than its
// header or a truncated dictionary section. A word larger than the format
// allows is reported with ErrCapacityExceeded instead. These are treated
// as fatal, not for recovery, but returned as ordinary Go errors
// rather than panics so an embedding caller can decide how to surface
// them, per SPEC_FULL.md §8.
var ErrPrecondition = errors.New("wordpack: precondition violation")

// ErrCapacityExceeded marks a resource cap: a word larger than 2^24-1
// bytes. The caller may abandon the batch or otherwise recover (§7); the
// dict package carries its own ErrCapacityExceeded for trie/dictionary
// caps, since it cannot import this package.
var ErrCapacityExceeded = errors.New("wordpack: capacity exceeded")

func markPrecondition(err error) error {
	return errors.Mark(err, ErrPrecondition)
}

func markCapacity(err error) error {
	return errors.Mark(err, ErrCapacityExceeded)
}
