// Package bufcheck validates capacity/length contracts between the harness
// and a signature or KEM provider.
//
// Providers work on caller-allocated buffers and report how many bytes they
// wrote. A misbehaving provider can silently truncate output or claim to have
// written past the end of its buffer; these checks catch both before the
// value is used downstream. All checks are pure.
package bufcheck

import (
	"errors"
	"fmt"
)

var (
	// ErrAllocationFailed is returned when a buffer does not hold the
	// capacity that was requested for it.
	ErrAllocationFailed = errors.New("buffer allocation failed")

	// ErrLengthOverflow is returned when a provider reports more bytes
	// written than the buffer can hold.
	ErrLengthOverflow = errors.New("reported length exceeds buffer capacity")

	// ErrEmptyOutput is returned when a provider reports a zero or negative
	// length for a stage that must produce output.
	ErrEmptyOutput = errors.New("provider reported empty output")
)

// CheckAllocation verifies that buf holds exactly the requested number of
// bytes. A nil buffer with a non-zero request fails.
func CheckAllocation(buf []byte, requested int) error {
	if requested < 0 {
		return fmt.Errorf("%w: negative size %d requested", ErrAllocationFailed, requested)
	}
	if len(buf) != requested {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrAllocationFailed, len(buf), requested)
	}
	return nil
}

// CheckLength verifies that a provider-reported length is self-consistent
// with the capacity of the buffer it wrote into. Zero is rejected: signatures
// and recovered plaintext are never empty for a non-empty input message.
func CheckLength(actual, capacity int) error {
	if actual <= 0 {
		return fmt.Errorf("%w: reported length %d", ErrEmptyOutput, actual)
	}
	if actual > capacity {
		return fmt.Errorf("%w: got %d, capacity %d", ErrLengthOverflow, actual, capacity)
	}
	return nil
}
