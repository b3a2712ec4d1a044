// File: core/superblock/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package superblock

import (
	"errors"
	"log"
)

// Sentinel errors surfaced by the header's public constructors. Runtime
// misuse of an already-constructed header (bad magic, pointer out of
// range, counter underflow) is not modeled as an error value, and no
// method checks for it in any build: Allocate, Free, Pin, Unpin and the
// link setters do not consult Valid or range-check their arguments, so
// such misuse is undefined behavior.
var (
	// ErrInvalidObjectSize is returned when S < Alignment, or when S isn't
	// a multiple of Alignment and the superblock holds more than one object.
	ErrInvalidObjectSize = errors.New("superblock: object size must be >= alignment and a multiple of alignment unless the superblock holds one object")

	// ErrInvalidBuffer is returned when B < S, or the payload start
	// pointer is not aligned to Alignment.
	ErrInvalidBuffer = errors.New("superblock: buffer too small or misaligned")

	// ErrRegionCreationFailed is returned verbatim by AcquireRegion when
	// the provider's create callback returns a nil handle; the header
	// does not cache the failure and will retry on the next call.
	ErrRegionCreationFailed = errors.New("superblock: memory region creation failed")
)

// DiagSink receives non-fatal diagnostic events: refcount saturation
// (RefCountOverflow), refcount underflow (RefCountUnderflow), and a
// second, distinct destructor supplied to an already-registered memory
// region. It defaults to the standard logger and may be replaced by the
// embedding application.
var DiagSink func(event string, args ...any) = func(event string, args ...any) {
	log.Printf("[superblock] "+event, args...)
}
