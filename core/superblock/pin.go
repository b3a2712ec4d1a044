// File: core/superblock/pin.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Lifecycle extension B: per-object reference counting. Objects shared
// across asynchronous completion paths (e.g. outstanding network
// operations) must survive a nominal free until every holder releases
// them, so free is replaced by Pin/Unpin and a slot only returns to the
// free-list on the 1->0 transition.
//
// Layout: the last totalObjects bytes of the caller-supplied buffer form
// a refcount strip, indexed in reverse by object index so that object 0
// sits at the highest address in the strip. totalObjects is computed as
// floor(B/(S+1)) to reserve exactly one refcount byte per object — the
// source expression this replaces evaluates to zero and was a typo.

package superblock

import (
	"sync"
	"unsafe"
)

// RefCountSaturation is the ceiling a refcount is clamped to; Pin past
// this point only raises a diagnostic.
const RefCountSaturation = 0xFF

// PinHeader is the plain Header plus a trailing per-slot refcount strip.
// Mutually exclusive with RegionHeader.
type PinHeader struct {
	Header

	// full is the entire caller-supplied buffer, including the trailing
	// refcount strip that lies past Header.buf's payload region.
	full []byte
}

// NewPinHeader constructs a PinHeader over a caller-carved buffer of B
// bytes: the leading floor(B/(S+1))*S bytes serve as the object area,
// the trailing floor(B/(S+1)) bytes are the refcount strip. See
// NewPaddedPinHeader for the in-band-footprint entry point.
func NewPinHeader(lock sync.Locker, objectSize uintptr, buf []byte) (*PinHeader, error) {
	if objectSize < Alignment {
		return nil, ErrInvalidObjectSize
	}
	bufferSize := uintptr(len(buf))
	totalObjects := uint32(bufferSize / (objectSize + 1))
	payload := buf[:uintptr(totalObjects)*objectSize]
	if err := validateConstruction(objectSize, totalObjects, payload); err != nil {
		return nil, err
	}
	ph := &PinHeader{full: buf}
	initHeader(&ph.Header, lock, objectSize, payload, totalObjects)
	return ph, nil
}

func (ph *PinHeader) refCountIndex(ptr unsafe.Pointer) uintptr {
	return (uintptr(ptr) - uintptr(ph.start)) / ph.objectSize
}

func (ph *PinHeader) refCountSlot(i uintptr) *byte {
	return &ph.full[uintptr(len(ph.full))-1-i]
}

// Allocate reaps or free-list-allocates a slot as usual, then
// initializes its refcount to 1 before returning it. Must be called
// under Lock.
func (ph *PinHeader) Allocate() unsafe.Pointer {
	ptr := ph.Header.Allocate()
	if ptr == nil {
		return nil
	}
	*ph.refCountSlot(ph.refCountIndex(ptr)) = 1
	return ptr
}

// Pin increments ptr's refcount, saturating (with a diagnostic) at
// RefCountSaturation rather than wrapping. Must be called under Lock.
func (ph *PinHeader) Pin(ptr unsafe.Pointer) {
	slot := ph.refCountSlot(ph.refCountIndex(ptr))
	if *slot == RefCountSaturation {
		DiagSink("pin: refcount overflow at %p", ptr)
		return
	}
	*slot++
}

// Unpin decrements ptr's refcount; on the 1->0 transition the slot
// returns to the free-list, and a full-empty superblock resets per
// Clear. Decrementing a zero refcount is a diagnostic, not a panic.
// Must be called under Lock.
func (ph *PinHeader) Unpin(ptr unsafe.Pointer) {
	slot := ph.refCountSlot(ph.refCountIndex(ptr))
	if *slot == 0 {
		DiagSink("unpin: refcount underflow at %p", ptr)
		return
	}
	*slot--
	if *slot == 0 {
		ph.Header.freeList.insert(ptr)
		ph.Header.free++
		if ph.Header.free == ph.Header.totalObjects {
			ph.Header.Clear()
		}
	}
}

// Free is a single Unpin: the pin-variant superblock has no separate
// free operation, per spec.
func (ph *PinHeader) Free(ptr unsafe.Pointer) {
	ph.Unpin(ptr)
}
