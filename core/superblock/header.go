// File: core/superblock/header.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The bookkeeping header itself: size-class metadata, counters, owner
// back-pointer, doubly-linked list links, lock pass-through, and the
// magic-number integrity check. See alloc.go for the allocation engine
// and normalize.go for interior-pointer recovery.

package superblock

import (
	"sync"
	"unsafe"
)

// Alignment all payload slots and the payload start pointer must honor.
const Alignment = 16

// magicSeed is XORed with the header's own address to produce its live
// magic value, so a stray write from an unrelated structure is extremely
// unlikely to coincidentally validate.
const magicSeed uintptr = 0xCAFED00D

// Heap is the opaque back-reference the owning heap hierarchy stores on a
// header. The header never dereferences it; ownership transfer is the
// caller's responsibility.
type Heap = any

// Header is the in-band bookkeeping record for one superblock. It serves
// exactly one size class and belongs, at any moment, to at most one
// owning heap. Every mutating method requires the caller to be holding
// Lock; read-only observers (Valid, TotalObjects, ObjectsFree) may be
// called without it if the caller otherwise knows the header isn't being
// concurrently mutated.
type Header struct {
	magic        uintptr
	objectSize   uintptr
	sizeIsPow2   bool
	totalObjects uint32

	lock sync.Locker

	owner      Heap
	prev, next *Header

	reapable uint32
	free     uint32

	// buf pins the payload bytes alive and backs all pointer arithmetic;
	// start and position are derived from it and never escape it.
	buf      []byte
	start    unsafe.Pointer
	position unsafe.Pointer

	freeList freeList
}

// validateConstruction checks the (S, B) pair and the payload's base
// alignment against the invariants of spec §6: S >= Alignment, and
// either this is a single-object superblock or S is Alignment-aligned;
// the payload holds at least one object and starts on an Alignment
// boundary.
func validateConstruction(objectSize uintptr, totalObjects uint32, payload []byte) error {
	if objectSize < Alignment {
		return ErrInvalidObjectSize
	}
	if totalObjects != 1 && objectSize%Alignment != 0 {
		return ErrInvalidObjectSize
	}
	if totalObjects == 0 {
		return ErrInvalidBuffer
	}
	if uintptr(len(payload)) < objectSize {
		return ErrInvalidBuffer
	}
	if uintptr(unsafe.Pointer(&payload[0]))%Alignment != 0 {
		return ErrInvalidBuffer
	}
	return nil
}

// initHeader places h (already at its final address — possibly embedded
// in a RegionHeader/PinHeader/Padded* wrapper) into its pristine,
// bump-only state and computes its magic from its own, final address.
func initHeader(h *Header, lock sync.Locker, objectSize uintptr, buf []byte, totalObjects uint32) {
	if lock == nil {
		lock = &sync.Mutex{}
	}
	h.objectSize = objectSize
	h.sizeIsPow2 = objectSize&(objectSize-1) == 0
	h.totalObjects = totalObjects
	h.lock = lock
	h.buf = buf
	h.start = unsafe.Pointer(&buf[0])
	h.position = h.start
	h.reapable = totalObjects
	h.free = totalObjects
	h.magic = magicSeed ^ uintptr(unsafe.Pointer(h))
}

// NewHeader constructs the plain-variant header over a caller-carved
// payload buffer. Most callers wanting the header co-located with its
// superblock should use NewPaddedHeader instead; NewHeader is useful when
// the page allocator already accounts for the header's footprint itself.
func NewHeader(lock sync.Locker, objectSize uintptr, buf []byte) (*Header, error) {
	if objectSize < Alignment {
		return nil, ErrInvalidObjectSize
	}
	totalObjects := uint32(uintptr(len(buf)) / objectSize)
	if err := validateConstruction(objectSize, totalObjects, buf); err != nil {
		return nil, err
	}
	h := &Header{}
	initHeader(h, lock, objectSize, buf, totalObjects)
	return h, nil
}

// address returns the header's own address, used by Valid and Destroy.
func (h *Header) address() uintptr {
	return uintptr(unsafe.Pointer(h))
}

// Valid reports whether the header's magic still matches its address.
// False after Destroy, or if the header's memory has been corrupted.
func (h *Header) Valid() bool {
	return h.magic == magicSeed^h.address()
}

// Destroy zeroes the magic so that Valid reports false for a header whose
// owning page has been reclaimed. Free and the other mutators do not check
// Valid themselves; a caller that wants to reject a stray free must.
func (h *Header) Destroy() {
	h.magic = 0
}

// Lock acquires the caller-supplied lock. The header itself never calls
// this; every mutating method assumes the caller already holds it.
func (h *Header) Lock() { h.lock.Lock() }

// Unlock releases the caller-supplied lock.
func (h *Header) Unlock() { h.lock.Unlock() }

// Owner returns the heap currently responsible for this superblock, or
// nil between transfers.
func (h *Header) Owner() Heap { return h.owner }

// SetOwner records the heap now responsible for this superblock. Must be
// called under Lock.
func (h *Header) SetOwner(owner Heap) { h.owner = owner }

// Prev returns the preceding superblock in the owner's bin list.
func (h *Header) Prev() *Header { return h.prev }

// Next returns the succeeding superblock in the owner's bin list.
func (h *Header) Next() *Header { return h.next }

// SetPrev sets the preceding superblock link. Must be called under Lock.
func (h *Header) SetPrev(p *Header) { h.prev = p }

// SetNext sets the succeeding superblock link. Must be called under Lock.
func (h *Header) SetNext(n *Header) { h.next = n }

// ObjectSize returns the size class S this superblock serves.
func (h *Header) ObjectSize() uintptr { return h.objectSize }

// TotalObjects returns the superblock's object capacity.
func (h *Header) TotalObjects() uint32 { return h.totalObjects }

// ObjectsFree returns the number of objects currently available for
// allocation (reapable plus free-listed).
func (h *Header) ObjectsFree() uint32 { return h.free }

// reservePayload validates raw as a SuperblockSize buffer supplied by the
// page allocator (16-aligned at raw[0], longer than footprint bytes) and
// returns the bytes after the reserved header footprint. Whether that
// remainder holds at least one object is checked by validateConstruction.
func reservePayload(raw []byte, footprint uintptr) ([]byte, error) {
	if uintptr(len(raw)) <= footprint {
		return nil, ErrInvalidBuffer
	}
	if uintptr(unsafe.Pointer(&raw[0]))%Alignment != 0 {
		return nil, ErrInvalidBuffer
	}
	return raw[footprint:], nil
}
