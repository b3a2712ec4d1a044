// File: core/superblock/alloc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The two-strategy allocation engine: reap (bump) until the payload is
// exhausted, then free-list. The release path returns objects to the
// free-list and triggers a full reset once the superblock empties.

package superblock

import "unsafe"

// Allocate returns a pointer to a fresh, Alignment-aligned slot, or nil
// if the superblock is full. Must be called under Lock.
func (h *Header) Allocate() unsafe.Pointer {
	if ptr := h.reapAlloc(); ptr != nil {
		return ptr
	}
	return h.freeListAlloc()
}

// reapAlloc advances the bump cursor through untouched payload bytes.
func (h *Header) reapAlloc() unsafe.Pointer {
	if h.reapable == 0 {
		return nil
	}
	ptr := h.position
	h.position = unsafe.Add(h.position, h.objectSize)
	h.reapable--
	h.free--
	return ptr
}

// freeListAlloc pops a previously freed slot.
func (h *Header) freeListAlloc() unsafe.Pointer {
	ptr := h.freeList.get()
	if ptr != nil {
		h.free--
	}
	return ptr
}

// Free returns ptr to the free-list. When this brings every object in
// the superblock back to free, the superblock resets to its pristine
// bump-only state. Must be called under Lock.
func (h *Header) Free(ptr unsafe.Pointer) {
	h.freeList.insert(ptr)
	h.free++
	if h.free == h.totalObjects {
		h.Clear()
	}
}

// Clear discards all free-list state and resumes bump allocation from
// start. Precondition: the caller guarantees no object from this
// superblock is live. Must be called under Lock.
func (h *Header) Clear() {
	h.freeList.clear()
	h.free = h.totalObjects
	h.reapable = h.totalObjects
	h.position = h.start
}
