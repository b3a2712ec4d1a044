// File: core/superblock/normalize.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Recovers an object's base pointer from any interior pointer within it,
// and reports the bytes remaining in the slot from that interior point.
// Power-of-two size classes take a bitmask fast path instead of modulo,
// since integer modulo is notably slow on some architectures.

package superblock

import "unsafe"

// Normalize returns the base of the slot containing ptr. ptr must lie
// within [start, start+totalObjects*objectSize).
func (h *Header) Normalize(ptr unsafe.Pointer) unsafe.Pointer {
	offset := uintptr(ptr) - uintptr(h.start)
	if h.sizeIsPow2 {
		return unsafe.Pointer(uintptr(ptr) - (offset & (h.objectSize - 1)))
	}
	return unsafe.Pointer(uintptr(ptr) - (offset % h.objectSize))
}

// GetSize returns the number of bytes remaining in ptr's slot, counting
// from ptr itself (not from the slot's base).
func (h *Header) GetSize(ptr unsafe.Pointer) uintptr {
	offset := uintptr(ptr) - uintptr(h.start)
	if h.sizeIsPow2 {
		return h.objectSize - (offset & (h.objectSize - 1))
	}
	return h.objectSize - (offset % h.objectSize)
}
