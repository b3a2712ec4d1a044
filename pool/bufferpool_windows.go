// File: pool/bufferpool_windows.go
// +build windows
// Package pool
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows-specific raw memory source for the superblock-backed slab pool
// (slab_pool.go): VirtualAlloc-backed reservations, falling back to the Go
// heap when the reservation is refused.

package pool

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

const allocGranularity = 1 << 16 // 64 KiB, Windows VirtualAlloc granularity

// rawAlloc reserves at least n bytes via VirtualAlloc, rounded up to the
// allocation granularity. mapped reports whether buf must later be passed
// to rawRelease (VirtualFree) or is a heap fallback the GC will reclaim.
func rawAlloc(n int) (buf []byte, mapped bool) {
	length := ((n + allocGranularity - 1) / allocGranularity) * allocGranularity
	addr, err := windows.VirtualAlloc(0, uintptr(length), windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil || addr == 0 {
		return make([]byte, n), false
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), length), true
}

// rawRelease frees memory obtained from a mapped rawAlloc call. Never call
// this on a heap-fallback buffer (mapped == false).
func rawRelease(buf []byte) {
	if len(buf) == 0 {
		return
	}
	windows.VirtualFree(uintptr(unsafe.Pointer(&buf[0])), 0, windows.MEM_RELEASE)
}
