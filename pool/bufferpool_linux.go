// +build linux

// Package pool
// Author: momentics <momentics@gmail.com>
//
// Linux-specific raw memory source for the superblock-backed slab pool
// (slab_pool.go): hugepage-backed anonymous mappings, falling back to the
// Go heap when the mapping is refused (no CAP_IPC_LOCK, THP disabled, etc).

package pool

import "syscall"

const hugePageSize = 2 << 20 // 2 MiB

// rawAlloc reserves at least n bytes of memory for a superblock. The
// returned slice's length is rounded up to the hugepage boundary when the
// mapping succeeds; callers must treat that whole length as usable payload,
// not just the first n bytes, since superblock.NewPaddedHeader carves its
// own object count from whatever it is given. mapped reports whether buf
// came from a real mapping (and must later be passed to rawRelease) or is a
// plain Go-heap fallback that the garbage collector will reclaim on its own.
func rawAlloc(n int) (buf []byte, mapped bool) {
	length := ((n + hugePageSize - 1) / hugePageSize) * hugePageSize
	data, err := syscall.Mmap(-1, 0, length,
		syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_ANONYMOUS|syscall.MAP_PRIVATE|syscall.MAP_HUGETLB)
	if err != nil {
		data, err = syscall.Mmap(-1, 0, length,
			syscall.PROT_READ|syscall.PROT_WRITE,
			syscall.MAP_ANONYMOUS|syscall.MAP_PRIVATE)
	}
	if err != nil {
		return make([]byte, n), false
	}
	return data, true
}

// rawRelease unmaps memory obtained from a mapped rawAlloc call. Never call
// this on a heap-fallback buffer (mapped == false).
func rawRelease(buf []byte) {
	syscall.Munmap(buf)
}
