//go:build linux && !cgo
// +build linux,!cgo

// File: pool/numapool_linux_pure.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific NUMA-aware allocator factory fallback when CGO is disabled.

package pool

// createNUMAAllocator returns a no-op NUMA allocator on Linux without CGO.
func createNUMAAllocator() NUMAAllocator {
	return newStubNUMAAllocator()
}

type stubNUMAAllocator struct{}

func (s *stubNUMAAllocator) Alloc(size int, node int) ([]byte, error) {
	return nil, nil
}

func (s *stubNUMAAllocator) Free([]byte) {}

func (s *stubNUMAAllocator) Nodes() (int, error) {
	return 1, nil
}

func newStubNUMAAllocator() NUMAAllocator {
	return &stubNUMAAllocator{}
}
