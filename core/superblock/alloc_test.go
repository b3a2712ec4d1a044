// File: core/superblock/alloc_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package superblock

import (
	"testing"
	"unsafe"
)

func newTestHeader(t *testing.T, objectSize, bufferSize int) *Header {
	t.Helper()
	buf := alignedBuffer(bufferSize)
	h, err := NewHeader(nil, uintptr(objectSize), buf)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	return h
}

func ptrOffset(h *Header, ptr unsafe.Pointer) uintptr {
	return uintptr(ptr) - uintptr(h.start)
}

// Scenario 1: reap-only fill.
func TestReapOnlyFill(t *testing.T) {
	h := newTestHeader(t, 32, 128)
	var got []uintptr
	for i := 0; i < 4; i++ {
		ptr := h.Allocate()
		if ptr == nil {
			t.Fatalf("allocate %d: unexpected nil", i)
		}
		got = append(got, ptrOffset(h, ptr))
	}
	want := []uintptr{0, 32, 64, 96}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("allocate %d: offset = %d, want %d", i, got[i], w)
		}
	}
	if ptr := h.Allocate(); ptr != nil {
		t.Errorf("fifth allocate: got non-nil, want nil (superblock full)")
	}
}

// Scenario 2: free + bump reset.
func TestFreeBumpReset(t *testing.T) {
	h := newTestHeader(t, 32, 128)
	var slots []unsafe.Pointer
	for i := 0; i < 4; i++ {
		slots = append(slots, h.Allocate())
	}
	for i := 3; i >= 0; i-- {
		h.Free(slots[i])
	}
	if h.ObjectsFree() != h.TotalObjects() {
		t.Fatalf("ObjectsFree() = %d, want %d", h.ObjectsFree(), h.TotalObjects())
	}
	next := h.Allocate()
	if ptrOffset(h, next) != 0 {
		t.Errorf("post-reset allocate: offset = %d, want 0 (bump mode resumed at start)", ptrOffset(h, next))
	}
}

// Scenario 3: LIFO free-list reuse.
func TestFreeListLIFO(t *testing.T) {
	// Three objects, so a, b, c exhaust the bump cursor and the next
	// allocations must come from the free-list.
	h := newTestHeader(t, 32, 96)
	a := h.Allocate()
	b := h.Allocate()
	c := h.Allocate()
	_ = c
	h.Free(a)
	h.Free(b)

	first := h.Allocate()
	second := h.Allocate()
	if first != b {
		t.Errorf("first reuse = %p, want b (%p)", first, b)
	}
	if second != a {
		t.Errorf("second reuse = %p, want a (%p)", second, a)
	}
}

// Scenario 4: normalize/getSize on an interior pointer.
func TestNormalizeInterior(t *testing.T) {
	h := newTestHeader(t, 64, 256)
	q := h.Allocate()
	interior := unsafe.Add(q, 17)

	if base := h.Normalize(interior); base != q {
		t.Errorf("Normalize(q+17) = %p, want %p", base, q)
	}
	if sz := h.GetSize(interior); sz != 47 {
		t.Errorf("GetSize(q+17) = %d, want 47", sz)
	}
}

func TestAllocateIsAlignedAndInRange(t *testing.T) {
	h := newTestHeader(t, 32, 128)
	for i := 0; i < 4; i++ {
		ptr := h.Allocate()
		addr := uintptr(ptr)
		if addr%Alignment != 0 {
			t.Errorf("allocate %d: address %#x not %d-aligned", i, addr, Alignment)
		}
		lo := uintptr(h.start)
		hi := lo + uintptr(h.TotalObjects())*h.ObjectSize()
		if addr < lo || addr >= hi {
			t.Errorf("allocate %d: address %#x out of range [%#x, %#x)", i, addr, lo, hi)
		}
	}
}

func TestFreeDoesNotResetUntilEmpty(t *testing.T) {
	h := newTestHeader(t, 32, 128)
	a := h.Allocate()
	_ = h.Allocate()
	_ = h.Allocate()
	d := h.Allocate()

	h.Free(a)
	if h.ObjectsFree() != 1 {
		t.Fatalf("ObjectsFree() = %d, want 1", h.ObjectsFree())
	}
	// Reuse should come from the free-list, not a bump reset.
	reused := h.Allocate()
	if reused != a {
		t.Errorf("reused = %p, want %p (free-list slot)", reused, a)
	}
	h.Free(reused)
	h.Free(d)
}

func TestSingleObjectSuperblockAllowsSubAlignmentSize(t *testing.T) {
	// totalObjects == 1 is the one case where S need not be a multiple
	// of Alignment (still S >= Alignment), per the original Hoard
	// constructor assertion.
	buf := alignedBuffer(20)
	h, err := NewHeader(nil, 20, buf)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	if h.TotalObjects() != 1 {
		t.Fatalf("TotalObjects() = %d, want 1", h.TotalObjects())
	}
	if h.Allocate() == nil {
		t.Fatal("allocate: unexpected nil")
	}
	if h.Allocate() != nil {
		t.Fatal("second allocate: want nil, superblock has only one object")
	}
}

func TestInvalidConstruction(t *testing.T) {
	cases := []struct {
		name       string
		objectSize uintptr
		bufSize    int
	}{
		{"too small", 8, 128},
		{"not a multiple of alignment", 24, 128},
		{"buffer smaller than one object", 32, 16},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			buf := alignedBuffer(c.bufSize)
			if _, err := NewHeader(nil, c.objectSize, buf); err == nil {
				t.Errorf("NewHeader(%d, %d bytes): want error, got nil", c.objectSize, c.bufSize)
			}
		})
	}
}
