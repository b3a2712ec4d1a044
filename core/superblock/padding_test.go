// File: core/superblock/padding_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package superblock

import (
	"testing"
	"unsafe"
)

func TestPaddedHeaderFootprintIsAligned(t *testing.T) {
	if unsafe.Sizeof(PaddedHeader{})%Alignment != 0 {
		t.Fatalf("sizeof(PaddedHeader) = %d not a multiple of %d", unsafe.Sizeof(PaddedHeader{}), Alignment)
	}
	if unsafe.Sizeof(PaddedRegionHeader{})%Alignment != 0 {
		t.Fatalf("sizeof(PaddedRegionHeader) = %d not a multiple of %d", unsafe.Sizeof(PaddedRegionHeader{}), Alignment)
	}
	if unsafe.Sizeof(PaddedPinHeader{})%Alignment != 0 {
		t.Fatalf("sizeof(PaddedPinHeader) = %d not a multiple of %d", unsafe.Sizeof(PaddedPinHeader{}), Alignment)
	}
}

func TestNewPaddedHeaderCarvesAlignedPayload(t *testing.T) {
	raw := alignedBuffer(int(unsafe.Sizeof(PaddedHeader{})) + 256)
	ph, err := NewPaddedHeader(nil, 32, raw)
	if err != nil {
		t.Fatalf("NewPaddedHeader: %v", err)
	}
	if uintptr(ph.start)%Alignment != 0 {
		t.Errorf("payload start %#x not %d-aligned", ph.start, Alignment)
	}
	if ph.TotalObjects() != 8 {
		t.Fatalf("TotalObjects() = %d, want 8", ph.TotalObjects())
	}
	first := ph.Allocate()
	if first != ph.start {
		t.Errorf("first allocate = %p, want payload start %p", first, ph.start)
	}
}

func TestNewPaddedHeaderRejectsUndersizedBuffer(t *testing.T) {
	raw := alignedBuffer(int(unsafe.Sizeof(PaddedHeader{})))
	if _, err := NewPaddedHeader(nil, 32, raw); err == nil {
		t.Error("NewPaddedHeader with no room for any payload: want error, got nil")
	}
}

func TestNewPaddedPinHeaderReservesRefcountStrip(t *testing.T) {
	raw := alignedBuffer(int(unsafe.Sizeof(PaddedPinHeader{})) + 132)
	pph, err := NewPaddedPinHeader(nil, 32, raw)
	if err != nil {
		t.Fatalf("NewPaddedPinHeader: %v", err)
	}
	if pph.TotalObjects() != 4 {
		t.Fatalf("TotalObjects() = %d, want 4", pph.TotalObjects())
	}
	q := pph.Allocate()
	if q == nil {
		t.Fatal("allocate: unexpected nil")
	}
}
