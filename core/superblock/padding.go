// File: core/superblock/padding.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The padding shim: each header shape is wrapped with trailing filler
// bytes so its total accounted footprint is a whole multiple of
// Alignment, guaranteeing the first payload slot starts aligned without
// any runtime arithmetic at allocation time. Go has no template
// specialization to generalize this over "whichever header shape the
// build picked", so there is one concrete padded wrapper per shape; each
// carries a package init() in place of the original's static_assert.
//
// The Go header object itself always lives on the Go heap as an
// ordinary, GC-tracked value — unlike the C++ original, it is never
// type-punned directly into the caller-supplied raw buffer, since doing
// so would hide its internal pointers (owner, prev, next) from the
// garbage collector. NewPadded*Header instead reserves the leading
// unsafe.Sizeof(Padded*Header{}) bytes of the raw superblock buffer as
// untouched accounting padding, matching the original's byte layout
// one-for-one, and treats the remainder as the payload.

package superblock

import (
	"sync"
	"unsafe"
)

// PaddedHeader is the plain-variant header, padded for in-band footprint
// accounting.
type PaddedHeader struct {
	Header
	_ [headerPad]byte
}

// PaddedRegionHeader is the memory-region-extended header, padded.
type PaddedRegionHeader struct {
	RegionHeader
	_ [regionHeaderPad]byte
}

// PaddedPinHeader is the pin-counted header, padded.
type PaddedPinHeader struct {
	PinHeader
	_ [pinHeaderPad]byte
}

const (
	headerSize       = unsafe.Sizeof(Header{})
	headerPad        = Alignment - headerSize%Alignment
	regionHeaderSize = unsafe.Sizeof(RegionHeader{})
	regionHeaderPad  = Alignment - regionHeaderSize%Alignment
	pinHeaderSize    = unsafe.Sizeof(PinHeader{})
	pinHeaderPad     = Alignment - pinHeaderSize%Alignment
)

func init() {
	if unsafe.Sizeof(PaddedHeader{})%Alignment != 0 {
		panic("superblock: PaddedHeader footprint is not Alignment-aligned")
	}
	if unsafe.Sizeof(PaddedRegionHeader{})%Alignment != 0 {
		panic("superblock: PaddedRegionHeader footprint is not Alignment-aligned")
	}
	if unsafe.Sizeof(PaddedPinHeader{})%Alignment != 0 {
		panic("superblock: PaddedPinHeader footprint is not Alignment-aligned")
	}
}

// NewPaddedHeader constructs a plain-variant header governing a
// superblock backed by raw: SuperblockSize bytes supplied by the page
// allocator, 16-byte aligned at raw[0].
func NewPaddedHeader(lock sync.Locker, objectSize uintptr, raw []byte) (*PaddedHeader, error) {
	if objectSize < Alignment {
		return nil, ErrInvalidObjectSize
	}
	payload, err := reservePayload(raw, unsafe.Sizeof(PaddedHeader{}))
	if err != nil {
		return nil, err
	}
	totalObjects := uint32(uintptr(len(payload)) / objectSize)
	if err := validateConstruction(objectSize, totalObjects, payload); err != nil {
		return nil, err
	}
	ph := &PaddedHeader{}
	initHeader(&ph.Header, lock, objectSize, payload, totalObjects)
	return ph, nil
}

// NewPaddedRegionHeader constructs a memory-region-extended header over
// raw, identically to NewPaddedHeader.
func NewPaddedRegionHeader(lock sync.Locker, objectSize uintptr, raw []byte) (*PaddedRegionHeader, error) {
	if objectSize < Alignment {
		return nil, ErrInvalidObjectSize
	}
	payload, err := reservePayload(raw, unsafe.Sizeof(PaddedRegionHeader{}))
	if err != nil {
		return nil, err
	}
	totalObjects := uint32(uintptr(len(payload)) / objectSize)
	if err := validateConstruction(objectSize, totalObjects, payload); err != nil {
		return nil, err
	}
	prh := &PaddedRegionHeader{}
	initHeader(&prh.RegionHeader.Header, lock, objectSize, payload, totalObjects)
	return prh, nil
}

// NewPaddedPinHeader constructs a pin-counted header over raw: the
// leading unsafe.Sizeof(PaddedPinHeader{}) bytes are the reserved
// footprint, and the remainder is split between the object area and its
// trailing refcount strip per PinHeader's layout.
func NewPaddedPinHeader(lock sync.Locker, objectSize uintptr, raw []byte) (*PaddedPinHeader, error) {
	if objectSize < Alignment {
		return nil, ErrInvalidObjectSize
	}
	buf, err := reservePayload(raw, unsafe.Sizeof(PaddedPinHeader{}))
	if err != nil {
		return nil, err
	}
	bufferSize := uintptr(len(buf))
	totalObjects := uint32(bufferSize / (objectSize + 1))
	payload := buf[:uintptr(totalObjects)*objectSize]
	if err := validateConstruction(objectSize, totalObjects, payload); err != nil {
		return nil, err
	}
	pph := &PaddedPinHeader{}
	pph.PinHeader.full = buf
	initHeader(&pph.PinHeader.Header, lock, objectSize, payload, totalObjects)
	return pph, nil
}
