// File: core/superblock/region.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Lifecycle extension A: lazy, one-shot registration of a superblock's
// whole payload with a provider-supplied callback pair (e.g. pinning
// pages for RDMA memory registration per winrdma.h). Registration is
// expensive and is amortized over every allocation drawn from the same
// superblock; it is lazy because many superblocks are never touched by
// the network path at all.

package superblock

import (
	"reflect"
	"sync"
	"unsafe"
)

// RegionHeader is the plain Header plus a cached opaque memory-region
// handle. Mutually exclusive with PinHeader (a deployment picks one
// header shape at build time).
type RegionHeader struct {
	Header

	region        any
	hasRegion     bool
	destroyRegion func(any)
}

// NewRegionHeader constructs a RegionHeader over a caller-carved payload
// buffer. See NewPaddedRegionHeader for the in-band-footprint entry
// point used by a page allocator.
func NewRegionHeader(lock sync.Locker, objectSize uintptr, buf []byte) (*RegionHeader, error) {
	if objectSize < Alignment {
		return nil, ErrInvalidObjectSize
	}
	totalObjects := uint32(uintptr(len(buf)) / objectSize)
	if err := validateConstruction(objectSize, totalObjects, buf); err != nil {
		return nil, err
	}
	rh := &RegionHeader{}
	initHeader(&rh.Header, lock, objectSize, buf, totalObjects)
	return rh, nil
}

// AcquireRegion returns the superblock's cached memory-region handle,
// creating it on the first call via create(start, totalObjects*S). The
// destroy callback is captured alongside the handle and is never
// overwritten; a later call supplying a distinct destructor only logs a
// diagnostic. If create returns nil, ErrRegionCreationFailed is returned
// and nothing is cached — the next call will retry. Must be called under
// Lock.
func (rh *RegionHeader) AcquireRegion(create func(blockStart unsafe.Pointer, blockBytes uintptr) any, destroy func(any)) (any, error) {
	if rh.hasRegion {
		if destroy != nil && rh.destroyRegion != nil &&
			reflect.ValueOf(destroy).Pointer() != reflect.ValueOf(rh.destroyRegion).Pointer() {
			DiagSink("acquireRegion: destroy callback already set, ignoring new destructor")
		}
		return rh.region, nil
	}
	handle := create(rh.start, uintptr(rh.totalObjects)*rh.objectSize)
	if handle == nil {
		return nil, ErrRegionCreationFailed
	}
	rh.region = handle
	rh.destroyRegion = destroy
	rh.hasRegion = true
	return rh.region, nil
}

// Destroy invokes the captured destructor exactly once if a region was
// ever registered, then destroys the embedded Header.
func (rh *RegionHeader) Destroy() {
	if rh.hasRegion && rh.destroyRegion != nil {
		rh.destroyRegion(rh.region)
	}
	rh.region = nil
	rh.hasRegion = false
	rh.destroyRegion = nil
	rh.Header.Destroy()
}
