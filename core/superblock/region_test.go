// File: core/superblock/region_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package superblock

import (
	"testing"
	"unsafe"
)

func newTestRegionHeader(t *testing.T, objectSize, bufferSize int) *RegionHeader {
	t.Helper()
	buf := alignedBuffer(bufferSize)
	rh, err := NewRegionHeader(nil, uintptr(objectSize), buf)
	if err != nil {
		t.Fatalf("NewRegionHeader: %v", err)
	}
	return rh
}

// Scenario 6: region registration is lazy and idempotent, and the
// destructor fires exactly once, only if create ever ran.
func TestAcquireRegionLazyAndIdempotent(t *testing.T) {
	rh := newTestRegionHeader(t, 32, 128)

	createCalls := 0
	destroyCalls := 0
	wantStart := rh.start
	wantBytes := uintptr(rh.TotalObjects()) * rh.ObjectSize()

	create := func(blockStart unsafe.Pointer, blockBytes uintptr) any {
		createCalls++
		if blockStart != wantStart {
			t.Errorf("create: blockStart = %p, want %p", blockStart, wantStart)
		}
		if blockBytes != wantBytes {
			t.Errorf("create: blockBytes = %d, want %d", blockBytes, wantBytes)
		}
		return "handle-1"
	}
	destroy := func(h any) {
		destroyCalls++
		if h != "handle-1" {
			t.Errorf("destroy: handle = %v, want handle-1", h)
		}
	}

	h1, err := rh.AcquireRegion(create, destroy)
	if err != nil {
		t.Fatalf("first AcquireRegion: %v", err)
	}
	h2, err := rh.AcquireRegion(create, destroy)
	if err != nil {
		t.Fatalf("second AcquireRegion: %v", err)
	}
	if h1 != h2 {
		t.Errorf("AcquireRegion returned different handles: %v, %v", h1, h2)
	}
	if createCalls != 1 {
		t.Errorf("create invoked %d times, want 1", createCalls)
	}

	rh.Destroy()
	if destroyCalls != 1 {
		t.Errorf("destroy invoked %d times, want 1", destroyCalls)
	}
}

func TestAcquireRegionCreationFailureDoesNotCache(t *testing.T) {
	rh := newTestRegionHeader(t, 32, 128)

	attempts := 0
	failThenSucceed := func(unsafe.Pointer, uintptr) any {
		attempts++
		if attempts < 2 {
			return nil
		}
		return "handle"
	}

	_, err := rh.AcquireRegion(failThenSucceed, nil)
	if err != ErrRegionCreationFailed {
		t.Fatalf("first AcquireRegion error = %v, want ErrRegionCreationFailed", err)
	}
	h, err := rh.AcquireRegion(failThenSucceed, nil)
	if err != nil {
		t.Fatalf("retry AcquireRegion: %v", err)
	}
	if h != "handle" {
		t.Errorf("retry AcquireRegion handle = %v, want handle", h)
	}
	if attempts != 2 {
		t.Errorf("create invoked %d times, want 2 (one failed, one succeeded)", attempts)
	}
}

func TestDestroyWithoutRegionNeverCallsDestructor(t *testing.T) {
	rh := newTestRegionHeader(t, 32, 128)
	destroyCalls := 0
	failCreate := func(unsafe.Pointer, uintptr) any { return nil }
	countDestroy := func(any) { destroyCalls++ }
	if _, err := rh.AcquireRegion(failCreate, countDestroy); err != ErrRegionCreationFailed {
		t.Fatalf("AcquireRegion error = %v, want ErrRegionCreationFailed", err)
	}
	rh.Destroy()
	if destroyCalls != 0 {
		t.Errorf("destroy invoked %d times, want 0 (no region was ever created)", destroyCalls)
	}
	if rh.Valid() {
		t.Error("destroyed header should be invalid")
	}
}
