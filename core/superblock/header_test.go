// File: core/superblock/header_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package superblock

import "testing"

func TestValidAfterConstructionAndInvalidAfterDestroy(t *testing.T) {
	h := newTestHeader(t, 32, 128)
	if !h.Valid() {
		t.Fatal("freshly constructed header: Valid() = false")
	}
	h.Destroy()
	if h.Valid() {
		t.Fatal("destroyed header: Valid() = true")
	}
}

func TestOwnerTransfer(t *testing.T) {
	h := newTestHeader(t, 32, 128)
	if h.Owner() != nil {
		t.Fatalf("fresh header owner = %v, want nil", h.Owner())
	}
	type heapA struct{ id int }
	type heapB struct{ id int }
	a := &heapA{id: 1}
	b := &heapB{id: 2}

	h.SetOwner(a)
	if h.Owner() != Heap(a) {
		t.Errorf("Owner() = %v, want %v", h.Owner(), a)
	}
	// O(1) ownership transfer: just overwrite the back-pointer.
	h.SetOwner(b)
	if h.Owner() != Heap(b) {
		t.Errorf("Owner() after transfer = %v, want %v", h.Owner(), b)
	}
}

func TestListLinkage(t *testing.T) {
	h1 := newTestHeader(t, 32, 128)
	h2 := newTestHeader(t, 32, 128)
	h3 := newTestHeader(t, 32, 128)

	h1.SetNext(h2)
	h2.SetPrev(h1)
	h2.SetNext(h3)
	h3.SetPrev(h2)

	if h1.Next() != h2 || h2.Prev() != h1 {
		t.Error("h1 <-> h2 linkage broken")
	}
	if h2.Next() != h3 || h3.Prev() != h2 {
		t.Error("h2 <-> h3 linkage broken")
	}
	if h1.Prev() != nil || h3.Next() != nil {
		t.Error("list ends should have nil links")
	}

	// Unlink h2.
	h1.SetNext(h3)
	h3.SetPrev(h1)
	if h1.Next() != h3 || h3.Prev() != h1 {
		t.Error("unlink of h2 did not relink h1 <-> h3")
	}
}

func TestLockPassThrough(t *testing.T) {
	h := newTestHeader(t, 32, 128)
	// Header.Lock/Unlock must simply proxy to the caller-supplied lock;
	// this should never deadlock or panic for an uncontended mutex.
	h.Lock()
	h.Unlock()
}
