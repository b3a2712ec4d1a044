// File: core/superblock/doc.go
// Package superblock
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Implements the Hoard-style superblock header: the in-band bookkeeping
// structure co-located at the start of a fixed-size, aligned memory region
// from which same-size objects are sub-allocated.
//
// A superblock serves exactly one size class and belongs, at any moment,
// to exactly one owning heap. The header upholds alignment invariants on
// every allocation and free, maintains two complementary allocation
// strategies (bump-then-free-list), supports constant-time ownership
// transfer between heaps, and offers two mutually exclusive lifecycle
// extensions: lazy opaque memory-region registration (RegionHeader) and
// per-object pin-count reference counting (PinHeader).
//
// Apart from its constructors, which allocate the header value itself (and
// a default mutex when no lock is supplied), the header never allocates
// from the process heap. It never acquires its own lock: every mutating
// method requires the caller to be holding Lock.
package superblock
