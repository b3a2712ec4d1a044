// File: pool/slab_pool.go
// Package pool implements mutex-guarded slab allocation with size class support.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/momentics/superblock-allocator/api"
	"github.com/momentics/superblock-allocator/core/superblock"
)

// objectsPerBlock sizes a freshly grown block to comfortably hold this many
// objects before the platform allocator's own granularity rounds it up.
const objectsPerBlock = 64

// rawBlock is one superblock's backing memory plus whether it came from the
// platform's mapped allocator (and must be unmapped) or a heap fallback.
type rawBlock struct {
	buf    []byte
	mapped bool
}

// slabPool: fixed-size buffer allocation per size class/NUMA node, backed by
// a growable chain of core/superblock headers instead of a generic reuse
// queue. Each header bump/free-list-allocates objects of exactly sp.class
// bytes; when every header in the chain is full, the pool grows a new one.
type slabPool struct {
	mu       sync.Mutex
	class    int
	numaNode int

	head, tail *superblock.Header
	raw        map[*superblock.Header]rawBlock

	totalAlloc atomic.Uint64
	totalFree  atomic.Uint64
	numaStats  atomic.Pointer[numaMap]
}

// numaMap: allocation counters by NUMA node.
type numaMap struct {
	mu     sync.Mutex
	counts map[int]uint64
}

func newNumamap() *numaMap { return &numaMap{counts: make(map[int]uint64)} }
func (m *numaMap) record(n int) {
	m.mu.Lock()
	m.counts[n]++
	m.mu.Unlock()
}
func (m *numaMap) Get() map[int]uint64 {
	m.mu.Lock()
	out := make(map[int]uint64, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	m.mu.Unlock()
	return out
}

// newSlabPool builds a superblock-backed pool for one (size class, NUMA
// node) pair. Its first block is grown lazily on the first Get.
func newSlabPool(class, numaNode int) *slabPool {
	return &slabPool{
		class:    class,
		numaNode: numaNode,
		raw:      make(map[*superblock.Header]rawBlock),
	}
}

// slabBuffer implements api.Buffer over a slot carved from a slabPool's
// superblock chain. base is the slot's own address, kept separate from data
// so that a narrowed Slice view still releases the whole slot.
type slabBuffer struct {
	data     []byte
	base     unsafe.Pointer
	header   *superblock.Header
	pool     *slabPool
	numaNode int
}

func (b *slabBuffer) Bytes() []byte { return b.data }

func (b *slabBuffer) Slice(from, to int) api.Buffer {
	if from < 0 || to > len(b.data) || from > to {
		panic("slice bounds out of range")
	}
	return &slabBuffer{
		data:     b.data[from:to],
		base:     b.base,
		header:   b.header,
		pool:     b.pool,
		numaNode: b.numaNode,
	}
}

func (b *slabBuffer) Release() { b.pool.Put(b) }

func (b *slabBuffer) Copy() []byte {
	dst := make([]byte, len(b.data))
	copy(dst, b.data)
	return dst
}

func (b *slabBuffer) NUMANode() int { return b.numaNode }

// growLocked allocates and links a fresh superblock onto the chain's tail.
// Caller holds sp.mu.
func (sp *slabPool) growLocked() *superblock.Header {
	footprint := int(unsafe.Sizeof(superblock.PaddedHeader{}))
	want := footprint + objectsPerBlock*sp.class
	buf, mapped := rawAlloc(want)

	padded, err := superblock.NewPaddedHeader(nil, uintptr(sp.class), buf)
	if err != nil {
		// The platform allocator degraded to a heap fallback sized exactly
		// to the request and it was still too small (shouldn't happen for
		// objectsPerBlock >= 1); widen to the minimum viable footprint.
		if mapped {
			rawRelease(buf)
		}
		min := footprint + sp.class
		buf, mapped = rawAlloc(min)
		padded, err = superblock.NewPaddedHeader(nil, uintptr(sp.class), buf)
		if err != nil {
			panic("pool: slab superblock construction failed: " + err.Error())
		}
	}

	hdr := &padded.Header
	hdr.SetOwner(sp)
	sp.raw[hdr] = rawBlock{buf: buf, mapped: mapped}
	if sp.tail != nil {
		sp.tail.SetNext(hdr)
		hdr.SetPrev(sp.tail)
	} else {
		sp.head = hdr
	}
	sp.tail = hdr
	return hdr
}

func (sp *slabPool) recordNUMA(node int) {
	sp.totalAlloc.Add(1)
	mPtr := sp.numaStats.Load()
	if mPtr == nil {
		newMap := newNumamap()
		sp.numaStats.Store(newMap)
		mPtr = newMap
	}
	mPtr.record(node)
}

// Get returns a slot from the first chain member with room, growing the
// chain when every existing superblock is full. The size argument is not
// consulted: every buffer is exactly sp.class bytes, so a request larger
// than the pool's class gets a buffer smaller than requested.
func (sp *slabPool) Get(_ int, numaPreferred int) api.Buffer {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	hdr := sp.head
	for hdr != nil {
		hdr.Lock()
		if hdr.ObjectsFree() > 0 {
			ptr := hdr.Allocate()
			hdr.Unlock()
			sp.recordNUMA(numaPreferred)
			return &slabBuffer{
				data:     unsafe.Slice((*byte)(ptr), sp.class),
				base:     ptr,
				header:   hdr,
				pool:     sp,
				numaNode: numaPreferred,
			}
		}
		hdr.Unlock()
		hdr = hdr.Next()
	}

	hdr = sp.growLocked()
	hdr.Lock()
	ptr := hdr.Allocate()
	hdr.Unlock()
	sp.recordNUMA(numaPreferred)
	return &slabBuffer{
		data:     unsafe.Slice((*byte)(ptr), sp.class),
		base:     ptr,
		header:   hdr,
		pool:     sp,
		numaNode: numaPreferred,
	}
}

func (sp *slabPool) Put(buf api.Buffer) {
	sb, ok := buf.(*slabBuffer)
	if !ok || sb.pool != sp {
		return
	}
	sp.mu.Lock()
	sb.header.Lock()
	sb.header.Free(sb.base)
	sb.header.Unlock()
	sp.totalFree.Add(1)
	sp.mu.Unlock()
}

func (sp *slabPool) Stats() api.BufferPoolStats {
	totalAlloc := int64(sp.totalAlloc.Load())
	totalFree := int64(sp.totalFree.Load())
	inUse := totalAlloc - totalFree

	nm := sp.numaStats.Load()
	numaStats := make(map[int]int64)
	if nm != nil {
		raw := nm.Get()
		for node, cnt := range raw {
			numaStats[node] = int64(cnt)
		}
	}
	return api.BufferPoolStats{
		TotalAlloc: totalAlloc,
		TotalFree:  totalFree,
		InUse:      inUse,
		NUMAStats:  numaStats,
	}
}

var _ api.BufferPool = (*slabPool)(nil)
