// File: pool/bufferpool.go
// Author: momentics <momentics@gmail.com>
//
// Cross-platform NUMA-aware BufferPool manager. All public API is
// OS/NUMA-agnostic: GetPool rounds the request up to the nearest size class
// and returns the size-classed, superblock-backed slabPool (slab_pool.go)
// for that (node, class) pair. The platform files bufferpool_linux.go and
// bufferpool_windows.go only supply the raw memory (rawAlloc/rawRelease)
// the slab pool's superblocks are carved from.

package pool

import (
	"sync"

	"github.com/momentics/superblock-allocator/api"
)

// Predefined (power-of-two) buffer size classes (bytes). Tunable per
// deployment; a request larger than the last class falls back to it.
var sizeClasses = [...]int{
	2 * 1024,        // 2K
	4 * 1024,        // 4K
	8 * 1024,        // 8K
	16 * 1024,       // 16K
	32 * 1024,       // 32K
	64 * 1024,       // 64K
	128 * 1024,      // 128K
	256 * 1024,      // 256K
	512 * 1024,      // 512K
	1 * 1024 * 1024, // 1M
}

// sizeClassUpperBound returns the smallest class >= the requested size.
func sizeClassUpperBound(size int) int {
	for _, c := range sizeClasses {
		if size <= c {
			return c
		}
	}
	return sizeClasses[len(sizeClasses)-1]
}

// BufferPoolManager provides NUMA-segmented, size-classed pools. Each
// (node, class) pair gets its own slabPool, created lazily on first use.
type BufferPoolManager struct {
	nodeCnt int
	nodes   []*nodeClassPools
}

// nodeClassPools manages all size-class subpools for a given NUMA node.
type nodeClassPools struct {
	mu    sync.RWMutex
	class map[int]api.BufferPool
}

// NewBufferPoolManager initializes the manager for nodeCnt NUMA nodes (from
// OS topology, >= 1).
func NewBufferPoolManager(nodeCnt int) *BufferPoolManager {
	if nodeCnt < 1 {
		nodeCnt = 1
	}
	nodes := make([]*nodeClassPools, nodeCnt)
	for i := range nodes {
		nodes[i] = &nodeClassPools{class: make(map[int]api.BufferPool)}
	}
	return &BufferPoolManager{nodeCnt: nodeCnt, nodes: nodes}
}

// GetPool returns a NUMA-aware BufferPool sized for size, routing all
// requests within a size class to the same underlying slabPool.
func (m *BufferPoolManager) GetPool(size, numaPreferred int) api.BufferPool {
	node := numaPreferred
	if node < 0 || node >= m.nodeCnt {
		node = 0
	}
	class := sizeClassUpperBound(size)
	return m.nodes[node].getOrCreatePool(class, node)
}

// getOrCreatePool returns the subpool for a class, lazily allocating on
// first use.
func (n *nodeClassPools) getOrCreatePool(class, node int) api.BufferPool {
	n.mu.RLock()
	pool, ok := n.class[class]
	n.mu.RUnlock()
	if ok {
		return pool
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if pool, ok = n.class[class]; ok {
		return pool
	}
	npool := newSlabPool(class, node)
	n.class[class] = npool
	return npool
}
