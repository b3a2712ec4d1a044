package pool_test

import (
	"testing"

	"github.com/momentics/superblock-allocator/pool"
)

func TestBufferPoolReuse(t *testing.T) {
	mgr := pool.NewBufferPoolManager(1)
	bp := mgr.GetPool(128, 0)
	b1 := bp.Get(128, 0)
	b1.Release()
	b2 := bp.Get(64, 0)
	// b2 should come from the same size class and reuse b1's freed slot.
	if cap(b2.Bytes()) < 64 {
		t.Error("buffer capacity too small; reuse failed")
	}
	stats := bp.Stats()
	if stats.TotalAlloc != 2 || stats.TotalFree != 1 {
		t.Errorf("Stats() = %+v, want TotalAlloc=2 TotalFree=1", stats)
	}
}

func TestBufferPoolGrowsAcrossSuperblocks(t *testing.T) {
	mgr := pool.NewBufferPoolManager(1)
	bp := mgr.GetPool(64, 0)

	// 1100 slots of the 2K class exceed the 1023 that fit in one
	// hugepage-rounded (2 MiB) superblock, so the chain must grow.
	var bufs []any
	for i := 0; i < 1100; i++ {
		bufs = append(bufs, bp.Get(64, 0))
	}
	stats := bp.Stats()
	if stats.InUse != 1100 {
		t.Errorf("InUse = %d, want 1100 after 1100 gets with no releases", stats.InUse)
	}
}
