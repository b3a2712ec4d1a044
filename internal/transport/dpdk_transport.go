// File: internal/transport/dpdk_transport.go
//go:build dpdk
// +build dpdk

// Package transport implements DPDK-based transport for Linux.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// newDPDKTransport takes ioBufferSize from its caller, NewDPDKTransport.
//
// Every mbuf-sized slot handed to Send comes from a single region-backed
// superblock whose whole payload is registered once, lazily, with the
// NIC/RDMA provider via RegionHeader.AcquireRegion — mirroring how a real
// DPDK/RDMA binding pins and registers a contiguous hugepage-backed area
// once and reuses it for every burst instead of registering per-packet.

package transport

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"github.com/momentics/superblock-allocator/api"
	"github.com/momentics/superblock-allocator/core/superblock"
)

// dpdkSlotsPerRegion bounds how many in-flight ioBufferSize mbufs the
// registered region can serve before Send reports exhaustion.
const dpdkSlotsPerRegion = 256

// dmaHandle is the opaque region handle cached by RegionHeader. A real
// binding would carry whatever rte_extmem_register / ibv_reg_mr returns
// (an mbuf pool handle, an ibv_mr*); here it just remembers the extent
// that was "registered" so Close has something to report tearing down.
type dmaHandle struct {
	addr unsafe.Pointer
	size uintptr
}

func registerDMARegion(start unsafe.Pointer, size uintptr) any {
	// Real DPDK: rte_extmem_register + rte_pktmbuf_pool_create over this
	// extent. Real RDMA: ibv_reg_mr(pd, start, size, access). Neither
	// hardware binding is available in this build; the handle still
	// round-trips through AcquireRegion so callers see one stable region
	// per superblock instead of one per allocation.
	return &dmaHandle{addr: start, size: size}
}

func unregisterDMARegion(h any) {
	// Real DPDK: rte_extmem_unregister. Real RDMA: ibv_dereg_mr.
	_ = h
}

type dpdkTransport struct {
	ioBufferSize int
	mu           sync.Mutex
	header       *superblock.RegionHeader
	raw          []byte
}

func newDPDKTransport(ioBufferSize int) (api.Transport, error) {
	footprint := int(unsafe.Sizeof(superblock.PaddedRegionHeader{}))
	want := footprint + dpdkSlotsPerRegion*ioBufferSize

	raw, err := syscall.Mmap(-1, 0, want,
		syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_ANONYMOUS|syscall.MAP_PRIVATE|syscall.MAP_HUGETLB)
	if err != nil {
		raw, err = syscall.Mmap(-1, 0, want,
			syscall.PROT_READ|syscall.PROT_WRITE,
			syscall.MAP_ANONYMOUS|syscall.MAP_PRIVATE)
	}
	if err != nil {
		return nil, fmt.Errorf("dpdk: region mmap: %w", err)
	}

	padded, err := superblock.NewPaddedRegionHeader(nil, uintptr(ioBufferSize), raw)
	if err != nil {
		syscall.Munmap(raw)
		return nil, fmt.Errorf("dpdk: region header: %w", err)
	}

	d := &dpdkTransport{
		ioBufferSize: ioBufferSize,
		header:       &padded.RegionHeader,
		raw:          raw,
	}

	d.header.Lock()
	_, err = d.header.AcquireRegion(registerDMARegion, unregisterDMARegion)
	d.header.Unlock()
	if err != nil {
		syscall.Munmap(raw)
		return nil, fmt.Errorf("dpdk: memory registration: %w", err)
	}
	return d, nil
}

// Recv polls the Rx path. No hardware binding is wired in this build, so
// it always reports "nothing available" rather than fabricate packets.
func (d *dpdkTransport) Recv() ([][]byte, error) {
	return nil, nil
}

// Send copies each buffer into a registered slot and hands it to the Tx
// path, releasing the slot back to the superblock once "sent". The copy
// is unavoidable here: callers supply ordinary Go-heap slices, and only
// memory carved from the registered region is valid for hardware DMA.
func (d *dpdkTransport) Send(buffers [][]byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, payload := range buffers {
		if len(payload) > d.ioBufferSize {
			return fmt.Errorf("dpdk: payload %d bytes exceeds configured buffer size %d", len(payload), d.ioBufferSize)
		}
		d.header.Lock()
		if d.header.ObjectsFree() == 0 {
			d.header.Unlock()
			return fmt.Errorf("dpdk: region exhausted (%d slots in flight)", dpdkSlotsPerRegion)
		}
		slot := d.header.Allocate()
		d.header.Unlock()

		dst := unsafe.Slice((*byte)(slot), d.ioBufferSize)
		copy(dst, payload)

		// Real DPDK: rte_eth_tx_burst(port, queue, &mbuf, 1) against dst's
		// registered region. Real RDMA: ibv_post_send over the cached mr.

		d.header.Lock()
		d.header.Free(slot)
		d.header.Unlock()
	}
	return nil
}

// Close tears down the registered region and unmaps its backing memory.
func (d *dpdkTransport) Close() error {
	d.header.Lock()
	d.header.Destroy()
	d.header.Unlock()
	return syscall.Munmap(d.raw)
}

func (d *dpdkTransport) Features() api.TransportFeatures {
	return api.TransportFeatures{ZeroCopy: true, Batch: true, NUMAAware: true}
}
