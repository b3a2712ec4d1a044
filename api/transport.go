// File: api/transport.go
// Author: momentics <momentics@gmail.com>
//
// Defines transport socket abstraction (NetConn) for compatibility
// with custom event loops, memory pools, and zero-copy pipelines.

package api

// Transport abstracts a batched, zero-copy send/receive channel for raw
// byte buffers, independent of the backing medium (TCP socket, io_uring,
// DPDK/RDMA region).
type Transport interface {
	// Send writes a batch of buffers, each in one shot.
	Send(buffers [][]byte) error

	// Recv returns any buffers currently available without blocking.
	Recv() ([][]byte, error)

	// Close releases the transport and any backing resources.
	Close() error

	// Features reports the capabilities this transport instance offers.
	Features() TransportFeatures
}

// TransportFeatures describes what a Transport implementation supports.
type TransportFeatures struct {
	ZeroCopy     bool
	Batch        bool
	NUMAAware    bool
	LockFree     bool
	SharedMemory bool
	OS           []string
}

// NetConn abstracts a full-duplex network connection object
// that may or may not be backed by Go's net.Conn
type NetConn interface {
	// Read reads into a preallocated buffer
	Read(p []byte) (n int, err error)

	// Write writes buffer contents into the connection
	Write(p []byte) (n int, err error)

	// Close shuts down the connection and notifies upstream layers
	Close() error

	// RawFD returns the underlying OS-level file descriptor
	RawFD() uintptr
}
