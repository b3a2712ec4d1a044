// File: core/superblock/testutil_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package superblock

import "unsafe"

// alignedBuffer returns an n-byte slice whose first byte is aligned to
// Alignment, by over-allocating and slicing into the rounded-up region.
func alignedBuffer(n int) []byte {
	buf := make([]byte, n+Alignment)
	addr := uintptr(unsafe.Pointer(&buf[0]))
	pad := int((Alignment - addr%Alignment) % Alignment)
	return buf[pad : pad+n]
}
