// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>

// Package pool provides fixed-size byte buffer recycling for the
// socket receive paths. Buffers returned by Get always have the
// pool's full size; callers reslice for the bytes actually filled.
package pool

import "sync"

// BytePool recycles fixed-size byte buffers through a sync.Pool.
type BytePool struct {
	size int
	p    sync.Pool
}

// NewBytePool creates a pool handing out buffers of exactly size bytes.
func NewBytePool(size int) *BytePool {
	bp := &BytePool{size: size}
	bp.p.New = func() any {
		return make([]byte, size)
	}
	return bp
}

// Size returns the buffer size this pool hands out.
func (b *BytePool) Size() int { return b.size }

// GetBuffer returns a buffer from the pool.
func (b *BytePool) GetBuffer() []byte {
	return b.p.Get().([]byte)
}

// PutBuffer returns a buffer to the pool. Buffers of a different size
// are dropped for the GC to handle.
func (b *BytePool) PutBuffer(buf []byte) {
	if cap(buf) != b.size {
		return
	}
	b.p.Put(buf[:b.size])
}
