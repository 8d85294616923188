// Package pool provides pooled, growable byte buffers used by the cluster
// and page serializers to avoid repeated allocation of the delta byte
// streams and page images they build.
package pool

import "sync"

// Default and maximum retained sizes for the two buffer pools used by the
// compressor: one per delta byte stream (low/mid/high, scoped to a single
// cluster's worth of attribute data) and one per finished page image.
const (
	StreamBufferDefaultSize = 1024      // 1KiB, a generous single-cluster delta stream
	StreamBufferMaxRetained = 1024 * 16 // 16KiB
	PageBufferDefaultSize   = 1024 * 16 // 16KiB, a generous single GPU page image
	PageBufferMaxRetained   = 1024 * 256
)

// ByteBuffer is a growable byte slice wrapper with an allocation strategy
// tuned for append-mostly, reset-and-reuse workloads.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// MustWrite appends data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)
}

// MustWriteByte appends a single byte to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWriteByte(b byte) {
	bb.Grow(1)
	bb.B = append(bb.B, b)
}

// Grow ensures the buffer can hold requiredBytes more bytes without reallocating.
//
// Growth strategy: small buffers grow by a fixed increment to minimize
// reallocations while they're still cheap; once a buffer has grown past
// four times its starting increment, it grows by 25% of its current
// capacity, balancing memory use against reallocation cost for the
// largest pages. When requiredBytes is larger than that increment, the
// capacity grows by requiredBytes instead.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := StreamBufferDefaultSize
	if cap(bb.B) > 4*StreamBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), cap(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ByteBufferPool is a sync.Pool of ByteBuffers, discarding buffers that have
// grown past a configured threshold instead of retaining them indefinitely.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool whose buffers start at
// defaultSize and are discarded on Put once they exceed maxThreshold
// capacity (0 disables the threshold).
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse, discarding it instead if it
// has grown past the pool's max threshold.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	streamPool = NewByteBufferPool(StreamBufferDefaultSize, StreamBufferMaxRetained)
	pagePool   = NewByteBufferPool(PageBufferDefaultSize, PageBufferMaxRetained)
)

// GetStreamBuffer retrieves a ByteBuffer from the delta-stream pool.
func GetStreamBuffer() *ByteBuffer { return streamPool.Get() }

// PutStreamBuffer returns a ByteBuffer to the delta-stream pool.
func PutStreamBuffer(bb *ByteBuffer) { streamPool.Put(bb) }

// GetPageBuffer retrieves a ByteBuffer from the page-image pool.
func GetPageBuffer() *ByteBuffer { return pagePool.Get() }

// PutPageBuffer returns a ByteBuffer to the page-image pool.
func PutPageBuffer(bb *ByteBuffer) { pagePool.Put(bb) }
