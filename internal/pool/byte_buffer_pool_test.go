package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(64)
	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 64, cap(bb.B))
}

func TestByteBuffer_MustWrite(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite([]byte{1, 2, 3})
	bb.MustWrite([]byte{4, 5})

	assert.Equal(t, []byte{1, 2, 3, 4, 5}, bb.Bytes())
	assert.Equal(t, 5, bb.Len())
}

func TestByteBuffer_MustWriteByte(t *testing.T) {
	bb := NewByteBuffer(0)
	for i := byte(0); i < 3; i++ {
		bb.MustWriteByte(i)
	}
	assert.Equal(t, []byte{0, 1, 2}, bb.Bytes())
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte{1, 2, 3})
	bb.Reset()

	assert.Equal(t, 0, bb.Len())
	assert.GreaterOrEqual(t, cap(bb.B), 8)
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("sufficient capacity is a no-op", func(t *testing.T) {
		bb := NewByteBuffer(16)
		before := cap(bb.B)
		bb.Grow(4)
		assert.Equal(t, before, cap(bb.B))
	})

	t.Run("small buffer grows by fixed increment", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(1)
		assert.GreaterOrEqual(t, cap(bb.B), StreamBufferDefaultSize)
	})

	t.Run("large buffer grows by a quarter", func(t *testing.T) {
		bb := NewByteBuffer(8 * StreamBufferDefaultSize)
		before := cap(bb.B)
		bb.Grow(before + 1)
		assert.GreaterOrEqual(t, cap(bb.B), before+before/4)
	})

	t.Run("grow preserves existing content", func(t *testing.T) {
		bb := NewByteBuffer(2)
		bb.MustWrite([]byte{9, 8, 7})
		bb.Grow(1024)
		assert.Equal(t, []byte{9, 8, 7}, bb.Bytes())
	})
}

func TestByteBufferPool_GetPut(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	bb := p.Get()
	require.NotNil(t, bb)
	bb.MustWrite([]byte{1, 2, 3})
	p.Put(bb)

	bb2 := p.Get()
	assert.Equal(t, 0, bb2.Len(), "pooled buffer must come back reset")
}

func TestByteBufferPool_DiscardsOversizedBuffers(t *testing.T) {
	p := NewByteBufferPool(4, 8)

	bb := p.Get()
	bb.Grow(1024)
	require.Greater(t, cap(bb.B), 8)

	p.Put(bb)

	bb2 := p.Get()
	assert.Less(t, cap(bb2.B), 1024, "oversized buffer should have been discarded, not reused")
}

func TestByteBufferPool_NilPutIsNoOp(t *testing.T) {
	p := NewByteBufferPool(16, 64)
	assert.NotPanics(t, func() {
		p.Put(nil)
	})
}

func TestStreamAndPageBufferHelpers(t *testing.T) {
	sb := GetStreamBuffer()
	require.NotNil(t, sb)
	sb.MustWrite([]byte{1, 2, 3, 4})
	PutStreamBuffer(sb)

	pb := GetPageBuffer()
	require.NotNil(t, pb)
	pb.MustWrite(make([]byte, 1024))
	PutPageBuffer(pb)
}
