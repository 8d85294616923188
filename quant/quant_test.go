package quant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZigZagRoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 2, -2, 1000, -1000, math32Max(), math32Min()} {
		got := UnZigZag(ZigZag(v))
		assert.Equal(t, v, got)
	}
}

func math32Max() int32 { return 1<<30 - 1 }
func math32Min() int32 { return -(1 << 30) }

func TestZigZagSmallMagnitudeFitsInSmallUnsigned(t *testing.T) {
	assert.Equal(t, uint32(0), ZigZag(0))
	assert.Equal(t, uint32(1), ZigZag(-1))
	assert.Equal(t, uint32(2), ZigZag(1))
	assert.Equal(t, uint32(3), ZigZag(-2))
	assert.Equal(t, uint32(4), ZigZag(2))
}

func TestShortestWrapRoundTripWithinRange(t *testing.T) {
	for _, bits := range []int{1, 2, 5, 8} {
		numValues := int32(1) << uint(bits)
		minV := -(numValues >> 1)
		maxV := numValues>>1 - 1
		for v := minV; v <= maxV; v++ {
			got := ShortestWrap(v, bits)
			assert.Equal(t, v, got, "bits=%d v=%d", bits, v)
		}
	}
}

func TestShortestWrapWrapsOutOfRangeValues(t *testing.T) {
	// 3 bits: representable range is [-4, 3]
	assert.Equal(t, int32(-4), ShortestWrap(4, 3))
	assert.Equal(t, int32(3), ShortestWrap(-5, 3))
	assert.Equal(t, int32(0), ShortestWrap(8, 3))
}

func TestShortestWrapZeroBitsRequiresZero(t *testing.T) {
	assert.Equal(t, int32(0), ShortestWrap(0, 0))
}

func TestEncodeUVFloatPreservesOrdering(t *testing.T) {
	values := []float32{-2.5, -1.0, -0.5, -0.0001, negZeroValue(), 0.0, 0.0001, 0.5, 1.0, 2.5, 100.0}

	var encoded []uint32
	for _, v := range values {
		encoded = append(encoded, EncodeUVFloat(v, 12))
	}

	for i := 1; i < len(encoded); i++ {
		assert.LessOrEqualf(t, encoded[i-1], encoded[i],
			"encoding must be monotonic: %v (%d) then %v (%d)",
			values[i-1], encoded[i-1], values[i], encoded[i])
	}
}

// Scenario #11: +0.0 and -0.0 encode to distinct words whose unsigned
// ordering agrees with -0.0 < +0.0.
func TestEncodeUVFloatDistinguishesSignedZero(t *testing.T) {
	zero := EncodeUVFloat(0, 12)
	negZero := EncodeUVFloat(negZeroValue(), 12)
	assert.Less(t, negZero, zero)
}

// negZeroValue builds a true IEEE-754 negative zero; the literal -0.0
// constant folds to +0 in Go.
func negZeroValue() float32 {
	return math.Float32frombits(0x80000000)
}
