package cluster

import (
	"math"
	"math/bits"

	"github.com/meshforge/nanitepack/errs"
	"github.com/meshforge/nanitepack/mesh"
	"github.com/meshforge/nanitepack/quant"
	"github.com/meshforge/nanitepack/section"
)

// DefaultUVMantissaBits is the mantissa width handed to quant.EncodeUVFloat
// when quantizing UV channels. It leaves SignBitPosition at 23, comfortably
// under the 31-bit ceiling the codec requires.
const DefaultUVMantissaBits = 15

// EncodingInfo is the per-cluster quantization envelope computed once a
// cluster's contents are frozen. It is memoized: callers compute it once
// per cluster and reuse it for both the packed-cluster emitter and the
// byte-stream writer.
type EncodingInfo struct {
	PositionPrecision int32
	PositionMin       [3]int32
	PositionBits      [3]uint32
	PositionClamped   bool // true if any axis required clamping to MaxPositionQuantizationBits

	BitsPerIndex uint32

	ColorMode int // section.ColorModeConstant or section.ColorModeVariable
	ColorMin  [4]uint8
	ColorMax  [4]uint8
	ColorBits [4]uint32

	UVRanges []section.UVRange

	BitsPerAttribute uint32

	GPUSizes section.PageSections
}

func ceilLog2(n int64) uint32 {
	if n <= 1 {
		return 0
	}
	return uint32(bits.Len64(uint64(n - 1)))
}

// Compute derives the EncodingInfo for c, quantizing positions at
// precisionBits fractional bits (step size 2^-precisionBits). Clamping an
// axis to MaxPositionQuantizationBits is not an error: it sets
// PositionClamped and the caller decides whether to surface that as a
// user-visible warning.
func Compute(c *Cluster, precisionBits int32) (*EncodingInfo, error) {
	if c.NumVertices() == 0 {
		return nil, errs.NewConsistency("cluster.empty", "encoding info requested for an empty cluster")
	}

	info := &EncodingInfo{PositionPrecision: precisionBits}

	info.BitsPerIndex = uint32(bits.Len32(uint32(c.NumVertices() - 1)))

	computePositionEnvelope(c, precisionBits, info)
	computeColorEnvelope(c, info)
	if err := computeUVEnvelope(c, info); err != nil {
		return nil, err
	}

	info.BitsPerAttribute = 2 * section.NormalBits
	for ch := 0; ch < 4; ch++ {
		info.BitsPerAttribute += info.ColorBits[ch]
	}
	for _, r := range info.UVRanges {
		info.BitsPerAttribute += r.BitsU + r.BitsV
	}

	computeGPUSizes(c, info)

	return info, nil
}

func computePositionEnvelope(c *Cluster, precisionBits int32, info *EncodingInfo) {
	b := mesh.BoundsFromPositions(c.Positions)
	scale := math.Ldexp(1, int(precisionBits))

	var qmin, qmax [3]int32
	for axis := 0; axis < 3; axis++ {
		qmin[axis] = int32(math.Floor(float64(b.Min[axis]) * scale))
		qmax[axis] = int32(math.Ceil(float64(b.Max[axis]) * scale))
	}
	info.PositionMin = qmin

	for axis := 0; axis < 3; axis++ {
		span := int64(qmax[axis]) - int64(qmin[axis]) + 1
		needed := ceilLog2(span)
		if needed > section.MaxPositionQuantizationBits {
			needed = section.MaxPositionQuantizationBits
			info.PositionClamped = true
		}
		info.PositionBits[axis] = needed
	}
}

func computeColorEnvelope(c *Cluster, info *EncodingInfo) {
	if !c.HasColors() {
		// No colors at all: constant mode, min hard-coded to opaque white.
		info.ColorMode = section.ColorModeConstant
		info.ColorMin = [4]uint8{255, 255, 255, 255}
		info.ColorMax = [4]uint8{255, 255, 255, 255}
		return
	}

	var minV, maxV [4]uint8
	minV = [4]uint8{255, 255, 255, 255}
	for _, col := range c.Colors {
		ch := [4]uint8{col.R, col.G, col.B, col.A}
		for i := 0; i < 4; i++ {
			if ch[i] < minV[i] {
				minV[i] = ch[i]
			}
			if ch[i] > maxV[i] {
				maxV[i] = ch[i]
			}
		}
	}
	info.ColorMin = minV
	info.ColorMax = maxV

	allZeroBits := true
	for i := 0; i < 4; i++ {
		span := int64(maxV[i]) - int64(minV[i]) + 1
		b := ceilLog2(span)
		info.ColorBits[i] = b
		if b != 0 {
			allZeroBits = false
		}
	}

	if allZeroBits {
		info.ColorMode = section.ColorModeConstant
	} else {
		info.ColorMode = section.ColorModeVariable
	}
}

func computeUVEnvelope(c *Cluster, info *EncodingInfo) error {
	if c.NumUVChannels() > section.MaxUVs {
		return errs.ErrTooManyUVChannels
	}

	info.UVRanges = make([]section.UVRange, c.NumUVChannels())
	for ch, uvs := range c.UVs {
		var minU, minV, maxU, maxV uint32
		minU, minV = math.MaxUint32, math.MaxUint32
		for _, uv := range uvs {
			eu := quant.EncodeUVFloat(uv[0], DefaultUVMantissaBits)
			ev := quant.EncodeUVFloat(uv[1], DefaultUVMantissaBits)
			if eu < minU {
				minU = eu
			}
			if eu > maxU {
				maxU = eu
			}
			if ev < minV {
				minV = ev
			}
			if ev > maxV {
				maxV = ev
			}
		}
		info.UVRanges[ch] = section.UVRange{
			MinU:  minU,
			MinV:  minV,
			BitsU: ceilLog2(int64(maxU) - int64(minU) + 1),
			BitsV: ceilLog2(int64(maxV) - int64(minV) + 1),
		}
	}
	return nil
}

func computeGPUSizes(c *Cluster, info *EncodingInfo) {
	numVerts := uint32(c.NumVertices())
	numTris := uint32(c.NumTriangles())

	var posBitsSum uint32
	for _, b := range info.PositionBits {
		posBitsSum += b
	}

	info.GPUSizes = section.PageSections{
		Cluster:    section.PackedClusterSize,
		DecodeInfo: uint32(c.NumUVChannels()) * section.PackedUVRangeSize,
		Index:      section.Align(numTris*(info.BitsPerIndex+10), 32) / 32 * 4,
		Position:   section.Align(numVerts*posBitsSum, 32) / 32 * 4,
		Attribute:  section.Align(numVerts*info.BitsPerAttribute, 32) / 32 * 4,
	}
}
