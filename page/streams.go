package page

import (
	"github.com/meshforge/nanitepack/cluster"
	"github.com/meshforge/nanitepack/internal/pool"
	"github.com/meshforge/nanitepack/quant"
)

func bytesForBits(b uint32) int {
	switch {
	case b == 0:
		return 0
	case b <= 8:
		return 1
	case b <= 16:
		return 2
	default:
		return 3
	}
}

func maxUint32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

// writeComponent wraps delta to the given bit width, zig-zags it, and
// splits it across the low/mid/high streams according to numBytes: the
// low byte always goes to low; the next, if any, to mid; the third, if
// any, to high.
func writeComponent(low, mid, high *pool.ByteBuffer, delta int32, wrapBits int, numBytes int) {
	wrapped := quant.ShortestWrap(delta, wrapBits)
	z := quant.ZigZag(wrapped)

	if numBytes >= 1 {
		low.MustWriteByte(byte(z))
	}
	if numBytes >= 2 {
		mid.MustWriteByte(byte(z >> 8))
	}
	if numBytes >= 3 {
		high.MustWriteByte(byte(z >> 16))
	}
}

// ClusterStreams holds one cluster's contribution to the page's three
// shared delta byte streams.
type ClusterStreams struct {
	Low, Mid, High []byte
}

// BuildClusterStreams emits one cluster's per-vertex delta data: positions,
// then normals, then colors (if variable), then each UV channel, all
// delta-encoded from the previous vertex (or a family-specific seed value
// for the first vertex) and zig-zag packed across the low/mid/high byte
// streams.
func BuildClusterStreams(c *cluster.Cluster, info *cluster.EncodingInfo) ClusterStreams {
	low := pool.GetStreamBuffer()
	mid := pool.GetStreamBuffer()
	high := pool.GetStreamBuffer()
	defer pool.PutStreamBuffer(low)
	defer pool.PutStreamBuffer(mid)
	defer pool.PutStreamBuffer(high)

	posMaxBits := maxUint32(maxUint32(info.PositionBits[0], info.PositionBits[1]), info.PositionBits[2])
	posBytes := bytesForBits(posMaxBits)

	var uvBytes []int
	for _, r := range info.UVRanges {
		uvBytes = append(uvBytes, bytesForBits(maxUint32(r.BitsU, r.BitsV)))
	}

	var prevPos [3]int32
	for axis := 0; axis < 3; axis++ {
		if info.PositionBits[axis] > 0 {
			prevPos[axis] = int32(1) << (info.PositionBits[axis] - 1)
		}
	}
	var prevNormal [2]int32
	var prevColor [4]int32
	prevUV := make([][2]int32, len(info.UVRanges))

	scale := ldexp1(info.PositionPrecision)

	for v := 0; v < c.NumVertices(); v++ {
		// Positions: quantized, relative to the cluster origin.
		pos := c.Positions[v]
		for axis := 0; axis < 3; axis++ {
			q := quantizeAxis(pos[axis], scale, info.PositionMin[axis])
			delta := q - prevPos[axis]
			writeComponent(low, mid, high, delta, int(info.PositionBits[axis]), posBytes)
			prevPos[axis] = q
		}

		// Normals: always two 8-bit octahedral components.
		n := c.Normals[v]
		dx := n.X - prevNormal[0]
		writeComponent(low, mid, high, dx, 8, 1)
		prevNormal[0] = n.X
		dy := n.Y - prevNormal[1]
		writeComponent(low, mid, high, dy, 8, 1)
		prevNormal[1] = n.Y

		// Colors: only written when the cluster is not constant-color.
		if info.ColorMode == 1 { // section.ColorModeVariable
			col := c.Colors[v]
			channels := [4]uint8{col.R, col.G, col.B, col.A}
			for ch := 0; ch < 4; ch++ {
				value := int32(channels[ch]) - int32(info.ColorMin[ch])
				delta := value - prevColor[ch]
				writeComponent(low, mid, high, delta, int(info.ColorBits[ch]), 1)
				prevColor[ch] = value
			}
		}

		// UV channels.
		for ch, uvs := range c.UVs {
			r := info.UVRanges[ch]
			eu := int32(quant.EncodeUVFloat(uvs[v][0], cluster.DefaultUVMantissaBits) - r.MinU)
			ev := int32(quant.EncodeUVFloat(uvs[v][1], cluster.DefaultUVMantissaBits) - r.MinV)

			du := eu - prevUV[ch][0]
			writeComponent(low, mid, high, du, int(r.BitsU), uvBytes[ch])
			prevUV[ch][0] = eu

			dv := ev - prevUV[ch][1]
			writeComponent(low, mid, high, dv, int(r.BitsV), uvBytes[ch])
			prevUV[ch][1] = ev
		}
	}

	out := ClusterStreams{
		Low:  append([]byte(nil), low.Bytes()...),
		Mid:  append([]byte(nil), mid.Bytes()...),
		High: append([]byte(nil), high.Bytes()...),
	}
	return out
}

func ldexp1(precisionBits int32) float64 {
	if precisionBits >= 0 {
		return float64(int64(1) << uint(precisionBits))
	}
	return 1.0 / float64(int64(1)<<uint(-precisionBits))
}

func quantizeAxis(v float32, scale float64, min int32) int32 {
	return int32(roundNearest(float64(v)*scale)) - min
}

func roundNearest(v float64) float64 {
	if v >= 0 {
		return float64(int64(v + 0.5))
	}
	return float64(int64(v - 0.5))
}
