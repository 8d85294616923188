// Package page implements components F, G, and H of the compressor: the
// packed-cluster emitter, the page packer, and the page-data serializer.
package page

import (
	"math"

	"github.com/meshforge/nanitepack/bitio"
	"github.com/meshforge/nanitepack/cluster"
	"github.com/meshforge/nanitepack/errs"
	"github.com/meshforge/nanitepack/mesh"
	"github.com/meshforge/nanitepack/section"
)

// lodError is the fixed small LOD error every cluster reports: this
// compressor never simplifies geometry, so there is no real simplification
// error to report, only a nonzero floor so the streaming runtime's error
// metric stays well-defined.
const lodError = 1e-3

// maxTrianglesPerMaterialBatch is floor(32/3): a material batch holds at
// most 32 vertices, and with vertex reuse disabled every triangle
// contributes three new ones.
const maxTrianglesPerMaterialBatch = 32 / 3

// EmitPackedCluster populates a PackedCluster's fixed fields from c and its
// EncodingInfo, including its inline material-batch descriptor (BatchInfo),
// except for the four offset fields (IndexOffset, PositionOffset,
// AttributeOffset, DecodeInfoOffset) that only the page serializer (H) can
// fill in once every cluster's contribution to the shared page regions is
// known. groupIndex is the running vertex offset of this cluster within
// its page.
func EmitPackedCluster(c *cluster.Cluster, info *cluster.EncodingInfo, groupIndex uint32) (*section.PackedCluster, error) {
	b := mesh.BoundsFromPositions(c.Positions)

	batchInfo := MaterialBatchDescriptor(c)
	if len(batchInfo) > section.BatchInfoSize {
		return nil, errs.NewConsistency("cluster.batch_info_too_large", "material-batch descriptor overflows its reserved words")
	}

	pc := &section.PackedCluster{
		NumVerts: int32(c.NumVertices()),
		NumTris:  int32(c.NumTriangles()),

		ColorMode: uint32(info.ColorMode),
		ColorMin:  packColorMin(info),

		GroupIndex:   groupIndex,
		BitsPerIndex: info.BitsPerIndex,

		PosStart:     info.PositionMin,
		PosPrecision: info.PositionPrecision,
		PosBits:      info.PositionBits,

		LODBoundsCenter: b.Center(),
		LODBoundsRadius: b.SizeLength(),

		BoxBoundsCenter: b.Center(),
		BoxBoundsExtent: b.Extent(),

		LODError:      lodError,
		MaxEdgeLength: maxEdgeLength(c),

		ClusterFlags: section.ClusterFlagStreamingLeaf | section.ClusterFlagRootLeaf,

		BitsPerAttribute: info.BitsPerAttribute,
		NormalPrecision:  section.NormalBits,
		HasTangents:      false,
		NumUVs:           uint32(len(info.UVRanges)),
		UVBitOffsets:     uvBitOffsets(info),

		PackedMaterialInfo: uint32(c.NumTriangles()-1) << 18,

		BatchInfo: batchInfo,
	}

	pc.ColorBitsR = uint8(info.ColorBits[0])
	pc.ColorBitsG = uint8(info.ColorBits[1])
	pc.ColorBitsB = uint8(info.ColorBits[2])
	pc.ColorBitsA = uint8(info.ColorBits[3])

	return pc, nil
}

func packColorMin(info *cluster.EncodingInfo) uint32 {
	col := mesh.Color{R: info.ColorMin[0], G: info.ColorMin[1], B: info.ColorMin[2], A: info.ColorMin[3]}
	return col.PackedABGR()
}

// uvBitOffsets computes, for each UV channel, the bit offset within the
// per-vertex attribute record where that channel's pair of components
// begins: two octahedral normal components, then (if variable) the four
// color channels, then each UV channel in turn.
func uvBitOffsets(info *cluster.EncodingInfo) [section.MaxUVs]uint8 {
	var offsets [section.MaxUVs]uint8
	cursor := uint32(2 * section.NormalBits)
	if info.ColorMode == section.ColorModeVariable {
		for _, b := range info.ColorBits {
			cursor += b
		}
	}
	for ch, r := range info.UVRanges {
		offsets[ch] = uint8(cursor)
		cursor += r.BitsU + r.BitsV
	}
	return offsets
}

// maxEdgeLength returns the longest triangle edge in the cluster.
func maxEdgeLength(c *cluster.Cluster) float32 {
	var maxLen float32
	for t := 0; t < c.NumTriangles(); t++ {
		p0, p1, p2 := c.Positions[3*t], c.Positions[3*t+1], c.Positions[3*t+2]
		for _, edge := range [][2][3]float32{{p0, p1}, {p1, p2}, {p2, p0}} {
			l := edgeLength(edge[0], edge[1])
			if l > maxLen {
				maxLen = l
			}
		}
	}
	return maxLen
}

func edgeLength(a, b [3]float32) float32 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
}

// MaterialBatchDescriptor builds the bit-packed material-batch descriptor:
// one batch count, two always-zero batch counts, then one
// triangle-count-minus-one field per batch. Vertex reuse is permanently
// disabled, so every batch covers at most maxTrianglesPerMaterialBatch
// triangles (each triangle contributing three new vertices).
func MaterialBatchDescriptor(c *cluster.Cluster) []byte {
	const numBitsBatchCount = 4
	const numBitsTriangleCount = 5

	numTris := c.NumTriangles()
	numBatches := (numTris + maxTrianglesPerMaterialBatch - 1) / maxTrianglesPerMaterialBatch
	if numBatches == 0 {
		numBatches = 1
	}

	w := bitio.NewWriter()
	w.Append(uint32(numBatches), numBitsBatchCount)
	w.Append(0, numBitsBatchCount)
	w.Append(0, numBitsBatchCount)

	remaining := numTris
	for b := 0; b < numBatches; b++ {
		batchTris := maxTrianglesPerMaterialBatch
		if remaining < batchTris {
			batchTris = remaining
		}
		if batchTris <= 0 {
			batchTris = 1
		}
		w.Append(uint32(batchTris-1), numBitsTriangleCount)
		remaining -= batchTris
	}
	w.Flush(4)

	return w.Bytes()
}
