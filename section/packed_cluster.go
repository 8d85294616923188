package section

import "encoding/binary"

// PackedCluster is the fixed 256-byte per-cluster descriptor the GPU
// streaming runtime reads directly off disk. Every field position below is
// part of the wire contract; reordering or resizing any field changes the
// on-disk layout.
//
// Byte layout (64 little-endian uint32 words, word index noted per field):
//
//	word  0: NumVerts
//	word  1: NumTris
//	word  2: ColorMode
//	word  3: ColorMin            (packed ABGR)
//	word  4: ColorBits           (R<<0 | G<<8 | B<<16 | A<<24, one byte each)
//	word  5: GroupIndex
//	word  6: BitsPerIndex
//	word  7: PosStart.X
//	word  8: PosStart.Y
//	word  9: PosStart.Z
//	word 10: PosPrecision
//	word 11: PosBits.X
//	word 12: PosBits.Y
//	word 13: PosBits.Z
//	word 14: LODBoundsCenter.X
//	word 15: LODBoundsCenter.Y
//	word 16: LODBoundsCenter.Z
//	word 17: LODBoundsRadius
//	word 18: BoxBoundsCenter.X
//	word 19: BoxBoundsCenter.Y
//	word 20: BoxBoundsCenter.Z
//	word 21: BoxBoundsExtent.X
//	word 22: BoxBoundsExtent.Y
//	word 23: BoxBoundsExtent.Z
//	word 24: LODErrorAndEdgeLength (two packed float16s)
//	word 25: ClusterFlags
//	word 26: BitsPerAttribute
//	word 27: NormalPrecision
//	word 28: HasTangents
//	word 29: NumUVs
//	word 30: UVBitOffsets         (one byte per UV channel, up to 4)
//	word 31: PackedMaterialInfo
//	word 32: IndexOffset
//	word 33: PositionOffset
//	word 34: AttributeOffset
//	word 35: DecodeInfoOffset
//	word 36: VertReuseBatchInfoOffset     (always 0: no separate disk region)
//	word 37: VertReuseBatchInfoNumWords   (always 0: no separate disk region)
//	words 38-63: BatchInfo, the bit-packed material-batch descriptor,
//	             zero-padded to fill the remaining 104 bytes
type PackedCluster struct {
	NumVerts int32
	NumTris  int32

	ColorMode                                      uint32
	ColorMin                                       uint32 // packed ABGR
	ColorBitsR, ColorBitsG, ColorBitsB, ColorBitsA uint8

	GroupIndex   uint32
	BitsPerIndex uint32

	PosStart     [3]int32
	PosPrecision int32
	PosBits      [3]uint32

	LODBoundsCenter [3]float32
	LODBoundsRadius float32

	BoxBoundsCenter [3]float32
	BoxBoundsExtent [3]float32

	LODError      float32
	MaxEdgeLength float32

	ClusterFlags uint32

	BitsPerAttribute uint32
	NormalPrecision  uint32
	HasTangents      bool
	NumUVs           uint32
	UVBitOffsets     [MaxUVs]uint8

	PackedMaterialInfo uint32

	IndexOffset      uint32
	PositionOffset   uint32
	AttributeOffset  uint32
	DecodeInfoOffset uint32

	VertReuseBatchInfoOffset   uint32
	VertReuseBatchInfoNumWords uint32

	// BatchInfo holds the cluster's bit-packed material-batch descriptor,
	// inline rather than in a separate disk region; any bytes beyond its
	// length stay zero.
	BatchInfo []byte
}

// BatchInfoSize is the fixed byte size of the reserved BatchInfo region
// (words 38-63).
const BatchInfoSize = PackedClusterSize - 152

// Bytes serializes the cluster into its fixed 256-byte wire form.
func (c *PackedCluster) Bytes() []byte {
	buf := make([]byte, PackedClusterSize)
	le := binary.LittleEndian

	le.PutUint32(buf[0:4], uint32(c.NumVerts))
	le.PutUint32(buf[4:8], uint32(c.NumTris))
	le.PutUint32(buf[8:12], c.ColorMode)
	le.PutUint32(buf[12:16], c.ColorMin)
	le.PutUint32(buf[16:20],
		uint32(c.ColorBitsR)|uint32(c.ColorBitsG)<<8|uint32(c.ColorBitsB)<<16|uint32(c.ColorBitsA)<<24)
	le.PutUint32(buf[20:24], c.GroupIndex)
	le.PutUint32(buf[24:28], c.BitsPerIndex)
	le.PutUint32(buf[28:32], uint32(c.PosStart[0]))
	le.PutUint32(buf[32:36], uint32(c.PosStart[1]))
	le.PutUint32(buf[36:40], uint32(c.PosStart[2]))
	le.PutUint32(buf[40:44], uint32(c.PosPrecision))
	le.PutUint32(buf[44:48], c.PosBits[0])
	le.PutUint32(buf[48:52], c.PosBits[1])
	le.PutUint32(buf[52:56], c.PosBits[2])
	putFloat(buf[56:60], c.LODBoundsCenter[0])
	putFloat(buf[60:64], c.LODBoundsCenter[1])
	putFloat(buf[64:68], c.LODBoundsCenter[2])
	putFloat(buf[68:72], c.LODBoundsRadius)
	putFloat(buf[72:76], c.BoxBoundsCenter[0])
	putFloat(buf[76:80], c.BoxBoundsCenter[1])
	putFloat(buf[80:84], c.BoxBoundsCenter[2])
	putFloat(buf[84:88], c.BoxBoundsExtent[0])
	putFloat(buf[88:92], c.BoxBoundsExtent[1])
	putFloat(buf[92:96], c.BoxBoundsExtent[2])
	le.PutUint32(buf[96:100], packLODErrorAndEdgeLength(c.LODError, c.MaxEdgeLength))
	le.PutUint32(buf[100:104], c.ClusterFlags)
	le.PutUint32(buf[104:108], c.BitsPerAttribute)
	le.PutUint32(buf[108:112], c.NormalPrecision)
	le.PutUint32(buf[112:116], boolToUint32(c.HasTangents))
	le.PutUint32(buf[116:120], c.NumUVs)
	le.PutUint32(buf[120:124], packUVBitOffsets(c.UVBitOffsets))
	le.PutUint32(buf[124:128], c.PackedMaterialInfo)
	le.PutUint32(buf[128:132], c.IndexOffset)
	le.PutUint32(buf[132:136], c.PositionOffset)
	le.PutUint32(buf[136:140], c.AttributeOffset)
	le.PutUint32(buf[140:144], c.DecodeInfoOffset)
	le.PutUint32(buf[144:148], c.VertReuseBatchInfoOffset)
	le.PutUint32(buf[148:152], c.VertReuseBatchInfoNumWords)
	copy(buf[152:256], c.BatchInfo) // words 38-63; short descriptors leave the tail zero

	return buf
}

func putFloat(dst []byte, v float32) {
	binary.LittleEndian.PutUint32(dst, float32bits(v))
}

func boolToUint32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func packUVBitOffsets(offsets [MaxUVs]uint8) uint32 {
	var out uint32
	for i, o := range offsets {
		out |= uint32(o) << (8 * i)
	}
	return out
}
