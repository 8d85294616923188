package section

import "encoding/binary"

// UVRange is the per-cluster, per-channel quantization envelope computed
// by the encoding-info pass: the minimum encoded-float value and the bit
// width needed to represent any delta within the cluster, for each of U
// and V.
type UVRange struct {
	MinU, MinV   uint32
	BitsU, BitsV uint32
}

// PackedUVRange is the 8-byte disk form of a UVRange: each axis packs its
// minimum (shifted left 5 bits) OR'd with its bit width in the low 5 bits.
type PackedUVRange struct {
	DataU, DataV uint32
}

// PackedUVRangeSize is the fixed byte size of a PackedUVRange.
const PackedUVRangeSize = 8

// Pack converts a UVRange to its packed disk form.
func (r UVRange) Pack() PackedUVRange {
	return PackedUVRange{
		DataU: r.MinU<<5 | r.BitsU,
		DataV: r.MinV<<5 | r.BitsV,
	}
}

// Bytes serializes the packed range.
func (p PackedUVRange) Bytes() []byte {
	buf := make([]byte, PackedUVRangeSize)
	binary.LittleEndian.PutUint32(buf[0:4], p.DataU)
	binary.LittleEndian.PutUint32(buf[4:8], p.DataV)
	return buf
}
