package hierarchy

import "encoding/binary"

// PartFixup is one cluster's back-reference from its page into the
// hierarchy node slot that points at it, written once per cluster in a
// page's FixupChunk.
type PartFixup struct {
	HierarchyNodeIndex uint32
	HierarchyChildSlot uint32
	PageIndex          uint32
	ClusterIndexInPage uint32
}

// PartFixupSize is the fixed byte size of one serialized PartFixup.
const PartFixupSize = 4 * 4

// Bytes serializes the fixup.
func (f PartFixup) Bytes() []byte {
	buf := make([]byte, PartFixupSize)
	le := binary.LittleEndian
	le.PutUint32(buf[0:4], f.HierarchyNodeIndex)
	le.PutUint32(buf[4:8], f.HierarchyChildSlot)
	le.PutUint32(buf[8:12], f.PageIndex)
	le.PutUint32(buf[12:16], f.ClusterIndexInPage)
	return buf
}

// FixupChunk is the small record prepended to every page's byte image: one
// group fixup covering the whole page, plus one part fixup per cluster,
// written before the page's own data so the streaming runtime can patch
// hierarchy references as soon as the page arrives.
type FixupChunk struct {
	PageIndex    uint32
	PageRangeKey uint32 // packs (page_index, num_pages=1, flags=0)
	Parts        []PartFixup
}

// NewFixupChunk builds the FixupChunk for one page: parts must be in the
// same order as the page's clusters.
func NewFixupChunk(pageIndex uint32, parts []PartFixup) *FixupChunk {
	const numPages = 1
	const flags = 0
	return &FixupChunk{
		PageIndex:    pageIndex,
		PageRangeKey: pageIndex | (numPages << 24) | (flags << 28),
		Parts:        parts,
	}
}

// FixupChunkHeaderSize is the fixed byte size of a FixupChunk's header,
// before its variable-length Parts.
const FixupChunkHeaderSize = 4 + 4 + 4 // PageIndex, PageRangeKey, NumParts

// Bytes serializes the chunk: header, then one PartFixup per cluster,
// padded to 4-byte alignment (always already satisfied, since every field
// is a whole uint32).
func (f *FixupChunk) Bytes() []byte {
	buf := make([]byte, FixupChunkHeaderSize+len(f.Parts)*PartFixupSize)
	le := binary.LittleEndian
	le.PutUint32(buf[0:4], f.PageIndex)
	le.PutUint32(buf[4:8], f.PageRangeKey)
	le.PutUint32(buf[8:12], uint32(len(f.Parts)))
	for i, p := range f.Parts {
		copy(buf[FixupChunkHeaderSize+i*PartFixupSize:], p.Bytes())
	}
	return buf
}
