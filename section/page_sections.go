package section

// PageSections is the page-level byte-size accounting record: each field
// is the total size in bytes that a region contributes, and the *Offset
// methods chain those sizes into the byte offsets the page serializer
// back-patches into cluster descriptors. The chain runs cluster
// descriptors, then the (always zero-sized here) material table and
// vertex-reuse-batch-info regions, then decode info, index, position, and
// attribute data, each 16-byte aligned where the next region requires it.
type PageSections struct {
	Cluster            uint32
	MaterialTable      uint32
	VertReuseBatchInfo uint32
	DecodeInfo         uint32
	Index              uint32
	Position           uint32
	Attribute          uint32
}

// ClusterOffset is always the fixed GPU page header size: clusters are the
// first region after it.
func (s PageSections) ClusterOffset() uint32 {
	return GPUPageHeaderSize
}

func (s PageSections) MaterialTableOffset() uint32 {
	return s.ClusterOffset() + s.Cluster
}

func (s PageSections) VertReuseBatchInfoOffset() uint32 {
	return s.MaterialTableOffset() + Align(s.MaterialTable, 16)
}

func (s PageSections) DecodeInfoOffset() uint32 {
	return s.VertReuseBatchInfoOffset() + Align(s.VertReuseBatchInfo, 16)
}

func (s PageSections) IndexOffset() uint32 {
	return s.DecodeInfoOffset() + s.DecodeInfo
}

func (s PageSections) PositionOffset() uint32 {
	return s.IndexOffset() + s.Index
}

func (s PageSections) AttributeOffset() uint32 {
	return s.PositionOffset() + s.Position
}

// Total is the full GPU-resident size of the page.
func (s PageSections) Total() uint32 {
	return s.AttributeOffset() + s.Attribute
}

// Offsets snapshots every *Offset() method into a PageSections whose fields
// now hold absolute offsets instead of sizes.
func (s PageSections) Offsets() PageSections {
	return PageSections{
		Cluster:            s.ClusterOffset(),
		MaterialTable:      s.MaterialTableOffset(),
		VertReuseBatchInfo: s.VertReuseBatchInfoOffset(),
		DecodeInfo:         s.DecodeInfoOffset(),
		Index:              s.IndexOffset(),
		Position:           s.PositionOffset(),
		Attribute:          s.AttributeOffset(),
	}
}

// Add accumulates other's sizes into s, used to sum per-cluster gpu_sizes
// into a running page total, and separately to advance a running offset
// cursor by each cluster's contribution.
func (s *PageSections) Add(other PageSections) {
	s.Cluster += other.Cluster
	s.MaterialTable += other.MaterialTable
	s.VertReuseBatchInfo += other.VertReuseBatchInfo
	s.DecodeInfo += other.DecodeInfo
	s.Index += other.Index
	s.Position += other.Position
	s.Attribute += other.Attribute
}
