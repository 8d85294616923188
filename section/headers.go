package section

import "encoding/binary"

// PageGPUHeader is the 16-byte header the GPU reads directly: a cluster
// count plus three reserved padding words.
type PageGPUHeader struct {
	NumClusters uint32
}

// Bytes serializes the header to its fixed 16-byte form.
func (h *PageGPUHeader) Bytes() []byte {
	buf := make([]byte, GPUPageHeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.NumClusters)
	return buf
}

// PageDiskHeader is the back-patched header written first in every page
// image. Every offset field is filled in only after the rest of the page
// has been laid out.
type PageDiskHeader struct {
	NumClusters            uint32
	NumRawFloat4s          uint32
	NumVertexRefs          uint32
	DecodeInfoOffset       uint32
	StripBitmaskOffset     uint32
	VertexRefBitmaskOffset uint32
}

// PageDiskHeaderSize is the fixed byte size of a PageDiskHeader.
const PageDiskHeaderSize = 6 * 4

// Bytes serializes the header.
func (h *PageDiskHeader) Bytes() []byte {
	buf := make([]byte, PageDiskHeaderSize)
	le := binary.LittleEndian
	le.PutUint32(buf[0:4], h.NumClusters)
	le.PutUint32(buf[4:8], h.NumRawFloat4s)
	le.PutUint32(buf[8:12], h.NumVertexRefs)
	le.PutUint32(buf[12:16], h.DecodeInfoOffset)
	le.PutUint32(buf[16:20], h.StripBitmaskOffset)
	le.PutUint32(buf[20:24], h.VertexRefBitmaskOffset)
	return buf
}

// ClusterDiskHeader is the back-patched per-cluster header written
// alongside the PageDiskHeader, one per cluster in the page.
type ClusterDiskHeader struct {
	IndexDataOffset                uint32
	PageClusterMapOffset           uint32
	VertexRefDataOffset            uint32
	LowBytesOffset                 uint32
	MidBytesOffset                 uint32
	HighBytesOffset                uint32
	NumVertexRefs                  uint32
	NumPrevRefVerticesBeforeDwords uint32
	NumPrevNewVerticesBeforeDwords uint32
}

// ClusterDiskHeaderSize is the fixed byte size of a ClusterDiskHeader.
const ClusterDiskHeaderSize = 9 * 4

// Bytes serializes the header.
func (h *ClusterDiskHeader) Bytes() []byte {
	buf := make([]byte, ClusterDiskHeaderSize)
	le := binary.LittleEndian
	le.PutUint32(buf[0:4], h.IndexDataOffset)
	le.PutUint32(buf[4:8], h.PageClusterMapOffset)
	le.PutUint32(buf[8:12], h.VertexRefDataOffset)
	le.PutUint32(buf[12:16], h.LowBytesOffset)
	le.PutUint32(buf[16:20], h.MidBytesOffset)
	le.PutUint32(buf[20:24], h.HighBytesOffset)
	le.PutUint32(buf[24:28], h.NumVertexRefs)
	le.PutUint32(buf[28:32], h.NumPrevRefVerticesBeforeDwords)
	le.PutUint32(buf[32:36], h.NumPrevNewVerticesBeforeDwords)
	return buf
}
