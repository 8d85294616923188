package page

import (
	"encoding/binary"

	"github.com/meshforge/nanitepack/errs"
	"github.com/meshforge/nanitepack/internal/pool"
	"github.com/meshforge/nanitepack/section"
)

const clusterDwordsPerVector = section.PackedClusterSize / 16 // 16 sixteen-byte vectors per cluster

// Serialize lays out a single page's byte image (component H): the
// back-patched page and cluster disk headers, the GPU page header, all
// packed clusters in column-major 16-byte-vector interleave, decode info,
// the (empty) index/page-cluster-map/vertex-ref regions, the strip and
// vertex-ref bitmasks, and the three concatenated delta byte streams.
//
// Every section offset this function writes into the page and cluster disk
// headers is a multiple of 4; the per-cluster low/mid/high byte-stream
// offsets are running byte sums of the preceding clusters' contributions
// and are not padded, so they need not be. The raw-float4 stream (GPU header through the end of decode info) is
// always a whole number of 16-byte vectors.
func Serialize(p *Page) ([]byte, error) {
	numClusters := len(p.Clusters)
	if numClusters == 0 {
		return nil, errs.NewConsistency("page.empty", "cannot serialize a page with no clusters")
	}
	if numClusters > section.RootPageMaxClusters {
		return nil, errs.NewConsistency("page.too_many_clusters", "page exceeds RootPageMaxClusters")
	}

	packed := make([]*section.PackedCluster, numClusters)
	streams := make([]ClusterStreams, numClusters)

	var groupIndex uint32
	for i, c := range p.Clusters {
		info := p.Infos[i]
		pc, err := EmitPackedCluster(c, info, groupIndex)
		if err != nil {
			return nil, err
		}
		packed[i] = pc
		streams[i] = BuildClusterStreams(c, info)
		groupIndex += uint32(c.NumVertices())
	}

	gpuHeaderOffset := section.PageDiskHeaderSize + uint32(numClusters)*section.ClusterDiskHeaderSize
	clusterRegionOffset := gpuHeaderOffset + section.GPUPageHeaderSize
	clusterRegionSize := uint32(numClusters) * section.PackedClusterSize

	// The material-batch descriptor travels inline in each PackedCluster's
	// own reserved words (section.PackedCluster.BatchInfo), so decode-info
	// starts exactly where the cluster region ends: there is no separate
	// vertex-reuse-batch-info disk region. Only the decode-info region's
	// size is padded to 16 bytes; its start is 4-aligned, not 16-aligned,
	// keeping the raw-float4 stream (GPU header, clusters, decode info)
	// contiguous from the GPU header onward.
	decodeInfoOffset := clusterRegionOffset + clusterRegionSize
	var decodeInfoSizeSum uint32
	for _, c := range p.Clusters {
		decodeInfoSizeSum += uint32(c.NumUVChannels()) * section.PackedUVRangeSize
	}
	decodeInfoTotalSize := section.Align(decodeInfoSizeSum, 16)

	// GPU header, packed clusters, and the padded decode-info region are
	// all whole numbers of 16-byte vectors.
	numRawFloat4s := (decodeInfoOffset + decodeInfoTotalSize - gpuHeaderOffset) / 16
	if (decodeInfoOffset+decodeInfoTotalSize-gpuHeaderOffset)%16 != 0 {
		return nil, errs.NewConsistency("page.raw_float4_region", "raw-float4 region is not a whole number of 16-byte vectors")
	}

	indexOffset := decodeInfoOffset + decodeInfoTotalSize // index region contributes zero disk bytes

	stripBitmaskOffset := indexOffset
	const stripGroupsPerCluster = section.MaxClusterTriangles / 32
	stripBitmaskSize := uint32(numClusters) * stripGroupsPerCluster * 3 * 4

	pageClusterMapOffset := stripBitmaskOffset + stripBitmaskSize // empty region

	vertexRefBitmaskOffset := pageClusterMapOffset
	const vertexRefWordsPerCluster = section.MaxClusterVertices / 32
	vertexRefBitmaskSize := uint32(numClusters) * vertexRefWordsPerCluster * 4

	vertexRefDataOffset := vertexRefBitmaskOffset + vertexRefBitmaskSize // empty region

	attributesOffset := section.Align(vertexRefDataOffset, 4)

	lowOffsets := make([]uint32, numClusters)
	midOffsets := make([]uint32, numClusters)
	highOffsets := make([]uint32, numClusters)

	lowCursor, midCursor, highCursor := attributesOffset, uint32(0), uint32(0)
	for i, s := range streams {
		lowOffsets[i] = lowCursor
		lowCursor += uint32(len(s.Low))
	}
	midStart := lowCursor
	midCursor = midStart
	for i, s := range streams {
		midOffsets[i] = midCursor
		midCursor += uint32(len(s.Mid))
	}
	highStart := midCursor
	highCursor = highStart
	for i, s := range streams {
		highOffsets[i] = highCursor
		highCursor += uint32(len(s.High))
	}
	pageEnd := highCursor

	// GPU-side section offsets (distinct from the disk offsets above):
	// each cluster's index/position/attribute/decode-info offsets address
	// the decoded GPU page, starting at the page-wide section starts and
	// advancing by each cluster's GPU-size contribution.
	pageGPUTotal := p.GPUTotal()
	gpuCursor := pageGPUTotal.Offsets()
	for i, info := range p.Infos {
		packed[i].IndexOffset = gpuCursor.Index
		packed[i].PositionOffset = gpuCursor.Position
		packed[i].AttributeOffset = gpuCursor.Attribute
		packed[i].DecodeInfoOffset = gpuCursor.DecodeInfo
		// VertReuseBatchInfoOffset/NumWords stay zero: the batch
		// descriptor lives inline in BatchInfo, not a separate region.

		gpuCursor.Add(info.GPUSizes)
	}
	if gpuCursor.Cluster != pageGPUTotal.MaterialTableOffset() ||
		gpuCursor.DecodeInfo != pageGPUTotal.IndexOffset() ||
		gpuCursor.Index != pageGPUTotal.PositionOffset() ||
		gpuCursor.Position != pageGPUTotal.AttributeOffset() ||
		gpuCursor.Attribute != pageGPUTotal.Total() {
		return nil, errs.NewConsistency("page.gpu_section_chain", "per-cluster GPU sizes do not chain into the page-wide section offsets")
	}

	buf := pool.GetPageBuffer()
	defer pool.PutPageBuffer(buf)

	pageHeader := section.PageDiskHeader{
		NumClusters:            uint32(numClusters),
		NumRawFloat4s:          numRawFloat4s,
		NumVertexRefs:          0,
		DecodeInfoOffset:       decodeInfoOffset,
		StripBitmaskOffset:     stripBitmaskOffset,
		VertexRefBitmaskOffset: vertexRefBitmaskOffset,
	}
	buf.MustWrite(pageHeader.Bytes())

	for i, c := range p.Clusters {
		ch := section.ClusterDiskHeader{
			IndexDataOffset:      indexOffset,
			PageClusterMapOffset: pageClusterMapOffset,
			VertexRefDataOffset:  vertexRefDataOffset,
			LowBytesOffset:       lowOffsets[i],
			MidBytesOffset:       midOffsets[i],
			HighBytesOffset:      highOffsets[i],
			NumVertexRefs:        0,
			// Ref counts stay zero (vertex reuse is disabled), but the
			// new-vertex counts are real: +3 per triangle, accumulated per
			// 32-triangle dword group.
			NumPrevRefVerticesBeforeDwords: 0,
			NumPrevNewVerticesBeforeDwords: prevNewVerticesBeforeDwords(c.NumTriangles()),
		}
		buf.MustWrite(ch.Bytes())
	}

	gpuHeader := section.PageGPUHeader{NumClusters: uint32(numClusters)}
	buf.MustWrite(gpuHeader.Bytes())

	clusterBytes := make([][]byte, numClusters)
	for i, pc := range packed {
		clusterBytes[i] = pc.Bytes()
	}
	for vec := 0; vec < clusterDwordsPerVector; vec++ {
		for i := 0; i < numClusters; i++ {
			buf.MustWrite(clusterBytes[i][vec*16 : vec*16+16])
		}
	}

	for i, c := range p.Clusters {
		r := p.Infos[i].UVRanges
		for ch := 0; ch < c.NumUVChannels(); ch++ {
			buf.MustWrite(r[ch].Pack().Bytes())
		}
	}
	padTo(buf, int(decodeInfoOffset+decodeInfoTotalSize))

	// Index data region: empty by contract (strip bitmasks replace
	// explicit index buffers). No bytes are written here.

	for range p.Clusters {
		for g := 0; g < stripGroupsPerCluster; g++ {
			var word [12]byte
			binary.LittleEndian.PutUint32(word[0:4], 0xFFFFFFFF)
			binary.LittleEndian.PutUint32(word[4:8], 0)
			binary.LittleEndian.PutUint32(word[8:12], 0)
			buf.MustWrite(word[:])
		}
	}

	// Page-cluster-map region: empty.

	for range p.Clusters {
		zero := make([]byte, vertexRefWordsPerCluster*4)
		buf.MustWrite(zero)
	}

	// Vertex-ref data region: empty.
	padTo(buf, int(attributesOffset))

	for _, s := range streams {
		buf.MustWrite(s.Low)
	}
	for _, s := range streams {
		buf.MustWrite(s.Mid)
	}
	for _, s := range streams {
		buf.MustWrite(s.High)
	}

	if uint32(buf.Len()) != pageEnd {
		return nil, errs.NewConsistency("page.stream_length_mismatch", "serialized length does not match computed page end")
	}

	padTo(buf, int(section.Align(uint32(buf.Len()), 4)))

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// prevNewVerticesBeforeDwords packs, as three 10-bit counts, the number of
// new vertices contributed by the triangles before each of dword groups
// 1..3 (each group covering 32 triangles; group 0's count is implicitly
// zero). With vertex reuse disabled every triangle adds exactly three new
// vertices, so each group's contribution is 3 per triangle it holds.
func prevNewVerticesBeforeDwords(numTriangles int) uint32 {
	var newInDword [4]uint32
	for t := 0; t < numTriangles; t++ {
		newInDword[t>>5] += 3
	}

	before1 := newInDword[0]
	before2 := before1 + newInDword[1]
	before3 := before2 + newInDword[2]

	return before3<<20 | before2<<10 | before1
}

func padTo(buf *pool.ByteBuffer, target int) {
	for buf.Len() < target {
		buf.MustWriteByte(0)
	}
}
