package page

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meshforge/nanitepack/cluster"
	"github.com/meshforge/nanitepack/mesh"
	"github.com/meshforge/nanitepack/section"
)

func buildSingleTriangleCluster(t *testing.T) (*cluster.Cluster, *cluster.EncodingInfo) {
	t.Helper()
	m := &mesh.Mesh{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   []mesh.Normal{{X: 128, Y: 128}, {X: 128, Y: 128}, {X: 128, Y: 128}},
	}
	clusters, err := cluster.Build(m)
	require.NoError(t, err)
	require.Len(t, clusters, 1)

	info, err := cluster.Compute(clusters[0], 0)
	require.NoError(t, err)
	return clusters[0], info
}

// S1's byte-stream count check: low has 3*3 + 3*2 = 15 bytes, mid/high empty.
func TestBuildClusterStreams_S1ByteCounts(t *testing.T) {
	c, info := buildSingleTriangleCluster(t)
	streams := BuildClusterStreams(c, info)

	require.Len(t, streams.Low, 15)
	require.Empty(t, streams.Mid)
	require.Empty(t, streams.High)
}

// S5: a cluster spanning quantized-X range [0, 255] with alternating 0/255
// vertices stores its +255/-255 deltas via shortest-wrap in a single byte
// each: both wrap to magnitude-1 signed deltas under 8 position bits.
func TestBuildClusterStreams_S5_PositionWrap(t *testing.T) {
	m := &mesh.Mesh{
		Positions: [][3]float32{{0, 0, 0}, {255, 0, 0}, {0, 0, 0}},
		Normals:   []mesh.Normal{{X: 128, Y: 128}, {X: 128, Y: 128}, {X: 128, Y: 128}},
	}
	clusters, err := cluster.Build(m)
	require.NoError(t, err)

	info, err := cluster.Compute(clusters[0], 0)
	require.NoError(t, err)
	require.Equal(t, uint32(8), info.PositionBits[0])
	require.Equal(t, uint32(0), info.PositionBits[1])
	require.Equal(t, uint32(0), info.PositionBits[2])

	streams := BuildClusterStreams(clusters[0], info)
	require.Empty(t, streams.Mid)
	require.Empty(t, streams.High)

	// Per vertex: X, Y, Z position bytes then two normal bytes. The first
	// X delta is 0-128 (centered seed) -> zigzag 255; the +255 delta wraps
	// to -1 -> zigzag 1; the -255 delta wraps to +1 -> zigzag 2.
	want := []byte{
		255, 0, 0, 255, 255,
		1, 0, 0, 0, 0,
		2, 0, 0, 0, 0,
	}
	require.Equal(t, want, streams.Low)
}

func identicalClusterMesh(numTriangles int) *mesh.Mesh {
	m := &mesh.Mesh{}
	for i := 0; i < numTriangles; i++ {
		m.Positions = append(m.Positions, [3]float32{0, 0, 0}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0})
		m.Normals = append(m.Normals, mesh.Normal{X: 128, Y: 128}, mesh.Normal{X: 128, Y: 128}, mesh.Normal{X: 128, Y: 128})
	}
	return m
}

// trianglesPerCluster is the effective capacity of a built cluster: the
// vertex cap binds first because vertex reuse is disabled.
const trianglesPerCluster = section.MaxClusterVertices / 3

func buildIdenticalClusters(t *testing.T, count int) ([]*cluster.Cluster, []*cluster.EncodingInfo) {
	t.Helper()
	m := identicalClusterMesh(count * trianglesPerCluster)
	clusters, err := cluster.Build(m)
	require.NoError(t, err)
	require.Len(t, clusters, count)

	infos := make([]*cluster.EncodingInfo, len(clusters))
	for i, c := range clusters {
		info, err := cluster.Compute(c, 4)
		require.NoError(t, err)
		infos[i] = info
	}
	return clusters, infos
}

func TestPackPages_EveryClusterInExactlyOnePage(t *testing.T) {
	clusters, infos := buildIdenticalClusters(t, 5)
	pages, err := PackPages(clusters, infos)
	require.NoError(t, err)

	total := 0
	for _, p := range pages {
		total += len(p.Clusters)
		require.LessOrEqual(t, p.GPUTotal().Total(), uint32(section.RootPageGPUSize))
		require.LessOrEqual(t, len(p.Clusters), section.RootPageMaxClusters)
	}
	require.Equal(t, 5, total)
}

// S3: page overflow. Generate enough identical clusters that the budget
// forces a second page.
func TestPackPages_S3_OverflowSplitsIntoTwoPages(t *testing.T) {
	_, singleInfos := buildIdenticalClusters(t, 1)
	clusterSize := singleInfos[0].GPUSizes.Total()
	clustersPerPage := int(section.RootPageGPUSize / clusterSize)
	if clustersPerPage > section.RootPageMaxClusters {
		clustersPerPage = section.RootPageMaxClusters
	}

	clusters, infos := buildIdenticalClusters(t, clustersPerPage+1)
	pages, err := PackPages(clusters, infos)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	require.Equal(t, clustersPerPage, len(pages[0].Clusters))
	require.Equal(t, 1, len(pages[1].Clusters))
}

func TestSerialize_OffsetsAreAligned(t *testing.T) {
	clusters, infos := buildIdenticalClusters(t, 3)
	pages, err := PackPages(clusters, infos)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	data, err := Serialize(pages[0])
	require.NoError(t, err)
	require.True(t, len(data)%4 == 0)

	var hdr section.PageDiskHeader
	require.NoError(t, readPageHeader(data, &hdr))
	require.True(t, hdr.DecodeInfoOffset%4 == 0)
	require.True(t, hdr.StripBitmaskOffset%4 == 0)
	require.True(t, hdr.VertexRefBitmaskOffset%4 == 0)

	// The raw-float4 stream (GPU header + packed clusters + padded decode
	// info) is a whole number of 16-byte vectors: with no UV channels the
	// decode-info region is empty, leaving one vector of GPU header plus
	// sixteen per cluster.
	numClusters := uint32(len(pages[0].Clusters))
	require.Equal(t, 1+16*numClusters, hdr.NumRawFloat4s)
}

// The material table and vertex-reuse-batch-info regions are always
// zero-sized: the batch descriptor travels inline in each PackedCluster's
// own reserved words, so decode-info must start exactly where the
// packed-cluster region ends, with no gap for a separate region in
// between.
func TestSerialize_NoSeparateVertReuseRegion(t *testing.T) {
	clusters, infos := buildIdenticalClusters(t, 2)
	pages, err := PackPages(clusters, infos)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	numClusters := len(pages[0].Clusters)
	gpuHeaderOffset := section.PageDiskHeaderSize + uint32(numClusters)*section.ClusterDiskHeaderSize
	wantDecodeInfoOffset := gpuHeaderOffset + section.GPUPageHeaderSize + uint32(numClusters)*section.PackedClusterSize

	data, err := Serialize(pages[0])
	require.NoError(t, err)

	var hdr section.PageDiskHeader
	require.NoError(t, readPageHeader(data, &hdr))
	require.Equal(t, wantDecodeInfoOffset, hdr.DecodeInfoOffset)

	// VertReuseBatchInfoOffset/NumWords live at bytes 144-151 of each
	// cluster's 256-byte record, i.e. 16-byte vector index 9 in the
	// column-major interleave.
	const vertReuseVector = 144 / 16
	le := byteOrder()
	clusterVectorsStart := gpuHeaderOffset + section.GPUPageHeaderSize
	for i := 0; i < numClusters; i++ {
		vecStart := clusterVectorsStart + vertReuseVector*16*uint32(numClusters) + uint32(i)*16
		vertReuseOffset := le(data[vecStart : vecStart+4])
		vertReuseNumWords := le(data[vecStart+4 : vecStart+8])
		require.Zero(t, vertReuseOffset, "cluster %d VertReuseBatchInfoOffset must stay zero", i)
		require.Zero(t, vertReuseNumWords, "cluster %d VertReuseBatchInfoNumWords must stay zero", i)
	}
}

// The new-vertex accounting is real even though vertex reuse is disabled:
// +3 per triangle, accumulated per 32-triangle dword group and packed as
// three 10-bit counts. The ref-vertex counts stay zero.
func TestSerialize_PrevNewVertexCounts(t *testing.T) {
	clusters, infos := buildIdenticalClusters(t, 1)
	pages, err := PackPages(clusters, infos)
	require.NoError(t, err)

	data, err := Serialize(pages[0])
	require.NoError(t, err)

	// A full 42-triangle cluster: 96 new vertices in dword group 0, 30 in
	// group 1, none after.
	want := uint32(96) | uint32(126)<<10 | uint32(126)<<20

	le := byteOrder()
	headerStart := uint32(section.PageDiskHeaderSize)
	prevRef := le(data[headerStart+28 : headerStart+32])
	prevNew := le(data[headerStart+32 : headerStart+36])
	require.Zero(t, prevRef)
	require.Equal(t, want, prevNew)
}

func readPageHeader(data []byte, hdr *section.PageDiskHeader) error {
	le := byteOrder()
	hdr.NumClusters = le(data[0:4])
	hdr.NumRawFloat4s = le(data[4:8])
	hdr.NumVertexRefs = le(data[8:12])
	hdr.DecodeInfoOffset = le(data[12:16])
	hdr.StripBitmaskOffset = le(data[16:20])
	hdr.VertexRefBitmaskOffset = le(data[20:24])
	return nil
}

func byteOrder() func([]byte) uint32 {
	return func(b []byte) uint32 {
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	}
}
