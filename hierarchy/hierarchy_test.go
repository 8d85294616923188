package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meshforge/nanitepack/mesh"
)

func rootBoundsForTest() mesh.Bounds {
	return mesh.Bounds{Min: [3]float32{0, 0, 0}, Max: [3]float32{10, 10, 10}}
}

func leavesForTest(n int) []LeafRef {
	leaves := make([]LeafRef, n)
	for i := range leaves {
		leaves[i] = LeafRef{
			PageIndex:          0,
			ClusterIndexInPage: uint32(i),
			Bounds:             mesh.Bounds{Min: [3]float32{0, 0, 0}, Max: [3]float32{1, 1, 1}},
		}
	}
	return leaves
}

// S6: 17 clusters yield a depth-3 hierarchy (64 leaf slots), 17 populated,
// 47 sentinel.
func TestBuild_S6_HierarchyShape(t *testing.T) {
	leaves := leavesForTest(17)
	require.Equal(t, 3, Depth(len(leaves)))

	nodes := Build(leaves, rootBoundsForTest())

	populated, unused := 0, 0
	for _, n := range nodes {
		for _, c := range n.Children {
			if c.IsLeaf {
				populated++
			} else if c.ChildStartReference == LeafSentinel {
				unused++
			}
		}
	}
	require.Equal(t, 17, populated)
	require.Equal(t, 47, unused)
}

func TestDepth_SmallestSatisfyingCapacity(t *testing.T) {
	cases := []struct {
		n     int
		depth int
	}{
		{1, 1}, {4, 1}, {5, 2}, {16, 2}, {17, 3}, {64, 3}, {65, 4},
	}
	for _, c := range cases {
		require.Equal(t, c.depth, Depth(c.n), "n=%d", c.n)
	}
}

func TestBuild_SingleClusterOneLeafThreeSentinels(t *testing.T) {
	nodes := Build(leavesForTest(1), rootBoundsForTest())
	require.Len(t, nodes, 1)

	leafCount, sentinelCount := 0, 0
	for _, c := range nodes[0].Children {
		if c.IsLeaf {
			leafCount++
		} else {
			sentinelCount++
			require.Equal(t, uint32(LeafSentinel), c.ChildStartReference)
		}
	}
	require.Equal(t, 1, leafCount)
	require.Equal(t, 3, sentinelCount)
}

func TestBuild_NonLeafLevelsReferenceChildNodes(t *testing.T) {
	leaves := leavesForTest(17)
	nodes := Build(leaves, rootBoundsForTest())

	// Root (level 0) must point at level-1 nodes, not sentinels.
	for _, c := range nodes[0].Children {
		require.False(t, c.IsLeaf)
		require.NotEqual(t, uint32(LeafSentinel), c.ChildStartReference)
		require.Less(t, int(c.ChildStartReference), len(nodes))
	}
}

func TestLeafSlot_MatchesBuildAssignment(t *testing.T) {
	leaves := leavesForTest(17)
	nodes := Build(leaves, rootBoundsForTest())

	for i := range leaves {
		nodeIdx, slot := LeafSlot(len(leaves), i)
		child := nodes[nodeIdx].Children[slot]
		require.True(t, child.IsLeaf)
		require.Equal(t, uint32(i), child.ClusterIndexInPage)
	}
}

// The sentinel LOD errors pack so the min half is the largest finite
// float16 (1e10 saturates) and the max-parent half is float16 -1: the
// runtime never culls a leaf by LOD.
func TestChild_PackedLODErrorSentinels(t *testing.T) {
	c := defaultChild(rootBoundsForTest())
	packed := c.PackedLODErrors()
	require.Equal(t, uint32(0x7BFF), packed&0xFFFF)
	require.Equal(t, uint32(0xBC00), packed>>16)
}

func TestNewFixupChunk_RoundTripsPartCount(t *testing.T) {
	parts := []PartFixup{
		{HierarchyNodeIndex: 0, HierarchyChildSlot: 0, PageIndex: 0, ClusterIndexInPage: 0},
		{HierarchyNodeIndex: 0, HierarchyChildSlot: 1, PageIndex: 0, ClusterIndexInPage: 1},
	}
	chunk := NewFixupChunk(0, parts)
	data := chunk.Bytes()
	require.Len(t, data, FixupChunkHeaderSize+2*PartFixupSize)
	require.Equal(t, 0, len(data)%4)
}
