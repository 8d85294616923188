// Package hierarchy builds the 4-ary tree of proxy bounding nodes the
// streaming runtime walks to find which clusters are resident at a given
// viewing distance (component I). This compressor produces exactly one
// LOD level, so every leaf slot is flagged so the runtime never culls it
// by LOD error.
package hierarchy

import (
	"github.com/meshforge/nanitepack/mesh"
	"github.com/meshforge/nanitepack/section"
)

// LeafSentinel marks a child slot whose ChildStartReference does not point
// at another node: either because the slot is a genuine leaf (its cluster
// address lives in PageIndex/ClusterIndexInPage instead) or because it is
// an unused slot in a partially filled level.
const LeafSentinel = 0xFFFFFFFF

// AssemblySentinel is the fixed "no assembly part" value every child
// carries: this compressor never produces Nanite assembly/instancing
// output, so the field is always this constant rather than a real index.
const AssemblySentinel = 0xFFFFFFFF

// GroupPartSize is always 1 (a leaf's page range covers exactly one whole
// cluster, never a partial assembly part).
const GroupPartSize = 1

// LOD error sentinels: set wide enough that the streaming runtime's LOD
// culling never rejects a leaf, since this compressor never builds a
// multi-level LOD chain.
const (
	SentinelMinLODError       = float32(1e10)
	SentinelMaxParentLODError = float32(-1)
)

// Child is one of a Node's four slots.
type Child struct {
	BoundsCenter [3]float32
	BoundsRadius float32

	BoxCenter [3]float32
	BoxExtent [3]float32

	MinLODError       float32
	MaxParentLODError float32

	// ChildStartReference is the index, in the returned Nodes slice, of
	// this slot's child node, or LeafSentinel if this slot has no child
	// node (either because it is a leaf or because it is unused).
	ChildStartReference uint32

	// Leaf addressing; only meaningful when IsLeaf is true.
	IsLeaf             bool
	PageIndex          uint32
	ClusterIndexInPage uint32

	AssemblyTransformIndex uint32
	GroupPartSize          uint32
}

// PackedLODErrors returns the slot's LOD-error pair in its wire form: the
// minimum LOD error as a 16-bit float in the low half, the max parent LOD
// error in the high half.
func (c *Child) PackedLODErrors() uint32 {
	return uint32(section.EncodeFloat16(c.MinLODError)) | uint32(section.EncodeFloat16(c.MaxParentLODError))<<16
}

// Node is a four-child proxy bounding node.
type Node struct {
	Children [4]Child
}

// LeafRef identifies one cluster's page slot and its bounds, in the
// deterministic order leaves are assigned to the tree.
type LeafRef struct {
	PageIndex          uint32
	ClusterIndexInPage uint32
	Bounds             mesh.Bounds
}

func defaultChild(rootBounds mesh.Bounds) Child {
	return Child{
		BoundsCenter:           rootBounds.Center(),
		BoundsRadius:           rootBounds.SizeLength(),
		BoxCenter:              rootBounds.Center(),
		BoxExtent:              rootBounds.Extent(),
		MinLODError:            SentinelMinLODError,
		MaxParentLODError:      SentinelMaxParentLODError,
		ChildStartReference:    LeafSentinel,
		AssemblyTransformIndex: AssemblySentinel,
		GroupPartSize:          GroupPartSize,
	}
}

// Depth returns the number of internal tree levels needed so every one of
// numLeaves clusters gets its own leaf slot: the smallest D >= 1 such that
// 4^D >= numLeaves. This is the formula that guarantees every cluster is
// assigned a slot, out of two candidate depth formulas considered — see
// DESIGN.md.
func Depth(numLeaves int) int {
	depth := 1
	capacity := int64(4)
	for capacity < int64(numLeaves) {
		depth++
		capacity *= 4
	}
	return depth
}

// nodeCount returns the number of internal Node records a tree of the
// given depth contains: levels 0..depth-1, i.e. (4^depth - 1) / 3.
func nodeCount(depth int) int {
	total := 0
	level := 1
	for i := 0; i < depth; i++ {
		total += level
		level *= 4
	}
	return total
}

// levelOffset returns the flat-array index of the first node at the given
// level (0-indexed, root is level 0).
func levelOffset(level int) int {
	total := 0
	size := 1
	for i := 0; i < level; i++ {
		total += size
		size *= 4
	}
	return total
}

// Build constructs a complete 4-ary tree with Depth(len(leaves)) internal
// levels (component I). Every non-leaf slot, and every leaf slot beyond
// len(leaves), is initialized with the root bounds and the wide LOD
// sentinels; each actually-populated leaf slot overwrites its bounding
// sphere and box with the cluster's own bounds, in the deterministic order
// leaves are listed.
func Build(leaves []LeafRef, rootBounds mesh.Bounds) []Node {
	if len(leaves) == 0 {
		return nil
	}

	depth := Depth(len(leaves))
	nodes := make([]Node, nodeCount(depth))

	for i := range nodes {
		for c := 0; c < 4; c++ {
			nodes[i].Children[c] = defaultChild(rootBounds)
		}
	}

	// Wire every non-deepest internal level's children to the next level.
	for level := 0; level < depth-1; level++ {
		base := levelOffset(level)
		childBase := levelOffset(level + 1)
		levelSize := 1
		for i := 0; i < level; i++ {
			levelSize *= 4
		}
		for p := 0; p < levelSize; p++ {
			node := &nodes[base+p]
			for c := 0; c < 4; c++ {
				node.Children[c].ChildStartReference = uint32(childBase + 4*p + c)
			}
		}
	}

	// Populate leaf slots: children of the deepest internal level.
	deepestBase := levelOffset(depth - 1)
	for i, leaf := range leaves {
		nodeIdx := deepestBase + i/4
		slot := i % 4
		child := &nodes[nodeIdx].Children[slot]

		child.IsLeaf = true
		child.ChildStartReference = LeafSentinel
		child.PageIndex = leaf.PageIndex
		child.ClusterIndexInPage = leaf.ClusterIndexInPage
		child.BoundsCenter = leaf.Bounds.Center()
		child.BoundsRadius = leaf.Bounds.SizeLength() // diagonal, replicated deliberately: see DESIGN.md
		child.BoxCenter = leaf.Bounds.Center()
		child.BoxExtent = leaf.Bounds.Extent()
	}

	return nodes
}

// LeafSlot returns the (node index, child slot) a tree built by
// Build(leaves, _) assigns to leaves[leafIndex], given numLeaves ==
// len(leaves). The top-level driver uses this to build each page's
// FixupChunk part entries without re-walking the tree.
func LeafSlot(numLeaves, leafIndex int) (nodeIndex uint32, slot uint32) {
	depth := Depth(numLeaves)
	deepestBase := levelOffset(depth - 1)
	return uint32(deepestBase + leafIndex/4), uint32(leafIndex % 4)
}
