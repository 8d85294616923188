// Package nanitepack is the top-level driver (component J): it
// orchestrates cluster building, encoding-info computation, page packing,
// hierarchy construction, and page serialization into the final resource
// blob a virtualized-geometry streaming runtime consumes.
package nanitepack

import (
	"fmt"

	"github.com/meshforge/nanitepack/cluster"
	"github.com/meshforge/nanitepack/errs"
	"github.com/meshforge/nanitepack/hierarchy"
	"github.com/meshforge/nanitepack/internal/hash"
	"github.com/meshforge/nanitepack/mesh"
	"github.com/meshforge/nanitepack/page"
)

// DefaultPositionPrecision is the default number of fractional bits used
// to quantize positions (step size 2^-precision), as set by DefaultParams.
// Build does not substitute it for a zero Params.PositionPrecision: a bare
// zero Params quantizes at precision 0 (step size 1.0).
const DefaultPositionPrecision = 4

// Params configures a single Build call.
type Params struct {
	// PositionPrecision is the number of fractional bits in the quantized
	// position grid. Use DefaultParams to get DefaultPositionPrecision.
	PositionPrecision int32
}

// DefaultParams returns the Params a caller should start from.
func DefaultParams() Params {
	return Params{PositionPrecision: DefaultPositionPrecision}
}

// PageStreamingState is the per-page bookkeeping record the streaming
// runtime reads to know where a page's bytes live and how far into the
// hierarchy it reaches.
type PageStreamingState struct {
	BulkOffset        uint32
	BulkSize          uint32
	PageSize          uint32
	MaxHierarchyDepth uint32
	DependenciesStart uint32
	DependenciesNum   uint32
}

// Resources is the final output of a Build call: everything the streaming
// runtime needs, ready to be moved to the caller.
type Resources struct {
	RootData []byte

	// PositionPrecision and NormalPrecision are resource-level legacy
	// fields, always -1: quantization in this format is per-cluster
	// (PackedCluster.PosPrecision / NormalPrecision), not resource-wide.
	PositionPrecision int32
	NormalPrecision   int32

	NumInputVertices uint32
	NumClusters      uint32
	NumRootPages     uint32

	HierarchyRootOffsets []uint32
	MeshBounds           mesh.Bounds
	HierarchyNodes       []hierarchy.Node
	PageStreamingStates  []PageStreamingState

	// VertexOffsets holds, per page, the global vertex offset at the
	// start of that page, for downstream vertex-buffer fills.
	VertexOffsets []int32

	// ContentHash is an xxHash64 fingerprint of RootData, letting a
	// caller detect a corrupted or truncated bulk-data file before
	// handing it to the streaming runtime.
	ContentHash uint64
}

// Warning reports a non-fatal domain-value saturation the build clamped
// and proceeded past.
type Warning struct {
	ClusterIndex int
	Message      string
}

func (w Warning) String() string {
	return fmt.Sprintf("cluster %d: %s", w.ClusterIndex, w.Message)
}

// Build runs the full compressor pipeline (A through J) over m and
// returns the resource blob the streaming runtime consumes, plus any
// non-fatal warnings raised while clamping quantization bit widths.
//
// Build either returns a fully valid Resources or a single aggregate
// error; it never returns a partially built blob.
func Build(m *mesh.Mesh, params Params) (*Resources, []Warning, error) {
	if err := m.Validate(); err != nil {
		return nil, nil, err
	}

	clusters, err := cluster.Build(m)
	if err != nil {
		return nil, nil, err
	}

	infos := make([]*cluster.EncodingInfo, len(clusters))
	var warnings []Warning
	for i, c := range clusters {
		info, err := cluster.Compute(c, params.PositionPrecision)
		if err != nil {
			return nil, nil, fmt.Errorf("nanitepack: cluster %d: %w", i, err)
		}
		if info.PositionClamped {
			warnings = append(warnings, Warning{
				ClusterIndex: i,
				Message:      "position precision too high: quantization bits clamped",
			})
		}
		infos[i] = info
	}

	pages, err := page.PackPages(clusters, infos)
	if err != nil {
		return nil, nil, err
	}

	rootBounds := mesh.BoundsFromPositions(m.Positions)

	leaves := make([]hierarchy.LeafRef, 0, len(clusters))
	for pageIdx, p := range pages {
		for clusterInPage, c := range p.Clusters {
			leaves = append(leaves, hierarchy.LeafRef{
				PageIndex:          uint32(pageIdx),
				ClusterIndexInPage: uint32(clusterInPage),
				Bounds:             mesh.BoundsFromPositions(c.Positions),
			})
		}
	}

	nodes := hierarchy.Build(leaves, rootBounds)
	depth := hierarchy.Depth(len(leaves))

	var rootData []byte
	streamingStates := make([]PageStreamingState, len(pages))
	vertexOffsets := make([]int32, len(pages))

	leafCursor := 0
	var globalVertexOffset int32
	for pageIdx, p := range pages {
		parts := make([]hierarchy.PartFixup, len(p.Clusters))
		for clusterInPage := range p.Clusters {
			nodeIdx, slot := hierarchy.LeafSlot(len(leaves), leafCursor)
			parts[clusterInPage] = hierarchy.PartFixup{
				HierarchyNodeIndex: nodeIdx,
				HierarchyChildSlot: slot,
				PageIndex:          uint32(pageIdx),
				ClusterIndexInPage: uint32(clusterInPage),
			}
			leafCursor++
		}
		fixup := hierarchy.NewFixupChunk(uint32(pageIdx), parts)
		fixupBytes := fixup.Bytes()

		pageBytes, err := page.Serialize(p)
		if err != nil {
			return nil, nil, fmt.Errorf("nanitepack: page %d: %w", pageIdx, err)
		}

		bulkOffset := uint32(len(rootData))
		rootData = append(rootData, fixupBytes...)
		rootData = append(rootData, pageBytes...)

		streamingStates[pageIdx] = PageStreamingState{
			BulkOffset:        bulkOffset,
			BulkSize:          uint32(len(fixupBytes) + len(pageBytes)),
			PageSize:          uint32(p.GPUTotal().Total()),
			MaxHierarchyDepth: uint32(depth),
		}

		vertexOffsets[pageIdx] = globalVertexOffset
		globalVertexOffset += int32(p.NumVertices())
	}

	if leafCursor != len(leaves) {
		return nil, nil, errs.NewConsistency("driver.leaf_count_mismatch", "not every cluster was assigned a fixup entry")
	}

	return &Resources{
		RootData:             rootData,
		PositionPrecision:    -1,
		NormalPrecision:      -1,
		NumInputVertices:     uint32(m.NumVertices()),
		NumClusters:          uint32(len(clusters)),
		NumRootPages:         uint32(len(pages)),
		HierarchyRootOffsets: []uint32{0},
		MeshBounds:           rootBounds,
		HierarchyNodes:       nodes,
		PageStreamingStates:  streamingStates,
		VertexOffsets:        vertexOffsets,
		ContentHash:          hash.ContentHash(rootData),
	}, warnings, nil
}
