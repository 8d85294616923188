// Package mesh defines the flat triangle-soup input the compressor
// consumes: positions, octahedral-encoded normals, optional per-vertex
// colors, and an arbitrary number of UV channels, each array a multiple
// of three vertices long with every consecutive triple forming one
// triangle.
package mesh

import (
	"fmt"

	"github.com/meshforge/nanitepack/errs"
)

// Color is a per-vertex RGBA color with 8 bits per channel, matching the
// packed-cluster ABGR color fields the page serializer writes.
type Color struct {
	R, G, B, A uint8
}

// PackedABGR returns the color packed as A<<24 | B<<16 | G<<8 | R, the
// exact layout the GPU-side unpacker expects.
func (c Color) PackedABGR() uint32 {
	return uint32(c.A)<<24 | uint32(c.B)<<16 | uint32(c.G)<<8 | uint32(c.R)
}

// Normal holds an already octahedral-encoded normal direction, as two
// signed integer lattice coordinates. The mesh compressor treats these as
// opaque integers to delta-encode; projecting a 3D normal onto the
// octahedron is the caller's responsibility.
type Normal struct {
	X, Y int32
}

// Mesh is a flat triangle-soup mesh: every three consecutive entries in
// Positions/Normals form one triangle, with optional per-vertex colors and
// any number of UV channels (each itself parallel with Positions). There
// is no index buffer; a mesh source that wants shared vertices must
// un-index it into this flat form before building clusters.
type Mesh struct {
	Positions [][3]float32
	Normals   []Normal
	Colors    []Color        // len(Colors) == 0 means "mesh has no vertex colors"
	UVs       [][][2]float32 // UVs[channel][vertex]
}

// NumVertices returns the number of vertices in the mesh.
func (m *Mesh) NumVertices() int { return len(m.Positions) }

// NumTriangles returns the number of triangles the mesh describes.
func (m *Mesh) NumTriangles() int { return len(m.Positions) / 3 }

// NumUVChannels returns how many UV channels the mesh carries.
func (m *Mesh) NumUVChannels() int { return len(m.UVs) }

// Validate checks the caller-contract invariants every operation in this
// module assumes hold: a non-empty vertex buffer whose length is a
// multiple of three, a normal per position, and UV channels that are
// either absent or fully populated per vertex.
func (m *Mesh) Validate() error {
	if m.NumVertices() == 0 {
		return errs.ErrEmptyMesh
	}
	if len(m.Positions)%3 != 0 {
		return errs.ErrNotTriangleList
	}
	if len(m.Normals) != m.NumVertices() {
		return fmt.Errorf("%w: %d normals for %d positions", errs.ErrMismatchedArrayLengths, len(m.Normals), m.NumVertices())
	}
	for ch, uvs := range m.UVs {
		if len(uvs) != m.NumVertices() {
			return fmt.Errorf("%w: channel %d", errs.ErrMismatchedUVChannels, ch)
		}
	}
	if len(m.Colors) > 0 && len(m.Colors) != m.NumVertices() {
		return fmt.Errorf("%w: %d colors for %d positions", errs.ErrMismatchedArrayLengths, len(m.Colors), m.NumVertices())
	}
	return nil
}
