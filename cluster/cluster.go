// Package cluster implements the greedy cluster builder and per-cluster
// encoding-info computer: components D and E of the compressor. A Cluster
// is a bounded bundle of triangles copied out of the input mesh with no
// vertex deduplication; EncodingInfo is the quantization envelope derived
// from one once its contents are frozen.
package cluster

import (
	"github.com/meshforge/nanitepack/errs"
	"github.com/meshforge/nanitepack/mesh"
	"github.com/meshforge/nanitepack/section"
)

// Cluster holds up to MaxClusterVertices vertices (MaxClusterTriangles
// triangles), stored in the triangle order they were added, copied
// straight out of the source mesh's flat vertex arrays with no
// deduplication: every triangle contributes three freshly copied vertex
// entries, even when two triangles happen to share identical values.
type Cluster struct {
	Positions [][3]float32
	Normals   []mesh.Normal
	Colors    []mesh.Color   // empty means the source mesh carried no colors at all
	UVs       [][][2]float32 // UVs[channel][vertex], len(UVs) fixed at cluster creation

	hasColors bool
}

// NumVertices returns the number of vertices currently in the cluster.
func (c *Cluster) NumVertices() int { return len(c.Positions) }

// NumTriangles returns the number of triangles currently in the cluster.
func (c *Cluster) NumTriangles() int { return len(c.Positions) / 3 }

// HasColors reports whether the source mesh carried vertex colors at all
// (distinct from "colors present but cluster happens to be constant").
func (c *Cluster) HasColors() bool { return c.hasColors }

// NumUVChannels returns how many UV channels this cluster carries.
func (c *Cluster) NumUVChannels() int { return len(c.UVs) }

func newCluster(numUVChannels int, hasColors bool) *Cluster {
	c := &Cluster{hasColors: hasColors}
	if numUVChannels > 0 {
		c.UVs = make([][][2]float32, numUVChannels)
	}
	return c
}

func (c *Cluster) addVertex(m *mesh.Mesh, vertexIndex int) {
	c.Positions = append(c.Positions, m.Positions[vertexIndex])
	c.Normals = append(c.Normals, m.Normals[vertexIndex])
	if c.hasColors {
		c.Colors = append(c.Colors, m.Colors[vertexIndex])
	}
	for ch := range c.UVs {
		c.UVs[ch] = append(c.UVs[ch], m.UVs[ch][vertexIndex])
	}
}

// wouldOverflow reports whether adding one more triangle (three vertices)
// to c would exceed the per-cluster vertex or triangle capacity.
func (c *Cluster) wouldOverflow() bool {
	if c.NumTriangles() >= section.MaxClusterTriangles {
		return true
	}
	if c.NumVertices()+3 > section.MaxClusterVertices {
		return true
	}
	return false
}

// Build splits m's triangles into clusters of at most MaxClusterTriangles
// triangles and MaxClusterVertices vertices each (component D). Triangles
// are consumed strictly in input order; a new cluster starts whenever the
// open one would overflow. No vertex deduplication is performed.
func Build(m *mesh.Mesh) ([]*Cluster, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	numUV := m.NumUVChannels()
	if numUV > section.MaxUVs {
		return nil, errs.ErrTooManyUVChannels
	}
	hasColors := len(m.Colors) > 0

	var clusters []*Cluster
	var open *Cluster

	numTris := m.NumTriangles()
	for t := 0; t < numTris; t++ {
		if open == nil || open.wouldOverflow() {
			open = newCluster(numUV, hasColors)
			clusters = append(clusters, open)
		}
		base := 3 * t
		open.addVertex(m, base)
		open.addVertex(m, base+1)
		open.addVertex(m, base+2)
	}

	return clusters, nil
}
