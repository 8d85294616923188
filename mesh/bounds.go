package mesh

import "math"

// Bounds is an axis-aligned bounding box over a set of positions.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// BoundsFromPositions computes the tight axis-aligned bounding box of
// positions. Positions must be non-empty.
func BoundsFromPositions(positions [][3]float32) Bounds {
	b := Bounds{
		Min: [3]float32{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: [3]float32{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
	for _, p := range positions {
		for axis := 0; axis < 3; axis++ {
			if p[axis] < b.Min[axis] {
				b.Min[axis] = p[axis]
			}
			if p[axis] > b.Max[axis] {
				b.Max[axis] = p[axis]
			}
		}
	}
	return b
}

// Center returns the midpoint of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Extent returns the half-size of the box along each axis.
func (b Bounds) Extent() [3]float32 {
	return [3]float32{
		(b.Max[0] - b.Min[0]) / 2,
		(b.Max[1] - b.Min[1]) / 2,
		(b.Max[2] - b.Min[2]) / 2,
	}
}

// Size returns the full side lengths of the box.
func (b Bounds) Size() [3]float32 {
	return [3]float32{
		b.Max[0] - b.Min[0],
		b.Max[1] - b.Min[1],
		b.Max[2] - b.Min[2],
	}
}

// SizeLength returns the length of the Size() vector, i.e. the box
// diagonal. The packed-cluster emitter and the hierarchy builder use this
// (not a true bounding-sphere radius) for a cluster's LOD bounding radius, matching a conservative bound the
// streaming runtime's culling is written against.
func (b Bounds) SizeLength() float32 {
	s := b.Size()
	return float32(math.Sqrt(float64(s[0]*s[0] + s[1]*s[1] + s[2]*s[2])))
}

// Union returns the smallest box containing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	out := b
	for axis := 0; axis < 3; axis++ {
		if other.Min[axis] < out.Min[axis] {
			out.Min[axis] = other.Min[axis]
		}
		if other.Max[axis] > out.Max[axis] {
			out.Max[axis] = other.Max[axis]
		}
	}
	return out
}
