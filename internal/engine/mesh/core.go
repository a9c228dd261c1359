package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Core owns the raw geometry of one mesh: vertex positions and face indices.
// Faces all have the same arity k: k=1 point clouds, k=2 line sets, k=3
// triangle meshes, k=4 quad nets. Per-face centroid and normal caches are
// derived for picking and back-face culling.
type Core struct {
	vertices []mgl32.Vec3
	faces    [][]uint32

	elementSize int // vertices per face

	centroids []mgl32.Vec3
	normals   []mgl32.Vec3 // zero vectors for k < 3
}

// NewCore validates the geometry and builds the derived caches.
func NewCore(vertices []mgl32.Vec3, faces [][]uint32) (*Core, error) {
	if len(vertices) == 0 {
		return nil, fmt.Errorf("mesh has no vertices")
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("mesh has no faces")
	}

	k := len(faces[0])
	if k < 1 {
		return nil, fmt.Errorf("face arity must be at least 1")
	}
	for i, f := range faces {
		if len(f) != k {
			return nil, fmt.Errorf("face %d has %d vertices, want %d", i, len(f), k)
		}
		for _, vi := range f {
			if int(vi) >= len(vertices) {
				return nil, fmt.Errorf("face %d references vertex %d of %d", i, vi, len(vertices))
			}
		}
	}

	c := &Core{
		vertices:    vertices,
		faces:       faces,
		elementSize: k,
	}
	c.rebuildFaceCaches()
	return c, nil
}

// UpdateVertices replaces the vertex positions in place. The vertex count
// must not change since faces keep indexing the same range.
func (c *Core) UpdateVertices(vertices []mgl32.Vec3) error {
	if len(vertices) != len(c.vertices) {
		return fmt.Errorf("vertex count changed from %d to %d", len(c.vertices), len(vertices))
	}
	c.vertices = vertices
	c.rebuildFaceCaches()
	return nil
}

func (c *Core) rebuildFaceCaches() {
	c.centroids = make([]mgl32.Vec3, len(c.faces))
	c.normals = make([]mgl32.Vec3, len(c.faces))

	for i, f := range c.faces {
		var sum mgl32.Vec3
		for _, vi := range f {
			sum = sum.Add(c.vertices[vi])
		}
		c.centroids[i] = sum.Mul(1.0 / float32(len(f)))

		if len(f) >= 3 {
			a := c.vertices[f[0]]
			e1 := c.vertices[f[1]].Sub(a)
			e2 := c.vertices[f[2]].Sub(a)
			n := e1.Cross(e2)
			if n.Len() > 0 {
				n = n.Normalize()
			}
			c.normals[i] = n
		}
	}
}

// Vertices returns the vertex positions. Callers must not mutate the slice.
func (c *Core) Vertices() []mgl32.Vec3 { return c.vertices }

// Faces returns the face index table. Callers must not mutate it.
func (c *Core) Faces() [][]uint32 { return c.faces }

// FaceCentroids returns the per-face centroid cache.
func (c *Core) FaceCentroids() []mgl32.Vec3 { return c.centroids }

// FaceNormals returns the per-face normal cache.
func (c *Core) FaceNormals() []mgl32.Vec3 { return c.normals }

// ElementSize returns the number of vertices per face.
func (c *Core) ElementSize() int { return c.elementSize }

// ElementCount returns the number of faces.
func (c *Core) ElementCount() int { return len(c.faces) }

// FlatPositions returns positions repeated per face corner, the layout the
// draw backend uploads (the viewer draws with non-indexed arrays).
func (c *Core) FlatPositions() []float32 {
	out := make([]float32, 0, len(c.faces)*c.elementSize*3)
	for _, f := range c.faces {
		for _, vi := range f {
			v := c.vertices[vi]
			out = append(out, v.X(), v.Y(), v.Z())
		}
	}
	return out
}

// Attribute is a per-vertex or per-face float array with a fixed number of
// components per element.
type Attribute struct {
	Components int
	Data       []float32
}

// Elements returns the number of elements in the attribute.
func (a Attribute) Elements() int {
	if a.Components <= 0 {
		return 0
	}
	return len(a.Data) / a.Components
}

// Element returns the components of element i.
func (a Attribute) Element(i int) []float32 {
	return a.Data[i*a.Components : (i+1)*a.Components]
}

// FlattenVertexAttribute expands a per-vertex attribute to per-corner layout
// matching FlatPositions.
func (c *Core) FlattenVertexAttribute(a Attribute) []float32 {
	out := make([]float32, 0, len(c.faces)*c.elementSize*a.Components)
	for _, f := range c.faces {
		for _, vi := range f {
			out = append(out, a.Element(int(vi))...)
		}
	}
	return out
}

// FlattenFaceAttribute expands a per-face attribute to per-corner layout,
// every corner of face i receiving face value i.
func (c *Core) FlattenFaceAttribute(a Attribute) []float32 {
	out := make([]float32, 0, len(c.faces)*c.elementSize*a.Components)
	for i := range c.faces {
		el := a.Element(i)
		for j := 0; j < c.elementSize; j++ {
			out = append(out, el...)
		}
	}
	return out
}
