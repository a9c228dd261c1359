package picking

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Selection is the picking result for one frame: the vertex nearest the
// cursor inside the nearest intersected face, with screen positions for the
// overlay.
type Selection struct {
	Vertex   int
	Face     int
	Screen   mgl32.Vec2
	Triangle [3]mgl32.Vec2
}

// Label is one vertex index to draw at a screen position.
type Label struct {
	Vertex int
	Screen mgl32.Vec2
}

// Engine runs picking against a single designated active mesh (the most
// recently added one); it does not pick across the whole composited scene.
// All results are recomputed every frame since camera and cursor change every
// frame.
type Engine struct {
	vertices  []mgl32.Vec3
	faces     [][]uint32
	centroids []mgl32.Vec3
	normals   []mgl32.Vec3

	// DrawDistance enables the visible-index label set when > 0; vertices
	// with projected depth below it get labels.
	DrawDistance float32

	projected []ProjectedVertex
	index     *ScreenIndex
}

// NewEngine returns an engine with no active mesh.
func NewEngine() *Engine {
	return &Engine{}
}

// SetActiveMesh designates the mesh picking runs against. Centroids feed
// back-face culling; normals may be replaced later by a prefab's "normal"
// face attribute via SetFaceNormals.
func (e *Engine) SetActiveMesh(vertices []mgl32.Vec3, faces [][]uint32, centroids, normals []mgl32.Vec3) {
	e.vertices = vertices
	e.faces = faces
	e.centroids = centroids
	e.normals = normals
	e.projected = nil
	e.index = nil
}

// UpdateVertices refreshes the active mesh positions after an in-place
// vertex update.
func (e *Engine) UpdateVertices(vertices []mgl32.Vec3, centroids, normals []mgl32.Vec3) {
	e.vertices = vertices
	e.centroids = centroids
	e.normals = normals
}

// SetFaceNormals overrides the per-face normals used for back-face culling.
func (e *Engine) SetFaceNormals(normals []mgl32.Vec3) {
	if len(normals) == len(e.faces) {
		e.normals = normals
	}
}

// HasMesh reports whether an active mesh is set.
func (e *Engine) HasMesh() bool { return len(e.vertices) > 0 }

// Run projects the active mesh and resolves the selection under the cursor
// plus the visible-index labels. Either result may be empty. O(V+F).
func (e *Engine) Run(cursor mgl32.Vec2, mvp mgl32.Mat4, camPos mgl32.Vec3, width, height int) (*Selection, []Label) {
	if !e.HasMesh() {
		return nil, nil
	}

	e.projected = Project(e.vertices, mvp, width, height)
	e.index = nil

	sel := e.pick(cursor)
	labels := e.visibleLabels(camPos, sel)
	return sel, labels
}

// pick intersects the cursor ray with every triangle, keeps the face whose
// projected centroid is nearest the camera, and inside it the vertex closest
// to the cursor by squared pixel distance.
func (e *Engine) pick(cursor mgl32.Vec2) *Selection {
	ray := CursorRay(cursor)

	bestFace := -1
	bestDepth := float32(math32.MaxFloat32)

	for fi, f := range e.faces {
		if len(f) != 3 {
			continue
		}
		a := e.projected[f[0]].Pos
		b := e.projected[f[1]].Pos
		c := e.projected[f[2]].Pos

		if _, _, _, hit := ray.IntersectTriangle(a, b, c); !hit {
			continue
		}

		depth := (a.Z() + b.Z() + c.Z()) / 3
		if depth < bestDepth {
			bestDepth = depth
			bestFace = fi
		}
	}

	if bestFace < 0 {
		return nil
	}

	face := e.faces[bestFace]
	bestVert := int(face[0])
	bestDist := float32(math32.MaxFloat32)
	var tri [3]mgl32.Vec2
	for i, vi := range face {
		p := e.projected[vi].Pos
		tri[i] = mgl32.Vec2{p.X(), p.Y()}
		dx := p.X() - cursor.X()
		dy := p.Y() - cursor.Y()
		d := dx*dx + dy*dy
		if d < bestDist {
			bestDist = d
			bestVert = int(vi)
		}
	}

	sp := e.projected[bestVert].Pos
	return &Selection{
		Vertex:   bestVert,
		Face:     bestFace,
		Screen:   mgl32.Vec2{sp.X(), sp.Y()},
		Triangle: tri,
	}
}

// visibleLabels computes the vertex indices to label: vertices of front
// faces (centroid-to-eye direction against the face normal), inside the
// visible range, with depth under DrawDistance, excluding the selected
// vertex.
func (e *Engine) visibleLabels(camPos mgl32.Vec3, sel *Selection) []Label {
	if e.DrawDistance <= 0 {
		return nil
	}

	visible := make([]bool, len(e.vertices))
	for fi, f := range e.faces {
		if fi >= len(e.centroids) || fi >= len(e.normals) {
			break
		}
		// Back-face cull: the face is visible iff the vector from its
		// centroid to the camera opposes the normal.
		if e.centroids[fi].Sub(camPos).Dot(e.normals[fi]) >= 0 {
			continue
		}
		for _, vi := range f {
			visible[vi] = true
		}
	}

	var labels []Label
	for vi, pv := range e.projected {
		if !visible[vi] || !pv.InRange || pv.Pos.Z() >= e.DrawDistance {
			continue
		}
		if sel != nil && sel.Vertex == vi {
			continue
		}
		labels = append(labels, Label{
			Vertex: vi,
			Screen: mgl32.Vec2{pv.Pos.X(), pv.Pos.Y()},
		})
	}
	return labels
}

// NearestVertex answers a screen-space nearest-neighbor query against the
// vertices projected by the last Run, building the spatial index on first
// use.
func (e *Engine) NearestVertex(x, y float32) (int, bool) {
	if e.projected == nil {
		return 0, false
	}
	if e.index == nil {
		e.index = NewScreenIndex(e.projected)
	}
	return e.index.Nearest(x, y)
}
