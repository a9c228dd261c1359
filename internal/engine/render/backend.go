package render

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/shader"
)

// Backend owns the GPU-side vertex data: one position buffer per core and
// one buffer per (prefab, attribute name), tied together by a per-prefab VAO
// configured lazily against the prefab's program.
type Backend struct {
	meshes  map[mesh.CoreID]*meshBuffer
	prefabs map[mesh.PrefabID]*prefabBuffers
}

type meshBuffer struct {
	vbo uint32
}

type prefabBuffers struct {
	vao   uint32
	attrs map[string]attrBuffer
	dirty bool
}

type attrBuffer struct {
	vbo        uint32
	components int32
}

// NewBackend returns an empty backend.
func NewBackend() *Backend {
	return &Backend{
		meshes:  make(map[mesh.CoreID]*meshBuffer),
		prefabs: make(map[mesh.PrefabID]*prefabBuffers),
	}
}

// UploadMesh (re)uploads the flat per-corner position buffer for a core.
func (b *Backend) UploadMesh(id mesh.CoreID, positions []float32) {
	mb := b.meshes[id]
	if mb == nil {
		mb = &meshBuffer{}
		gl.GenBuffers(1, &mb.vbo)
		b.meshes[id] = mb
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, mb.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(positions)*4, gl.Ptr(positions), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// UploadAttribute (re)uploads one named per-corner attribute buffer for a
// prefab. New attributes mark the VAO for reconfiguration.
func (b *Backend) UploadAttribute(id mesh.PrefabID, name string, components int, data []float32) {
	pb := b.prefabs[id]
	if pb == nil {
		pb = &prefabBuffers{attrs: make(map[string]attrBuffer)}
		b.prefabs[id] = pb
	}

	ab, ok := pb.attrs[name]
	if !ok {
		gl.GenBuffers(1, &ab.vbo)
		ab.components = int32(components)
		pb.attrs[name] = ab
		pb.dirty = true
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, ab.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Draw issues the draw call for one instance. The VAO is configured on first
// use (and after new attributes appear) against the program's attribute
// locations.
func (b *Backend) Draw(core mesh.CoreID, prefab mesh.PrefabID, program *shader.Program, elementSize, elementCount int) {
	mb := b.meshes[core]
	if mb == nil {
		return
	}

	pb := b.prefabs[prefab]
	if pb == nil {
		pb = &prefabBuffers{attrs: make(map[string]attrBuffer)}
		b.prefabs[prefab] = pb
	}

	if pb.vao == 0 || pb.dirty {
		b.configureVAO(pb, mb, program)
	}

	gl.BindVertexArray(pb.vao)
	gl.DrawArrays(drawMode(elementSize), 0, int32(elementSize*elementCount))
	gl.BindVertexArray(0)
}

func (b *Backend) configureVAO(pb *prefabBuffers, mb *meshBuffer, program *shader.Program) {
	if pb.vao == 0 {
		gl.GenVertexArrays(1, &pb.vao)
	}
	gl.BindVertexArray(pb.vao)

	posLoc := gl.GetAttribLocation(program.Handle, gl.Str("position\x00"))
	if posLoc >= 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, mb.vbo)
		gl.EnableVertexAttribArray(uint32(posLoc))
		gl.VertexAttribPointerWithOffset(uint32(posLoc), 3, gl.FLOAT, false, 0, 0)
	}

	for name, ab := range pb.attrs {
		loc := gl.GetAttribLocation(program.Handle, gl.Str(name+"\x00"))
		if loc < 0 {
			continue
		}
		gl.BindBuffer(gl.ARRAY_BUFFER, ab.vbo)
		gl.EnableVertexAttribArray(uint32(loc))
		gl.VertexAttribPointerWithOffset(uint32(loc), ab.components, gl.FLOAT, false, 0, 0)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	pb.dirty = false
}

// drawMode maps face arity to a GL primitive: point clouds, line sets,
// triangle meshes, and quad nets (drawn through lines-adjacency for the
// wireframe geometry path).
func drawMode(elementSize int) uint32 {
	switch elementSize {
	case 1:
		return gl.POINTS
	case 2:
		return gl.LINES
	case 4:
		return gl.LINES_ADJACENCY
	default:
		return gl.TRIANGLES
	}
}

// SetFill selects filled or line polygon mode for subsequent draws.
func (b *Backend) SetFill(fill bool, lineWidth float32) {
	if fill {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		gl.LineWidth(1)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		gl.LineWidth(lineWidth)
	}
}

// SetPointSize sets the rasterized point size.
func (b *Backend) SetPointSize(size float32) {
	gl.PointSize(size)
}

// ReleaseMesh frees the position buffer of a core.
func (b *Backend) ReleaseMesh(id mesh.CoreID) {
	mb := b.meshes[id]
	if mb == nil {
		return
	}
	gl.DeleteBuffers(1, &mb.vbo)
	delete(b.meshes, id)

	// Prefabs under this core are gone with it.
	for pid := range b.prefabs {
		if pid.CoreID == id {
			b.releasePrefabBuffers(pid)
		}
	}
}

// ReleasePrefab frees the buffers and VAO of a prefab.
func (b *Backend) ReleasePrefab(id mesh.PrefabID) {
	b.releasePrefabBuffers(id)
}

func (b *Backend) releasePrefabBuffers(id mesh.PrefabID) {
	pb := b.prefabs[id]
	if pb == nil {
		return
	}
	for _, ab := range pb.attrs {
		vbo := ab.vbo
		gl.DeleteBuffers(1, &vbo)
	}
	if pb.vao != 0 {
		gl.DeleteVertexArrays(1, &pb.vao)
	}
	delete(b.prefabs, id)
}

// ReleaseAll frees everything.
func (b *Backend) ReleaseAll() {
	for id := range b.meshes {
		b.ReleaseMesh(id)
	}
	for id := range b.prefabs {
		b.releasePrefabBuffers(id)
	}
}
