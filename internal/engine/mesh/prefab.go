package mesh

import (
	"github.com/Faultbox/meshview/internal/engine/shader"
)

// Prefab is one shading configuration of a Core: a shader program plus the
// uniform values and vertex/face attribute arrays that program consumes, and
// a fill/wireframe polygon mode flag.
type Prefab struct {
	id      PrefabID
	program *shader.Program

	uniforms    *Uniforms
	vertexAttrs *Attributes
	faceAttrs   *Attributes

	fill bool
}

// NewPrefab builds a prefab. copyFrom, when non-nil, seeds the uniform and
// attribute dicts from another prefab before the explicit arguments override
// them. Nil dicts are treated as empty.
func NewPrefab(id PrefabID, program *shader.Program, vertexAttrs, faceAttrs *Attributes, uniforms *Uniforms, fill bool, copyFrom *Prefab) *Prefab {
	p := &Prefab{
		id:          id,
		program:     program,
		uniforms:    NewUniforms(),
		vertexAttrs: NewAttributes(),
		faceAttrs:   NewAttributes(),
		fill:        fill,
	}

	if copyFrom != nil {
		p.uniforms = copyFrom.uniforms.Clone()
		p.vertexAttrs = copyFrom.vertexAttrs.Clone()
		p.faceAttrs = copyFrom.faceAttrs.Clone()
	}

	uniforms.Each(func(name string, v shader.Value) { p.uniforms.Set(name, v) })
	vertexAttrs.Each(func(name string, a Attribute) { p.vertexAttrs.Set(name, a) })
	faceAttrs.Each(func(name string, a Attribute) { p.faceAttrs.Set(name, a) })

	return p
}

// ID returns the prefab id.
func (p *Prefab) ID() PrefabID { return p.id }

// Program returns the shader program this prefab binds.
func (p *Prefab) Program() *shader.Program { return p.program }

// Fill reports whether faces draw filled (true) or as wireframe lines.
func (p *Prefab) Fill() bool { return p.fill }

// Uniforms returns the prefab's uniform dict.
func (p *Prefab) Uniforms() *Uniforms { return p.uniforms }

// VertexAttributes returns the per-vertex attribute dict.
func (p *Prefab) VertexAttributes() *Attributes { return p.vertexAttrs }

// FaceAttributes returns the per-face attribute dict.
func (p *Prefab) FaceAttributes() *Attributes { return p.faceAttrs }

// SetUniform updates or adds one uniform value.
func (p *Prefab) SetUniform(name string, value shader.Value) {
	p.uniforms.Set(name, value)
}

// SetVertexAttribute updates or adds one per-vertex attribute.
func (p *Prefab) SetVertexAttribute(name string, a Attribute) {
	p.vertexAttrs.Set(name, a)
}

// SetFaceAttribute updates or adds one per-face attribute.
func (p *Prefab) SetFaceAttribute(name string, a Attribute) {
	p.faceAttrs.Set(name, a)
}
