package render

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshview/internal/engine/shader"
)

// Binder uploads typed uniform values. A name the program does not declare
// resolves to location -1, which is a no-op: binding a nonexistent uniform is
// not an error, per graphics-API convention.
type Binder struct{}

// UseProgram makes the program current.
func (Binder) UseProgram(handle uint32) {
	gl.UseProgram(handle)
}

// SetUniform uploads one value. Matrices arrive row-major and upload with the
// transpose flag set since GL stores column-major.
func (Binder) SetUniform(handle uint32, name string, value shader.Value) {
	loc := gl.GetUniformLocation(handle, gl.Str(name+"\x00"))
	if loc < 0 {
		return
	}

	switch v := value.(type) {
	case shader.Float:
		gl.Uniform1f(loc, float32(v))
	case shader.Int:
		gl.Uniform1i(loc, int32(v))
	case shader.Bool:
		var i int32
		if v {
			i = 1
		}
		gl.Uniform1i(loc, i)
	case shader.Vec2:
		gl.Uniform2fv(loc, 1, &v[0])
	case shader.Vec3:
		gl.Uniform3fv(loc, 1, &v[0])
	case shader.Vec4:
		gl.Uniform4fv(loc, 1, &v[0])
	case shader.Mat2:
		gl.UniformMatrix2fv(loc, 1, true, &v[0])
	case shader.Mat3:
		gl.UniformMatrix3fv(loc, 1, true, &v[0])
	case shader.Mat4:
		gl.UniformMatrix4fv(loc, 1, true, &v[0])
	}
}
