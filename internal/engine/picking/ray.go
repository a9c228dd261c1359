// Package picking resolves the vertex under the cursor: it projects the
// active mesh to screen space, casts a depth ray through the cursor pixel and
// intersects it with every face, Möller-Trumbore style. It also computes the
// visible-vertex set used for index label overlays.
package picking

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DeterminantCutoff rejects faces whose intersection determinant magnitude
// falls below it: degenerate (zero-area) and edge-on faces.
const DeterminantCutoff = 1e-6

// Ray is a segment in projected space, from the cursor pixel at near depth to
// the cursor pixel at far depth.
type Ray struct {
	Start mgl32.Vec3
	End   mgl32.Vec3
}

// CursorRay builds the picking ray for a cursor position in pixels, spanning
// depth [0,1].
func CursorRay(cursor mgl32.Vec2) Ray {
	return Ray{
		Start: mgl32.Vec3{cursor.X(), cursor.Y(), 0},
		End:   mgl32.Vec3{cursor.X(), cursor.Y(), 1},
	}
}

// IntersectTriangle tests the ray against triangle (a, b, c) in projected
// space, Möller-Trumbore style. Both windings intersect; the screen-space
// y-flip would otherwise make winding depend on the projection, and depth
// ordering already keeps the front face of a closed mesh winning. Returns the
// barycentric coordinates (u, v) and ray parameter t on a hit.
func (r Ray) IntersectTriangle(a, b, c mgl32.Vec3) (u, v, t float32, hit bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	d := r.End.Sub(r.Start)

	n := e1.Cross(e2)
	det := d.Dot(n)
	if math32.Abs(det) < DeterminantCutoff {
		return 0, 0, 0, false
	}
	invDet := 1 / det

	ao := r.Start.Sub(a)
	dao := ao.Cross(d)

	u = -e2.Dot(dao) * invDet
	v = e1.Dot(dao) * invDet
	t = -ao.Dot(n) * invDet

	if t < 0 || u < 0 || v < 0 || u+v > 1 {
		return u, v, t, false
	}
	return u, v, t, true
}
