package picking

import "github.com/go-gl/mathgl/mgl32"

// ProjectedVertex is one vertex after projection: x and y in viewport pixels,
// z the normalized depth in [0,1], plus whether the vertex landed inside the
// visible unit cube before pixel scaling.
type ProjectedVertex struct {
	Pos     mgl32.Vec3
	InRange bool
}

// Project transforms every vertex through the model-view-projection matrix,
// perspective-divides, maps to [0,1]^2 with y flipped to the pixel-space
// top-left origin, then scales x and y to viewport pixels. Vertices behind
// the eye (w <= 0) are marked out of range.
func Project(vertices []mgl32.Vec3, mvp mgl32.Mat4, width, height int) []ProjectedVertex {
	out := make([]ProjectedVertex, len(vertices))
	w := float32(width)
	h := float32(height)

	for i, v := range vertices {
		clip := mvp.Mul4x1(v.Vec4(1))
		cw := clip.W()
		if cw <= 0 {
			out[i] = ProjectedVertex{Pos: mgl32.Vec3{-1, -1, -1}}
			continue
		}

		x := clip.X() / cw
		y := clip.Y() / cw
		z := clip.Z() / cw

		// NDC [-1,1] to unit cube [0,1], y flipped.
		x = (x + 1) / 2
		y = 1 - (y+1)/2
		z = (z + 1) / 2

		inRange := x >= 0 && x <= 1 && y >= 0 && y <= 1 && z >= 0 && z <= 1

		out[i] = ProjectedVertex{
			Pos:     mgl32.Vec3{x * w, y * h, z},
			InRange: inRange,
		}
	}
	return out
}
