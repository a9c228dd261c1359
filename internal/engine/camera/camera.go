// Package camera maintains the viewer's trackball camera: orbit, pan and zoom
// driven by cumulative input deltas, with drag transforms held provisional
// until the drag is released.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Defaults for a freshly constructed or reset camera.
const (
	DefaultDistance = 3.0
	DefaultFovY     = 45.0 // degrees
	DefaultNear     = 0.1
	DefaultFar      = 100.0

	minDistance = 0.05
)

// Camera holds view and projection state. Rotation and pan deltas arriving
// during a drag replace a provisional transform used for live preview;
// Finalize commits the provisional transform into the baseline so the next
// drag composes on top of it. Zoom and resize apply immediately. Nothing is
// time-integrated.
type Camera struct {
	width  int
	height int

	fovY float32 // degrees
	near float32
	far  float32

	distance float32

	baseRotation mgl32.Mat4
	provRotation mgl32.Mat4

	basePan mgl32.Vec3
	provPan mgl32.Vec3

	RotateSensitivity float32
	PanSensitivity    float32
}

// New creates a camera for the given viewport size.
func New(width, height int) *Camera {
	c := &Camera{
		width:             width,
		height:            height,
		RotateSensitivity: 0.01,
		PanSensitivity:    0.003,
	}
	c.Reset()
	return c
}

// Reset restores the default pose and projection parameters. The viewport
// size is kept.
func (c *Camera) Reset() {
	c.fovY = DefaultFovY
	c.near = DefaultNear
	c.far = DefaultFar
	c.distance = DefaultDistance
	c.baseRotation = mgl32.Ident4()
	c.provRotation = mgl32.Ident4()
	c.basePan = mgl32.Vec3{}
	c.provPan = mgl32.Vec3{}
}

// HandleRotation updates the provisional rotation from the cumulative drag
// delta in pixels. Horizontal drag yaws, vertical drag pitches.
func (c *Camera) HandleRotation(delta mgl32.Vec2) {
	yaw := delta.X() * c.RotateSensitivity
	pitch := delta.Y() * c.RotateSensitivity
	c.provRotation = mgl32.HomogRotate3DX(pitch).Mul4(mgl32.HomogRotate3DY(yaw))
}

// HandleTranslation updates the provisional pan from the cumulative drag
// delta in pixels. Pan speed scales with distance for a consistent feel.
func (c *Camera) HandleTranslation(delta mgl32.Vec2) {
	s := c.PanSensitivity * c.distance
	c.provPan = mgl32.Vec3{delta.X() * s, -delta.Y() * s, 0}
}

// HandleZoom scales the camera distance. Applies immediately; zoom is not
// part of a drag.
func (c *Camera) HandleZoom(delta float32) {
	c.distance *= 1 + delta
	c.distance = math32.Max(c.distance, minDistance)
}

// FinalizeTransformation commits the provisional rotation and pan into the
// baseline, mirroring mouse release. Subsequent drags compose on the new
// baseline.
func (c *Camera) FinalizeTransformation() {
	c.baseRotation = c.provRotation.Mul4(c.baseRotation)
	c.provRotation = mgl32.Ident4()
	c.basePan = c.basePan.Add(c.provPan)
	c.provPan = mgl32.Vec3{}
}

// HandleResize updates the viewport dimensions used for the projection
// aspect ratio.
func (c *Camera) HandleResize(width, height int) {
	c.width = width
	c.height = height
}

// ViewMatrix derives the view matrix from the committed baseline plus any
// provisional drag transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	rot := c.provRotation.Mul4(c.baseRotation)
	pan := c.basePan.Add(c.provPan)
	view := mgl32.Translate3D(pan.X(), pan.Y(), -c.distance)
	return view.Mul4(rot)
}

// ProjectionMatrix derives the perspective projection from the current
// viewport aspect ratio.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	aspect := float32(1)
	if c.height > 0 {
		aspect = float32(c.width) / float32(c.height)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.fovY), aspect, c.near, c.far)
}

// Position returns the camera position in world space.
func (c *Camera) Position() mgl32.Vec3 {
	inv := c.ViewMatrix().Inv()
	p := inv.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	return p.Vec3()
}

// ViewportSize returns the current viewport dimensions in pixels.
func (c *Camera) ViewportSize() (int, int) {
	return c.width, c.height
}

// Distance returns the current zoom distance.
func (c *Camera) Distance() float32 { return c.distance }

// SetFovY overrides the vertical field of view in degrees.
func (c *Camera) SetFovY(deg float32) { c.fovY = deg }

// SetClipPlanes overrides the near and far clip distances.
func (c *Camera) SetClipPlanes(near, far float32) {
	c.near = near
	c.far = far
}
