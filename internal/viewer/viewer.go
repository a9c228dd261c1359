// Package viewer owns the render-state of one view: the camera, the shader
// registry, the mesh group registry, the pre-draw and post-draw command
// queues and the picking engine. All of it is confined to the render thread;
// other threads interact only through the public mutation methods, which
// enqueue commands.
package viewer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/camera"
	"github.com/Faultbox/meshview/internal/engine/event"
	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/picking"
	"github.com/Faultbox/meshview/internal/engine/shader"
)

// Reserved uniform names bound by the viewer itself, excluded from every
// shader's declared set.
var ReservedUniforms = []string{
	"mvp", "projection", "view", "model",
	"lightDirection", "lightIntensity", "ambientLighting",
	"cameraPosition", "linkLight",
}

// ReservedAttributes are vertex inputs the viewer binds itself.
var ReservedAttributes = []string{"position"}

// UniformBinder uploads typed uniform values to a bound program. The OpenGL
// implementation treats unknown names as silently absent, per graphics-API
// convention.
type UniformBinder interface {
	UseProgram(handle uint32)
	SetUniform(handle uint32, name string, value shader.Value)
}

// DrawBackend owns vertex buffers and issues draw calls.
type DrawBackend interface {
	UploadMesh(id mesh.CoreID, positions []float32)
	UploadAttribute(id mesh.PrefabID, name string, components int, data []float32)
	Draw(core mesh.CoreID, prefab mesh.PrefabID, program *shader.Program, elementSize, elementCount int)
	SetFill(fill bool, lineWidth float32)
	SetPointSize(size float32)
	ReleaseMesh(id mesh.CoreID)
	ReleasePrefab(id mesh.PrefabID)
	ReleaseAll()
}

// Overlay receives, once per frame, the picking selection (nil when nothing
// is under the cursor) and the vertex-index labels to draw.
type Overlay interface {
	Frame(sel *picking.Selection, labels []picking.Label)
}

// Capture saves the finished frame buffer to a file. Invoked from the
// post-draw queue only, after the frame is complete.
type Capture interface {
	Capture(path string) error
}

// Collaborators bundles the external interfaces the viewer draws through.
// Any of them may be nil; the corresponding work is skipped.
type Collaborators struct {
	Binder  UniformBinder
	Backend DrawBackend
	Overlay Overlay
	Capture Capture
}

// Viewer is the render-state context of one view.
type Viewer struct {
	cam      *camera.Camera
	shaders  *shader.Registry
	registry *mesh.Registry

	preDraw  *event.Queue
	postDraw *event.Queue

	globals *mesh.Uniforms
	pick    *picking.Engine

	collab Collaborators

	drawWireframe bool
	lineWidth     float32
	pointSize     float32

	cursor mgl32.Vec2

	activeCore mesh.CoreID
	hasActive  bool

	// Debug makes unknown queue commands fatal instead of logged-and-skipped.
	Debug bool
}

// New creates a viewer for the given viewport size.
func New(width, height int, shaders *shader.Registry, collab Collaborators) *Viewer {
	v := &Viewer{
		cam:           camera.New(width, height),
		shaders:       shaders,
		registry:      mesh.NewRegistry(),
		preDraw:       event.NewQueue(),
		postDraw:      event.NewQueue(),
		globals:       mesh.NewUniforms(),
		pick:          picking.NewEngine(),
		collab:        collab,
		drawWireframe: true,
		lineWidth:     1,
		pointSize:     3,
	}

	v.globals.Set("lightDirection", shader.Vec3{0, 0, 1})
	v.globals.Set("lightIntensity", shader.Vec3{0.95, 0.95, 0.95})
	v.globals.Set("ambientLighting", shader.Vec3{0.05, 0.05, 0.05})
	v.globals.Set("cameraPosition", vec3Value(v.cam.Position()))
	v.globals.Set("linkLight", shader.Bool(false))

	return v
}

// Camera returns the view's camera. Render thread only.
func (v *Viewer) Camera() *camera.Camera { return v.cam }

// Shaders returns the shader registry.
func (v *Viewer) Shaders() *shader.Registry { return v.shaders }

// SetDirectionalLight sets the global light direction (normalized here) and
// intensity.
func (v *Viewer) SetDirectionalLight(direction, intensity mgl32.Vec3) {
	if direction.Len() > 0 {
		direction = direction.Normalize()
	}
	v.globals.Set("lightDirection", vec3Value(direction))
	v.globals.Set("lightIntensity", vec3Value(intensity))
}

// SetAmbientLight sets the global ambient intensity.
func (v *Viewer) SetAmbientLight(intensity mgl32.Vec3) {
	v.globals.Set("ambientLighting", vec3Value(intensity))
}

// LinkLightToCamera makes shaders light along the view direction.
func (v *Viewer) LinkLightToCamera(link bool) {
	v.globals.Set("linkLight", shader.Bool(link))
}

// ToggleWireframe flips drawing of wireframe-shader prefabs.
func (v *Viewer) ToggleWireframe() {
	v.drawWireframe = !v.drawWireframe
}

// SetLineWidth sets the line width used for non-filled prefabs.
func (v *Viewer) SetLineWidth(w float32) { v.lineWidth = w }

// SetPointSize sets the point size for point-cloud drawing.
func (v *Viewer) SetPointSize(s float32) { v.pointSize = s }

// SetDrawIndicesDistance enables vertex index labels for visible vertices
// with projected depth below the threshold. Zero disables labels.
func (v *Viewer) SetDrawIndicesDistance(d float32) {
	v.pick.DrawDistance = d
}

// SetCursorPos records the cursor position in viewport pixels for picking.
func (v *Viewer) SetCursorPos(x, y float32) {
	v.cursor = mgl32.Vec2{x, y}
}

// NearestVertex answers a screen-space nearest-vertex query against the last
// rendered frame's projection. Render thread only.
func (v *Viewer) NearestVertex(x, y float32) (int, bool) {
	return v.pick.NearestVertex(x, y)
}

// GetMesh looks up a mesh group. Render thread only.
func (v *Viewer) GetMesh(id mesh.CoreID) (*mesh.Group, error) {
	return v.registry.Get(id)
}

// GetMeshPrefab looks up a prefab. Render thread only.
func (v *Viewer) GetMeshPrefab(id mesh.PrefabID) (*mesh.Prefab, error) {
	g, err := v.registry.Get(id.CoreID)
	if err != nil {
		return nil, err
	}
	return g.Prefab(id)
}

// GetMeshInstance looks up an instance. Render thread only.
func (v *Viewer) GetMeshInstance(id mesh.InstanceID) (*mesh.Instance, error) {
	g, err := v.registry.Get(id.CoreID)
	if err != nil {
		return nil, err
	}
	return g.Instance(id)
}

// GetMeshInstanceVisibility reports an instance's visibility flag. Render
// thread only.
func (v *Viewer) GetMeshInstanceVisibility(id mesh.InstanceID) (bool, error) {
	in, err := v.GetMeshInstance(id)
	if err != nil {
		return false, err
	}
	return in.Visible(), nil
}

func vec3Value(v mgl32.Vec3) shader.Vec3 {
	return shader.Vec3{v.X(), v.Y(), v.Z()}
}

// mat4Value converts a column-major mgl32 matrix to the row-major layout
// uniform values carry. The binder transposes back at upload.
func mat4Value(m mgl32.Mat4) shader.Mat4 {
	t := m.Transpose()
	return shader.Mat4(t)
}
