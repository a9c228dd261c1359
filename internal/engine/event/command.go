// Package event carries deferred mutation commands from producer threads into
// the render thread. Commands form a closed tagged union so the render-thread
// dispatcher can switch exhaustively instead of resolving operation names at
// run time.
package event

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/shader"
)

// Command is one deferred mutation. Implementations live in this package
// only.
type Command interface {
	isCommand()
}

// AddMesh materializes a new core under a pre-minted id.
type AddMesh struct {
	ID       mesh.CoreID
	Vertices []mgl32.Vec3
	Faces    [][]uint32
}

// AddPrefab materializes a shading configuration under a pre-minted id.
type AddPrefab struct {
	ID          mesh.PrefabID
	Shader      string
	VertexAttrs *mesh.Attributes
	FaceAttrs   *mesh.Attributes
	Uniforms    *mesh.Uniforms
	Fill        bool
	CopyFrom    *mesh.PrefabID
}

// AddInstance materializes a placed copy of a prefab.
type AddInstance struct {
	ID       mesh.InstanceID
	Model    mgl32.Mat4
	HasModel bool
}

// UpdateVertices replaces a core's vertex positions in place.
type UpdateVertices struct {
	ID       mesh.CoreID
	Vertices []mgl32.Vec3
}

// UpdateUniform sets one uniform value on a prefab.
type UpdateUniform struct {
	ID    mesh.PrefabID
	Name  string
	Value shader.Value
}

// UpdateVertexAttribute sets one per-vertex attribute on a prefab.
type UpdateVertexAttribute struct {
	ID   mesh.PrefabID
	Name string
	Attr mesh.Attribute
}

// UpdateFaceAttribute sets one per-face attribute on a prefab.
type UpdateFaceAttribute struct {
	ID   mesh.PrefabID
	Name string
	Attr mesh.Attribute
}

// UpdateInstanceModel replaces an instance's model transform.
type UpdateInstanceModel struct {
	ID    mesh.InstanceID
	Model mgl32.Mat4
}

// SetInstanceVisibility flips an instance's visibility flag.
type SetInstanceVisibility struct {
	ID      mesh.InstanceID
	Visible bool
}

// RemoveMesh drops a core and everything under it.
type RemoveMesh struct {
	ID mesh.CoreID
}

// RemovePrefab drops a prefab and its instances; the core survives.
type RemovePrefab struct {
	ID mesh.PrefabID
}

// RemoveInstance drops one instance.
type RemoveInstance struct {
	ID mesh.InstanceID
}

// ClearAll drops every mesh group.
type ClearAll struct{}

// AddWireframe derives a wireframe prefab+instance from an existing instance.
type AddWireframe struct {
	Parent    mesh.InstanceID
	Prefab    mesh.PrefabID
	Instance  mesh.InstanceID
	LineColor shader.Vec3
}

// SaveScreenshot captures the finished frame to a file. Post-draw queue only.
type SaveScreenshot struct {
	Path string
}

func (AddMesh) isCommand()               {}
func (AddPrefab) isCommand()             {}
func (AddInstance) isCommand()           {}
func (UpdateVertices) isCommand()        {}
func (UpdateUniform) isCommand()         {}
func (UpdateVertexAttribute) isCommand() {}
func (UpdateFaceAttribute) isCommand()   {}
func (UpdateInstanceModel) isCommand()   {}
func (SetInstanceVisibility) isCommand() {}
func (RemoveMesh) isCommand()            {}
func (RemovePrefab) isCommand()          {}
func (RemoveInstance) isCommand()        {}
func (ClearAll) isCommand()              {}
func (AddWireframe) isCommand()          {}
func (SaveScreenshot) isCommand()        {}
