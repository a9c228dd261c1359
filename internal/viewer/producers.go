package viewer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/event"
	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/shader"
)

// The public mutation methods are thin producers: they validate what can be
// validated synchronously, mint any new id on the calling thread, enqueue the
// deferred apply and return the id immediately. The id is valid before the
// entity is materialized, so callers can chain operations on it.

// PrefabOptions carries the optional arguments of AddMeshPrefab. The zero
// value means: no attributes, no uniforms, filled polygons, no copy source.
type PrefabOptions struct {
	VertexAttributes *mesh.Attributes
	FaceAttributes   *mesh.Attributes
	Uniforms         *mesh.Uniforms

	// Wireframe draws the prefab with line polygon mode instead of fill.
	Wireframe bool

	// CopyFrom seeds attribute and uniform dicts from another prefab before
	// the explicit ones above override them.
	CopyFrom *mesh.PrefabID
}

// AddMesh enqueues creation of a new mesh core and returns its id. The
// geometry is validated synchronously.
func (v *Viewer) AddMesh(vertices []mgl32.Vec3, faces [][]uint32) (mesh.CoreID, error) {
	if err := validateGeometry(vertices, faces); err != nil {
		return mesh.CoreID{}, err
	}
	id := mesh.NewCoreID()
	v.preDraw.Push(event.AddMesh{ID: id, Vertices: vertices, Faces: faces})
	return id, nil
}

// AddMeshPrefab enqueues creation of a shading configuration for a core and
// returns its id. A missing shader name falls back to "default" at apply
// time with a diagnostic. opts may be nil; dicts are cloned here so callers
// can reuse or mutate theirs afterwards.
func (v *Viewer) AddMeshPrefab(core mesh.CoreID, shaderName string, opts *PrefabOptions) mesh.PrefabID {
	if opts == nil {
		opts = &PrefabOptions{}
	}
	id := mesh.NewPrefabID(core)
	v.preDraw.Push(event.AddPrefab{
		ID:          id,
		Shader:      shaderName,
		VertexAttrs: opts.VertexAttributes.Clone(),
		FaceAttrs:   opts.FaceAttributes.Clone(),
		Uniforms:    opts.Uniforms.Clone(),
		Fill:        !opts.Wireframe,
		CopyFrom:    opts.CopyFrom,
	})
	return id
}

// AddMeshInstance enqueues a placed copy of a prefab and returns its id.
// A nil model leaves the transform at identity until one is set.
func (v *Viewer) AddMeshInstance(prefab mesh.PrefabID, model *mgl32.Mat4) mesh.InstanceID {
	id := mesh.NewInstanceID(prefab)
	cmd := event.AddInstance{ID: id}
	if model != nil {
		cmd.Model = *model
		cmd.HasModel = true
	}
	v.preDraw.Push(cmd)
	return id
}

// UpdateMeshVertices enqueues an in-place replacement of a core's vertex
// positions.
func (v *Viewer) UpdateMeshVertices(core mesh.CoreID, vertices []mgl32.Vec3) {
	v.preDraw.Push(event.UpdateVertices{ID: core, Vertices: vertices})
}

// UpdateMeshPrefabUniform enqueues a single uniform update.
func (v *Viewer) UpdateMeshPrefabUniform(prefab mesh.PrefabID, name string, value shader.Value) {
	v.preDraw.Push(event.UpdateUniform{ID: prefab, Name: name, Value: value})
}

// UpdateMeshPrefabVertexAttribute enqueues a single per-vertex attribute
// update.
func (v *Viewer) UpdateMeshPrefabVertexAttribute(prefab mesh.PrefabID, name string, attr mesh.Attribute) {
	v.preDraw.Push(event.UpdateVertexAttribute{ID: prefab, Name: name, Attr: attr})
}

// UpdateMeshPrefabFaceAttribute enqueues a single per-face attribute update.
func (v *Viewer) UpdateMeshPrefabFaceAttribute(prefab mesh.PrefabID, name string, attr mesh.Attribute) {
	v.preDraw.Push(event.UpdateFaceAttribute{ID: prefab, Name: name, Attr: attr})
}

// UpdateMeshInstanceModel enqueues a model transform replacement.
func (v *Viewer) UpdateMeshInstanceModel(instance mesh.InstanceID, model mgl32.Mat4) {
	v.preDraw.Push(event.UpdateInstanceModel{ID: instance, Model: model})
}

// SetMeshInstanceVisibility enqueues a visibility flip.
func (v *Viewer) SetMeshInstanceVisibility(instance mesh.InstanceID, visible bool) {
	v.preDraw.Push(event.SetInstanceVisibility{ID: instance, Visible: visible})
}

// RemoveMesh enqueues removal of a core and, transitively, all its prefabs
// and instances.
func (v *Viewer) RemoveMesh(core mesh.CoreID) {
	v.preDraw.Push(event.RemoveMesh{ID: core})
}

// RemoveMeshPrefab enqueues removal of a prefab and its instances. The core
// survives.
func (v *Viewer) RemoveMeshPrefab(prefab mesh.PrefabID) {
	v.preDraw.Push(event.RemovePrefab{ID: prefab})
}

// RemoveMeshInstance enqueues removal of one instance.
func (v *Viewer) RemoveMeshInstance(instance mesh.InstanceID) {
	v.preDraw.Push(event.RemoveInstance{ID: instance})
}

// ClearAll enqueues removal of every mesh group.
func (v *Viewer) ClearAll() {
	v.preDraw.Push(event.ClearAll{})
}

// AddWireframe enqueues creation of a wireframe prefab over the geometry of
// an existing instance, placed with that instance's current model transform.
// Returns the ids of the new prefab and instance.
func (v *Viewer) AddWireframe(parent mesh.InstanceID, lineColor shader.Vec3) (mesh.PrefabID, mesh.InstanceID) {
	prefabID := mesh.NewPrefabID(parent.CoreID)
	instanceID := mesh.NewInstanceID(prefabID)
	v.preDraw.Push(event.AddWireframe{
		Parent:    parent,
		Prefab:    prefabID,
		Instance:  instanceID,
		LineColor: lineColor,
	})
	return prefabID, instanceID
}

// SaveScreenshot enqueues a frame capture on the post-draw queue, so it runs
// only after the current frame has been fully rendered.
func (v *Viewer) SaveScreenshot(path string) {
	v.postDraw.Push(event.SaveScreenshot{Path: path})
}

// DisplayMesh is the shorthand for a lambert-shaded triangle mesh with
// per-face normals: core + prefab + identity instance in one call.
func (v *Viewer) DisplayMesh(vertices []mgl32.Vec3, faces [][]uint32, faceNormals []float32) (mesh.InstanceID, error) {
	coreID, err := v.AddMesh(vertices, faces)
	if err != nil {
		return mesh.InstanceID{}, err
	}
	prefabID := v.AddMeshPrefab(coreID, "lambert", &PrefabOptions{
		FaceAttributes: mesh.NewAttributes().
			Set("normal", mesh.Attribute{Components: 3, Data: faceNormals}),
		Uniforms: mesh.NewUniforms().
			Set("albedo", shader.Vec3{0.8, 0.8, 0.8}),
	})
	return v.AddMeshInstance(prefabID, nil), nil
}

// DisplayPointCloud is the shorthand for a per-vertex-colored point cloud
// (arity-1 faces). colors may be nil for the default red tint.
func (v *Viewer) DisplayPointCloud(points []mgl32.Vec3, colors []float32) (mesh.InstanceID, error) {
	faces := make([][]uint32, len(points))
	for i := range points {
		faces[i] = []uint32{uint32(i)}
	}
	coreID, err := v.AddMesh(points, faces)
	if err != nil {
		return mesh.InstanceID{}, err
	}

	if colors == nil {
		colors = make([]float32, 0, len(points)*3)
		for range points {
			colors = append(colors, 0.8, 0.2, 0.2)
		}
	}
	prefabID := v.AddMeshPrefab(coreID, "per_vertex_color", &PrefabOptions{
		VertexAttributes: mesh.NewAttributes().
			Set("vertexColor", mesh.Attribute{Components: 3, Data: colors}),
	})
	return v.AddMeshInstance(prefabID, nil), nil
}

// DisplayQuadNet is the shorthand for a wireframe-shaded quad net.
func (v *Viewer) DisplayQuadNet(vertices []mgl32.Vec3, faces [][]uint32, lineColor shader.Vec3) (mesh.InstanceID, error) {
	coreID, err := v.AddMesh(vertices, faces)
	if err != nil {
		return mesh.InstanceID{}, err
	}
	prefabID := v.AddMeshPrefab(coreID, "wireframe", &PrefabOptions{
		Uniforms:  mesh.NewUniforms().Set("lineColor", lineColor),
		Wireframe: true,
	})
	return v.AddMeshInstance(prefabID, nil), nil
}

func validateGeometry(vertices []mgl32.Vec3, faces [][]uint32) error {
	if len(vertices) == 0 {
		return fmt.Errorf("mesh has no vertices")
	}
	if len(faces) == 0 {
		return fmt.Errorf("mesh has no faces")
	}
	k := len(faces[0])
	if k == 0 {
		return fmt.Errorf("face 0 is empty")
	}
	for i, f := range faces {
		if len(f) != k {
			return fmt.Errorf("face %d has %d vertices, want %d", i, len(f), k)
		}
		for _, vi := range f {
			if int(vi) >= len(vertices) {
				return fmt.Errorf("face %d references vertex %d of %d", i, vi, len(vertices))
			}
		}
	}
	return nil
}
