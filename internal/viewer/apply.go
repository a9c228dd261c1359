package viewer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/event"
	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/logger"
)

// DrainPreDraw pops and applies pending mutation commands until the queue is
// empty. Commands apply in strict enqueue order; commands pushed during the
// drain (e.g. by AddWireframe expansion) are applied in the same drain.
// A no-op on an empty queue.
func (v *Viewer) DrainPreDraw() {
	for {
		cmd, ok := v.preDraw.TryPop()
		if !ok {
			return
		}
		v.apply(cmd)
	}
}

// DrainPostDraw pops and applies pending post-draw commands. Called only
// after the frame buffer is complete.
func (v *Viewer) DrainPostDraw() {
	for {
		cmd, ok := v.postDraw.TryPop()
		if !ok {
			return
		}
		v.apply(cmd)
	}
}

// apply dispatches one command. Errors discovered here cannot be surfaced to
// the producer anymore: they are logged and the command is skipped, never
// fatal to the frame.
func (v *Viewer) apply(cmd event.Command) {
	var err error
	switch c := cmd.(type) {
	case event.AddMesh:
		err = v.applyAddMesh(c)
	case event.AddPrefab:
		err = v.applyAddPrefab(c)
	case event.AddInstance:
		err = v.applyAddInstance(c)
	case event.UpdateVertices:
		err = v.applyUpdateVertices(c)
	case event.UpdateUniform:
		err = v.applyUpdateUniform(c)
	case event.UpdateVertexAttribute:
		err = v.applyUpdateVertexAttribute(c)
	case event.UpdateFaceAttribute:
		err = v.applyUpdateFaceAttribute(c)
	case event.UpdateInstanceModel:
		err = v.applyUpdateInstanceModel(c)
	case event.SetInstanceVisibility:
		err = v.applySetInstanceVisibility(c)
	case event.RemoveMesh:
		err = v.applyRemoveMesh(c)
	case event.RemovePrefab:
		err = v.applyRemovePrefab(c)
	case event.RemoveInstance:
		err = v.applyRemoveInstance(c)
	case event.ClearAll:
		v.applyClearAll()
	case event.AddWireframe:
		err = v.applyAddWireframe(c)
	case event.SaveScreenshot:
		err = v.applySaveScreenshot(c)
	default:
		if v.Debug {
			panic(fmt.Sprintf("unknown command type %T", cmd))
		}
		logger.Error("unknown command type", zap.String("type", fmt.Sprintf("%T", cmd)))
	}

	if err != nil {
		logger.Error("applying command failed",
			zap.String("command", fmt.Sprintf("%T", cmd)),
			zap.Error(err),
		)
	}
}

func (v *Viewer) applyAddMesh(c event.AddMesh) error {
	core, err := mesh.NewCore(c.Vertices, c.Faces)
	if err != nil {
		return err
	}
	v.registry.Add(c.ID, core)

	if v.collab.Backend != nil {
		v.collab.Backend.UploadMesh(c.ID, core.FlatPositions())
	}

	// The most recently added mesh becomes the picking target.
	v.activeCore = c.ID
	v.hasActive = true
	v.pick.SetActiveMesh(core.Vertices(), core.Faces(), core.FaceCentroids(), core.FaceNormals())
	return nil
}

func (v *Viewer) applyAddPrefab(c event.AddPrefab) error {
	group, err := v.registry.Get(c.ID.CoreID)
	if err != nil {
		return err
	}

	program, err := v.shaders.Resolve(c.Shader)
	if err != nil {
		return err
	}

	var copyFrom *mesh.Prefab
	if c.CopyFrom != nil {
		copyFrom, err = v.GetMeshPrefab(*c.CopyFrom)
		if err != nil {
			return fmt.Errorf("copy_from prefab: %w", err)
		}
	}

	prefab := mesh.NewPrefab(c.ID, program, c.VertexAttrs, c.FaceAttrs, c.Uniforms, c.Fill, copyFrom)
	if err := group.AddPrefab(prefab); err != nil {
		return err
	}

	core := group.Core()
	prefab.VertexAttributes().Each(func(name string, a mesh.Attribute) {
		v.uploadVertexAttribute(core, prefab, name, a)
	})
	prefab.FaceAttributes().Each(func(name string, a mesh.Attribute) {
		v.uploadFaceAttribute(core, prefab, name, a)
	})

	return nil
}

func (v *Viewer) applyAddInstance(c event.AddInstance) error {
	group, err := v.registry.Get(c.ID.CoreID)
	if err != nil {
		return err
	}
	var in *mesh.Instance
	if c.HasModel {
		in = mesh.NewInstance(c.ID, c.Model)
	} else {
		in = mesh.NewInstanceIdentity(c.ID)
	}
	return group.AddInstance(in)
}

func (v *Viewer) applyUpdateVertices(c event.UpdateVertices) error {
	group, err := v.registry.Get(c.ID)
	if err != nil {
		return err
	}
	core := group.Core()
	if err := core.UpdateVertices(c.Vertices); err != nil {
		return err
	}

	if v.collab.Backend != nil {
		v.collab.Backend.UploadMesh(c.ID, core.FlatPositions())
	}
	if v.hasActive && v.activeCore == c.ID {
		v.pick.UpdateVertices(core.Vertices(), core.FaceCentroids(), core.FaceNormals())
	}
	return nil
}

func (v *Viewer) applyUpdateUniform(c event.UpdateUniform) error {
	prefab, err := v.GetMeshPrefab(c.ID)
	if err != nil {
		return err
	}
	if !prefab.Program().HasUniform(c.Name) {
		// Not recognized by the bound shader: skip this sub-operation only.
		logger.Warn("uniform not declared by shader",
			zap.String("uniform", c.Name),
			zap.String("shader", prefab.Program().Name),
		)
		return nil
	}
	prefab.SetUniform(c.Name, c.Value)
	return nil
}

func (v *Viewer) applyUpdateVertexAttribute(c event.UpdateVertexAttribute) error {
	group, err := v.registry.Get(c.ID.CoreID)
	if err != nil {
		return err
	}
	prefab, err := group.Prefab(c.ID)
	if err != nil {
		return err
	}
	prefab.SetVertexAttribute(c.Name, c.Attr)
	v.uploadVertexAttribute(group.Core(), prefab, c.Name, c.Attr)
	return nil
}

func (v *Viewer) applyUpdateFaceAttribute(c event.UpdateFaceAttribute) error {
	group, err := v.registry.Get(c.ID.CoreID)
	if err != nil {
		return err
	}
	prefab, err := group.Prefab(c.ID)
	if err != nil {
		return err
	}
	prefab.SetFaceAttribute(c.Name, c.Attr)
	v.uploadFaceAttribute(group.Core(), prefab, c.Name, c.Attr)
	return nil
}

func (v *Viewer) applyUpdateInstanceModel(c event.UpdateInstanceModel) error {
	in, err := v.GetMeshInstance(c.ID)
	if err != nil {
		return err
	}
	in.SetModelMatrix(c.Model)
	return nil
}

func (v *Viewer) applySetInstanceVisibility(c event.SetInstanceVisibility) error {
	in, err := v.GetMeshInstance(c.ID)
	if err != nil {
		return err
	}
	in.SetVisible(c.Visible)
	return nil
}

func (v *Viewer) applyRemoveMesh(c event.RemoveMesh) error {
	if err := v.registry.Remove(c.ID); err != nil {
		return err
	}
	if v.collab.Backend != nil {
		v.collab.Backend.ReleaseMesh(c.ID)
	}
	if v.hasActive && v.activeCore == c.ID {
		v.hasActive = false
		v.pick.SetActiveMesh(nil, nil, nil, nil)
	}
	return nil
}

func (v *Viewer) applyRemovePrefab(c event.RemovePrefab) error {
	group, err := v.registry.Get(c.ID.CoreID)
	if err != nil {
		return err
	}
	if err := group.RemovePrefab(c.ID); err != nil {
		return err
	}
	if v.collab.Backend != nil {
		v.collab.Backend.ReleasePrefab(c.ID)
	}
	return nil
}

func (v *Viewer) applyRemoveInstance(c event.RemoveInstance) error {
	group, err := v.registry.Get(c.ID.CoreID)
	if err != nil {
		return err
	}
	return group.RemoveInstance(c.ID)
}

func (v *Viewer) applyClearAll() {
	v.registry.Clear()
	v.hasActive = false
	v.pick.SetActiveMesh(nil, nil, nil, nil)
	if v.collab.Backend != nil {
		v.collab.Backend.ReleaseAll()
	}
}

// applyAddWireframe expands into an AddPrefab plus AddInstance on the same
// queue, so they apply later in this same drain, after any commands already
// ahead of them.
func (v *Viewer) applyAddWireframe(c event.AddWireframe) error {
	parent, err := v.GetMeshInstance(c.Parent)
	if err != nil {
		return err
	}
	model := parent.ModelMatrix()

	v.preDraw.Push(event.AddPrefab{
		ID:       c.Prefab,
		Shader:   "wireframe",
		Uniforms: mesh.NewUniforms().Set("lineColor", c.LineColor),
		Fill:     false,
	})
	v.preDraw.Push(event.AddInstance{ID: c.Instance, Model: model, HasModel: true})
	return nil
}

func (v *Viewer) applySaveScreenshot(c event.SaveScreenshot) error {
	if v.collab.Capture == nil {
		return fmt.Errorf("no frame capture collaborator configured")
	}
	if err := v.collab.Capture.Capture(c.Path); err != nil {
		return fmt.Errorf("capturing frame to %s: %w", c.Path, err)
	}
	logger.Info("screenshot saved", zap.String("path", c.Path))
	return nil
}

// uploadVertexAttribute flattens a per-vertex attribute to per-corner layout
// and hands it to the draw backend, provided the prefab's shader declares it
// and the element count matches the core.
func (v *Viewer) uploadVertexAttribute(core *mesh.Core, prefab *mesh.Prefab, name string, a mesh.Attribute) {
	if !prefab.Program().HasAttribute(name) {
		logger.Debug("vertex attribute not declared by shader",
			zap.String("attribute", name),
			zap.String("shader", prefab.Program().Name),
		)
		return
	}
	if a.Elements() != len(core.Vertices()) {
		logger.Warn("vertex attribute element count mismatch",
			zap.String("attribute", name),
			zap.Int("elements", a.Elements()),
			zap.Int("vertices", len(core.Vertices())),
		)
		return
	}
	if v.collab.Backend != nil {
		v.collab.Backend.UploadAttribute(prefab.ID(), name, a.Components, core.FlattenVertexAttribute(a))
	}
}

// uploadFaceAttribute does the same for per-face attributes, and feeds the
// "normal" attribute of the active mesh into the picking engine's back-face
// culling.
func (v *Viewer) uploadFaceAttribute(core *mesh.Core, prefab *mesh.Prefab, name string, a mesh.Attribute) {
	if a.Elements() != core.ElementCount() {
		logger.Warn("face attribute element count mismatch",
			zap.String("attribute", name),
			zap.Int("elements", a.Elements()),
			zap.Int("faces", core.ElementCount()),
		)
		return
	}

	if name == "normal" && a.Components == 3 &&
		v.hasActive && prefab.ID().CoreID == v.activeCore {
		normals := make([]mgl32.Vec3, a.Elements())
		for i := range normals {
			el := a.Element(i)
			normals[i] = mgl32.Vec3{el[0], el[1], el[2]}
		}
		v.pick.SetFaceNormals(normals)
	}

	if !prefab.Program().HasAttribute(name) {
		logger.Debug("face attribute not declared by shader",
			zap.String("attribute", name),
			zap.String("shader", prefab.Program().Name),
		)
		return
	}
	if v.collab.Backend != nil {
		v.collab.Backend.UploadAttribute(prefab.ID(), name, a.Components, core.FlattenFaceAttribute(a))
	}
}
