package viewer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/shader"
)

// RenderFrame runs one frame on the render thread: drain the pre-draw queue,
// draw every visible instance in registry order, run picking against the
// active mesh, hand the results to the overlay, then drain the post-draw
// queue once the frame is complete.
func (v *Viewer) RenderFrame() {
	v.DrainPreDraw()

	view := v.cam.ViewMatrix()
	proj := v.cam.ProjectionMatrix()
	viewProj := proj.Mul4(view)

	v.globals.Set("view", mat4Value(view))
	v.globals.Set("projection", mat4Value(proj))
	v.globals.Set("cameraPosition", vec3Value(v.cam.Position()))

	if v.collab.Backend != nil {
		v.collab.Backend.SetPointSize(v.pointSize)
	}

	// Model matrix of the last instance drawn for the active mesh; picking
	// projects through it so selection lines up with what is on screen.
	activeModel := mgl32.Ident4()

	v.registry.Each(func(g *mesh.Group) {
		coreID := g.ID()
		g.Each(func(core *mesh.Core, prefab *mesh.Prefab, instance *mesh.Instance) {
			if !instance.Visible() {
				return
			}
			program := prefab.Program()
			if program.Name == "wireframe" && !v.drawWireframe {
				return
			}

			model := instance.ModelMatrix()
			if v.hasActive && coreID == v.activeCore {
				activeModel = model
			}

			v.drawInstance(coreID, core, prefab, instance, model, viewProj)
		})
	})

	v.runPicking(viewProj.Mul4(activeModel))

	v.DrainPostDraw()
}

func (v *Viewer) drawInstance(coreID mesh.CoreID, core *mesh.Core, prefab *mesh.Prefab, instance *mesh.Instance, model, viewProj mgl32.Mat4) {
	program := prefab.Program()

	if v.collab.Backend != nil {
		v.collab.Backend.SetFill(prefab.Fill(), v.lineWidth)
	}

	if v.collab.Binder != nil {
		b := v.collab.Binder
		b.UseProgram(program.Handle)

		// Global uniforms bind on every program; locations the shader does
		// not declare are silently absent.
		v.globals.Each(func(name string, value shader.Value) {
			b.SetUniform(program.Handle, name, value)
		})

		b.SetUniform(program.Handle, "model", mat4Value(model))
		b.SetUniform(program.Handle, "mvp", mat4Value(viewProj.Mul4(model)))

		prefab.Uniforms().Each(func(name string, value shader.Value) {
			b.SetUniform(program.Handle, name, value)
		})
	}

	if v.collab.Backend != nil {
		v.collab.Backend.Draw(coreID, prefab.ID(), program, core.ElementSize(), core.ElementCount())
	}
}

func (v *Viewer) runPicking(mvp mgl32.Mat4) {
	if !v.pick.HasMesh() {
		if v.collab.Overlay != nil {
			v.collab.Overlay.Frame(nil, nil)
		}
		return
	}

	w, h := v.cam.ViewportSize()
	sel, labels := v.pick.Run(v.cursor, mvp, v.cam.Position(), w, h)

	if v.collab.Overlay != nil {
		v.collab.Overlay.Frame(sel, labels)
	}
}
