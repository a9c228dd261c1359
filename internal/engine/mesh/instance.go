package mesh

import "github.com/go-gl/mathgl/mgl32"

// Instance is a placed copy of a Prefab: a model transform and a visibility
// flag. The transform defaults to identity if never set before the first
// draw.
type Instance struct {
	id InstanceID

	model    mgl32.Mat4
	modelSet bool
	visible  bool
}

// NewInstance creates an instance with the given model matrix. Visible by
// default.
func NewInstance(id InstanceID, model mgl32.Mat4) *Instance {
	return &Instance{id: id, model: model, modelSet: true, visible: true}
}

// NewInstanceIdentity creates a visible instance whose transform resolves to
// identity until one is set.
func NewInstanceIdentity(id InstanceID) *Instance {
	return &Instance{id: id, visible: true}
}

// ID returns the instance id.
func (in *Instance) ID() InstanceID { return in.id }

// ModelMatrix returns the model transform, identity if none was set.
func (in *Instance) ModelMatrix() mgl32.Mat4 {
	if !in.modelSet {
		return mgl32.Ident4()
	}
	return in.model
}

// SetModelMatrix replaces the model transform.
func (in *Instance) SetModelMatrix(m mgl32.Mat4) {
	in.model = m
	in.modelSet = true
}

// Visible reports the visibility flag.
func (in *Instance) Visible() bool { return in.visible }

// SetVisible sets the visibility flag.
func (in *Instance) SetVisible(v bool) { in.visible = v }
