package mesh

// Registry maps core ids to their groups. It is confined to the render
// thread: producers reach it only through the command queue, so it needs no
// locking of its own. Iteration follows core insertion order for
// deterministic draw order.
type Registry struct {
	order  []uint64
	groups map[uint64]*Group
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{groups: make(map[uint64]*Group)}
}

// Add registers a group for the given core id.
func (r *Registry) Add(id CoreID, core *Core) *Group {
	g := NewGroup(id, core)
	if _, ok := r.groups[id.Core]; !ok {
		r.order = append(r.order, id.Core)
	}
	r.groups[id.Core] = g
	return g
}

// Get returns the group owning the given core.
func (r *Registry) Get(id CoreID) (*Group, error) {
	g, ok := r.groups[id.Core]
	if !ok {
		return nil, &NotFoundError{Kind: "mesh", ID: id.Core}
	}
	return g, nil
}

// Remove drops a group, cascading removal of all its prefabs and instances.
func (r *Registry) Remove(id CoreID) error {
	if _, ok := r.groups[id.Core]; !ok {
		return &NotFoundError{Kind: "mesh", ID: id.Core}
	}
	delete(r.groups, id.Core)
	for i, c := range r.order {
		if c == id.Core {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Clear drops every group.
func (r *Registry) Clear() {
	r.order = nil
	r.groups = make(map[uint64]*Group)
}

// Len returns the number of live groups.
func (r *Registry) Len() int { return len(r.groups) }

// Each calls fn for every group in insertion order.
func (r *Registry) Each(fn func(*Group)) {
	for _, c := range r.order {
		fn(r.groups[c])
	}
}
