package mesh

// Group aggregates one Core with its Prefabs and their Instances. Entities
// live in arena-style tables: removal marks the slot dead instead of
// compacting, so iteration order stays the insertion order and slot indices
// never dangle.
type Group struct {
	id   CoreID
	core *Core

	prefabs     []prefabSlot
	prefabIdx   map[uint64]int
	instances   []instanceSlot
	instanceIdx map[uint64]int
}

type prefabSlot struct {
	prefab *Prefab
	live   bool
}

type instanceSlot struct {
	instance *Instance
	live     bool
}

// NewGroup wraps a core in an empty group.
func NewGroup(id CoreID, core *Core) *Group {
	return &Group{
		id:          id,
		core:        core,
		prefabIdx:   make(map[uint64]int),
		instanceIdx: make(map[uint64]int),
	}
}

// ID returns the owning core id.
func (g *Group) ID() CoreID { return g.id }

// Core returns the group's geometry.
func (g *Group) Core() *Core { return g.core }

// AddPrefab inserts a prefab. The prefab id must belong to this group's core.
func (g *Group) AddPrefab(p *Prefab) error {
	if p.ID().CoreID != g.id {
		return &InvalidReferenceError{Kind: "prefab", ID: p.ID().Prefab, Owner: g.id.Core}
	}
	g.prefabIdx[p.ID().Prefab] = len(g.prefabs)
	g.prefabs = append(g.prefabs, prefabSlot{prefab: p, live: true})
	return nil
}

// Prefab looks up a live prefab by id.
func (g *Group) Prefab(id PrefabID) (*Prefab, error) {
	if id.CoreID != g.id {
		return nil, &InvalidReferenceError{Kind: "prefab", ID: id.Prefab, Owner: g.id.Core}
	}
	i, ok := g.prefabIdx[id.Prefab]
	if !ok || !g.prefabs[i].live {
		return nil, &NotFoundError{Kind: "prefab", ID: id.Prefab}
	}
	return g.prefabs[i].prefab, nil
}

// RemovePrefab marks a prefab dead and cascades to its instances. The core
// and sibling prefabs survive.
func (g *Group) RemovePrefab(id PrefabID) error {
	if id.CoreID != g.id {
		return &InvalidReferenceError{Kind: "prefab", ID: id.Prefab, Owner: g.id.Core}
	}
	i, ok := g.prefabIdx[id.Prefab]
	if !ok || !g.prefabs[i].live {
		return &NotFoundError{Kind: "prefab", ID: id.Prefab}
	}
	g.prefabs[i].live = false
	for j := range g.instances {
		if g.instances[j].live && g.instances[j].instance.ID().PrefabID == id {
			g.instances[j].live = false
		}
	}
	return nil
}

// AddInstance inserts an instance. Its prefab must be live in this group.
func (g *Group) AddInstance(in *Instance) error {
	if _, err := g.Prefab(in.ID().PrefabID); err != nil {
		return err
	}
	g.instanceIdx[in.ID().Instance] = len(g.instances)
	g.instances = append(g.instances, instanceSlot{instance: in, live: true})
	return nil
}

// Instance looks up a live instance by id.
func (g *Group) Instance(id InstanceID) (*Instance, error) {
	if id.CoreID != g.id {
		return nil, &InvalidReferenceError{Kind: "instance", ID: id.Instance, Owner: g.id.Core}
	}
	i, ok := g.instanceIdx[id.Instance]
	if !ok || !g.instances[i].live {
		return nil, &NotFoundError{Kind: "instance", ID: id.Instance}
	}
	return g.instances[i].instance, nil
}

// RemoveInstance marks an instance dead.
func (g *Group) RemoveInstance(id InstanceID) error {
	if id.CoreID != g.id {
		return &InvalidReferenceError{Kind: "instance", ID: id.Instance, Owner: g.id.Core}
	}
	i, ok := g.instanceIdx[id.Instance]
	if !ok || !g.instances[i].live {
		return &NotFoundError{Kind: "instance", ID: id.Instance}
	}
	g.instances[i].live = false
	return nil
}

// Each yields (core, prefab, instance) for every live instance, prefabs in
// insertion order and instances in insertion order within each prefab. Draw
// order depends on this being stable.
func (g *Group) Each(fn func(core *Core, prefab *Prefab, instance *Instance)) {
	for _, ps := range g.prefabs {
		if !ps.live {
			continue
		}
		pid := ps.prefab.ID()
		for _, is := range g.instances {
			if !is.live || is.instance.ID().PrefabID != pid {
				continue
			}
			fn(g.core, ps.prefab, is.instance)
		}
	}
}
