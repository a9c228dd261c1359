// Package mesh implements the Core/Prefab/Instance entity hierarchy of the
// viewer: a Core owns raw geometry, a Prefab is one shading configuration of a
// Core, and an Instance is a placed copy of a Prefab with its own transform.
package mesh

import "sync/atomic"

// Ordinal counters are process-wide so ids are never reused after removal.
// Ids are minted synchronously on the calling thread, before the entity is
// materialized by the render thread, so callers can chain operations on
// not-yet-applied entities.
var (
	coreCounter     atomic.Uint64
	prefabCounter   atomic.Uint64
	instanceCounter atomic.Uint64
)

// CoreID identifies a mesh core.
type CoreID struct {
	Core uint64
}

// PrefabID identifies a shading configuration of a core.
type PrefabID struct {
	CoreID
	Prefab uint64
}

// InstanceID identifies a placed copy of a prefab.
type InstanceID struct {
	PrefabID
	Instance uint64
}

// NewCoreID mints the next core id. Safe to call from any thread.
func NewCoreID() CoreID {
	return CoreID{Core: coreCounter.Add(1)}
}

// NewPrefabID mints the next prefab id under the given core.
func NewPrefabID(parent CoreID) PrefabID {
	return PrefabID{CoreID: parent, Prefab: prefabCounter.Add(1)}
}

// NewInstanceID mints the next instance id under the given prefab.
func NewInstanceID(parent PrefabID) InstanceID {
	return InstanceID{PrefabID: parent, Instance: instanceCounter.Add(1)}
}
