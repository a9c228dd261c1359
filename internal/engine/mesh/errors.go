package mesh

import "fmt"

// NotFoundError reports a lookup of a core, prefab or instance id that does
// not exist (removed or never created).
type NotFoundError struct {
	Kind string // "mesh", "prefab" or "instance"
	ID   uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// InvalidReferenceError reports an id from one hierarchy used against a
// different hierarchy. This is a programming error on the caller's side.
type InvalidReferenceError struct {
	Kind  string
	ID    uint64
	Owner uint64
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("%s %d does not belong to mesh %d", e.Kind, e.ID, e.Owner)
}
