package mesh

import "github.com/Faultbox/meshview/internal/engine/shader"

// Dict is an insertion-ordered string-keyed map. Uniform and attribute sets
// bind in a stable order, so plain Go maps are not enough here.
//
// A nil *Dict reads as empty; Clone on nil returns a fresh empty dict so
// callers never share a default instance.
type Dict[V any] struct {
	keys []string
	vals map[string]V
}

// Uniforms maps uniform names to typed values.
type Uniforms = Dict[shader.Value]

// Attributes maps attribute names to per-vertex or per-face arrays.
type Attributes = Dict[Attribute]

// NewUniforms returns an empty uniform dict.
func NewUniforms() *Uniforms { return &Uniforms{} }

// NewAttributes returns an empty attribute dict.
func NewAttributes() *Attributes { return &Attributes{} }

// Set inserts or replaces a value, preserving first-insertion order. Returns
// the dict for chaining.
func (d *Dict[V]) Set(name string, value V) *Dict[V] {
	if d.vals == nil {
		d.vals = make(map[string]V)
	}
	if _, ok := d.vals[name]; !ok {
		d.keys = append(d.keys, name)
	}
	d.vals[name] = value
	return d
}

// Get returns the value for name.
func (d *Dict[V]) Get(name string) (V, bool) {
	if d == nil || d.vals == nil {
		var zero V
		return zero, false
	}
	v, ok := d.vals[name]
	return v, ok
}

// Delete removes name if present.
func (d *Dict[V]) Delete(name string) {
	if d == nil || d.vals == nil {
		return
	}
	if _, ok := d.vals[name]; !ok {
		return
	}
	delete(d.vals, name)
	for i, k := range d.keys {
		if k == name {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (d *Dict[V]) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns the names in insertion order.
func (d *Dict[V]) Keys() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Each calls fn for every entry in insertion order.
func (d *Dict[V]) Each(fn func(name string, value V)) {
	if d == nil {
		return
	}
	for _, k := range d.keys {
		fn(k, d.vals[k])
	}
}

// Clone returns an independent copy. Values are copied shallowly.
func (d *Dict[V]) Clone() *Dict[V] {
	out := &Dict[V]{}
	if d == nil {
		return out
	}
	d.Each(func(name string, value V) {
		out.Set(name, value)
	})
	return out
}
