package shader

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/logger"
)

// FallbackName is the reserved shader every installation is expected to ship.
// Prefab creation retries against it when the requested shader is missing.
const FallbackName = "default"

// ShaderNotFoundError reports that a requested shader is absent and the
// fallback "default" shader is absent as well.
type ShaderNotFoundError struct {
	Name string
}

func (e *ShaderNotFoundError) Error() string {
	return fmt.Sprintf("shader %q not found and no %q fallback is loaded", e.Name, FallbackName)
}

// Compiler compiles GLSL sources into a linked program. The OpenGL
// implementation lives in the render package; tests use fakes.
type Compiler interface {
	Compile(name, vertexSrc, fragmentSrc string) (uint32, error)
}

// Registry holds the shader programs available to prefabs, keyed by name in
// load order. Immutable after LoadDir.
type Registry struct {
	order    []string
	programs map[string]*Program
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{programs: make(map[string]*Program)}
}

// Add registers an already-built program. Used by LoadDir and by tests.
func (r *Registry) Add(p *Program) {
	if _, ok := r.programs[p.Name]; !ok {
		r.order = append(r.order, p.Name)
	}
	r.programs[p.Name] = p
}

// Get returns the named program, or nil if absent.
func (r *Registry) Get(name string) *Program {
	return r.programs[name]
}

// Names returns the registered shader names in load order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve returns the named program, falling back to the reserved "default"
// program when the name is unknown. The fallback is diagnostic, not an error;
// only a missing fallback fails.
func (r *Registry) Resolve(name string) (*Program, error) {
	if p := r.programs[name]; p != nil {
		return p, nil
	}
	if p := r.programs[FallbackName]; p != nil {
		logger.Warn("shader not found, using fallback",
			zap.String("shader", name),
			zap.String("fallback", FallbackName),
		)
		return p, nil
	}
	return nil, &ShaderNotFoundError{Name: name}
}

// LoadDir scans dir inside fsys for "<name>.vert" files, pairs each with its
// "<name>.frag", compiles the pair and registers the program. Names in
// excludedAttributes and excludedUniforms (the reserved transform/camera/
// lighting names) are left out of the declared-name sets. A shader that fails
// to read or compile is logged and skipped; the scan continues.
func (r *Registry) LoadDir(fsys fs.FS, dir string, compiler Compiler, excludedAttributes, excludedUniforms []string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("reading shader dir %s: %w", dir, err)
	}

	// Deterministic load order regardless of directory listing order.
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".vert") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".vert"))
	}
	sort.Strings(names)

	for _, name := range names {
		vertPath := path.Join(dir, name+".vert")
		fragPath := path.Join(dir, name+".frag")

		vertSrc, err := fs.ReadFile(fsys, vertPath)
		if err != nil {
			logger.Error("reading vertex shader", zap.String("path", vertPath), zap.Error(err))
			continue
		}
		fragSrc, err := fs.ReadFile(fsys, fragPath)
		if err != nil {
			logger.Error("reading fragment shader", zap.String("path", fragPath), zap.Error(err))
			continue
		}

		handle, err := compiler.Compile(name, string(vertSrc), string(fragSrc))
		if err != nil {
			logger.Error("compiling shader", zap.String("shader", name), zap.Error(err))
			continue
		}

		uniforms := ScanUniforms(string(vertSrc), excludedUniforms)
		for _, u := range ScanUniforms(string(fragSrc), excludedUniforms) {
			if !contains(uniforms, u) {
				uniforms = append(uniforms, u)
			}
		}

		r.Add(&Program{
			Name:       name,
			Handle:     handle,
			Attributes: ScanAttributes(string(vertSrc), excludedAttributes),
			Uniforms:   uniforms,
		})
		logger.Debug("shader loaded", zap.String("shader", name))
	}

	return nil
}
