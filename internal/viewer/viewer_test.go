package viewer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/picking"
	"github.com/Faultbox/meshview/internal/engine/shader"
)

// The fakes below record calls into a shared log, so tests can assert on
// ordering across collaborators.

type callLog struct {
	entries []string
}

func (l *callLog) add(format string, args ...any) {
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
}

type fakeBackend struct {
	log *callLog

	meshUploads map[mesh.CoreID]int
	attrUploads map[string]int
	draws       []drawCall
	released    []mesh.CoreID
	releasedAll bool
}

type drawCall struct {
	core        mesh.CoreID
	prefab      mesh.PrefabID
	shader      string
	elementSize int
	count       int
}

func newFakeBackend(log *callLog) *fakeBackend {
	return &fakeBackend{
		log:         log,
		meshUploads: make(map[mesh.CoreID]int),
		attrUploads: make(map[string]int),
	}
}

func (b *fakeBackend) UploadMesh(id mesh.CoreID, positions []float32) {
	b.meshUploads[id]++
}

func (b *fakeBackend) UploadAttribute(id mesh.PrefabID, name string, components int, data []float32) {
	b.attrUploads[name]++
}

func (b *fakeBackend) Draw(core mesh.CoreID, prefab mesh.PrefabID, program *shader.Program, elementSize, elementCount int) {
	b.log.add("draw")
	b.draws = append(b.draws, drawCall{core, prefab, program.Name, elementSize, elementCount})
}

func (b *fakeBackend) SetFill(fill bool, lineWidth float32) {}
func (b *fakeBackend) SetPointSize(size float32)            {}

func (b *fakeBackend) ReleaseMesh(id mesh.CoreID) { b.released = append(b.released, id) }
func (b *fakeBackend) ReleasePrefab(id mesh.PrefabID) {}
func (b *fakeBackend) ReleaseAll()                { b.releasedAll = true }

type fakeBinder struct {
	uniforms map[string]shader.Value
}

func (fakeBinder) UseProgram(handle uint32) {}

func (b *fakeBinder) SetUniform(handle uint32, name string, value shader.Value) {
	if b.uniforms == nil {
		b.uniforms = make(map[string]shader.Value)
	}
	b.uniforms[name] = value
}

type fakeOverlay struct {
	frames    int
	lastSel   *picking.Selection
	lastCount int
}

func (o *fakeOverlay) Frame(sel *picking.Selection, labels []picking.Label) {
	o.frames++
	o.lastSel = sel
	o.lastCount = len(labels)
}

type fakeCapture struct {
	log   *callLog
	paths []string
}

func (c *fakeCapture) Capture(path string) error {
	c.log.add("capture")
	c.paths = append(c.paths, path)
	return nil
}

func testRegistry() *shader.Registry {
	r := shader.NewRegistry()
	r.Add(&shader.Program{Name: "default", Handle: 1})
	r.Add(&shader.Program{
		Name:       "lambert",
		Handle:     2,
		Attributes: []string{"normal"},
		Uniforms:   []string{"albedo"},
	})
	r.Add(&shader.Program{
		Name:       "per_vertex_color",
		Handle:     3,
		Attributes: []string{"vertexColor"},
	})
	r.Add(&shader.Program{
		Name:     "wireframe",
		Handle:   4,
		Uniforms: []string{"lineColor"},
	})
	return r
}

type harness struct {
	v       *Viewer
	backend *fakeBackend
	binder  *fakeBinder
	overlay *fakeOverlay
	capture *fakeCapture
	log     *callLog
}

func newHarness() *harness {
	log := &callLog{}
	h := &harness{
		backend: newFakeBackend(log),
		binder:  &fakeBinder{},
		overlay: &fakeOverlay{},
		capture: &fakeCapture{log: log},
		log:     log,
	}
	h.v = New(100, 100, testRegistry(), Collaborators{
		Binder:  h.binder,
		Backend: h.backend,
		Overlay: h.overlay,
		Capture: h.capture,
	})
	h.v.Debug = true
	return h
}

func triangleGeometry() ([]mgl32.Vec3, [][]uint32) {
	return []mgl32.Vec3{{-1, -1, 0}, {1, -1, 0}, {-1, 1, 0}}, [][]uint32{{0, 1, 2}}
}

func (h *harness) addTriangle(t *testing.T, shaderName string) (mesh.CoreID, mesh.PrefabID, mesh.InstanceID) {
	t.Helper()
	verts, faces := triangleGeometry()
	coreID, err := h.v.AddMesh(verts, faces)
	if err != nil {
		t.Fatalf("AddMesh: %v", err)
	}
	prefabID := h.v.AddMeshPrefab(coreID, shaderName, nil)
	instanceID := h.v.AddMeshInstance(prefabID, nil)
	return coreID, prefabID, instanceID
}

func TestIDsStrictlyIncreasing(t *testing.T) {
	h := newHarness()

	c1, p1, i1 := h.addTriangle(t, "default")
	c2, p2, i2 := h.addTriangle(t, "default")

	if c2.Core <= c1.Core {
		t.Error("core ids must increase")
	}
	if p2.Prefab <= p1.Prefab {
		t.Error("prefab ids must increase")
	}
	if i2.Instance <= i1.Instance {
		t.Error("instance ids must increase")
	}
	if p1.CoreID != c1 || i1.PrefabID != p1 {
		t.Error("child ids must carry their parent ids")
	}
}

func TestAddMeshValidatesSynchronously(t *testing.T) {
	h := newHarness()

	if _, err := h.v.AddMesh(nil, [][]uint32{{0}}); err == nil {
		t.Error("expected error for empty vertices")
	}
	if _, err := h.v.AddMesh([]mgl32.Vec3{{0, 0, 0}}, [][]uint32{{0, 1}}); err == nil {
		t.Error("expected error for out-of-range face index")
	}
	if _, err := h.v.AddMesh([]mgl32.Vec3{{0, 0, 0}}, [][]uint32{{0}, {0, 0}}); err == nil {
		t.Error("expected error for mixed face arity")
	}
}

func TestIDUsableBeforeDrain(t *testing.T) {
	h := newHarness()

	// Chain mutations on ids whose entities are not materialized yet.
	verts, faces := triangleGeometry()
	coreID, _ := h.v.AddMesh(verts, faces)
	prefabID := h.v.AddMeshPrefab(coreID, "wireframe", nil)
	h.v.UpdateMeshPrefabUniform(prefabID, "lineColor", shader.Vec3{1, 0, 0})
	instanceID := h.v.AddMeshInstance(prefabID, nil)
	h.v.SetMeshInstanceVisibility(instanceID, false)

	h.v.RenderFrame()

	prefab, err := h.v.GetMeshPrefab(prefabID)
	if err != nil {
		t.Fatalf("prefab not materialized: %v", err)
	}
	if _, ok := prefab.Uniforms().Get("lineColor"); !ok {
		t.Error("uniform update on a pending prefab was lost")
	}
	visible, err := h.v.GetMeshInstanceVisibility(instanceID)
	if err != nil {
		t.Fatalf("instance not materialized: %v", err)
	}
	if visible {
		t.Error("visibility update on a pending instance was lost")
	}
}

func TestUniformLastWriteWins(t *testing.T) {
	h := newHarness()
	_, prefabID, _ := h.addTriangle(t, "lambert")

	h.v.UpdateMeshPrefabUniform(prefabID, "albedo", shader.Float(1))
	h.v.UpdateMeshPrefabUniform(prefabID, "albedo", shader.Float(2))
	h.v.RenderFrame()

	prefab, err := h.v.GetMeshPrefab(prefabID)
	if err != nil {
		t.Fatalf("GetMeshPrefab: %v", err)
	}
	got, ok := prefab.Uniforms().Get("albedo")
	if !ok {
		t.Fatal("uniform missing")
	}
	if got.(shader.Float) != 2 {
		t.Errorf("albedo = %v, want 2", got)
	}
}

func TestUndeclaredUniformSkipped(t *testing.T) {
	h := newHarness()
	_, prefabID, _ := h.addTriangle(t, "lambert")

	h.v.UpdateMeshPrefabUniform(prefabID, "sparkle", shader.Float(1))
	h.v.RenderFrame()

	prefab, _ := h.v.GetMeshPrefab(prefabID)
	if _, ok := prefab.Uniforms().Get("sparkle"); ok {
		t.Error("uniform the shader does not declare must be skipped")
	}
}

func TestRemoveMeshCascades(t *testing.T) {
	h := newHarness()
	coreID, prefabID, instanceID := h.addTriangle(t, "default")
	h.v.RenderFrame()

	h.v.RemoveMesh(coreID)
	h.v.RenderFrame()

	var nf *mesh.NotFoundError
	if _, err := h.v.GetMesh(coreID); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError for core, got %v", err)
	}
	if _, err := h.v.GetMeshPrefab(prefabID); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError for prefab, got %v", err)
	}
	if _, err := h.v.GetMeshInstance(instanceID); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError for instance, got %v", err)
	}

	found := false
	for _, id := range h.backend.released {
		if id == coreID {
			found = true
		}
	}
	if !found {
		t.Error("backend buffers were not released")
	}
}

func TestRemovePrefabSparesCore(t *testing.T) {
	h := newHarness()
	coreID, prefabID, instanceID := h.addTriangle(t, "default")
	sibling := h.v.AddMeshPrefab(coreID, "default", nil)
	h.v.RenderFrame()

	h.v.RemoveMeshPrefab(prefabID)
	h.v.RenderFrame()

	if _, err := h.v.GetMesh(coreID); err != nil {
		t.Errorf("core must survive prefab removal: %v", err)
	}
	if _, err := h.v.GetMeshPrefab(sibling); err != nil {
		t.Errorf("sibling prefab must survive: %v", err)
	}
	var nf *mesh.NotFoundError
	if _, err := h.v.GetMeshPrefab(prefabID); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError for removed prefab, got %v", err)
	}
	if _, err := h.v.GetMeshInstance(instanceID); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError for cascaded instance, got %v", err)
	}
}

func TestShaderFallback(t *testing.T) {
	h := newHarness()
	verts, faces := triangleGeometry()
	coreID, _ := h.v.AddMesh(verts, faces)
	prefabID := h.v.AddMeshPrefab(coreID, "no-such-shader", nil)
	h.v.RenderFrame()

	prefab, err := h.v.GetMeshPrefab(prefabID)
	if err != nil {
		t.Fatalf("prefab should exist despite the unknown shader: %v", err)
	}
	if prefab.Program().Name != "default" {
		t.Errorf("prefab bound to %q, want the default fallback", prefab.Program().Name)
	}
}

func TestInvisibleInstanceNotDrawn(t *testing.T) {
	h := newHarness()
	_, _, instanceID := h.addTriangle(t, "default")
	h.v.SetMeshInstanceVisibility(instanceID, false)
	h.v.RenderFrame()

	if len(h.backend.draws) != 0 {
		t.Errorf("hidden instance drawn %d times", len(h.backend.draws))
	}

	h.v.SetMeshInstanceVisibility(instanceID, true)
	h.v.RenderFrame()
	if len(h.backend.draws) != 1 {
		t.Errorf("visible instance drawn %d times, want 1", len(h.backend.draws))
	}
}

func TestWireframeToggleSkipsWireframePrefabs(t *testing.T) {
	h := newHarness()
	coreID, _, _ := h.addTriangle(t, "default")
	wirePrefab := h.v.AddMeshPrefab(coreID, "wireframe", &PrefabOptions{Wireframe: true})
	h.v.AddMeshInstance(wirePrefab, nil)

	h.v.RenderFrame()
	if len(h.backend.draws) != 2 {
		t.Fatalf("drew %d instances, want 2", len(h.backend.draws))
	}

	h.backend.draws = nil
	h.v.ToggleWireframe()
	h.v.RenderFrame()
	if len(h.backend.draws) != 1 {
		t.Fatalf("drew %d instances with wireframe off, want 1", len(h.backend.draws))
	}
	if h.backend.draws[0].shader == "wireframe" {
		t.Error("wireframe prefab drawn while toggled off")
	}
}

func TestScreenshotRunsAfterDraw(t *testing.T) {
	h := newHarness()
	h.addTriangle(t, "default")
	h.v.SaveScreenshot("/tmp/out.png")
	h.v.RenderFrame()

	if len(h.capture.paths) != 1 || h.capture.paths[0] != "/tmp/out.png" {
		t.Fatalf("capture paths = %v", h.capture.paths)
	}

	sawDraw := false
	for _, entry := range h.log.entries {
		if entry == "draw" {
			sawDraw = true
		}
		if entry == "capture" && !sawDraw {
			t.Fatal("screenshot captured before the frame was drawn")
		}
	}
}

func TestAddWireframeExpandsInSameDrain(t *testing.T) {
	h := newHarness()
	verts, faces := triangleGeometry()
	coreID, _ := h.v.AddMesh(verts, faces)
	prefabID := h.v.AddMeshPrefab(coreID, "default", nil)
	model := mgl32.Translate3D(1, 2, 3)
	parentID := h.v.AddMeshInstance(prefabID, &model)

	wirePrefab, wireInstance := h.v.AddWireframe(parentID, shader.Vec3{0, 0, 0})
	h.v.RenderFrame()

	prefab, err := h.v.GetMeshPrefab(wirePrefab)
	if err != nil {
		t.Fatalf("wireframe prefab not materialized in the same drain: %v", err)
	}
	if prefab.Program().Name != "wireframe" {
		t.Errorf("wireframe prefab bound to %q", prefab.Program().Name)
	}
	if prefab.Fill() {
		t.Error("wireframe prefab must draw lines, not fill")
	}
	if _, ok := prefab.Uniforms().Get("lineColor"); !ok {
		t.Error("wireframe prefab missing lineColor uniform")
	}

	in, err := h.v.GetMeshInstance(wireInstance)
	if err != nil {
		t.Fatalf("wireframe instance not materialized: %v", err)
	}
	if !in.ModelMatrix().ApproxEqual(model) {
		t.Error("wireframe instance must inherit the parent's model transform")
	}
}

func TestUpdateVerticesReuploads(t *testing.T) {
	h := newHarness()
	coreID, _, _ := h.addTriangle(t, "default")
	h.v.RenderFrame()

	if h.backend.meshUploads[coreID] != 1 {
		t.Fatalf("uploads after add = %d, want 1", h.backend.meshUploads[coreID])
	}

	h.v.UpdateMeshVertices(coreID, []mgl32.Vec3{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}})
	h.v.RenderFrame()

	if h.backend.meshUploads[coreID] != 2 {
		t.Errorf("uploads after update = %d, want 2", h.backend.meshUploads[coreID])
	}
	group, _ := h.v.GetMesh(coreID)
	if group.Core().Vertices()[0].Z() != 1 {
		t.Error("vertices not updated in place")
	}
}

func TestClearAll(t *testing.T) {
	h := newHarness()
	coreID, _, _ := h.addTriangle(t, "default")
	h.addTriangle(t, "default")
	h.v.RenderFrame()

	h.v.ClearAll()
	h.v.RenderFrame()

	var nf *mesh.NotFoundError
	if _, err := h.v.GetMesh(coreID); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError after ClearAll, got %v", err)
	}
	if !h.backend.releasedAll {
		t.Error("backend not released")
	}
	if len(h.backend.draws) != 2 {
		t.Errorf("post-clear frame drew %d instances, want 0 new (2 total)", len(h.backend.draws))
	}
}

func TestDisplayShorthands(t *testing.T) {
	h := newHarness()

	verts, faces := triangleGeometry()
	if _, err := h.v.DisplayMesh(verts, faces, []float32{0, 0, 1}); err != nil {
		t.Fatalf("DisplayMesh: %v", err)
	}
	if _, err := h.v.DisplayPointCloud([]mgl32.Vec3{{0, 0, 0}, {1, 1, 1}}, nil); err != nil {
		t.Fatalf("DisplayPointCloud: %v", err)
	}
	quadVerts := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	if _, err := h.v.DisplayQuadNet(quadVerts, [][]uint32{{0, 1, 2, 3}}, shader.Vec3{0, 0, 0}); err != nil {
		t.Fatalf("DisplayQuadNet: %v", err)
	}

	h.v.RenderFrame()

	if len(h.backend.draws) != 3 {
		t.Fatalf("drew %d instances, want 3", len(h.backend.draws))
	}
	sizes := map[int]string{}
	for _, d := range h.backend.draws {
		sizes[d.elementSize] = d.shader
	}
	if sizes[3] != "lambert" {
		t.Errorf("triangle mesh drawn with %q, want lambert", sizes[3])
	}
	if sizes[1] != "per_vertex_color" {
		t.Errorf("point cloud drawn with %q, want per_vertex_color", sizes[1])
	}
	if sizes[4] != "wireframe" {
		t.Errorf("quad net drawn with %q, want wireframe", sizes[4])
	}

	// DisplayMesh feeds its normals to lambert and uploads them
	if h.backend.attrUploads["normal"] != 1 {
		t.Errorf("normal attribute uploaded %d times, want 1", h.backend.attrUploads["normal"])
	}
	if h.backend.attrUploads["vertexColor"] != 1 {
		t.Errorf("vertexColor attribute uploaded %d times, want 1", h.backend.attrUploads["vertexColor"])
	}
}

func TestOverlayReceivesSelection(t *testing.T) {
	h := newHarness()
	h.v.RenderFrame()
	if h.overlay.frames != 1 || h.overlay.lastSel != nil {
		t.Error("frame without a mesh should report an empty selection")
	}

	// Triangle covering pixels (0,100)-(100,100)-(0,0) under an identity-ish
	// projection is easier to reason about through the picking engine tests;
	// here it is enough that a cursor over the mesh yields a selection.
	h.addTriangle(t, "default")
	h.v.SetCursorPos(30, 60)
	h.v.RenderFrame()

	if h.overlay.frames != 2 {
		t.Fatalf("overlay frames = %d, want 2", h.overlay.frames)
	}
	if h.overlay.lastSel == nil {
		t.Error("expected a selection under the cursor")
	}
}

func TestGlobalUniformsBound(t *testing.T) {
	h := newHarness()
	h.addTriangle(t, "lambert")
	h.v.SetDirectionalLight(mgl32.Vec3{0, 0, 2}, mgl32.Vec3{1, 1, 1})
	h.v.RenderFrame()

	dir, ok := h.binder.uniforms["lightDirection"]
	if !ok {
		t.Fatal("lightDirection not bound")
	}
	if dir.(shader.Vec3) != (shader.Vec3{0, 0, 1}) {
		t.Errorf("light direction = %v, want normalized (0,0,1)", dir)
	}
	for _, name := range []string{"view", "projection", "mvp", "model", "cameraPosition"} {
		if _, ok := h.binder.uniforms[name]; !ok {
			t.Errorf("global uniform %q not bound", name)
		}
	}
}

func TestRemoveMeshClearsPickingTarget(t *testing.T) {
	h := newHarness()
	coreID, _, _ := h.addTriangle(t, "default")
	h.v.SetCursorPos(30, 60)
	h.v.RenderFrame()
	if h.overlay.lastSel == nil {
		t.Fatal("expected a selection before removal")
	}

	h.v.RemoveMesh(coreID)
	h.v.RenderFrame()
	if h.overlay.lastSel != nil {
		t.Error("selection must clear once the active mesh is removed")
	}
}
