// Package main is the entry point for the meshview viewer.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/assets/shaders"
	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/input"
	"github.com/Faultbox/meshview/internal/engine/picking"
	"github.com/Faultbox/meshview/internal/engine/render"
	"github.com/Faultbox/meshview/internal/engine/shader"
	"github.com/Faultbox/meshview/internal/engine/window"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/internal/viewer"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== meshview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	// First run: persist the effective defaults so there is a file to edit.
	if config.ConfigPath() == "" && config.FindConfigFile() == "" {
		if err := cfg.Save(); err != nil {
			logger.Warn("writing initial config failed", zap.Error(err))
		} else {
			logger.Info("initial config written", zap.String("dir", config.ConfigDir()))
		}
	}

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

func run(cfg *config.Config) error {
	win, err := window.New(window.Config{
		Title:       cfg.Window.Title,
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		VSync:       cfg.Window.VSync,
		MSAASamples: cfg.Window.MSAASamples,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	if err := render.Init(); err != nil {
		return err
	}

	registry, err := loadShaders(cfg)
	if err != nil {
		return err
	}

	// SDL may clamp the requested size; build the viewer on what it granted.
	width, height := win.GetSize()
	v := viewer.New(width, height, registry, viewer.Collaborators{
		Binder:  render.Binder{},
		Backend: render.NewBackend(),
		Overlay: newTitleOverlay(win, cfg.Window.Title),
		Capture: render.FrameCapture{},
	})
	v.Debug = config.Debug()
	v.SetLineWidth(cfg.Render.LineWidth)
	v.SetPointSize(cfg.Render.PointSize)
	v.SetDrawIndicesDistance(cfg.Picking.DrawDistance)
	if !cfg.Render.Wireframe {
		v.ToggleWireframe()
	}

	if err := loadDemoScene(v); err != nil {
		return err
	}

	fbWidth, fbHeight := win.DrawableSize()
	render.Viewport(fbWidth, fbHeight)

	return loop(cfg, win, v)
}

// loadShaders loads the embedded shader set, then overlays any user-provided
// shader directory so custom shaders can shadow built-in names.
func loadShaders(cfg *config.Config) (*shader.Registry, error) {
	registry := shader.NewRegistry()
	compiler := render.Compiler{}

	if err := registry.LoadDir(shaders.FS, ".", compiler,
		viewer.ReservedAttributes, viewer.ReservedUniforms); err != nil {
		return nil, fmt.Errorf("loading built-in shaders: %w", err)
	}

	if cfg.Render.ShaderDir != "" {
		if err := registry.LoadDir(os.DirFS(cfg.Render.ShaderDir), ".", compiler,
			viewer.ReservedAttributes, viewer.ReservedUniforms); err != nil {
			return nil, fmt.Errorf("loading shaders from %s: %w", cfg.Render.ShaderDir, err)
		}
	}

	logger.Info("shaders loaded", zap.Strings("names", registry.Names()))
	return registry, nil
}

func loop(cfg *config.Config, win *window.Window, v *viewer.Viewer) error {
	in := input.New()
	cam := v.Camera()
	bg := cfg.Render.Background

	var pressX, pressY int

	for {
		if in.Update() {
			return nil
		}

		for _, e := range in.Events() {
			switch e.Type {
			case input.EventWindowResize:
				cam.HandleResize(e.Width, e.Height)
				fbWidth, fbHeight := win.DrawableSize()
				render.Viewport(fbWidth, fbHeight)

			case input.EventMouseDown:
				if e.Button == sdl.BUTTON_LEFT || e.Button == sdl.BUTTON_MIDDLE {
					pressX, pressY = e.MouseX, e.MouseY
				}

			case input.EventMouseUp:
				if e.Button == sdl.BUTTON_LEFT || e.Button == sdl.BUTTON_MIDDLE {
					cam.FinalizeTransformation()
				}

			case input.EventMouseMove:
				v.SetCursorPos(float32(e.MouseX), float32(e.MouseY))
				delta := mgl32.Vec2{
					float32(e.MouseX - pressX),
					float32(e.MouseY - pressY),
				}
				if in.IsButtonHeld(sdl.BUTTON_LEFT) {
					cam.HandleRotation(delta)
				} else if in.IsButtonHeld(sdl.BUTTON_MIDDLE) {
					cam.HandleTranslation(delta)
				}

			case input.EventMouseWheel:
				cam.HandleZoom(-e.Scroll * 0.1)
			}
		}

		if in.IsKeyPressed(sdl.SCANCODE_ESCAPE) {
			return nil
		}
		if in.IsKeyPressed(sdl.SCANCODE_R) {
			cam.Reset()
		}
		if in.IsKeyPressed(sdl.SCANCODE_W) {
			v.ToggleWireframe()
		}
		if in.IsKeyPressed(sdl.SCANCODE_L) {
			v.LinkLightToCamera(true)
		}
		if in.IsKeyPressed(sdl.SCANCODE_F12) {
			path := fmt.Sprintf("screenshot_%s.png", time.Now().Format("2006-01-02_15-04-05"))
			v.SaveScreenshot(path)
		}

		render.Clear(bg[0], bg[1], bg[2])
		v.RenderFrame()
		win.SwapBuffers()
	}
}

// titleSetter is the slice of the window the overlay writes through.
type titleSetter interface {
	SetTitle(title string)
}

// titleOverlay surfaces the per-frame picking result in the window title:
// the hovered vertex and face, and how many index labels are in range.
type titleOverlay struct {
	win  titleSetter
	base string
	last string
}

func newTitleOverlay(win titleSetter, base string) *titleOverlay {
	return &titleOverlay{win: win, base: base}
}

func (o *titleOverlay) Frame(sel *picking.Selection, labels []picking.Label) {
	title := o.base
	if sel != nil {
		title = fmt.Sprintf("%s | vertex %d face %d", o.base, sel.Vertex, sel.Face)
	}
	if n := len(labels); n > 0 {
		title = fmt.Sprintf("%s | %d indices", title, n)
	}
	if title == o.last {
		return
	}
	o.win.SetTitle(title)
	o.last = title
}

// loadDemoScene shows a lambert-shaded cube with a wireframe overlay so a
// bare launch has something to orbit around.
func loadDemoScene(v *viewer.Viewer) error {
	vertices, faces := cubeGeometry()
	instance, err := v.DisplayMesh(vertices, faces, faceNormals(vertices, faces))
	if err != nil {
		return err
	}
	v.AddWireframe(instance, shader.Vec3{0, 0, 0})
	return nil
}

func cubeGeometry() ([]mgl32.Vec3, [][]uint32) {
	vertices := []mgl32.Vec3{
		{-0.5, -0.5, -0.5},
		{0.5, -0.5, -0.5},
		{0.5, 0.5, -0.5},
		{-0.5, 0.5, -0.5},
		{-0.5, -0.5, 0.5},
		{0.5, -0.5, 0.5},
		{0.5, 0.5, 0.5},
		{-0.5, 0.5, 0.5},
	}
	faces := [][]uint32{
		{0, 2, 1}, {0, 3, 2}, // back
		{4, 5, 6}, {4, 6, 7}, // front
		{0, 4, 7}, {0, 7, 3}, // left
		{1, 2, 6}, {1, 6, 5}, // right
		{3, 7, 6}, {3, 6, 2}, // top
		{0, 1, 5}, {0, 5, 4}, // bottom
	}
	return vertices, faces
}

func faceNormals(vertices []mgl32.Vec3, faces [][]uint32) []float32 {
	out := make([]float32, 0, len(faces)*3)
	for _, f := range faces {
		a, b, c := vertices[f[0]], vertices[f[1]], vertices[f[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Len() > 0 {
			n = n.Normalize()
		}
		out = append(out, n.X(), n.Y(), n.Z())
	}
	return out
}
