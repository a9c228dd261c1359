// Package render implements the viewer's OpenGL collaborators: shader
// compilation, typed uniform upload, vertex buffer management and draw calls,
// and frame capture. Everything here must run on the render thread that owns
// the GL context.
package render

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/logger"
)

// Init initializes OpenGL function pointers and default state.
// Must be called after the GL context is current.
func Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearDepth(1.0)
	gl.Enable(gl.MULTISAMPLE)

	return nil
}

// Clear clears the frame buffer to the given background color.
func Clear(r, g, b float32) {
	gl.ClearColor(r, g, b, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Viewport updates the GL viewport after a window resize.
func Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}
