// Package shaders provides the embedded GLSL shader sources.
package shaders

import "embed"

// FS holds the built-in vertex and fragment shader pairs.
//
//go:embed *.vert *.frag
var FS embed.FS
