// Package shader maintains the registry of compiled shader programs and the
// attribute/uniform names each program declares.
package shader

import (
	"regexp"
	"strings"
)

// Program describes one compiled shader program. Immutable after load.
type Program struct {
	Name   string
	Handle uint32

	// Declared names scanned from the GLSL sources, reserved names excluded.
	Attributes []string
	Uniforms   []string
}

// HasAttribute reports whether the program declares the named vertex
// attribute.
func (p *Program) HasAttribute(name string) bool {
	for _, a := range p.Attributes {
		if a == name {
			return true
		}
	}
	return false
}

// HasUniform reports whether the program declares the named uniform.
func (p *Program) HasUniform(name string) bool {
	for _, u := range p.Uniforms {
		if u == name {
			return true
		}
	}
	return false
}

var (
	attributeRe = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?in\s+\w+\s+(\w+)\s*;`)
	uniformRe   = regexp.MustCompile(`(?m)^\s*uniform\s+\w+\s+(\w+)\s*(?:\[\w*\])?\s*;`)
)

// ScanAttributes extracts declared vertex input names from GLSL vertex shader
// source, skipping excluded (reserved) names.
func ScanAttributes(vertexSrc string, excluded []string) []string {
	return scanDecls(attributeRe, vertexSrc, excluded)
}

// ScanUniforms extracts declared uniform names from GLSL source, skipping
// excluded (reserved) names. Call once per shader stage and merge.
func ScanUniforms(src string, excluded []string) []string {
	return scanDecls(uniformRe, src, excluded)
}

func scanDecls(re *regexp.Regexp, src string, excluded []string) []string {
	var names []string
	seen := map[string]bool{}
	for _, m := range re.FindAllStringSubmatch(src, -1) {
		name := strings.TrimSpace(m[1])
		if seen[name] || contains(excluded, name) {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
