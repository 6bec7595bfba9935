// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// RibbonVertexShader is the vertex shader for the lit bandage ribbon.
//
//go:embed ribbon.vert
var RibbonVertexShader string

// RibbonFragmentShader is the fragment shader for the lit bandage ribbon.
//
//go:embed ribbon.frag
var RibbonFragmentShader string

// LineVertexShader is the vertex shader for overlay lines.
//
//go:embed line.vert
var LineVertexShader string

// LineFragmentShader is the fragment shader for overlay lines.
//
//go:embed line.frag
var LineFragmentShader string
