// Package shaders embeds the GLSL sources of the lens warp program.
package shaders

import "embed"

//go:embed *.glsl
var FS embed.FS
