package gpu

import (
	_ "embed"
	"fmt"
)

//go:embed shaders/raymarch.wgsl
var raymarchShaderSource string

// Entry point names the pipelines are built from.
const (
	EntryCompute  = "compute_main"
	EntryVertex   = "vs_main"
	EntryFragment = "fs_main"
)

// DefaultShaderSource returns the embedded ray marching shader, without the
// extent prelude.
func DefaultShaderSource() string {
	return raymarchShaderSource
}

// composeShader prepends the output extent as module-scope constants. The
// compute stage reads them for its bounds check and aspect ratio, which keeps
// the bind group free of a uniform buffer.
//
// The constants share the first line with the source, so line numbers in
// compiler errors match the caller's file. Only columns on line 1 move.
func composeShader(source string, width, height uint32) string {
	return fmt.Sprintf("const OUTPUT_WIDTH: u32 = %du; const OUTPUT_HEIGHT: u32 = %du; %s",
		width, height, source)
}
