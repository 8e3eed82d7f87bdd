// Package raymarch renders a ray-marched scene on the GPU and shows it in a
// window.
//
// # Overview
//
// Every frame runs three GPU stages on one command encoder:
//
//   - a compute pass ray-marches a signed distance field scene into a
//     storage texture of fixed size (the output texture)
//   - a texture-to-texture copy moves the result into a second texture that
//     is only ever sampled (the display texture)
//   - a render pass draws a full-screen quad sampling the display texture
//     into the window's surface
//
// Both pipelines share one bind group layout and one bind group. Window
// resizes reconfigure the surface only; the textures keep their size for the
// lifetime of the renderer.
//
// # Quick Start
//
//	import "github.com/gogpu/raymarch"
//
//	r, err := raymarch.New(window)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	app := raymarch.NewApplication(r, window.RequestRedraw)
//	// feed window events into app.OnResize, app.OnRedrawRequest and
//	// app.OnCloseRequest until app.ShouldExit()
//
// window is anything implementing [Window]; internal/platform provides a
// GLFW implementation used by cmd/raymarch.
//
// # Headless
//
// [NewHeadless] renders into an offscreen texture instead of a window, and
// [NewShared] renders on a device owned by another gogpu component. Use
// [Renderer.Snapshot] to read frames back.
//
// # Capture
//
// A [FrameCapturer] passed with [WithCapturer] sees the start and end of
// every frame. Package capture has Prometheus, OpenTelemetry and BMP dump
// implementations.
//
// # Shaders
//
// The embedded WGSL shader can be replaced with [WithShaderSource]. A
// replacement must declare the entry points compute_main, vs_main and
// fs_main and these group 0 bindings:
//
//	@group(0) @binding(0) var output_tex: texture_storage_2d<rgba8unorm, write>;
//	@group(0) @binding(1) var display_tex: texture_2d<f32>;
//	@group(0) @binding(2) var display_sampler: sampler;
//
// The constants OUTPUT_WIDTH and OUTPUT_HEIGHT (u32) are inserted at the
// start of the source's first line before compilation, so reported line
// numbers still match the file. The shader is checked against this layout
// before any pipeline is created.
package raymarch

// Version information
const (
	// Version is the current version of the module
	Version = "0.1.0"
)
