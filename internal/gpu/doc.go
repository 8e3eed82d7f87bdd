// Package gpu implements the GPU side of the ray marcher on top of the
// gogpu/wgpu HAL.
//
// One frame is a single command stream:
//
//	acquire -> compute pass (output) -> copy output->display -> render pass (quad) -> submit -> present
//
// Key components:
//
//   - DeviceContext: instance, adapter, device, queue, surface and the one
//     surface format every color target is derived from
//   - Resources: the fixed-extent texture pair, sampler, bind group and quad
//     buffers
//   - Pipelines: one shader module and one pipeline layout shared by the
//     compute and render pipelines
//   - Renderer: the per-frame sequence, resize handling and readback
//
// Bindings are addressed by name through the binding table in bindings.go.
// The WGSL source is reflected with naga before any pipeline is built, so a
// shader whose declarations drift from the table fails at startup instead
// of at draw time.
//
// Surfaces are abstracted behind the Surface interface. Window surfaces wrap
// a hal.Surface. OffscreenSurface renders into a plain texture and backs
// headless rendering and tests.
package gpu
