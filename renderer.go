// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raymarch

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/raymarch/internal/gpu"
	"github.com/gogpu/wgpu/hal"
)

// Window is the platform window the renderer presents to.
type Window interface {
	// SurfaceHandles returns the native display and window handles a
	// surface is created from (X11 display and window, or HINSTANCE and
	// HWND on Windows).
	SurfaceHandles() (display, window uintptr, err error)

	// FramebufferSize returns the drawable size in pixels.
	FramebufferSize() (width, height int)
}

// SurfaceConfig is the current surface configuration.
type SurfaceConfig = gpu.SurfaceConfig

// Renderer computes, stages and displays one frame per Render call.
//
// Renderer is not safe for concurrent use. Render, Resize and Close must be
// called from the goroutine running the window's event loop.
type Renderer struct {
	r *gpu.Renderer
}

// New opens a device that can present to window and builds the resources and
// pipelines. Any failure is returned as one of the startup errors.
func New(window Window, opts ...Option) (*Renderer, error) {
	o := applyOptions(opts)

	display, handle, err := window.SurfaceHandles()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSurfaceCreation, err)
	}
	w, h := window.FramebufferSize()
	ctx, err := gpu.OpenWindow(display, handle, o.deviceConfig(w, h))
	if err != nil {
		return nil, err
	}
	return newRenderer(ctx, &o)
}

// NewHeadless renders into an offscreen texture the size of the output
// extent. Frames are read back with Snapshot.
func NewHeadless(opts ...Option) (*Renderer, error) {
	o := applyOptions(opts)
	ctx, err := gpu.OpenHeadless(o.deviceConfig(int(o.width), int(o.height)))
	if err != nil {
		return nil, err
	}
	return newRenderer(ctx, &o)
}

// NewShared renders offscreen on a device owned by provider, for example a
// gogpu application. The provider must also expose its HAL objects through
// HalDevice() any and HalQueue() any. The offscreen target uses the
// provider's surface format when it reports one.
//
// Close releases the renderer's resources but leaves the device alive.
func NewShared(provider gpucontext.DeviceProvider, opts ...Option) (*Renderer, error) {
	device, queue, err := halFromProvider(provider)
	if err != nil {
		return nil, err
	}
	o := applyOptions(opts)

	format := provider.SurfaceFormat()
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatRGBA8Unorm
	}
	if o.surfaceFormat == gputypes.TextureFormatUndefined {
		o.surfaceFormat = format
	}
	ctx, err := gpu.NewDeviceContext(device, queue, gpu.NewOffscreenSurface(format),
		o.deviceConfig(int(o.width), int(o.height)))
	if err != nil {
		return nil, err
	}
	return newRenderer(ctx, &o)
}

func halFromProvider(provider any) (hal.Device, hal.Queue, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, errors.New("raymarch: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, errors.New("raymarch: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, errors.New("raymarch: provider HalQueue is not hal.Queue")
	}
	return device, queue, nil
}

// newRenderer takes ownership of ctx and closes it on failure.
func newRenderer(ctx *gpu.DeviceContext, o *options) (*Renderer, error) {
	r, err := gpu.NewRenderer(ctx, o.rendererConfig())
	if err != nil {
		ctx.Close()
		return nil, err
	}
	w, h := r.Extent()
	Logger().Info("raymarch: renderer ready",
		"adapter", ctx.AdapterName(),
		"extent_width", w,
		"extent_height", h,
		"surface_format", ctx.SurfaceFormat())
	return &Renderer{r: r}, nil
}

// Render draws one frame: compute into the output texture, copy it to the
// display texture, draw the display texture onto the surface and present.
//
// While the window has a zero dimension Render does nothing and returns nil.
// ErrSurfaceLost means the window is gone; the caller should stop rendering.
func (r *Renderer) Render() error {
	return r.r.Render()
}

// Resize reconfigures the surface for a new window size. The output extent
// does not change. Negative sizes are treated as zero, which suspends
// rendering until the next non-zero resize.
func (r *Renderer) Resize(width, height int) error {
	return r.r.Resize(clampDim(width), clampDim(height))
}

// Close waits for the GPU and releases all resources. Close is idempotent.
func (r *Renderer) Close() {
	r.r.Close()
}

// Snapshot returns the contents of the display texture, which is the most
// recently rendered frame before it is scaled to the surface.
func (r *Renderer) Snapshot() (*image.RGBA, error) {
	return r.r.Snapshot()
}

// SurfaceSnapshot returns what the last frame drew onto the offscreen
// target of a headless or shared renderer: the display texture scaled to
// the surface size, as RGBA. Window renderers return ErrNoSurfaceTexture.
func (r *Renderer) SurfaceSnapshot() (*image.RGBA, error) {
	return r.r.SurfaceSnapshot()
}

// SurfaceConfig returns the current surface configuration.
func (r *Renderer) SurfaceConfig() SurfaceConfig {
	return r.r.SurfaceConfig()
}

// Extent returns the fixed output size.
func (r *Renderer) Extent() (width, height int) {
	w, h := r.r.Extent()
	return int(w), int(h)
}

// SurfaceFormat returns the surface's texture format, which is also the
// render pipeline's color target format.
func (r *Renderer) SurfaceFormat() gputypes.TextureFormat {
	return r.r.SurfaceFormat()
}

// AdapterName returns the name of the GPU in use. It is empty for shared
// devices.
func (r *Renderer) AdapterName() string {
	return r.r.Context().AdapterName()
}

// Frames returns how many frames have been attempted. Render calls made
// while the window is minimized are not counted.
func (r *Renderer) Frames() uint64 {
	return r.r.Frames()
}

// HalDevice returns the underlying hal.Device, so other gogpu components
// can share it.
func (r *Renderer) HalDevice() any {
	return r.r.Context().Device()
}

// HalQueue returns the underlying hal.Queue.
func (r *Renderer) HalQueue() any {
	return r.r.Context().Queue()
}
