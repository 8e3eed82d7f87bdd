// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raymarch

import (
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/raymarch/internal/gpu"
)

// Defaults of the application shell.
const (
	// DefaultWidth and DefaultHeight are the initial window size and the
	// default output extent.
	DefaultWidth  = 1280
	DefaultHeight = 720

	// DefaultFrameTimeout bounds the wait for one frame's GPU work.
	DefaultFrameTimeout = gpu.DefaultFrameTimeout
)

// Option configures a Renderer during creation.
//
// Example:
//
//	r, err := raymarch.New(window,
//	    raymarch.WithExtent(1920, 1080),
//	    raymarch.WithCapturer(metrics),
//	)
type Option func(*options)

// options holds optional configuration for Renderer creation.
type options struct {
	width, height uint32
	shaderSource  string
	capturers     []FrameCapturer
	backend       gputypes.Backend
	frameTimeout  time.Duration
	surfaceFormat gputypes.TextureFormat
}

// defaultOptions returns the default renderer options.
func defaultOptions() options {
	return options{
		width:        DefaultWidth,
		height:       DefaultHeight,
		backend:      gputypes.BackendVulkan,
		frameTimeout: DefaultFrameTimeout,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithExtent sets the fixed size of the compute output. It is independent of
// the window size and never changes after creation. Zero values make New
// fail with ErrInvalidExtent.
func WithExtent(width, height int) Option {
	return func(o *options) {
		o.width = clampDim(width)
		o.height = clampDim(height)
	}
}

// WithShaderSource replaces the embedded WGSL shader. See the package
// documentation for the interface the source must provide.
func WithShaderSource(src string) Option {
	return func(o *options) {
		o.shaderSource = src
	}
}

// WithCapturer adds a capturer that brackets every frame. Several capturers
// run in the order they were added; their EndCapture calls run in reverse.
func WithCapturer(c FrameCapturer) Option {
	return func(o *options) {
		if c != nil {
			o.capturers = append(o.capturers, c)
		}
	}
}

// WithBackend selects the HAL backend. The default is Vulkan.
func WithBackend(b gputypes.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithFrameTimeout bounds the wait for each frame's submission. Render
// returns ErrFrameTimeout when it expires.
func WithFrameTimeout(d time.Duration) Option {
	return func(o *options) {
		o.frameTimeout = d
	}
}

// WithSurfaceFormat requests a surface format instead of the surface's
// first preference. Creation fails with ErrNoSurfaceFormat if the surface
// does not support it.
func WithSurfaceFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.surfaceFormat = f
	}
}

func (o *options) deviceConfig(width, height int) gpu.DeviceConfig {
	return gpu.DeviceConfig{
		Backend:     o.backend,
		Format:      o.surfaceFormat,
		PresentMode: gpu.PresentModeFifo,
		Width:       clampDim(width),
		Height:      clampDim(height),
	}
}

func (o *options) rendererConfig() gpu.RendererConfig {
	return gpu.RendererConfig{
		Width:        o.width,
		Height:       o.height,
		ShaderSource: o.shaderSource,
		FrameTimeout: o.frameTimeout,
		Capturer:     MultiCapturer(o.capturers...),
	}
}

// clampDim converts a window dimension, treating negatives as zero.
func clampDim(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}
