// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import "errors"

// Startup errors. None of these are recoverable: the renderer cannot
// produce a single frame without the object that failed.
var (
	ErrNoBackend       = errors.New("raymarch: graphics backend not available")
	ErrNoAdapter       = errors.New("raymarch: no adapter compatible with the surface")
	ErrDeviceCreation  = errors.New("raymarch: device creation failed")
	ErrSurfaceCreation = errors.New("raymarch: surface creation failed")
	ErrNoSurfaceFormat = errors.New("raymarch: surface reports no usable format")
	ErrShaderCompile   = errors.New("raymarch: shader compilation failed")
	ErrShaderInterface = errors.New("raymarch: shader interface does not match binding table")
	ErrInvalidExtent   = errors.New("raymarch: output extent must be non-zero")
)

// Per-frame errors, returned from Render.
var (
	ErrSurfaceLost     = errors.New("raymarch: surface lost")
	ErrSurfaceOutdated = errors.New("raymarch: surface outdated")
	ErrFrameTimeout    = errors.New("raymarch: timed out waiting for frame submission")
	ErrClosed          = errors.New("raymarch: renderer closed")
)

// ErrNoSurfaceTexture is returned by SurfaceSnapshot when the surface has no
// texture the host can read, such as a window swapchain or a suspended
// offscreen surface.
var ErrNoSurfaceTexture = errors.New("raymarch: surface texture is not readable")
