package raymarch

import "github.com/gogpu/raymarch/internal/gpu"

// Startup errors, returned by New, NewHeadless and NewShared.
var (
	ErrNoBackend       = gpu.ErrNoBackend
	ErrNoAdapter       = gpu.ErrNoAdapter
	ErrDeviceCreation  = gpu.ErrDeviceCreation
	ErrSurfaceCreation = gpu.ErrSurfaceCreation
	ErrNoSurfaceFormat = gpu.ErrNoSurfaceFormat
	ErrShaderCompile   = gpu.ErrShaderCompile
	ErrShaderInterface = gpu.ErrShaderInterface
	ErrInvalidExtent   = gpu.ErrInvalidExtent
)

// Per-frame errors, returned by Render.
//
// ErrSurfaceLost is fatal: the window is gone and the application should
// exit. ErrSurfaceOutdated is only returned when reconfiguring the surface
// did not help.
var (
	ErrSurfaceLost     = gpu.ErrSurfaceLost
	ErrSurfaceOutdated = gpu.ErrSurfaceOutdated
	ErrFrameTimeout    = gpu.ErrFrameTimeout
	ErrClosed          = gpu.ErrClosed
)

// ErrNoSurfaceTexture is returned by SurfaceSnapshot on window surfaces and
// while a headless renderer is suspended.
var ErrNoSurfaceTexture = gpu.ErrNoSurfaceTexture
