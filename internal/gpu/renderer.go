package gpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DefaultFrameTimeout bounds the wait for a frame's submission to complete.
const DefaultFrameTimeout = 5 * time.Second

// FrameCapturer brackets every frame. BeginCapture runs before the surface
// texture is acquired and EndCapture after present, including on error.
type FrameCapturer interface {
	BeginCapture(frame uint64)
	EndCapture(frame uint64, err error)
}

// RendererConfig configures NewRenderer.
type RendererConfig struct {
	// Width and Height are the fixed output extent of the compute stage.
	Width, Height uint32

	// ShaderSource is the WGSL module without the extent prelude. Empty
	// selects DefaultShaderSource.
	ShaderSource string

	// FrameTimeout bounds the fence wait per frame. Zero selects
	// DefaultFrameTimeout.
	FrameTimeout time.Duration

	// Capturer is optional.
	Capturer FrameCapturer
}

// Renderer drives the per-frame sequence over a DeviceContext. It is not
// safe for concurrent use; resize and render must come from one goroutine.
type Renderer struct {
	ctx   *DeviceContext
	res   *Resources
	pipes *Pipelines

	fence      hal.Fence
	fenceValue uint64

	frame        uint64
	frameTimeout time.Duration
	capturer     FrameCapturer
	closed       bool
}

// NewRenderer builds the resource set and then the pipeline set on ctx. The
// renderer takes ownership of ctx and closes it in Close.
func NewRenderer(ctx *DeviceContext, cfg RendererConfig) (*Renderer, error) {
	source := cfg.ShaderSource
	if source == "" {
		source = DefaultShaderSource()
	}
	timeout := cfg.FrameTimeout
	if timeout <= 0 {
		timeout = DefaultFrameTimeout
	}

	res, err := NewResources(ctx.Device(), ctx.Queue(), cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	pipes, err := NewPipelines(ctx.Device(), source, res, ctx.SurfaceFormat())
	if err != nil {
		res.Destroy()
		return nil, err
	}
	fence, err := ctx.Device().CreateFence()
	if err != nil {
		pipes.Destroy()
		res.Destroy()
		return nil, fmt.Errorf("create fence: %w", err)
	}

	return &Renderer{
		ctx:          ctx,
		res:          res,
		pipes:        pipes,
		fence:        fence,
		frameTimeout: timeout,
		capturer:     cfg.Capturer,
	}, nil
}

// Resize reconfigures the surface only. The texture pair and bind group keep
// their fixed extent.
func (r *Renderer) Resize(width, height uint32) error {
	if r.closed {
		return ErrClosed
	}
	return r.ctx.Resize(width, height)
}

// Context returns the device context.
func (r *Renderer) Context() *DeviceContext { return r.ctx }

// Extent returns the fixed output extent.
func (r *Renderer) Extent() (width, height uint32) { return r.res.Extent() }

// SurfaceConfig returns the current surface configuration.
func (r *Renderer) SurfaceConfig() SurfaceConfig { return r.ctx.SurfaceConfig() }

// SurfaceFormat returns the render pipeline's color target format.
func (r *Renderer) SurfaceFormat() gputypes.TextureFormat { return r.ctx.SurfaceFormat() }

// Frames returns how many frames Render has attempted, failed ones
// included. Calls skipped while the surface is suspended do not count.
func (r *Renderer) Frames() uint64 { return r.frame }

// Close waits for outstanding GPU work and releases everything in reverse
// creation order. Close is idempotent.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	device := r.ctx.Device()
	if r.fenceValue > 0 {
		if ok, err := device.Wait(r.fence, r.fenceValue, r.frameTimeout); err != nil || !ok {
			slogger().Warn("raymarch: device not idle at close", "ok", ok, "error", err)
		}
	}
	device.DestroyFence(r.fence)
	r.pipes.Destroy()
	r.res.Destroy()
	r.ctx.Close()
}

// submit submits cmdBuf with the next fence value and waits for it.
func (r *Renderer) submit(cmdBuf hal.CommandBuffer) error {
	r.fenceValue++
	if err := r.ctx.Queue().Submit([]hal.CommandBuffer{cmdBuf}, r.fence, r.fenceValue); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := r.ctx.Device().Wait(r.fence, r.fenceValue, r.frameTimeout)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w after %v", ErrFrameTimeout, r.frameTimeout)
	}
	return nil
}
