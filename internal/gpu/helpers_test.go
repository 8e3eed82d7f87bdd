package gpu

import (
	"fmt"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// recorder collects the calls made through the recording wrappers below.
type recorder struct {
	calls   []string
	created map[string]int
	live    map[string]int

	dispatches [][3]uint32
	copies     []hal.TextureCopy
	draws      [][5]uint32
	clears     []gputypes.Color

	targetFormats []gputypes.TextureFormat
	entryPoints   []string
}

func newRecorder() *recorder {
	return &recorder{created: map[string]int{}, live: map[string]int{}}
}

func (r *recorder) call(name string) { r.calls = append(r.calls, name) }

func (r *recorder) alloc(kind string) {
	r.created[kind]++
	r.live[kind]++
}

func (r *recorder) free(kind string) { r.live[kind]-- }

// reset forgets recorded calls but keeps allocation counters.
func (r *recorder) reset() {
	r.calls = nil
	r.dispatches = nil
	r.copies = nil
	r.draws = nil
	r.clears = nil
}

// recordingDevice counts object lifetimes and wraps command encoders.
type recordingDevice struct {
	hal.Device
	rec *recorder
}

func (d *recordingDevice) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	t, err := d.Device.CreateTexture(desc)
	if err == nil {
		d.rec.alloc("texture")
	}
	return t, err
}

func (d *recordingDevice) DestroyTexture(t hal.Texture) {
	d.rec.free("texture")
	d.Device.DestroyTexture(t)
}

func (d *recordingDevice) CreateTextureView(t hal.Texture, desc *hal.TextureViewDescriptor) (hal.TextureView, error) {
	v, err := d.Device.CreateTextureView(t, desc)
	if err == nil {
		d.rec.alloc("view")
	}
	return v, err
}

func (d *recordingDevice) DestroyTextureView(v hal.TextureView) {
	d.rec.free("view")
	d.Device.DestroyTextureView(v)
}

func (d *recordingDevice) CreateBindGroup(desc *hal.BindGroupDescriptor) (hal.BindGroup, error) {
	g, err := d.Device.CreateBindGroup(desc)
	if err == nil {
		d.rec.alloc("bind_group")
	}
	return g, err
}

func (d *recordingDevice) DestroyBindGroup(g hal.BindGroup) {
	d.rec.free("bind_group")
	d.Device.DestroyBindGroup(g)
}

func (d *recordingDevice) CreateComputePipeline(desc *hal.ComputePipelineDescriptor) (hal.ComputePipeline, error) {
	p, err := d.Device.CreateComputePipeline(desc)
	if err == nil {
		d.rec.alloc("compute_pipeline")
		d.rec.entryPoints = append(d.rec.entryPoints, desc.Compute.EntryPoint)
	}
	return p, err
}

func (d *recordingDevice) DestroyComputePipeline(p hal.ComputePipeline) {
	d.rec.free("compute_pipeline")
	d.Device.DestroyComputePipeline(p)
}

func (d *recordingDevice) CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	p, err := d.Device.CreateRenderPipeline(desc)
	if err == nil {
		d.rec.alloc("render_pipeline")
		d.rec.entryPoints = append(d.rec.entryPoints, desc.Vertex.EntryPoint, desc.Fragment.EntryPoint)
		for _, target := range desc.Fragment.Targets {
			d.rec.targetFormats = append(d.rec.targetFormats, target.Format)
		}
	}
	return p, err
}

func (d *recordingDevice) DestroyRenderPipeline(p hal.RenderPipeline) {
	d.rec.free("render_pipeline")
	d.Device.DestroyRenderPipeline(p)
}

func (d *recordingDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	e, err := d.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	return &recordingEncoder{CommandEncoder: e, rec: d.rec}, nil
}

type recordingEncoder struct {
	hal.CommandEncoder
	rec *recorder
}

func (e *recordingEncoder) BeginComputePass(desc *hal.ComputePassDescriptor) hal.ComputePassEncoder {
	e.rec.call("compute_pass")
	return &recordingComputePass{ComputePassEncoder: e.CommandEncoder.BeginComputePass(desc), rec: e.rec}
}

func (e *recordingEncoder) CopyTextureToTexture(src, dst hal.Texture, regions []hal.TextureCopy) {
	e.rec.call("copy")
	e.rec.copies = append(e.rec.copies, regions...)
	e.CommandEncoder.CopyTextureToTexture(src, dst, regions)
}

func (e *recordingEncoder) BeginRenderPass(desc *hal.RenderPassDescriptor) hal.RenderPassEncoder {
	e.rec.call("render_pass")
	for _, ca := range desc.ColorAttachments {
		if ca.LoadOp == gputypes.LoadOpClear {
			e.rec.clears = append(e.rec.clears, ca.ClearValue)
		}
	}
	return &recordingRenderPass{RenderPassEncoder: e.CommandEncoder.BeginRenderPass(desc), rec: e.rec}
}

type recordingComputePass struct {
	hal.ComputePassEncoder
	rec *recorder
}

func (p *recordingComputePass) Dispatch(x, y, z uint32) {
	p.rec.dispatches = append(p.rec.dispatches, [3]uint32{x, y, z})
	p.ComputePassEncoder.Dispatch(x, y, z)
}

type recordingRenderPass struct {
	hal.RenderPassEncoder
	rec *recorder
}

func (p *recordingRenderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.rec.draws = append(p.rec.draws, [5]uint32{indexCount, instanceCount, firstIndex, uint32(baseVertex), firstInstance})
	p.RenderPassEncoder.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

type recordingQueue struct {
	hal.Queue
	rec *recorder
}

func (q *recordingQueue) Submit(cmdBufs []hal.CommandBuffer, fence hal.Fence, value uint64) error {
	q.rec.call("submit")
	return q.Queue.Submit(cmdBufs, fence, value)
}

// recordingSurface logs acquire/present/discard/configure and can fail
// acquires on demand.
type recordingSurface struct {
	Surface
	rec *recorder

	configs     []SurfaceConfig
	acquireErrs []error
}

func (s *recordingSurface) Configure(device hal.Device, cfg SurfaceConfig) error {
	s.rec.call("configure")
	s.configs = append(s.configs, cfg)
	return s.Surface.Configure(device, cfg)
}

func (s *recordingSurface) Acquire() (AcquiredTexture, error) {
	s.rec.call("acquire")
	if len(s.acquireErrs) > 0 {
		err := s.acquireErrs[0]
		s.acquireErrs = s.acquireErrs[1:]
		if err != nil {
			return AcquiredTexture{}, err
		}
	}
	return s.Surface.Acquire()
}

func (s *recordingSurface) Present(queue hal.Queue, tex AcquiredTexture) error {
	s.rec.call("present")
	return s.Surface.Present(queue, tex)
}

func (s *recordingSurface) Discard(tex AcquiredTexture) {
	s.rec.call("discard")
	s.Surface.Discard(tex)
}

func (s *recordingSurface) Texture() hal.Texture {
	if ts, ok := s.Surface.(textureSurface); ok {
		return ts.Texture()
	}
	return nil
}

// testRig is a renderer on the noop backend with every collaborator
// recorded.
type testRig struct {
	r       *Renderer
	rec     *recorder
	surface *recordingSurface
	device  hal.Device
	queue   hal.Queue
}

func newTestDeviceContext(t *testing.T, width, height uint32) (*DeviceContext, *recorder, *recordingSurface) {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)
	t.Cleanup(cleanup)

	rec := newRecorder()
	surface := &recordingSurface{Surface: NewOffscreenSurface(gputypes.TextureFormatBGRA8Unorm), rec: rec}
	dev := &recordingDevice{Device: device, rec: rec}
	ctx, err := NewDeviceContext(dev, &recordingQueue{Queue: queue, rec: rec}, surface, DeviceConfig{
		PresentMode: PresentModeFifo,
		Width:       width,
		Height:      height,
	})
	if err != nil {
		t.Fatalf("NewDeviceContext failed: %v", err)
	}
	return ctx, rec, surface
}

func newTestRig(t *testing.T, cfg RendererConfig) *testRig {
	t.Helper()
	ctx, rec, surface := newTestDeviceContext(t, 800, 600)
	if cfg.Width == 0 && cfg.Height == 0 {
		cfg.Width, cfg.Height = 1280, 720
	}
	r, err := NewRenderer(ctx, cfg)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	t.Cleanup(r.Close)
	rec.reset()
	return &testRig{r: r, rec: rec, surface: surface, device: ctx.Device(), queue: ctx.Queue()}
}

func snapshotCounts(rec *recorder) string {
	return fmt.Sprintf("created=%v live=%v", rec.created, rec.live)
}
