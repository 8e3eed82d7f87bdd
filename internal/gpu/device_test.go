package gpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestPreferredAdapter(t *testing.T) {
	const other = gputypes.DeviceType(99)
	tests := []struct {
		name  string
		types []gputypes.DeviceType
		want  int
	}{
		{"empty", nil, -1},
		{"only unknown", []gputypes.DeviceType{other}, 0},
		{
			"discrete wins",
			[]gputypes.DeviceType{gputypes.DeviceTypeIntegratedGPU, other, gputypes.DeviceTypeDiscreteGPU},
			2,
		},
		{
			"integrated over unknown",
			[]gputypes.DeviceType{other, gputypes.DeviceTypeIntegratedGPU},
			1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preferredAdapter(tt.types); got != tt.want {
				t.Errorf("preferredAdapter = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestChooseFormat(t *testing.T) {
	supported := []gputypes.TextureFormat{gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatRGBA8Unorm}

	got, err := chooseFormat(supported, 0)
	if err != nil || got != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("chooseFormat(default) = %v, %v; want first supported", got, err)
	}

	got, err = chooseFormat(supported, gputypes.TextureFormatRGBA8Unorm)
	if err != nil || got != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("chooseFormat(RGBA8) = %v, %v; want RGBA8", got, err)
	}

	if _, err := chooseFormat(supported, gputypes.TextureFormatR8Unorm); !errors.Is(err, ErrNoSurfaceFormat) {
		t.Errorf("unsupported request: err = %v, want ErrNoSurfaceFormat", err)
	}
	if _, err := chooseFormat(nil, 0); !errors.Is(err, ErrNoSurfaceFormat) {
		t.Errorf("no formats: err = %v, want ErrNoSurfaceFormat", err)
	}
}

func TestNewDeviceContextConfiguresSurface(t *testing.T) {
	ctx, _, surface := newTestDeviceContext(t, 800, 600)
	defer ctx.Close()

	if !ctx.Configured() {
		t.Fatal("context should be configured after creation")
	}
	if len(surface.configs) != 1 {
		t.Fatalf("Configure called %d times, want 1", len(surface.configs))
	}
	cfg := surface.configs[0]
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("configured %dx%d, want 800x600", cfg.Width, cfg.Height)
	}
	if cfg.Format != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("format = %v, want the surface's first format", cfg.Format)
	}
	if cfg.PresentMode != PresentModeFifo {
		t.Errorf("present mode = %v, want fifo", cfg.PresentMode)
	}
	if cfg.Usage&gputypes.TextureUsageRenderAttachment == 0 {
		t.Error("surface usage must include RenderAttachment")
	}
	if ctx.SurfaceFormat() != cfg.Format {
		t.Error("SurfaceFormat disagrees with the configured format")
	}
}

func TestResizeReconfiguresWithStoredFormat(t *testing.T) {
	ctx, _, surface := newTestDeviceContext(t, 800, 600)
	defer ctx.Close()

	if err := ctx.Resize(1024, 768); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if len(surface.configs) != 2 {
		t.Fatalf("Configure called %d times, want 2", len(surface.configs))
	}
	first, second := surface.configs[0], surface.configs[1]
	if second.Width != 1024 || second.Height != 768 {
		t.Errorf("reconfigured %dx%d, want 1024x768", second.Width, second.Height)
	}
	if second.Format != first.Format || second.PresentMode != first.PresentMode || second.Usage != first.Usage {
		t.Errorf("resize changed more than the size: %+v -> %+v", first, second)
	}
}

func TestResizeIdempotent(t *testing.T) {
	ctx, _, surface := newTestDeviceContext(t, 800, 600)
	defer ctx.Close()

	for range 3 {
		if err := ctx.Resize(800, 600); err != nil {
			t.Fatalf("Resize failed: %v", err)
		}
	}
	if len(surface.configs) != 1 {
		t.Errorf("Configure called %d times for a repeated size, want 1", len(surface.configs))
	}
}

func TestResizeZeroSuspends(t *testing.T) {
	ctx, _, surface := newTestDeviceContext(t, 800, 600)
	defer ctx.Close()

	for _, size := range [][2]uint32{{0, 0}, {0, 600}, {800, 0}} {
		if err := ctx.Resize(size[0], size[1]); err != nil {
			t.Fatalf("Resize(%v) failed: %v", size, err)
		}
		if ctx.Configured() {
			t.Errorf("Resize(%v) left the surface configured", size)
		}
	}
	if len(surface.configs) != 1 {
		t.Errorf("zero-size resize configured the surface (%d calls)", len(surface.configs))
	}

	if err := ctx.Resize(640, 480); err != nil {
		t.Fatalf("Resize after suspend failed: %v", err)
	}
	if !ctx.Configured() {
		t.Error("non-zero resize should resume the surface")
	}
}

func TestResizeBackToPreviousSizeAfterSuspend(t *testing.T) {
	ctx, _, surface := newTestDeviceContext(t, 800, 600)
	defer ctx.Close()

	_ = ctx.Resize(0, 0)
	if err := ctx.Resize(800, 600); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if !ctx.Configured() {
		t.Error("restoring the previous size must reconfigure")
	}
	if len(surface.configs) != 2 {
		t.Errorf("Configure called %d times, want 2", len(surface.configs))
	}
}

func TestAcquireRetriesOutdatedOnce(t *testing.T) {
	ctx, rec, surface := newTestDeviceContext(t, 800, 600)
	defer ctx.Close()

	surface.acquireErrs = []error{fmt.Errorf("acquire: %w", ErrSurfaceOutdated)}
	rec.reset()

	tex, err := ctx.acquire()
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if tex.Texture == nil {
		t.Fatal("acquire returned no texture")
	}
	want := []string{"acquire", "configure", "acquire"}
	if fmt.Sprint(rec.calls) != fmt.Sprint(want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
	if last := surface.configs[len(surface.configs)-1]; last.Width != 800 || last.Height != 600 {
		t.Errorf("reconfigured with %dx%d, want the stored 800x600", last.Width, last.Height)
	}
}

func TestAcquireOutdatedTwiceFails(t *testing.T) {
	ctx, _, surface := newTestDeviceContext(t, 800, 600)
	defer ctx.Close()

	surface.acquireErrs = []error{ErrSurfaceOutdated, ErrSurfaceOutdated}
	if _, err := ctx.acquire(); !errors.Is(err, ErrSurfaceOutdated) {
		t.Fatalf("err = %v, want ErrSurfaceOutdated", err)
	}
}

func TestAcquireLostIsNotRetried(t *testing.T) {
	ctx, rec, surface := newTestDeviceContext(t, 800, 600)
	defer ctx.Close()

	surface.acquireErrs = []error{ErrSurfaceLost}
	rec.reset()
	if _, err := ctx.acquire(); !errors.Is(err, ErrSurfaceLost) {
		t.Fatalf("err = %v, want ErrSurfaceLost", err)
	}
	if len(rec.calls) != 1 {
		t.Errorf("calls = %v, want a single acquire", rec.calls)
	}
}

func TestDeviceContextCloseKeepsInjectedDevice(t *testing.T) {
	ctx, _, _ := newTestDeviceContext(t, 800, 600)
	device := ctx.Device()
	ctx.Close()

	// The injected device is still usable after Close.
	fence, err := device.CreateFence()
	if err != nil {
		t.Fatalf("CreateFence after Close failed: %v", err)
	}
	device.DestroyFence(fence)
}

func TestPresentModeString(t *testing.T) {
	for m, want := range map[PresentMode]string{
		PresentModeFifo:      "fifo",
		PresentModeMailbox:   "mailbox",
		PresentModeImmediate: "immediate",
		PresentMode(42):      "unknown",
	} {
		if got := m.String(); got != want {
			t.Errorf("PresentMode(%d).String() = %q, want %q", m, got, want)
		}
	}
}
