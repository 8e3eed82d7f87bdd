// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// DeviceConfig selects the backend and the initial surface configuration.
type DeviceConfig struct {
	Backend gputypes.Backend

	// Format overrides the surface format. Zero picks the first format the
	// surface reports. A format the surface does not report is an error.
	Format gputypes.TextureFormat

	PresentMode PresentMode
	Width       uint32
	Height      uint32
}

// DeviceContext owns the device, queue and presentation surface. Its surface
// format is the single source of truth for every color target.
type DeviceContext struct {
	instance hal.Instance // nil when the device was injected
	device   hal.Device
	queue    hal.Queue
	surface  Surface

	adapterName string
	ownsDevice  bool

	config     SurfaceConfig
	configured bool
}

// OpenWindow creates an instance on cfg.Backend, a surface for the native
// window handles, and a device on the best adapter that can present to it.
// The surface is configured before OpenWindow returns.
func OpenWindow(display, window uintptr, cfg DeviceConfig) (*DeviceContext, error) {
	instance, err := createInstance(cfg.Backend)
	if err != nil {
		return nil, err
	}

	halSurface, err := instance.CreateSurface(display, window)
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: %w", ErrSurfaceCreation, err)
	}

	adapters := instance.EnumerateAdapters(halSurface)
	compatible := make([]hal.ExposedAdapter, 0, len(adapters))
	for _, a := range adapters {
		if a.Adapter.SurfaceCapabilities(halSurface) != nil {
			compatible = append(compatible, a)
		}
	}
	selected, err := selectAdapter(compatible)
	if err != nil {
		halSurface.Destroy()
		instance.Destroy()
		return nil, err
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		halSurface.Destroy()
		instance.Destroy()
		return nil, fmt.Errorf("%w: %w", ErrDeviceCreation, err)
	}

	surface := &windowSurface{surface: halSurface, adapter: selected.Adapter}
	c, err := newDeviceContext(openDev.Device, openDev.Queue, surface, cfg)
	if err != nil {
		halSurface.Destroy()
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	c.instance = instance
	c.ownsDevice = true
	c.adapterName = selected.Info.Name
	slogger().Info("raymarch: adapter selected",
		"adapter", selected.Info.Name,
		"type", selected.Info.DeviceType,
		"format", c.config.Format)
	return c, nil
}

// OpenHeadless creates a device on the best adapter of cfg.Backend and an
// OffscreenSurface of cfg.Width x cfg.Height. A zero cfg.Format selects
// RGBA8Unorm.
func OpenHeadless(cfg DeviceConfig) (*DeviceContext, error) {
	instance, err := createInstance(cfg.Backend)
	if err != nil {
		return nil, err
	}
	selected, err := selectAdapter(instance.EnumerateAdapters(nil))
	if err != nil {
		instance.Destroy()
		return nil, err
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: %w", ErrDeviceCreation, err)
	}

	format := cfg.Format
	if format == 0 {
		format = gputypes.TextureFormatRGBA8Unorm
	}
	c, err := newDeviceContext(openDev.Device, openDev.Queue, NewOffscreenSurface(format), cfg)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	c.instance = instance
	c.ownsDevice = true
	c.adapterName = selected.Info.Name
	slogger().Info("raymarch: headless device opened", "adapter", selected.Info.Name)
	return c, nil
}

// NewDeviceContext wraps a device and queue owned by the caller. Close
// destroys the surface but leaves the device alive.
func NewDeviceContext(device hal.Device, queue hal.Queue, surface Surface, cfg DeviceConfig) (*DeviceContext, error) {
	return newDeviceContext(device, queue, surface, cfg)
}

func newDeviceContext(device hal.Device, queue hal.Queue, surface Surface, cfg DeviceConfig) (*DeviceContext, error) {
	format, err := chooseFormat(surface.Formats(), cfg.Format)
	if err != nil {
		return nil, err
	}
	c := &DeviceContext{
		device:  device,
		queue:   queue,
		surface: surface,
		config: SurfaceConfig{
			Format:      format,
			PresentMode: cfg.PresentMode,
			Usage:       gputypes.TextureUsageRenderAttachment,
		},
	}
	if err := c.Resize(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	return c, nil
}

func createInstance(backend gputypes.Backend) (hal.Instance, error) {
	b, ok := hal.GetBackend(backend)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNoBackend, backend)
	}
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", ErrNoBackend, err)
	}
	return instance, nil
}

// selectAdapter prefers a discrete GPU, then an integrated one, then
// whatever was enumerated first.
func selectAdapter(adapters []hal.ExposedAdapter) (*hal.ExposedAdapter, error) {
	types := make([]gputypes.DeviceType, len(adapters))
	for i := range adapters {
		types[i] = adapters[i].Info.DeviceType
	}
	i := preferredAdapter(types)
	if i < 0 {
		return nil, ErrNoAdapter
	}
	return &adapters[i], nil
}

func preferredAdapter(types []gputypes.DeviceType) int {
	if len(types) == 0 {
		return -1
	}
	for _, want := range []gputypes.DeviceType{gputypes.DeviceTypeDiscreteGPU, gputypes.DeviceTypeIntegratedGPU} {
		if i := slices.Index(types, want); i >= 0 {
			return i
		}
	}
	return 0
}

// chooseFormat resolves the surface format: the requested one if the
// surface supports it, otherwise the surface's first preference.
func chooseFormat(supported []gputypes.TextureFormat, requested gputypes.TextureFormat) (gputypes.TextureFormat, error) {
	if len(supported) == 0 {
		return 0, ErrNoSurfaceFormat
	}
	if requested == 0 {
		return supported[0], nil
	}
	if !slices.Contains(supported, requested) {
		return 0, fmt.Errorf("%w: %v not in %v", ErrNoSurfaceFormat, requested, supported)
	}
	return requested, nil
}

// Device returns the HAL device.
func (c *DeviceContext) Device() hal.Device { return c.device }

// Queue returns the HAL queue.
func (c *DeviceContext) Queue() hal.Queue { return c.queue }

// AdapterName returns the selected adapter's name, empty for injected
// devices.
func (c *DeviceContext) AdapterName() string { return c.adapterName }

// SurfaceFormat returns the format every color target must use.
func (c *DeviceContext) SurfaceFormat() gputypes.TextureFormat { return c.config.Format }

// SurfaceConfig returns the current surface configuration.
func (c *DeviceContext) SurfaceConfig() SurfaceConfig { return c.config }

// Configured reports whether the surface can hand out frames. It is false
// while the window has a zero dimension.
func (c *DeviceContext) Configured() bool { return c.configured }

// Surface returns the presentation surface.
func (c *DeviceContext) Surface() Surface { return c.surface }

// Resize applies a new surface size. Only width and height change; format
// and present mode are reapplied from the stored configuration. Repeating
// the current size does nothing. A zero dimension unconfigures the surface
// until the next non-zero resize.
func (c *DeviceContext) Resize(width, height uint32) error {
	if width == c.config.Width && height == c.config.Height && (c.configured || width == 0 || height == 0) {
		slogger().Debug("raymarch: resize to current size ignored", "width", width, "height", height)
		return nil
	}
	c.config.Width = width
	c.config.Height = height

	if width == 0 || height == 0 {
		if c.configured {
			c.surface.Unconfigure(c.device)
			c.configured = false
		}
		slogger().Debug("raymarch: surface suspended", "width", width, "height", height)
		return nil
	}
	return c.configure()
}

func (c *DeviceContext) configure() error {
	if err := c.surface.Configure(c.device, c.config); err != nil {
		c.configured = false
		return fmt.Errorf("configure surface %dx%d: %w", c.config.Width, c.config.Height, err)
	}
	c.configured = true
	return nil
}

// acquire takes the next surface texture. An outdated surface is
// reconfigured with the stored configuration and acquired once more; a
// second failure, or any other error, is returned.
func (c *DeviceContext) acquire() (AcquiredTexture, error) {
	tex, err := c.surface.Acquire()
	if err == nil {
		if tex.Suboptimal {
			slogger().Debug("raymarch: suboptimal surface texture")
		}
		return tex, nil
	}
	if !isOutdated(err) {
		return AcquiredTexture{}, err
	}

	slogger().Warn("raymarch: surface outdated, reconfiguring",
		"width", c.config.Width, "height", c.config.Height, "error", err)
	if err := c.configure(); err != nil {
		return AcquiredTexture{}, err
	}
	return c.surface.Acquire()
}

// Close releases the surface, then the device and instance if this context
// created them.
func (c *DeviceContext) Close() {
	if c.surface != nil {
		if c.configured {
			c.surface.Unconfigure(c.device)
			c.configured = false
		}
		c.surface.Destroy()
		c.surface = nil
	}
	if c.ownsDevice && c.device != nil {
		c.device.Destroy()
	}
	c.device = nil
	c.queue = nil
	if c.instance != nil {
		c.instance.Destroy()
		c.instance = nil
	}
}
