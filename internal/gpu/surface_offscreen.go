// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// OffscreenSurface is a Surface backed by a single device texture. It is
// used for headless rendering and by tests; Present only counts frames.
type OffscreenSurface struct {
	format gputypes.TextureFormat

	tex       hal.Texture
	cfg       SurfaceConfig
	device    hal.Device
	presented uint64
}

var _ Surface = (*OffscreenSurface)(nil)

// NewOffscreenSurface returns an unconfigured surface that only accepts
// format.
func NewOffscreenSurface(format gputypes.TextureFormat) *OffscreenSurface {
	return &OffscreenSurface{format: format}
}

// Formats implements Surface.
func (s *OffscreenSurface) Formats() []gputypes.TextureFormat {
	return []gputypes.TextureFormat{s.format}
}

// Configure implements Surface. The backing texture is recreated only when
// the size or format changes.
func (s *OffscreenSurface) Configure(device hal.Device, cfg SurfaceConfig) error {
	if cfg.Format != s.format {
		return fmt.Errorf("offscreen surface: format %v not supported", cfg.Format)
	}
	if s.tex != nil && s.cfg.Width == cfg.Width && s.cfg.Height == cfg.Height {
		s.cfg = cfg
		return nil
	}
	s.Unconfigure(device)

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "offscreen_surface",
		Size:          hal.Extent3D{Width: cfg.Width, Height: cfg.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        cfg.Format,
		Usage:         cfg.Usage | gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create offscreen surface texture: %w", err)
	}
	s.tex = tex
	s.cfg = cfg
	s.device = device
	return nil
}

// Unconfigure implements Surface.
func (s *OffscreenSurface) Unconfigure(device hal.Device) {
	if s.tex != nil {
		device.DestroyTexture(s.tex)
		s.tex = nil
	}
	s.cfg = SurfaceConfig{}
}

// Acquire implements Surface.
func (s *OffscreenSurface) Acquire() (AcquiredTexture, error) {
	if s.tex == nil {
		return AcquiredTexture{}, fmt.Errorf("offscreen surface: %w", ErrSurfaceOutdated)
	}
	return AcquiredTexture{Texture: s.tex}, nil
}

// Present implements Surface.
func (s *OffscreenSurface) Present(hal.Queue, AcquiredTexture) error {
	s.presented++
	return nil
}

// Discard implements Surface.
func (s *OffscreenSurface) Discard(AcquiredTexture) {}

// Destroy implements Surface.
func (s *OffscreenSurface) Destroy() {
	if s.device != nil {
		s.Unconfigure(s.device)
		s.device = nil
	}
}

// Texture returns the backing texture, or nil while unconfigured.
func (s *OffscreenSurface) Texture() hal.Texture { return s.tex }

// Config returns the configuration last applied.
func (s *OffscreenSurface) Config() SurfaceConfig { return s.cfg }

// Presented returns how many frames have been presented.
func (s *OffscreenSurface) Presented() uint64 { return s.presented }
