// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// windowSurface adapts a hal.Surface created from native window handles.
type windowSurface struct {
	surface hal.Surface
	adapter hal.Adapter
}

var _ Surface = (*windowSurface)(nil)

func (s *windowSurface) Formats() []gputypes.TextureFormat {
	caps := s.adapter.SurfaceCapabilities(s.surface)
	if caps == nil {
		return nil
	}
	return caps.Formats
}

func (s *windowSurface) Configure(device hal.Device, cfg SurfaceConfig) error {
	return s.surface.Configure(device, &hal.SurfaceConfiguration{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Format:      cfg.Format,
		Usage:       cfg.Usage,
		PresentMode: halPresentMode(cfg.PresentMode),
		AlphaMode:   hal.CompositeAlphaModeOpaque,
	})
}

func (s *windowSurface) Unconfigure(device hal.Device) {
	s.surface.Unconfigure(device)
}

func (s *windowSurface) Acquire() (AcquiredTexture, error) {
	acquired, err := s.surface.AcquireTexture(nil)
	if err != nil {
		return AcquiredTexture{}, surfaceError("acquire surface texture", err)
	}
	return AcquiredTexture{Texture: acquired.Texture, Suboptimal: acquired.Suboptimal}, nil
}

func (s *windowSurface) Present(queue hal.Queue, tex AcquiredTexture) error {
	st, ok := tex.Texture.(hal.SurfaceTexture)
	if !ok {
		return fmt.Errorf("present: %T is not a surface texture", tex.Texture)
	}
	if err := queue.Present(s.surface, st); err != nil {
		return surfaceError("present", err)
	}
	return nil
}

func (s *windowSurface) Discard(tex AcquiredTexture) {
	if st, ok := tex.Texture.(hal.SurfaceTexture); ok {
		s.surface.DiscardTexture(st)
	}
}

func (s *windowSurface) Destroy() {
	s.surface.Destroy()
}

// surfaceError maps HAL surface errors onto the package sentinels.
func surfaceError(op string, err error) error {
	switch {
	case errors.Is(err, hal.ErrSurfaceOutdated):
		return fmt.Errorf("%s: %w: %w", op, ErrSurfaceOutdated, err)
	case errors.Is(err, hal.ErrSurfaceLost):
		return fmt.Errorf("%s: %w: %w", op, ErrSurfaceLost, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func halPresentMode(m PresentMode) hal.PresentMode {
	switch m {
	case PresentModeMailbox:
		return hal.PresentModeMailbox
	case PresentModeImmediate:
		return hal.PresentModeImmediate
	default:
		return hal.PresentModeFifo
	}
}
