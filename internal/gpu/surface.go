// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// PresentMode selects how acquired frames are queued for display.
type PresentMode uint8

const (
	// PresentModeFifo presents in submission order and blocks when the
	// queue of presentable images is full. It never tears.
	PresentModeFifo PresentMode = iota
	// PresentModeMailbox replaces the pending image instead of blocking.
	PresentModeMailbox
	// PresentModeImmediate presents without waiting for vertical blank.
	PresentModeImmediate
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeFifo:
		return "fifo"
	case PresentModeMailbox:
		return "mailbox"
	case PresentModeImmediate:
		return "immediate"
	default:
		return "unknown"
	}
}

// SurfaceConfig is the configuration a Surface is (re)configured with.
// Usage is always RenderAttachment for window surfaces; offscreen surfaces
// add CopySrc so frames can be read back.
type SurfaceConfig struct {
	Width       uint32
	Height      uint32
	Format      gputypes.TextureFormat
	PresentMode PresentMode
	Usage       gputypes.TextureUsage
}

// AcquiredTexture is a presentable image handed out by a Surface.
type AcquiredTexture struct {
	Texture hal.Texture

	// Suboptimal reports that the image can still be presented but the
	// surface no longer matches the window exactly.
	Suboptimal bool
}

// Surface is the presentable target the renderer draws into. The Frame
// Orchestrator calls Acquire, then either Present or Discard, exactly once
// per frame.
//
// Acquire returns ErrSurfaceOutdated when the configuration no longer
// matches the target and ErrSurfaceLost when the target is gone.
type Surface interface {
	// Formats reports the formats the surface can be configured with, in
	// preference order.
	Formats() []gputypes.TextureFormat
	Configure(device hal.Device, cfg SurfaceConfig) error
	Unconfigure(device hal.Device)
	Acquire() (AcquiredTexture, error)
	Present(queue hal.Queue, tex AcquiredTexture) error
	Discard(tex AcquiredTexture)
	Destroy()
}

// isOutdated reports whether an acquire error can be cured by
// reconfiguring the surface.
func isOutdated(err error) bool {
	return errors.Is(err, ErrSurfaceOutdated)
}
