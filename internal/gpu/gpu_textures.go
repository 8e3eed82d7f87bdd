package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Usage flags of the texture pair. The compute stage writes output, which is
// only ever copied from; display is only ever copied into and sampled.
// Display also allows CopySrc so Snapshot can read back what is shown.
const (
	outputTextureUsage  = gputypes.TextureUsageCopySrc | gputypes.TextureUsageStorageBinding
	displayTextureUsage = gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopySrc
)

// texturePair holds the compute target and the sampled display texture.
// Both always have the same extent, fixed for the renderer's lifetime.
type texturePair struct {
	outputTex   hal.Texture
	outputView  hal.TextureView
	displayTex  hal.Texture
	displayView hal.TextureView
	width       uint32
	height      uint32
}

// createTextures allocates both textures and their default views. On error
// anything already created is released.
func (tp *texturePair) createTextures(device hal.Device, w, h uint32) error {
	if w == 0 || h == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidExtent, w, h)
	}
	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	outputTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "raymarch_output",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        outputFormat,
		Usage:         outputTextureUsage,
	})
	if err != nil {
		return fmt.Errorf("create output texture: %w", err)
	}
	tp.outputTex = outputTex

	outputView, err := device.CreateTextureView(outputTex, &hal.TextureViewDescriptor{
		Label: "raymarch_output_view",
	})
	if err != nil {
		tp.destroyTextures(device)
		return fmt.Errorf("create output view: %w", err)
	}
	tp.outputView = outputView

	displayTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "raymarch_display",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        outputFormat,
		Usage:         displayTextureUsage,
	})
	if err != nil {
		tp.destroyTextures(device)
		return fmt.Errorf("create display texture: %w", err)
	}
	tp.displayTex = displayTex

	displayView, err := device.CreateTextureView(displayTex, &hal.TextureViewDescriptor{
		Label: "raymarch_display_view",
	})
	if err != nil {
		tp.destroyTextures(device)
		return fmt.Errorf("create display view: %w", err)
	}
	tp.displayView = displayView

	tp.width = w
	tp.height = h
	return nil
}

// destroyTextures releases views before their textures. Safe to call on a
// partially created pair.
func (tp *texturePair) destroyTextures(device hal.Device) {
	if tp.displayView != nil {
		device.DestroyTextureView(tp.displayView)
		tp.displayView = nil
	}
	if tp.displayTex != nil {
		device.DestroyTexture(tp.displayTex)
		tp.displayTex = nil
	}
	if tp.outputView != nil {
		device.DestroyTextureView(tp.outputView)
		tp.outputView = nil
	}
	if tp.outputTex != nil {
		device.DestroyTexture(tp.outputTex)
		tp.outputTex = nil
	}
	tp.width = 0
	tp.height = 0
}

// extent is the copy size covering the whole pair.
func (tp *texturePair) extent() hal.Extent3D {
	return hal.Extent3D{Width: tp.width, Height: tp.height, DepthOrArrayLayers: 1}
}
