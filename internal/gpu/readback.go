package gpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// copyPitchAlignment is the required BytesPerRow alignment for
// texture-to-buffer copies.
const copyPitchAlignment = 256

// textureSurface is implemented by surfaces backed by a persistent texture.
type textureSurface interface {
	Texture() hal.Texture
}

// Snapshot reads the display texture back to the CPU. It shows the result of
// the most recent frame. Before the first frame its contents are undefined.
func (r *Renderer) Snapshot() (*image.RGBA, error) {
	if r.closed {
		return nil, ErrClosed
	}
	w, h := r.res.Extent()
	return r.readTexture("raymarch_snapshot", r.res.textures.displayTex,
		gputypes.TextureUsageTextureBinding, w, h)
}

// SurfaceSnapshot reads back what the last frame drew into an offscreen
// surface: the quad sampled from the display texture at the surface size.
// Pixels are returned as RGBA regardless of the surface format.
func (r *Renderer) SurfaceSnapshot() (*image.RGBA, error) {
	if r.closed {
		return nil, ErrClosed
	}
	ts, ok := r.ctx.Surface().(textureSurface)
	if !ok || !r.ctx.Configured() {
		return nil, ErrNoSurfaceTexture
	}
	tex := ts.Texture()
	if tex == nil {
		return nil, ErrNoSurfaceTexture
	}

	cfg := r.ctx.SurfaceConfig()
	img, err := r.readTexture("raymarch_surface_snapshot", tex,
		gputypes.TextureUsageRenderAttachment, cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	switch cfg.Format {
	case gputypes.TextureFormatRGBA8Unorm:
	case gputypes.TextureFormatBGRA8Unorm:
		swizzleBGRA(img.Pix)
	default:
		return nil, fmt.Errorf("surface snapshot: unsupported format %v", cfg.Format)
	}
	return img, nil
}

// readTexture copies a 4-byte-per-texel texture into a staging buffer and
// returns its rows. usage is the state the texture is in and is restored
// after the copy.
func (r *Renderer) readTexture(label string, tex hal.Texture, usage gputypes.TextureUsage, w, h uint32) (*image.RGBA, error) {
	device := r.ctx.Device()

	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label + "_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer device.DestroyBuffer(staging)

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: label + "_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: usage,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: usage,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	if err := r.submit(cmdBuf); err != nil {
		return nil, err
	}

	readback := make([]byte, stagingSize)
	if err := r.ctx.Queue().ReadBuffer(staging, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	for row := 0; row < int(h); row++ {
		src := readback[row*int(alignedBytesPerRow):][:bytesPerRow]
		copy(img.Pix[row*img.Stride:], src)
	}
	return img, nil
}

// swizzleBGRA swaps the red and blue channels of packed 8-bit texels.
func swizzleBGRA(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}
