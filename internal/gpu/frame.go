// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// clearColor is the load value of the surface attachment.
var clearColor = gputypes.Color{R: 0, G: 0, B: 0, A: 1}

// Render produces one frame:
//
//  1. acquire the next surface texture
//  2. compute pass writing the output texture
//  3. copy output -> display over the full extent
//  4. render pass drawing the quad, sampling display
//  5. submit, wait, present
//
// Steps 2-4 are recorded on one encoder and submitted once. While the
// surface is suspended (zero-sized window) Render does nothing: the frame
// is not numbered and the capturer is not called.
func (r *Renderer) Render() (err error) {
	if r.closed {
		return ErrClosed
	}
	if !r.ctx.Configured() {
		slogger().Debug("raymarch: frame skipped, surface suspended", "after_frame", r.frame)
		return nil
	}

	r.frame++
	if r.capturer != nil {
		frame := r.frame
		r.capturer.BeginCapture(frame)
		defer func() { r.capturer.EndCapture(frame, err) }()
	}

	surfaceTex, err := r.ctx.acquire()
	if err != nil {
		return fmt.Errorf("frame %d: %w", r.frame, err)
	}
	handedOff := false
	defer func() {
		if !handedOff {
			r.ctx.Surface().Discard(surfaceTex)
		}
	}()

	device := r.ctx.Device()
	view, err := device.CreateTextureView(surfaceTex.Texture, &hal.TextureViewDescriptor{
		Label: "raymarch_surface_view",
	})
	if err != nil {
		return fmt.Errorf("create surface view: %w", err)
	}
	defer device.DestroyTextureView(view)

	cmdBuf, err := r.encodeFrame(view)
	if err != nil {
		return err
	}
	defer device.FreeCommandBuffer(cmdBuf)

	if err := r.submit(cmdBuf); err != nil {
		return err
	}

	handedOff = true
	if err := r.ctx.Surface().Present(r.ctx.Queue(), surfaceTex); err != nil {
		return fmt.Errorf("frame %d: %w", r.frame, err)
	}
	return nil
}

// encodeFrame records the compute pass, the stage copy and the quad pass.
func (r *Renderer) encodeFrame(target hal.TextureView) (hal.CommandBuffer, error) {
	encoder, err := r.ctx.Device().CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "raymarch_frame_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("raymarch_frame"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	r.recordCompute(encoder)
	r.recordStageCopy(encoder)
	r.recordQuad(encoder, target)

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	return cmdBuf, nil
}

func (r *Renderer) recordCompute(encoder hal.CommandEncoder) {
	w, h := r.res.Extent()
	x, y, z := r.pipes.iface.DispatchSize(w, h)

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "raymarch_compute_pass"})
	pass.SetPipeline(r.pipes.compute)
	pass.SetBindGroup(sharedGroup, r.res.bindGroup, nil)
	pass.Dispatch(x, y, z)
	pass.End()
}

// recordStageCopy copies the whole output texture into the display texture
// at mip 0. The HAL does not track texture state, so the copy is bracketed by
// explicit transitions back to the usages the passes expect.
func (r *Renderer) recordStageCopy(encoder hal.CommandEncoder) {
	out, disp := r.res.textures.outputTex, r.res.textures.displayTex

	encoder.TransitionTextures([]hal.TextureBarrier{
		{Texture: out, Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageStorageBinding,
			NewUsage: gputypes.TextureUsageCopySrc,
		}},
		{Texture: disp, Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageTextureBinding,
			NewUsage: gputypes.TextureUsageCopyDst,
		}},
	})

	encoder.CopyTextureToTexture(out, disp, []hal.TextureCopy{{
		SrcBase: hal.ImageCopyTexture{Texture: out, MipLevel: 0},
		DstBase: hal.ImageCopyTexture{Texture: disp, MipLevel: 0},
		Size:    r.res.textures.extent(),
	}})

	encoder.TransitionTextures([]hal.TextureBarrier{
		{Texture: out, Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageStorageBinding,
		}},
		{Texture: disp, Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopyDst,
			NewUsage: gputypes.TextureUsageTextureBinding,
		}},
	})
}

func (r *Renderer) recordQuad(encoder hal.CommandEncoder, target hal.TextureView) {
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "raymarch_quad_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clearColor,
		}},
	})
	rp.SetPipeline(r.pipes.render)
	rp.SetBindGroup(sharedGroup, r.res.bindGroup, nil)
	rp.SetVertexBuffer(0, r.res.vertexBuf, 0)
	rp.SetIndexBuffer(r.res.indexBuf, gputypes.IndexFormatUint16, 0)
	rp.DrawIndexed(uint32(len(QuadIndices)), 1, 0, 0, 0)
	rp.End()
}
