// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Resources is everything both pipelines bind: the texture pair, the sampler,
// the shared bind group with its layout, and the static quad buffers. All of
// it is created once and never mutated.
type Resources struct {
	device hal.Device

	textures texturePair
	sampler  hal.Sampler

	bindGroupLayout hal.BindGroupLayout
	bindGroup       hal.BindGroup

	vertexBuf hal.Buffer
	indexBuf  hal.Buffer
}

// NewResources creates the resource set for a width x height output
// extent. Allocation is width*height*4 bytes per texture.
func NewResources(device hal.Device, queue hal.Queue, width, height uint32) (*Resources, error) {
	r := &Resources{device: device}
	if err := r.textures.createTextures(device, width, height); err != nil {
		return nil, err
	}
	if err := r.create(queue); err != nil {
		r.Destroy()
		return nil, err
	}
	return r, nil
}

func (r *Resources) create(queue hal.Queue) error {
	sampler, err := r.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "raymarch_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("create sampler: %w", err)
	}
	r.sampler = sampler

	layout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "raymarch_bind_layout",
		Entries: LayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	r.bindGroupLayout = layout

	bindGroup, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "raymarch_bind_group",
		Layout:  layout,
		Entries: r.bindGroupEntries(),
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	r.bindGroup = bindGroup

	if r.vertexBuf, err = r.uploadBuffer(queue, "raymarch_quad_vertices", quadVertexData(),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}
	if r.indexBuf, err = r.uploadBuffer(queue, "raymarch_quad_indices", quadIndexData(),
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}

	return r.initLayouts(queue)
}

// bindGroupEntries resolves each binding table slot to its resource.
func (r *Resources) bindGroupEntries() []gputypes.BindGroupEntry {
	entries := make([]gputypes.BindGroupEntry, 0, len(bindingTable))
	for _, slot := range bindingTable {
		e := gputypes.BindGroupEntry{Binding: slot.Index}
		switch slot.Name {
		case BindingOutput:
			e.Resource = gputypes.TextureViewBinding{TextureView: r.textures.outputView.NativeHandle()}
		case BindingDisplay:
			e.Resource = gputypes.TextureViewBinding{TextureView: r.textures.displayView.NativeHandle()}
		case BindingSampler:
			e.Resource = gputypes.SamplerBinding{Sampler: r.sampler.NativeHandle()}
		}
		entries = append(entries, e)
	}
	return entries
}

func (r *Resources) uploadBuffer(queue hal.Queue, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// initLayouts moves the freshly created textures into the usages the frame
// sequence expects at its start: output as storage, display as sampled.
func (r *Resources) initLayouts(queue hal.Queue) error {
	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "raymarch_init_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("raymarch_init"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	encoder.TransitionTextures([]hal.TextureBarrier{
		{
			Texture: r.textures.outputTex,
			Usage: hal.TextureUsageTransition{
				OldUsage: 0,
				NewUsage: gputypes.TextureUsageStorageBinding,
			},
		},
		{
			Texture: r.textures.displayTex,
			Usage: hal.TextureUsageTransition{
				OldUsage: 0,
				NewUsage: gputypes.TextureUsageTextureBinding,
			},
		},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer r.device.DestroyFence(fence)

	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := r.device.Wait(fence, 1, DefaultFrameTimeout)
	if err != nil {
		return fmt.Errorf("wait for layout init: %w", err)
	}
	if !ok {
		return fmt.Errorf("wait for layout init: %w", ErrFrameTimeout)
	}
	return nil
}

// BindGroupLayout returns the layout shared by both pipelines.
func (r *Resources) BindGroupLayout() hal.BindGroupLayout { return r.bindGroupLayout }

// BindGroup returns the bind group shared by both passes.
func (r *Resources) BindGroup() hal.BindGroup { return r.bindGroup }

// Extent returns the fixed output extent.
func (r *Resources) Extent() (width, height uint32) {
	return r.textures.width, r.textures.height
}

// Destroy releases everything in reverse creation order.
func (r *Resources) Destroy() {
	if r.device == nil {
		return
	}
	if r.indexBuf != nil {
		r.device.DestroyBuffer(r.indexBuf)
		r.indexBuf = nil
	}
	if r.vertexBuf != nil {
		r.device.DestroyBuffer(r.vertexBuf)
		r.vertexBuf = nil
	}
	if r.bindGroup != nil {
		r.device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	if r.bindGroupLayout != nil {
		r.device.DestroyBindGroupLayout(r.bindGroupLayout)
		r.bindGroupLayout = nil
	}
	if r.sampler != nil {
		r.device.DestroySampler(r.sampler)
		r.sampler = nil
	}
	r.textures.destroyTextures(r.device)
}
