// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Pipelines holds the compute and render pipelines. Both come from one
// shader module and one pipeline layout over the shared bind group layout,
// so a single bind group serves both passes.
type Pipelines struct {
	device hal.Device

	shader     hal.ShaderModule
	pipeLayout hal.PipelineLayout
	compute    hal.ComputePipeline
	render     hal.RenderPipeline

	iface *ShaderInterface
}

// NewPipelines reflects source, prefixed with the output extent constants,
// and builds both pipelines. The render pipeline's color target uses
// targetFormat, which must be the surface format.
func NewPipelines(device hal.Device, source string, res *Resources, targetFormat gputypes.TextureFormat) (*Pipelines, error) {
	w, h := res.Extent()
	full := composeShader(source, w, h)

	iface, err := ReflectShader(full)
	if err != nil {
		return nil, err
	}

	p := &Pipelines{device: device, iface: iface}
	if err := p.create(full, res.BindGroupLayout(), targetFormat); err != nil {
		p.Destroy()
		return nil, err
	}
	slogger().Debug("raymarch: pipelines created",
		"workgroup", iface.Workgroup, "target_format", targetFormat)
	return p, nil
}

func (p *Pipelines) create(source string, bindLayout hal.BindGroupLayout, targetFormat gputypes.TextureFormat) error {
	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "raymarch_shader",
		Source: hal.ShaderSource{WGSL: source},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}
	p.shader = shader

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "raymarch_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	compute, err := p.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  "raymarch_compute",
		Layout: pipeLayout,
		Compute: hal.ComputeState{
			Module:     shader,
			EntryPoint: EntryCompute,
		},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	p.compute = compute

	render, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "raymarch_render",
		Layout: pipeLayout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: EntryVertex,
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: EntryFragment,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    targetFormat,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	p.render = render
	return nil
}

// Interface returns the reflected shader interface.
func (p *Pipelines) Interface() *ShaderInterface { return p.iface }

// Destroy releases both pipelines, the layout and the shader module.
func (p *Pipelines) Destroy() {
	if p.device == nil {
		return
	}
	if p.render != nil {
		p.device.DestroyRenderPipeline(p.render)
		p.render = nil
	}
	if p.compute != nil {
		p.device.DestroyComputePipeline(p.compute)
		p.compute = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
