// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// BindingName identifies one resource in the shared bind group.
type BindingName string

// Logical names of the shared bind group's resources.
const (
	BindingOutput  BindingName = "output"
	BindingDisplay BindingName = "display"
	BindingSampler BindingName = "sampler"
)

// bindingKind is the resource class a binding slot expects.
type bindingKind uint8

const (
	bindingStorageTexture bindingKind = iota
	bindingSampledTexture
	bindingFilteringSampler
)

func (k bindingKind) String() string {
	switch k {
	case bindingStorageTexture:
		return "storage texture"
	case bindingSampledTexture:
		return "sampled texture"
	case bindingFilteringSampler:
		return "sampler"
	default:
		return fmt.Sprintf("bindingKind(%d)", uint8(k))
	}
}

// BindingSlot is one entry of the binding table.
type BindingSlot struct {
	Name       BindingName
	Group      uint32
	Index      uint32
	Visibility gputypes.ShaderStage
	kind       bindingKind
}

// sharedGroup is the bind group index both pipelines use.
const sharedGroup uint32 = 0

// outputFormat is the texel format of both textures of the pair. The storage
// binding layout and the texture descriptors read it from here.
const outputFormat = gputypes.TextureFormatRGBA8Unorm

// bindingTable is the only place binding indices are spelled out. The
// layout, the bind group and shader reflection all look slots up by name.
var bindingTable = [...]BindingSlot{
	{
		Name:       BindingOutput,
		Group:      sharedGroup,
		Index:      0,
		Visibility: gputypes.ShaderStageCompute,
		kind:       bindingStorageTexture,
	},
	{
		Name:       BindingDisplay,
		Group:      sharedGroup,
		Index:      1,
		Visibility: gputypes.ShaderStageFragment,
		kind:       bindingSampledTexture,
	},
	{
		Name:       BindingSampler,
		Group:      sharedGroup,
		Index:      2,
		Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment | gputypes.ShaderStageCompute,
		kind:       bindingFilteringSampler,
	},
}

// Bindings returns a copy of the binding table in index order.
func Bindings() []BindingSlot {
	out := make([]BindingSlot, len(bindingTable))
	copy(out, bindingTable[:])
	return out
}

// Binding looks up a slot by name.
func Binding(name BindingName) (BindingSlot, bool) {
	for _, s := range bindingTable {
		if s.Name == name {
			return s, true
		}
	}
	return BindingSlot{}, false
}

// layoutEntry builds the bind group layout entry for a slot.
func (s BindingSlot) layoutEntry() gputypes.BindGroupLayoutEntry {
	e := gputypes.BindGroupLayoutEntry{
		Binding:    s.Index,
		Visibility: s.Visibility,
	}
	switch s.kind {
	case bindingStorageTexture:
		e.StorageTexture = &gputypes.StorageTextureBindingLayout{
			Access:        gputypes.StorageTextureAccessWriteOnly,
			Format:        outputFormat,
			ViewDimension: gputypes.TextureViewDimension2D,
		}
	case bindingSampledTexture:
		e.Texture = &gputypes.TextureBindingLayout{
			SampleType:    gputypes.TextureSampleTypeFloat,
			ViewDimension: gputypes.TextureViewDimension2D,
			Multisampled:  false,
		}
	case bindingFilteringSampler:
		e.Sampler = &gputypes.SamplerBindingLayout{
			Type: gputypes.SamplerBindingTypeFiltering,
		}
	}
	return e
}

// LayoutEntries returns the bind group layout entries for the shared
// layout, in binding index order.
func LayoutEntries() []gputypes.BindGroupLayoutEntry {
	entries := make([]gputypes.BindGroupLayoutEntry, 0, len(bindingTable))
	for _, s := range bindingTable {
		entries = append(entries, s.layoutEntry())
	}
	return entries
}
