// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// ShaderInterface is what the host needs to know about a WGSL module before
// building pipelines from it.
type ShaderInterface struct {
	// Workgroup is the compute entry point's @workgroup_size.
	Workgroup [3]uint32

	// Bindings maps each declared group-0 binding index to its variable name.
	Bindings map[uint32]string
}

// ReflectShader parses and lowers source with naga and checks it against the
// binding table and the entry point names. Parse and lowering failures wrap
// ErrShaderCompile; any disagreement with the host layout wraps
// ErrShaderInterface.
//
// IR validation is left to the driver's shader compiler at module creation.
func ReflectShader(source string) (*ShaderInterface, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: parse: %w", ErrShaderCompile, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("%w: lower: %w", ErrShaderCompile, err)
	}

	si := &ShaderInterface{Bindings: make(map[uint32]string)}
	if err := si.checkEntryPoints(module); err != nil {
		return nil, err
	}
	if err := si.checkBindings(module); err != nil {
		return nil, err
	}
	return si, nil
}

func (si *ShaderInterface) checkEntryPoints(m *ir.Module) error {
	want := map[string]ir.ShaderStage{
		EntryCompute:  ir.StageCompute,
		EntryVertex:   ir.StageVertex,
		EntryFragment: ir.StageFragment,
	}
	found := make(map[string]bool, len(want))
	for _, ep := range m.EntryPoints {
		stage, ok := want[ep.Name]
		if !ok {
			continue
		}
		if ep.Stage != stage {
			return fmt.Errorf("%w: entry point %q has stage %d, want %d",
				ErrShaderInterface, ep.Name, ep.Stage, stage)
		}
		found[ep.Name] = true
		if ep.Name == EntryCompute {
			si.Workgroup = ep.Workgroup
		}
	}
	for _, name := range []string{EntryCompute, EntryVertex, EntryFragment} {
		if !found[name] {
			return fmt.Errorf("%w: missing entry point %q", ErrShaderInterface, name)
		}
	}
	return nil
}

func (si *ShaderInterface) checkBindings(m *ir.Module) error {
	for _, gv := range m.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		b := gv.Binding
		slot, ok := slotAt(b.Group, b.Binding)
		if !ok {
			return fmt.Errorf("%w: %q at @group(%d) @binding(%d) is not in the binding table",
				ErrShaderInterface, gv.Name, b.Group, b.Binding)
		}
		if int(gv.Type) >= len(m.Types) {
			return fmt.Errorf("%w: %q has an unresolved type", ErrShaderInterface, gv.Name)
		}
		if got, ok := kindOf(m.Types[gv.Type].Inner); !ok || got != slot.kind {
			return fmt.Errorf("%w: %q (binding %q, index %d) is not a %s",
				ErrShaderInterface, gv.Name, slot.Name, slot.Index, slot.kind)
		}
		si.Bindings[b.Binding] = gv.Name
	}
	for _, slot := range bindingTable {
		if _, ok := si.Bindings[slot.Index]; !ok {
			return fmt.Errorf("%w: binding %q (index %d) is not declared",
				ErrShaderInterface, slot.Name, slot.Index)
		}
	}
	return nil
}

// slotAt finds the table slot declared at group/index.
func slotAt(group, index uint32) (BindingSlot, bool) {
	for _, s := range bindingTable {
		if s.Group == group && s.Index == index {
			return s, true
		}
	}
	return BindingSlot{}, false
}

// kindOf classifies a resource type the way the binding table does. Only
// non-arrayed, single-sampled 2D images qualify.
func kindOf(inner ir.TypeInner) (bindingKind, bool) {
	switch t := inner.(type) {
	case ir.ImageType:
		if t.Dim != ir.Dim2D || t.Arrayed || t.Multisampled {
			return 0, false
		}
		switch t.Class {
		case ir.ImageClassStorage:
			return bindingStorageTexture, true
		case ir.ImageClassSampled:
			return bindingSampledTexture, true
		}
	case ir.SamplerType:
		if !t.Comparison {
			return bindingFilteringSampler, true
		}
	}
	return 0, false
}

// DispatchSize returns the workgroup grid covering a width x height texture.
// Partial groups at the right and bottom edges are included; the shader
// bounds-checks its invocation id.
func (si *ShaderInterface) DispatchSize(width, height uint32) (x, y, z uint32) {
	wx, wy := max(si.Workgroup[0], 1), max(si.Workgroup[1], 1)
	return (width + wx - 1) / wx, (height + wy - 1) / wy, 1
}
