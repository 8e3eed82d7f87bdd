package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestNewResources(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	rec := newRecorder()
	dev := &recordingDevice{Device: device, rec: rec}

	res, err := NewResources(dev, queue, 1280, 720)
	if err != nil {
		t.Fatalf("NewResources failed: %v", err)
	}

	if w, h := res.Extent(); w != 1280 || h != 720 {
		t.Errorf("Extent = %dx%d, want 1280x720", w, h)
	}
	if res.BindGroupLayout() == nil || res.BindGroup() == nil {
		t.Error("bind group and layout must be created")
	}
	if res.sampler == nil || res.vertexBuf == nil || res.indexBuf == nil {
		t.Error("sampler and quad buffers must be created")
	}
	if rec.created["texture"] != 2 || rec.created["view"] != 2 {
		t.Errorf("expected exactly one texture pair with views, got %s", snapshotCounts(rec))
	}
	if rec.created["bind_group"] != 1 {
		t.Errorf("expected one bind group, got %d", rec.created["bind_group"])
	}

	res.Destroy()
	for kind, n := range rec.live {
		if n != 0 {
			t.Errorf("%d %s(s) still alive after Destroy", n, kind)
		}
	}
	// Second Destroy is a no-op.
	res.Destroy()
}

func TestNewResourcesZeroExtent(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	for _, size := range [][2]uint32{{0, 720}, {1280, 0}, {0, 0}} {
		_, err := NewResources(device, queue, size[0], size[1])
		if !errors.Is(err, ErrInvalidExtent) {
			t.Errorf("NewResources(%v) err = %v, want ErrInvalidExtent", size, err)
		}
	}
}

func TestTexturePairUsage(t *testing.T) {
	if outputTextureUsage&gputypes.TextureUsageStorageBinding == 0 {
		t.Error("output texture must be a storage binding")
	}
	if outputTextureUsage&gputypes.TextureUsageCopySrc == 0 {
		t.Error("output texture must be a copy source")
	}
	if outputTextureUsage&gputypes.TextureUsageTextureBinding != 0 {
		t.Error("output texture is never sampled")
	}
	if displayTextureUsage&gputypes.TextureUsageTextureBinding == 0 {
		t.Error("display texture must be sampled")
	}
	if displayTextureUsage&gputypes.TextureUsageCopyDst == 0 {
		t.Error("display texture must be a copy destination")
	}
	if displayTextureUsage&gputypes.TextureUsageStorageBinding != 0 {
		t.Error("display texture is never written by compute")
	}
}

func TestBindGroupEntriesFollowTable(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	res, err := NewResources(device, queue, 64, 64)
	if err != nil {
		t.Fatalf("NewResources failed: %v", err)
	}
	defer res.Destroy()

	entries := res.bindGroupEntries()
	if len(entries) != len(bindingTable) {
		t.Fatalf("got %d entries, want %d", len(entries), len(bindingTable))
	}
	for i, e := range entries {
		slot := bindingTable[i]
		if e.Binding != slot.Index {
			t.Errorf("entry %d binding = %d, want %d", i, e.Binding, slot.Index)
		}
		switch slot.kind {
		case bindingSampledTexture, bindingStorageTexture:
			if _, ok := e.Resource.(gputypes.TextureViewBinding); !ok {
				t.Errorf("%s: resource %T, want TextureViewBinding", slot.Name, e.Resource)
			}
		case bindingFilteringSampler:
			if _, ok := e.Resource.(gputypes.SamplerBinding); !ok {
				t.Errorf("%s: resource %T, want SamplerBinding", slot.Name, e.Resource)
			}
		}
	}
}

func TestNewPipelines(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	rec := newRecorder()
	dev := &recordingDevice{Device: device, rec: rec}

	res, err := NewResources(dev, queue, 320, 200)
	if err != nil {
		t.Fatalf("NewResources failed: %v", err)
	}
	defer res.Destroy()

	pipes, err := NewPipelines(dev, DefaultShaderSource(), res, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("NewPipelines failed: %v", err)
	}

	if rec.created["compute_pipeline"] != 1 || rec.created["render_pipeline"] != 1 {
		t.Errorf("expected one pipeline of each kind, got %s", snapshotCounts(rec))
	}
	if len(rec.targetFormats) != 1 || rec.targetFormats[0] != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("render targets = %v, want [BGRA8Unorm]", rec.targetFormats)
	}
	wantEntries := []string{EntryCompute, EntryVertex, EntryFragment}
	if len(rec.entryPoints) != len(wantEntries) {
		t.Fatalf("entry points = %v, want %v", rec.entryPoints, wantEntries)
	}
	for i, ep := range wantEntries {
		if rec.entryPoints[i] != ep {
			t.Errorf("entry point %d = %q, want %q", i, rec.entryPoints[i], ep)
		}
	}
	if pipes.Interface().Workgroup != [3]uint32{8, 8, 1} {
		t.Errorf("workgroup = %v", pipes.Interface().Workgroup)
	}

	pipes.Destroy()
	if rec.live["compute_pipeline"] != 0 || rec.live["render_pipeline"] != 0 {
		t.Errorf("pipelines alive after Destroy: %s", snapshotCounts(rec))
	}
}

func TestNewPipelinesRejectsMismatchedShader(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	rec := newRecorder()
	dev := &recordingDevice{Device: device, rec: rec}

	res, err := NewResources(dev, queue, 64, 64)
	if err != nil {
		t.Fatalf("NewResources failed: %v", err)
	}
	defer res.Destroy()

	swapped := `
@group(0) @binding(0) var output_tex: texture_storage_2d<rgba8unorm, write>;
@group(0) @binding(1) var display_sampler: sampler;
@group(0) @binding(2) var display_tex: texture_2d<f32>;
` + testEntryPoints

	_, err = NewPipelines(dev, swapped, res, gputypes.TextureFormatBGRA8Unorm)
	if !errors.Is(err, ErrShaderInterface) {
		t.Fatalf("err = %v, want ErrShaderInterface", err)
	}
	if rec.created["compute_pipeline"] != 0 || rec.created["render_pipeline"] != 0 {
		t.Error("no pipeline may be created for a mismatched shader")
	}
}
