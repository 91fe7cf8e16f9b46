package material

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/descriptor"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu/gputest"
	"github.com/spaghettifunk/lumen/engine/renderer/memory"
	"github.com/spaghettifunk/lumen/engine/renderer/pipeline"
)

var spirv = []byte{0x03, 0x02, 0x23, 0x07, 0, 0, 1, 0}

type fixture struct {
	device    *gputest.Device
	allocator *memory.Allocator
	layout    *descriptor.Layout
	pipeline  *pipeline.Pipeline
	material  *Material
	uniform   *memory.Buffer
	storage   *memory.Buffer
	dynamic   *memory.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	device := gputest.NewDevice()
	cfg := memory.DefaultConfig()
	cfg.BlockSize = 1 << 20
	allocator, err := memory.New(device, cfg)
	require.NoError(t, err)

	layout := descriptor.NewLayout(device).
		AddBinding(0, 0, gpu.DescriptorTypeUniformBuffer, gpu.ShaderStageAllGraphics, 1).
		AddBinding(0, 1, gpu.DescriptorTypeStorageBuffer, gpu.ShaderStageFragment, 1).
		AddBinding(1, 0, gpu.DescriptorTypeUniformBufferDynamic, gpu.ShaderStageVertex, 1)
	require.NoError(t, layout.Generate())

	pcfg := pipeline.DefaultConfig()
	pcfg.Stages = []pipeline.Stage{
		{Stage: gpu.ShaderStageVertex, Code: spirv},
		{Stage: gpu.ShaderStageFragment, Code: spirv},
	}
	pcfg.Layout = layout
	p, err := pipeline.New(device, pcfg)
	require.NoError(t, err)

	m, err := New(allocator, layout)
	require.NoError(t, err)

	f := &fixture{device: device, allocator: allocator, layout: layout, pipeline: p, material: m}
	f.uniform, err = allocator.CreateBuffer(256, gpu.BufferUsageUniform, memory.ClassCPUVisible)
	require.NoError(t, err)
	f.storage, err = allocator.CreateBuffer(1024, gpu.BufferUsageStorage, memory.ClassGPUOnly)
	require.NoError(t, err)
	f.dynamic, err = allocator.CreateBuffer(4*256, gpu.BufferUsageUniform, memory.ClassCPUVisible)
	require.NoError(t, err)
	return f
}

func (f *fixture) stageAll(t *testing.T) {
	t.Helper()
	require.NoError(t, f.material.UpdateDescriptorBufferInfo(0, 0, f.uniform, 0, 0))
	require.NoError(t, f.material.UpdateDescriptorBufferInfo(0, 1, f.storage, 0, 0))
	require.NoError(t, f.material.UpdateDescriptorBufferInfo(1, 0, f.dynamic, 0, 256))
}

func TestNewAllocatesOneSetPerLayout(t *testing.T) {
	f := newFixture(t)
	require.Len(t, f.material.Sets(), 2)
	require.Equal(t, []int{2, 1}, []int{len(f.layout.Bindings(0)), len(f.layout.Bindings(1))})
	require.Equal(t, 2, f.allocator.LiveDescriptorSets())
}

func TestNewRequiresGeneratedLayout(t *testing.T) {
	f := newFixture(t)
	layout := descriptor.NewLayout(f.device).
		AddBinding(0, 0, gpu.DescriptorTypeUniformBuffer, gpu.ShaderStageVertex, 1)

	_, err := New(f.allocator, layout)
	require.ErrorIs(t, err, core.ErrContractViolation)
}

func TestBindIssuesOneCallWithDynamicOffset(t *testing.T) {
	f := newFixture(t)
	f.stageAll(t)
	require.NoError(t, f.material.UpdateDescriptorSets())
	require.NoError(t, f.material.UpdateDynamicOffset(1, 512))

	f.device.ClearCalls()
	require.NoError(t, f.material.Bind(gpu.CommandBuffer(7), f.pipeline))

	calls := f.device.CallsTo("CmdBindDescriptorSets")
	require.Len(t, calls, 1)
	require.Equal(t, f.pipeline.Layout(), calls[0].Args[1])
	require.Equal(t, uint32(0), calls[0].Args[2])
	require.Equal(t, f.material.Sets(), calls[0].Args[3])
	require.Equal(t, []uint32{512}, calls[0].Args[4])
}

func TestStagedWritesAreInvisibleUntilFlushed(t *testing.T) {
	f := newFixture(t)
	f.device.ClearCalls()
	f.stageAll(t)

	require.Empty(t, f.device.CallsTo("UpdateDescriptorSets"))
	require.Equal(t, 3, f.material.Pending())
	_, ok := f.device.DescriptorWrite(f.material.Sets()[0], 0)
	require.False(t, ok)

	require.NoError(t, f.material.UpdateDescriptorSets())
	calls := f.device.CallsTo("UpdateDescriptorSets")
	require.Len(t, calls, 1)
	writes := calls[0].Args[0].([]gpu.WriteDescriptorSet)
	require.Len(t, writes, 3)
	require.Equal(t, f.material.Sets()[0], writes[0].Set)
	require.Equal(t, uint32(0), writes[0].Binding)
	require.Equal(t, uint32(1), writes[1].Binding)
	require.Equal(t, f.material.Sets()[1], writes[2].Set)
	require.Zero(t, f.material.Pending())

	// Nothing left to push.
	require.NoError(t, f.material.UpdateDescriptorSets())
	require.Len(t, f.device.CallsTo("UpdateDescriptorSets"), 1)
}

func TestFlushSingleBindingLeavesOthersStaged(t *testing.T) {
	f := newFixture(t)
	f.stageAll(t)
	require.NoError(t, f.material.UpdateDescriptorSets())

	before, ok := f.device.DescriptorWrite(f.material.Sets()[0], 0)
	require.True(t, ok)

	other, err := f.allocator.CreateBuffer(512, gpu.BufferUsageStorage, memory.ClassGPUOnly)
	require.NoError(t, err)
	require.NoError(t, f.material.UpdateDescriptorBufferInfo(0, 1, other, 0, 128))
	require.NoError(t, f.material.UpdateDescriptorBufferInfo(1, 0, f.dynamic, 256, 256))

	require.NoError(t, f.material.UpdateDescriptorSetBinding(0, 1))
	require.Equal(t, 1, f.material.Pending())

	after, ok := f.device.DescriptorWrite(f.material.Sets()[0], 0)
	require.True(t, ok)
	require.Equal(t, before, after)

	w, ok := f.device.DescriptorWrite(f.material.Sets()[0], 1)
	require.True(t, ok)
	require.Equal(t, []gpu.DescriptorBufferInfo{{Buffer: other.Handle(), Offset: 0, Range: 128}}, w.BufferInfo)

	dyn, ok := f.device.DescriptorWrite(f.material.Sets()[1], 0)
	require.True(t, ok)
	require.Equal(t, uint64(0), dyn.BufferInfo[0].Offset)

	require.NoError(t, f.material.UpdateDescriptorSet(1))
	dyn, _ = f.device.DescriptorWrite(f.material.Sets()[1], 0)
	require.Equal(t, uint64(256), dyn.BufferInfo[0].Offset)
}

func TestDynamicOffsetOnlyForDynamicSets(t *testing.T) {
	f := newFixture(t)
	f.stageAll(t)
	require.NoError(t, f.material.UpdateDescriptorSets())

	// Set 0 has no dynamic binding, so its offset never reaches the bind call.
	require.NoError(t, f.material.UpdateDynamicOffset(0, 64))
	require.NoError(t, f.material.UpdateDynamicOffset(1, 256))

	f.device.ClearCalls()
	require.NoError(t, f.material.Bind(gpu.CommandBuffer(1), f.pipeline))
	require.NoError(t, f.material.BindSet(gpu.CommandBuffer(1), f.pipeline, 0))
	require.NoError(t, f.material.BindSet(gpu.CommandBuffer(1), f.pipeline, 1))

	calls := f.device.CallsTo("CmdBindDescriptorSets")
	require.Len(t, calls, 3)
	require.Equal(t, []uint32{256}, calls[0].Args[4])
	require.Empty(t, calls[1].Args[4])
	require.Equal(t, uint32(1), calls[2].Args[2])
	require.Equal(t, []uint32{256}, calls[2].Args[4])
}

func TestUpdateRejectsInvalidTargets(t *testing.T) {
	f := newFixture(t)
	image, err := f.allocator.CreateImage(gpu.ImageCreateInfo{
		Width: 4, Height: 4, Format: gpu.FormatR8G8B8A8Unorm, Tiling: gpu.ImageTilingOptimal,
	})
	require.NoError(t, err)
	view, err := image.CreateView(gpu.ImageAspectColor)
	require.NoError(t, err)

	destroyed, err := f.allocator.CreateBuffer(64, gpu.BufferUsageUniform, memory.ClassCPUVisible)
	require.NoError(t, err)
	destroyed.Destroy()

	tests := []struct {
		name string
		call func() error
	}{
		{"set out of range", func() error { return f.material.UpdateDescriptorBufferInfo(2, 0, f.uniform, 0, 0) }},
		{"unknown binding", func() error { return f.material.UpdateDescriptorBufferInfo(0, 5, f.uniform, 0, 0) }},
		{"nil buffer", func() error { return f.material.UpdateDescriptorBufferInfo(0, 0, nil, 0, 0) }},
		{"destroyed buffer", func() error { return f.material.UpdateDescriptorBufferInfo(0, 0, destroyed, 0, 0) }},
		{"offset past end", func() error { return f.material.UpdateDescriptorBufferInfo(0, 0, f.uniform, 256, 0) }},
		{"range past end", func() error { return f.material.UpdateDescriptorBufferInfo(0, 0, f.uniform, 128, 256) }},
		{"image on buffer binding", func() error {
			return f.material.UpdateDescriptorImageInfo(0, 0, view, 0, gpu.ImageLayoutShaderReadOnlyOptimal)
		}},
		{"flush unknown set", func() error { return f.material.UpdateDescriptorSet(3) }},
		{"flush unknown binding", func() error { return f.material.UpdateDescriptorSetBinding(1, 4) }},
		{"offset for unknown set", func() error { return f.material.UpdateDynamicOffset(2, 0) }},
		{"bind unknown set", func() error { return f.material.BindSet(0, f.pipeline, 2) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.call(), core.ErrContractViolation)
		})
	}
	require.Zero(t, f.material.Pending())
}

func TestBindRejectsStaleLayout(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.layout.Generate())

	err := f.material.Bind(gpu.CommandBuffer(1), f.pipeline)
	require.ErrorIs(t, err, core.ErrContractViolation)
	require.Empty(t, f.device.CallsTo("CmdBindDescriptorSets"))
}

func TestBindRejectsLayoutAfterFailedRegenerate(t *testing.T) {
	f := newFixture(t)
	f.stageAll(t)
	require.NoError(t, f.material.UpdateDescriptorSets())

	f.device.FailNext("CreateDescriptorSetLayout", gpu.ErrorOutOfDeviceMemory)
	require.ErrorIs(t, f.layout.Generate(), core.ErrResourceCreation)
	require.False(t, f.layout.Generated())

	err := f.material.Bind(gpu.CommandBuffer(1), f.pipeline)
	require.ErrorIs(t, err, core.ErrContractViolation)
	require.Empty(t, f.device.CallsTo("CmdBindDescriptorSets"))
}

func TestBindRejectsBindingAddedAfterGenerate(t *testing.T) {
	f := newFixture(t)
	f.layout.AddBinding(0, 2, gpu.DescriptorTypeUniformBuffer, gpu.ShaderStageVertex, 1)
	require.False(t, f.layout.Generated())

	err := f.material.Bind(gpu.CommandBuffer(1), f.pipeline)
	require.ErrorIs(t, err, core.ErrContractViolation)

	_, err = New(f.allocator, f.layout)
	require.ErrorIs(t, err, core.ErrContractViolation)

	require.NoError(t, f.layout.Generate())
	require.True(t, f.layout.Generated())
	require.Len(t, f.device.SetLayoutBindings(f.layout.Handles()[0]), 3)
}

func TestImageSamplerWriteIsFlushed(t *testing.T) {
	device := gputest.NewDevice()
	allocator, err := memory.New(device, memory.DefaultConfig())
	require.NoError(t, err)

	layout := descriptor.NewLayout(device).
		AddBinding(0, 0, gpu.DescriptorTypeCombinedImageSampler, gpu.ShaderStageFragment, 1)
	require.NoError(t, layout.Generate())
	m, err := New(allocator, layout)
	require.NoError(t, err)

	image, err := allocator.CreateImage(gpu.ImageCreateInfo{
		Width: 4, Height: 4, Format: gpu.FormatR8G8B8A8Unorm, Tiling: gpu.ImageTilingOptimal,
	})
	require.NoError(t, err)
	view, err := image.CreateView(gpu.ImageAspectColor)
	require.NoError(t, err)
	sampler, err := device.CreateSampler(gpu.SamplerCreateInfo{LinearFilter: true, MaxAnisotropy: 1})
	require.NoError(t, err)
	defer device.DestroySampler(sampler)

	require.NoError(t, m.UpdateDescriptorImageInfo(0, 0, view, sampler, gpu.ImageLayoutShaderReadOnlyOptimal))
	require.Equal(t, 1, m.Pending())
	_, ok := device.DescriptorWrite(m.Sets()[0], 0)
	require.False(t, ok)

	require.NoError(t, m.UpdateDescriptorSets())
	require.Zero(t, m.Pending())

	calls := device.CallsTo("UpdateDescriptorSets")
	require.Len(t, calls, 1)
	writes := calls[0].Args[0].([]gpu.WriteDescriptorSet)
	require.Equal(t, []gpu.WriteDescriptorSet{{
		Set:       m.Sets()[0],
		Binding:   0,
		Type:      gpu.DescriptorTypeCombinedImageSampler,
		ImageInfo: []gpu.DescriptorImageInfo{{Sampler: sampler, View: view, Layout: gpu.ImageLayoutShaderReadOnlyOptimal}},
	}}, writes)

	w, ok := device.DescriptorWrite(m.Sets()[0], 0)
	require.True(t, ok)
	require.Equal(t, sampler, w.ImageInfo[0].Sampler)
}

func TestBindRejectsForeignPipeline(t *testing.T) {
	f := newFixture(t)
	other := descriptor.NewLayout(f.device).
		AddBinding(0, 0, gpu.DescriptorTypeUniformBuffer, gpu.ShaderStageVertex, 1)
	require.NoError(t, other.Generate())

	pcfg := pipeline.DefaultConfig()
	pcfg.Stages = []pipeline.Stage{{Stage: gpu.ShaderStageVertex, Code: spirv}}
	pcfg.Layout = other
	p, err := pipeline.New(f.device, pcfg)
	require.NoError(t, err)

	require.ErrorIs(t, f.material.Bind(gpu.CommandBuffer(1), p), core.ErrContractViolation)
}

func TestDestroyReturnsSetsToPool(t *testing.T) {
	f := newFixture(t)
	f.stageAll(t)

	require.NoError(t, f.material.Destroy())
	require.NoError(t, f.material.Destroy())
	require.Zero(t, f.allocator.LiveDescriptorSets())
	require.Zero(t, f.material.Pending())
	require.Len(t, f.device.CallsTo("FreeDescriptorSets"), 1)
}
