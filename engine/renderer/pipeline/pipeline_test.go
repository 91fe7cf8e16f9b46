package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/descriptor"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu/gputest"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu/mocks"
)

var spirv = []byte{0x03, 0x02, 0x23, 0x07, 0, 0, 1, 0}

func testConfig(layout *descriptor.Layout) Config {
	cfg := DefaultConfig()
	cfg.Stages = []Stage{
		{Stage: gpu.ShaderStageVertex, Code: spirv},
		{Stage: gpu.ShaderStageFragment, Code: spirv, EntryPoint: "fragMain"},
	}
	cfg.VertexBindings = []gpu.VertexBinding{{Binding: 0, Stride: 16}}
	cfg.VertexAttributes = []gpu.VertexAttribute{{Location: 0, Binding: 0, Format: gpu.FormatR32G32B32A32Sfloat}}
	cfg.Layout = layout
	return cfg
}

func generatedLayout(t *testing.T, device gpu.Device) *descriptor.Layout {
	t.Helper()
	layout := descriptor.NewLayout(device).
		AddBinding(0, 0, gpu.DescriptorTypeUniformBuffer, gpu.ShaderStageVertex, 1)
	require.NoError(t, layout.Generate())
	return layout
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, gpu.PrimitiveTopologyTriangleList, cfg.Topology)
	require.Equal(t, gpu.CullModeBack, cfg.Rasterization.CullMode)
	require.Equal(t, gpu.FrontFaceCounterClockwise, cfg.Rasterization.FrontFace)
	require.Equal(t, float32(1), cfg.Rasterization.LineWidth)
	require.Equal(t, uint32(1), cfg.Samples)
	require.True(t, cfg.DepthStencil.TestEnable)
	require.True(t, cfg.DepthStencil.WriteEnable)
	require.Equal(t, gpu.CompareOpLess, cfg.DepthStencil.CompareOp)
	require.False(t, cfg.ColorBlend[0].BlendEnable)
	require.Equal(t, gpu.ColorComponentAll, cfg.ColorBlend[0].WriteMask)
	require.Equal(t, gpu.FormatD32Sfloat, cfg.DepthFormat)
	require.Equal(t, []gpu.DynamicState{gpu.DynamicStateViewport, gpu.DynamicStateScissor}, cfg.DynamicStates)
}

func TestNewPassesConfigThrough(t *testing.T) {
	device := gputest.NewDevice()
	layout := generatedLayout(t, device)

	p, err := New(device, testConfig(layout))
	require.NoError(t, err)

	info, ok := device.PipelineInfo(p.Handle())
	require.True(t, ok)
	require.Equal(t, p.Layout(), info.Layout)
	require.Len(t, info.Stages, 2)
	require.Equal(t, "main", info.Stages[0].EntryPoint)
	require.Equal(t, "fragMain", info.Stages[1].EntryPoint)
	require.Equal(t, []gpu.Format{gpu.FormatB8G8R8A8Unorm}, info.ColorFormats)
	require.Equal(t, layout.Generation(), p.LayoutGeneration())

	layoutInfo := device.CallsTo("CreatePipelineLayout")[0].Args[0].(gpu.PipelineLayoutCreateInfo)
	require.Equal(t, layout.Handles(), layoutInfo.SetLayouts)

	p.Destroy()
	layout.Destroy()
	require.Zero(t, device.Live())
}

func TestValidate(t *testing.T) {
	device := gputest.NewDevice()
	layout := generatedLayout(t, device)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no stages", func(c *Config) { c.Stages = nil }},
		{"no vertex stage", func(c *Config) { c.Stages = c.Stages[1:] }},
		{"empty code", func(c *Config) { c.Stages[0].Code = nil }},
		{"unaligned code", func(c *Config) { c.Stages[0].Code = spirv[:6] }},
		{"undeclared binding", func(c *Config) { c.VertexAttributes[0].Binding = 3 }},
		{"no color formats", func(c *Config) { c.ColorFormats = nil }},
		{"blend mismatch", func(c *Config) { c.ColorBlend = nil }},
		{"bad depth format", func(c *Config) { c.DepthFormat = gpu.FormatR8G8B8A8Unorm }},
		{"zero samples", func(c *Config) { c.Samples = 0 }},
		{"missing layout", func(c *Config) { c.Layout = nil }},
		{"ungenerated layout", func(c *Config) { c.Layout = descriptor.NewLayout(device) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(layout)
			tt.mutate(&cfg)
			_, err := New(device, cfg)
			require.ErrorIs(t, err, core.ErrContractViolation)
		})
	}
	require.Empty(t, device.CallsTo("CreateShaderModule"))
}

func TestDestroyOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewMockDevice(ctrl)

	device.EXPECT().CreateDescriptorSetLayout(gomock.Any()).Return(gpu.DescriptorSetLayout(1), nil)
	layout := generatedLayout(t, device)

	gomock.InOrder(
		device.EXPECT().CreateShaderModule(spirv).Return(gpu.ShaderModule(10), nil),
		device.EXPECT().CreateShaderModule(spirv).Return(gpu.ShaderModule(11), nil),
		device.EXPECT().CreatePipelineLayout(gomock.Any()).Return(gpu.PipelineLayout(20), nil),
		device.EXPECT().CreateGraphicsPipeline(gomock.Any()).Return(gpu.Pipeline(30), nil),
		device.EXPECT().DestroyPipeline(gpu.Pipeline(30)),
		device.EXPECT().DestroyPipelineLayout(gpu.PipelineLayout(20)),
		device.EXPECT().DestroyShaderModule(gpu.ShaderModule(11)),
		device.EXPECT().DestroyShaderModule(gpu.ShaderModule(10)),
	)

	p, err := New(device, testConfig(layout))
	require.NoError(t, err)
	p.Destroy()
	p.Destroy()
}

func TestFailedCreationUnwinds(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewMockDevice(ctrl)

	device.EXPECT().CreateDescriptorSetLayout(gomock.Any()).Return(gpu.DescriptorSetLayout(1), nil)
	layout := generatedLayout(t, device)

	gomock.InOrder(
		device.EXPECT().CreateShaderModule(spirv).Return(gpu.ShaderModule(10), nil),
		device.EXPECT().CreateShaderModule(spirv).Return(gpu.ShaderModule(11), nil),
		device.EXPECT().CreatePipelineLayout(gomock.Any()).Return(gpu.PipelineLayout(20), nil),
		device.EXPECT().CreateGraphicsPipeline(gomock.Any()).
			Return(gpu.Pipeline(0), &gpu.ResultError{Op: "vkCreateGraphicsPipelines", Result: gpu.ErrorInitializationFailed}),
		device.EXPECT().DestroyPipelineLayout(gpu.PipelineLayout(20)),
		device.EXPECT().DestroyShaderModule(gpu.ShaderModule(11)),
		device.EXPECT().DestroyShaderModule(gpu.ShaderModule(10)),
	)

	_, err := New(device, testConfig(layout))
	require.ErrorIs(t, err, core.ErrResourceCreation)
	require.Equal(t, gpu.ErrorInitializationFailed, gpu.ResultOf(err))
}
