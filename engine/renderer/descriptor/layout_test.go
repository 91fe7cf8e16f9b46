package descriptor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu/gputest"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu/mocks"
)

func TestGenerateOrdersSetsAndBindings(t *testing.T) {
	device := gputest.NewDevice()
	layout := NewLayout(device).
		AddBinding(1, 0, gpu.DescriptorTypeUniformBufferDynamic, gpu.ShaderStageAllGraphics, 1).
		AddBinding(0, 2, gpu.DescriptorTypeUniformBuffer, gpu.ShaderStageVertex, 1).
		AddBinding(0, 0, gpu.DescriptorTypeUniformBuffer, gpu.ShaderStageAllGraphics, 1).
		AddBinding(0, 1, gpu.DescriptorTypeStorageBuffer, gpu.ShaderStageFragment, 1)

	require.NoError(t, layout.Generate())
	require.Equal(t, uint64(1), layout.Generation())
	require.Len(t, layout.Handles(), 2)

	set0 := device.SetLayoutBindings(layout.Handles()[0])
	require.Equal(t, []gpu.DescriptorSetLayoutBinding{
		{Binding: 0, Type: gpu.DescriptorTypeUniformBuffer, Count: 1, Stages: gpu.ShaderStageAllGraphics},
		{Binding: 1, Type: gpu.DescriptorTypeStorageBuffer, Count: 1, Stages: gpu.ShaderStageFragment},
		{Binding: 2, Type: gpu.DescriptorTypeUniformBuffer, Count: 1, Stages: gpu.ShaderStageVertex},
	}, set0)

	set1 := device.SetLayoutBindings(layout.Handles()[1])
	require.Equal(t, []gpu.DescriptorSetLayoutBinding{
		{Binding: 0, Type: gpu.DescriptorTypeUniformBufferDynamic, Count: 1, Stages: gpu.ShaderStageAllGraphics},
	}, set1)

	require.False(t, layout.HasDynamic(0))
	require.True(t, layout.HasDynamic(1))
	require.Equal(t, 1, layout.DynamicCount(1))
}

func TestAddBindingLastWriteWins(t *testing.T) {
	device := gputest.NewDevice()
	layout := NewLayout(device).
		AddBinding(0, 0, gpu.DescriptorTypeUniformBuffer, gpu.ShaderStageVertex, 1).
		AddBinding(0, 0, gpu.DescriptorTypeStorageBuffer, gpu.ShaderStageFragment, 0)

	b, ok := layout.Binding(0, 0)
	require.True(t, ok)
	require.Equal(t, Binding{Binding: 0, Type: gpu.DescriptorTypeStorageBuffer, Stages: gpu.ShaderStageFragment, Count: 1}, b)
	require.Len(t, layout.Bindings(0), 1)
}

func TestGenerateRejectsSetGaps(t *testing.T) {
	device := gputest.NewDevice()
	layout := NewLayout(device).
		AddBinding(0, 0, gpu.DescriptorTypeUniformBuffer, gpu.ShaderStageVertex, 1).
		AddBinding(2, 0, gpu.DescriptorTypeUniformBuffer, gpu.ShaderStageVertex, 1)

	err := layout.Generate()
	require.ErrorIs(t, err, core.ErrContractViolation)
	require.Empty(t, device.CallsTo("CreateDescriptorSetLayout"))
	require.Zero(t, layout.Generation())
}

func TestRegenerateDestroysPreviousHandlesFirst(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewMockDevice(ctrl)

	layout := NewLayout(device).
		AddBinding(0, 0, gpu.DescriptorTypeUniformBuffer, gpu.ShaderStageVertex, 1).
		AddBinding(1, 0, gpu.DescriptorTypeUniformBufferDynamic, gpu.ShaderStageVertex, 1)

	gomock.InOrder(
		device.EXPECT().CreateDescriptorSetLayout(gomock.Any()).Return(gpu.DescriptorSetLayout(10), nil),
		device.EXPECT().CreateDescriptorSetLayout(gomock.Any()).Return(gpu.DescriptorSetLayout(11), nil),
		device.EXPECT().DestroyDescriptorSetLayout(gpu.DescriptorSetLayout(11)),
		device.EXPECT().DestroyDescriptorSetLayout(gpu.DescriptorSetLayout(10)),
		device.EXPECT().CreateDescriptorSetLayout(gomock.Any()).Return(gpu.DescriptorSetLayout(20), nil),
		device.EXPECT().CreateDescriptorSetLayout(gomock.Any()).Return(gpu.DescriptorSetLayout(21), nil),
		device.EXPECT().DestroyDescriptorSetLayout(gpu.DescriptorSetLayout(21)),
		device.EXPECT().DestroyDescriptorSetLayout(gpu.DescriptorSetLayout(20)),
	)

	require.NoError(t, layout.Generate())
	require.NoError(t, layout.Generate())
	require.Equal(t, uint64(2), layout.Generation())
	require.Equal(t, []gpu.DescriptorSetLayout{20, 21}, layout.Handles())

	layout.Destroy()
	require.False(t, layout.Generated())
}

func TestGenerateFailureReleasesPartialHandles(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewMockDevice(ctrl)

	layout := NewLayout(device).
		AddBinding(0, 0, gpu.DescriptorTypeUniformBuffer, gpu.ShaderStageVertex, 1).
		AddBinding(1, 0, gpu.DescriptorTypeUniformBuffer, gpu.ShaderStageVertex, 1)

	gomock.InOrder(
		device.EXPECT().CreateDescriptorSetLayout(gomock.Any()).Return(gpu.DescriptorSetLayout(1), nil),
		device.EXPECT().CreateDescriptorSetLayout(gomock.Any()).
			Return(gpu.DescriptorSetLayout(0), &gpu.ResultError{Op: "vkCreateDescriptorSetLayout", Result: gpu.ErrorOutOfHostMemory}),
		device.EXPECT().DestroyDescriptorSetLayout(gpu.DescriptorSetLayout(1)),
	)

	err := layout.Generate()
	require.ErrorIs(t, err, core.ErrResourceCreation)
	require.False(t, layout.Generated())
}

func TestFailedRegenerateAdvancesGeneration(t *testing.T) {
	device := gputest.NewDevice()
	layout := NewLayout(device).
		AddBinding(0, 0, gpu.DescriptorTypeUniformBuffer, gpu.ShaderStageVertex, 1)
	require.NoError(t, layout.Generate())
	before := layout.Generation()

	device.FailNext("CreateDescriptorSetLayout", gpu.ErrorOutOfHostMemory)
	require.ErrorIs(t, layout.Generate(), core.ErrResourceCreation)
	require.NotEqual(t, before, layout.Generation())
	require.False(t, layout.Generated())
	require.Nil(t, layout.Handles())
	require.Len(t, device.CallsTo("DestroyDescriptorSetLayout"), 1)
}

func TestAddBindingAfterGenerateInvalidates(t *testing.T) {
	device := gputest.NewDevice()
	layout := NewLayout(device).
		AddBinding(0, 0, gpu.DescriptorTypeUniformBuffer, gpu.ShaderStageVertex, 1)
	require.NoError(t, layout.Generate())
	generated := layout.Generation()

	layout.AddBinding(0, 1, gpu.DescriptorTypeStorageBuffer, gpu.ShaderStageFragment, 1)
	require.False(t, layout.Generated())
	require.NotEqual(t, generated, layout.Generation())
	stale := layout.Generation()

	layout.AddBinding(0, 2, gpu.DescriptorTypeStorageBuffer, gpu.ShaderStageFragment, 1)
	require.Equal(t, stale, layout.Generation())

	require.NoError(t, layout.Generate())
	require.True(t, layout.Generated())
	require.Len(t, device.SetLayoutBindings(layout.Handles()[0]), 3)

	before := layout.Generation()
	layout.Destroy()
	require.NotEqual(t, before, layout.Generation())
	require.False(t, layout.Generated())
}
