package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
)

var formats = map[gpu.Format]vk.Format{
	gpu.FormatUndefined:          vk.FormatUndefined,
	gpu.FormatR8G8B8A8Unorm:      vk.FormatR8g8b8a8Unorm,
	gpu.FormatR8G8B8A8Srgb:       vk.FormatR8g8b8a8Srgb,
	gpu.FormatB8G8R8A8Unorm:      vk.FormatB8g8r8a8Unorm,
	gpu.FormatB8G8R8A8Srgb:       vk.FormatB8g8r8a8Srgb,
	gpu.FormatR32G32Sfloat:       vk.FormatR32g32Sfloat,
	gpu.FormatR32G32B32Sfloat:    vk.FormatR32g32b32Sfloat,
	gpu.FormatR32G32B32A32Sfloat: vk.FormatR32g32b32a32Sfloat,
	gpu.FormatD32Sfloat:          vk.FormatD32Sfloat,
	gpu.FormatD32SfloatS8Uint:    vk.FormatD32SfloatS8Uint,
	gpu.FormatD24UnormS8Uint:     vk.FormatD24UnormS8Uint,
}

func toVkFormat(f gpu.Format) vk.Format {
	if v, ok := formats[f]; ok {
		return v
	}
	return vk.FormatUndefined
}

func fromVkFormat(f vk.Format) gpu.Format {
	for k, v := range formats {
		if v == f {
			return k
		}
	}
	return gpu.FormatUndefined
}

func toVkDescriptorType(t gpu.DescriptorType) vk.DescriptorType {
	switch t {
	case gpu.DescriptorTypeUniformBufferDynamic:
		return vk.DescriptorTypeUniformBufferDynamic
	case gpu.DescriptorTypeStorageBuffer:
		return vk.DescriptorTypeStorageBuffer
	case gpu.DescriptorTypeStorageBufferDynamic:
		return vk.DescriptorTypeStorageBufferDynamic
	case gpu.DescriptorTypeCombinedImageSampler:
		return vk.DescriptorTypeCombinedImageSampler
	}
	return vk.DescriptorTypeUniformBuffer
}

// flagBits maps each bit of a gpu flag set onto its Vulkan counterpart.
type flagBits[F ~uint32] []struct {
	from F
	to   uint32
}

func (b flagBits[F]) convert(f F) uint32 {
	var out uint32
	for _, bit := range b {
		if f&bit.from != 0 {
			out |= bit.to
		}
	}
	return out
}

var shaderStageBits = flagBits[gpu.ShaderStageFlags]{
	{gpu.ShaderStageVertex, uint32(vk.ShaderStageVertexBit)},
	{gpu.ShaderStageFragment, uint32(vk.ShaderStageFragmentBit)},
	{gpu.ShaderStageCompute, uint32(vk.ShaderStageComputeBit)},
}

var bufferUsageBits = flagBits[gpu.BufferUsageFlags]{
	{gpu.BufferUsageTransferSrc, uint32(vk.BufferUsageTransferSrcBit)},
	{gpu.BufferUsageTransferDst, uint32(vk.BufferUsageTransferDstBit)},
	{gpu.BufferUsageUniform, uint32(vk.BufferUsageUniformBufferBit)},
	{gpu.BufferUsageStorage, uint32(vk.BufferUsageStorageBufferBit)},
	{gpu.BufferUsageIndex, uint32(vk.BufferUsageIndexBufferBit)},
	{gpu.BufferUsageVertex, uint32(vk.BufferUsageVertexBufferBit)},
}

var imageUsageBits = flagBits[gpu.ImageUsageFlags]{
	{gpu.ImageUsageTransferSrc, uint32(vk.ImageUsageTransferSrcBit)},
	{gpu.ImageUsageTransferDst, uint32(vk.ImageUsageTransferDstBit)},
	{gpu.ImageUsageSampled, uint32(vk.ImageUsageSampledBit)},
	{gpu.ImageUsageColorAttachment, uint32(vk.ImageUsageColorAttachmentBit)},
	{gpu.ImageUsageDepthStencilAttachment, uint32(vk.ImageUsageDepthStencilAttachmentBit)},
}

var aspectBits = flagBits[gpu.ImageAspectFlags]{
	{gpu.ImageAspectColor, uint32(vk.ImageAspectColorBit)},
	{gpu.ImageAspectDepth, uint32(vk.ImageAspectDepthBit)},
	{gpu.ImageAspectStencil, uint32(vk.ImageAspectStencilBit)},
}

var colorComponentBits = flagBits[gpu.ColorComponentFlags]{
	{gpu.ColorComponentR, uint32(vk.ColorComponentRBit)},
	{gpu.ColorComponentG, uint32(vk.ColorComponentGBit)},
	{gpu.ColorComponentB, uint32(vk.ColorComponentBBit)},
	{gpu.ColorComponentA, uint32(vk.ColorComponentABit)},
}

var pipelineStageBits = flagBits[gpu.PipelineStageFlags]{
	{gpu.PipelineStageTopOfPipe, uint32(vk.PipelineStageTopOfPipeBit)},
	{gpu.PipelineStageEarlyFragmentTests, uint32(vk.PipelineStageEarlyFragmentTestsBit)},
	{gpu.PipelineStageLateFragmentTests, uint32(vk.PipelineStageLateFragmentTestsBit)},
	{gpu.PipelineStageColorAttachmentOutput, uint32(vk.PipelineStageColorAttachmentOutputBit)},
	{gpu.PipelineStageBottomOfPipe, uint32(vk.PipelineStageBottomOfPipeBit)},
}

var accessBits = flagBits[gpu.AccessFlags]{
	{gpu.AccessColorAttachmentWrite, uint32(vk.AccessColorAttachmentWriteBit)},
	{gpu.AccessDepthStencilAttachmentRead, uint32(vk.AccessDepthStencilAttachmentReadBit)},
	{gpu.AccessDepthStencilAttachmentWrite, uint32(vk.AccessDepthStencilAttachmentWriteBit)},
}

var commandBufferUsageBits = flagBits[gpu.CommandBufferUsageFlags]{
	{gpu.CommandBufferUsageOneTimeSubmit, uint32(vk.CommandBufferUsageOneTimeSubmitBit)},
	{gpu.CommandBufferUsageSimultaneousUse, uint32(vk.CommandBufferUsageSimultaneousUseBit)},
}

func toVkImageLayout(l gpu.ImageLayout) vk.ImageLayout {
	switch l {
	case gpu.ImageLayoutGeneral:
		return vk.ImageLayoutGeneral
	case gpu.ImageLayoutColorAttachmentOptimal:
		return vk.ImageLayoutColorAttachmentOptimal
	case gpu.ImageLayoutDepthStencilAttachmentOptimal:
		return vk.ImageLayoutDepthStencilAttachmentOptimal
	case gpu.ImageLayoutShaderReadOnlyOptimal:
		return vk.ImageLayoutShaderReadOnlyOptimal
	case gpu.ImageLayoutTransferDstOptimal:
		return vk.ImageLayoutTransferDstOptimal
	case gpu.ImageLayoutPresentSrc:
		return vk.ImageLayoutPresentSrc
	}
	return vk.ImageLayoutUndefined
}

func toVkTiling(t gpu.ImageTiling) vk.ImageTiling {
	if t == gpu.ImageTilingLinear {
		return vk.ImageTilingLinear
	}
	return vk.ImageTilingOptimal
}

func toVkTopology(t gpu.PrimitiveTopology) vk.PrimitiveTopology {
	switch t {
	case gpu.PrimitiveTopologyTriangleStrip:
		return vk.PrimitiveTopologyTriangleStrip
	case gpu.PrimitiveTopologyLineList:
		return vk.PrimitiveTopologyLineList
	case gpu.PrimitiveTopologyPointList:
		return vk.PrimitiveTopologyPointList
	}
	return vk.PrimitiveTopologyTriangleList
}

func toVkPolygonMode(m gpu.PolygonMode) vk.PolygonMode {
	switch m {
	case gpu.PolygonModeLine:
		return vk.PolygonModeLine
	case gpu.PolygonModePoint:
		return vk.PolygonModePoint
	}
	return vk.PolygonModeFill
}

func toVkCullMode(m gpu.CullMode) vk.CullModeFlags {
	switch m {
	case gpu.CullModeNone:
		return vk.CullModeFlags(vk.CullModeNone)
	case gpu.CullModeFront:
		return vk.CullModeFlags(vk.CullModeFrontBit)
	case gpu.CullModeFrontAndBack:
		return vk.CullModeFlags(vk.CullModeFrontAndBack)
	}
	return vk.CullModeFlags(vk.CullModeBackBit)
}

func toVkFrontFace(f gpu.FrontFace) vk.FrontFace {
	if f == gpu.FrontFaceClockwise {
		return vk.FrontFaceClockwise
	}
	return vk.FrontFaceCounterClockwise
}

var compareOps = map[gpu.CompareOp]vk.CompareOp{
	gpu.CompareOpNever:          vk.CompareOpNever,
	gpu.CompareOpLess:           vk.CompareOpLess,
	gpu.CompareOpEqual:          vk.CompareOpEqual,
	gpu.CompareOpLessOrEqual:    vk.CompareOpLessOrEqual,
	gpu.CompareOpGreater:        vk.CompareOpGreater,
	gpu.CompareOpNotEqual:       vk.CompareOpNotEqual,
	gpu.CompareOpGreaterOrEqual: vk.CompareOpGreaterOrEqual,
	gpu.CompareOpAlways:         vk.CompareOpAlways,
}

func toVkBlendFactor(f gpu.BlendFactor) vk.BlendFactor {
	switch f {
	case gpu.BlendFactorOne:
		return vk.BlendFactorOne
	case gpu.BlendFactorSrcAlpha:
		return vk.BlendFactorSrcAlpha
	case gpu.BlendFactorOneMinusSrcAlpha:
		return vk.BlendFactorOneMinusSrcAlpha
	}
	return vk.BlendFactorZero
}

func toVkBlendOp(op gpu.BlendOp) vk.BlendOp {
	if op == gpu.BlendOpSubtract {
		return vk.BlendOpSubtract
	}
	return vk.BlendOpAdd
}

func toVkDynamicState(s gpu.DynamicState) vk.DynamicState {
	switch s {
	case gpu.DynamicStateScissor:
		return vk.DynamicStateScissor
	case gpu.DynamicStateLineWidth:
		return vk.DynamicStateLineWidth
	}
	return vk.DynamicStateViewport
}

func toVkSampleCount(samples uint32) vk.SampleCountFlagBits {
	switch samples {
	case 2:
		return vk.SampleCount2Bit
	case 4:
		return vk.SampleCount4Bit
	case 8:
		return vk.SampleCount8Bit
	}
	return vk.SampleCount1Bit
}

func toVkIndexType(t gpu.IndexType) vk.IndexType {
	if t == gpu.IndexTypeUint16 {
		return vk.IndexTypeUint16
	}
	return vk.IndexTypeUint32
}

func toVkLoadOp(op gpu.AttachmentLoadOp) vk.AttachmentLoadOp {
	switch op {
	case gpu.AttachmentLoadOpClear:
		return vk.AttachmentLoadOpClear
	case gpu.AttachmentLoadOpDontCare:
		return vk.AttachmentLoadOpDontCare
	}
	return vk.AttachmentLoadOpLoad
}

func toVkStoreOp(op gpu.AttachmentStoreOp) vk.AttachmentStoreOp {
	if op == gpu.AttachmentStoreOpDontCare {
		return vk.AttachmentStoreOpDontCare
	}
	return vk.AttachmentStoreOpStore
}

func vkBool(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}
