package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
)

func (d *Device) CreateShaderModule(code []byte) (gpu.ShaderModule, error) {
	if len(code) == 0 || len(code)%4 != 0 {
		return 0, core.ContractViolation("SPIR-V bytecode must be a non-empty multiple of 4 bytes, got %d", len(code))
	}
	var module vk.ShaderModule
	res := vk.CreateShaderModule(d.handle, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint64(len(code)),
		PCode:    spirvWords(code),
	}, nil, &module)
	if err := check("vkCreateShaderModule", res); err != nil {
		return 0, err
	}
	return gpu.ShaderModule(d.shaders.add(module)), nil
}

func (d *Device) DestroyShaderModule(module gpu.ShaderModule) {
	if m, ok := d.shaders.remove(uint64(module)); ok {
		vk.DestroyShaderModule(d.handle, m, nil)
	}
}

func (d *Device) CreatePipelineLayout(info gpu.PipelineLayoutCreateInfo) (gpu.PipelineLayout, error) {
	setLayouts := make([]vk.DescriptorSetLayout, len(info.SetLayouts))
	for i, l := range info.SetLayouts {
		setLayouts[i] = d.setLayouts.get(uint64(l))
	}
	ranges := make([]vk.PushConstantRange, len(info.PushConstantRanges))
	for i, r := range info.PushConstantRanges {
		ranges[i] = vk.PushConstantRange{
			StageFlags: vk.ShaderStageFlags(shaderStageBits.convert(r.Stages)),
			Offset:     r.Offset,
			Size:       r.Size,
		}
	}

	var layout vk.PipelineLayout
	res := vk.CreatePipelineLayout(d.handle, &vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         uint32(len(setLayouts)),
		PSetLayouts:            setLayouts,
		PushConstantRangeCount: uint32(len(ranges)),
		PPushConstantRanges:    ranges,
	}, nil, &layout)
	if err := check("vkCreatePipelineLayout", res); err != nil {
		return 0, err
	}
	return gpu.PipelineLayout(d.pipelineLayouts.add(layout)), nil
}

func (d *Device) DestroyPipelineLayout(layout gpu.PipelineLayout) {
	if l, ok := d.pipelineLayouts.remove(uint64(layout)); ok {
		vk.DestroyPipelineLayout(d.handle, l, nil)
	}
}

// CreateGraphicsPipeline builds a pipeline against a render pass derived from
// the attachment formats; any pass with the same formats can draw with it.
// Viewport and scissor are declared with a count of one and are expected
// to be dynamic.
func (d *Device) CreateGraphicsPipeline(info gpu.GraphicsPipelineCreateInfo) (gpu.Pipeline, error) {
	key, err := pipelineRenderPassKey(info.ColorFormats, info.DepthFormat)
	if err != nil {
		return 0, err
	}
	pass, err := d.renderPass(key)
	if err != nil {
		return 0, err
	}

	stages := make([]vk.PipelineShaderStageCreateInfo, len(info.Stages))
	for i, s := range info.Stages {
		stages[i] = vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFlagBits(shaderStageBits.convert(s.Stage)),
			Module: d.shaders.get(uint64(s.Module)),
			PName:  VulkanSafeString(s.EntryPoint),
		}
	}

	bindings := make([]vk.VertexInputBindingDescription, len(info.VertexBindings))
	for i, b := range info.VertexBindings {
		rate := vk.VertexInputRateVertex
		if b.InputRate == gpu.VertexInputRateInstance {
			rate = vk.VertexInputRateInstance
		}
		bindings[i] = vk.VertexInputBindingDescription{Binding: b.Binding, Stride: b.Stride, InputRate: rate}
	}
	attributes := make([]vk.VertexInputAttributeDescription, len(info.VertexAttributes))
	for i, a := range info.VertexAttributes {
		attributes[i] = vk.VertexInputAttributeDescription{
			Location: a.Location,
			Binding:  a.Binding,
			Format:   toVkFormat(a.Format),
			Offset:   a.Offset,
		}
	}
	vertexInput := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(bindings)),
		PVertexBindingDescriptions:      bindings,
		VertexAttributeDescriptionCount: uint32(len(attributes)),
		PVertexAttributeDescriptions:    attributes,
	}

	inputAssembly := vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               toVkTopology(info.Topology),
		PrimitiveRestartEnable: vk.False,
	}

	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		ScissorCount:  1,
	}

	rasterizer := vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        vk.False,
		RasterizerDiscardEnable: vk.False,
		PolygonMode:             toVkPolygonMode(info.Rasterization.PolygonMode),
		CullMode:                toVkCullMode(info.Rasterization.CullMode),
		FrontFace:               toVkFrontFace(info.Rasterization.FrontFace),
		DepthBiasEnable:         vk.False,
		LineWidth:               info.Rasterization.LineWidth,
	}

	multisampling := vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples:  toVkSampleCount(info.Samples),
		SampleShadingEnable:   vk.False,
		MinSampleShading:      1.0,
		AlphaToCoverageEnable: vk.False,
		AlphaToOneEnable:      vk.False,
	}

	depthStencil := vk.PipelineDepthStencilStateCreateInfo{
		SType:                 vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:       vkBool(info.DepthStencil.TestEnable),
		DepthWriteEnable:      vkBool(info.DepthStencil.WriteEnable),
		DepthCompareOp:        compareOps[info.DepthStencil.CompareOp],
		DepthBoundsTestEnable: vk.False,
		StencilTestEnable:     vk.False,
	}

	blendAttachments := make([]vk.PipelineColorBlendAttachmentState, len(info.ColorBlendAttachments))
	for i, b := range info.ColorBlendAttachments {
		blendAttachments[i] = vk.PipelineColorBlendAttachmentState{
			BlendEnable:         vkBool(b.BlendEnable),
			SrcColorBlendFactor: toVkBlendFactor(b.SrcColorBlendFactor),
			DstColorBlendFactor: toVkBlendFactor(b.DstColorBlendFactor),
			ColorBlendOp:        toVkBlendOp(b.ColorBlendOp),
			SrcAlphaBlendFactor: toVkBlendFactor(b.SrcAlphaBlendFactor),
			DstAlphaBlendFactor: toVkBlendFactor(b.DstAlphaBlendFactor),
			AlphaBlendOp:        toVkBlendOp(b.AlphaBlendOp),
			ColorWriteMask:      vk.ColorComponentFlags(colorComponentBits.convert(b.WriteMask)),
		}
	}
	colorBlend := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: uint32(len(blendAttachments)),
		PAttachments:    blendAttachments,
	}

	dynamicStates := make([]vk.DynamicState, len(info.DynamicStates))
	for i, s := range info.DynamicStates {
		dynamicStates[i] = toVkDynamicState(s)
	}
	dynamicState := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(dynamicStates)),
		PDynamicStates:    dynamicStates,
	}

	createInfo := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(stages)),
		PStages:             stages,
		PVertexInputState:   &vertexInput,
		PInputAssemblyState: &inputAssembly,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterizer,
		PMultisampleState:   &multisampling,
		PDepthStencilState:  &depthStencil,
		PColorBlendState:    &colorBlend,
		PDynamicState:       &dynamicState,
		Layout:              d.pipelineLayouts.get(uint64(info.Layout)),
		RenderPass:          pass,
		Subpass:             0,
		BasePipelineHandle:  vk.NullPipeline,
		BasePipelineIndex:   -1,
	}

	pipelines := make([]vk.Pipeline, 1)
	res := vk.CreateGraphicsPipelines(d.handle, vk.NullPipelineCache, 1, []vk.GraphicsPipelineCreateInfo{createInfo}, nil, pipelines)
	if err := check("vkCreateGraphicsPipelines", res); err != nil {
		return 0, err
	}
	return gpu.Pipeline(d.pipelines.add(pipelines[0])), nil
}

func (d *Device) DestroyPipeline(pipeline gpu.Pipeline) {
	if p, ok := d.pipelines.remove(uint64(pipeline)); ok {
		vk.DestroyPipeline(d.handle, p, nil)
	}
}
