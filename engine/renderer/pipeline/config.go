package pipeline

import (
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/descriptor"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
)

// Stage is one shader stage as SPIR-V bytecode.
type Stage struct {
	Stage gpu.ShaderStageFlags
	Code  []byte
	// EntryPoint defaults to "main".
	EntryPoint string
}

// Config describes a graphics pipeline by its attachment formats rather than
// a render pass.
// Start from DefaultConfig and override what differs.
type Config struct {
	Stages           []Stage
	VertexBindings   []gpu.VertexBinding
	VertexAttributes []gpu.VertexAttribute
	Topology         gpu.PrimitiveTopology
	Rasterization    gpu.RasterizationState
	Samples          uint32
	DepthStencil     gpu.DepthStencilState
	ColorBlend       []gpu.ColorBlendAttachment
	ColorFormats     []gpu.Format
	DepthFormat      gpu.Format
	DynamicStates    []gpu.DynamicState
	PushConstants    []gpu.PushConstantRange
	Layout           *descriptor.Layout
}

func DefaultConfig() Config {
	return Config{
		Topology: gpu.PrimitiveTopologyTriangleList,
		Rasterization: gpu.RasterizationState{
			PolygonMode: gpu.PolygonModeFill,
			CullMode:    gpu.CullModeBack,
			FrontFace:   gpu.FrontFaceCounterClockwise,
			LineWidth:   1.0,
		},
		Samples: 1,
		DepthStencil: gpu.DepthStencilState{
			TestEnable:  true,
			WriteEnable: true,
			CompareOp:   gpu.CompareOpLess,
		},
		ColorBlend: []gpu.ColorBlendAttachment{
			{
				BlendEnable:         false,
				SrcColorBlendFactor: gpu.BlendFactorSrcAlpha,
				DstColorBlendFactor: gpu.BlendFactorOneMinusSrcAlpha,
				ColorBlendOp:        gpu.BlendOpAdd,
				SrcAlphaBlendFactor: gpu.BlendFactorOne,
				DstAlphaBlendFactor: gpu.BlendFactorZero,
				AlphaBlendOp:        gpu.BlendOpAdd,
				WriteMask:           gpu.ColorComponentAll,
			},
		},
		ColorFormats:  []gpu.Format{gpu.FormatB8G8R8A8Unorm},
		DepthFormat:   gpu.FormatD32Sfloat,
		DynamicStates: []gpu.DynamicState{gpu.DynamicStateViewport, gpu.DynamicStateScissor},
	}
}

// Validate checks the whole configuration once, before any API object is created.
func (c *Config) Validate() error {
	if len(c.Stages) == 0 {
		return core.ContractViolation("pipeline has no shader stages")
	}
	hasVertex := false
	for i, s := range c.Stages {
		if s.Stage == gpu.ShaderStageVertex {
			hasVertex = true
		}
		if len(s.Code) == 0 {
			return core.ContractViolation("shader stage %d has no code", i)
		}
		if len(s.Code)%4 != 0 {
			return core.ContractViolation("shader stage %d code is %d bytes, not a multiple of 4", i, len(s.Code))
		}
	}
	if !hasVertex {
		return core.ContractViolation("pipeline has no vertex stage")
	}

	bindings := map[uint32]bool{}
	for _, b := range c.VertexBindings {
		bindings[b.Binding] = true
	}
	for _, a := range c.VertexAttributes {
		if !bindings[a.Binding] {
			return core.ContractViolation("vertex attribute at location %d references undeclared binding %d", a.Location, a.Binding)
		}
	}

	if len(c.ColorFormats) == 0 {
		return core.ContractViolation("pipeline has no color attachment formats")
	}
	if len(c.ColorBlend) != len(c.ColorFormats) {
		return core.ContractViolation("pipeline has %d blend attachments for %d color attachments", len(c.ColorBlend), len(c.ColorFormats))
	}
	if c.DepthFormat != gpu.FormatUndefined && !c.DepthFormat.IsDepth() {
		return core.ContractViolation("pipeline depth format %s is not a depth format", c.DepthFormat)
	}
	if c.Samples == 0 {
		return core.ContractViolation("pipeline sample count must be at least 1")
	}
	if c.Layout == nil || !c.Layout.Generated() {
		return core.ContractViolation("pipeline descriptor layout is missing or not generated")
	}
	return nil
}
