// Package pipeline creates graphics pipelines from attachment formats.
package pipeline

import (
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/descriptor"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
)

const defaultEntryPoint = "main"

type Pipeline struct {
	device     gpu.Device
	handle     gpu.Pipeline
	layout     gpu.PipelineLayout
	shaders    []gpu.ShaderModule
	descriptor *descriptor.Layout
	generation uint64
}

// New validates cfg and creates the shader modules, the pipeline layout and
// the pipeline, in that order. Whatever was created before a failure is
// destroyed in reverse order.
func New(device gpu.Device, cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		device:     device,
		descriptor: cfg.Layout,
		generation: cfg.Layout.Generation(),
	}

	stages := make([]gpu.ShaderStageInfo, 0, len(cfg.Stages))
	for i, s := range cfg.Stages {
		module, err := device.CreateShaderModule(s.Code)
		if err != nil {
			p.Destroy()
			return nil, core.ResourceCreationFailure(err, "creating shader module for stage %d", i)
		}
		p.shaders = append(p.shaders, module)

		entry := s.EntryPoint
		if entry == "" {
			entry = defaultEntryPoint
		}
		stages = append(stages, gpu.ShaderStageInfo{Stage: s.Stage, Module: module, EntryPoint: entry})
	}

	layout, err := device.CreatePipelineLayout(gpu.PipelineLayoutCreateInfo{
		SetLayouts:         cfg.Layout.Handles(),
		PushConstantRanges: cfg.PushConstants,
	})
	if err != nil {
		p.Destroy()
		return nil, core.ResourceCreationFailure(err, "creating pipeline layout")
	}
	p.layout = layout

	handle, err := device.CreateGraphicsPipeline(gpu.GraphicsPipelineCreateInfo{
		Stages:                stages,
		VertexBindings:        cfg.VertexBindings,
		VertexAttributes:      cfg.VertexAttributes,
		Topology:              cfg.Topology,
		Rasterization:         cfg.Rasterization,
		Samples:               cfg.Samples,
		DepthStencil:          cfg.DepthStencil,
		ColorBlendAttachments: cfg.ColorBlend,
		DynamicStates:         cfg.DynamicStates,
		Layout:                layout,
		ColorFormats:          cfg.ColorFormats,
		DepthFormat:           cfg.DepthFormat,
	})
	if err != nil {
		p.Destroy()
		return nil, core.ResourceCreationFailure(err, "creating graphics pipeline")
	}
	p.handle = handle

	core.LogDebug("graphics pipeline created with %d stages", len(stages))
	return p, nil
}

// Destroy releases the pipeline, then its layout, then the shader modules
// in reverse creation order. It is safe to call more than once.
func (p *Pipeline) Destroy() {
	if p.handle != 0 {
		p.device.DestroyPipeline(p.handle)
		p.handle = 0
	}
	if p.layout != 0 {
		p.device.DestroyPipelineLayout(p.layout)
		p.layout = 0
	}
	for i := len(p.shaders) - 1; i >= 0; i-- {
		p.device.DestroyShaderModule(p.shaders[i])
	}
	p.shaders = nil
}

func (p *Pipeline) Bind(cmd gpu.CommandBuffer) {
	p.device.CmdBindPipeline(cmd, p.handle)
}

func (p *Pipeline) Handle() gpu.Pipeline {
	return p.handle
}

func (p *Pipeline) Layout() gpu.PipelineLayout {
	return p.layout
}

// DescriptorLayout is the descriptor layout the pipeline layout was built from.
func (p *Pipeline) DescriptorLayout() *descriptor.Layout {
	return p.descriptor
}

// LayoutGeneration is the descriptor layout generation the pipeline was built against.
func (p *Pipeline) LayoutGeneration() uint64 {
	return p.generation
}
