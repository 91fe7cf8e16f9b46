package testbed

import (
	"path"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/spaghettifunk/lumen/engine"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/components"
	"github.com/spaghettifunk/lumen/engine/renderer/descriptor"
	"github.com/spaghettifunk/lumen/engine/renderer/frame"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
	"github.com/spaghettifunk/lumen/engine/renderer/material"
	"github.com/spaghettifunk/lumen/engine/renderer/memory"
	"github.com/spaghettifunk/lumen/engine/renderer/pipeline"
)

const (
	vertexShader   = "pbr.vert"
	fragmentShader = "pbr.frag"

	// Descriptor sets. Set 0 holds per-frame data, set 1 per-model data.
	frameSet = 0
	modelSet = 1

	globalsBinding = 0
	lightsBinding  = 1
	cameraBinding  = 2
	modelBinding   = 0

	maxModels = 16
)

// Uniform blocks, laid out for std140/std430.
type globalUniforms struct {
	Time  float32
	Frame uint32
	_     [2]uint32
}

type light struct {
	Position math.Vec4
	Color    math.Vec4
}

type cameraUniforms struct {
	View     math.Mat4
	Proj     math.Mat4
	Position math.Vec4
}

type modelUniforms struct {
	Model  math.Mat4
	Normal math.Mat4
	Color  math.Vec4
	Params math.Vec4
	_      [8]float32
}

// TestGame draws a chain of spinning cubes over a ground plane, lit by a few
// point lights, with a single pipeline and material.
type TestGame struct {
	ctx *engine.Context

	layout   *descriptor.Layout
	material *material.Material
	pipeline *pipeline.Pipeline
	passes   []frame.Pass

	globals     *memory.Buffer
	lights      *memory.Buffer
	cameraBuf   *memory.Buffer
	models      *memory.Buffer
	modelStride uint64

	camera    *components.Camera
	meshes    []*mesh
	spin      []*mesh
	lightData []light

	time   float64
	width  uint32
	height uint32
}

func NewTestGame() *TestGame {
	return &TestGame{}
}

var _ engine.Game = (*TestGame)(nil)

func (g *TestGame) Initialize(ctx *engine.Context) error {
	core.LogDebug("testbed initializing...")
	g.ctx = ctx
	g.width, g.height = ctx.Extent.Width, ctx.Extent.Height
	g.camera = components.NewCamera()
	g.camera.LookAt(math.NewVec3Zero())

	if err := g.createLayout(); err != nil {
		return err
	}
	if err := g.createBuffers(); err != nil {
		return err
	}
	if err := g.createMaterial(); err != nil {
		return err
	}

	p, err := g.buildPipeline()
	if err != nil {
		return err
	}
	g.pipeline = p

	if err := g.createScene(); err != nil {
		return err
	}
	g.buildPasses()

	core.LogInfo("testbed ready: %d meshes, model stride %d bytes", len(g.meshes), g.modelStride)
	return nil
}

func (g *TestGame) createLayout() error {
	g.layout = descriptor.NewLayout(g.ctx.Device).
		AddBinding(frameSet, globalsBinding, gpu.DescriptorTypeUniformBuffer, gpu.ShaderStageVertex|gpu.ShaderStageFragment, 1).
		AddBinding(frameSet, lightsBinding, gpu.DescriptorTypeStorageBuffer, gpu.ShaderStageFragment, 1).
		AddBinding(frameSet, cameraBinding, gpu.DescriptorTypeUniformBuffer, gpu.ShaderStageVertex, 1).
		AddBinding(modelSet, modelBinding, gpu.DescriptorTypeUniformBufferDynamic, gpu.ShaderStageVertex|gpu.ShaderStageFragment, 1)
	return g.layout.Generate()
}

func (g *TestGame) createBuffers() error {
	a := g.ctx.Allocator
	g.lightData = []light{
		{Position: math.NewVec4(4, 6, 4, 1), Color: math.NewVec4(1, 0.85, 0.7, 30)},
		{Position: math.NewVec4(-5, 4, -3, 1), Color: math.NewVec4(0.4, 0.6, 1, 20)},
		{Position: math.NewVec4(0, 8, -8, 1), Color: math.NewVec4(1, 1, 1, 15)},
	}
	g.modelStride = a.UniformStride(sizeOf[modelUniforms]())

	var err error
	if g.globals, err = a.CreateBuffer(sizeOf[globalUniforms](), gpu.BufferUsageUniform, memory.ClassCPUVisible); err != nil {
		return err
	}
	if g.lights, err = a.CreateBuffer(sizeOf[light]()*uint64(len(g.lightData)), gpu.BufferUsageStorage, memory.ClassCPUVisible); err != nil {
		return err
	}
	if g.cameraBuf, err = a.CreateBuffer(sizeOf[cameraUniforms](), gpu.BufferUsageUniform, memory.ClassCPUVisible); err != nil {
		return err
	}
	if g.models, err = a.CreateBuffer(g.modelStride*maxModels, gpu.BufferUsageUniform, memory.ClassCPUVisible); err != nil {
		return err
	}
	return memory.CopyValues(g.lights, g.lightData, 0)
}

func (g *TestGame) createMaterial() error {
	m, err := material.New(g.ctx.Allocator, g.layout)
	if err != nil {
		return err
	}
	g.material = m

	writes := []struct {
		set, binding uint32
		buf          *memory.Buffer
		rng          uint64
	}{
		{frameSet, globalsBinding, g.globals, 0},
		{frameSet, lightsBinding, g.lights, 0},
		{frameSet, cameraBinding, g.cameraBuf, 0},
		{modelSet, modelBinding, g.models, sizeOf[modelUniforms]()},
	}
	for _, w := range writes {
		if err := m.UpdateDescriptorBufferInfo(w.set, w.binding, w.buf, 0, w.rng); err != nil {
			return err
		}
	}
	if err := m.UpdateDynamicOffset(modelSet, 0); err != nil {
		return err
	}
	return m.UpdateDescriptorSets()
}

// buildPipeline loads both shader stages from the asset directory.
func (g *TestGame) buildPipeline() (*pipeline.Pipeline, error) {
	vert, err := g.ctx.Assets.Shader(vertexShader)
	if err != nil {
		return nil, err
	}
	frag, err := g.ctx.Assets.Shader(fragmentShader)
	if err != nil {
		return nil, err
	}

	cfg := pipeline.DefaultConfig()
	cfg.Stages = []pipeline.Stage{
		{Stage: gpu.ShaderStageVertex, Code: vert},
		{Stage: gpu.ShaderStageFragment, Code: frag},
	}
	// Position, normal and tangent are vec4 streams, the texture coordinate a vec2.
	for i := uint32(0); i < streamCount; i++ {
		stride, format := uint32(16), gpu.FormatR32G32B32A32Sfloat
		if i == streamCount-1 {
			stride, format = 8, gpu.FormatR32G32Sfloat
		}
		cfg.VertexBindings = append(cfg.VertexBindings, gpu.VertexBinding{Binding: i, Stride: stride, InputRate: gpu.VertexInputRateVertex})
		cfg.VertexAttributes = append(cfg.VertexAttributes, gpu.VertexAttribute{Location: i, Binding: i, Format: format})
	}
	cfg.Rasterization.CullMode = gpu.CullModeNone
	cfg.ColorFormats = []gpu.Format{g.ctx.ColorFormat}
	cfg.DepthFormat = g.ctx.DepthFormat
	cfg.Layout = g.layout

	return pipeline.New(g.ctx.Device, cfg)
}

func (g *TestGame) createScene() error {
	a := g.ctx.Allocator

	ground, err := uploadMesh(a, math.GeneratePlane("ground", 30, 30, 4, 4, 6, 6))
	if err != nil {
		return err
	}
	ground.transform.SetPosition(math.NewVec3(0, -1.5, 0))
	ground.color = math.NewVec4(0.35, 0.38, 0.42, 1)
	ground.params = math.NewVec4(0.9, 0, 0, 0)
	g.meshes = append(g.meshes, ground)

	// Three cubes, each parented to the one before it.
	sizes := []float32{2, 1.2, 0.6}
	colors := []math.Vec4{
		math.NewVec4(0.85, 0.25, 0.2, 1),
		math.NewVec4(0.2, 0.7, 0.35, 1),
		math.NewVec4(0.25, 0.4, 0.9, 1),
	}
	var parent *math.Transform
	for i, size := range sizes {
		cube, err := uploadMesh(a, math.GenerateCube("cube", size, size, size, 1, 1))
		if err != nil {
			return err
		}
		if parent != nil {
			cube.transform.SetPosition(math.NewVec3(3, 0, 0))
			cube.transform.Parent = parent
		}
		cube.color = colors[i]
		cube.params = math.NewVec4(0.4, float32(i)*0.5, 0, 0)
		parent = cube.transform
		g.meshes = append(g.meshes, cube)
		g.spin = append(g.spin, cube)
	}

	if len(g.meshes) > maxModels {
		return core.ContractViolation("%d meshes exceed the %d model slots", len(g.meshes), maxModels)
	}
	return nil
}

// buildPasses gives every mesh its own slot in the model buffer.
func (g *TestGame) buildPasses() {
	objects := make([]frame.Object, len(g.meshes))
	for i, m := range g.meshes {
		objects[i] = frame.Object{
			Drawable:      m,
			Dynamic:       true,
			DynamicSet:    modelSet,
			DynamicOffset: uint32(uint64(i) * g.modelStride),
		}
	}
	g.passes = []frame.Pass{{Pipeline: g.pipeline, Material: g.material, Objects: objects}}
}

func (g *TestGame) Update(deltaTime float64) error {
	g.time += deltaTime
	rotation := math.NewQuatFromAxisAngle(math.NewVec3Up(), float32(0.5*deltaTime), false)
	for _, m := range g.spin {
		m.transform.Rotate(rotation)
	}
	return nil
}

// Prepare writes this frame's uniforms. The previous frame has fully
// completed, so host visible buffers can be overwritten in place.
func (g *TestGame) Prepare(frameNumber uint64) error {
	globals := []globalUniforms{{Time: float32(g.time), Frame: uint32(frameNumber)}}
	if err := memory.CopyValues(g.globals, globals, 0); err != nil {
		return err
	}

	g.camera.Orbit(float32(g.time)*0.2, 12, 7)
	camera := []cameraUniforms{{
		View:     g.camera.GetView(),
		Proj:     g.camera.Projection(g.width, g.height),
		Position: g.camera.Position.ToVec4(1),
	}}
	if err := memory.CopyValues(g.cameraBuf, camera, 0); err != nil {
		return err
	}

	for i, m := range g.meshes {
		world := m.transform.GetWorld()
		u := []modelUniforms{{
			Model:  world,
			Normal: world.NormalMatrix(),
			Color:  m.color,
			Params: m.params,
		}}
		if err := memory.CopyValues(g.models, u, uint64(i)*g.modelStride); err != nil {
			return err
		}
	}

	return g.material.UpdateDescriptorSets()
}

func (g *TestGame) Passes() []frame.Pass {
	return g.passes
}

// ReloadShaders rebuilds the pipeline when one of its stages changed. A
// pipeline that fails to build leaves the current one in place.
func (g *TestGame) ReloadShaders(changed []string) error {
	names := []string{vertexShader + ".spv", fragmentShader + ".spv"}
	if !slices.ContainsFunc(changed, func(p string) bool { return slices.Contains(names, path.Base(p)) }) {
		return nil
	}

	p, err := g.buildPipeline()
	if err != nil {
		core.LogWarn("keeping current pipeline: %+v", err)
		return nil
	}
	g.pipeline.Destroy()
	g.pipeline = p
	g.buildPasses()
	core.LogInfo("pipeline rebuilt")
	return nil
}

// Shutdown releases materials, pipelines, buffers and layouts, in that order.
func (g *TestGame) Shutdown() error {
	var errs error
	if g.material != nil {
		errs = errors.CombineErrors(errs, g.material.Destroy())
		g.material = nil
	}
	if g.pipeline != nil {
		g.pipeline.Destroy()
		g.pipeline = nil
	}
	for _, m := range g.meshes {
		m.destroy()
	}
	g.meshes, g.spin, g.passes = nil, nil, nil
	for _, b := range []*memory.Buffer{g.globals, g.lights, g.cameraBuf, g.models} {
		if b != nil {
			b.Destroy()
		}
	}
	g.globals, g.lights, g.cameraBuf, g.models = nil, nil, nil, nil
	if g.layout != nil {
		g.layout.Destroy()
		g.layout = nil
	}
	core.LogDebug("testbed shut down")
	return errs
}
