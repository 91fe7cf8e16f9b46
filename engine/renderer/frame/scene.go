package frame

import (
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
	"github.com/spaghettifunk/lumen/engine/renderer/material"
	"github.com/spaghettifunk/lumen/engine/renderer/pipeline"
)

// Scene provides what a frame draws.
type Scene interface {
	// Prepare is called before the swapchain image is acquired. It writes the
	// frame's uniform data and flushes staged descriptor writes.
	Prepare(frameNumber uint64) error
	Passes() []Pass
}

// Pass draws a list of objects with one pipeline and one material.
type Pass struct {
	Pipeline *pipeline.Pipeline
	Material *material.Material
	Objects  []Object
}

// Object is a single draw. When Dynamic is set the material's DynamicSet is
// rebound at DynamicOffset before drawing, if that offset is not the one
// already bound.
type Object struct {
	Drawable      Drawable
	Dynamic       bool
	DynamicSet    uint32
	DynamicOffset uint32
}

type Drawable interface {
	Draw(rec *Recorder) error
}

// Recorder records draw commands into the frame's command buffer.
type Recorder struct {
	device gpu.Device
	cmd    gpu.CommandBuffer
}

func (r *Recorder) CommandBuffer() gpu.CommandBuffer {
	return r.cmd
}

func (r *Recorder) BindVertexBuffers(firstBinding uint32, buffers []gpu.Buffer, offsets []uint64) {
	r.device.CmdBindVertexBuffers(r.cmd, firstBinding, buffers, offsets)
}

func (r *Recorder) BindIndexBuffer(buffer gpu.Buffer, offset uint64, indexType gpu.IndexType) {
	r.device.CmdBindIndexBuffer(r.cmd, buffer, offset, indexType)
}

func (r *Recorder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	r.device.CmdDraw(r.cmd, vertexCount, instanceCount, firstVertex, firstInstance)
}

func (r *Recorder) DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	r.device.CmdDrawIndexed(r.cmd, indexCount, instanceCount, firstIndex, vertexOffset, firstInstance)
}
