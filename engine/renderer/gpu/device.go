// Package gpu is the narrow graphics API surface the renderer is written
// against. The vulkan package implements it on a real device, gputest and
// mocks implement it for tests.
package gpu

//go:generate mockgen -source=device.go -destination=mocks/device.go -package=mocks

import "time"

// Device is a logical device with a single graphics+present queue.
// Every method must be called from the render thread.
type Device interface {
	MemoryProperties() MemoryProperties
	Limits() Limits

	AllocateMemory(size uint64, memoryTypeIndex uint32) (DeviceMemory, error)
	FreeMemory(memory DeviceMemory)
	// MapMemory returns a host view of [offset, offset+size) valid until UnmapMemory.
	MapMemory(memory DeviceMemory, offset uint64, size uint64) ([]byte, error)
	UnmapMemory(memory DeviceMemory)

	CreateBuffer(info BufferCreateInfo) (Buffer, error)
	DestroyBuffer(buffer Buffer)
	BufferMemoryRequirements(buffer Buffer) MemoryRequirements
	BindBufferMemory(buffer Buffer, memory DeviceMemory, offset uint64) error

	CreateImage(info ImageCreateInfo) (Image, error)
	DestroyImage(image Image)
	ImageMemoryRequirements(image Image) MemoryRequirements
	BindImageMemory(image Image, memory DeviceMemory, offset uint64) error
	CreateImageView(info ImageViewCreateInfo) (ImageView, error)
	DestroyImageView(view ImageView)
	CreateSampler(info SamplerCreateInfo) (Sampler, error)
	DestroySampler(sampler Sampler)

	CreateDescriptorPool(info DescriptorPoolCreateInfo) (DescriptorPool, error)
	DestroyDescriptorPool(pool DescriptorPool)
	CreateDescriptorSetLayout(bindings []DescriptorSetLayoutBinding) (DescriptorSetLayout, error)
	DestroyDescriptorSetLayout(layout DescriptorSetLayout)
	AllocateDescriptorSets(pool DescriptorPool, layouts []DescriptorSetLayout) ([]DescriptorSet, error)
	FreeDescriptorSets(pool DescriptorPool, sets []DescriptorSet) error
	UpdateDescriptorSets(writes []WriteDescriptorSet)

	CreateShaderModule(code []byte) (ShaderModule, error)
	DestroyShaderModule(module ShaderModule)
	CreatePipelineLayout(info PipelineLayoutCreateInfo) (PipelineLayout, error)
	DestroyPipelineLayout(layout PipelineLayout)
	CreateGraphicsPipeline(info GraphicsPipelineCreateInfo) (Pipeline, error)
	DestroyPipeline(pipeline Pipeline)

	AllocateCommandBuffer() (CommandBuffer, error)
	FreeCommandBuffer(cmd CommandBuffer)
	ResetCommandBuffer(cmd CommandBuffer) error
	BeginCommandBuffer(cmd CommandBuffer, usage CommandBufferUsageFlags) error
	EndCommandBuffer(cmd CommandBuffer) error

	CmdSetViewport(cmd CommandBuffer, viewport Viewport)
	CmdSetScissor(cmd CommandBuffer, scissor Rect2D)
	CmdPipelineBarrier(cmd CommandBuffer, srcStage PipelineStageFlags, dstStage PipelineStageFlags, barriers []ImageBarrier)
	CmdBeginRendering(cmd CommandBuffer, info RenderingInfo)
	CmdEndRendering(cmd CommandBuffer)
	CmdBindPipeline(cmd CommandBuffer, pipeline Pipeline)
	CmdBindDescriptorSets(cmd CommandBuffer, layout PipelineLayout, firstSet uint32, sets []DescriptorSet, dynamicOffsets []uint32)
	CmdBindVertexBuffers(cmd CommandBuffer, firstBinding uint32, buffers []Buffer, offsets []uint64)
	CmdBindIndexBuffer(cmd CommandBuffer, buffer Buffer, offset uint64, indexType IndexType)
	CmdDraw(cmd CommandBuffer, vertexCount uint32, instanceCount uint32, firstVertex uint32, firstInstance uint32)
	CmdDrawIndexed(cmd CommandBuffer, indexCount uint32, instanceCount uint32, firstIndex uint32, vertexOffset int32, firstInstance uint32)

	CreateFence(signaled bool) (Fence, error)
	DestroyFence(fence Fence)
	ResetFence(fence Fence) error
	// WaitForFence returns a *ResultError with Result Timeout when timeout elapses first.
	WaitForFence(fence Fence, timeout time.Duration) error
	// QueueSubmit submits cmd without semaphores and signals fence on completion.
	QueueSubmit(cmd CommandBuffer, fence Fence) error
	WaitIdle() error
}

// Swapchain is the presentable image ring of one surface.
type Swapchain interface {
	ImageCount() uint32
	Format() Format
	Extent() Extent2D
	Image(index uint32) Image
	View(index uint32) ImageView
	// AcquireNextImage signals fence once the returned image is ready.
	// It returns a *ResultError with Result Timeout when timeout elapses first.
	AcquireNextImage(timeout time.Duration, fence Fence) (uint32, error)
	Present(index uint32) error
}
