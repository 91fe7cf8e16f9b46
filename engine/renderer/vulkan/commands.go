package vulkan

import (
	"time"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
)

func (d *Device) cmd(cmd gpu.CommandBuffer) vk.CommandBuffer {
	return d.commandBuffers.get(uint64(cmd))
}

// AllocateCommandBuffer allocates a primary command buffer from the graphics
// command pool.
func (d *Device) AllocateCommandBuffer() (gpu.CommandBuffer, error) {
	buffers := make([]vk.CommandBuffer, 1)
	err := d.locks.SafeCall(CommandPoolManagement, func() error {
		return check("vkAllocateCommandBuffers", vk.AllocateCommandBuffers(d.handle, &vk.CommandBufferAllocateInfo{
			SType:              vk.StructureTypeCommandBufferAllocateInfo,
			CommandPool:        d.commandPool,
			Level:              vk.CommandBufferLevelPrimary,
			CommandBufferCount: 1,
		}, buffers))
	})
	if err != nil {
		return 0, err
	}
	return gpu.CommandBuffer(d.commandBuffers.add(buffers[0])), nil
}

func (d *Device) FreeCommandBuffer(cmd gpu.CommandBuffer) {
	if c, ok := d.commandBuffers.remove(uint64(cmd)); ok {
		delete(d.recordErrs, cmd)
		_ = d.locks.SafeCall(CommandPoolManagement, func() error {
			vk.FreeCommandBuffers(d.handle, d.commandPool, 1, []vk.CommandBuffer{c})
			return nil
		})
	}
}

func (d *Device) ResetCommandBuffer(cmd gpu.CommandBuffer) error {
	delete(d.recordErrs, cmd)
	return check("vkResetCommandBuffer", vk.ResetCommandBuffer(d.cmd(cmd), 0))
}

func (d *Device) BeginCommandBuffer(cmd gpu.CommandBuffer, usage gpu.CommandBufferUsageFlags) error {
	delete(d.recordErrs, cmd)
	return check("vkBeginCommandBuffer", vk.BeginCommandBuffer(d.cmd(cmd), &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(commandBufferUsageBits.convert(usage)),
	}))
}

func (d *Device) EndCommandBuffer(cmd gpu.CommandBuffer) error {
	res := vk.EndCommandBuffer(d.cmd(cmd))
	if err, failed := d.recordErrs[cmd]; failed {
		delete(d.recordErrs, cmd)
		return err
	}
	return check("vkEndCommandBuffer", res)
}

func (d *Device) CmdSetViewport(cmd gpu.CommandBuffer, viewport gpu.Viewport) {
	vk.CmdSetViewport(d.cmd(cmd), 0, 1, []vk.Viewport{{
		X:        viewport.X,
		Y:        viewport.Y,
		Width:    viewport.Width,
		Height:   viewport.Height,
		MinDepth: viewport.MinDepth,
		MaxDepth: viewport.MaxDepth,
	}})
}

func toVkRect(r gpu.Rect2D) vk.Rect2D {
	return vk.Rect2D{
		Offset: vk.Offset2D{X: r.X, Y: r.Y},
		Extent: vk.Extent2D{Width: r.Extent.Width, Height: r.Extent.Height},
	}
}

func (d *Device) CmdSetScissor(cmd gpu.CommandBuffer, scissor gpu.Rect2D) {
	vk.CmdSetScissor(d.cmd(cmd), 0, 1, []vk.Rect2D{toVkRect(scissor)})
}

func (d *Device) CmdPipelineBarrier(cmd gpu.CommandBuffer, srcStage, dstStage gpu.PipelineStageFlags, barriers []gpu.ImageBarrier) {
	vkBarriers := make([]vk.ImageMemoryBarrier, len(barriers))
	for i, b := range barriers {
		vkBarriers[i] = vk.ImageMemoryBarrier{
			SType:               vk.StructureTypeImageMemoryBarrier,
			SrcAccessMask:       vk.AccessFlags(accessBits.convert(b.SrcAccess)),
			DstAccessMask:       vk.AccessFlags(accessBits.convert(b.DstAccess)),
			OldLayout:           toVkImageLayout(b.OldLayout),
			NewLayout:           toVkImageLayout(b.NewLayout),
			SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
			DstQueueFamilyIndex: vk.QueueFamilyIgnored,
			Image:               d.images.get(uint64(b.Image)),
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(aspectBits.convert(b.Aspect)),
				LevelCount: 1,
				LayerCount: 1,
			},
		}
	}
	vk.CmdPipelineBarrier(d.cmd(cmd),
		vk.PipelineStageFlags(pipelineStageBits.convert(srcStage)),
		vk.PipelineStageFlags(pipelineStageBits.convert(dstStage)),
		0, 0, nil, 0, nil, uint32(len(vkBarriers)), vkBarriers)
}

// CmdBeginRendering begins a render pass matching info's attachments. The
// pass and framebuffer are created on first use and cached. A failure is
// reported by EndCommandBuffer.
func (d *Device) CmdBeginRendering(cmd gpu.CommandBuffer, info gpu.RenderingInfo) {
	key, fbKey, views, clears, err := d.renderTarget(info)
	if err != nil {
		d.failRecording(cmd, err)
		return
	}
	pass, err := d.renderPass(key)
	if err != nil {
		d.failRecording(cmd, err)
		return
	}
	fbKey.pass = pass
	fb, err := d.framebuffer(fbKey, views)
	if err != nil {
		d.failRecording(cmd, err)
		return
	}
	vk.CmdBeginRenderPass(d.cmd(cmd), &vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      pass,
		Framebuffer:     fb,
		RenderArea:      toVkRect(info.Area),
		ClearValueCount: uint32(len(clears)),
		PClearValues:    clears,
	}, vk.SubpassContentsInline)
}

func (d *Device) CmdEndRendering(cmd gpu.CommandBuffer) {
	if _, failed := d.recordErrs[cmd]; failed {
		return
	}
	vk.CmdEndRenderPass(d.cmd(cmd))
}

func (d *Device) CmdBindPipeline(cmd gpu.CommandBuffer, pipeline gpu.Pipeline) {
	vk.CmdBindPipeline(d.cmd(cmd), vk.PipelineBindPointGraphics, d.pipelines.get(uint64(pipeline)))
}

func (d *Device) CmdBindDescriptorSets(cmd gpu.CommandBuffer, layout gpu.PipelineLayout, firstSet uint32, sets []gpu.DescriptorSet, dynamicOffsets []uint32) {
	vkSets := make([]vk.DescriptorSet, len(sets))
	for i, s := range sets {
		vkSets[i] = d.descriptorSets.get(uint64(s))
	}
	vk.CmdBindDescriptorSets(d.cmd(cmd), vk.PipelineBindPointGraphics, d.pipelineLayouts.get(uint64(layout)),
		firstSet, uint32(len(vkSets)), vkSets, uint32(len(dynamicOffsets)), dynamicOffsets)
}

func (d *Device) CmdBindVertexBuffers(cmd gpu.CommandBuffer, firstBinding uint32, buffers []gpu.Buffer, offsets []uint64) {
	vkBuffers := make([]vk.Buffer, len(buffers))
	vkOffsets := make([]vk.DeviceSize, len(buffers))
	for i, b := range buffers {
		vkBuffers[i] = d.buffers.get(uint64(b))
		if i < len(offsets) {
			vkOffsets[i] = vk.DeviceSize(offsets[i])
		}
	}
	vk.CmdBindVertexBuffers(d.cmd(cmd), firstBinding, uint32(len(vkBuffers)), vkBuffers, vkOffsets)
}

func (d *Device) CmdBindIndexBuffer(cmd gpu.CommandBuffer, buffer gpu.Buffer, offset uint64, indexType gpu.IndexType) {
	vk.CmdBindIndexBuffer(d.cmd(cmd), d.buffers.get(uint64(buffer)), vk.DeviceSize(offset), toVkIndexType(indexType))
}

func (d *Device) CmdDraw(cmd gpu.CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	vk.CmdDraw(d.cmd(cmd), vertexCount, instanceCount, firstVertex, firstInstance)
}

func (d *Device) CmdDrawIndexed(cmd gpu.CommandBuffer, indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	vk.CmdDrawIndexed(d.cmd(cmd), indexCount, instanceCount, firstIndex, vertexOffset, firstInstance)
}

func (d *Device) CreateFence(signaled bool) (gpu.Fence, error) {
	info := vk.FenceCreateInfo{SType: vk.StructureTypeFenceCreateInfo}
	if signaled {
		info.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var fence vk.Fence
	if err := check("vkCreateFence", vk.CreateFence(d.handle, &info, nil, &fence)); err != nil {
		return 0, err
	}
	return gpu.Fence(d.fences.add(fence)), nil
}

func (d *Device) DestroyFence(fence gpu.Fence) {
	if f, ok := d.fences.remove(uint64(fence)); ok {
		vk.DestroyFence(d.handle, f, nil)
	}
}

func (d *Device) ResetFence(fence gpu.Fence) error {
	return check("vkResetFences", vk.ResetFences(d.handle, 1, []vk.Fence{d.fences.get(uint64(fence))}))
}

func (d *Device) WaitForFence(fence gpu.Fence, timeout time.Duration) error {
	res := vk.WaitForFences(d.handle, 1, []vk.Fence{d.fences.get(uint64(fence))}, vk.True, timeoutNanos(timeout))
	if res == vk.Timeout {
		return &gpu.ResultError{Op: "vkWaitForFences", Result: gpu.Timeout}
	}
	return check("vkWaitForFences", res)
}

// QueueSubmit submits without wait or signal semaphores; ordering against
// acquire and present is the caller's fence waits.
func (d *Device) QueueSubmit(cmd gpu.CommandBuffer, fence gpu.Fence) error {
	submit := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{d.cmd(cmd)},
	}
	return d.locks.SafeCall(QueueManagement, func() error {
		return check("vkQueueSubmit", vk.QueueSubmit(d.graphicsQueue, 1, []vk.SubmitInfo{submit}, d.fences.get(uint64(fence))))
	})
}
