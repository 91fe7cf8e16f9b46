package frame

import (
	"github.com/cockroachdb/errors"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
)

func (c *Controller) record(scene Scene) error {
	if err := c.device.ResetCommandBuffer(c.cmd); err != nil {
		return core.ResourceCreationFailure(err, "resetting frame command buffer")
	}
	if err := c.device.BeginCommandBuffer(c.cmd, gpu.CommandBufferUsageOneTimeSubmit); err != nil {
		return core.ResourceCreationFailure(err, "beginning frame command buffer")
	}

	extent := c.swapchain.Extent()
	c.device.CmdSetViewport(c.cmd, gpu.Viewport{
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MaxDepth: 1,
	})
	c.device.CmdSetScissor(c.cmd, gpu.Rect2D{Extent: extent})

	color := c.swapchain.Image(c.imageIndex)
	c.device.CmdPipelineBarrier(c.cmd,
		gpu.PipelineStageTopOfPipe,
		gpu.PipelineStageColorAttachmentOutput|gpu.PipelineStageEarlyFragmentTests|gpu.PipelineStageLateFragmentTests,
		[]gpu.ImageBarrier{
			{
				Image:     color,
				Aspect:    gpu.ImageAspectColor,
				OldLayout: gpu.ImageLayoutUndefined,
				NewLayout: gpu.ImageLayoutColorAttachmentOptimal,
				DstAccess: gpu.AccessColorAttachmentWrite,
			},
			{
				Image:     c.depth.Handle(),
				Aspect:    c.depthAspect(),
				OldLayout: gpu.ImageLayoutUndefined,
				NewLayout: gpu.ImageLayoutDepthStencilAttachmentOptimal,
				DstAccess: gpu.AccessDepthStencilAttachmentRead | gpu.AccessDepthStencilAttachmentWrite,
			},
		})

	c.device.CmdBeginRendering(c.cmd, gpu.RenderingInfo{
		Area: gpu.Rect2D{Extent: extent},
		ColorAttachments: []gpu.RenderingAttachment{{
			View:       c.swapchain.View(c.imageIndex),
			Layout:     gpu.ImageLayoutColorAttachmentOptimal,
			LoadOp:     gpu.AttachmentLoadOpClear,
			StoreOp:    gpu.AttachmentStoreOpStore,
			ClearColor: c.cfg.ClearColor,
		}},
		DepthAttachment: &gpu.RenderingAttachment{
			View:       c.depthView,
			Layout:     gpu.ImageLayoutDepthStencilAttachmentOptimal,
			LoadOp:     gpu.AttachmentLoadOpClear,
			StoreOp:    gpu.AttachmentStoreOpDontCare,
			ClearDepth: c.cfg.ClearDepth,
		},
	})

	rec := &Recorder{device: c.device, cmd: c.cmd}
	for i, pass := range scene.Passes() {
		if err := c.recordPass(rec, pass); err != nil {
			return errors.Wrapf(err, "recording pass %d", i)
		}
	}

	c.device.CmdEndRendering(c.cmd)
	c.device.CmdPipelineBarrier(c.cmd,
		gpu.PipelineStageColorAttachmentOutput,
		gpu.PipelineStageBottomOfPipe,
		[]gpu.ImageBarrier{{
			Image:     color,
			Aspect:    gpu.ImageAspectColor,
			OldLayout: gpu.ImageLayoutColorAttachmentOptimal,
			NewLayout: gpu.ImageLayoutPresentSrc,
			SrcAccess: gpu.AccessColorAttachmentWrite,
		}})

	if err := c.device.EndCommandBuffer(c.cmd); err != nil {
		return core.ResourceCreationFailure(err, "ending frame command buffer")
	}
	return nil
}

// recordPass rebinds an object's dynamic set only when its offset differs
// from the one currently bound.
func (c *Controller) recordPass(rec *Recorder, pass Pass) error {
	pass.Pipeline.Bind(c.cmd)
	if err := pass.Material.Bind(c.cmd, pass.Pipeline); err != nil {
		return err
	}

	bound := map[uint32]uint32{}
	for _, obj := range pass.Objects {
		if obj.Dynamic {
			last, ok := bound[obj.DynamicSet]
			if !ok {
				last, _ = pass.Material.DynamicOffset(obj.DynamicSet)
			}
			if last != obj.DynamicOffset {
				if err := pass.Material.UpdateDynamicOffset(obj.DynamicSet, obj.DynamicOffset); err != nil {
					return err
				}
				if err := pass.Material.BindSet(c.cmd, pass.Pipeline, obj.DynamicSet); err != nil {
					return err
				}
			}
			bound[obj.DynamicSet] = obj.DynamicOffset
		}
		if err := obj.Drawable.Draw(rec); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) depthAspect() gpu.ImageAspectFlags {
	if c.cfg.DepthFormat.HasStencil() {
		return gpu.ImageAspectDepth | gpu.ImageAspectStencil
	}
	return gpu.ImageAspectDepth
}
