package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
)

// maxColorAttachments bounds the attachment arrays of the cache keys.
const maxColorAttachments = 4

// imageView remembers the format a view was created with; render passes and
// framebuffers are derived from it when rendering begins.
type imageView struct {
	handle vk.ImageView
	format vk.Format
}

type attachmentKey struct {
	format vk.Format
	load   gpu.AttachmentLoadOp
	store  gpu.AttachmentStoreOp
	layout gpu.ImageLayout
}

// renderPassKey identifies a single-subpass render pass. Two keys with the
// same formats give compatible passes, whatever their load and store ops.
type renderPassKey struct {
	colorCount int
	colors     [maxColorAttachments]attachmentKey
	depth      attachmentKey
	hasDepth   bool
}

type framebufferKey struct {
	pass   vk.RenderPass
	count  int
	views  [maxColorAttachments + 1]uint64
	width  uint32
	height uint32
}

func (k framebufferKey) uses(view uint64) bool {
	for i := 0; i < k.count; i++ {
		if k.views[i] == view {
			return true
		}
	}
	return false
}

// pipelineRenderPassKey is the pass a pipeline is built against. Only its
// formats matter for compatibility with the pass used at draw time.
func pipelineRenderPassKey(colorFormats []gpu.Format, depthFormat gpu.Format) (renderPassKey, error) {
	if len(colorFormats) > maxColorAttachments {
		return renderPassKey{}, core.ContractViolation("%d color attachments requested, at most %d are supported", len(colorFormats), maxColorAttachments)
	}
	key := renderPassKey{colorCount: len(colorFormats)}
	for i, f := range colorFormats {
		key.colors[i] = attachmentKey{
			format: toVkFormat(f),
			load:   gpu.AttachmentLoadOpClear,
			store:  gpu.AttachmentStoreOpStore,
			layout: gpu.ImageLayoutColorAttachmentOptimal,
		}
	}
	if depthFormat != gpu.FormatUndefined {
		key.hasDepth = true
		key.depth = attachmentKey{
			format: toVkFormat(depthFormat),
			load:   gpu.AttachmentLoadOpClear,
			store:  gpu.AttachmentStoreOpDontCare,
			layout: gpu.ImageLayoutDepthStencilAttachmentOptimal,
		}
	}
	return key, nil
}

// renderTarget resolves the attachments of info into a pass key, the views in
// attachment order and one clear value per attachment.
func (d *Device) renderTarget(info gpu.RenderingInfo) (renderPassKey, framebufferKey, []vk.ImageView, []vk.ClearValue, error) {
	var key renderPassKey
	var fbKey framebufferKey
	if len(info.ColorAttachments) > maxColorAttachments {
		return key, fbKey, nil, nil, core.ContractViolation("%d color attachments requested, at most %d are supported", len(info.ColorAttachments), maxColorAttachments)
	}

	views := make([]vk.ImageView, 0, len(info.ColorAttachments)+1)
	clears := make([]vk.ClearValue, 0, len(info.ColorAttachments)+1)
	add := func(a gpu.RenderingAttachment) (attachmentKey, error) {
		view, ok := d.views.items.Get(uint64(a.View))
		if !ok {
			return attachmentKey{}, core.ContractViolation("rendering to unknown image view %d", a.View)
		}
		fbKey.views[fbKey.count] = uint64(a.View)
		fbKey.count++
		views = append(views, view.handle)
		return attachmentKey{format: view.format, load: a.LoadOp, store: a.StoreOp, layout: a.Layout}, nil
	}

	key.colorCount = len(info.ColorAttachments)
	for i, a := range info.ColorAttachments {
		ak, err := add(a)
		if err != nil {
			return key, fbKey, nil, nil, err
		}
		key.colors[i] = ak
		clears = append(clears, vk.NewClearValue(a.ClearColor[:]))
	}
	if info.DepthAttachment != nil {
		ak, err := add(*info.DepthAttachment)
		if err != nil {
			return key, fbKey, nil, nil, err
		}
		key.depth, key.hasDepth = ak, true
		clears = append(clears, vk.NewClearDepthStencil(info.DepthAttachment.ClearDepth, 0))
	}

	fbKey.width = uint32(info.Area.X) + info.Area.Extent.Width
	fbKey.height = uint32(info.Area.Y) + info.Area.Extent.Height
	return key, fbKey, views, clears, nil
}

// attachmentDescription keeps the image in its attachment layout on both
// ends; layout transitions are recorded as explicit barriers.
func attachmentDescription(a attachmentKey) vk.AttachmentDescription {
	return vk.AttachmentDescription{
		Format:         a.format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         toVkLoadOp(a.load),
		StoreOp:        toVkStoreOp(a.store),
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  toVkImageLayout(a.layout),
		FinalLayout:    toVkImageLayout(a.layout),
	}
}

func (d *Device) renderPass(key renderPassKey) (vk.RenderPass, error) {
	if pass, ok := d.renderPasses.Get(key); ok {
		return pass, nil
	}

	attachments := make([]vk.AttachmentDescription, 0, key.colorCount+1)
	colorRefs := make([]vk.AttachmentReference, key.colorCount)
	for i := 0; i < key.colorCount; i++ {
		attachments = append(attachments, attachmentDescription(key.colors[i]))
		colorRefs[i] = vk.AttachmentReference{
			Attachment: uint32(i),
			Layout:     toVkImageLayout(key.colors[i].layout),
		}
	}
	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: uint32(len(colorRefs)),
		PColorAttachments:    colorRefs,
	}
	if key.hasDepth {
		attachments = append(attachments, attachmentDescription(key.depth))
		subpass.PDepthStencilAttachment = &vk.AttachmentReference{
			Attachment: uint32(key.colorCount),
			Layout:     toVkImageLayout(key.depth.layout),
		}
	}

	dependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit) | vk.PipelineStageFlags(vk.PipelineStageEarlyFragmentTestsBit),
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit) | vk.PipelineStageFlags(vk.PipelineStageEarlyFragmentTestsBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit) | vk.AccessFlags(vk.AccessDepthStencilAttachmentWriteBit),
	}

	var pass vk.RenderPass
	res := vk.CreateRenderPass(d.handle, &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}, nil, &pass)
	if err := check("vkCreateRenderPass", res); err != nil {
		return nil, err
	}
	d.renderPasses.Put(key, pass)
	core.LogDebug("render pass created: %d color attachment(s), depth=%t", key.colorCount, key.hasDepth)
	return pass, nil
}

func (d *Device) framebuffer(key framebufferKey, views []vk.ImageView) (vk.Framebuffer, error) {
	if fb, ok := d.framebuffers.Get(key); ok {
		return fb, nil
	}
	var fb vk.Framebuffer
	res := vk.CreateFramebuffer(d.handle, &vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      key.pass,
		AttachmentCount: uint32(len(views)),
		PAttachments:    views,
		Width:           key.width,
		Height:          key.height,
		Layers:          1,
	}, nil, &fb)
	if err := check("vkCreateFramebuffer", res); err != nil {
		return nil, err
	}
	d.framebuffers.Put(key, fb)
	return fb, nil
}

// releaseFramebuffers destroys every framebuffer that references view.
func (d *Device) releaseFramebuffers(view uint64) {
	var stale []framebufferKey
	d.framebuffers.Iter(func(k framebufferKey, _ vk.Framebuffer) bool {
		if k.uses(view) {
			stale = append(stale, k)
		}
		return false
	})
	for _, k := range stale {
		fb, _ := d.framebuffers.Get(k)
		vk.DestroyFramebuffer(d.handle, fb, nil)
		d.framebuffers.Delete(k)
	}
}

func (d *Device) destroyRenderPasses() {
	d.framebuffers.Iter(func(_ framebufferKey, fb vk.Framebuffer) bool {
		vk.DestroyFramebuffer(d.handle, fb, nil)
		return false
	})
	d.framebuffers.Clear()
	d.renderPasses.Iter(func(_ renderPassKey, pass vk.RenderPass) bool {
		vk.DestroyRenderPass(d.handle, pass, nil)
		return false
	})
	d.renderPasses.Clear()
}

// failRecording keeps the first recording error of cmd; EndCommandBuffer
// reports it.
func (d *Device) failRecording(cmd gpu.CommandBuffer, err error) {
	if _, ok := d.recordErrs[cmd]; !ok {
		d.recordErrs[cmd] = err
	}
}
