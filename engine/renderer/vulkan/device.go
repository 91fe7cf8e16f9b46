package vulkan

import (
	"time"
	"unsafe"

	"github.com/dolthub/swiss"
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
)

var _ gpu.Device = (*Device)(nil)

// Device is the logical device. Every gpu handle it returns indexes one of
// its tables; the Vulkan object behind it is released by the matching
// Destroy or Free call.
type Device struct {
	physical      *physicalDevice
	handle        vk.Device
	graphicsQueue vk.Queue
	presentQueue  vk.Queue
	commandPool   vk.CommandPool
	locks         *VulkanLockPool

	memoryProperties gpu.MemoryProperties
	limits           gpu.Limits

	memories        *table[vk.DeviceMemory]
	buffers         *table[vk.Buffer]
	images          *table[vk.Image]
	views           *table[imageView]
	samplers        *table[vk.Sampler]
	descriptorPools *table[vk.DescriptorPool]
	setLayouts      *table[vk.DescriptorSetLayout]
	descriptorSets  *table[vk.DescriptorSet]
	setPools        map[uint64]gpu.DescriptorPool
	shaders         *table[vk.ShaderModule]
	pipelineLayouts *table[vk.PipelineLayout]
	pipelines       *table[vk.Pipeline]
	commandBuffers  *table[vk.CommandBuffer]
	fences          *table[vk.Fence]

	renderPasses *swiss.Map[renderPassKey, vk.RenderPass]
	framebuffers *swiss.Map[framebufferKey, vk.Framebuffer]
	recordErrs   map[gpu.CommandBuffer]error
}

func newDevice(pd *physicalDevice) (*Device, error) {
	d := &Device{
		physical:        pd,
		locks:           NewVulkanLockPool(),
		memories:        newTable[vk.DeviceMemory](),
		buffers:         newTable[vk.Buffer](),
		images:          newTable[vk.Image](),
		views:           newTable[imageView](),
		samplers:        newTable[vk.Sampler](),
		descriptorPools: newTable[vk.DescriptorPool](),
		setLayouts:      newTable[vk.DescriptorSetLayout](),
		descriptorSets:  newTable[vk.DescriptorSet](),
		setPools:        map[uint64]gpu.DescriptorPool{},
		shaders:         newTable[vk.ShaderModule](),
		pipelineLayouts: newTable[vk.PipelineLayout](),
		pipelines:       newTable[vk.Pipeline](),
		commandBuffers:  newTable[vk.CommandBuffer](),
		fences:          newTable[vk.Fence](),
		renderPasses:    swiss.NewMap[renderPassKey, vk.RenderPass](4),
		framebuffers:    swiss.NewMap[framebufferKey, vk.Framebuffer](8),
		recordErrs:      map[gpu.CommandBuffer]error{},
	}
	d.memoryProperties = convertMemoryProperties(pd.memory)
	d.limits = gpu.Limits{
		BufferImageGranularity:          uint64(pd.properties.Limits.BufferImageGranularity),
		MinUniformBufferOffsetAlignment: uint64(pd.properties.Limits.MinUniformBufferOffsetAlignment),
		MinStorageBufferOffsetAlignment: uint64(pd.properties.Limits.MinStorageBufferOffsetAlignment),
		NonCoherentAtomSize:             uint64(pd.properties.Limits.NonCoherentAtomSize),
		MaxBoundDescriptorSets:          pd.properties.Limits.MaxBoundDescriptorSets,
	}

	families := []uint32{pd.queues.graphics}
	if pd.queues.present != pd.queues.graphics {
		families = append(families, pd.queues.present)
	}
	queueInfos := make([]vk.DeviceQueueCreateInfo, len(families))
	for i, f := range families {
		queueInfos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: f,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}

	extensions := []string{vk.KhrSwapchainExtensionName}
	if pd.hasExtension("VK_KHR_portability_subset") {
		extensions = append(extensions, "VK_KHR_portability_subset")
	}

	createInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{{SamplerAnisotropy: vk.True}},
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: VulkanSafeStrings(extensions),
	}
	var handle vk.Device
	if err := check("vkCreateDevice", vk.CreateDevice(pd.handle, &createInfo, nil, &handle)); err != nil {
		return nil, core.ResourceCreationFailure(err, "creating logical device")
	}
	d.handle = handle
	core.LogInfo("Logical device created.")

	vk.GetDeviceQueue(d.handle, pd.queues.graphics, 0, &d.graphicsQueue)
	vk.GetDeviceQueue(d.handle, pd.queues.present, 0, &d.presentQueue)
	core.LogInfo("Queues obtained.")

	poolInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: pd.queues.graphics,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}
	if err := check("vkCreateCommandPool", vk.CreateCommandPool(d.handle, &poolInfo, nil, &d.commandPool)); err != nil {
		vk.DestroyDevice(d.handle, nil)
		return nil, core.ResourceCreationFailure(err, "creating graphics command pool")
	}
	core.LogInfo("Graphics command pool created.")
	return d, nil
}

func convertMemoryProperties(p vk.PhysicalDeviceMemoryProperties) gpu.MemoryProperties {
	out := gpu.MemoryProperties{
		Types: make([]gpu.MemoryType, p.MemoryTypeCount),
		Heaps: make([]gpu.MemoryHeap, p.MemoryHeapCount),
	}
	for i := range out.Types {
		t := p.MemoryTypes[i]
		t.Deref()
		out.Types[i] = gpu.MemoryType{
			PropertyFlags: gpu.MemoryPropertyFlags(t.PropertyFlags),
			HeapIndex:     t.HeapIndex,
		}
	}
	for i := range out.Heaps {
		h := p.MemoryHeaps[i]
		h.Deref()
		out.Heaps[i] = gpu.MemoryHeap{
			Size:        uint64(h.Size),
			DeviceLocal: vk.MemoryHeapFlagBits(h.Flags)&vk.MemoryHeapDeviceLocalBit != 0,
		}
	}
	return out
}

// destroy reports every object still alive, then releases the command pool
// and the logical device. Leaked objects are not destroyed on the caller's
// behalf.
func (d *Device) destroy() {
	if d.handle == nil {
		return
	}
	_ = d.WaitIdle()
	d.reportLeaks()

	core.LogInfo("Destroying render passes...")
	d.destroyRenderPasses()
	core.LogInfo("Destroying command pools...")
	vk.DestroyCommandPool(d.handle, d.commandPool, nil)
	core.LogInfo("Destroying logical device...")
	vk.DestroyDevice(d.handle, nil)
	d.handle = nil
	d.graphicsQueue = nil
	d.presentQueue = nil
}

func (d *Device) reportLeaks() {
	counts := map[string]int{
		"device memory":         d.memories.len(),
		"buffer":                d.buffers.len(),
		"image":                 d.images.len(),
		"image view":            d.views.len(),
		"sampler":               d.samplers.len(),
		"descriptor pool":       d.descriptorPools.len(),
		"descriptor set layout": d.setLayouts.len(),
		"shader module":         d.shaders.len(),
		"pipeline layout":       d.pipelineLayouts.len(),
		"pipeline":              d.pipelines.len(),
		"command buffer":        d.commandBuffers.len(),
		"fence":                 d.fences.len(),
	}
	for kind, n := range counts {
		if n > 0 {
			core.LogWarn("%d %s object(s) still alive at device teardown", n, kind)
		}
	}
}

func (d *Device) MemoryProperties() gpu.MemoryProperties {
	return d.memoryProperties
}

func (d *Device) Limits() gpu.Limits {
	return d.limits
}

// MaxSamplerAnisotropy is the device limit used when a sampler asks for more.
func (d *Device) MaxSamplerAnisotropy() float32 {
	return d.physical.properties.Limits.MaxSamplerAnisotropy
}

// SupportedDepthFormat returns the first of candidates usable as an optimal
// tiling depth attachment.
func (d *Device) SupportedDepthFormat(candidates ...gpu.Format) (gpu.Format, bool) {
	for _, f := range candidates {
		var props vk.FormatProperties
		vk.GetPhysicalDeviceFormatProperties(d.physical.handle, toVkFormat(f), &props)
		props.Deref()
		if vk.FormatFeatureFlagBits(props.OptimalTilingFeatures)&vk.FormatFeatureDepthStencilAttachmentBit != 0 {
			return f, true
		}
	}
	return gpu.FormatUndefined, false
}

func (d *Device) AllocateMemory(size uint64, memoryTypeIndex uint32) (gpu.DeviceMemory, error) {
	var mem vk.DeviceMemory
	err := d.locks.SafeCall(MemoryManagement, func() error {
		return check("vkAllocateMemory", vk.AllocateMemory(d.handle, &vk.MemoryAllocateInfo{
			SType:           vk.StructureTypeMemoryAllocateInfo,
			AllocationSize:  vk.DeviceSize(size),
			MemoryTypeIndex: memoryTypeIndex,
		}, nil, &mem))
	})
	if err != nil {
		return 0, err
	}
	return gpu.DeviceMemory(d.memories.add(mem)), nil
}

func (d *Device) FreeMemory(memory gpu.DeviceMemory) {
	if mem, ok := d.memories.remove(uint64(memory)); ok {
		_ = d.locks.SafeCall(MemoryManagement, func() error {
			vk.FreeMemory(d.handle, mem, nil)
			return nil
		})
	}
}

func (d *Device) MapMemory(memory gpu.DeviceMemory, offset uint64, size uint64) ([]byte, error) {
	var ptr unsafe.Pointer
	res := vk.MapMemory(d.handle, d.memories.get(uint64(memory)), vk.DeviceSize(offset), vk.DeviceSize(size), 0, &ptr)
	if err := check("vkMapMemory", res); err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(ptr), size), nil
}

func (d *Device) UnmapMemory(memory gpu.DeviceMemory) {
	vk.UnmapMemory(d.handle, d.memories.get(uint64(memory)))
}

func (d *Device) CreateBuffer(info gpu.BufferCreateInfo) (gpu.Buffer, error) {
	var buf vk.Buffer
	res := vk.CreateBuffer(d.handle, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(info.Size),
		Usage:       vk.BufferUsageFlags(bufferUsageBits.convert(info.Usage)),
		SharingMode: vk.SharingModeExclusive,
	}, nil, &buf)
	if err := check("vkCreateBuffer", res); err != nil {
		return 0, err
	}
	return gpu.Buffer(d.buffers.add(buf)), nil
}

func (d *Device) DestroyBuffer(buffer gpu.Buffer) {
	if buf, ok := d.buffers.remove(uint64(buffer)); ok {
		vk.DestroyBuffer(d.handle, buf, nil)
	}
}

func memoryRequirements(r vk.MemoryRequirements) gpu.MemoryRequirements {
	r.Deref()
	return gpu.MemoryRequirements{
		Size:           uint64(r.Size),
		Alignment:      uint64(r.Alignment),
		MemoryTypeBits: r.MemoryTypeBits,
	}
}

func (d *Device) BufferMemoryRequirements(buffer gpu.Buffer) gpu.MemoryRequirements {
	var reqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(d.handle, d.buffers.get(uint64(buffer)), &reqs)
	return memoryRequirements(reqs)
}

func (d *Device) BindBufferMemory(buffer gpu.Buffer, memory gpu.DeviceMemory, offset uint64) error {
	res := vk.BindBufferMemory(d.handle, d.buffers.get(uint64(buffer)), d.memories.get(uint64(memory)), vk.DeviceSize(offset))
	return check("vkBindBufferMemory", res)
}

func (d *Device) CreateImage(info gpu.ImageCreateInfo) (gpu.Image, error) {
	var img vk.Image
	res := vk.CreateImage(d.handle, &vk.ImageCreateInfo{
		SType:         vk.StructureTypeImageCreateInfo,
		ImageType:     vk.ImageType2d,
		Format:        toVkFormat(info.Format),
		Extent:        vk.Extent3D{Width: info.Width, Height: info.Height, Depth: 1},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        toVkTiling(info.Tiling),
		Usage:         vk.ImageUsageFlags(imageUsageBits.convert(info.Usage)),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}, nil, &img)
	if err := check("vkCreateImage", res); err != nil {
		return 0, err
	}
	return gpu.Image(d.images.add(img)), nil
}

func (d *Device) DestroyImage(image gpu.Image) {
	if img, ok := d.images.remove(uint64(image)); ok {
		vk.DestroyImage(d.handle, img, nil)
	}
}

func (d *Device) ImageMemoryRequirements(image gpu.Image) gpu.MemoryRequirements {
	var reqs vk.MemoryRequirements
	vk.GetImageMemoryRequirements(d.handle, d.images.get(uint64(image)), &reqs)
	return memoryRequirements(reqs)
}

func (d *Device) BindImageMemory(image gpu.Image, memory gpu.DeviceMemory, offset uint64) error {
	res := vk.BindImageMemory(d.handle, d.images.get(uint64(image)), d.memories.get(uint64(memory)), vk.DeviceSize(offset))
	return check("vkBindImageMemory", res)
}

func (d *Device) createImageView(img vk.Image, format vk.Format, aspect gpu.ImageAspectFlags) (vk.ImageView, error) {
	var view vk.ImageView
	res := vk.CreateImageView(d.handle, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    img,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(aspectBits.convert(aspect)),
			LevelCount: 1,
			LayerCount: 1,
		},
	}, nil, &view)
	return view, check("vkCreateImageView", res)
}

func (d *Device) CreateImageView(info gpu.ImageViewCreateInfo) (gpu.ImageView, error) {
	view, err := d.createImageView(d.images.get(uint64(info.Image)), toVkFormat(info.Format), info.Aspect)
	if err != nil {
		return 0, err
	}
	return gpu.ImageView(d.views.add(imageView{handle: view, format: toVkFormat(info.Format)})), nil
}

// DestroyImageView also drops the framebuffers built over the view.
func (d *Device) DestroyImageView(view gpu.ImageView) {
	if v, ok := d.views.remove(uint64(view)); ok {
		d.releaseFramebuffers(uint64(view))
		vk.DestroyImageView(d.handle, v.handle, nil)
	}
}

func (d *Device) CreateSampler(info gpu.SamplerCreateInfo) (gpu.Sampler, error) {
	filter := vk.FilterNearest
	if info.LinearFilter {
		filter = vk.FilterLinear
	}
	anisotropy := min(info.MaxAnisotropy, d.MaxSamplerAnisotropy())

	var sampler vk.Sampler
	res := vk.CreateSampler(d.handle, &vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               filter,
		MinFilter:               filter,
		AddressModeU:            vk.SamplerAddressModeRepeat,
		AddressModeV:            vk.SamplerAddressModeRepeat,
		AddressModeW:            vk.SamplerAddressModeRepeat,
		AnisotropyEnable:        vkBool(anisotropy > 1),
		MaxAnisotropy:           anisotropy,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		MipmapMode:              vk.SamplerMipmapModeLinear,
	}, nil, &sampler)
	if err := check("vkCreateSampler", res); err != nil {
		return 0, err
	}
	return gpu.Sampler(d.samplers.add(sampler)), nil
}

func (d *Device) DestroySampler(sampler gpu.Sampler) {
	if s, ok := d.samplers.remove(uint64(sampler)); ok {
		vk.DestroySampler(d.handle, s, nil)
	}
}

func (d *Device) WaitIdle() error {
	return d.locks.SafeCall(QueueManagement, func() error {
		return check("vkDeviceWaitIdle", vk.DeviceWaitIdle(d.handle))
	})
}

func timeoutNanos(timeout time.Duration) uint64 {
	if timeout < 0 {
		return vk.MaxUint64
	}
	return uint64(timeout.Nanoseconds())
}
