package vulkan

import (
	"time"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
)

var _ gpu.Swapchain = (*Swapchain)(nil)

// Swapchain presents without semaphores: acquisition signals a fence and
// the frame controller waits on it before presenting.
type Swapchain struct {
	device *Device
	handle vk.Swapchain
	format vk.SurfaceFormat
	extent vk.Extent2D
	images []gpu.Image
	views  []gpu.ImageView
}

func newSwapchain(device *Device, surface vk.Surface, width, height uint32) (*Swapchain, error) {
	support, err := device.physical.querySwapchainSupport()
	if err != nil {
		return nil, core.ResourceCreationFailure(err, "querying swapchain support")
	}

	s := &Swapchain{device: device}
	s.format = chooseSurfaceFormat(support.formats)
	presentMode := vk.PresentModeFifo
	for _, mode := range support.presentModes {
		if mode == vk.PresentModeMailbox {
			presentMode = mode
			break
		}
	}
	s.extent = support.chooseExtent(width, height)

	caps := support.capabilities
	imageCount := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && imageCount > caps.MaxImageCount {
		imageCount = caps.MaxImageCount
	}

	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    imageCount,
		ImageFormat:      s.format.Format,
		ImageColorSpace:  s.format.ColorSpace,
		ImageExtent:      s.extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      presentMode,
		Clipped:          vk.True,
	}
	queues := device.physical.queues
	if queues.graphics != queues.present {
		createInfo.ImageSharingMode = vk.SharingModeConcurrent
		createInfo.QueueFamilyIndexCount = 2
		createInfo.PQueueFamilyIndices = []uint32{queues.graphics, queues.present}
	}

	if err := check("vkCreateSwapchain", vk.CreateSwapchain(device.handle, &createInfo, nil, &s.handle)); err != nil {
		return nil, core.ResourceCreationFailure(err, "creating swapchain")
	}

	var count uint32
	if err := check("vkGetSwapchainImages", vk.GetSwapchainImages(device.handle, s.handle, &count, nil)); err != nil {
		s.Destroy()
		return nil, core.ResourceCreationFailure(err, "getting swapchain images")
	}
	images := make([]vk.Image, count)
	if err := check("vkGetSwapchainImages", vk.GetSwapchainImages(device.handle, s.handle, &count, images)); err != nil {
		s.Destroy()
		return nil, core.ResourceCreationFailure(err, "getting swapchain images")
	}

	// The swapchain owns its images; only the handles are registered so
	// barriers can name them.
	for _, img := range images {
		s.images = append(s.images, gpu.Image(device.images.add(img)))
		view, err := device.createImageView(img, s.format.Format, gpu.ImageAspectColor)
		if err != nil {
			s.Destroy()
			return nil, core.ResourceCreationFailure(err, "creating swapchain image view")
		}
		s.views = append(s.views, gpu.ImageView(device.views.add(imageView{handle: view, format: s.format.Format})))
	}

	core.LogInfo("Swapchain created: %d images, %dx%d, %s", count, s.extent.Width, s.extent.Height, s.Format())
	return s, nil
}

func chooseSurfaceFormat(available []vk.SurfaceFormat) vk.SurfaceFormat {
	for _, f := range available {
		if f.Format == vk.FormatB8g8r8a8Unorm && f.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return f
		}
	}
	for _, f := range available {
		if fromVkFormat(f.Format) != gpu.FormatUndefined {
			return f
		}
	}
	return available[0]
}

func (s *Swapchain) ImageCount() uint32 {
	return uint32(len(s.images))
}

func (s *Swapchain) Format() gpu.Format {
	return fromVkFormat(s.format.Format)
}

func (s *Swapchain) Extent() gpu.Extent2D {
	return gpu.Extent2D{Width: s.extent.Width, Height: s.extent.Height}
}

func (s *Swapchain) Image(index uint32) gpu.Image {
	return s.images[index]
}

func (s *Swapchain) View(index uint32) gpu.ImageView {
	return s.views[index]
}

func (s *Swapchain) AcquireNextImage(timeout time.Duration, fence gpu.Fence) (uint32, error) {
	var index uint32
	res := vk.AcquireNextImage(s.device.handle, s.handle, timeoutNanos(timeout),
		vk.NullSemaphore, s.device.fences.get(uint64(fence)), &index)
	if err := gpu.CheckExact("vkAcquireNextImage", gpu.Result(res)); err != nil {
		return 0, err
	}
	return index, nil
}

func (s *Swapchain) Present(index uint32) error {
	return s.device.locks.SafeCall(QueueManagement, func() error {
		return gpu.CheckExact("vkQueuePresent", gpu.Result(vk.QueuePresent(s.device.presentQueue, &vk.PresentInfo{
			SType:          vk.StructureTypePresentInfo,
			SwapchainCount: 1,
			PSwapchains:    []vk.Swapchain{s.handle},
			PImageIndices:  []uint32{index},
		})))
	})
}

// Destroy releases the views and the swapchain. The images go with the
// swapchain itself.
func (s *Swapchain) Destroy() {
	for _, v := range s.views {
		s.device.DestroyImageView(v)
	}
	for _, img := range s.images {
		s.device.images.remove(uint64(img))
	}
	s.views, s.images = nil, nil
	if s.handle != nil {
		vk.DestroySwapchain(s.device.handle, s.handle, nil)
		s.handle = nil
	}
}
