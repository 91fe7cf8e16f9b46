package gputest

import (
	"time"

	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
)

// Swapchain logs its calls into the owning Device so frame tests see a
// single ordered call stream.
type Swapchain struct {
	device *Device
	format gpu.Format
	extent gpu.Extent2D
	images []gpu.Image
	views  []gpu.ImageView
	next   uint32

	// AcquireResult and PresentResult, when not Success, fail every
	// subsequent call with that result.
	AcquireResult gpu.Result
	PresentResult gpu.Result
	Presented     []uint32
}

func NewSwapchain(device *Device, imageCount uint32, extent gpu.Extent2D) *Swapchain {
	sc := &Swapchain{device: device, format: gpu.FormatB8G8R8A8Unorm, extent: extent}
	for i := uint32(0); i < imageCount; i++ {
		sc.images = append(sc.images, gpu.Image(device.id()))
		sc.views = append(sc.views, gpu.ImageView(device.id()))
	}
	return sc
}

func (s *Swapchain) ImageCount() uint32 {
	return uint32(len(s.images))
}

func (s *Swapchain) Format() gpu.Format {
	return s.format
}

func (s *Swapchain) Extent() gpu.Extent2D {
	return s.extent
}

func (s *Swapchain) Image(index uint32) gpu.Image {
	return s.images[index]
}

func (s *Swapchain) View(index uint32) gpu.ImageView {
	return s.views[index]
}

func (s *Swapchain) AcquireNextImage(timeout time.Duration, fence gpu.Fence) (uint32, error) {
	_ = s.device.log("AcquireNextImage", timeout, fence)
	if err := gpu.CheckExact("AcquireNextImage", s.AcquireResult); err != nil {
		return 0, err
	}
	idx := s.next
	s.next = (s.next + 1) % uint32(len(s.images))
	if fence != 0 {
		s.device.fences[fence] = true
	}
	return idx, nil
}

func (s *Swapchain) Present(index uint32) error {
	_ = s.device.log("Present", index)
	if err := gpu.CheckExact("Present", s.PresentResult); err != nil {
		return err
	}
	s.Presented = append(s.Presented, index)
	return nil
}
