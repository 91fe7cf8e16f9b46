// Package frame drives the acquire, record, submit and present cycle.
//
// Exactly one frame is in flight. The CPU waits on two fences every cycle,
// one signalled by image acquisition and one by command completion, so no
// semaphores are used and CPU and GPU work never overlap.
package frame

import (
	"time"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
	"github.com/spaghettifunk/lumen/engine/renderer/memory"
)

type Config struct {
	AcquireTimeout time.Duration
	FenceTimeout   time.Duration
	ClearColor     [4]float32
	ClearDepth     float32
	DepthFormat    gpu.Format
}

func DefaultConfig() Config {
	return Config{
		AcquireTimeout: 5 * time.Second,
		FenceTimeout:   5 * time.Second,
		ClearColor:     [4]float32{0.05, 0.05, 0.08, 1},
		ClearDepth:     1,
		DepthFormat:    gpu.FormatD32Sfloat,
	}
}

type Controller struct {
	device    gpu.Device
	swapchain gpu.Swapchain
	cfg       Config

	cmd          gpu.CommandBuffer
	imageFence   gpu.Fence
	commandFence gpu.Fence
	depth        *memory.Image
	depthView    gpu.ImageView

	phase       Phase
	haltErr     error
	frameNumber uint64
	imageIndex  uint32

	clock   *core.Clock
	metrics *core.Metrics
}

// New allocates the command buffer, both fences and the depth attachment.
func New(device gpu.Device, swapchain gpu.Swapchain, allocator *memory.Allocator, cfg Config) (*Controller, error) {
	if !cfg.DepthFormat.IsDepth() {
		return nil, core.ContractViolation("frame depth format %s is not a depth format", cfg.DepthFormat)
	}
	if swapchain.ImageCount() == 0 {
		return nil, core.ContractViolation("swapchain has no images")
	}

	c := &Controller{
		device:    device,
		swapchain: swapchain,
		cfg:       cfg,
		clock:     core.NewClock(),
		metrics:   core.NewMetrics(),
	}

	var err error
	if c.cmd, err = device.AllocateCommandBuffer(); err != nil {
		return nil, core.ResourceCreationFailure(err, "allocating frame command buffer")
	}
	if c.imageFence, err = device.CreateFence(false); err != nil {
		c.Destroy()
		return nil, core.ResourceCreationFailure(err, "creating image fence")
	}
	if c.commandFence, err = device.CreateFence(false); err != nil {
		c.Destroy()
		return nil, core.ResourceCreationFailure(err, "creating command fence")
	}

	extent := swapchain.Extent()
	c.depth, err = allocator.CreateImage(gpu.ImageCreateInfo{
		Width:  extent.Width,
		Height: extent.Height,
		Format: cfg.DepthFormat,
		Tiling: gpu.ImageTilingOptimal,
		Usage:  gpu.ImageUsageDepthStencilAttachment,
	})
	if err != nil {
		c.Destroy()
		return nil, err
	}
	if c.depthView, err = c.depth.CreateView(c.depthAspect()); err != nil {
		c.Destroy()
		return nil, err
	}

	core.LogDebug("frame controller ready: %dx%d, %d swapchain images, depth %s",
		extent.Width, extent.Height, swapchain.ImageCount(), cfg.DepthFormat)
	return c, nil
}

func (c *Controller) Phase() Phase {
	return c.phase
}

// FrameNumber is the number of frames presented so far.
func (c *Controller) FrameNumber() uint64 {
	return c.frameNumber
}

func (c *Controller) Metrics() *core.Metrics {
	return c.metrics
}

// Err returns the error that halted the controller, if any.
func (c *Controller) Err() error {
	return c.haltErr
}

func (c *Controller) halt(err error) error {
	c.phase = PhaseHalted
	c.haltErr = err
	return err
}

func (c *Controller) enter(to Phase) error {
	if err := c.transition(to); err != nil {
		return c.halt(err)
	}
	return nil
}

// RenderFrame runs one complete cycle and returns to Idle. Any failure halts
// the controller and every later call returns the same error.
func (c *Controller) RenderFrame(scene Scene) error {
	if c.phase == PhaseHalted {
		return c.haltErr
	}
	if c.phase != PhaseIdle {
		return c.halt(core.ContractViolation("frame started in phase %s", c.phase))
	}
	c.clock.Start()

	if err := scene.Prepare(c.frameNumber); err != nil {
		return c.halt(err)
	}

	if err := c.enter(PhaseAcquiring); err != nil {
		return err
	}
	if err := c.acquire(); err != nil {
		return c.halt(err)
	}

	if err := c.enter(PhaseRecording); err != nil {
		return err
	}
	if err := c.record(scene); err != nil {
		return c.halt(err)
	}

	if err := c.enter(PhaseSubmitted); err != nil {
		return err
	}
	if err := c.submit(); err != nil {
		return c.halt(err)
	}

	if err := c.enter(PhasePresenting); err != nil {
		return err
	}
	if err := c.present(); err != nil {
		return c.halt(err)
	}

	if err := c.enter(PhaseIdle); err != nil {
		return err
	}
	c.frameNumber++
	c.clock.Update()
	c.metrics.Update(c.clock.Elapsed())
	c.clock.Stop()
	return nil
}

func (c *Controller) acquire() error {
	index, err := c.swapchain.AcquireNextImage(c.cfg.AcquireTimeout, c.imageFence)
	if err != nil {
		if gpu.IsTimeout(err) {
			return core.SynchronizationTimeout(err, "acquiring swapchain image within %s", c.cfg.AcquireTimeout)
		}
		return core.ResourceCreationFailure(err, "acquiring swapchain image")
	}
	c.imageIndex = index
	return nil
}

func (c *Controller) submit() error {
	if err := c.device.ResetFence(c.commandFence); err != nil {
		return core.ResourceCreationFailure(err, "resetting command fence")
	}
	if err := c.device.QueueSubmit(c.cmd, c.commandFence); err != nil {
		return core.ResourceCreationFailure(err, "submitting frame %d", c.frameNumber)
	}
	return nil
}

func (c *Controller) wait(fence gpu.Fence, name string) error {
	if err := c.device.WaitForFence(fence, c.cfg.FenceTimeout); err != nil {
		return core.SynchronizationTimeout(err, "waiting on %s fence within %s", name, c.cfg.FenceTimeout)
	}
	return nil
}

// present only runs once both the command and the image fence have signalled.
func (c *Controller) present() error {
	if err := c.wait(c.commandFence, "command"); err != nil {
		return err
	}
	if err := c.wait(c.imageFence, "image"); err != nil {
		return err
	}
	if err := c.swapchain.Present(c.imageIndex); err != nil {
		return core.PresentationFailure(err, "presenting swapchain image %d", c.imageIndex)
	}
	if err := c.device.ResetFence(c.imageFence); err != nil {
		return core.ResourceCreationFailure(err, "resetting image fence")
	}
	return nil
}

// Destroy waits for the device to go idle and releases everything New created.
func (c *Controller) Destroy() {
	if err := c.device.WaitIdle(); err != nil {
		core.LogWarn("device wait idle before frame teardown: %s", err)
	}
	if c.commandFence != 0 {
		c.device.DestroyFence(c.commandFence)
		c.commandFence = 0
	}
	if c.imageFence != 0 {
		c.device.DestroyFence(c.imageFence)
		c.imageFence = 0
	}
	if c.cmd != 0 {
		c.device.FreeCommandBuffer(c.cmd)
		c.cmd = 0
	}
	if c.depth != nil {
		c.depth.Destroy()
		c.depth = nil
		c.depthView = 0
	}
}
