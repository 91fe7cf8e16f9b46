package frame

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/descriptor"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu/gputest"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu/mocks"
	"github.com/spaghettifunk/lumen/engine/renderer/material"
	"github.com/spaghettifunk/lumen/engine/renderer/memory"
	"github.com/spaghettifunk/lumen/engine/renderer/pipeline"
)

var (
	spirv  = []byte{0x03, 0x02, 0x23, 0x07, 0, 0, 1, 0}
	extent = gpu.Extent2D{Width: 64, Height: 32}
)

type testScene struct {
	prepared   []uint64
	passes     []Pass
	prepareErr error
}

func (s *testScene) Prepare(frameNumber uint64) error {
	s.prepared = append(s.prepared, frameNumber)
	return s.prepareErr
}

func (s *testScene) Passes() []Pass {
	return s.passes
}

type cube struct {
	draws int
}

func (c *cube) Draw(rec *Recorder) error {
	c.draws++
	rec.Draw(36, 1, 0, 0)
	return nil
}

func newAllocator(t *testing.T, device gpu.Device) *memory.Allocator {
	t.Helper()
	cfg := memory.DefaultConfig()
	cfg.BlockSize = 1 << 20
	a, err := memory.New(device, cfg)
	require.NoError(t, err)
	return a
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.AcquireTimeout = 5 * time.Second
	cfg.FenceTimeout = 2 * time.Second
	return cfg
}

func newController(t *testing.T) (*Controller, *gputest.Device, *gputest.Swapchain, *memory.Allocator) {
	t.Helper()
	device := gputest.NewDevice()
	swapchain := gputest.NewSwapchain(device, 2, extent)
	allocator := newAllocator(t, device)
	c, err := New(device, swapchain, allocator, testConfig())
	require.NoError(t, err)
	return c, device, swapchain, allocator
}

func TestRenderFrameProtocolOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewMockDevice(ctrl)
	swapchain := mocks.NewMockSwapchain(ctrl)
	allocator := newAllocator(t, gputest.NewDevice())
	cfg := testConfig()

	const (
		cmd          = gpu.CommandBuffer(1)
		imageFence   = gpu.Fence(2)
		commandFence = gpu.Fence(3)
	)

	swapchain.EXPECT().ImageCount().Return(uint32(2)).AnyTimes()
	swapchain.EXPECT().Extent().Return(extent).AnyTimes()
	swapchain.EXPECT().Image(uint32(1)).Return(gpu.Image(100)).AnyTimes()
	swapchain.EXPECT().View(uint32(1)).Return(gpu.ImageView(200)).AnyTimes()

	gomock.InOrder(
		device.EXPECT().AllocateCommandBuffer().Return(cmd, nil),
		device.EXPECT().CreateFence(false).Return(imageFence, nil),
		device.EXPECT().CreateFence(false).Return(commandFence, nil),

		swapchain.EXPECT().AcquireNextImage(cfg.AcquireTimeout, imageFence).Return(uint32(1), nil),
		device.EXPECT().ResetCommandBuffer(cmd).Return(nil),
		device.EXPECT().BeginCommandBuffer(cmd, gpu.CommandBufferUsageOneTimeSubmit).Return(nil),
		device.EXPECT().CmdSetViewport(cmd, gpu.Viewport{Width: 64, Height: 32, MaxDepth: 1}),
		device.EXPECT().CmdSetScissor(cmd, gpu.Rect2D{Extent: extent}),
		device.EXPECT().CmdPipelineBarrier(cmd, gpu.PipelineStageTopOfPipe, gomock.Any(), gomock.Len(2)),
		device.EXPECT().CmdBeginRendering(cmd, gomock.Any()),
		device.EXPECT().CmdEndRendering(cmd),
		device.EXPECT().CmdPipelineBarrier(cmd, gpu.PipelineStageColorAttachmentOutput, gpu.PipelineStageBottomOfPipe, gomock.Len(1)),
		device.EXPECT().EndCommandBuffer(cmd).Return(nil),
		device.EXPECT().ResetFence(commandFence).Return(nil),
		device.EXPECT().QueueSubmit(cmd, commandFence).Return(nil),
		device.EXPECT().WaitForFence(commandFence, cfg.FenceTimeout).Return(nil),
		device.EXPECT().WaitForFence(imageFence, cfg.FenceTimeout).Return(nil),
		swapchain.EXPECT().Present(uint32(1)).Return(nil),
		device.EXPECT().ResetFence(imageFence).Return(nil),

		device.EXPECT().WaitIdle().Return(nil),
		device.EXPECT().DestroyFence(commandFence),
		device.EXPECT().DestroyFence(imageFence),
		device.EXPECT().FreeCommandBuffer(cmd),
	)

	c, err := New(device, swapchain, allocator, cfg)
	require.NoError(t, err)

	scene := &testScene{}
	require.NoError(t, c.RenderFrame(scene))
	require.Equal(t, PhaseIdle, c.Phase())
	require.Equal(t, uint64(1), c.FrameNumber())
	require.Equal(t, []uint64{0}, scene.prepared)

	c.Destroy()
	require.Zero(t, allocator.LiveAllocations())
}

func TestRenderingAttachments(t *testing.T) {
	c, device, swapchain, _ := newController(t)
	require.NoError(t, c.RenderFrame(&testScene{}))

	calls := device.CallsTo("CmdBeginRendering")
	require.Len(t, calls, 1)
	info := calls[0].Args[1].(gpu.RenderingInfo)
	require.Equal(t, gpu.Rect2D{Extent: extent}, info.Area)
	require.Len(t, info.ColorAttachments, 1)
	require.Equal(t, swapchain.View(0), info.ColorAttachments[0].View)
	require.Equal(t, gpu.AttachmentLoadOpClear, info.ColorAttachments[0].LoadOp)
	require.Equal(t, gpu.AttachmentStoreOpStore, info.ColorAttachments[0].StoreOp)
	require.Equal(t, testConfig().ClearColor, info.ColorAttachments[0].ClearColor)
	require.NotNil(t, info.DepthAttachment)
	require.Equal(t, gpu.AttachmentStoreOpDontCare, info.DepthAttachment.StoreOp)
	require.Equal(t, float32(1), info.DepthAttachment.ClearDepth)

	barriers := device.CallsTo("CmdPipelineBarrier")
	require.Len(t, barriers, 2)
	first := barriers[0].Args[3].([]gpu.ImageBarrier)
	require.Equal(t, gpu.ImageLayoutColorAttachmentOptimal, first[0].NewLayout)
	require.Equal(t, gpu.ImageLayoutDepthStencilAttachmentOptimal, first[1].NewLayout)
	last := barriers[1].Args[3].([]gpu.ImageBarrier)
	require.Equal(t, gpu.ImageLayoutPresentSrc, last[0].NewLayout)
}

func TestFramesCycleSwapchainImages(t *testing.T) {
	c, _, swapchain, _ := newController(t)
	scene := &testScene{}

	for i := 0; i < 3; i++ {
		require.NoError(t, c.RenderFrame(scene))
	}
	require.Equal(t, []uint32{0, 1, 0}, swapchain.Presented)
	require.Equal(t, []uint64{0, 1, 2}, scene.prepared)
	require.Equal(t, uint64(3), c.FrameNumber())
}

func TestAcquireTimeoutHalts(t *testing.T) {
	c, device, swapchain, _ := newController(t)
	swapchain.AcquireResult = gpu.Timeout
	device.ClearCalls()

	err := c.RenderFrame(&testScene{})
	require.ErrorIs(t, err, core.ErrSynchronizationTimeout)
	require.Equal(t, PhaseHalted, c.Phase())
	require.Empty(t, device.CallsTo("BeginCommandBuffer"))
	require.Empty(t, device.CallsTo("QueueSubmit"))
	require.Empty(t, swapchain.Presented)

	again := c.RenderFrame(&testScene{})
	require.Equal(t, err, again)
	require.Len(t, device.CallsTo("AcquireNextImage"), 1)
}

func TestAcquireFailureIsNotATimeout(t *testing.T) {
	c, _, swapchain, _ := newController(t)
	swapchain.AcquireResult = gpu.ErrorSurfaceLost

	err := c.RenderFrame(&testScene{})
	require.ErrorIs(t, err, core.ErrResourceCreation)
	require.NotErrorIs(t, err, core.ErrSynchronizationTimeout)
}

func TestSuboptimalAcquireIsFatal(t *testing.T) {
	c, device, swapchain, _ := newController(t)
	swapchain.AcquireResult = gpu.Suboptimal

	err := c.RenderFrame(&testScene{})
	require.ErrorIs(t, err, core.ErrResourceCreation)
	require.Equal(t, gpu.Suboptimal, gpu.ResultOf(err))
	require.Equal(t, PhaseHalted, c.Phase())
	require.Empty(t, device.CallsTo("QueueSubmit"))
	require.Empty(t, swapchain.Presented)
}

func TestSuboptimalPresentIsFatal(t *testing.T) {
	c, _, swapchain, _ := newController(t)
	swapchain.PresentResult = gpu.Suboptimal

	err := c.RenderFrame(&testScene{})
	require.ErrorIs(t, err, core.ErrPresentation)
	require.Equal(t, gpu.Suboptimal, gpu.ResultOf(err))
	require.Equal(t, PhaseHalted, c.Phase())
	require.Empty(t, swapchain.Presented)
}

func TestPresentFailureHalts(t *testing.T) {
	c, device, swapchain, _ := newController(t)
	swapchain.PresentResult = gpu.ErrorOutOfDate

	err := c.RenderFrame(&testScene{})
	require.ErrorIs(t, err, core.ErrPresentation)
	require.Equal(t, gpu.ErrorOutOfDate, gpu.ResultOf(err))
	require.Equal(t, PhaseHalted, c.Phase())
	require.Len(t, device.CallsTo("QueueSubmit"), 1)
}

func TestFenceTimeoutPreventsPresent(t *testing.T) {
	c, device, swapchain, _ := newController(t)
	device.FailNext("WaitForFence", gpu.Timeout)

	err := c.RenderFrame(&testScene{})
	require.ErrorIs(t, err, core.ErrSynchronizationTimeout)
	require.Empty(t, device.CallsTo("Present"))
	require.Empty(t, swapchain.Presented)
}

func TestPrepareErrorHaltsBeforeAcquire(t *testing.T) {
	c, device, _, _ := newController(t)
	boom := errors.New("uniform upload failed")

	err := c.RenderFrame(&testScene{prepareErr: boom})
	require.ErrorIs(t, err, boom)
	require.Equal(t, PhaseHalted, c.Phase())
	require.Empty(t, device.CallsTo("AcquireNextImage"))
}

func TestDynamicOffsetsRebindOnlyOnChange(t *testing.T) {
	c, device, _, allocator := newController(t)

	layout := descriptor.NewLayout(device).
		AddBinding(0, 0, gpu.DescriptorTypeUniformBuffer, gpu.ShaderStageAllGraphics, 1).
		AddBinding(1, 0, gpu.DescriptorTypeUniformBufferDynamic, gpu.ShaderStageVertex, 1)
	require.NoError(t, layout.Generate())

	pcfg := pipeline.DefaultConfig()
	pcfg.Stages = []pipeline.Stage{{Stage: gpu.ShaderStageVertex, Code: spirv}}
	pcfg.Layout = layout
	p, err := pipeline.New(device, pcfg)
	require.NoError(t, err)

	m, err := material.New(allocator, layout)
	require.NoError(t, err)

	draw := &cube{}
	scene := &testScene{passes: []Pass{{
		Pipeline: p,
		Material: m,
		Objects: []Object{
			{Drawable: draw, Dynamic: true, DynamicSet: 1, DynamicOffset: 0},
			{Drawable: draw, Dynamic: true, DynamicSet: 1, DynamicOffset: 256},
			{Drawable: draw, Dynamic: true, DynamicSet: 1, DynamicOffset: 256},
			{Drawable: draw, Dynamic: true, DynamicSet: 1, DynamicOffset: 0},
			{Drawable: draw},
		},
	}}}

	device.ClearCalls()
	require.NoError(t, c.RenderFrame(scene))
	require.Equal(t, 5, draw.draws)
	require.Len(t, device.CallsTo("CmdDraw"), 5)

	binds := device.CallsTo("CmdBindDescriptorSets")
	require.Len(t, binds, 3)
	require.Equal(t, uint32(0), binds[0].Args[2])
	require.Equal(t, []uint32{0}, binds[0].Args[4])
	require.Equal(t, uint32(1), binds[1].Args[2])
	require.Equal(t, []uint32{256}, binds[1].Args[4])
	require.Equal(t, []uint32{0}, binds[2].Args[4])

	names := device.CallNames()
	require.Less(t, indexOf(names, "CmdBindPipeline"), indexOf(names, "CmdBindDescriptorSets"))
	require.Less(t, indexOf(names, "CmdBeginRendering"), indexOf(names, "CmdBindPipeline"))
	require.Less(t, lastIndexOf(names, "CmdDraw"), indexOf(names, "CmdEndRendering"))
}

func TestStaleMaterialHaltsRecording(t *testing.T) {
	c, device, _, allocator := newController(t)

	layout := descriptor.NewLayout(device).
		AddBinding(0, 0, gpu.DescriptorTypeUniformBuffer, gpu.ShaderStageAllGraphics, 1)
	require.NoError(t, layout.Generate())
	pcfg := pipeline.DefaultConfig()
	pcfg.Stages = []pipeline.Stage{{Stage: gpu.ShaderStageVertex, Code: spirv}}
	pcfg.Layout = layout
	p, err := pipeline.New(device, pcfg)
	require.NoError(t, err)
	m, err := material.New(allocator, layout)
	require.NoError(t, err)
	require.NoError(t, layout.Generate())

	err = c.RenderFrame(&testScene{passes: []Pass{{Pipeline: p, Material: m}}})
	require.ErrorIs(t, err, core.ErrContractViolation)
	require.Equal(t, PhaseHalted, c.Phase())
	require.Empty(t, device.CallsTo("QueueSubmit"))
}

func TestNewRejectsColorDepthFormat(t *testing.T) {
	device := gputest.NewDevice()
	cfg := testConfig()
	cfg.DepthFormat = gpu.FormatR8G8B8A8Unorm

	_, err := New(device, gputest.NewSwapchain(device, 2, extent), newAllocator(t, device), cfg)
	require.ErrorIs(t, err, core.ErrContractViolation)
}

func TestDestroyReleasesEverything(t *testing.T) {
	c, device, _, allocator := newController(t)
	require.NoError(t, c.RenderFrame(&testScene{}))

	c.Destroy()
	require.Zero(t, allocator.LiveAllocations())
	require.NoError(t, allocator.Destroy())
	require.Zero(t, device.Live())
}

func TestTransitionTable(t *testing.T) {
	order := []Phase{PhaseIdle, PhaseAcquiring, PhaseRecording, PhaseSubmitted, PhasePresenting, PhaseIdle}
	for i := 0; i+1 < len(order); i++ {
		require.True(t, canTransition(order[i], order[i+1]), "%s -> %s", order[i], order[i+1])
		require.True(t, canTransition(order[i], PhaseHalted))
	}
	require.False(t, canTransition(PhaseIdle, PhasePresenting))
	require.False(t, canTransition(PhaseRecording, PhaseAcquiring))
	require.False(t, canTransition(PhaseHalted, PhaseIdle))
	require.Equal(t, "presenting", PhasePresenting.String())
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func lastIndexOf(names []string, name string) int {
	for i := len(names) - 1; i >= 0; i-- {
		if names[i] == name {
			return i
		}
	}
	return -1
}
