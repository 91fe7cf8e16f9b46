package memory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu/gputest"
)

func TestLinearImageSync(t *testing.T) {
	a, device := newTestAllocator(t)

	img, err := a.CreateImage(gpu.ImageCreateInfo{
		Width:  4,
		Height: 2,
		Format: gpu.FormatR8G8B8A8Unorm,
		Tiling: gpu.ImageTilingLinear,
		Usage:  gpu.ImageUsageSampled,
	})
	require.NoError(t, err)
	require.Equal(t, ClassCPUVisible, img.Class())
	require.Len(t, img.Mirror(), 4*2*4)

	for i := range img.Mirror() {
		img.Mirror()[i] = byte(i)
	}
	require.NoError(t, img.Sync())
	require.Equal(t, img.Mirror(), device.ImageContents(img.Handle()))

	img.Destroy()
	require.NoError(t, a.Destroy())
}

func TestOptimalImageSyncIsRejected(t *testing.T) {
	a, device := newTestAllocator(t)

	img, err := a.CreateImage(gpu.ImageCreateInfo{
		Width:  16,
		Height: 16,
		Format: gpu.FormatD32Sfloat,
		Tiling: gpu.ImageTilingOptimal,
		Usage:  gpu.ImageUsageDepthStencilAttachment,
	})
	require.NoError(t, err)
	defer img.Destroy()

	require.Equal(t, ClassGPUOnly, img.Class())
	require.ErrorIs(t, img.Sync(), core.ErrContractViolation)
	require.Empty(t, device.CallsTo("MapMemory"))
}

func TestImagesAndBuffersUseSeparateBlocks(t *testing.T) {
	a, device := newTestAllocator(t)

	img, err := a.CreateImage(gpu.ImageCreateInfo{
		Width: 8, Height: 8, Format: gpu.FormatR8G8B8A8Unorm, Tiling: gpu.ImageTilingLinear,
	})
	require.NoError(t, err)
	buf, err := a.CreateBuffer(64, gpu.BufferUsageUniform, ClassCPUVisible)
	require.NoError(t, err)
	depth, err := a.CreateImage(gpu.ImageCreateInfo{
		Width: 8, Height: 8, Format: gpu.FormatD32Sfloat, Tiling: gpu.ImageTilingOptimal,
	})
	require.NoError(t, err)

	// linear image and buffer share a block, the optimal image gets its own list
	require.Same(t, img.alloc.block, buf.alloc.block)
	require.NotSame(t, img.alloc.block, depth.alloc.block)
	require.Equal(t, 2, device.LiveMemory())

	depth.Destroy()
	buf.Destroy()
	img.Destroy()
	require.NoError(t, a.Destroy())
	require.Zero(t, device.Live())
}

func TestImageViewsAreDestroyedWithImage(t *testing.T) {
	a, device := newTestAllocator(t)

	img, err := a.CreateImage(gpu.ImageCreateInfo{
		Width: 8, Height: 8, Format: gpu.FormatD32Sfloat, Tiling: gpu.ImageTilingOptimal,
	})
	require.NoError(t, err)
	_, err = img.CreateView(gpu.ImageAspectDepth)
	require.NoError(t, err)

	device.ClearCalls()
	img.Destroy()
	require.Equal(t, []string{"DestroyImageView", "DestroyImage"}, device.CallNames())
}

func TestCreateImageValidation(t *testing.T) {
	a, _ := newTestAllocator(t)

	_, err := a.CreateImage(gpu.ImageCreateInfo{Width: 0, Height: 8, Format: gpu.FormatR8G8B8A8Unorm})
	require.ErrorIs(t, err, core.ErrContractViolation)
	_, err = a.CreateImage(gpu.ImageCreateInfo{Width: 8, Height: 8, Format: gpu.FormatUndefined})
	require.ErrorIs(t, err, core.ErrContractViolation)
}

func TestCreateImageWithoutMatchingMemoryType(t *testing.T) {
	device := gputest.NewDevice()
	// only device local memory: a linear image needs host visible memory
	device.Props.Types = device.Props.Types[:1]
	a, err := New(device, DefaultConfig())
	require.NoError(t, err)

	_, err = a.CreateImage(gpu.ImageCreateInfo{
		Width: 2, Height: 2, Format: gpu.FormatR8G8B8A8Unorm, Tiling: gpu.ImageTilingLinear,
	})
	require.ErrorIs(t, err, core.ErrResourceCreation)
	require.Len(t, device.CallsTo("DestroyImage"), 1)
}
