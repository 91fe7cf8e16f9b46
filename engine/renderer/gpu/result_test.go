package gpu

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	require.NoError(t, Check("vkQueuePresentKHR", Success))
	require.NoError(t, Check("vkQueuePresentKHR", Suboptimal))

	err := Check("vkWaitForFences", Timeout)
	require.Error(t, err)
	require.True(t, IsTimeout(err))
	require.True(t, IsTimeout(errors.Wrap(err, "frame")))
	require.Equal(t, "vkWaitForFences: VK_TIMEOUT A wait operation has not completed in the specified time", err.Error())

	err = Check("vkAllocateDescriptorSets", ErrorOutOfPoolMemory)
	require.False(t, IsTimeout(err))
	require.Equal(t, ErrorOutOfPoolMemory, ResultOf(err))
	require.Equal(t, ErrorUnknown, ResultOf(errors.New("plain")))
	require.Equal(t, "VkResult(42)", Result(42).String())
}

func TestCheckExactRejectsSuboptimal(t *testing.T) {
	require.NoError(t, CheckExact("vkAcquireNextImageKHR", Success))

	err := CheckExact("vkAcquireNextImageKHR", Suboptimal)
	require.Error(t, err)
	require.Equal(t, Suboptimal, ResultOf(err))
	require.Error(t, CheckExact("vkQueuePresentKHR", Incomplete))
}

func TestFormat(t *testing.T) {
	for f := FormatUndefined; f <= FormatD24UnormS8Uint; f++ {
		parsed, ok := ParseFormat(f.String())
		require.True(t, ok, f.String())
		require.Equal(t, f, parsed)
	}
	_, ok := ParseFormat("bc7")
	require.False(t, ok)

	require.True(t, FormatD32Sfloat.IsDepth())
	require.False(t, FormatD32Sfloat.HasStencil())
	require.True(t, FormatD24UnormS8Uint.HasStencil())
	require.Equal(t, uint64(4), FormatR8G8B8A8Unorm.BytesPerPixel())
	require.Equal(t, uint64(16), FormatR32G32B32A32Sfloat.BytesPerPixel())
}

func TestDescriptorType(t *testing.T) {
	require.True(t, DescriptorTypeUniformBufferDynamic.IsDynamic())
	require.True(t, DescriptorTypeStorageBufferDynamic.IsDynamic())
	require.False(t, DescriptorTypeUniformBuffer.IsDynamic())
	require.False(t, DescriptorTypeCombinedImageSampler.IsBuffer())
}
