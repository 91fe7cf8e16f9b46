package memory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu/gputest"
)

func newTestAllocator(t *testing.T, mutate ...func(*Config)) (*Allocator, *gputest.Device) {
	t.Helper()
	device := gputest.NewDevice()
	cfg := DefaultConfig()
	cfg.BlockSize = 1 << 20
	for _, m := range mutate {
		m(&cfg)
	}
	a, err := New(device, cfg)
	require.NoError(t, err)
	return a, device
}

func TestNewCreatesPoolWithEveryDescriptorType(t *testing.T) {
	_, device := newTestAllocator(t)

	calls := device.CallsTo("CreateDescriptorPool")
	require.Len(t, calls, 1)
	info := calls[0].Args[0].(gpu.DescriptorPoolCreateInfo)
	require.Equal(t, uint32(1024), info.MaxSets)
	require.True(t, info.FreeDescriptorSet)
	require.Len(t, info.PoolSizes, len(gpu.DescriptorTypes))
	for _, s := range info.PoolSizes {
		require.Equal(t, uint32(1024), s.Count)
	}
}

func TestNewFailsWhenPoolCannotBeCreated(t *testing.T) {
	device := gputest.NewDevice()
	device.FailNext("CreateDescriptorPool", gpu.ErrorOutOfHostMemory)

	_, err := New(device, DefaultConfig())
	require.ErrorIs(t, err, core.ErrResourceCreation)
	require.Equal(t, gpu.ErrorOutOfHostMemory, gpu.ResultOf(err))
}

func TestBufferCopyAtOffset(t *testing.T) {
	a, device := newTestAllocator(t)

	buf, err := a.CreateBuffer(256, gpu.BufferUsageUniform, ClassCPUVisible)
	require.NoError(t, err)

	src := make([]byte, 128)
	for i := range src {
		src[i] = byte(i + 1)
	}
	require.NoError(t, buf.Copy(src, 64))

	contents := device.BufferContents(buf.Handle())
	require.Len(t, contents, 256)
	require.Equal(t, make([]byte, 64), contents[:64])
	require.Equal(t, src, contents[64:192])
	require.Equal(t, make([]byte, 64), contents[192:])

	readback := make([]byte, 128)
	require.NoError(t, buf.Read(readback, 64))
	require.Equal(t, src, readback)

	// the scoped mapping is released after each copy
	require.Len(t, device.CallsTo("MapMemory"), 2)
	require.Len(t, device.CallsTo("UnmapMemory"), 2)

	buf.Destroy()
	require.NoError(t, a.Destroy())
	require.Zero(t, device.Live())
}

func TestBufferCopyRejectsOutOfRange(t *testing.T) {
	a, device := newTestAllocator(t)

	buf, err := a.CreateBuffer(256, gpu.BufferUsageUniform, ClassCPUVisible)
	require.NoError(t, err)
	defer buf.Destroy()

	err = buf.Copy(make([]byte, 128), 192)
	require.ErrorIs(t, err, core.ErrContractViolation)
	err = buf.Copy(make([]byte, 1), 257)
	require.ErrorIs(t, err, core.ErrContractViolation)
	require.Empty(t, device.CallsTo("MapMemory"))

	require.NoError(t, buf.Copy(make([]byte, 256), 0))
	require.NoError(t, buf.Copy(nil, 256))
}

func TestBufferCopyRejectsGPUOnly(t *testing.T) {
	a, _ := newTestAllocator(t)

	buf, err := a.CreateBuffer(64, gpu.BufferUsageVertex, ClassGPUOnly)
	require.NoError(t, err)
	defer buf.Destroy()

	require.ErrorIs(t, buf.Copy([]byte{1, 2, 3}, 0), core.ErrContractViolation)
}

func TestCopyValues(t *testing.T) {
	a, device := newTestAllocator(t)

	buf, err := a.CreateBuffer(32, gpu.BufferUsageStorage, ClassCPUVisible)
	require.NoError(t, err)
	defer buf.Destroy()

	require.NoError(t, CopyValues(buf, []uint32{0x04030201, 0x08070605}, 8))
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, device.BufferContents(buf.Handle())[8:16])
}

func TestCreateBufferRejectsZeroSize(t *testing.T) {
	a, device := newTestAllocator(t)

	_, err := a.CreateBuffer(0, gpu.BufferUsageUniform, ClassCPUVisible)
	require.ErrorIs(t, err, core.ErrContractViolation)
	require.Empty(t, device.CallsTo("CreateBuffer"))
}

func TestCreateBufferCleansUpWhenBindFails(t *testing.T) {
	a, device := newTestAllocator(t)
	device.FailNext("BindBufferMemory", gpu.ErrorOutOfDeviceMemory)

	_, err := a.CreateBuffer(64, gpu.BufferUsageUniform, ClassCPUVisible)
	require.ErrorIs(t, err, core.ErrResourceCreation)
	require.Len(t, device.CallsTo("DestroyBuffer"), 1)
	require.Zero(t, a.LiveAllocations())
}

func TestBuffersShareBlocks(t *testing.T) {
	a, device := newTestAllocator(t)

	first, err := a.CreateBuffer(256, gpu.BufferUsageUniform, ClassCPUVisible)
	require.NoError(t, err)
	second, err := a.CreateBuffer(256, gpu.BufferUsageUniform, ClassCPUVisible)
	require.NoError(t, err)

	require.Equal(t, 1, device.LiveMemory())
	require.Same(t, first.alloc.block, second.alloc.block)
	require.NotEqual(t, first.alloc.offset, second.alloc.offset)
	require.Zero(t, second.alloc.offset%256)

	stats := a.Stats()
	require.Equal(t, 1, stats.BlockCount)
	require.Equal(t, 2, stats.AllocationCount)

	// a copy into one buffer never touches its neighbour
	require.NoError(t, first.Copy([]byte{0xff, 0xff}, 254))
	require.Equal(t, make([]byte, 256), device.BufferContents(second.Handle()))

	first.Destroy()
	second.Destroy()
	// the last shared block stays around for reuse
	require.Equal(t, 1, device.LiveMemory())
	require.NoError(t, a.Destroy())
	require.Zero(t, device.LiveMemory())
}

func TestFreedSpaceIsReclaimed(t *testing.T) {
	a, device := newTestAllocator(t)

	create := func() *Buffer {
		buf, err := a.CreateBuffer(256, gpu.BufferUsageUniform, ClassCPUVisible)
		require.NoError(t, err)
		return buf
	}
	first, second, third := create(), create(), create()
	require.Equal(t, uint64(0), first.alloc.offset)
	require.Equal(t, uint64(256), second.alloc.offset)
	require.Equal(t, uint64(512), third.alloc.offset)

	// the hole left by second opens up once everything after it is gone
	second.Destroy()
	third.Destroy()
	fourth := create()
	require.Equal(t, uint64(256), fourth.alloc.offset)
	require.NoError(t, fourth.Copy([]byte{1, 2, 3}, 0))
	require.Equal(t, []byte{1, 2, 3}, device.BufferContents(fourth.Handle())[:3])

	first.Destroy()
	fourth.Destroy()
	fifth := create()
	require.Equal(t, uint64(0), fifth.alloc.offset)
	require.Equal(t, 1, device.LiveMemory())
	require.Equal(t, 1, a.Stats().AllocationCount)

	fifth.Destroy()
	require.NoError(t, a.Destroy())
	require.Zero(t, device.Live())
}

func TestLargeBufferGetsDedicatedMemory(t *testing.T) {
	a, device := newTestAllocator(t)

	small, err := a.CreateBuffer(256, gpu.BufferUsageStorage, ClassCPUVisible)
	require.NoError(t, err)
	large, err := a.CreateBuffer(600<<10, gpu.BufferUsageStorage, ClassCPUVisible)
	require.NoError(t, err)

	require.Equal(t, 2, device.LiveMemory())
	require.True(t, large.alloc.block.dedicated)
	require.Zero(t, large.alloc.offset)

	large.Destroy()
	require.Equal(t, 1, device.LiveMemory())
	small.Destroy()
	require.NoError(t, a.Destroy())
}

func TestNestedMappingMapsOnce(t *testing.T) {
	a, device := newTestAllocator(t)

	buf, err := a.CreateBuffer(64, gpu.BufferUsageUniform, ClassCPUVisible)
	require.NoError(t, err)
	defer buf.Destroy()

	block := buf.alloc.block
	outer, err := block.Map(device)
	require.NoError(t, err)
	require.NoError(t, buf.Copy([]byte{7}, 0))
	require.True(t, device.IsMapped(block.memory))
	require.Equal(t, byte(7), outer[buf.alloc.offset])

	block.Unmap(device)
	require.False(t, device.IsMapped(block.memory))
	require.Len(t, device.CallsTo("MapMemory"), 1)
}

func TestDestroyIsIdempotent(t *testing.T) {
	a, device := newTestAllocator(t)

	buf, err := a.CreateBuffer(64, gpu.BufferUsageUniform, ClassCPUVisible)
	require.NoError(t, err)
	buf.Destroy()
	buf.Destroy()
	a.DestroyBuffer(buf)

	require.True(t, buf.Destroyed())
	require.Len(t, device.CallsTo("DestroyBuffer"), 1)
	require.ErrorIs(t, buf.Copy([]byte{1}, 0), core.ErrContractViolation)
}

func TestAllocatorDestroyReportsLeaks(t *testing.T) {
	a, device := newTestAllocator(t)

	buf, err := a.CreateBuffer(64, gpu.BufferUsageUniform, ClassCPUVisible)
	require.NoError(t, err)

	err = a.Destroy()
	require.ErrorIs(t, err, core.ErrContractViolation)
	require.Contains(t, err.Error(), buf.ID().String())
	require.Empty(t, device.CallsTo("DestroyDescriptorPool"))

	buf.Destroy()
	require.NoError(t, a.Destroy())
	require.Len(t, device.CallsTo("DestroyDescriptorPool"), 1)
	require.NoError(t, a.Destroy())
}

func TestDescriptorPoolExhaustion(t *testing.T) {
	a, device := newTestAllocator(t, func(c *Config) { c.MaxSets = 1 })

	layout, err := device.CreateDescriptorSetLayout([]gpu.DescriptorSetLayoutBinding{
		{Binding: 0, Type: gpu.DescriptorTypeUniformBuffer, Count: 1, Stages: gpu.ShaderStageVertex},
	})
	require.NoError(t, err)

	sets, err := a.AllocateDescriptorSets([]gpu.DescriptorSetLayout{layout})
	require.NoError(t, err)
	require.Len(t, sets, 1)

	_, err = a.AllocateDescriptorSets([]gpu.DescriptorSetLayout{layout})
	require.ErrorIs(t, err, core.ErrResourceCreation)
	require.Equal(t, gpu.ErrorOutOfPoolMemory, gpu.ResultOf(err))
	// no retry
	require.Len(t, device.CallsTo("AllocateDescriptorSets"), 2)

	require.ErrorIs(t, a.Destroy(), core.ErrContractViolation)
	require.NoError(t, a.FreeDescriptorSets(sets))
	require.ErrorIs(t, a.FreeDescriptorSets(sets), core.ErrContractViolation)

	_, err = a.AllocateDescriptorSets([]gpu.DescriptorSetLayout{layout})
	require.NoError(t, err)
}

func TestStatsJSON(t *testing.T) {
	a, _ := newTestAllocator(t)

	buf, err := a.CreateBuffer(512, gpu.BufferUsageVertex, ClassCPUVisible)
	require.NoError(t, err)
	defer buf.Destroy()

	data, err := a.StatsJSON()
	require.NoError(t, err)
	require.True(t, json.Valid(data), string(data))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	total := doc["Total"].(map[string]any)
	require.EqualValues(t, 1, total["AllocationCount"])
	require.Contains(t, string(data), buf.ID().String())
}

func TestUniformStride(t *testing.T) {
	a, _ := newTestAllocator(t)

	require.Equal(t, uint64(192), a.UniformStride(192))
	require.Equal(t, uint64(256), a.UniformStride(200))
	require.Equal(t, uint64(64), a.StorageStride(32))
}
