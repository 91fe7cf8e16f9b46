package testbed

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/lumen/engine"
	"github.com/spaghettifunk/lumen/engine/assets"
	"github.com/spaghettifunk/lumen/engine/renderer/frame"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu/gputest"
	"github.com/spaghettifunk/lumen/engine/renderer/memory"
)

var extent = gpu.Extent2D{Width: 320, Height: 240}

func spirv(words ...uint32) []byte {
	out := make([]byte, 4*(5+len(words)))
	binary.LittleEndian.PutUint32(out, 0x07230203)
	binary.LittleEndian.PutUint32(out[4:], 0x00010000)
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[20+4*i:], w)
	}
	return out
}

func writeShader(t *testing.T, root, name string, data []byte) {
	t.Helper()
	path := filepath.Join(root, "shaders", name+".spv")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

type fixture struct {
	root      string
	device    *gputest.Device
	allocator *memory.Allocator
	assets    *assets.AssetManager
	game      *TestGame
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	writeShader(t, root, vertexShader, spirv(1))
	writeShader(t, root, fragmentShader, spirv(2))

	device := gputest.NewDevice()
	cfg := memory.DefaultConfig()
	cfg.BlockSize = 1 << 20
	allocator, err := memory.New(device, cfg)
	require.NoError(t, err)

	am, err := assets.NewAssetManager(root, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = am.Close() })

	game := NewTestGame()
	require.NoError(t, game.Initialize(&engine.Context{
		Device:      device,
		Allocator:   allocator,
		Assets:      am,
		ColorFormat: gpu.FormatB8G8R8A8Unorm,
		DepthFormat: gpu.FormatD32Sfloat,
		Extent:      extent,
	}))
	return &fixture{root: root, device: device, allocator: allocator, assets: am, game: game}
}

func TestInitializeBuildsScene(t *testing.T) {
	f := newFixture(t)

	passes := f.game.Passes()
	require.Len(t, passes, 1)
	objects := passes[0].Objects
	require.Len(t, objects, 4)
	for i, obj := range objects {
		assert.True(t, obj.Dynamic)
		assert.Equal(t, uint32(modelSet), obj.DynamicSet)
		assert.Equal(t, uint32(i*192), obj.DynamicOffset)
	}

	info, ok := f.device.PipelineInfo(passes[0].Pipeline.Handle())
	require.True(t, ok)
	assert.Equal(t, gpu.CullModeNone, info.Rasterization.CullMode)
	require.Len(t, info.VertexBindings, 4)
	assert.Equal(t, uint32(16), info.VertexBindings[0].Stride)
	assert.Equal(t, uint32(8), info.VertexBindings[3].Stride)
	assert.Equal(t, gpu.FormatR32G32Sfloat, info.VertexAttributes[3].Format)
	assert.Equal(t, gpu.FormatD32Sfloat, info.DepthFormat)

	require.NoError(t, f.game.Shutdown())
	require.NoError(t, f.allocator.Destroy())
	assert.Equal(t, 0, f.device.Live())
}

func TestUniformLayoutSizes(t *testing.T) {
	assert.Equal(t, uint64(16), sizeOf[globalUniforms]())
	assert.Equal(t, uint64(32), sizeOf[light]())
	assert.Equal(t, uint64(144), sizeOf[cameraUniforms]())
	assert.Equal(t, uint64(192), sizeOf[modelUniforms]())
}

func TestPrepareWritesUniforms(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.game.Update(0.5))
	require.NoError(t, f.game.Prepare(7))

	globals := f.device.BufferContents(f.game.globals.Handle())
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(globals[4:8]))

	// Each model slot carries a translation in its model matrix; the ground
	// sits below the origin.
	models := f.device.BufferContents(f.game.models.Handle())
	groundY := binary.LittleEndian.Uint32(models[13*4 : 14*4])
	assert.NotZero(t, groundY)

	require.NoError(t, f.game.Shutdown())
	require.NoError(t, f.allocator.Destroy())
}

func TestRenderFrameDrawsEveryMesh(t *testing.T) {
	f := newFixture(t)
	swapchain := gputest.NewSwapchain(f.device, 2, extent)
	ctrl, err := frame.New(f.device, swapchain, f.allocator, frame.DefaultConfig())
	require.NoError(t, err)

	f.device.ClearCalls()
	require.NoError(t, ctrl.RenderFrame(f.game))
	require.NoError(t, ctrl.RenderFrame(f.game))

	assert.Len(t, f.device.CallsTo("CmdDrawIndexed"), 8)
	assert.Equal(t, uint64(2), ctrl.FrameNumber())

	require.NoError(t, f.game.Shutdown())
	ctrl.Destroy()
	require.NoError(t, f.allocator.Destroy())
}

func TestReloadShaders(t *testing.T) {
	f := newFixture(t)
	before := f.game.pipeline
	oldHandle := before.Handle()

	require.NoError(t, f.game.ReloadShaders([]string{"shaders/other.frag.spv"}))
	assert.Same(t, before, f.game.pipeline)

	writeShader(t, f.root, fragmentShader, spirv(3))
	require.NoError(t, f.game.ReloadShaders([]string{"shaders/pbr.frag.spv"}))
	assert.NotSame(t, before, f.game.pipeline)
	assert.Same(t, f.game.pipeline, f.game.Passes()[0].Pipeline)
	_, alive := f.device.PipelineInfo(oldHandle)
	assert.False(t, alive)

	// A broken shader keeps the pipeline that works.
	current := f.game.pipeline
	writeShader(t, f.root, vertexShader, []byte("not spirv"))
	require.NoError(t, f.game.ReloadShaders([]string{"shaders/pbr.vert.spv"}))
	assert.Same(t, current, f.game.pipeline)

	require.NoError(t, f.game.Shutdown())
	require.NoError(t, f.allocator.Destroy())
	assert.Equal(t, 0, f.device.Live())
}
