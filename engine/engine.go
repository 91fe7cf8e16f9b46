package engine

import (
	"path"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/spaghettifunk/lumen/engine/assets"
	"github.com/spaghettifunk/lumen/engine/config"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/platform"
	"github.com/spaghettifunk/lumen/engine/renderer/frame"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
	"github.com/spaghettifunk/lumen/engine/renderer/memory"
	"github.com/spaghettifunk/lumen/engine/renderer/vulkan"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

func (s Stage) String() string {
	switch s {
	case EngineStageUninitialized:
		return "uninitialized"
	case EngineStageBooting:
		return "booting"
	case EngineStageInitialized:
		return "initialized"
	case EngineStageRunning:
		return "running"
	case EngineStageShuttingDown:
		return "shutting down"
	}
	return "unknown"
}

const metricsInterval = 5 * time.Second

type Engine struct {
	currentStage Stage
	cfg          config.Config
	game         Game

	platform   *platform.Platform
	context    *vulkan.Context
	swapchain  *vulkan.Swapchain
	allocator  *memory.Allocator
	controller *frame.Controller
	assets     *assets.AssetManager

	gameStarted bool
	clock       *core.Clock
	lastTime    float64
	lastMetrics float64
}

func New(cfg config.Config, game Game) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if game == nil {
		return nil, core.ContractViolation("engine needs a game")
	}
	return &Engine{
		currentStage: EngineStageUninitialized,
		cfg:          cfg,
		game:         game,
		platform:     platform.New(),
		clock:        core.NewClock(),
	}, nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

// Initialize brings up the window, the Vulkan context, the swapchain, the
// allocator, the frame controller and the asset watcher, then hands them to
// the game. On failure whatever was created is shut down again.
func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return core.ContractViolation("engine initialized in stage %s", e.currentStage)
	}
	e.currentStage = EngineStageBooting

	if err := e.initialize(); err != nil {
		if shutdownErr := e.Shutdown(); shutdownErr != nil {
			core.LogError("shutdown after failed initialization: %s", shutdownErr)
		}
		return err
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("engine initialized")
	return nil
}

func (e *Engine) initialize() error {
	app, win, rc := e.cfg.Application, e.cfg.Window, e.cfg.Renderer

	if err := e.platform.Startup(app.Name, win.X, win.Y, win.Width, win.Height); err != nil {
		return err
	}

	var err error
	e.context, err = vulkan.NewContext(vulkan.ContextConfig{
		ApplicationName: app.Name,
		Validation:      rc.Validation,
	}, e.platform)
	if err != nil {
		return err
	}
	device := e.context.Device

	if e.swapchain, err = e.context.NewSwapchain(); err != nil {
		return err
	}

	if e.allocator, err = memory.New(device, e.memoryConfig()); err != nil {
		return err
	}

	depthFormat, err := e.depthFormat(device)
	if err != nil {
		return err
	}
	e.controller, err = frame.New(device, e.swapchain, e.allocator, frame.Config{
		AcquireTimeout: rc.AcquireTimeout.Duration,
		FenceTimeout:   rc.FenceTimeout.Duration,
		ClearColor:     rc.ClearColor,
		ClearDepth:     rc.ClearDepth,
		DepthFormat:    depthFormat,
	})
	if err != nil {
		return err
	}

	if e.assets, err = assets.NewAssetManager(e.cfg.Assets.Dir, e.cfg.Assets.Watch); err != nil {
		return err
	}

	ctx := &Context{
		Device:      device,
		Allocator:   e.allocator,
		Assets:      e.assets,
		ColorFormat: e.swapchain.Format(),
		DepthFormat: depthFormat,
		Extent:      e.swapchain.Extent(),
	}
	e.gameStarted = true
	if err := e.game.Initialize(ctx); err != nil {
		return errors.Wrap(err, "initializing game")
	}
	return nil
}

func (e *Engine) memoryConfig() memory.Config {
	mc, dc := e.cfg.Memory, e.cfg.Descriptors
	return memory.Config{
		BlockSize: uint64(mc.BlockSizeMiB) << 20,
		MaxSets:   dc.MaxSets,
		PoolSizes: map[gpu.DescriptorType]uint32{
			gpu.DescriptorTypeUniformBuffer:        dc.Uniform,
			gpu.DescriptorTypeUniformBufferDynamic: dc.DynamicUniform,
			gpu.DescriptorTypeStorageBuffer:        dc.Storage,
			gpu.DescriptorTypeStorageBufferDynamic: dc.DynamicStorage,
			gpu.DescriptorTypeCombinedImageSampler: dc.CombinedImageSampler,
		},
	}
}

// depthFormat prefers the configured format and falls back to whichever
// depth format the device supports.
func (e *Engine) depthFormat(device *vulkan.Device) (gpu.Format, error) {
	preferred, ok := gpu.ParseFormat(e.cfg.Renderer.DepthFormat)
	if !ok || !preferred.IsDepth() {
		return gpu.FormatUndefined, core.ContractViolation("%q is not a depth format", e.cfg.Renderer.DepthFormat)
	}
	format, ok := device.SupportedDepthFormat(preferred, gpu.FormatD32Sfloat, gpu.FormatD32SfloatS8Uint, gpu.FormatD24UnormS8Uint)
	if !ok {
		return gpu.FormatUndefined, core.ResourceCreationFailure(nil, "no supported depth format")
	}
	if format != preferred {
		core.LogWarn("depth format %s unsupported, using %s", preferred, format)
	}
	return format, nil
}

// RequestClose asks the loop to stop after the current frame. It is safe to
// call from any goroutine.
func (e *Engine) RequestClose() {
	e.platform.RequestClose()
}

// Run renders frames until a close is requested or a frame fails.
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return core.ContractViolation("engine run in stage %s", e.currentStage)
	}
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed().Seconds()

	for {
		e.platform.PumpMessages()
		if e.platform.CloseRequested() {
			core.LogInfo("close requested after frame %d", e.controller.FrameNumber())
			return nil
		}

		if err := e.reloadShaders(); err != nil {
			return errors.Wrap(err, "reloading shaders")
		}

		e.clock.Update()
		now := e.clock.Elapsed().Seconds()
		delta := now - e.lastTime
		e.lastTime = now

		if err := e.game.Update(delta); err != nil {
			return errors.Wrap(err, "updating game")
		}

		if err := e.controller.RenderFrame(e.game); err != nil {
			return errors.Wrapf(err, "rendering frame %d", e.controller.FrameNumber())
		}

		if now-e.lastMetrics >= metricsInterval.Seconds() {
			m := e.controller.Metrics()
			core.LogDebug("%.1f fps, %.3f ms/frame", m.FPS(), m.FrameTime())
			e.lastMetrics = now
		}
	}
}

// reloadShaders hands changed compiled shaders to the game after the device
// has drained.
func (e *Engine) reloadShaders() error {
	var shaders []string
	for _, p := range e.assets.Changed() {
		if strings.HasPrefix(p, "shaders/") && path.Ext(p) == ".spv" {
			shaders = append(shaders, p)
		}
	}
	if len(shaders) == 0 {
		return nil
	}

	core.LogInfo("reloading shaders: %s", strings.Join(shaders, ", "))
	if err := e.context.Device.WaitIdle(); err != nil {
		return core.SynchronizationTimeout(err, "waiting for device idle before shader reload")
	}
	return e.game.ReloadShaders(shaders)
}

// Shutdown tears everything down in reverse creation order. It tolerates a
// partially initialized engine.
func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown

	var errs error
	if e.context != nil && e.context.Device != nil {
		if err := e.context.Device.WaitIdle(); err != nil {
			errs = errors.CombineErrors(errs, err)
		}
	}

	if e.gameStarted {
		if err := e.game.Shutdown(); err != nil {
			errs = errors.CombineErrors(errs, errors.Wrap(err, "shutting down game"))
		}
		e.gameStarted = false
	}
	if e.assets != nil {
		if err := e.assets.Close(); err != nil {
			errs = errors.CombineErrors(errs, err)
		}
		e.assets = nil
	}
	if e.controller != nil {
		e.controller.Destroy()
		e.controller = nil
	}
	if e.allocator != nil {
		if stats, err := e.allocator.StatsJSON(); err == nil {
			core.LogDebug("allocator stats: %s", stats)
		}
		if err := e.allocator.Destroy(); err != nil {
			errs = errors.CombineErrors(errs, err)
		}
		e.allocator = nil
	}
	if e.swapchain != nil {
		e.swapchain.Destroy()
		e.swapchain = nil
	}
	if e.context != nil {
		e.context.Destroy()
		e.context = nil
	}
	e.platform.Shutdown()

	core.LogInfo("engine shut down")
	return errs
}
