package engine

import (
	"github.com/spaghettifunk/lumen/engine/assets"
	"github.com/spaghettifunk/lumen/engine/renderer/frame"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
	"github.com/spaghettifunk/lumen/engine/renderer/memory"
)

// Context is what a game gets to build its GPU resources with.
type Context struct {
	Device      gpu.Device
	Allocator   *memory.Allocator
	Assets      *assets.AssetManager
	ColorFormat gpu.Format
	DepthFormat gpu.Format
	Extent      gpu.Extent2D
}

// Game is driven by the engine once per frame: Update, then the frame
// controller calls Prepare and records Passes.
type Game interface {
	frame.Scene

	Initialize(ctx *Context) error
	Update(deltaTime float64) error
	// ReloadShaders is called with the changed asset paths once the device
	// is idle.
	ReloadShaders(changed []string) error
	// Shutdown releases everything Initialize created. The device is idle.
	Shutdown() error
}
