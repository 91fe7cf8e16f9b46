// Package vulkan implements gpu.Device and gpu.Swapchain on top of Vulkan.
// Rendering scopes map onto cached single-subpass render passes.
package vulkan

import (
	"runtime"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumen/engine/core"
)

// Window is the platform side of instance and surface creation.
type Window interface {
	InstanceProcAddr() unsafe.Pointer
	RequiredInstanceExtensions() []string
	// CreateSurface receives the vk.Instance and returns a VkSurfaceKHR.
	CreateSurface(instance any) (uintptr, error)
	FramebufferSize() (width, height uint32)
}

type ContextConfig struct {
	ApplicationName string
	Validation      bool
}

// Context owns the instance, the debug callback, the surface and the device.
type Context struct {
	Instance vk.Instance
	Surface  vk.Surface
	Device   *Device

	window         Window
	debugMessenger vk.DebugReportCallback
	validation     bool
}

// NewContext creates the instance, the window surface and a logical device
// on the first physical device exposing graphics and present queues.
func NewContext(cfg ContextConfig, window Window) (*Context, error) {
	procAddr := window.InstanceProcAddr()
	if procAddr == nil {
		return nil, core.ResourceCreationFailure(nil, "GetInstanceProcAddress is nil")
	}
	vk.SetGetInstanceProcAddr(procAddr)
	if err := vk.Init(); err != nil {
		return nil, core.ResourceCreationFailure(err, "initializing vulkan loader")
	}

	c := &Context{window: window, validation: cfg.Validation}
	if err := c.createInstance(cfg.ApplicationName); err != nil {
		return nil, err
	}

	if c.validation {
		if err := c.createDebugCallback(); err != nil {
			c.Destroy()
			return nil, err
		}
	}

	surface, err := window.CreateSurface(c.Instance)
	if err != nil {
		c.Destroy()
		return nil, core.ResourceCreationFailure(err, "creating window surface")
	}
	c.Surface = vk.SurfaceFromPointer(surface)
	core.LogDebug("Vulkan surface created.")

	physical, err := selectPhysicalDevice(c.Instance, c.Surface)
	if err != nil {
		c.Destroy()
		return nil, err
	}
	if c.Device, err = newDevice(physical); err != nil {
		c.Destroy()
		return nil, err
	}
	return c, nil
}

func (c *Context) createInstance(appName string) error {
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(appName),
		PEngineName:        VulkanSafeString("Lumen"),
	}
	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	extensions := []string{"VK_KHR_surface"}
	extensions = append(extensions, c.window.RequiredInstanceExtensions()...)
	if runtime.GOOS == "darwin" {
		extensions = append(extensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
		// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
		createInfo.Flags |= 1
	}

	var layers []string
	if c.validation {
		extensions = append(extensions, vk.ExtDebugReportExtensionName)
		layers = []string{"VK_LAYER_KHRONOS_validation"}
		if err := requireLayers(layers); err != nil {
			return err
		}
	}
	for _, e := range extensions {
		core.LogDebug("instance extension: %s", e)
	}

	createInfo.EnabledExtensionCount = uint32(len(extensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(extensions)
	createInfo.EnabledLayerCount = uint32(len(layers))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(layers)

	if err := check("vkCreateInstance", vk.CreateInstance(&createInfo, nil, &c.Instance)); err != nil {
		return core.ResourceCreationFailure(err, "creating Vulkan instance")
	}
	if err := vk.InitInstance(c.Instance); err != nil {
		return core.ResourceCreationFailure(err, "loading instance functions")
	}
	core.LogInfo("Vulkan instance created.")
	return nil
}

func requireLayers(required []string) error {
	var count uint32
	if err := check("vkEnumerateInstanceLayerProperties", vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return core.ResourceCreationFailure(err, "enumerating instance layers")
	}
	available := make([]vk.LayerProperties, count)
	if err := check("vkEnumerateInstanceLayerProperties", vk.EnumerateInstanceLayerProperties(&count, available)); err != nil {
		return core.ResourceCreationFailure(err, "enumerating instance layers")
	}

	for _, name := range required {
		found := false
		for i := range available {
			available[i].Deref()
			if cString(available[i].LayerName[:]) == name {
				found = true
				break
			}
		}
		if !found {
			return core.ResourceCreationFailure(nil, "required validation layer is missing: %s", name)
		}
	}
	core.LogInfo("All required validation layers are present.")
	return nil
}

func (c *Context) createDebugCallback() error {
	info := vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
		PfnCallback: debugCallback,
	}
	var cb vk.DebugReportCallback
	if err := check("vkCreateDebugReportCallback", vk.CreateDebugReportCallback(c.Instance, &info, nil, &cb)); err != nil {
		return core.ResourceCreationFailure(err, "creating debug report callback")
	}
	c.debugMessenger = cb
	core.LogDebug("Vulkan debugger created.")
	return nil
}

// NewSwapchain creates a swapchain sized to the window's framebuffer.
func (c *Context) NewSwapchain() (*Swapchain, error) {
	width, height := c.window.FramebufferSize()
	return newSwapchain(c.Device, c.Surface, width, height)
}

// Destroy releases the device, the surface, the debug callback and the
// instance, in that order.
func (c *Context) Destroy() {
	if c.Device != nil {
		c.Device.destroy()
		c.Device = nil
	}
	if c.Surface != nil {
		vk.DestroySurface(c.Instance, c.Surface, nil)
		c.Surface = nil
	}
	if c.debugMessenger != nil {
		vk.DestroyDebugReportCallback(c.Instance, c.debugMessenger, nil)
		c.debugMessenger = nil
	}
	if c.Instance != nil {
		vk.DestroyInstance(c.Instance, nil)
		c.Instance = nil
	}
	core.LogDebug("Vulkan context destroyed.")
}

func debugCallback(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
		core.LogWarn("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		core.LogDebug("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
