package vulkan

import (
	"math"
	"strings"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumen/engine/core"
)

type queueFamilies struct {
	graphics uint32
	present  uint32
}

type swapchainSupport struct {
	capabilities vk.SurfaceCapabilities
	formats      []vk.SurfaceFormat
	presentModes []vk.PresentMode
}

type physicalDevice struct {
	handle     vk.PhysicalDevice
	properties vk.PhysicalDeviceProperties
	memory     vk.PhysicalDeviceMemoryProperties
	queues     queueFamilies
	surface    vk.Surface
}

var requiredDeviceExtensions = []string{vk.KhrSwapchainExtensionName}

func selectPhysicalDevice(instance vk.Instance, surface vk.Surface) (*physicalDevice, error) {
	var count uint32
	if err := check("vkEnumeratePhysicalDevices", vk.EnumeratePhysicalDevices(instance, &count, nil)); err != nil {
		return nil, core.ResourceCreationFailure(err, "enumerating physical devices")
	}
	if count == 0 {
		return nil, core.ResourceCreationFailure(nil, "no devices which support Vulkan were found")
	}
	devices := make([]vk.PhysicalDevice, count)
	if err := check("vkEnumeratePhysicalDevices", vk.EnumeratePhysicalDevices(instance, &count, devices)); err != nil {
		return nil, core.ResourceCreationFailure(err, "enumerating physical devices")
	}

	for _, handle := range devices {
		pd := &physicalDevice{handle: handle, surface: surface}
		vk.GetPhysicalDeviceProperties(handle, &pd.properties)
		pd.properties.Deref()
		pd.properties.Limits.Deref()
		vk.GetPhysicalDeviceMemoryProperties(handle, &pd.memory)
		pd.memory.Deref()

		name := cString(pd.properties.DeviceName[:])
		if ok, reason := pd.meetsRequirements(); !ok {
			core.LogInfo("skipping device '%s': %s", name, reason)
			continue
		}

		core.LogInfo("Selected device: '%s' (%s)", name, deviceTypeName(pd.properties.DeviceType))
		core.LogInfo("Vulkan API version: %d.%d.%d",
			vk.Version(pd.properties.ApiVersion).Major(),
			vk.Version(pd.properties.ApiVersion).Minor(),
			vk.Version(pd.properties.ApiVersion).Patch())
		for i := uint32(0); i < pd.memory.MemoryHeapCount; i++ {
			pd.memory.MemoryHeaps[i].Deref()
			sizeGiB := float64(pd.memory.MemoryHeaps[i].Size) / (1 << 30)
			if vk.MemoryHeapFlagBits(pd.memory.MemoryHeaps[i].Flags)&vk.MemoryHeapDeviceLocalBit != 0 {
				core.LogInfo("Local GPU memory: %.2f GiB", sizeGiB)
			} else {
				core.LogInfo("Shared System memory: %.2f GiB", sizeGiB)
			}
		}
		return pd, nil
	}
	return nil, core.ResourceCreationFailure(nil, "no physical device meets the requirements")
}

func (pd *physicalDevice) meetsRequirements() (bool, string) {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd.handle, &count, nil)
	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd.handle, &count, families)

	graphics, present := int64(-1), int64(-1)
	for i := range families {
		families[i].Deref()
		if graphics < 0 && vk.QueueFlagBits(families[i].QueueFlags)&vk.QueueGraphicsBit != 0 {
			graphics = int64(i)
		}
		var supported vk.Bool32
		if res := vk.GetPhysicalDeviceSurfaceSupport(pd.handle, uint32(i), pd.surface, &supported); res != vk.Success {
			continue
		}
		// Prefer a family that does both.
		if supported == vk.True && (present < 0 || int64(i) == graphics) {
			present = int64(i)
		}
	}
	if graphics < 0 {
		return false, "no graphics queue"
	}
	if present < 0 {
		return false, "no queue can present to the surface"
	}
	pd.queues = queueFamilies{graphics: uint32(graphics), present: uint32(present)}

	if missing := pd.missingExtensions(requiredDeviceExtensions); len(missing) > 0 {
		return false, "missing extensions " + strings.Join(missing, ", ")
	}

	support, err := pd.querySwapchainSupport()
	if err != nil || len(support.formats) == 0 || len(support.presentModes) == 0 {
		return false, "required swapchain support not present"
	}
	return true, ""
}

func (pd *physicalDevice) missingExtensions(required []string) []string {
	var count uint32
	if res := vk.EnumerateDeviceExtensionProperties(pd.handle, "", &count, nil); res != vk.Success {
		return required
	}
	available := make([]vk.ExtensionProperties, count)
	if res := vk.EnumerateDeviceExtensionProperties(pd.handle, "", &count, available); res != vk.Success {
		return required
	}
	names := make(map[string]bool, count)
	for i := range available {
		available[i].Deref()
		names[cString(available[i].ExtensionName[:])] = true
	}

	var missing []string
	for _, r := range required {
		if !names[r] {
			missing = append(missing, r)
		}
	}
	return missing
}

func (pd *physicalDevice) hasExtension(name string) bool {
	return len(pd.missingExtensions([]string{name})) == 0
}

func (pd *physicalDevice) querySwapchainSupport() (*swapchainSupport, error) {
	support := &swapchainSupport{}
	if err := check("vkGetPhysicalDeviceSurfaceCapabilities", vk.GetPhysicalDeviceSurfaceCapabilities(pd.handle, pd.surface, &support.capabilities)); err != nil {
		return nil, err
	}
	support.capabilities.Deref()
	support.capabilities.CurrentExtent.Deref()
	support.capabilities.MinImageExtent.Deref()
	support.capabilities.MaxImageExtent.Deref()

	var count uint32
	if err := check("vkGetPhysicalDeviceSurfaceFormats", vk.GetPhysicalDeviceSurfaceFormats(pd.handle, pd.surface, &count, nil)); err != nil {
		return nil, err
	}
	if count > 0 {
		support.formats = make([]vk.SurfaceFormat, count)
		if err := check("vkGetPhysicalDeviceSurfaceFormats", vk.GetPhysicalDeviceSurfaceFormats(pd.handle, pd.surface, &count, support.formats)); err != nil {
			return nil, err
		}
		for i := range support.formats {
			support.formats[i].Deref()
		}
	}

	count = 0
	if err := check("vkGetPhysicalDeviceSurfacePresentModes", vk.GetPhysicalDeviceSurfacePresentModes(pd.handle, pd.surface, &count, nil)); err != nil {
		return nil, err
	}
	if count > 0 {
		support.presentModes = make([]vk.PresentMode, count)
		if err := check("vkGetPhysicalDeviceSurfacePresentModes", vk.GetPhysicalDeviceSurfacePresentModes(pd.handle, pd.surface, &count, support.presentModes)); err != nil {
			return nil, err
		}
	}
	return support, nil
}

// chooseExtent follows the surface's current extent unless the window
// system leaves the choice to the swapchain.
func (s *swapchainSupport) chooseExtent(width, height uint32) vk.Extent2D {
	extent := vk.Extent2D{Width: width, Height: height}
	if s.capabilities.CurrentExtent.Width != math.MaxUint32 {
		extent = s.capabilities.CurrentExtent
	}
	lo, hi := s.capabilities.MinImageExtent, s.capabilities.MaxImageExtent
	extent.Width = clamp(extent.Width, lo.Width, hi.Width)
	extent.Height = clamp(extent.Height, lo.Height, hi.Height)
	return extent
}

func deviceTypeName(t vk.PhysicalDeviceType) string {
	switch t {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return "integrated"
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return "discrete"
	case vk.PhysicalDeviceTypeVirtualGpu:
		return "virtual"
	case vk.PhysicalDeviceTypeCpu:
		return "cpu"
	}
	return "unknown"
}
