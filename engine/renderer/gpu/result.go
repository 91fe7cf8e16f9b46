package gpu

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Result is the outcome of a device call. Values at or above zero are not errors.
type Result int32

const (
	Success    Result = 0
	NotReady   Result = 1
	Timeout    Result = 2
	Incomplete Result = 5
	Suboptimal Result = 1000001003

	ErrorOutOfHostMemory      Result = -1
	ErrorOutOfDeviceMemory    Result = -2
	ErrorInitializationFailed Result = -3
	ErrorDeviceLost           Result = -4
	ErrorMemoryMapFailed      Result = -5
	ErrorLayerNotPresent      Result = -6
	ErrorExtensionNotPresent  Result = -7
	ErrorFeatureNotPresent    Result = -8
	ErrorIncompatibleDriver   Result = -9
	ErrorTooManyObjects       Result = -10
	ErrorFormatNotSupported   Result = -11
	ErrorFragmentedPool       Result = -12
	ErrorUnknown              Result = -13
	ErrorOutOfPoolMemory      Result = -1000069000
	ErrorSurfaceLost          Result = -1000000000
	ErrorOutOfDate            Result = -1000001004
)

var resultDescriptions = map[Result][2]string{
	Success:                   {"VK_SUCCESS", "Command successfully completed"},
	NotReady:                  {"VK_NOT_READY", "A fence or query has not yet completed"},
	Timeout:                   {"VK_TIMEOUT", "A wait operation has not completed in the specified time"},
	Incomplete:                {"VK_INCOMPLETE", "A return array was too small for the result"},
	Suboptimal:                {"VK_SUBOPTIMAL_KHR", "A swapchain no longer matches the surface properties exactly, but can still be used to present to the surface successfully"},
	ErrorOutOfHostMemory:      {"VK_ERROR_OUT_OF_HOST_MEMORY", "A host memory allocation has failed"},
	ErrorOutOfDeviceMemory:    {"VK_ERROR_OUT_OF_DEVICE_MEMORY", "A device memory allocation has failed"},
	ErrorInitializationFailed: {"VK_ERROR_INITIALIZATION_FAILED", "Initialization of an object could not be completed for implementation-specific reasons"},
	ErrorDeviceLost:           {"VK_ERROR_DEVICE_LOST", "The logical or physical device has been lost"},
	ErrorMemoryMapFailed:      {"VK_ERROR_MEMORY_MAP_FAILED", "Mapping of a memory object has failed"},
	ErrorLayerNotPresent:      {"VK_ERROR_LAYER_NOT_PRESENT", "A requested layer is not present or could not be loaded"},
	ErrorExtensionNotPresent:  {"VK_ERROR_EXTENSION_NOT_PRESENT", "A requested extension is not supported"},
	ErrorFeatureNotPresent:    {"VK_ERROR_FEATURE_NOT_PRESENT", "A requested feature is not supported"},
	ErrorIncompatibleDriver:   {"VK_ERROR_INCOMPATIBLE_DRIVER", "The requested version of Vulkan is not supported by the driver"},
	ErrorTooManyObjects:       {"VK_ERROR_TOO_MANY_OBJECTS", "Too many objects of the type have already been created"},
	ErrorFormatNotSupported:   {"VK_ERROR_FORMAT_NOT_SUPPORTED", "A requested format is not supported on this device"},
	ErrorFragmentedPool:       {"VK_ERROR_FRAGMENTED_POOL", "A pool allocation has failed due to fragmentation of the pool's memory"},
	ErrorUnknown:              {"VK_ERROR_UNKNOWN", "An unknown error has occurred"},
	ErrorOutOfPoolMemory:      {"VK_ERROR_OUT_OF_POOL_MEMORY", "A pool memory allocation has failed"},
	ErrorSurfaceLost:          {"VK_ERROR_SURFACE_LOST_KHR", "A surface is no longer available"},
	ErrorOutOfDate:            {"VK_ERROR_OUT_OF_DATE_KHR", "A surface has changed in such a way that it is no longer compatible with the swapchain"},
}

func (r Result) String() string {
	if d, ok := resultDescriptions[r]; ok {
		return d[0]
	}
	return fmt.Sprintf("VkResult(%d)", int32(r))
}

// Description is the long, human readable form of the result.
func (r Result) Description() string {
	if d, ok := resultDescriptions[r]; ok {
		return d[0] + " " + d[1]
	}
	return r.String()
}

func (r Result) IsSuccess() bool {
	return r >= 0
}

// ResultError is returned by a Device when the underlying API call fails.
type ResultError struct {
	Op     string
	Result Result
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Result.Description())
}

// Check returns nil for success codes and a *ResultError otherwise.
// Timeout and NotReady are reported as errors since a caller that waits
// treats them as failure.
func Check(op string, r Result) error {
	if r == Success || r == Suboptimal || r == Incomplete {
		return nil
	}
	return &ResultError{Op: op, Result: r}
}

// CheckExact accepts Success only. Acquire and present use it so that
// Suboptimal surfaces fail the frame instead of being rendered to.
func CheckExact(op string, r Result) error {
	if r == Success {
		return nil
	}
	return &ResultError{Op: op, Result: r}
}

// ResultOf extracts the Result carried by err, ErrorUnknown if there is none.
func ResultOf(err error) Result {
	if err == nil {
		return Success
	}
	var re *ResultError
	if errors.As(err, &re) {
		return re.Result
	}
	return ErrorUnknown
}

func IsTimeout(err error) bool {
	r := ResultOf(err)
	return r == Timeout || r == NotReady
}
