package vulkan

import (
	"unsafe"

	vk "github.com/goki/vulkan"
	"golang.org/x/exp/constraints"

	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
)

// check converts a Vulkan result into a *gpu.ResultError, nil on success.
func check(op string, result vk.Result) error {
	return gpu.Check(op, gpu.Result(result))
}

var end = "\x00"
var endChar byte = '\x00'

func VulkanSafeString(s string) string {
	if len(s) == 0 {
		return end
	}
	if s[len(s)-1] != endChar {
		return s + end
	}
	return s
}

func VulkanSafeStrings(list []string) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = VulkanSafeString(list[i])
	}
	return out
}

// cString reads a fixed size, NUL terminated name as returned in Vulkan
// property structs.
func cString(arr []byte) string {
	for i, b := range arr {
		if b == 0 {
			return string(arr[:i])
		}
	}
	return string(arr)
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// spirvWords reinterprets SPIR-V bytecode as the uint32 words Vulkan expects.
// len(code) must be a multiple of 4.
func spirvWords(code []byte) []uint32 {
	if len(code) == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&code[0])), len(code)/4)
}
