package vulkan

import "sync"

// LockGroup names a family of Vulkan calls that require external
// synchronization on the same object.
type LockGroup string

const (
	QueueManagement          LockGroup = "queue_management"
	DescriptorPoolManagement LockGroup = "descriptor_pool_management"
	CommandPoolManagement    LockGroup = "command_pool_management"
	MemoryManagement         LockGroup = "memory_management"
)

// VulkanLockPool serializes externally synchronized calls per group. The
// renderer drives frames from one goroutine; the pool keeps asset reloads
// and teardown from racing the frame loop on the queue and pools.
type VulkanLockPool struct {
	mu    sync.Mutex
	locks map[LockGroup]*sync.Mutex
}

func NewVulkanLockPool() *VulkanLockPool {
	return &VulkanLockPool{locks: make(map[LockGroup]*sync.Mutex)}
}

func (vs *VulkanLockPool) lock(group LockGroup) *sync.Mutex {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	l, ok := vs.locks[group]
	if !ok {
		l = &sync.Mutex{}
		vs.locks[group] = l
	}
	return l
}

func (vs *VulkanLockPool) SafeCall(group LockGroup, fn func() error) error {
	l := vs.lock(group)
	l.Lock()
	defer l.Unlock()
	return fn()
}
