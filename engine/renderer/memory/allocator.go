// Package memory owns device memory, buffers, images and the descriptor pool.
// Nothing in it is safe for concurrent use.
package memory

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dolthub/swiss"
	"github.com/google/uuid"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/arsenal/memutils"
	"github.com/vkngwrapper/arsenal/memutils/metadata"
	"golang.org/x/exp/constraints"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
)

// Class is where a resource lives: host visible and coherent, or device
// local with no host access.
type Class int

const (
	ClassGPUOnly Class = iota
	ClassCPUVisible
)

func (c Class) String() string {
	if c == ClassCPUVisible {
		return "cpu_visible"
	}
	return "gpu_only"
}

const DefaultBlockSize uint64 = 64 << 20

type Config struct {
	// BlockSize is the size of each shared device memory block. Requests over
	// half a block get their own dedicated allocation.
	BlockSize uint64
	// MaxSets and PoolSizes size the descriptor pool.
	MaxSets   uint32
	PoolSizes map[gpu.DescriptorType]uint32
}

func DefaultConfig() Config {
	sizes := map[gpu.DescriptorType]uint32{}
	for _, t := range gpu.DescriptorTypes {
		sizes[t] = 1024
	}
	return Config{
		BlockSize: DefaultBlockSize,
		MaxSets:   1024,
		PoolSizes: sizes,
	}
}

type allocation struct {
	id     uuid.UUID
	kind   string
	size   uint64
	list   *blockList
	block  *deviceBlock
	handle metadata.BlockAllocationHandle
	offset uint64
}

type listKey struct {
	typeIndex uint32
	kind      resourceKind
}

// Allocator hands out buffers, images and descriptor sets and tracks every
// live one until it is destroyed.
type Allocator struct {
	device gpu.Device
	cfg    Config
	props  gpu.MemoryProperties
	limits gpu.Limits

	pool     gpu.DescriptorPool
	lists    map[listKey]*blockList
	live     *swiss.Map[uuid.UUID, *allocation]
	liveSets *swiss.Map[gpu.DescriptorSet, struct{}]
	blockID  int
}

// New reads the device memory layout and creates the descriptor pool.
func New(device gpu.Device, cfg Config) (*Allocator, error) {
	if cfg.BlockSize == 0 {
		cfg.BlockSize = DefaultBlockSize
	}

	a := &Allocator{
		device:   device,
		cfg:      cfg,
		props:    device.MemoryProperties(),
		limits:   device.Limits(),
		lists:    map[listKey]*blockList{},
		live:     swiss.NewMap[uuid.UUID, *allocation](64),
		liveSets: swiss.NewMap[gpu.DescriptorSet, struct{}](64),
	}

	poolSizes := make([]gpu.DescriptorPoolSize, 0, len(cfg.PoolSizes))
	for _, t := range gpu.DescriptorTypes {
		if n := cfg.PoolSizes[t]; n > 0 {
			poolSizes = append(poolSizes, gpu.DescriptorPoolSize{Type: t, Count: n})
		}
	}
	pool, err := device.CreateDescriptorPool(gpu.DescriptorPoolCreateInfo{
		MaxSets:           cfg.MaxSets,
		PoolSizes:         poolSizes,
		FreeDescriptorSet: true,
	})
	if err != nil {
		return nil, core.ResourceCreationFailure(err, "creating descriptor pool (%d sets)", cfg.MaxSets)
	}
	a.pool = pool

	core.LogDebug("memory allocator ready: %d memory types, block size %d", len(a.props.Types), cfg.BlockSize)
	return a, nil
}

func (a *Allocator) Device() gpu.Device {
	return a.device
}

func (a *Allocator) Limits() gpu.Limits {
	return a.limits
}

func (a *Allocator) nextBlockID() int {
	a.blockID++
	return a.blockID
}

// findMemoryType picks the first type allowed by typeBits with the flags
// class needs. GPU-only prefers device local memory and otherwise takes
// anything typeBits allows.
func (a *Allocator) findMemoryType(typeBits uint32, class Class) (uint32, bool) {
	want := gpu.MemoryPropertyDeviceLocal
	if class == ClassCPUVisible {
		want = gpu.MemoryPropertyHostVisible | gpu.MemoryPropertyHostCoherent
	}
	for i, t := range a.props.Types {
		if typeBits&(1<<uint(i)) != 0 && t.PropertyFlags.Has(want) {
			return uint32(i), true
		}
	}
	if class == ClassGPUOnly {
		for i := range a.props.Types {
			if typeBits&(1<<uint(i)) != 0 {
				return uint32(i), true
			}
		}
	}
	return 0, false
}

func (a *Allocator) list(typeIndex uint32, kind resourceKind) *blockList {
	key := listKey{typeIndex: typeIndex, kind: kind}
	l, ok := a.lists[key]
	if !ok {
		l = &blockList{typeIndex: typeIndex, kind: kind}
		a.lists[key] = l
	}
	return l
}

func (a *Allocator) allocate(req gpu.MemoryRequirements, class Class, kind resourceKind, name string) (*allocation, error) {
	typeIndex, ok := a.findMemoryType(req.MemoryTypeBits, class)
	if !ok {
		return nil, core.ResourceCreationFailure(nil, "no memory type for %s %s (type bits %#b)", class, name, req.MemoryTypeBits)
	}
	rec := &allocation{
		id:   uuid.New(),
		kind: name,
		size: req.Size,
		list: a.list(typeIndex, kind),
	}
	if err := rec.list.allocate(a, req, rec); err != nil {
		return nil, core.ResourceCreationFailure(err, "allocating %d bytes of %s memory for %s", req.Size, class, name)
	}
	a.live.Put(rec.id, rec)
	return rec, nil
}

func (a *Allocator) free(rec *allocation) {
	if err := rec.list.free(a.device, rec); err != nil {
		core.LogError("freeing %s allocation %s: %s", rec.kind, rec.id, err)
	}
	a.live.Delete(rec.id)
}

// AllocateDescriptorSets allocates one set per layout from the shared pool.
// Running out of pool capacity is not retried.
func (a *Allocator) AllocateDescriptorSets(layouts []gpu.DescriptorSetLayout) ([]gpu.DescriptorSet, error) {
	if len(layouts) == 0 {
		return nil, nil
	}
	sets, err := a.device.AllocateDescriptorSets(a.pool, layouts)
	if err != nil {
		return nil, core.ResourceCreationFailure(err, "allocating %d descriptor sets", len(layouts))
	}
	for _, s := range sets {
		a.liveSets.Put(s, struct{}{})
	}
	return sets, nil
}

func (a *Allocator) FreeDescriptorSets(sets []gpu.DescriptorSet) error {
	if len(sets) == 0 {
		return nil
	}
	for _, s := range sets {
		if !a.liveSets.Has(s) {
			return core.ContractViolation("descriptor set %d is not owned by this allocator", s)
		}
	}
	if err := a.device.FreeDescriptorSets(a.pool, sets); err != nil {
		return core.ResourceCreationFailure(err, "freeing %d descriptor sets", len(sets))
	}
	for _, s := range sets {
		a.liveSets.Delete(s)
	}
	return nil
}

// LiveAllocations is the number of buffers and images not yet destroyed.
func (a *Allocator) LiveAllocations() int {
	return a.live.Count()
}

func (a *Allocator) LiveDescriptorSets() int {
	return a.liveSets.Count()
}

// Stats sums the block statistics of every memory type.
func (a *Allocator) Stats() memutils.Statistics {
	var stats memutils.Statistics
	for _, l := range a.sortedLists() {
		l.addStatistics(&stats)
	}
	return stats
}

// StatsJSON writes a detailed map of every block and suballocation.
func (a *Allocator) StatsJSON() ([]byte, error) {
	writer := jwriter.NewWriter()

	root := writer.Object()
	stats := a.Stats()
	total := root.Name("Total").Object()
	total.Name("BlockCount").Int(stats.BlockCount)
	total.Name("BlockBytes").Int(stats.BlockBytes)
	total.Name("AllocationCount").Int(stats.AllocationCount)
	total.Name("AllocationBytes").Int(stats.AllocationBytes)
	total.End()
	root.Name("LiveDescriptorSets").Int(a.liveSets.Count())

	types := root.Name("MemoryTypes").Object()
	for _, l := range a.sortedLists() {
		listObj := types.Name("Type " + strconv.Itoa(int(l.typeIndex)) + " " + l.kind.String()).Object()
		l.printDetailedMap(listObj)
		listObj.End()
	}
	types.End()
	root.End()

	if err := writer.Error(); err != nil {
		return nil, err
	}
	return writer.Bytes(), nil
}

func (a *Allocator) sortedLists() []*blockList {
	lists := make([]*blockList, 0, len(a.lists))
	for _, l := range a.lists {
		lists = append(lists, l)
	}
	sort.Slice(lists, func(i, j int) bool {
		if lists[i].typeIndex != lists[j].typeIndex {
			return lists[i].typeIndex < lists[j].typeIndex
		}
		return lists[i].kind < lists[j].kind
	})
	return lists
}

// Destroy releases the descriptor pool and every memory block. It refuses to
// run while any buffer, image or descriptor set is still alive.
func (a *Allocator) Destroy() error {
	if a.device == nil {
		return nil
	}
	if n := a.live.Count() + a.liveSets.Count(); n > 0 {
		var leaked []string
		a.live.Iter(func(id uuid.UUID, rec *allocation) bool {
			leaked = append(leaked, rec.kind+" "+id.String())
			return false
		})
		sort.Strings(leaked)
		if c := a.liveSets.Count(); c > 0 {
			leaked = append(leaked, strconv.Itoa(c)+" descriptor sets")
		}
		return core.ContractViolation("allocator destroyed with %d live resources: %s", n, strings.Join(leaked, ", "))
	}

	a.device.DestroyDescriptorPool(a.pool)
	for _, l := range a.sortedLists() {
		for _, b := range l.blocks {
			b.destroy(a.device)
		}
		l.blocks = nil
	}
	a.lists = map[listKey]*blockList{}
	a.device = nil
	core.LogDebug("memory allocator destroyed")
	return nil
}

// UniformStride rounds size up to the device's uniform buffer offset
// alignment, the spacing between consecutive dynamic uniform elements.
func (a *Allocator) UniformStride(size uint64) uint64 {
	return alignUp(size, a.limits.MinUniformBufferOffsetAlignment)
}

// StorageStride is UniformStride for storage buffers.
func (a *Allocator) StorageStride(size uint64) uint64 {
	return alignUp(size, a.limits.MinStorageBufferOffsetAlignment)
}

func alignUp[T constraints.Unsigned](v, alignment T) T {
	if alignment == 0 {
		return v
	}
	return (v + alignment - 1) / alignment * alignment
}
