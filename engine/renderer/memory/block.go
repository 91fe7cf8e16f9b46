package memory

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/arsenal/memutils"
	"github.com/vkngwrapper/arsenal/memutils/metadata"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
)

// resourceKind selects the block list a resource is placed in. Linear and
// optimal resources never share a block, so buffer/image granularity can not
// be violated inside a block.
type resourceKind uint32

const (
	kindLinear resourceKind = iota + 1
	kindOptimal
)

func (k resourceKind) String() string {
	if k == kindOptimal {
		return "Optimal"
	}
	return "Linear"
}

func (k resourceKind) suballocationType() metadata.SuballocationType {
	if k == kindOptimal {
		return metadata.SuballocationImageOptimal
	}
	return metadata.SuballocationBuffer
}

type deviceBlock struct {
	id        int
	memory    gpu.DeviceMemory
	typeIndex uint32
	size      uint64
	dedicated bool
	metadata  metadata.BlockMetadata

	mapReferences int
	mapped        []byte
}

func newDeviceBlock(device gpu.Device, id int, typeIndex uint32, size uint64, dedicated bool) (*deviceBlock, error) {
	mem, err := device.AllocateMemory(size, typeIndex)
	if err != nil {
		return nil, err
	}
	// Blocks hold a single resource kind, so granularity never needs checking.
	md := metadata.NewLinearBlockMetadata(1, true)
	md.Init(int(size))
	core.LogDebug("allocated device memory block %d: %d bytes, type %d, dedicated=%t", id, size, typeIndex, dedicated)
	return &deviceBlock{
		id:        id,
		memory:    mem,
		typeIndex: typeIndex,
		size:      size,
		dedicated: dedicated,
		metadata:  md,
	}, nil
}

// Map maps the whole block on the first reference and returns the existing
// mapping for every later one.
func (b *deviceBlock) Map(device gpu.Device) ([]byte, error) {
	if b.mapReferences > 0 {
		b.mapReferences++
		return b.mapped, nil
	}
	data, err := device.MapMemory(b.memory, 0, b.size)
	if err != nil {
		return nil, err
	}
	b.mapped = data
	b.mapReferences = 1
	return data, nil
}

func (b *deviceBlock) Unmap(device gpu.Device) {
	if b.mapReferences == 0 {
		return
	}
	b.mapReferences--
	if b.mapReferences == 0 {
		device.UnmapMemory(b.memory)
		b.mapped = nil
	}
}

func (b *deviceBlock) allocate(size, alignment uint64, kind resourceKind, userData any) (metadata.BlockAllocationHandle, uint64, bool, error) {
	if size > b.size || uint64(b.metadata.SumFreeSize()) < size {
		return 0, 0, false, nil
	}
	var req metadata.AllocationRequest
	ok, err := b.metadata.PopulateAllocationRequest(
		int(size), uint(alignment),
		false,
		kind.suballocationType(),
		memutils.AllocationCreateStrategyMinMemory,
		&req,
	)
	if err != nil || !ok {
		return 0, 0, false, err
	}
	// Only append to the end of the block. Space freed in the middle comes back
	// once the allocations after it are released.
	if req.Type != metadata.AllocationRequestEndOf1st {
		return 0, 0, false, nil
	}
	if err := b.metadata.Alloc(&req, kind.suballocationType(), userData); err != nil {
		return 0, 0, false, err
	}
	offset, err := b.metadata.AllocationOffset(req.BlockAllocationHandle)
	if err != nil {
		return 0, 0, false, err
	}
	return req.BlockAllocationHandle, uint64(offset), true, nil
}

func (b *deviceBlock) destroy(device gpu.Device) {
	if b.mapReferences > 0 {
		device.UnmapMemory(b.memory)
		b.mapReferences = 0
		b.mapped = nil
	}
	device.FreeMemory(b.memory)
	b.memory = 0
}

// blockList holds every block of one memory type and resource kind.
type blockList struct {
	typeIndex uint32
	kind      resourceKind
	blocks    []*deviceBlock
}

func (l *blockList) allocate(a *Allocator, req gpu.MemoryRequirements, rec *allocation) error {
	if req.Size > a.cfg.BlockSize/2 {
		block, err := newDeviceBlock(a.device, a.nextBlockID(), l.typeIndex, req.Size, true)
		if err != nil {
			return err
		}
		handle, offset, ok, err := block.allocate(req.Size, req.Alignment, l.kind, rec)
		if err != nil || !ok {
			block.destroy(a.device)
			return errors.Newf("dedicated block of %d bytes could not hold its allocation", req.Size)
		}
		l.blocks = append(l.blocks, block)
		rec.block, rec.handle, rec.offset = block, handle, offset
		return nil
	}

	for _, block := range l.blocks {
		if block.dedicated {
			continue
		}
		handle, offset, ok, err := block.allocate(req.Size, req.Alignment, l.kind, rec)
		if err != nil {
			return err
		}
		if ok {
			rec.block, rec.handle, rec.offset = block, handle, offset
			return nil
		}
	}

	block, err := newDeviceBlock(a.device, a.nextBlockID(), l.typeIndex, a.cfg.BlockSize, false)
	if err != nil {
		return err
	}
	l.blocks = append(l.blocks, block)
	handle, offset, ok, err := block.allocate(req.Size, req.Alignment, l.kind, rec)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Newf("fresh block of %d bytes could not hold %d bytes at alignment %d", a.cfg.BlockSize, req.Size, req.Alignment)
	}
	rec.block, rec.handle, rec.offset = block, handle, offset
	return nil
}

// free releases rec and drops its block once empty, keeping one shared block
// per list around for reuse.
func (l *blockList) free(device gpu.Device, rec *allocation) error {
	block := rec.block
	if err := block.metadata.Free(rec.handle); err != nil {
		return err
	}
	if !block.metadata.IsEmpty() {
		return nil
	}
	if !block.dedicated && l.sharedBlocks() <= 1 {
		return nil
	}
	for i, b := range l.blocks {
		if b == block {
			l.blocks = append(l.blocks[:i], l.blocks[i+1:]...)
			break
		}
	}
	core.LogDebug("releasing device memory block %d", block.id)
	block.destroy(device)
	return nil
}

func (l *blockList) sharedBlocks() int {
	n := 0
	for _, b := range l.blocks {
		if !b.dedicated {
			n++
		}
	}
	return n
}

func (l *blockList) addStatistics(stats *memutils.Statistics) {
	for _, b := range l.blocks {
		b.metadata.AddStatistics(stats)
	}
}

func (l *blockList) printDetailedMap(json jwriter.ObjectState) {
	for _, block := range l.blocks {
		blockObj := json.Name(strconv.Itoa(block.id)).Object()
		blockObj.Name("MapReferences").Int(block.mapReferences)
		blockObj.Name("Dedicated").Bool(block.dedicated)
		_ = block.metadata.PrintDetailedMapHeader(blockObj)

		arrayState := blockObj.Name("Suballocations").Array()
		block.metadata.VisitAllBlocks(
			func(handle metadata.BlockAllocationHandle, offset int, size int, userData any, free bool) {
				obj := arrayState.Object()
				defer obj.End()

				obj.Name("Offset").Int(offset)
				obj.Name("Size").Int(size)
				if free {
					obj.Name("Type").String("FREE")
					return
				}
				if rec, ok := userData.(*allocation); ok {
					obj.Name("Type").String(rec.kind)
					obj.Name("ID").String(rec.id.String())
				}
			})
		arrayState.End()

		blockObj.End()
	}
}
