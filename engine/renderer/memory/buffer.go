package memory

import (
	"unsafe"

	"github.com/google/uuid"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
)

// noCopy makes go vet's copylocks check flag values that must not be copied.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Buffer is a linear device buffer bound to memory owned by the allocator.
// It is handled by pointer only; Destroy releases the buffer and its memory
// together.
type Buffer struct {
	noCopy noCopy

	allocator *Allocator
	handle    gpu.Buffer
	size      uint64
	usage     gpu.BufferUsageFlags
	class     Class
	alloc     *allocation
}

// CreateBuffer creates a buffer of size bytes in memory of the given class.
func (a *Allocator) CreateBuffer(size uint64, usage gpu.BufferUsageFlags, class Class) (*Buffer, error) {
	if size == 0 {
		return nil, core.ContractViolation("buffer size must be greater than zero")
	}

	handle, err := a.device.CreateBuffer(gpu.BufferCreateInfo{Size: size, Usage: usage})
	if err != nil {
		return nil, core.ResourceCreationFailure(err, "creating buffer of %d bytes", size)
	}

	rec, err := a.allocate(a.device.BufferMemoryRequirements(handle), class, kindLinear, "buffer")
	if err != nil {
		a.device.DestroyBuffer(handle)
		return nil, err
	}

	if err := a.device.BindBufferMemory(handle, rec.block.memory, rec.offset); err != nil {
		a.device.DestroyBuffer(handle)
		a.free(rec)
		return nil, core.ResourceCreationFailure(err, "binding buffer memory")
	}

	return &Buffer{
		allocator: a,
		handle:    handle,
		size:      size,
		usage:     usage,
		class:     class,
		alloc:     rec,
	}, nil
}

// DestroyBuffer releases b's API object and its memory. Further calls are no-ops.
func (a *Allocator) DestroyBuffer(b *Buffer) {
	if b == nil || b.alloc == nil {
		return
	}
	a.device.DestroyBuffer(b.handle)
	a.free(b.alloc)
	b.alloc = nil
	b.handle = 0
}

func (b *Buffer) Destroy() {
	if b.allocator != nil {
		b.allocator.DestroyBuffer(b)
	}
}

func (b *Buffer) Handle() gpu.Buffer {
	return b.handle
}

func (b *Buffer) Size() uint64 {
	return b.size
}

func (b *Buffer) Usage() gpu.BufferUsageFlags {
	return b.usage
}

func (b *Buffer) Class() Class {
	return b.class
}

// ID is the allocation identifier reported in leak diagnostics.
func (b *Buffer) ID() uuid.UUID {
	if b.alloc == nil {
		return uuid.Nil
	}
	return b.alloc.id
}

func (b *Buffer) Destroyed() bool {
	return b.alloc == nil
}

// Copy writes data into the buffer starting at offset. The memory block is
// mapped for the duration of the call only.
func (b *Buffer) Copy(data []byte, offset uint64) error {
	if err := b.checkHostAccess("copy", uint64(len(data)), offset); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return b.withMapping(func(mapped []byte) {
		copy(mapped[offset:], data)
	})
}

// Read copies len(dst) bytes starting at offset out of the buffer.
func (b *Buffer) Read(dst []byte, offset uint64) error {
	if err := b.checkHostAccess("read", uint64(len(dst)), offset); err != nil {
		return err
	}
	if len(dst) == 0 {
		return nil
	}
	return b.withMapping(func(mapped []byte) {
		copy(dst, mapped[offset:offset+uint64(len(dst))])
	})
}

// CopyValues writes the in-memory representation of values at offset.
// T must be plain data laid out to match the shader's view of it.
func CopyValues[T any](b *Buffer, values []T, offset uint64) error {
	if len(values) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(values[0])) * len(values)
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), size)
	return b.Copy(raw, offset)
}

func (b *Buffer) checkHostAccess(op string, size, offset uint64) error {
	if b.alloc == nil {
		return core.ContractViolation("buffer %s after destroy", op)
	}
	if b.class != ClassCPUVisible {
		return core.ContractViolation("buffer %s on %s memory", op, b.class)
	}
	if offset > b.size || size > b.size-offset {
		return core.ContractViolation("buffer %s of %d bytes at offset %d exceeds size %d", op, size, offset, b.size)
	}
	return nil
}

// withMapping hands fn the buffer's bytes inside its mapped block.
func (b *Buffer) withMapping(fn func(mapped []byte)) error {
	device := b.allocator.device
	block := b.alloc.block
	data, err := block.Map(device)
	if err != nil {
		return core.ResourceCreationFailure(err, "mapping memory block %d", block.id)
	}
	defer block.Unmap(device)

	fn(data[b.alloc.offset : b.alloc.offset+b.size])
	return nil
}
