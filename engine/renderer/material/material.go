// Package material binds buffers to descriptor sets through staged writes.
//
// Writes are collected with the Update*Info calls and have no effect on the
// device until one of the flush calls pushes them. Dynamic offsets are kept
// per set and emitted when the set is bound.
package material

import (
	"cmp"
	"slices"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/descriptor"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
	"github.com/spaghettifunk/lumen/engine/renderer/memory"
	"github.com/spaghettifunk/lumen/engine/renderer/pipeline"
)

type slot struct {
	set     uint32
	binding uint32
}

func compareSlots(a, b slot) int {
	if c := cmp.Compare(a.set, b.set); c != 0 {
		return c
	}
	return cmp.Compare(a.binding, b.binding)
}

type Material struct {
	allocator  *memory.Allocator
	device     gpu.Device
	layout     *descriptor.Layout
	generation uint64
	sets       []gpu.DescriptorSet
	staged     map[slot]gpu.WriteDescriptorSet
	offsets    map[uint32]uint32
}

// New allocates one descriptor set per set of layout, index aligned.
func New(allocator *memory.Allocator, layout *descriptor.Layout) (*Material, error) {
	if !layout.Generated() {
		return nil, core.ContractViolation("material needs a generated descriptor layout")
	}
	sets, err := allocator.AllocateDescriptorSets(layout.Handles())
	if err != nil {
		return nil, err
	}
	return &Material{
		allocator:  allocator,
		device:     allocator.Device(),
		layout:     layout,
		generation: layout.Generation(),
		sets:       sets,
		staged:     map[slot]gpu.WriteDescriptorSet{},
		offsets:    map[uint32]uint32{},
	}, nil
}

func (m *Material) checkSet(set uint32) error {
	if int(set) >= len(m.sets) {
		return core.ContractViolation("descriptor set %d out of range, material has %d sets", set, len(m.sets))
	}
	return nil
}

func (m *Material) binding(set, binding uint32) (descriptor.Binding, error) {
	if err := m.checkSet(set); err != nil {
		return descriptor.Binding{}, err
	}
	b, ok := m.layout.Binding(set, binding)
	if !ok {
		return descriptor.Binding{}, core.ContractViolation("binding %d is not declared in set %d", binding, set)
	}
	return b, nil
}

// UpdateDescriptorBufferInfo stages buf[offset, offset+rng) for (set, binding).
// A zero rng covers the rest of the buffer.
func (m *Material) UpdateDescriptorBufferInfo(set, binding uint32, buf *memory.Buffer, offset, rng uint64) error {
	b, err := m.binding(set, binding)
	if err != nil {
		return err
	}
	if !b.Type.IsBuffer() {
		return core.ContractViolation("set %d binding %d is a %s, not a buffer descriptor", set, binding, b.Type)
	}
	if buf == nil || buf.Destroyed() {
		return core.ContractViolation("set %d binding %d staged with a destroyed buffer", set, binding)
	}
	if offset >= buf.Size() {
		return core.ContractViolation("offset %d is outside buffer of %d bytes", offset, buf.Size())
	}
	if rng == 0 {
		rng = buf.Size() - offset
	}
	if rng > buf.Size()-offset {
		return core.ContractViolation("range %d at offset %d exceeds buffer of %d bytes", rng, offset, buf.Size())
	}

	m.staged[slot{set, binding}] = gpu.WriteDescriptorSet{
		Set:     m.sets[set],
		Binding: binding,
		Type:    b.Type,
		BufferInfo: []gpu.DescriptorBufferInfo{
			{Buffer: buf.Handle(), Offset: offset, Range: rng},
		},
	}
	return nil
}

// UpdateDescriptorImageInfo stages a combined image sampler for (set, binding).
func (m *Material) UpdateDescriptorImageInfo(set, binding uint32, view gpu.ImageView, sampler gpu.Sampler, layout gpu.ImageLayout) error {
	b, err := m.binding(set, binding)
	if err != nil {
		return err
	}
	if b.Type != gpu.DescriptorTypeCombinedImageSampler {
		return core.ContractViolation("set %d binding %d is a %s, not an image sampler", set, binding, b.Type)
	}
	m.staged[slot{set, binding}] = gpu.WriteDescriptorSet{
		Set:       m.sets[set],
		Binding:   binding,
		Type:      b.Type,
		ImageInfo: []gpu.DescriptorImageInfo{{Sampler: sampler, View: view, Layout: layout}},
	}
	return nil
}

// UpdateDescriptorSets pushes every staged write in one call.
func (m *Material) UpdateDescriptorSets() error {
	m.flush(func(slot) bool { return true })
	return nil
}

// UpdateDescriptorSet pushes the staged writes of set only.
func (m *Material) UpdateDescriptorSet(set uint32) error {
	if err := m.checkSet(set); err != nil {
		return err
	}
	m.flush(func(s slot) bool { return s.set == set })
	return nil
}

// UpdateDescriptorSetBinding pushes the staged write of (set, binding) only.
func (m *Material) UpdateDescriptorSetBinding(set, binding uint32) error {
	if _, err := m.binding(set, binding); err != nil {
		return err
	}
	m.flush(func(s slot) bool { return s.set == set && s.binding == binding })
	return nil
}

func (m *Material) flush(match func(slot) bool) {
	var slots []slot
	for s := range m.staged {
		if match(s) {
			slots = append(slots, s)
		}
	}
	if len(slots) == 0 {
		return
	}
	slices.SortFunc(slots, compareSlots)

	writes := make([]gpu.WriteDescriptorSet, len(slots))
	for i, s := range slots {
		writes[i] = m.staged[s]
		delete(m.staged, s)
	}
	m.device.UpdateDescriptorSets(writes)
}

// Pending is the number of staged writes not yet pushed.
func (m *Material) Pending() int {
	return len(m.staged)
}

// UpdateDynamicOffset records the offset used for set's dynamic descriptors.
// It has no effect on sets without a dynamic binding.
func (m *Material) UpdateDynamicOffset(set, offset uint32) error {
	if err := m.checkSet(set); err != nil {
		return err
	}
	m.offsets[set] = offset
	return nil
}

// DynamicOffset returns the offset recorded for set and whether one was set.
func (m *Material) DynamicOffset(set uint32) (uint32, bool) {
	o, ok := m.offsets[set]
	return o, ok
}

// dynamicOffsets returns one offset per dynamic descriptor of set.
func (m *Material) dynamicOffsets(set uint32) []uint32 {
	n := m.layout.DynamicCount(set)
	if n == 0 {
		return nil
	}
	offsets := make([]uint32, n)
	if o, ok := m.offsets[set]; ok {
		for i := range offsets {
			offsets[i] = o
		}
	}
	return offsets
}

func (m *Material) checkCurrent(p *pipeline.Pipeline) error {
	if p.DescriptorLayout() != m.layout {
		return core.ContractViolation("pipeline was built from a different descriptor layout")
	}
	current := m.layout.Generation()
	if m.generation != current || p.LayoutGeneration() != current {
		return core.ContractViolation("descriptor layout regenerated (generation %d) after material (%d) or pipeline (%d) was built",
			current, m.generation, p.LayoutGeneration())
	}
	return nil
}

// Bind binds every set starting at set 0 with the dynamic offsets of every
// set that has dynamic descriptors, in set order.
func (m *Material) Bind(cmd gpu.CommandBuffer, p *pipeline.Pipeline) error {
	if err := m.checkCurrent(p); err != nil {
		return err
	}
	var offsets []uint32
	for set := range m.sets {
		offsets = append(offsets, m.dynamicOffsets(uint32(set))...)
	}
	m.device.CmdBindDescriptorSets(cmd, p.Layout(), 0, m.sets, offsets)
	return nil
}

// BindSet rebinds a single set with its own dynamic offsets, used to move a
// dynamic buffer between draws.
func (m *Material) BindSet(cmd gpu.CommandBuffer, p *pipeline.Pipeline, set uint32) error {
	if err := m.checkSet(set); err != nil {
		return err
	}
	if err := m.checkCurrent(p); err != nil {
		return err
	}
	m.device.CmdBindDescriptorSets(cmd, p.Layout(), set, m.sets[set:set+1], m.dynamicOffsets(set))
	return nil
}

func (m *Material) Sets() []gpu.DescriptorSet {
	return m.sets
}

func (m *Material) Layout() *descriptor.Layout {
	return m.layout
}

// Destroy returns the descriptor sets to the pool. Staged writes are dropped.
func (m *Material) Destroy() error {
	if m.sets == nil {
		return nil
	}
	if err := m.allocator.FreeDescriptorSets(m.sets); err != nil {
		return err
	}
	m.sets = nil
	m.staged = map[slot]gpu.WriteDescriptorSet{}
	return nil
}
