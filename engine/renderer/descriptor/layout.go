// Package descriptor builds descriptor set layouts from declared bindings.
package descriptor

import (
	"slices"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
)

// Binding is one declared slot of a descriptor set.
type Binding struct {
	Binding uint32
	Type    gpu.DescriptorType
	Stages  gpu.ShaderStageFlags
	Count   uint32
}

// Layout collects bindings per set index and turns them into one API layout
// per set. Set indices must be contiguous from zero when generated.
type Layout struct {
	device     gpu.Device
	sets       map[uint32]map[uint32]Binding
	handles    []gpu.DescriptorSetLayout
	generation uint64
	// stale is set when bindings change after Generate.
	stale bool
}

func NewLayout(device gpu.Device) *Layout {
	return &Layout{
		device: device,
		sets:   map[uint32]map[uint32]Binding{},
	}
}

// AddBinding declares (set, binding). Declaring the same pair again replaces
// the earlier declaration. A count of zero is stored as one. Declaring on a
// generated layout invalidates its generation until the next Generate.
func (l *Layout) AddBinding(set, binding uint32, typ gpu.DescriptorType, stages gpu.ShaderStageFlags, count uint32) *Layout {
	if count == 0 {
		count = 1
	}
	if l.handles != nil && !l.stale {
		l.stale = true
		l.generation++
		core.LogWarn("binding (%d, %d) declared on a generated layout, generation %d needs Generate", set, binding, l.generation)
	}
	bindings, ok := l.sets[set]
	if !ok {
		bindings = map[uint32]Binding{}
		l.sets[set] = bindings
	}
	bindings[binding] = Binding{Binding: binding, Type: typ, Stages: stages, Count: count}
	return l
}

// Generate destroys any previously generated layouts and creates one layout
// per set, sets and bindings both in ascending order. Every call that gets
// past validation advances Generation, so a failed regeneration still
// invalidates materials and pipelines built on the destroyed layouts.
func (l *Layout) Generate() error {
	sets := l.Sets()
	for i, s := range sets {
		if s != uint32(i) {
			return core.ContractViolation("descriptor set indices must be contiguous from 0, set %d is missing", i)
		}
	}

	l.destroyHandles()
	l.generation++

	handles := make([]gpu.DescriptorSetLayout, 0, len(sets))
	for _, s := range sets {
		bindings := l.Bindings(s)
		info := make([]gpu.DescriptorSetLayoutBinding, len(bindings))
		for i, b := range bindings {
			info[i] = gpu.DescriptorSetLayoutBinding{
				Binding: b.Binding,
				Type:    b.Type,
				Count:   b.Count,
				Stages:  b.Stages,
			}
		}
		h, err := l.device.CreateDescriptorSetLayout(info)
		if err != nil {
			for i := len(handles) - 1; i >= 0; i-- {
				l.device.DestroyDescriptorSetLayout(handles[i])
			}
			return core.ResourceCreationFailure(err, "creating descriptor set layout for set %d", s)
		}
		handles = append(handles, h)
	}

	l.handles = handles
	l.stale = false
	core.LogDebug("generated %d descriptor set layouts (generation %d)", len(handles), l.generation)
	return nil
}

// Sets returns the declared set indices in ascending order.
func (l *Layout) Sets() []uint32 {
	sets := make([]uint32, 0, len(l.sets))
	for s := range l.sets {
		sets = append(sets, s)
	}
	slices.Sort(sets)
	return sets
}

func (l *Layout) SetCount() int {
	return len(l.sets)
}

// Bindings returns the bindings of set in ascending binding order.
func (l *Layout) Bindings(set uint32) []Binding {
	bindings := make([]Binding, 0, len(l.sets[set]))
	for _, b := range l.sets[set] {
		bindings = append(bindings, b)
	}
	slices.SortFunc(bindings, func(a, b Binding) int {
		return int(a.Binding) - int(b.Binding)
	})
	return bindings
}

func (l *Layout) Binding(set, binding uint32) (Binding, bool) {
	b, ok := l.sets[set][binding]
	return b, ok
}

// DynamicCount is the number of dynamic offsets a bind of set consumes.
func (l *Layout) DynamicCount(set uint32) int {
	n := 0
	for _, b := range l.sets[set] {
		if b.Type.IsDynamic() {
			n += int(b.Count)
		}
	}
	return n
}

func (l *Layout) HasDynamic(set uint32) bool {
	return l.DynamicCount(set) > 0
}

// Handles returns the generated layouts indexed by set.
func (l *Layout) Handles() []gpu.DescriptorSetLayout {
	return l.handles
}

// Generated reports whether the handles match the declared bindings.
func (l *Layout) Generated() bool {
	return l.handles != nil && !l.stale
}

// Generation identifies the current set of handles. It is zero before the
// first Generate and changes whenever the handles are destroyed or go stale.
func (l *Layout) Generation() uint64 {
	return l.generation
}

func (l *Layout) Destroy() {
	if l.handles != nil {
		l.destroyHandles()
		l.generation++
	}
}

func (l *Layout) destroyHandles() {
	for i := len(l.handles) - 1; i >= 0; i-- {
		l.device.DestroyDescriptorSetLayout(l.handles[i])
	}
	l.handles = nil
}
