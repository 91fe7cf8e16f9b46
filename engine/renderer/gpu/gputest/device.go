// Package gputest provides an in-memory gpu.Device and gpu.Swapchain.
// Device memory is backed by byte slices so host writes can be read back,
// descriptor pools enforce their capacities and every call is logged.
package gputest

import (
	"fmt"
	"time"

	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
)

// Memory type indices exposed by the fake device.
const (
	MemoryTypeDeviceLocal uint32 = 0
	MemoryTypeHostVisible uint32 = 1
)

type Call struct {
	Method string
	Args   []any
}

type memoryObject struct {
	typeIndex uint32
	data      []byte
	mapped    bool
}

type boundObject struct {
	memory gpu.DeviceMemory
	offset uint64
	size   uint64
}

type bufferObject struct {
	info gpu.BufferCreateInfo
	boundObject
}

type imageObject struct {
	info gpu.ImageCreateInfo
	boundObject
}

type poolObject struct {
	info      gpu.DescriptorPoolCreateInfo
	freeSets  uint32
	freeTypes map[gpu.DescriptorType]uint32
}

type setObject struct {
	pool   gpu.DescriptorPool
	layout gpu.DescriptorSetLayout
	writes map[uint32]gpu.WriteDescriptorSet
}

type Device struct {
	Props  gpu.MemoryProperties
	Limit  gpu.Limits
	Calls  []Call
	failOn map[string]gpu.Result

	next       uint64
	memory     map[gpu.DeviceMemory]*memoryObject
	buffers    map[gpu.Buffer]*bufferObject
	images     map[gpu.Image]*imageObject
	views      map[gpu.ImageView]gpu.ImageViewCreateInfo
	samplers   map[gpu.Sampler]gpu.SamplerCreateInfo
	pools      map[gpu.DescriptorPool]*poolObject
	setLayouts map[gpu.DescriptorSetLayout][]gpu.DescriptorSetLayoutBinding
	sets       map[gpu.DescriptorSet]*setObject
	shaders    map[gpu.ShaderModule][]byte
	layouts    map[gpu.PipelineLayout]gpu.PipelineLayoutCreateInfo
	pipelines  map[gpu.Pipeline]gpu.GraphicsPipelineCreateInfo
	cmds       map[gpu.CommandBuffer]bool
	fences     map[gpu.Fence]bool
}

func NewDevice() *Device {
	return &Device{
		Props: gpu.MemoryProperties{
			Types: []gpu.MemoryType{
				{PropertyFlags: gpu.MemoryPropertyDeviceLocal, HeapIndex: 0},
				{PropertyFlags: gpu.MemoryPropertyHostVisible | gpu.MemoryPropertyHostCoherent, HeapIndex: 1},
			},
			Heaps: []gpu.MemoryHeap{
				{Size: 1 << 30, DeviceLocal: true},
				{Size: 1 << 30},
			},
		},
		Limit: gpu.Limits{
			BufferImageGranularity:          1024,
			MinUniformBufferOffsetAlignment: 64,
			MinStorageBufferOffsetAlignment: 64,
			NonCoherentAtomSize:             64,
			MaxBoundDescriptorSets:          8,
		},
		failOn:     map[string]gpu.Result{},
		memory:     map[gpu.DeviceMemory]*memoryObject{},
		buffers:    map[gpu.Buffer]*bufferObject{},
		images:     map[gpu.Image]*imageObject{},
		views:      map[gpu.ImageView]gpu.ImageViewCreateInfo{},
		samplers:   map[gpu.Sampler]gpu.SamplerCreateInfo{},
		pools:      map[gpu.DescriptorPool]*poolObject{},
		setLayouts: map[gpu.DescriptorSetLayout][]gpu.DescriptorSetLayoutBinding{},
		sets:       map[gpu.DescriptorSet]*setObject{},
		shaders:    map[gpu.ShaderModule][]byte{},
		layouts:    map[gpu.PipelineLayout]gpu.PipelineLayoutCreateInfo{},
		pipelines:  map[gpu.Pipeline]gpu.GraphicsPipelineCreateInfo{},
		cmds:       map[gpu.CommandBuffer]bool{},
		fences:     map[gpu.Fence]bool{},
	}
}

// FailNext makes the next call of method return r.
func (d *Device) FailNext(method string, r gpu.Result) {
	d.failOn[method] = r
}

// CallNames returns the logged method names in call order.
func (d *Device) CallNames() []string {
	names := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		names[i] = c.Method
	}
	return names
}

// CallsTo returns every logged call of method.
func (d *Device) CallsTo(method string) []Call {
	var out []Call
	for _, c := range d.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (d *Device) ClearCalls() {
	d.Calls = nil
}

// Live counts API objects that have been created and not destroyed.
func (d *Device) Live() int {
	return len(d.memory) + len(d.buffers) + len(d.images) + len(d.views) + len(d.samplers) +
		len(d.pools) + len(d.setLayouts) + len(d.sets) + len(d.shaders) + len(d.layouts) +
		len(d.pipelines) + len(d.cmds) + len(d.fences)
}

// LiveMemory counts device memory objects still allocated.
func (d *Device) LiveMemory() int {
	return len(d.memory)
}

// BufferContents returns the bytes currently stored in the memory bound to buffer.
func (d *Device) BufferContents(buffer gpu.Buffer) []byte {
	b, ok := d.buffers[buffer]
	if !ok || b.memory == 0 {
		return nil
	}
	mem := d.memory[b.memory]
	return mem.data[b.offset : b.offset+b.info.Size]
}

// ImageContents returns the bytes stored in the memory bound to image.
func (d *Device) ImageContents(image gpu.Image) []byte {
	img, ok := d.images[image]
	if !ok || img.memory == 0 {
		return nil
	}
	mem := d.memory[img.memory]
	return mem.data[img.offset : img.offset+img.size]
}

// DescriptorWrite returns the last write applied to (set, binding).
func (d *Device) DescriptorWrite(set gpu.DescriptorSet, binding uint32) (gpu.WriteDescriptorSet, bool) {
	s, ok := d.sets[set]
	if !ok {
		return gpu.WriteDescriptorSet{}, false
	}
	w, ok := s.writes[binding]
	return w, ok
}

func (d *Device) SetLayoutBindings(layout gpu.DescriptorSetLayout) []gpu.DescriptorSetLayoutBinding {
	return d.setLayouts[layout]
}

func (d *Device) PipelineInfo(p gpu.Pipeline) (gpu.GraphicsPipelineCreateInfo, bool) {
	info, ok := d.pipelines[p]
	return info, ok
}

func (d *Device) FenceSignaled(f gpu.Fence) bool {
	return d.fences[f]
}

func (d *Device) log(method string, args ...any) error {
	d.Calls = append(d.Calls, Call{Method: method, Args: args})
	if r, ok := d.failOn[method]; ok {
		delete(d.failOn, method)
		return &gpu.ResultError{Op: method, Result: r}
	}
	return nil
}

func (d *Device) id() uint64 {
	d.next++
	return d.next
}

func (d *Device) MemoryProperties() gpu.MemoryProperties {
	return d.Props
}

func (d *Device) Limits() gpu.Limits {
	return d.Limit
}

func (d *Device) AllocateMemory(size uint64, memoryTypeIndex uint32) (gpu.DeviceMemory, error) {
	if err := d.log("AllocateMemory", size, memoryTypeIndex); err != nil {
		return 0, err
	}
	if int(memoryTypeIndex) >= len(d.Props.Types) {
		return 0, &gpu.ResultError{Op: "AllocateMemory", Result: gpu.ErrorOutOfDeviceMemory}
	}
	h := gpu.DeviceMemory(d.id())
	d.memory[h] = &memoryObject{typeIndex: memoryTypeIndex, data: make([]byte, size)}
	return h, nil
}

func (d *Device) FreeMemory(memory gpu.DeviceMemory) {
	_ = d.log("FreeMemory", memory)
	delete(d.memory, memory)
}

func (d *Device) MapMemory(memory gpu.DeviceMemory, offset uint64, size uint64) ([]byte, error) {
	if err := d.log("MapMemory", memory, offset, size); err != nil {
		return nil, err
	}
	m, ok := d.memory[memory]
	if !ok {
		return nil, &gpu.ResultError{Op: "MapMemory", Result: gpu.ErrorMemoryMapFailed}
	}
	if m.mapped {
		panic(fmt.Sprintf("gputest: memory %d mapped twice", memory))
	}
	if !d.Props.Types[m.typeIndex].PropertyFlags.Has(gpu.MemoryPropertyHostVisible) {
		return nil, &gpu.ResultError{Op: "MapMemory", Result: gpu.ErrorMemoryMapFailed}
	}
	if offset+size > uint64(len(m.data)) {
		return nil, &gpu.ResultError{Op: "MapMemory", Result: gpu.ErrorMemoryMapFailed}
	}
	m.mapped = true
	return m.data[offset : offset+size : offset+size], nil
}

func (d *Device) UnmapMemory(memory gpu.DeviceMemory) {
	_ = d.log("UnmapMemory", memory)
	if m, ok := d.memory[memory]; ok {
		m.mapped = false
	}
}

// IsMapped reports whether memory is currently mapped.
func (d *Device) IsMapped(memory gpu.DeviceMemory) bool {
	m, ok := d.memory[memory]
	return ok && m.mapped
}

func (d *Device) CreateBuffer(info gpu.BufferCreateInfo) (gpu.Buffer, error) {
	if err := d.log("CreateBuffer", info); err != nil {
		return 0, err
	}
	h := gpu.Buffer(d.id())
	d.buffers[h] = &bufferObject{info: info}
	return h, nil
}

func (d *Device) DestroyBuffer(buffer gpu.Buffer) {
	_ = d.log("DestroyBuffer", buffer)
	delete(d.buffers, buffer)
}

func (d *Device) BufferMemoryRequirements(buffer gpu.Buffer) gpu.MemoryRequirements {
	b := d.buffers[buffer]
	alignment := uint64(16)
	if b.info.Usage&(gpu.BufferUsageUniform|gpu.BufferUsageStorage) != 0 {
		alignment = 256
	}
	return gpu.MemoryRequirements{
		Size:           alignUp(b.info.Size, alignment),
		Alignment:      alignment,
		MemoryTypeBits: 0b11,
	}
}

func (d *Device) BindBufferMemory(buffer gpu.Buffer, memory gpu.DeviceMemory, offset uint64) error {
	if err := d.log("BindBufferMemory", buffer, memory, offset); err != nil {
		return err
	}
	b := d.buffers[buffer]
	b.memory, b.offset, b.size = memory, offset, b.info.Size
	return nil
}

func (d *Device) CreateImage(info gpu.ImageCreateInfo) (gpu.Image, error) {
	if err := d.log("CreateImage", info); err != nil {
		return 0, err
	}
	h := gpu.Image(d.id())
	d.images[h] = &imageObject{info: info}
	return h, nil
}

func (d *Device) DestroyImage(image gpu.Image) {
	_ = d.log("DestroyImage", image)
	delete(d.images, image)
}

func (d *Device) ImageMemoryRequirements(image gpu.Image) gpu.MemoryRequirements {
	img := d.images[image]
	size := uint64(img.info.Width) * uint64(img.info.Height) * img.info.Format.BytesPerPixel()
	bits := uint32(0b11)
	if img.info.Tiling == gpu.ImageTilingOptimal {
		bits = 1 << MemoryTypeDeviceLocal
	}
	return gpu.MemoryRequirements{Size: alignUp(size, 1024), Alignment: 1024, MemoryTypeBits: bits}
}

func (d *Device) BindImageMemory(image gpu.Image, memory gpu.DeviceMemory, offset uint64) error {
	if err := d.log("BindImageMemory", image, memory, offset); err != nil {
		return err
	}
	img := d.images[image]
	img.memory, img.offset = memory, offset
	img.size = uint64(img.info.Width) * uint64(img.info.Height) * img.info.Format.BytesPerPixel()
	return nil
}

func (d *Device) CreateImageView(info gpu.ImageViewCreateInfo) (gpu.ImageView, error) {
	if err := d.log("CreateImageView", info); err != nil {
		return 0, err
	}
	h := gpu.ImageView(d.id())
	d.views[h] = info
	return h, nil
}

func (d *Device) DestroyImageView(view gpu.ImageView) {
	_ = d.log("DestroyImageView", view)
	delete(d.views, view)
}

func (d *Device) CreateSampler(info gpu.SamplerCreateInfo) (gpu.Sampler, error) {
	if err := d.log("CreateSampler", info); err != nil {
		return 0, err
	}
	h := gpu.Sampler(d.id())
	d.samplers[h] = info
	return h, nil
}

func (d *Device) DestroySampler(sampler gpu.Sampler) {
	_ = d.log("DestroySampler", sampler)
	delete(d.samplers, sampler)
}

func (d *Device) CreateDescriptorPool(info gpu.DescriptorPoolCreateInfo) (gpu.DescriptorPool, error) {
	if err := d.log("CreateDescriptorPool", info); err != nil {
		return 0, err
	}
	p := &poolObject{info: info, freeSets: info.MaxSets, freeTypes: map[gpu.DescriptorType]uint32{}}
	for _, s := range info.PoolSizes {
		p.freeTypes[s.Type] += s.Count
	}
	h := gpu.DescriptorPool(d.id())
	d.pools[h] = p
	return h, nil
}

func (d *Device) DestroyDescriptorPool(pool gpu.DescriptorPool) {
	_ = d.log("DestroyDescriptorPool", pool)
	for h, s := range d.sets {
		if s.pool == pool {
			delete(d.sets, h)
		}
	}
	delete(d.pools, pool)
}

func (d *Device) CreateDescriptorSetLayout(bindings []gpu.DescriptorSetLayoutBinding) (gpu.DescriptorSetLayout, error) {
	if err := d.log("CreateDescriptorSetLayout", bindings); err != nil {
		return 0, err
	}
	h := gpu.DescriptorSetLayout(d.id())
	d.setLayouts[h] = append([]gpu.DescriptorSetLayoutBinding(nil), bindings...)
	return h, nil
}

func (d *Device) DestroyDescriptorSetLayout(layout gpu.DescriptorSetLayout) {
	_ = d.log("DestroyDescriptorSetLayout", layout)
	delete(d.setLayouts, layout)
}

func (d *Device) AllocateDescriptorSets(pool gpu.DescriptorPool, layouts []gpu.DescriptorSetLayout) ([]gpu.DescriptorSet, error) {
	if err := d.log("AllocateDescriptorSets", pool, layouts); err != nil {
		return nil, err
	}
	p, ok := d.pools[pool]
	if !ok {
		return nil, &gpu.ResultError{Op: "AllocateDescriptorSets", Result: gpu.ErrorUnknown}
	}
	need := map[gpu.DescriptorType]uint32{}
	for _, l := range layouts {
		for _, b := range d.setLayouts[l] {
			need[b.Type] += b.Count
		}
	}
	if uint32(len(layouts)) > p.freeSets {
		return nil, &gpu.ResultError{Op: "AllocateDescriptorSets", Result: gpu.ErrorOutOfPoolMemory}
	}
	for t, n := range need {
		if n > p.freeTypes[t] {
			return nil, &gpu.ResultError{Op: "AllocateDescriptorSets", Result: gpu.ErrorOutOfPoolMemory}
		}
	}
	p.freeSets -= uint32(len(layouts))
	for t, n := range need {
		p.freeTypes[t] -= n
	}
	sets := make([]gpu.DescriptorSet, len(layouts))
	for i, l := range layouts {
		h := gpu.DescriptorSet(d.id())
		d.sets[h] = &setObject{pool: pool, layout: l, writes: map[uint32]gpu.WriteDescriptorSet{}}
		sets[i] = h
	}
	return sets, nil
}

func (d *Device) FreeDescriptorSets(pool gpu.DescriptorPool, sets []gpu.DescriptorSet) error {
	if err := d.log("FreeDescriptorSets", pool, sets); err != nil {
		return err
	}
	p := d.pools[pool]
	if p == nil || !p.info.FreeDescriptorSet {
		return &gpu.ResultError{Op: "FreeDescriptorSets", Result: gpu.ErrorUnknown}
	}
	for _, h := range sets {
		s, ok := d.sets[h]
		if !ok {
			continue
		}
		p.freeSets++
		for _, b := range d.setLayouts[s.layout] {
			p.freeTypes[b.Type] += b.Count
		}
		delete(d.sets, h)
	}
	return nil
}

func (d *Device) UpdateDescriptorSets(writes []gpu.WriteDescriptorSet) {
	_ = d.log("UpdateDescriptorSets", writes)
	for _, w := range writes {
		if s, ok := d.sets[w.Set]; ok {
			s.writes[w.Binding] = w
		}
	}
}

func (d *Device) CreateShaderModule(code []byte) (gpu.ShaderModule, error) {
	if err := d.log("CreateShaderModule", len(code)); err != nil {
		return 0, err
	}
	h := gpu.ShaderModule(d.id())
	d.shaders[h] = code
	return h, nil
}

func (d *Device) DestroyShaderModule(module gpu.ShaderModule) {
	_ = d.log("DestroyShaderModule", module)
	delete(d.shaders, module)
}

func (d *Device) CreatePipelineLayout(info gpu.PipelineLayoutCreateInfo) (gpu.PipelineLayout, error) {
	if err := d.log("CreatePipelineLayout", info); err != nil {
		return 0, err
	}
	h := gpu.PipelineLayout(d.id())
	d.layouts[h] = info
	return h, nil
}

func (d *Device) DestroyPipelineLayout(layout gpu.PipelineLayout) {
	_ = d.log("DestroyPipelineLayout", layout)
	delete(d.layouts, layout)
}

func (d *Device) CreateGraphicsPipeline(info gpu.GraphicsPipelineCreateInfo) (gpu.Pipeline, error) {
	if err := d.log("CreateGraphicsPipeline", info); err != nil {
		return 0, err
	}
	h := gpu.Pipeline(d.id())
	d.pipelines[h] = info
	return h, nil
}

func (d *Device) DestroyPipeline(pipeline gpu.Pipeline) {
	_ = d.log("DestroyPipeline", pipeline)
	delete(d.pipelines, pipeline)
}

func (d *Device) AllocateCommandBuffer() (gpu.CommandBuffer, error) {
	if err := d.log("AllocateCommandBuffer"); err != nil {
		return 0, err
	}
	h := gpu.CommandBuffer(d.id())
	d.cmds[h] = true
	return h, nil
}

func (d *Device) FreeCommandBuffer(cmd gpu.CommandBuffer) {
	_ = d.log("FreeCommandBuffer", cmd)
	delete(d.cmds, cmd)
}

func (d *Device) ResetCommandBuffer(cmd gpu.CommandBuffer) error {
	return d.log("ResetCommandBuffer", cmd)
}

func (d *Device) BeginCommandBuffer(cmd gpu.CommandBuffer, usage gpu.CommandBufferUsageFlags) error {
	return d.log("BeginCommandBuffer", cmd, usage)
}

func (d *Device) EndCommandBuffer(cmd gpu.CommandBuffer) error {
	return d.log("EndCommandBuffer", cmd)
}

func (d *Device) CmdSetViewport(cmd gpu.CommandBuffer, viewport gpu.Viewport) {
	_ = d.log("CmdSetViewport", cmd, viewport)
}

func (d *Device) CmdSetScissor(cmd gpu.CommandBuffer, scissor gpu.Rect2D) {
	_ = d.log("CmdSetScissor", cmd, scissor)
}

func (d *Device) CmdPipelineBarrier(cmd gpu.CommandBuffer, srcStage gpu.PipelineStageFlags, dstStage gpu.PipelineStageFlags, barriers []gpu.ImageBarrier) {
	_ = d.log("CmdPipelineBarrier", cmd, srcStage, dstStage, barriers)
}

func (d *Device) CmdBeginRendering(cmd gpu.CommandBuffer, info gpu.RenderingInfo) {
	_ = d.log("CmdBeginRendering", cmd, info)
}

func (d *Device) CmdEndRendering(cmd gpu.CommandBuffer) {
	_ = d.log("CmdEndRendering", cmd)
}

func (d *Device) CmdBindPipeline(cmd gpu.CommandBuffer, pipeline gpu.Pipeline) {
	_ = d.log("CmdBindPipeline", cmd, pipeline)
}

func (d *Device) CmdBindDescriptorSets(cmd gpu.CommandBuffer, layout gpu.PipelineLayout, firstSet uint32, sets []gpu.DescriptorSet, dynamicOffsets []uint32) {
	_ = d.log("CmdBindDescriptorSets", cmd, layout, firstSet, sets, dynamicOffsets)
}

func (d *Device) CmdBindVertexBuffers(cmd gpu.CommandBuffer, firstBinding uint32, buffers []gpu.Buffer, offsets []uint64) {
	_ = d.log("CmdBindVertexBuffers", cmd, firstBinding, buffers, offsets)
}

func (d *Device) CmdBindIndexBuffer(cmd gpu.CommandBuffer, buffer gpu.Buffer, offset uint64, indexType gpu.IndexType) {
	_ = d.log("CmdBindIndexBuffer", cmd, buffer, offset, indexType)
}

func (d *Device) CmdDraw(cmd gpu.CommandBuffer, vertexCount uint32, instanceCount uint32, firstVertex uint32, firstInstance uint32) {
	_ = d.log("CmdDraw", cmd, vertexCount, instanceCount, firstVertex, firstInstance)
}

func (d *Device) CmdDrawIndexed(cmd gpu.CommandBuffer, indexCount uint32, instanceCount uint32, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	_ = d.log("CmdDrawIndexed", cmd, indexCount, instanceCount, firstIndex, vertexOffset, firstInstance)
}

func (d *Device) CreateFence(signaled bool) (gpu.Fence, error) {
	if err := d.log("CreateFence", signaled); err != nil {
		return 0, err
	}
	h := gpu.Fence(d.id())
	d.fences[h] = signaled
	return h, nil
}

func (d *Device) DestroyFence(fence gpu.Fence) {
	_ = d.log("DestroyFence", fence)
	delete(d.fences, fence)
}

func (d *Device) ResetFence(fence gpu.Fence) error {
	if err := d.log("ResetFence", fence); err != nil {
		return err
	}
	d.fences[fence] = false
	return nil
}

// WaitForFence never blocks: an unsignaled fence times out immediately.
func (d *Device) WaitForFence(fence gpu.Fence, timeout time.Duration) error {
	if err := d.log("WaitForFence", fence, timeout); err != nil {
		return err
	}
	if !d.fences[fence] {
		return &gpu.ResultError{Op: "WaitForFence", Result: gpu.Timeout}
	}
	return nil
}

// QueueSubmit completes the work immediately and signals fence.
func (d *Device) QueueSubmit(cmd gpu.CommandBuffer, fence gpu.Fence) error {
	if err := d.log("QueueSubmit", cmd, fence); err != nil {
		return err
	}
	if fence != 0 {
		d.fences[fence] = true
	}
	return nil
}

func (d *Device) WaitIdle() error {
	return d.log("WaitIdle")
}

func alignUp(v, alignment uint64) uint64 {
	return (v + alignment - 1) / alignment * alignment
}
