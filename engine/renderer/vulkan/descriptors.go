package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
)

func (d *Device) CreateDescriptorPool(info gpu.DescriptorPoolCreateInfo) (gpu.DescriptorPool, error) {
	sizes := make([]vk.DescriptorPoolSize, len(info.PoolSizes))
	for i, s := range info.PoolSizes {
		sizes[i] = vk.DescriptorPoolSize{
			Type:            toVkDescriptorType(s.Type),
			DescriptorCount: s.Count,
		}
	}
	createInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       info.MaxSets,
		PoolSizeCount: uint32(len(sizes)),
		PPoolSizes:    sizes,
	}
	if info.FreeDescriptorSet {
		createInfo.Flags = vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateFreeDescriptorSetBit)
	}

	var pool vk.DescriptorPool
	err := d.locks.SafeCall(DescriptorPoolManagement, func() error {
		return check("vkCreateDescriptorPool", vk.CreateDescriptorPool(d.handle, &createInfo, nil, &pool))
	})
	if err != nil {
		return 0, err
	}
	return gpu.DescriptorPool(d.descriptorPools.add(pool)), nil
}

// DestroyDescriptorPool also forgets every set still allocated from pool.
func (d *Device) DestroyDescriptorPool(pool gpu.DescriptorPool) {
	p, ok := d.descriptorPools.remove(uint64(pool))
	if !ok {
		return
	}
	var orphans []uint64
	d.descriptorSets.each(func(h uint64, s vk.DescriptorSet) {
		if d.setPools[h] == pool {
			orphans = append(orphans, h)
		}
	})
	for _, h := range orphans {
		d.descriptorSets.remove(h)
		delete(d.setPools, h)
	}
	_ = d.locks.SafeCall(DescriptorPoolManagement, func() error {
		vk.DestroyDescriptorPool(d.handle, p, nil)
		return nil
	})
}

func (d *Device) CreateDescriptorSetLayout(bindings []gpu.DescriptorSetLayoutBinding) (gpu.DescriptorSetLayout, error) {
	vkBindings := make([]vk.DescriptorSetLayoutBinding, len(bindings))
	for i, b := range bindings {
		vkBindings[i] = vk.DescriptorSetLayoutBinding{
			Binding:         b.Binding,
			DescriptorType:  toVkDescriptorType(b.Type),
			DescriptorCount: b.Count,
			StageFlags:      vk.ShaderStageFlags(shaderStageBits.convert(b.Stages)),
		}
	}
	var layout vk.DescriptorSetLayout
	res := vk.CreateDescriptorSetLayout(d.handle, &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(vkBindings)),
		PBindings:    vkBindings,
	}, nil, &layout)
	if err := check("vkCreateDescriptorSetLayout", res); err != nil {
		return 0, err
	}
	return gpu.DescriptorSetLayout(d.setLayouts.add(layout)), nil
}

func (d *Device) DestroyDescriptorSetLayout(layout gpu.DescriptorSetLayout) {
	if l, ok := d.setLayouts.remove(uint64(layout)); ok {
		vk.DestroyDescriptorSetLayout(d.handle, l, nil)
	}
}

func (d *Device) AllocateDescriptorSets(pool gpu.DescriptorPool, layouts []gpu.DescriptorSetLayout) ([]gpu.DescriptorSet, error) {
	if len(layouts) == 0 {
		return nil, nil
	}
	vkLayouts := make([]vk.DescriptorSetLayout, len(layouts))
	for i, l := range layouts {
		vkLayouts[i] = d.setLayouts.get(uint64(l))
	}
	sets := make([]vk.DescriptorSet, len(layouts))
	err := d.locks.SafeCall(DescriptorPoolManagement, func() error {
		return check("vkAllocateDescriptorSets", vk.AllocateDescriptorSets(d.handle, &vk.DescriptorSetAllocateInfo{
			SType:              vk.StructureTypeDescriptorSetAllocateInfo,
			DescriptorPool:     d.descriptorPools.get(uint64(pool)),
			DescriptorSetCount: uint32(len(vkLayouts)),
			PSetLayouts:        vkLayouts,
		}, &sets[0]))
	})
	if err != nil {
		return nil, err
	}

	out := make([]gpu.DescriptorSet, len(sets))
	for i, s := range sets {
		h := d.descriptorSets.add(s)
		d.setPools[h] = pool
		out[i] = gpu.DescriptorSet(h)
	}
	return out, nil
}

func (d *Device) FreeDescriptorSets(pool gpu.DescriptorPool, sets []gpu.DescriptorSet) error {
	if len(sets) == 0 {
		return nil
	}
	vkSets := make([]vk.DescriptorSet, 0, len(sets))
	for _, s := range sets {
		if v, ok := d.descriptorSets.remove(uint64(s)); ok {
			delete(d.setPools, uint64(s))
			vkSets = append(vkSets, v)
		}
	}
	if len(vkSets) == 0 {
		return nil
	}
	return d.locks.SafeCall(DescriptorPoolManagement, func() error {
		return check("vkFreeDescriptorSets", vk.FreeDescriptorSets(d.handle, d.descriptorPools.get(uint64(pool)), uint32(len(vkSets)), &vkSets[0]))
	})
}

func (d *Device) UpdateDescriptorSets(writes []gpu.WriteDescriptorSet) {
	if len(writes) == 0 {
		return
	}
	vkWrites := make([]vk.WriteDescriptorSet, len(writes))
	for i, w := range writes {
		vw := vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          d.descriptorSets.get(uint64(w.Set)),
			DstBinding:      w.Binding,
			DstArrayElement: w.ArrayElement,
			DescriptorType:  toVkDescriptorType(w.Type),
		}
		if w.Type.IsBuffer() {
			infos := make([]vk.DescriptorBufferInfo, len(w.BufferInfo))
			for j, b := range w.BufferInfo {
				infos[j] = vk.DescriptorBufferInfo{
					Buffer: d.buffers.get(uint64(b.Buffer)),
					Offset: vk.DeviceSize(b.Offset),
					Range:  vk.DeviceSize(b.Range),
				}
			}
			vw.DescriptorCount = uint32(len(infos))
			vw.PBufferInfo = infos
		} else {
			infos := make([]vk.DescriptorImageInfo, len(w.ImageInfo))
			for j, im := range w.ImageInfo {
				infos[j] = vk.DescriptorImageInfo{
					Sampler:     d.samplers.get(uint64(im.Sampler)),
					ImageView:   d.views.get(uint64(im.View)).handle,
					ImageLayout: toVkImageLayout(im.Layout),
				}
			}
			vw.DescriptorCount = uint32(len(infos))
			vw.PImageInfo = infos
		}
		vkWrites[i] = vw
	}
	vk.UpdateDescriptorSets(d.handle, uint32(len(vkWrites)), vkWrites, 0, nil)
}
