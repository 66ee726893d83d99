// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"
	"math/bits"
	"sort"

	"github.com/gogpu/vgfx/internal/vk"
)

const (
	// autoPoolMinimumCompatibility is the score below which an existing
	// pool category is not reused for a layout.
	autoPoolMinimumCompatibility = 0.75

	// autoPoolAllocationBatchSize scales a new category's pool sizes.
	autoPoolAllocationBatchSize = 256

	// descriptorTypeCount bounds the binding-amount table. Core Vulkan
	// descriptor types fit well below this.
	descriptorTypeCount = 16
)

// PoolRequirements summarizes which descriptor types a set layout needs and
// how many bindings of each.
type PoolRequirements struct {
	TypeBits       uint64
	BindingAmounts [descriptorTypeCount]uint32
}

// CheckCompatibilityWith scores how well a pool built for other can serve
// this layout. Zero when other lacks a required type; otherwise the average
// min/max ratio of the non-zero binding amounts, scaled by the ratio of
// used type counts. Always in [0, 1].
func (r PoolRequirements) CheckCompatibilityWith(other PoolRequirements) float64 {
	if r.TypeBits&other.TypeBits != r.TypeBits {
		return 0
	}

	compatibility := 0.0
	counted := 0
	for i := range r.BindingAmounts {
		if r.BindingAmounts[i] == 0 {
			continue
		}
		a := float64(min(r.BindingAmounts[i], other.BindingAmounts[i]))
		b := float64(max(r.BindingAmounts[i], other.BindingAmounts[i]))
		compatibility += a / b
		counted++
	}
	if counted == 0 {
		return 0
	}

	ac := bits.OnesCount64(r.TypeBits)
	bc := bits.OnesCount64(other.TypeBits)
	if ac > bc {
		ac, bc = bc, ac
	}

	compatibility /= float64(counted)
	compatibility *= float64(ac) / float64(bc)
	return compatibility
}

// requirementsFromBindings derives pool requirements from layout bindings.
func requirementsFromBindings(bindings []vk.DescriptorSetLayoutBinding) PoolRequirements {
	var req PoolRequirements
	for _, b := range bindings {
		req.TypeBits |= uint64(1) << uint64(b.DescriptorType)
		req.BindingAmounts[b.DescriptorType]++
	}
	return req
}

// SetLayout wraps a VkDescriptorSetLayout together with its pool
// requirements.
type SetLayout struct {
	handle       vk.DescriptorSetLayout
	requirements PoolRequirements
}

// NewSetLayout creates a descriptor set layout from bindings.
func NewSetLayout(cmds *vk.Commands, device vk.Device, bindings []vk.DescriptorSetLayoutBinding) (*SetLayout, error) {
	createInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
	}
	if len(bindings) > 0 {
		createInfo.PBindings = &bindings[0]
	}

	var handle vk.DescriptorSetLayout
	if result := cmds.CreateDescriptorSetLayout(device, &createInfo, nil, &handle); result != vk.Success {
		return nil, fmt.Errorf("gpu: vkCreateDescriptorSetLayout failed: %d", result)
	}

	return &SetLayout{
		handle:       handle,
		requirements: requirementsFromBindings(bindings),
	}, nil
}

// Handle returns the VkDescriptorSetLayout.
func (l *SetLayout) Handle() vk.DescriptorSetLayout { return l.handle }

// Requirements returns the pool requirements of the layout.
func (l *SetLayout) Requirements() PoolRequirements { return l.requirements }

// Destroy releases the layout.
func (l *SetLayout) Destroy(cmds *vk.Commands, device vk.Device) {
	if l.handle != 0 {
		cmds.DestroyDescriptorSetLayout(device, l.handle, nil)
		l.handle = 0
	}
}

// poolCategory is one VkDescriptorPool sized for a particular requirement
// profile, with a live set counter.
type poolCategory struct {
	pool         vk.DescriptorPool
	requirements PoolRequirements
	counter      uint32
	full         bool
}

// PoolSet is a descriptor set allocated from an AutoPool, remembering its
// category so Free can return it.
type PoolSet struct {
	Set      vk.DescriptorSet
	category *poolCategory
}

// AutoPool is a categorized descriptor pool factory. It is deliberately not
// thread-safe: one AutoPool exists per worker thread plus one on the main
// thread.
type AutoPool struct {
	device     vk.Device
	cmds       *vk.Commands
	categories []*poolCategory
}

// NewAutoPool creates an empty auto-pool for the device.
func NewAutoPool(cmds *vk.Commands, device vk.Device) *AutoPool {
	return &AutoPool{device: device, cmds: cmds}
}

// Allocate allocates a descriptor set for the layout, reusing the most
// compatible non-full category or creating a new one.
func (p *AutoPool) Allocate(layout *SetLayout) (PoolSet, error) {
	req := layout.Requirements()

	type scored struct {
		category *poolCategory
		score    float64
	}
	candidates := make([]scored, 0, len(p.categories))
	for _, c := range p.categories {
		if c.full {
			continue
		}
		score := req.CheckCompatibilityWith(c.requirements)
		if score >= autoPoolMinimumCompatibility {
			candidates = append(candidates, scored{c, score})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	for _, cand := range candidates {
		set, result := p.allocateFromCategory(cand.category, layout)
		switch result {
		case vk.Success:
			cand.category.counter++
			return PoolSet{Set: set, category: cand.category}, nil
		case vk.ErrorFragmentedPool, vk.ErrorOutOfPoolMemory:
			cand.category.full = true
		default:
			return PoolSet{}, fmt.Errorf("gpu: vkAllocateDescriptorSets failed: %d", result)
		}
	}

	category, err := p.createCategory(req)
	if err != nil {
		return PoolSet{}, err
	}
	p.categories = append(p.categories, category)

	set, result := p.allocateFromCategory(category, layout)
	if result != vk.Success {
		return PoolSet{}, fmt.Errorf("gpu: vkAllocateDescriptorSets from fresh pool failed: %d", result)
	}
	category.counter++
	return PoolSet{Set: set, category: category}, nil
}

func (p *AutoPool) allocateFromCategory(c *poolCategory, layout *SetLayout) (vk.DescriptorSet, vk.Result) {
	layoutHandle := layout.Handle()
	allocInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     c.pool,
		DescriptorSetCount: 1,
		PSetLayouts:        &layoutHandle,
	}
	var set vk.DescriptorSet
	result := p.cmds.AllocateDescriptorSets(p.device, &allocInfo, &set)
	return set, result
}

func (p *AutoPool) createCategory(req PoolRequirements) (*poolCategory, error) {
	var poolSizes []vk.DescriptorPoolSize
	for t, amount := range req.BindingAmounts {
		if amount == 0 {
			continue
		}
		poolSizes = append(poolSizes, vk.DescriptorPoolSize{
			Type:            vk.DescriptorType(t),
			DescriptorCount: amount * autoPoolAllocationBatchSize,
		})
	}
	if len(poolSizes) == 0 {
		return nil, fmt.Errorf("gpu: descriptor layout requires no descriptors")
	}

	createInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		Flags:         vk.DescriptorPoolCreateFreeDescriptorSetBit,
		MaxSets:       autoPoolAllocationBatchSize,
		PoolSizeCount: uint32(len(poolSizes)),
		PPoolSizes:    &poolSizes[0],
	}

	var pool vk.DescriptorPool
	if result := p.cmds.CreateDescriptorPool(p.device, &createInfo, nil, &pool); result != vk.Success {
		return nil, fmt.Errorf("gpu: vkCreateDescriptorPool failed: %d", result)
	}

	return &poolCategory{pool: pool, requirements: req}, nil
}

// Free returns a set to its category, clears the category's full mark and
// destroys the pool once its live counter reaches zero.
func (p *AutoPool) Free(set PoolSet) {
	c := set.category
	if c == nil {
		return
	}

	_ = p.cmds.FreeDescriptorSets(p.device, c.pool, 1, &set.Set)
	c.counter--
	c.full = false

	if c.counter == 0 {
		p.cmds.DestroyDescriptorPool(p.device, c.pool, nil)
		for i, other := range p.categories {
			if other == c {
				p.categories = append(p.categories[:i], p.categories[i+1:]...)
				break
			}
		}
	}
}

// Destroy releases every category pool. Outstanding sets become invalid.
func (p *AutoPool) Destroy() {
	for _, c := range p.categories {
		p.cmds.DestroyDescriptorPool(p.device, c.pool, nil)
	}
	p.categories = nil
}
