// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"math"
	"testing"

	"github.com/gogpu/vgfx/internal/vk"
)

func reqs(bindings ...vk.DescriptorSetLayoutBinding) PoolRequirements {
	return requirementsFromBindings(bindings)
}

func TestCheckCompatibilityIdentical(t *testing.T) {
	r := reqs(
		vk.DescriptorSetLayoutBinding{Binding: 0, DescriptorType: vk.DescriptorTypeUniformBuffer, DescriptorCount: 1},
		vk.DescriptorSetLayoutBinding{Binding: 1, DescriptorType: vk.DescriptorTypeSampledImage, DescriptorCount: 1},
	)
	if got := r.CheckCompatibilityWith(r); got != 1.0 {
		t.Errorf("self compatibility = %v, want 1.0", got)
	}
}

func TestCheckCompatibilityNotSubset(t *testing.T) {
	a := reqs(vk.DescriptorSetLayoutBinding{DescriptorType: vk.DescriptorTypeStorageBuffer})
	b := reqs(vk.DescriptorSetLayoutBinding{DescriptorType: vk.DescriptorTypeUniformBuffer})
	if got := a.CheckCompatibilityWith(b); got != 0 {
		t.Errorf("disjoint compatibility = %v, want 0", got)
	}
}

func TestCheckCompatibilitySubsetScaledByTypeCount(t *testing.T) {
	// a uses one type, b uses the same type plus another: binding ratios are
	// 1/1 but the used-type-count ratio halves the score.
	a := reqs(vk.DescriptorSetLayoutBinding{DescriptorType: vk.DescriptorTypeUniformBuffer})
	b := reqs(
		vk.DescriptorSetLayoutBinding{DescriptorType: vk.DescriptorTypeUniformBuffer},
		vk.DescriptorSetLayoutBinding{DescriptorType: vk.DescriptorTypeSampledImage},
	)
	if got := a.CheckCompatibilityWith(b); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("subset compatibility = %v, want 0.5", got)
	}
}

func TestCheckCompatibilityBindingAmountRatio(t *testing.T) {
	// Same single type, 2 bindings vs 4 bindings: score is min/max = 0.5.
	a := reqs(
		vk.DescriptorSetLayoutBinding{Binding: 0, DescriptorType: vk.DescriptorTypeStorageBuffer},
		vk.DescriptorSetLayoutBinding{Binding: 1, DescriptorType: vk.DescriptorTypeStorageBuffer},
	)
	b := reqs(
		vk.DescriptorSetLayoutBinding{Binding: 0, DescriptorType: vk.DescriptorTypeStorageBuffer},
		vk.DescriptorSetLayoutBinding{Binding: 1, DescriptorType: vk.DescriptorTypeStorageBuffer},
		vk.DescriptorSetLayoutBinding{Binding: 2, DescriptorType: vk.DescriptorTypeStorageBuffer},
		vk.DescriptorSetLayoutBinding{Binding: 3, DescriptorType: vk.DescriptorTypeStorageBuffer},
	)
	if got := a.CheckCompatibilityWith(b); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("binding ratio compatibility = %v, want 0.5", got)
	}
}

func TestCheckCompatibilityRange(t *testing.T) {
	layouts := []PoolRequirements{
		reqs(vk.DescriptorSetLayoutBinding{DescriptorType: vk.DescriptorTypeSampler}),
		reqs(
			vk.DescriptorSetLayoutBinding{DescriptorType: vk.DescriptorTypeSampler},
			vk.DescriptorSetLayoutBinding{Binding: 1, DescriptorType: vk.DescriptorTypeUniformBuffer},
		),
		reqs(
			vk.DescriptorSetLayoutBinding{DescriptorType: vk.DescriptorTypeStorageBuffer},
			vk.DescriptorSetLayoutBinding{Binding: 1, DescriptorType: vk.DescriptorTypeStorageBuffer},
			vk.DescriptorSetLayoutBinding{Binding: 2, DescriptorType: vk.DescriptorTypeSampledImage},
		),
	}
	for i, a := range layouts {
		for j, b := range layouts {
			got := a.CheckCompatibilityWith(b)
			if got < 0 || got > 1 {
				t.Errorf("compatibility(%d, %d) = %v out of [0, 1]", i, j, got)
			}
		}
	}
}
