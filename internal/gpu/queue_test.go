// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"testing"

	"github.com/gogpu/vgfx/internal/vk"
)

// A typical discrete GPU family layout: one all-purpose graphics family,
// one compute family, one transfer-only family.
func discreteFamilies() []vk.QueueFamilyProperties {
	return []vk.QueueFamilyProperties{
		{QueueFlags: vk.QueueGraphicsBit | vk.QueueComputeBit | vk.QueueTransferBit, QueueCount: 16},
		{QueueFlags: vk.QueueComputeBit | vk.QueueTransferBit, QueueCount: 8},
		{QueueFlags: vk.QueueTransferBit, QueueCount: 2},
	}
}

func TestSelectQueueFamilyLeastSurplus(t *testing.T) {
	families := discreteFamilies()
	present := []bool{true, false, false}

	tests := []struct {
		name  string
		flags vk.QueueFlags
		want  uint32
	}{
		{"graphics goes to family 0", vk.QueueGraphicsBit, 0},
		{"compute avoids the graphics family", vk.QueueComputeBit, 1},
		{"transfer picks the dedicated family", vk.QueueTransferBit, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := selectQueueFamily(families, present, tt.flags)
			if !ok || got != tt.want {
				t.Errorf("selectQueueFamily(0x%x) = %d, %v, want %d", tt.flags, got, ok, tt.want)
			}
		})
	}
}

func TestSelectQueueFamilyPrefersPresentForGraphics(t *testing.T) {
	families := []vk.QueueFamilyProperties{
		{QueueFlags: vk.QueueGraphicsBit, QueueCount: 1},
		{QueueFlags: vk.QueueGraphicsBit | vk.QueueComputeBit, QueueCount: 1},
	}
	// Only the busier family can present; graphics requests should follow
	// presentation over surplus-bit minimization.
	present := []bool{false, true}

	got, ok := selectQueueFamily(families, present, vk.QueueGraphicsBit)
	if !ok || got != 1 {
		t.Errorf("selectQueueFamily(graphics) = %d, %v, want present-capable family 1", got, ok)
	}
}

func TestSelectQueueFamilyNoMatch(t *testing.T) {
	families := []vk.QueueFamilyProperties{
		{QueueFlags: vk.QueueTransferBit, QueueCount: 1},
	}
	if _, ok := selectQueueFamily(families, nil, vk.QueueGraphicsBit); ok {
		t.Error("selectQueueFamily found a family without the requested capability")
	}
}

func TestResolverDistinctQueues(t *testing.T) {
	r, err := NewDeviceQueueResolver(discreteFamilies(), []bool{true, false, false}, []QueueRequest{
		{Flags: vk.QueueGraphicsBit, Priority: 1.0},
		{Flags: vk.QueueGraphicsBit, Priority: 0.2},
		{Flags: vk.QueueComputeBit, Priority: 0.9},
		{Flags: vk.QueueTransferBit, Priority: 0.5},
	})
	if err != nil {
		t.Fatalf("NewDeviceQueueResolver: %v", err)
	}

	for i, a := range r.assignments {
		if a.basedOn != -1 {
			t.Errorf("request %d aliased (basedOn=%d) despite free queues", i, a.basedOn)
		}
	}
	if r.assignments[0].familyIndex != r.assignments[1].familyIndex {
		t.Error("both graphics requests should share a family")
	}
	if r.assignments[0].queueIndex == r.assignments[1].queueIndex {
		t.Error("graphics requests should claim distinct queues")
	}
}

func TestResolverAliasesWhenFamilyExhausted(t *testing.T) {
	families := []vk.QueueFamilyProperties{
		{QueueFlags: vk.QueueGraphicsBit | vk.QueueComputeBit | vk.QueueTransferBit, QueueCount: 1},
	}
	r, err := NewDeviceQueueResolver(families, []bool{true}, []QueueRequest{
		{Flags: vk.QueueGraphicsBit, Priority: 1.0},
		{Flags: vk.QueueGraphicsBit, Priority: 0.2},
	})
	if err != nil {
		t.Fatalf("NewDeviceQueueResolver: %v", err)
	}

	if r.assignments[0].basedOn != -1 {
		t.Error("first request should own the only queue")
	}
	if r.assignments[1].basedOn != 0 {
		t.Errorf("second request basedOn = %d, want 0", r.assignments[1].basedOn)
	}
	if r.assignments[1].queueIndex != r.assignments[0].queueIndex {
		t.Error("aliased request must reuse the queue index")
	}

	infos := r.DeviceQueueCreateInfos()
	if len(infos) != 1 || infos[0].QueueCount != 1 {
		t.Errorf("create infos = %d entries, first count %d; want 1 family with 1 queue", len(infos), infos[0].QueueCount)
	}
}

func TestResolverFailsWithoutCapability(t *testing.T) {
	families := []vk.QueueFamilyProperties{
		{QueueFlags: vk.QueueTransferBit, QueueCount: 1},
	}
	if _, err := NewDeviceQueueResolver(families, nil, []QueueRequest{
		{Flags: vk.QueueGraphicsBit, Priority: 1.0},
	}); err == nil {
		t.Error("resolver accepted an unsatisfiable request")
	}
}
