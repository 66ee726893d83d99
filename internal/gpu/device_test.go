// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"testing"
	"unsafe"

	"github.com/gogpu/vgfx/internal/vk"
)

func unsafeSizeof(v Vertex) uintptr {
	return unsafe.Sizeof(v)
}

func TestScorePhysicalDevicePrefersDiscrete(t *testing.T) {
	discrete := &vk.PhysicalDeviceProperties{DeviceType: vk.PhysicalDeviceTypeDiscreteGpu}
	discrete.Limits.MaxImageDimension2D = 4096

	integrated := &vk.PhysicalDeviceProperties{DeviceType: vk.PhysicalDeviceTypeIntegratedGpu}
	integrated.Limits.MaxImageDimension2D = 16384

	if scorePhysicalDevice(discrete) <= scorePhysicalDevice(integrated) {
		t.Error("discrete GPU should outscore integrated regardless of limits")
	}
}

func TestScorePhysicalDeviceLimitTieBreak(t *testing.T) {
	a := &vk.PhysicalDeviceProperties{DeviceType: vk.PhysicalDeviceTypeDiscreteGpu}
	a.Limits.MaxImageDimension2D = 8192
	b := &vk.PhysicalDeviceProperties{DeviceType: vk.PhysicalDeviceTypeDiscreteGpu}
	b.Limits.MaxImageDimension2D = 16384

	if scorePhysicalDevice(b) <= scorePhysicalDevice(a) {
		t.Error("higher 2D limit should break the tie")
	}
}

func TestSupportedSampleCounts(t *testing.T) {
	tests := []struct {
		name string
		mask vk.SampleCountFlags
		want []uint32
	}{
		{"typical desktop", 0x0F, []uint32{1, 2, 4, 8}},
		{"single sample", 0x01, []uint32{1}},
		{"all counts", 0x7F, []uint32{1, 2, 4, 8, 16, 32, 64}},
		{"none", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := supportedSampleCounts(tt.mask)
			if len(got) != len(tt.want) {
				t.Fatalf("supportedSampleCounts(0x%x) = %v, want %v", tt.mask, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("supportedSampleCounts(0x%x) = %v, want %v", tt.mask, got, tt.want)
				}
			}
		})
	}
}
