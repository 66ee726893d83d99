// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vgfx

import (
	"testing"

	"github.com/gogpu/vgfx/internal/gpu"
	"github.com/gogpu/vgfx/internal/vk"
)

func TestSwapchainImageCountPolicy(t *testing.T) {
	tests := []struct {
		name     string
		vsync    bool
		min, max uint32
		want     uint32
	}{
		{"vsync wants 2", true, 1, 8, 2},
		{"no vsync wants 3", false, 1, 8, 3},
		{"clamped to surface minimum", true, 3, 8, 3},
		{"clamped to surface maximum", false, 1, 2, 2},
		{"unbounded maximum", false, 2, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := swapchainImageCountForVSync(tt.vsync, tt.min, tt.max); got != tt.want {
				t.Errorf("swapchainImageCountForVSync(%v, %d, %d) = %d, want %d",
					tt.vsync, tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestSelectProgram(t *testing.T) {
	tests := []struct {
		name          string
		meshType      MeshType
		multitextured bool
		border        bool
		want          gpu.ProgramID
	}{
		{"plain", MeshTypeTriangleFilled, false, false, gpu.ProgramSingleTextured},
		{"plain border", MeshTypePoint, false, true, gpu.ProgramSingleTexturedUVBorderColor},
		{"multi triangle", MeshTypeTriangleFilled, true, false, gpu.ProgramMultitexturedTriangle},
		{"multi wireframe", MeshTypeTriangleWireframe, true, false, gpu.ProgramMultitexturedTriangle},
		{"multi line", MeshTypeLine, true, false, gpu.ProgramMultitexturedLine},
		{"multi point border", MeshTypePoint, true, true, gpu.ProgramMultitexturedPointUVBorderColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selectProgram(tt.meshType, tt.multitextured, tt.border); got != tt.want {
				t.Errorf("selectProgram(%v, %v, %v) = %v, want %v",
					tt.meshType, tt.multitextured, tt.border, got, tt.want)
			}
		})
	}
}

func TestMeshTypeTopology(t *testing.T) {
	tests := []struct {
		meshType MeshType
		topology vk.PrimitiveTopology
		polygon  vk.PolygonMode
	}{
		{MeshTypeTriangleFilled, vk.PrimitiveTopologyTriangleList, vk.PolygonModeFill},
		{MeshTypeTriangleWireframe, vk.PrimitiveTopologyTriangleList, vk.PolygonModeLine},
		{MeshTypeLine, vk.PrimitiveTopologyLineList, vk.PolygonModeLine},
		{MeshTypePoint, vk.PrimitiveTopologyPointList, vk.PolygonModePoint},
	}
	for _, tt := range tests {
		topology, polygon := meshTypeTopology(tt.meshType)
		if topology != tt.topology || polygon != tt.polygon {
			t.Errorf("meshTypeTopology(%v) = (%v, %v), want (%v, %v)",
				tt.meshType, topology, polygon, tt.topology, tt.polygon)
		}
	}
}
