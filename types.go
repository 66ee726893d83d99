// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vgfx

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/vgfx/internal/gpu"
)

// Vertex is the vertex layout used by every mesh. The struct is handed to
// the GPU as-is; the trailing padding keeps the storage buffer stride.
type Vertex = gpu.Vertex

// ReportSeverity classifies reporter messages.
type ReportSeverity int

// Report severities, from informational to fatal.
const (
	ReportSeverityNone ReportSeverity = iota
	ReportSeverityVerbose
	ReportSeverityInfo
	ReportSeverityPerformanceWarning
	ReportSeverityWarning
	ReportSeverityNonCriticalError
	ReportSeverityCriticalError
	ReportSeverityDeviceLost
)

// String returns the severity name.
func (s ReportSeverity) String() string {
	switch s {
	case ReportSeverityNone:
		return "None"
	case ReportSeverityVerbose:
		return "Verbose"
	case ReportSeverityInfo:
		return "Info"
	case ReportSeverityPerformanceWarning:
		return "PerformanceWarning"
	case ReportSeverityWarning:
		return "Warning"
	case ReportSeverityNonCriticalError:
		return "NonCriticalError"
	case ReportSeverityCriticalError:
		return "CriticalError"
	case ReportSeverityDeviceLost:
		return "DeviceLost"
	default:
		return "Unknown"
	}
}

// CoordinateSpace selects how vertex coordinates map to window pixels.
type CoordinateSpace int

// Coordinate spaces.
const (
	// TexelSpace puts the origin at the top left corner, one unit per
	// texel.
	TexelSpace CoordinateSpace = iota

	// TexelSpaceCentered puts the origin at the window center, one unit
	// per texel.
	TexelSpaceCentered

	// NormalizedSpace maps the window to [0, 1] with the origin at the top
	// left corner.
	NormalizedSpace

	// NormalizedSpaceCentered maps the shorter window side to [-1, 1],
	// keeping the aspect ratio, with the origin at the center.
	NormalizedSpaceCentered

	// LinearSpace passes coordinates through as Vulkan clip space.
	LinearSpace
)

// Multisamples is a per-pixel sample count; one of 1, 2, 4, 8, 16, 32, 64.
type Multisamples uint32

// MeshType selects the primitive topology of a mesh.
type MeshType int

// Mesh types.
const (
	MeshTypeTriangleFilled MeshType = iota
	MeshTypeTriangleWireframe
	MeshTypeLine
	MeshTypePoint
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec2
	Max mgl32.Vec2
}
