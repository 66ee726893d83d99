// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vgfx

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/vgfx/internal/gpu"
)

// coordinateScaling computes the multiplier and offset that map vertex
// coordinates in the given space to Vulkan clip space for a width x height
// surface.
func coordinateScaling(space CoordinateSpace, width, height uint32) gpu.CoordinateScaling {
	w := float32(width)
	h := float32(height)
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}

	switch space {
	case TexelSpace:
		return gpu.CoordinateScaling{
			Multiplier: mgl32.Vec2{2 / w, 2 / h},
			Offset:     mgl32.Vec2{-1, -1},
		}
	case TexelSpaceCentered:
		return gpu.CoordinateScaling{
			Multiplier: mgl32.Vec2{2 / w, 2 / h},
			Offset:     mgl32.Vec2{0, 0},
		}
	case NormalizedSpace:
		return gpu.CoordinateScaling{
			Multiplier: mgl32.Vec2{2, 2},
			Offset:     mgl32.Vec2{-1, -1},
		}
	case NormalizedSpaceCentered:
		// The shorter side spans [-1, 1]; the longer side extends past it
		// so aspect ratio is preserved.
		short := w
		if h < short {
			short = h
		}
		return gpu.CoordinateScaling{
			Multiplier: mgl32.Vec2{short / w, short / h},
			Offset:     mgl32.Vec2{0, 0},
		}
	default: // LinearSpace
		return gpu.CoordinateScaling{
			Multiplier: mgl32.Vec2{1, 1},
			Offset:     mgl32.Vec2{0, 0},
		}
	}
}
