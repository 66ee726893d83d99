// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vgfx

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// apply maps a coordinate through the scaling the way the vertex shader
// does.
func apply(s CoordinateSpace, w, h uint32, p mgl32.Vec2) mgl32.Vec2 {
	sc := coordinateScaling(s, w, h)
	return mgl32.Vec2{
		p[0]*sc.Multiplier[0] + sc.Offset[0],
		p[1]*sc.Multiplier[1] + sc.Offset[1],
	}
}

func vecNear(a, b mgl32.Vec2) bool {
	const eps = 1e-5
	d := a.Sub(b)
	return d[0] < eps && d[0] > -eps && d[1] < eps && d[1] > -eps
}

func TestTexelSpaceCorners(t *testing.T) {
	if got := apply(TexelSpace, 800, 600, mgl32.Vec2{0, 0}); !vecNear(got, mgl32.Vec2{-1, -1}) {
		t.Errorf("origin maps to %v, want top-left clip corner", got)
	}
	if got := apply(TexelSpace, 800, 600, mgl32.Vec2{800, 600}); !vecNear(got, mgl32.Vec2{1, 1}) {
		t.Errorf("window extent maps to %v, want bottom-right clip corner", got)
	}
}

func TestTexelSpaceCenteredOrigin(t *testing.T) {
	if got := apply(TexelSpaceCentered, 800, 600, mgl32.Vec2{0, 0}); !vecNear(got, mgl32.Vec2{0, 0}) {
		t.Errorf("origin maps to %v, want clip center", got)
	}
	if got := apply(TexelSpaceCentered, 800, 600, mgl32.Vec2{400, 300}); !vecNear(got, mgl32.Vec2{1, 1}) {
		t.Errorf("half extent maps to %v, want clip corner", got)
	}
}

func TestNormalizedSpace(t *testing.T) {
	if got := apply(NormalizedSpace, 1024, 768, mgl32.Vec2{0.5, 0.5}); !vecNear(got, mgl32.Vec2{0, 0}) {
		t.Errorf("(0.5, 0.5) maps to %v, want clip center", got)
	}
}

func TestNormalizedSpaceCenteredAspect(t *testing.T) {
	// 800x600: the shorter (vertical) side spans [-1, 1].
	if got := apply(NormalizedSpaceCentered, 800, 600, mgl32.Vec2{0, 1}); !vecNear(got, mgl32.Vec2{0, 1}) {
		t.Errorf("vertical unit maps to %v, want clip edge", got)
	}
	got := apply(NormalizedSpaceCentered, 800, 600, mgl32.Vec2{1, 0})
	want := mgl32.Vec2{600.0 / 800.0, 0}
	if !vecNear(got, want) {
		t.Errorf("horizontal unit maps to %v, want %v", got, want)
	}
}

func TestLinearSpacePassThrough(t *testing.T) {
	p := mgl32.Vec2{-0.25, 0.75}
	if got := apply(LinearSpace, 123, 456, p); !vecNear(got, p) {
		t.Errorf("linear space altered the coordinate: %v", got)
	}
}

func TestCoordinateScalingZeroSize(t *testing.T) {
	// Degenerate surfaces must not divide by zero.
	sc := coordinateScaling(TexelSpace, 0, 0)
	if sc.Multiplier[0] != 2 || sc.Multiplier[1] != 2 {
		t.Errorf("zero size scaling = %v", sc)
	}
}
