// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vgfx

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func rect(minX, minY, maxX, maxY float32) AABB {
	return AABB{Min: mgl32.Vec2{minX, minY}, Max: mgl32.Vec2{maxX, maxY}}
}

func coordsOf(m *Mesh) []mgl32.Vec2 {
	out := make([]mgl32.Vec2, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = v.Coords
	}
	return out
}

func TestTranslateRoundTrip(t *testing.T) {
	m := NewRectangleMesh(rect(10, 20, 110, 220), true)
	before := coordsOf(m)

	v := mgl32.Vec2{12.5, -3.25}
	m.Translate(v)
	m.Translate(mgl32.Vec2{-v[0], -v[1]})

	if diff := cmp.Diff(before, coordsOf(m), cmpopts.EquateApprox(0, 1e-4)); diff != "" {
		t.Errorf("translate round trip changed vertices:\n%s", diff)
	}
}

func TestRotateRoundTrip(t *testing.T) {
	m := NewEllipseMesh(rect(0, 0, 64, 32), true, 24)
	before := coordsOf(m)

	origin := mgl32.Vec2{32, 16}
	const angle = 1.234
	m.Rotate(angle, origin)
	m.Rotate(-angle, origin)

	if diff := cmp.Diff(before, coordsOf(m), cmpopts.EquateApprox(0, 1e-3)); diff != "" {
		t.Errorf("rotate round trip changed vertices:\n%s", diff)
	}
}

func TestSetVertexColorKeepsAABB(t *testing.T) {
	m := NewRectangleMesh(rect(5, 5, 25, 45), true)
	before := m.AABB

	m.SetVertexColor(mgl32.Vec4{0.5, 0.25, 0.125, 1})
	m.RecalculateAABBFromVertices()

	if m.AABB != before {
		t.Errorf("AABB changed from %v to %v", before, m.AABB)
	}
}

func TestRectangleMeshShape(t *testing.T) {
	area := rect(0, 0, 100, 50)
	m := NewRectangleMesh(area, true)

	if len(m.Vertices) != 4 {
		t.Fatalf("vertices = %d, want 4", len(m.Vertices))
	}
	if len(m.Indices) != 6 {
		t.Fatalf("indices = %d, want 6", len(m.Indices))
	}
	if m.AABB != area {
		t.Errorf("AABB = %v, want %v", m.AABB, area)
	}
	for _, v := range m.Vertices {
		if v.UVs[0] < 0 || v.UVs[0] > 1 || v.UVs[1] < 0 || v.UVs[1] > 1 {
			t.Errorf("UV %v out of [0,1]", v.UVs)
		}
	}
}

func TestEllipseMeshStaysInsideArea(t *testing.T) {
	area := rect(-10, -20, 30, 60)
	m := NewEllipseMesh(area, true, 32)

	for _, v := range m.Vertices {
		if v.Coords[0] < area.Min[0]-1e-3 || v.Coords[0] > area.Max[0]+1e-3 ||
			v.Coords[1] < area.Min[1]-1e-3 || v.Coords[1] > area.Max[1]+1e-3 {
			t.Errorf("vertex %v outside %v", v.Coords, area)
		}
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			t.Fatalf("index %d out of range (%d vertices)", idx, len(m.Vertices))
		}
	}
}

func TestEllipsePieCoverageExtremes(t *testing.T) {
	area := rect(0, 0, 10, 10)

	full := NewEllipsePieMesh(area, 0, 1.0, true, 16)
	ellipse := NewEllipseMesh(area, true, 16)
	if len(full.Vertices) != len(ellipse.Vertices) {
		t.Errorf("coverage 1 pie has %d vertices, ellipse has %d", len(full.Vertices), len(ellipse.Vertices))
	}

	empty := NewEllipsePieMesh(area, 0, 0, true, 16)
	if len(empty.Indices) != 0 {
		t.Errorf("coverage 0 pie has %d indices, want 0", len(empty.Indices))
	}
}

func TestEllipsePieHalfCoverage(t *testing.T) {
	area := rect(-10, -10, 10, 10)
	m := NewEllipsePieMesh(area, 0, 0.5, true, 32)

	// All rim vertices of a half pie starting at angle 0 lie in the lower
	// half plane (y >= 0 in screen coordinates) within tolerance.
	for _, v := range m.Vertices[1:] {
		if v.Coords[1] < -1e-3 {
			t.Errorf("half-pie rim vertex %v above the begin edge", v.Coords)
		}
	}
}

func TestRectanglePieFullCoverageIsRectangle(t *testing.T) {
	area := rect(0, 0, 8, 4)
	m := NewRectanglePieMesh(area, 0, 1.0, true)
	if len(m.Vertices) != 4 || len(m.Indices) != 6 {
		t.Errorf("full-coverage pie = %d vertices, %d indices; want rectangle 4/6", len(m.Vertices), len(m.Indices))
	}
}

func TestLatticeMeshGrid(t *testing.T) {
	area := rect(0, 0, 10, 10)
	m := NewLatticeMesh(area, mgl32.Vec2{2, 3}, true)

	wantVertices := (2 + 2) * (3 + 2)
	if len(m.Vertices) != wantVertices {
		t.Errorf("vertices = %d, want %d", len(m.Vertices), wantVertices)
	}
	wantIndices := (2 + 1) * (3 + 1) * 6
	if len(m.Indices) != wantIndices {
		t.Errorf("indices = %d, want %d", len(m.Indices), wantIndices)
	}
}

func TestPointMeshFromList(t *testing.T) {
	pts := []mgl32.Vec2{{0, 0}, {5, 5}, {-3, 7}}
	m := NewPointMeshFromList(pts)
	if m.Type != MeshTypePoint {
		t.Error("wrong mesh type")
	}
	if len(m.Vertices) != 3 || len(m.Indices) != 3 {
		t.Fatalf("got %d vertices, %d indices", len(m.Vertices), len(m.Indices))
	}
	if m.AABB.Min[0] != -3 || m.AABB.Max[1] != 7 {
		t.Errorf("AABB = %v", m.AABB)
	}
}

func TestRotatePreservesDistances(t *testing.T) {
	m := NewRectangleMesh(rect(0, 0, 3, 4), true)
	origin := mgl32.Vec2{1, 1}
	before := coordsOf(m)

	m.Rotate(math.Pi/3, origin)

	for i, v := range m.Vertices {
		d0 := before[i].Sub(origin).Len()
		d1 := v.Coords.Sub(origin).Len()
		if math.Abs(float64(d0-d1)) > 1e-4 {
			t.Errorf("vertex %d distance changed from %v to %v", i, d0, d1)
		}
	}
}
