// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vgfx

import (
	"math"
	"math/bits"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestEstimateAtlasSizePowerOfTwo(t *testing.T) {
	occ := make([][2]float64, 400)
	for i := range occ {
		occ[i] = [2]float64{24, 28}
	}
	size := estimateAtlasSize(occ, 4, 16384)
	if bits.OnesCount32(size) != 1 {
		t.Errorf("atlas size %d is not a power of two", size)
	}
	if size < 128 {
		t.Errorf("atlas size %d below the 128 floor", size)
	}
}

func TestEstimateAtlasSizeClamps(t *testing.T) {
	if size := estimateAtlasSize(nil, 4, 16384); size != 128 {
		t.Errorf("empty estimate = %d, want 128", size)
	}

	// Thousands of enormous glyphs cannot exceed the device limit.
	occ := make([][2]float64, 5000)
	for i := range occ {
		occ[i] = [2]float64{512, 512}
	}
	if size := estimateAtlasSize(occ, 4, 4096); size > 4096 {
		t.Errorf("estimate %d exceeds device maximum", size)
	}
}

func TestEstimateAtlasSizeGrowsWithCount(t *testing.T) {
	small := make([][2]float64, 16)
	large := make([][2]float64, 4096)
	for i := range small {
		small[i] = [2]float64{20, 24}
	}
	for i := range large {
		large[i] = [2]float64{20, 24}
	}
	if estimateAtlasSize(large, 4, 16384) < estimateAtlasSize(small, 4, 16384) {
		t.Error("more glyphs should never shrink the estimate")
	}
}

// testFont builds a font resource with a hand-made face covering a-z, A-Z
// with uniform metrics; glyph 0 is the fallback.
func testFont(advance float32) *FontResource {
	f := &FontResource{atlasSize: 256}
	face := fontFace{charMap: make(map[rune]uint32)}

	addGlyph := func(r rune) {
		idx := uint32(len(face.glyphs))
		face.glyphs = append(face.glyphs, GlyphInfo{
			AtlasIndex: 0,
			UVCoords: AABB{
				Min: mgl32.Vec2{0.25, 0.25},
				Max: mgl32.Vec2{0.50, 0.50},
			},
			HorizontalCoords: AABB{
				Min: mgl32.Vec2{1, -20},
				Max: mgl32.Vec2{17, 4},
			},
			HorizontalAdvance: advance,
			VerticalAdvance:   24,
		})
		face.charMap[r] = idx
	}

	addGlyph('?')
	for r := 'a'; r <= 'z'; r++ {
		addGlyph(r)
	}
	for r := 'A'; r <= 'Z'; r++ {
		addGlyph(r)
	}
	face.fallbackGlyph = 0

	f.faces = []fontFace{face}
	return f
}

func TestNewTextMeshShape(t *testing.T) {
	f := testFont(18)
	m := NewTextMesh(f, mgl32.Vec2{0, 0}, "abcABC")

	if got := len(m.Vertices); got != 24 {
		t.Errorf("vertices = %d, want 24 (6 chars x 4)", got)
	}
	if got := len(m.Indices); got != 36 {
		t.Errorf("indices = %d, want 36 (6 chars x 6)", got)
	}
	for _, v := range m.Vertices {
		if v.UVs[0] < 0 || v.UVs[0] > 1 || v.UVs[1] < 0 || v.UVs[1] > 1 {
			t.Errorf("UV %v out of [0,1]", v.UVs)
		}
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestNewTextMeshAdvances(t *testing.T) {
	const advance = 18.0
	f := testFont(advance)
	m := NewTextMesh(f, mgl32.Vec2{0, 0}, "abcABC")

	// The sum of advances positions the last glyph's pen; its right edge
	// is pen + glyph max x. The mesh AABB must agree within one texel.
	wantRight := float32(5*advance) + f.faces[0].glyphs[1].HorizontalCoords.Max[0]
	if math.Abs(float64(m.AABB.Max[0]-wantRight)) > 1 {
		t.Errorf("text right edge = %v, want %v within 1 texel", m.AABB.Max[0], wantRight)
	}
}

func TestNewTextMeshFallback(t *testing.T) {
	f := testFont(18)
	m := NewTextMesh(f, mgl32.Vec2{0, 0}, "aüb") // ü is unmapped

	// The fallback glyph substitutes; every character still emits a quad.
	if got := len(m.Vertices); got != 12 {
		t.Errorf("vertices = %d, want 12", got)
	}
}

func TestGlyphInfoFallback(t *testing.T) {
	f := testFont(18)

	mapped := f.glyphInfo(0, 'a')
	if mapped == nil {
		t.Fatal("mapped character resolved to nil")
	}
	fallback := f.glyphInfo(0, '☃')
	if fallback == nil {
		t.Fatal("unmapped character resolved to nil")
	}
	if fallback != &f.faces[0].glyphs[0] {
		t.Error("unmapped character did not resolve to the fallback glyph")
	}
	if f.glyphInfo(2, 'a') != nil {
		t.Error("out-of-range face index should resolve to nil")
	}
}
