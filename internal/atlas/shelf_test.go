// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package atlas

import (
	"math/rand"
	"testing"
)

func TestShelfFirstPlacementPadded(t *testing.T) {
	s := NewShelf(128, 2)
	x, y, ok := s.Reserve(10, 10)
	if !ok {
		t.Fatal("first placement failed")
	}
	if x != 2 || y != 2 {
		t.Errorf("placement = (%d, %d), want (2, 2)", x, y)
	}
}

func TestShelfRowAdvance(t *testing.T) {
	s := NewShelf(64, 1)

	// Fill the first row with 18-wide items (a 19-texel stride with the
	// padding) until one no longer fits.
	var lastY int
	for i := 0; i < 3; i++ {
		_, y, ok := s.Reserve(18, 10)
		if !ok {
			t.Fatalf("placement %d failed", i)
		}
		lastY = y
	}
	_, y, ok := s.Reserve(18, 10)
	if !ok {
		t.Fatal("row-advance placement failed")
	}
	if y <= lastY {
		t.Errorf("new row y = %d, want > %d", y, lastY)
	}
}

func TestShelfRejectsOversized(t *testing.T) {
	s := NewShelf(64, 1)
	if _, _, ok := s.Reserve(100, 10); ok {
		t.Error("accepted rectangle wider than atlas")
	}
	if _, _, ok := s.Reserve(10, 100); ok {
		t.Error("accepted rectangle taller than atlas")
	}
}

func TestShelfFillsUpEventually(t *testing.T) {
	s := NewShelf(128, 1)
	placed := 0
	for {
		if _, _, ok := s.Reserve(16, 16); !ok {
			break
		}
		placed++
		if placed > 10000 {
			t.Fatal("atlas never filled")
		}
	}
	if placed == 0 {
		t.Fatal("nothing placed")
	}
	// 7 items of padded width 17 fit per 128-wide row, 7 rows.
	if placed < 40 {
		t.Errorf("placed only %d items", placed)
	}
}

func TestShelfNoOverlap(t *testing.T) {
	s := NewShelf(256, 2)
	rng := rand.New(rand.NewSource(7))

	type rect struct{ x, y, w, h int }
	var rects []rect

	for i := 0; i < 500; i++ {
		w := rng.Intn(30) + 1
		h := rng.Intn(30) + 1
		x, y, ok := s.Reserve(w, h)
		if !ok {
			continue
		}
		if x < 0 || y < 0 || x+w > 256 || y+h > 256 {
			t.Fatalf("rect (%d,%d,%d,%d) out of bounds", x, y, w, h)
		}
		for _, r := range rects {
			if x < r.x+r.w && r.x < x+w && y < r.y+r.h && r.y < y+h {
				t.Fatalf("rect (%d,%d,%d,%d) overlaps (%d,%d,%d,%d)", x, y, w, h, r.x, r.y, r.w, r.h)
			}
		}
		rects = append(rects, rect{x, y, w, h})
	}
}

func TestShelfReset(t *testing.T) {
	s := NewShelf(64, 1)
	if _, _, ok := s.Reserve(32, 32); !ok {
		t.Fatal("placement failed")
	}
	s.Reset()
	x, y, ok := s.Reserve(32, 32)
	if !ok || x != 1 || y != 1 {
		t.Errorf("after Reset placement = (%d, %d, %v), want (1, 1, true)", x, y, ok)
	}
	if s.Utilization() <= 0 {
		t.Error("utilization not tracked after reset")
	}
}
