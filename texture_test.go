// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vgfx

import "testing"

func TestMipLevelCount(t *testing.T) {
	tests := []struct {
		name string
		w, h uint32
		want uint32
	}{
		{"256x256", 256, 256, 9},
		{"256x64", 256, 64, 9},
		{"1x1", 1, 1, 1},
		{"2x1", 2, 1, 2},
		{"1920x1080", 1920, 1080, 11},
		{"npot 100x30", 100, 30, 7},
		{"degenerate 0x0", 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mipLevelCount(tt.w, tt.h); got != tt.want {
				t.Errorf("mipLevelCount(%d, %d) = %d, want %d", tt.w, tt.h, got, tt.want)
			}
		})
	}
}

func TestMipChainClampsToOne(t *testing.T) {
	// Walk a 256x64 chain the way the blit recorder does and verify both
	// extents clamp at 1 while the level count is honored.
	w, h := int32(256), int32(64)
	levels := mipLevelCount(uint32(w), uint32(h))
	for mip := uint32(1); mip < levels; mip++ {
		w /= 2
		if w < 1 {
			w = 1
		}
		h /= 2
		if h < 1 {
			h = 1
		}
	}
	if w != 1 || h != 1 {
		t.Errorf("final mip extent = %dx%d, want 1x1", w, h)
	}
}
