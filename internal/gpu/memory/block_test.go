// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package memory

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/gogpu/vgfx/internal/vk"
)

func TestAlignUp(t *testing.T) {
	tests := []struct {
		name      string
		v         uint64
		alignment uint64
		want      uint64
	}{
		{"already aligned", 64, 16, 64},
		{"rounds up", 7, 4, 8},
		{"alignment one", 13, 1, 13},
		{"zero value", 0, 256, 0},
		{"large alignment", 100, 1024, 1024},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := alignUp(tt.v, tt.alignment); got != tt.want {
				t.Errorf("alignUp(%d, %d) = %d, want %d", tt.v, tt.alignment, got, tt.want)
			}
		})
	}
}

func TestBlockListSentinels(t *testing.T) {
	l := newBlockList(1 << 20)
	if !l.empty() {
		t.Fatal("fresh list should be empty")
	}
	if got := len(l.blocks); got != 2 {
		t.Fatalf("fresh list has %d entries, want 2 sentinels", got)
	}
	if l.blocks[0].offset != 0 || l.blocks[1].offset != 1<<20 {
		t.Fatalf("sentinel offsets = %d, %d", l.blocks[0].offset, l.blocks[1].offset)
	}
}

func TestBlockListInsertExactFit(t *testing.T) {
	l := newBlockList(1024)

	b, ok := l.insert(1024, 1)
	if !ok {
		t.Fatal("request equal to capacity should fit")
	}
	if b.offset != 0 {
		t.Errorf("offset = %d, want 0", b.offset)
	}

	// One more byte cannot fit anywhere now.
	if _, ok := l.insert(1, 1); ok {
		t.Error("full list accepted another block")
	}

	if !l.remove(b.id) {
		t.Fatal("remove failed")
	}
	if !l.empty() {
		t.Error("list not empty after removing sole block")
	}
}

func TestBlockListAlignment(t *testing.T) {
	l := newBlockList(4096)

	if _, ok := l.insert(10, 1); !ok {
		t.Fatal("insert failed")
	}
	b, ok := l.insert(100, 256)
	if !ok {
		t.Fatal("aligned insert failed")
	}
	if b.offset%256 != 0 {
		t.Errorf("offset %d not aligned to 256", b.offset)
	}
}

func TestBlockListReusesGaps(t *testing.T) {
	l := newBlockList(1024)

	a, _ := l.insert(256, 1)
	b, _ := l.insert(256, 1)
	c, _ := l.insert(256, 1)
	_ = a
	_ = c

	if !l.remove(b.id) {
		t.Fatal("remove failed")
	}
	d, ok := l.insert(200, 1)
	if !ok {
		t.Fatal("gap insert failed")
	}
	if d.offset != 256 {
		t.Errorf("gap fill offset = %d, want 256 (first fit)", d.offset)
	}
}

// verifyInvariants checks that blocks are sorted, inside the chunk, aligned
// and non-overlapping.
func verifyInvariants(t *testing.T, l *blockList) {
	t.Helper()

	if !sort.SliceIsSorted(l.blocks, func(i, j int) bool {
		return l.blocks[i].offset < l.blocks[j].offset
	}) {
		t.Fatal("blocks are not sorted by offset")
	}

	for i := 1; i+1 < len(l.blocks); i++ {
		b := l.blocks[i]
		if b.offset+b.size > l.capacity {
			t.Fatalf("block %d [%d,%d) exceeds capacity %d", b.id, b.offset, b.offset+b.size, l.capacity)
		}
		if b.offset%b.alignment != 0 {
			t.Fatalf("block %d offset %d not aligned to %d", b.id, b.offset, b.alignment)
		}
		prev := l.blocks[i-1]
		if prev.offset+prev.size > b.offset {
			t.Fatalf("block %d overlaps previous (prev end %d > offset %d)", b.id, prev.offset+prev.size, b.offset)
		}
	}
}

func TestBlockListRandomizedInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	l := newBlockList(1 << 20)

	alignments := []uint64{1, 4, 16, 64, 256, 4096}
	live := make([]uint64, 0, 128)

	for i := 0; i < 5000; i++ {
		if len(live) == 0 || rng.Intn(3) != 0 {
			size := uint64(rng.Intn(8192) + 1)
			alignment := alignments[rng.Intn(len(alignments))]
			if b, ok := l.insert(size, alignment); ok {
				live = append(live, b.id)
			}
		} else {
			idx := rng.Intn(len(live))
			if !l.remove(live[idx]) {
				t.Fatalf("remove of live block %d failed", live[idx])
			}
			live = append(live[:idx], live[idx+1:]...)
		}
		verifyInvariants(t, &l)
	}

	for _, id := range live {
		if !l.remove(id) {
			t.Fatalf("final remove of %d failed", id)
		}
	}
	if !l.empty() {
		t.Error("list not empty after removing all blocks")
	}
}

func TestFindMemoryTypeIndex(t *testing.T) {
	props := &vk.PhysicalDeviceMemoryProperties{MemoryTypeCount: 3}
	props.MemoryTypes[0] = vk.MemoryType{PropertyFlags: vk.MemoryPropertyDeviceLocalBit}
	props.MemoryTypes[1] = vk.MemoryType{PropertyFlags: vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit}
	props.MemoryTypes[2] = vk.MemoryType{PropertyFlags: vk.MemoryPropertyDeviceLocalBit | vk.MemoryPropertyHostVisibleBit}

	tests := []struct {
		name     string
		typeBits uint32
		flags    vk.MemoryPropertyFlags
		want     uint32
		wantOK   bool
	}{
		{"device local", 0b111, vk.MemoryPropertyDeviceLocalBit, 0, true},
		{"host visible coherent", 0b111, vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit, 1, true},
		{"type bits exclude first", 0b110, vk.MemoryPropertyDeviceLocalBit, 2, true},
		{"no match", 0b111, vk.MemoryPropertyHostCachedBit, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := findMemoryTypeIndex(props, tt.typeBits, tt.flags)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("findMemoryTypeIndex() = %d, %v, want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFindMemoryTypeIndexFirstMatchWins(t *testing.T) {
	props := &vk.PhysicalDeviceMemoryProperties{MemoryTypeCount: 2}
	props.MemoryTypes[0] = vk.MemoryType{PropertyFlags: vk.MemoryPropertyDeviceLocalBit}
	props.MemoryTypes[1] = vk.MemoryType{PropertyFlags: vk.MemoryPropertyDeviceLocalBit}

	got, ok := findMemoryTypeIndex(props, 0b11, vk.MemoryPropertyDeviceLocalBit)
	if !ok || got != 0 {
		t.Errorf("findMemoryTypeIndex() = %d, %v, want first match 0", got, ok)
	}
}
