// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package memory

// block is a single virtual allocation inside a chunk.
type block struct {
	id        uint64
	offset    uint64
	size      uint64
	alignment uint64
}

// blockList keeps the blocks of one chunk sorted by offset. Two sentinel
// blocks, one at offset 0 and one at offset capacity (both zero sized),
// bracket the list so gap search between adjacent entries covers the whole
// chunk without special cases. Sentinels use id 0; real blocks start at 1.
type blockList struct {
	capacity  uint64
	blocks    []block
	idCounter uint64
}

func newBlockList(capacity uint64) blockList {
	return blockList{
		capacity: capacity,
		blocks: []block{
			{id: 0, offset: 0, size: 0, alignment: 1},
			{id: 0, offset: capacity, size: 0, alignment: 1},
		},
	}
}

// alignUp rounds v up to the next multiple of alignment.
// alignment must be non-zero.
func alignUp(v, alignment uint64) uint64 {
	rem := v % alignment
	if rem == 0 {
		return v
	}
	return v + alignment - rem
}

// insert finds the first gap between adjacent blocks that can hold an
// aligned allocation of the given size and inserts a new block there.
// Reports false if no gap fits.
func (l *blockList) insert(size, alignment uint64) (block, bool) {
	if alignment == 0 {
		alignment = 1
	}
	for i := 0; i+1 < len(l.blocks); i++ {
		gapBegin := l.blocks[i].offset + l.blocks[i].size
		gapEnd := l.blocks[i+1].offset
		start := alignUp(gapBegin, alignment)
		if start >= gapEnd || gapEnd-start < size {
			continue
		}
		l.idCounter++
		b := block{
			id:        l.idCounter,
			offset:    start,
			size:      size,
			alignment: alignment,
		}
		l.blocks = append(l.blocks, block{})
		copy(l.blocks[i+2:], l.blocks[i+1:])
		l.blocks[i+1] = b
		return b, true
	}
	return block{}, false
}

// remove deletes the block with the given id. Sentinels cannot be removed.
func (l *blockList) remove(id uint64) bool {
	if id == 0 {
		return false
	}
	for i := 1; i+1 < len(l.blocks); i++ {
		if l.blocks[i].id == id {
			l.blocks = append(l.blocks[:i], l.blocks[i+1:]...)
			return true
		}
	}
	return false
}

// empty reports whether only the sentinels remain.
func (l *blockList) empty() bool {
	return len(l.blocks) == 2
}

// userCount returns the number of non-sentinel blocks.
func (l *blockList) userCount() int {
	return len(l.blocks) - 2
}
