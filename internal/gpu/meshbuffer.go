// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/vgfx/internal/gpu/memory"
	"github.com/gogpu/vgfx/internal/vk"
)

// Default minimum block sizes per family.
const (
	DefaultIndexBlockSize  = 512 << 10 // 512 KiB
	DefaultVertexBlockSize = 2 << 20   // 2 MiB
	DefaultWeightBlockSize = 256 << 10 // 256 KiB
)

// MeshBufferConfig sets the minimum block sizes of the three families.
type MeshBufferConfig struct {
	IndexBlockSize  uint64
	VertexBlockSize uint64
	WeightBlockSize uint64
}

// DefaultMeshBufferConfig returns the default block sizes.
func DefaultMeshBufferConfig() MeshBufferConfig {
	return MeshBufferConfig{
		IndexBlockSize:  DefaultIndexBlockSize,
		VertexBlockSize: DefaultVertexBlockSize,
		WeightBlockSize: DefaultWeightBlockSize,
	}
}

// MeshOffsets locates one pushed mesh inside the currently bound blocks.
// All offsets are in element units, ready for the push constant block.
type MeshOffsets struct {
	IndexOffset  uint32
	IndexCount   uint32
	VertexOffset uint32
	WeightOffset uint32
	WeightCount  uint32
}

// blockAccountant tracks used space across the blocks of one family. It is
// pure bookkeeping so block selection is unit-testable without a device.
type blockAccountant struct {
	minSize uint64
	sizes   []uint64
	used    []uint64
}

// reserve finds the first block with room for n bytes, creating a new
// block account of max(n, minSize) when none fits. It returns the block
// index, the byte offset inside the block and whether a block must be
// created.
func (a *blockAccountant) reserve(n uint64) (idx int, offset uint64, created bool) {
	for i := range a.sizes {
		if a.sizes[i]-a.used[i] >= n {
			offset = a.used[i]
			a.used[i] += n
			return i, offset, false
		}
	}
	size := a.minSize
	if n > size {
		size = n
	}
	a.sizes = append(a.sizes, size)
	a.used = append(a.used, n)
	return len(a.sizes) - 1, 0, true
}

// resetUsed clears the used size of every block, keeping the blocks.
func (a *blockAccountant) resetUsed() {
	for i := range a.used {
		a.used[i] = 0
	}
}

// meshBlock is a host-staging + device buffer pair of one family plus the
// descriptor set exposing the device buffer as a storage buffer.
type meshBlock struct {
	staging memory.CompleteBuffer
	device  memory.CompleteBuffer
	size    uint64
	host    []byte
	set     PoolSet
}

// meshFamily is one of the three block families.
type meshFamily struct {
	accountant blockAccountant
	blocks     []*meshBlock
	usage      vk.BufferUsageFlags
	layout     *SetLayout
	setIndex   uint32
	bound      *meshBlock
}

// MeshBuffer streams indices, vertices and texture layer weights into
// host-visible staging blocks and records the device-side copies.
//
// Not thread-safe; one mesh buffer exists per window or render target and
// is driven from the recording thread.
type MeshBuffer struct {
	dev      *Device
	autoPool *AutoPool

	index  meshFamily
	vertex meshFamily
	weight meshFamily
}

// NewMeshBuffer creates an empty mesh buffer. Blocks appear lazily on the
// first push that needs them.
func NewMeshBuffer(dev *Device, autoPool *AutoPool, config MeshBufferConfig) *MeshBuffer {
	if config.IndexBlockSize == 0 {
		config.IndexBlockSize = DefaultIndexBlockSize
	}
	if config.VertexBlockSize == 0 {
		config.VertexBlockSize = DefaultVertexBlockSize
	}
	if config.WeightBlockSize == 0 {
		config.WeightBlockSize = DefaultWeightBlockSize
	}

	return &MeshBuffer{
		dev:      dev,
		autoPool: autoPool,
		index: meshFamily{
			accountant: blockAccountant{minSize: config.IndexBlockSize},
			usage:      vk.BufferUsageIndexBufferBit | vk.BufferUsageStorageBufferBit,
			layout:     dev.Layouts.StorageBuffer,
			setIndex:   SetIndexBuffer,
		},
		vertex: meshFamily{
			accountant: blockAccountant{minSize: config.VertexBlockSize},
			usage:      vk.BufferUsageStorageBufferBit,
			layout:     dev.Layouts.StorageBuffer,
			setIndex:   SetVertexBuffer,
		},
		weight: meshFamily{
			accountant: blockAccountant{minSize: config.WeightBlockSize},
			usage:      vk.BufferUsageStorageBufferBit,
			layout:     dev.Layouts.StorageBuffer,
			setIndex:   SetTextureWeights,
		},
	}
}

// reserve places n bytes in the family, creating the GPU block when the
// accountant opened a new one.
func (m *MeshBuffer) reserve(f *meshFamily, n uint64) (*meshBlock, uint64, error) {
	idx, offset, created := f.accountant.reserve(n)
	if created {
		blk, err := m.createBlock(f, f.accountant.sizes[idx])
		if err != nil {
			// Roll the accountant back so bookkeeping matches reality.
			f.accountant.sizes = f.accountant.sizes[:idx]
			f.accountant.used = f.accountant.used[:idx]
			return nil, 0, err
		}
		f.blocks = append(f.blocks, blk)
	}
	return f.blocks[idx], offset, nil
}

func (m *MeshBuffer) createBlock(f *meshFamily, size uint64) (*meshBlock, error) {
	stagingInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       vk.BufferUsageTransferSrcBit,
		SharingMode: vk.SharingModeExclusive,
	}
	staging, err := m.dev.Memory.CreateCompleteBuffer(&stagingInfo,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
	if err != nil {
		return nil, fmt.Errorf("gpu: mesh buffer staging block: %w", err)
	}

	deviceInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       vk.BufferUsageTransferDstBit | f.usage,
		SharingMode: vk.SharingModeExclusive,
	}
	device, err := m.dev.Memory.CreateCompleteBuffer(&deviceInfo, vk.MemoryPropertyDeviceLocalBit)
	if err != nil {
		m.dev.Memory.DestroyCompleteBuffer(&staging)
		return nil, fmt.Errorf("gpu: mesh buffer device block: %w", err)
	}

	set, err := m.autoPool.Allocate(f.layout)
	if err != nil {
		m.dev.Memory.DestroyCompleteBuffer(&device)
		m.dev.Memory.DestroyCompleteBuffer(&staging)
		return nil, fmt.Errorf("gpu: mesh buffer descriptor set: %w", err)
	}

	bufferInfo := vk.DescriptorBufferInfo{
		Buffer: device.Buffer,
		Offset: 0,
		Range:  vk.WholeSize,
	}
	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          set.Set,
		DstBinding:      0,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeStorageBuffer,
		PBufferInfo:     &bufferInfo,
	}
	m.dev.Cmds.UpdateDescriptorSets(m.dev.Handle, 1, &write, 0, nil)

	return &meshBlock{
		staging: staging,
		device:  device,
		size:    size,
		host:    make([]byte, 0, size),
		set:     set,
	}, nil
}

// bindFamily records the rebinds needed when the family's active block
// changed since the previous draw.
func (m *MeshBuffer) bindFamily(cb vk.CommandBuffer, f *meshFamily, blk *meshBlock) {
	if f.bound == blk {
		return
	}
	f.bound = blk
	set := blk.set.Set
	m.dev.Cmds.CmdBindDescriptorSets(cb, vk.PipelineBindPointGraphics,
		m.dev.GraphicsPipelineLayout, f.setIndex, 1, &set, 0, nil)
	if f.setIndex == SetIndexBuffer {
		m.dev.Cmds.CmdBindIndexBuffer(cb, blk.device.Buffer, 0, vk.IndexTypeUint32)
	}
}

// PushMesh reserves room for the mesh in each family, appends the host
// data and records descriptor/index-buffer rebinds when the active block
// of a family changed. The returned offsets go into the push constants of
// the draw.
func (m *MeshBuffer) PushMesh(cb vk.CommandBuffer, indices []uint32, vertices []Vertex, weights []float32) (MeshOffsets, error) {
	if len(indices) == 0 || len(vertices) == 0 {
		return MeshOffsets{}, fmt.Errorf("gpu: push of empty mesh")
	}

	indexBytes := uint64(len(indices)) * 4
	vertexBytes := uint64(len(vertices)) * VertexSize
	weightBytes := uint64(len(weights)) * 4

	indexBlock, indexOffset, err := m.reserve(&m.index, indexBytes)
	if err != nil {
		return MeshOffsets{}, err
	}
	vertexBlock, vertexOffset, err := m.reserve(&m.vertex, vertexBytes)
	if err != nil {
		return MeshOffsets{}, err
	}

	var weightBlock *meshBlock
	var weightOffset uint64
	if weightBytes > 0 {
		weightBlock, weightOffset, err = m.reserve(&m.weight, weightBytes)
		if err != nil {
			return MeshOffsets{}, err
		}
	}

	m.bindFamily(cb, &m.index, indexBlock)
	m.bindFamily(cb, &m.vertex, vertexBlock)
	if weightBlock != nil {
		m.bindFamily(cb, &m.weight, weightBlock)
	}

	indexBlock.host = append(indexBlock.host, unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), indexBytes)...)
	vertexBlock.host = append(vertexBlock.host, unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), vertexBytes)...)
	if weightBlock != nil {
		weightBlock.host = append(weightBlock.host, unsafe.Slice((*byte)(unsafe.Pointer(&weights[0])), weightBytes)...)
	}

	return MeshOffsets{
		IndexOffset:  uint32(indexOffset / 4),
		IndexCount:   uint32(len(indices)),
		VertexOffset: uint32(vertexOffset / VertexSize),
		WeightOffset: uint32(weightOffset / 4),
		WeightCount:  uint32(len(weights)),
	}, nil
}

// UploadToGPU copies every block's appended host bytes into its staging
// buffer and records the staging to device copies, then clears the used
// sizes and the binding bookkeeping for the next frame.
func (m *MeshBuffer) UploadToGPU(cb vk.CommandBuffer) error {
	for _, f := range []*meshFamily{&m.index, &m.vertex, &m.weight} {
		for i, blk := range f.blocks {
			used := f.accountant.used[i]
			if used == 0 {
				continue
			}
			if uint64(len(blk.host)) != used {
				return fmt.Errorf("gpu: mesh buffer block host bytes (%d) out of sync with used size (%d)", len(blk.host), used)
			}
			if err := blk.staging.Memory.DataCopy(blk.host); err != nil {
				return err
			}
			region := vk.BufferCopy{Size: used}
			m.dev.Cmds.CmdCopyBuffer(cb, blk.staging.Buffer, blk.device.Buffer, 1, &region)
			blk.host = blk.host[:0]
		}
		f.accountant.resetUsed()
		f.bound = nil
	}
	return nil
}

// Destroy frees every block of every family.
func (m *MeshBuffer) Destroy() {
	for _, f := range []*meshFamily{&m.index, &m.vertex, &m.weight} {
		for _, blk := range f.blocks {
			m.autoPool.Free(blk.set)
			m.dev.Memory.DestroyCompleteBuffer(&blk.device)
			m.dev.Memory.DestroyCompleteBuffer(&blk.staging)
		}
		f.blocks = nil
		f.accountant.sizes = nil
		f.accountant.used = nil
		f.bound = nil
	}
}
