// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package memory

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/gogpu/vgfx/internal/vk"
)

// Default chunk sizes. Linear chunks hold buffers and linear images,
// non-linear chunks hold optimally tiled images.
const (
	DefaultLinearChunkSize    = 64 << 20  // 64 MB
	DefaultNonLinearChunkSize = 256 << 20 // 256 MB
)

var (
	// ErrNoSuitableMemoryType indicates no memory type matches requirements.
	ErrNoSuitableMemoryType = errors.New("memory: no suitable memory type")

	// ErrAllocationFailed indicates Vulkan memory allocation failed.
	ErrAllocationFailed = errors.New("memory: allocation failed")

	// ErrOutOfDeviceMemory is reported verbatim when the driver returns
	// VK_ERROR_OUT_OF_DEVICE_MEMORY.
	ErrOutOfDeviceMemory = errors.New("memory: VK_ERROR_OUT_OF_DEVICE_MEMORY")

	// ErrNotHostVisible indicates a map attempt on non-host-visible memory.
	ErrNotHostVisible = errors.New("memory: memory is not host visible")
)

// chunk is a single VkDeviceMemory allocation carved into blocks.
type chunk struct {
	id     uint64
	memory vk.DeviceMemory
	size   uint64
	blocks blockList
}

// PoolConfig configures a Pool.
type PoolConfig struct {
	// LinearChunkSize is the default chunk size for buffers and linear
	// images. Default: 64 MB.
	LinearChunkSize uint64

	// NonLinearChunkSize is the default chunk size for optimally tiled
	// images. Default: 256 MB.
	NonLinearChunkSize uint64
}

// DefaultPoolConfig returns sensible default configuration.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		LinearChunkSize:    DefaultLinearChunkSize,
		NonLinearChunkSize: DefaultNonLinearChunkSize,
	}
}

// Pool sub-allocates device memory from per-memory-type chunk lists.
//
// Thread-safe. Free is the sole deallocation entry.
type Pool struct {
	mu sync.Mutex

	device vk.Device
	cmds   *vk.Commands

	limits   vk.PhysicalDeviceLimits
	memProps vk.PhysicalDeviceMemoryProperties
	config   PoolConfig

	// Chunk lists indexed by memory type. Optimally tiled images go to
	// nonLinearChunks, everything else to linearChunks.
	linearChunks    [][]*chunk
	nonLinearChunks [][]*chunk

	chunkIDCounter uint64
}

// PoolMemory is a single allocation handed out by the pool.
type PoolMemory struct {
	Memory    vk.DeviceMemory
	Offset    uint64
	Size      uint64
	Alignment uint64

	pool            *Pool
	chunkID         uint64
	blockID         uint64
	memoryTypeIndex uint32
	linear          bool
	allocated       bool
}

// NewPool creates a device memory pool.
func NewPool(device vk.Device, cmds *vk.Commands, limits vk.PhysicalDeviceLimits, memProps vk.PhysicalDeviceMemoryProperties, config PoolConfig) (*Pool, error) {
	if config.LinearChunkSize == 0 {
		config.LinearChunkSize = DefaultLinearChunkSize
	}
	if config.NonLinearChunkSize == 0 {
		config.NonLinearChunkSize = DefaultNonLinearChunkSize
	}
	if memProps.MemoryTypeCount == 0 {
		return nil, fmt.Errorf("memory: device reports no memory types")
	}

	n := int(memProps.MemoryTypeCount)
	return &Pool{
		device:          device,
		cmds:            cmds,
		limits:          limits,
		memProps:        memProps,
		config:          config,
		linearChunks:    make([][]*chunk, n),
		nonLinearChunks: make([][]*chunk, n),
	}, nil
}

// findMemoryTypeIndex picks the first memory type allowed by typeBits whose
// property flags contain all requested flags.
func findMemoryTypeIndex(memProps *vk.PhysicalDeviceMemoryProperties, typeBits uint32, propertyFlags vk.MemoryPropertyFlags) (uint32, bool) {
	for i := uint32(0); i < memProps.MemoryTypeCount; i++ {
		if typeBits&(1<<i) == 0 {
			continue
		}
		if memProps.MemoryTypes[i].PropertyFlags&propertyFlags == propertyFlags {
			return i, true
		}
	}
	return 0, false
}

// AllocateBufferMemory allocates memory satisfying the buffer's requirements.
func (p *Pool) AllocateBufferMemory(buffer vk.Buffer, propertyFlags vk.MemoryPropertyFlags) (*PoolMemory, error) {
	var reqs vk.MemoryRequirements
	p.cmds.GetBufferMemoryRequirements(p.device, buffer, &reqs)
	return p.allocate(reqs, propertyFlags, true)
}

// AllocateImageMemory allocates memory satisfying the image's requirements.
// Optimally tiled images are placed in the non-linear chunk lists.
func (p *Pool) AllocateImageMemory(image vk.Image, tiling vk.ImageTiling, propertyFlags vk.MemoryPropertyFlags) (*PoolMemory, error) {
	var reqs vk.MemoryRequirements
	p.cmds.GetImageMemoryRequirements(p.device, image, &reqs)
	return p.allocate(reqs, propertyFlags, tiling != vk.ImageTilingOptimal)
}

// AllocateAndBindBufferMemory allocates and binds in one step. On bind
// failure the allocation is freed and the error reported.
func (p *Pool) AllocateAndBindBufferMemory(buffer vk.Buffer, propertyFlags vk.MemoryPropertyFlags) (*PoolMemory, error) {
	mem, err := p.AllocateBufferMemory(buffer, propertyFlags)
	if err != nil {
		return nil, err
	}
	if result := p.cmds.BindBufferMemory(p.device, buffer, mem.Memory, mem.Offset); result != vk.Success {
		p.Free(mem)
		return nil, fmt.Errorf("memory: vkBindBufferMemory failed: %d", result)
	}
	return mem, nil
}

// AllocateAndBindImageMemory allocates and binds in one step. On bind
// failure the allocation is freed and the error reported.
func (p *Pool) AllocateAndBindImageMemory(image vk.Image, tiling vk.ImageTiling, propertyFlags vk.MemoryPropertyFlags) (*PoolMemory, error) {
	mem, err := p.AllocateImageMemory(image, tiling, propertyFlags)
	if err != nil {
		return nil, err
	}
	if result := p.cmds.BindImageMemory(p.device, image, mem.Memory, mem.Offset); result != vk.Success {
		p.Free(mem)
		return nil, fmt.Errorf("memory: vkBindImageMemory failed: %d", result)
	}
	return mem, nil
}

func (p *Pool) allocate(reqs vk.MemoryRequirements, propertyFlags vk.MemoryPropertyFlags, linear bool) (*PoolMemory, error) {
	typeIndex, ok := findMemoryTypeIndex(&p.memProps, reqs.MemoryTypeBits, propertyFlags)
	if !ok {
		return nil, ErrNoSuitableMemoryType
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	chunks := &p.linearChunks[typeIndex]
	defaultSize := p.config.LinearChunkSize
	if !linear {
		chunks = &p.nonLinearChunks[typeIndex]
		defaultSize = p.config.NonLinearChunkSize
	}

	// First fit across existing chunks.
	for _, ch := range *chunks {
		if b, ok := ch.blocks.insert(reqs.Size, reqs.Alignment); ok {
			return p.makePoolMemory(ch, b, typeIndex, linear), nil
		}
	}

	// No chunk can serve the request; allocate a new one sized to at least
	// the request, rounded up to bufferImageGranularity.
	chunkSize := defaultSize
	if reqs.Size > chunkSize {
		chunkSize = reqs.Size
	}
	granularity := p.limits.BufferImageGranularity
	if granularity == 0 {
		granularity = 1
	}
	chunkSize = alignUp(chunkSize, granularity)

	ch, err := p.allocateChunk(chunkSize, typeIndex)
	if err != nil {
		return nil, err
	}
	*chunks = append(*chunks, ch)

	b, ok := ch.blocks.insert(reqs.Size, reqs.Alignment)
	if !ok {
		// A fresh chunk at least as large as the request always fits it.
		return nil, fmt.Errorf("memory: internal error: fresh chunk cannot hold %d bytes", reqs.Size)
	}
	return p.makePoolMemory(ch, b, typeIndex, linear), nil
}

func (p *Pool) makePoolMemory(ch *chunk, b block, typeIndex uint32, linear bool) *PoolMemory {
	return &PoolMemory{
		Memory:          ch.memory,
		Offset:          b.offset,
		Size:            b.size,
		Alignment:       b.alignment,
		pool:            p,
		chunkID:         ch.id,
		blockID:         b.id,
		memoryTypeIndex: typeIndex,
		linear:          linear,
		allocated:       true,
	}
}

func (p *Pool) allocateChunk(size uint64, typeIndex uint32) (*chunk, error) {
	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  size,
		MemoryTypeIndex: typeIndex,
	}
	var mem vk.DeviceMemory
	result := p.cmds.AllocateMemory(p.device, &allocInfo, nil, &mem)
	switch result {
	case vk.Success:
	case vk.ErrorOutOfDeviceMemory:
		return nil, fmt.Errorf("%w (%d bytes, type %d)", ErrOutOfDeviceMemory, size, typeIndex)
	default:
		return nil, fmt.Errorf("%w: vkAllocateMemory returned %d", ErrAllocationFailed, result)
	}

	p.chunkIDCounter++
	return &chunk{
		id:     p.chunkIDCounter,
		memory: mem,
		size:   size,
		blocks: newBlockList(size),
	}, nil
}

// Free returns an allocation to the pool. A chunk left with only its
// sentinel blocks is destroyed immediately. Freeing foreign or already
// freed memory is a programmer error.
func (p *Pool) Free(mem *PoolMemory) {
	if mem == nil || !mem.allocated {
		panic("memory: Free of nil or already freed PoolMemory")
	}
	if mem.pool != p {
		panic("memory: Free of PoolMemory from another pool")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	chunks := &p.linearChunks[mem.memoryTypeIndex]
	if !mem.linear {
		chunks = &p.nonLinearChunks[mem.memoryTypeIndex]
	}

	for i, ch := range *chunks {
		if ch.id != mem.chunkID {
			continue
		}
		if !ch.blocks.remove(mem.blockID) {
			panic("memory: Free of unknown block")
		}
		mem.allocated = false
		if ch.blocks.empty() {
			p.cmds.FreeMemory(p.device, ch.memory, nil)
			*chunks = append((*chunks)[:i], (*chunks)[i+1:]...)
		}
		return
	}
	panic("memory: Free of unknown chunk")
}

// HostVisible reports whether the allocation's memory type is host visible.
func (m *PoolMemory) HostVisible() bool {
	flags := m.pool.memProps.MemoryTypes[m.memoryTypeIndex].PropertyFlags
	return flags&vk.MemoryPropertyHostVisibleBit != 0
}

// Map maps the allocation and returns its bytes. Only valid for host
// visible memory.
func (m *PoolMemory) Map() ([]byte, error) {
	if !m.HostVisible() {
		return nil, ErrNotHostVisible
	}
	var ptr unsafe.Pointer
	result := m.pool.cmds.MapMemory(m.pool.device, m.Memory, m.Offset, m.Size, 0, &ptr)
	if result != vk.Success {
		return nil, fmt.Errorf("memory: vkMapMemory failed: %d", result)
	}
	return unsafe.Slice((*byte)(ptr), m.Size), nil
}

// Unmap unmaps previously mapped memory.
func (m *PoolMemory) Unmap() {
	m.pool.cmds.UnmapMemory(m.pool.device, m.Memory)
}

// DataCopy maps the allocation, copies data into it and unmaps.
func (m *PoolMemory) DataCopy(data []byte) error {
	if uint64(len(data)) > m.Size {
		return fmt.Errorf("memory: data (%d bytes) exceeds allocation (%d bytes)", len(data), m.Size)
	}
	mapped, err := m.Map()
	if err != nil {
		return err
	}
	copy(mapped, data)
	m.Unmap()
	return nil
}

// Destroy frees every chunk. Outstanding allocations become invalid; call
// only after the device is idle.
func (p *Pool) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, lists := range [][][]*chunk{p.linearChunks, p.nonLinearChunks} {
		for _, chunks := range lists {
			for _, ch := range chunks {
				p.cmds.FreeMemory(p.device, ch.memory, nil)
			}
		}
	}
	for i := range p.linearChunks {
		p.linearChunks[i] = nil
	}
	for i := range p.nonLinearChunks {
		p.nonLinearChunks[i] = nil
	}
}
