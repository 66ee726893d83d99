// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package memory

import (
	"fmt"

	"github.com/gogpu/vgfx/internal/vk"
)

// CompleteBuffer is a buffer backed with unique non-aliased pool memory.
type CompleteBuffer struct {
	Buffer vk.Buffer
	Memory *PoolMemory
}

// CompleteImage is an image, its view and its backing pool memory.
type CompleteImage struct {
	Image  vk.Image
	View   vk.ImageView
	Memory *PoolMemory
}

// CreateCompleteBuffer creates a buffer, allocates memory for it and binds
// the two as one transaction. On any failure all partial resources are
// destroyed and nothing is leaked.
func (p *Pool) CreateCompleteBuffer(createInfo *vk.BufferCreateInfo, propertyFlags vk.MemoryPropertyFlags) (CompleteBuffer, error) {
	var buffer vk.Buffer
	if result := p.cmds.CreateBuffer(p.device, createInfo, nil, &buffer); result != vk.Success {
		return CompleteBuffer{}, fmt.Errorf("memory: vkCreateBuffer failed: %d", result)
	}

	mem, err := p.AllocateAndBindBufferMemory(buffer, propertyFlags)
	if err != nil {
		p.cmds.DestroyBuffer(p.device, buffer, nil)
		return CompleteBuffer{}, err
	}

	return CompleteBuffer{Buffer: buffer, Memory: mem}, nil
}

// CreateCompleteHostBufferWithData creates a host-visible buffer and fills
// it with data.
func (p *Pool) CreateCompleteHostBufferWithData(data []byte, usage vk.BufferUsageFlags) (CompleteBuffer, error) {
	createInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        uint64(len(data)),
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}
	buf, err := p.CreateCompleteBuffer(&createInfo,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
	if err != nil {
		return CompleteBuffer{}, err
	}
	if err := buf.Memory.DataCopy(data); err != nil {
		p.DestroyCompleteBuffer(&buf)
		return CompleteBuffer{}, err
	}
	return buf, nil
}

// DestroyCompleteBuffer destroys the buffer and frees its memory.
func (p *Pool) DestroyCompleteBuffer(buf *CompleteBuffer) {
	if buf.Buffer != 0 {
		p.cmds.DestroyBuffer(p.device, buf.Buffer, nil)
		buf.Buffer = 0
	}
	if buf.Memory != nil {
		p.Free(buf.Memory)
		buf.Memory = nil
	}
}

// CreateCompleteImage creates an image, allocates and binds memory and
// optionally creates a view, as one transaction. viewInfo may be nil; its
// Image field is filled in by this function. On any failure all partial
// resources are destroyed.
func (p *Pool) CreateCompleteImage(createInfo *vk.ImageCreateInfo, propertyFlags vk.MemoryPropertyFlags, viewInfo *vk.ImageViewCreateInfo) (CompleteImage, error) {
	var image vk.Image
	if result := p.cmds.CreateImage(p.device, createInfo, nil, &image); result != vk.Success {
		return CompleteImage{}, fmt.Errorf("memory: vkCreateImage failed: %d", result)
	}

	mem, err := p.AllocateAndBindImageMemory(image, createInfo.Tiling, propertyFlags)
	if err != nil {
		p.cmds.DestroyImage(p.device, image, nil)
		return CompleteImage{}, err
	}

	var view vk.ImageView
	if viewInfo != nil {
		viewInfo.Image = image
		if result := p.cmds.CreateImageView(p.device, viewInfo, nil, &view); result != vk.Success {
			p.Free(mem)
			p.cmds.DestroyImage(p.device, image, nil)
			return CompleteImage{}, fmt.Errorf("memory: vkCreateImageView failed: %d", result)
		}
	}

	return CompleteImage{Image: image, View: view, Memory: mem}, nil
}

// DestroyCompleteImage destroys the view, the image and frees the memory.
func (p *Pool) DestroyCompleteImage(img *CompleteImage) {
	if img.View != 0 {
		p.cmds.DestroyImageView(p.device, img.View, nil)
		img.View = 0
	}
	if img.Image != 0 {
		p.cmds.DestroyImage(p.device, img.Image, nil)
		img.Image = 0
	}
	if img.Memory != nil {
		p.Free(img.Memory)
		img.Memory = nil
	}
}
