// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vgfx

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/vgfx/internal/gpu/memory"
	"github.com/gogpu/vgfx/internal/vk"
)

// SamplerFilter selects texel filtering.
type SamplerFilter int

// Sampler filters.
const (
	SamplerFilterNearest SamplerFilter = iota
	SamplerFilterLinear
)

// SamplerMipmapMode selects mip level filtering.
type SamplerMipmapMode int

// Mipmap modes.
const (
	SamplerMipmapModeNearest SamplerMipmapMode = iota
	SamplerMipmapModeLinear
)

// SamplerAddressMode selects how out-of-range UVs resolve.
type SamplerAddressMode int

// Address modes.
const (
	SamplerAddressModeRepeat SamplerAddressMode = iota
	SamplerAddressModeMirroredRepeat
	SamplerAddressModeClampToEdge
	SamplerAddressModeClampToBorder
)

// SamplerCreateInfo configures a sampler.
type SamplerCreateInfo struct {
	MinFilter  SamplerFilter
	MagFilter  SamplerFilter
	MipmapMode SamplerMipmapMode

	AddressModeU SamplerAddressMode
	AddressModeV SamplerAddressMode

	// BorderColor is used by the UV border color shader variants and by
	// ClampToBorder addressing.
	BorderColor mgl32.Vec4

	AnisotropyEnable bool
	MaxAnisotropy    float32

	MipLodBias float32
	MinLod     float32
	MaxLod     float32
}

// DefaultSamplerCreateInfo returns linear filtering with repeat
// addressing and the full mip range.
func DefaultSamplerCreateInfo() SamplerCreateInfo {
	return SamplerCreateInfo{
		MinFilter:        SamplerFilterLinear,
		MagFilter:        SamplerFilterLinear,
		MipmapMode:       SamplerMipmapModeLinear,
		AddressModeU:     SamplerAddressModeRepeat,
		AddressModeV:     SamplerAddressModeRepeat,
		BorderColor:      mgl32.Vec4{0, 0, 0, 0},
		AnisotropyEnable: true,
		MaxAnisotropy:    0, // device maximum
		MaxLod:           float32(math.Inf(1)),
	}
}

// Sampler is a texture sampler plus the small uniform buffer carrying its
// shader-visible data (border color).
type Sampler struct {
	inst   *Instance
	info   SamplerCreateInfo
	handle vk.Sampler
	data   memory.CompleteBuffer
}

func samplerFilterToVk(f SamplerFilter) vk.Filter {
	if f == SamplerFilterNearest {
		return vk.FilterNearest
	}
	return vk.FilterLinear
}

func samplerMipmapModeToVk(m SamplerMipmapMode) vk.SamplerMipmapMode {
	if m == SamplerMipmapModeNearest {
		return vk.SamplerMipmapModeNearest
	}
	return vk.SamplerMipmapModeLinear
}

func samplerAddressModeToVk(m SamplerAddressMode) vk.SamplerAddressMode {
	switch m {
	case SamplerAddressModeMirroredRepeat:
		return vk.SamplerAddressModeMirroredRepeat
	case SamplerAddressModeClampToEdge:
		return vk.SamplerAddressModeClampToEdge
	case SamplerAddressModeClampToBorder:
		return vk.SamplerAddressModeClampToBorder
	default:
		return vk.SamplerAddressModeRepeat
	}
}

// CreateSampler creates a sampler. Main thread only.
func (i *Instance) CreateSampler(info SamplerCreateInfo) (*Sampler, error) {
	i.assertCreatorThread("CreateSampler")
	dev := i.dev

	maxAnisotropy := info.MaxAnisotropy
	if maxAnisotropy <= 0 {
		maxAnisotropy = dev.Properties.Limits.MaxSamplerAnisotropy
	}
	anisotropy := vk.False
	if info.AnisotropyEnable && dev.Features.SamplerAnisotropy == vk.True {
		anisotropy = vk.True
	}

	maxLod := info.MaxLod
	if math.IsInf(float64(maxLod), 1) {
		maxLod = 1000 // VK_LOD_CLAMP_NONE
	}

	createInfo := vk.SamplerCreateInfo{
		SType:            vk.StructureTypeSamplerCreateInfo,
		MagFilter:        samplerFilterToVk(info.MagFilter),
		MinFilter:        samplerFilterToVk(info.MinFilter),
		MipmapMode:       samplerMipmapModeToVk(info.MipmapMode),
		AddressModeU:     samplerAddressModeToVk(info.AddressModeU),
		AddressModeV:     samplerAddressModeToVk(info.AddressModeV),
		AddressModeW:     vk.SamplerAddressModeRepeat,
		MipLodBias:       info.MipLodBias,
		AnisotropyEnable: anisotropy,
		MaxAnisotropy:    maxAnisotropy,
		MinLod:           info.MinLod,
		MaxLod:           maxLod,
		BorderColor:      vk.BorderColorFloatTransparentBlack,
	}

	var handle vk.Sampler
	if result := dev.Cmds.CreateSampler(dev.Handle, &createInfo, nil, &handle); result != vk.Success {
		return nil, fmt.Errorf("vgfx: vkCreateSampler failed: %d", result)
	}

	// Shader-visible sampler data.
	borderBytes := unsafe.Slice((*byte)(unsafe.Pointer(&info.BorderColor)), 16)
	data, err := dev.Memory.CreateCompleteHostBufferWithData(borderBytes, vk.BufferUsageUniformBufferBit)
	if err != nil {
		dev.Cmds.DestroySampler(dev.Handle, handle, nil)
		return nil, err
	}

	s := &Sampler{inst: i, info: info, handle: handle, data: data}
	i.samplers = append(i.samplers, s)
	return s, nil
}

// DestroySampler destroys a sampler. Main thread only; the device must not
// be using the sampler anymore.
func (i *Instance) DestroySampler(s *Sampler) {
	i.assertCreatorThread("DestroySampler")
	if s == nil {
		return
	}

	for idx, other := range i.samplers {
		if other == s {
			i.samplers = append(i.samplers[:idx], i.samplers[idx+1:]...)
			break
		}
	}

	dev := i.dev
	if s.handle != 0 {
		dev.Cmds.DestroySampler(dev.Handle, s.handle, nil)
		s.handle = 0
	}
	dev.Memory.DestroyCompleteBuffer(&s.data)
}
