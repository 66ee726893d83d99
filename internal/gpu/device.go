// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/vgfx/internal/gpu/memory"
	"github.com/gogpu/vgfx/internal/vk"
)

// Resolved queue slots, in request order.
const (
	QueuePrimaryRender = iota
	QueueSecondaryRender
	QueuePrimaryCompute
	QueuePrimaryTransfer

	queueRequestCount
)

// Layouts carries the shared descriptor set layouts.
type Layouts struct {
	// FrameData is binding 0: uniform buffer (window frame data, vertex
	// and fragment stages).
	FrameData *SetLayout

	// StorageBuffer is binding 0: storage buffer. Used for the
	// transformation, index, vertex and texture-layer-weight sets.
	StorageBuffer *SetLayout

	// SamplerData is binding 0: sampler, binding 1: uniform buffer with
	// sampler data such as the border color.
	SamplerData *SetLayout

	// Texture is binding 0: sampled image array.
	Texture *SetLayout
}

// Device bundles the chosen physical device, the logical device and every
// shared GPU-side service.
type Device struct {
	Cmds *vk.Commands

	Instance vk.Instance
	Physical vk.PhysicalDevice

	Properties       vk.PhysicalDeviceProperties
	Features         vk.PhysicalDeviceFeatures
	MemoryProperties vk.PhysicalDeviceMemoryProperties
	QueueFamilies    []vk.QueueFamilyProperties

	Handle vk.Device
	Queues [queueRequestCount]*ResolvedQueue

	Memory    *memory.Pool
	Layouts   *Layouts
	Shaders   *ShaderTable
	Pipelines *PipelineCache

	GraphicsPipelineLayout vk.PipelineLayout
	BlurPipelineLayout     vk.PipelineLayout
}

// scorePhysicalDevice rates a device for selection. Discrete GPUs win,
// then integrated, then everything else, with the 2D image limit as a tie
// breaker.
func scorePhysicalDevice(props *vk.PhysicalDeviceProperties) uint64 {
	// The device type occupies the bits above any 32-bit image limit, so the
	// limit can only order devices of the same type.
	var score uint64
	switch props.DeviceType {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		score += 3 << 32
	case vk.PhysicalDeviceTypeIntegratedGpu:
		score += 2 << 32
	case vk.PhysicalDeviceTypeVirtualGpu:
		score += 1 << 32
	}
	score += uint64(props.Limits.MaxImageDimension2D)
	return score
}

// enumeratePhysicalDevices returns all physical devices of the instance.
func enumeratePhysicalDevices(cmds *vk.Commands, instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var count uint32
	if result := cmds.EnumeratePhysicalDevices(instance, &count, nil); result != vk.Success {
		return nil, fmt.Errorf("gpu: vkEnumeratePhysicalDevices failed: %d", result)
	}
	if count == 0 {
		return nil, fmt.Errorf("gpu: no Vulkan capable devices found")
	}
	devices := make([]vk.PhysicalDevice, count)
	if result := cmds.EnumeratePhysicalDevices(instance, &count, &devices[0]); result != vk.Success {
		return nil, fmt.Errorf("gpu: vkEnumeratePhysicalDevices failed: %d", result)
	}
	return devices[:count], nil
}

// queueFamilies returns the family properties of a physical device.
func queueFamilies(cmds *vk.Commands, physical vk.PhysicalDevice) []vk.QueueFamilyProperties {
	var count uint32
	cmds.GetPhysicalDeviceQueueFamilyProperties(physical, &count, nil)
	if count == 0 {
		return nil
	}
	families := make([]vk.QueueFamilyProperties, count)
	cmds.GetPhysicalDeviceQueueFamilyProperties(physical, &count, &families[0])
	return families[:count]
}

// presentSupport probes which families of the device can present to the
// surface. With no surface every entry is false.
func presentSupport(cmds *vk.Commands, physical vk.PhysicalDevice, surface vk.SurfaceKHR, familyCount int) []bool {
	support := make([]bool, familyCount)
	if surface == 0 {
		return support
	}
	for i := range support {
		var supported vk.Bool32
		if cmds.GetPhysicalDeviceSurfaceSupportKHR(physical, uint32(i), surface, &supported) == vk.Success {
			support[i] = supported == vk.True
		}
	}
	return support
}

// hasExtension reports whether the device advertises the extension.
func hasExtension(cmds *vk.Commands, physical vk.PhysicalDevice, name string) bool {
	var count uint32
	if cmds.EnumerateDeviceExtensionProperties(physical, 0, &count, nil) != vk.Success || count == 0 {
		return false
	}
	props := make([]vk.ExtensionProperties, count)
	if cmds.EnumerateDeviceExtensionProperties(physical, 0, &count, &props[0]) != vk.Success {
		return false
	}
	for _, p := range props[:count] {
		if vk.CStringToGo(p.ExtensionName[:]) == name {
			return true
		}
	}
	return false
}

// NewDevice selects the best physical device that can present to the given
// surface, creates the logical device with resolved queues and brings up
// the memory pool, descriptor layouts, shader table and pipeline cache.
func NewDevice(cmds *vk.Commands, instance vk.Instance, surface vk.SurfaceKHR) (*Device, error) {
	physicals, err := enumeratePhysicalDevices(cmds, instance)
	if err != nil {
		return nil, err
	}

	// Score every candidate that carries the swapchain extension and, when
	// a surface was given, at least one present-capable graphics family.
	var (
		best      vk.PhysicalDevice
		bestScore uint64
		found     bool
	)
	for _, candidate := range physicals {
		var props vk.PhysicalDeviceProperties
		cmds.GetPhysicalDeviceProperties(candidate, &props)

		if !hasExtension(cmds, candidate, "VK_KHR_swapchain") {
			continue
		}
		families := queueFamilies(cmds, candidate)
		present := presentSupport(cmds, candidate, surface, len(families))
		if surface != 0 {
			usable := false
			for i, fam := range families {
				if fam.QueueFlags&vk.QueueGraphicsBit != 0 && present[i] {
					usable = true
					break
				}
			}
			if !usable {
				continue
			}
		}

		if score := scorePhysicalDevice(&props); !found || score > bestScore {
			best = candidate
			bestScore = score
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("gpu: no physical device is suitable for rendering")
	}

	dev := &Device{
		Cmds:     cmds,
		Instance: instance,
		Physical: best,
	}
	cmds.GetPhysicalDeviceProperties(best, &dev.Properties)
	cmds.GetPhysicalDeviceFeatures(best, &dev.Features)
	cmds.GetPhysicalDeviceMemoryProperties(best, &dev.MemoryProperties)
	dev.QueueFamilies = queueFamilies(cmds, best)
	present := presentSupport(cmds, best, surface, len(dev.QueueFamilies))

	resolver, err := NewDeviceQueueResolver(dev.QueueFamilies, present, []QueueRequest{
		{Flags: vk.QueueGraphicsBit, Priority: 1.0},
		{Flags: vk.QueueGraphicsBit, Priority: 0.2},
		{Flags: vk.QueueComputeBit, Priority: 0.9},
		{Flags: vk.QueueTransferBit, Priority: 0.5},
	})
	if err != nil {
		return nil, err
	}

	// Enable only the optional features the renderer exploits.
	var features vk.PhysicalDeviceFeatures
	features.SamplerAnisotropy = dev.Features.SamplerAnisotropy
	features.FillModeNonSolid = dev.Features.FillModeNonSolid
	features.WideLines = dev.Features.WideLines
	features.LargePoints = dev.Features.LargePoints

	extensions := []string{"VK_KHR_swapchain\x00"}
	extensionPtrs := make([]uintptr, len(extensions))
	for i, ext := range extensions {
		extensionPtrs[i] = uintptr(unsafe.Pointer(unsafe.StringData(ext)))
	}

	queueInfos := resolver.DeviceQueueCreateInfos()
	createInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       &queueInfos[0],
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: uintptr(unsafe.Pointer(&extensionPtrs[0])),
		PEnabledFeatures:        &features,
	}

	var handle vk.Device
	if result := cmds.CreateDevice(best, &createInfo, nil, &handle); result != vk.Success {
		return nil, fmt.Errorf("gpu: vkCreateDevice failed: %d", result)
	}
	dev.Handle = handle

	if err := cmds.LoadDevice(handle); err != nil {
		cmds.DestroyDevice(handle, nil)
		return nil, err
	}

	queues := resolver.GetQueues(cmds, handle)
	copy(dev.Queues[:], queues)

	dev.Memory, err = memory.NewPool(handle, cmds, dev.Properties.Limits, dev.MemoryProperties, memory.DefaultPoolConfig())
	if err != nil {
		dev.Destroy()
		return nil, err
	}

	if err := dev.createLayouts(); err != nil {
		dev.Destroy()
		return nil, err
	}

	dev.Shaders, err = NewShaderTable(cmds, handle)
	if err != nil {
		dev.Destroy()
		return nil, err
	}

	dev.Pipelines, err = NewPipelineCache(cmds, handle, dev.Shaders)
	if err != nil {
		dev.Destroy()
		return nil, err
	}

	return dev, nil
}

// createLayouts builds the shared descriptor set layouts and the pipeline
// layouts of the primary render and blur pipelines.
func (d *Device) createLayouts() error {
	frameData, err := NewSetLayout(d.Cmds, d.Handle, []vk.DescriptorSetLayoutBinding{
		{
			Binding:         0,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageVertexBit | vk.ShaderStageFragmentBit,
		},
	})
	if err != nil {
		return err
	}

	storage, err := NewSetLayout(d.Cmds, d.Handle, []vk.DescriptorSetLayoutBinding{
		{
			Binding:         0,
			DescriptorType:  vk.DescriptorTypeStorageBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageVertexBit | vk.ShaderStageFragmentBit,
		},
	})
	if err != nil {
		return err
	}

	samplerData, err := NewSetLayout(d.Cmds, d.Handle, []vk.DescriptorSetLayoutBinding{
		{
			Binding:         0,
			DescriptorType:  vk.DescriptorTypeSampler,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFragmentBit,
		},
		{
			Binding:         1,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFragmentBit,
		},
	})
	if err != nil {
		return err
	}

	texture, err := NewSetLayout(d.Cmds, d.Handle, []vk.DescriptorSetLayoutBinding{
		{
			Binding:         0,
			DescriptorType:  vk.DescriptorTypeSampledImage,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFragmentBit,
		},
	})
	if err != nil {
		return err
	}

	d.Layouts = &Layouts{
		FrameData:     frameData,
		StorageBuffer: storage,
		SamplerData:   samplerData,
		Texture:       texture,
	}

	graphicsSets := []vk.DescriptorSetLayout{
		frameData.Handle(),   // SetWindowFrameData
		storage.Handle(),     // SetTransformation
		storage.Handle(),     // SetIndexBuffer
		storage.Handle(),     // SetVertexBuffer
		samplerData.Handle(), // SetSampler
		texture.Handle(),     // SetTexture
		storage.Handle(),     // SetTextureWeights
	}
	pushRange := vk.PushConstantRange{
		StageFlags: vk.ShaderStageVertexBit | vk.ShaderStageFragmentBit,
		Size:       PushConstantsSize,
	}
	layoutInfo := vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         uint32(len(graphicsSets)),
		PSetLayouts:            &graphicsSets[0],
		PushConstantRangeCount: 1,
		PPushConstantRanges:    &pushRange,
	}
	if result := d.Cmds.CreatePipelineLayout(d.Handle, &layoutInfo, nil, &d.GraphicsPipelineLayout); result != vk.Success {
		return fmt.Errorf("gpu: vkCreatePipelineLayout (graphics) failed: %d", result)
	}

	blurSets := []vk.DescriptorSetLayout{
		samplerData.Handle(),
		texture.Handle(),
	}
	blurPushRange := vk.PushConstantRange{
		StageFlags: vk.ShaderStageVertexBit | vk.ShaderStageFragmentBit,
		Size:       BlurPushConstantsSize,
	}
	blurInfo := vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         uint32(len(blurSets)),
		PSetLayouts:            &blurSets[0],
		PushConstantRangeCount: 1,
		PPushConstantRanges:    &blurPushRange,
	}
	if result := d.Cmds.CreatePipelineLayout(d.Handle, &blurInfo, nil, &d.BlurPipelineLayout); result != vk.Success {
		return fmt.Errorf("gpu: vkCreatePipelineLayout (blur) failed: %d", result)
	}

	return nil
}

// MaxSupportedMultisampling returns the highest color sample count the
// device's framebuffers support.
func (d *Device) MaxSupportedMultisampling() uint32 {
	counts := supportedSampleCounts(d.Properties.Limits.FramebufferColorSampleCounts)
	if len(counts) == 0 {
		return 1
	}
	return counts[len(counts)-1]
}

// AllSupportedMultisampling lists every supported color sample count in
// ascending order.
func (d *Device) AllSupportedMultisampling() []uint32 {
	return supportedSampleCounts(d.Properties.Limits.FramebufferColorSampleCounts)
}

// supportedSampleCounts expands a sample count bitmask into an ascending
// list.
func supportedSampleCounts(mask vk.SampleCountFlags) []uint32 {
	var counts []uint32
	for s := uint32(1); s <= 64; s <<= 1 {
		if mask&s != 0 {
			counts = append(counts, s)
		}
	}
	return counts
}

// WaitIdle drains the whole device.
func (d *Device) WaitIdle() {
	if d.Handle != 0 {
		_ = d.Cmds.DeviceWaitIdle(d.Handle)
	}
}

// Destroy tears the device and its services down in reverse creation
// order. Callers must ensure the GPU is idle.
func (d *Device) Destroy() {
	if d.Pipelines != nil {
		d.Pipelines.Destroy()
		d.Pipelines = nil
	}
	if d.Shaders != nil {
		d.Shaders.Destroy()
		d.Shaders = nil
	}
	if d.GraphicsPipelineLayout != 0 {
		d.Cmds.DestroyPipelineLayout(d.Handle, d.GraphicsPipelineLayout, nil)
		d.GraphicsPipelineLayout = 0
	}
	if d.BlurPipelineLayout != 0 {
		d.Cmds.DestroyPipelineLayout(d.Handle, d.BlurPipelineLayout, nil)
		d.BlurPipelineLayout = 0
	}
	if d.Layouts != nil {
		d.Layouts.FrameData.Destroy(d.Cmds, d.Handle)
		d.Layouts.StorageBuffer.Destroy(d.Cmds, d.Handle)
		d.Layouts.SamplerData.Destroy(d.Cmds, d.Handle)
		d.Layouts.Texture.Destroy(d.Cmds, d.Handle)
		d.Layouts = nil
	}
	if d.Memory != nil {
		d.Memory.Destroy()
		d.Memory = nil
	}
	if d.Handle != 0 {
		d.Cmds.DestroyDevice(d.Handle, nil)
		d.Handle = 0
	}
}
