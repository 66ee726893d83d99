// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vk

// Typed call wrappers over the loaded function pointers. Every wrapper
// follows the goffi convention: each args[] slot points at the storage of
// the argument value, including pointer arguments (pointer-to-pointer).

import (
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"
)

func callResult(cif *types.CallInterface, fn unsafe.Pointer, args ...unsafe.Pointer) Result {
	if fn == nil {
		return ErrorInitializationFailed
	}
	var r int32
	if err := ffi.CallFunction(cif, fn, unsafe.Pointer(&r), args); err != nil {
		return ErrorInitializationFailed
	}
	return Result(r)
}

func callVoid(cif *types.CallInterface, fn unsafe.Pointer, args ...unsafe.Pointer) {
	if fn == nil {
		return
	}
	_ = ffi.CallFunction(cif, fn, nil, args)
}

// === Instance ===

// CreateInstance wraps vkCreateInstance.
func (c *Commands) CreateInstance(createInfo *InstanceCreateInfo, allocator *AllocationCallbacks, instance *Instance) Result {
	pInfo := unsafe.Pointer(createInfo)
	pAlloc := unsafe.Pointer(allocator)
	pOut := unsafe.Pointer(instance)
	return callResult(&SigResultPtrPtrPtr, c.createInstance,
		unsafe.Pointer(&pInfo), unsafe.Pointer(&pAlloc), unsafe.Pointer(&pOut))
}

// DestroyInstance wraps vkDestroyInstance.
func (c *Commands) DestroyInstance(instance Instance, allocator *AllocationCallbacks) {
	pAlloc := unsafe.Pointer(allocator)
	callVoid(&SigVoidHandlePtr, c.destroyInstance,
		unsafe.Pointer(&instance), unsafe.Pointer(&pAlloc))
}

// EnumeratePhysicalDevices wraps vkEnumeratePhysicalDevices.
func (c *Commands) EnumeratePhysicalDevices(instance Instance, count *uint32, devices *PhysicalDevice) Result {
	pCount := unsafe.Pointer(count)
	pDevices := unsafe.Pointer(devices)
	return callResult(&SigResultHandlePtrPtr, c.enumeratePhysicalDevices,
		unsafe.Pointer(&instance), unsafe.Pointer(&pCount), unsafe.Pointer(&pDevices))
}

// GetPhysicalDeviceProperties wraps vkGetPhysicalDeviceProperties.
func (c *Commands) GetPhysicalDeviceProperties(device PhysicalDevice, props *PhysicalDeviceProperties) {
	pProps := unsafe.Pointer(props)
	callVoid(&SigVoidHandlePtr, c.getPhysicalDeviceProperties,
		unsafe.Pointer(&device), unsafe.Pointer(&pProps))
}

// GetPhysicalDeviceFeatures wraps vkGetPhysicalDeviceFeatures.
func (c *Commands) GetPhysicalDeviceFeatures(device PhysicalDevice, features *PhysicalDeviceFeatures) {
	pFeatures := unsafe.Pointer(features)
	callVoid(&SigVoidHandlePtr, c.getPhysicalDeviceFeatures,
		unsafe.Pointer(&device), unsafe.Pointer(&pFeatures))
}

// GetPhysicalDeviceQueueFamilyProperties wraps vkGetPhysicalDeviceQueueFamilyProperties.
func (c *Commands) GetPhysicalDeviceQueueFamilyProperties(device PhysicalDevice, count *uint32, props *QueueFamilyProperties) {
	pCount := unsafe.Pointer(count)
	pProps := unsafe.Pointer(props)
	callVoid(&SigVoidHandlePtrPtr, c.getPhysicalDeviceQueueFamilyProperties,
		unsafe.Pointer(&device), unsafe.Pointer(&pCount), unsafe.Pointer(&pProps))
}

// GetPhysicalDeviceMemoryProperties wraps vkGetPhysicalDeviceMemoryProperties.
func (c *Commands) GetPhysicalDeviceMemoryProperties(device PhysicalDevice, props *PhysicalDeviceMemoryProperties) {
	pProps := unsafe.Pointer(props)
	callVoid(&SigVoidHandlePtr, c.getPhysicalDeviceMemoryProperties,
		unsafe.Pointer(&device), unsafe.Pointer(&pProps))
}

// CreateDevice wraps vkCreateDevice.
func (c *Commands) CreateDevice(physicalDevice PhysicalDevice, createInfo *DeviceCreateInfo, allocator *AllocationCallbacks, device *Device) Result {
	pInfo := unsafe.Pointer(createInfo)
	pAlloc := unsafe.Pointer(allocator)
	pOut := unsafe.Pointer(device)
	return callResult(&SigResultHandlePtrPtrPtr, c.createDevice,
		unsafe.Pointer(&physicalDevice), unsafe.Pointer(&pInfo), unsafe.Pointer(&pAlloc), unsafe.Pointer(&pOut))
}

// EnumerateDeviceExtensionProperties wraps vkEnumerateDeviceExtensionProperties.
func (c *Commands) EnumerateDeviceExtensionProperties(device PhysicalDevice, layerName uintptr, count *uint32, props *ExtensionProperties) Result {
	pLayer := unsafe.Pointer(layerName)
	pCount := unsafe.Pointer(count)
	pProps := unsafe.Pointer(props)
	return callResult(&SigResultHandlePtrPtrPtr, c.enumerateDeviceExtensionProperties,
		unsafe.Pointer(&device), unsafe.Pointer(&pLayer), unsafe.Pointer(&pCount), unsafe.Pointer(&pProps))
}

// DestroyDevice wraps vkDestroyDevice.
func (c *Commands) DestroyDevice(device Device, allocator *AllocationCallbacks) {
	pAlloc := unsafe.Pointer(allocator)
	callVoid(&SigVoidHandlePtr, c.destroyDevice,
		unsafe.Pointer(&device), unsafe.Pointer(&pAlloc))
}

// === Surface / swapchain (WSI) ===

// DestroySurfaceKHR wraps vkDestroySurfaceKHR.
func (c *Commands) DestroySurfaceKHR(instance Instance, surface SurfaceKHR, allocator *AllocationCallbacks) {
	pAlloc := unsafe.Pointer(allocator)
	callVoid(&SigVoidHandleHandlePtr, c.destroySurfaceKHR,
		unsafe.Pointer(&instance), unsafe.Pointer(&surface), unsafe.Pointer(&pAlloc))
}

// GetPhysicalDeviceSurfaceSupportKHR wraps vkGetPhysicalDeviceSurfaceSupportKHR.
func (c *Commands) GetPhysicalDeviceSurfaceSupportKHR(device PhysicalDevice, queueFamilyIndex uint32, surface SurfaceKHR, supported *Bool32) Result {
	pSupported := unsafe.Pointer(supported)
	return callResult(&SigResultHandleU32HandlePtr, c.getPhysicalDeviceSurfaceSupportKHR,
		unsafe.Pointer(&device), unsafe.Pointer(&queueFamilyIndex), unsafe.Pointer(&surface), unsafe.Pointer(&pSupported))
}

// GetPhysicalDeviceSurfaceCapabilitiesKHR wraps vkGetPhysicalDeviceSurfaceCapabilitiesKHR.
func (c *Commands) GetPhysicalDeviceSurfaceCapabilitiesKHR(device PhysicalDevice, surface SurfaceKHR, caps *SurfaceCapabilitiesKHR) Result {
	pCaps := unsafe.Pointer(caps)
	return callResult(&SigResultHandleHandlePtr, c.getPhysicalDeviceSurfaceCapabilitiesKHR,
		unsafe.Pointer(&device), unsafe.Pointer(&surface), unsafe.Pointer(&pCaps))
}

// GetPhysicalDeviceSurfaceFormatsKHR wraps vkGetPhysicalDeviceSurfaceFormatsKHR.
func (c *Commands) GetPhysicalDeviceSurfaceFormatsKHR(device PhysicalDevice, surface SurfaceKHR, count *uint32, formats *SurfaceFormatKHR) Result {
	pCount := unsafe.Pointer(count)
	pFormats := unsafe.Pointer(formats)
	return callResult(&SigResultHandleHandlePtrPtr, c.getPhysicalDeviceSurfaceFormatsKHR,
		unsafe.Pointer(&device), unsafe.Pointer(&surface), unsafe.Pointer(&pCount), unsafe.Pointer(&pFormats))
}

// GetPhysicalDeviceSurfacePresentModesKHR wraps vkGetPhysicalDeviceSurfacePresentModesKHR.
func (c *Commands) GetPhysicalDeviceSurfacePresentModesKHR(device PhysicalDevice, surface SurfaceKHR, count *uint32, modes *PresentModeKHR) Result {
	pCount := unsafe.Pointer(count)
	pModes := unsafe.Pointer(modes)
	return callResult(&SigResultHandleHandlePtrPtr, c.getPhysicalDeviceSurfacePresentModesKHR,
		unsafe.Pointer(&device), unsafe.Pointer(&surface), unsafe.Pointer(&pCount), unsafe.Pointer(&pModes))
}

// CreateSwapchainKHR wraps vkCreateSwapchainKHR.
func (c *Commands) CreateSwapchainKHR(device Device, createInfo *SwapchainCreateInfoKHR, allocator *AllocationCallbacks, swapchain *SwapchainKHR) Result {
	pInfo := unsafe.Pointer(createInfo)
	pAlloc := unsafe.Pointer(allocator)
	pOut := unsafe.Pointer(swapchain)
	return callResult(&SigResultHandlePtrPtrPtr, c.createSwapchainKHR,
		unsafe.Pointer(&device), unsafe.Pointer(&pInfo), unsafe.Pointer(&pAlloc), unsafe.Pointer(&pOut))
}

// DestroySwapchainKHR wraps vkDestroySwapchainKHR.
func (c *Commands) DestroySwapchainKHR(device Device, swapchain SwapchainKHR, allocator *AllocationCallbacks) {
	pAlloc := unsafe.Pointer(allocator)
	callVoid(&SigVoidHandleHandlePtr, c.destroySwapchainKHR,
		unsafe.Pointer(&device), unsafe.Pointer(&swapchain), unsafe.Pointer(&pAlloc))
}

// GetSwapchainImagesKHR wraps vkGetSwapchainImagesKHR.
func (c *Commands) GetSwapchainImagesKHR(device Device, swapchain SwapchainKHR, count *uint32, images *Image) Result {
	pCount := unsafe.Pointer(count)
	pImages := unsafe.Pointer(images)
	return callResult(&SigResultHandleHandlePtrPtr, c.getSwapchainImagesKHR,
		unsafe.Pointer(&device), unsafe.Pointer(&swapchain), unsafe.Pointer(&pCount), unsafe.Pointer(&pImages))
}

// AcquireNextImageKHR wraps vkAcquireNextImageKHR.
func (c *Commands) AcquireNextImageKHR(device Device, swapchain SwapchainKHR, timeout uint64, semaphore Semaphore, fence Fence, imageIndex *uint32) Result {
	pIndex := unsafe.Pointer(imageIndex)
	return callResult(&SigResultAcquireNextImage, c.acquireNextImageKHR,
		unsafe.Pointer(&device), unsafe.Pointer(&swapchain), unsafe.Pointer(&timeout),
		unsafe.Pointer(&semaphore), unsafe.Pointer(&fence), unsafe.Pointer(&pIndex))
}

// QueuePresentKHR wraps vkQueuePresentKHR.
func (c *Commands) QueuePresentKHR(queue Queue, presentInfo *PresentInfoKHR) Result {
	pInfo := unsafe.Pointer(presentInfo)
	return callResult(&SigResultHandlePtr, c.queuePresentKHR,
		unsafe.Pointer(&queue), unsafe.Pointer(&pInfo))
}

// === Queue / device ===

// GetDeviceQueue wraps vkGetDeviceQueue.
func (c *Commands) GetDeviceQueue(device Device, queueFamilyIndex, queueIndex uint32, queue *Queue) {
	pQueue := unsafe.Pointer(queue)
	callVoid(&SigVoidHandleU32U32Ptr, c.getDeviceQueue,
		unsafe.Pointer(&device), unsafe.Pointer(&queueFamilyIndex), unsafe.Pointer(&queueIndex), unsafe.Pointer(&pQueue))
}

// QueueSubmit wraps vkQueueSubmit.
func (c *Commands) QueueSubmit(queue Queue, submitCount uint32, submits *SubmitInfo, fence Fence) Result {
	pSubmits := unsafe.Pointer(submits)
	return callResult(&SigResultHandleU32PtrHandle, c.queueSubmit,
		unsafe.Pointer(&queue), unsafe.Pointer(&submitCount), unsafe.Pointer(&pSubmits), unsafe.Pointer(&fence))
}

// QueueWaitIdle wraps vkQueueWaitIdle.
func (c *Commands) QueueWaitIdle(queue Queue) Result {
	return callResult(&SigResultHandle, c.queueWaitIdle, unsafe.Pointer(&queue))
}

// DeviceWaitIdle wraps vkDeviceWaitIdle.
func (c *Commands) DeviceWaitIdle(device Device) Result {
	return callResult(&SigResultHandle, c.deviceWaitIdle, unsafe.Pointer(&device))
}

// === Memory ===

// AllocateMemory wraps vkAllocateMemory.
func (c *Commands) AllocateMemory(device Device, allocInfo *MemoryAllocateInfo, allocator *AllocationCallbacks, memory *DeviceMemory) Result {
	pInfo := unsafe.Pointer(allocInfo)
	pAlloc := unsafe.Pointer(allocator)
	pOut := unsafe.Pointer(memory)
	return callResult(&SigResultHandlePtrPtrPtr, c.allocateMemory,
		unsafe.Pointer(&device), unsafe.Pointer(&pInfo), unsafe.Pointer(&pAlloc), unsafe.Pointer(&pOut))
}

// FreeMemory wraps vkFreeMemory.
func (c *Commands) FreeMemory(device Device, memory DeviceMemory, allocator *AllocationCallbacks) {
	pAlloc := unsafe.Pointer(allocator)
	callVoid(&SigVoidHandleHandlePtr, c.freeMemory,
		unsafe.Pointer(&device), unsafe.Pointer(&memory), unsafe.Pointer(&pAlloc))
}

// MapMemory wraps vkMapMemory.
func (c *Commands) MapMemory(device Device, memory DeviceMemory, offset, size DeviceSize, flags uint32, data *unsafe.Pointer) Result {
	pData := unsafe.Pointer(data)
	return callResult(&SigResultMapMemory, c.mapMemory,
		unsafe.Pointer(&device), unsafe.Pointer(&memory), unsafe.Pointer(&offset),
		unsafe.Pointer(&size), unsafe.Pointer(&flags), unsafe.Pointer(&pData))
}

// UnmapMemory wraps vkUnmapMemory.
func (c *Commands) UnmapMemory(device Device, memory DeviceMemory) {
	callVoid(&SigVoidHandleHandle, c.unmapMemory,
		unsafe.Pointer(&device), unsafe.Pointer(&memory))
}

// FlushMappedMemoryRanges wraps vkFlushMappedMemoryRanges.
func (c *Commands) FlushMappedMemoryRanges(device Device, rangeCount uint32, ranges *MappedMemoryRange) Result {
	pRanges := unsafe.Pointer(ranges)
	return callResult(&SigResultHandleU32Ptr, c.flushMappedMemoryRanges,
		unsafe.Pointer(&device), unsafe.Pointer(&rangeCount), unsafe.Pointer(&pRanges))
}

// GetBufferMemoryRequirements wraps vkGetBufferMemoryRequirements.
func (c *Commands) GetBufferMemoryRequirements(device Device, buffer Buffer, reqs *MemoryRequirements) {
	pReqs := unsafe.Pointer(reqs)
	callVoid(&SigVoidHandleHandlePtr, c.getBufferMemoryRequirements,
		unsafe.Pointer(&device), unsafe.Pointer(&buffer), unsafe.Pointer(&pReqs))
}

// BindBufferMemory wraps vkBindBufferMemory.
func (c *Commands) BindBufferMemory(device Device, buffer Buffer, memory DeviceMemory, offset DeviceSize) Result {
	return callResult(&SigResultHandle4, c.bindBufferMemory,
		unsafe.Pointer(&device), unsafe.Pointer(&buffer), unsafe.Pointer(&memory), unsafe.Pointer(&offset))
}

// GetImageMemoryRequirements wraps vkGetImageMemoryRequirements.
func (c *Commands) GetImageMemoryRequirements(device Device, image Image, reqs *MemoryRequirements) {
	pReqs := unsafe.Pointer(reqs)
	callVoid(&SigVoidHandleHandlePtr, c.getImageMemoryRequirements,
		unsafe.Pointer(&device), unsafe.Pointer(&image), unsafe.Pointer(&pReqs))
}

// BindImageMemory wraps vkBindImageMemory.
func (c *Commands) BindImageMemory(device Device, image Image, memory DeviceMemory, offset DeviceSize) Result {
	return callResult(&SigResultHandle4, c.bindImageMemory,
		unsafe.Pointer(&device), unsafe.Pointer(&image), unsafe.Pointer(&memory), unsafe.Pointer(&offset))
}

// === Synchronization ===

// CreateFence wraps vkCreateFence.
func (c *Commands) CreateFence(device Device, createInfo *FenceCreateInfo, allocator *AllocationCallbacks, fence *Fence) Result {
	pInfo := unsafe.Pointer(createInfo)
	pAlloc := unsafe.Pointer(allocator)
	pOut := unsafe.Pointer(fence)
	return callResult(&SigResultHandlePtrPtrPtr, c.createFence,
		unsafe.Pointer(&device), unsafe.Pointer(&pInfo), unsafe.Pointer(&pAlloc), unsafe.Pointer(&pOut))
}

// DestroyFence wraps vkDestroyFence.
func (c *Commands) DestroyFence(device Device, fence Fence, allocator *AllocationCallbacks) {
	pAlloc := unsafe.Pointer(allocator)
	callVoid(&SigVoidHandleHandlePtr, c.destroyFence,
		unsafe.Pointer(&device), unsafe.Pointer(&fence), unsafe.Pointer(&pAlloc))
}

// ResetFences wraps vkResetFences.
func (c *Commands) ResetFences(device Device, fenceCount uint32, fences *Fence) Result {
	pFences := unsafe.Pointer(fences)
	return callResult(&SigResultHandleU32Ptr, c.resetFences,
		unsafe.Pointer(&device), unsafe.Pointer(&fenceCount), unsafe.Pointer(&pFences))
}

// GetFenceStatus wraps vkGetFenceStatus.
func (c *Commands) GetFenceStatus(device Device, fence Fence) Result {
	return callResult(&SigResultHandleHandle, c.getFenceStatus,
		unsafe.Pointer(&device), unsafe.Pointer(&fence))
}

// WaitForFences wraps vkWaitForFences.
func (c *Commands) WaitForFences(device Device, fenceCount uint32, fences *Fence, waitAll Bool32, timeout uint64) Result {
	pFences := unsafe.Pointer(fences)
	return callResult(&SigResultWaitForFences, c.waitForFences,
		unsafe.Pointer(&device), unsafe.Pointer(&fenceCount), unsafe.Pointer(&pFences),
		unsafe.Pointer(&waitAll), unsafe.Pointer(&timeout))
}

// CreateSemaphore wraps vkCreateSemaphore.
func (c *Commands) CreateSemaphore(device Device, createInfo *SemaphoreCreateInfo, allocator *AllocationCallbacks, semaphore *Semaphore) Result {
	pInfo := unsafe.Pointer(createInfo)
	pAlloc := unsafe.Pointer(allocator)
	pOut := unsafe.Pointer(semaphore)
	return callResult(&SigResultHandlePtrPtrPtr, c.createSemaphore,
		unsafe.Pointer(&device), unsafe.Pointer(&pInfo), unsafe.Pointer(&pAlloc), unsafe.Pointer(&pOut))
}

// DestroySemaphore wraps vkDestroySemaphore.
func (c *Commands) DestroySemaphore(device Device, semaphore Semaphore, allocator *AllocationCallbacks) {
	pAlloc := unsafe.Pointer(allocator)
	callVoid(&SigVoidHandleHandlePtr, c.destroySemaphore,
		unsafe.Pointer(&device), unsafe.Pointer(&semaphore), unsafe.Pointer(&pAlloc))
}

// === Buffers and images ===

// CreateBuffer wraps vkCreateBuffer.
func (c *Commands) CreateBuffer(device Device, createInfo *BufferCreateInfo, allocator *AllocationCallbacks, buffer *Buffer) Result {
	pInfo := unsafe.Pointer(createInfo)
	pAlloc := unsafe.Pointer(allocator)
	pOut := unsafe.Pointer(buffer)
	return callResult(&SigResultHandlePtrPtrPtr, c.createBuffer,
		unsafe.Pointer(&device), unsafe.Pointer(&pInfo), unsafe.Pointer(&pAlloc), unsafe.Pointer(&pOut))
}

// DestroyBuffer wraps vkDestroyBuffer.
func (c *Commands) DestroyBuffer(device Device, buffer Buffer, allocator *AllocationCallbacks) {
	pAlloc := unsafe.Pointer(allocator)
	callVoid(&SigVoidHandleHandlePtr, c.destroyBuffer,
		unsafe.Pointer(&device), unsafe.Pointer(&buffer), unsafe.Pointer(&pAlloc))
}

// CreateImage wraps vkCreateImage.
func (c *Commands) CreateImage(device Device, createInfo *ImageCreateInfo, allocator *AllocationCallbacks, image *Image) Result {
	pInfo := unsafe.Pointer(createInfo)
	pAlloc := unsafe.Pointer(allocator)
	pOut := unsafe.Pointer(image)
	return callResult(&SigResultHandlePtrPtrPtr, c.createImage,
		unsafe.Pointer(&device), unsafe.Pointer(&pInfo), unsafe.Pointer(&pAlloc), unsafe.Pointer(&pOut))
}

// DestroyImage wraps vkDestroyImage.
func (c *Commands) DestroyImage(device Device, image Image, allocator *AllocationCallbacks) {
	pAlloc := unsafe.Pointer(allocator)
	callVoid(&SigVoidHandleHandlePtr, c.destroyImage,
		unsafe.Pointer(&device), unsafe.Pointer(&image), unsafe.Pointer(&pAlloc))
}

// CreateImageView wraps vkCreateImageView.
func (c *Commands) CreateImageView(device Device, createInfo *ImageViewCreateInfo, allocator *AllocationCallbacks, view *ImageView) Result {
	pInfo := unsafe.Pointer(createInfo)
	pAlloc := unsafe.Pointer(allocator)
	pOut := unsafe.Pointer(view)
	return callResult(&SigResultHandlePtrPtrPtr, c.createImageView,
		unsafe.Pointer(&device), unsafe.Pointer(&pInfo), unsafe.Pointer(&pAlloc), unsafe.Pointer(&pOut))
}

// DestroyImageView wraps vkDestroyImageView.
func (c *Commands) DestroyImageView(device Device, view ImageView, allocator *AllocationCallbacks) {
	pAlloc := unsafe.Pointer(allocator)
	callVoid(&SigVoidHandleHandlePtr, c.destroyImageView,
		unsafe.Pointer(&device), unsafe.Pointer(&view), unsafe.Pointer(&pAlloc))
}

// === Shaders and pipelines ===

// CreateShaderModule wraps vkCreateShaderModule.
func (c *Commands) CreateShaderModule(device Device, createInfo *ShaderModuleCreateInfo, allocator *AllocationCallbacks, module *ShaderModule) Result {
	pInfo := unsafe.Pointer(createInfo)
	pAlloc := unsafe.Pointer(allocator)
	pOut := unsafe.Pointer(module)
	return callResult(&SigResultHandlePtrPtrPtr, c.createShaderModule,
		unsafe.Pointer(&device), unsafe.Pointer(&pInfo), unsafe.Pointer(&pAlloc), unsafe.Pointer(&pOut))
}

// DestroyShaderModule wraps vkDestroyShaderModule.
func (c *Commands) DestroyShaderModule(device Device, module ShaderModule, allocator *AllocationCallbacks) {
	pAlloc := unsafe.Pointer(allocator)
	callVoid(&SigVoidHandleHandlePtr, c.destroyShaderModule,
		unsafe.Pointer(&device), unsafe.Pointer(&module), unsafe.Pointer(&pAlloc))
}

// CreatePipelineCache wraps vkCreatePipelineCache.
func (c *Commands) CreatePipelineCache(device Device, createInfo *PipelineCacheCreateInfo, allocator *AllocationCallbacks, cache *PipelineCache) Result {
	pInfo := unsafe.Pointer(createInfo)
	pAlloc := unsafe.Pointer(allocator)
	pOut := unsafe.Pointer(cache)
	return callResult(&SigResultHandlePtrPtrPtr, c.createPipelineCache,
		unsafe.Pointer(&device), unsafe.Pointer(&pInfo), unsafe.Pointer(&pAlloc), unsafe.Pointer(&pOut))
}

// DestroyPipelineCache wraps vkDestroyPipelineCache.
func (c *Commands) DestroyPipelineCache(device Device, cache PipelineCache, allocator *AllocationCallbacks) {
	pAlloc := unsafe.Pointer(allocator)
	callVoid(&SigVoidHandleHandlePtr, c.destroyPipelineCache,
		unsafe.Pointer(&device), unsafe.Pointer(&cache), unsafe.Pointer(&pAlloc))
}

// GetPipelineCacheData wraps vkGetPipelineCacheData.
func (c *Commands) GetPipelineCacheData(device Device, cache PipelineCache, dataSize *uintptr, data unsafe.Pointer) Result {
	pSize := unsafe.Pointer(dataSize)
	return callResult(&SigResultHandleHandlePtrPtr, c.getPipelineCacheData,
		unsafe.Pointer(&device), unsafe.Pointer(&cache), unsafe.Pointer(&pSize), unsafe.Pointer(&data))
}

// CreateGraphicsPipelines wraps vkCreateGraphicsPipelines.
func (c *Commands) CreateGraphicsPipelines(device Device, cache PipelineCache, createInfoCount uint32, createInfos *GraphicsPipelineCreateInfo, allocator *AllocationCallbacks, pipelines *Pipeline) Result {
	pInfos := unsafe.Pointer(createInfos)
	pAlloc := unsafe.Pointer(allocator)
	pOut := unsafe.Pointer(pipelines)
	return callResult(&SigResultCreatePipelines, c.createGraphicsPipelines,
		unsafe.Pointer(&device), unsafe.Pointer(&cache), unsafe.Pointer(&createInfoCount),
		unsafe.Pointer(&pInfos), unsafe.Pointer(&pAlloc), unsafe.Pointer(&pOut))
}

// DestroyPipeline wraps vkDestroyPipeline.
func (c *Commands) DestroyPipeline(device Device, pipeline Pipeline, allocator *AllocationCallbacks) {
	pAlloc := unsafe.Pointer(allocator)
	callVoid(&SigVoidHandleHandlePtr, c.destroyPipeline,
		unsafe.Pointer(&device), unsafe.Pointer(&pipeline), unsafe.Pointer(&pAlloc))
}

// CreatePipelineLayout wraps vkCreatePipelineLayout.
func (c *Commands) CreatePipelineLayout(device Device, createInfo *PipelineLayoutCreateInfo, allocator *AllocationCallbacks, layout *PipelineLayout) Result {
	pInfo := unsafe.Pointer(createInfo)
	pAlloc := unsafe.Pointer(allocator)
	pOut := unsafe.Pointer(layout)
	return callResult(&SigResultHandlePtrPtrPtr, c.createPipelineLayout,
		unsafe.Pointer(&device), unsafe.Pointer(&pInfo), unsafe.Pointer(&pAlloc), unsafe.Pointer(&pOut))
}

// DestroyPipelineLayout wraps vkDestroyPipelineLayout.
func (c *Commands) DestroyPipelineLayout(device Device, layout PipelineLayout, allocator *AllocationCallbacks) {
	pAlloc := unsafe.Pointer(allocator)
	callVoid(&SigVoidHandleHandlePtr, c.destroyPipelineLayout,
		unsafe.Pointer(&device), unsafe.Pointer(&layout), unsafe.Pointer(&pAlloc))
}

// === Samplers and descriptors ===

// CreateSampler wraps vkCreateSampler.
func (c *Commands) CreateSampler(device Device, createInfo *SamplerCreateInfo, allocator *AllocationCallbacks, sampler *Sampler) Result {
	pInfo := unsafe.Pointer(createInfo)
	pAlloc := unsafe.Pointer(allocator)
	pOut := unsafe.Pointer(sampler)
	return callResult(&SigResultHandlePtrPtrPtr, c.createSampler,
		unsafe.Pointer(&device), unsafe.Pointer(&pInfo), unsafe.Pointer(&pAlloc), unsafe.Pointer(&pOut))
}

// DestroySampler wraps vkDestroySampler.
func (c *Commands) DestroySampler(device Device, sampler Sampler, allocator *AllocationCallbacks) {
	pAlloc := unsafe.Pointer(allocator)
	callVoid(&SigVoidHandleHandlePtr, c.destroySampler,
		unsafe.Pointer(&device), unsafe.Pointer(&sampler), unsafe.Pointer(&pAlloc))
}

// CreateDescriptorSetLayout wraps vkCreateDescriptorSetLayout.
func (c *Commands) CreateDescriptorSetLayout(device Device, createInfo *DescriptorSetLayoutCreateInfo, allocator *AllocationCallbacks, layout *DescriptorSetLayout) Result {
	pInfo := unsafe.Pointer(createInfo)
	pAlloc := unsafe.Pointer(allocator)
	pOut := unsafe.Pointer(layout)
	return callResult(&SigResultHandlePtrPtrPtr, c.createDescriptorSetLayout,
		unsafe.Pointer(&device), unsafe.Pointer(&pInfo), unsafe.Pointer(&pAlloc), unsafe.Pointer(&pOut))
}

// DestroyDescriptorSetLayout wraps vkDestroyDescriptorSetLayout.
func (c *Commands) DestroyDescriptorSetLayout(device Device, layout DescriptorSetLayout, allocator *AllocationCallbacks) {
	pAlloc := unsafe.Pointer(allocator)
	callVoid(&SigVoidHandleHandlePtr, c.destroyDescriptorSetLayout,
		unsafe.Pointer(&device), unsafe.Pointer(&layout), unsafe.Pointer(&pAlloc))
}

// CreateDescriptorPool wraps vkCreateDescriptorPool.
func (c *Commands) CreateDescriptorPool(device Device, createInfo *DescriptorPoolCreateInfo, allocator *AllocationCallbacks, pool *DescriptorPool) Result {
	pInfo := unsafe.Pointer(createInfo)
	pAlloc := unsafe.Pointer(allocator)
	pOut := unsafe.Pointer(pool)
	return callResult(&SigResultHandlePtrPtrPtr, c.createDescriptorPool,
		unsafe.Pointer(&device), unsafe.Pointer(&pInfo), unsafe.Pointer(&pAlloc), unsafe.Pointer(&pOut))
}

// DestroyDescriptorPool wraps vkDestroyDescriptorPool.
func (c *Commands) DestroyDescriptorPool(device Device, pool DescriptorPool, allocator *AllocationCallbacks) {
	pAlloc := unsafe.Pointer(allocator)
	callVoid(&SigVoidHandleHandlePtr, c.destroyDescriptorPool,
		unsafe.Pointer(&device), unsafe.Pointer(&pool), unsafe.Pointer(&pAlloc))
}

// AllocateDescriptorSets wraps vkAllocateDescriptorSets.
func (c *Commands) AllocateDescriptorSets(device Device, allocInfo *DescriptorSetAllocateInfo, sets *DescriptorSet) Result {
	pInfo := unsafe.Pointer(allocInfo)
	pSets := unsafe.Pointer(sets)
	return callResult(&SigResultHandlePtrPtr, c.allocateDescriptorSets,
		unsafe.Pointer(&device), unsafe.Pointer(&pInfo), unsafe.Pointer(&pSets))
}

// FreeDescriptorSets wraps vkFreeDescriptorSets.
func (c *Commands) FreeDescriptorSets(device Device, pool DescriptorPool, setCount uint32, sets *DescriptorSet) Result {
	pSets := unsafe.Pointer(sets)
	return callResult(&SigResultHandleHandleU32Ptr, c.freeDescriptorSets,
		unsafe.Pointer(&device), unsafe.Pointer(&pool), unsafe.Pointer(&setCount), unsafe.Pointer(&pSets))
}

// UpdateDescriptorSets wraps vkUpdateDescriptorSets.
func (c *Commands) UpdateDescriptorSets(device Device, writeCount uint32, writes *WriteDescriptorSet, copyCount uint32, copies unsafe.Pointer) {
	pWrites := unsafe.Pointer(writes)
	callVoid(&SigVoidUpdateDescriptorSets, c.updateDescriptorSets,
		unsafe.Pointer(&device), unsafe.Pointer(&writeCount), unsafe.Pointer(&pWrites),
		unsafe.Pointer(&copyCount), unsafe.Pointer(&copies))
}

// === Render pass and framebuffer ===

// CreateFramebuffer wraps vkCreateFramebuffer.
func (c *Commands) CreateFramebuffer(device Device, createInfo *FramebufferCreateInfo, allocator *AllocationCallbacks, framebuffer *Framebuffer) Result {
	pInfo := unsafe.Pointer(createInfo)
	pAlloc := unsafe.Pointer(allocator)
	pOut := unsafe.Pointer(framebuffer)
	return callResult(&SigResultHandlePtrPtrPtr, c.createFramebuffer,
		unsafe.Pointer(&device), unsafe.Pointer(&pInfo), unsafe.Pointer(&pAlloc), unsafe.Pointer(&pOut))
}

// DestroyFramebuffer wraps vkDestroyFramebuffer.
func (c *Commands) DestroyFramebuffer(device Device, framebuffer Framebuffer, allocator *AllocationCallbacks) {
	pAlloc := unsafe.Pointer(allocator)
	callVoid(&SigVoidHandleHandlePtr, c.destroyFramebuffer,
		unsafe.Pointer(&device), unsafe.Pointer(&framebuffer), unsafe.Pointer(&pAlloc))
}

// CreateRenderPass wraps vkCreateRenderPass.
func (c *Commands) CreateRenderPass(device Device, createInfo *RenderPassCreateInfo, allocator *AllocationCallbacks, renderPass *RenderPass) Result {
	pInfo := unsafe.Pointer(createInfo)
	pAlloc := unsafe.Pointer(allocator)
	pOut := unsafe.Pointer(renderPass)
	return callResult(&SigResultHandlePtrPtrPtr, c.createRenderPass,
		unsafe.Pointer(&device), unsafe.Pointer(&pInfo), unsafe.Pointer(&pAlloc), unsafe.Pointer(&pOut))
}

// DestroyRenderPass wraps vkDestroyRenderPass.
func (c *Commands) DestroyRenderPass(device Device, renderPass RenderPass, allocator *AllocationCallbacks) {
	pAlloc := unsafe.Pointer(allocator)
	callVoid(&SigVoidHandleHandlePtr, c.destroyRenderPass,
		unsafe.Pointer(&device), unsafe.Pointer(&renderPass), unsafe.Pointer(&pAlloc))
}

// === Command pools and buffers ===

// CreateCommandPool wraps vkCreateCommandPool.
func (c *Commands) CreateCommandPool(device Device, createInfo *CommandPoolCreateInfo, allocator *AllocationCallbacks, pool *CommandPool) Result {
	pInfo := unsafe.Pointer(createInfo)
	pAlloc := unsafe.Pointer(allocator)
	pOut := unsafe.Pointer(pool)
	return callResult(&SigResultHandlePtrPtrPtr, c.createCommandPool,
		unsafe.Pointer(&device), unsafe.Pointer(&pInfo), unsafe.Pointer(&pAlloc), unsafe.Pointer(&pOut))
}

// DestroyCommandPool wraps vkDestroyCommandPool.
func (c *Commands) DestroyCommandPool(device Device, pool CommandPool, allocator *AllocationCallbacks) {
	pAlloc := unsafe.Pointer(allocator)
	callVoid(&SigVoidHandleHandlePtr, c.destroyCommandPool,
		unsafe.Pointer(&device), unsafe.Pointer(&pool), unsafe.Pointer(&pAlloc))
}

// ResetCommandPool wraps vkResetCommandPool.
func (c *Commands) ResetCommandPool(device Device, pool CommandPool, flags uint32) Result {
	return callResult(&SigResultHandleHandleU32, c.resetCommandPool,
		unsafe.Pointer(&device), unsafe.Pointer(&pool), unsafe.Pointer(&flags))
}

// AllocateCommandBuffers wraps vkAllocateCommandBuffers.
func (c *Commands) AllocateCommandBuffers(device Device, allocInfo *CommandBufferAllocateInfo, buffers *CommandBuffer) Result {
	pInfo := unsafe.Pointer(allocInfo)
	pBuffers := unsafe.Pointer(buffers)
	return callResult(&SigResultHandlePtrPtr, c.allocateCommandBuffers,
		unsafe.Pointer(&device), unsafe.Pointer(&pInfo), unsafe.Pointer(&pBuffers))
}

// FreeCommandBuffers wraps vkFreeCommandBuffers.
func (c *Commands) FreeCommandBuffers(device Device, pool CommandPool, bufferCount uint32, buffers *CommandBuffer) {
	pBuffers := unsafe.Pointer(buffers)
	callVoid(&SigVoidHandleHandleU32Ptr, c.freeCommandBuffers,
		unsafe.Pointer(&device), unsafe.Pointer(&pool), unsafe.Pointer(&bufferCount), unsafe.Pointer(&pBuffers))
}

// BeginCommandBuffer wraps vkBeginCommandBuffer.
func (c *Commands) BeginCommandBuffer(commandBuffer CommandBuffer, beginInfo *CommandBufferBeginInfo) Result {
	pInfo := unsafe.Pointer(beginInfo)
	return callResult(&SigResultHandlePtr, c.beginCommandBuffer,
		unsafe.Pointer(&commandBuffer), unsafe.Pointer(&pInfo))
}

// EndCommandBuffer wraps vkEndCommandBuffer.
func (c *Commands) EndCommandBuffer(commandBuffer CommandBuffer) Result {
	return callResult(&SigResultHandle, c.endCommandBuffer, unsafe.Pointer(&commandBuffer))
}

// ResetCommandBuffer wraps vkResetCommandBuffer.
func (c *Commands) ResetCommandBuffer(commandBuffer CommandBuffer, flags uint32) Result {
	return callResult(&SigResultHandleU32, c.resetCommandBuffer,
		unsafe.Pointer(&commandBuffer), unsafe.Pointer(&flags))
}

// === Command recording ===

// CmdBindPipeline wraps vkCmdBindPipeline.
func (c *Commands) CmdBindPipeline(commandBuffer CommandBuffer, bindPoint PipelineBindPoint, pipeline Pipeline) {
	callVoid(&SigVoidHandleU32Handle, c.cmdBindPipeline,
		unsafe.Pointer(&commandBuffer), unsafe.Pointer(&bindPoint), unsafe.Pointer(&pipeline))
}

// CmdSetViewport wraps vkCmdSetViewport.
func (c *Commands) CmdSetViewport(commandBuffer CommandBuffer, firstViewport, viewportCount uint32, viewports *Viewport) {
	pViewports := unsafe.Pointer(viewports)
	callVoid(&SigVoidHandleU32U32Ptr, c.cmdSetViewport,
		unsafe.Pointer(&commandBuffer), unsafe.Pointer(&firstViewport), unsafe.Pointer(&viewportCount), unsafe.Pointer(&pViewports))
}

// CmdSetScissor wraps vkCmdSetScissor.
func (c *Commands) CmdSetScissor(commandBuffer CommandBuffer, firstScissor, scissorCount uint32, scissors *Rect2D) {
	pScissors := unsafe.Pointer(scissors)
	callVoid(&SigVoidHandleU32U32Ptr, c.cmdSetScissor,
		unsafe.Pointer(&commandBuffer), unsafe.Pointer(&firstScissor), unsafe.Pointer(&scissorCount), unsafe.Pointer(&pScissors))
}

// CmdSetLineWidth wraps vkCmdSetLineWidth.
func (c *Commands) CmdSetLineWidth(commandBuffer CommandBuffer, lineWidth float32) {
	callVoid(&SigVoidHandleF32, c.cmdSetLineWidth,
		unsafe.Pointer(&commandBuffer), unsafe.Pointer(&lineWidth))
}

// CmdBindDescriptorSets wraps vkCmdBindDescriptorSets.
func (c *Commands) CmdBindDescriptorSets(commandBuffer CommandBuffer, bindPoint PipelineBindPoint, layout PipelineLayout, firstSet, setCount uint32, sets *DescriptorSet, dynamicOffsetCount uint32, dynamicOffsets *uint32) {
	pSets := unsafe.Pointer(sets)
	pOffsets := unsafe.Pointer(dynamicOffsets)
	callVoid(&SigVoidCmdBindDescriptorSets, c.cmdBindDescriptorSets,
		unsafe.Pointer(&commandBuffer), unsafe.Pointer(&bindPoint), unsafe.Pointer(&layout),
		unsafe.Pointer(&firstSet), unsafe.Pointer(&setCount), unsafe.Pointer(&pSets),
		unsafe.Pointer(&dynamicOffsetCount), unsafe.Pointer(&pOffsets))
}

// CmdBindIndexBuffer wraps vkCmdBindIndexBuffer.
func (c *Commands) CmdBindIndexBuffer(commandBuffer CommandBuffer, buffer Buffer, offset DeviceSize, indexType IndexType) {
	callVoid(&SigVoidHandleHandleU64U32, c.cmdBindIndexBuffer,
		unsafe.Pointer(&commandBuffer), unsafe.Pointer(&buffer), unsafe.Pointer(&offset), unsafe.Pointer(&indexType))
}

// CmdDraw wraps vkCmdDraw.
func (c *Commands) CmdDraw(commandBuffer CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	callVoid(&SigVoidHandleU32x4, c.cmdDraw,
		unsafe.Pointer(&commandBuffer), unsafe.Pointer(&vertexCount), unsafe.Pointer(&instanceCount),
		unsafe.Pointer(&firstVertex), unsafe.Pointer(&firstInstance))
}

// CmdDrawIndexed wraps vkCmdDrawIndexed.
func (c *Commands) CmdDrawIndexed(commandBuffer CommandBuffer, indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	callVoid(&SigVoidHandleU32x3I32U32, c.cmdDrawIndexed,
		unsafe.Pointer(&commandBuffer), unsafe.Pointer(&indexCount), unsafe.Pointer(&instanceCount),
		unsafe.Pointer(&firstIndex), unsafe.Pointer(&vertexOffset), unsafe.Pointer(&firstInstance))
}

// CmdCopyBuffer wraps vkCmdCopyBuffer.
func (c *Commands) CmdCopyBuffer(commandBuffer CommandBuffer, srcBuffer, dstBuffer Buffer, regionCount uint32, regions *BufferCopy) {
	pRegions := unsafe.Pointer(regions)
	callVoid(&SigVoidCmdCopyBuffer, c.cmdCopyBuffer,
		unsafe.Pointer(&commandBuffer), unsafe.Pointer(&srcBuffer), unsafe.Pointer(&dstBuffer),
		unsafe.Pointer(&regionCount), unsafe.Pointer(&pRegions))
}

// CmdBlitImage wraps vkCmdBlitImage.
func (c *Commands) CmdBlitImage(commandBuffer CommandBuffer, srcImage Image, srcLayout ImageLayout, dstImage Image, dstLayout ImageLayout, regionCount uint32, regions *ImageBlit, filter Filter) {
	pRegions := unsafe.Pointer(regions)
	callVoid(&SigVoidCmdBlitImage, c.cmdBlitImage,
		unsafe.Pointer(&commandBuffer), unsafe.Pointer(&srcImage), unsafe.Pointer(&srcLayout),
		unsafe.Pointer(&dstImage), unsafe.Pointer(&dstLayout),
		unsafe.Pointer(&regionCount), unsafe.Pointer(&pRegions), unsafe.Pointer(&filter))
}

// CmdCopyBufferToImage wraps vkCmdCopyBufferToImage.
func (c *Commands) CmdCopyBufferToImage(commandBuffer CommandBuffer, srcBuffer Buffer, dstImage Image, dstLayout ImageLayout, regionCount uint32, regions *BufferImageCopy) {
	pRegions := unsafe.Pointer(regions)
	callVoid(&SigVoidCmdCopyBufferToImage, c.cmdCopyBufferToImage,
		unsafe.Pointer(&commandBuffer), unsafe.Pointer(&srcBuffer), unsafe.Pointer(&dstImage),
		unsafe.Pointer(&dstLayout), unsafe.Pointer(&regionCount), unsafe.Pointer(&pRegions))
}

// CmdPipelineBarrier wraps vkCmdPipelineBarrier.
func (c *Commands) CmdPipelineBarrier(commandBuffer CommandBuffer, srcStageMask, dstStageMask PipelineStageFlags, dependencyFlags DependencyFlags, memoryBarrierCount uint32, memoryBarriers *MemoryBarrier, bufferBarrierCount uint32, bufferBarriers *BufferMemoryBarrier, imageBarrierCount uint32, imageBarriers *ImageMemoryBarrier) {
	pMem := unsafe.Pointer(memoryBarriers)
	pBuf := unsafe.Pointer(bufferBarriers)
	pImg := unsafe.Pointer(imageBarriers)
	callVoid(&SigVoidCmdPipelineBarrier, c.cmdPipelineBarrier,
		unsafe.Pointer(&commandBuffer), unsafe.Pointer(&srcStageMask), unsafe.Pointer(&dstStageMask),
		unsafe.Pointer(&dependencyFlags),
		unsafe.Pointer(&memoryBarrierCount), unsafe.Pointer(&pMem),
		unsafe.Pointer(&bufferBarrierCount), unsafe.Pointer(&pBuf),
		unsafe.Pointer(&imageBarrierCount), unsafe.Pointer(&pImg))
}

// CmdPushConstants wraps vkCmdPushConstants.
func (c *Commands) CmdPushConstants(commandBuffer CommandBuffer, layout PipelineLayout, stageFlags ShaderStageFlags, offset, size uint32, values unsafe.Pointer) {
	callVoid(&SigVoidCmdPushConstants, c.cmdPushConstants,
		unsafe.Pointer(&commandBuffer), unsafe.Pointer(&layout), unsafe.Pointer(&stageFlags),
		unsafe.Pointer(&offset), unsafe.Pointer(&size), unsafe.Pointer(&values))
}

// CmdBeginRenderPass wraps vkCmdBeginRenderPass.
func (c *Commands) CmdBeginRenderPass(commandBuffer CommandBuffer, beginInfo *RenderPassBeginInfo, contents SubpassContents) {
	pInfo := unsafe.Pointer(beginInfo)
	callVoid(&SigVoidHandlePtrU32, c.cmdBeginRenderPass,
		unsafe.Pointer(&commandBuffer), unsafe.Pointer(&pInfo), unsafe.Pointer(&contents))
}

// CmdEndRenderPass wraps vkCmdEndRenderPass.
func (c *Commands) CmdEndRenderPass(commandBuffer CommandBuffer) {
	callVoid(&SigVoidHandle, c.cmdEndRenderPass, unsafe.Pointer(&commandBuffer))
}
