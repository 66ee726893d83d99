// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vk

// This file contains function pointer loading for Vulkan commands. Typed
// call wrappers live in calls.go.
//
// # Function Loading Hierarchy
//
// Vulkan functions are loaded in three stages:
//
//  1. LoadGlobal() — Functions callable without instance (pre-instance)
//  2. LoadInstance(instance) — Instance-level and WSI functions
//  3. LoadDevice(device) — Device-level functions

import (
	"fmt"
	"unsafe"
)

// Commands holds loaded Vulkan function pointers.
type Commands struct {
	// Global.
	createInstance unsafe.Pointer

	// Instance-level.
	destroyInstance                         unsafe.Pointer
	enumeratePhysicalDevices                unsafe.Pointer
	getPhysicalDeviceProperties             unsafe.Pointer
	getPhysicalDeviceFeatures               unsafe.Pointer
	getPhysicalDeviceQueueFamilyProperties  unsafe.Pointer
	getPhysicalDeviceMemoryProperties       unsafe.Pointer
	createDevice                            unsafe.Pointer
	enumerateDeviceExtensionProperties      unsafe.Pointer
	destroySurfaceKHR                       unsafe.Pointer
	getPhysicalDeviceSurfaceSupportKHR      unsafe.Pointer
	getPhysicalDeviceSurfaceCapabilitiesKHR unsafe.Pointer
	getPhysicalDeviceSurfaceFormatsKHR      unsafe.Pointer
	getPhysicalDeviceSurfacePresentModesKHR unsafe.Pointer

	// Device-level.
	destroyDevice               unsafe.Pointer
	getDeviceQueue              unsafe.Pointer
	queueSubmit                 unsafe.Pointer
	queueWaitIdle               unsafe.Pointer
	deviceWaitIdle              unsafe.Pointer
	allocateMemory              unsafe.Pointer
	freeMemory                  unsafe.Pointer
	mapMemory                   unsafe.Pointer
	unmapMemory                 unsafe.Pointer
	flushMappedMemoryRanges     unsafe.Pointer
	getBufferMemoryRequirements unsafe.Pointer
	bindBufferMemory            unsafe.Pointer
	getImageMemoryRequirements  unsafe.Pointer
	bindImageMemory             unsafe.Pointer
	createFence                 unsafe.Pointer
	destroyFence                unsafe.Pointer
	resetFences                 unsafe.Pointer
	getFenceStatus              unsafe.Pointer
	waitForFences               unsafe.Pointer
	createSemaphore             unsafe.Pointer
	destroySemaphore            unsafe.Pointer
	createBuffer                unsafe.Pointer
	destroyBuffer               unsafe.Pointer
	createImage                 unsafe.Pointer
	destroyImage                unsafe.Pointer
	createImageView             unsafe.Pointer
	destroyImageView            unsafe.Pointer
	createShaderModule          unsafe.Pointer
	destroyShaderModule         unsafe.Pointer
	createPipelineCache         unsafe.Pointer
	destroyPipelineCache        unsafe.Pointer
	getPipelineCacheData        unsafe.Pointer
	createGraphicsPipelines     unsafe.Pointer
	destroyPipeline             unsafe.Pointer
	createPipelineLayout        unsafe.Pointer
	destroyPipelineLayout       unsafe.Pointer
	createSampler               unsafe.Pointer
	destroySampler              unsafe.Pointer
	createDescriptorSetLayout   unsafe.Pointer
	destroyDescriptorSetLayout  unsafe.Pointer
	createDescriptorPool        unsafe.Pointer
	destroyDescriptorPool       unsafe.Pointer
	allocateDescriptorSets      unsafe.Pointer
	freeDescriptorSets          unsafe.Pointer
	updateDescriptorSets        unsafe.Pointer
	createFramebuffer           unsafe.Pointer
	destroyFramebuffer          unsafe.Pointer
	createRenderPass            unsafe.Pointer
	destroyRenderPass           unsafe.Pointer
	createCommandPool           unsafe.Pointer
	destroyCommandPool          unsafe.Pointer
	resetCommandPool            unsafe.Pointer
	allocateCommandBuffers      unsafe.Pointer
	freeCommandBuffers          unsafe.Pointer
	beginCommandBuffer          unsafe.Pointer
	endCommandBuffer            unsafe.Pointer
	resetCommandBuffer          unsafe.Pointer

	cmdBindPipeline       unsafe.Pointer
	cmdSetViewport        unsafe.Pointer
	cmdSetScissor         unsafe.Pointer
	cmdSetLineWidth       unsafe.Pointer
	cmdBindDescriptorSets unsafe.Pointer
	cmdBindIndexBuffer    unsafe.Pointer
	cmdDraw               unsafe.Pointer
	cmdDrawIndexed        unsafe.Pointer
	cmdCopyBuffer         unsafe.Pointer
	cmdBlitImage          unsafe.Pointer
	cmdCopyBufferToImage  unsafe.Pointer
	cmdPipelineBarrier    unsafe.Pointer
	cmdPushConstants      unsafe.Pointer
	cmdBeginRenderPass    unsafe.Pointer
	cmdEndRenderPass      unsafe.Pointer

	// Swapchain (WSI).
	createSwapchainKHR    unsafe.Pointer
	destroySwapchainKHR   unsafe.Pointer
	getSwapchainImagesKHR unsafe.Pointer
	acquireNextImageKHR   unsafe.Pointer
	queuePresentKHR       unsafe.Pointer
}

// NewCommands creates a new Commands instance.
// Function pointers must be loaded via LoadGlobal() and LoadInstance() before use.
func NewCommands() *Commands {
	return &Commands{}
}

// LoadGlobal loads global Vulkan function pointers.
// These are functions that can be called without an instance (like vkCreateInstance).
func (c *Commands) LoadGlobal() error {
	c.createInstance = GetInstanceProcAddr(0, "vkCreateInstance")
	if c.createInstance == nil {
		return fmt.Errorf("failed to load vkCreateInstance")
	}
	return nil
}

// LoadInstance loads instance-level Vulkan function pointers.
// Must be called after vkCreateInstance succeeds.
func (c *Commands) LoadInstance(instance Instance) error {
	if instance == 0 {
		return fmt.Errorf("invalid instance handle")
	}

	c.destroyInstance = GetInstanceProcAddr(instance, "vkDestroyInstance")
	c.enumeratePhysicalDevices = GetInstanceProcAddr(instance, "vkEnumeratePhysicalDevices")
	c.getPhysicalDeviceProperties = GetInstanceProcAddr(instance, "vkGetPhysicalDeviceProperties")
	c.getPhysicalDeviceFeatures = GetInstanceProcAddr(instance, "vkGetPhysicalDeviceFeatures")
	c.getPhysicalDeviceQueueFamilyProperties = GetInstanceProcAddr(instance, "vkGetPhysicalDeviceQueueFamilyProperties")
	c.getPhysicalDeviceMemoryProperties = GetInstanceProcAddr(instance, "vkGetPhysicalDeviceMemoryProperties")
	c.createDevice = GetInstanceProcAddr(instance, "vkCreateDevice")
	c.enumerateDeviceExtensionProperties = GetInstanceProcAddr(instance, "vkEnumerateDeviceExtensionProperties")

	// WSI (Window System Integration) functions.
	c.destroySurfaceKHR = GetInstanceProcAddr(instance, "vkDestroySurfaceKHR")
	c.getPhysicalDeviceSurfaceSupportKHR = GetInstanceProcAddr(instance, "vkGetPhysicalDeviceSurfaceSupportKHR")
	c.getPhysicalDeviceSurfaceCapabilitiesKHR = GetInstanceProcAddr(instance, "vkGetPhysicalDeviceSurfaceCapabilitiesKHR")
	c.getPhysicalDeviceSurfaceFormatsKHR = GetInstanceProcAddr(instance, "vkGetPhysicalDeviceSurfaceFormatsKHR")
	c.getPhysicalDeviceSurfacePresentModesKHR = GetInstanceProcAddr(instance, "vkGetPhysicalDeviceSurfacePresentModesKHR")

	// Some drivers (Intel) refuse to resolve vkGetDeviceProcAddr without an
	// instance.
	SetDeviceProcAddr(instance)

	if c.destroyInstance == nil || c.enumeratePhysicalDevices == nil || c.createDevice == nil {
		return fmt.Errorf("failed to load critical instance functions")
	}

	return nil
}

// LoadDevice loads device-level Vulkan function pointers.
// Must be called after vkCreateDevice succeeds.
func (c *Commands) LoadDevice(device Device) error {
	if device == 0 {
		return fmt.Errorf("invalid device handle")
	}

	c.destroyDevice = GetDeviceProcAddr(device, "vkDestroyDevice")
	c.getDeviceQueue = GetDeviceProcAddr(device, "vkGetDeviceQueue")
	c.queueSubmit = GetDeviceProcAddr(device, "vkQueueSubmit")
	c.queueWaitIdle = GetDeviceProcAddr(device, "vkQueueWaitIdle")
	c.deviceWaitIdle = GetDeviceProcAddr(device, "vkDeviceWaitIdle")
	c.allocateMemory = GetDeviceProcAddr(device, "vkAllocateMemory")
	c.freeMemory = GetDeviceProcAddr(device, "vkFreeMemory")
	c.mapMemory = GetDeviceProcAddr(device, "vkMapMemory")
	c.unmapMemory = GetDeviceProcAddr(device, "vkUnmapMemory")
	c.flushMappedMemoryRanges = GetDeviceProcAddr(device, "vkFlushMappedMemoryRanges")
	c.getBufferMemoryRequirements = GetDeviceProcAddr(device, "vkGetBufferMemoryRequirements")
	c.bindBufferMemory = GetDeviceProcAddr(device, "vkBindBufferMemory")
	c.getImageMemoryRequirements = GetDeviceProcAddr(device, "vkGetImageMemoryRequirements")
	c.bindImageMemory = GetDeviceProcAddr(device, "vkBindImageMemory")
	c.createFence = GetDeviceProcAddr(device, "vkCreateFence")
	c.destroyFence = GetDeviceProcAddr(device, "vkDestroyFence")
	c.resetFences = GetDeviceProcAddr(device, "vkResetFences")
	c.getFenceStatus = GetDeviceProcAddr(device, "vkGetFenceStatus")
	c.waitForFences = GetDeviceProcAddr(device, "vkWaitForFences")
	c.createSemaphore = GetDeviceProcAddr(device, "vkCreateSemaphore")
	c.destroySemaphore = GetDeviceProcAddr(device, "vkDestroySemaphore")
	c.createBuffer = GetDeviceProcAddr(device, "vkCreateBuffer")
	c.destroyBuffer = GetDeviceProcAddr(device, "vkDestroyBuffer")
	c.createImage = GetDeviceProcAddr(device, "vkCreateImage")
	c.destroyImage = GetDeviceProcAddr(device, "vkDestroyImage")
	c.createImageView = GetDeviceProcAddr(device, "vkCreateImageView")
	c.destroyImageView = GetDeviceProcAddr(device, "vkDestroyImageView")
	c.createShaderModule = GetDeviceProcAddr(device, "vkCreateShaderModule")
	c.destroyShaderModule = GetDeviceProcAddr(device, "vkDestroyShaderModule")
	c.createPipelineCache = GetDeviceProcAddr(device, "vkCreatePipelineCache")
	c.destroyPipelineCache = GetDeviceProcAddr(device, "vkDestroyPipelineCache")
	c.getPipelineCacheData = GetDeviceProcAddr(device, "vkGetPipelineCacheData")
	c.createGraphicsPipelines = GetDeviceProcAddr(device, "vkCreateGraphicsPipelines")
	c.destroyPipeline = GetDeviceProcAddr(device, "vkDestroyPipeline")
	c.createPipelineLayout = GetDeviceProcAddr(device, "vkCreatePipelineLayout")
	c.destroyPipelineLayout = GetDeviceProcAddr(device, "vkDestroyPipelineLayout")
	c.createSampler = GetDeviceProcAddr(device, "vkCreateSampler")
	c.destroySampler = GetDeviceProcAddr(device, "vkDestroySampler")
	c.createDescriptorSetLayout = GetDeviceProcAddr(device, "vkCreateDescriptorSetLayout")
	c.destroyDescriptorSetLayout = GetDeviceProcAddr(device, "vkDestroyDescriptorSetLayout")
	c.createDescriptorPool = GetDeviceProcAddr(device, "vkCreateDescriptorPool")
	c.destroyDescriptorPool = GetDeviceProcAddr(device, "vkDestroyDescriptorPool")
	c.allocateDescriptorSets = GetDeviceProcAddr(device, "vkAllocateDescriptorSets")
	c.freeDescriptorSets = GetDeviceProcAddr(device, "vkFreeDescriptorSets")
	c.updateDescriptorSets = GetDeviceProcAddr(device, "vkUpdateDescriptorSets")
	c.createFramebuffer = GetDeviceProcAddr(device, "vkCreateFramebuffer")
	c.destroyFramebuffer = GetDeviceProcAddr(device, "vkDestroyFramebuffer")
	c.createRenderPass = GetDeviceProcAddr(device, "vkCreateRenderPass")
	c.destroyRenderPass = GetDeviceProcAddr(device, "vkDestroyRenderPass")
	c.createCommandPool = GetDeviceProcAddr(device, "vkCreateCommandPool")
	c.destroyCommandPool = GetDeviceProcAddr(device, "vkDestroyCommandPool")
	c.resetCommandPool = GetDeviceProcAddr(device, "vkResetCommandPool")
	c.allocateCommandBuffers = GetDeviceProcAddr(device, "vkAllocateCommandBuffers")
	c.freeCommandBuffers = GetDeviceProcAddr(device, "vkFreeCommandBuffers")
	c.beginCommandBuffer = GetDeviceProcAddr(device, "vkBeginCommandBuffer")
	c.endCommandBuffer = GetDeviceProcAddr(device, "vkEndCommandBuffer")
	c.resetCommandBuffer = GetDeviceProcAddr(device, "vkResetCommandBuffer")

	c.cmdBindPipeline = GetDeviceProcAddr(device, "vkCmdBindPipeline")
	c.cmdSetViewport = GetDeviceProcAddr(device, "vkCmdSetViewport")
	c.cmdSetScissor = GetDeviceProcAddr(device, "vkCmdSetScissor")
	c.cmdSetLineWidth = GetDeviceProcAddr(device, "vkCmdSetLineWidth")
	c.cmdBindDescriptorSets = GetDeviceProcAddr(device, "vkCmdBindDescriptorSets")
	c.cmdBindIndexBuffer = GetDeviceProcAddr(device, "vkCmdBindIndexBuffer")
	c.cmdDraw = GetDeviceProcAddr(device, "vkCmdDraw")
	c.cmdDrawIndexed = GetDeviceProcAddr(device, "vkCmdDrawIndexed")
	c.cmdCopyBuffer = GetDeviceProcAddr(device, "vkCmdCopyBuffer")
	c.cmdBlitImage = GetDeviceProcAddr(device, "vkCmdBlitImage")
	c.cmdCopyBufferToImage = GetDeviceProcAddr(device, "vkCmdCopyBufferToImage")
	c.cmdPipelineBarrier = GetDeviceProcAddr(device, "vkCmdPipelineBarrier")
	c.cmdPushConstants = GetDeviceProcAddr(device, "vkCmdPushConstants")
	c.cmdBeginRenderPass = GetDeviceProcAddr(device, "vkCmdBeginRenderPass")
	c.cmdEndRenderPass = GetDeviceProcAddr(device, "vkCmdEndRenderPass")

	// Swapchain functions (WSI).
	c.createSwapchainKHR = GetDeviceProcAddr(device, "vkCreateSwapchainKHR")
	c.destroySwapchainKHR = GetDeviceProcAddr(device, "vkDestroySwapchainKHR")
	c.getSwapchainImagesKHR = GetDeviceProcAddr(device, "vkGetSwapchainImagesKHR")
	c.acquireNextImageKHR = GetDeviceProcAddr(device, "vkAcquireNextImageKHR")
	c.queuePresentKHR = GetDeviceProcAddr(device, "vkQueuePresentKHR")

	if c.destroyDevice == nil || c.getDeviceQueue == nil || c.queueSubmit == nil {
		return fmt.Errorf("failed to load critical device functions")
	}

	return nil
}
