// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// This file contains CallInterface signatures that are reused across
// multiple Vulkan functions with identical parameter types.

package vk

import (
	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"
)

// Signature templates - reused across functions with identical signatures.
// Vulkan has ~700 functions but only ~30 unique signatures; the subset below
// covers every entry point this renderer calls.
var (
	// === Result-returning signatures ===

	// VkResult(ptr, ptr, ptr) - vkCreateInstance
	SigResultPtrPtrPtr types.CallInterface

	// VkResult(handle, ptr, ptr, ptr) - vkCreateDevice, vkCreateBuffer, ...
	SigResultHandlePtrPtrPtr types.CallInterface

	// VkResult(handle, ptr, ptr) - vkEnumeratePhysicalDevices, vkAllocateDescriptorSets
	SigResultHandlePtrPtr types.CallInterface

	// VkResult(handle, ptr) - vkBeginCommandBuffer, vkQueuePresentKHR
	SigResultHandlePtr types.CallInterface

	// VkResult(handle) - vkEndCommandBuffer, vkQueueWaitIdle, vkDeviceWaitIdle
	SigResultHandle types.CallInterface

	// VkResult(handle, handle) - vkGetFenceStatus
	SigResultHandleHandle types.CallInterface

	// VkResult(handle, handle, ptr) - vkGetPhysicalDeviceSurfaceCapabilitiesKHR
	SigResultHandleHandlePtr types.CallInterface

	// VkResult(handle, handle, ptr, ptr) - vkGetSwapchainImagesKHR, vkGetPipelineCacheData
	SigResultHandleHandlePtrPtr types.CallInterface

	// VkResult(handle, handle, u32) - vkResetCommandPool
	SigResultHandleHandleU32 types.CallInterface

	// VkResult(handle, u32) - vkResetCommandBuffer
	SigResultHandleU32 types.CallInterface

	// VkResult(handle, u32, ptr) - vkResetFences, vkFlushMappedMemoryRanges
	SigResultHandleU32Ptr types.CallInterface

	// VkResult(handle, u32, ptr, handle) - vkQueueSubmit
	SigResultHandleU32PtrHandle types.CallInterface

	// VkResult(handle, u32, ptr, u32, u64) - vkWaitForFences
	SigResultWaitForFences types.CallInterface

	// VkResult(handle, handle, handle, u64) - vkBindBufferMemory, vkBindImageMemory
	SigResultHandle4 types.CallInterface

	// VkResult(handle, handle, u64, u64, u32, ptr) - vkMapMemory
	SigResultMapMemory types.CallInterface

	// VkResult(handle, handle, u64, handle, handle, ptr) - vkAcquireNextImageKHR
	SigResultAcquireNextImage types.CallInterface

	// VkResult(handle, u32, handle, ptr) - vkGetPhysicalDeviceSurfaceSupportKHR
	SigResultHandleU32HandlePtr types.CallInterface

	// VkResult(handle, handle, u32, ptr, ptr, ptr) - vkCreateGraphicsPipelines
	SigResultCreatePipelines types.CallInterface

	// VkResult(handle, handle, u32, ptr) - vkFreeDescriptorSets
	SigResultHandleHandleU32Ptr types.CallInterface

	// === Void-returning signatures ===

	// void(handle, ptr) - vkDestroyInstance, vkGetPhysicalDeviceProperties, ...
	SigVoidHandlePtr types.CallInterface

	// void(handle, handle, ptr) - vkDestroyBuffer, vkGetBufferMemoryRequirements, ...
	SigVoidHandleHandlePtr types.CallInterface

	// void(handle, ptr, ptr) - vkGetPhysicalDeviceQueueFamilyProperties
	SigVoidHandlePtrPtr types.CallInterface

	// void(handle, handle) - vkUnmapMemory
	SigVoidHandleHandle types.CallInterface

	// void(handle) - vkCmdEndRenderPass
	SigVoidHandle types.CallInterface

	// void(handle, u32, u32, ptr) - vkCmdSetViewport, vkCmdSetScissor, vkGetDeviceQueue
	SigVoidHandleU32U32Ptr types.CallInterface

	// void(handle, u32, handle) - vkCmdBindPipeline
	SigVoidHandleU32Handle types.CallInterface

	// void(handle, u32, u32, u32, u32) - vkCmdDraw
	SigVoidHandleU32x4 types.CallInterface

	// void(handle, u32, u32, u32, i32, u32) - vkCmdDrawIndexed
	SigVoidHandleU32x3I32U32 types.CallInterface

	// void(handle, handle, u64, u32) - vkCmdBindIndexBuffer
	SigVoidHandleHandleU64U32 types.CallInterface

	// void(handle, f32) - vkCmdSetLineWidth
	SigVoidHandleF32 types.CallInterface

	// void(handle, ptr, u32) - vkCmdBeginRenderPass
	SigVoidHandlePtrU32 types.CallInterface

	// void(handle, handle, u32, ptr) - vkFreeCommandBuffers
	SigVoidHandleHandleU32Ptr types.CallInterface

	// void(handle, u32, handle, u32, u32, ptr, u32, ptr) - vkCmdBindDescriptorSets
	SigVoidCmdBindDescriptorSets types.CallInterface

	// void(handle, u32, u32, u32, u32, ptr, u32, ptr, u32, ptr) - vkCmdPipelineBarrier
	SigVoidCmdPipelineBarrier types.CallInterface

	// void(handle, handle, handle, u32, ptr) - vkCmdCopyBuffer
	SigVoidCmdCopyBuffer types.CallInterface

	// void(handle, handle, handle, u32, u32, ptr) - vkCmdCopyBufferToImage
	SigVoidCmdCopyBufferToImage types.CallInterface

	// void(handle, handle, u32, handle, u32, u32, ptr, u32) - vkCmdBlitImage
	SigVoidCmdBlitImage types.CallInterface

	// void(handle, handle, u32, u32, u32, ptr) - vkCmdPushConstants
	SigVoidCmdPushConstants types.CallInterface

	// void(handle, u32, ptr, u32, ptr) - vkUpdateDescriptorSets
	SigVoidUpdateDescriptorSets types.CallInterface
)

// Shorthand type descriptors.
var (
	tHandle = types.UInt64TypeDescriptor
	tU32    = types.UInt32TypeDescriptor
	tU64    = types.UInt64TypeDescriptor
	tI32    = types.SInt32TypeDescriptor
	tF32    = types.FloatTypeDescriptor
	tPtr    = types.PointerTypeDescriptor
	tVoid   = types.VoidTypeDescriptor
)

func prepare(cif *types.CallInterface, ret *types.TypeDescriptor, params ...*types.TypeDescriptor) error {
	return ffi.PrepareCallInterface(cif, types.DefaultCall, ret, params)
}

// InitSignatures prepares all CallInterface templates.
func InitSignatures() error {
	type sig struct {
		cif    *types.CallInterface
		ret    *types.TypeDescriptor
		params []*types.TypeDescriptor
	}

	sigs := []sig{
		{&SigResultPtrPtrPtr, tI32, []*types.TypeDescriptor{tPtr, tPtr, tPtr}},
		{&SigResultHandlePtrPtrPtr, tI32, []*types.TypeDescriptor{tHandle, tPtr, tPtr, tPtr}},
		{&SigResultHandlePtrPtr, tI32, []*types.TypeDescriptor{tHandle, tPtr, tPtr}},
		{&SigResultHandlePtr, tI32, []*types.TypeDescriptor{tHandle, tPtr}},
		{&SigResultHandle, tI32, []*types.TypeDescriptor{tHandle}},
		{&SigResultHandleHandle, tI32, []*types.TypeDescriptor{tHandle, tHandle}},
		{&SigResultHandleHandlePtr, tI32, []*types.TypeDescriptor{tHandle, tHandle, tPtr}},
		{&SigResultHandleHandlePtrPtr, tI32, []*types.TypeDescriptor{tHandle, tHandle, tPtr, tPtr}},
		{&SigResultHandleHandleU32, tI32, []*types.TypeDescriptor{tHandle, tHandle, tU32}},
		{&SigResultHandleU32, tI32, []*types.TypeDescriptor{tHandle, tU32}},
		{&SigResultHandleU32Ptr, tI32, []*types.TypeDescriptor{tHandle, tU32, tPtr}},
		{&SigResultHandleU32PtrHandle, tI32, []*types.TypeDescriptor{tHandle, tU32, tPtr, tHandle}},
		{&SigResultWaitForFences, tI32, []*types.TypeDescriptor{tHandle, tU32, tPtr, tU32, tU64}},
		{&SigResultHandle4, tI32, []*types.TypeDescriptor{tHandle, tHandle, tHandle, tU64}},
		{&SigResultMapMemory, tI32, []*types.TypeDescriptor{tHandle, tHandle, tU64, tU64, tU32, tPtr}},
		{&SigResultAcquireNextImage, tI32, []*types.TypeDescriptor{tHandle, tHandle, tU64, tHandle, tHandle, tPtr}},
		{&SigResultHandleU32HandlePtr, tI32, []*types.TypeDescriptor{tHandle, tU32, tHandle, tPtr}},
		{&SigResultCreatePipelines, tI32, []*types.TypeDescriptor{tHandle, tHandle, tU32, tPtr, tPtr, tPtr}},
		{&SigResultHandleHandleU32Ptr, tI32, []*types.TypeDescriptor{tHandle, tHandle, tU32, tPtr}},

		{&SigVoidHandlePtr, tVoid, []*types.TypeDescriptor{tHandle, tPtr}},
		{&SigVoidHandleHandlePtr, tVoid, []*types.TypeDescriptor{tHandle, tHandle, tPtr}},
		{&SigVoidHandlePtrPtr, tVoid, []*types.TypeDescriptor{tHandle, tPtr, tPtr}},
		{&SigVoidHandleHandle, tVoid, []*types.TypeDescriptor{tHandle, tHandle}},
		{&SigVoidHandle, tVoid, []*types.TypeDescriptor{tHandle}},
		{&SigVoidHandleU32U32Ptr, tVoid, []*types.TypeDescriptor{tHandle, tU32, tU32, tPtr}},
		{&SigVoidHandleU32Handle, tVoid, []*types.TypeDescriptor{tHandle, tU32, tHandle}},
		{&SigVoidHandleU32x4, tVoid, []*types.TypeDescriptor{tHandle, tU32, tU32, tU32, tU32}},
		{&SigVoidHandleU32x3I32U32, tVoid, []*types.TypeDescriptor{tHandle, tU32, tU32, tU32, tI32, tU32}},
		{&SigVoidHandleHandleU64U32, tVoid, []*types.TypeDescriptor{tHandle, tHandle, tU64, tU32}},
		{&SigVoidHandleF32, tVoid, []*types.TypeDescriptor{tHandle, tF32}},
		{&SigVoidHandlePtrU32, tVoid, []*types.TypeDescriptor{tHandle, tPtr, tU32}},
		{&SigVoidHandleHandleU32Ptr, tVoid, []*types.TypeDescriptor{tHandle, tHandle, tU32, tPtr}},
		{&SigVoidCmdBindDescriptorSets, tVoid, []*types.TypeDescriptor{tHandle, tU32, tHandle, tU32, tU32, tPtr, tU32, tPtr}},
		{&SigVoidCmdPipelineBarrier, tVoid, []*types.TypeDescriptor{tHandle, tU32, tU32, tU32, tU32, tPtr, tU32, tPtr, tU32, tPtr}},
		{&SigVoidCmdCopyBuffer, tVoid, []*types.TypeDescriptor{tHandle, tHandle, tHandle, tU32, tPtr}},
		{&SigVoidCmdCopyBufferToImage, tVoid, []*types.TypeDescriptor{tHandle, tHandle, tHandle, tU32, tU32, tPtr}},
		{&SigVoidCmdBlitImage, tVoid, []*types.TypeDescriptor{tHandle, tHandle, tU32, tHandle, tU32, tU32, tPtr, tU32}},
		{&SigVoidCmdPushConstants, tVoid, []*types.TypeDescriptor{tHandle, tHandle, tU32, tU32, tU32, tPtr}},
		{&SigVoidUpdateDescriptorSets, tVoid, []*types.TypeDescriptor{tHandle, tU32, tPtr, tU32, tPtr}},
	}

	for i := range sigs {
		if err := prepare(sigs[i].cif, sigs[i].ret, sigs[i].params...); err != nil {
			return err
		}
	}
	return nil
}
