// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/vgfx/internal/vk"
)

// ThreadResources is the private state of one loader thread: a command pool
// per queue family the loaders record on, plus a descriptor auto-pool.
// It satisfies the worker pool's Resource contract; ThreadEnd always runs,
// even after a failed ThreadBegin, so teardown only touches what exists.
type ThreadResources struct {
	dev         *Device
	threadIndex int

	PrimaryRenderPool   vk.CommandPool
	SecondaryRenderPool vk.CommandPool
	PrimaryTransferPool vk.CommandPool

	Descriptors *AutoPool
}

// NewThreadResources prepares (but does not create) thread resources for
// the device. Creation happens in ThreadBegin on the owning thread.
func NewThreadResources(dev *Device) *ThreadResources {
	return &ThreadResources{dev: dev, threadIndex: -1}
}

// ThreadIndex returns the worker thread index, -1 before ThreadBegin.
func (r *ThreadResources) ThreadIndex() int { return r.threadIndex }

// Device returns the GPU device the resources belong to.
func (r *ThreadResources) Device() *Device { return r.dev }

// ThreadBegin creates the command pools and descriptor auto-pool on the
// worker thread.
func (r *ThreadResources) ThreadBegin(threadIndex int) error {
	r.threadIndex = threadIndex

	pools := []struct {
		family uint32
		out    *vk.CommandPool
	}{
		{r.dev.Queues[QueuePrimaryRender].FamilyIndex(), &r.PrimaryRenderPool},
		{r.dev.Queues[QueueSecondaryRender].FamilyIndex(), &r.SecondaryRenderPool},
		{r.dev.Queues[QueuePrimaryTransfer].FamilyIndex(), &r.PrimaryTransferPool},
	}
	for _, p := range pools {
		createInfo := vk.CommandPoolCreateInfo{
			SType:            vk.StructureTypeCommandPoolCreateInfo,
			Flags:            vk.CommandPoolCreateTransientBit | vk.CommandPoolCreateResetCommandBufferBit,
			QueueFamilyIndex: p.family,
		}
		if result := r.dev.Cmds.CreateCommandPool(r.dev.Handle, &createInfo, nil, p.out); result != vk.Success {
			return fmt.Errorf("gpu: thread %d: vkCreateCommandPool failed: %d", threadIndex, result)
		}
	}

	r.Descriptors = NewAutoPool(r.dev.Cmds, r.dev.Handle)
	return nil
}

// ThreadEnd destroys whatever ThreadBegin managed to create.
func (r *ThreadResources) ThreadEnd() {
	if r.Descriptors != nil {
		r.Descriptors.Destroy()
		r.Descriptors = nil
	}
	for _, pool := range []*vk.CommandPool{&r.PrimaryRenderPool, &r.SecondaryRenderPool, &r.PrimaryTransferPool} {
		if *pool != 0 {
			r.dev.Cmds.DestroyCommandPool(r.dev.Handle, *pool, nil)
			*pool = 0
		}
	}
}

// AllocateCommandBuffer allocates one primary command buffer from the
// given pool.
func (r *ThreadResources) AllocateCommandBuffer(pool vk.CommandPool) (vk.CommandBuffer, error) {
	allocInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}
	var cb vk.CommandBuffer
	if result := r.dev.Cmds.AllocateCommandBuffers(r.dev.Handle, &allocInfo, &cb); result != vk.Success {
		return 0, fmt.Errorf("gpu: vkAllocateCommandBuffers failed: %d", result)
	}
	return cb, nil
}
