// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"
	"math/bits"
	"sync"

	"github.com/gogpu/vgfx/internal/vk"
)

// QueueRequest asks the resolver for one queue with the given capabilities
// and priority.
type QueueRequest struct {
	Flags    vk.QueueFlags
	Priority float32
}

// ResolvedQueue is a Vulkan queue together with its family index,
// presentation support and the mutex that serializes submissions. Queues
// based on another request share that request's mutex.
type ResolvedQueue struct {
	handle           vk.Queue
	familyIndex      uint32
	supportsPresent  bool
	familyProperties vk.QueueFamilyProperties
	mu               *sync.Mutex
	basedOn          int
}

// Handle returns the VkQueue.
func (q *ResolvedQueue) Handle() vk.Queue { return q.handle }

// FamilyIndex returns the queue family index.
func (q *ResolvedQueue) FamilyIndex() uint32 { return q.familyIndex }

// SupportsPresentation reports whether the queue can present.
func (q *ResolvedQueue) SupportsPresentation() bool { return q.supportsPresent }

// FamilyProperties returns the queue family properties.
func (q *ResolvedQueue) FamilyProperties() vk.QueueFamilyProperties { return q.familyProperties }

// BasedOn returns the request index this queue aliases, or -1 when the
// queue is distinct.
func (q *ResolvedQueue) BasedOn() int { return q.basedOn }

// Mutex returns the mutex guarding submissions to the underlying VkQueue.
func (q *ResolvedQueue) Mutex() *sync.Mutex { return q.mu }

// Submit submits work through the queue's mutex.
func (q *ResolvedQueue) Submit(cmds *vk.Commands, submits []vk.SubmitInfo, fence vk.Fence) vk.Result {
	if len(submits) == 0 {
		return vk.Success
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return cmds.QueueSubmit(q.handle, uint32(len(submits)), &submits[0], fence)
}

// Present presents through the queue's mutex.
func (q *ResolvedQueue) Present(cmds *vk.Commands, presentInfo *vk.PresentInfoKHR) vk.Result {
	q.mu.Lock()
	defer q.mu.Unlock()
	return cmds.QueuePresentKHR(q.handle, presentInfo)
}

// WaitIdle drains the queue through its mutex.
func (q *ResolvedQueue) WaitIdle(cmds *vk.Commands) vk.Result {
	q.mu.Lock()
	defer q.mu.Unlock()
	return cmds.QueueWaitIdle(q.handle)
}

// queueAssignment records where a request landed.
type queueAssignment struct {
	familyIndex uint32
	queueIndex  uint32
	basedOn     int // request index whose VkQueue this aliases, -1 if distinct
}

// DeviceQueueResolver maps queue requests to families before device
// creation and resolves the actual queues afterwards.
type DeviceQueueResolver struct {
	requests    []QueueRequest
	assignments []queueAssignment
	families    []vk.QueueFamilyProperties
	present     []bool

	createInfos []vk.DeviceQueueCreateInfo
	priorities  [][]float32
}

// selectQueueFamily picks the family with the fewest surplus capability
// bits that still covers the requested flags. Graphics requests prefer
// present-capable families.
func selectQueueFamily(families []vk.QueueFamilyProperties, present []bool, flags vk.QueueFlags) (uint32, bool) {
	best := -1
	bestSurplus := -1
	bestPresent := false

	wantPresent := flags&vk.QueueGraphicsBit != 0
	for i, fam := range families {
		if fam.QueueCount == 0 || fam.QueueFlags&flags != flags {
			continue
		}
		surplus := bits.OnesCount32(fam.QueueFlags &^ flags)
		famPresent := i < len(present) && present[i]
		better := false
		switch {
		case best == -1:
			better = true
		case wantPresent && famPresent != bestPresent:
			better = famPresent
		default:
			better = surplus < bestSurplus
		}
		if better {
			best = i
			bestSurplus = surplus
			bestPresent = famPresent
		}
	}
	if best < 0 {
		return 0, false
	}
	return uint32(best), true
}

// NewDeviceQueueResolver assigns each request to a family. Families with
// fewer distinct queues than assigned requests alias later requests onto
// earlier ones, recording basedOn so the caller can share the per-queue
// mutex.
func NewDeviceQueueResolver(families []vk.QueueFamilyProperties, present []bool, requests []QueueRequest) (*DeviceQueueResolver, error) {
	r := &DeviceQueueResolver{
		requests:    requests,
		assignments: make([]queueAssignment, len(requests)),
		families:    families,
		present:     present,
	}

	// used lists, per family, the request that claimed each distinct queue;
	// its length is the number of distinct queues claimed.
	used := make(map[uint32][]int)

	for i, req := range requests {
		family, ok := selectQueueFamily(families, present, req.Flags)
		if !ok {
			return nil, fmt.Errorf("gpu: no queue family supports flags 0x%x", req.Flags)
		}
		claimed := used[family]
		if uint32(len(claimed)) < families[family].QueueCount {
			r.assignments[i] = queueAssignment{
				familyIndex: family,
				queueIndex:  uint32(len(claimed)),
				basedOn:     -1,
			}
			used[family] = append(claimed, i)
		} else {
			// Alias round-robin over the family's distinct queues.
			alias := claimed[i%len(claimed)]
			r.assignments[i] = queueAssignment{
				familyIndex: family,
				queueIndex:  r.assignments[alias].queueIndex,
				basedOn:     alias,
			}
		}
	}

	// Build one create info per family carrying the distinct queues'
	// priorities.
	for family, claimed := range used {
		prios := make([]float32, len(claimed))
		for qi, reqIdx := range claimed {
			prios[qi] = requests[reqIdx].Priority
		}
		r.priorities = append(r.priorities, prios)
		r.createInfos = append(r.createInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       uint32(len(prios)),
			PQueuePriorities: &r.priorities[len(r.priorities)-1][0],
		})
	}

	return r, nil
}

// DeviceQueueCreateInfos returns the per-family create infos for
// vkCreateDevice. The priority arrays stay alive as long as the resolver.
func (r *DeviceQueueResolver) DeviceQueueCreateInfos() []vk.DeviceQueueCreateInfo {
	return r.createInfos
}

// GetQueues resolves the actual queues after device creation. The returned
// slice parallels the request list.
func (r *DeviceQueueResolver) GetQueues(cmds *vk.Commands, device vk.Device) []*ResolvedQueue {
	queues := make([]*ResolvedQueue, len(r.assignments))

	for i, a := range r.assignments {
		if a.basedOn >= 0 {
			continue
		}
		var handle vk.Queue
		cmds.GetDeviceQueue(device, a.familyIndex, a.queueIndex, &handle)
		queues[i] = &ResolvedQueue{
			handle:           handle,
			familyIndex:      a.familyIndex,
			supportsPresent:  int(a.familyIndex) < len(r.present) && r.present[a.familyIndex],
			familyProperties: r.families[a.familyIndex],
			mu:               &sync.Mutex{},
			basedOn:          -1,
		}
	}

	// Aliased queues share the handle and mutex of the queue they are
	// based on.
	for i, a := range r.assignments {
		if a.basedOn < 0 {
			continue
		}
		base := queues[a.basedOn]
		queues[i] = &ResolvedQueue{
			handle:           base.handle,
			familyIndex:      base.familyIndex,
			supportsPresent:  base.supportsPresent,
			familyProperties: base.familyProperties,
			mu:               base.mu,
			basedOn:          a.basedOn,
		}
	}

	return queues
}
