// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vgfx

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/vgfx/internal/gpu"
)

// ResourceStatus is the lifecycle state of a resource.
type ResourceStatus int32

// Resource statuses.
const (
	// ResourceStatusUndetermined means loading has not finished yet.
	ResourceStatusUndetermined ResourceStatus = iota

	// ResourceStatusLoaded means the resource is ready for use.
	ResourceStatusLoaded

	// ResourceStatusFailedToLoad means loading failed; the resource stays
	// unusable but can be queried and destroyed.
	ResourceStatusFailedToLoad

	// ResourceStatusUnavailable means the resource was torn down.
	ResourceStatusUnavailable
)

// String returns the status name.
func (s ResourceStatus) String() string {
	switch s {
	case ResourceStatusUndetermined:
		return "Undetermined"
	case ResourceStatusLoaded:
		return "Loaded"
	case ResourceStatusFailedToLoad:
		return "FailedToLoad"
	case ResourceStatusUnavailable:
		return "Unavailable"
	default:
		return "Unknown"
	}
}

// ResourceID identifies a resource inside its manager. Parent and child
// links are IDs, never pointers.
type ResourceID uint64

// resource is the manager-side view of a loadable resource.
type resource interface {
	base() *resourceBase

	// load runs on the owning loader thread.
	load(tr *gpu.ThreadResources)

	// unload runs on the owning loader thread after destruction.
	unload(tr *gpu.ThreadResources)

	// poll re-evaluates the status without blocking. Called by Status and
	// the wait loop; may promote Undetermined to Loaded or FailedToLoad.
	poll() ResourceStatus
}

// resourceBase carries the state every resource shares.
type resourceBase struct {
	id  ResourceID
	mgr *ResourceManager

	status atomic.Int32

	// loadRun closes when the load function has returned, regardless of
	// success, so queriers can tell "not started" from "failed".
	loadRun     chan struct{}
	loadRunOnce sync.Once

	parent       ResourceID // 0 when the resource is top level
	childMu      sync.Mutex
	children     []ResourceID
	loaderThread int
	paths        []string
}

func newResourceBase(mgr *ResourceManager, id ResourceID, loaderThread int, paths []string) resourceBase {
	return resourceBase{
		id:           id,
		mgr:          mgr,
		loadRun:      make(chan struct{}),
		loaderThread: loaderThread,
		paths:        paths,
	}
}

func (b *resourceBase) base() *resourceBase { return b }

func (b *resourceBase) setStatus(s ResourceStatus) {
	b.status.Store(int32(s))
}

// storedStatus returns the recorded status without polling.
func (b *resourceBase) storedStatus() ResourceStatus {
	return ResourceStatus(b.status.Load())
}

// markLoadRun signals the load fence.
func (b *resourceBase) markLoadRun() {
	b.loadRunOnce.Do(func() { close(b.loadRun) })
}

// loadRunDone reports whether the load function has returned.
func (b *resourceBase) loadRunDone() bool {
	select {
	case <-b.loadRun:
		return true
	default:
		return false
	}
}

// addChild links a sub-resource under the mutex.
func (b *resourceBase) addChild(id ResourceID) {
	b.childMu.Lock()
	b.children = append(b.children, id)
	b.childMu.Unlock()
}

func (b *resourceBase) childIDs() []ResourceID {
	b.childMu.Lock()
	defer b.childMu.Unlock()
	return append([]ResourceID(nil), b.children...)
}

// waitUntilDetermined blocks until poll reports a final status, or until
// the timeout elapses. A zero timeout waits without bound. Reports the
// final status and whether it was reached in time.
func waitUntilDetermined(r resource, timeout time.Duration) (ResourceStatus, bool) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	// The load fence first, so the poll below sees finished work.
	if timeout > 0 {
		select {
		case <-r.base().loadRun:
		case <-time.After(timeout):
			return ResourceStatusUndetermined, false
		}
	} else {
		<-r.base().loadRun
	}

	for {
		if s := r.poll(); s != ResourceStatusUndetermined {
			return s, true
		}
		if timeout > 0 && time.Now().After(deadline) {
			return ResourceStatusUndetermined, false
		}
		time.Sleep(time.Millisecond)
	}
}
