// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package work

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// nopResource is a Resource with no real thread state.
type nopResource struct {
	beginCalled atomic.Bool
	endCalled   atomic.Bool
	beginErr    error
	index       int
}

func (r *nopResource) ThreadBegin(threadIndex int) error {
	r.index = threadIndex
	r.beginCalled.Store(true)
	return r.beginErr
}

func (r *nopResource) ThreadEnd() {
	r.endCalled.Store(true)
}

func newTestPool(t *testing.T, threads int) (*Pool, []*nopResource) {
	t.Helper()
	res := make([]*nopResource, threads)
	ifaces := make([]Resource, threads)
	for i := range res {
		res[i] = &nopResource{}
		ifaces[i] = res[i]
	}
	p, err := NewPool(ifaces)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	return p, res
}

func TestPoolRunsTasks(t *testing.T) {
	p, _ := newTestPool(t, 4)
	defer p.Shutdown()

	var count atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		if _, err := p.ScheduleTask(func(Resource) {
			count.Add(1)
			wg.Done()
		}, nil, nil); err != nil {
			t.Fatalf("ScheduleTask: %v", err)
		}
	}
	wg.Wait()
	if got := count.Load(); got != 100 {
		t.Errorf("ran %d tasks, want 100", got)
	}
}

func TestPoolDependencyOrder(t *testing.T) {
	p, _ := newTestPool(t, 4)
	defer p.Shutdown()

	// Chain of 100 tasks, each depending on the previous. They must run in
	// submission order with no overlap.
	const n = 100
	var mu sync.Mutex
	order := make([]int, 0, n)
	var running atomic.Int32
	var overlapped atomic.Bool
	var wg sync.WaitGroup

	var prev uint64
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		var deps []uint64
		if prev != 0 {
			deps = []uint64{prev}
		}
		idx, err := p.ScheduleTask(func(Resource) {
			if running.Add(1) > 1 {
				overlapped.Store(true)
			}
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			time.Sleep(100 * time.Microsecond)
			running.Add(-1)
			wg.Done()
		}, nil, deps)
		if err != nil {
			t.Fatalf("ScheduleTask: %v", err)
		}
		prev = idx
	}
	wg.Wait()

	if overlapped.Load() {
		t.Error("dependent tasks ran concurrently")
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("order[%d] = %d, want %d", i, got, i)
		}
	}
}

func TestPoolThreadLock(t *testing.T) {
	p, _ := newTestPool(t, 4)
	defer p.Shutdown()

	var wg sync.WaitGroup
	var wrongThread atomic.Bool
	for i := 0; i < 50; i++ {
		wg.Add(1)
		if _, err := p.ScheduleTask(func(res Resource) {
			if res.(*nopResource).index != 2 {
				wrongThread.Store(true)
			}
			wg.Done()
		}, []int{2}, nil); err != nil {
			t.Fatalf("ScheduleTask: %v", err)
		}
	}
	wg.Wait()
	if wrongThread.Load() {
		t.Error("thread-locked task ran on a different thread")
	}
}

func TestPoolScheduleAfterShutdown(t *testing.T) {
	p, _ := newTestPool(t, 1)
	p.Shutdown()

	if _, err := p.ScheduleTask(func(Resource) {}, nil, nil); !errors.Is(err, ErrShuttingDown) {
		t.Errorf("ScheduleTask after Shutdown = %v, want ErrShuttingDown", err)
	}
}

func TestPoolShutdownDrains(t *testing.T) {
	p, _ := newTestPool(t, 2)

	var count atomic.Int32
	for i := 0; i < 20; i++ {
		if _, err := p.ScheduleTask(func(Resource) {
			time.Sleep(time.Millisecond)
			count.Add(1)
		}, nil, nil); err != nil {
			t.Fatalf("ScheduleTask: %v", err)
		}
	}
	p.Shutdown()
	if got := count.Load(); got != 20 {
		t.Errorf("shutdown drained %d tasks, want 20", got)
	}
}

func TestPoolThreadEndRunsOnBeginFailure(t *testing.T) {
	bad := &nopResource{beginErr: errors.New("no thread state")}
	good := &nopResource{}

	_, err := NewPool([]Resource{bad, good})
	if err == nil {
		t.Fatal("NewPool should fail when ThreadBegin fails")
	}
	if !bad.endCalled.Load() {
		t.Error("ThreadEnd did not run after failed ThreadBegin")
	}
	if !good.endCalled.Load() {
		t.Error("ThreadEnd did not run on sibling thread during teardown")
	}
}
