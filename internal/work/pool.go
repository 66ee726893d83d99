// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package work provides a task-graph worker pool with per-thread private
// resources. Based on the render-thread architecture used elsewhere in
// gogpu: every worker is a goroutine locked to an OS thread so thread-bound
// resources (command pools, font handles) stay valid for the thread's
// lifetime.
//
// Tasks carry a monotonically increasing index, an optional dependency list
// (indices of tasks that must leave the queue first) and an optional list of
// thread indices the task is locked to. Workers pick the first eligible task
// in submission order.
package work

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// pollInterval bounds how long a worker sleeps between queue scans even
// when no wakeup arrives.
const pollInterval = 10 * time.Millisecond

// ErrShuttingDown is returned by ScheduleTask after Shutdown began.
var ErrShuttingDown = errors.New("work: pool is shutting down")

// Resource is the private state a worker thread owns. ThreadBegin runs on
// the worker's OS thread before any task; ThreadEnd always runs at thread
// exit, even when ThreadBegin fails.
type Resource interface {
	ThreadBegin(threadIndex int) error
	ThreadEnd()
}

// TaskFunc is the body of a task. It receives the private resource of the
// worker thread that picked the task up.
type TaskFunc func(res Resource)

type task struct {
	index    uint64
	fn       TaskFunc
	lockedTo []int
	deps     []uint64
	running  atomic.Bool
}

// Pool is the worker pool.
type Pool struct {
	mu    sync.Mutex
	tasks []*task

	indexCounter atomic.Uint64
	shuttingDown atomic.Bool
	done         chan struct{}

	resources []Resource
	wakeups   []chan struct{}
	wg        sync.WaitGroup

	initErr error
}

// NewPool starts one worker per resource. The resources slice is consumed;
// index i becomes thread index i. If any worker's ThreadBegin fails the
// pool is shut down and the first error returned.
func NewPool(resources []Resource) (*Pool, error) {
	p := &Pool{
		done:      make(chan struct{}),
		resources: resources,
		wakeups:   make([]chan struct{}, len(resources)),
	}

	initErrs := make([]error, len(resources))
	var initWG sync.WaitGroup
	for i := range resources {
		p.wakeups[i] = make(chan struct{}, 1)
		initWG.Add(1)
		p.wg.Add(1)
		go p.worker(i, &initWG, &initErrs[i])
	}
	initWG.Wait()

	for _, err := range initErrs {
		if err != nil {
			p.initErr = err
			p.Shutdown()
			return nil, err
		}
	}
	return p, nil
}

func (p *Pool) worker(threadIndex int, initWG *sync.WaitGroup, initErr *error) {
	defer p.wg.Done()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	res := p.resources[threadIndex]
	err := res.ThreadBegin(threadIndex)
	// ThreadEnd must run even when ThreadBegin failed.
	defer res.ThreadEnd()

	*initErr = err
	initWG.Done()
	if err != nil {
		return
	}

	for {
		if t := p.findWork(threadIndex); t != nil {
			t.fn(res)
			p.complete(t)
			continue
		}

		select {
		case <-p.wakeups[threadIndex]:
		case <-time.After(pollInterval):
		case <-p.done:
			// Drain remaining eligible work before exiting.
			if t := p.findWork(threadIndex); t != nil {
				t.fn(res)
				p.complete(t)
				continue
			}
			return
		}
	}
}

// findWork scans the task list in submission order and returns the first
// task that is not running, not locked to another thread and has no live
// dependencies. The returned task is atomically marked running.
func (p *Pool) findWork(threadIndex int) *task {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, t := range p.tasks {
		if t.running.Load() {
			continue
		}
		if len(t.lockedTo) > 0 && !containsInt(t.lockedTo, threadIndex) {
			continue
		}
		if p.hasLiveDependencyLocked(t) {
			continue
		}
		t.running.Store(true)
		return t
	}
	return nil
}

// hasLiveDependencyLocked reports whether any of the task's dependencies is
// still present in the task list. Callers hold p.mu.
func (p *Pool) hasLiveDependencyLocked(t *task) bool {
	for _, dep := range t.deps {
		for _, other := range p.tasks {
			if other.index == dep {
				return true
			}
		}
	}
	return false
}

// complete removes a finished task from the list and wakes all workers so
// dependents can run.
func (p *Pool) complete(t *task) {
	p.mu.Lock()
	for i, other := range p.tasks {
		if other == t {
			p.tasks = append(p.tasks[:i], p.tasks[i+1:]...)
			break
		}
	}
	p.mu.Unlock()
	p.signalAll()
}

func (p *Pool) signalAll() {
	for _, ch := range p.wakeups {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// ScheduleTask appends a task and returns its index for use in dependency
// lists. lockedTo restricts execution to the given thread indices; deps
// lists task indices that must complete first.
func (p *Pool) ScheduleTask(fn TaskFunc, lockedTo []int, deps []uint64) (uint64, error) {
	if p.shuttingDown.Load() {
		return 0, ErrShuttingDown
	}

	t := &task{
		index:    p.indexCounter.Add(1),
		fn:       fn,
		lockedTo: lockedTo,
		deps:     deps,
	}

	p.mu.Lock()
	p.tasks = append(p.tasks, t)
	p.mu.Unlock()
	p.signalAll()

	return t.index, nil
}

// ThreadCount returns the number of worker threads.
func (p *Pool) ThreadCount() int {
	return len(p.resources)
}

// IsTaskListEmpty reports whether no tasks are queued or running.
func (p *Pool) IsTaskListEmpty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tasks) == 0
}

// WaitIdle blocks until the task list drains. Meant for shutdown paths; the
// poll can add up to a millisecond of latency.
func (p *Pool) WaitIdle() {
	for !p.IsTaskListEmpty() {
		time.Sleep(time.Millisecond)
	}
}

// Shutdown drains the queue, signals workers to exit and joins them.
// Scheduling after Shutdown returns ErrShuttingDown.
func (p *Pool) Shutdown() {
	if p.shuttingDown.Swap(true) {
		return
	}
	p.WaitIdle()
	close(p.done)
	p.signalAll()
	p.wg.Wait()
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
