// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vgfx

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/vgfx/internal/gpu"
	"github.com/gogpu/vgfx/internal/work"
)

// ResourceManager owns every texture and font resource and dispatches their
// load and unload work to the loader thread pool. Resources are addressed
// by ID; the manager is the sole owner.
type ResourceManager struct {
	inst *Instance
	pool *work.Pool

	mu        sync.Mutex
	resources map[ResourceID]resource

	nextID     atomic.Uint64
	nextLoader atomic.Uint32
}

func newResourceManager(inst *Instance, pool *work.Pool) *ResourceManager {
	return &ResourceManager{
		inst:      inst,
		pool:      pool,
		resources: make(map[ResourceID]resource),
	}
}

// selectLoaderThread assigns loader threads round-robin.
func (m *ResourceManager) selectLoaderThread() int {
	return int(m.nextLoader.Add(1)-1) % m.pool.ThreadCount()
}

// register stores the resource and schedules its load task on the owning
// loader thread.
func (m *ResourceManager) register(r resource) error {
	b := r.base()

	m.mu.Lock()
	m.resources[b.id] = r
	m.mu.Unlock()

	_, err := m.pool.ScheduleTask(func(res work.Resource) {
		tr := res.(*gpu.ThreadResources)
		r.load(tr)
		b.markLoadRun()
	}, []int{b.loaderThread}, nil)
	if err != nil {
		m.mu.Lock()
		delete(m.resources, b.id)
		m.mu.Unlock()
		return fmt.Errorf("vgfx: scheduling resource load: %w", err)
	}
	return nil
}

// lookup returns the resource for an ID.
func (m *ResourceManager) lookup(id ResourceID) (resource, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resources[id]
	return r, ok
}

// LoadTexture loads an array texture from image files, one file per array
// layer. The resource starts Undetermined and loads asynchronously.
func (m *ResourceManager) LoadTexture(paths []string) (*TextureResource, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("vgfx: LoadTexture needs at least one file")
	}
	t := &TextureResource{
		resourceBase: newResourceBase(m, ResourceID(m.nextID.Add(1)), m.selectLoaderThread(), paths),
	}
	if err := m.register(t); err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTexture creates an array texture from raw RGBA pixel layers. Every
// layer must hold size[0]*size[1]*4 bytes.
func (m *ResourceManager) CreateTexture(size [2]uint32, pixelLayers [][]byte) (*TextureResource, error) {
	return m.createTexture(size, pixelLayers, 0)
}

// createTexture is the internal variant that can attach the texture as a
// sub-resource of a parent.
func (m *ResourceManager) createTexture(size [2]uint32, pixelLayers [][]byte, parent ResourceID) (*TextureResource, error) {
	if size[0] == 0 || size[1] == 0 {
		return nil, fmt.Errorf("vgfx: CreateTexture with zero extent")
	}
	if len(pixelLayers) == 0 {
		return nil, fmt.Errorf("vgfx: CreateTexture needs at least one pixel layer")
	}
	expect := int(size[0]) * int(size[1]) * 4
	for i, layer := range pixelLayers {
		if len(layer) != expect {
			return nil, fmt.Errorf("vgfx: CreateTexture layer %d has %d bytes, want %d", i, len(layer), expect)
		}
	}

	loaderThread := m.selectLoaderThread()
	if parent != 0 {
		// Sub-resources load on their parent's thread so unload ordering
		// stays local to one thread.
		if p, ok := m.lookup(parent); ok {
			loaderThread = p.base().loaderThread
		}
	}

	t := &TextureResource{
		resourceBase: newResourceBase(m, ResourceID(m.nextID.Add(1)), loaderThread, nil),
		createSize:   size,
		createLayers: pixelLayers,
	}
	t.parent = parent
	if err := m.register(t); err != nil {
		return nil, err
	}
	if parent != 0 {
		if p, ok := m.lookup(parent); ok {
			p.base().addChild(t.id)
		}
	}
	return t, nil
}

// LoadFont loads a font file and rasterizes its glyph atlases
// asynchronously.
func (m *ResourceManager) LoadFont(path string, info FontCreateInfo) (*FontResource, error) {
	if info.GlyphTexelSize == 0 {
		info.GlyphTexelSize = 32
	}
	if info.FallbackCharacter == 0 {
		info.FallbackCharacter = '?'
	}
	f := &FontResource{
		resourceBase: newResourceBase(m, ResourceID(m.nextID.Add(1)), m.selectLoaderThread(), []string{path}),
		info:         info,
	}
	if err := m.register(f); err != nil {
		return nil, err
	}
	return f, nil
}

// Destroy destroys a resource: waits until it is loaded or failed,
// recursively destroys sub-resources and schedules the unload task on the
// owning loader thread.
func (m *ResourceManager) Destroy(r interface{ base() *resourceBase }) {
	m.destroyResource(r.(resource))
}

func (m *ResourceManager) destroyResource(r resource) {
	b := r.base()

	waitUntilDetermined(r, 0)

	for _, childID := range b.childIDs() {
		if child, ok := m.lookup(childID); ok {
			m.destroyResource(child)
		}
	}

	m.mu.Lock()
	delete(m.resources, b.id)
	m.mu.Unlock()

	b.setStatus(ResourceStatusUnavailable)

	_, err := m.pool.ScheduleTask(func(res work.Resource) {
		r.unload(res.(*gpu.ThreadResources))
	}, []int{b.loaderThread}, nil)
	if err != nil {
		// Pool is shutting down; the unload task does not run and the
		// resource's GPU objects are not released.
		m.inst.report(ReportSeverityWarning, fmt.Sprintf("vgfx: resource %d unload not scheduled: %v", b.id, err))
	}
}

// destroyAll waits for every resource to be determined, destroys them and
// drains the loader pool. Called from instance teardown.
func (m *ResourceManager) destroyAll() {
	m.waitDetermined()
	for {
		m.mu.Lock()
		var any resource
		for _, r := range m.resources {
			any = r
			break
		}
		m.mu.Unlock()
		if any == nil {
			break
		}
		m.destroyResource(any)
	}
	m.pool.WaitIdle()
}

// reportLoadFailure records a failed load and notifies the reporter.
func (m *ResourceManager) reportLoadFailure(b *resourceBase, err error) {
	b.setStatus(ResourceStatusFailedToLoad)
	name := "resource"
	if len(b.paths) > 0 {
		name = b.paths[0]
	}
	m.inst.report(ReportSeverityWarning, fmt.Sprintf("vgfx: failed to load %s: %v", name, err))
}

// WaitIdle blocks until all pending loader work drained.
func (m *ResourceManager) WaitIdle() {
	m.pool.WaitIdle()
}

// waitDetermined polls until every resource reports a final status.
func (m *ResourceManager) waitDetermined() {
	for {
		m.mu.Lock()
		undetermined := false
		for _, r := range m.resources {
			if r.poll() == ResourceStatusUndetermined {
				undetermined = true
				break
			}
		}
		m.mu.Unlock()
		if !undetermined {
			return
		}
		time.Sleep(time.Millisecond)
	}
}
