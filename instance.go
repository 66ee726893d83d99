// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vgfx

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/vgfx/internal/gpu"
	"github.com/gogpu/vgfx/internal/vk"
	"github.com/gogpu/vgfx/internal/work"
)

// glfwRefCount counts live instances; the window system library is
// initialized with the first instance and terminated with the last.
var glfwRefCount atomic.Int32

// InstanceCreateInfo configures instance creation.
type InstanceCreateInfo struct {
	ApplicationName    string
	ApplicationVersion [3]uint32
	EngineName         string
	EngineVersion      [3]uint32

	// ReportCallback receives diagnostics; nil routes them to the default
	// logger.
	ReportCallback ReportFunc

	// ResourceLoaderThreadCount sizes the loader pool. Zero means half
	// the logical CPUs, at least one.
	ResourceLoaderThreadCount uint32

	// Debug enables the Vulkan validation layer when present.
	Debug bool
}

// Instance owns the Vulkan device, the loader thread pool, the resource
// manager and every window, render target, sampler and cursor. It must be
// created and driven from the main goroutine, locked to the main OS
// thread.
type Instance struct {
	info     InstanceCreateInfo
	reporter *reporter

	vkInstance vk.Instance
	cmds       *vk.Commands
	dev        *gpu.Device

	workers         *work.Pool
	threadResources []*gpu.ThreadResources
	resources       *ResourceManager

	mainDescriptors *gpu.AutoPool

	windows       []*Window
	renderTargets []*RenderTargetTexture
	samplers      []*Sampler
	cursors       []*Cursor

	defaultSampler *Sampler
	defaultTexture *TextureResource

	monitorCallback func(monitor *Monitor, connected bool)
	gamepadCallback func(gamepad int, connected bool)

	creatorGoroutine uint64
	broken           atomic.Bool
}

// goroutineID parses the current goroutine's ID from the runtime stack.
// Used only to assert main-thread-only entry points.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	// "goroutine 12 [running]:"
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return 0
	}
	id, _ := strconv.ParseUint(string(fields[1]), 10, 64)
	return id
}

// NewInstance creates an instance: window system init, Vulkan instance,
// device selection, loader thread pool, resource manager and the default
// sampler and texture.
func NewInstance(info InstanceCreateInfo) (*Instance, error) {
	i := &Instance{
		info:             info,
		reporter:         newReporter(info.ReportCallback),
		creatorGoroutine: goroutineID(),
	}

	if glfwRefCount.Add(1) == 1 {
		if err := glfw.Init(); err != nil {
			glfwRefCount.Add(-1)
			return nil, fmt.Errorf("vgfx: initializing window system: %w", err)
		}
	}
	if !glfw.VulkanSupported() {
		i.teardownGLFW()
		return nil, fmt.Errorf("vgfx: window system reports no Vulkan support")
	}

	if err := vk.Init(); err != nil {
		i.teardownGLFW()
		return nil, fmt.Errorf("vgfx: loading Vulkan: %w", err)
	}

	if err := i.createVulkanInstance(); err != nil {
		i.teardownGLFW()
		return nil, err
	}

	dev, err := gpu.NewDevice(i.cmds, i.vkInstance, 0)
	if err != nil {
		i.cmds.DestroyInstance(i.vkInstance, nil)
		i.teardownGLFW()
		return nil, err
	}
	i.dev = dev
	i.mainDescriptors = gpu.NewAutoPool(dev.Cmds, dev.Handle)

	threadCount := int(info.ResourceLoaderThreadCount)
	if threadCount == 0 {
		threadCount = runtime.NumCPU() / 2
	}
	if threadCount < 1 {
		threadCount = 1
	}
	resources := make([]work.Resource, threadCount)
	i.threadResources = make([]*gpu.ThreadResources, threadCount)
	for idx := range resources {
		tr := gpu.NewThreadResources(dev)
		i.threadResources[idx] = tr
		resources[idx] = tr
	}
	i.workers, err = work.NewPool(resources)
	if err != nil {
		i.destroyDeviceState()
		return nil, fmt.Errorf("vgfx: starting loader threads: %w", err)
	}

	i.resources = newResourceManager(i, i.workers)

	if err := i.createDefaults(); err != nil {
		i.Destroy()
		return nil, err
	}

	i.report(ReportSeverityInfo, fmt.Sprintf("vgfx: using %s", vk.CStringToGo(dev.Properties.DeviceName[:])))
	return i, nil
}

func (i *Instance) createVulkanInstance() error {
	cmds := vk.NewCommands()
	if err := cmds.LoadGlobal(); err != nil {
		return fmt.Errorf("vgfx: %w", err)
	}

	appName := append([]byte(i.info.ApplicationName), 0)
	engineName := i.info.EngineName
	if engineName == "" {
		engineName = "vgfx"
	}
	engineNameC := append([]byte(engineName), 0)

	appInfo := vk.ApplicationInfo{
		SType:            vk.StructureTypeApplicationInfo,
		PApplicationName: uintptr(unsafe.Pointer(&appName[0])),
		ApplicationVersion: vk.MakeVersion(i.info.ApplicationVersion[0],
			i.info.ApplicationVersion[1], i.info.ApplicationVersion[2]),
		PEngineName: uintptr(unsafe.Pointer(&engineNameC[0])),
		EngineVersion: vk.MakeVersion(i.info.EngineVersion[0],
			i.info.EngineVersion[1], i.info.EngineVersion[2]),
		ApiVersion: vk.MakeVersion(1, 2, 0),
	}

	// The window system knows which surface extensions this platform
	// needs.
	extensions := glfw.GetRequiredInstanceExtensions()
	var layers []string
	if i.info.Debug {
		layers = append(layers, "VK_LAYER_KHRONOS_validation")
		extensions = append(extensions, "VK_EXT_debug_utils")
	}

	extensionC := make([][]byte, len(extensions))
	extensionPtrs := make([]uintptr, len(extensions))
	for idx, ext := range extensions {
		extensionC[idx] = append([]byte(ext), 0)
		extensionPtrs[idx] = uintptr(unsafe.Pointer(&extensionC[idx][0]))
	}
	layerC := make([][]byte, len(layers))
	layerPtrs := make([]uintptr, len(layers))
	for idx, layer := range layers {
		layerC[idx] = append([]byte(layer), 0)
		layerPtrs[idx] = uintptr(unsafe.Pointer(&layerC[idx][0]))
	}

	createInfo := vk.InstanceCreateInfo{
		SType:                 vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:      &appInfo,
		EnabledExtensionCount: uint32(len(extensions)),
		EnabledLayerCount:     uint32(len(layers)),
	}
	if len(extensionPtrs) > 0 {
		createInfo.PpEnabledExtensionNames = uintptr(unsafe.Pointer(&extensionPtrs[0]))
	}
	if len(layerPtrs) > 0 {
		createInfo.PpEnabledLayerNames = uintptr(unsafe.Pointer(&layerPtrs[0]))
	}

	var instance vk.Instance
	if result := cmds.CreateInstance(&createInfo, nil, &instance); result != vk.Success {
		return fmt.Errorf("vgfx: vkCreateInstance failed: %d", result)
	}
	runtime.KeepAlive(appName)
	runtime.KeepAlive(engineNameC)
	runtime.KeepAlive(extensionC)
	runtime.KeepAlive(layerC)
	runtime.KeepAlive(extensionPtrs)
	runtime.KeepAlive(layerPtrs)

	if err := cmds.LoadInstance(instance); err != nil {
		cmds.DestroyInstance(instance, nil)
		return fmt.Errorf("vgfx: %w", err)
	}

	i.cmds = cmds
	i.vkInstance = instance
	return nil
}

// createDefaults builds the 1x1 white default texture and the default
// sampler every untextured draw uses.
func (i *Instance) createDefaults() error {
	sampler, err := i.CreateSampler(DefaultSamplerCreateInfo())
	if err != nil {
		return err
	}
	i.defaultSampler = sampler

	white := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	texture, err := i.resources.CreateTexture([2]uint32{1, 1}, [][]byte{white})
	if err != nil {
		return err
	}
	if status, _ := texture.WaitUntilLoaded(0); status != ResourceStatusLoaded {
		return fmt.Errorf("vgfx: default texture failed to load: %s", status)
	}
	i.defaultTexture = texture
	return nil
}

// assertCreatorThread panics when a main-thread-only entry point is
// called from another goroutine.
func (i *Instance) assertCreatorThread(op string) {
	if id := goroutineID(); id != i.creatorGoroutine {
		panic(fmt.Sprintf("vgfx: %s must run on the goroutine that created the instance (created on %d, called on %d)",
			op, i.creatorGoroutine, id))
	}
}

// report routes a message through the reporter.
func (i *Instance) report(severity ReportSeverity, message string) {
	i.reporter.Report(severity, message)
}

// deviceLost records a GPU reset. The instance cannot continue; Run will
// report false.
func (i *Instance) deviceLost(message string) {
	i.broken.Store(true)
	i.report(ReportSeverityDeviceLost, message)
}

// GetResourceManager returns the resource manager.
func (i *Instance) GetResourceManager() *ResourceManager { return i.resources }

// GetMaximumSupportedMultisampling returns the highest usable sample
// count.
func (i *Instance) GetMaximumSupportedMultisampling() Multisamples {
	return Multisamples(i.dev.MaxSupportedMultisampling())
}

// GetAllSupportedMultisampling lists every supported sample count.
func (i *Instance) GetAllSupportedMultisampling() []Multisamples {
	counts := i.dev.AllSupportedMultisampling()
	out := make([]Multisamples, len(counts))
	for idx, c := range counts {
		out[idx] = Multisamples(c)
	}
	return out
}

// Run pumps window system events. It reports true while any window remains
// open and the instance is healthy; a typical application loops on it.
func (i *Instance) Run() bool {
	i.assertCreatorThread("Run")

	if i.broken.Load() {
		return false
	}

	glfw.PollEvents()

	for _, w := range i.windows {
		if !w.ShouldClose() {
			return true
		}
	}
	return false
}

func (i *Instance) teardownGLFW() {
	if glfwRefCount.Add(-1) == 0 {
		glfw.Terminate()
	}
}

func (i *Instance) destroyDeviceState() {
	if i.mainDescriptors != nil {
		i.mainDescriptors.Destroy()
		i.mainDescriptors = nil
	}
	if i.dev != nil {
		i.dev.Destroy()
		i.dev = nil
	}
	if i.vkInstance != 0 {
		i.cmds.DestroyInstance(i.vkInstance, nil)
		i.vkInstance = 0
	}
	i.teardownGLFW()
}

// Destroy tears the instance down: windows, render targets, resources,
// loader threads, device and window system, in that order. Main thread
// only.
func (i *Instance) Destroy() {
	i.assertCreatorThread("Destroy")

	for len(i.windows) > 0 {
		i.DestroyOutputWindow(i.windows[0])
	}
	for len(i.renderTargets) > 0 {
		i.DestroyRenderTargetTexture(i.renderTargets[0])
	}

	if i.resources != nil {
		i.resources.destroyAll()
		i.resources = nil
	}
	if i.workers != nil {
		i.workers.Shutdown()
		i.workers = nil
	}

	if i.dev != nil {
		i.dev.WaitIdle()
	}

	for len(i.samplers) > 0 {
		i.DestroySampler(i.samplers[0])
	}
	for len(i.cursors) > 0 {
		i.DestroyCursor(i.cursors[0])
	}

	i.destroyDeviceState()
}
