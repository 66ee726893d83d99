// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vgfx

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/vgfx/internal/gpu"
	"github.com/gogpu/vgfx/internal/gpu/memory"
	"github.com/gogpu/vgfx/internal/vk"
)

// transformCapacity is the number of per-draw transformation matrices a
// window can record in one frame.
const transformCapacity = 16384

// descriptorSetMaxAge is how many frames a cached sampler or texture
// descriptor set survives unused before eviction.
const descriptorSetMaxAge = 600

// WindowEventHandler receives window system events. Any field may be nil.
type WindowEventHandler struct {
	OnClose       func(w *Window)
	OnResize      func(w *Window, width, height uint32)
	OnFocus       func(w *Window, focused bool)
	OnIconify     func(w *Window, iconified bool)
	OnKey         func(w *Window, key int, scancode int, action int, mods int)
	OnChar        func(w *Window, char rune)
	OnMouseButton func(w *Window, button int, action int, mods int)
	OnCursorPos   func(w *Window, x, y float64)
	OnScroll      func(w *Window, x, y float64)
}

// WindowCreateInfo configures an output window.
type WindowCreateInfo struct {
	Size    [2]uint32
	MinSize [2]uint32
	MaxSize [2]uint32

	CoordinateSpace CoordinateSpace

	Resizeable             bool
	Visible                bool
	Decorated              bool
	Focused                bool
	Maximized              bool
	TransparentFramebuffer bool

	// FullscreenMonitor selects fullscreen output: 0 is windowed, 1 based
	// indices address the monitor list.
	FullscreenMonitor     int
	FullscreenRefreshRate uint32

	VSync   bool
	Samples Multisamples

	Title        string
	EventHandler WindowEventHandler
}

// DefaultWindowCreateInfo returns a visible, decorated, resizeable 800x600
// vsynced window in texel space.
func DefaultWindowCreateInfo() WindowCreateInfo {
	return WindowCreateInfo{
		Size:       [2]uint32{800, 600},
		Resizeable: true,
		Visible:    true,
		Decorated:  true,
		Focused:    true,
		VSync:      true,
		Samples:    1,
	}
}

// cachedSet is a descriptor set cached by a window, stamped for aging.
type cachedSet struct {
	set      gpu.PoolSet
	lastUsed uint64
}

// Window is a rendering output backed by a swapchain. All methods are main
// thread only.
type Window struct {
	inst *Instance
	info WindowCreateInfo

	glfwWin *glfw.Window
	surface vk.SurfaceKHR

	surfaceFormat vk.SurfaceFormatKHR
	swapchain     vk.SwapchainKHR
	images        []vk.Image
	views         []vk.ImageView
	extent        vk.Extent2D
	samples       vk.SampleCountFlagBits

	renderPass   vk.RenderPass
	framebuffers []vk.Framebuffer
	msaaTargets  []memory.CompleteImage

	commandPool vk.CommandPool
	renderCBs   []vk.CommandBuffer
	transferCB  vk.CommandBuffer

	acquireFence     vk.Fence
	presentSems      []vk.Semaphore
	renderDoneFences []vk.Fence
	framePending     []bool
	transferDoneSem  vk.Semaphore

	frameData    memory.CompleteBuffer
	frameDataSet gpu.PoolSet

	transformBuffer memory.CompleteBuffer
	transformSet    gpu.PoolSet
	transforms      []mgl32.Mat4

	meshBuffer *gpu.MeshBuffer

	samplerSets map[*Sampler]*cachedSet
	textureSets map[Texture]*cachedSet

	inRender     bool
	needRecreate bool
	nextImage    uint32
	prevImage    uint32
	hasPrevImage bool

	havePipeline   bool
	boundPipeline  gpu.GraphicsPipelineSettings
	boundSampler   *Sampler
	boundTexture   Texture
	boundLineWidth float32

	frameCounter uint64
	rttDeps      []*RenderTargetTexture
}

// swapchainImageCountForVSync returns the image count policy: 2 with vsync
// (fifo), 3 without, clamped to the surface capabilities.
func swapchainImageCountForVSync(vsync bool, minCount, maxCount uint32) uint32 {
	want := uint32(3)
	if vsync {
		want = 2
	}
	if want < minCount {
		want = minCount
	}
	if maxCount > 0 && want > maxCount {
		want = maxCount
	}
	return want
}

// CreateOutputWindow opens a window and its rendering state. Main thread
// only.
func (i *Instance) CreateOutputWindow(info WindowCreateInfo) (*Window, error) {
	i.assertCreatorThread("CreateOutputWindow")

	if info.Size[0] == 0 || info.Size[1] == 0 {
		info.Size = [2]uint32{800, 600}
	}
	if info.Samples == 0 {
		info.Samples = 1
	}

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, boolHint(info.Resizeable))
	glfw.WindowHint(glfw.Visible, boolHint(info.Visible))
	glfw.WindowHint(glfw.Decorated, boolHint(info.Decorated))
	glfw.WindowHint(glfw.Focused, boolHint(info.Focused))
	glfw.WindowHint(glfw.Maximized, boolHint(info.Maximized))
	glfw.WindowHint(glfw.TransparentFramebuffer, boolHint(info.TransparentFramebuffer))

	var monitor *glfw.Monitor
	if info.FullscreenMonitor > 0 {
		monitors := glfw.GetMonitors()
		idx := info.FullscreenMonitor - 1
		if idx >= len(monitors) {
			return nil, fmt.Errorf("vgfx: fullscreen monitor %d out of range (%d monitors)", info.FullscreenMonitor, len(monitors))
		}
		monitor = monitors[idx]
		if info.FullscreenRefreshRate > 0 {
			glfw.WindowHint(glfw.RefreshRate, int(info.FullscreenRefreshRate))
		}
	}

	glfwWin, err := glfw.CreateWindow(int(info.Size[0]), int(info.Size[1]), info.Title, monitor, nil)
	if err != nil {
		return nil, fmt.Errorf("vgfx: creating window: %w", err)
	}

	minW, minH := glfw.DontCare, glfw.DontCare
	maxW, maxH := glfw.DontCare, glfw.DontCare
	if info.MinSize[0] > 0 {
		minW, minH = int(info.MinSize[0]), int(info.MinSize[1])
	}
	if info.MaxSize[0] > 0 {
		maxW, maxH = int(info.MaxSize[0]), int(info.MaxSize[1])
	}
	glfwWin.SetSizeLimits(minW, minH, maxW, maxH)

	w := &Window{
		inst:        i,
		info:        info,
		glfwWin:     glfwWin,
		samples:     vk.SampleCountFlagBits(info.Samples),
		samplerSets: make(map[*Sampler]*cachedSet),
		textureSets: make(map[Texture]*cachedSet),
		transforms:  make([]mgl32.Mat4, 0, 256),
	}
	w.installCallbacks()

	if err := w.createSurface(); err != nil {
		glfwWin.Destroy()
		return nil, err
	}
	if err := w.createRenderState(); err != nil {
		w.destroyRenderState(true)
		i.dev.Cmds.DestroySurfaceKHR(i.dev.Instance, w.surface, nil)
		glfwWin.Destroy()
		return nil, err
	}

	i.windows = append(i.windows, w)
	return w, nil
}

// DestroyOutputWindow closes a window and releases its resources. Main
// thread only.
func (i *Instance) DestroyOutputWindow(w *Window) {
	i.assertCreatorThread("DestroyOutputWindow")
	if w == nil {
		return
	}

	for idx, other := range i.windows {
		if other == w {
			i.windows = append(i.windows[:idx], i.windows[idx+1:]...)
			break
		}
	}

	i.dev.WaitIdle()
	w.destroyRenderState(true)
	if w.surface != 0 {
		i.dev.Cmds.DestroySurfaceKHR(i.dev.Instance, w.surface, nil)
		w.surface = 0
	}
	if w.glfwWin != nil {
		w.glfwWin.Destroy()
		w.glfwWin = nil
	}
}

func boolHint(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

func (w *Window) installCallbacks() {
	h := &w.info.EventHandler
	w.glfwWin.SetCloseCallback(func(*glfw.Window) {
		if h.OnClose != nil {
			h.OnClose(w)
		}
	})
	w.glfwWin.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.needRecreate = true
		if h.OnResize != nil {
			h.OnResize(w, uint32(width), uint32(height))
		}
	})
	w.glfwWin.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		if h.OnFocus != nil {
			h.OnFocus(w, focused)
		}
	})
	w.glfwWin.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		if h.OnIconify != nil {
			h.OnIconify(w, iconified)
		}
	})
	w.glfwWin.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if h.OnKey != nil {
			h.OnKey(w, int(key), scancode, int(action), int(mods))
		}
	})
	w.glfwWin.SetCharCallback(func(_ *glfw.Window, char rune) {
		if h.OnChar != nil {
			h.OnChar(w, char)
		}
	})
	w.glfwWin.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if h.OnMouseButton != nil {
			h.OnMouseButton(w, int(button), int(action), int(mods))
		}
	})
	w.glfwWin.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if h.OnCursorPos != nil {
			h.OnCursorPos(w, x, y)
		}
	})
	w.glfwWin.SetScrollCallback(func(_ *glfw.Window, x, y float64) {
		if h.OnScroll != nil {
			h.OnScroll(w, x, y)
		}
	})
}

// createSurface makes the Vulkan surface and checks the render queue can
// present to it.
func (w *Window) createSurface() error {
	dev := w.inst.dev

	// glfw expects a pointer-shaped VkInstance.
	instancePtr := (*struct{})(unsafe.Pointer(uintptr(dev.Instance)))
	raw, err := w.glfwWin.CreateWindowSurface(instancePtr, nil)
	if err != nil {
		return fmt.Errorf("vgfx: creating window surface: %w", err)
	}
	w.surface = vk.SurfaceKHR(raw)

	var supported vk.Bool32
	family := dev.Queues[gpu.QueuePrimaryRender].FamilyIndex()
	result := dev.Cmds.GetPhysicalDeviceSurfaceSupportKHR(dev.Physical, family, w.surface, &supported)
	if result != vk.Success || supported != vk.True {
		return fmt.Errorf("vgfx: render queue family %d cannot present to this surface", family)
	}
	return nil
}

// chooseSurfaceFormat prefers BGRA8 UNORM in sRGB nonlinear space.
func (w *Window) chooseSurfaceFormat() error {
	dev := w.inst.dev

	var count uint32
	if result := dev.Cmds.GetPhysicalDeviceSurfaceFormatsKHR(dev.Physical, w.surface, &count, nil); result != vk.Success || count == 0 {
		return fmt.Errorf("vgfx: querying surface formats failed: %d", result)
	}
	formats := make([]vk.SurfaceFormatKHR, count)
	if result := dev.Cmds.GetPhysicalDeviceSurfaceFormatsKHR(dev.Physical, w.surface, &count, &formats[0]); result != vk.Success {
		return fmt.Errorf("vgfx: querying surface formats failed: %d", result)
	}

	w.surfaceFormat = formats[0]
	for _, f := range formats[:count] {
		if f.Format == vk.FormatB8g8r8a8Unorm && f.ColorSpace == vk.ColorSpaceSrgbNonlinearKhr {
			w.surfaceFormat = f
			break
		}
	}
	return nil
}

// choosePresentMode maps the vsync policy to a present mode the surface
// supports.
func (w *Window) choosePresentMode() vk.PresentModeKHR {
	if w.info.VSync {
		return vk.PresentModeFifoKhr
	}

	dev := w.inst.dev
	var count uint32
	if dev.Cmds.GetPhysicalDeviceSurfacePresentModesKHR(dev.Physical, w.surface, &count, nil) != vk.Success || count == 0 {
		return vk.PresentModeFifoKhr
	}
	modes := make([]vk.PresentModeKHR, count)
	if dev.Cmds.GetPhysicalDeviceSurfacePresentModesKHR(dev.Physical, w.surface, &count, &modes[0]) != vk.Success {
		return vk.PresentModeFifoKhr
	}

	for _, want := range []vk.PresentModeKHR{vk.PresentModeMailboxKhr, vk.PresentModeImmediateKhr} {
		for _, m := range modes[:count] {
			if m == want {
				return m
			}
		}
	}
	return vk.PresentModeFifoKhr
}

// createRenderState brings up everything from the swapchain to the mesh
// buffer.
func (w *Window) createRenderState() error {
	if err := w.chooseSurfaceFormat(); err != nil {
		return err
	}
	if err := w.createSwapchain(); err != nil {
		return err
	}
	if err := w.createRenderPass(); err != nil {
		return err
	}
	if err := w.createFramebuffers(); err != nil {
		return err
	}
	if err := w.createCommandState(); err != nil {
		return err
	}
	if err := w.createFrameResources(); err != nil {
		return err
	}
	w.meshBuffer = gpu.NewMeshBuffer(w.inst.dev, w.inst.mainDescriptors, gpu.DefaultMeshBufferConfig())
	return nil
}

func (w *Window) createSwapchain() error {
	dev := w.inst.dev

	var caps vk.SurfaceCapabilitiesKHR
	if result := dev.Cmds.GetPhysicalDeviceSurfaceCapabilitiesKHR(dev.Physical, w.surface, &caps); result != vk.Success {
		return fmt.Errorf("vgfx: querying surface capabilities failed: %d", result)
	}

	extent := caps.CurrentExtent
	if extent.Width == 0xFFFFFFFF {
		fbW, fbH := w.glfwWin.GetFramebufferSize()
		extent = vk.Extent2D{Width: uint32(fbW), Height: uint32(fbH)}
		if extent.Width < caps.MinImageExtent.Width {
			extent.Width = caps.MinImageExtent.Width
		}
		if extent.Width > caps.MaxImageExtent.Width {
			extent.Width = caps.MaxImageExtent.Width
		}
		if extent.Height < caps.MinImageExtent.Height {
			extent.Height = caps.MinImageExtent.Height
		}
		if extent.Height > caps.MaxImageExtent.Height {
			extent.Height = caps.MaxImageExtent.Height
		}
	}
	w.extent = extent

	imageCount := swapchainImageCountForVSync(w.info.VSync, caps.MinImageCount, caps.MaxImageCount)

	transform := caps.CurrentTransform
	if caps.SupportedTransforms&vk.SurfaceTransformIdentityBitKhr != 0 {
		transform = vk.SurfaceTransformIdentityBitKhr
	}
	compositeAlpha := vk.CompositeAlphaOpaqueBitKhr
	if w.info.TransparentFramebuffer && caps.SupportedCompositeAlpha&vk.CompositeAlphaPreMultipliedBitKhr != 0 {
		compositeAlpha = vk.CompositeAlphaPreMultipliedBitKhr
	}

	createInfo := vk.SwapchainCreateInfoKHR{
		SType:            vk.StructureTypeSwapchainCreateInfoKhr,
		Surface:          w.surface,
		MinImageCount:    imageCount,
		ImageFormat:      w.surfaceFormat.Format,
		ImageColorSpace:  w.surfaceFormat.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageColorAttachmentBit,
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     transform,
		CompositeAlpha:   compositeAlpha,
		PresentMode:      w.choosePresentMode(),
		Clipped:          vk.True,
		OldSwapchain:     w.swapchain,
	}

	var swapchain vk.SwapchainKHR
	if result := dev.Cmds.CreateSwapchainKHR(dev.Handle, &createInfo, nil, &swapchain); result != vk.Success {
		return fmt.Errorf("vgfx: vkCreateSwapchainKHR failed: %d", result)
	}
	if w.swapchain != 0 {
		dev.Cmds.DestroySwapchainKHR(dev.Handle, w.swapchain, nil)
	}
	w.swapchain = swapchain

	var actualCount uint32
	if result := dev.Cmds.GetSwapchainImagesKHR(dev.Handle, swapchain, &actualCount, nil); result != vk.Success {
		return fmt.Errorf("vgfx: vkGetSwapchainImagesKHR failed: %d", result)
	}
	w.images = make([]vk.Image, actualCount)
	if result := dev.Cmds.GetSwapchainImagesKHR(dev.Handle, swapchain, &actualCount, &w.images[0]); result != vk.Success {
		return fmt.Errorf("vgfx: vkGetSwapchainImagesKHR failed: %d", result)
	}

	w.views = make([]vk.ImageView, len(w.images))
	for idx, img := range w.images {
		viewInfo := vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    img,
			ViewType: vk.ImageViewType2d,
			Format:   w.surfaceFormat.Format,
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectColorBit,
				LevelCount: 1,
				LayerCount: 1,
			},
		}
		if result := dev.Cmds.CreateImageView(dev.Handle, &viewInfo, nil, &w.views[idx]); result != vk.Success {
			return fmt.Errorf("vgfx: vkCreateImageView failed: %d", result)
		}
	}
	return nil
}

// createRenderPass builds the single-subpass render pass, with a multi
// sample color target resolving into the swapchain image when samples > 1.
func (w *Window) createRenderPass() error {
	dev := w.inst.dev

	var attachments []vk.AttachmentDescription
	var colorRef, resolveRef vk.AttachmentReference
	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
	}

	if w.samples > 1 {
		attachments = []vk.AttachmentDescription{
			{
				Format:         w.surfaceFormat.Format,
				Samples:        w.samples,
				LoadOp:         vk.AttachmentLoadOpClear,
				StoreOp:        vk.AttachmentStoreOpDontCare,
				StencilLoadOp:  vk.AttachmentLoadOpDontCare,
				StencilStoreOp: vk.AttachmentStoreOpDontCare,
				InitialLayout:  vk.ImageLayoutUndefined,
				FinalLayout:    vk.ImageLayoutColorAttachmentOptimal,
			},
			{
				Format:         w.surfaceFormat.Format,
				Samples:        vk.SampleCount1Bit,
				LoadOp:         vk.AttachmentLoadOpDontCare,
				StoreOp:        vk.AttachmentStoreOpStore,
				StencilLoadOp:  vk.AttachmentLoadOpDontCare,
				StencilStoreOp: vk.AttachmentStoreOpDontCare,
				InitialLayout:  vk.ImageLayoutUndefined,
				FinalLayout:    vk.ImageLayoutPresentSrcKhr,
			},
		}
		colorRef = vk.AttachmentReference{Attachment: 0, Layout: vk.ImageLayoutColorAttachmentOptimal}
		resolveRef = vk.AttachmentReference{Attachment: 1, Layout: vk.ImageLayoutColorAttachmentOptimal}
		subpass.PColorAttachments = &colorRef
		subpass.PResolveAttachments = &resolveRef
	} else {
		attachments = []vk.AttachmentDescription{
			{
				Format:         w.surfaceFormat.Format,
				Samples:        vk.SampleCount1Bit,
				LoadOp:         vk.AttachmentLoadOpClear,
				StoreOp:        vk.AttachmentStoreOpStore,
				StencilLoadOp:  vk.AttachmentLoadOpDontCare,
				StencilStoreOp: vk.AttachmentStoreOpDontCare,
				InitialLayout:  vk.ImageLayoutUndefined,
				FinalLayout:    vk.ImageLayoutPresentSrcKhr,
			},
		}
		colorRef = vk.AttachmentReference{Attachment: 0, Layout: vk.ImageLayoutColorAttachmentOptimal}
		subpass.PColorAttachments = &colorRef
	}

	dependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageColorAttachmentOutputBit,
		DstStageMask:  vk.PipelineStageColorAttachmentOutputBit,
		DstAccessMask: vk.AccessColorAttachmentWriteBit,
	}

	createInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    &attachments[0],
		SubpassCount:    1,
		PSubpasses:      &subpass,
		DependencyCount: 1,
		PDependencies:   &dependency,
	}

	if result := dev.Cmds.CreateRenderPass(dev.Handle, &createInfo, nil, &w.renderPass); result != vk.Success {
		return fmt.Errorf("vgfx: vkCreateRenderPass failed: %d", result)
	}
	return nil
}

func (w *Window) createFramebuffers() error {
	dev := w.inst.dev

	if w.samples > 1 {
		w.msaaTargets = make([]memory.CompleteImage, len(w.images))
		for idx := range w.images {
			imageInfo := vk.ImageCreateInfo{
				SType:         vk.StructureTypeImageCreateInfo,
				ImageType:     vk.ImageType2d,
				Format:        w.surfaceFormat.Format,
				Extent:        vk.Extent3D{Width: w.extent.Width, Height: w.extent.Height, Depth: 1},
				MipLevels:     1,
				ArrayLayers:   1,
				Samples:       w.samples,
				Tiling:        vk.ImageTilingOptimal,
				Usage:         vk.ImageUsageColorAttachmentBit,
				SharingMode:   vk.SharingModeExclusive,
				InitialLayout: vk.ImageLayoutUndefined,
			}
			viewInfo := vk.ImageViewCreateInfo{
				SType:    vk.StructureTypeImageViewCreateInfo,
				ViewType: vk.ImageViewType2d,
				Format:   w.surfaceFormat.Format,
				SubresourceRange: vk.ImageSubresourceRange{
					AspectMask: vk.ImageAspectColorBit,
					LevelCount: 1,
					LayerCount: 1,
				},
			}
			img, err := dev.Memory.CreateCompleteImage(&imageInfo, vk.MemoryPropertyDeviceLocalBit, &viewInfo)
			if err != nil {
				return err
			}
			w.msaaTargets[idx] = img
		}
	}

	w.framebuffers = make([]vk.Framebuffer, len(w.images))
	for idx := range w.images {
		var attachments []vk.ImageView
		if w.samples > 1 {
			attachments = []vk.ImageView{w.msaaTargets[idx].View, w.views[idx]}
		} else {
			attachments = []vk.ImageView{w.views[idx]}
		}
		createInfo := vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      w.renderPass,
			AttachmentCount: uint32(len(attachments)),
			PAttachments:    &attachments[0],
			Width:           w.extent.Width,
			Height:          w.extent.Height,
			Layers:          1,
		}
		if result := dev.Cmds.CreateFramebuffer(dev.Handle, &createInfo, nil, &w.framebuffers[idx]); result != vk.Success {
			return fmt.Errorf("vgfx: vkCreateFramebuffer failed: %d", result)
		}
	}
	return nil
}

func (w *Window) createCommandState() error {
	dev := w.inst.dev

	poolInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateResetCommandBufferBit,
		QueueFamilyIndex: dev.Queues[gpu.QueuePrimaryRender].FamilyIndex(),
	}
	if result := dev.Cmds.CreateCommandPool(dev.Handle, &poolInfo, nil, &w.commandPool); result != vk.Success {
		return fmt.Errorf("vgfx: vkCreateCommandPool failed: %d", result)
	}

	count := uint32(len(w.images))
	w.renderCBs = make([]vk.CommandBuffer, count)
	allocInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        w.commandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: count,
	}
	if result := dev.Cmds.AllocateCommandBuffers(dev.Handle, &allocInfo, &w.renderCBs[0]); result != vk.Success {
		return fmt.Errorf("vgfx: vkAllocateCommandBuffers failed: %d", result)
	}

	allocInfo.CommandBufferCount = 1
	if result := dev.Cmds.AllocateCommandBuffers(dev.Handle, &allocInfo, &w.transferCB); result != vk.Success {
		return fmt.Errorf("vgfx: vkAllocateCommandBuffers failed: %d", result)
	}

	fenceInfo := vk.FenceCreateInfo{SType: vk.StructureTypeFenceCreateInfo}
	if result := dev.Cmds.CreateFence(dev.Handle, &fenceInfo, nil, &w.acquireFence); result != vk.Success {
		return fmt.Errorf("vgfx: vkCreateFence failed: %d", result)
	}

	semInfo := vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}
	w.presentSems = make([]vk.Semaphore, count)
	w.renderDoneFences = make([]vk.Fence, count)
	w.framePending = make([]bool, count)
	for idx := range w.presentSems {
		if result := dev.Cmds.CreateSemaphore(dev.Handle, &semInfo, nil, &w.presentSems[idx]); result != vk.Success {
			return fmt.Errorf("vgfx: vkCreateSemaphore failed: %d", result)
		}
		if result := dev.Cmds.CreateFence(dev.Handle, &fenceInfo, nil, &w.renderDoneFences[idx]); result != vk.Success {
			return fmt.Errorf("vgfx: vkCreateFence failed: %d", result)
		}
	}
	if result := dev.Cmds.CreateSemaphore(dev.Handle, &semInfo, nil, &w.transferDoneSem); result != vk.Success {
		return fmt.Errorf("vgfx: vkCreateSemaphore failed: %d", result)
	}
	return nil
}

// createFrameResources builds the frame-data uniform and the per-draw
// transformation storage buffer with their fixed descriptor sets.
func (w *Window) createFrameResources() error {
	dev := w.inst.dev

	scaling := coordinateScaling(w.info.CoordinateSpace, w.extent.Width, w.extent.Height)
	frame := gpu.FrameData{Scaling: scaling}
	frameBytes := unsafe.Slice((*byte)(unsafe.Pointer(&frame)), unsafe.Sizeof(frame))
	buf, err := dev.Memory.CreateCompleteHostBufferWithData(frameBytes, vk.BufferUsageUniformBufferBit)
	if err != nil {
		return err
	}
	w.frameData = buf

	set, err := w.inst.mainDescriptors.Allocate(dev.Layouts.FrameData)
	if err != nil {
		return err
	}
	w.frameDataSet = set
	writeBufferSet(dev, set.Set, vk.DescriptorTypeUniformBuffer, w.frameData.Buffer)

	transformInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        transformCapacity * 64,
		Usage:       vk.BufferUsageStorageBufferBit,
		SharingMode: vk.SharingModeExclusive,
	}
	tbuf, err := dev.Memory.CreateCompleteBuffer(&transformInfo,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
	if err != nil {
		return err
	}
	w.transformBuffer = tbuf

	tset, err := w.inst.mainDescriptors.Allocate(dev.Layouts.StorageBuffer)
	if err != nil {
		return err
	}
	w.transformSet = tset
	writeBufferSet(dev, tset.Set, vk.DescriptorTypeStorageBuffer, w.transformBuffer.Buffer)

	return nil
}

// writeBufferSet points a single-binding descriptor set at a whole buffer.
func writeBufferSet(dev *gpu.Device, set vk.DescriptorSet, descType vk.DescriptorType, buffer vk.Buffer) {
	bufferInfo := vk.DescriptorBufferInfo{
		Buffer: buffer,
		Range:  vk.WholeSize,
	}
	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          set,
		DescriptorCount: 1,
		DescriptorType:  descType,
		PBufferInfo:     &bufferInfo,
	}
	dev.Cmds.UpdateDescriptorSets(dev.Handle, 1, &write, 0, nil)
}

// destroyRenderState tears down everything createRenderState made. When
// full is false the swapchain handle survives for reuse during recreate.
func (w *Window) destroyRenderState(full bool) {
	dev := w.inst.dev
	dev.WaitIdle()

	if w.meshBuffer != nil && full {
		w.meshBuffer.Destroy()
		w.meshBuffer = nil
	}

	for _, fb := range w.framebuffers {
		dev.Cmds.DestroyFramebuffer(dev.Handle, fb, nil)
	}
	w.framebuffers = nil

	for idx := range w.msaaTargets {
		dev.Memory.DestroyCompleteImage(&w.msaaTargets[idx])
	}
	w.msaaTargets = nil

	for _, view := range w.views {
		dev.Cmds.DestroyImageView(dev.Handle, view, nil)
	}
	w.views = nil
	w.images = nil

	if w.renderPass != 0 {
		dev.Cmds.DestroyRenderPass(dev.Handle, w.renderPass, nil)
		w.renderPass = 0
	}

	if len(w.renderCBs) > 0 {
		dev.Cmds.FreeCommandBuffers(dev.Handle, w.commandPool, uint32(len(w.renderCBs)), &w.renderCBs[0])
		w.renderCBs = nil
	}
	if w.transferCB != 0 {
		dev.Cmds.FreeCommandBuffers(dev.Handle, w.commandPool, 1, &w.transferCB)
		w.transferCB = 0
	}
	if w.commandPool != 0 {
		dev.Cmds.DestroyCommandPool(dev.Handle, w.commandPool, nil)
		w.commandPool = 0
	}

	if w.acquireFence != 0 {
		dev.Cmds.DestroyFence(dev.Handle, w.acquireFence, nil)
		w.acquireFence = 0
	}
	for _, sem := range w.presentSems {
		dev.Cmds.DestroySemaphore(dev.Handle, sem, nil)
	}
	w.presentSems = nil
	for _, fence := range w.renderDoneFences {
		dev.Cmds.DestroyFence(dev.Handle, fence, nil)
	}
	w.renderDoneFences = nil
	w.framePending = nil
	if w.transferDoneSem != 0 {
		dev.Cmds.DestroySemaphore(dev.Handle, w.transferDoneSem, nil)
		w.transferDoneSem = 0
	}

	if full {
		if w.frameData.Buffer != 0 {
			w.inst.mainDescriptors.Free(w.frameDataSet)
			dev.Memory.DestroyCompleteBuffer(&w.frameData)
		}
		if w.transformBuffer.Buffer != 0 {
			w.inst.mainDescriptors.Free(w.transformSet)
			dev.Memory.DestroyCompleteBuffer(&w.transformBuffer)
		}
		for _, cached := range w.samplerSets {
			w.inst.mainDescriptors.Free(cached.set)
		}
		w.samplerSets = make(map[*Sampler]*cachedSet)
		for _, cached := range w.textureSets {
			w.inst.mainDescriptors.Free(cached.set)
		}
		w.textureSets = make(map[Texture]*cachedSet)

		if w.swapchain != 0 {
			dev.Cmds.DestroySwapchainKHR(dev.Handle, w.swapchain, nil)
			w.swapchain = 0
		}
	}

	w.hasPrevImage = false
}

// recreateSwapchain rebuilds the swapchain-dependent state after a resize
// or an out-of-date report.
func (w *Window) recreateSwapchain() error {
	w.destroyRenderState(false)

	if err := w.createSwapchain(); err != nil {
		return err
	}
	if err := w.createRenderPass(); err != nil {
		return err
	}
	if err := w.createFramebuffers(); err != nil {
		return err
	}
	if err := w.createCommandState(); err != nil {
		return err
	}

	// Refresh the coordinate scaling for the new extent.
	scaling := coordinateScaling(w.info.CoordinateSpace, w.extent.Width, w.extent.Height)
	frame := gpu.FrameData{Scaling: scaling}
	frameBytes := unsafe.Slice((*byte)(unsafe.Pointer(&frame)), unsafe.Sizeof(frame))
	if err := w.frameData.Memory.DataCopy(frameBytes); err != nil {
		return err
	}

	w.needRecreate = false
	return nil
}

// ShouldClose reports whether the user asked the window to close.
func (w *Window) ShouldClose() bool {
	return w.glfwWin == nil || w.glfwWin.ShouldClose()
}

// Size returns the current framebuffer extent.
func (w *Window) Size() [2]uint32 {
	return [2]uint32{w.extent.Width, w.extent.Height}
}

// SetTitle renames the window.
func (w *Window) SetTitle(title string) {
	w.info.Title = title
	w.glfwWin.SetTitle(title)
}

// BeginRender starts a frame. It reports false when the frame must be
// skipped; the caller may retry next tick.
func (w *Window) BeginRender() bool {
	dev := w.inst.dev

	if w.inRender {
		w.inst.report(ReportSeverityNonCriticalError, "vgfx: BeginRender while already rendering")
		return false
	}

	if w.needRecreate {
		if err := w.recreateSwapchain(); err != nil {
			w.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: swapchain recreate failed: %v", err))
			return false
		}
	}

	// Acquire the next image, retrying once after an out-of-date report.
	acquired := false
	for attempt := 0; attempt < 2 && !acquired; attempt++ {
		result := dev.Cmds.AcquireNextImageKHR(dev.Handle, w.swapchain, ^uint64(0), 0, w.acquireFence, &w.nextImage)
		switch result {
		case vk.Success:
			acquired = true
		case vk.SuboptimalKhr:
			w.needRecreate = true
			acquired = true
		case vk.ErrorOutOfDateKhr:
			if attempt > 0 {
				w.inst.report(ReportSeverityNonCriticalError, "vgfx: swapchain out of date after recreate")
				return false
			}
			if err := w.recreateSwapchain(); err != nil {
				w.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: swapchain recreate failed: %v", err))
				return false
			}
		case vk.ErrorDeviceLost:
			w.inst.deviceLost("vgfx: device lost acquiring swapchain image")
			return false
		default:
			w.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: vkAcquireNextImageKHR failed: %d", result))
			return false
		}
	}

	if result := dev.Cmds.WaitForFences(dev.Handle, 1, &w.acquireFence, vk.True, ^uint64(0)); result != vk.Success {
		w.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: acquire fence wait failed: %d", result))
		return false
	}
	_ = dev.Cmds.ResetFences(dev.Handle, 1, &w.acquireFence)

	// Writing into an image the GPU may still be reading requires the
	// frame that used it to have fully retired.
	if w.framePending[w.nextImage] {
		if result := dev.Cmds.WaitForFences(dev.Handle, 1, &w.renderDoneFences[w.nextImage], vk.True, ^uint64(0)); result != vk.Success {
			w.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: frame fence wait failed: %d", result))
			return false
		}
		_ = dev.Cmds.ResetFences(dev.Handle, 1, &w.renderDoneFences[w.nextImage])
		w.framePending[w.nextImage] = false
	}

	cb := w.renderCBs[w.nextImage]
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageOneTimeSubmitBit,
	}
	if result := dev.Cmds.BeginCommandBuffer(cb, &beginInfo); result != vk.Success {
		w.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: vkBeginCommandBuffer failed: %d", result))
		return false
	}

	viewport := vk.Viewport{
		Width:    float32(w.extent.Width),
		Height:   float32(w.extent.Height),
		MaxDepth: 1,
	}
	scissor := vk.Rect2D{Extent: w.extent}
	dev.Cmds.CmdSetViewport(cb, 0, 1, &viewport)
	dev.Cmds.CmdSetScissor(cb, 0, 1, &scissor)
	dev.Cmds.CmdSetLineWidth(cb, 1)

	clear := vk.ClearValue{0, 0, 0, 0}
	clears := []vk.ClearValue{clear, clear}
	rpBegin := vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      w.renderPass,
		Framebuffer:     w.framebuffers[w.nextImage],
		RenderArea:      vk.Rect2D{Extent: w.extent},
		ClearValueCount: 2,
		PClearValues:    &clears[0],
	}
	dev.Cmds.CmdBeginRenderPass(cb, &rpBegin, vk.SubpassContentsInline)

	// Fixed per-frame sets: frame data and the transformation buffer.
	sets := []vk.DescriptorSet{w.frameDataSet.Set, w.transformSet.Set}
	dev.Cmds.CmdBindDescriptorSets(cb, vk.PipelineBindPointGraphics, dev.GraphicsPipelineLayout,
		gpu.SetWindowFrameData, uint32(len(sets)), &sets[0], 0, nil)

	w.transforms = w.transforms[:0]
	w.transforms = append(w.transforms, mgl32.Ident4())
	w.rttDeps = w.rttDeps[:0]
	w.havePipeline = false
	w.boundSampler = nil
	w.boundTexture = nil
	w.boundLineWidth = 1
	w.inRender = true
	w.frameCounter++

	return true
}

// recordTransform composes the given transforms and stores the result,
// returning its index for the push constants.
func (w *Window) recordTransform(transforms []mgl32.Mat4) uint32 {
	if len(transforms) == 0 {
		return 0
	}
	composed := transforms[0]
	for _, t := range transforms[1:] {
		composed = composed.Mul4(t)
	}
	if len(w.transforms) >= transformCapacity {
		w.inst.report(ReportSeverityPerformanceWarning, "vgfx: per-frame transformation capacity exceeded")
		return 0
	}
	w.transforms = append(w.transforms, composed)
	return uint32(len(w.transforms) - 1)
}

// samplerSet returns the cached descriptor set of a sampler, creating it
// on first use.
func (w *Window) samplerSet(s *Sampler) (vk.DescriptorSet, error) {
	if cached, ok := w.samplerSets[s]; ok {
		cached.lastUsed = w.frameCounter
		return cached.set.Set, nil
	}

	dev := w.inst.dev
	set, err := w.inst.mainDescriptors.Allocate(dev.Layouts.SamplerData)
	if err != nil {
		return 0, err
	}

	imageInfo := vk.DescriptorImageInfo{Sampler: s.handle}
	bufferInfo := vk.DescriptorBufferInfo{Buffer: s.data.Buffer, Range: vk.WholeSize}
	writes := []vk.WriteDescriptorSet{
		{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          set.Set,
			DstBinding:      0,
			DescriptorCount: 1,
			DescriptorType:  vk.DescriptorTypeSampler,
			PImageInfo:      &imageInfo,
		},
		{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          set.Set,
			DstBinding:      1,
			DescriptorCount: 1,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			PBufferInfo:     &bufferInfo,
		},
	}
	dev.Cmds.UpdateDescriptorSets(dev.Handle, uint32(len(writes)), &writes[0], 0, nil)

	w.samplerSets[s] = &cachedSet{set: set, lastUsed: w.frameCounter}
	return set.Set, nil
}

// textureSet returns the cached descriptor set of a texture, creating it
// on first use.
func (w *Window) textureSet(t Texture) (vk.DescriptorSet, error) {
	if cached, ok := w.textureSets[t]; ok {
		cached.lastUsed = w.frameCounter
		return cached.set.Set, nil
	}

	dev := w.inst.dev
	set, err := w.inst.mainDescriptors.Allocate(dev.Layouts.Texture)
	if err != nil {
		return 0, err
	}

	imageInfo := vk.DescriptorImageInfo{
		ImageView:   t.textureView(),
		ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
	}
	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          set.Set,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeSampledImage,
		PImageInfo:      &imageInfo,
	}
	dev.Cmds.UpdateDescriptorSets(dev.Handle, 1, &write, 0, nil)

	w.textureSets[t] = &cachedSet{set: set, lastUsed: w.frameCounter}
	return set.Set, nil
}

// evictStaleSets frees cached descriptor sets that have not been used for
// descriptorSetMaxAge frames.
func (w *Window) evictStaleSets() {
	for s, cached := range w.samplerSets {
		if w.frameCounter-cached.lastUsed > descriptorSetMaxAge {
			w.inst.mainDescriptors.Free(cached.set)
			delete(w.samplerSets, s)
		}
	}
	for t, cached := range w.textureSets {
		if w.frameCounter-cached.lastUsed > descriptorSetMaxAge {
			w.inst.mainDescriptors.Free(cached.set)
			delete(w.textureSets, t)
		}
	}
}

// selectProgram picks the shader program for a draw.
func selectProgram(meshType MeshType, multitextured, borderColor bool) gpu.ProgramID {
	if !multitextured {
		if borderColor {
			return gpu.ProgramSingleTexturedUVBorderColor
		}
		return gpu.ProgramSingleTextured
	}
	switch meshType {
	case MeshTypeLine:
		if borderColor {
			return gpu.ProgramMultitexturedLineUVBorderColor
		}
		return gpu.ProgramMultitexturedLine
	case MeshTypePoint:
		if borderColor {
			return gpu.ProgramMultitexturedPointUVBorderColor
		}
		return gpu.ProgramMultitexturedPoint
	default:
		if borderColor {
			return gpu.ProgramMultitexturedTriangleUVBorderColor
		}
		return gpu.ProgramMultitexturedTriangle
	}
}

func meshTypeTopology(meshType MeshType) (vk.PrimitiveTopology, vk.PolygonMode) {
	switch meshType {
	case MeshTypeTriangleWireframe:
		return vk.PrimitiveTopologyTriangleList, vk.PolygonModeLine
	case MeshTypeLine:
		return vk.PrimitiveTopologyLineList, vk.PolygonModeLine
	case MeshTypePoint:
		return vk.PrimitiveTopologyPointList, vk.PolygonModePoint
	default:
		return vk.PrimitiveTopologyTriangleList, vk.PolygonModeFill
	}
}

// DrawTriangleList records a textured triangle list draw.
func (w *Window) DrawTriangleList(filled bool, indices []uint32, vertices []Vertex, weights []float32, texture Texture, sampler *Sampler, transforms ...mgl32.Mat4) {
	meshType := MeshTypeTriangleFilled
	if !filled {
		meshType = MeshTypeTriangleWireframe
	}
	w.draw(meshType, indices, vertices, weights, texture, sampler, 1, transforms)
}

// DrawLineList records a line list draw.
func (w *Window) DrawLineList(indices []uint32, vertices []Vertex, weights []float32, texture Texture, sampler *Sampler, lineWidth float32, transforms ...mgl32.Mat4) {
	w.draw(MeshTypeLine, indices, vertices, weights, texture, sampler, lineWidth, transforms)
}

// DrawPointList records a point list draw.
func (w *Window) DrawPointList(vertices []Vertex, weights []float32, texture Texture, sampler *Sampler, transforms ...mgl32.Mat4) {
	indices := make([]uint32, len(vertices))
	for i := range indices {
		indices[i] = uint32(i)
	}
	w.draw(MeshTypePoint, indices, vertices, weights, texture, sampler, 1, transforms)
}

// DrawMesh records a mesh draw with optional transformation hierarchy;
// matrices multiply left to right.
func (w *Window) DrawMesh(mesh *Mesh, transforms ...mgl32.Mat4) {
	var texture Texture
	if mesh.Texture != nil {
		texture = mesh.Texture
	}
	lineWidth := mesh.LineWidth
	if lineWidth <= 0 {
		lineWidth = 1
	}
	w.draw(mesh.Type, mesh.Indices, mesh.Vertices, mesh.TextureLayerWeights, texture, mesh.Sampler, lineWidth, transforms)
}

func (w *Window) draw(meshType MeshType, indices []uint32, vertices []Vertex, weights []float32, texture Texture, sampler *Sampler, lineWidth float32, transforms []mgl32.Mat4) {
	if !w.inRender {
		w.inst.report(ReportSeverityNonCriticalError, "vgfx: draw outside BeginRender/EndRender")
		return
	}
	if len(indices) == 0 || len(vertices) == 0 {
		return
	}

	dev := w.inst.dev
	cb := w.renderCBs[w.nextImage]

	if sampler == nil {
		sampler = w.inst.defaultSampler
	}
	if texture == nil || !texture.IsLoaded() {
		texture = w.inst.defaultTexture
	}

	multitextured := len(weights) > 0 && texture.textureLayerCount() > 1
	borderColor := sampler.info.AddressModeU == SamplerAddressModeClampToBorder ||
		sampler.info.AddressModeV == SamplerAddressModeClampToBorder

	topology, polygonMode := meshTypeTopology(meshType)
	settings := gpu.GraphicsPipelineSettings{
		Layout:         dev.GraphicsPipelineLayout,
		RenderPass:     w.renderPass,
		Topology:       topology,
		PolygonMode:    polygonMode,
		Program:        selectProgram(meshType, multitextured, borderColor),
		Samples:        w.samples,
		EnableBlending: true,
	}
	if !w.havePipeline || settings != w.boundPipeline {
		pipeline, err := dev.Pipelines.GetGraphicsPipeline(settings)
		if err != nil {
			w.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: pipeline: %v", err))
			return
		}
		dev.Cmds.CmdBindPipeline(cb, vk.PipelineBindPointGraphics, pipeline)
		w.boundPipeline = settings
		w.havePipeline = true
	}

	if sampler != w.boundSampler {
		set, err := w.samplerSet(sampler)
		if err != nil {
			w.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: sampler set: %v", err))
			return
		}
		dev.Cmds.CmdBindDescriptorSets(cb, vk.PipelineBindPointGraphics, dev.GraphicsPipelineLayout,
			gpu.SetSampler, 1, &set, 0, nil)
		w.boundSampler = sampler
	}

	if texture != w.boundTexture {
		set, err := w.textureSet(texture)
		if err != nil {
			w.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: texture set: %v", err))
			return
		}
		dev.Cmds.CmdBindDescriptorSets(cb, vk.PipelineBindPointGraphics, dev.GraphicsPipelineLayout,
			gpu.SetTexture, 1, &set, 0, nil)
		w.boundTexture = texture

		if rtt, ok := texture.(*RenderTargetTexture); ok {
			w.addRenderTargetDependency(rtt)
		}
	}

	if meshType == MeshTypeLine && lineWidth != w.boundLineWidth {
		dev.Cmds.CmdSetLineWidth(cb, lineWidth)
		w.boundLineWidth = lineWidth
	}

	offsets, err := w.meshBuffer.PushMesh(cb, indices, vertices, weights)
	if err != nil {
		w.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: mesh push: %v", err))
		return
	}

	pc := gpu.PushConstants{
		TransformationOffset:     w.recordTransform(transforms),
		IndexOffset:              offsets.IndexOffset,
		IndexCount:               offsets.IndexCount,
		VertexOffset:             offsets.VertexOffset,
		TextureLayerWeightOffset: offsets.WeightOffset,
		TextureLayerWeightCount:  0,
	}
	if multitextured && len(vertices) > 0 {
		pc.TextureLayerWeightCount = uint32(len(weights) / len(vertices))
	}
	dev.Cmds.CmdPushConstants(cb, dev.GraphicsPipelineLayout,
		vk.ShaderStageVertexBit|vk.ShaderStageFragmentBit, 0, gpu.PushConstantsSize, unsafe.Pointer(&pc))

	if meshType == MeshTypePoint {
		dev.Cmds.CmdDraw(cb, uint32(len(vertices)), 1, 0, 0)
	} else {
		dev.Cmds.CmdDrawIndexed(cb, offsets.IndexCount, 1, offsets.IndexOffset, 0, 0)
	}
}

// addRenderTargetDependency records that this frame samples a render
// target texture, so its rendering must be committed before submission.
func (w *Window) addRenderTargetDependency(rtt *RenderTargetTexture) {
	for _, dep := range w.rttDeps {
		if dep == rtt {
			return
		}
	}
	w.rttDeps = append(w.rttDeps, rtt)
}

// EndRender finishes the frame: uploads the mesh buffer, submits transfer
// and render work with the semaphore chain and presents. It reports false
// when the frame was dropped.
func (w *Window) EndRender() bool {
	dev := w.inst.dev

	if !w.inRender {
		w.inst.report(ReportSeverityNonCriticalError, "vgfx: EndRender without BeginRender")
		return false
	}
	w.inRender = false

	cb := w.renderCBs[w.nextImage]
	dev.Cmds.CmdEndRenderPass(cb)
	if result := dev.Cmds.EndCommandBuffer(cb); result != vk.Success {
		w.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: vkEndCommandBuffer failed: %d", result))
		return false
	}

	// Deferred synchronization of the previous frame.
	if w.hasPrevImage && w.prevImage != w.nextImage && w.framePending[w.prevImage] {
		if result := dev.Cmds.WaitForFences(dev.Handle, 1, &w.renderDoneFences[w.prevImage], vk.True, ^uint64(0)); result != vk.Success {
			w.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: previous frame fence wait failed: %d", result))
			return false
		}
		_ = dev.Cmds.ResetFences(dev.Handle, 1, &w.renderDoneFences[w.prevImage])
		w.framePending[w.prevImage] = false
	}

	// Upload this frame's transformations.
	if len(w.transforms) > 0 {
		bytes := unsafe.Slice((*byte)(unsafe.Pointer(&w.transforms[0])), len(w.transforms)*64)
		if err := w.transformBuffer.Memory.DataCopy(bytes); err != nil {
			w.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: transformation upload: %v", err))
			return false
		}
	}

	// Record the transfer command buffer with the mesh buffer copies.
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageOneTimeSubmitBit,
	}
	if result := dev.Cmds.BeginCommandBuffer(w.transferCB, &beginInfo); result != vk.Success {
		w.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: vkBeginCommandBuffer failed: %d", result))
		return false
	}
	if err := w.meshBuffer.UploadToGPU(w.transferCB); err != nil {
		w.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: mesh upload: %v", err))
		return false
	}
	if result := dev.Cmds.EndCommandBuffer(w.transferCB); result != vk.Success {
		w.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: vkEndCommandBuffer failed: %d", result))
		return false
	}

	// Commit every render target this frame samples so their semaphores
	// join the render submission's wait list.
	waitSems := []vk.Semaphore{w.transferDoneSem}
	waitStages := []vk.PipelineStageFlags{vk.PipelineStageVertexInputBit | vk.PipelineStageVertexShaderBit}
	for _, rtt := range w.rttDeps {
		sem, err := rtt.commit(nil)
		if err != nil {
			w.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: render target commit: %v", err))
			continue
		}
		if sem != 0 {
			waitSems = append(waitSems, sem)
			waitStages = append(waitStages, vk.PipelineStageFragmentShaderBit)
		}
	}

	submits := []vk.SubmitInfo{
		{
			SType:                vk.StructureTypeSubmitInfo,
			CommandBufferCount:   1,
			PCommandBuffers:      &w.transferCB,
			SignalSemaphoreCount: 1,
			PSignalSemaphores:    &w.transferDoneSem,
		},
		{
			SType:                vk.StructureTypeSubmitInfo,
			WaitSemaphoreCount:   uint32(len(waitSems)),
			PWaitSemaphores:      &waitSems[0],
			PWaitDstStageMask:    &waitStages[0],
			CommandBufferCount:   1,
			PCommandBuffers:      &cb,
			SignalSemaphoreCount: 1,
			PSignalSemaphores:    &w.presentSems[w.nextImage],
		},
	}
	result := dev.Queues[gpu.QueuePrimaryRender].Submit(dev.Cmds, submits, w.renderDoneFences[w.nextImage])
	switch result {
	case vk.Success:
	case vk.ErrorDeviceLost:
		w.inst.deviceLost("vgfx: device lost during frame submission")
		return false
	default:
		w.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: frame submit failed: %d", result))
		return false
	}
	w.framePending[w.nextImage] = true

	presentInfo := vk.PresentInfoKHR{
		SType:              vk.StructureTypePresentInfoKhr,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    &w.presentSems[w.nextImage],
		SwapchainCount:     1,
		PSwapchains:        &w.swapchain,
		PImageIndices:      &w.nextImage,
	}
	result = dev.Queues[gpu.QueuePrimaryRender].Present(dev.Cmds, &presentInfo)
	switch result {
	case vk.Success:
	case vk.SuboptimalKhr, vk.ErrorOutOfDateKhr:
		w.needRecreate = true
	case vk.ErrorDeviceLost:
		w.inst.deviceLost("vgfx: device lost during present")
		return false
	default:
		w.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: vkQueuePresentKHR failed: %d", result))
		return false
	}

	w.prevImage = w.nextImage
	w.hasPrevImage = true
	w.evictStaleSets()

	glfw.PollEvents()
	return true
}
