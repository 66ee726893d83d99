// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vgfx

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/vgfx/internal/gpu"
	"github.com/gogpu/vgfx/internal/gpu/memory"
	"github.com/gogpu/vgfx/internal/vk"
)

// BlurType selects the post-process blur kernel of a render target.
type BlurType int

// Blur types.
const (
	BlurTypeBox BlurType = iota
	BlurTypeGaussian
)

// RenderTargetTextureCreateInfo configures an off-screen render target.
type RenderTargetTextureCreateInfo struct {
	Size            [2]uint32
	CoordinateSpace CoordinateSpace
	Samples         Multisamples

	// SwapBufferCount lets the CPU record frame k+1 while the GPU renders
	// frame k. Default 2.
	SwapBufferCount uint32

	// EnableBlur reserves the intermediate image for the separable blur
	// post-process.
	EnableBlur bool
	BlurType   BlurType
}

// rttBuffer is one swap buffer of a render target.
type rttBuffer struct {
	image       memory.CompleteImage
	blurImage   memory.CompleteImage
	framebuffer vk.Framebuffer
	blurFB      vk.Framebuffer // renders into blurImage
	backFB      vk.Framebuffer // renders back into image

	renderCB   vk.CommandBuffer
	transferCB vk.CommandBuffer

	renderDoneSem   vk.Semaphore
	renderDoneFence vk.Fence
	pending         bool

	committed   bool
	semConsumed bool
}

// RenderTargetTexture renders like a window but into an owned image that
// later frames can sample as a texture. All methods are main thread only.
type RenderTargetTexture struct {
	inst *Instance
	info RenderTargetTextureCreateInfo

	size    [2]uint32
	samples vk.SampleCountFlagBits

	// renderPass draws into a buffer image ending in shader-read layout;
	// blurPass is the fullscreen post-process variant that loads nothing.
	renderPass vk.RenderPass
	blurPass   vk.RenderPass

	commandPool vk.CommandPool
	buffers     []rttBuffer

	frameData    memory.CompleteBuffer
	frameDataSet gpu.PoolSet

	transformBuffer memory.CompleteBuffer
	transformSet    gpu.PoolSet
	transforms      []mgl32.Mat4

	meshBuffer *gpu.MeshBuffer

	samplerSets map[*Sampler]*cachedSet
	textureSets map[Texture]*cachedSet

	recording int // buffer being recorded
	display   int // buffer windows sample

	inRender   bool
	committing bool // cycle detection while resolving dependencies

	blurSigma float32

	// pendingTransferSems are transient transfer-done semaphores created
	// at commit, destroyed once their buffer's fence has been waited.
	pendingTransferSems []vk.Semaphore

	havePipeline   bool
	boundPipeline  gpu.GraphicsPipelineSettings
	boundSampler   *Sampler
	boundTexture   Texture
	boundLineWidth float32
	frameCounter   uint64

	rttDeps []*RenderTargetTexture
}

// CreateRenderTargetTexture creates an off-screen render target. Main
// thread only.
func (i *Instance) CreateRenderTargetTexture(info RenderTargetTextureCreateInfo) (*RenderTargetTexture, error) {
	i.assertCreatorThread("CreateRenderTargetTexture")

	if info.Size[0] == 0 || info.Size[1] == 0 {
		return nil, fmt.Errorf("vgfx: render target with zero extent")
	}
	if info.SwapBufferCount == 0 {
		info.SwapBufferCount = 2
	}
	if info.Samples == 0 {
		info.Samples = 1
	}

	r := &RenderTargetTexture{
		inst:        i,
		info:        info,
		size:        info.Size,
		samples:     vk.SampleCountFlagBits(info.Samples),
		samplerSets: make(map[*Sampler]*cachedSet),
		textureSets: make(map[Texture]*cachedSet),
		transforms:  make([]mgl32.Mat4, 0, 64),
	}

	if err := r.createRenderState(); err != nil {
		r.destroy()
		return nil, err
	}

	i.renderTargets = append(i.renderTargets, r)
	return r, nil
}

// DestroyRenderTargetTexture destroys a render target. Main thread only.
func (i *Instance) DestroyRenderTargetTexture(r *RenderTargetTexture) {
	i.assertCreatorThread("DestroyRenderTargetTexture")
	if r == nil {
		return
	}
	for idx, other := range i.renderTargets {
		if other == r {
			i.renderTargets = append(i.renderTargets[:idx], i.renderTargets[idx+1:]...)
			break
		}
	}
	i.dev.WaitIdle()
	r.destroy()
}

// Size returns the render target extent.
func (r *RenderTargetTexture) Size() [2]uint32 { return r.size }

// SetBlur sets the blur sigma applied at commit when blur is enabled.
// Zero disables the blur pass for the frame.
func (r *RenderTargetTexture) SetBlur(sigma float32) { r.blurSigma = sigma }

// IsLoaded always reports true; a render target is sampleable as soon as
// it exists.
func (r *RenderTargetTexture) IsLoaded() bool { return true }

func (r *RenderTargetTexture) textureView() vk.ImageView {
	return r.buffers[r.display].image.View
}

func (r *RenderTargetTexture) textureLayerCount() uint32 { return 1 }

func (r *RenderTargetTexture) createRenderState() error {
	dev := r.inst.dev

	var err error
	if r.renderPass, err = r.createPass(vk.AttachmentLoadOpClear); err != nil {
		return err
	}
	if r.info.EnableBlur {
		if r.blurPass, err = r.createPass(vk.AttachmentLoadOpDontCare); err != nil {
			return err
		}
	}

	poolInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateResetCommandBufferBit,
		QueueFamilyIndex: dev.Queues[gpu.QueuePrimaryRender].FamilyIndex(),
	}
	if result := dev.Cmds.CreateCommandPool(dev.Handle, &poolInfo, nil, &r.commandPool); result != vk.Success {
		return fmt.Errorf("vgfx: vkCreateCommandPool failed: %d", result)
	}

	r.buffers = make([]rttBuffer, r.info.SwapBufferCount)
	for idx := range r.buffers {
		if err := r.createBuffer(&r.buffers[idx]); err != nil {
			return err
		}
	}

	scaling := coordinateScaling(r.info.CoordinateSpace, r.size[0], r.size[1])
	frame := gpu.FrameData{Scaling: scaling}
	frameBytes := unsafe.Slice((*byte)(unsafe.Pointer(&frame)), unsafe.Sizeof(frame))
	if r.frameData, err = dev.Memory.CreateCompleteHostBufferWithData(frameBytes, vk.BufferUsageUniformBufferBit); err != nil {
		return err
	}
	set, err := r.inst.mainDescriptors.Allocate(dev.Layouts.FrameData)
	if err != nil {
		return err
	}
	r.frameDataSet = set
	writeBufferSet(dev, set.Set, vk.DescriptorTypeUniformBuffer, r.frameData.Buffer)

	transformInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        transformCapacity * 64,
		Usage:       vk.BufferUsageStorageBufferBit,
		SharingMode: vk.SharingModeExclusive,
	}
	if r.transformBuffer, err = dev.Memory.CreateCompleteBuffer(&transformInfo,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit); err != nil {
		return err
	}
	tset, err := r.inst.mainDescriptors.Allocate(dev.Layouts.StorageBuffer)
	if err != nil {
		return err
	}
	r.transformSet = tset
	writeBufferSet(dev, tset.Set, vk.DescriptorTypeStorageBuffer, r.transformBuffer.Buffer)

	r.meshBuffer = gpu.NewMeshBuffer(dev, r.inst.mainDescriptors, gpu.DefaultMeshBufferConfig())
	return nil
}

// createPass builds a single-attachment pass rendering into a sampleable
// image. Multisampling resolves into the target like a window does with
// its swapchain image.
func (r *RenderTargetTexture) createPass(loadOp vk.AttachmentLoadOp) (vk.RenderPass, error) {
	dev := r.inst.dev

	attachment := vk.AttachmentDescription{
		Format:         vk.FormatR8g8b8a8Unorm,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         loadOp,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutShaderReadOnlyOptimal,
	}
	colorRef := vk.AttachmentReference{Attachment: 0, Layout: vk.ImageLayoutColorAttachmentOptimal}
	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments:    &colorRef,
	}
	dependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFragmentShaderBit,
		DstStageMask:  vk.PipelineStageColorAttachmentOutputBit,
		SrcAccessMask: vk.AccessShaderReadBit,
		DstAccessMask: vk.AccessColorAttachmentWriteBit,
	}
	createInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: 1,
		PAttachments:    &attachment,
		SubpassCount:    1,
		PSubpasses:      &subpass,
		DependencyCount: 1,
		PDependencies:   &dependency,
	}

	var pass vk.RenderPass
	if result := dev.Cmds.CreateRenderPass(dev.Handle, &createInfo, nil, &pass); result != vk.Success {
		return 0, fmt.Errorf("vgfx: vkCreateRenderPass failed: %d", result)
	}
	return pass, nil
}

func (r *RenderTargetTexture) createBuffer(b *rttBuffer) error {
	dev := r.inst.dev

	makeImage := func() (memory.CompleteImage, error) {
		imageInfo := vk.ImageCreateInfo{
			SType:         vk.StructureTypeImageCreateInfo,
			ImageType:     vk.ImageType2d,
			Format:        vk.FormatR8g8b8a8Unorm,
			Extent:        vk.Extent3D{Width: r.size[0], Height: r.size[1], Depth: 1},
			MipLevels:     1,
			ArrayLayers:   1,
			Samples:       vk.SampleCount1Bit,
			Tiling:        vk.ImageTilingOptimal,
			Usage:         vk.ImageUsageColorAttachmentBit | vk.ImageUsageSampledBit,
			SharingMode:   vk.SharingModeExclusive,
			InitialLayout: vk.ImageLayoutUndefined,
		}
		viewInfo := vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			ViewType: vk.ImageViewType2dArray,
			Format:   vk.FormatR8g8b8a8Unorm,
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectColorBit,
				LevelCount: 1,
				LayerCount: 1,
			},
		}
		return dev.Memory.CreateCompleteImage(&imageInfo, vk.MemoryPropertyDeviceLocalBit, &viewInfo)
	}

	var err error
	if b.image, err = makeImage(); err != nil {
		return err
	}
	if r.info.EnableBlur {
		if b.blurImage, err = makeImage(); err != nil {
			return err
		}
	}

	makeFB := func(pass vk.RenderPass, view vk.ImageView) (vk.Framebuffer, error) {
		createInfo := vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      pass,
			AttachmentCount: 1,
			PAttachments:    &view,
			Width:           r.size[0],
			Height:          r.size[1],
			Layers:          1,
		}
		var fb vk.Framebuffer
		if result := dev.Cmds.CreateFramebuffer(dev.Handle, &createInfo, nil, &fb); result != vk.Success {
			return 0, fmt.Errorf("vgfx: vkCreateFramebuffer failed: %d", result)
		}
		return fb, nil
	}

	if b.framebuffer, err = makeFB(r.renderPass, b.image.View); err != nil {
		return err
	}
	if r.info.EnableBlur {
		if b.blurFB, err = makeFB(r.blurPass, b.blurImage.View); err != nil {
			return err
		}
		if b.backFB, err = makeFB(r.blurPass, b.image.View); err != nil {
			return err
		}
	}

	allocInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        r.commandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}
	if result := dev.Cmds.AllocateCommandBuffers(dev.Handle, &allocInfo, &b.renderCB); result != vk.Success {
		return fmt.Errorf("vgfx: vkAllocateCommandBuffers failed: %d", result)
	}
	if result := dev.Cmds.AllocateCommandBuffers(dev.Handle, &allocInfo, &b.transferCB); result != vk.Success {
		return fmt.Errorf("vgfx: vkAllocateCommandBuffers failed: %d", result)
	}

	semInfo := vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}
	if result := dev.Cmds.CreateSemaphore(dev.Handle, &semInfo, nil, &b.renderDoneSem); result != vk.Success {
		return fmt.Errorf("vgfx: vkCreateSemaphore failed: %d", result)
	}
	fenceInfo := vk.FenceCreateInfo{SType: vk.StructureTypeFenceCreateInfo}
	if result := dev.Cmds.CreateFence(dev.Handle, &fenceInfo, nil, &b.renderDoneFence); result != vk.Success {
		return fmt.Errorf("vgfx: vkCreateFence failed: %d", result)
	}
	return nil
}

func (r *RenderTargetTexture) destroy() {
	dev := r.inst.dev
	dev.WaitIdle()

	if r.meshBuffer != nil {
		r.meshBuffer.Destroy()
		r.meshBuffer = nil
	}
	for _, cached := range r.samplerSets {
		r.inst.mainDescriptors.Free(cached.set)
	}
	r.samplerSets = map[*Sampler]*cachedSet{}
	for _, cached := range r.textureSets {
		r.inst.mainDescriptors.Free(cached.set)
	}
	r.textureSets = map[Texture]*cachedSet{}

	for idx := range r.buffers {
		b := &r.buffers[idx]
		if b.renderCB != 0 {
			dev.Cmds.FreeCommandBuffers(dev.Handle, r.commandPool, 1, &b.renderCB)
		}
		if b.transferCB != 0 {
			dev.Cmds.FreeCommandBuffers(dev.Handle, r.commandPool, 1, &b.transferCB)
		}
		if b.renderDoneSem != 0 {
			dev.Cmds.DestroySemaphore(dev.Handle, b.renderDoneSem, nil)
		}
		if b.renderDoneFence != 0 {
			dev.Cmds.DestroyFence(dev.Handle, b.renderDoneFence, nil)
		}
		for _, fb := range []vk.Framebuffer{b.framebuffer, b.blurFB, b.backFB} {
			if fb != 0 {
				dev.Cmds.DestroyFramebuffer(dev.Handle, fb, nil)
			}
		}
		if b.image.Image != 0 {
			dev.Memory.DestroyCompleteImage(&b.image)
		}
		if b.blurImage.Image != 0 {
			dev.Memory.DestroyCompleteImage(&b.blurImage)
		}
	}
	r.buffers = nil

	for _, sem := range r.pendingTransferSems {
		dev.Cmds.DestroySemaphore(dev.Handle, sem, nil)
	}
	r.pendingTransferSems = nil

	if r.commandPool != 0 {
		dev.Cmds.DestroyCommandPool(dev.Handle, r.commandPool, nil)
		r.commandPool = 0
	}
	for _, pass := range []vk.RenderPass{r.renderPass, r.blurPass} {
		if pass != 0 {
			dev.Cmds.DestroyRenderPass(dev.Handle, pass, nil)
		}
	}
	r.renderPass = 0
	r.blurPass = 0

	if r.frameData.Buffer != 0 {
		r.inst.mainDescriptors.Free(r.frameDataSet)
		dev.Memory.DestroyCompleteBuffer(&r.frameData)
	}
	if r.transformBuffer.Buffer != 0 {
		r.inst.mainDescriptors.Free(r.transformSet)
		dev.Memory.DestroyCompleteBuffer(&r.transformBuffer)
	}
}

// BeginRender starts recording a frame into the next swap buffer.
func (r *RenderTargetTexture) BeginRender() bool {
	dev := r.inst.dev

	if r.inRender {
		r.inst.report(ReportSeverityNonCriticalError, "vgfx: render target BeginRender while already rendering")
		return false
	}

	r.recording = (r.display + 1) % len(r.buffers)
	b := &r.buffers[r.recording]

	if b.pending {
		if result := dev.Cmds.WaitForFences(dev.Handle, 1, &b.renderDoneFence, vk.True, ^uint64(0)); result != vk.Success {
			r.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: render target fence wait failed: %d", result))
			return false
		}
		_ = dev.Cmds.ResetFences(dev.Handle, 1, &b.renderDoneFence)
		b.pending = false

		for _, sem := range r.pendingTransferSems {
			dev.Cmds.DestroySemaphore(dev.Handle, sem, nil)
		}
		r.pendingTransferSems = r.pendingTransferSems[:0]
	}

	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageOneTimeSubmitBit,
	}
	if result := dev.Cmds.BeginCommandBuffer(b.renderCB, &beginInfo); result != vk.Success {
		r.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: vkBeginCommandBuffer failed: %d", result))
		return false
	}

	viewport := vk.Viewport{
		Width:    float32(r.size[0]),
		Height:   float32(r.size[1]),
		MaxDepth: 1,
	}
	scissor := vk.Rect2D{Extent: vk.Extent2D{Width: r.size[0], Height: r.size[1]}}
	dev.Cmds.CmdSetViewport(b.renderCB, 0, 1, &viewport)
	dev.Cmds.CmdSetScissor(b.renderCB, 0, 1, &scissor)
	dev.Cmds.CmdSetLineWidth(b.renderCB, 1)

	clear := vk.ClearValue{0, 0, 0, 0}
	rpBegin := vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      r.renderPass,
		Framebuffer:     b.framebuffer,
		RenderArea:      vk.Rect2D{Extent: vk.Extent2D{Width: r.size[0], Height: r.size[1]}},
		ClearValueCount: 1,
		PClearValues:    &clear,
	}
	dev.Cmds.CmdBeginRenderPass(b.renderCB, &rpBegin, vk.SubpassContentsInline)

	sets := []vk.DescriptorSet{r.frameDataSet.Set, r.transformSet.Set}
	dev.Cmds.CmdBindDescriptorSets(b.renderCB, vk.PipelineBindPointGraphics, dev.GraphicsPipelineLayout,
		gpu.SetWindowFrameData, uint32(len(sets)), &sets[0], 0, nil)

	r.transforms = r.transforms[:0]
	r.transforms = append(r.transforms, mgl32.Ident4())
	r.rttDeps = r.rttDeps[:0]
	r.havePipeline = false
	r.boundSampler = nil
	r.boundTexture = nil
	r.boundLineWidth = 1
	r.inRender = true
	r.frameCounter++
	b.committed = false
	b.semConsumed = false

	return true
}

// DrawMesh records a mesh draw into the render target.
func (r *RenderTargetTexture) DrawMesh(mesh *Mesh, transforms ...mgl32.Mat4) {
	var texture Texture
	if mesh.Texture != nil {
		texture = mesh.Texture
	}
	lineWidth := mesh.LineWidth
	if lineWidth <= 0 {
		lineWidth = 1
	}
	r.draw(mesh.Type, mesh.Indices, mesh.Vertices, mesh.TextureLayerWeights, texture, mesh.Sampler, lineWidth, transforms)
}

// DrawTriangleList records a triangle list draw into the render target.
func (r *RenderTargetTexture) DrawTriangleList(filled bool, indices []uint32, vertices []Vertex, weights []float32, texture Texture, sampler *Sampler, transforms ...mgl32.Mat4) {
	meshType := MeshTypeTriangleFilled
	if !filled {
		meshType = MeshTypeTriangleWireframe
	}
	r.draw(meshType, indices, vertices, weights, texture, sampler, 1, transforms)
}

// DrawLineList records a line list draw into the render target.
func (r *RenderTargetTexture) DrawLineList(indices []uint32, vertices []Vertex, weights []float32, texture Texture, sampler *Sampler, lineWidth float32, transforms ...mgl32.Mat4) {
	r.draw(MeshTypeLine, indices, vertices, weights, texture, sampler, lineWidth, transforms)
}

// DrawPointList records a point list draw into the render target.
func (r *RenderTargetTexture) DrawPointList(vertices []Vertex, weights []float32, texture Texture, sampler *Sampler, transforms ...mgl32.Mat4) {
	indices := make([]uint32, len(vertices))
	for i := range indices {
		indices[i] = uint32(i)
	}
	r.draw(MeshTypePoint, indices, vertices, weights, texture, sampler, 1, transforms)
}

func (r *RenderTargetTexture) draw(meshType MeshType, indices []uint32, vertices []Vertex, weights []float32, texture Texture, sampler *Sampler, lineWidth float32, transforms []mgl32.Mat4) {
	if !r.inRender {
		r.inst.report(ReportSeverityNonCriticalError, "vgfx: render target draw outside BeginRender/EndRender")
		return
	}
	if len(indices) == 0 || len(vertices) == 0 {
		return
	}

	dev := r.inst.dev
	b := &r.buffers[r.recording]
	cb := b.renderCB

	if sampler == nil {
		sampler = r.inst.defaultSampler
	}
	if texture == nil || !texture.IsLoaded() {
		texture = r.inst.defaultTexture
	}

	multitextured := len(weights) > 0 && texture.textureLayerCount() > 1
	borderColor := sampler.info.AddressModeU == SamplerAddressModeClampToBorder ||
		sampler.info.AddressModeV == SamplerAddressModeClampToBorder

	topology, polygonMode := meshTypeTopology(meshType)
	settings := gpu.GraphicsPipelineSettings{
		Layout:         dev.GraphicsPipelineLayout,
		RenderPass:     r.renderPass,
		Topology:       topology,
		PolygonMode:    polygonMode,
		Program:        selectProgram(meshType, multitextured, borderColor),
		Samples:        r.samples,
		EnableBlending: true,
	}
	if !r.havePipeline || settings != r.boundPipeline {
		pipeline, err := dev.Pipelines.GetGraphicsPipeline(settings)
		if err != nil {
			r.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: pipeline: %v", err))
			return
		}
		dev.Cmds.CmdBindPipeline(cb, vk.PipelineBindPointGraphics, pipeline)
		r.boundPipeline = settings
		r.havePipeline = true
	}

	if sampler != r.boundSampler {
		set, err := r.cachedSamplerSet(sampler)
		if err != nil {
			r.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: sampler set: %v", err))
			return
		}
		dev.Cmds.CmdBindDescriptorSets(cb, vk.PipelineBindPointGraphics, dev.GraphicsPipelineLayout,
			gpu.SetSampler, 1, &set, 0, nil)
		r.boundSampler = sampler
	}

	if texture != r.boundTexture {
		set, err := r.cachedTextureSet(texture)
		if err != nil {
			r.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: texture set: %v", err))
			return
		}
		dev.Cmds.CmdBindDescriptorSets(cb, vk.PipelineBindPointGraphics, dev.GraphicsPipelineLayout,
			gpu.SetTexture, 1, &set, 0, nil)
		r.boundTexture = texture

		if dep, ok := texture.(*RenderTargetTexture); ok && dep != r {
			r.rttDeps = append(r.rttDeps, dep)
		}
	}

	if meshType == MeshTypeLine && lineWidth != r.boundLineWidth {
		dev.Cmds.CmdSetLineWidth(cb, lineWidth)
		r.boundLineWidth = lineWidth
	}

	offsets, err := r.meshBuffer.PushMesh(cb, indices, vertices, weights)
	if err != nil {
		r.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: mesh push: %v", err))
		return
	}

	transformOffset := uint32(0)
	if len(transforms) > 0 && len(r.transforms) < transformCapacity {
		composed := transforms[0]
		for _, t := range transforms[1:] {
			composed = composed.Mul4(t)
		}
		r.transforms = append(r.transforms, composed)
		transformOffset = uint32(len(r.transforms) - 1)
	}

	pc := gpu.PushConstants{
		TransformationOffset:     transformOffset,
		IndexOffset:              offsets.IndexOffset,
		IndexCount:               offsets.IndexCount,
		VertexOffset:             offsets.VertexOffset,
		TextureLayerWeightOffset: offsets.WeightOffset,
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

func (r *RenderTargetTexture) cachedSamplerSet(s *Sampler) (vk.DescriptorSet, error) {
	if cached, ok := r.samplerSets[s]; ok {
		cached.lastUsed = r.frameCounter
		return cached.set.Set, nil
	}
	dev := r.inst.dev
	set, err := r.inst.mainDescriptors.Allocate(dev.Layouts.SamplerData)
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
	r.samplerSets[s] = &cachedSet{set: set, lastUsed: r.frameCounter}
	return set.Set, nil
}

func (r *RenderTargetTexture) cachedTextureSet(t Texture) (vk.DescriptorSet, error) {
	if cached, ok := r.textureSets[t]; ok {
		cached.lastUsed = r.frameCounter
		return cached.set.Set, nil
	}
	dev := r.inst.dev
	set, err := r.inst.mainDescriptors.Allocate(dev.Layouts.Texture)
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
	r.textureSets[t] = &cachedSet{set: set, lastUsed: r.frameCounter}
	return set.Set, nil
}

// recordBlurPasses appends the separable blur post-process to the render
// command buffer: horizontal into the intermediate image, vertical back
// into the target.
func (r *RenderTargetTexture) recordBlurPasses(b *rttBuffer) error {
	dev := r.inst.dev
	cb := b.renderCB

	horizontal := gpu.ProgramRenderTargetBoxBlurHorizontal
	vertical := gpu.ProgramRenderTargetBoxBlurVertical
	if r.info.BlurType == BlurTypeGaussian {
		horizontal = gpu.ProgramRenderTargetGaussianBlurHorizontal
		vertical = gpu.ProgramRenderTargetGaussianBlurVertical
	}

	sigma := r.blurSigma
	// Precomputations for the incremental gaussian evaluation.
	coefficient := float32(1.0 / (sigma * 2.5066283)) // 1 / (sigma * sqrt(2*pi))
	exponentiation := float32(1.0)
	if sigma > 0 {
		exponentiation = expNeg(1.0 / (2 * sigma * sigma))
	}
	pc := gpu.BlurPushConstants{
		BlurInfo:  [4]float32{sigma, exponentiation * exponentiation, coefficient, exponentiation},
		PixelSize: [2]float32{1 / float32(r.size[0]), 1 / float32(r.size[1])},
	}

	samplerSet, err := r.cachedSamplerSet(r.inst.defaultSampler)
	if err != nil {
		return err
	}

	pass := func(program gpu.ProgramID, fb vk.Framebuffer, srcView vk.ImageView) error {
		srcSet, err := r.blurSourceSet(srcView)
		if err != nil {
			return err
		}

		rpBegin := vk.RenderPassBeginInfo{
			SType:       vk.StructureTypeRenderPassBeginInfo,
			RenderPass:  r.blurPass,
			Framebuffer: fb,
			RenderArea:  vk.Rect2D{Extent: vk.Extent2D{Width: r.size[0], Height: r.size[1]}},
		}
		dev.Cmds.CmdBeginRenderPass(cb, &rpBegin, vk.SubpassContentsInline)

		settings := gpu.GraphicsPipelineSettings{
			Layout:      dev.BlurPipelineLayout,
			RenderPass:  r.blurPass,
			Topology:    vk.PrimitiveTopologyTriangleList,
			PolygonMode: vk.PolygonModeFill,
			Program:     program,
			Samples:     vk.SampleCount1Bit,
		}
		pipeline, err := dev.Pipelines.GetGraphicsPipeline(settings)
		if err != nil {
			return err
		}
		dev.Cmds.CmdBindPipeline(cb, vk.PipelineBindPointGraphics, pipeline)

		sets := []vk.DescriptorSet{samplerSet, srcSet}
		dev.Cmds.CmdBindDescriptorSets(cb, vk.PipelineBindPointGraphics, dev.BlurPipelineLayout,
			0, uint32(len(sets)), &sets[0], 0, nil)
		dev.Cmds.CmdPushConstants(cb, dev.BlurPipelineLayout,
			vk.ShaderStageVertexBit|vk.ShaderStageFragmentBit, 0, gpu.BlurPushConstantsSize, unsafe.Pointer(&pc))
		dev.Cmds.CmdDraw(cb, 3, 1, 0, 0)

		dev.Cmds.CmdEndRenderPass(cb)
		return nil
	}

	if err := pass(horizontal, b.blurFB, b.image.View); err != nil {
		return err
	}
	return pass(vertical, b.backFB, b.blurImage.View)
}

// blurSourceSet returns a cached texture set for a blur source view.
func (r *RenderTargetTexture) blurSourceSet(view vk.ImageView) (vk.DescriptorSet, error) {
	key := Texture(blurViewTexture{view})
	if cached, ok := r.textureSets[key]; ok {
		cached.lastUsed = r.frameCounter
		return cached.set.Set, nil
	}
	dev := r.inst.dev
	set, err := r.inst.mainDescriptors.Allocate(dev.Layouts.Texture)
	if err != nil {
		return 0, err
	}
	imageInfo := vk.DescriptorImageInfo{
		ImageView:   view,
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
	r.textureSets[key] = &cachedSet{set: set, lastUsed: r.frameCounter}
	return set.Set, nil
}

// blurViewTexture keys blur source views in the texture set cache.
type blurViewTexture struct{ view vk.ImageView }

func (b blurViewTexture) IsLoaded() bool            { return true }
func (b blurViewTexture) textureView() vk.ImageView { return b.view }
func (b blurViewTexture) textureLayerCount() uint32 { return 1 }

// EndRender finishes recording. The GPU work is submitted lazily by the
// first window (or render target) that samples this target, via commit.
func (r *RenderTargetTexture) EndRender() bool {
	dev := r.inst.dev

	if !r.inRender {
		r.inst.report(ReportSeverityNonCriticalError, "vgfx: render target EndRender without BeginRender")
		return false
	}
	r.inRender = false

	b := &r.buffers[r.recording]
	dev.Cmds.CmdEndRenderPass(b.renderCB)

	if r.info.EnableBlur && r.blurSigma > 0 {
		if err := r.recordBlurPasses(b); err != nil {
			r.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: blur pass: %v", err))
			return false
		}
	}

	if result := dev.Cmds.EndCommandBuffer(b.renderCB); result != vk.Success {
		r.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: vkEndCommandBuffer failed: %d", result))
		return false
	}

	if len(r.transforms) > 0 {
		bytes := unsafe.Slice((*byte)(unsafe.Pointer(&r.transforms[0])), len(r.transforms)*64)
		if err := r.transformBuffer.Memory.DataCopy(bytes); err != nil {
			r.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: transformation upload: %v", err))
			return false
		}
	}

	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageOneTimeSubmitBit,
	}
	if result := dev.Cmds.BeginCommandBuffer(b.transferCB, &beginInfo); result != vk.Success {
		r.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: vkBeginCommandBuffer failed: %d", result))
		return false
	}
	if err := r.meshBuffer.UploadToGPU(b.transferCB); err != nil {
		r.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: mesh upload: %v", err))
		return false
	}
	if result := dev.Cmds.EndCommandBuffer(b.transferCB); result != vk.Success {
		r.inst.report(ReportSeverityNonCriticalError, fmt.Sprintf("vgfx: vkEndCommandBuffer failed: %d", result))
		return false
	}

	// The freshly recorded buffer becomes the sampled one once committed.
	r.display = r.recording
	return true
}

// commit submits the recorded frame, chaining in the semaphores of every
// render target this one samples. Dependency cycles are detected and
// reported. Reports the semaphore a consumer must wait on, or 0 when the
// work was already committed and its semaphore handed out.
func (r *RenderTargetTexture) commit(visited map[*RenderTargetTexture]bool) (vk.Semaphore, error) {
	dev := r.inst.dev
	b := &r.buffers[r.display]

	if b.committed {
		if b.semConsumed {
			return 0, nil
		}
		b.semConsumed = true
		return b.renderDoneSem, nil
	}

	if r.committing {
		return 0, fmt.Errorf("render target dependency cycle detected")
	}
	r.committing = true
	defer func() { r.committing = false }()

	if visited == nil {
		visited = make(map[*RenderTargetTexture]bool)
	}
	if visited[r] {
		return 0, fmt.Errorf("render target dependency cycle detected")
	}
	visited[r] = true

	waitSems := make([]vk.Semaphore, 0, len(r.rttDeps)+1)
	waitStages := make([]vk.PipelineStageFlags, 0, len(r.rttDeps)+1)
	for _, dep := range r.rttDeps {
		sem, err := dep.commit(visited)
		if err != nil {
			return 0, err
		}
		if sem != 0 {
			waitSems = append(waitSems, sem)
			waitStages = append(waitStages, vk.PipelineStageFragmentShaderBit)
		}
	}

	// Transfer then render, chained like a window frame.
	transferDone := vk.Semaphore(0)
	semInfo := vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}
	if result := dev.Cmds.CreateSemaphore(dev.Handle, &semInfo, nil, &transferDone); result != vk.Success {
		return 0, fmt.Errorf("vkCreateSemaphore failed: %d", result)
	}

	vertexStages := vk.PipelineStageVertexInputBit | vk.PipelineStageVertexShaderBit
	waitSems = append(waitSems, transferDone)
	waitStages = append(waitStages, vertexStages)

	submits := []vk.SubmitInfo{
		{
			SType:                vk.StructureTypeSubmitInfo,
			CommandBufferCount:   1,
			PCommandBuffers:      &b.transferCB,
			SignalSemaphoreCount: 1,
			PSignalSemaphores:    &transferDone,
		},
		{
			SType:                vk.StructureTypeSubmitInfo,
			WaitSemaphoreCount:   uint32(len(waitSems)),
			PWaitSemaphores:      &waitSems[0],
			PWaitDstStageMask:    &waitStages[0],
			CommandBufferCount:   1,
			PCommandBuffers:      &b.renderCB,
			SignalSemaphoreCount: 1,
			PSignalSemaphores:    &b.renderDoneSem,
		},
	}
	if result := dev.Queues[gpu.QueuePrimaryRender].Submit(dev.Cmds, submits, b.renderDoneFence); result != vk.Success {
		dev.Cmds.DestroySemaphore(dev.Handle, transferDone, nil)
		return 0, fmt.Errorf("render target submit failed: %d", result)
	}
	r.pendingTransferSems = append(r.pendingTransferSems, transferDone)

	b.pending = true
	b.committed = true
	b.semConsumed = true
	return b.renderDoneSem, nil
}

// expNeg computes e^-x.
func expNeg(x float32) float32 {
	return float32(math.Exp(-float64(x)))
}
