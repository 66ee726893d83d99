// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vgfx

import (
	"fmt"
	"image"
	"math"
	"os"
	"sync/atomic"
	"time"

	// Image decoders for the texture loader.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/disintegration/imaging"

	"github.com/gogpu/vgfx/internal/gpu"
	"github.com/gogpu/vgfx/internal/gpu/memory"
	"github.com/gogpu/vgfx/internal/vk"
	"github.com/gogpu/vgfx/internal/work"
)

// Texture is anything a draw call can sample: a loaded texture resource or
// a render target texture.
type Texture interface {
	// IsLoaded reports whether the texture can be sampled right now.
	IsLoaded() bool

	textureView() vk.ImageView
	textureLayerCount() uint32
}

// mipLevelCount returns floor(log2(max(w, h))) + 1, the full mip chain
// length for a w x h image.
func mipLevelCount(w, h uint32) uint32 {
	m := w
	if h > m {
		m = h
	}
	if m == 0 {
		return 1
	}
	return uint32(math.Floor(math.Log2(float64(m)))) + 1
}

// TextureResource is an array texture loaded from image files or built from
// raw pixel layers. Loading runs on a loader thread; the GPU upload chain
// (transfer, mip blits, queue family handovers) completes asynchronously
// behind a fence.
type TextureResource struct {
	resourceBase

	// Creation inputs for the raw-pixel path.
	createSize   [2]uint32
	createLayers [][]byte

	size       [2]uint32
	layerCount uint32
	mipLevels  uint32

	img     memory.CompleteImage
	staging memory.CompleteBuffer

	cbTransfer vk.CommandBuffer
	cbBlit     vk.CommandBuffer
	cbFinal    vk.CommandBuffer

	poolTransfer vk.CommandPool
	poolBlit     vk.CommandPool
	poolFinal    vk.CommandPool

	semTransfer vk.Semaphore
	semBlit     vk.Semaphore
	fence       vk.Fence

	set    gpu.PoolSet
	hasSet bool

	cleanupScheduled atomic.Bool
}

// Size returns the per-layer extent.
func (t *TextureResource) Size() [2]uint32 { return t.size }

// LayerCount returns the number of array layers.
func (t *TextureResource) LayerCount() uint32 { return t.layerCount }

// MipLevels returns the number of generated mip levels.
func (t *TextureResource) MipLevels() uint32 { return t.mipLevels }

// Status polls the resource status. The GPU completion fence is checked on
// demand; the first successful query schedules the staging cleanup.
func (t *TextureResource) Status() ResourceStatus { return t.poll() }

// IsLoaded reports whether the texture finished loading successfully.
func (t *TextureResource) IsLoaded() bool { return t.poll() == ResourceStatusLoaded }

// WaitUntilLoaded blocks until the texture is loaded or failed. A zero
// timeout waits without bound. Reports the final status and whether it was
// reached before the timeout.
func (t *TextureResource) WaitUntilLoaded(timeout time.Duration) (ResourceStatus, bool) {
	return waitUntilDetermined(t, timeout)
}

func (t *TextureResource) textureView() vk.ImageView { return t.img.View }

func (t *TextureResource) textureLayerCount() uint32 { return t.layerCount }

func (t *TextureResource) poll() ResourceStatus {
	if s := t.storedStatus(); s != ResourceStatusUndetermined {
		return s
	}
	if !t.loadRunDone() {
		return ResourceStatusUndetermined
	}
	if t.fence == 0 {
		// The load function returned without a fence: it failed before
		// submission and recorded that already.
		return t.storedStatus()
	}

	dev := t.mgr.inst.dev
	switch result := dev.Cmds.GetFenceStatus(dev.Handle, t.fence); result {
	case vk.Success:
		t.setStatus(ResourceStatusLoaded)
		t.scheduleCleanup()
		return ResourceStatusLoaded
	case vk.NotReady:
		return ResourceStatusUndetermined
	default:
		t.mgr.inst.report(ReportSeverityWarning, fmt.Sprintf("vgfx: texture fence query failed: %d", result))
		t.setStatus(ResourceStatusFailedToLoad)
		return ResourceStatusFailedToLoad
	}
}

// scheduleCleanup queues a task on the owning loader thread that destroys
// the upload chain: command buffers, semaphores, fence and staging buffer.
// The image, view and descriptor set live on.
func (t *TextureResource) scheduleCleanup() {
	if t.cleanupScheduled.Swap(true) {
		return
	}
	_, err := t.mgr.pool.ScheduleTask(func(res work.Resource) {
		t.destroyUploadChain()
	}, []int{t.loaderThread}, nil)
	if err != nil {
		// Shutdown path; unload also destroys the upload chain.
		t.cleanupScheduled.Store(false)
	}
}

func (t *TextureResource) destroyUploadChain() {
	dev := t.mgr.inst.dev

	if t.cbTransfer != 0 {
		dev.Cmds.FreeCommandBuffers(dev.Handle, t.poolTransfer, 1, &t.cbTransfer)
		t.cbTransfer = 0
	}
	if t.cbBlit != 0 {
		dev.Cmds.FreeCommandBuffers(dev.Handle, t.poolBlit, 1, &t.cbBlit)
		t.cbBlit = 0
	}
	if t.cbFinal != 0 {
		dev.Cmds.FreeCommandBuffers(dev.Handle, t.poolFinal, 1, &t.cbFinal)
		t.cbFinal = 0
	}
	if t.semTransfer != 0 {
		dev.Cmds.DestroySemaphore(dev.Handle, t.semTransfer, nil)
		t.semTransfer = 0
	}
	if t.semBlit != 0 {
		dev.Cmds.DestroySemaphore(dev.Handle, t.semBlit, nil)
		t.semBlit = 0
	}
	if t.fence != 0 {
		dev.Cmds.DestroyFence(dev.Handle, t.fence, nil)
		t.fence = 0
	}
	if t.staging.Buffer != 0 {
		dev.Memory.DestroyCompleteBuffer(&t.staging)
	}
}

// loadPixels produces the raw RGBA layers, either by decoding the source
// files or by taking the caller-provided pixel vectors.
func (t *TextureResource) loadPixels() ([2]uint32, [][]byte, error) {
	if len(t.createLayers) > 0 {
		return t.createSize, t.createLayers, nil
	}

	var size [2]uint32
	layers := make([][]byte, 0, len(t.paths))
	for _, path := range t.paths {
		f, err := os.Open(path)
		if err != nil {
			return size, nil, err
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return size, nil, fmt.Errorf("decoding %s: %w", path, err)
		}

		nrgba := imaging.Clone(img)
		bounds := nrgba.Bounds()
		layerSize := [2]uint32{uint32(bounds.Dx()), uint32(bounds.Dy())}
		if len(layers) == 0 {
			size = layerSize
		} else if layerSize != size {
			return size, nil, fmt.Errorf("layer %s is %dx%d, previous layers are %dx%d",
				path, layerSize[0], layerSize[1], size[0], size[1])
		}
		layers = append(layers, nrgba.Pix)
	}
	return size, layers, nil
}

// load runs on the owning loader thread and performs the full upload
// procedure: staging buffer, device image, mip chain blits and queue
// family ownership transfers, finishing with a completion fence.
func (t *TextureResource) load(tr *gpu.ThreadResources) {
	dev := tr.Device()

	size, layers, err := t.loadPixels()
	if err != nil {
		t.mgr.reportLoadFailure(&t.resourceBase, err)
		return
	}
	t.size = size
	t.layerCount = uint32(len(layers))
	t.mipLevels = mipLevelCount(size[0], size[1])

	fail := func(err error) {
		t.destroyUploadChain()
		if t.img.Image != 0 {
			dev.Memory.DestroyCompleteImage(&t.img)
		}
		t.fence = 0
		t.mgr.reportLoadFailure(&t.resourceBase, err)
	}

	// Staging buffer with all layers back to back.
	all := make([]byte, 0, len(layers)*len(layers[0]))
	for _, layer := range layers {
		all = append(all, layer...)
	}
	t.staging, err = dev.Memory.CreateCompleteHostBufferWithData(all, vk.BufferUsageTransferSrcBit)
	if err != nil {
		fail(err)
		return
	}

	imageInfo := vk.ImageCreateInfo{
		SType:       vk.StructureTypeImageCreateInfo,
		ImageType:   vk.ImageType2d,
		Format:      vk.FormatR8g8b8a8Unorm,
		Extent:      vk.Extent3D{Width: size[0], Height: size[1], Depth: 1},
		MipLevels:   t.mipLevels,
		ArrayLayers: t.layerCount,
		Samples:     vk.SampleCount1Bit,
		Tiling:      vk.ImageTilingOptimal,
		Usage: vk.ImageUsageTransferSrcBit | vk.ImageUsageTransferDstBit |
			vk.ImageUsageSampledBit,
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}
	viewInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		ViewType: vk.ImageViewType2dArray,
		Format:   vk.FormatR8g8b8a8Unorm,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectColorBit,
			LevelCount: t.mipLevels,
			LayerCount: t.layerCount,
		},
	}
	t.img, err = dev.Memory.CreateCompleteImage(&imageInfo, vk.MemoryPropertyDeviceLocalBit, &viewInfo)
	if err != nil {
		fail(err)
		return
	}

	transferFamily := dev.Queues[gpu.QueuePrimaryTransfer].FamilyIndex()
	blitFamily := dev.Queues[gpu.QueueSecondaryRender].FamilyIndex()
	finalFamily := dev.Queues[gpu.QueuePrimaryRender].FamilyIndex()

	t.poolTransfer = tr.PrimaryTransferPool
	t.poolBlit = tr.SecondaryRenderPool
	if t.cbTransfer, err = tr.AllocateCommandBuffer(t.poolTransfer); err != nil {
		fail(err)
		return
	}
	if t.cbBlit, err = tr.AllocateCommandBuffer(t.poolBlit); err != nil {
		fail(err)
		return
	}
	needFinal := finalFamily != blitFamily
	if needFinal {
		t.poolFinal = tr.PrimaryRenderPool
		if t.cbFinal, err = tr.AllocateCommandBuffer(t.poolFinal); err != nil {
			fail(err)
			return
		}
	}

	if err = t.recordTransfer(dev, transferFamily, blitFamily); err != nil {
		fail(err)
		return
	}
	if err = t.recordBlit(dev, transferFamily, blitFamily, finalFamily); err != nil {
		fail(err)
		return
	}
	if needFinal {
		if err = t.recordFinal(dev, blitFamily, finalFamily); err != nil {
			fail(err)
			return
		}
	}

	semInfo := vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}
	if result := dev.Cmds.CreateSemaphore(dev.Handle, &semInfo, nil, &t.semTransfer); result != vk.Success {
		fail(fmt.Errorf("vkCreateSemaphore failed: %d", result))
		return
	}
	if needFinal {
		if result := dev.Cmds.CreateSemaphore(dev.Handle, &semInfo, nil, &t.semBlit); result != vk.Success {
			fail(fmt.Errorf("vkCreateSemaphore failed: %d", result))
			return
		}
	}
	fenceInfo := vk.FenceCreateInfo{SType: vk.StructureTypeFenceCreateInfo}
	if result := dev.Cmds.CreateFence(dev.Handle, &fenceInfo, nil, &t.fence); result != vk.Success {
		fail(fmt.Errorf("vkCreateFence failed: %d", result))
		return
	}

	// Submission chain: transfer signals semTransfer; the blit waits on it
	// and signals either the fence directly or semBlit when a final
	// acquire on the primary render queue is needed.
	transferStage := vk.PipelineStageTransferBit

	transferSubmit := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		CommandBufferCount:   1,
		PCommandBuffers:      &t.cbTransfer,
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    &t.semTransfer,
	}
	if result := dev.Queues[gpu.QueuePrimaryTransfer].Submit(dev.Cmds, []vk.SubmitInfo{transferSubmit}, 0); result != vk.Success {
		fail(fmt.Errorf("transfer submit failed: %d", result))
		return
	}

	blitSubmit := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    &t.semTransfer,
		PWaitDstStageMask:  &transferStage,
		CommandBufferCount: 1,
		PCommandBuffers:    &t.cbBlit,
	}
	blitFence := t.fence
	if needFinal {
		blitSubmit.SignalSemaphoreCount = 1
		blitSubmit.PSignalSemaphores = &t.semBlit
		blitFence = 0
	}
	if result := dev.Queues[gpu.QueueSecondaryRender].Submit(dev.Cmds, []vk.SubmitInfo{blitSubmit}, blitFence); result != vk.Success {
		fail(fmt.Errorf("blit submit failed: %d", result))
		return
	}

	if needFinal {
		allCommands := vk.PipelineStageAllCommandsBit
		finalSubmit := vk.SubmitInfo{
			SType:              vk.StructureTypeSubmitInfo,
			WaitSemaphoreCount: 1,
			PWaitSemaphores:    &t.semBlit,
			PWaitDstStageMask:  &allCommands,
			CommandBufferCount: 1,
			PCommandBuffers:    &t.cbFinal,
		}
		if result := dev.Queues[gpu.QueuePrimaryRender].Submit(dev.Cmds, []vk.SubmitInfo{finalSubmit}, t.fence); result != vk.Success {
			fail(fmt.Errorf("final submit failed: %d", result))
			return
		}
	}

	// Descriptor set sampling the finished image.
	set, err := tr.Descriptors.Allocate(dev.Layouts.Texture)
	if err != nil {
		t.mgr.inst.report(ReportSeverityWarning, fmt.Sprintf("vgfx: texture descriptor set: %v", err))
	} else {
		imageInfo := vk.DescriptorImageInfo{
			ImageView:   t.img.View,
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
		t.set = set
		t.hasSet = true
	}
}

// recordTransfer records the staging to image copy for mip 0 of all
// layers, plus the release half of the transfer-to-blit queue family
// handover.
func (t *TextureResource) recordTransfer(dev *gpu.Device, transferFamily, blitFamily uint32) error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageOneTimeSubmitBit,
	}
	if result := dev.Cmds.BeginCommandBuffer(t.cbTransfer, &beginInfo); result != vk.Success {
		return fmt.Errorf("vkBeginCommandBuffer failed: %d", result)
	}

	fullRange := vk.ImageSubresourceRange{
		AspectMask: vk.ImageAspectColorBit,
		LevelCount: t.mipLevels,
		LayerCount: t.layerCount,
	}

	toTransferDst := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		DstAccessMask:       vk.AccessTransferWriteBit,
		OldLayout:           vk.ImageLayoutUndefined,
		NewLayout:           vk.ImageLayoutTransferDstOptimal,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               t.img.Image,
		SubresourceRange:    fullRange,
	}
	dev.Cmds.CmdPipelineBarrier(t.cbTransfer,
		vk.PipelineStageTopOfPipeBit, vk.PipelineStageTransferBit, 0,
		0, nil, 0, nil, 1, &toTransferDst)

	region := vk.BufferImageCopy{
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask: vk.ImageAspectColorBit,
			MipLevel:   0,
			LayerCount: t.layerCount,
		},
		ImageExtent: vk.Extent3D{Width: t.size[0], Height: t.size[1], Depth: 1},
	}
	dev.Cmds.CmdCopyBufferToImage(t.cbTransfer, t.staging.Buffer, t.img.Image,
		vk.ImageLayoutTransferDstOptimal, 1, &region)

	if transferFamily != blitFamily {
		release := vk.ImageMemoryBarrier{
			SType:               vk.StructureTypeImageMemoryBarrier,
			SrcAccessMask:       vk.AccessTransferWriteBit,
			OldLayout:           vk.ImageLayoutTransferDstOptimal,
			NewLayout:           vk.ImageLayoutTransferDstOptimal,
			SrcQueueFamilyIndex: transferFamily,
			DstQueueFamilyIndex: blitFamily,
			Image:               t.img.Image,
			SubresourceRange:    fullRange,
		}
		dev.Cmds.CmdPipelineBarrier(t.cbTransfer,
			vk.PipelineStageTransferBit, vk.PipelineStageBottomOfPipeBit, 0,
			0, nil, 0, nil, 1, &release)
	}

	if result := dev.Cmds.EndCommandBuffer(t.cbTransfer); result != vk.Success {
		return fmt.Errorf("vkEndCommandBuffer failed: %d", result)
	}
	return nil
}

// recordBlit records the mip chain generation and the transitions to
// SHADER_READ_ONLY_OPTIMAL, plus both halves of the queue family handovers
// it participates in.
func (t *TextureResource) recordBlit(dev *gpu.Device, transferFamily, blitFamily, finalFamily uint32) error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageOneTimeSubmitBit,
	}
	if result := dev.Cmds.BeginCommandBuffer(t.cbBlit, &beginInfo); result != vk.Success {
		return fmt.Errorf("vkBeginCommandBuffer failed: %d", result)
	}

	fullRange := vk.ImageSubresourceRange{
		AspectMask: vk.ImageAspectColorBit,
		LevelCount: t.mipLevels,
		LayerCount: t.layerCount,
	}

	if transferFamily != blitFamily {
		// Acquire half of the handover recorded in the transfer buffer.
		acquire := vk.ImageMemoryBarrier{
			SType:               vk.StructureTypeImageMemoryBarrier,
			DstAccessMask:       vk.AccessTransferReadBit | vk.AccessTransferWriteBit,
			OldLayout:           vk.ImageLayoutTransferDstOptimal,
			NewLayout:           vk.ImageLayoutTransferDstOptimal,
			SrcQueueFamilyIndex: transferFamily,
			DstQueueFamilyIndex: blitFamily,
			Image:               t.img.Image,
			SubresourceRange:    fullRange,
		}
		dev.Cmds.CmdPipelineBarrier(t.cbBlit,
			vk.PipelineStageTopOfPipeBit, vk.PipelineStageTransferBit, 0,
			0, nil, 0, nil, 1, &acquire)
	}

	srcW := int32(t.size[0])
	srcH := int32(t.size[1])
	for mip := uint32(1); mip < t.mipLevels; mip++ {
		dstW := srcW / 2
		if dstW < 1 {
			dstW = 1
		}
		dstH := srcH / 2
		if dstH < 1 {
			dstH = 1
		}

		srcRange := vk.ImageSubresourceRange{
			AspectMask:   vk.ImageAspectColorBit,
			BaseMipLevel: mip - 1,
			LevelCount:   1,
			LayerCount:   t.layerCount,
		}
		toSrc := vk.ImageMemoryBarrier{
			SType:               vk.StructureTypeImageMemoryBarrier,
			SrcAccessMask:       vk.AccessTransferWriteBit,
			DstAccessMask:       vk.AccessTransferReadBit,
			OldLayout:           vk.ImageLayoutTransferDstOptimal,
			NewLayout:           vk.ImageLayoutTransferSrcOptimal,
			SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
			DstQueueFamilyIndex: vk.QueueFamilyIgnored,
			Image:               t.img.Image,
			SubresourceRange:    srcRange,
		}
		dev.Cmds.CmdPipelineBarrier(t.cbBlit,
			vk.PipelineStageTransferBit, vk.PipelineStageTransferBit, 0,
			0, nil, 0, nil, 1, &toSrc)

		blit := vk.ImageBlit{
			SrcSubresource: vk.ImageSubresourceLayers{
				AspectMask: vk.ImageAspectColorBit,
				MipLevel:   mip - 1,
				LayerCount: t.layerCount,
			},
			DstSubresource: vk.ImageSubresourceLayers{
				AspectMask: vk.ImageAspectColorBit,
				MipLevel:   mip,
				LayerCount: t.layerCount,
			},
		}
		blit.SrcOffsets[1] = vk.Offset3D{X: srcW, Y: srcH, Z: 1}
		blit.DstOffsets[1] = vk.Offset3D{X: dstW, Y: dstH, Z: 1}
		dev.Cmds.CmdBlitImage(t.cbBlit,
			t.img.Image, vk.ImageLayoutTransferSrcOptimal,
			t.img.Image, vk.ImageLayoutTransferDstOptimal,
			1, &blit, vk.FilterLinear)

		// The source mip is final now.
		toShader := vk.ImageMemoryBarrier{
			SType:               vk.StructureTypeImageMemoryBarrier,
			SrcAccessMask:       vk.AccessTransferReadBit,
			DstAccessMask:       vk.AccessShaderReadBit,
			OldLayout:           vk.ImageLayoutTransferSrcOptimal,
			NewLayout:           vk.ImageLayoutShaderReadOnlyOptimal,
			SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
			DstQueueFamilyIndex: vk.QueueFamilyIgnored,
			Image:               t.img.Image,
			SubresourceRange:    srcRange,
		}
		dev.Cmds.CmdPipelineBarrier(t.cbBlit,
			vk.PipelineStageTransferBit, vk.PipelineStageFragmentShaderBit, 0,
			0, nil, 0, nil, 1, &toShader)

		srcW = dstW
		srcH = dstH
	}

	// The last mip (or the only one) never became a blit source.
	lastRange := vk.ImageSubresourceRange{
		AspectMask:   vk.ImageAspectColorBit,
		BaseMipLevel: t.mipLevels - 1,
		LevelCount:   1,
		LayerCount:   t.layerCount,
	}
	lastToShader := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       vk.AccessTransferWriteBit,
		DstAccessMask:       vk.AccessShaderReadBit,
		OldLayout:           vk.ImageLayoutTransferDstOptimal,
		NewLayout:           vk.ImageLayoutShaderReadOnlyOptimal,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               t.img.Image,
		SubresourceRange:    lastRange,
	}
	dev.Cmds.CmdPipelineBarrier(t.cbBlit,
		vk.PipelineStageTransferBit, vk.PipelineStageFragmentShaderBit, 0,
		0, nil, 0, nil, 1, &lastToShader)

	if blitFamily != finalFamily {
		release := vk.ImageMemoryBarrier{
			SType:               vk.StructureTypeImageMemoryBarrier,
			SrcAccessMask:       vk.AccessShaderReadBit,
			OldLayout:           vk.ImageLayoutShaderReadOnlyOptimal,
			NewLayout:           vk.ImageLayoutShaderReadOnlyOptimal,
			SrcQueueFamilyIndex: blitFamily,
			DstQueueFamilyIndex: finalFamily,
			Image:               t.img.Image,
			SubresourceRange:    fullRange,
		}
		dev.Cmds.CmdPipelineBarrier(t.cbBlit,
			vk.PipelineStageFragmentShaderBit, vk.PipelineStageBottomOfPipeBit, 0,
			0, nil, 0, nil, 1, &release)
	}

	if result := dev.Cmds.EndCommandBuffer(t.cbBlit); result != vk.Success {
		return fmt.Errorf("vkEndCommandBuffer failed: %d", result)
	}
	return nil
}

// recordFinal records the acquire half of the blit-to-render handover on
// the primary render queue.
func (t *TextureResource) recordFinal(dev *gpu.Device, blitFamily, finalFamily uint32) error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageOneTimeSubmitBit,
	}
	if result := dev.Cmds.BeginCommandBuffer(t.cbFinal, &beginInfo); result != vk.Success {
		return fmt.Errorf("vkBeginCommandBuffer failed: %d", result)
	}

	acquire := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		DstAccessMask:       vk.AccessShaderReadBit,
		OldLayout:           vk.ImageLayoutShaderReadOnlyOptimal,
		NewLayout:           vk.ImageLayoutShaderReadOnlyOptimal,
		SrcQueueFamilyIndex: blitFamily,
		DstQueueFamilyIndex: finalFamily,
		Image:               t.img.Image,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectColorBit,
			LevelCount: t.mipLevels,
			LayerCount: t.layerCount,
		},
	}
	dev.Cmds.CmdPipelineBarrier(t.cbFinal,
		vk.PipelineStageTopOfPipeBit, vk.PipelineStageFragmentShaderBit, 0,
		0, nil, 0, nil, 1, &acquire)

	if result := dev.Cmds.EndCommandBuffer(t.cbFinal); result != vk.Success {
		return fmt.Errorf("vkEndCommandBuffer failed: %d", result)
	}
	return nil
}

// unload runs on the owning loader thread. The GPU work is drained before
// any object is destroyed.
func (t *TextureResource) unload(tr *gpu.ThreadResources) {
	dev := tr.Device()

	if t.fence != 0 {
		_ = dev.Cmds.WaitForFences(dev.Handle, 1, &t.fence, vk.True, ^uint64(0))
	}
	t.destroyUploadChain()

	if t.hasSet {
		tr.Descriptors.Free(t.set)
		t.hasSet = false
	}
	if t.img.Image != 0 {
		dev.Memory.DestroyCompleteImage(&t.img)
	}
}
