// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vk

// Bool32 is VkBool32.
type Bool32 = uint32

// Boolean values.
const (
	False Bool32 = 0
	True  Bool32 = 1
)

// Result is VkResult.
type Result int32

// Result values.
const (
	Success                   Result = 0
	NotReady                  Result = 1
	Timeout                   Result = 2
	EventSet                  Result = 3
	EventReset                Result = 4
	Incomplete                Result = 5
	ErrorOutOfHostMemory      Result = -1
	ErrorOutOfDeviceMemory    Result = -2
	ErrorInitializationFailed Result = -3
	ErrorDeviceLost           Result = -4
	ErrorMemoryMapFailed      Result = -5
	ErrorLayerNotPresent      Result = -6
	ErrorExtensionNotPresent  Result = -7
	ErrorFeatureNotPresent    Result = -8
	ErrorIncompatibleDriver   Result = -9
	ErrorTooManyObjects       Result = -10
	ErrorFormatNotSupported   Result = -11
	ErrorFragmentedPool       Result = -12
	ErrorOutOfPoolMemory      Result = -1000069000
	ErrorSurfaceLostKhr       Result = -1000000000
	ErrorNativeWindowInUseKhr Result = -1000000001
	SuboptimalKhr             Result = 1000001003
	ErrorOutOfDateKhr         Result = -1000001004
)

// StructureType is VkStructureType.
type StructureType uint32

// Structure types for the structs this package defines.
const (
	StructureTypeApplicationInfo                      StructureType = 0
	StructureTypeInstanceCreateInfo                   StructureType = 1
	StructureTypeDeviceQueueCreateInfo                StructureType = 2
	StructureTypeDeviceCreateInfo                     StructureType = 3
	StructureTypeSubmitInfo                           StructureType = 4
	StructureTypeMemoryAllocateInfo                   StructureType = 5
	StructureTypeMappedMemoryRange                    StructureType = 6
	StructureTypeFenceCreateInfo                      StructureType = 8
	StructureTypeSemaphoreCreateInfo                  StructureType = 9
	StructureTypeBufferCreateInfo                     StructureType = 12
	StructureTypeImageCreateInfo                      StructureType = 14
	StructureTypeImageViewCreateInfo                  StructureType = 15
	StructureTypeShaderModuleCreateInfo               StructureType = 16
	StructureTypePipelineCacheCreateInfo              StructureType = 17
	StructureTypePipelineShaderStageCreateInfo        StructureType = 18
	StructureTypePipelineVertexInputStateCreateInfo   StructureType = 19
	StructureTypePipelineInputAssemblyStateCreateInfo StructureType = 20
	StructureTypePipelineViewportStateCreateInfo      StructureType = 22
	StructureTypePipelineRasterizationStateCreateInfo StructureType = 23
	StructureTypePipelineMultisampleStateCreateInfo   StructureType = 24
	StructureTypePipelineDepthStencilStateCreateInfo  StructureType = 25
	StructureTypePipelineColorBlendStateCreateInfo    StructureType = 26
	StructureTypePipelineDynamicStateCreateInfo       StructureType = 27
	StructureTypeGraphicsPipelineCreateInfo           StructureType = 28
	StructureTypePipelineLayoutCreateInfo             StructureType = 30
	StructureTypeSamplerCreateInfo                    StructureType = 31
	StructureTypeDescriptorSetLayoutCreateInfo        StructureType = 32
	StructureTypeDescriptorPoolCreateInfo             StructureType = 33
	StructureTypeDescriptorSetAllocateInfo            StructureType = 34
	StructureTypeWriteDescriptorSet                   StructureType = 35
	StructureTypeFramebufferCreateInfo                StructureType = 37
	StructureTypeRenderPassCreateInfo                 StructureType = 38
	StructureTypeCommandPoolCreateInfo                StructureType = 39
	StructureTypeCommandBufferAllocateInfo            StructureType = 40
	StructureTypeCommandBufferInheritanceInfo         StructureType = 41
	StructureTypeCommandBufferBeginInfo               StructureType = 42
	StructureTypeRenderPassBeginInfo                  StructureType = 43
	StructureTypeBufferMemoryBarrier                  StructureType = 44
	StructureTypeImageMemoryBarrier                   StructureType = 45
	StructureTypeMemoryBarrier                        StructureType = 46
	StructureTypeSwapchainCreateInfoKhr               StructureType = 1000001000
	StructureTypePresentInfoKhr                       StructureType = 1000001001
)

// Format is VkFormat. Only the formats the renderer touches are listed.
type Format uint32

// Formats.
const (
	FormatUndefined          Format = 0
	FormatR8g8b8a8Unorm      Format = 37
	FormatR8g8b8a8Srgb       Format = 43
	FormatB8g8r8a8Unorm      Format = 44
	FormatB8g8r8a8Srgb       Format = 50
	FormatR32g32Sfloat       Format = 103
	FormatR32g32b32a32Sfloat Format = 109
)

// ColorSpaceKHR is VkColorSpaceKHR.
type ColorSpaceKHR uint32

// ColorSpaceSrgbNonlinearKhr is the standard sRGB color space.
const ColorSpaceSrgbNonlinearKhr ColorSpaceKHR = 0

// ImageLayout is VkImageLayout.
type ImageLayout uint32

// Image layouts.
const (
	ImageLayoutUndefined              ImageLayout = 0
	ImageLayoutGeneral                ImageLayout = 1
	ImageLayoutColorAttachmentOptimal ImageLayout = 2
	ImageLayoutShaderReadOnlyOptimal  ImageLayout = 5
	ImageLayoutTransferSrcOptimal     ImageLayout = 6
	ImageLayoutTransferDstOptimal     ImageLayout = 7
	ImageLayoutPresentSrcKhr          ImageLayout = 1000001002
)

// ImageTiling is VkImageTiling.
type ImageTiling uint32

// Image tilings.
const (
	ImageTilingOptimal ImageTiling = 0
	ImageTilingLinear  ImageTiling = 1
)

// ImageType is VkImageType.
type ImageType uint32

// ImageType2d is a two dimensional image.
const ImageType2d ImageType = 1

// ImageViewType is VkImageViewType.
type ImageViewType uint32

// Image view types.
const (
	ImageViewType2d      ImageViewType = 1
	ImageViewType2dArray ImageViewType = 5
)

// SampleCountFlagBits is VkSampleCountFlagBits.
type SampleCountFlagBits uint32

// SampleCountFlags is VkSampleCountFlags.
type SampleCountFlags = uint32

// Sample counts.
const (
	SampleCount1Bit  SampleCountFlagBits = 1
	SampleCount2Bit  SampleCountFlagBits = 2
	SampleCount4Bit  SampleCountFlagBits = 4
	SampleCount8Bit  SampleCountFlagBits = 8
	SampleCount16Bit SampleCountFlagBits = 16
	SampleCount32Bit SampleCountFlagBits = 32
	SampleCount64Bit SampleCountFlagBits = 64
)

// ImageAspectFlags is VkImageAspectFlags.
type ImageAspectFlags = uint32

// ImageAspectColorBit selects the color aspect.
const ImageAspectColorBit ImageAspectFlags = 1

// ImageUsageFlags is VkImageUsageFlags.
type ImageUsageFlags = uint32

// Image usages.
const (
	ImageUsageTransferSrcBit     ImageUsageFlags = 0x01
	ImageUsageTransferDstBit     ImageUsageFlags = 0x02
	ImageUsageSampledBit         ImageUsageFlags = 0x04
	ImageUsageStorageBit         ImageUsageFlags = 0x08
	ImageUsageColorAttachmentBit ImageUsageFlags = 0x10
)

// BufferUsageFlags is VkBufferUsageFlags.
type BufferUsageFlags = uint32

// Buffer usages.
const (
	BufferUsageTransferSrcBit   BufferUsageFlags = 0x01
	BufferUsageTransferDstBit   BufferUsageFlags = 0x02
	BufferUsageUniformBufferBit BufferUsageFlags = 0x10
	BufferUsageStorageBufferBit BufferUsageFlags = 0x20
	BufferUsageIndexBufferBit   BufferUsageFlags = 0x40
	BufferUsageVertexBufferBit  BufferUsageFlags = 0x80
)

// MemoryPropertyFlags is VkMemoryPropertyFlags.
type MemoryPropertyFlags = uint32

// Memory properties.
const (
	MemoryPropertyDeviceLocalBit     MemoryPropertyFlags = 0x01
	MemoryPropertyHostVisibleBit     MemoryPropertyFlags = 0x02
	MemoryPropertyHostCoherentBit    MemoryPropertyFlags = 0x04
	MemoryPropertyHostCachedBit      MemoryPropertyFlags = 0x08
	MemoryPropertyLazilyAllocatedBit MemoryPropertyFlags = 0x10
)

// MemoryHeapFlags is VkMemoryHeapFlags.
type MemoryHeapFlags = uint32

// MemoryHeapDeviceLocalBit marks a device local heap.
const MemoryHeapDeviceLocalBit MemoryHeapFlags = 1

// SharingMode is VkSharingMode.
type SharingMode uint32

// Sharing modes.
const (
	SharingModeExclusive  SharingMode = 0
	SharingModeConcurrent SharingMode = 1
)

// QueueFlags is VkQueueFlags.
type QueueFlags = uint32

// Queue capability bits.
const (
	QueueGraphicsBit      QueueFlags = 0x01
	QueueComputeBit       QueueFlags = 0x02
	QueueTransferBit      QueueFlags = 0x04
	QueueSparseBindingBit QueueFlags = 0x08
)

// PipelineStageFlags is VkPipelineStageFlags.
type PipelineStageFlags = uint32

// Pipeline stages.
const (
	PipelineStageTopOfPipeBit             PipelineStageFlags = 0x0001
	PipelineStageVertexInputBit           PipelineStageFlags = 0x0004
	PipelineStageVertexShaderBit          PipelineStageFlags = 0x0008
	PipelineStageFragmentShaderBit        PipelineStageFlags = 0x0080
	PipelineStageColorAttachmentOutputBit PipelineStageFlags = 0x0400
	PipelineStageTransferBit              PipelineStageFlags = 0x1000
	PipelineStageBottomOfPipeBit          PipelineStageFlags = 0x2000
	PipelineStageHostBit                  PipelineStageFlags = 0x4000
	PipelineStageAllCommandsBit           PipelineStageFlags = 0x10000
)

// AccessFlags is VkAccessFlags.
type AccessFlags = uint32

// Access masks.
const (
	AccessIndexReadBit            AccessFlags = 0x0002
	AccessUniformReadBit          AccessFlags = 0x0008
	AccessShaderReadBit           AccessFlags = 0x0020
	AccessShaderWriteBit          AccessFlags = 0x0040
	AccessColorAttachmentReadBit  AccessFlags = 0x0080
	AccessColorAttachmentWriteBit AccessFlags = 0x0100
	AccessTransferReadBit         AccessFlags = 0x0800
	AccessTransferWriteBit        AccessFlags = 0x1000
	AccessHostWriteBit            AccessFlags = 0x4000
	AccessMemoryReadBit           AccessFlags = 0x8000
)

// DescriptorType is VkDescriptorType.
type DescriptorType uint32

// Descriptor types.
const (
	DescriptorTypeSampler              DescriptorType = 0
	DescriptorTypeCombinedImageSampler DescriptorType = 1
	DescriptorTypeSampledImage         DescriptorType = 2
	DescriptorTypeStorageImage         DescriptorType = 3
	DescriptorTypeUniformTexelBuffer   DescriptorType = 4
	DescriptorTypeStorageTexelBuffer   DescriptorType = 5
	DescriptorTypeUniformBuffer        DescriptorType = 6
	DescriptorTypeStorageBuffer        DescriptorType = 7
	DescriptorTypeInputAttachment      DescriptorType = 10
)

// DescriptorPoolCreateFlags is VkDescriptorPoolCreateFlags.
type DescriptorPoolCreateFlags = uint32

// DescriptorPoolCreateFreeDescriptorSetBit allows freeing individual sets.
const DescriptorPoolCreateFreeDescriptorSetBit DescriptorPoolCreateFlags = 1

// ShaderStageFlags is VkShaderStageFlags.
type ShaderStageFlags = uint32

// Shader stages.
const (
	ShaderStageVertexBit   ShaderStageFlags = 0x01
	ShaderStageFragmentBit ShaderStageFlags = 0x10
	ShaderStageComputeBit  ShaderStageFlags = 0x20
)

// PrimitiveTopology is VkPrimitiveTopology.
type PrimitiveTopology uint32

// Topologies.
const (
	PrimitiveTopologyPointList    PrimitiveTopology = 0
	PrimitiveTopologyLineList     PrimitiveTopology = 1
	PrimitiveTopologyTriangleList PrimitiveTopology = 3
)

// PolygonMode is VkPolygonMode.
type PolygonMode uint32

// Polygon modes.
const (
	PolygonModeFill  PolygonMode = 0
	PolygonModeLine  PolygonMode = 1
	PolygonModePoint PolygonMode = 2
)

// CullModeFlags is VkCullModeFlags.
type CullModeFlags = uint32

// CullModeNone disables culling.
const CullModeNone CullModeFlags = 0

// FrontFace is VkFrontFace.
type FrontFace uint32

// Front face winding orders.
const (
	FrontFaceCounterClockwise FrontFace = 0
	FrontFaceClockwise        FrontFace = 1
)

// BlendFactor is VkBlendFactor.
type BlendFactor uint32

// Blend factors.
const (
	BlendFactorZero             BlendFactor = 0
	BlendFactorOne              BlendFactor = 1
	BlendFactorSrcAlpha         BlendFactor = 6
	BlendFactorOneMinusSrcAlpha BlendFactor = 7
)

// BlendOp is VkBlendOp.
type BlendOp uint32

// BlendOpAdd adds source and destination.
const BlendOpAdd BlendOp = 0

// ColorComponentFlags is VkColorComponentFlags.
type ColorComponentFlags = uint32

// Color components.
const (
	ColorComponentRBit ColorComponentFlags = 0x1
	ColorComponentGBit ColorComponentFlags = 0x2
	ColorComponentBBit ColorComponentFlags = 0x4
	ColorComponentABit ColorComponentFlags = 0x8
)

// DynamicState is VkDynamicState.
type DynamicState uint32

// Dynamic states.
const (
	DynamicStateViewport  DynamicState = 0
	DynamicStateScissor   DynamicState = 1
	DynamicStateLineWidth DynamicState = 2
)

// AttachmentLoadOp is VkAttachmentLoadOp.
type AttachmentLoadOp uint32

// Load ops.
const (
	AttachmentLoadOpLoad     AttachmentLoadOp = 0
	AttachmentLoadOpClear    AttachmentLoadOp = 1
	AttachmentLoadOpDontCare AttachmentLoadOp = 2
)

// AttachmentStoreOp is VkAttachmentStoreOp.
type AttachmentStoreOp uint32

// Store ops.
const (
	AttachmentStoreOpStore    AttachmentStoreOp = 0
	AttachmentStoreOpDontCare AttachmentStoreOp = 1
)

// PipelineBindPoint is VkPipelineBindPoint.
type PipelineBindPoint uint32

// Bind points.
const (
	PipelineBindPointGraphics PipelineBindPoint = 0
	PipelineBindPointCompute  PipelineBindPoint = 1
)

// CommandPoolCreateFlags is VkCommandPoolCreateFlags.
type CommandPoolCreateFlags = uint32

// Command pool flags.
const (
	CommandPoolCreateTransientBit          CommandPoolCreateFlags = 0x1
	CommandPoolCreateResetCommandBufferBit CommandPoolCreateFlags = 0x2
)

// CommandBufferLevel is VkCommandBufferLevel.
type CommandBufferLevel uint32

// Command buffer levels.
const (
	CommandBufferLevelPrimary   CommandBufferLevel = 0
	CommandBufferLevelSecondary CommandBufferLevel = 1
)

// CommandBufferUsageFlags is VkCommandBufferUsageFlags.
type CommandBufferUsageFlags = uint32

// Command buffer usages.
const (
	CommandBufferUsageOneTimeSubmitBit   CommandBufferUsageFlags = 0x1
	CommandBufferUsageSimultaneousUseBit CommandBufferUsageFlags = 0x4
)

// SubpassContents is VkSubpassContents.
type SubpassContents uint32

// SubpassContentsInline records commands directly into the primary buffer.
const SubpassContentsInline SubpassContents = 0

// IndexType is VkIndexType.
type IndexType uint32

// Index types.
const (
	IndexTypeUint16 IndexType = 0
	IndexTypeUint32 IndexType = 1
)

// Filter is VkFilter.
type Filter uint32

// Filters.
const (
	FilterNearest Filter = 0
	FilterLinear  Filter = 1
)

// SamplerMipmapMode is VkSamplerMipmapMode.
type SamplerMipmapMode uint32

// Mipmap modes.
const (
	SamplerMipmapModeNearest SamplerMipmapMode = 0
	SamplerMipmapModeLinear  SamplerMipmapMode = 1
)

// SamplerAddressMode is VkSamplerAddressMode.
type SamplerAddressMode uint32

// Address modes.
const (
	SamplerAddressModeRepeat         SamplerAddressMode = 0
	SamplerAddressModeMirroredRepeat SamplerAddressMode = 1
	SamplerAddressModeClampToEdge    SamplerAddressMode = 2
	SamplerAddressModeClampToBorder  SamplerAddressMode = 3
)

// BorderColor is VkBorderColor.
type BorderColor uint32

// Border colors.
const (
	BorderColorFloatTransparentBlack BorderColor = 0
	BorderColorFloatOpaqueBlack      BorderColor = 2
	BorderColorFloatOpaqueWhite      BorderColor = 4
)

// CompareOp is VkCompareOp.
type CompareOp uint32

// CompareOpAlways always passes.
const CompareOpAlways CompareOp = 7

// PresentModeKHR is VkPresentModeKHR.
type PresentModeKHR uint32

// Present modes.
const (
	PresentModeImmediateKhr   PresentModeKHR = 0
	PresentModeMailboxKhr     PresentModeKHR = 1
	PresentModeFifoKhr        PresentModeKHR = 2
	PresentModeFifoRelaxedKhr PresentModeKHR = 3
)

// CompositeAlphaFlagsKHR is VkCompositeAlphaFlagsKHR.
type CompositeAlphaFlagsKHR = uint32

// Composite alpha modes.
const (
	CompositeAlphaOpaqueBitKhr         CompositeAlphaFlagsKHR = 0x1
	CompositeAlphaPreMultipliedBitKhr  CompositeAlphaFlagsKHR = 0x2
	CompositeAlphaPostMultipliedBitKhr CompositeAlphaFlagsKHR = 0x4
)

// SurfaceTransformFlagsKHR is VkSurfaceTransformFlagsKHR.
type SurfaceTransformFlagsKHR = uint32

// SurfaceTransformIdentityBitKhr keeps the image untransformed.
const SurfaceTransformIdentityBitKhr SurfaceTransformFlagsKHR = 1

// PhysicalDeviceType is VkPhysicalDeviceType.
type PhysicalDeviceType uint32

// Physical device types.
const (
	PhysicalDeviceTypeOther         PhysicalDeviceType = 0
	PhysicalDeviceTypeIntegratedGpu PhysicalDeviceType = 1
	PhysicalDeviceTypeDiscreteGpu   PhysicalDeviceType = 2
	PhysicalDeviceTypeVirtualGpu    PhysicalDeviceType = 3
	PhysicalDeviceTypeCpu           PhysicalDeviceType = 4
)

// FenceCreateFlags is VkFenceCreateFlags.
type FenceCreateFlags = uint32

// FenceCreateSignaledBit creates the fence pre-signaled.
const FenceCreateSignaledBit FenceCreateFlags = 1

// DependencyFlags is VkDependencyFlags.
type DependencyFlags = uint32

// DependencyByRegionBit restricts the dependency to framebuffer regions.
const DependencyByRegionBit DependencyFlags = 1

// Special sentinel values.
const (
	QueueFamilyIgnored   uint32 = 0xFFFFFFFF
	SubpassExternal      uint32 = 0xFFFFFFFF
	AttachmentUnused     uint32 = 0xFFFFFFFF
	RemainingMipLevels   uint32 = 0xFFFFFFFF
	RemainingArrayLayers uint32 = 0xFFFFFFFF
)

// WholeSize maps the full remaining buffer range.
const WholeSize uint64 = 0xFFFFFFFFFFFFFFFF

// ComponentSwizzle is VkComponentSwizzle.
type ComponentSwizzle uint32

// ComponentSwizzleIdentity keeps the component unchanged.
const ComponentSwizzleIdentity ComponentSwizzle = 0

// MakeVersion builds a Vulkan version number (VK_MAKE_API_VERSION with
// variant 0).
func MakeVersion(major, minor, patch uint32) uint32 {
	return (major << 22) | (minor << 12) | patch
}

// VersionMajor extracts the major component of a Vulkan version.
func VersionMajor(version uint32) uint32 { return version >> 22 }

// VersionMinor extracts the minor component of a Vulkan version.
func VersionMinor(version uint32) uint32 { return (version >> 12) & 0x3FF }

// VersionPatch extracts the patch component of a Vulkan version.
func VersionPatch(version uint32) uint32 { return version & 0xFFF }
