// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/gogpu/vgfx/internal/vk"
)

// GraphicsPipelineSettings is the cache key for a graphics pipeline. Two
// draws with equal settings share one pipeline.
type GraphicsPipelineSettings struct {
	Layout         vk.PipelineLayout
	RenderPass     vk.RenderPass
	Topology       vk.PrimitiveTopology
	PolygonMode    vk.PolygonMode
	Program        ProgramID
	Samples        vk.SampleCountFlagBits
	EnableBlending bool
}

// Shader entry point names, NUL terminated for the driver.
var (
	entryPointVertex   = []byte("vs_main\x00")
	entryPointFragment = []byte("fs_main\x00")
)

// PipelineCache caches graphics pipelines by settings, backed by a Vulkan
// pipeline cache object.
type PipelineCache struct {
	mu sync.Mutex

	device  vk.Device
	cmds    *vk.Commands
	shaders *ShaderTable

	cache     vk.PipelineCache
	pipelines map[GraphicsPipelineSettings]vk.Pipeline
}

// NewPipelineCache creates an empty cache.
func NewPipelineCache(cmds *vk.Commands, device vk.Device, shaders *ShaderTable) (*PipelineCache, error) {
	createInfo := vk.PipelineCacheCreateInfo{
		SType: vk.StructureTypePipelineCacheCreateInfo,
	}
	var cache vk.PipelineCache
	if result := cmds.CreatePipelineCache(device, &createInfo, nil, &cache); result != vk.Success {
		return nil, fmt.Errorf("gpu: vkCreatePipelineCache failed: %d", result)
	}

	return &PipelineCache{
		device:    device,
		cmds:      cmds,
		shaders:   shaders,
		cache:     cache,
		pipelines: make(map[GraphicsPipelineSettings]vk.Pipeline),
	}, nil
}

// GetGraphicsPipeline returns a cached pipeline or creates one on miss.
func (p *PipelineCache) GetGraphicsPipeline(settings GraphicsPipelineSettings) (vk.Pipeline, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pipeline, ok := p.pipelines[settings]; ok {
		return pipeline, nil
	}

	pipeline, err := p.createGraphicsPipeline(settings)
	if err != nil {
		return 0, err
	}
	p.pipelines[settings] = pipeline
	return pipeline, nil
}

// createGraphicsPipeline builds a pipeline with the renderer's standard
// state: no vertex input (vertices are pulled from storage buffers),
// dynamic viewport/scissor/line-width, alpha blending, no depth.
func (p *PipelineCache) createGraphicsPipeline(settings GraphicsPipelineSettings) (vk.Pipeline, error) {
	program := p.shaders.Program(settings.Program)

	stages := []vk.PipelineShaderStageCreateInfo{
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageVertexBit,
			Module: program.Vertex,
			PName:  uintptr(unsafe.Pointer(&entryPointVertex[0])),
		},
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFragmentBit,
			Module: program.Fragment,
			PName:  uintptr(unsafe.Pointer(&entryPointFragment[0])),
		},
	}

	vertexInput := vk.PipelineVertexInputStateCreateInfo{
		SType: vk.StructureTypePipelineVertexInputStateCreateInfo,
	}

	inputAssembly := vk.PipelineInputAssemblyStateCreateInfo{
		SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology: settings.Topology,
	}

	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		ScissorCount:  1,
	}

	rasterization := vk.PipelineRasterizationStateCreateInfo{
		SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
		PolygonMode: settings.PolygonMode,
		CullMode:    vk.CullModeNone,
		FrontFace:   vk.FrontFaceCounterClockwise,
		LineWidth:   1.0,
	}

	multisample := vk.PipelineMultisampleStateCreateInfo{
		SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples: settings.Samples,
	}

	blendAttachment := vk.PipelineColorBlendAttachmentState{
		SrcColorBlendFactor: vk.BlendFactorSrcAlpha,
		DstColorBlendFactor: vk.BlendFactorOneMinusSrcAlpha,
		ColorBlendOp:        vk.BlendOpAdd,
		SrcAlphaBlendFactor: vk.BlendFactorOne,
		DstAlphaBlendFactor: vk.BlendFactorOneMinusSrcAlpha,
		AlphaBlendOp:        vk.BlendOpAdd,
		ColorWriteMask: vk.ColorComponentRBit | vk.ColorComponentGBit |
			vk.ColorComponentBBit | vk.ColorComponentABit,
	}
	if settings.EnableBlending {
		blendAttachment.BlendEnable = vk.True
	}

	colorBlend := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		AttachmentCount: 1,
		PAttachments:    &blendAttachment,
	}

	dynamicStates := []vk.DynamicState{
		vk.DynamicStateViewport,
		vk.DynamicStateScissor,
		vk.DynamicStateLineWidth,
	}
	dynamic := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(dynamicStates)),
		PDynamicStates:    &dynamicStates[0],
	}

	createInfo := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(stages)),
		PStages:             &stages[0],
		PVertexInputState:   &vertexInput,
		PInputAssemblyState: &inputAssembly,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterization,
		PMultisampleState:   &multisample,
		PColorBlendState:    &colorBlend,
		PDynamicState:       &dynamic,
		Layout:              settings.Layout,
		RenderPass:          settings.RenderPass,
		BasePipelineIndex:   -1,
	}

	var pipeline vk.Pipeline
	result := p.cmds.CreateGraphicsPipelines(p.device, p.cache, 1, &createInfo, nil, &pipeline)
	if result != vk.Success {
		return 0, fmt.Errorf("gpu: vkCreateGraphicsPipelines failed: %d", result)
	}
	if pipeline == 0 {
		// Some drivers return VK_SUCCESS with a null pipeline.
		return 0, fmt.Errorf("gpu: vkCreateGraphicsPipelines returned a null pipeline")
	}
	return pipeline, nil
}

// CacheData returns the driver pipeline cache blob, or nil when empty.
func (p *PipelineCache) CacheData() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	var size uintptr
	if result := p.cmds.GetPipelineCacheData(p.device, p.cache, &size, nil); result != vk.Success || size == 0 {
		return nil
	}
	data := make([]byte, size)
	if result := p.cmds.GetPipelineCacheData(p.device, p.cache, &size, unsafe.Pointer(&data[0])); result != vk.Success {
		return nil
	}
	return data[:size]
}

// Destroy releases every pipeline and the cache object.
func (p *PipelineCache) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, pipeline := range p.pipelines {
		p.cmds.DestroyPipeline(p.device, pipeline, nil)
	}
	p.pipelines = make(map[GraphicsPipelineSettings]vk.Pipeline)

	if p.cache != 0 {
		p.cmds.DestroyPipelineCache(p.device, p.cache, nil)
		p.cache = 0
	}
}
