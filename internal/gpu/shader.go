// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/naga"

	"github.com/gogpu/vgfx/internal/vk"
)

// ProgramID names a vertex/fragment module pair.
type ProgramID int

// Graphics shader programs.
const (
	ProgramSingleTextured ProgramID = iota
	ProgramSingleTexturedUVBorderColor

	ProgramMultitexturedTriangle
	ProgramMultitexturedLine
	ProgramMultitexturedPoint
	ProgramMultitexturedTriangleUVBorderColor
	ProgramMultitexturedLineUVBorderColor
	ProgramMultitexturedPointUVBorderColor

	ProgramRenderTargetBoxBlurHorizontal
	ProgramRenderTargetBoxBlurVertical
	ProgramRenderTargetGaussianBlurHorizontal
	ProgramRenderTargetGaussianBlurVertical

	programCount
)

// Program is a vertex/fragment shader module pair.
type Program struct {
	Vertex   vk.ShaderModule
	Fragment vk.ShaderModule
}

// programSource names the WGSL sources a program is built from. Several
// programs share modules.
type programSource struct {
	vertex   string
	fragment string
}

// ShaderTable owns every shader module and maps program IDs to module
// pairs. WGSL sources are compiled to SPIR-V with naga when the table is
// built.
type ShaderTable struct {
	device vk.Device
	cmds   *vk.Commands

	modules  map[string]vk.ShaderModule // keyed by source identity
	programs [programCount]Program
}

func programSources() [programCount]programSource {
	return [programCount]programSource{
		ProgramSingleTextured:                     {shaderVertexDefault, shaderFragSingleTextured},
		ProgramSingleTexturedUVBorderColor:        {shaderVertexDefault, shaderFragSingleTexturedBorder},
		ProgramMultitexturedTriangle:              {shaderVertexDefault, shaderFragMultitexturedTriangle},
		ProgramMultitexturedLine:                  {shaderVertexDefault, shaderFragMultitexturedLine},
		ProgramMultitexturedPoint:                 {shaderVertexDefault, shaderFragMultitexturedPoint},
		ProgramMultitexturedTriangleUVBorderColor: {shaderVertexDefault, shaderFragMultitexturedTriangleBorder},
		ProgramMultitexturedLineUVBorderColor:     {shaderVertexDefault, shaderFragMultitexturedLineBorder},
		ProgramMultitexturedPointUVBorderColor:    {shaderVertexDefault, shaderFragMultitexturedPointBorder},
		ProgramRenderTargetBoxBlurHorizontal:      {shaderVertexFullscreen, shaderFragBoxBlurHorizontal},
		ProgramRenderTargetBoxBlurVertical:        {shaderVertexFullscreen, shaderFragBoxBlurVertical},
		ProgramRenderTargetGaussianBlurHorizontal: {shaderVertexFullscreen, shaderFragGaussianBlurHorizontal},
		ProgramRenderTargetGaussianBlurVertical:   {shaderVertexFullscreen, shaderFragGaussianBlurVertical},
	}
}

// NewShaderTable compiles all shader sources and creates their modules.
// On any failure the partially built table is destroyed.
func NewShaderTable(cmds *vk.Commands, device vk.Device) (*ShaderTable, error) {
	t := &ShaderTable{
		device:  device,
		cmds:    cmds,
		modules: make(map[string]vk.ShaderModule),
	}

	sources := programSources()
	for id := ProgramID(0); id < programCount; id++ {
		src := sources[id]
		vert, err := t.module(src.vertex)
		if err != nil {
			t.Destroy()
			return nil, fmt.Errorf("gpu: vertex shader for program %d: %w", id, err)
		}
		frag, err := t.module(src.fragment)
		if err != nil {
			t.Destroy()
			return nil, fmt.Errorf("gpu: fragment shader for program %d: %w", id, err)
		}
		t.programs[id] = Program{Vertex: vert, Fragment: frag}
	}

	return t, nil
}

// module compiles a WGSL source (once per distinct source) and creates the
// shader module.
func (t *ShaderTable) module(source string) (vk.ShaderModule, error) {
	if m, ok := t.modules[source]; ok {
		return m, nil
	}

	spirv, err := naga.Compile(source)
	if err != nil {
		return 0, fmt.Errorf("naga compile: %w", err)
	}
	if len(spirv) == 0 || len(spirv)%4 != 0 {
		return 0, fmt.Errorf("naga produced %d bytes, not a SPIR-V word stream", len(spirv))
	}

	createInfo := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uintptr(len(spirv)),
		PCode:    (*uint32)(unsafe.Pointer(&spirv[0])),
	}
	var module vk.ShaderModule
	if result := t.cmds.CreateShaderModule(t.device, &createInfo, nil, &module); result != vk.Success {
		return 0, fmt.Errorf("vkCreateShaderModule failed: %d", result)
	}

	t.modules[source] = module
	return module, nil
}

// Program returns the module pair for a program ID.
func (t *ShaderTable) Program(id ProgramID) Program {
	return t.programs[id]
}

// Destroy releases every shader module.
func (t *ShaderTable) Destroy() {
	for _, m := range t.modules {
		t.cmds.DestroyShaderModule(t.device, m, nil)
	}
	t.modules = make(map[string]vk.ShaderModule)
}
