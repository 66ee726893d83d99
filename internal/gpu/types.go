// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gpu

import "github.com/go-gl/mathgl/mgl32"

// Descriptor set slots used by every graphics pipeline layout, in bind
// order.
const (
	SetWindowFrameData = 0
	SetTransformation  = 1
	SetIndexBuffer     = 2
	SetVertexBuffer    = 3
	SetSampler         = 4
	SetTexture         = 5
	SetTextureWeights  = 6

	SetCount = 7
)

// Vertex is the GPU vertex layout. Vertices are pulled by the vertex shader
// from a storage buffer, so the struct must match std430: vec2, vec2, vec4,
// then two scalars, padded to a 16 byte multiple.
type Vertex struct {
	Coords             mgl32.Vec2
	UVs                mgl32.Vec2
	Color              mgl32.Vec4
	PointSize          float32
	SingleTextureLayer int32
	_                  [2]float32
}

// VertexSize is the byte stride of Vertex in the storage buffer.
const VertexSize = 48

// CoordinateScaling maps window coordinates into clip space. Multiplier and
// offset are applied in the vertex shader.
type CoordinateScaling struct {
	Multiplier mgl32.Vec2
	Offset     mgl32.Vec2
}

// FrameData is the per-window uniform block.
type FrameData struct {
	Scaling CoordinateScaling
}

// PushConstants is the push constant block of the primary render shaders.
// The offsets index into the mesh buffer's storage buffers.
type PushConstants struct {
	TransformationOffset     uint32
	IndexOffset              uint32
	IndexCount               uint32
	VertexOffset             uint32
	TextureLayerWeightOffset uint32
	TextureLayerWeightCount  uint32
}

// PushConstantsSize is the byte size of PushConstants.
const PushConstantsSize = 24

// BlurPushConstants is the push constant block of the blur shaders.
// BlurInfo holds sigma, the precomputed normalizer, the initial gaussian
// coefficient and the initial natural exponentiation; PixelSize is one
// texel in normalized canvas coordinates.
type BlurPushConstants struct {
	BlurInfo  [4]float32
	PixelSize [2]float32
}

// BlurPushConstantsSize is the byte size of BlurPushConstants.
const BlurPushConstantsSize = 24
