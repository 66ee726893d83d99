// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vgfx

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is a caller-side collection of vertices and indices plus the draw
// state a window needs to render it. Meshes are plain data; every transform
// below mutates the mesh in place on the CPU.
type Mesh struct {
	Vertices            []Vertex
	Indices             []uint32
	TextureLayerWeights []float32

	AABB AABB

	Type      MeshType
	LineWidth float32
	PointSize float32

	Texture *TextureResource
	Sampler *Sampler
}

// Translate moves every vertex by v.
func (m *Mesh) Translate(v mgl32.Vec2) {
	for i := range m.Vertices {
		m.Vertices[i].Coords = m.Vertices[i].Coords.Add(v)
	}
	m.AABB.Min = m.AABB.Min.Add(v)
	m.AABB.Max = m.AABB.Max.Add(v)
}

// Rotate rotates every vertex by angle radians around origin and
// recalculates the AABB.
func (m *Mesh) Rotate(angle float32, origin mgl32.Vec2) {
	sin := float32(math.Sin(float64(angle)))
	cos := float32(math.Cos(float64(angle)))

	for i := range m.Vertices {
		p := m.Vertices[i].Coords.Sub(origin)
		m.Vertices[i].Coords = mgl32.Vec2{
			p[0]*cos - p[1]*sin,
			p[0]*sin + p[1]*cos,
		}.Add(origin)
	}
	m.RecalculateAABBFromVertices()
}

// Scale scales every vertex relative to origin and recalculates the AABB.
func (m *Mesh) Scale(factor mgl32.Vec2, origin mgl32.Vec2) {
	for i := range m.Vertices {
		p := m.Vertices[i].Coords.Sub(origin)
		m.Vertices[i].Coords = mgl32.Vec2{p[0] * factor[0], p[1] * factor[1]}.Add(origin)
	}
	m.RecalculateAABBFromVertices()
}

// SetVertexColor sets the color of every vertex.
func (m *Mesh) SetVertexColor(color mgl32.Vec4) {
	for i := range m.Vertices {
		m.Vertices[i].Color = color
	}
}

// SetVertexColorGradient colors vertices along the line from begin to end,
// interpolating between the two colors.
func (m *Mesh) SetVertexColorGradient(colorBegin, colorEnd mgl32.Vec4, begin, end mgl32.Vec2) {
	dir := end.Sub(begin)
	lenSq := dir.Dot(dir)
	if lenSq == 0 {
		m.SetVertexColor(colorEnd)
		return
	}
	for i := range m.Vertices {
		t := m.Vertices[i].Coords.Sub(begin).Dot(dir) / lenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
		m.Vertices[i].Color = colorBegin.Mul(1 - t).Add(colorEnd.Mul(t))
	}
}

// SetPointSize sets the rendered size of every vertex for point meshes.
func (m *Mesh) SetPointSize(size float32) {
	for i := range m.Vertices {
		m.Vertices[i].PointSize = size
	}
	m.PointSize = size
}

// SetTexture sets the texture sampled when the mesh is drawn.
func (m *Mesh) SetTexture(texture *TextureResource) {
	m.Texture = texture
}

// SetSampler sets the sampler used when the mesh is drawn.
func (m *Mesh) SetSampler(sampler *Sampler) {
	m.Sampler = sampler
}

// RecalculateAABBFromVertices recomputes the bounding box from the current
// vertex positions.
func (m *Mesh) RecalculateAABBFromVertices() {
	if len(m.Vertices) == 0 {
		m.AABB = AABB{}
		return
	}
	bb := AABB{Min: m.Vertices[0].Coords, Max: m.Vertices[0].Coords}
	for _, v := range m.Vertices[1:] {
		for c := 0; c < 2; c++ {
			if v.Coords[c] < bb.Min[c] {
				bb.Min[c] = v.Coords[c]
			}
			if v.Coords[c] > bb.Max[c] {
				bb.Max[c] = v.Coords[c]
			}
		}
	}
	m.AABB = bb
}

// RecalculateUVsToBoundingBox maps every vertex UV to its position inside
// the mesh AABB.
func (m *Mesh) RecalculateUVsToBoundingBox() {
	size := m.AABB.Max.Sub(m.AABB.Min)
	if size[0] == 0 || size[1] == 0 {
		return
	}
	for i := range m.Vertices {
		rel := m.Vertices[i].Coords.Sub(m.AABB.Min)
		m.Vertices[i].UVs = mgl32.Vec2{rel[0] / size[0], rel[1] / size[1]}
	}
}

// whiteColor is the default vertex color.
var whiteColor = mgl32.Vec4{1, 1, 1, 1}

// newVertex builds a vertex with the default color and point size.
func newVertex(coords, uvs mgl32.Vec2) Vertex {
	return Vertex{
		Coords:    coords,
		UVs:       uvs,
		Color:     whiteColor,
		PointSize: 1,
	}
}
