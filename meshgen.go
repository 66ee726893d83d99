// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vgfx

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// pieCoverageEpsilon clamps pie coverage away from the degenerate ends.
// Below the epsilon the pie generators fall back to an empty mesh, above
// 1-epsilon to the full rectangle/ellipse generators.
const pieCoverageEpsilon = 0.001

// NewPointMeshFromList creates a point mesh from raw coordinates.
func NewPointMeshFromList(points []mgl32.Vec2) *Mesh {
	m := &Mesh{Type: MeshTypePoint, LineWidth: 1, PointSize: 1}
	m.Vertices = make([]Vertex, len(points))
	m.Indices = make([]uint32, len(points))
	for i, p := range points {
		m.Vertices[i] = newVertex(p, mgl32.Vec2{})
		m.Indices[i] = uint32(i)
	}
	m.RecalculateAABBFromVertices()
	return m
}

// NewLineMeshFromList creates a line mesh from coordinates and index pairs.
func NewLineMeshFromList(points []mgl32.Vec2, indices []uint32) *Mesh {
	m := &Mesh{Type: MeshTypeLine, LineWidth: 1, PointSize: 1}
	m.Vertices = make([]Vertex, len(points))
	for i, p := range points {
		m.Vertices[i] = newVertex(p, mgl32.Vec2{})
	}
	m.Indices = append([]uint32(nil), indices...)
	m.RecalculateAABBFromVertices()
	return m
}

// NewTriangleMeshFromList creates a triangle mesh from coordinates and
// index triples.
func NewTriangleMeshFromList(points []mgl32.Vec2, indices []uint32, filled bool) *Mesh {
	m := &Mesh{Type: MeshTypeTriangleFilled, LineWidth: 1, PointSize: 1}
	if !filled {
		m.Type = MeshTypeTriangleWireframe
	}
	m.Vertices = make([]Vertex, len(points))
	for i, p := range points {
		m.Vertices[i] = newVertex(p, mgl32.Vec2{})
	}
	m.Indices = append([]uint32(nil), indices...)
	m.RecalculateAABBFromVertices()
	return m
}

// NewRectangleMesh creates a rectangle covering area. UVs span the full
// texture.
func NewRectangleMesh(area AABB, filled bool) *Mesh {
	m := &Mesh{Type: MeshTypeTriangleFilled, LineWidth: 1, PointSize: 1}
	if !filled {
		m.Type = MeshTypeTriangleWireframe
	}
	m.Vertices = []Vertex{
		newVertex(mgl32.Vec2{area.Min[0], area.Min[1]}, mgl32.Vec2{0, 0}),
		newVertex(mgl32.Vec2{area.Max[0], area.Min[1]}, mgl32.Vec2{1, 0}),
		newVertex(mgl32.Vec2{area.Min[0], area.Max[1]}, mgl32.Vec2{0, 1}),
		newVertex(mgl32.Vec2{area.Max[0], area.Max[1]}, mgl32.Vec2{1, 1}),
	}
	m.Indices = []uint32{0, 2, 1, 1, 2, 3}
	m.AABB = area
	return m
}

// NewEllipseMesh creates an ellipse filling area with edgeCount segments.
func NewEllipseMesh(area AABB, filled bool, edgeCount int) *Mesh {
	if edgeCount < 3 {
		edgeCount = 3
	}

	center := area.Min.Add(area.Max).Mul(0.5)
	radius := area.Max.Sub(area.Min).Mul(0.5)

	m := &Mesh{Type: MeshTypeTriangleFilled, LineWidth: 1, PointSize: 1}
	if !filled {
		m.Type = MeshTypeTriangleWireframe
	}

	m.Vertices = make([]Vertex, 0, edgeCount+1)
	m.Vertices = append(m.Vertices, newVertex(center, mgl32.Vec2{0.5, 0.5}))
	for i := 0; i < edgeCount; i++ {
		angle := 2 * math.Pi * float64(i) / float64(edgeCount)
		dir := mgl32.Vec2{float32(math.Cos(angle)), float32(math.Sin(angle))}
		coords := mgl32.Vec2{center[0] + dir[0]*radius[0], center[1] + dir[1]*radius[1]}
		uv := mgl32.Vec2{0.5 + dir[0]*0.5, 0.5 + dir[1]*0.5}
		m.Vertices = append(m.Vertices, newVertex(coords, uv))
	}

	m.Indices = make([]uint32, 0, edgeCount*3)
	for i := 0; i < edgeCount; i++ {
		cur := uint32(i) + 1
		next := uint32((i+1)%edgeCount) + 1
		m.Indices = append(m.Indices, 0, cur, next)
	}

	m.AABB = area
	return m
}

// NewEllipsePieMesh creates a pie slice of an ellipse. beginAngle is in
// radians, coverage in [0, 1] of the full turn. Coverage at the extremes
// falls back to the ellipse generator or an empty mesh.
func NewEllipsePieMesh(area AABB, beginAngle, coverage float32, filled bool, edgeCount int) *Mesh {
	if coverage >= 1-pieCoverageEpsilon {
		return NewEllipseMesh(area, filled, edgeCount)
	}
	if coverage <= pieCoverageEpsilon {
		m := &Mesh{Type: MeshTypeTriangleFilled, LineWidth: 1, PointSize: 1}
		m.AABB = area
		return m
	}
	if edgeCount < 3 {
		edgeCount = 3
	}

	center := area.Min.Add(area.Max).Mul(0.5)
	radius := area.Max.Sub(area.Min).Mul(0.5)

	m := &Mesh{Type: MeshTypeTriangleFilled, LineWidth: 1, PointSize: 1}
	if !filled {
		m.Type = MeshTypeTriangleWireframe
	}

	segments := int(math.Ceil(float64(coverage) * float64(edgeCount)))
	if segments < 1 {
		segments = 1
	}

	m.Vertices = append(m.Vertices, newVertex(center, mgl32.Vec2{0.5, 0.5}))
	for i := 0; i <= segments; i++ {
		angle := float64(beginAngle) + 2*math.Pi*float64(coverage)*float64(i)/float64(segments)
		dir := mgl32.Vec2{float32(math.Cos(angle)), float32(math.Sin(angle))}
		coords := mgl32.Vec2{center[0] + dir[0]*radius[0], center[1] + dir[1]*radius[1]}
		uv := mgl32.Vec2{0.5 + dir[0]*0.5, 0.5 + dir[1]*0.5}
		m.Vertices = append(m.Vertices, newVertex(coords, uv))
	}
	for i := 0; i < segments; i++ {
		m.Indices = append(m.Indices, 0, uint32(i)+1, uint32(i)+2)
	}

	m.RecalculateAABBFromVertices()
	return m
}

// NewRectanglePieMesh creates a pie slice of a rectangle: the slice edges
// run from the rectangle center to its perimeter. Coverage at the extremes
// falls back to the rectangle generator or an empty mesh.
func NewRectanglePieMesh(area AABB, beginAngle, coverage float32, filled bool) *Mesh {
	if coverage >= 1-pieCoverageEpsilon {
		return NewRectangleMesh(area, filled)
	}
	if coverage <= pieCoverageEpsilon {
		m := &Mesh{Type: MeshTypeTriangleFilled, LineWidth: 1, PointSize: 1}
		m.AABB = area
		return m
	}

	center := area.Min.Add(area.Max).Mul(0.5)
	half := area.Max.Sub(area.Min).Mul(0.5)

	// Walk the perimeter from beginAngle over the covered arc, emitting a
	// vertex at each rectangle corner passed plus the two slice edges.
	endAngle := beginAngle + coverage*2*math.Pi

	perimeterPoint := func(angle float32) mgl32.Vec2 {
		dir := mgl32.Vec2{
			float32(math.Cos(float64(angle))),
			float32(math.Sin(float64(angle))),
		}
		// Scale the direction so the longer component reaches the
		// rectangle edge.
		ax := float32(math.Abs(float64(dir[0]))) / half[0]
		ay := float32(math.Abs(float64(dir[1]))) / half[1]
		scale := ax
		if ay > scale {
			scale = ay
		}
		if scale == 0 {
			return center
		}
		return center.Add(dir.Mul(1 / scale))
	}

	m := &Mesh{Type: MeshTypeTriangleFilled, LineWidth: 1, PointSize: 1}
	if !filled {
		m.Type = MeshTypeTriangleWireframe
	}

	m.Vertices = append(m.Vertices, newVertex(center, mgl32.Vec2{0.5, 0.5}))
	m.Vertices = append(m.Vertices, newVertex(perimeterPoint(beginAngle), mgl32.Vec2{}))

	// Corner angles relative to center, sorted along the sweep.
	corners := []mgl32.Vec2{
		{area.Max[0], area.Max[1]},
		{area.Min[0], area.Max[1]},
		{area.Min[0], area.Min[1]},
		{area.Max[0], area.Min[1]},
	}
	for sweep := 0; sweep < 2; sweep++ {
		for _, c := range corners {
			angle := float32(math.Atan2(float64(c[1]-center[1]), float64(c[0]-center[0])))
			angle += float32(sweep) * 2 * math.Pi
			for angle < beginAngle {
				angle += 2 * math.Pi
			}
			if angle > beginAngle && angle < endAngle {
				m.Vertices = append(m.Vertices, newVertex(c, mgl32.Vec2{}))
			}
		}
	}
	m.Vertices = append(m.Vertices, newVertex(perimeterPoint(endAngle), mgl32.Vec2{}))

	// Order rim vertices by angle before triangulating the fan.
	rim := m.Vertices[1:]
	for i := 1; i < len(rim); i++ {
		for j := i; j > 0; j-- {
			ai := rimAngle(rim[j].Coords, center, beginAngle)
			aj := rimAngle(rim[j-1].Coords, center, beginAngle)
			if ai < aj {
				rim[j], rim[j-1] = rim[j-1], rim[j]
			}
		}
	}

	for i := 1; i+1 < len(m.Vertices); i++ {
		m.Indices = append(m.Indices, 0, uint32(i), uint32(i)+1)
	}

	m.RecalculateAABBFromVertices()
	m.RecalculateUVsToBoundingBox()
	return m
}

// rimAngle returns the sweep angle of p around center, normalized past
// beginAngle.
func rimAngle(p, center mgl32.Vec2, beginAngle float32) float32 {
	a := float32(math.Atan2(float64(p[1]-center[1]), float64(p[0]-center[0])))
	for a < beginAngle {
		a += 2 * math.Pi
	}
	return a
}

// NewLatticeMesh creates a subdivided rectangle. subdivisions counts the
// interior splits per axis; the lattice has (x+2) x (y+2) vertices.
func NewLatticeMesh(area AABB, subdivisions mgl32.Vec2, filled bool) *Mesh {
	cols := int(subdivisions[0]) + 2
	rows := int(subdivisions[1]) + 2
	if cols < 2 {
		cols = 2
	}
	if rows < 2 {
		rows = 2
	}

	m := &Mesh{Type: MeshTypeTriangleFilled, LineWidth: 1, PointSize: 1}
	if !filled {
		m.Type = MeshTypeTriangleWireframe
	}

	size := area.Max.Sub(area.Min)
	m.Vertices = make([]Vertex, 0, cols*rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			u := float32(x) / float32(cols-1)
			v := float32(y) / float32(rows-1)
			coords := mgl32.Vec2{area.Min[0] + u*size[0], area.Min[1] + v*size[1]}
			m.Vertices = append(m.Vertices, newVertex(coords, mgl32.Vec2{u, v}))
		}
	}

	m.Indices = make([]uint32, 0, (cols-1)*(rows-1)*6)
	for y := 0; y < rows-1; y++ {
		for x := 0; x < cols-1; x++ {
			topLeft := uint32(y*cols + x)
			topRight := topLeft + 1
			bottomLeft := topLeft + uint32(cols)
			bottomRight := bottomLeft + 1
			m.Indices = append(m.Indices,
				topLeft, bottomLeft, topRight,
				topRight, bottomLeft, bottomRight)
		}
	}

	m.AABB = area
	return m
}
