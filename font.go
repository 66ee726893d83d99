// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vgfx

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-text/typesetting/font"
	"golang.org/x/image/vector"

	"github.com/gogpu/vgfx/internal/atlas"
	"github.com/gogpu/vgfx/internal/gpu"
)

// FontCreateInfo configures font loading.
type FontCreateInfo struct {
	// GlyphTexelSize is the rasterized glyph height in texels. Default 32.
	GlyphTexelSize uint32

	// AtlasPadding is the gap between glyphs on the atlas. Default 4.
	AtlasPadding uint32

	// FallbackCharacter substitutes characters missing from the font.
	// Default '?'.
	FallbackCharacter rune

	// UseColor rasterizes embedded color glyphs (emoji) when present.
	UseColor bool
}

// GlyphInfo describes one rasterized glyph.
type GlyphInfo struct {
	// AtlasIndex is the texture array layer holding the glyph.
	AtlasIndex uint32

	// UVCoords is the glyph rectangle in normalized atlas coordinates.
	UVCoords AABB

	// HorizontalCoords is the quad to emit relative to a left-baseline
	// pen position for horizontal text.
	HorizontalCoords AABB

	// VerticalCoords is the quad relative to a top-center pen position
	// for vertical text.
	VerticalCoords AABB

	// HorizontalAdvance and VerticalAdvance move the pen after the glyph.
	HorizontalAdvance float32
	VerticalAdvance   float32
}

// fontFace is the per-face glyph table.
type fontFace struct {
	glyphs        []GlyphInfo
	charMap       map[rune]uint32
	fallbackGlyph uint32
}

// FontResource rasterizes a font's glyphs into atlas textures. The pixel
// work happens on a loader thread; the atlas array texture is a sub
// resource whose upload completes asynchronously.
type FontResource struct {
	resourceBase

	info FontCreateInfo

	atlasSize   uint32
	atlasPixels [][]byte

	faces []fontFace

	textureID ResourceID
}

// GlyphTexelSize returns the rasterized glyph size.
func (f *FontResource) GlyphTexelSize() uint32 { return f.info.GlyphTexelSize }

// AtlasSize returns the atlas side length in texels.
func (f *FontResource) AtlasSize() uint32 { return f.atlasSize }

// FaceCount returns the number of faces found in the font file.
func (f *FontResource) FaceCount() int { return len(f.faces) }

// Status polls the resource status. A font is loaded once its atlas
// texture sub-resource is.
func (f *FontResource) Status() ResourceStatus { return f.poll() }

// IsLoaded reports whether the font and its atlas texture are ready.
func (f *FontResource) IsLoaded() bool { return f.poll() == ResourceStatusLoaded }

// WaitUntilLoaded blocks until the font is loaded or failed. A zero
// timeout waits without bound.
func (f *FontResource) WaitUntilLoaded(timeout time.Duration) (ResourceStatus, bool) {
	return waitUntilDetermined(f, timeout)
}

// Texture returns the atlas array texture, nil until the font generation
// has run.
func (f *FontResource) Texture() *TextureResource {
	if f.textureID == 0 {
		return nil
	}
	if r, ok := f.mgr.lookup(f.textureID); ok {
		return r.(*TextureResource)
	}
	return nil
}

func (f *FontResource) poll() ResourceStatus {
	if s := f.storedStatus(); s != ResourceStatusUndetermined {
		return s
	}
	if !f.loadRunDone() {
		return ResourceStatusUndetermined
	}
	tex := f.Texture()
	if tex == nil {
		return f.storedStatus()
	}
	switch tex.poll() {
	case ResourceStatusLoaded:
		f.setStatus(ResourceStatusLoaded)
		return ResourceStatusLoaded
	case ResourceStatusFailedToLoad, ResourceStatusUnavailable:
		f.setStatus(ResourceStatusFailedToLoad)
		return ResourceStatusFailedToLoad
	default:
		return ResourceStatusUndetermined
	}
}

// glyphKey identifies one glyph of one face during generation.
type glyphKey struct {
	face int
	gid  font.GID
}

// estimateAtlasSize picks a power-of-two atlas side length from per-glyph
// bitmap sizes; twice the padding is added to the mean size. The estimate
// blends 95% mean with 5% max to
// absorb outliers, divides by 1.5 aiming at one to four atlas layers and
// clamps to [128, maxDimension].
func estimateAtlasSize(occupancies [][2]float64, padding uint32, maxDimension uint32) uint32 {
	minSize := uint32(128)
	if maxDimension < minSize {
		minSize = maxDimension
	}
	if len(occupancies) == 0 {
		return minSize
	}

	const averageToMaxWeight = 0.05

	var meanW, meanH, maxW, maxH float64
	for _, occ := range occupancies {
		meanW += occ[0]
		meanH += occ[1]
		if occ[0] > maxW {
			maxW = occ[0]
		}
		if occ[1] > maxH {
			maxH = occ[1]
		}
	}
	n := float64(len(occupancies))
	pad := float64(padding) * 2
	meanW = meanW/n + pad
	meanH = meanH/n + pad

	estW := meanW*(1-averageToMaxWeight) + maxW*averageToMaxWeight
	estH := meanH*(1-averageToMaxWeight) + maxH*averageToMaxWeight

	// Total area one atlas should aim to hold.
	area := estW * estH * n / 1.5
	side := math.Sqrt(area)

	size := uint32(128)
	for float64(size) < side && size < maxDimension {
		size <<= 1
	}
	if size > maxDimension {
		size = maxDimension
	}
	if size < minSize {
		size = minSize
	}
	return size
}

// parseFaces loads every face of a font file.
func parseFaces(path string) ([]*font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	reader := bytes.NewReader(data)

	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".ttc") || strings.HasSuffix(lower, ".otc") {
		faces, err := font.ParseTTC(reader)
		if err != nil {
			return nil, err
		}
		return faces, nil
	}

	face, err := font.ParseTTF(reader)
	if err != nil {
		return nil, err
	}
	return []*font.Face{face}, nil
}

// segmentArgCount returns how many points a segment op carries.
func segmentArgCount(op font.SegmentOp) int {
	switch op {
	case font.SegmentOpQuadTo:
		return 2
	case font.SegmentOpCubeTo:
		return 3
	default:
		return 1
	}
}

// rasterizedGlyph is a glyph bitmap plus its placement metrics in texels.
type rasterizedGlyph struct {
	pixels   []byte // RGBA, w*h*4
	w, h     int
	bearingX float32 // left edge relative to the pen
	bearingY float32 // top edge relative to the baseline, positive up
}

// rasterizeOutline renders a glyph outline into an RGBA alpha mask.
func rasterizeOutline(outline font.GlyphOutline, scale float32) (rasterizedGlyph, bool) {
	if len(outline.Segments) == 0 {
		return rasterizedGlyph{}, false
	}

	// Outline bounds in scaled texel space, y up.
	minX := float32(math.Inf(1))
	minY := float32(math.Inf(1))
	maxX := float32(math.Inf(-1))
	maxY := float32(math.Inf(-1))
	visit := func(p font.SegmentPoint) {
		x := p.X * scale
		y := p.Y * scale
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	for _, seg := range outline.Segments {
		for _, p := range seg.Args[:segmentArgCount(seg.Op)] {
			visit(p)
		}
	}
	if minX > maxX || minY > maxY {
		return rasterizedGlyph{}, false
	}

	w := int(math.Ceil(float64(maxX-minX))) + 1
	h := int(math.Ceil(float64(maxY-minY))) + 1
	if w <= 0 || h <= 0 {
		return rasterizedGlyph{}, false
	}

	r := vector.NewRasterizer(w, h)
	// Font outlines are y-up; the raster target is y-down.
	tx := func(p font.SegmentPoint) (float32, float32) {
		return p.X*scale - minX, maxY - p.Y*scale
	}
	for _, seg := range outline.Segments {
		args := seg.Args[:]
		switch seg.Op {
		case font.SegmentOpMoveTo:
			x, y := tx(args[0])
			r.MoveTo(x, y)
		case font.SegmentOpLineTo:
			x, y := tx(args[0])
			r.LineTo(x, y)
		case font.SegmentOpQuadTo:
			cx, cy := tx(args[0])
			x, y := tx(args[1])
			r.QuadTo(cx, cy, x, y)
		case font.SegmentOpCubeTo:
			c1x, c1y := tx(args[0])
			c2x, c2y := tx(args[1])
			x, y := tx(args[2])
			r.CubeTo(c1x, c1y, c2x, c2y, x, y)
		}
	}
	r.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	pixels := make([]byte, w*h*4)
	for i, a := range mask.Pix {
		pixels[i*4+0] = 0xFF
		pixels[i*4+1] = 0xFF
		pixels[i*4+2] = 0xFF
		pixels[i*4+3] = a
	}

	return rasterizedGlyph{
		pixels:   pixels,
		w:        w,
		h:        h,
		bearingX: minX,
		bearingY: maxY,
	}, true
}

// rasterizeBitmap converts an embedded bitmap glyph (PNG emoji) to RGBA at
// the glyph texel size.
func rasterizeBitmap(data font.GlyphBitmap, texelSize uint32) (rasterizedGlyph, bool) {
	if data.Format != font.PNG || len(data.Data) == 0 {
		return rasterizedGlyph{}, false
	}
	img, err := png.Decode(bytes.NewReader(data.Data))
	if err != nil {
		return rasterizedGlyph{}, false
	}

	scaled := imaging.Resize(img, int(texelSize), 0, imaging.Linear)
	bounds := scaled.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(nrgba, nrgba.Bounds(), scaled, bounds.Min, draw.Src)

	return rasterizedGlyph{
		pixels:   nrgba.Pix,
		w:        w,
		h:        h,
		bearingX: 0,
		bearingY: float32(h),
	}, true
}

// load generates the glyph atlases on the loader thread and submits them
// to the resource manager as an array texture sub-resource.
func (f *FontResource) load(tr *gpu.ThreadResources) {
	dev := tr.Device()
	texelSize := f.info.GlyphTexelSize
	padding := int(f.info.AtlasPadding)
	if padding == 0 {
		padding = 4
	}

	faces, err := parseFaces(f.paths[0])
	if err != nil {
		f.mgr.reportLoadFailure(&f.resourceBase, err)
		return
	}
	if len(faces) == 0 {
		f.mgr.reportLoadFailure(&f.resourceBase, fmt.Errorf("font has no faces"))
		return
	}

	// Rasterize every glyph of every face first; the sizes feed the atlas
	// size estimate.
	type pending struct {
		key    glyphKey
		bitmap rasterizedGlyph
	}
	var pendings []pending
	var occupancies [][2]float64

	for faceIndex, face := range faces {
		scale := float32(texelSize) / float32(face.Upem())

		// The face exposes glyphs through its character map; walk the
		// assigned planes to find the live glyph set.
		seen := make(map[font.GID]bool)
		var gids []font.GID
		for r := rune(0); r <= 0x2FFFF; r++ {
			gid, ok := face.NominalGlyph(r)
			if !ok || seen[gid] {
				continue
			}
			seen[gid] = true
			gids = append(gids, gid)
		}

		for _, gid := range gids {
			var bitmap rasterizedGlyph
			ok := false
			if f.info.UseColor {
				if data, isBitmap := face.GlyphData(gid).(font.GlyphBitmap); isBitmap {
					bitmap, ok = rasterizeBitmap(data, texelSize)
				}
			}
			if !ok {
				if outline, isOutline := face.GlyphData(gid).(font.GlyphOutline); isOutline {
					bitmap, ok = rasterizeOutline(outline, scale)
				}
			}
			if !ok {
				// Whitespace and empty glyphs: zero-sized bitmap, metrics
				// only.
				bitmap = rasterizedGlyph{}
			}
			pendings = append(pendings, pending{glyphKey{faceIndex, gid}, bitmap})
			occupancies = append(occupancies, [2]float64{float64(bitmap.w), float64(bitmap.h)})
		}
	}

	f.atlasSize = estimateAtlasSize(occupancies, uint32(padding), dev.Properties.Limits.MaxImageDimension2D)

	// Pack the glyphs into atlas layers with a shelf packer, blitting the
	// pixels as space is reserved.
	layerBytes := int(f.atlasSize) * int(f.atlasSize) * 4
	newLayer := func() ([]byte, *atlas.Shelf) {
		return make([]byte, layerBytes), atlas.NewShelf(int(f.atlasSize), padding)
	}
	pixels, shelf := newLayer()
	f.atlasPixels = [][]byte{pixels}

	placements := make(map[glyphKey]struct {
		atlasIndex uint32
		x, y       int
		bitmap     rasterizedGlyph
	})

	for _, p := range pendings {
		b := p.bitmap
		if b.w == 0 || b.h == 0 {
			placements[p.key] = struct {
				atlasIndex uint32
				x, y       int
				bitmap     rasterizedGlyph
			}{0, 0, 0, b}
			continue
		}

		x, y, ok := shelf.Reserve(b.w, b.h)
		if !ok {
			// Current atlas is full; start a new layer and retry.
			pixels, shelf = newLayer()
			f.atlasPixels = append(f.atlasPixels, pixels)
			x, y, ok = shelf.Reserve(b.w, b.h)
			if !ok {
				f.mgr.reportLoadFailure(&f.resourceBase,
					fmt.Errorf("glyph %dx%d does not fit a %d atlas", b.w, b.h, f.atlasSize))
				return
			}
		}

		stride := int(f.atlasSize) * 4
		for row := 0; row < b.h; row++ {
			dst := (y+row)*stride + x*4
			src := row * b.w * 4
			copy(pixels[dst:dst+b.w*4], b.pixels[src:src+b.w*4])
		}

		placements[p.key] = struct {
			atlasIndex uint32
			x, y       int
			bitmap     rasterizedGlyph
		}{uint32(len(f.atlasPixels) - 1), x, y, b}
	}

	// Build per-face glyph info tables and character maps.
	f.faces = make([]fontFace, len(faces))
	for faceIndex, face := range faces {
		scale := float32(texelSize) / float32(face.Upem())
		ff := fontFace{charMap: make(map[rune]uint32)}

		gidToIndex := make(map[font.GID]uint32)
		for _, p := range pendings {
			if p.key.face != faceIndex {
				continue
			}
			gid := p.key.gid
			place := placements[p.key]
			b := place.bitmap

			atlasF := float32(f.atlasSize)
			uv := AABB{
				Min: mgl32.Vec2{float32(place.x) / atlasF, float32(place.y) / atlasF},
				Max: mgl32.Vec2{float32(place.x+b.w) / atlasF, float32(place.y+b.h) / atlasF},
			}

			hAdvance := face.HorizontalAdvance(gid) * scale
			vAdvance := face.VerticalAdvance(gid) * scale
			if vAdvance < 0 {
				vAdvance = -vAdvance
			}

			// Quad rectangle relative to the pen on the baseline, screen
			// space y-down.
			horiz := AABB{
				Min: mgl32.Vec2{b.bearingX, -b.bearingY},
				Max: mgl32.Vec2{b.bearingX + float32(b.w), -b.bearingY + float32(b.h)},
			}
			vert := AABB{
				Min: mgl32.Vec2{-float32(b.w) / 2, 0},
				Max: mgl32.Vec2{float32(b.w) / 2, float32(b.h)},
			}

			gidToIndex[gid] = uint32(len(ff.glyphs))
			ff.glyphs = append(ff.glyphs, GlyphInfo{
				AtlasIndex:        place.atlasIndex,
				UVCoords:          uv,
				HorizontalCoords:  horiz,
				VerticalCoords:    vert,
				HorizontalAdvance: hAdvance,
				VerticalAdvance:   vAdvance,
			})
		}

		for r := rune(0); r <= 0x2FFFF; r++ {
			if gid, ok := face.NominalGlyph(r); ok {
				if idx, have := gidToIndex[gid]; have {
					ff.charMap[r] = idx
				}
			}
		}

		if idx, ok := ff.charMap[f.info.FallbackCharacter]; ok {
			ff.fallbackGlyph = idx
		} else {
			ff.fallbackGlyph = 0
		}

		f.faces[faceIndex] = ff
	}

	// Hand the atlas pixel buffers to the resource manager as an array
	// texture owned by this font.
	tex, err := f.mgr.createTexture([2]uint32{f.atlasSize, f.atlasSize}, f.atlasPixels, f.id)
	if err != nil {
		f.mgr.reportLoadFailure(&f.resourceBase, err)
		return
	}
	f.textureID = tex.id
}

// unload releases the host-side tables. The atlas texture sub-resource is
// destroyed by the manager before the parent's unload runs.
func (f *FontResource) unload(*gpu.ThreadResources) {
	f.atlasPixels = nil
	f.faces = nil
}

// glyphInfo resolves a character on a face, substituting the fallback
// glyph for unmapped characters.
func (f *FontResource) glyphInfo(faceIndex int, r rune) *GlyphInfo {
	if faceIndex < 0 || faceIndex >= len(f.faces) {
		return nil
	}
	face := &f.faces[faceIndex]
	if len(face.glyphs) == 0 {
		return nil
	}
	idx, ok := face.charMap[r]
	if !ok {
		idx = face.fallbackGlyph
	}
	if int(idx) >= len(face.glyphs) {
		return nil
	}
	return &face.glyphs[idx]
}

// NewTextMesh lays out text with the font's first face: one quad per
// character, pen starting at origin on the baseline. The mesh samples the
// font's atlas texture.
func NewTextMesh(f *FontResource, origin mgl32.Vec2, text string) *Mesh {
	m := &Mesh{Type: MeshTypeTriangleFilled, LineWidth: 1, PointSize: 1}
	m.Texture = f.Texture()

	pen := origin
	for _, r := range text {
		info := f.glyphInfo(0, r)
		if info == nil {
			continue
		}

		base := uint32(len(m.Vertices))
		minC := pen.Add(info.HorizontalCoords.Min)
		maxC := pen.Add(info.HorizontalCoords.Max)
		uvMin := info.UVCoords.Min
		uvMax := info.UVCoords.Max
		layer := int32(info.AtlasIndex)

		quad := []Vertex{
			newVertex(minC, uvMin),
			newVertex(mgl32.Vec2{maxC[0], minC[1]}, mgl32.Vec2{uvMax[0], uvMin[1]}),
			newVertex(mgl32.Vec2{minC[0], maxC[1]}, mgl32.Vec2{uvMin[0], uvMax[1]}),
			newVertex(maxC, uvMax),
		}
		for i := range quad {
			quad[i].SingleTextureLayer = layer
		}
		m.Vertices = append(m.Vertices, quad...)
		m.Indices = append(m.Indices,
			base, base+2, base+1,
			base+1, base+2, base+3)

		pen[0] += info.HorizontalAdvance
	}

	m.RecalculateAABBFromVertices()
	return m
}
