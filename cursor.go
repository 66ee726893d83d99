// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vgfx

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Cursor is a custom mouse cursor image.
type Cursor struct {
	handle *glfw.Cursor
}

// CreateCursorFromFile loads an image file as a cursor with the given hot
// spot. Main thread only.
func (i *Instance) CreateCursorFromFile(path string, hotSpot [2]int) (*Cursor, error) {
	i.assertCreatorThread("CreateCursorFromFile")

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("vgfx: decoding cursor %s: %w", path, err)
	}
	return i.createCursor(imaging.Clone(img), hotSpot)
}

// CreateCursor builds a cursor from raw RGBA pixels. Main thread only.
func (i *Instance) CreateCursor(size [2]uint32, pixels []byte, hotSpot [2]int) (*Cursor, error) {
	i.assertCreatorThread("CreateCursor")

	if len(pixels) != int(size[0])*int(size[1])*4 {
		return nil, fmt.Errorf("vgfx: cursor pixel data has %d bytes, want %d", len(pixels), size[0]*size[1]*4)
	}
	img := &image.NRGBA{
		Pix:    pixels,
		Stride: int(size[0]) * 4,
		Rect:   image.Rect(0, 0, int(size[0]), int(size[1])),
	}
	return i.createCursor(img, hotSpot)
}

func (i *Instance) createCursor(img image.Image, hotSpot [2]int) (*Cursor, error) {
	handle := glfw.CreateCursor(img, hotSpot[0], hotSpot[1])
	if handle == nil {
		return nil, fmt.Errorf("vgfx: window system rejected the cursor image")
	}
	c := &Cursor{handle: handle}
	i.cursors = append(i.cursors, c)
	return c, nil
}

// DestroyCursor destroys a cursor. Main thread only.
func (i *Instance) DestroyCursor(c *Cursor) {
	i.assertCreatorThread("DestroyCursor")
	if c == nil {
		return
	}
	for idx, other := range i.cursors {
		if other == c {
			i.cursors = append(i.cursors[:idx], i.cursors[idx+1:]...)
			break
		}
	}
	if c.handle != nil {
		c.handle.Destroy()
		c.handle = nil
	}
}

// SetCursor applies a cursor to a window; nil restores the default arrow.
func (w *Window) SetCursor(c *Cursor) {
	if c == nil {
		w.glfwWin.SetCursor(nil)
		return
	}
	w.glfwWin.SetCursor(c.handle)
}
