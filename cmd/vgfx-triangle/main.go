// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command vgfx-triangle opens a window and renders a colored triangle,
// exercising the whole frame pipeline: instance and device bring-up, mesh
// streaming, pipeline cache and present.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/vgfx"
)

func init() {
	// The window system requires the main OS thread.
	runtime.LockOSThread()
}

func main() {
	var (
		width   = flag.Uint("width", 800, "window width")
		height  = flag.Uint("height", 600, "window height")
		samples = flag.Uint("samples", 1, "multisample count (1, 2, 4, ...)")
		vsync   = flag.Bool("vsync", true, "enable vertical sync")
		debug   = flag.Bool("debug", false, "enable Vulkan validation")
	)
	flag.Parse()

	if err := run(uint32(*width), uint32(*height), uint32(*samples), *vsync, *debug); err != nil {
		fmt.Fprintln(os.Stderr, "vgfx-triangle:", err)
		os.Exit(1)
	}
}

func run(width, height, samples uint32, vsync, debug bool) error {
	inst, err := vgfx.NewInstance(vgfx.InstanceCreateInfo{
		ApplicationName: "vgfx-triangle",
		Debug:           debug,
	})
	if err != nil {
		return err
	}
	defer inst.Destroy()

	info := vgfx.DefaultWindowCreateInfo()
	info.Size = [2]uint32{width, height}
	info.Title = "vgfx triangle"
	info.VSync = vsync
	info.Samples = vgfx.Multisamples(samples)
	win, err := inst.CreateOutputWindow(info)
	if err != nil {
		return err
	}

	triangle := vgfx.NewTriangleMeshFromList(
		[]mgl32.Vec2{
			{400, 100},
			{150, 500},
			{650, 500},
		},
		[]uint32{0, 1, 2},
		true,
	)
	triangle.Vertices[0].Color = mgl32.Vec4{1, 0, 0, 1}
	triangle.Vertices[1].Color = mgl32.Vec4{0, 1, 0, 1}
	triangle.Vertices[2].Color = mgl32.Vec4{0, 0, 1, 1}

	for inst.Run() {
		if win.ShouldClose() {
			break
		}
		if !win.BeginRender() {
			continue
		}
		win.DrawMesh(triangle)
		win.EndRender()
	}
	return nil
}
