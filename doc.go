// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package vgfx is a 2D GPU-accelerated rendering library built directly on
// the Vulkan API. The Vulkan loader is reached through FFI without cgo;
// the window system goes through GLFW.
//
// Applications create an Instance, open output windows or off-screen render
// target textures, load resources (textures, fonts) through the resource
// manager, build meshes and issue draw calls between BeginRender and
// EndRender each frame:
//
//	inst, err := vgfx.NewInstance(vgfx.InstanceCreateInfo{
//	    ApplicationName: "demo",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Destroy()
//
//	win, err := inst.CreateOutputWindow(vgfx.WindowCreateInfo{
//	    Size:  [2]uint32{800, 600},
//	    Title: "demo",
//	    VSync: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for inst.Run() {
//	    if !win.BeginRender() {
//	        continue
//	    }
//	    win.DrawTriangleList(true, mesh.Indices, mesh.Vertices, nil, nil, nil)
//	    win.EndRender()
//	}
//
// Texture and font loading happens asynchronously on a pool of loader
// threads; resources report their own status and can be waited on.
//
// Window system interaction uses GLFW, so NewInstance and every window,
// monitor and cursor operation must happen on the main goroutine, locked to
// the main OS thread.
package vgfx
