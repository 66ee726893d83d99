// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package gpu carries the Vulkan-side core of the renderer: physical device
// selection, queue resolution, descriptor set layouts and the descriptor
// auto-pool, the shader table and pipeline cache, the mesh streaming buffer
// and per-worker-thread GPU resources.
//
// The package owns no window or resource policy; it hands fully resolved
// Vulkan state to the public vgfx package.
package gpu
