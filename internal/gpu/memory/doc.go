// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package memory provides device memory sub-allocation for the renderer.
//
// # Architecture
//
// The memory subsystem is organized in layers:
//
//	┌─────────────────────────────────────────────────────────┐
//	│                        Pool                             │
//	│  (High-level API: allocate/bind/free, type selection)   │
//	├─────────────────────────────────────────────────────────┤
//	│                       chunks                            │
//	│  (Per memory-type chunk lists, linear vs non-linear)    │
//	├─────────────────────────────────────────────────────────┤
//	│                     blockList                           │
//	│  (Sorted block placement, aligned gap search)           │
//	├─────────────────────────────────────────────────────────┤
//	│                  Vulkan Memory API                      │
//	│  (vkAllocateMemory, vkFreeMemory, vkMapMemory)          │
//	└─────────────────────────────────────────────────────────┘
//
// # Chunks and Blocks
//
// A chunk is a single VkDeviceMemory allocation. Blocks are virtual
// assignments inside a chunk, kept sorted by offset with sentinel entries at
// offset 0 and offset size so gap search never special-cases the ends.
// Allocation walks chunks first-fit, then scans the gaps between adjacent
// blocks for an aligned fit. Images with optimal tiling live in separate
// chunk lists from buffers and linear images so bufferImageGranularity can
// never be violated inside a chunk.
//
// # Thread Safety
//
// Pool is thread-safe. Internal synchronization via mutex. Individual
// PoolMemory handles are not thread-safe.
package memory
