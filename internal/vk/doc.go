// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package vk provides pure Go Vulkan bindings using goffi for FFI calls.
//
// The package carries only the subset of Vulkan 1.2 (plus VK_KHR_surface and
// VK_KHR_swapchain) that the renderer uses. Types, constants and call
// wrappers mirror the layout of the C headers so struct pointers can be
// handed to the driver directly.
//
// # Function Loading Hierarchy
//
// Vulkan functions are loaded in stages:
//
//  1. Init() — dlopen the Vulkan loader and resolve vkGetInstanceProcAddr.
//  2. Commands.LoadGlobal() — pre-instance functions (vkCreateInstance, ...).
//  3. Commands.LoadInstance(instance) — instance-level and WSI functions.
//  4. Commands.LoadDevice(device) — device-level functions.
//
// # goffi Calling Convention
//
// goffi expects args[] to contain pointers to WHERE argument values are
// stored, NOT the values themselves. For scalar types pass a pointer to the
// variable; for pointer arguments store the pointer in a variable and pass
// the variable's address (pointer to the pointer).
package vk
