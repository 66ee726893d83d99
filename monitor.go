// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vgfx

import "github.com/go-gl/glfw/v3.3/glfw"

// Monitor is a display attached to the system.
type Monitor struct {
	handle *glfw.Monitor
}

// VideoMode describes a monitor resolution and refresh rate.
type VideoMode struct {
	Width       uint32
	Height      uint32
	RefreshRate uint32
}

// Name returns the human readable monitor name.
func (m *Monitor) Name() string {
	return m.handle.GetName()
}

// CurrentVideoMode returns the monitor's active mode.
func (m *Monitor) CurrentVideoMode() VideoMode {
	mode := m.handle.GetVideoMode()
	return VideoMode{
		Width:       uint32(mode.Width),
		Height:      uint32(mode.Height),
		RefreshRate: uint32(mode.RefreshRate),
	}
}

// VideoModes lists every mode the monitor supports.
func (m *Monitor) VideoModes() []VideoMode {
	modes := m.handle.GetVideoModes()
	out := make([]VideoMode, len(modes))
	for i, mode := range modes {
		out[i] = VideoMode{
			Width:       uint32(mode.Width),
			Height:      uint32(mode.Height),
			RefreshRate: uint32(mode.RefreshRate),
		}
	}
	return out
}

// PhysicalSize returns the monitor size in millimetres.
func (m *Monitor) PhysicalSize() (width, height uint32) {
	w, h := m.handle.GetPhysicalSize()
	return uint32(w), uint32(h)
}

// GetMonitors lists the attached monitors. Main thread only.
func (i *Instance) GetMonitors() []*Monitor {
	i.assertCreatorThread("GetMonitors")
	handles := glfw.GetMonitors()
	out := make([]*Monitor, len(handles))
	for idx, h := range handles {
		out[idx] = &Monitor{handle: h}
	}
	return out
}

// GetPrimaryMonitor returns the primary monitor. Main thread only.
func (i *Instance) GetPrimaryMonitor() *Monitor {
	i.assertCreatorThread("GetPrimaryMonitor")
	h := glfw.GetPrimaryMonitor()
	if h == nil {
		return nil
	}
	return &Monitor{handle: h}
}

// SetMonitorUpdateCallback installs a callback fired when the OS reports
// monitor changes. Main thread only.
func (i *Instance) SetMonitorUpdateCallback(fn func(monitor *Monitor, connected bool)) {
	i.assertCreatorThread("SetMonitorUpdateCallback")
	i.monitorCallback = fn
	if fn == nil {
		glfw.SetMonitorCallback(nil)
		return
	}
	glfw.SetMonitorCallback(func(monitor *glfw.Monitor, event glfw.PeripheralEvent) {
		fn(&Monitor{handle: monitor}, event == glfw.Connected)
	})
}
