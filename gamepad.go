// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vgfx

import "github.com/go-gl/glfw/v3.3/glfw"

// GamepadState is a snapshot of a gamepad's buttons and axes, in the
// standard gamepad mapping.
type GamepadState struct {
	Buttons [15]bool
	Axes    [6]float32
}

// IsGamepadPresent reports whether the gamepad slot (0 based) is connected
// and has a standard mapping.
func (i *Instance) IsGamepadPresent(gamepad int) bool {
	joy := glfw.Joystick(gamepad)
	return joy.Present() && joy.IsGamepad()
}

// GetGamepadName returns the mapped gamepad name, empty when absent.
func (i *Instance) GetGamepadName(gamepad int) string {
	joy := glfw.Joystick(gamepad)
	if !joy.Present() {
		return ""
	}
	return joy.GetGamepadName()
}

// QueryGamepadState reads the current gamepad state. ok is false when the
// gamepad is absent or unmapped.
func (i *Instance) QueryGamepadState(gamepad int) (GamepadState, bool) {
	joy := glfw.Joystick(gamepad)
	state := joy.GetGamepadState()
	if state == nil {
		return GamepadState{}, false
	}

	var out GamepadState
	for idx, b := range state.Buttons {
		if idx >= len(out.Buttons) {
			break
		}
		out.Buttons[idx] = b == glfw.Press
	}
	for idx, a := range state.Axes {
		if idx >= len(out.Axes) {
			break
		}
		out.Axes[idx] = a
	}
	return out, true
}

// SetGamepadEventCallback installs a connect/disconnect callback. Main
// thread only.
func (i *Instance) SetGamepadEventCallback(fn func(gamepad int, connected bool)) {
	i.assertCreatorThread("SetGamepadEventCallback")
	i.gamepadCallback = fn
	if fn == nil {
		glfw.SetJoystickCallback(nil)
		return
	}
	glfw.SetJoystickCallback(func(joy glfw.Joystick, event glfw.PeripheralEvent) {
		fn(int(joy), event == glfw.Connected)
	})
}
