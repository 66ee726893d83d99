// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command vgfx-info brings an instance up headless-ish (one hidden window
// is never created) and prints the chosen device, its multisampling
// capabilities and the attached monitors.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/gogpu/vgfx"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	verbose := flag.Bool("verbose", false, "also print reporter diagnostics")
	flag.Parse()

	var report vgfx.ReportFunc
	if *verbose {
		report = func(severity vgfx.ReportSeverity, message string) {
			fmt.Printf("[%s] %s\n", severity, message)
		}
	}

	inst, err := vgfx.NewInstance(vgfx.InstanceCreateInfo{
		ApplicationName: "vgfx-info",
		ReportCallback:  report,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "vgfx-info:", err)
		os.Exit(1)
	}
	defer inst.Destroy()

	fmt.Println("max multisampling:", inst.GetMaximumSupportedMultisampling())
	fmt.Println("all multisampling:", inst.GetAllSupportedMultisampling())

	for idx, m := range inst.GetMonitors() {
		mode := m.CurrentVideoMode()
		fmt.Printf("monitor %d: %s %dx%d @ %d Hz\n",
			idx, m.Name(), mode.Width, mode.Height, mode.RefreshRate)
	}

	for g := 0; g < 4; g++ {
		if inst.IsGamepadPresent(g) {
			fmt.Printf("gamepad %d: %s\n", g, inst.GetGamepadName(g))
		}
	}
}
