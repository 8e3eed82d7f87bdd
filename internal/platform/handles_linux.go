// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux && !wayland

package platform

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func nativeHandles(win *glfw.Window) (display, window uintptr, err error) {
	d := glfw.GetX11Display()
	if d == nil {
		return 0, 0, ErrUnsupported
	}
	return uintptr(unsafe.Pointer(d)), uintptr(win.GetX11Window()), nil
}
