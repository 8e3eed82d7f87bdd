// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !windows && !(linux && !wayland)

package platform

import "github.com/go-gl/glfw/v3.3/glfw"

func nativeHandles(*glfw.Window) (display, window uintptr, err error) {
	return 0, 0, ErrUnsupported
}
