// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package platform opens the GLFW window the ray marcher presents to and
// pumps its events into a Handler.
package platform

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// GLFW calls must come from the main thread.
func init() {
	runtime.LockOSThread()
}

// ErrUnsupported is returned by SurfaceHandles on window systems the Vulkan
// surface path does not cover.
var ErrUnsupported = errors.New("platform: native surface handles not supported on this window system")

// Config describes the window to open.
type Config struct {
	Title  string
	Width  int
	Height int
}

// Handler receives window events. *raymarch.Application implements it.
type Handler interface {
	OnResize(width, height int)
	OnRedrawRequest()
	OnCloseRequest()
	ShouldExit() bool
}

// Window is a GLFW window without a client API; the GPU surface is created
// from its native handles.
type Window struct {
	win  *glfw.Window
	pump pump
}

// Open initializes GLFW and creates the window. It must be called from the
// main goroutine.
func Open(cfg Config) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("platform: init glfw: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("platform: create window: %w", err)
	}
	return &Window{win: win}, nil
}

// SurfaceHandles returns the native display and window handles.
func (w *Window) SurfaceHandles() (display, window uintptr, err error) {
	return nativeHandles(w.win)
}

// FramebufferSize returns the drawable size in pixels.
func (w *Window) FramebufferSize() (width, height int) {
	return w.win.GetFramebufferSize()
}

// RequestRedraw schedules a redraw after the current batch of events.
func (w *Window) RequestRedraw() {
	w.pump.redraw = true
}

// Run installs the callbacks and waits for events until h asks to exit.
// The first frame is drawn right away. Cancelling ctx wakes the loop and
// delivers a close request to h on the calling goroutine.
func (w *Window) Run(ctx context.Context, h Handler) {
	w.pump.handler = h
	w.pump.wait = glfw.WaitEvents
	w.pump.redraw = true

	w.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.pump.onResize(width, height)
	})
	w.win.SetRefreshCallback(func(*glfw.Window) {
		w.pump.onRefresh()
	})
	w.win.SetCloseCallback(func(*glfw.Window) {
		h.OnCloseRequest()
	})

	// The waker must be gone before Run returns. PostEmptyEvent is invalid
	// once Close has terminated GLFW.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			glfw.PostEmptyEvent()
		case <-stop:
		}
	}()
	defer wg.Wait()
	defer close(stop)

	w.pump.run(ctx)
}

// Close destroys the window and terminates GLFW.
func (w *Window) Close() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
	glfw.Terminate()
}

// pump is the event loop. wait blocks until at least one event has been
// dispatched to the callbacks.
type pump struct {
	handler Handler
	wait    func()
	redraw  bool
	closed  bool
}

func (p *pump) onResize(width, height int) {
	p.handler.OnResize(width, height)
}

// onRefresh marks the window damaged. A resize in the same batch usually
// requests a redraw too; both collapse into one frame.
func (p *pump) onRefresh() {
	p.redraw = true
}

func (p *pump) run(ctx context.Context) {
	for !p.handler.ShouldExit() {
		if ctx.Err() != nil && !p.closed {
			p.closed = true
			p.handler.OnCloseRequest()
			continue
		}
		if p.redraw {
			p.redraw = false
			p.handler.OnRedrawRequest()
			continue
		}
		p.wait()
	}
}
