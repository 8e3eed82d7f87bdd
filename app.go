// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raymarch

import "errors"

// Title is the window title of the ray marcher application.
const Title = "Ray Marcher"

// FrameRenderer is the part of Renderer the Application drives.
type FrameRenderer interface {
	Render() error
	Resize(width, height int) error
}

// Application maps window events onto the renderer:
//
//   - a resize reconfigures the surface and requests a redraw
//   - a redraw request renders one frame
//   - a close request ends the application
//
// The event loop stays idle between events; frames are only drawn when the
// window asks for one. Like Renderer, Application must be driven from one
// goroutine.
type Application struct {
	renderer      FrameRenderer
	requestRedraw func()

	exit bool
	err  error
}

// NewApplication returns an Application rendering with r. requestRedraw is
// called after every resize; it may be nil.
func NewApplication(r FrameRenderer, requestRedraw func()) *Application {
	if requestRedraw == nil {
		requestRedraw = func() {}
	}
	return &Application{renderer: r, requestRedraw: requestRedraw}
}

// OnResize handles a framebuffer size change.
func (a *Application) OnResize(width, height int) {
	if a.exit {
		return
	}
	if err := a.renderer.Resize(width, height); err != nil {
		a.fail(err)
		return
	}
	a.requestRedraw()
}

// OnRedrawRequest renders one frame. A lost surface or a closed renderer
// ends the application; other frame errors are logged and the next redraw
// tries again.
func (a *Application) OnRedrawRequest() {
	if a.exit {
		return
	}
	err := a.renderer.Render()
	switch {
	case err == nil:
	case errors.Is(err, ErrSurfaceLost), errors.Is(err, ErrClosed):
		a.fail(err)
	default:
		Logger().Warn("raymarch: frame failed", "error", err)
	}
}

// OnCloseRequest ends the application.
func (a *Application) OnCloseRequest() {
	a.exit = true
}

// ShouldExit reports whether the event loop should stop.
func (a *Application) ShouldExit() bool { return a.exit }

// Err returns the error that ended the application, or nil after a normal
// close.
func (a *Application) Err() error { return a.err }

func (a *Application) fail(err error) {
	a.exit = true
	a.err = err
}
