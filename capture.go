// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raymarch

import "github.com/gogpu/raymarch/internal/gpu"

// FrameCapturer brackets every frame. BeginCapture runs before the surface
// texture is acquired and EndCapture after the frame is presented. EndCapture
// also runs when the frame fails, with the error Render returns.
//
// Capturers are set once with WithCapturer and are called on the rendering
// goroutine. The capture package has metrics, tracing and image dump
// implementations.
type FrameCapturer = gpu.FrameCapturer

// CaptureFuncs adapts plain functions to FrameCapturer. Nil fields are
// skipped.
type CaptureFuncs struct {
	Begin func(frame uint64)
	End   func(frame uint64, err error)
}

// BeginCapture implements FrameCapturer.
func (c CaptureFuncs) BeginCapture(frame uint64) {
	if c.Begin != nil {
		c.Begin(frame)
	}
}

// EndCapture implements FrameCapturer.
func (c CaptureFuncs) EndCapture(frame uint64, err error) {
	if c.End != nil {
		c.End(frame, err)
	}
}

// MultiCapturer combines capturers into one. Begin calls run in order and End
// calls in reverse order, so captures nest. It returns nil when given no
// capturers and the capturer itself when given one.
func MultiCapturer(cs ...FrameCapturer) FrameCapturer {
	live := make(multiCapturer, 0, len(cs))
	for _, c := range cs {
		if c != nil {
			live = append(live, c)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	default:
		return live
	}
}

type multiCapturer []FrameCapturer

func (m multiCapturer) BeginCapture(frame uint64) {
	for _, c := range m {
		c.BeginCapture(frame)
	}
}

func (m multiCapturer) EndCapture(frame uint64, err error) {
	for i := len(m) - 1; i >= 0; i-- {
		m[i].EndCapture(frame, err)
	}
}
