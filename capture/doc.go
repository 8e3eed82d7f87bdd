// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package capture provides raymarch.FrameCapturer implementations for
// observing a running renderer.
//
//   - Metrics exports frame counts and frame durations to Prometheus.
//   - Tracer records one OpenTelemetry span per frame.
//   - Dumper writes a BMP snapshot of the display texture after a given frame.
//
// Capturers are combined with raymarch.MultiCapturer or by passing
// raymarch.WithCapturer several times:
//
//	m, err := capture.NewMetrics(prometheus.DefaultRegisterer)
//	if err != nil {
//		return err
//	}
//	r, err := raymarch.New(win,
//		raymarch.WithCapturer(m),
//		raymarch.WithCapturer(capture.NewTracer(nil)),
//	)
//
// Like the renderer, capturers are called from the render goroutine only.
package capture
