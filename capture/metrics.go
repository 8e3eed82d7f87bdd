// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package capture

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/raymarch"
)

// Failure reasons used as the "reason" label of the failure counter.
const (
	ReasonSurfaceLost     = "surface_lost"
	ReasonSurfaceOutdated = "surface_outdated"
	ReasonTimeout         = "timeout"
	ReasonClosed          = "closed"
	ReasonOther           = "other"
)

// Metrics counts frames and observes frame durations.
//
// Exported series:
//
//	raymarch_frames_total               frames presented
//	raymarch_frame_failures_total       failed frames by reason
//	raymarch_frame_duration_seconds     BeginCapture to EndCapture
type Metrics struct {
	frames   prometheus.Counter
	failures *prometheus.CounterVec
	duration prometheus.Histogram

	now   func() time.Time
	start time.Time
}

var _ raymarch.FrameCapturer = (*Metrics)(nil)

// NewMetrics creates the collectors and registers them with reg. A nil reg
// uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "raymarch",
			Name:      "frames_total",
			Help:      "Number of frames rendered and presented",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "raymarch",
			Name:      "frame_failures_total",
			Help:      "Number of frames that returned an error",
		}, []string{"reason"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "raymarch",
			Name:      "frame_duration_seconds",
			Help:      "Time spent producing one frame, acquire through present",
			Buckets:   prometheus.DefBuckets,
		}),
		now: time.Now,
	}
	for _, c := range []prometheus.Collector{m.frames, m.failures, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register frame metrics: %w", err)
		}
	}
	return m, nil
}

// BeginCapture starts the frame timer.
func (m *Metrics) BeginCapture(uint64) {
	m.start = m.now()
}

// EndCapture observes the frame duration and counts the frame as presented
// or failed.
func (m *Metrics) EndCapture(_ uint64, err error) {
	m.duration.Observe(m.now().Sub(m.start).Seconds())
	if err != nil {
		m.failures.WithLabelValues(FailureReason(err)).Inc()
		return
	}
	m.frames.Inc()
}

// FailureReason maps a frame error to a short label value.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, raymarch.ErrSurfaceLost):
		return ReasonSurfaceLost
	case errors.Is(err, raymarch.ErrSurfaceOutdated):
		return ReasonSurfaceOutdated
	case errors.Is(err, raymarch.ErrFrameTimeout):
		return ReasonTimeout
	case errors.Is(err, raymarch.ErrClosed):
		return ReasonClosed
	default:
		return ReasonOther
	}
}
