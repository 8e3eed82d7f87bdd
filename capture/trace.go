// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package capture

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gogpu/raymarch"
)

// TracerName is the instrumentation scope of frame spans.
const TracerName = "github.com/gogpu/raymarch"

// SpanName is the name of the span recorded for each frame.
const SpanName = "raymarch.frame"

// FrameAttribute carries the frame number on each span.
const FrameAttribute = attribute.Key("raymarch.frame")

// Tracer records one span per frame. A failed frame's span carries the error
// and an Error status.
type Tracer struct {
	tracer trace.Tracer
	parent context.Context
	span   trace.Span
}

var _ raymarch.FrameCapturer = (*Tracer)(nil)

// NewTracer returns a Tracer using tp. A nil tp uses the global provider set
// with otel.SetTracerProvider.
func NewTracer(tp trace.TracerProvider) *Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Tracer{
		tracer: tp.Tracer(TracerName, trace.WithInstrumentationVersion(raymarch.Version)),
		parent: context.Background(),
	}
}

// WithParent makes frame spans children of the span in ctx.
func (t *Tracer) WithParent(ctx context.Context) *Tracer {
	t.parent = ctx
	return t
}

// BeginCapture starts the frame span.
func (t *Tracer) BeginCapture(frame uint64) {
	_, t.span = t.tracer.Start(t.parent, SpanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(FrameAttribute.Int64(int64(frame))),
	)
}

// EndCapture ends the frame span.
func (t *Tracer) EndCapture(_ uint64, err error) {
	if t.span == nil {
		return
	}
	if err != nil {
		t.span.RecordError(err)
		t.span.SetStatus(codes.Error, err.Error())
		t.span.SetAttributes(attribute.String("raymarch.failure", FailureReason(err)))
	}
	t.span.End()
	t.span = nil
}
