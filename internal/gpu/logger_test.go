package gpu

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerDefaultSilent(t *testing.T) {
	if slogger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default package logger should be disabled")
	}
}

func TestSetLoggerCapturesFrameLogs(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	rig := newTestRig(t, RendererConfig{})
	if err := rig.r.Resize(0, 0); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if err := rig.r.Render(); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "surface suspended") {
		t.Errorf("expected suspend to be logged, got: %s", buf.String())
	}
}

func TestSetLoggerNilRestoresSilent(t *testing.T) {
	SetLogger(slog.Default())
	SetLogger(nil)
	if slogger() == nil {
		t.Fatal("slogger() returned nil")
	}
	if slogger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}
