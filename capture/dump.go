// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package capture

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"golang.org/x/image/bmp"

	"github.com/gogpu/raymarch"
)

// Snapshotter reads back the most recently rendered frame.
// *raymarch.Renderer implements it.
type Snapshotter interface {
	Snapshot() (*image.RGBA, error)
}

var _ Snapshotter = (*raymarch.Renderer)(nil)

// Dumper writes one snapshot to a BMP file once a given frame has been
// presented. Frames that fail are skipped; the dump happens on the first
// successful frame at or after the target.
type Dumper struct {
	path  string
	after uint64
	src   Snapshotter

	done bool
	err  error
}

var _ raymarch.FrameCapturer = (*Dumper)(nil)

// NewDumper returns a Dumper writing to path after frame after. Frame
// numbers start at 1; zero is treated as 1.
func NewDumper(path string, after uint64) *Dumper {
	return &Dumper{path: path, after: max(after, 1)}
}

// Attach sets the snapshot source. The renderer is created after its
// capturers, so the source is attached separately.
func (d *Dumper) Attach(src Snapshotter) { d.src = src }

// BeginCapture does nothing.
func (d *Dumper) BeginCapture(uint64) {}

// EndCapture writes the snapshot when frame is the first successful frame
// at or after the target.
func (d *Dumper) EndCapture(frame uint64, err error) {
	if d.done || err != nil || frame < d.after || d.src == nil {
		return
	}
	d.done = true
	d.err = d.dump()
	if d.err != nil {
		raymarch.Logger().Warn("raymarch: frame dump failed", "path", d.path, "error", d.err)
		return
	}
	raymarch.Logger().Info("raymarch: frame dumped", "path", d.path, "frame", frame)
}

// Done reports whether the dump has been attempted.
func (d *Dumper) Done() bool { return d.done }

// Err returns the error of the dump attempt, if any.
func (d *Dumper) Err() error { return d.err }

func (d *Dumper) dump() (err error) {
	img, err := d.src.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	f, err := os.Create(d.path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return WriteBMP(f, img)
}

// WriteBMP encodes img as an uncompressed BMP.
func WriteBMP(w io.Writer, img image.Image) error {
	if err := bmp.Encode(w, img); err != nil {
		return fmt.Errorf("encode bmp: %w", err)
	}
	return nil
}
