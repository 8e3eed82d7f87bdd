// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// quadVertexStride is the byte size of one quad vertex: vec2<f32> position
// followed by vec2<f32> uv.
const quadVertexStride = 16

// QuadVertex is one corner of the full-screen quad in clip space.
type QuadVertex struct {
	X, Y float32
	U, V float32
}

// QuadVertices covers clip space [-1,1]^2. UV origin is the top-left texel
// of the display texture, so v grows downward.
var QuadVertices = [4]QuadVertex{
	{X: -1, Y: 1, U: 0, V: 0},  // top-left
	{X: -1, Y: -1, U: 0, V: 1}, // bottom-left
	{X: 1, Y: -1, U: 1, V: 1},  // bottom-right
	{X: 1, Y: 1, U: 1, V: 0},   // top-right
}

// QuadIndices draws the quad as two counter-clockwise triangles.
var QuadIndices = [6]uint16{0, 1, 2, 0, 2, 3}

// quadVertexLayout describes QuadVertices to the render pipeline's vertex
// stage: location 0 is position, location 1 is uv.
func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // uv
			},
		},
	}
}

// quadVertexData serializes QuadVertices for upload.
func quadVertexData() []byte {
	data := make([]byte, len(QuadVertices)*quadVertexStride)
	for i, v := range QuadVertices {
		buf := data[i*quadVertexStride:]
		binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.X))
		binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Y))
		binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v.U))
		binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v.V))
	}
	return data
}

// quadIndexData serializes QuadIndices for upload. Six uint16 values are
// 12 bytes, which already satisfies the 4-byte copy alignment.
func quadIndexData() []byte {
	data := make([]byte, len(QuadIndices)*2)
	for i, idx := range QuadIndices {
		binary.LittleEndian.PutUint16(data[i*2:], idx)
	}
	return data
}
