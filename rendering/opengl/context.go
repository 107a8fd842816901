// Package opengl implements the rendering.Context GPU abstraction and a
// globe renderer on top of OpenGL 4.1 core. Every call must run on the
// thread that owns the GL context.
package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"tileglobe/rendering"
)

// Context is the OpenGL implementation of rendering.Context.
type Context struct{}

type vertexBuffer struct {
	id     uint32
	layout rendering.VertexLayout
}

func (b *vertexBuffer) Destroy() {
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}

type indexBuffer struct {
	id        uint32
	triangles bool
}

func (b *indexBuffer) Destroy() {
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}

// CreateVertexBuffer uploads interleaved float32 vertex data.
func (Context) CreateVertexBuffer(data []float32, layout rendering.VertexLayout) (rendering.VertexBuffer, error) {
	if len(data)%layout.Stride() != 0 {
		return nil, fmt.Errorf("vertex data length %d does not match layout stride %d", len(data), layout.Stride())
	}

	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		gl.DeleteBuffers(1, &id)
		return nil, fmt.Errorf("failed to upload vertex buffer: GL error 0x%x", errCode)
	}
	return &vertexBuffer{id: id, layout: layout}, nil
}

// CreateIndexBuffer uploads triangle or line indices.
func (Context) CreateIndexBuffer(indices []uint32, triangles bool) (rendering.IndexBuffer, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, id)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		gl.DeleteBuffers(1, &id)
		return nil, fmt.Errorf("failed to upload index buffer: GL error 0x%x", errCode)
	}
	return &indexBuffer{id: id, triangles: triangles}, nil
}
