// Package rendering builds the shared globe surface geometry: the
// latitude-tessellated grid mesh, the polar cap fans and an optional debug
// wireframe, uploaded once per GPU context and selected per frame by draw
// segment.
package rendering

// VertexAttribute describes one interleaved vertex attribute.
type VertexAttribute struct {
	Name       string
	Components int
}

// VertexLayout describes the interleaved layout of a vertex buffer.
type VertexLayout struct {
	Attributes []VertexAttribute
}

// Stride returns the vertex size in float32 components.
func (l VertexLayout) Stride() int {
	n := 0
	for _, a := range l.Attributes {
		n += a.Components
	}
	return n
}

// GridVertexLayout is the layout of the shared surface grid: integer grid
// row/column, resolved to positions in the vertex stage.
var GridVertexLayout = VertexLayout{
	Attributes: []VertexAttribute{{Name: "a_grid_pos", Components: 2}},
}

// PoleVertexLayout is the layout of the polar cap fans: reference-sphere
// position plus texture coordinate.
var PoleVertexLayout = VertexLayout{
	Attributes: []VertexAttribute{
		{Name: "a_pos", Components: 3},
		{Name: "a_uv", Components: 2},
	},
}

// VertexBuffer is an opaque GPU vertex buffer handle. The creator owns it
// exclusively and must destroy it exactly once.
type VertexBuffer interface {
	Destroy()
}

// IndexBuffer is an opaque GPU index buffer handle with the same ownership
// rules as VertexBuffer.
type IndexBuffer interface {
	Destroy()
}

// Context abstracts the GPU resource factory the globe meshes are uploaded
// through. Implementations live close to the graphics API; see
// rendering/opengl.
type Context interface {
	CreateVertexBuffer(data []float32, layout VertexLayout) (VertexBuffer, error)
	// CreateIndexBuffer uploads indices forming triangles when triangles is
	// true, line segments otherwise.
	CreateIndexBuffer(indices []uint32, triangles bool) (IndexBuffer, error)
}

// Segment is a draw range into a vertex/index buffer pair.
type Segment struct {
	VertexOffset    int
	VertexCount     int
	PrimitiveOffset int
	PrimitiveCount  int
}
