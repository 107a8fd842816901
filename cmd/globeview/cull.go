package main

import (
	"github.com/go-gl/mathgl/mgl64"

	"tileglobe/core"
	"tileglobe/projection"
)

// frustum is six clip planes in tile units, outward normals pointing inward,
// stored as (nx, ny, nz, d).
type frustum [6]mgl64.Vec4

// newFrustum extracts the view frustum from the frame's clip matrix,
// rescaled to the tile-unit space TileAABB reports in.
func newFrustum(view *projection.ViewState, numTiles float64) frustum {
	s := view.WorldSize / numTiles
	m := view.WorldToClip.Mul4(mgl64.Scale3D(s, s, s))

	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)
	f := frustum{
		r3.Add(r0), // left
		r3.Sub(r0), // right
		r3.Add(r1), // bottom
		r3.Sub(r1), // top
		r3.Add(r2), // near
		r3.Sub(r2), // far
	}
	for i, p := range f {
		n := mgl64.Vec3{p.X(), p.Y(), p.Z()}.Len()
		f[i] = p.Mul(1.0 / n)
	}
	return f
}

// intersects reports whether box touches the frustum. Uses the positive
// vertex test: only the corner furthest along each plane normal is checked.
func (f frustum) intersects(box core.Aabb) bool {
	for _, p := range f {
		v := mgl64.Vec3{box.Min.X(), box.Min.Y(), box.Min.Z()}
		if p.X() >= 0 {
			v[0] = box.Max.X()
		}
		if p.Y() >= 0 {
			v[1] = box.Max.Y()
		}
		if p.Z() >= 0 {
			v[2] = box.Max.Z()
		}
		if p.X()*v.X()+p.Y()*v.Y()+p.Z()*v.Z()+p.W() < 0 {
			return false
		}
	}
	return true
}
