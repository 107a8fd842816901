package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Aabb is an axis-aligned bounding box. Min is componentwise less than or
// equal to Max for any box produced by this package.
type Aabb struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// AabbFromPoints returns the smallest box containing all of the points.
func AabbFromPoints(points []mgl64.Vec3) Aabb {
	mx := math.MaxFloat64
	box := Aabb{
		Min: mgl64.Vec3{mx, mx, mx},
		Max: mgl64.Vec3{-mx, -mx, -mx},
	}
	for _, p := range points {
		box.Min = VecMin(box.Min, p)
		box.Max = VecMax(box.Max, p)
	}
	return box
}

// Corners returns the eight corner points of the box.
func (b Aabb) Corners() [8]mgl64.Vec3 {
	mn, mx := b.Min, b.Max
	return [8]mgl64.Vec3{
		{mn.X(), mn.Y(), mn.Z()},
		{mx.X(), mn.Y(), mn.Z()},
		{mx.X(), mx.Y(), mn.Z()},
		{mn.X(), mx.Y(), mn.Z()},
		{mn.X(), mn.Y(), mx.Z()},
		{mx.X(), mn.Y(), mx.Z()},
		{mx.X(), mx.Y(), mx.Z()},
		{mn.X(), mx.Y(), mx.Z()},
	}
}

// Center returns the midpoint of the box.
func (b Aabb) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extend grows the box to contain the point.
func (b Aabb) Extend(p mgl64.Vec3) Aabb {
	return Aabb{Min: VecMin(b.Min, p), Max: VecMax(b.Max, p)}
}

// ContainsPoint reports whether the point lies inside or on the box.
func (b Aabb) ContainsPoint(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}
