package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half line with an origin and a direction. Dir is expected to be
// normalized by the caller.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

// ClosestPointOnSphere finds the point on the sphere surface nearest to the
// ray. The returned point is relative to the sphere center. hit is true when
// the ray actually intersects the sphere; otherwise the closest surface
// point is returned so callers can still resolve a position.
func (r Ray) ClosestPointOnSphere(center mgl64.Vec3, radius float64) (point mgl64.Vec3, hit bool) {
	p := r.Origin.Sub(center)
	if radius == 0 || p.Len() == 0 {
		return mgl64.Vec3{}, false
	}

	d := r.Dir
	a := d.Dot(d)
	b := 2.0 * p.Dot(d)
	c := p.Dot(p) - radius*radius
	disc := b*b - 4.0*a*c

	if disc < 0 {
		// No intersection. Project the nearest point on the ray onto the
		// sphere surface.
		t := math.Max(-b/(2.0*a), 0.0)
		q := p.Add(d.Mul(t))
		return q.Normalize().Mul(radius), false
	}

	t := (-b - math.Sqrt(disc)) / (2.0 * a)
	if t < 0 {
		// Sphere is behind the ray origin.
		return p.Normalize().Mul(radius), false
	}

	return p.Add(d.Mul(t)).Normalize().Mul(radius), true
}
