package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Arc is a constant angular velocity path between two points revolving
// around a shared center. A and B are stored relative to the center.
type Arc struct {
	A      mgl64.Vec3
	B      mgl64.Vec3
	Center mgl64.Vec3
	Angle  float64
}

// NewArc builds the arc from p0 to p1 around center.
func NewArc(p0, p1, center mgl64.Vec3) Arc {
	a := p0.Sub(center)
	b := p1.Sub(center)
	cos := Clamp(a.Normalize().Dot(b.Normalize()), -1.0, 1.0)
	return Arc{A: a, B: b, Center: center, Angle: math.Acos(cos)}
}

// Slerp evaluates one component of the spherical interpolation between a and
// b at parameter t, where angle is the total angular span.
func Slerp(a, b, angle, t float64) float64 {
	sinA := math.Sin(angle)
	return a*(math.Sin((1.0-t)*angle)/sinA) + b*(math.Sin(t*angle)/sinA)
}

// LocalExtremum solves d/dt slerp(t) == 0 on one axis of the arc and returns
// the extremum value in absolute coordinates. ok is false when the arc is
// degenerate (zero angle) or the stationary point falls outside [0, 1], in
// which case the endpoint values already bound the arc on that axis.
//
//	t = (1/angle) * atan(b/(a*sin(angle)) - 1/tan(angle)), a != 0
//	t = (1/angle) * pi/2,                                  a == 0
func LocalExtremum(arc Arc, axis int) (value float64, ok bool) {
	if arc.Angle == 0 {
		return 0, false
	}

	var t float64
	if arc.A[axis] == 0 {
		t = (1.0 / arc.Angle) * 0.5 * math.Pi
	} else {
		t = (1.0 / arc.Angle) * math.Atan(arc.B[axis]/arc.A[axis]/math.Sin(arc.Angle)-1.0/math.Tan(arc.Angle))
	}

	if t < 0 || t > 1 {
		return 0, false
	}

	return Slerp(arc.A[axis], arc.B[axis], arc.Angle, t) + arc.Center[axis], true
}
