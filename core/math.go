package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Clamp limits v to the range [min, max].
func Clamp(v, min, max float64) float64 {
	return math.Max(min, math.Min(max, v))
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a*(1.0-t) + b*t
}

// LerpVec3 interpolates each component of a towards b.
func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return mgl64.Vec3{
		Lerp(a.X(), b.X(), t),
		Lerp(a.Y(), b.Y(), t),
		Lerp(a.Z(), b.Z(), t),
	}
}

// Smoothstep is the cubic Hermite ramp between edges e0 and e1. It is 0 at
// or below e0, 1 at or above e1, and C1-continuous at both edges.
func Smoothstep(e0, e1, x float64) float64 {
	t := Clamp((x-e0)/(e1-e0), 0.0, 1.0)
	return t * t * (3.0 - 2.0*t)
}

// ShortestAngleDeg returns the signed angular difference from angle `from`
// to angle `to`, in degrees, choosing the representation within ±180.
func ShortestAngleDeg(from, to float64) float64 {
	diff := math.Mod(to-from+180.0, 360.0)
	if diff < 0 {
		diff += 360.0
	}
	return diff - 180.0
}

// VecMin returns the componentwise minimum of a and b.
func VecMin(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		math.Min(a.X(), b.X()),
		math.Min(a.Y(), b.Y()),
		math.Min(a.Z(), b.Z()),
	}
}

// VecMax returns the componentwise maximum of a and b.
func VecMax(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		math.Max(a.X(), b.X()),
		math.Max(a.Y(), b.Y()),
		math.Max(a.Z(), b.Z()),
	}
}
