package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestLocalExtremumDegenerateArc(t *testing.T) {
	p := mgl64.Vec3{GlobeRadius, 0, 0}
	arc := NewArc(p, p, mgl64.Vec3{})
	if arc.Angle != 0 {
		t.Fatalf("collinear endpoints should give zero angle, got %v", arc.Angle)
	}
	for axis := 0; axis < 3; axis++ {
		if _, ok := LocalExtremum(arc, axis); ok {
			t.Errorf("axis %d: degenerate arc must have no extremum", axis)
		}
	}
}

// A quarter arc over the equator from lng 0 to lng 90 has its z maximum at
// the start and an interior x extremum nowhere (monotonic), but the arc from
// lng -45 to lng 45 has an interior z maximum at lng 0.
func TestLocalExtremumEquatorArc(t *testing.T) {
	a := LatLngToECEF(0, -45, GlobeRadius)
	b := LatLngToECEF(0, 45, GlobeRadius)
	arc := NewArc(a, b, mgl64.Vec3{})

	z, ok := LocalExtremum(arc, 2)
	if !ok {
		t.Fatal("expected interior extremum on z axis")
	}
	if !scalar.EqualWithinAbs(z, GlobeRadius, 1e-9) {
		t.Errorf("z extremum = %v, want %v", z, GlobeRadius)
	}

	// On the y axis the arc is constant zero; the slerp is identically 0 so
	// any reported extremum must stay within the endpoint bounds.
	if y, ok := LocalExtremum(arc, 1); ok && !scalar.EqualWithinAbs(y, 0, 1e-9) {
		t.Errorf("y extremum = %v, want 0", y)
	}
}

func TestLocalExtremumBoundedByEndpoints(t *testing.T) {
	tests := []struct {
		name   string
		latA   float64
		lngA   float64
		latB   float64
		lngB   float64
		center mgl64.Vec3
	}{
		{"meridian arc", 10, 30, 70, 30, mgl64.Vec3{}},
		{"equator arc", 0, -120, 0, -30, mgl64.Vec3{}},
		{"mid latitude arc", 45, -60, 45, 60, mgl64.Vec3{0, -math.Sin(DegToRad(45)) * GlobeRadius, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := LatLngToECEF(tt.latA, tt.lngA, GlobeRadius)
			b := LatLngToECEF(tt.latB, tt.lngB, GlobeRadius)
			arc := NewArc(a, b, tt.center)

			for axis := 0; axis < 3; axis++ {
				v, ok := LocalExtremum(arc, axis)
				if !ok {
					continue
				}
				lo := math.Min(a[axis], b[axis])
				hi := math.Max(a[axis], b[axis])
				// An interior stationary point of the slerp can only push the
				// bound outwards, never fall strictly inside both endpoints
				// by more than the arc radius.
				if v < lo-GlobeRadius || v > hi+GlobeRadius {
					t.Errorf("axis %d: extremum %v far outside endpoint range [%v, %v]", axis, v, lo, hi)
				}
			}
		})
	}
}

func TestSlerpEndpoints(t *testing.T) {
	angle := DegToRad(73)
	a, b := 0.25, -1.75
	if v := Slerp(a, b, angle, 0); !scalar.EqualWithinAbs(v, a, 1e-12) {
		t.Errorf("Slerp(t=0) = %v, want %v", v, a)
	}
	if v := Slerp(a, b, angle, 1); !scalar.EqualWithinAbs(v, b, 1e-12) {
		t.Errorf("Slerp(t=1) = %v, want %v", v, b)
	}
}
