package projection

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"gonum.org/v1/gonum/floats/scalar"

	"tileglobe/core"
)

func TestTransitionFactor(t *testing.T) {
	if f := TransitionFactor(0); f != 0 {
		t.Errorf("zoom 0: got %v, want 0", f)
	}
	if f := TransitionFactor(ZoomThresholdMin); f != 0 {
		t.Errorf("low threshold: got %v, want 0", f)
	}
	if f := TransitionFactor(ZoomThresholdMax); f != 1 {
		t.Errorf("high threshold: got %v, want 1", f)
	}
	if f := TransitionFactor(22); f != 1 {
		t.Errorf("zoom 22: got %v, want 1", f)
	}

	prev := 0.0
	for z := float64(ZoomThresholdMin); z <= ZoomThresholdMax; z += 0.01 {
		f := TransitionFactor(z)
		if f < prev {
			t.Fatalf("not monotonic at zoom %v", z)
		}
		prev = f
	}
}

func TestGlobeMatrixCenterLandsOnMapPlane(t *testing.T) {
	tests := []struct {
		lng, lat float64
		zoom     float64
	}{
		{0, 0, 2},
		{24.94, 60.17, 3.5},
		{-122.4, 37.8, 1},
		{179.9, -45, 4},
	}

	for _, tt := range tests {
		view := NewViewState(800, 600, orb.Point{tt.lng, tt.lat}, tt.zoom, 0, 0)
		ecef := core.LatLngToECEF(tt.lat, tt.lng, core.GlobeRadius)
		world := mgl64.TransformCoordinate(ecef, view.GlobeMatrix)
		p := view.Point()
		if !scalar.EqualWithinAbs(world.X(), p.X(), 1e-6) ||
			!scalar.EqualWithinAbs(world.Y(), p.Y(), 1e-6) ||
			!scalar.EqualWithinAbs(world.Z(), 0, 1e-6) {
			t.Errorf("center (%v, %v): surface point %v, want (%v, %v, 0)",
				tt.lng, tt.lat, world, p.X(), p.Y())
		}
	}
}

func TestNormalizeDenormalizeAreInverse(t *testing.T) {
	tile := maptile.New(11, 13, 4)
	box := TileBounds(tile)
	n := NormalizeECEF(box)
	d := DenormalizeECEF(box)

	// Probe the corners and the center of the box.
	points := box.Corners()
	probes := append(points[:], box.Center())
	for _, p := range probes {
		q := mgl64.TransformCoordinate(mgl64.TransformCoordinate(p, n), d)
		for i := 0; i < 3; i++ {
			if !scalar.EqualWithinAbs(q[i], p[i], 1e-9) {
				t.Fatalf("round trip %v = %v", p, q)
			}
		}
	}

	// Normalized coordinates must stay within the quantization range.
	for _, p := range points {
		q := mgl64.TransformCoordinate(p, n)
		for i := 0; i < 3; i++ {
			if q[i] < 0 || q[i] > NormalizationMask {
				t.Fatalf("normalized coordinate %v outside [0, %d]", q, NormalizationMask)
			}
		}
	}
}

func TestTileMatrixMatchesGlobeMatrix(t *testing.T) {
	view := NewViewState(800, 600, orb.Point{10, 45}, 3, 30, 15)
	tile := maptile.New(4, 5, 3)
	box := TileBounds(tile)
	n := NormalizeECEF(box)
	tm := TileMatrix(view, tile)

	corners := boundsToECEF(tile.Bound(), core.GlobeRadius)
	for _, c := range corners {
		direct := mgl64.TransformCoordinate(c, view.GlobeMatrix)
		quantized := mgl64.TransformCoordinate(mgl64.TransformCoordinate(c, n), tm)
		for i := 0; i < 3; i++ {
			if !scalar.EqualWithinAbs(direct[i], quantized[i], 1e-6) {
				t.Fatalf("quantized path diverges: %v vs %v", quantized, direct)
			}
		}
	}
}

func TestPoleMatrixSpinsFanToTileColumn(t *testing.T) {
	view := NewViewState(800, 600, orb.Point{0, 0}, 2, 0, 0)

	// The fan tip sits on the polar axis; every column must map it to the
	// same world position.
	tip := mgl64.Vec3{0, -core.GlobeRadius, 0}
	ref := mgl64.TransformCoordinate(tip, PoleMatrix(view, 2, 0))
	for x := uint32(1); x < 4; x++ {
		got := mgl64.TransformCoordinate(tip, PoleMatrix(view, 2, x))
		for i := 0; i < 3; i++ {
			if !scalar.EqualWithinAbs(got[i], ref[i], 1e-9) {
				t.Fatalf("column %d moves the pole tip: %v vs %v", x, got, ref)
			}
		}
	}

	// A ring point must differ between columns.
	ring := core.LatLngToECEF(core.MaxMercatorLatitude, 0, core.GlobeRadius)
	a := mgl64.TransformCoordinate(ring, PoleMatrix(view, 2, 0))
	b := mgl64.TransformCoordinate(ring, PoleMatrix(view, 2, 1))
	if a.Sub(b).Len() < 1e-9 {
		t.Fatal("ring point did not rotate between tile columns")
	}
}

func TestLabelSpaceMatrixFinite(t *testing.T) {
	view := NewViewState(800, 600, orb.Point{25, 64}, 4, 40, 0)
	m := LabelSpaceMatrix(view, maptile.New(9, 3, 4))
	for i := 0; i < 16; i++ {
		if math.IsNaN(m[i]) || math.IsInf(m[i], 0) {
			t.Fatalf("label matrix contains non-finite values: %v", m)
		}
	}
}

func TestFlatProjectionMatrixMapsCenter(t *testing.T) {
	view := NewViewState(800, 600, orb.Point{30, 50}, 7, 0, 0)
	m := FlatProjectionMatrix(view)
	// The camera center (zero Mercator offset, height 0) lands on the
	// camera's pixel position.
	world := mgl64.TransformCoordinate(mgl64.Vec3{}, m)
	p := view.Point()
	if !scalar.EqualWithinAbs(world.X(), p.X(), 1e-9) ||
		!scalar.EqualWithinAbs(world.Y(), p.Y(), 1e-9) ||
		!scalar.EqualWithinAbs(world.Z(), 0, 1e-9) {
		t.Errorf("center maps to %v, want (%v, %v, 0)", world, p.X(), p.Y())
	}
}
