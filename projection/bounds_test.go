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

func TestTileBoundsFullSphere(t *testing.T) {
	box := TileBounds(maptile.New(0, 0, 0))
	r := core.GlobeRadius
	want := core.Aabb{Min: mgl64.Vec3{-r, -r, -r}, Max: mgl64.Vec3{r, r, r}}
	if box != want {
		t.Errorf("z0 bounds = %+v, want %+v", box, want)
	}
	if !scalar.EqualWithinAbs(r, 512.0/(2.0*math.Pi), 1e-12) {
		t.Errorf("globe radius = %v, want 512/(2*pi)", r)
	}
}

func TestTileBoundsZoomOneQuadrants(t *testing.T) {
	r := core.GlobeRadius
	full := core.Aabb{Min: mgl64.Vec3{-r, -r, -r}, Max: mgl64.Vec3{r, r, r}}

	union := TileBounds(maptile.New(0, 0, 1))
	for _, tile := range []maptile.Tile{
		maptile.New(1, 0, 1), maptile.New(0, 1, 1), maptile.New(1, 1, 1),
	} {
		b := TileBounds(tile)
		union.Min = core.VecMin(union.Min, b.Min)
		union.Max = core.VecMax(union.Max, b.Max)
	}
	if union != full {
		t.Errorf("z1 quadrants union = %+v, want full sphere box", union)
	}

	// Quadrants split the sphere along the polar axis and the antimeridian
	// plane; each spans half the extent on x and y and all of z.
	for _, tile := range []maptile.Tile{
		maptile.New(0, 0, 1), maptile.New(1, 0, 1),
		maptile.New(0, 1, 1), maptile.New(1, 1, 1),
	} {
		b := TileBounds(tile)
		if got := b.Max.X() - b.Min.X(); !scalar.EqualWithinAbs(got, r, 1e-12) {
			t.Errorf("tile %v x extent = %v, want %v", tile, got, r)
		}
		if got := b.Max.Y() - b.Min.Y(); !scalar.EqualWithinAbs(got, r, 1e-12) {
			t.Errorf("tile %v y extent = %v, want %v", tile, got, r)
		}
		if got := b.Max.Z() - b.Min.Z(); !scalar.EqualWithinAbs(got, 2*r, 1e-12) {
			t.Errorf("tile %v z extent = %v, want %v", tile, got, 2*r)
		}
	}
}

func TestTileBoundsCornersContained(t *testing.T) {
	tiles := []maptile.Tile{
		maptile.New(2, 1, 2),
		maptile.New(9, 3, 4),
		maptile.New(100, 312, 9),
	}
	for _, tile := range tiles {
		box := TileBounds(tile)
		for _, c := range boundsToECEF(tile.Bound(), core.GlobeRadius) {
			if !box.ContainsPoint(c) {
				t.Errorf("tile %v: corner %v outside box %+v", tile, c, box)
			}
		}
	}
}

func TestTileCoordToECEFMatchesCorners(t *testing.T) {
	tile := maptile.New(5, 10, 4)
	corners := boundsToECEF(tile.Bound(), core.GlobeRadius)

	nw := TileCoordToECEF(0, 0, tile, core.GlobeRadius)
	se := TileCoordToECEF(core.TileExtent, core.TileExtent, tile, core.GlobeRadius)

	for i := 0; i < 3; i++ {
		if !scalar.EqualWithinAbs(nw[i], corners[0][i], 1e-9) {
			t.Fatalf("NW corner: %v, want %v", nw, corners[0])
		}
		if !scalar.EqualWithinAbs(se[i], corners[2][i], 1e-9) {
			t.Fatalf("SE corner: %v, want %v", se, corners[2])
		}
	}
}

func TestTileAABBLowZoomTilesSphere(t *testing.T) {
	view := NewViewState(800, 600, orb.Point{0, 0}, 0.5, 0, 0)
	numTiles := 2.0

	// With an unrotated globe the four z1 boxes tile the transformed full
	// sphere box with no gaps and no overlap beyond shared faces.
	full := TileAABB(view, numTiles, maptile.New(0, 0, 0))
	union := TileAABB(view, numTiles, maptile.New(0, 0, 1))
	quads := []core.Aabb{union}
	for _, tile := range []maptile.Tile{
		maptile.New(1, 0, 1), maptile.New(0, 1, 1), maptile.New(1, 1, 1),
	} {
		b := TileAABB(view, numTiles, tile)
		quads = append(quads, b)
		union.Min = core.VecMin(union.Min, b.Min)
		union.Max = core.VecMax(union.Max, b.Max)
	}

	for i := 0; i < 3; i++ {
		if !scalar.EqualWithinAbs(union.Min[i], full.Min[i], 1e-9) ||
			!scalar.EqualWithinAbs(union.Max[i], full.Max[i], 1e-9) {
			t.Fatalf("z1 union %+v does not tile z0 box %+v", union, full)
		}
	}

	// Adjacent quadrants meet exactly at the center plane.
	left := quads[0]  // x=0, y=0
	right := quads[1] // x=1, y=0
	if !scalar.EqualWithinAbs(left.Max.X(), right.Min.X(), 1e-9) {
		t.Errorf("x seam: %v vs %v", left.Max.X(), right.Min.X())
	}
}

func TestTileAABBUnderCameraCapsAtMapPlane(t *testing.T) {
	center := orb.Point{12.3, 48.7}
	view := NewViewState(800, 600, center, 4, 0, 0)
	tile := maptile.At(center, 4)
	numTiles := math.Exp2(4)

	box := TileAABB(view, numTiles, tile)
	if box.Max.Z() != 0 {
		t.Errorf("tile under camera: max z = %v, want 0", box.Max.Z())
	}
	p := view.Point()
	scale := numTiles / view.WorldSize
	camera := mgl64.Vec3{p.X() * scale, p.Y() * scale, 0}
	if !box.ContainsPoint(camera) {
		t.Errorf("box %+v does not include the camera surface point %v", box, camera)
	}
}

func TestTileAABBCoversCornersLaterally(t *testing.T) {
	view := NewViewState(800, 600, orb.Point{0, 0}, 3, 45, 20)
	numTiles := 8.0
	scale := numTiles / view.WorldSize

	for _, tile := range []maptile.Tile{
		maptile.New(1, 2, 3), maptile.New(6, 3, 3), maptile.New(4, 7, 3),
	} {
		box := TileAABB(view, numTiles, tile)
		corners := boundsToECEF(tile.Bound(), core.GlobeRadius)
		transformPoints(corners[:], view.GlobeMatrix, scale)
		for _, c := range corners {
			// Height is deliberately tightened past the far corners, so only
			// the lateral axes are guaranteed.
			if c.X() < box.Min.X()-1e-9 || c.X() > box.Max.X()+1e-9 ||
				c.Y() < box.Min.Y()-1e-9 || c.Y() > box.Max.Y()+1e-9 {
				t.Errorf("tile %v: corner %v escapes box %+v", tile, c, box)
			}
		}
	}
}

func TestTileAABBCurvedEdgeExtendsBeyondCorners(t *testing.T) {
	// A wide tile north of the camera: the southern edge bulges towards the
	// camera, so the box must extend past the corner-only bound on z.
	view := NewViewState(800, 600, orb.Point{0, 0}, 2, 0, 0)
	tile := maptile.New(1, 0, 2) // north of center, same longitude band
	numTiles := 4.0
	scale := numTiles / view.WorldSize

	box := TileAABB(view, numTiles, tile)
	corners := boundsToECEF(tile.Bound(), core.GlobeRadius)
	transformPoints(corners[:], view.GlobeMatrix, scale)
	cornerBox := core.AabbFromPoints(corners[:])

	if box.Max.Z() < cornerBox.Max.Z()-1e-12 {
		t.Errorf("curved edge not folded in: box max z %v < corner max z %v",
			box.Max.Z(), cornerBox.Max.Z())
	}
}

func TestTileAABBContinuousAcrossTransitionStart(t *testing.T) {
	tile := maptile.New(9, 11, 5)
	numTiles := math.Exp2(5)
	center := orb.Point{-20, 35}

	below := NewViewState(800, 600, center, 4.999, 0, 0)
	above := NewViewState(800, 600, center, 5.001, 0, 0)

	a := TileAABB(below, numTiles, tile)
	b := TileAABB(above, numTiles, tile)

	// Crossing into the transition band must not jump the box; the phase at
	// the boundary is ~0 and the smoothstep is C1.
	for i := 0; i < 3; i++ {
		if relDiff := math.Abs(a.Min[i]-b.Min[i]) / (math.Abs(a.Min[i]) + 1); relDiff > 0.01 {
			t.Errorf("min[%d] jumps across threshold: %v vs %v", i, a.Min[i], b.Min[i])
		}
		if relDiff := math.Abs(a.Max[i]-b.Max[i]) / (math.Abs(a.Max[i]) + 1); relDiff > 0.01 {
			t.Errorf("max[%d] jumps across threshold: %v vs %v", i, a.Max[i], b.Max[i])
		}
	}
}
