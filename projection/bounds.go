package projection

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	"tileglobe/core"
)

// Local-frame bounding boxes for whole-hemisphere tiles. The sphere's height
// function is not monotonic inside them, so corner projection would clip the
// bulge; precomputed octant boxes bound them exactly.
var lowZoomTileAABBs = [5]core.Aabb{
	// z == 0
	{Min: mgl64.Vec3{-core.GlobeRadius, -core.GlobeRadius, -core.GlobeRadius},
		Max: mgl64.Vec3{core.GlobeRadius, core.GlobeRadius, core.GlobeRadius}},
	// z == 1, one quadrant each
	{Min: mgl64.Vec3{-core.GlobeRadius, -core.GlobeRadius, -core.GlobeRadius},
		Max: mgl64.Vec3{0, 0, core.GlobeRadius}}, // x=0, y=0
	{Min: mgl64.Vec3{0, -core.GlobeRadius, -core.GlobeRadius},
		Max: mgl64.Vec3{core.GlobeRadius, 0, core.GlobeRadius}}, // x=1, y=0
	{Min: mgl64.Vec3{-core.GlobeRadius, 0, -core.GlobeRadius},
		Max: mgl64.Vec3{0, core.GlobeRadius, core.GlobeRadius}}, // x=0, y=1
	{Min: mgl64.Vec3{0, 0, -core.GlobeRadius},
		Max: mgl64.Vec3{core.GlobeRadius, core.GlobeRadius, core.GlobeRadius}}, // x=1, y=1
}

// TileBounds returns the tile's bounding box on the sphere in the globe's
// own reference frame. Past zoom 1 the surface is monotonic over a tile's
// angular extent, so the box spanned by the four corners is exact.
func TileBounds(tile maptile.Tile) core.Aabb {
	if tile.Z <= 1 {
		return lowZoomTileAABBs[uint32(tile.Z)+tile.Y*2+tile.X]
	}
	corners := boundsToECEF(tile.Bound(), core.GlobeRadius)
	return core.AabbFromPoints(corners[:])
}

// TileCoordToECEF maps a point in a tile's local 0..TileExtent coordinate
// space onto the reference sphere.
func TileCoordToECEF(x, y float64, tile maptile.Tile, radius float64) mgl64.Vec3 {
	s := 1.0 / float64(uint32(1)<<tile.Z)
	mx := (x/core.TileExtent + float64(tile.X)) * s
	my := (y/core.TileExtent + float64(tile.Y)) * s
	return core.LatLngToECEF(core.LatFromMercatorY(my), core.LngFromMercatorX(mx), radius)
}

// TileAABB computes the world-space bounding box used for frustum culling
// of a tile rendered on the globe. Coordinates are scaled to tile units
// (numTiles per world) to match the culling frustum.
func TileAABB(view *ViewState, numTiles float64, tile maptile.Tile) core.Aabb {
	scale := numTiles / view.WorldSize
	m := view.GlobeMatrix

	if tile.Z <= 1 {
		// Whole-hemisphere tiles bound generously already; transforming the
		// local box corners is coarse but correct.
		corners := TileBounds(tile).Corners()
		transformPoints(corners[:], m, scale)
		return core.AabbFromPoints(corners[:])
	}

	// Past zoom 1 it is enough to start from the four projected corner
	// points; curvature is handled below by the closest-edge arc.
	bounds := tile.Bound()
	ecefCorners := boundsToECEF(bounds, core.GlobeRadius)
	corners := ecefCorners[:]
	transformPoints(corners, m, scale)

	// A tile directly beneath the viewer bulges towards the camera beyond
	// what corner projection captures; include the surface point under the
	// camera, which at height 0 caps the box at the map plane.
	if bounds.Contains(wrappedCenter(view)) {
		box := core.AabbFromPoints(corners)
		box.Max[2] = 0.0
		p := view.Point()
		box = box.Extend(mgl64.Vec3{p.X() * scale, p.Y() * scale, 0})
		return box
	}

	camX := core.MercatorXFromLng(view.Center.Lon())
	camY := core.MercatorYFromLat(view.Center.Lat())

	phase := TransitionFactor(view.Zoom)
	var mercatorCorners [4]mgl64.Vec3
	if phase > 0 {
		// Inside the transition band the rendered tile sits between its
		// globe and Mercator positions; blending the bounds the same way
		// keeps them tight and continuous across the band.
		mercatorCorners = mercatorTileCornersInCameraSpace(tile, numTiles, view.PixelsPerMercatorPixel, camX, camY)
		for i := range corners {
			corners[i] = core.LerpVec3(corners[i], mercatorCorners[i], phase)
		}
	}

	// Pick the tile edge closest to the camera center using the signed
	// Mercator offset between the two, shortest path across the
	// antimeridian.
	tileCenter := bounds.Center()
	dx := camX - core.MercatorXFromLng(tileCenter.Lon())
	dy := camY - core.MercatorYFromLat(tileCenter.Lat())
	if dx > 0.5 {
		dx -= 1.0
	} else if dx < -0.5 {
		dx += 1.0
	}

	// Meridian edges revolve around the globe center; constant-latitude
	// edges revolve around a center shifted along the polar axis into the
	// edge's plane.
	arcCenter := mgl64.Vec3{m.At(0, 3) * scale, m.At(1, 3) * scale, m.At(2, 3) * scale}
	var closestArcIdx int
	if math.Abs(dx) > math.Abs(dy) {
		if dx >= 0 {
			closestArcIdx = 1 // east
		} else {
			closestArcIdx = 3 // west
		}
	} else {
		var edgeLat float64
		if dy >= 0 {
			closestArcIdx = 2 // south
			edgeLat = bounds.Bottom()
		} else {
			closestArcIdx = 0 // north
			edgeLat = bounds.Top()
		}
		shift := -math.Sin(core.DegToRad(edgeLat)) * core.GlobeRadius
		yAxis := mgl64.Vec3{m.At(0, 1) * scale, m.At(1, 1) * scale, m.At(2, 1) * scale}
		arcCenter = arcCenter.Add(yAxis.Mul(shift))
	}

	arcStart := corners[closestArcIdx]
	arcEnd := corners[(closestArcIdx+1)%4]
	closestArc := core.NewArc(arcStart, arcEnd, arcCenter)

	arcExtremum := arcStart
	for axis := 0; axis < 3; axis++ {
		if v, ok := core.LocalExtremum(closestArc, axis); ok {
			arcExtremum[axis] = v
		}
	}

	if phase > 0 {
		// The flat stand-in for the curved extremum is the edge midpoint.
		mid := mercatorCorners[closestArcIdx].
			Add(mercatorCorners[(closestArcIdx+1)%4]).Mul(0.5)
		arcExtremum = core.LerpVec3(arcExtremum, mid, phase)
	}

	box := core.AabbFromPoints(corners)

	// Cap the box height at the closest edge so distant tiles do not reach
	// into the far end of the view frustum.
	box.Min[2] = math.Min(arcStart.Z(), arcEnd.Z())

	return box.Extend(arcExtremum)
}

// wrappedCenter returns the camera center with its longitude normalized
// into [-180, 180] for containment tests against tile rectangles.
func wrappedCenter(view *ViewState) orb.Point {
	lng := math.Mod(view.Center.Lon()+180.0, 360.0)
	if lng < 0 {
		lng += 360.0
	}
	return orb.Point{lng - 180.0, view.Center.Lat()}
}

// boundsToECEF converts a tile's geographic rectangle to its four corner
// points on the sphere, ordered NW, NE, SE, SW.
func boundsToECEF(b orb.Bound, radius float64) [4]mgl64.Vec3 {
	north := core.DegToRad(b.Top())
	south := core.DegToRad(b.Bottom())
	cosN, sinN := math.Cos(north), math.Sin(north)
	cosS, sinS := math.Cos(south), math.Sin(south)
	west, east := b.Left(), b.Right()
	return [4]mgl64.Vec3{
		core.CSLatLngToECEF(cosN, sinN, west, radius),
		core.CSLatLngToECEF(cosN, sinN, east, radius),
		core.CSLatLngToECEF(cosS, sinS, east, radius),
		core.CSLatLngToECEF(cosS, sinS, west, radius),
	}
}

// mercatorTileCornersInCameraSpace projects the tile's flat rectangle into
// camera-centered tile units on the plane tangent to the globe at the
// camera center, matching the corner order of boundsToECEF.
func mercatorTileCornersInCameraSpace(tile maptile.Tile, numTiles, mercatorScale, camX, camY float64) [4]mgl64.Vec3 {
	tileScale := 1.0 / float64(uint32(1)<<tile.Z)
	w := float64(tile.X) * tileScale
	e := w + tileScale
	n := float64(tile.Y) * tileScale
	s := n + tileScale

	// View the nearest copy of the tile when across the antimeridian.
	wrap := 0.0
	tileCenterFromCamera := (w+e)/2.0 - camX
	if tileCenterFromCamera > 0.5 {
		wrap = -1.0
	} else if tileCenterFromCamera < -0.5 {
		wrap = 1.0
	}

	camX *= numTiles
	camY *= numTiles

	w = ((w+wrap)*numTiles-camX)*mercatorScale + camX
	e = ((e+wrap)*numTiles-camX)*mercatorScale + camX
	n = (n*numTiles-camY)*mercatorScale + camY
	s = (s*numTiles-camY)*mercatorScale + camY

	return [4]mgl64.Vec3{
		{w, n, 0},
		{e, n, 0},
		{e, s, 0},
		{w, s, 0},
	}
}

func transformPoints(points []mgl64.Vec3, m mgl64.Mat4, scale float64) {
	for i, p := range points {
		points[i] = mgl64.TransformCoordinate(p, m).Mul(scale)
	}
}
