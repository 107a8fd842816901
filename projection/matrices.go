package projection

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb/maptile"

	"tileglobe/core"
)

const (
	// ZoomThresholdMin is the zoom at which the globe starts blending
	// towards the flat projection; at ZoomThresholdMax the flat projection
	// is fully engaged.
	ZoomThresholdMin = 5
	ZoomThresholdMax = 6

	// Per-tile vertex positions are quantized into a signed integer range
	// spanning normalizationBitRange bits per axis.
	normalizationBitRange = 15

	// NormalizationMask is the largest quantized magnitude on any axis.
	NormalizationMask = (1 << (normalizationBitRange - 1)) - 1
)

// TransitionFactor returns the globe-to-Mercator blend factor for a zoom
// level: 0 with the globe fully engaged, 1 once the flat projection has
// taken over, smoothly ramped in between.
func TransitionFactor(zoom float64) float64 {
	return core.Smoothstep(ZoomThresholdMin, ZoomThresholdMax, zoom)
}

// CalculateGlobeMatrix places the reference sphere into world space for the
// current camera. The globe center sits one world radius below the map
// plane so the surface touches the plane at the camera center.
func CalculateGlobeMatrix(view *ViewState) mgl64.Mat4 {
	p := view.Point()
	return globeMatrix(view.WorldSize, p, view.Center.Lat(), view.Center.Lon())
}

func globeMatrix(worldSize float64, offset mgl64.Vec2, lat, lng float64) mgl64.Mat4 {
	wsRadius := worldSize / (2.0 * math.Pi)
	scale := wsRadius / core.GlobeRadius

	// Latitude tilt happens in the globe's own frame, before the longitude
	// spin; the order is load-bearing.
	m := mgl64.Translate3D(offset.X(), offset.Y(), -wsRadius)
	m = m.Mul4(mgl64.Scale3D(scale, scale, scale))
	m = m.Mul4(mgl64.HomogRotate3DX(core.DegToRad(-lat)))
	m = m.Mul4(mgl64.HomogRotate3DY(core.DegToRad(-lng)))
	return m
}

// NormalizeECEF maps points inside the bounding box into the quantization
// range: translate to the box origin, then scale so the longest axis spans
// the integer range.
func NormalizeECEF(b core.Aabb) mgl64.Mat4 {
	st := normalizationScale(b)
	m := mgl64.Scale3D(st, st, st)
	return m.Mul4(mgl64.Translate3D(-b.Min.X(), -b.Min.Y(), -b.Min.Z()))
}

// DenormalizeECEF is the exact inverse of NormalizeECEF for the same box.
func DenormalizeECEF(b core.Aabb) mgl64.Mat4 {
	st := 1.0 / normalizationScale(b)
	m := mgl64.Translate3D(b.Min.X(), b.Min.Y(), b.Min.Z())
	return m.Mul4(mgl64.Scale3D(st, st, st))
}

func normalizationScale(b core.Aabb) float64 {
	maxExt := math.Max(b.Max.X()-b.Min.X(), math.Max(b.Max.Y()-b.Min.Y(), b.Max.Z()-b.Min.Z()))
	return NormalizationMask / maxExt
}

// TileMatrix composes the globe placement with the tile's denormalization,
// producing the model matrix for quantized per-tile vertex data.
func TileMatrix(view *ViewState, tile maptile.Tile) mgl64.Mat4 {
	return view.GlobeMatrix.Mul4(DenormalizeECEF(TileBounds(tile)))
}

// LabelSpaceMatrix returns the transform for map-aligned symbol placement on
// the globe. The world size is compensated by the Mercator pixel ratio so
// labels keep their apparent size near the poles, and the globe is left
// unrotated: label space is the globe's own frame.
func LabelSpaceMatrix(view *ViewState, tile maptile.Tile) mgl64.Mat4 {
	p := view.Point()
	m := globeMatrix(view.WorldSize/view.PixelsPerMercatorPixel, p, 0, 0)
	return m.Mul4(DenormalizeECEF(TileBounds(tile)))
}

// FlatProjectionMatrix returns the ordinary Mercator-pixel placement matrix
// used after the transition and as the blend target during it. Inputs are
// normalized Mercator offsets from the camera center, with z in meters.
func FlatProjectionMatrix(view *ViewState) mgl64.Mat4 {
	p := view.Point()
	zScale := core.MercatorZFromAltitude(1.0, view.Center.Lat()) * view.WorldSize
	m := mgl64.Translate3D(p.X(), p.Y(), 0)
	return m.Mul4(mgl64.Scale3D(view.WorldSize, view.WorldSize, zScale))
}

// PoleMatrix places a polar cap fan for one tile column at a low zoom
// level: the shared fan geometry is spun to the tile's longitude.
func PoleMatrix(view *ViewState, z maptile.Zoom, x uint32) mgl64.Mat4 {
	numTiles := float64(uint32(1) << z)
	xOffset := (float64(x)/numTiles - 0.5) * 2.0 * math.Pi
	return view.GlobeMatrix.Mul4(mgl64.HomogRotate3DY(xOffset))
}
