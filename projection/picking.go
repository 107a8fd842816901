package projection

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"

	"tileglobe/core"
)

// Surface points up to 1% past the exact horizon still count as visible so
// screen-space overlays anchored near the silhouette do not flicker.
const horizonSlack = 1.01

// PickPointOnGlobe unprojects a screen pixel onto the globe and returns the
// picked position as a normalized Mercator coordinate. When the ray misses
// the sphere the result depends on clampToHorizon: false reports no pick,
// true bends the ray onto the horizon circle and picks the silhouette point
// instead.
func PickPointOnGlobe(view *ViewState, x, y float64, clampToHorizon bool) (orb.Point, bool) {
	p0 := mgl64.TransformCoordinate(mgl64.Vec3{x, y, 0}, view.PixelMatrixInverse)
	p1 := mgl64.TransformCoordinate(mgl64.Vec3{x, y, 1}, view.PixelMatrixInverse)
	dir := p1.Sub(p0).Normalize()

	m := view.GlobeMatrix
	globeCenter := mgl64.Vec3{m.At(0, 3), m.At(1, 3), m.At(2, 3)}
	toCenter := globeCenter.Sub(p0)
	toCenterDist := toCenter.Len()
	centerDir := toCenter.Mul(1.0 / toCenterDist)
	radius := view.WorldSize / (2.0 * math.Pi)
	cosAngle := centerDir.Dot(dir)

	tangentAngle := math.Asin(radius / toCenterDist)
	dirAngle := math.Acos(core.Clamp(cosAngle, -1.0, 1.0))

	if tangentAngle < dirAngle {
		if !clampToHorizon {
			return orb.Point{}, false
		}

		// Clamp the ray to the tangent cone: extend it to the tangent
		// plane, then rebuild the direction from the center vector and the
		// in-plane offset scaled to the tangent length. The corrected ray
		// grazes the sphere at the horizon.
		clamped := dir.Mul(toCenterDist / cosAngle)
		toClamped := clamped.Sub(toCenter).Normalize()
		dir = toCenter.Add(toClamped.Mul(math.Tan(tangentAngle) * toCenterDist)).Normalize()
	}

	ray := core.Ray{Origin: p0, Dir: dir}
	pointOnGlobe, _ := ray.ClosestPointOnSphere(globeCenter, radius)

	// Resolve lat/lng against the globe's orientation axes.
	xa := mgl64.Vec3{m.At(0, 0), m.At(1, 0), m.At(2, 0)}.Normalize()
	ya := mgl64.Vec3{m.At(0, 1), m.At(1, 1), m.At(2, 1)}.Normalize()
	za := mgl64.Vec3{m.At(0, 2), m.At(1, 2), m.At(2, 2)}.Normalize()

	lat := core.RadToDeg(math.Asin(-ya.Dot(pointOnGlobe) / radius))
	lng := core.RadToDeg(math.Atan2(xa.Dot(pointOnGlobe), za.Dot(pointOnGlobe)))

	// Keep the longitude on the same winding as the camera center instead
	// of wrapping it back into [-180, 180].
	lng = view.Center.Lon() + core.ShortestAngleDeg(view.Center.Lon(), lng)

	mx := core.MercatorXFromLng(lng)
	my := core.MercatorYFromLat(core.Clamp(lat, -core.MaxMercatorLatitude, core.MaxMercatorLatitude))
	return orb.Point{mx, my}, true
}

// TiltAngleAt returns the angle between the sphere's outward normal at the
// geographic point and the direction from that point to the camera, in
// radians. Zero means the camera looks straight down at the point.
func TiltAngleAt(view *ViewState, lngLat orb.Point) float64 {
	pos := core.LatLngToECEF(lngLat.Lat(), lngLat.Lon(), core.GlobeRadius)
	normal := pos.Normalize()
	camera := mgl64.TransformCoordinate(view.CameraWorldPosition, view.GlobeMatrix.Inv())
	toCamera := camera.Sub(pos).Normalize()
	return math.Acos(core.Clamp(normal.Dot(toCamera), -1.0, 1.0))
}

// IsBehindGlobe reports whether the geographic point is on the far side of
// the horizon as seen by the camera.
func IsBehindGlobe(view *ViewState, lngLat orb.Point) bool {
	return TiltAngleAt(view, lngLat) > math.Pi/2.0*horizonSlack
}
