package core

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// The globe is modelled as a sphere in a reference coordinate space where one
// tile spans TileExtent units at zoom 0. Y points towards the south pole,
// Z points towards the camera at lat/lng (0, 0).
const (
	// TileExtent is the side length of a tile in reference units.
	TileExtent = 512.0

	// GlobeRadius is the radius of the reference sphere chosen so that the
	// equator matches the zoom 0 tile perimeter.
	GlobeRadius = TileExtent / (2.0 * math.Pi)

	// MaxMercatorLatitude is the largest latitude representable in the
	// normalized Mercator square, atan(sinh(pi)) in degrees.
	MaxMercatorLatitude = 85.051129

	// EarthRadius is the mean earth radius in meters, used to relate
	// altitude to normalized Mercator z.
	EarthRadius = 6371008.8
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

// MercatorXFromLng maps a longitude to the [0, 1] Mercator range.
func MercatorXFromLng(lng float64) float64 {
	return (180.0 + lng) / 360.0
}

// MercatorYFromLat maps a latitude to the [0, 1] Mercator range. Latitudes
// past MaxMercatorLatitude map outside the unit interval; callers clamp.
func MercatorYFromLat(lat float64) float64 {
	return (180.0 - (180.0/math.Pi)*math.Log(math.Tan(math.Pi/4.0+lat*math.Pi/360.0))) / 360.0
}

// LngFromMercatorX is the inverse of MercatorXFromLng.
func LngFromMercatorX(x float64) float64 {
	return x*360.0 - 180.0
}

// LatFromMercatorY is the inverse of MercatorYFromLat.
func LatFromMercatorY(y float64) float64 {
	y2 := 180.0 - y*360.0
	return 360.0/math.Pi*math.Atan(math.Exp(y2*math.Pi/180.0)) - 90.0
}

// CircumferenceAtLatitude returns the length of the parallel at the given
// latitude in meters.
func CircumferenceAtLatitude(lat float64) float64 {
	return 2.0 * math.Pi * EarthRadius * math.Cos(DegToRad(lat))
}

// MercatorZFromAltitude converts an altitude in meters to normalized
// Mercator z at the given latitude.
func MercatorZFromAltitude(altitude, lat float64) float64 {
	return altitude / CircumferenceAtLatitude(lat)
}

// LatLngToECEF converts a geographic position to a point on the reference
// sphere. Latitude must already be clamped to [-90, 90]; values outside the
// range are a programming error upstream.
func LatLngToECEF(lat, lng, radius float64) mgl64.Vec3 {
	if lat < -90.0 || lat > 90.0 {
		panic(fmt.Sprintf("latitude %v out of range [-90, 90]", lat))
	}
	latRad := DegToRad(lat)
	return CSLatLngToECEF(math.Cos(latRad), math.Sin(latRad), lng, radius)
}

// CSLatLngToECEF is LatLngToECEF with the latitude trigonometry precomputed,
// for callers converting many points that share a latitude.
func CSLatLngToECEF(cosLat, sinLat, lng, radius float64) mgl64.Vec3 {
	lngRad := DegToRad(lng)
	return mgl64.Vec3{
		cosLat * math.Sin(lngRad) * radius,
		-sinLat * radius,
		cosLat * math.Cos(lngRad) * radius,
	}
}

// ECEFToLatLng converts a point on or near the reference sphere back to
// geographic coordinates.
func ECEFToLatLng(p mgl64.Vec3) (lat, lng float64) {
	r := p.Len()
	lat = RadToDeg(math.Asin(-p.Y() / r))
	lng = RadToDeg(math.Atan2(p.X(), p.Z()))
	return lat, lng
}
