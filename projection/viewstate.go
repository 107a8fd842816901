// Package projection computes the geometry needed to render a globe inside
// a tiled map renderer: per-tile bounding volumes for culling, placement and
// quantization matrices for the GPU, and screen-to-globe picking.
package projection

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"

	"tileglobe/core"
)

// fov chosen so the camera-to-center distance is 1.5 screen heights.
const cameraFOV = 0.6435011087932844

// ViewState is a read-only snapshot of the camera for one frame. All
// per-frame functions in this package are pure over it; it is produced and
// mutated only by the owning view controller.
type ViewState struct {
	Center  orb.Point // lng, lat in degrees
	Zoom    float64
	Pitch   float64 // radians
	Bearing float64 // radians

	Width, Height float64

	// WorldSize is the map circumference in pixels at the current zoom.
	WorldSize float64

	// PixelsPerMercatorPixel compensates the Mercator latitude stretch that
	// the globe projection does not have; 1.0 once fully transitioned.
	PixelsPerMercatorPixel float64

	// WorldToClip projects world pixels into clip space.
	WorldToClip mgl64.Mat4

	// PixelMatrixInverse unprojects screen pixels (with z in NDC depth)
	// back into world space.
	PixelMatrixInverse mgl64.Mat4

	// CameraWorldPosition is the camera eye point in world pixels.
	CameraWorldPosition mgl64.Vec3

	// GlobeMatrix places the reference sphere into world space. Computed
	// once per frame via CalculateGlobeMatrix.
	GlobeMatrix mgl64.Mat4
}

// Point returns the camera center position in world pixels.
func (v *ViewState) Point() mgl64.Vec2 {
	return mgl64.Vec2{
		core.MercatorXFromLng(v.Center.Lon()) * v.WorldSize,
		core.MercatorYFromLat(v.Center.Lat()) * v.WorldSize,
	}
}

// NewViewState derives a full camera snapshot from the primary parameters.
// Pitch and bearing are taken in degrees.
func NewViewState(width, height int, center orb.Point, zoom, pitch, bearing float64) *ViewState {
	v := &ViewState{
		Center:  center,
		Zoom:    zoom,
		Pitch:   core.DegToRad(pitch),
		Bearing: core.DegToRad(bearing),
		Width:   float64(width),
		Height:  float64(height),
	}
	v.WorldSize = core.TileExtent * math.Pow(2, zoom)
	v.PixelsPerMercatorPixel = core.Lerp(
		math.Cos(core.DegToRad(center.Lat())), 1.0, TransitionFactor(zoom))

	p := v.Point()
	cameraToCenter := 0.5 / math.Tan(cameraFOV/2.0) * v.Height

	// World-to-camera. The bearing spins the world around the center before
	// the pitch tilts it away from the viewer.
	view := mgl64.Translate3D(0, 0, -cameraToCenter)
	view = view.Mul4(mgl64.HomogRotate3DX(v.Pitch))
	view = view.Mul4(mgl64.HomogRotate3DZ(-v.Bearing))
	view = view.Mul4(mgl64.Translate3D(-p.X(), -p.Y(), 0))

	v.CameraWorldPosition = mgl64.TransformCoordinate(mgl64.Vec3{}, view.Inv())

	nearZ := v.Height / 50.0
	farZ := cameraToCenter * 50.0
	proj := mgl64.Perspective(cameraFOV, v.Width/v.Height, nearZ, farZ)
	// World y grows southward; flip it for clip space.
	clip := proj.Mul4(mgl64.Scale3D(1, -1, 1)).Mul4(view)
	v.WorldToClip = clip

	pixel := mgl64.Scale3D(v.Width/2.0, -v.Height/2.0, 1)
	pixel = pixel.Mul4(mgl64.Translate3D(1, -1, 0))
	pixel = pixel.Mul4(clip)
	v.PixelMatrixInverse = pixel.Inv()

	v.GlobeMatrix = CalculateGlobeMatrix(v)
	return v
}
