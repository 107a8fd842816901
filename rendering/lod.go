package rendering

import (
	"math"

	"tileglobe/core"
	"tileglobe/projection"
)

// MeshConfig tunes the shared globe geometry. The zero value is not usable;
// start from DefaultMeshConfig.
type MeshConfig struct {
	// GridSize is the number of quads per side of the surface grid.
	GridSize int

	// LODDivisors lists the row-count divisors of the latitudinal LOD
	// levels, finest first.
	LODDivisors []int

	// PoleZoomLevels is the number of low zoom levels that get a polar cap
	// fan, zooms [0, PoleZoomLevels).
	PoleZoomLevels int
}

// DefaultMeshConfig matches the tessellation the renderer was tuned with: a
// 64x64 grid with full, half and quarter row density, and pole fans for
// every zoom level below the globe transition.
func DefaultMeshConfig() MeshConfig {
	return MeshConfig{
		GridSize:       64,
		LODDivisors:    []int{1, 2, 4},
		PoleZoomLevels: projection.ZoomThresholdMin,
	}
}

// LODCount returns the number of latitudinal LOD levels.
func (c MeshConfig) LODCount() int {
	return len(c.LODDivisors)
}

// LatitudinalLOD maps a latitude to the LOD level to draw: densest
// tessellation at the equator, coarsest towards the poles. The bias follows
// |sin(lat)| cubed so density falls off late.
func LatitudinalLOD(lat float64, lodCount int) int {
	const upperLatitude = core.MaxMercatorLatitude - 5.0
	normalized := core.Clamp(math.Abs(lat), 0, upperLatitude) / upperLatitude
	t := math.Pow(math.Abs(math.Sin(core.DegToRad(normalized*90.0))), 3.0)
	return int(math.Round(t * float64(lodCount-1)))
}
