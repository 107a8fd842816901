package rendering

import (
	"fmt"
	"math"

	"tileglobe/core"
)

// SharedBuffers owns the GPU geometry shared by every globe tile: the
// surface grid with its per-LOD draw segments, the two polar cap fans with
// one segment per low zoom level, and a lazily built wireframe variant.
// Created once when the globe projection is engaged for a context,
// destroyed exactly once at teardown.
type SharedBuffers struct {
	cfg MeshConfig

	gridVertexBuffer VertexBuffer
	gridIndexBuffer  IndexBuffer
	gridSegments     []Segment

	poleNorthVertexBuffer VertexBuffer
	poleSouthVertexBuffer VertexBuffer
	poleIndexBuffer       IndexBuffer
	poleSegments          []Segment

	wireframeIndexBuffer IndexBuffer
	wireframeSegments    []Segment
}

// NewSharedBuffers uploads the shared globe geometry. On any creation
// failure the buffers uploaded so far are released and the error is
// surfaced; the projection cannot render without its meshes.
func NewSharedBuffers(ctx Context, cfg MeshConfig) (*SharedBuffers, error) {
	sb := &SharedBuffers{cfg: cfg}
	if err := sb.createGrid(ctx); err != nil {
		sb.Destroy()
		return nil, fmt.Errorf("failed to create globe grid mesh: %v", err)
	}
	if err := sb.createPoles(ctx); err != nil {
		sb.Destroy()
		return nil, fmt.Errorf("failed to create pole meshes: %v", err)
	}
	return sb, nil
}

func (sb *SharedBuffers) createGrid(ctx Context) error {
	quadExt := sb.cfg.GridSize
	vertexExt := quadExt + 1

	vertices := make([]float32, 0, vertexExt*vertexExt*2)
	for j := 0; j < vertexExt; j++ {
		for i := 0; i < vertexExt; i++ {
			vertices = append(vertices, float32(i), float32(j))
		}
	}

	// One index section per LOD level, all in the same buffer. Coarser
	// levels stride over the vertex rows so every level still spans the
	// full tile, just with fewer quad rows.
	var indices []uint32
	sb.gridSegments = make([]Segment, 0, len(sb.cfg.LODDivisors))
	primOffset := 0
	for _, div := range sb.cfg.LODDivisors {
		rows := quadExt / div
		for j := 0; j < rows; j++ {
			top := j * div * vertexExt
			bottom := (j + 1) * div * vertexExt
			for i := 0; i < quadExt; i++ {
				tl := uint32(top + i)
				bl := uint32(bottom + i)
				indices = append(indices,
					tl+1, tl, bl,
					bl, bl+1, tl+1)
			}
		}
		count := rows * quadExt * 2
		sb.gridSegments = append(sb.gridSegments, Segment{
			VertexOffset:    0,
			VertexCount:     vertexExt * vertexExt,
			PrimitiveOffset: primOffset,
			PrimitiveCount:  count,
		})
		primOffset += count
	}

	var err error
	if sb.gridVertexBuffer, err = ctx.CreateVertexBuffer(vertices, GridVertexLayout); err != nil {
		return err
	}
	sb.gridIndexBuffer, err = ctx.CreateIndexBuffer(indices, true)
	return err
}

func (sb *SharedBuffers) createPoles(ctx Context) error {
	gridSize := sb.cfg.GridSize

	// One shared fan pattern: vertex 0 is the pole tip, 1..gridSize+1 the
	// ring along the Mercator boundary latitude.
	indices := make([]uint32, 0, gridSize*3)
	for i := 0; i < gridSize; i++ {
		indices = append(indices, 0, uint32(i+1), uint32(i+2))
	}

	fanVertices := gridSize + 2
	stride := PoleVertexLayout.Stride()
	north := make([]float32, 0, sb.cfg.PoleZoomLevels*fanVertices*stride)
	south := make([]float32, 0, sb.cfg.PoleZoomLevels*fanVertices*stride)
	sb.poleSegments = make([]Segment, 0, sb.cfg.PoleZoomLevels)

	offset := 0
	for zoom := 0; zoom < sb.cfg.PoleZoomLevels; zoom++ {
		tiles := 1 << zoom
		// One tile's fan only spans its own share of the full turn.
		radius := float64(tiles) * core.TileExtent / (2.0 * math.Pi)
		endAngle := 360.0 / float64(tiles)

		north = append(north, 0, float32(-radius), 0, 0.5, 0)
		south = append(south, 0, float32(radius), 0, 0.5, 1)

		for i := 0; i <= gridSize; i++ {
			uvX := float64(i) / float64(gridSize)
			angle := core.Lerp(0, endAngle, uvX)
			p := core.LatLngToECEF(core.MaxMercatorLatitude, angle, radius)
			north = append(north, float32(p.X()), float32(p.Y()), float32(p.Z()), float32(uvX), 0)
			south = append(south, float32(p.X()), float32(-p.Y()), float32(p.Z()), float32(uvX), 1)
		}

		sb.poleSegments = append(sb.poleSegments, Segment{
			VertexOffset:    offset,
			VertexCount:     fanVertices,
			PrimitiveOffset: 0,
			PrimitiveCount:  gridSize,
		})
		offset += fanVertices
	}

	var err error
	if sb.poleNorthVertexBuffer, err = ctx.CreateVertexBuffer(north, PoleVertexLayout); err != nil {
		return err
	}
	if sb.poleSouthVertexBuffer, err = ctx.CreateVertexBuffer(south, PoleVertexLayout); err != nil {
		return err
	}
	sb.poleIndexBuffer, err = ctx.CreateIndexBuffer(indices, true)
	return err
}

// GridBuffers returns the surface mesh handles and the draw segment for one
// latitudinal LOD level.
func (sb *SharedBuffers) GridBuffers(lod int) (VertexBuffer, IndexBuffer, Segment) {
	return sb.gridVertexBuffer, sb.gridIndexBuffer, sb.gridSegments[lod]
}

// PoleBuffers returns the cap geometry for one low zoom level.
func (sb *SharedBuffers) PoleBuffers(zoom int) (north, south VertexBuffer, idx IndexBuffer, seg Segment) {
	return sb.poleNorthVertexBuffer, sb.poleSouthVertexBuffer, sb.poleIndexBuffer, sb.poleSegments[zoom]
}

// WireframeBuffers returns line geometry over the same grid topology for
// debug rendering, building and caching it on first request.
func (sb *SharedBuffers) WireframeBuffers(ctx Context, lod int) (VertexBuffer, IndexBuffer, Segment, error) {
	if sb.wireframeIndexBuffer == nil {
		quadExt := sb.cfg.GridSize
		vertexExt := quadExt + 1

		// Same per-LOD row striding as the surface grid, three lines per
		// quad.
		var indices []uint32
		sb.wireframeSegments = make([]Segment, 0, len(sb.cfg.LODDivisors))
		primOffset := 0
		for _, div := range sb.cfg.LODDivisors {
			rows := quadExt / div
			for j := 0; j < rows; j++ {
				top := j * div * vertexExt
				bottom := (j + 1) * div * vertexExt
				for i := 0; i < quadExt; i++ {
					tl := uint32(top + i)
					bl := uint32(bottom + i)
					indices = append(indices,
						tl, tl+1,
						tl, bl,
						tl, bl+1)
				}
			}
			count := rows * quadExt * 3
			sb.wireframeSegments = append(sb.wireframeSegments, Segment{
				VertexOffset:    0,
				VertexCount:     vertexExt * vertexExt,
				PrimitiveOffset: primOffset,
				PrimitiveCount:  count,
			})
			primOffset += count
		}

		buf, err := ctx.CreateIndexBuffer(indices, false)
		if err != nil {
			sb.wireframeSegments = nil
			return nil, nil, Segment{}, fmt.Errorf("failed to create wireframe mesh: %v", err)
		}
		sb.wireframeIndexBuffer = buf
	}
	return sb.gridVertexBuffer, sb.wireframeIndexBuffer, sb.wireframeSegments[lod], nil
}

// Destroy releases every owned buffer. Safe to call on a partially built
// value; subsequent calls are no-ops.
func (sb *SharedBuffers) Destroy() {
	if sb.gridVertexBuffer != nil {
		sb.gridVertexBuffer.Destroy()
		sb.gridVertexBuffer = nil
	}
	if sb.gridIndexBuffer != nil {
		sb.gridIndexBuffer.Destroy()
		sb.gridIndexBuffer = nil
	}
	if sb.poleNorthVertexBuffer != nil {
		sb.poleNorthVertexBuffer.Destroy()
		sb.poleNorthVertexBuffer = nil
	}
	if sb.poleSouthVertexBuffer != nil {
		sb.poleSouthVertexBuffer.Destroy()
		sb.poleSouthVertexBuffer = nil
	}
	if sb.poleIndexBuffer != nil {
		sb.poleIndexBuffer.Destroy()
		sb.poleIndexBuffer = nil
	}
	if sb.wireframeIndexBuffer != nil {
		sb.wireframeIndexBuffer.Destroy()
		sb.wireframeIndexBuffer = nil
	}
	sb.gridSegments = nil
	sb.poleSegments = nil
	sb.wireframeSegments = nil
}
