package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb/maptile"

	"tileglobe/core"
	"tileglobe/projection"
	"tileglobe/rendering"
)

const gridVertexShader = `
#version 410 core

in vec2 a_grid_pos;

uniform mat4 u_matrix;
uniform float u_grid_size;
uniform vec3 u_tile; // x, y, zoom

out vec2 v_uv;
out vec3 v_normal;

const float PI = 3.141592653589793;
const float GLOBE_RADIUS = 81.48733086305042; // 512 / (2*pi)

void main() {
    v_uv = a_grid_pos / u_grid_size;

    float tiles = pow(2.0, u_tile.z);
    float mx = (u_tile.x + v_uv.x) / tiles;
    float my = (u_tile.y + v_uv.y) / tiles;

    float lat = 2.0 * atan(exp(PI * (1.0 - 2.0 * my))) - PI * 0.5;
    float lng = mx * 2.0 * PI - PI;

    vec3 ecef = vec3(
        cos(lat) * sin(lng),
        -sin(lat),
        cos(lat) * cos(lng));

    v_normal = ecef;
    gl_Position = u_matrix * vec4(ecef * GLOBE_RADIUS, 1.0);
}
`

const gridFragmentShader = `
#version 410 core

in vec2 v_uv;
in vec3 v_normal;

uniform vec4 u_color;

out vec4 outColor;

const vec3 LIGHT_DIR = normalize(vec3(0.4, -0.6, 0.7));

void main() {
    float diffuse = max(dot(normalize(v_normal), LIGHT_DIR), 0.0);
    vec3 shaded = u_color.rgb * (0.35 + 0.65 * diffuse);
    outColor = vec4(shaded, u_color.a);
}
`

const poleVertexShader = `
#version 410 core

in vec3 a_pos;
in vec2 a_uv;

uniform mat4 u_matrix;

out vec2 v_uv;
out vec3 v_normal;

void main() {
    v_uv = a_uv;
    v_normal = normalize(a_pos);
    gl_Position = u_matrix * vec4(a_pos, 1.0);
}
`

// GlobeRenderer draws tile grids and pole caps with the shared mesh buffers.
type GlobeRenderer struct {
	ctx     Context
	buffers *rendering.SharedBuffers
	config  rendering.MeshConfig

	gridProgram uint32
	poleProgram uint32
	vao         uint32

	gridMatrixLoc int32
	gridSizeLoc   int32
	gridTileLoc   int32
	gridColorLoc  int32
	poleMatrixLoc int32
	poleColorLoc  int32

	Wireframe bool
}

// NewGlobeRenderer compiles the globe shaders and uploads the shared mesh.
// Must be called with a current GL context.
func NewGlobeRenderer(config rendering.MeshConfig) (*GlobeRenderer, error) {
	r := &GlobeRenderer{config: config}

	var err error
	r.gridProgram, err = linkProgram(gridVertexShader, gridFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to build grid program: %v", err)
	}
	r.poleProgram, err = linkProgram(poleVertexShader, gridFragmentShader)
	if err != nil {
		gl.DeleteProgram(r.gridProgram)
		return nil, fmt.Errorf("failed to build pole program: %v", err)
	}

	r.gridMatrixLoc = gl.GetUniformLocation(r.gridProgram, gl.Str("u_matrix\x00"))
	r.gridSizeLoc = gl.GetUniformLocation(r.gridProgram, gl.Str("u_grid_size\x00"))
	r.gridTileLoc = gl.GetUniformLocation(r.gridProgram, gl.Str("u_tile\x00"))
	r.gridColorLoc = gl.GetUniformLocation(r.gridProgram, gl.Str("u_color\x00"))
	r.poleMatrixLoc = gl.GetUniformLocation(r.poleProgram, gl.Str("u_matrix\x00"))
	r.poleColorLoc = gl.GetUniformLocation(r.poleProgram, gl.Str("u_color\x00"))

	gl.GenVertexArrays(1, &r.vao)

	r.buffers, err = rendering.NewSharedBuffers(r.ctx, config)
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("failed to create globe mesh: %v", err)
	}
	return r, nil
}

// DrawTile renders one tile's grid patch with a latitude-selected LOD.
func (r *GlobeRenderer) DrawTile(view *projection.ViewState, tile maptile.Tile, color mgl32.Vec4) error {
	centerLat := core.LatFromMercatorY((float64(tile.Y) + 0.5) / float64(uint32(1)<<tile.Z))
	lod := rendering.LatitudinalLOD(centerLat, r.config.LODCount())

	matrix := view.WorldToClip.Mul4(view.GlobeMatrix)

	gl.UseProgram(r.gridProgram)
	gl.BindVertexArray(r.vao)

	m := mat4ToF32(matrix)
	gl.UniformMatrix4fv(r.gridMatrixLoc, 1, false, &m[0])
	gl.Uniform1f(r.gridSizeLoc, float32(r.config.GridSize))
	gl.Uniform3f(r.gridTileLoc, float32(tile.X), float32(tile.Y), float32(tile.Z))
	gl.Uniform4f(r.gridColorLoc, color[0], color[1], color[2], color[3])

	var (
		vb  rendering.VertexBuffer
		ib  rendering.IndexBuffer
		seg rendering.Segment
	)
	if r.Wireframe {
		var err error
		vb, ib, seg, err = r.buffers.WireframeBuffers(r.ctx, lod)
		if err != nil {
			return err
		}
	} else {
		vb, ib, seg = r.buffers.GridBuffers(lod)
	}

	bindGridAttributes(vb)
	gib := ib.(*indexBuffer)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gib.id)

	mode := uint32(gl.TRIANGLES)
	count := int32(seg.PrimitiveCount * 3)
	offset := seg.PrimitiveOffset * 3
	if !gib.triangles {
		mode = gl.LINES
		count = int32(seg.PrimitiveCount * 2)
		offset = seg.PrimitiveOffset * 2
	}
	gl.DrawElementsWithOffset(mode, count, gl.UNSIGNED_INT, uintptr(offset*4))

	gl.BindVertexArray(0)
	return nil
}

// DrawPoles renders the north and south cap fans for the given zoom. The
// caps cover every tile column, so one call per frame suffices.
func (r *GlobeRenderer) DrawPoles(view *projection.ViewState, zoom maptile.Zoom, color mgl32.Vec4) {
	if int(zoom) >= r.config.PoleZoomLevels {
		return
	}
	north, south, idx, seg := r.buffers.PoleBuffers(int(zoom))

	gl.UseProgram(r.poleProgram)
	gl.BindVertexArray(r.vao)
	gl.Uniform4f(r.poleColorLoc, color[0], color[1], color[2], color[3])

	gib := idx.(*indexBuffer)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gib.id)

	numTiles := uint32(1) << zoom
	for x := uint32(0); x < numTiles; x++ {
		matrix := view.WorldToClip.Mul4(projection.PoleMatrix(view, zoom, x))
		m := mat4ToF32(matrix)
		gl.UniformMatrix4fv(r.poleMatrixLoc, 1, false, &m[0])

		for _, vb := range []rendering.VertexBuffer{north, south} {
			bindPoleAttributes(vb, seg.VertexOffset)
			gl.DrawElementsWithOffset(gl.TRIANGLES,
				int32(seg.PrimitiveCount*3), gl.UNSIGNED_INT,
				uintptr(seg.PrimitiveOffset*3*4))
		}
	}
	gl.BindVertexArray(0)
}

// Destroy releases all GL resources. Safe to call more than once.
func (r *GlobeRenderer) Destroy() {
	if r.buffers != nil {
		r.buffers.Destroy()
		r.buffers = nil
	}
	if r.gridProgram != 0 {
		gl.DeleteProgram(r.gridProgram)
		r.gridProgram = 0
	}
	if r.poleProgram != 0 {
		gl.DeleteProgram(r.poleProgram)
		r.poleProgram = 0
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
}

func bindGridAttributes(vb rendering.VertexBuffer) {
	b := vb.(*vertexBuffer)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.id)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, int32(b.layout.Stride()*4), 0)
	gl.DisableVertexAttribArray(1)
}

// bindPoleAttributes points the cap attributes at one fan inside the packed
// per-zoom buffer; vertexOffset selects the fan without a base-vertex draw.
func bindPoleAttributes(vb rendering.VertexBuffer, vertexOffset int) {
	b := vb.(*vertexBuffer)
	stride := b.layout.Stride() * 4
	base := uintptr(vertexOffset * stride)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.id)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(stride), base)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, int32(stride), base+3*4)
}

func mat4ToF32(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i := 0; i < 16; i++ {
		out[i] = float32(m[i])
	}
	return out
}
