package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	"tileglobe/config"
	"tileglobe/core"
	"tileglobe/projection"
	"tileglobe/rendering"
	"tileglobe/rendering/opengl"
)

// maxTileZoom caps the drawn tile pyramid; past the globe transition the
// camera is close enough that deeper zooms stay culled to a handful anyway.
const maxTileZoom = 7

type app struct {
	window   *glfw.Window
	renderer *opengl.GlobeRenderer
	stats    *statsServer

	width, height int

	lat, lng float64
	zoom     float64
	pitch    float64 // degrees
	bearing  float64 // degrees

	dragging   bool
	tilting    bool
	lastMouseX float64
	lastMouseY float64
	mouseMoved bool

	pickedLat float64
	pickedLng float64
	hasPick   bool
}

func main() {
	runtime.LockOSThread()

	var (
		settingsPath = flag.String("settings", "settings.json", "Path to settings file")
		wireframe    = flag.Bool("wireframe", false, "Draw tile grids as wireframes")
	)
	flag.Parse()

	settings, err := config.Load(*settingsPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	a, err := newApp(settings)
	if err != nil {
		log.Fatalf("Failed to start viewer: %v", err)
	}
	defer a.destroy()
	a.renderer.Wireframe = *wireframe

	go a.stats.run(settings.Server.Port,
		time.Duration(settings.Server.UpdateIntervalMs)*time.Millisecond)

	fmt.Println("Controls:")
	fmt.Println("  Left drag: pan")
	fmt.Println("  Right drag: pitch and bearing")
	fmt.Println("  Scroll: zoom")
	fmt.Println("  Click: report picked coordinate")
	fmt.Println("  W: toggle wireframe")
	fmt.Println("  ESC: exit")

	a.run()
}

func newApp(settings config.Settings) (*app, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %v", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(settings.Window.Width, settings.Window.Height, "Globe Viewer", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %v", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %v", err)
	}
	fmt.Println("OpenGL version:", gl.GoStr(gl.GetString(gl.VERSION)))

	meshConfig := rendering.DefaultMeshConfig()
	if settings.Globe.GridSize > 0 {
		meshConfig.GridSize = settings.Globe.GridSize
	}
	if settings.Globe.PoleZoomLevels > 0 {
		meshConfig.PoleZoomLevels = settings.Globe.PoleZoomLevels
	}

	renderer, err := opengl.NewGlobeRenderer(meshConfig)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}

	a := &app{
		window:   window,
		renderer: renderer,
		stats:    newStatsServer(),
		width:    settings.Window.Width,
		height:   settings.Window.Height,
		lat:      settings.Globe.StartLat,
		lng:      settings.Globe.StartLng,
		zoom:     settings.Globe.StartZoom,
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0.05, 0.05, 0.1, 1.0)

	window.SetSizeCallback(func(w *glfw.Window, width, height int) {
		a.width, a.height = width, height
	})
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		a.onKey(key, action)
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		a.zoom = core.Clamp(a.zoom+yoff*0.25, 0, 18)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		a.onMouseButton(button, action)
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		a.onMouseMove(xpos, ypos)
	})

	return a, nil
}

func (a *app) onKey(key glfw.Key, action glfw.Action) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyEscape:
		a.window.SetShouldClose(true)
	case glfw.KeyW:
		a.renderer.Wireframe = !a.renderer.Wireframe
	}
}

func (a *app) onMouseButton(button glfw.MouseButton, action glfw.Action) {
	switch button {
	case glfw.MouseButtonLeft:
		if action == glfw.Press {
			a.dragging = true
			a.mouseMoved = false
			a.lastMouseX, a.lastMouseY = a.window.GetCursorPos()
		} else if action == glfw.Release {
			a.dragging = false
			if !a.mouseMoved {
				x, y := a.window.GetCursorPos()
				a.pick(x, y)
			}
		}
	case glfw.MouseButtonRight:
		if action == glfw.Press {
			a.tilting = true
			a.lastMouseX, a.lastMouseY = a.window.GetCursorPos()
		} else if action == glfw.Release {
			a.tilting = false
		}
	}
}

func (a *app) onMouseMove(x, y float64) {
	dx := x - a.lastMouseX
	dy := y - a.lastMouseY
	if dx != 0 || dy != 0 {
		a.mouseMoved = true
	}
	switch {
	case a.dragging:
		// Degrees per pixel at the current zoom.
		degPerPixel := 360.0 / (core.TileExtent * math.Pow(2, a.zoom))
		a.lng -= dx * degPerPixel
		a.lat = core.Clamp(a.lat+dy*degPerPixel,
			-core.MaxMercatorLatitude, core.MaxMercatorLatitude)
		if a.lng < -180 {
			a.lng += 360
		} else if a.lng >= 180 {
			a.lng -= 360
		}
	case a.tilting:
		a.bearing += dx * 0.3
		a.pitch = core.Clamp(a.pitch+dy*0.3, 0, 80)
	default:
		return
	}
	a.lastMouseX, a.lastMouseY = x, y
}

func (a *app) pick(x, y float64) {
	view := a.viewState()
	merc, ok := projection.PickPointOnGlobe(view, x, y, true)
	if !ok {
		fmt.Printf("Pick (%.0f, %.0f): off the globe\n", x, y)
		a.hasPick = false
		return
	}
	a.pickedLng = core.LngFromMercatorX(merc.X())
	a.pickedLat = core.LatFromMercatorY(merc.Y())
	a.hasPick = true
	fmt.Printf("Pick (%.0f, %.0f): lat %.5f lng %.5f\n", x, y, a.pickedLat, a.pickedLng)
}

func (a *app) viewState() *projection.ViewState {
	return projection.NewViewState(a.width, a.height,
		orb.Point{a.lng, a.lat}, a.zoom, a.pitch, a.bearing)
}

func (a *app) run() {
	frameCount := 0
	lastFPSTime := time.Now()
	fps := 0.0

	for !a.window.ShouldClose() {
		glfw.PollEvents()
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		view := a.viewState()
		drawn, total := a.drawGlobe(view)

		a.window.SwapBuffers()

		frameCount++
		if elapsed := time.Since(lastFPSTime).Seconds(); elapsed >= 1.0 {
			fps = float64(frameCount) / elapsed
			frameCount = 0
			lastFPSTime = time.Now()
		}
		a.stats.publish(FrameStats{
			Lat:        a.lat,
			Lng:        a.lng,
			Zoom:       a.zoom,
			Pitch:      a.pitch,
			Bearing:    a.bearing,
			Transition: projection.TransitionFactor(a.zoom),
			TilesDrawn: drawn,
			TilesTotal: total,
			FPS:        fps,
			PickedLat:  a.pickedLat,
			PickedLng:  a.pickedLng,
			HasPick:    a.hasPick,
		})
	}
}

// drawGlobe renders every visible tile of the zoom-appropriate pyramid level
// and returns the drawn and candidate tile counts.
func (a *app) drawGlobe(view *projection.ViewState) (drawn, total int) {
	tileZoom := maptile.Zoom(core.Clamp(math.Floor(a.zoom), 0, maxTileZoom))
	numTiles := uint32(1) << tileZoom
	f := newFrustum(view, float64(numTiles))

	for y := uint32(0); y < numTiles; y++ {
		for x := uint32(0); x < numTiles; x++ {
			total++
			tile := maptile.New(x, y, tileZoom)
			box := projection.TileAABB(view, float64(numTiles), tile)
			if !f.intersects(box) {
				continue
			}
			if err := a.renderer.DrawTile(view, tile, tileColor(x, y)); err != nil {
				log.Printf("draw tile %d/%d/%d: %v", tileZoom, x, y, err)
				continue
			}
			drawn++
		}
	}

	a.renderer.DrawPoles(view, tileZoom, mgl32.Vec4{0.85, 0.88, 0.92, 1})
	return drawn, total
}

// tileColor gives neighboring tiles distinct shades so seams are visible.
func tileColor(x, y uint32) mgl32.Vec4 {
	shades := [4]mgl32.Vec4{
		{0.25, 0.55, 0.35, 1},
		{0.30, 0.45, 0.65, 1},
		{0.60, 0.50, 0.30, 1},
		{0.50, 0.35, 0.55, 1},
	}
	return shades[(x%2)+(y%2)*2]
}

func (a *app) destroy() {
	if a.renderer != nil {
		a.renderer.Destroy()
	}
	glfw.Terminate()
}
