// Package librayhost runs the stereo pipeline on top of raylib.
package librayhost

import (
	"fmt"
	"image/color"
	"io/fs"
	"slices"

	"git.terah.dev/imterah/gostereo/libscene"
	"git.terah.dev/imterah/gostereo/libstereo"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	defaultFOV = 45.0
	windowSort = 0
)

// Window configuration.
type Config struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	Fullscreen bool   `yaml:"fullscreen"`
	FPS        int    `yaml:"fps"`
	Resizable  bool   `yaml:"resizable"`
}

type target struct {
	name    string
	sort    int
	window  bool
	texture rl.RenderTexture2D
	regions []libstereo.RegionID
}

type region struct {
	target libstereo.TargetID
	rect   libstereo.Region
	camera libscene.NodeID
	active bool
}

type shader struct {
	program   rl.Shader
	locations map[string]int32
}

// Host owns the raylib window, the scene graph and every GPU resource made through it.
type Host struct {
	graph   *libscene.Graph
	sources fs.FS

	nextID  uint32
	targets map[libstereo.TargetID]*target
	regions map[libstereo.RegionID]*region
	shaders map[libstereo.ShaderID]*shader

	drawables map[libscene.NodeID]func()

	window         libstereo.TargetID
	defaultScene   libstereo.RegionID
	defaultOverlay libstereo.RegionID

	render      libscene.NodeID
	cameraGroup libscene.NodeID
	camera      libscene.NodeID
	render2D    libscene.NodeID
	aspect2D    libscene.NodeID
	camera2D    libscene.NodeID

	Background color.RGBA
}

// Open creates the window. Shader sources are read from sources.
func Open(cfg Config, sources fs.FS) (*Host, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("window size %dx%d is not positive", cfg.Width, cfg.Height)
	}

	if cfg.Resizable {
		rl.SetConfigFlags(rl.FlagWindowResizable)
	}

	rl.InitWindow(int32(cfg.Width), int32(cfg.Height), cfg.Title)

	if !rl.IsWindowReady() {
		return nil, fmt.Errorf("failed to open %dx%d window", cfg.Width, cfg.Height)
	}

	if cfg.FPS > 0 {
		rl.SetTargetFPS(int32(cfg.FPS))
	}

	if cfg.Fullscreen {
		rl.ToggleFullscreen()
	}

	// Escape is handled by the application.
	rl.SetExitKey(rl.KeyNull)

	host := newHost(sources)

	logger.Infof("Opened %dx%d window", cfg.Width, cfg.Height)

	return host, nil
}

func newHost(sources fs.FS) *Host {
	host := &Host{
		graph:      libscene.NewGraph(),
		sources:    sources,
		targets:    map[libstereo.TargetID]*target{},
		regions:    map[libstereo.RegionID]*region{},
		shaders:    map[libstereo.ShaderID]*shader{},
		drawables:  map[libscene.NodeID]func(){},
		Background: color.RGBA{R: 0x20, G: 0x20, B: 0x28, A: 0xFF},
	}

	graph := host.graph

	host.render = graph.NewNode("render")
	host.cameraGroup, _ = graph.NewChild("camera group", host.render)
	host.camera, _ = graph.NewChild("camera", host.cameraGroup)
	graph.Get(host.camera).Lens = &libscene.MatrixLens{}

	host.render2D = graph.NewNode("render2d")
	host.aspect2D, _ = graph.NewChild("aspect2d", host.render2D)
	host.camera2D, _ = graph.NewChild("camera2d", host.render2D)
	graph.Get(host.camera2D).Lens = &libscene.OrthographicLens{FilmSize: mgl32.Vec2{2, 2}, Near: -1000, Far: 1000}

	host.window = libstereo.TargetID(host.id())
	host.targets[host.window] = &target{name: "window", sort: windowSort, window: true}

	full := libstereo.Region{Left: 0, Right: 1, Bottom: 0, Top: 1}
	host.defaultScene, _ = host.MakeDisplayRegion(host.window, full)
	host.defaultOverlay, _ = host.MakeDisplayRegion(host.window, full)
	host.SetRegionCamera(host.defaultScene, host.camera)
	host.SetRegionCamera(host.defaultOverlay, host.camera2D)

	host.updateAspect(1)

	return host
}

func (host *Host) id() uint32 {
	host.nextID++
	return host.nextID
}

// Close releases every GPU resource and closes the window.
func (host *Host) Close() {
	for id := range host.shaders {
		host.UnloadShader(id)
	}

	for id, t := range host.targets {
		if !t.window {
			host.RemoveTarget(id)
		}
	}

	rl.CloseWindow()
}

// ShouldClose reports whether the window was asked to close.
func (host *Host) ShouldClose() bool {
	return rl.WindowShouldClose()
}

// Render is the scene root seen by the default 3D region.
func (host *Host) Render() libscene.NodeID {
	return host.render
}

// CameraGroup carries the default camera; move it to move the viewer.
func (host *Host) CameraGroup() libscene.NodeID {
	return host.cameraGroup
}

// Camera is the window's default 3D camera.
func (host *Host) Camera() libscene.NodeID {
	return host.camera
}

// Aspect2D is the 2D root corrected for the window aspect ratio.
func (host *Host) Aspect2D() libscene.NodeID {
	return host.aspect2D
}

// AttachDrawable draws fn with the node's transform whenever a region sees the node.
func (host *Host) AttachDrawable(node libscene.NodeID, fn func()) {
	host.drawables[node] = fn
}

func (host *Host) DetachDrawable(node libscene.NodeID) {
	delete(host.drawables, node)
}

// Pointer returns the mouse position normalized to [-1,1], +Y up.
func (host *Host) Pointer() (float32, float32, bool) {
	if !rl.IsCursorOnScreen() {
		return 0, 0, false
	}

	pos := rl.GetMousePosition()
	x, y := normalizePointer(pos.X, pos.Y, rl.GetScreenWidth(), rl.GetScreenHeight())

	return x, y, true
}

func normalizePointer(x, y float32, width, height int) (float32, float32) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}

	nx := mgl32.Clamp(x/float32(width)*2-1, -1, 1)
	ny := mgl32.Clamp(1-y/float32(height)*2, -1, 1)

	return nx, ny
}

func (host *Host) Graph() *libscene.Graph {
	return host.graph
}

func (host *Host) Window() libstereo.TargetID {
	return host.window
}

func (host *Host) MakeTextureBuffer(name string, width, height, sort int) (libstereo.TargetID, error) {
	texture := rl.LoadRenderTexture(int32(width), int32(height))

	if !rl.IsRenderTextureValid(texture) {
		return 0, fmt.Errorf("failed to create %dx%d render texture %q", width, height, name)
	}

	rl.SetTextureFilter(texture.Texture, rl.FilterBilinear)

	id := libstereo.TargetID(host.id())
	host.targets[id] = &target{name: name, sort: sort, texture: texture}

	logger.Debugf("Created %dx%d texture buffer %q", width, height, name)

	return id, nil
}

func (host *Host) RemoveTarget(id libstereo.TargetID) {
	t, ok := host.targets[id]

	if !ok || t.window {
		return
	}

	for _, r := range t.regions {
		delete(host.regions, r)
	}

	rl.UnloadRenderTexture(t.texture)
	delete(host.targets, id)

	logger.Debugf("Removed texture buffer %q", t.name)
}

func (host *Host) TargetTexture(id libstereo.TargetID) uint32 {
	if t, ok := host.targets[id]; ok {
		return t.texture.Texture.ID
	}

	return 0
}

func (host *Host) MakeDisplayRegion(id libstereo.TargetID, rect libstereo.Region) (libstereo.RegionID, error) {
	t, ok := host.targets[id]

	if !ok {
		return 0, fmt.Errorf("unknown target %d", id)
	}

	regionID := libstereo.RegionID(host.id())
	host.regions[regionID] = &region{target: id, rect: rect, active: true}
	t.regions = append(t.regions, regionID)

	return regionID, nil
}

func (host *Host) RemoveDisplayRegion(id libstereo.RegionID) {
	r, ok := host.regions[id]

	if !ok {
		return
	}

	if t, ok := host.targets[r.target]; ok {
		t.regions = slices.DeleteFunc(t.regions, func(other libstereo.RegionID) bool {
			return other == id
		})
	}

	delete(host.regions, id)
}

func (host *Host) SetRegionCamera(id libstereo.RegionID, camera libscene.NodeID) {
	if r, ok := host.regions[id]; ok {
		r.camera = camera
	}
}

func (host *Host) SetRegionActive(id libstereo.RegionID, active bool) {
	if r, ok := host.regions[id]; ok {
		r.active = active
	}
}

func (host *Host) RegionActive(id libstereo.RegionID) bool {
	if r, ok := host.regions[id]; ok {
		return r.active
	}

	return false
}

func (host *Host) DefaultRegions() (libstereo.RegionID, libstereo.RegionID) {
	return host.defaultScene, host.defaultOverlay
}

func (host *Host) Render2D() libscene.NodeID {
	return host.render2D
}

func (host *Host) AspectScale() mgl32.Vec2 {
	if node := host.graph.Get(host.aspect2D); node != nil {
		return mgl32.Vec2{node.Scale.X(), node.Scale.Y()}
	}

	return mgl32.Vec2{1, 1}
}

func (host *Host) LoadShader(vertex, fragment string) (libstereo.ShaderID, error) {
	vertexSource, err := fs.ReadFile(host.sources, vertex)

	if err != nil {
		return 0, fmt.Errorf("failed to read vertex shader: %w", err)
	}

	fragmentSource, err := fs.ReadFile(host.sources, fragment)

	if err != nil {
		return 0, fmt.Errorf("failed to read fragment shader: %w", err)
	}

	program := rl.LoadShaderFromMemory(string(vertexSource), string(fragmentSource))

	// raylib substitutes its default program when compilation fails.
	if !rl.IsShaderValid(program) || program.ID == rl.GetShaderIdDefault() {
		return 0, fmt.Errorf("failed to compile shader %s + %s", vertex, fragment)
	}

	id := libstereo.ShaderID(host.id())
	host.shaders[id] = &shader{program: program, locations: map[string]int32{}}

	logger.Debugf("Loaded shader %s + %s", vertex, fragment)

	return id, nil
}

func (host *Host) UnloadShader(id libstereo.ShaderID) {
	s, ok := host.shaders[id]

	if !ok {
		return
	}

	rl.UnloadShader(s.program)
	delete(host.shaders, id)
}

// location caches uniform locations; -1 means the program has no such uniform.
func (s *shader) location(name string) int32 {
	if loc, ok := s.locations[name]; ok {
		return loc
	}

	loc := rl.GetShaderLocation(s.program, name)
	s.locations[name] = loc

	return loc
}

// sortedTargets returns the targets in render order, the window last among equals.
func (host *Host) sortedTargets() []libstereo.TargetID {
	ids := make([]libstereo.TargetID, 0, len(host.targets))

	for id := range host.targets {
		ids = append(ids, id)
	}

	slices.SortFunc(ids, func(a, b libstereo.TargetID) int {
		ta, tb := host.targets[a], host.targets[b]

		if ta.sort != tb.sort {
			return ta.sort - tb.sort
		}

		if ta.window != tb.window {
			if ta.window {
				return 1
			}

			return -1
		}

		return int(a) - int(b)
	})

	return ids
}

// updateAspect keeps the default lenses and the 2D aspect scale in step with the window.
func (host *Host) updateAspect(aspect float32) {
	if aspect <= 0 {
		return
	}

	host.graph.Get(host.camera).Lens = &libscene.MatrixLens{
		Matrix: mgl32.Perspective(mgl32.DegToRad(defaultFOV), aspect, 0.1, 1000),
	}
	host.graph.Get(host.aspect2D).Scale = mgl32.Vec3{1 / aspect, 1, 1}
}
