package libstereo

import (
	"errors"
	"fmt"
	"io/fs"
	"testing/fstest"

	"git.terah.dev/imterah/gostereo/libscene"
	"github.com/go-gl/mathgl/mgl32"
)

type fakeTarget struct {
	name          string
	width, height int
	sort          int
}

type fakeRegion struct {
	target TargetID
	region Region
	camera libscene.NodeID
	active bool
}

// fakeHost records every call and keeps the live resources so tests can check that
// nothing leaks.
type fakeHost struct {
	graph    *libscene.Graph
	window   TargetID
	render2D libscene.NodeID
	sources  fs.FS

	nextID  uint32
	targets map[TargetID]fakeTarget
	regions map[RegionID]*fakeRegion
	shaders map[ShaderID][2]string

	defaultScene   RegionID
	defaultOverlay RegionID

	calls []string

	failTarget     bool
	failRegionCall int // fail the n-th MakeDisplayRegion call, 1 based
	regionCalls    int
}

func allShaders() fs.FS {
	return fstest.MapFS{
		VertexShaderName:            {Data: []byte("vertex")},
		FragmentShaderName:          {Data: []byte("fragment")},
		ChromaticFragmentShaderName: {Data: []byte("chroma")},
	}
}

func newFakeHost() *fakeHost {
	host := &fakeHost{
		graph:   libscene.NewGraph(),
		sources: allShaders(),
		targets: map[TargetID]fakeTarget{},
		regions: map[RegionID]*fakeRegion{},
		shaders: map[ShaderID][2]string{},
	}

	host.window = TargetID(host.id())
	host.render2D = host.graph.NewNode("render2d")
	host.defaultScene = RegionID(host.id())
	host.defaultOverlay = RegionID(host.id())
	host.regions[host.defaultScene] = &fakeRegion{target: host.window, active: true}
	host.regions[host.defaultOverlay] = &fakeRegion{target: host.window, active: true}

	return host
}

func (host *fakeHost) id() uint32 {
	host.nextID++
	return host.nextID
}

func (host *fakeHost) record(format string, args ...any) {
	host.calls = append(host.calls, fmt.Sprintf(format, args...))
}

func (host *fakeHost) Graph() *libscene.Graph {
	return host.graph
}

func (host *fakeHost) Window() TargetID {
	return host.window
}

func (host *fakeHost) MakeTextureBuffer(name string, width, height, sort int) (TargetID, error) {
	host.record("MakeTextureBuffer %s", name)

	if host.failTarget {
		return 0, errors.New("out of video memory")
	}

	id := TargetID(host.id())
	host.targets[id] = fakeTarget{name: name, width: width, height: height, sort: sort}

	return id, nil
}

func (host *fakeHost) RemoveTarget(target TargetID) {
	host.record("RemoveTarget")
	delete(host.targets, target)
}

func (host *fakeHost) TargetTexture(target TargetID) uint32 {
	return uint32(target) + 1000
}

func (host *fakeHost) MakeDisplayRegion(target TargetID, region Region) (RegionID, error) {
	host.regionCalls++
	host.record("MakeDisplayRegion")

	if host.regionCalls == host.failRegionCall {
		return 0, errors.New("region limit reached")
	}

	id := RegionID(host.id())
	host.regions[id] = &fakeRegion{target: target, region: region, active: true}

	return id, nil
}

func (host *fakeHost) RemoveDisplayRegion(region RegionID) {
	if region == host.defaultScene || region == host.defaultOverlay {
		panic("default region removed")
	}

	if host.regions[region] != nil && host.regions[region].target == host.window {
		host.record("RemoveDisplayRegion window")
	} else {
		host.record("RemoveDisplayRegion")
	}

	delete(host.regions, region)
}

func (host *fakeHost) SetRegionCamera(region RegionID, camera libscene.NodeID) {
	host.regions[region].camera = camera
}

func (host *fakeHost) SetRegionActive(region RegionID, active bool) {
	if region == host.defaultScene || region == host.defaultOverlay {
		host.record("SetDefaultActive %t", active)
	}

	host.regions[region].active = active
}

func (host *fakeHost) RegionActive(region RegionID) bool {
	if r, ok := host.regions[region]; ok {
		return r.active
	}

	return false
}

func (host *fakeHost) DefaultRegions() (RegionID, RegionID) {
	return host.defaultScene, host.defaultOverlay
}

func (host *fakeHost) Render2D() libscene.NodeID {
	return host.render2D
}

func (host *fakeHost) AspectScale() mgl32.Vec2 {
	return mgl32.Vec2{0.625, 1}
}

func (host *fakeHost) LoadShader(vertex, fragment string) (ShaderID, error) {
	host.record("LoadShader %s %s", vertex, fragment)

	for _, name := range []string{vertex, fragment} {
		if _, err := fs.ReadFile(host.sources, name); err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", name, err)
		}
	}

	id := ShaderID(host.id())
	host.shaders[id] = [2]string{vertex, fragment}

	return id, nil
}

func (host *fakeHost) UnloadShader(shader ShaderID) {
	host.record("UnloadShader")
	delete(host.shaders, shader)
}

// pipelineRegions returns the regions that are not the window defaults.
func (host *fakeHost) pipelineRegions() int {
	return len(host.regions) - 2
}

func (host *fakeHost) countCalls(call string) int {
	n := 0

	for _, c := range host.calls {
		if c == call {
			n++
		}
	}

	return n
}

// fakeIntrinsics implements Intrinsics with plain fields.
type fakeIntrinsics struct {
	widthPixels, heightPixels int
	widthMetres               float32
	lensSeparation            float32
	eyeScreenDistance         float32
	yfov                      float32
	ipd                       float32
	projectionCentreOffset    float32
	distortionScale           float32
	distortionCentreOffset    float32
	k, chroma                 mgl32.Vec4
}

func dk1Intrinsics() *fakeIntrinsics {
	return &fakeIntrinsics{
		widthPixels:            1280,
		heightPixels:           800,
		widthMetres:            0.14976,
		lensSeparation:         0.0635,
		eyeScreenDistance:      0.041,
		yfov:                   mgl32.DegToRad(110),
		ipd:                    0.064,
		projectionCentreOffset: 0.151976,
		distortionScale:        1.25,
		distortionCentreOffset: 0.151976,
		k:                      mgl32.Vec4{1, 0.22, 0.24, 0},
		chroma:                 mgl32.Vec4{0.996, -0.004, 1.014, 0},
	}
}

func (f *fakeIntrinsics) DisplayWidthPixels() int                     { return f.widthPixels }
func (f *fakeIntrinsics) DisplayHeightPixels() int                    { return f.heightPixels }
func (f *fakeIntrinsics) DisplayWidthMetres() float32                 { return f.widthMetres }
func (f *fakeIntrinsics) LensSeparation() float32                     { return f.lensSeparation }
func (f *fakeIntrinsics) EyeScreenDistance() float32                  { return f.eyeScreenDistance }
func (f *fakeIntrinsics) YFOVRadians() float32                        { return f.yfov }
func (f *fakeIntrinsics) InterpupillaryDistance() float32             { return f.ipd }
func (f *fakeIntrinsics) ProjectionCentreOffset() float32             { return f.projectionCentreOffset }
func (f *fakeIntrinsics) DistortionScale() float32                    { return f.distortionScale }
func (f *fakeIntrinsics) DistortionCentreOffset() float32             { return f.distortionCentreOffset }
func (f *fakeIntrinsics) DistortionCoefficients() mgl32.Vec4          { return f.k }
func (f *fakeIntrinsics) ChromaticAberrationCoefficients() mgl32.Vec4 { return f.chroma }

func (f *fakeIntrinsics) AspectRatio() float32 {
	if f.heightPixels == 0 {
		return 0
	}

	return float32(f.widthPixels/2) / float32(f.heightPixels)
}
