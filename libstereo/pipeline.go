package libstereo

import (
	"fmt"

	"git.terah.dev/imterah/gostereo/libscene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultSceneWidth   = 2048
	DefaultSceneHeight  = 1024
	DefaultLookupWidth  = 1280
	DefaultLookupHeight = 800

	sceneBufferSort = -100
)

// Node and buffer names, visible in host debugging output.
const (
	renderRootName      = "render 2d root"
	renderCameraName    = "render 2d camera"
	shaderCardName      = "render 2d shader card"
	sceneBufferName     = "scene buffer"
	sceneCameraRootName = "scene 3d camera root"
	sceneCameraName     = "scene 3d camera"
	hudCameraName       = "scene 2d camera"
)

// Pipeline renders the scene into a side-by-side off-screen target and composites that
// target onto the window, optionally through the lens warp shader.
//
// Create builds every resource in order; if a step fails, everything built so far is torn
// down again. Destroy tears down in reverse order and tolerates missing resources.
type Pipeline struct {
	host       Host
	intrinsics Intrinsics

	warpMode     WarpMode
	sceneWidth   int
	sceneHeight  int
	lookupWidth  int
	lookupHeight int

	cameraRoot libscene.NodeID
	renderRoot libscene.NodeID

	created    bool
	wasEnabled bool

	target       TargetID
	windowRegion RegionID
	renderCamera libscene.NodeID
	shader       ShaderID
	eyes         [2]EyeState
}

// NewPipeline creates an uninitialized pipeline. The camera and render roots exist from
// here on so world content can be attached before Create.
func NewPipeline(host Host) *Pipeline {
	pipeline := &Pipeline{
		host:         host,
		warpMode:     WarpShader,
		sceneWidth:   DefaultSceneWidth,
		sceneHeight:  DefaultSceneHeight,
		lookupWidth:  DefaultLookupWidth,
		lookupHeight: DefaultLookupHeight,
	}

	pipeline.ensureRoots()

	return pipeline
}

func (pipeline *Pipeline) ensureRoots() {
	if pipeline.host == nil {
		return
	}

	graph := pipeline.host.Graph()

	if !graph.Valid(pipeline.cameraRoot) {
		pipeline.cameraRoot = graph.NewNode(sceneCameraRootName)
	}

	if !graph.Valid(pipeline.renderRoot) {
		pipeline.renderRoot = graph.NewNode(renderRootName)
	}
}

// SetIntrinsics sets the device model used by the next Create.
func (pipeline *Pipeline) SetIntrinsics(intrinsics Intrinsics) {
	pipeline.intrinsics = intrinsics
}

// SetWarpMode selects the output mode used by the next Create.
func (pipeline *Pipeline) SetWarpMode(mode WarpMode) {
	pipeline.warpMode = mode
}

func (pipeline *Pipeline) WarpMode() WarpMode {
	return pipeline.warpMode
}

// SetSceneResolution sizes the off-screen target. Non-positive sizes and calls made while
// the display exists are ignored.
func (pipeline *Pipeline) SetSceneResolution(width, height int) {
	if !pipeline.acceptResolution("scene", width, height) {
		return
	}

	pipeline.sceneWidth = width
	pipeline.sceneHeight = height
}

// SetLookupResolution sizes the warp lookup table. Non-positive sizes and calls made while
// the display exists are ignored.
func (pipeline *Pipeline) SetLookupResolution(width, height int) {
	if !pipeline.acceptResolution("lookup", width, height) {
		return
	}

	pipeline.lookupWidth = width
	pipeline.lookupHeight = height
}

func (pipeline *Pipeline) acceptResolution(kind string, width, height int) bool {
	if width <= 0 || height <= 0 {
		logger.Debugf("Ignoring %s resolution %dx%d: not positive", kind, width, height)
		return false
	}

	if pipeline.created {
		logger.Debugf("Ignoring %s resolution %dx%d: display already created", kind, width, height)
		return false
	}

	return true
}

func (pipeline *Pipeline) SceneResolution() (width, height int) {
	return pipeline.sceneWidth, pipeline.sceneHeight
}

func (pipeline *Pipeline) LookupResolution() (width, height int) {
	return pipeline.lookupWidth, pipeline.lookupHeight
}

// CameraRoot is the attachment point of the two scene cameras.
func (pipeline *Pipeline) CameraRoot() libscene.NodeID {
	return pipeline.cameraRoot
}

// RenderRoot holds the window camera and the composite cards.
func (pipeline *Pipeline) RenderRoot() libscene.NodeID {
	return pipeline.renderRoot
}

// Target returns the off-screen scene buffer, or zero before Create.
func (pipeline *Pipeline) Target() TargetID {
	return pipeline.target
}

func (pipeline *Pipeline) Eye(eye Eye) EyeState {
	if eye != EyeLeft && eye != EyeRight {
		return EyeState{}
	}

	return pipeline.eyes[eye]
}

func (pipeline *Pipeline) IsCreated() bool {
	return pipeline.created
}

// IsEnabled reports whether the composited window region is the one presented.
func (pipeline *Pipeline) IsEnabled() bool {
	return pipeline.host != nil && pipeline.windowRegion != 0 && pipeline.host.RegionActive(pipeline.windowRegion)
}

func (pipeline *Pipeline) State() State {
	switch {
	case !pipeline.created:
		return StateUninitialized
	case pipeline.IsEnabled():
		return StateEnabled
	case pipeline.wasEnabled:
		return StateDisabled
	default:
		return StateCreated
	}
}

// SetEnabled swaps the host's default window regions for the composited region. It is a
// no-op when the state already matches or nothing has been created.
func (pipeline *Pipeline) SetEnabled(enabled bool) {
	if pipeline.IsEnabled() == enabled {
		return
	}

	if pipeline.windowRegion == 0 {
		logger.Debug("Ignoring enable request: display not created")
		return
	}

	scene, overlay := pipeline.host.DefaultRegions()

	pipeline.host.SetRegionActive(scene, !enabled)
	pipeline.host.SetRegionActive(overlay, !enabled)
	pipeline.host.SetRegionActive(pipeline.windowRegion, enabled)

	if enabled {
		pipeline.wasEnabled = true
	}

	logger.Debugf("Display enabled: %t", enabled)
}

// Create builds the display and then enables it if requested.
func (pipeline *Pipeline) Create(enabled bool) error {
	if err := pipeline.checkConfiguration(); err != nil {
		logger.Errorf("Failed to create display: %s", err.Error())
		return err
	}

	pipeline.ensureRoots()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"scene buffer", pipeline.createSceneBuffer},
		{"scene cameras", pipeline.createSceneCameras},
		{"HUD cameras", pipeline.createHUDCameras},
		{"render region", pipeline.createRenderRegion},
		{"render camera", pipeline.createRenderCamera},
		{"shader cards", pipeline.createShaderCards},
		{"shader", pipeline.applyShader},
	}

	for _, step := range steps {
		logger.Debugf("Creating %s", step.name)

		if err := step.fn(); err != nil {
			logger.Errorf("Failed to create display: %s", err.Error())
			pipeline.Destroy()

			return err
		}
	}

	pipeline.created = true
	pipeline.SetEnabled(enabled)

	logger.Infof("Created %dx%d stereo display (%s)", pipeline.sceneWidth, pipeline.sceneHeight, pipeline.warpMode)

	return nil
}

func (pipeline *Pipeline) checkConfiguration() error {
	if pipeline.host == nil {
		return fmt.Errorf("host not set: %w", ErrConfiguration)
	}

	if pipeline.host.Window() == 0 {
		return fmt.Errorf("window not set: %w", ErrConfiguration)
	}

	if pipeline.intrinsics == nil {
		return fmt.Errorf("intrinsics not set: %w", ErrConfiguration)
	}

	if pipeline.created {
		return fmt.Errorf("display already created: %w", ErrConfiguration)
	}

	intrinsics := pipeline.intrinsics

	if fov := intrinsics.YFOVRadians(); !(fov > 0 && fov < math32.Pi) {
		return fmt.Errorf("vertical field of view %g is outside (0, pi): %w", fov, ErrConfiguration)
	}

	if intrinsics.AspectRatio() <= 0 {
		return fmt.Errorf("aspect ratio %g is not positive: %w", intrinsics.AspectRatio(), ErrConfiguration)
	}

	if intrinsics.DistortionScale() <= 0 {
		return fmt.Errorf("distortion scale %g is not positive: %w", intrinsics.DistortionScale(), ErrConfiguration)
	}

	if intrinsics.DisplayWidthMetres() <= 0 {
		return fmt.Errorf("display width %g m is not positive: %w", intrinsics.DisplayWidthMetres(), ErrConfiguration)
	}

	if intrinsics.EyeScreenDistance() <= 0 {
		return fmt.Errorf("eye to screen distance %g m is not positive: %w", intrinsics.EyeScreenDistance(), ErrConfiguration)
	}

	switch pipeline.warpMode {
	case WarpPlainStereo, WarpShader, WarpShaderChromaticAberration:
	default:
		return fmt.Errorf("unknown warp mode %d: %w", int(pipeline.warpMode), ErrConfiguration)
	}

	return nil
}

func (pipeline *Pipeline) createSceneBuffer() error {
	host := pipeline.host
	target, err := host.MakeTextureBuffer(sceneBufferName, pipeline.sceneWidth, pipeline.sceneHeight, sceneBufferSort)

	if err != nil {
		return fmt.Errorf("failed to create scene buffer: %w: %w", ErrResourceCreation, err)
	}

	pipeline.target = target

	for _, eye := range eyes {
		left := float32(eye) * eyeViewportWidth
		region := Region{Left: left, Right: left + eyeViewportWidth, Bottom: 0, Top: 1}

		scene, err := host.MakeDisplayRegion(target, region)

		if err != nil {
			return fmt.Errorf("failed to create %s scene region: %w: %w", eye, ErrResourceCreation, err)
		}

		pipeline.eyes[eye].SceneRegion = scene

		hud, err := host.MakeDisplayRegion(target, region)

		if err != nil {
			return fmt.Errorf("failed to create %s HUD region: %w: %w", eye, ErrResourceCreation, err)
		}

		pipeline.eyes[eye].HUDRegion = hud
	}

	return nil
}

func (pipeline *Pipeline) destroySceneBuffer() {
	host := pipeline.host

	for _, eye := range eyes {
		state := &pipeline.eyes[eye]

		if state.SceneRegion != 0 {
			host.RemoveDisplayRegion(state.SceneRegion)
			state.SceneRegion = 0
		}

		if state.HUDRegion != 0 {
			host.RemoveDisplayRegion(state.HUDRegion)
			state.HUDRegion = 0
		}
	}

	if pipeline.target == 0 {
		return
	}

	host.RemoveTarget(pipeline.target)
	pipeline.target = 0
}

func (pipeline *Pipeline) createSceneCameras() error {
	intrinsics := pipeline.intrinsics
	graph := pipeline.host.Graph()

	base := SceneProjection(intrinsics.YFOVRadians(), intrinsics.AspectRatio())
	ipdOffset := intrinsics.InterpupillaryDistance() / 2
	centreOffset := intrinsics.ProjectionCentreOffset()

	for _, eye := range eyes {
		state := &pipeline.eyes[eye]
		state.Sign = eye.Sign()
		state.Offset = state.Sign * ipdOffset
		state.Projection = EyeProjection(base, state.Sign, centreOffset)

		camera, err := graph.NewChild(sceneCameraName, pipeline.cameraRoot)

		if err != nil {
			return fmt.Errorf("failed to create %s scene camera: %w: %w", eye, ErrResourceCreation, err)
		}

		node := graph.Get(camera)
		node.Lens = &libscene.MatrixLens{Matrix: state.Projection}
		node.Pos = mgl32.Vec3{state.Offset, 0, 0}

		state.SceneCamera = camera
		pipeline.host.SetRegionCamera(state.SceneRegion, camera)
	}

	return nil
}

func (pipeline *Pipeline) destroySceneCameras() {
	graph := pipeline.host.Graph()

	for _, eye := range eyes {
		state := &pipeline.eyes[eye]
		graph.Remove(state.SceneCamera)
		state.SceneCamera = libscene.NodeID{}
	}
}

func (pipeline *Pipeline) createHUDCameras() error {
	host := pipeline.host
	graph := host.Graph()
	aspectScale := host.AspectScale()

	for _, eye := range eyes {
		state := &pipeline.eyes[eye]
		state.HUD = ComputeHUDFrame(pipeline.intrinsics, aspectScale, eye.Sign())

		camera, err := graph.NewChild(hudCameraName, host.Render2D())

		if err != nil {
			return fmt.Errorf("failed to create %s HUD camera: %w: %w", eye, ErrResourceCreation, err)
		}

		graph.Get(camera).Lens = state.HUD.Lens()

		state.HUDCamera = camera
		host.SetRegionCamera(state.HUDRegion, camera)
	}

	return nil
}

func (pipeline *Pipeline) destroyHUDCameras() {
	graph := pipeline.host.Graph()

	for _, eye := range eyes {
		state := &pipeline.eyes[eye]
		graph.Remove(state.HUDCamera)
		state.HUDCamera = libscene.NodeID{}
	}
}

func (pipeline *Pipeline) createRenderRegion() error {
	host := pipeline.host
	region, err := host.MakeDisplayRegion(host.Window(), Region{Left: 0, Right: 1, Bottom: 0, Top: 1})

	if err != nil {
		return fmt.Errorf("failed to create render region: %w: %w", ErrResourceCreation, err)
	}

	// Only SetEnabled activates the region.
	host.SetRegionActive(region, false)
	pipeline.windowRegion = region

	return nil
}

func (pipeline *Pipeline) destroyRenderRegion() {
	if pipeline.windowRegion == 0 {
		return
	}

	pipeline.host.RemoveDisplayRegion(pipeline.windowRegion)
	pipeline.windowRegion = 0
}

func (pipeline *Pipeline) createRenderCamera() error {
	graph := pipeline.host.Graph()
	camera, err := graph.NewChild(renderCameraName, pipeline.renderRoot)

	if err != nil {
		return fmt.Errorf("failed to create render camera: %w: %w", ErrResourceCreation, err)
	}

	graph.Get(camera).Lens = &libscene.OrthographicLens{
		FilmSize: mgl32.Vec2{2, 2},
		Near:     orthographicNear,
		Far:      orthographicFar,
	}

	pipeline.renderCamera = camera
	pipeline.host.SetRegionCamera(pipeline.windowRegion, camera)

	return nil
}

func (pipeline *Pipeline) destroyRenderCamera() {
	pipeline.host.Graph().Remove(pipeline.renderCamera)
	pipeline.renderCamera = libscene.NodeID{}
}

func (pipeline *Pipeline) createShaderCards() error {
	graph := pipeline.host.Graph()
	texture := pipeline.host.TargetTexture(pipeline.target)

	for _, eye := range eyes {
		card, err := graph.NewChild(shaderCardName, pipeline.renderRoot)

		if err != nil {
			return fmt.Errorf("failed to create %s shader card: %w: %w", eye, ErrResourceCreation, err)
		}

		e := float32(eye)

		node := graph.Get(card)
		node.Card = &libscene.Card{
			Frame: mgl32.Vec4{e - 1, e, -1, 1},
			UVMin: mgl32.Vec2{e / 2, 0},
			UVMax: mgl32.Vec2{(e + 1) / 2, 1},
			Color: mgl32.Vec4{1, 1, 1, 1},
		}
		node.Texture = texture
		node.DepthTest = false
		node.DepthWrite = false

		pipeline.eyes[eye].Card = card
	}

	return nil
}

func (pipeline *Pipeline) destroyShaderCards() {
	graph := pipeline.host.Graph()

	for _, eye := range eyes {
		state := &pipeline.eyes[eye]
		graph.Remove(state.Card)
		state.Card = libscene.NodeID{}
	}
}

func (pipeline *Pipeline) applyShader() error {
	var fragment string

	switch pipeline.warpMode {
	case WarpPlainStereo:
		return nil
	case WarpShader:
		fragment = FragmentShaderName
	case WarpShaderChromaticAberration:
		fragment = ChromaticFragmentShaderName
	}

	shader, err := pipeline.host.LoadShader(VertexShaderName, fragment)

	if err != nil {
		return fmt.Errorf("failed to load warp shader: %w: %w", ErrResourceCreation, err)
	}

	pipeline.shader = shader

	graph := pipeline.host.Graph()
	chromatic := pipeline.warpMode == WarpShaderChromaticAberration

	for _, eye := range eyes {
		state := &pipeline.eyes[eye]
		state.Warp = ComputeWarpParams(pipeline.intrinsics, eye)

		node := graph.Get(state.Card)
		node.Shader = uint32(shader)
		state.Warp.Apply(node, chromatic)
	}

	return nil
}

func (pipeline *Pipeline) removeShader() {
	graph := pipeline.host.Graph()

	for _, eye := range eyes {
		if node := graph.Get(pipeline.eyes[eye].Card); node != nil {
			node.ClearShader()
		}

		pipeline.eyes[eye].Warp = WarpParams{}
	}

	if pipeline.shader == 0 {
		return
	}

	pipeline.host.UnloadShader(pipeline.shader)
	pipeline.shader = 0
}

// Destroy disables the output and removes everything Create built, in reverse order.
func (pipeline *Pipeline) Destroy() {
	if pipeline.host == nil {
		return
	}

	pipeline.SetEnabled(false)

	pipeline.removeShader()
	pipeline.destroyShaderCards()
	pipeline.destroyRenderCamera()
	pipeline.destroyRenderRegion()
	pipeline.destroyHUDCameras()
	pipeline.destroySceneCameras()
	pipeline.destroySceneBuffer()

	pipeline.eyes = [2]EyeState{}
	pipeline.created = false
	pipeline.wasEnabled = false
}
