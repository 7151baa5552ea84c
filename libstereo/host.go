package libstereo

import (
	"git.terah.dev/imterah/gostereo/libscene"
	"github.com/go-gl/mathgl/mgl32"
)

// Host handles. Zero is never a valid handle.
type (
	TargetID uint32
	RegionID uint32
	ShaderID uint32
)

// Region is a rectangle of a render target in normalized coordinates, origin at the bottom
// left.
type Region struct {
	Left, Right float32
	Bottom, Top float32
}

// Host is the rendering engine the pipeline builds on.
//
// A display region renders the scene that its camera belongs to, that is the topmost
// ancestor of the camera node.
type Host interface {
	Graph() *libscene.Graph

	// Window returns the main window target, or zero if no window is open.
	Window() TargetID

	// MakeTextureBuffer allocates an off-screen target with linear filtering. Targets render
	// in ascending sort order, the window has sort 0.
	MakeTextureBuffer(name string, width, height, sort int) (TargetID, error)
	RemoveTarget(target TargetID)
	// TargetTexture returns the texture handle bound to a texture buffer.
	TargetTexture(target TargetID) uint32

	// MakeDisplayRegion creates an active region on target.
	MakeDisplayRegion(target TargetID, region Region) (RegionID, error)
	RemoveDisplayRegion(region RegionID)
	SetRegionCamera(region RegionID, camera libscene.NodeID)
	SetRegionActive(region RegionID, active bool)
	RegionActive(region RegionID) bool
	// DefaultRegions returns the window's own 3D and 2D regions.
	DefaultRegions() (scene, overlay RegionID)

	// Render2D is the root of the window's 2D scene.
	Render2D() libscene.NodeID
	// AspectScale is the horizontal and vertical scale the host applies to 2D content.
	AspectScale() mgl32.Vec2

	// LoadShader compiles a program from named vertex and fragment sources.
	LoadShader(vertex, fragment string) (ShaderID, error)
	UnloadShader(shader ShaderID)
}
