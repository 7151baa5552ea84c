package libstereo

import (
	"git.terah.dev/imterah/gostereo/libscene"
	"github.com/go-gl/mathgl/mgl32"
)

// Shader parameter names, shared with the GLSL sources.
const (
	InputScaleIn      = "ScaleIn"
	InputScale        = "Scale"
	InputScreenCenter = "ScreenCenter"
	InputLensCenter   = "LensCenter"
	InputWarpParam    = "HmdWarpParam"
	InputChromAbParam = "ChromAbParam"
)

// Warp shader source names.
const (
	VertexShaderName            = "hmd-distortion-v.glsl"
	FragmentShaderName          = "hmd-distortion-f.glsl"
	ChromaticFragmentShaderName = "hmd-distortion-chroma-f.glsl"
)

// Each eye covers half of the target width and all of its height.
const (
	eyeViewportWidth  = 0.5
	eyeViewportHeight = 1.0
)

// WarpParams are the lens warp inputs of one eye, in texture coordinates of the whole
// side-by-side target.
type WarpParams struct {
	ScaleIn      mgl32.Vec2
	Scale        mgl32.Vec2
	ScreenCenter mgl32.Vec2
	LensCenter   mgl32.Vec2
	WarpParam    mgl32.Vec4
	ChromAbParam mgl32.Vec4
}

// ComputeWarpParams evaluates the warp inputs for eye.
func ComputeWarpParams(intrinsics Intrinsics, eye Eye) WarpParams {
	const w, h = eyeViewportWidth, eyeViewportHeight

	scaleFactor := 1 / intrinsics.DistortionScale()
	aspect := intrinsics.AspectRatio()
	centreOffset := intrinsics.DistortionCentreOffset() * 0.5
	x := float32(eye) * w

	return WarpParams{
		ScaleIn:      mgl32.Vec2{2 / w, (2 / h) / aspect},
		Scale:        mgl32.Vec2{(w / 2) * scaleFactor, (h / 2) * scaleFactor * aspect},
		ScreenCenter: mgl32.Vec2{x + w/2, h / 2},
		LensCenter:   mgl32.Vec2{x + (w+centreOffset*-eye.Sign())*0.5, h / 2},
		WarpParam:    intrinsics.DistortionCoefficients(),
		ChromAbParam: intrinsics.ChromaticAberrationCoefficients(),
	}
}

// Apply binds the parameters to node. The chromatic aberration coefficients are only bound
// for the chromatic shader.
func (params WarpParams) Apply(node *libscene.Node, chromatic bool) {
	node.SetShaderInput(InputScaleIn, libscene.Vec2Input(params.ScaleIn))
	node.SetShaderInput(InputScale, libscene.Vec2Input(params.Scale))
	node.SetShaderInput(InputScreenCenter, libscene.Vec2Input(params.ScreenCenter))
	node.SetShaderInput(InputLensCenter, libscene.Vec2Input(params.LensCenter))
	node.SetShaderInput(InputWarpParam, libscene.Vec4Input(params.WarpParam))

	if chromatic {
		node.SetShaderInput(InputChromAbParam, libscene.Vec4Input(params.ChromAbParam))
	}
}
