package libhmd

import "github.com/chewxy/math32"

// The fit point is considered unset below this magnitude and no scaling is applied.
const fitPointEpsilon = 0.0001

// DistortionModel holds the lens warp parameters derived from the device intrinsics.
// Both eyes share it; the right eye mirrors XCenterOffset.
type DistortionModel struct {
	K                   [4]float32
	ChromaticAberration [4]float32

	Scale                  float32
	XCenterOffset          float32
	ProjectionCenterOffset float32

	// Vertical field of view in radians, widened by Scale.
	YFOV float32
}

// Derive evaluates the vendor distortion model at the given fit point.
//
// The fit point is in normalized viewport coordinates ([-1,1]×[-1,1]) of the left eye.
// The warp is scaled so that this point maps onto the edge of the rendered image.
func Derive(intrinsics DeviceIntrinsics, fitPoint [2]float32) DistortionModel {
	model := DistortionModel{
		K:                   intrinsics.DistortionK,
		ChromaticAberration: intrinsics.ChromaAbCorrection,
		Scale:               1,
	}

	// The lens centre is offset from the centre of each half of the screen. This shift is
	// computed in metres to correct for screen size, then rescaled to viewport units.
	if intrinsics.HScreenSize > 0 {
		viewCenter := intrinsics.HScreenSize * 0.25
		eyeProjectionShift := viewCenter - intrinsics.LensSeparationDistance*0.5
		lensViewportShift := 4.0 * eyeProjectionShift / intrinsics.HScreenSize

		model.XCenterOffset = lensViewportShift
		model.ProjectionCenterOffset = lensViewportShift
	}

	stereoAspect := intrinsics.AspectRatio()

	if (math32.Abs(fitPoint[0]) >= fitPointEpsilon || math32.Abs(fitPoint[1]) >= fitPointEpsilon) && stereoAspect > 0 {
		dx := fitPoint[0] - model.XCenterOffset
		dy := fitPoint[1] / stereoAspect
		fitRadius := math32.Sqrt(dx*dx + dy*dy)

		if fitRadius > 0 {
			model.Scale = model.DistortionFn(fitRadius) / fitRadius
		}
	}

	if intrinsics.EyeToScreenDistance > 0 {
		perceivedHalfRTDistance := (intrinsics.VScreenSize / 2) * model.Scale
		model.YFOV = 2.0 * math32.Atan(perceivedHalfRTDistance/intrinsics.EyeToScreenDistance)
	}

	return model
}

// DistortionFn returns the distorted radius for an undistorted radius r.
func (model DistortionModel) DistortionFn(r float32) float32 {
	return r * model.ScaleAt(r*r)
}

// ScaleAt returns the radial scale factor for a squared radius.
func (model DistortionModel) ScaleAt(rSq float32) float32 {
	k := model.K
	return k[0] + rSq*(k[1]+rSq*(k[2]+rSq*k[3]))
}
