// Package libwarp applies the HMD lens warp on the CPU.
//
// The math is the same as the warp fragment shaders: texture coordinates cover the whole
// side-by-side image, and each eye samples only from its own half.
package libwarp

import (
	"git.terah.dev/imterah/gostereo/libstereo"
	"github.com/go-gl/mathgl/mgl32"
)

// halfScreen is the extent of one eye's half of the image around its screen centre.
var halfScreen = mgl32.Vec2{0.25, 0.5}

// Sample is where one output texel reads from, per colour channel.
type Sample struct {
	Red, Green, Blue mgl32.Vec2
	// False when the source lies outside the eye's half; the texel is black then.
	Inside bool
}

// Warp maps an output texture coordinate to its source coordinates. Without chromatic
// correction all three channels read from the same place.
func Warp(params libstereo.WarpParams, tc mgl32.Vec2, chromatic bool) Sample {
	k := params.WarpParam

	theta := mulElem(tc.Sub(params.LensCenter), params.ScaleIn)
	rSq := theta.Dot(theta)
	theta1 := theta.Mul(k[0] + k[1]*rSq + k[2]*rSq*rSq + k[3]*rSq*rSq*rSq)

	green := params.LensCenter.Add(mulElem(params.Scale, theta1))

	if !chromatic {
		return Sample{Red: green, Green: green, Blue: green, Inside: insideEye(params, green)}
	}

	c := params.ChromAbParam

	blue := params.LensCenter.Add(mulElem(params.Scale, theta1.Mul(c[2]+c[3]*rSq)))

	// Blue spreads the furthest, so it decides whether the texel is inside.
	if !insideEye(params, blue) {
		return Sample{}
	}

	red := params.LensCenter.Add(mulElem(params.Scale, theta1.Mul(c[0]+c[1]*rSq)))

	return Sample{Red: red, Green: green, Blue: blue, Inside: true}
}

func insideEye(params libstereo.WarpParams, tc mgl32.Vec2) bool {
	lo := params.ScreenCenter.Sub(halfScreen)
	hi := params.ScreenCenter.Add(halfScreen)

	return tc.X() >= lo.X() && tc.X() <= hi.X() && tc.Y() >= lo.Y() && tc.Y() <= hi.Y()
}

func mulElem(a, b mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{a[0] * b[0], a[1] * b[1]}
}
