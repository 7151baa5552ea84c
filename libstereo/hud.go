package libstereo

import (
	"git.terah.dev/imterah/gostereo/libscene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	hudFOV      = 85 * math32.Pi / 180
	hudDistance = 0.8

	orthographicNear = -1000
	orthographicFar  = 1000
)

// HUDFrame is the orthographic film of one eye's HUD camera.
type HUDFrame struct {
	FilmWidth  float32
	FilmHeight float32
	// Horizontal film offset, already signed for the eye.
	FilmOffset float32
}

// ComputeHUDFrame sizes the HUD film so that 2D content lands at its undistorted position
// once the lens warp is applied.
//
// The film spans the pixels covered by a nominal 85° field of view at the eye to screen
// distance, shrunk by the distortion scale. The film is shifted from the lens centre by
// the lens offset plus the eye separation seen at the HUD distance.
func ComputeHUDFrame(intrinsics Intrinsics, aspectScale mgl32.Vec2, sign float32) HUDFrame {
	widthPixels := float32(intrinsics.DisplayWidthPixels())
	heightPixels := float32(intrinsics.DisplayHeightPixels())
	eyeToScreen := intrinsics.EyeScreenDistance()
	scale := intrinsics.DistortionScale()

	metresToPixels := widthPixels / intrinsics.DisplayWidthMetres()
	lensSeparationPixels := intrinsics.LensSeparation() * metresToPixels
	eyeSeparationPixels := intrinsics.InterpupillaryDistance() * metresToPixels

	halfScreen := math32.Tan(hudFOV/2) * eyeToScreen
	fovPixels := (2 * halfScreen / scale) * metresToPixels

	cameraOffsetPixels := (eyeToScreen / hudDistance) * eyeSeparationPixels
	lensOffsetPixels := widthPixels/2 - lensSeparationPixels
	offsetPixels := lensOffsetPixels + cameraOffsetPixels/scale

	return HUDFrame{
		FilmWidth:  widthPixels / (aspectScale.Y() * fovPixels),
		FilmHeight: (heightPixels * 2) / (aspectScale.X() * fovPixels),
		FilmOffset: sign * offsetPixels / fovPixels,
	}
}

// Lens builds the orthographic lens for the frame.
func (frame HUDFrame) Lens() *libscene.OrthographicLens {
	return &libscene.OrthographicLens{
		FilmSize:   mgl32.Vec2{frame.FilmWidth, frame.FilmHeight},
		FilmOffset: mgl32.Vec2{frame.FilmOffset, 0},
		Near:       orthographicNear,
		Far:        orthographicFar,
	}
}
