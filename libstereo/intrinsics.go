package libstereo

import "github.com/go-gl/mathgl/mgl32"

// Intrinsics is the read-only device model the pipeline is built from. *libhmd.Provider
// implements it.
type Intrinsics interface {
	DisplayWidthPixels() int
	DisplayHeightPixels() int
	DisplayWidthMetres() float32
	LensSeparation() float32
	EyeScreenDistance() float32
	YFOVRadians() float32
	AspectRatio() float32
	InterpupillaryDistance() float32
	ProjectionCentreOffset() float32
	DistortionScale() float32
	DistortionCentreOffset() float32
	DistortionCoefficients() mgl32.Vec4
	ChromaticAberrationCoefficients() mgl32.Vec4
}
