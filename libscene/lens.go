package libscene

import "github.com/go-gl/mathgl/mgl32"

// Lens produces a camera projection matrix.
type Lens interface {
	ProjectionMatrix() mgl32.Mat4
}

// MatrixLens uses a caller supplied projection matrix.
type MatrixLens struct {
	Matrix mgl32.Mat4
}

func (lens *MatrixLens) ProjectionMatrix() mgl32.Mat4 {
	return lens.Matrix
}

// OrthographicLens projects a film of the given size. FilmOffset shifts the film centre, in
// film units, off the view axis.
type OrthographicLens struct {
	FilmSize   mgl32.Vec2
	FilmOffset mgl32.Vec2
	Near       float32
	Far        float32
}

func (lens *OrthographicLens) ProjectionMatrix() mgl32.Mat4 {
	halfW := lens.FilmSize[0] / 2
	halfH := lens.FilmSize[1] / 2

	return mgl32.Ortho(
		lens.FilmOffset[0]-halfW, lens.FilmOffset[0]+halfW,
		lens.FilmOffset[1]-halfH, lens.FilmOffset[1]+halfH,
		lens.Near, lens.Far,
	)
}
