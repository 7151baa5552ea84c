package libstereo

import "github.com/go-gl/mathgl/mgl32"

const (
	sceneNear = 0.01
	sceneFar  = 2000.0
)

// SceneProjection is the symmetric projection shared by both eyes: X is scaled by
// 1/(tan(fov/2)·aspect) and Y by 1/tan(fov/2).
func SceneProjection(fovY, aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(fovY, aspect, sceneNear, sceneFar)
}

// EyeProjection shifts the shared projection along X in clip space by -sign·offset.
func EyeProjection(base mgl32.Mat4, sign, projectionCentreOffset float32) mgl32.Mat4 {
	return mgl32.Translate3D(-sign*projectionCentreOffset, 0, 0).Mul4(base)
}
