package libstereo

import "errors"

var (
	// The pipeline is missing its host, window or intrinsics, or the intrinsics cannot
	// produce a projection.
	ErrConfiguration = errors.New("stereo display is not configured")
	// The host failed to allocate the render target, a display region or the warp shader.
	ErrResourceCreation = errors.New("stereo display resource could not be created")
)
