package libhmd

import "github.com/go-gl/mathgl/mgl32"

// OrientationSample is a head orientation reading in radians.
type OrientationSample struct {
	Yaw   float32 // heading, about the vertical axis
	Pitch float32 // elevation
	Roll  float32 // tilt

	// False when no live sensor is attached; the angles are zero then.
	Available bool
}

// Unavailable is the sample reported when there is no live sensor.
var Unavailable = OrientationSample{}

// Degrees returns yaw, pitch and roll in degrees.
func (sample OrientationSample) Degrees() (yaw, pitch, roll float32) {
	return mgl32.RadToDeg(sample.Yaw), mgl32.RadToDeg(sample.Pitch), mgl32.RadToDeg(sample.Roll)
}
