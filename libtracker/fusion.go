package libtracker

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	standardGravity = 9.80665

	// Gravity correction only runs while the head is nearly still and the accelerometer
	// reads close to 1 g.
	gravityTolerance     = 0.4
	angularRateThreshold = 0.1
	tiltCorrectionGain   = 0.002

	defaultSampleDelta = 0.001
	eulerEpsilon       = 1e-6
)

// Fusion integrates tracker samples into an orientation.
type Fusion struct {
	orientation mgl32.Quat
	lastRate    mgl32.Vec3

	// Whether to apply accelerometer tilt correction.
	GravityCorrection bool
}

// NewFusion creates a fusion filter starting at the identity orientation.
func NewFusion() *Fusion {
	return &Fusion{
		orientation:       mgl32.QuatIdent(),
		GravityCorrection: true,
	}
}

// Reset returns the filter to the identity orientation.
func (f *Fusion) Reset() {
	f.orientation = mgl32.QuatIdent()
	f.lastRate = mgl32.Vec3{}
}

// Orientation returns the current orientation quaternion.
func (f *Fusion) Orientation() mgl32.Quat {
	return f.orientation
}

// HandleMessage feeds every sample of a sensors report into the filter.
//
// The tracker samples at 1 kHz; when the report says more samples were produced than it
// carries, the first carried sample absorbs the missing time.
func (f *Fusion) HandleMessage(msg SensorMessage) {
	for i, sample := range msg.Samples {
		dt := float32(defaultSampleDelta)

		if i == 0 && msg.SampleCount > len(msg.Samples) {
			dt *= float32(msg.SampleCount - len(msg.Samples) + 1)
		}

		f.Update(sample, dt)
	}
}

// Update integrates a single sample over dt seconds.
func (f *Fusion) Update(sample Sample, dt float32) {
	rate := sample.RotationRate
	f.lastRate = rate

	angle := rate.Len() * dt

	if angle > 0 {
		step := mgl32.QuatRotate(angle, rate.Normalize())
		f.orientation = f.orientation.Mul(step).Normalize()
	}

	if f.GravityCorrection {
		f.correctTilt(sample.Acceleration, rate)
	}
}

// correctTilt nudges the orientation so the measured acceleration points up in world space.
func (f *Fusion) correctTilt(accel, rate mgl32.Vec3) {
	if rate.Len() > angularRateThreshold {
		return
	}

	world := f.orientation.Rotate(accel)
	magnitude := world.Len()

	if math32.Abs(magnitude-standardGravity) > gravityTolerance {
		return
	}

	measured := world.Mul(1 / magnitude)
	up := mgl32.Vec3{0, 1, 0}

	axis := measured.Cross(up)
	axisLen := axis.Len()

	if axisLen < eulerEpsilon {
		return
	}

	tilt := math32.Acos(mgl32.Clamp(measured.Dot(up), -1, 1))
	correction := mgl32.QuatRotate(tilt*tiltCorrectionGain, axis.Mul(1/axisLen))
	f.orientation = correction.Mul(f.orientation).Normalize()
}

// Euler returns yaw, pitch and roll of the current orientation in radians.
func (f *Fusion) Euler() (yaw, pitch, roll float32) {
	return EulerYXZ(f.orientation)
}

// EulerYXZ decomposes a quaternion into rotations about Y (yaw), X (pitch) and Z (roll),
// applied in that order, right handed and counter-clockwise.
func EulerYXZ(q mgl32.Quat) (yaw, pitch, roll float32) {
	w, x, y, z := q.W, q.V[0], q.V[1], q.V[2]
	ww, xx, yy, zz := w*w, x*x, y*y, z*z

	s2 := 2 * (w*x - y*z)

	switch {
	case s2 < -1+eulerEpsilon:
		return 0, -math32.Pi / 2, math32.Atan2(2*(w*z-x*y), ww+xx-yy-zz)

	case s2 > 1-eulerEpsilon:
		return 0, math32.Pi / 2, math32.Atan2(2*(w*z-x*y), ww+xx-yy-zz)
	}

	yaw = math32.Atan2(2*(w*y+x*z), ww-xx-yy+zz)
	pitch = math32.Asin(s2)
	roll = math32.Atan2(2*(w*z+x*y), ww-xx+yy-zz)

	return yaw, pitch, roll
}
