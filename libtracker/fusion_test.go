package libtracker

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestEulerYXZSingleAxes(t *testing.T) {
	angle := float32(0.6)

	yaw, pitch, roll := EulerYXZ(mgl32.QuatRotate(angle, mgl32.Vec3{0, 1, 0}))
	assert.InDelta(t, angle, yaw, 1e-5)
	assert.InDelta(t, 0, pitch, 1e-5)
	assert.InDelta(t, 0, roll, 1e-5)

	yaw, pitch, roll = EulerYXZ(mgl32.QuatRotate(angle, mgl32.Vec3{1, 0, 0}))
	assert.InDelta(t, 0, yaw, 1e-5)
	assert.InDelta(t, angle, pitch, 1e-5)
	assert.InDelta(t, 0, roll, 1e-5)

	yaw, pitch, roll = EulerYXZ(mgl32.QuatRotate(angle, mgl32.Vec3{0, 0, 1}))
	assert.InDelta(t, 0, yaw, 1e-5)
	assert.InDelta(t, 0, pitch, 1e-5)
	assert.InDelta(t, angle, roll, 1e-5)
}

func TestEulerYXZComposed(t *testing.T) {
	yawQ := mgl32.QuatRotate(0.4, mgl32.Vec3{0, 1, 0})
	pitchQ := mgl32.QuatRotate(-0.2, mgl32.Vec3{1, 0, 0})
	rollQ := mgl32.QuatRotate(0.1, mgl32.Vec3{0, 0, 1})

	yaw, pitch, roll := EulerYXZ(yawQ.Mul(pitchQ).Mul(rollQ))
	assert.InDelta(t, 0.4, yaw, 1e-4)
	assert.InDelta(t, -0.2, pitch, 1e-4)
	assert.InDelta(t, 0.1, roll, 1e-4)
}

func TestEulerYXZGimbalLock(t *testing.T) {
	yaw, pitch, _ := EulerYXZ(mgl32.QuatRotate(math32.Pi/2, mgl32.Vec3{1, 0, 0}))
	assert.Equal(t, float32(0), yaw)
	assert.InDelta(t, math32.Pi/2, pitch, 1e-3)
}

func TestFusionIntegratesYawRate(t *testing.T) {
	fusion := NewFusion()
	sample := Sample{
		Acceleration: mgl32.Vec3{0, standardGravity, 0},
		RotationRate: mgl32.Vec3{0, 1, 0},
	}

	for i := 0; i < 500; i++ {
		fusion.Update(sample, 0.001)
	}

	yaw, pitch, roll := fusion.Euler()
	assert.InDelta(t, 0.5, yaw, 1e-3)
	assert.InDelta(t, 0, pitch, 1e-3)
	assert.InDelta(t, 0, roll, 1e-3)

	fusion.Reset()
	yaw, _, _ = fusion.Euler()
	assert.Equal(t, float32(0), yaw)
}

func TestFusionGravityCorrectionLevelsTilt(t *testing.T) {
	fusion := NewFusion()
	fusion.orientation = mgl32.QuatRotate(0.2, mgl32.Vec3{1, 0, 0})

	// Device at rest and level: gravity is straight up in the device frame.
	sample := Sample{Acceleration: mgl32.Vec3{0, standardGravity, 0}}

	for i := 0; i < 2000; i++ {
		fusion.Update(sample, 0.001)
	}

	_, pitch, _ := fusion.Euler()
	assert.Less(t, math32.Abs(pitch), float32(0.2))
}

func TestFusionHandleMessageAccountsForDroppedSamples(t *testing.T) {
	fusion := NewFusion()
	fusion.GravityCorrection = false

	msg := SensorMessage{
		SampleCount: 5,
		Samples: []Sample{
			{RotationRate: mgl32.Vec3{0, 1, 0}},
			{RotationRate: mgl32.Vec3{0, 1, 0}},
			{RotationRate: mgl32.Vec3{0, 1, 0}},
		},
	}

	fusion.HandleMessage(msg)

	yaw, _, _ := fusion.Euler()
	assert.InDelta(t, 0.005, yaw, 1e-5)
}
