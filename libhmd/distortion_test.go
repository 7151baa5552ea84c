package libhmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveDK1(t *testing.T) {
	intrinsics, err := Profile(ProfileDK1)
	require.NoError(t, err)

	model := Derive(intrinsics, DefaultDistortionFitPoint)

	assert.InDelta(t, 0.151976, model.XCenterOffset, 1e-5)
	assert.Equal(t, model.XCenterOffset, model.ProjectionCenterOffset)
	assert.InDelta(t, 1.337835, model.Scale, 1e-4)
	assert.InDelta(t, 1.982052, model.YFOV, 1e-4)
	assert.Equal(t, intrinsics.DistortionK, model.K)
	assert.Equal(t, intrinsics.ChromaAbCorrection, model.ChromaticAberration)
}

func TestDeriveWithoutFitPoint(t *testing.T) {
	intrinsics, err := Profile(ProfileDK1)
	require.NoError(t, err)

	model := Derive(intrinsics, [2]float32{0, 0})
	assert.Equal(t, float32(1), model.Scale)
}

func TestDeriveZeroIntrinsics(t *testing.T) {
	model := Derive(DeviceIntrinsics{}, DefaultDistortionFitPoint)

	assert.Equal(t, float32(1), model.Scale)
	assert.Zero(t, model.XCenterOffset)
	assert.Zero(t, model.YFOV)
}

func TestAspectRatio(t *testing.T) {
	cases := []struct {
		h, v int
	}{
		{1280, 800},
		{1920, 1080},
		{2, 1},
		{3840, 2160},
	}

	for _, c := range cases {
		intrinsics := DeviceIntrinsics{HResolution: c.h, VResolution: c.v}
		assert.Equal(t, float32(c.h/2)/float32(c.v), intrinsics.AspectRatio())
	}

	assert.Zero(t, DeviceIntrinsics{HResolution: 1280}.AspectRatio())
}

func TestDistortionFn(t *testing.T) {
	model := DistortionModel{K: [4]float32{1, 0.5, 0.25, 0.125}}

	assert.InDelta(t, 2*(1+0.5*4+0.25*16+0.125*64), model.DistortionFn(2), 1e-4)
	assert.Equal(t, float32(1), model.ScaleAt(0))
}

func TestProfiles(t *testing.T) {
	assert.Equal(t, []string{"dk1", "none"}, ProfileNames())

	_, err := Profile("DK1")
	assert.NoError(t, err)

	_, err = Profile("vive")
	assert.Error(t, err)
}

func TestIntrinsicsOverride(t *testing.T) {
	base, err := Profile(ProfileDK1)
	require.NoError(t, err)

	width := 1920
	eye := float32(0.05)
	override := &IntrinsicsOverride{HResolution: &width, EyeToScreenDistance: &eye}

	applied := override.Apply(base)
	assert.Equal(t, 1920, applied.HResolution)
	assert.Equal(t, 800, applied.VResolution)
	assert.Equal(t, float32(0.05), applied.EyeToScreenDistance)

	var none *IntrinsicsOverride
	assert.Equal(t, base, none.Apply(base))
}
