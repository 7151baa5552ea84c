package libwarp

import (
	"image"
	"image/color"
	"testing"

	"git.terah.dev/imterah/gostereo/libhmd"
	"git.terah.dev/imterah/gostereo/libstereo"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dk1Params(t *testing.T) (libstereo.WarpParams, libstereo.WarpParams) {
	t.Helper()

	cfg := libhmd.DefaultConfig()
	cfg.SysfsRoot = t.TempDir()
	cfg.DisableSensor = true

	provider, err := libhmd.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { provider.Close() })

	return libstereo.ComputeWarpParams(provider, libstereo.EyeLeft), libstereo.ComputeWarpParams(provider, libstereo.EyeRight)
}

func TestLensCentreIsFixed(t *testing.T) {
	left, right := dk1Params(t)

	for _, params := range []libstereo.WarpParams{left, right} {
		for _, chromatic := range []bool{false, true} {
			sample := Warp(params, params.LensCenter, chromatic)

			assert.True(t, sample.Inside)
			assert.Equal(t, params.LensCenter, sample.Red)
			assert.Equal(t, params.LensCenter, sample.Green)
			assert.Equal(t, params.LensCenter, sample.Blue)
		}
	}
}

func TestCornerFallsOutside(t *testing.T) {
	left, right := dk1Params(t)

	assert.False(t, Warp(left, mgl32.Vec2{0.01, 0.01}, false).Inside)
	assert.False(t, Warp(left, mgl32.Vec2{0.01, 0.99}, true).Inside)
	assert.False(t, Warp(right, mgl32.Vec2{0.99, 0.01}, false).Inside)
}

func TestWarpPushesOutwards(t *testing.T) {
	left, _ := dk1Params(t)

	tc := left.LensCenter.Add(mgl32.Vec2{0.05, 0})
	sample := Warp(left, tc, true)
	require.True(t, sample.Inside)

	red := sample.Red.Sub(left.LensCenter).Len()
	green := sample.Green.Sub(left.LensCenter).Len()
	blue := sample.Blue.Sub(left.LensCenter).Len()

	assert.Less(t, red, green)
	assert.Less(t, green, blue)

	// Stays on the horizontal line through the lens centre.
	assert.InDelta(t, 0.5, sample.Green.Y(), 1e-6)
}

func TestLookupApply(t *testing.T) {
	left, right := dk1Params(t)

	lookup, err := NewLookup(64, 40, left, right, true)
	require.NoError(t, err)

	src := image.NewRGBA(image.Rect(0, 0, 128, 80))

	for y := 0; y < 80; y++ {
		for x := 0; x < 128; x++ {
			src.SetRGBA(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	out := lookup.Apply(src)
	require.Equal(t, image.Rect(0, 0, 64, 40), out.Bounds())

	for _, params := range []libstereo.WarpParams{left, right} {
		x := int(params.LensCenter.X() * 64)
		y := int(params.LensCenter.Y() * 40)

		assert.True(t, lookup.At(x, y).Inside)
		assert.Equal(t, color.RGBA{R: 200, G: 100, B: 50, A: 255}, out.RGBAAt(x, y))
	}

	assert.False(t, lookup.At(0, 0).Inside)
	assert.Equal(t, color.RGBA{A: 255}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{A: 255}, out.RGBAAt(63, 39))
}

func TestLookupRejectsEmptySize(t *testing.T) {
	left, right := dk1Params(t)

	_, err := NewLookup(0, 800, left, right, false)
	assert.Error(t, err)
}

func TestBilinear(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 0, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 200, A: 255})

	assert.InDelta(t, 100, bilinear(img, mgl32.Vec2{0.5, 0.5})[0], 1e-3)
	assert.InDelta(t, 0, bilinear(img, mgl32.Vec2{0, 0.5})[0], 1e-3)
	assert.InDelta(t, 200, bilinear(img, mgl32.Vec2{1, 0.5})[0], 1e-3)
}
