package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"git.terah.dev/imterah/gostereo/libhmd"
	"git.terah.dev/imterah/gostereo/libstereo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProvider(t *testing.T) *libhmd.Provider {
	t.Helper()

	cfg := libhmd.DefaultConfig()
	cfg.SysfsRoot = t.TempDir()
	cfg.DisableSensor = true

	provider, err := libhmd.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { provider.Close() })

	return provider
}

func solidImage(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	return img
}

func TestWarpImageModes(t *testing.T) {
	provider := testProvider(t)
	fill := color.RGBA{R: 0, G: 255, B: 255, A: 255}
	src := solidImage(200, 100, fill)

	stereo, err := warpImage(src, provider, libstereo.WarpPlainStereo, 80, 50)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 80, 50), stereo.Bounds())
	assert.Equal(t, fill, stereo.RGBAAt(0, 0))

	for _, mode := range []libstereo.WarpMode{libstereo.WarpShader, libstereo.WarpShaderChromaticAberration} {
		warped, err := warpImage(src, provider, mode, 80, 50)
		require.NoError(t, err)

		assert.Equal(t, color.RGBA{A: 255}, warped.RGBAAt(0, 0), mode.String())

		centre := libstereo.ComputeWarpParams(provider, libstereo.EyeLeft).LensCenter
		assert.Equal(t, fill, warped.RGBAAt(int(centre.X()*80), int(centre.Y()*50)), mode.String())
	}

	_, err = warpImage(src, provider, libstereo.WarpShader, 0, 50)
	assert.Error(t, err)
}

func TestLoadWarpConfig(t *testing.T) {
	cfg, err := loadWarpConfig("")
	require.NoError(t, err)
	assert.Equal(t, libhmd.DefaultConfig(), cfg.HMD)
	assert.Equal(t, [2]int{1280, 800}, cfg.Display.LookupResolution)

	path := filepath.Join(t.TempDir(), "stereoview.yml")
	body := "hmd:\n  ipd: 0.07\ndisplay:\n  warp_mode: stereo\n  lookup_resolution: [640, 400]\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err = loadWarpConfig(path)
	require.NoError(t, err)
	assert.Equal(t, float32(0.07), cfg.HMD.IPD)
	assert.Equal(t, libhmd.ProfileDK1, cfg.HMD.Profile)
	assert.Equal(t, [2]int{640, 400}, cfg.Display.LookupResolution)

	_, err = loadWarpConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestLookupSize(t *testing.T) {
	cfg := defaultWarpConfig()
	cfg.Display.LookupResolution = [2]int{640, 400}

	width, height := cfg.lookupSize(0, 0)
	assert.Equal(t, 640, width)
	assert.Equal(t, 400, height)

	width, height = cfg.lookupSize(320, 0)
	assert.Equal(t, 320, width)
	assert.Equal(t, 400, height)
}

func TestDecodeAndEncode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.png")
	fill := color.RGBA{R: 1, G: 2, B: 3, A: 255}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidImage(4, 2, fill)))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	img, err := decodeImage(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())

	var out bytes.Buffer
	require.NoError(t, encodeImage(&out, solidImage(2, 2, fill)))

	decoded, err := png.Decode(&out)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), decoded.Bounds())

	_, err = decodeImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
