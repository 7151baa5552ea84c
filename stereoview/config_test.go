package main

import (
	"os"
	"path/filepath"
	"testing"

	"git.terah.dev/imterah/gostereo/libhmd"
	"git.terah.dev/imterah/gostereo/libstereo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "stereoview.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
hmd:
  ipd: 0.064
  distortion_fit_point: [-0.5, 0.1]
  fallback_profile: none
  intrinsics:
    eye_to_screen_distance: 0.045
display:
  warp_mode: shader-chroma
  scene_resolution: [640, 480]
  create_on_start: true
window:
  width: 1920
  height: 1080
  fullscreen: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, float32(0.064), cfg.HMD.IPD)
	assert.Equal(t, [2]float32{-0.5, 0.1}, cfg.HMD.DistortionFitPoint)
	assert.Equal(t, "none", cfg.HMD.FallbackProfile)
	assert.Equal(t, libhmd.ProfileDK1, cfg.HMD.Profile)
	require.NotNil(t, cfg.HMD.Intrinsics)
	require.NotNil(t, cfg.HMD.Intrinsics.EyeToScreenDistance)
	assert.Equal(t, float32(0.045), *cfg.HMD.Intrinsics.EyeToScreenDistance)

	assert.Equal(t, libstereo.WarpShaderChromaticAberration, cfg.Display.WarpMode)
	assert.Equal(t, [2]int{640, 480}, cfg.Display.SceneResolution)
	assert.Equal(t, [2]int{1280, 800}, cfg.Display.LookupResolution)
	assert.True(t, cfg.Display.CreateOnStart)

	assert.Equal(t, 1920, cfg.Window.Width)
	assert.True(t, cfg.Window.Fullscreen)
	assert.Equal(t, "StereoView", cfg.Window.Title)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, float32(libhmd.DefaultIPD), cfg.HMD.IPD)
	assert.Equal(t, libstereo.WarpShader, cfg.Display.WarpMode)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "display:\n  warp_mode: fisheye\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "hmd:\n  ipd: -1\n"))
	assert.Error(t, err)
}
