package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	"git.terah.dev/imterah/gostereo/libhmd"
	"git.terah.dev/imterah/gostereo/libstereo"
	"git.terah.dev/imterah/gostereo/libwarp"
	_ "golang.org/x/image/webp"
	"gopkg.in/yaml.v3"

	xdraw "golang.org/x/image/draw"
)

// warpConfig is the part of a stereoview configuration file the warp needs.
type warpConfig struct {
	HMD     libhmd.Config `yaml:"hmd"`
	Display struct {
		LookupResolution [2]int `yaml:"lookup_resolution"`
	} `yaml:"display"`
}

func defaultWarpConfig() warpConfig {
	cfg := warpConfig{HMD: libhmd.DefaultConfig()}
	cfg.Display.LookupResolution = [2]int{libstereo.DefaultLookupWidth, libstereo.DefaultLookupHeight}

	return cfg
}

// loadWarpConfig reads the hmd and display sections of a stereoview configuration file.
func loadWarpConfig(path string) (warpConfig, error) {
	cfg := defaultWarpConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)

	if err != nil {
		return cfg, fmt.Errorf("failed to read configuration file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse configuration file: %w", err)
	}

	return cfg, nil
}

// lookupSize picks the output size: explicit flags win, otherwise the configured lookup
// resolution is used.
func (cfg warpConfig) lookupSize(width, height int) (int, int) {
	if width <= 0 {
		width = cfg.Display.LookupResolution[0]
	}

	if height <= 0 {
		height = cfg.Display.LookupResolution[1]
	}

	return width, height
}

// warpImage resamples src to the lookup size and runs it through the lens warp of both
// eyes. In stereo mode the image is only resampled.
func warpImage(src image.Image, intrinsics libstereo.Intrinsics, mode libstereo.WarpMode, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("output size %dx%d is not positive", width, height)
	}

	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	if mode == libstereo.WarpPlainStereo {
		return scaled, nil
	}

	left := libstereo.ComputeWarpParams(intrinsics, libstereo.EyeLeft)
	right := libstereo.ComputeWarpParams(intrinsics, libstereo.EyeRight)

	lookup, err := libwarp.NewLookup(width, height, left, right, mode == libstereo.WarpShaderChromaticAberration)

	if err != nil {
		return nil, err
	}

	return lookup.Apply(scaled), nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)

	if err != nil {
		return nil, err
	}

	defer f.Close()

	img, format, err := image.Decode(f)

	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	logger.Debugf("decoded %s image %dx%d", format, img.Bounds().Dx(), img.Bounds().Dy())

	return img, nil
}

func encodeImage(w io.Writer, img image.Image) error {
	encoder := png.Encoder{CompressionLevel: png.BestSpeed}
	return encoder.Encode(w, img)
}
