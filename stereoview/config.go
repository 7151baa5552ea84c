package main

import (
	"fmt"
	"os"

	"git.terah.dev/imterah/gostereo/libhmd"
	"git.terah.dev/imterah/gostereo/librayhost"
	"git.terah.dev/imterah/gostereo/libstereo"
	"gopkg.in/yaml.v3"
)

type DisplayConfig struct {
	WarpMode         libstereo.WarpMode `yaml:"warp_mode"`
	SceneResolution  [2]int             `yaml:"scene_resolution"`
	LookupResolution [2]int             `yaml:"lookup_resolution"`
	// Directory to load the warp shaders from instead of the built-in sources.
	ShaderDir string `yaml:"shader_dir"`
	// Create and enable the display at startup instead of waiting for R.
	CreateOnStart bool `yaml:"create_on_start"`
}

type Config struct {
	HMD     libhmd.Config     `yaml:"hmd"`
	Display DisplayConfig     `yaml:"display"`
	Window  librayhost.Config `yaml:"window"`
}

func DefaultConfig() Config {
	return Config{
		HMD: libhmd.DefaultConfig(),
		Display: DisplayConfig{
			WarpMode:         libstereo.WarpShader,
			SceneResolution:  [2]int{libstereo.DefaultSceneWidth, libstereo.DefaultSceneHeight},
			LookupResolution: [2]int{libstereo.DefaultLookupWidth, libstereo.DefaultLookupHeight},
		},
		Window: librayhost.Config{
			Title: "StereoView",
			FPS:   60,
		},
	}
}

// LoadConfig reads a YAML file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)

	if err != nil {
		return cfg, fmt.Errorf("failed to read configuration file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse configuration file: %w", err)
	}

	if err := cfg.HMD.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid hmd configuration: %w", err)
	}

	return cfg, nil
}
