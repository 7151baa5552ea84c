package libhmd

import (
	"fmt"
	"sort"
	"strings"
)

// DeviceIntrinsics are the fixed optical parameters of an HMD.
type DeviceIntrinsics struct {
	HResolution int `yaml:"h_resolution"` // pixels, both eyes
	VResolution int `yaml:"v_resolution"` // pixels

	HScreenSize float32 `yaml:"h_screen_size"` // metres, both eyes
	VScreenSize float32 `yaml:"v_screen_size"` // metres

	LensSeparationDistance float32 `yaml:"lens_separation_distance"` // metres
	EyeToScreenDistance    float32 `yaml:"eye_to_screen_distance"`   // metres
	InterpupillaryDistance float32 `yaml:"interpupillary_distance"`  // metres, device default

	// Vendor radial distortion polynomial and chromatic aberration terms.
	DistortionK        [4]float32 `yaml:"distortion_k"`
	ChromaAbCorrection [4]float32 `yaml:"chroma_ab_correction"`
}

const (
	ProfileDK1  = "dk1"
	ProfileNone = "none"
)

var profiles = map[string]DeviceIntrinsics{
	ProfileDK1: {
		HResolution:            1280,
		VResolution:            800,
		HScreenSize:            0.14976,
		VScreenSize:            0.0936,
		LensSeparationDistance: 0.0635,
		EyeToScreenDistance:    0.041,
		InterpupillaryDistance: 0.064,
		DistortionK:            [4]float32{1.0, 0.22, 0.24, 0.0},
		ChromaAbCorrection:     [4]float32{0.996, -0.004, 1.014, 0.0},
	},
	ProfileNone: {},
}

// Profile returns the intrinsics of a named device profile.
func Profile(name string) (DeviceIntrinsics, error) {
	intrinsics, ok := profiles[strings.ToLower(name)]

	if !ok {
		return DeviceIntrinsics{}, fmt.Errorf("unknown device profile %q (known: %s)", name, strings.Join(ProfileNames(), ", "))
	}

	return intrinsics, nil
}

// ProfileNames lists the known device profiles.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))

	for name := range profiles {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// AspectRatio is the per-eye aspect ratio: each eye gets half of the horizontal resolution.
func (intrinsics DeviceIntrinsics) AspectRatio() float32 {
	if intrinsics.VResolution == 0 {
		return 0
	}

	return (float32(intrinsics.HResolution) * 0.5) / float32(intrinsics.VResolution)
}

// IntrinsicsOverride replaces individual intrinsic fields. Nil fields keep the profile value.
type IntrinsicsOverride struct {
	HResolution            *int        `yaml:"h_resolution"`
	VResolution            *int        `yaml:"v_resolution"`
	HScreenSize            *float32    `yaml:"h_screen_size"`
	VScreenSize            *float32    `yaml:"v_screen_size"`
	LensSeparationDistance *float32    `yaml:"lens_separation_distance"`
	EyeToScreenDistance    *float32    `yaml:"eye_to_screen_distance"`
	InterpupillaryDistance *float32    `yaml:"interpupillary_distance"`
	DistortionK            *[4]float32 `yaml:"distortion_k"`
	ChromaAbCorrection     *[4]float32 `yaml:"chroma_ab_correction"`
}

// Apply returns a copy of the intrinsics with the override applied.
func (override *IntrinsicsOverride) Apply(intrinsics DeviceIntrinsics) DeviceIntrinsics {
	if override == nil {
		return intrinsics
	}

	if override.HResolution != nil {
		intrinsics.HResolution = *override.HResolution
	}

	if override.VResolution != nil {
		intrinsics.VResolution = *override.VResolution
	}

	if override.HScreenSize != nil {
		intrinsics.HScreenSize = *override.HScreenSize
	}

	if override.VScreenSize != nil {
		intrinsics.VScreenSize = *override.VScreenSize
	}

	if override.LensSeparationDistance != nil {
		intrinsics.LensSeparationDistance = *override.LensSeparationDistance
	}

	if override.EyeToScreenDistance != nil {
		intrinsics.EyeToScreenDistance = *override.EyeToScreenDistance
	}

	if override.InterpupillaryDistance != nil {
		intrinsics.InterpupillaryDistance = *override.InterpupillaryDistance
	}

	if override.DistortionK != nil {
		intrinsics.DistortionK = *override.DistortionK
	}

	if override.ChromaAbCorrection != nil {
		intrinsics.ChromaAbCorrection = *override.ChromaAbCorrection
	}

	return intrinsics
}
