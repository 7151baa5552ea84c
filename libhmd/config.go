package libhmd

import "fmt"

const (
	DefaultIPD = 0.0655

	// PanelVendor is the EDID manufacturer ID of the HMD panel.
	PanelVendor = "OVR"
)

// DefaultDistortionFitPoint sits near the outer lens edge of the left eye.
var DefaultDistortionFitPoint = [2]float32{-0.75, 0.0}

// Config configures device discovery and the distortion fit.
type Config struct {
	// Interpupillary distance in metres used for rendering. Zero uses the device default.
	IPD float32 `yaml:"ipd"`
	// Normalized point the distortion scale is fitted to.
	DistortionFitPoint [2]float32 `yaml:"distortion_fit_point"`

	// Optics profile for a discovered panel.
	Profile string `yaml:"profile"`
	// Profile used when no panel is discovered.
	FallbackProfile string `yaml:"fallback_profile"`
	// Field-by-field override applied on top of the profile.
	Intrinsics *IntrinsicsOverride `yaml:"intrinsics"`

	SysfsRoot string `yaml:"sysfs_root"`
	// hidraw node of the tracker; discovered through sysfs when empty.
	SensorDevice  string `yaml:"sensor_device"`
	DisableSensor bool   `yaml:"disable_sensor"`
}

// DefaultConfig returns the configuration matching the stock DK1 setup.
func DefaultConfig() Config {
	return Config{
		IPD:                DefaultIPD,
		DistortionFitPoint: DefaultDistortionFitPoint,
		Profile:            ProfileDK1,
		FallbackProfile:    ProfileDK1,
		SysfsRoot:          "/sys",
	}
}

// Validate checks the configuration for values that cannot be used.
func (cfg *Config) Validate() error {
	if cfg.IPD < 0 {
		return fmt.Errorf("ipd must not be negative, got %g", cfg.IPD)
	}

	for _, v := range cfg.DistortionFitPoint {
		if v < -1 || v > 1 {
			return fmt.Errorf("distortion_fit_point must lie in [-1,1]x[-1,1], got %v", cfg.DistortionFitPoint)
		}
	}

	if _, err := Profile(cfg.Profile); err != nil {
		return err
	}

	if _, err := Profile(cfg.FallbackProfile); err != nil {
		return err
	}

	return nil
}
