package libhmd

import (
	"git.terah.dev/imterah/gostereo/libdisplayconfig"
	"git.terah.dev/imterah/gostereo/libtracker"
	"github.com/go-gl/mathgl/mgl32"
)

// Provider exposes the intrinsics, the derived distortion model and the orientation stream of
// an HMD. A missing panel or tracker is not an error: the provider then reports fallback
// intrinsics and an unavailable orientation for the rest of the session.
type Provider struct {
	intrinsics DeviceIntrinsics
	distortion DistortionModel
	ipd        float32

	panel   *libdisplayconfig.Connector
	tracker *libtracker.Tracker
}

// Option customises provider construction.
type Option func(*options)

type options struct {
	source libtracker.Source
}

// WithTrackerSource attaches the given report source instead of discovering a hidraw tracker.
func WithTrackerSource(source libtracker.Source) Option {
	return func(o *options) {
		o.source = source
	}
}

// New discovers the HMD and derives its distortion model.
func New(cfg Config, opts ...Option) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}

	for _, opt := range opts {
		opt(o)
	}

	provider := &Provider{}

	intrinsics, panel := discoverIntrinsics(&cfg)
	provider.intrinsics = cfg.Intrinsics.Apply(intrinsics)
	provider.panel = panel

	provider.ipd = cfg.IPD

	if provider.ipd == 0 {
		provider.ipd = provider.intrinsics.InterpupillaryDistance
	}

	provider.distortion = Derive(provider.intrinsics, cfg.DistortionFitPoint)

	logger.Debugf("distortion: scale=%.4f x_center_offset=%.4f y_fov=%.4f rad",
		provider.distortion.Scale, provider.distortion.XCenterOffset, provider.distortion.YFOV)

	switch {
	case o.source != nil:
		provider.tracker = libtracker.NewTracker(o.source)

	case cfg.DisableSensor:
		logger.Info("head tracking disabled by configuration")

	default:
		provider.tracker = attachTracker(&cfg)
	}

	return provider, nil
}

// discoverIntrinsics looks for the HMD panel and falls back to the configured profile.
func discoverIntrinsics(cfg *Config) (DeviceIntrinsics, *libdisplayconfig.Connector) {
	fallback, _ := Profile(cfg.FallbackProfile)
	connectors, err := libdisplayconfig.Discover(cfg.SysfsRoot)

	if err != nil {
		logger.Warnf("display discovery failed, using %q intrinsics: %s", cfg.FallbackProfile, err.Error())
		return fallback, nil
	}

	connector, ok := libdisplayconfig.FindPanel(connectors, PanelVendor)

	if !ok {
		logger.Warnf("no HMD panel found, using %q intrinsics", cfg.FallbackProfile)
		return fallback, nil
	}

	intrinsics, _ := Profile(cfg.Profile)

	if mode, ok := connector.Panel.Preferred(); ok {
		intrinsics.HResolution = mode.Width
		intrinsics.VResolution = mode.Height
	}

	if connector.Panel.WidthMM > 0 && connector.Panel.HeightMM > 0 {
		intrinsics.HScreenSize = connector.Panel.WidthMetres()
		intrinsics.VScreenSize = connector.Panel.HeightMetres()
	}

	logger.Infof("found HMD panel %q on %s (%dx%d)", connector.Panel.Name, connector.Name, intrinsics.HResolution, intrinsics.VResolution)
	return intrinsics, connector
}

// attachTracker opens the configured or discovered tracker. It returns nil when there is none.
func attachTracker(cfg *Config) *libtracker.Tracker {
	path := cfg.SensorDevice

	if path == "" {
		var err error
		path, err = libtracker.FindDevice(cfg.SysfsRoot, libtracker.VendorOculus, libtracker.ProductRiftDK)

		if err != nil {
			logger.Warnf("no head tracker attached: %s", err.Error())
			return nil
		}
	}

	device, err := libtracker.OpenHIDRaw(path)

	if err != nil {
		logger.Warnf("no head tracker attached: %s", err.Error())
		return nil
	}

	logger.Infof("head tracker attached on %s", path)
	return libtracker.NewTracker(device)
}

// Close releases the tracker.
func (provider *Provider) Close() error {
	if provider.tracker == nil {
		return nil
	}

	return provider.tracker.Close()
}

// Attached reports whether a live tracker is attached.
func (provider *Provider) Attached() bool {
	return provider.tracker != nil && provider.tracker.Attached()
}

// HasPanel reports whether the HMD panel was discovered.
func (provider *Provider) HasPanel() bool {
	return provider.panel != nil
}

// Intrinsics returns the device intrinsics in use.
func (provider *Provider) Intrinsics() DeviceIntrinsics {
	return provider.intrinsics
}

// Distortion returns the derived distortion model.
func (provider *Provider) Distortion() DistortionModel {
	return provider.distortion
}

func (provider *Provider) DisplayWidthPixels() int {
	return provider.intrinsics.HResolution
}

func (provider *Provider) DisplayHeightPixels() int {
	return provider.intrinsics.VResolution
}

func (provider *Provider) DisplayWidthMetres() float32 {
	return provider.intrinsics.HScreenSize
}

func (provider *Provider) DisplayHeightMetres() float32 {
	return provider.intrinsics.VScreenSize
}

func (provider *Provider) LensSeparation() float32 {
	return provider.intrinsics.LensSeparationDistance
}

func (provider *Provider) EyeScreenDistance() float32 {
	return provider.intrinsics.EyeToScreenDistance
}

func (provider *Provider) YFOVRadians() float32 {
	return provider.distortion.YFOV
}

// AspectRatio is (horizontal resolution / 2) / vertical resolution.
func (provider *Provider) AspectRatio() float32 {
	return provider.intrinsics.AspectRatio()
}

func (provider *Provider) InterpupillaryDistance() float32 {
	return provider.ipd
}

func (provider *Provider) ProjectionCentreOffset() float32 {
	return provider.distortion.ProjectionCenterOffset
}

func (provider *Provider) DistortionScale() float32 {
	return provider.distortion.Scale
}

func (provider *Provider) DistortionCentreOffset() float32 {
	return provider.distortion.XCenterOffset
}

func (provider *Provider) DistortionCoefficients() mgl32.Vec4 {
	return mgl32.Vec4(provider.distortion.K)
}

func (provider *Provider) ChromaticAberrationCoefficients() mgl32.Vec4 {
	return mgl32.Vec4(provider.distortion.ChromaticAberration)
}

// Orientation returns the latest head orientation without blocking.
func (provider *Provider) Orientation() OrientationSample {
	yaw, pitch, roll, ok := provider.SensorEulerAngles()

	if !ok {
		return Unavailable
	}

	return OrientationSample{
		Yaw:       yaw,
		Pitch:     pitch,
		Roll:      roll,
		Available: true,
	}
}

// SensorEulerAngles returns yaw, pitch and roll in radians, or ok=false when no live sensor
// is attached. An attached sensor that has not reported yet reads as the identity pose.
func (provider *Provider) SensorEulerAngles() (yaw, pitch, roll float32, ok bool) {
	if provider.tracker == nil {
		return 0, 0, 0, false
	}

	yaw, pitch, roll, ok = provider.tracker.Sample()

	if !ok && provider.tracker.Attached() {
		return 0, 0, 0, true
	}

	return yaw, pitch, roll, ok
}

// ResetOrientation recentres the tracker.
func (provider *Provider) ResetOrientation() {
	if provider.tracker != nil {
		provider.tracker.Reset()
	}
}
