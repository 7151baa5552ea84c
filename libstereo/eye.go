package libstereo

import (
	"fmt"

	"git.terah.dev/imterah/gostereo/libscene"
	"github.com/go-gl/mathgl/mgl32"
)

type Eye int

const (
	EyeLeft Eye = iota
	EyeRight
)

var eyes = [...]Eye{EyeLeft, EyeRight}

// Sign is -1 for the left eye and +1 for the right eye.
func (eye Eye) Sign() float32 {
	return float32(eye)*2 - 1
}

func (eye Eye) String() string {
	switch eye {
	case EyeLeft:
		return "left"
	case EyeRight:
		return "right"
	default:
		return fmt.Sprintf("Eye(%d)", int(eye))
	}
}

// EyeState holds everything built for one eye.
type EyeState struct {
	Sign float32
	// Camera offset along the interocular axis, in metres.
	Offset     float32
	Projection mgl32.Mat4

	SceneRegion RegionID
	HUDRegion   RegionID

	SceneCamera libscene.NodeID
	HUDCamera   libscene.NodeID
	HUD         HUDFrame

	Card libscene.NodeID
	Warp WarpParams
}

type WarpMode int

const (
	// Side-by-side output with no lens correction.
	WarpPlainStereo WarpMode = iota
	// Lens distortion correction.
	WarpShader
	// Lens distortion correction with per channel radii.
	WarpShaderChromaticAberration
)

var warpModeNames = map[WarpMode]string{
	WarpPlainStereo:               "stereo",
	WarpShader:                    "shader",
	WarpShaderChromaticAberration: "shader-chroma",
}

func (mode WarpMode) String() string {
	if name, ok := warpModeNames[mode]; ok {
		return name
	}

	return fmt.Sprintf("WarpMode(%d)", int(mode))
}

// ParseWarpMode accepts the names returned by WarpMode.String.
func ParseWarpMode(name string) (WarpMode, error) {
	for mode, modeName := range warpModeNames {
		if modeName == name {
			return mode, nil
		}
	}

	return 0, fmt.Errorf("unknown warp mode %q", name)
}

// UnmarshalText lets the mode be used directly in YAML configuration.
func (mode *WarpMode) UnmarshalText(text []byte) error {
	parsed, err := ParseWarpMode(string(text))

	if err != nil {
		return err
	}

	*mode = parsed
	return nil
}

func (mode WarpMode) MarshalText() ([]byte, error) {
	return []byte(mode.String()), nil
}

type State int

const (
	StateUninitialized State = iota
	StateCreated
	StateEnabled
	StateDisabled
)

func (state State) String() string {
	switch state {
	case StateUninitialized:
		return "uninitialized"
	case StateCreated:
		return "created"
	case StateEnabled:
		return "enabled"
	case StateDisabled:
		return "disabled"
	default:
		return fmt.Sprintf("State(%d)", int(state))
	}
}
