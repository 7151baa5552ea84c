// Package libheadcam points a camera node where the head is looking.
package libheadcam

import (
	"git.terah.dev/imterah/gostereo/libhmd"
	"git.terah.dev/imterah/gostereo/libscene"
	"github.com/go-gl/mathgl/mgl32"
)

// PointerSensitivity converts a normalized pointer position to degrees.
const PointerSensitivity = 45

// OrientationSource never blocks. *libhmd.Provider implements it.
type OrientationSource interface {
	Orientation() libhmd.OrientationSample
}

// PointerSource reports the pointer position normalized to [-1,1] on both axes, with +Y
// up. ok is false when the pointer is outside the window.
type PointerSource interface {
	Pointer() (x, y float32, ok bool)
}

// Driver applies head orientation to a camera each frame.
type Driver struct {
	graph       *libscene.Graph
	camera      libscene.NodeID
	orientation OrientationSource
	pointer     PointerSource

	fallback bool
	last     libhmd.OrientationSample
}

// NewDriver probes the orientation source once. If it has nothing to offer, the pointer
// drives the camera for the rest of the session.
func NewDriver(graph *libscene.Graph, camera libscene.NodeID, orientation OrientationSource, pointer PointerSource) *Driver {
	driver := &Driver{
		graph:       graph,
		camera:      camera,
		orientation: orientation,
		pointer:     pointer,
	}

	if orientation == nil {
		driver.fallback = true
	} else {
		driver.last = orientation.Orientation()
		driver.fallback = !driver.last.Available
	}

	if driver.fallback {
		logger.Warn("Head orientation is unavailable, using the pointer instead")
	}

	return driver
}

// UsingFallback reports whether the pointer drives the camera.
func (driver *Driver) UsingFallback() bool {
	return driver.fallback
}

// Update sets the camera heading, pitch and roll for this frame.
func (driver *Driver) Update() {
	node := driver.graph.Get(driver.camera)

	if node == nil {
		return
	}

	node.HPR = driver.hpr()
}

func (driver *Driver) hpr() mgl32.Vec3 {
	if !driver.fallback {
		sample := driver.orientation.Orientation()

		// Keep the last good pose through a dropped frame.
		if sample.Available {
			driver.last = sample
		}

		yaw, pitch, roll := driver.last.Degrees()

		// Sensor roll is clockwise positive, camera roll is counter-clockwise positive.
		return mgl32.Vec3{yaw, pitch, -roll}
	}

	if driver.pointer == nil {
		return mgl32.Vec3{}
	}

	x, y, ok := driver.pointer.Pointer()

	if !ok {
		x, y = 0, 0
	}

	return mgl32.Vec3{x * PointerSensitivity, y * PointerSensitivity, 0}
}
