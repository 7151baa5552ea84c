//go:build !linux

package libtracker

import "errors"

// HIDRaw is only available on Linux.
type HIDRaw struct{}

// OpenHIDRaw always fails on this platform.
func OpenHIDRaw(path string) (*HIDRaw, error) {
	return nil, errors.New("hidraw trackers are only supported on Linux")
}

func (device *HIDRaw) Poll() ([][]byte, error) {
	return nil, errors.New("hidraw trackers are only supported on Linux")
}

func (device *HIDRaw) Close() error {
	return nil
}
