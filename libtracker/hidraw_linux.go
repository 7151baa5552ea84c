//go:build linux

package libtracker

import (
	"errors"
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	hidrawReportBuffer = 64

	keepAliveIntervalMS = 10000
	keepAlivePeriod     = 3 * time.Second
)

// hidiocsfeature returns the HIDIOCSFEATURE ioctl request for a report of n bytes.
func hidiocsfeature(n int) uintptr {
	const (
		iocWrite = 1
		iocRead  = 2
	)

	return uintptr(iocWrite|iocRead)<<30 | uintptr(n)<<16 | uintptr('H')<<8 | 0x06
}

// HIDRaw reads tracker reports from a Linux hidraw node without blocking.
type HIDRaw struct {
	fd            int
	path          string
	commandID     uint16
	lastKeepAlive time.Time
	buffer        []byte
}

// OpenHIDRaw opens a hidraw node in non-blocking mode and starts the report stream.
func OpenHIDRaw(path string) (*HIDRaw, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)

	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	device := &HIDRaw{
		fd:     fd,
		path:   path,
		buffer: make([]byte, hidrawReportBuffer),
	}

	if err := device.keepAlive(); err != nil {
		unix.Close(fd)
		return nil, err
	}

	return device, nil
}

// Poll reads all pending reports.
func (device *HIDRaw) Poll() ([][]byte, error) {
	if device.fd < 0 {
		return nil, fmt.Errorf("device %s is closed", device.path)
	}

	if time.Since(device.lastKeepAlive) >= keepAlivePeriod {
		if err := device.keepAlive(); err != nil {
			return nil, err
		}
	}

	reports := [][]byte{}

	for {
		n, err := unix.Read(device.fd, device.buffer)

		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}

			if errors.Is(err, unix.EAGAIN) {
				return reports, nil
			}

			return reports, fmt.Errorf("failed to read %s: %w", device.path, err)
		}

		if n == 0 {
			return reports, nil
		}

		report := make([]byte, n)
		copy(report, device.buffer[:n])
		reports = append(reports, report)
	}
}

// Close closes the hidraw node.
func (device *HIDRaw) Close() error {
	if device.fd < 0 {
		return nil
	}

	err := unix.Close(device.fd)
	device.fd = -1

	return err
}

// keepAlive asks the tracker to keep streaming for the next interval.
func (device *HIDRaw) keepAlive() error {
	device.commandID++
	report := EncodeKeepAlive(device.commandID, keepAliveIntervalMS)

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(device.fd), hidiocsfeature(len(report)), uintptr(unsafe.Pointer(&report[0])))

	if errno != 0 {
		return fmt.Errorf("failed to send keep-alive to %s: %w", device.path, errno)
	}

	device.lastKeepAlive = time.Now()
	return nil
}
