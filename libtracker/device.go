package libtracker

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// USB IDs of the DK1 tracker.
	VendorOculus  = 0x2833
	ProductRiftDK = 0x0001
)

// FindDevice looks up the hidraw node of a tracker with the given USB IDs under the sysfs root.
// It returns the /dev path of the node.
func FindDevice(sysfsRoot string, vendor, product uint16) (string, error) {
	if sysfsRoot == "" {
		sysfsRoot = "/sys"
	}

	matches, err := filepath.Glob(filepath.Join(sysfsRoot, "class", "hidraw", "*", "device", "uevent"))

	if err != nil {
		return "", fmt.Errorf("failed to enumerate hidraw devices: %w", err)
	}

	sort.Strings(matches)
	want := fmt.Sprintf("%08X:%08X", vendor, product)

	for _, ueventPath := range matches {
		hidID, err := readHIDID(ueventPath)

		if err != nil {
			logger.Debugf("skipping %s: %s", ueventPath, err.Error())
			continue
		}

		// HID_ID is "<bus>:<vendor>:<product>", the bus does not matter here.
		if _, ids, found := strings.Cut(hidID, ":"); found && strings.EqualFold(ids, want) {
			node := filepath.Base(filepath.Dir(filepath.Dir(ueventPath)))
			return "/dev/" + node, nil
		}
	}

	return "", fmt.Errorf("no tracker with ID %04x:%04x found", vendor, product)
}

func readHIDID(ueventPath string) (string, error) {
	file, err := os.Open(ueventPath)

	if err != nil {
		return "", err
	}

	defer file.Close()

	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		if value, found := strings.CutPrefix(scanner.Text(), "HID_ID="); found {
			return value, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return "", err
	}

	return "", fmt.Errorf("no HID_ID in uevent")
}
