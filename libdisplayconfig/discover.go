package libdisplayconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// A DRM connector with a parsed EDID.
type Connector struct {
	Name      string // connector directory name, e.g. "card0-HDMI-A-1"
	Connected bool
	Panel     *Panel
}

// Discover enumerates DRM connectors under the given sysfs root and parses their EDIDs.
//
// Connectors without an EDID (or with an empty one) are skipped. Connectors with a malformed
// EDID are skipped and logged, since one bad monitor should not hide the others.
func Discover(sysfsRoot string) ([]Connector, error) {
	if sysfsRoot == "" {
		sysfsRoot = "/sys"
	}

	matches, err := filepath.Glob(filepath.Join(sysfsRoot, "class", "drm", "*", "edid"))

	if err != nil {
		return nil, fmt.Errorf("failed to enumerate DRM connectors: %w", err)
	}

	sort.Strings(matches)
	connectors := []Connector{}

	for _, edidPath := range matches {
		connectorDir := filepath.Dir(edidPath)
		name := filepath.Base(connectorDir)

		edid, err := os.ReadFile(edidPath)

		if err != nil {
			logger.Debugf("skipping connector %s: %s", name, err.Error())
			continue
		}

		if len(edid) == 0 {
			continue
		}

		panel, err := ParseEDID(edid)

		if err != nil {
			logger.Warnf("skipping connector %s: %s", name, err.Error())
			continue
		}

		connected := true
		status, err := os.ReadFile(filepath.Join(connectorDir, "status"))

		if err == nil {
			connected = strings.TrimSpace(string(status)) == "connected"
		}

		connectors = append(connectors, Connector{
			Name:      name,
			Connected: connected,
			Panel:     panel,
		})
	}

	return connectors, nil
}

// FindPanel returns the first connected connector whose EDID vendor matches.
func FindPanel(connectors []Connector, vendor string) (*Connector, bool) {
	for i := range connectors {
		if connectors[i].Connected && connectors[i].Panel.Vendor == vendor {
			return &connectors[i], true
		}
	}

	return nil, false
}
