package libdisplayconfig

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// A display mode, passed into GenerateEDID() and returned by ParseEDID().
type Mode struct {
	Width   int `yaml:"width"`   // active horizontal pixels
	Height  int `yaml:"height"`  // active vertical lines
	Refresh int `yaml:"refresh"` // refresh rate in Hz
}

// A physical display panel as described by its EDID.
type Panel struct {
	Vendor      string // three letter PNP manufacturer ID, e.g. "OVR"
	ProductCode uint16
	Serial      uint32
	Name        string // monitor name descriptor, up to 13 characters

	WidthMM  int // physical image width in millimetres
	HeightMM int // physical image height in millimetres

	// The first mode is the preferred timing.
	Modes []Mode
}

// WidthMetres returns the physical panel width in metres.
func (p *Panel) WidthMetres() float32 {
	return float32(p.WidthMM) / 1000
}

// HeightMetres returns the physical panel height in metres.
func (p *Panel) HeightMetres() float32 {
	return float32(p.HeightMM) / 1000
}

// Preferred returns the preferred mode of the panel.
func (p *Panel) Preferred() (Mode, bool) {
	if len(p.Modes) == 0 {
		return Mode{}, false
	}

	return p.Modes[0], true
}

var edidHeader = []byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}

const (
	edidBlockSize      = 128
	descriptorSize     = 18
	firstDescriptorPos = 54
	descriptorCount    = 4

	descriptorTagName = 0xFC
)

// GenerateEDID accepts a panel description and returns a 128-byte EDID block.
//
// The first mode is treated as the preferred timing. One descriptor slot is reserved for the
// monitor name, so up to 3 modes are inserted into the detailed timing descriptor slots.
func GenerateEDID(panel Panel) ([]byte, error) {
	if len(panel.Modes) == 0 {
		return nil, errors.New("at least one mode must be provided")
	}

	if len(panel.Modes) > descriptorCount-1 {
		return nil, fmt.Errorf("too much modes")
	}

	manuID, err := encodeVendor(panel.Vendor)

	if err != nil {
		return nil, err
	}

	edid := make([]byte, edidBlockSize)
	copy(edid[0:8], edidHeader)

	binary.BigEndian.PutUint16(edid[8:10], manuID)
	binary.LittleEndian.PutUint16(edid[10:12], panel.ProductCode)
	binary.LittleEndian.PutUint32(edid[12:16], panel.Serial)

	// Manufacture week and year (offset from 1990).
	edid[16] = 5
	edid[17] = 23

	// EDID 1.4
	edid[18] = 1
	edid[19] = 4

	// Digital input, 8 bits per primary, DisplayPort-agnostic interface.
	edid[20] = 0x80 | (0x3 << 4)

	// Maximum image size in centimetres, rounded.
	edid[21] = byte(math.Round(float64(panel.WidthMM) / 10))
	edid[22] = byte(math.Round(float64(panel.HeightMM) / 10))

	// Display gamma = (gamma*100)-100; for gamma 2.2, that's 220-100 = 120.
	edid[23] = 220 - 100

	// Feature support: preferred timing mode includes native pixel format.
	edid[24] = 0x0A

	// Chromaticity coordinates; fixed sRGB-ish values.
	chroma := []byte{0x78, 0xEA, 0x3D, 0xA2, 0x57, 0x4A, 0x9C, 0x25, 0x12, 0x50}
	copy(edid[25:35], chroma)

	// No established timings; standard timings all unused (0x0101).
	for i := 38; i < 54; i++ {
		edid[i] = 0x01
	}

	currOffsetPosition := firstDescriptorPos

	for _, mode := range panel.Modes {
		dtd, err := buildDTD(mode, panel.WidthMM, panel.HeightMM)

		if err != nil {
			return nil, err
		}

		copy(edid[currOffsetPosition:currOffsetPosition+descriptorSize], dtd)
		currOffsetPosition += descriptorSize
	}

	copy(edid[currOffsetPosition:currOffsetPosition+descriptorSize], buildNameDescriptor(panel.Name))
	currOffsetPosition += descriptorSize

	for currOffsetPosition < firstDescriptorPos+descriptorCount*descriptorSize {
		copy(edid[currOffsetPosition:currOffsetPosition+descriptorSize], buildDummyDescriptor())
		currOffsetPosition += descriptorSize
	}

	// No extension blocks.
	edid[126] = 0x00
	edid[127] = checksum(edid[:127])

	return edid, nil
}

// buildDTD builds an 18-byte Detailed Timing Descriptor for the given Mode.
func buildDTD(m Mode, widthMM, heightMM int) ([]byte, error) {
	if m.Width <= 0 || m.Height <= 0 || m.Refresh <= 0 {
		return nil, fmt.Errorf("invalid mode %dx%d@%d", m.Width, m.Height, m.Refresh)
	}

	if m.Width > 0xFFF || m.Height > 0xFFF {
		return nil, fmt.Errorf("mode %dx%d exceeds detailed timing limits", m.Width, m.Height)
	}

	dtd := make([]byte, descriptorSize)

	hActive := m.Width
	vActive := m.Height

	// Heuristic: horizontal blanking is 15% of active width, at least 8 pixels, rounded to even.
	hBlank := roundEven(float64(m.Width) * 0.15)

	if hBlank < 8 {
		hBlank = 8
	}

	hSyncOffset := roundEven(float64(hBlank) / 4.0)
	hSyncWidth := roundEven(float64(hBlank) / 8.0)

	// Back porch (hBlank - (hSyncOffset + hSyncWidth)) has to stay positive.
	if hBlank <= (hSyncOffset + hSyncWidth) {
		hBlank = hSyncOffset + hSyncWidth + 2
		hSyncOffset = roundEven(float64(hBlank) / 4.0)
		hSyncWidth = roundEven(float64(hBlank) / 8.0)
	}

	totalH := hActive + hBlank

	// Vertical blanking: 5% of active height, at least 2 lines.
	vBlank := roundEven(float64(m.Height) * 0.05)

	if vBlank < 2 {
		vBlank = 2
	}

	totalV := vActive + vBlank

	pixelClockHz := float64(totalH * totalV * m.Refresh)
	pixelClock := math.Round(pixelClockHz / 10000.0) // in 10 kHz units

	if pixelClock > math.MaxUint16 {
		return nil, fmt.Errorf("mode %dx%d@%d exceeds pixel clock limit", m.Width, m.Height, m.Refresh)
	}

	binary.LittleEndian.PutUint16(dtd[0:2], uint16(pixelClock))

	dtd[2] = byte(hActive & 0xFF)
	dtd[3] = byte(hBlank & 0xFF)
	dtd[4] = byte(((hActive>>8)&0x0F)<<4 | ((hBlank >> 8) & 0x0F))

	dtd[5] = byte(vActive & 0xFF)
	dtd[6] = byte(vBlank & 0xFF)
	dtd[7] = byte(((vActive>>8)&0x0F)<<4 | ((vBlank >> 8) & 0x0F))

	dtd[8] = byte(hSyncOffset & 0xFF)
	dtd[9] = byte(hSyncWidth & 0xFF)

	// Vertical sync offset and width are fixed: offset = 3, width = 5.
	vSyncOffset := 3
	vSyncWidth := 5
	dtd[10] = byte(((vSyncOffset & 0x0F) << 4) | (vSyncWidth & 0x0F))

	hsyncOffsetUpper := (hSyncOffset >> 8) & 0x03
	hsyncWidthUpper := (hSyncWidth >> 8) & 0x03
	dtd[11] = byte((hsyncOffsetUpper << 6) | (hsyncWidthUpper << 4))

	dtd[12] = byte(widthMM & 0xFF)
	dtd[13] = byte(heightMM & 0xFF)
	dtd[14] = byte(((widthMM>>8)&0x0F)<<4 | ((heightMM >> 8) & 0x0F))

	// Non-interlaced, digital separate sync.
	dtd[17] = 0x18

	return dtd, nil
}

// buildNameDescriptor returns the monitor name descriptor (tag 0xFC).
func buildNameDescriptor(name string) []byte {
	desc := make([]byte, descriptorSize)
	desc[3] = descriptorTagName

	str := []byte(name)

	if len(str) > 13 {
		str = str[:13]
	}

	n := copy(desc[5:], str)

	if n < 13 {
		desc[5+n] = '\n'

		for i := 5 + n + 1; i < descriptorSize; i++ {
			desc[i] = ' '
		}
	}

	return desc
}

// buildDummyDescriptor returns an 18-byte dummy descriptor (tag 0x10).
func buildDummyDescriptor() []byte {
	dummy := make([]byte, descriptorSize)
	dummy[3] = 0x10

	return dummy
}

// encodeVendor packs a three letter PNP ID into the compressed ASCII form used by EDID.
func encodeVendor(vendor string) (uint16, error) {
	if len(vendor) != 3 {
		return 0, fmt.Errorf("vendor ID %q must be three letters", vendor)
	}

	var id uint16

	for i := 0; i < 3; i++ {
		c := vendor[i]

		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("vendor ID %q must be upper case letters", vendor)
		}

		id = id<<5 | uint16(c-'A'+1)
	}

	return id, nil
}

// checksum returns the byte that makes the sum of the block 0 mod 256.
func checksum(block []byte) byte {
	sum := 0

	for _, b := range block {
		sum += int(b)
	}

	return byte((256 - (sum % 256)) % 256)
}

// roundEven rounds x to the nearest even integer.
func roundEven(x float64) int {
	n := int(math.Round(x))
	if n%2 != 0 {
		return n - 1
	}
	return n
}
