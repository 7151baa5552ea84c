package libdisplayconfig

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrShortEDID   = errors.New("EDID block is shorter than 128 bytes")
	ErrBadHeader   = errors.New("EDID header mismatch")
	ErrBadChecksum = errors.New("EDID checksum mismatch")
)

// ParseEDID decodes the base block of an EDID blob.
//
// Only the fields needed to identify a panel are decoded: vendor, product, serial, monitor
// name, physical size and the detailed timings. Extension blocks are ignored.
func ParseEDID(edid []byte) (*Panel, error) {
	if len(edid) < edidBlockSize {
		return nil, ErrShortEDID
	}

	block := edid[:edidBlockSize]

	if !bytes.Equal(block[0:8], edidHeader) {
		return nil, ErrBadHeader
	}

	if checksum(block[:127]) != block[127] {
		return nil, ErrBadChecksum
	}

	panel := &Panel{
		Vendor:      decodeVendor(binary.BigEndian.Uint16(block[8:10])),
		ProductCode: binary.LittleEndian.Uint16(block[10:12]),
		Serial:      binary.LittleEndian.Uint32(block[12:16]),

		// Basic block sizes are in centimetres; refined below if a timing carries millimetres.
		WidthMM:  int(block[21]) * 10,
		HeightMM: int(block[22]) * 10,
	}

	sizeFromTiming := false

	for slot := 0; slot < descriptorCount; slot++ {
		desc := block[firstDescriptorPos+slot*descriptorSize : firstDescriptorPos+(slot+1)*descriptorSize]

		if desc[0] != 0 || desc[1] != 0 {
			mode, widthMM, heightMM, err := parseDTD(desc)

			if err != nil {
				return nil, fmt.Errorf("failed to parse detailed timing %d: %w", slot, err)
			}

			panel.Modes = append(panel.Modes, mode)

			if !sizeFromTiming && widthMM > 0 && heightMM > 0 {
				panel.WidthMM = widthMM
				panel.HeightMM = heightMM
				sizeFromTiming = true
			}

			continue
		}

		if desc[3] == descriptorTagName {
			panel.Name = decodeDescriptorString(desc[5:])
		}
	}

	return panel, nil
}

// parseDTD decodes an 18-byte Detailed Timing Descriptor.
func parseDTD(dtd []byte) (Mode, int, int, error) {
	pixelClock := int(binary.LittleEndian.Uint16(dtd[0:2]))

	hActive := int(dtd[2]) | int(dtd[4]>>4)<<8
	hBlank := int(dtd[3]) | int(dtd[4]&0x0F)<<8
	vActive := int(dtd[5]) | int(dtd[7]>>4)<<8
	vBlank := int(dtd[6]) | int(dtd[7]&0x0F)<<8

	widthMM := int(dtd[12]) | int(dtd[14]>>4)<<8
	heightMM := int(dtd[13]) | int(dtd[14]&0x0F)<<8

	totalH := hActive + hBlank
	totalV := vActive + vBlank

	if hActive == 0 || vActive == 0 || totalH == 0 || totalV == 0 {
		return Mode{}, 0, 0, fmt.Errorf("empty timing")
	}

	refresh := math.Round(float64(pixelClock) * 10000.0 / float64(totalH*totalV))

	return Mode{
		Width:   hActive,
		Height:  vActive,
		Refresh: int(refresh),
	}, widthMM, heightMM, nil
}

// decodeVendor unpacks the compressed three letter PNP ID.
func decodeVendor(id uint16) string {
	letters := []byte{
		byte((id>>10)&0x1F) + 'A' - 1,
		byte((id>>5)&0x1F) + 'A' - 1,
		byte(id&0x1F) + 'A' - 1,
	}

	return string(letters)
}

func decodeDescriptorString(raw []byte) string {
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		raw = raw[:i]
	}

	return strings.TrimRight(string(raw), " \x00")
}
