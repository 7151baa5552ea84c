package libtracker

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildReport encodes raw (1e-4 unit) accel/gyro triples into a sensors report.
func buildReport(count int, timestamp uint16, accel, gyro [3]int32) []byte {
	report := make([]byte, SensorsReportSize)
	report[0] = SensorsReportID
	report[1] = byte(count)
	binary.LittleEndian.PutUint16(report[2:4], timestamp)
	binary.LittleEndian.PutUint16(report[4:6], 7)
	binary.LittleEndian.PutUint16(report[6:8], uint16(int16(2550)))

	for i := 0; i < min(count, maxSamplesPerReport); i++ {
		offset := sampleOffset + i*sampleSize
		copy(report[offset:offset+8], packSensor(accel[0], accel[1], accel[2]))
		copy(report[offset+8:offset+16], packSensor(gyro[0], gyro[1], gyro[2]))
	}

	magX := int16(-1200)
	binary.LittleEndian.PutUint16(report[magOffset:], uint16(magX))
	binary.LittleEndian.PutUint16(report[magOffset+2:], uint16(int16(300)))
	binary.LittleEndian.PutUint16(report[magOffset+4:], uint16(int16(4000)))

	return report
}

func TestPackUnpackSensor(t *testing.T) {
	cases := [][3]int32{
		{0, 0, 0},
		{1, -1, 2},
		{98066, -98066, 12345},
		{1<<20 - 1, -(1 << 20), -5},
	}

	for _, c := range cases {
		x, y, z := unpackSensor(packSensor(c[0], c[1], c[2]))
		assert.Equal(t, c, [3]int32{x, y, z})
	}
}

func TestDecodeSensors(t *testing.T) {
	report := buildReport(2, 1234, [3]int32{0, 98066, 0}, [3]int32{0, 10000, -5000})

	msg, err := DecodeSensors(report)
	require.NoError(t, err)

	assert.Equal(t, 2, msg.SampleCount)
	assert.Equal(t, uint16(1234), msg.Timestamp)
	assert.Equal(t, uint16(7), msg.LastCommandID)
	assert.InDelta(t, 25.5, msg.Temperature, 1e-4)
	require.Len(t, msg.Samples, 2)

	assert.InDelta(t, 9.8066, msg.Samples[0].Acceleration.Y(), 1e-4)
	assert.InDelta(t, 1.0, msg.Samples[1].RotationRate.Y(), 1e-5)
	assert.InDelta(t, -0.5, msg.Samples[1].RotationRate.Z(), 1e-5)

	assert.InDelta(t, -0.12, msg.MagneticField.X(), 1e-5)
	assert.InDelta(t, 0.4, msg.MagneticField.Z(), 1e-5)
}

func TestDecodeSensorsClampsSampleCount(t *testing.T) {
	msg, err := DecodeSensors(buildReport(9, 0, [3]int32{}, [3]int32{}))
	require.NoError(t, err)

	assert.Equal(t, 9, msg.SampleCount)
	assert.Len(t, msg.Samples, 3)
}

func TestDecodeSensorsRejects(t *testing.T) {
	_, err := DecodeSensors(nil)
	assert.ErrorIs(t, err, ErrNotSensorsReport)

	_, err = DecodeSensors([]byte{0x08, 0, 0})
	assert.ErrorIs(t, err, ErrNotSensorsReport)

	_, err = DecodeSensors([]byte{SensorsReportID, 1, 0})
	assert.Error(t, err)
}

func TestEncodeKeepAlive(t *testing.T) {
	assert.Equal(t, []byte{0x08, 0x02, 0x01, 0x10, 0x27}, EncodeKeepAlive(0x0102, 10000))
}
