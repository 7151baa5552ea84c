package libtracker

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// SensorsReportID is the input report carrying IMU samples.
	SensorsReportID = 0x01
	// SensorsReportSize is the size of a full sensors report, including the report ID.
	SensorsReportSize = 62

	// Raw readings are fixed point with 1e-4 resolution.
	rawUnit = 0.0001

	maxSamplesPerReport = 3
	sampleOffset        = 8
	sampleSize          = 16
	magOffset           = 56
)

var ErrNotSensorsReport = errors.New("not a sensors report")

// A single accelerometer + gyro reading.
type Sample struct {
	Acceleration mgl32.Vec3 // m/s², HMD frame (x right, y up, z back)
	RotationRate mgl32.Vec3 // rad/s, HMD frame
}

// A decoded sensors report.
type SensorMessage struct {
	SampleCount   int    // samples produced since the previous report; may exceed len(Samples)
	Timestamp     uint16 // milliseconds, wrapping
	LastCommandID uint16
	Temperature   float32 // °C

	Samples       []Sample
	MagneticField mgl32.Vec3 // gauss
}

// DecodeSensors decodes a raw sensors input report.
func DecodeSensors(report []byte) (SensorMessage, error) {
	if len(report) == 0 || report[0] != SensorsReportID {
		return SensorMessage{}, ErrNotSensorsReport
	}

	if len(report) < SensorsReportSize {
		return SensorMessage{}, fmt.Errorf("sensors report too short: %d bytes", len(report))
	}

	msg := SensorMessage{
		SampleCount:   int(report[1]),
		Timestamp:     binary.LittleEndian.Uint16(report[2:4]),
		LastCommandID: binary.LittleEndian.Uint16(report[4:6]),
		Temperature:   float32(int16(binary.LittleEndian.Uint16(report[6:8]))) * 0.01,
	}

	count := min(msg.SampleCount, maxSamplesPerReport)
	msg.Samples = make([]Sample, count)

	for i := 0; i < count; i++ {
		raw := report[sampleOffset+i*sampleSize : sampleOffset+(i+1)*sampleSize]

		ax, ay, az := unpackSensor(raw[0:8])
		gx, gy, gz := unpackSensor(raw[8:16])

		msg.Samples[i] = Sample{
			Acceleration: mgl32.Vec3{float32(ax), float32(ay), float32(az)}.Mul(rawUnit),
			RotationRate: mgl32.Vec3{float32(gx), float32(gy), float32(gz)}.Mul(rawUnit),
		}
	}

	msg.MagneticField = mgl32.Vec3{
		float32(int16(binary.LittleEndian.Uint16(report[magOffset : magOffset+2]))),
		float32(int16(binary.LittleEndian.Uint16(report[magOffset+2 : magOffset+4]))),
		float32(int16(binary.LittleEndian.Uint16(report[magOffset+4 : magOffset+6]))),
	}.Mul(rawUnit)

	return msg, nil
}

// unpackSensor unpacks three big-endian signed 21-bit integers from 8 bytes.
func unpackSensor(b []byte) (int32, int32, int32) {
	x := uint32(b[0])<<13 | uint32(b[1])<<5 | uint32(b[2]&0xF8)>>3
	y := uint32(b[2]&0x07)<<18 | uint32(b[3])<<10 | uint32(b[4])<<2 | uint32(b[5]&0xC0)>>6
	z := uint32(b[5]&0x3F)<<15 | uint32(b[6])<<7 | uint32(b[7])>>1

	return signExtend21(x), signExtend21(y), signExtend21(z)
}

// packSensor is the inverse of unpackSensor.
func packSensor(x, y, z int32) []byte {
	ux := uint32(x) & 0x1FFFFF
	uy := uint32(y) & 0x1FFFFF
	uz := uint32(z) & 0x1FFFFF

	return []byte{
		byte(ux >> 13),
		byte(ux >> 5),
		byte(ux<<3) | byte(uy>>18),
		byte(uy >> 10),
		byte(uy >> 2),
		byte(uy<<6) | byte(uz>>15),
		byte(uz >> 7),
		byte(uz << 1),
	}
}

func signExtend21(v uint32) int32 {
	return int32(v<<11) >> 11
}

// EncodeKeepAlive builds the keep-alive feature report that keeps the tracker streaming for
// the given interval.
func EncodeKeepAlive(commandID uint16, intervalMS uint16) []byte {
	report := make([]byte, 5)
	report[0] = 0x08
	binary.LittleEndian.PutUint16(report[1:3], commandID)
	binary.LittleEndian.PutUint16(report[3:5], intervalMS)

	return report
}
