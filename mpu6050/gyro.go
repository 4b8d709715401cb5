package mpu6050

import (
	"github.com/go-gl/mathgl/mgl64"

	pii2c "github.com/hardcodead/go-pi-i2c"
)

// SetGyroRange clears GYRO_CONFIG and then writes r.
func (m *MPU6050) SetGyroRange(r GyroRange) error {
	if err := m.bus.WriteByte(RegGyroConfig, 0x00); err != nil {
		return err
	}
	return m.bus.WriteByte(RegGyroConfig, byte(r))
}

// ReadRawGyroRange returns the GYRO_CONFIG register as is.
func (m *MPU6050) ReadRawGyroRange() (byte, error) {
	return m.bus.ReadByte(RegGyroConfig)
}

// GyroRangeDeg returns the configured range in deg/s, or UnknownRange.
func (m *MPU6050) GyroRangeDeg() (int, error) {
	raw, err := m.ReadRawGyroRange()
	if err != nil {
		return UnknownRange, err
	}
	return DecodeGyroRange(raw), nil
}

func DecodeGyroRange(raw byte) int {
	switch GyroRange(raw) {
	case GyroRange250Deg:
		return 250
	case GyroRange500Deg:
		return 500
	case GyroRange1000Deg:
		return 1000
	case GyroRange2000Deg:
		return 2000
	}
	return UnknownRange
}

// GyroScale returns the modifier for a GYRO_CONFIG value, falling back to
// the 250 deg/s modifier.
func GyroScale(raw byte) (float64, error) {
	switch GyroRange(raw) {
	case GyroRange250Deg:
		return GyroScale250Deg, nil
	case GyroRange500Deg:
		return GyroScale500Deg, nil
	case GyroRange1000Deg:
		return GyroScale1000Deg, nil
	case GyroRange2000Deg:
		return GyroScale2000Deg, nil
	}
	return GyroScale250Deg, &pii2c.UnknownConfigurationError{Register: RegGyroConfig, Value: raw}
}

// GyroData returns the rotation rate in deg/s.
func (m *MPU6050) GyroData() (mgl64.Vec3, error) {
	v, err := m.readAxes(RegGyroXOut, RegGyroYOut, RegGyroZOut)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	raw, err := m.ReadRawGyroRange()
	if err != nil {
		return mgl64.Vec3{}, err
	}
	s, err := m.scale(raw, GyroScale)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return scaled(v, s), nil
}

// GyroRangeFromDeg returns the range code for 250, 500, 1000 or 2000 deg/s.
func GyroRangeFromDeg(deg int) (GyroRange, bool) {
	switch deg {
	case 250:
		return GyroRange250Deg, true
	case 500:
		return GyroRange500Deg, true
	case 1000:
		return GyroRange1000Deg, true
	case 2000:
		return GyroRange2000Deg, true
	}
	return 0, false
}
