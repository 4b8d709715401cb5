package mpu6050

import (
	"github.com/go-gl/mathgl/mgl64"

	pii2c "github.com/hardcodead/go-pi-i2c"
)

// SetAccelRange clears ACCEL_CONFIG and then writes r.
func (m *MPU6050) SetAccelRange(r AccelRange) error {
	if err := m.bus.WriteByte(RegAccelConfig, 0x00); err != nil {
		return err
	}
	return m.bus.WriteByte(RegAccelConfig, byte(r))
}

// ReadRawAccelRange returns the ACCEL_CONFIG register as is.
func (m *MPU6050) ReadRawAccelRange() (byte, error) {
	return m.bus.ReadByte(RegAccelConfig)
}

// AccelRangeG returns the configured range in g, or UnknownRange.
func (m *MPU6050) AccelRangeG() (int, error) {
	raw, err := m.ReadRawAccelRange()
	if err != nil {
		return UnknownRange, err
	}
	return DecodeAccelRange(raw), nil
}

// DecodeAccelRange maps an ACCEL_CONFIG value to its range in g.
func DecodeAccelRange(raw byte) int {
	switch AccelRange(raw) {
	case AccelRange2G:
		return 2
	case AccelRange4G:
		return 4
	case AccelRange8G:
		return 8
	case AccelRange16G:
		return 16
	}
	return UnknownRange
}

// AccelScale returns the modifier for an ACCEL_CONFIG value. Unknown values
// yield the 2G modifier together with an UnknownConfigurationError.
func AccelScale(raw byte) (float64, error) {
	switch AccelRange(raw) {
	case AccelRange2G:
		return AccelScale2G, nil
	case AccelRange4G:
		return AccelScale4G, nil
	case AccelRange8G:
		return AccelScale8G, nil
	case AccelRange16G:
		return AccelScale16G, nil
	}
	return AccelScale2G, &pii2c.UnknownConfigurationError{Register: RegAccelConfig, Value: raw}
}

// Accel returns the acceleration in m/s^2.
func (m *MPU6050) Accel() (mgl64.Vec3, error) {
	return m.AccelData(false)
}

// AccelData returns the acceleration in g when inGravity is set, otherwise
// in m/s^2. The range register is read on every call.
func (m *MPU6050) AccelData(inGravity bool) (mgl64.Vec3, error) {
	v, err := m.readAxes(RegAccelXOut, RegAccelYOut, RegAccelZOut)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	raw, err := m.ReadRawAccelRange()
	if err != nil {
		return mgl64.Vec3{}, err
	}
	s, err := m.scale(raw, AccelScale)
	if err != nil {
		return mgl64.Vec3{}, err
	}

	v = scaled(v, s)
	if !inGravity {
		v = v.Mul(GravityMS2)
	}
	return v, nil
}

// AccelRangeFromG returns the range code for 2, 4, 8 or 16 g.
func AccelRangeFromG(g int) (AccelRange, bool) {
	switch g {
	case 2:
		return AccelRange2G, true
	case 4:
		return AccelRange4G, true
	case 8:
		return AccelRange8G, true
	case 16:
		return AccelRange16G, true
	}
	return 0, false
}
