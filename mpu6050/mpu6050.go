// Package mpu6050 drives an InvenSense MPU6050 accelerometer, gyroscope and
// thermometer over a register transport.
//
// Register map: https://www.invensense.com/wp-content/uploads/2015/02/MPU-6000-Register-Map1.pdf
package mpu6050

import (
	"github.com/go-gl/mathgl/mgl64"
	log "github.com/sirupsen/logrus"

	pii2c "github.com/hardcodead/go-pi-i2c"
)

const (
	DefaultAddress   = 0x68
	AlternateAddress = 0x69 // AD0 pulled high

	GravityMS2 = 9.80665

	// UnknownRange is returned by the range decoders for unrecognised codes.
	UnknownRange = -1
)

// Registers
const (
	RegPowerMgmt1  = 0x6B
	RegPowerMgmt2  = 0x6C
	RegAccelXOut   = 0x3B
	RegAccelYOut   = 0x3D
	RegAccelZOut   = 0x3F
	RegTempOut     = 0x41
	RegGyroXOut    = 0x43
	RegGyroYOut    = 0x45
	RegGyroZOut    = 0x47
	RegAccelConfig = 0x1C
	RegGyroConfig  = 0x1B
)

type AccelRange byte

const (
	AccelRange2G  = AccelRange(0x00)
	AccelRange4G  = AccelRange(0x08)
	AccelRange8G  = AccelRange(0x10)
	AccelRange16G = AccelRange(0x18)
)

type GyroRange byte

const (
	GyroRange250Deg  = GyroRange(0x00)
	GyroRange500Deg  = GyroRange(0x08)
	GyroRange1000Deg = GyroRange(0x10)
	GyroRange2000Deg = GyroRange(0x18)
)

// Scale modifiers, raw counts per g or per deg/s.
const (
	AccelScale2G  = 16384.0
	AccelScale4G  = 8192.0
	AccelScale8G  = 4096.0
	AccelScale16G = 2048.0

	GyroScale250Deg  = 131.0
	GyroScale500Deg  = 65.5
	GyroScale1000Deg = 32.8
	GyroScale2000Deg = 16.4
)

// Reading is one full sample of the sensor.
type Reading struct {
	Temperature float64    // degrees Celsius
	Accel       mgl64.Vec3 // m/s^2
	Gyro        mgl64.Vec3 // deg/s
}

type MPU6050 struct {
	bus     pii2c.Transport
	log     log.FieldLogger
	strict  bool
	precise bool
}

type Option func(*MPU6050)

// WithLogger sets the logger used for range fallback warnings.
func WithLogger(l log.FieldLogger) Option {
	return func(m *MPU6050) { m.log = l }
}

// WithStrictRanges makes data reads fail with an UnknownConfigurationError
// instead of falling back to the lowest range.
func WithStrictRanges() Option {
	return func(m *MPU6050) { m.strict = true }
}

// WithPreciseTemperature divides the raw temperature as a float instead of
// truncating it to whole steps of 340.
func WithPreciseTemperature() Option {
	return func(m *MPU6050) { m.precise = true }
}

// New binds the driver to t and wakes the sensor, which powers up asleep.
func New(t pii2c.Transport, opts ...Option) (*MPU6050, error) {
	m := NewWithoutWake(t, opts...)
	if err := m.Wake(); err != nil {
		return nil, err
	}
	return m, nil
}

// NewWithoutWake binds the driver to t without touching the device.
func NewWithoutWake(t pii2c.Transport, opts ...Option) *MPU6050 {
	m := &MPU6050{
		bus: t,
		log: log.StandardLogger(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Wake clears the sleep bit in PWR_MGMT_1.
func (m *MPU6050) Wake() error {
	return m.bus.WriteByte(RegPowerMgmt1, 0x00)
}

// DecodeSigned reinterprets a 16 bit register pair as two's complement.
func DecodeSigned(v uint16) int {
	if v >= 0x8000 {
		return -(65536 - int(v))
	}
	return int(v)
}

// ReadWord reads reg and reg+1 as a big-endian signed word.
func (m *MPU6050) ReadWord(reg byte) (int, error) {
	high, err := m.bus.ReadByte(reg)
	if err != nil {
		return 0, err
	}
	low, err := m.bus.ReadByte(reg + 1)
	if err != nil {
		return 0, err
	}
	return DecodeSigned(uint16(high)<<8 | uint16(low)), nil
}

// Temperature returns the die temperature in degrees Celsius.
func (m *MPU6050) Temperature() (float64, error) {
	raw, err := m.ReadWord(RegTempOut)
	if err != nil {
		return 0, err
	}
	if m.precise {
		return float64(raw)/340 + 36.53, nil
	}
	return float64(raw/340) + 36.53, nil
}

// Read samples temperature, acceleration in m/s^2 and rotation.
func (m *MPU6050) Read() (r Reading, err error) {
	if r.Temperature, err = m.Temperature(); err != nil {
		return
	}
	if r.Accel, err = m.AccelData(false); err != nil {
		return
	}
	r.Gyro, err = m.GyroData()
	return
}

func (m *MPU6050) readAxes(x, y, z byte) (v mgl64.Vec3, err error) {
	for i, reg := range [3]byte{x, y, z} {
		var w int
		if w, err = m.ReadWord(reg); err != nil {
			return
		}
		v[i] = float64(w)
	}
	return
}

func scaled(v mgl64.Vec3, s float64) mgl64.Vec3 {
	return mgl64.Vec3{v[0] / s, v[1] / s, v[2] / s}
}

// scale resolves the modifier for a range register, logging and falling back
// on unknown values unless the driver is strict.
func (m *MPU6050) scale(raw byte, lookup func(byte) (float64, error)) (float64, error) {
	s, err := lookup(raw)
	if err != nil {
		if m.strict {
			return 0, err
		}
		m.log.WithError(err).WithField("scale", s).Warnln("unknown range, using lowest range scale")
	}
	return s, nil
}
