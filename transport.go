// Package pii2c holds the register transport shared by the MPU6050 and LCD
// drivers, and a Linux I2C backend for it built on periph.io.
package pii2c

import (
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// Transport is the byte-level register contract the drivers rely on.
type Transport interface {
	ReadByte(reg byte) (byte, error)
	WriteByte(reg, value byte) error
	WriteRaw(value byte) error
}

var (
	hostOnce sync.Once
	hostErr  error
)

// Init loads the periph host drivers. It is safe to call more than once.
func Init() error {
	hostOnce.Do(func() {
		_, hostErr = host.Init()
	})
	return hostErr
}

// OpenBus opens an I2C bus by name or number, "" picks the first bus found.
func OpenBus(name string) (i2c.BusCloser, error) {
	if err := Init(); err != nil {
		return nil, &TransportError{Op: "init", Err: err}
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, &TransportError{Op: "open", Err: err}
	}
	return bus, nil
}

// Device is a single peripheral at a fixed address on a bus.
type Device struct {
	dev    i2c.Dev
	closer i2c.BusCloser
}

// Bind attaches a device address to an already opened bus. The caller keeps
// ownership of the bus.
func Bind(bus i2c.Bus, addr uint16) *Device {
	return &Device{dev: i2c.Dev{Bus: bus, Addr: addr}}
}

// Open opens the named bus and binds addr on it. Closing the device closes
// the bus.
func Open(bus string, addr uint16) (*Device, error) {
	b, err := OpenBus(bus)
	if err != nil {
		return nil, err
	}
	return own(b, addr), nil
}

// own binds addr on b and hands the bus to the device.
func own(b i2c.BusCloser, addr uint16) *Device {
	d := Bind(b, addr)
	d.closer = b
	return d
}

// Addr returns the device address.
func (d *Device) Addr() uint16 {
	return d.dev.Addr
}

// ReadByte reads a single register.
func (d *Device) ReadByte(reg byte) (byte, error) {
	var r [1]byte
	if err := d.dev.Tx([]byte{reg}, r[:]); err != nil {
		return 0, d.fault("read", int(reg), err)
	}
	return r[0], nil
}

// WriteByte writes value into reg.
func (d *Device) WriteByte(reg, value byte) error {
	if err := d.dev.Tx([]byte{reg, value}, nil); err != nil {
		return d.fault("write", int(reg), err)
	}
	return nil
}

// WriteRaw writes a single byte with no register prefix.
func (d *Device) WriteRaw(value byte) error {
	if err := d.dev.Tx([]byte{value}, nil); err != nil {
		return d.fault("write", NoRegister, err)
	}
	return nil
}

// Close releases the bus if the device opened it.
func (d *Device) Close() error {
	if d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	if err != nil {
		return d.fault("close", NoRegister, err)
	}
	return nil
}

func (d *Device) fault(op string, reg int, err error) error {
	return &TransportError{Op: op, Addr: d.dev.Addr, Reg: reg, Err: err}
}
