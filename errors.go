package pii2c

import (
	"errors"
	"fmt"
)

// NoRegister marks a TransportError raised by a register-less write.
const NoRegister = -1

var (
	ErrTransport            = errors.New("i2c transport failure")
	ErrUnknownConfiguration = errors.New("unknown configuration value")
)

// TransportError is a bus level fault: device absent, NACK or timeout.
// Drivers never retry on it.
type TransportError struct {
	Op   string
	Addr uint16
	Reg  int
	Err  error
}

func (e *TransportError) Error() string {
	switch {
	case e.Op == "init" || e.Op == "open":
		return fmt.Sprintf("i2c %s: %v", e.Op, e.Err)
	case e.Reg == NoRegister:
		return fmt.Sprintf("i2c %s 0x%02x: %v", e.Op, e.Addr, e.Err)
	}
	return fmt.Sprintf("i2c %s 0x%02x reg 0x%02x: %v", e.Op, e.Addr, e.Reg, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// UnknownConfigurationError reports a config register holding a value
// outside the known enumeration. Drivers treat it as a warning and fall
// back to a default unless told otherwise.
type UnknownConfigurationError struct {
	Register byte
	Value    byte
}

func (e *UnknownConfigurationError) Error() string {
	return fmt.Sprintf("register 0x%02x holds unknown value 0x%02x", e.Register, e.Value)
}

func (e *UnknownConfigurationError) Is(target error) bool {
	return target == ErrUnknownConfiguration
}
