// Package pii2ctest provides an in-memory register transport for driver
// tests.
package pii2ctest

import (
	"errors"
	"fmt"

	pii2c "github.com/hardcodead/go-pi-i2c"
)

// ErrBus is the cause carried by injected faults.
var ErrBus = errors.New("simulated bus fault")

type OpKind int

const (
	Read OpKind = iota
	Write
	WriteRaw
)

func (k OpKind) String() string {
	switch k {
	case Read:
		return "read"
	case Write:
		return "write"
	case WriteRaw:
		return "raw"
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// Op is one recorded transport call. Reg is zero for raw writes.
type Op struct {
	Kind  OpKind
	Reg   byte
	Value byte
}

// Recorder backs registers with a map and records every call in order.
// Register writes update the map so a later read observes them.
type Recorder struct {
	Addr      uint16
	Registers map[byte]byte
	Ops       []Op

	// FailAt makes the FailAt-th call (1-based) and every later one fail.
	// Zero disables injection.
	FailAt int
	calls  int
}

func New(addr uint16) *Recorder {
	return &Recorder{Addr: addr, Registers: make(map[byte]byte)}
}

// SetWord stores v big-endian into reg and reg+1.
func (r *Recorder) SetWord(reg byte, v uint16) {
	r.Registers[reg] = byte(v >> 8)
	r.Registers[reg+1] = byte(v)
}

func (r *Recorder) ReadByte(reg byte) (byte, error) {
	if err := r.fail("read", int(reg)); err != nil {
		return 0, err
	}
	v := r.Registers[reg]
	r.Ops = append(r.Ops, Op{Kind: Read, Reg: reg, Value: v})
	return v, nil
}

func (r *Recorder) WriteByte(reg, value byte) error {
	if err := r.fail("write", int(reg)); err != nil {
		return err
	}
	r.Registers[reg] = value
	r.Ops = append(r.Ops, Op{Kind: Write, Reg: reg, Value: value})
	return nil
}

func (r *Recorder) WriteRaw(value byte) error {
	if err := r.fail("write", pii2c.NoRegister); err != nil {
		return err
	}
	r.Ops = append(r.Ops, Op{Kind: WriteRaw, Value: value})
	return nil
}

// Raw returns the values of every raw write in order.
func (r *Recorder) Raw() []byte {
	var out []byte
	for _, op := range r.Ops {
		if op.Kind == WriteRaw {
			out = append(out, op.Value)
		}
	}
	return out
}

// Writes returns the register writes in order.
func (r *Recorder) Writes() []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == Write {
			out = append(out, op)
		}
	}
	return out
}

// Reset clears recorded calls, keeping register contents.
func (r *Recorder) Reset() {
	r.Ops = nil
	r.calls = 0
}

func (r *Recorder) fail(op string, reg int) error {
	r.calls++
	if r.FailAt > 0 && r.calls >= r.FailAt {
		return &pii2c.TransportError{Op: op, Addr: r.Addr, Reg: reg, Err: ErrBus}
	}
	return nil
}

var _ pii2c.Transport = (*Recorder)(nil)
