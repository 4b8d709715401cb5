package pii2ctest

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// Bus is an i2c.BusCloser that routes transactions to a Recorder per
// address: a one byte write followed by a one byte read is a register read,
// a two byte write is a register write, a lone byte is a raw write.
type Bus struct {
	Devices map[uint16]*Recorder
	Closed  bool
}

func NewBus(devices ...*Recorder) *Bus {
	b := &Bus{Devices: make(map[uint16]*Recorder)}
	for _, d := range devices {
		b.Devices[d.Addr] = d
	}
	return b
}

func (b *Bus) String() string { return "pii2ctest" }

func (b *Bus) Tx(addr uint16, w, r []byte) error {
	d, ok := b.Devices[addr]
	if !ok {
		return fmt.Errorf("no device at 0x%02x", addr)
	}
	switch {
	case len(w) == 1 && len(r) == 1:
		v, err := d.ReadByte(w[0])
		r[0] = v
		return err
	case len(w) == 2 && len(r) == 0:
		return d.WriteByte(w[0], w[1])
	case len(w) == 1 && len(r) == 0:
		return d.WriteRaw(w[0])
	}
	return fmt.Errorf("unsupported transaction w=%d r=%d", len(w), len(r))
}

func (b *Bus) SetSpeed(physic.Frequency) error { return nil }

func (b *Bus) Close() error {
	b.Closed = true
	return nil
}

var _ i2c.BusCloser = (*Bus)(nil)
