package lcd

import (
	"sync"

	rpio "github.com/stianeikeland/go-rpio"
)

var (
	rpioLock     sync.Mutex
	rpioPrepared bool
)

// OpenGPIO maps the Pi GPIO registers. GPIO backends call it on demand.
func OpenGPIO() error {
	rpioLock.Lock()
	defer rpioLock.Unlock()
	if rpioPrepared {
		return nil
	}
	if err := rpio.Open(); err != nil {
		return err
	}
	rpioPrepared = true
	return nil
}

func CloseGPIO() error {
	rpioLock.Lock()
	defer rpioLock.Unlock()
	if !rpioPrepared {
		return nil
	}
	rpioPrepared = false
	return rpio.Close()
}

// Pin is the part of rpio.Pin the GPIO backend drives.
type Pin interface {
	Output()
	High()
	Low()
}

// GPIO replays the expander port byte onto a display wired straight to the
// Pi in 4-bit mode: bit 0 RS, bit 2 E, bits 4-7 D4-D7. RW is assumed tied
// low and the backlight bit is ignored.
type GPIO struct {
	RS, E    Pin
	DataPins [4]Pin
}

// NewGPIO sets up BCM pins rs, e and d4-d7 as outputs.
func NewGPIO(rs, e int, data [4]int) (*GPIO, error) {
	if err := OpenGPIO(); err != nil {
		return nil, err
	}
	g := &GPIO{
		RS: rpio.Pin(rs),
		E:  rpio.Pin(e),
	}
	for i, d := range data {
		g.DataPins[i] = rpio.Pin(d)
	}
	g.initPins()
	return g, nil
}

// WriteRaw sets every pin from its bit in value.
func (g *GPIO) WriteRaw(value byte) error {
	setBitToPin(g.RS, value, RegisterSelect)
	// offset for highest order bits
	base := uint8(0x10)
	for i, dataPin := range g.DataPins {
		setBitToPin(dataPin, value, base<<uint8(i))
	}
	setBitToPin(g.E, value, Enable)
	return nil
}

// setBitToPin function sets given pin to a bit value from a given data int
func setBitToPin(pin Pin, data, position uint8) {
	if data&position == position {
		pin.High()
	} else {
		pin.Low()
	}
}

func (g *GPIO) initPins() {
	g.RS.Output()
	g.E.Output()
	for _, d := range g.DataPins {
		d.Output()
	}
}
