// Package synchronized serializes access for callers that share one physical
// bus or one display between goroutines. The drivers themselves do no
// locking.
package synchronized

import (
	"fmt"
	"sync"

	pii2c "github.com/hardcodead/go-pi-i2c"
	"github.com/hardcodead/go-pi-i2c/lcd"
)

// Bus is a lock shared by every transport guarded through it.
type Bus struct {
	lock sync.Mutex
}

// Guard returns t with each transaction taken under the bus lock.
func (b *Bus) Guard(t pii2c.Transport) pii2c.Transport {
	return &guarded{bus: b, t: t}
}

// Do runs fn with the bus held. fn must use unguarded transports.
func (b *Bus) Do(fn func() error) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	return fn()
}

type guarded struct {
	bus *Bus
	t   pii2c.Transport
}

func (g *guarded) ReadByte(reg byte) (byte, error) {
	g.bus.lock.Lock()
	defer g.bus.lock.Unlock()
	return g.t.ReadByte(reg)
}

func (g *guarded) WriteByte(reg, value byte) error {
	g.bus.lock.Lock()
	defer g.bus.lock.Unlock()
	return g.t.WriteByte(reg, value)
}

func (g *guarded) WriteRaw(value byte) error {
	g.bus.lock.Lock()
	defer g.bus.lock.Unlock()
	return g.t.WriteRaw(value)
}

// SynchronizedLCD takes one lock around every display operation, so a
// multi-byte sequence from one goroutine is never interleaved with another.
type SynchronizedLCD struct {
	lcd.LCDI
	lock sync.Mutex
}

// NewSynchronizedLCD initializes l and wraps it.
func NewSynchronizedLCD(l lcd.LCDI) (*SynchronizedLCD, error) {
	if err := l.Initialize(); err != nil {
		return nil, err
	}
	return &SynchronizedLCD{LCDI: l}, nil
}

// WriteLines writes up to four lines starting at line 1, each padded or cut
// to the display width. Nothing is written for a width below one.
func (l *SynchronizedLCD) WriteLines(lines ...string) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	width := l.Width()
	if width <= 0 {
		return nil
	}
	for i, s := range lines {
		if i == 4 {
			break
		}
		s = fmt.Sprintf("%-*s", width, s)
		if err := l.LCDI.WriteString(s[:width], i+1); err != nil {
			return err
		}
	}
	return nil
}

func (l *SynchronizedLCD) WriteString(s string, line int) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.LCDI.WriteString(s, line)
}

func (l *SynchronizedLCD) Clear() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.LCDI.Clear()
}

func (l *SynchronizedLCD) Initialize() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.LCDI.Initialize()
}

func (l *SynchronizedLCD) ReturnHome() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.LCDI.ReturnHome()
}

func (l *SynchronizedLCD) EntryModeSet(increment, shift bool) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.LCDI.EntryModeSet(increment, shift)
}

func (l *SynchronizedLCD) DisplayMode(display, cursor, blink bool) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.LCDI.DisplayMode(display, cursor, blink)
}

func (l *SynchronizedLCD) Write(data byte, mode lcd.Mode) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.LCDI.Write(data, mode)
}

func (l *SynchronizedLCD) SetCursor(line, col int) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.LCDI.SetCursor(line, col)
}

func (l *SynchronizedLCD) CreateChar(position uint8, data lcd.Character) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.LCDI.CreateChar(position, data)
}
