// Package lcd drives an HD44780 character display through a PCF8574 style
// I2C backpack. Every byte goes out as two nibbles on D4-D7, the low four
// lines of the expander carry RS, RW, E and the backlight.
package lcd

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Commands
const (
	ClearDisplay   = 0x01
	ReturnHome     = 0x02
	EntryModeSet   = 0x04
	DisplayControl = 0x08
	CursorShift    = 0x10
	FunctionSet    = 0x20
	SetCGRAMAddr   = 0x40
	SetDDRAMAddr   = 0x80
)

// Flags for entry mode
const (
	EntryRight          = 0x00
	EntryLeft           = 0x02
	EntryShiftIncrement = 0x01
	EntryShiftDecrement = 0x00
)

// Flags for display on/off control
const (
	DisplayOn  = 0x04
	DisplayOff = 0x00
	CursorOn   = 0x02
	CursorOff  = 0x00
	BlinkOn    = 0x01
	BlinkOff   = 0x00
)

// Flags for display/cursor shift
const (
	DisplayMove = 0x08
	CursorMove  = 0x00
	MoveRight   = 0x04
	MoveLeft    = 0x00
)

// Flags for function set
const (
	EightBitMode = 0x10
	FourBitMode  = 0x00
	TwoLine      = 0x08
	OneLine      = 0x00
	Dots5x10     = 0x04
	Dots5x8      = 0x00
)

// Expander control bits
const (
	Backlight      = 0x08
	NoBacklight    = 0x00
	Enable         = 0x04
	ReadWrite      = 0x02
	RegisterSelect = 0x01
)

// DDRAM base address for each line, as issued by WriteString.
const (
	Line1 = 0x08
	Line2 = 0xC0
	Line3 = 0x94
	Line4 = 0xD4
)

var lineAddress = map[int]byte{1: Line1, 2: Line2, 3: Line3, 4: Line4}

// row offsets into DDRAM used by SetCursor
var rowOffset = [4]byte{0x00, 0x40, 0x14, 0x54}

const maxColumn = 0x27

var (
	DefaultDelay = 1 * time.Millisecond
	SettleDelay  = 200 * time.Millisecond
)

// Mode selects the register a byte is written to.
type Mode byte

const (
	ModeCommand = Mode(0)
	ModeData    = Mode(RegisterSelect)
)

type Character [8]uint8

// Writer is a register-less single byte write onto the expander port.
type Writer interface {
	WriteRaw(value byte) error
}

type LCDI interface {
	Initialize() error
	ReturnHome() error
	EntryModeSet(increment, shift bool) error
	DisplayMode(display, cursor, blink bool) error
	Clear() error
	Write(data byte, mode Mode) error
	WriteString(s string, line int) error
	SetCursor(line, col int) error
	CreateChar(position uint8, data Character) error
	Width() int
}

// SetCustomCharacters stores characters in the top CGRAM slots.
func SetCustomCharacters(l LCDI, characters []Character) error {
	for index, chr := range characters {
		offset := 8 - len(characters) + index
		if offset < 0 {
			continue
		}
		if err := l.CreateChar(uint8(offset), chr); err != nil {
			return err
		}
	}
	return nil
}

type LCD struct {
	bus       Writer
	log       log.FieldLogger
	sleep     func(time.Duration)
	delay     time.Duration
	LineWidth int
}

type Option func(*LCD)

// WithSleep replaces time.Sleep for strobe and settle timing.
func WithSleep(sleep func(time.Duration)) Option {
	return func(l *LCD) { l.sleep = sleep }
}

// WithDelay sets the pause after each expander write.
func WithDelay(d time.Duration) Option {
	return func(l *LCD) { l.delay = d }
}

func WithLogger(logger log.FieldLogger) Option {
	return func(l *LCD) { l.log = logger }
}

func WithWidth(width int) Option {
	return func(l *LCD) { l.LineWidth = width }
}

func New(w Writer, opts ...Option) *LCD {
	l := &LCD{
		bus:       w,
		log:       log.StandardLogger(),
		sleep:     time.Sleep,
		delay:     DefaultDelay,
		LineWidth: 16,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *LCD) Width() int {
	return l.LineWidth
}

// Initialize forces the controller into 4-bit mode and sets up a two line
// display with the cursor hidden.
func (l *LCD) Initialize() error {
	for _, cmd := range []byte{
		0x03, 0x03, 0x03, 0x02,
		FunctionSet | TwoLine | Dots5x8 | FourBitMode,
		DisplayControl | DisplayOn,
		ClearDisplay,
		EntryModeSet | EntryLeft,
	} {
		if err := l.Write(cmd, ModeCommand); err != nil {
			return err
		}
	}
	// init time...
	l.sleep(SettleDelay)
	return nil
}

// ReturnHome function returns the cursor to home
func (l *LCD) ReturnHome() error {
	return l.Write(ReturnHome, ModeCommand)
}

func (l *LCD) EntryModeSet(increment, shift bool) error {
	instruction := byte(EntryModeSet)
	if increment {
		instruction |= EntryLeft
	}
	if shift {
		instruction |= EntryShiftIncrement
	}
	return l.Write(instruction, ModeCommand)
}

// DisplayMode function set the display modes
func (l *LCD) DisplayMode(display, cursor, blink bool) error {
	instruction := byte(DisplayControl)
	if display {
		instruction |= DisplayOn
	}
	if cursor {
		instruction |= CursorOn
	}
	if blink {
		instruction |= BlinkOn
	}
	return l.Write(instruction, ModeCommand)
}

// Shift moves the whole display, or only the cursor, one position.
func (l *LCD) Shift(display, right bool) error {
	instruction := byte(CursorShift)
	if display {
		instruction |= DisplayMove
	}
	if right {
		instruction |= MoveRight
	}
	return l.Write(instruction, ModeCommand)
}

// Clear function clears the screen and homes the cursor
func (l *LCD) Clear() error {
	if err := l.Write(ClearDisplay, ModeCommand); err != nil {
		return err
	}
	return l.Write(ReturnHome, ModeCommand)
}

// WriteString moves to the start of line (1-4) and writes s from there.
// Unknown lines fall back to line 1.
func (l *LCD) WriteString(s string, line int) error {
	addr, ok := lineAddress[line]
	if !ok {
		l.log.WithField("line", line).Warnln("invalid line number, writing to line 1")
		addr = Line1
	}
	if err := l.Write(addr, ModeCommand); err != nil {
		return err
	}
	for i := 0; i < len(s); i++ {
		if err := l.Write(s[i], ModeData); err != nil {
			return err
		}
	}
	return nil
}

// SetCursor moves the cursor to col on line (1-4). Out of range lines and
// columns are clamped to the 40 character DDRAM row.
func (l *LCD) SetCursor(line, col int) error {
	if line < 1 {
		line = 1
	} else if line > len(rowOffset) {
		line = len(rowOffset)
	}
	if col < 0 {
		col = 0
	} else if col > maxColumn {
		col = maxColumn
	}
	return l.Write(SetDDRAMAddr|(rowOffset[line-1]+byte(col)), ModeCommand)
}

// CreateChar writes a 5x8 glyph into CGRAM slot position (0-7).
func (l *LCD) CreateChar(position uint8, data Character) error {
	if position > 7 {
		l.log.WithField("position", position).Warnln("CGRAM slot out of range")
		return nil
	}
	if err := l.Write(SetCGRAMAddr|(position<<3), ModeCommand); err != nil {
		return err
	}
	for _, x := range data {
		if err := l.Write(x, ModeData); err != nil {
			return err
		}
	}
	return nil
}

// Write sends data as two nibbles, high first, with mode on the RS line.
func (l *LCD) Write(data byte, mode Mode) error {
	if err := l.Write4Bits(byte(mode) | data&0xF0); err != nil {
		return err
	}
	return l.Write4Bits(byte(mode) | (data<<4)&0xF0)
}

// Write4Bits puts a nibble on the data lines and latches it.
func (l *LCD) Write4Bits(data byte) error {
	if err := l.bus.WriteRaw(data | Backlight); err != nil {
		return err
	}
	l.sleep(l.delay)
	return l.Strobe(data)
}

// Strobe pulses the enable line so the controller reads the data lines.
func (l *LCD) Strobe(data byte) error {
	if err := l.bus.WriteRaw(data | Enable | Backlight); err != nil {
		return err
	}
	l.sleep(l.delay)
	if err := l.bus.WriteRaw(data&^Enable | Backlight); err != nil {
		return err
	}
	l.sleep(l.delay)
	return nil
}
