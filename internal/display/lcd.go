package display

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

// HD44780 instructions, sent through the backpack's command escape.
const (
	cmdEscape = 0xFE

	cmdFunctionSet = 0x38 // 8-bit bus, 2 lines, 5x7 font
	cmdDisplayOn   = 0x0C // display on, cursor off
	cmdEntryMode   = 0x06 // increment cursor after each write
	cmdClear       = 0x01

	cmdLine0 = 0x80 // DDRAM address of line 0, column 0
	cmdLine1 = 0xC0 // DDRAM address of line 1, column 0
)

var lineAddr = [Lines]byte{cmdLine0, cmdLine1}

// LCD drives an HD44780 16x2 module behind a serial backpack. Plain bytes are
// printed at the cursor; bytes after 0xFE are passed through as instructions.
type LCD struct {
	port io.WriteCloser
}

// OpenLCD opens the serial port at path and initializes the display.
func OpenLCD(path string, opts PortOptions) (*LCD, error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, fmt.Errorf("lcd port options: %w", err)
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open lcd port %s: %w", path, err)
	}

	lcd, err := NewLCD(port)
	if err != nil {
		port.Close()
		return nil, err
	}
	return lcd, nil
}

// NewLCD initializes a display on an already open port.
func NewLCD(port io.WriteCloser) (*LCD, error) {
	l := &LCD{port: port}
	for _, c := range []byte{cmdFunctionSet, cmdDisplayOn, cmdEntryMode, cmdClear} {
		if err := l.command(c); err != nil {
			return nil, fmt.Errorf("init lcd: %w", err)
		}
	}
	return l, nil
}

// RenderLine moves the cursor to the start of line and writes text.
func (l *LCD) RenderLine(line int, text string) error {
	if err := checkLine(line); err != nil {
		return err
	}

	buf := make([]byte, 0, 2+Width)
	buf = append(buf, cmdEscape, lineAddr[line])
	buf = append(buf, Fit(text)...)

	if _, err := l.port.Write(buf); err != nil {
		return fmt.Errorf("write lcd line %d: %w", line, err)
	}
	return nil
}

// Close releases the serial port.
func (l *LCD) Close() error {
	return l.port.Close()
}

func (l *LCD) command(c byte) error {
	_, err := l.port.Write([]byte{cmdEscape, c})
	return err
}
