// Package display renders status text onto a two-line character display.
package display

import (
	"errors"

	"github.com/sweeney/proximity-monitor/internal/logic"
)

// Sink renders fixed-width text onto one display line.
type Sink interface {
	// RenderLine overwrites line (0 or 1) with text, padded or truncated to Width.
	RenderLine(line int, text string) error
}

const (
	// Lines is the number of display lines.
	Lines = 2
	// Width is the number of characters per line. Status texts are padded to
	// exactly this width.
	Width = logic.StatusWidth
)

// Line indexes.
const (
	LineHeader = 0
	LineStatus = 1
)

// ErrLineRange is returned for a line index outside 0..Lines-1.
var ErrLineRange = errors.New("display: line out of range")

// Fit pads text with spaces to Width, truncating longer input.
func Fit(text string) string {
	return logic.Pad(text)
}

func checkLine(line int) error {
	if line < 0 || line >= Lines {
		return ErrLineRange
	}
	return nil
}
