package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"
)

// Console draws the 16x2 display as a bordered panel on a terminal.
// On a terminal each render redraws the panel in place; any other writer
// gets one frame per render, appended.
type Console struct {
	w      io.Writer
	tty    bool
	height int // rows of the last frame written, 0 before the first
	lines  [Lines]string

	panel   lipgloss.Style
	plain   lipgloss.Style
	far     lipgloss.Style
	near    lipgloss.Style
	warning lipgloss.Style
}

// NewConsole creates a console display writing to w. Colours follow the
// capabilities of w, so a non-terminal writer gets plain text.
func NewConsole(w io.Writer) *Console {
	tty := false
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		tty = term.IsTerminal(f.Fd())
	}
	return newConsole(w, tty)
}

func newConsole(w io.Writer, tty bool) *Console {
	r := lipgloss.NewRenderer(w)

	c := &Console{
		w:   w,
		tty: tty,
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00AA22")).
			Padding(0, 1),
		plain:   r.NewStyle(),
		far:     r.NewStyle().Foreground(lipgloss.Color("#00CC33")),
		near:    r.NewStyle().Foreground(lipgloss.Color("#FFAA00")).Bold(true),
		warning: r.NewStyle().Foreground(lipgloss.Color("#FF3300")).Bold(true).Blink(true),
	}
	for i := range c.lines {
		c.lines[i] = Fit("")
	}
	return c
}

// RenderLine replaces line and redraws the panel.
func (c *Console) RenderLine(line int, text string) error {
	if err := checkLine(line); err != nil {
		return err
	}
	c.lines[line] = Fit(text)

	rows := make([]string, Lines)
	for i, l := range c.lines {
		rows[i] = c.styleFor(l).Render(l)
	}

	panel := c.panel.Render(strings.Join(rows, "\n"))
	frame := panel
	if c.tty && c.height > 0 {
		// Back to the top-left corner of the previous frame.
		frame = ansi.CursorUp(c.height) + "\r" + panel
	}
	if _, err := fmt.Fprintln(c.w, frame); err != nil {
		return fmt.Errorf("write console: %w", err)
	}
	c.height = lipgloss.Height(panel)
	return nil
}

// Screen returns the current text of both lines.
func (c *Console) Screen() [Lines]string {
	return c.lines
}

func (c *Console) styleFor(line string) lipgloss.Style {
	switch strings.TrimSpace(line) {
	case "Far":
		return c.far
	case "Near":
		return c.near
	case "Warning":
		return c.warning
	}
	return c.plain
}
