package display

// Render is a single recorded RenderLine call.
type Render struct {
	Line int
	Text string
}

// FakeSink records renders for test assertions.
type FakeSink struct {
	// Renders contains every successful render, in order.
	Renders []Render

	// Screen holds the current text of each line.
	Screen [Lines]string

	// RenderError, if set, will be returned by RenderLine.
	RenderError error

	// Attempts counts all RenderLine calls, including failed ones.
	Attempts int
}

// NewFakeSink creates a FakeSink for testing.
func NewFakeSink() *FakeSink {
	return &FakeSink{}
}

// RenderLine records the render.
func (f *FakeSink) RenderLine(line int, text string) error {
	f.Attempts++
	if err := checkLine(line); err != nil {
		return err
	}
	if f.RenderError != nil {
		return f.RenderError
	}

	f.Renders = append(f.Renders, Render{Line: line, Text: text})
	f.Screen[line] = Fit(text)
	return nil
}

// Reset clears recorded renders.
func (f *FakeSink) Reset() {
	f.Renders = nil
	f.Screen = [Lines]string{}
	f.RenderError = nil
	f.Attempts = 0
}
