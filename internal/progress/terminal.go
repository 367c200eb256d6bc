package progress

import (
	"io"
	"os"

	"golang.org/x/term"
)

// TerminalCapabilities describes what the output terminal can render.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// ProgressSymbols are the status markers and spinner set for a terminal.
type ProgressSymbols struct {
	Checkmark  string
	Failure    string
	SpinnerSet int // index into spinner.CharSets
}

var (
	unicodeSymbols = ProgressSymbols{Checkmark: "✓", Failure: "✗", SpinnerSet: 14}
	asciiSymbols   = ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9}
)

// fder is implemented by *os.File.
type fder interface {
	Fd() uintptr
}

// DetectTerminalCapabilities inspects w. Anything that is not a terminal
// file descriptor (buffers, pipes, nil) gets plain line output.
// NO_COLOR disables color and CAMBI_ASCII=1 forces ASCII symbols.
func DetectTerminalCapabilities(w io.Writer) TerminalCapabilities {
	f, ok := w.(fder)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return TerminalCapabilities{}
	}

	caps := TerminalCapabilities{
		IsTTY:           true,
		SupportsColor:   os.Getenv("NO_COLOR") == "",
		SupportsUnicode: os.Getenv("CAMBI_ASCII") != "1",
	}
	if width, _, err := term.GetSize(int(f.Fd())); err == nil {
		caps.Width = width
	}
	return caps
}

// SelectSymbols picks braille spinner and check marks when the terminal
// renders Unicode, ASCII otherwise.
func SelectSymbols(caps TerminalCapabilities) ProgressSymbols {
	if caps.SupportsUnicode {
		return unicodeSymbols
	}
	return asciiSymbols
}
