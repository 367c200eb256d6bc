package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// spinnerDelay is the frame interval of the animated spinner.
const spinnerDelay = 100 * time.Millisecond

// Display reports the progress of a long-running step. On a TTY it animates
// a spinner; otherwise it prints one line per finished step.
type Display struct {
	w       io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols

	mu      sync.Mutex
	spinner *spinner.Spinner
	message string
}

// NewProgressDisplay creates a display writing to w.
func NewProgressDisplay(w io.Writer, caps TerminalCapabilities) *Display {
	return &Display{
		w:       w,
		caps:    caps,
		symbols: SelectSymbols(caps),
	}
}

// Start begins a step. A running step is replaced.
func (d *Display) Start(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopSpinner()
	d.message = message
	if !d.caps.IsTTY {
		return
	}

	s := spinner.New(spinner.CharSets[d.symbols.SpinnerSet], spinnerDelay, spinner.WithWriter(d.w))
	s.Suffix = " " + message
	if d.caps.SupportsColor {
		_ = s.Color("cyan")
	}
	s.Start()
	d.spinner = s
}

// Update changes the message of the running step.
func (d *Display) Update(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.message = message
	if d.spinner != nil {
		d.spinner.Lock()
		d.spinner.Suffix = " " + message
		d.spinner.Unlock()
	}
}

// Succeed ends the step with a success marker.
func (d *Display) Succeed(message string) {
	d.finish(d.symbols.Checkmark, color.FgGreen, message)
}

// Fail ends the step with a failure marker.
func (d *Display) Fail(message string) {
	d.finish(d.symbols.Failure, color.FgRed, message)
}

func (d *Display) finish(symbol string, attr color.Attribute, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopSpinner()
	if message == "" {
		message = d.message
	}
	d.message = ""

	if d.caps.SupportsColor {
		symbol = color.New(attr).Sprint(symbol)
	}
	fmt.Fprintf(d.w, "%s %s\n", symbol, message)
}

func (d *Display) stopSpinner() {
	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}
