package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Display reports steps on a terminal: a spinner while a step runs, then a
// checkmark or failure line. On anything but a terminal it prints nothing.
type Display struct {
	w       io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	spinner *spinner.Spinner
}

// NewDisplay returns a Display writing to w.
func NewDisplay(w io.Writer, caps TerminalCapabilities) *Display {
	symbols := SelectSymbols(caps)
	d := &Display{w: w, caps: caps, symbols: symbols}
	// Only a real terminal gets an animated spinner.
	if f, ok := w.(*os.File); ok && caps.IsTTY {
		d.spinner = spinner.New(spinner.CharSets[symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(f))
	}
	return d
}

// Start shows msg next to a running spinner.
func (d *Display) Start(msg string) {
	if d.spinner == nil {
		return
	}
	d.spinner.Suffix = " " + msg
	d.spinner.Start()
}

// Succeed stops the spinner and prints msg as a finished step.
func (d *Display) Succeed(msg string) {
	d.finish(d.symbols.Checkmark, msg)
}

// Fail stops the spinner and prints msg as a failed step.
func (d *Display) Fail(msg string) {
	d.finish(d.symbols.Failure, msg)
}

func (d *Display) finish(symbol, msg string) {
	if !d.caps.IsTTY {
		return
	}
	if d.spinner != nil {
		d.spinner.Stop()
	}
	fmt.Fprintf(d.w, "%s %s\n", symbol, msg)
}
