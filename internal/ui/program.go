package ui

import (
	"fmt"
	"io"
	"os"
)

// Printer writes styled blocks to a command's output. Every block is
// followed by a blank line; Println writes a single unstyled line.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a Printer sized to the terminal. A nil w means
// os.Stdout.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{out: w, width: GetTerminalWidth()}
}

// Println writes content and a newline.
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

func (p *Printer) block(content string) {
	_, _ = fmt.Fprintf(p.out, "%s\n\n", content)
}

// PrintHeader prints the box that opens a command's output.
func (p *Printer) PrintHeader(title, command string, params ...Param) {
	p.block(NewHeader(title, command, params...).SetWidth(p.width).Render())
}

// PrintResult prints r at the printer's width.
func (p *Printer) PrintResult(r *Result) {
	p.block(r.SetWidth(p.width).Render())
}

// PrintError prints a failure box with troubleshooting tips.
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	p.PrintResult(NewFailureResult(title, err, troubleshooting))
}

// PrintSummary prints the device table followed by the result box.
func (p *Printer) PrintSummary(s ScanSummary) {
	p.block(RenderDevices(s.Devices))
	p.PrintResult(s.Result())
}
