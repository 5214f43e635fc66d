package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	reporter "github.com/muurk/devscan/internal/progress"
)

// BarIndicator renders scan progress as a plain text bar. It is used when
// output is not a terminal Bubble Tea can drive.
type BarIndicator struct {
	bar *progressbar.ProgressBar
	out io.Writer
}

// NewBarIndicator creates a bar of total hosts writing to out.
func NewBarIndicator(label string, total int, out io.Writer) *BarIndicator {
	return &BarIndicator{
		bar: progressbar.NewOptions(total,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription(label),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionSetPredictTime(false),
		),
		out: out,
	}
}

// Increment implements progress.Indicator
func (b *BarIndicator) Increment() {
	_ = b.bar.Add(1)
}

// Println implements progress.Indicator
func (b *BarIndicator) Println(line string) {
	_ = b.bar.Clear()
	_, _ = fmt.Fprintln(b.out, line)
	_ = b.bar.RenderBlank()
}

// Finish implements progress.Indicator
func (b *BarIndicator) Finish(status reporter.Status) {
	if status == reporter.StatusComplete {
		_ = b.bar.Finish()
	} else {
		_ = b.bar.Clear()
		_, _ = fmt.Fprintf(b.out, "%s  %s", WarningMarker, status)
	}
	_, _ = fmt.Fprintln(b.out)
}

// NewIndicator picks the progress display for a scan of total hosts on
// stdout: Bubble Tea on a terminal, a plain bar otherwise.
func NewIndicator(label string, total int) reporter.Indicator {
	if IsTerminal(os.Stdout) {
		return NewTeaIndicator(label, total, os.Stdout)
	}
	return NewBarIndicator(label, total, os.Stdout)
}
