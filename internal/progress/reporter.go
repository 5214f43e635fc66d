package progress

import (
	"fmt"

	"github.com/muurk/devscan/internal/events"
)

// Status is how the reporter finished.
type Status int

const (
	// StatusComplete means every host was counted
	StatusComplete Status = iota
	// StatusStopped means a close event (or a closed channel) ended reporting early
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusComplete:
		return "complete"
	case StatusStopped:
		return "stopped early"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Indicator renders progress. Methods are only ever called from the
// reporter goroutine.
type Indicator interface {
	Increment()
	Println(line string)
	Finish(status Status)
}

// state of the consumption loop
type state int

const (
	draining state = iota
	drained
)

// Run consumes progress events until total increments have been counted
// or a close event arrives, then finalizes ind and returns the status.
func Run(total int, in <-chan events.Progress, ind Indicator) Status {
	count := 0
	st, status := draining, StatusComplete
	if total <= 0 {
		st = drained
	}

	for st == draining {
		ev, ok := <-in
		if !ok {
			st, status = drained, StatusStopped
			break
		}

		switch ev.Kind {
		case events.ProgressIncrement:
			count++
			ind.Increment()
			if count >= total {
				st = drained
			}
		case events.ProgressMessage:
			ind.Println(ev.Text)
		case events.ProgressClose:
			st, status = drained, StatusStopped
		}
	}

	ind.Finish(status)
	return status
}

// Nop is an Indicator that renders nothing.
type Nop struct{}

func (Nop) Increment()     {}
func (Nop) Println(string) {}
func (Nop) Finish(Status)  {}
