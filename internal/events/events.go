package events

import "fmt"

// ProgressKind identifies a progress event.
type ProgressKind int

const (
	// ProgressIncrement marks one more host as finished
	ProgressIncrement ProgressKind = iota
	// ProgressMessage carries a log line to show alongside the indicator
	ProgressMessage
	// ProgressClose stops the reporter before the total is reached
	ProgressClose
)

func (k ProgressKind) String() string {
	switch k {
	case ProgressIncrement:
		return "increment"
	case ProgressMessage:
		return "message"
	case ProgressClose:
		return "close"
	default:
		return fmt.Sprintf("ProgressKind(%d)", int(k))
	}
}

// Progress is sent by probing workers to the progress reporter.
type Progress struct {
	Kind ProgressKind
	Text string
}

// Increment returns a ProgressIncrement event.
func Increment() Progress { return Progress{Kind: ProgressIncrement} }

// Message returns a ProgressMessage event carrying text.
func Message(text string) Progress { return Progress{Kind: ProgressMessage, Text: text} }

// CloseProgress returns a ProgressClose event.
func CloseProgress() Progress { return Progress{Kind: ProgressClose} }

// AppendKind identifies a result-file event.
type AppendKind int

const (
	// AppendAmendment carries one line to append to the result file
	AppendAmendment AppendKind = iota
	// AppendClose stops the appender
	AppendClose
)

// Append is sent by probing workers to the result appender.
type Append struct {
	Kind AppendKind
	Line string
}

// Amendment returns an AppendAmendment event carrying line.
func Amendment(line string) Append { return Append{Kind: AppendAmendment, Line: line} }

// CloseAppend returns an AppendClose event.
func CloseAppend() Append { return Append{Kind: AppendClose} }
