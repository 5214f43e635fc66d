package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultType is the outcome a result box reports.
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// outcomeLook is how one ResultType is drawn.
type outcomeLook struct {
	label  string
	marker string
	color  lipgloss.Color
	title  lipgloss.Style
}

var outcomeLooks = map[ResultType]outcomeLook{
	ResultSuccess: {"COMPLETE", SuccessMarker, SuccessColor, SuccessTitleStyle},
	ResultWarning: {"STOPPED", WarningMarker, WarningColor, WarningTitleStyle},
	ResultFailure: {"FAILED", FailureMarker, ErrorColor, ErrorTitleStyle},
}

func (t ResultType) look() outcomeLook {
	if l, ok := outcomeLooks[t]; ok {
		return l
	}
	return outcomeLooks[ResultSuccess]
}

// String returns the label shown in the box title.
func (t ResultType) String() string {
	return t.look().label
}

// Result is a bordered box closing a command's output: a scan summary, a
// stopped scan or a failure with troubleshooting tips.
type Result struct {
	Type            ResultType
	Title           string
	Details         []Param
	Error           error    // failures only
	Troubleshooting []string // failures only
	Width           int
}

func newResult(t ResultType, title string) *Result {
	return &Result{Type: t, Title: title, Width: GetTerminalWidth()}
}

// NewSuccessResult creates a success box listing details in order.
func NewSuccessResult(title string, details ...Param) *Result {
	r := newResult(ResultSuccess, title)
	r.Details = details
	return r
}

// NewWarningResult creates a warning box listing details in order.
func NewWarningResult(title string, details ...Param) *Result {
	r := newResult(ResultWarning, title)
	r.Details = details
	return r
}

// NewFailureResult creates a failure box for err.
func NewFailureResult(title string, err error, troubleshooting []string) *Result {
	r := newResult(ResultFailure, title)
	r.Error = err
	r.Troubleshooting = troubleshooting
	return r
}

// SetWidth overrides the detected terminal width.
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail appends a key-value line.
func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Param{Key: key, Value: value})
	return r
}

// Render draws the box.
func (r *Result) Render() string {
	width := max(r.Width, MinTerminalWidth)
	look := r.Type.look()

	body := []string{
		"",
		look.title.Render(fmt.Sprintf("   %s  %s  ─  %s", look.marker, look.label, r.Title)),
		"",
	}

	for _, d := range r.Details {
		body = append(body, ResultKeyStyle.Render("   "+d.Key+":")+" "+ResultValueStyle.Render(d.Value))
	}
	if len(r.Details) > 0 {
		body = append(body, "")
	}

	if r.Error != nil {
		body = append(body, ErrorMessageStyle.Render("   Error: "+r.Error.Error()), "")
	}
	if len(r.Troubleshooting) > 0 {
		body = append(body, renderTips(width, r.Troubleshooting), "")
	}

	return BoxStyle(width, look.color).Render(strings.Join(body, "\n"))
}

// renderTips draws the troubleshooting list in a rounded box nested inside
// the result box.
func renderTips(width int, tips []string) string {
	lines := make([]string, 0, len(tips)+2)
	lines = append(lines, TroubleshootingTitleStyle.Render("Troubleshooting:"), "")
	for _, tip := range tips {
		lines = append(lines, TroubleshootingItemStyle.Render("  "+BulletMarker+" "+tip))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(max(width-12, 40)).
		Padding(0, 1).
		MarginLeft(3).
		Render(strings.Join(lines, "\n"))
}

func (r *Result) String() string {
	return r.Render()
}
