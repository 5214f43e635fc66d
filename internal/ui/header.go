package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Param is one labelled value in a header or result box. Params render in
// the order given.
type Param struct {
	Key   string
	Value string
}

// Header opens a command's output: an upper-cased title, the command line
// that was run and the parameters it resolved to.
type Header struct {
	Title   string
	Command string
	Params  []Param
	Width   int
}

// NewHeader creates a header sized to the terminal.
func NewHeader(title, command string, params ...Param) *Header {
	return &Header{Title: title, Command: command, Params: params, Width: GetTerminalWidth()}
}

// SetWidth overrides the detected terminal width.
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render draws the header box.
func (h *Header) Render() string {
	width := max(h.Width, MinTerminalWidth)

	sections := []string{
		HeaderTitleStyle.Render(strings.ToUpper(h.Title)),
		HeaderCommandStyle.Render(h.Command),
	}
	if len(h.Params) > 0 {
		sections = append(sections, RenderHorizontalDivider(width-6, "─"))
		for _, p := range h.Params {
			sections = append(sections, HeaderParamKeyStyle.Render(p.Key+":")+" "+HeaderParamValueStyle.Render(p.Value))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (h *Header) String() string {
	return h.Render()
}
