package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // borders, dividers
	SuccessColor = lipgloss.Color("#43BF6D") // identified devices
	ErrorColor   = lipgloss.Color("#FF5555")
	WarningColor = lipgloss.Color("#FFA500") // stopped scans, prompts
	MutedColor   = lipgloss.Color("#626262")
	TextColor    = lipgloss.Color("#FFFFFF")
)

const (
	MinTerminalWidth = 60
	MaxContentWidth  = 100
)

// Column widths shared by the header, device table and result boxes.
const (
	paramKeyWidth  = 14
	addressWidth   = 18
	detailKeyWidth = 18
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func bold(c lipgloss.Color) lipgloss.Style {
	return fg(c).Bold(true)
}

// Header
var (
	HeaderTitleStyle      = bold(TextColor).PaddingLeft(2)
	HeaderCommandStyle    = fg(MutedColor).PaddingLeft(2)
	HeaderParamKeyStyle   = fg(MutedColor).PaddingLeft(2).Width(paramKeyWidth)
	HeaderParamValueStyle = fg(TextColor)
)

// Progress line
var (
	ProgressLabelStyle = fg(TextColor).PaddingLeft(2)
	ProgressCountStyle = fg(MutedColor)
)

// Device table
var (
	DeviceAddressStyle = fg(TextColor).Width(addressWidth)
	DeviceNameStyle    = fg(SuccessColor)
	UnidentifiedStyle  = fg(MutedColor) // answered without a known fingerprint
	DeviceNoteStyle    = fg(MutedColor).Italic(true)
)

// Result boxes
var (
	SuccessTitleStyle         = bold(SuccessColor)
	WarningTitleStyle         = bold(WarningColor)
	ErrorTitleStyle           = bold(ErrorColor)
	ErrorMessageStyle         = fg(ErrorColor)
	ResultKeyStyle            = fg(MutedColor).Width(detailKeyWidth)
	ResultValueStyle          = fg(TextColor)
	TroubleshootingTitleStyle = bold(MutedColor)
	TroubleshootingItemStyle  = fg(MutedColor)
)

const (
	SuccessMarker = "✓"
	FailureMarker = "✗"
	WarningMarker = "⚠"
	BulletMarker  = "•"
)

// GetTerminalWidth returns the stdout width clamped to
// [MinTerminalWidth, MaxContentWidth]. Non-terminals get the minimum.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MinTerminalWidth
	}
	return min(max(width, MinTerminalWidth), MaxContentWidth)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// BoxStyle is the double border drawn around result and warning boxes.
func BoxStyle(width int, color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(color).
		Width(width-2).
		Padding(0, 2)
}

// RenderHorizontalDivider draws width copies of char in the primary color.
func RenderHorizontalDivider(width int, char string) string {
	return fg(PrimaryColor).Render(strings.Repeat(char, width))
}
