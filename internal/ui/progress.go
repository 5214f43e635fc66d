package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/devscan/internal/logging"
	reporter "github.com/muurk/devscan/internal/progress"
)

type incrementMsg struct{}

type finishMsg struct {
	status reporter.Status
}

// scanModel is the Bubble Tea model behind TeaIndicator: a label, a bar
// and a host counter.
type scanModel struct {
	label    string
	total    int
	done     int
	bar      progress.Model
	finished bool
	status   reporter.Status
}

func newScanModel(label string, total int) scanModel {
	m := scanModel{
		label: label,
		total: total,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
		),
	}
	m.setWidth(GetTerminalWidth())
	return m
}

// setWidth sizes the bar to leave room for the percentage and counter
func (m *scanModel) setWidth(width int) {
	barWidth := width - 30
	if barWidth < 20 {
		barWidth = 20
	}
	if barWidth > 50 {
		barWidth = 50
	}
	m.bar.Width = barWidth
}

func (m scanModel) percent() float64 {
	if m.total <= 0 {
		return 1
	}
	return float64(m.done) / float64(m.total)
}

// Init implements tea.Model
func (m scanModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case incrementMsg:
		if m.done < m.total {
			m.done++
		}
	case finishMsg:
		m.finished = true
		m.status = msg.status
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.setWidth(msg.Width)
	}
	return m, nil
}

// View implements tea.Model
func (m scanModel) View() string {
	var b strings.Builder
	b.WriteString(ProgressLabelStyle.Render(m.label))
	b.WriteString("\n")

	counter := ProgressCountStyle.Render(fmt.Sprintf("[%d/%d]", m.done, m.total))
	line := fmt.Sprintf("%s  %3.0f%%  %s", m.bar.ViewAs(m.percent()), m.percent()*100, counter)
	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(line))
	b.WriteString("\n")

	if m.finished && m.status == reporter.StatusStopped {
		b.WriteString(WarningTitleStyle.Render(fmt.Sprintf("  %s  %s", WarningMarker, m.status)))
		b.WriteString("\n")
	}
	return b.String()
}

// TeaIndicator renders scan progress with a Bubble Tea program. Lines
// passed to Println are printed above the bar.
type TeaIndicator struct {
	program *tea.Program
	done    chan struct{}
}

// NewTeaIndicator starts the program on out. Input is not read so that
// Ctrl-C reaches the process as a signal.
func NewTeaIndicator(label string, total int, out io.Writer) *TeaIndicator {
	ind := &TeaIndicator{
		program: tea.NewProgram(newScanModel(label, total),
			tea.WithOutput(out),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(),
		),
		done: make(chan struct{}),
	}

	go func() {
		defer close(ind.done)
		if _, err := ind.program.Run(); err != nil {
			logging.Warn("Progress display failed", zap.Error(err))
		}
	}()
	return ind
}

// Increment implements progress.Indicator
func (t *TeaIndicator) Increment() {
	t.program.Send(incrementMsg{})
}

// Println implements progress.Indicator
func (t *TeaIndicator) Println(line string) {
	t.program.Println(line)
}

// Finish implements progress.Indicator. It waits for the final frame.
func (t *TeaIndicator) Finish(status reporter.Status) {
	t.program.Send(finishMsg{status: status})
	<-t.done
}
