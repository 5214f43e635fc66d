package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/devscan/internal/fingerprint"
	reporter "github.com/muurk/devscan/internal/progress"
	"github.com/muurk/devscan/internal/scanner"
)

func TestScanModel_Update(t *testing.T) {
	var m tea.Model = newScanModel("Scanning", 3)

	for i := 0; i < 5; i++ {
		m, _ = m.Update(incrementMsg{})
	}
	sm := m.(scanModel)
	if sm.done != 3 {
		t.Errorf("done = %d, want 3 (capped at total)", sm.done)
	}
	if !strings.Contains(sm.View(), "[3/3]") {
		t.Errorf("View() = %q, want counter [3/3]", sm.View())
	}

	m, cmd := m.Update(finishMsg{status: reporter.StatusStopped})
	if cmd == nil {
		t.Fatal("Update(finishMsg) returned nil cmd, want tea.Quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("Update(finishMsg) cmd produced %T, want tea.QuitMsg", cmd())
	}
	if !strings.Contains(m.View(), "stopped early") {
		t.Errorf("View() after stop = %q, want status", m.View())
	}
}

func TestScanModel_ZeroTotal(t *testing.T) {
	m := newScanModel("Scanning", 0)
	if got := m.percent(); got != 1 {
		t.Errorf("percent() = %v, want 1", got)
	}
}

func TestScanModel_WindowSize(t *testing.T) {
	var m tea.Model = newScanModel("Scanning", 10)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	if got := m.(scanModel).bar.Width; got != 50 {
		t.Errorf("bar width = %d, want 50", got)
	}
	m, _ = m.Update(tea.WindowSizeMsg{Width: 30, Height: 40})
	if got := m.(scanModel).bar.Width; got != 20 {
		t.Errorf("bar width = %d, want 20", got)
	}
}

func TestBarIndicator(t *testing.T) {
	var buf bytes.Buffer
	ind := NewBarIndicator("Scanning", 3, &buf)

	ind.Increment()
	ind.Println("Valid device page on 10.0.0.1: Cisco Router")
	ind.Increment()
	ind.Increment()
	ind.Finish(reporter.StatusComplete)

	if !strings.Contains(buf.String(), "Valid device page on 10.0.0.1: Cisco Router\n") {
		t.Errorf("output = %q, want the printed line", buf.String())
	}
}

func TestBarIndicator_Stopped(t *testing.T) {
	var buf bytes.Buffer
	ind := NewBarIndicator("Scanning", 10, &buf)
	ind.Increment()
	ind.Finish(reporter.StatusStopped)

	if !strings.Contains(buf.String(), "stopped early") {
		t.Errorf("output = %q, want stopped status", buf.String())
	}
}

func TestHeader_ParamOrder(t *testing.T) {
	h := NewHeader("Device scan", "devscan -i 10.0.x.x",
		Param{Key: "Subnet", Value: "10.0.x.x"},
		Param{Key: "Hosts", Value: "65025"},
		Param{Key: "Threads", Value: "20"},
	).SetWidth(80)

	out := h.Render()
	if !strings.Contains(out, "DEVICE SCAN") {
		t.Errorf("Render() missing upper-cased title: %q", out)
	}
	subnet := strings.Index(out, "Subnet:")
	hosts := strings.Index(out, "Hosts:")
	threads := strings.Index(out, "Threads:")
	if subnet < 0 || !(subnet < hosts && hosts < threads) {
		t.Errorf("params not rendered in order: %q", out)
	}
}

func TestScanSummary_Result(t *testing.T) {
	s := ScanSummary{
		Pattern: "10.0.0.x",
		Hosts:   255,
		Devices: []scanner.Device{
			{Address: "10.0.0.1", Variant: fingerprint.CiscoRouter{}},
			{Address: "10.0.0.2", Variant: fingerprint.Unidentified{}},
		},
		Status:     reporter.StatusComplete,
		Elapsed:    1500 * time.Millisecond,
		OutputFile: "devices.txt",
	}

	if got := s.Identified(); got != 1 {
		t.Errorf("Identified() = %d, want 1", got)
	}

	r := s.Result()
	if r.Type != ResultSuccess {
		t.Errorf("Result().Type = %v, want ResultSuccess", r.Type)
	}
	details := map[string]string{}
	for _, d := range r.Details {
		details[d.Key] = d.Value
	}
	if details["Responded"] != "2" || details["Identified"] != "1" || details["Results"] != "devices.txt" {
		t.Errorf("Result().Details = %v", r.Details)
	}

	s.Status = reporter.StatusStopped
	if r := s.Result(); r.Type != ResultWarning {
		t.Errorf("stopped Result().Type = %v, want ResultWarning", r.Type)
	}
}

func TestRenderDevices(t *testing.T) {
	out := RenderDevices([]scanner.Device{
		{Address: "10.0.0.1", Variant: fingerprint.CiscoRouter{}, Hostname: "gw.lan"},
		{Address: "10.0.0.2", Variant: fingerprint.Unidentified{}, Title: "Welcome"},
	})
	for _, want := range []string{"10.0.0.1", "Cisco Router", "gw.lan", "Unidentified", "Welcome"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderDevices() missing %q in %q", want, out)
		}
	}

	out = RenderDevices([]scanner.Device{
		{Address: "10.0.0.3", Variant: fingerprint.HPPrinter{Model: fingerprint.UnknownLaserJet}},
		{Address: "10.0.0.4", Variant: fingerprint.HPPrinter{Model: fingerprint.LaserJetM506}},
	})
	if strings.Count(out, "model not catalogued") != 1 {
		t.Errorf("RenderDevices() = %q, want one uncatalogued note", out)
	}

	if out := RenderDevices(nil); !strings.Contains(out, "No devices") {
		t.Errorf("RenderDevices(nil) = %q", out)
	}
}

func TestFailureResult(t *testing.T) {
	out := NewFailureResult("Scan failed", errors.New("boom"), []string{"check the subnet"}).SetWidth(80).Render()
	for _, want := range []string{"FAILED", "boom", "check the subnet"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q", want)
		}
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yes", true},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		got := Confirm(strings.NewReader(tt.input), &out, "Overwrite config", []string{"existing file"}, "Continue?")
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Continue? [y/N]") {
			t.Errorf("Confirm(%q) output missing prompt", tt.input)
		}
	}
}

func TestRenderFingerprints(t *testing.T) {
	table := fingerprint.Table{
		{Variant: fingerprint.CiscoRouter{}, Match: "cisco.com"},
		{Variant: fingerprint.FileMaker{}, Match: "http://" + fingerprint.AddressPlaceholder + "/fmi", Templated: true},
	}

	out := RenderFingerprints(table)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("RenderFingerprints() rendered %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "1") || !strings.Contains(lines[0], "Cisco Router") {
		t.Errorf("first line = %q, want position and name", lines[0])
	}
	if !strings.Contains(lines[1], "(templated)") {
		t.Errorf("second line = %q, want templated marker", lines[1])
	}
}

func TestResult_Labels(t *testing.T) {
	tests := []struct {
		result *Result
		want   string
	}{
		{NewSuccessResult("Scan complete", Param{Key: "Hosts probed", Value: "255"}), "COMPLETE"},
		{NewWarningResult("Scan stopped early"), "STOPPED"},
		{NewFailureResult("Scan failed", nil, nil), "FAILED"},
	}

	for _, tt := range tests {
		out := tt.result.SetWidth(80).Render()
		if !strings.Contains(out, tt.want) || !strings.Contains(out, tt.result.Title) {
			t.Errorf("Render() = %q, want label %q and title", out, tt.want)
		}
		if got := tt.result.Type.String(); got != tt.want {
			t.Errorf("Type.String() = %q, want %q", got, tt.want)
		}
	}
}
