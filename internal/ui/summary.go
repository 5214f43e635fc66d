package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/muurk/devscan/internal/fingerprint"
	reporter "github.com/muurk/devscan/internal/progress"
	"github.com/muurk/devscan/internal/scanner"
)

// ScanSummary is what the result box reports once a scan has finished.
type ScanSummary struct {
	Pattern    string
	Hosts      int
	Devices    []scanner.Device
	Status     reporter.Status
	Elapsed    time.Duration
	OutputFile string
	JSONFile   string
}

// Identified counts devices that matched a fingerprint.
func (s ScanSummary) Identified() int {
	n := 0
	for _, d := range s.Devices {
		if fingerprint.Identified(d.Variant) {
			n++
		}
	}
	return n
}

// Result converts the summary to a result box. A scan that stopped
// before every host was probed renders as a warning.
func (s ScanSummary) Result() *Result {
	details := []Param{
		{Key: "Subnet", Value: s.Pattern},
		{Key: "Hosts probed", Value: fmt.Sprintf("%d", s.Hosts)},
		{Key: "Responded", Value: fmt.Sprintf("%d", len(s.Devices))},
		{Key: "Identified", Value: fmt.Sprintf("%d", s.Identified())},
		{Key: "Elapsed", Value: s.Elapsed.Round(time.Millisecond).String()},
	}
	if s.OutputFile != "" {
		details = append(details, Param{Key: "Results", Value: s.OutputFile})
	}
	if s.JSONFile != "" {
		details = append(details, Param{Key: "JSON", Value: s.JSONFile})
	}

	if s.Status == reporter.StatusStopped {
		return NewWarningResult("Scan stopped early", details...)
	}
	return NewSuccessResult("Scan complete", details...)
}

// RenderDevices renders one row per device: address, display name and,
// when known, the page title and enrichment data.
func RenderDevices(devices []scanner.Device) string {
	if len(devices) == 0 {
		return UnidentifiedStyle.Render("  No devices responded.")
	}

	rows := make([]string, 0, len(devices))
	for _, d := range devices {
		name := DeviceNameStyle.Render(d.Variant.String())
		if !fingerprint.Identified(d.Variant) {
			name = UnidentifiedStyle.Render(d.Variant.String())
		}

		row := "  " + DeviceAddressStyle.Render(d.Address) + name
		if note := deviceNote(d); note != "" {
			row += "  " + DeviceNoteStyle.Render("("+note+")")
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func deviceNote(d scanner.Device) string {
	var parts []string
	if d.Title != "" && d.Title != d.Variant.String() {
		parts = append(parts, d.Title)
	}
	if hp, ok := d.Variant.(fingerprint.HPPrinter); ok && hp.Model.Unknown() {
		parts = append(parts, "model not catalogued")
	}
	if d.Hostname != "" {
		parts = append(parts, d.Hostname)
	}
	if d.MAC != "" {
		mac := d.MAC
		if d.Vendor != "" {
			mac += " " + d.Vendor
		}
		parts = append(parts, mac)
	}
	return strings.Join(parts, ", ")
}
