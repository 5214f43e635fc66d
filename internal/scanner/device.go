package scanner

import "github.com/muurk/devscan/internal/fingerprint"

// Device is a host that answered a probe.
type Device struct {
	Address    string
	Variant    fingerprint.Variant
	Title      string
	StatusCode int

	// Filled in by enrichment after the scan, when requested.
	Hostname string
	MAC      string
	Vendor   string
}

// FormatLine renders d as a result-file line: "<address>:<display name>".
func FormatLine(d Device) string {
	return d.Address + ":" + d.Variant.String()
}

// Lines formats every device with FormatLine.
func Lines(devices []Device) []string {
	lines := make([]string, 0, len(devices))
	for _, d := range devices {
		lines = append(lines, FormatLine(d))
	}
	return lines
}
