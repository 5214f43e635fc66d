package ui

import (
	"fmt"
	"strings"

	"github.com/muurk/devscan/internal/fingerprint"
)

// RenderFingerprints lists the table in classification order: position,
// display name and the substring that identifies it.
func RenderFingerprints(t fingerprint.Table) string {
	rows := make([]string, 0, len(t))
	for i, e := range t {
		match := e.Match
		if e.Templated {
			match += " (templated)"
		}
		rows = append(rows, fmt.Sprintf("  %s %s%s",
			ResultKeyStyle.Render(fmt.Sprintf("%3d", i+1)),
			DeviceNameStyle.Width(42).Render(e.Variant.String()),
			DeviceNoteStyle.Render(fmt.Sprintf("%q", match)),
		))
	}
	return strings.Join(rows, "\n")
}
