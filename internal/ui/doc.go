// Package ui provides terminal UI components for the devscan CLI.
//
// This package uses Bubble Tea and Lipgloss to render scan output. Apart
// from the live progress display, components follow a "render once and
// print" pattern and never wait for user interaction.
//
// # Components
//
//   - Header: command banner showing the subnet, host count and threads
//   - TeaIndicator / BarIndicator: progress displays driven by the
//     progress reporter, printing per-host lines above the bar
//   - Result: complete, stopped and failed boxes with styled details
//   - RenderDevices: one row per responding host
//
// NewIndicator picks TeaIndicator when stdout is a terminal and the plain
// progressbar rendition otherwise, so piped output stays readable.
//
// # Logging Integration
//
// Logging is controlled via the DEVSCAN_LOG_LEVEL environment variable.
// When unset or empty, zap logging is silent, so the curated UI output is
// displayed cleanly. Set DEVSCAN_LOG_LEVEL to "debug", "info", "warn", or
// "error" to enable logging output on stderr.
package ui
