// Package output persists scan results.
//
// The result file holds one "<address>:<device>" line per device. It is
// written in one of two ways:
//
//   - incrementally, by an Appender that owns the file for the whole scan
//     and appends each line as the device is found
//   - once at the end, by WriteSnapshot, which replaces the file atomically
//
// WriteJSON exports the same results with titles and enrichment data.
package output
