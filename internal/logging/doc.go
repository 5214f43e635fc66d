// Package logging provides structured logging for devscan.
//
// This package wraps a global zap logger with convenience functions. Logging
// is silent unless a level is configured, so the curated terminal output of
// the CLI (progress bar, device table) is not interleaved with log lines.
//
// # Log Levels
//
//   - Debug: per-probe outcomes, unreadable bodies
//   - Info: scan start and finish, server requests, websocket clients
//   - Warn: recovered worker panics, failed publishes, enrichment failures
//   - Error: startup failures
//
// # Configuration
//
// The level comes from the --log-level flag or the DEVSCAN_LOG_LEVEL
// environment variable:
//
//	if err := logging.Initialize(logLevel); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// Logs are written to stderr in console format:
//
//	2026-03-02T10:30:45.123Z  INFO  Scan started  {"pattern": "10.208.x.x", "addresses": 65025}
//
// Set DEVSCAN_LOG_FORMAT=json for one JSON object per line, which suits
// "devscan serve" running under a supervisor.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. SetLogger must not be
// called while other goroutines are logging.
package logging
