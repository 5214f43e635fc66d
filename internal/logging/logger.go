package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger    *zap.Logger
	nopLogger = zap.NewNop()
)

// Environment variables read when no level is given on the command line.
// An unset level keeps logging silent. The format is "console" (default)
// or "json".
const (
	LogLevelEnvVar  = "DEVSCAN_LOG_LEVEL"
	LogFormatEnvVar = "DEVSCAN_LOG_FORMAT"
)

// Initialize installs a stderr logger at level, falling back to
// DEVSCAN_LOG_LEVEL. With neither set every log call is discarded.
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	if level == "" {
		logger = nopLogger
		return nil
	}

	l, err := newConfig(ParseLevel(level), os.Getenv(LogFormatEnvVar)).Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	return nil
}

func newConfig(level zapcore.Level, format string) zap.Config {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeCaller = zapcore.ShortCallerEncoder

	encoding := "console"
	if strings.EqualFold(format, "json") {
		encoding = "json"
		enc.EncodeLevel = zapcore.LowercaseLevelEncoder
	} else {
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         encoding,
		EncoderConfig:    enc,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
}

// ParseLevel maps a level name to a zap level. Unknown names map to info.
func ParseLevel(level string) zapcore.Level {
	if strings.EqualFold(level, "warning") {
		return zapcore.WarnLevel
	}
	l, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Silent until initialized so library code never writes to the terminal
		return nopLogger
	}
	return logger
}

// SetLogger replaces the global logger. Intended for tests and embedding.
func SetLogger(l *zap.Logger) {
	logger = l
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogScanStart logs the parameters of a scan run
func LogScanStart(pattern string, addresses, threads int, timeoutMs int64) {
	Info("Scan started",
		zap.String("pattern", pattern),
		zap.Int("addresses", addresses),
		zap.Int("threads", threads),
		zap.Int64("timeout_ms", timeoutMs),
	)
}

// LogProbe logs the outcome of a single probe at debug level
func LogProbe(addr string, outcome string, fields ...zap.Field) {
	Debug("Probe finished",
		append([]zap.Field{
			zap.String("addr", addr),
			zap.String("outcome", outcome),
		}, fields...)...,
	)
}

// LogHTTPRequest logs a request handled by the control server
func LogHTTPRequest(remoteAddr string, method string, path string, statusCode int) {
	Info("HTTP request",
		zap.String("remote_addr", remoteAddr),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", statusCode),
	)
}

// LogConnection logs a connection event
func LogConnection(remoteAddr string, event string) {
	Info("Connection event",
		zap.String("remote_addr", remoteAddr),
		zap.String("event", event),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
