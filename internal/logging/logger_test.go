package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")

	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be silent when no level is configured")
	}
}

func TestInitialize_FromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")

	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	core := GetLogger().Core()
	if core.Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !core.Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled at warn level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogProbe(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	LogProbe("10.0.5.1", "timeout", zap.Int("status_code", 0))

	entries := logs.FilterMessage("Probe finished").All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["addr"] != "10.0.5.1" {
		t.Errorf("addr = %v, want 10.0.5.1", fields["addr"])
	}
	if fields["outcome"] != "timeout" {
		t.Errorf("outcome = %v, want timeout", fields["outcome"])
	}
}

func TestNewConfig_Format(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"", "console"},
		{"console", "console"},
		{"JSON", "json"},
	}
	for _, tt := range tests {
		cfg := newConfig(zapcore.DebugLevel, tt.format)
		if cfg.Encoding != tt.want {
			t.Errorf("newConfig(%q).Encoding = %q, want %q", tt.format, cfg.Encoding, tt.want)
		}
		if cfg.Level.Level() != zapcore.DebugLevel {
			t.Errorf("newConfig(%q).Level = %v, want debug", tt.format, cfg.Level.Level())
		}
	}
}
