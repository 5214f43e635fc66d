package probe

import (
	"context"
	"errors"
	"net"
	"net/url"
	"os"
	"syscall"
	"testing"
)

// timeoutError mimics a net.Error timeout
type timeoutError struct{}

func (e *timeoutError) Error() string   { return "i/o timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }

func dialErr(err error) error {
	return &url.Error{
		Op:  "Get",
		URL: "https://192.168.4.16/",
		Err: &net.OpError{
			Op:  "dial",
			Net: "tcp",
			Err: err,
		},
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType ErrorType
		wantMsg  string
	}{
		{
			name:     "dial timeout",
			err:      dialErr(&timeoutError{}),
			wantType: ErrTypeTimeout,
			wantMsg:  "request timed out",
		},
		{
			name:     "context deadline",
			err:      &url.Error{Op: "Get", URL: "https://192.168.4.16/", Err: context.DeadlineExceeded},
			wantType: ErrTypeTimeout,
			wantMsg:  "request timed out",
		},
		{
			name:     "connection refused",
			err:      dialErr(&os.SyscallError{Syscall: "connect", Err: syscall.ECONNREFUSED}),
			wantType: ErrTypeConnectionRefused,
			wantMsg:  "connection refused",
		},
		{
			name:     "host unreachable",
			err:      dialErr(syscall.EHOSTUNREACH),
			wantType: ErrTypeConnectionRefused,
			wantMsg:  "host unreachable",
		},
		{
			name:     "network unreachable",
			err:      dialErr(syscall.ENETUNREACH),
			wantType: ErrTypeConnectionRefused,
			wantMsg:  "network unreachable",
		},
		{
			name:     "reset while dialing",
			err:      dialErr(&os.SyscallError{Syscall: "connect", Err: syscall.ECONNRESET}),
			wantType: ErrTypeConnectionRefused,
			wantMsg:  "connection reset",
		},
		{
			name: "reset after connect",
			err: &url.Error{Op: "Get", URL: "https://192.168.4.16/", Err: &net.OpError{
				Op: "read", Net: "tcp", Err: &os.SyscallError{Syscall: "read", Err: syscall.ECONNRESET},
			}},
			wantType: ErrTypeOther,
			wantMsg:  "transport error",
		},
		{
			name:     "tls failure",
			err:      &url.Error{Op: "Get", URL: "https://192.168.4.16/", Err: errors.New("remote error: tls: handshake failure")},
			wantType: ErrTypeOther,
			wantMsg:  "transport error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probeErr := ClassifyError(tt.err, "192.168.4.16")
			if probeErr == nil {
				t.Fatal("Expected ProbeError, got nil")
			}
			if probeErr.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", probeErr.Type, tt.wantType)
			}
			if probeErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", probeErr.Message, tt.wantMsg)
			}
			if probeErr.Address != "192.168.4.16" {
				t.Errorf("Address = %q, want 192.168.4.16", probeErr.Address)
			}
			if !errors.Is(probeErr, tt.err) {
				t.Error("ProbeError should unwrap to the original error")
			}
		})
	}
}

func TestClassifyError_Nil(t *testing.T) {
	if got := ClassifyError(nil, "192.168.4.16"); got != nil {
		t.Errorf("ClassifyError(nil) = %v, want nil", got)
	}
}

func TestIsHelpers(t *testing.T) {
	timeout := ClassifyError(dialErr(&timeoutError{}), "a")
	refusedErr := ClassifyError(dialErr(syscall.ECONNREFUSED), "a")

	if !IsTimeout(timeout) || IsTimeout(refusedErr) {
		t.Error("IsTimeout() misclassified")
	}
	if !IsConnectionRefused(refusedErr) || IsConnectionRefused(timeout) {
		t.Error("IsConnectionRefused() misclassified")
	}
	if IsTimeout(errors.New("plain")) {
		t.Error("IsTimeout(plain error) = true")
	}
}

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		et   ErrorType
		want string
	}{
		{ErrTypeTimeout, "Timeout"},
		{ErrTypeConnectionRefused, "Connection Refused"},
		{ErrTypeOther, "Other"},
		{ErrorType(42), "ErrorType(42)"},
	}
	for _, tt := range tests {
		if got := tt.et.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
