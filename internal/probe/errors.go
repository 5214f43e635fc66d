package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

// ErrorType is the category of a failed probe.
type ErrorType int

const (
	// ErrTypeTimeout indicates the host did not answer within the probe timeout
	ErrTypeTimeout ErrorType = iota
	// ErrTypeConnectionRefused indicates the host refused the connection or
	// could not be reached
	ErrTypeConnectionRefused
	// ErrTypeOther covers every other transport failure (TLS, protocol, DNS)
	ErrTypeOther
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeOther:
		return "Other"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// ProbeError describes why a host produced no response.
type ProbeError struct {
	Type    ErrorType // Category of error
	Message string    // Short description, e.g. "host unreachable"
	Address string    // Probed address
	Err     error     // Underlying transport error
}

// Error implements the error interface
func (e *ProbeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ProbeError) Unwrap() error {
	return e.Err
}

// ClassifyError maps a transport error from an HTTP request to a ProbeError.
func ClassifyError(err error, addr string) *ProbeError {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if os.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &ProbeError{
			Type:    ErrTypeTimeout,
			Message: "request timed out",
			Address: addr,
			Err:     err,
		}
	}

	var opErr *net.OpError
	dialing := errors.As(err, &opErr) && opErr.Op == "dial"

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return refused(addr, "connection refused", err)
	case dialing && errors.Is(err, syscall.ECONNRESET):
		return refused(addr, "connection reset", err)
	case errors.Is(err, syscall.EHOSTUNREACH):
		return refused(addr, "host unreachable", err)
	case errors.Is(err, syscall.ENETUNREACH):
		return refused(addr, "network unreachable", err)
	}

	return &ProbeError{
		Type:    ErrTypeOther,
		Message: "transport error",
		Address: addr,
		Err:     err,
	}
}

func refused(addr, message string, err error) *ProbeError {
	return &ProbeError{
		Type:    ErrTypeConnectionRefused,
		Message: message,
		Address: addr,
		Err:     err,
	}
}

// IsTimeout checks if an error is a probe timeout
func IsTimeout(err error) bool {
	var probeErr *ProbeError
	if errors.As(err, &probeErr) {
		return probeErr.Type == ErrTypeTimeout
	}
	return false
}

// IsConnectionRefused checks if an error is a refused or unreachable host
func IsConnectionRefused(err error) bool {
	var probeErr *ProbeError
	if errors.As(err, &probeErr) {
		return probeErr.Type == ErrTypeConnectionRefused
	}
	return false
}
