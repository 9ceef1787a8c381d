package lookup

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Kind classifies why an external lookup could not produce evidence
type Kind string

// Error kind constants
const (
	KindNone      Kind = "none"
	KindTimeout   Kind = "timeout"
	KindDNS       Kind = "dns_error"
	KindNetwork   Kind = "network_error"
	KindStatus    Kind = "http_status"
	KindMalformed Kind = "malformed_response"
	KindDisabled  Kind = "disabled"
	KindNotFound  Kind = "not_found"
)

// ErrDisabled is returned when a lookup is switched off by configuration
var ErrDisabled = errors.New("lookup disabled")

// StatusError reports a non-2xx response from a remote service
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// MalformedError reports a response body that could not be interpreted
type MalformedError struct {
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return "malformed response: " + e.Reason
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Classify determines the error kind from a Go error
// Returns the kind constant and a human-readable message
func Classify(err error) (Kind, string) {
	if err == nil {
		return KindNone, ""
	}

	if errors.Is(err, ErrDisabled) {
		return KindDisabled, "lookup disabled"
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout, "lookup timed out"
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return KindStatus, statusErr.Error()
	}

	var malformed *MalformedError
	if errors.As(err, &malformed) {
		return KindMalformed, malformed.Error()
	}

	// Check for DNS errors before the generic timeout check, *net.DNSError implements net.Error
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return KindTimeout, "lookup timed out"
		}
		return KindDNS, "DNS lookup failed"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout, "lookup timed out"
	}

	errMsg := err.Error()
	if strings.Contains(errMsg, "connection refused") {
		return KindNetwork, "connection refused"
	}
	if strings.Contains(errMsg, "connection reset") {
		return KindNetwork, "connection reset"
	}
	if strings.Contains(errMsg, "no such host") {
		return KindDNS, "host not found"
	}
	if strings.Contains(errMsg, "network is unreachable") {
		return KindNetwork, "network unreachable"
	}

	return KindNetwork, errMsg
}
