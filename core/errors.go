package core

import (
	"fmt"
	"time"
)

// ValidationError reports an inbound payload that failed validation. Reason is
// safe to echo back to the client verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// UpstreamTimeout reports a hosted API call that exceeded its configured
// deadline. Service names the upstream ("chat" or "speech").
type UpstreamTimeout struct {
	Service string
	Timeout time.Duration
}

func (e *UpstreamTimeout) Error() string {
	return fmt.Sprintf("%s upstream: no response within %s", e.Service, e.Timeout)
}

// UpstreamError reports a hosted API call that returned a failure status.
// Status is zero when the request never produced an HTTP response.
type UpstreamError struct {
	Service string
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s upstream: status %d: %s", e.Service, e.Status, e.Message)
	}
	return fmt.Sprintf("%s upstream: %s", e.Service, e.Message)
}

// TransportError reports a connection-level failure. These terminate the
// session rather than producing an error event.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
