// Package backend implements the per-domain adapters that translate
// normalized requests into external wire protocol calls: a GET-with-query
// JSON endpoint, a SOAP report engine, a REST collection with list-vs-detail
// variants, and a two-phase export-then-poll protocol. All adapters share one
// transport caller with a uniform timeout and bounded retry for transient
// transport errors.
package backend

import (
	"errors"
	"fmt"

	"github.com/rcoe/askme/pkg/advisor"
)

// ErrExportExhausted is returned when every polling attempt of the export
// adapter failed. It is a hard failure for that domain, never silently empty.
var ErrExportExhausted = errors.New("export download failed after all attempts")

// TransportError is a timeout or connection failure. The caller has already
// retried up to the shared bound before surfacing it.
type TransportError struct {
	Domain advisor.Intent
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s backend transport error: %v", e.Domain, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError is an unexpected status code or unparsable payload.
// Protocol errors are never retried; the backend answered, just not usably.
type ProtocolError struct {
	Domain advisor.Intent
	Status int
	Msg    string
}

func (e *ProtocolError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s backend returned HTTP %d: %s", e.Domain, e.Status, e.Msg)
	}
	return fmt.Sprintf("%s backend protocol error: %s", e.Domain, e.Msg)
}

// IsAuthFailure reports whether the error is an HTTP 401 protocol error,
// which advisors render with a credentials hint.
func IsAuthFailure(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe) && pe.Status == 401
}
