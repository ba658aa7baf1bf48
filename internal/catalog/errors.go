package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by single-entity lookups that match no row
var ErrNotFound = errors.New("catalog: not found")

// TransportError reports a request that did not complete or came back with a
// non-2xx status. Status is 0 when no response was received.
type TransportError struct {
	Table  string
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog: fetch %s: http status %d", e.Table, e.Status)
	}
	return fmt.Sprintf("catalog: fetch %s: %v", e.Table, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError reports a response body that is not a {"list": [...]} envelope
type ParseError struct {
	Table string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("catalog: decode %s: %v", e.Table, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is, or wraps, a *TransportError
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsParse reports whether err is, or wraps, a *ParseError
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
