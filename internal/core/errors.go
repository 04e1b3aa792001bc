package core

import (
	"errors"
	"fmt"
)

var (
	// ErrWriteDisabled is returned by the record upsert stub.
	ErrWriteDisabled = errors.New("catalog is read-only: write disabled")

	// ErrGameNotFound is returned when an id is not in the current snapshot.
	ErrGameNotFound = errors.New("game not found")

	// ErrUnknownSource is returned when no source is registered under a key.
	ErrUnknownSource = errors.New("unknown source")

	// ErrNoSource is returned by Reload when the catalog has no source.
	ErrNoSource = errors.New("no source configured")
)

// LoadErrorKind distinguishes the ways a source load can fail.
type LoadErrorKind int

const (
	// LoadTransport means the source could not be reached or answered with
	// an error status.
	LoadTransport LoadErrorKind = iota + 1
	// LoadMalformed means the source answered but the payload is unusable.
	LoadMalformed
)

func (k LoadErrorKind) String() string {
	switch k {
	case LoadTransport:
		return "source unreachable"
	case LoadMalformed:
		return "malformed payload"
	default:
		return "load failed"
	}
}

// LoadError reports a failed source fetch.
type LoadError struct {
	Kind   LoadErrorKind
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Source, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// TransportError wraps err as a transport failure of source.
func TransportError(source string, err error) error {
	return &LoadError{Kind: LoadTransport, Source: source, Err: err}
}

// MalformedError wraps err as a malformed payload from source.
func MalformedError(source string, err error) error {
	return &LoadError{Kind: LoadMalformed, Source: source, Err: err}
}

// IsTransport reports whether err is (or wraps) a transport failure.
func IsTransport(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Kind == LoadTransport
}

// IsMalformed reports whether err is (or wraps) a malformed payload failure.
func IsMalformed(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Kind == LoadMalformed
}
