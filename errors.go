package postcodes

import (
	"errors"
	"fmt"
)

// Kind classifies a failure returned by the client.
type Kind int

const (
	// KindTransport means the HTTP round trip itself failed.
	KindTransport Kind = iota + 1
	// KindParse means the response body was not the JSON the client expected.
	KindParse
	// KindService means postcodes.io answered with an explicit error message.
	KindService
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	case KindService:
		return "service"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Any *Error matches the sentinel of its Kind.
var (
	ErrTransport = errors.New("transport error")
	ErrParse     = errors.New("parse error")
	ErrService   = errors.New("service error")

	// ErrNoResult is wrapped by a parse error when the envelope carries no usable result.
	ErrNoResult = errors.New("response has no result")
)

// Error is the only error type returned by Client operations.
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying cause, may be nil
}

// TransportError builds a KindTransport error.
func TransportError(msg string) *Error {
	return &Error{Kind: KindTransport, Message: msg}
}

// ParseError builds a KindParse error.
func ParseError(msg string) *Error {
	return &Error{Kind: KindParse, Message: msg}
}

// ServiceError builds a KindService error carrying the service message verbatim.
func ServiceError(msg string) *Error {
	return &Error{Kind: KindService, Message: msg}
}

func newError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

func (e *Error) Error() string {
	return e.Kind.String() + " error: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrParse:
		return e.Kind == KindParse
	case ErrService:
		return e.Kind == KindService
	default:
		return false
	}
}

// KindOf returns the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var pcErr *Error
	if errors.As(err, &pcErr) {
		return pcErr.Kind
	}

	return 0
}
