package weather

import "fmt"

// ErrorKind is the closed set of failure categories the service can produce.
// The HTTP layer maps kinds to status codes; nothing dispatches on concrete
// error types.
type ErrorKind int

const (
	// ErrInvalidDate means a date parameter did not match YYYY-MM-DD or
	// refers to a future date.
	ErrInvalidDate ErrorKind = iota

	// ErrInvalidUnit means a temperature unit outside celsius/fahrenheit/kelvin.
	ErrInvalidUnit

	// ErrUpstream wraps network failures and non-2xx responses from the
	// GlobalMet API, including an open circuit breaker.
	ErrUpstream

	// ErrNoData means an empty measurement list was handed to the statistics
	// computation. Distinct from "field missing", which yields null statistics.
	ErrNoData

	// ErrNoDataFound means the upstream returned zero measurements where data
	// was required (raw measurement export).
	ErrNoDataFound
)

// Error carries an ErrorKind plus a human-readable message. UpstreamStatus is
// set only for ErrUpstream when the upstream HTTP status is known.
type Error struct {
	Kind           ErrorKind
	Message        string
	UpstreamStatus int
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds an Error with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewUpstreamError builds an ErrUpstream error carrying the upstream HTTP
// status code. Pass 0 when the status is unknown (e.g. network failure).
func NewUpstreamError(status int, format string, args ...any) *Error {
	return &Error{
		Kind:           ErrUpstream,
		Message:        fmt.Sprintf(format, args...),
		UpstreamStatus: status,
	}
}
