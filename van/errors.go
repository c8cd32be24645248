package van

import (
	"errors"
	"fmt"
)

var (
	ErrPaginationCycle = errors.New("pagination cycle")
	ErrTooManyPages    = errors.New("too many pages")
)

// TransportError is returned when a request could not be completed or the API responded
// with a non-2xx status.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %v failed (%v)", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is returned when a response body is not a valid page.
type MalformedResponseError struct {
	URL    string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %v (%v)", e.URL, e.Reason)
}

// MissingFieldError is returned by the typed Record accessors when a required field is
// absent or null.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field '%v'", e.Field)
}

type FieldTypeError struct {
	Field string
	Want  string
	Got   string
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("field '%v' is %v, expected %v", e.Field, e.Got, e.Want)
}
