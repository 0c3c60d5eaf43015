package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned before any request is built when a call
	// needs an identity and the session holds none, or its token expired.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrForbidden is returned when the access policy refuses an action on the
	// client. A 403 from the server is a RequestFailedError instead.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput marks a call refused locally because a required
	// identifier or field was missing. It is wrapped in a RequestFailedError.
	ErrInvalidInput = errors.New("invalid input")
)

// RequestFailedError is any non-success outcome of an exchange with the API.
// Status is 0 when no response was received.
type RequestFailedError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *RequestFailedError) Error() string {
	return e.Message
}

func (e *RequestFailedError) Unwrap() error {
	return e.Err
}

// DecodeFailedError reports a success response whose body did not have the
// expected shape.
type DecodeFailedError struct {
	Op  string
	Err error
}

func (e *DecodeFailedError) Error() string {
	return fmt.Sprintf("%s: unexpected response: %v", e.Op, e.Err)
}

func (e *DecodeFailedError) Unwrap() error {
	return e.Err
}

// Describe turns an error of this package into the message a screen shows.
func Describe(err error) string {
	var rf *RequestFailedError
	var df *DecodeFailedError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthenticated):
		return "Please log in to continue"
	case errors.Is(err, ErrForbidden):
		return "You don't have permission to do that"
	case errors.As(err, &rf):
		return rf.Message
	case errors.As(err, &df):
		return "Unexpected response from server"
	}
	return err.Error()
}

var errMissingAuth = errors.New("missing token or user")
