package hostproto

import (
	"errors"

	"github.com/dshills/numconv/internal/convert"
)

// Code classifies a failed request.
type Code string

// Error codes sent to hosts.
const (
	CodeNoMatch         Code = "no_match"
	CodeOverflow        Code = "overflow"
	CodeInvalidPattern  Code = "invalid_pattern"
	CodeBaseUnavailable Code = "base_unavailable"
	CodeBadRequest      Code = "bad_request"
)

// ErrClientClosed is returned when the helper closed its output.
var ErrClientClosed = errors.New("hostproto: connection closed")

// Error is the error object of a failed response.
type Error struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

func badRequest(msg string) *Error {
	return &Error{Code: CodeBadRequest, Message: msg}
}

// errorFor maps a conversion error to its protocol error.
func errorFor(err error) *Error {
	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}
	code := CodeBadRequest
	switch {
	case errors.Is(err, convert.ErrNoMatch):
		code = CodeNoMatch
	case errors.Is(err, convert.ErrOverflow):
		code = CodeOverflow
	case errors.Is(err, convert.ErrBaseUnavailable):
		code = CodeBaseUnavailable
	case errors.Is(err, convert.ErrInvalidPattern):
		code = CodeInvalidPattern
	}
	return &Error{Code: code, Message: err.Error()}
}
