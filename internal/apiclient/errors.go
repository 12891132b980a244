package apiclient

import (
	"errors"
	"fmt"
)

// Kind classifies a failed API call.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindValidation
	KindUnauthorized
	KindNotFound
	KindMalformed
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindMalformed:
		return "malformed"
	case KindServer:
		return "server"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

const (
	MsgNetwork            = "Could not connect to the server. Please check your connection and try again."
	MsgMalformed          = "Unexpected response structure from server."
	MsgValidation         = "Validation error. Please check your input."
	MsgInvalidCredentials = "Invalid email or password."
	MsgUnauthorized       = "You are not authorized to perform this action."
	MsgNotFound           = "The requested resource was not found."
	MsgEmptyPDF           = "The server returned an empty PDF."
	MsgNotPDF             = "The server did not return a PDF."
)

// Error is the single error type returned by Client methods. Message is safe
// to show to the user as-is.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// Message returns the user-facing text of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func malformed(status int, serverMessage string, cause error) *Error {
	msg := serverMessage
	if msg == "" {
		msg = MsgMalformed
	}
	return &Error{Kind: KindMalformed, Status: status, Message: msg, Err: cause}
}
