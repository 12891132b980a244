package queue

import (
	"context"
	"errors"
)

// DefaultQueue is the render job queue name.
const DefaultQueue = "resume.render"

// Publisher sends render jobs to a queue backend.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// Handler processes one decoded message.
type Handler func(ctx context.Context, msg Message) error

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying; the message is dropped.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}
