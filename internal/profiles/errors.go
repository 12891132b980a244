package profiles

import "errors"

var (
	// ErrNotFound indicates the profile does not exist.
	ErrNotFound = errors.New("profile not found")

	// ErrUserNotFound indicates the owning user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrParseFailed indicates the model output could not be turned into resume data.
	ErrParseFailed = errors.New("failed to parse resume")
)
