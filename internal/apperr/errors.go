// Package apperr defines the error taxonomy shared by the service and API
// layers. Handlers map these sentinels to HTTP status codes; nothing in this
// package retries.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a malformed request shape (missing fields, both
	// or neither of receiver and group target).
	ErrValidation = errors.New("validation error")

	// ErrAuthorization marks an action the caller is not allowed to
	// perform; no side effect has happened when it is returned.
	ErrAuthorization = errors.New("not authorized")

	// ErrNotFound marks a missing document.
	ErrNotFound = errors.New("not found")

	// ErrStore marks persistence unavailability. Retry policy belongs to
	// the caller, never to the core.
	ErrStore = errors.New("store unavailable")

	// ErrMedia marks a failed media upload. Temp files are already cleaned
	// up when it is returned.
	ErrMedia = errors.New("media upload failed")
)

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Authorization(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrAuthorization, fmt.Sprintf(format, args...))
}

func Store(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStore, err)
}

func Media(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrMedia, err)
}
