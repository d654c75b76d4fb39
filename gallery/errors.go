package gallery

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized       = errors.New("access denied")
	ErrNotFound           = errors.New("not found")
	ErrProcessing         = errors.New("cannot process image")
	ErrStorage            = errors.New("storage error")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries a reason that can be shown to the user as is
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %q: %w", what, id, ErrNotFound)
}

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
