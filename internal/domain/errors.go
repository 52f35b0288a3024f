package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInsufficientStock indicates the requested quantity exceeds available stock.
	ErrInsufficientStock = errors.New("not enough stock")
	// ErrInvalidCredentials indicates a failed email/password check. The
	// message deliberately does not reveal which part was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrForbidden indicates the caller is authenticated but not allowed.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports invalid caller input. Its message is written
// for the caller and safe to surface; anything else is not.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validation builds a ValidationError.
func Validation(reason string) error {
	return &ValidationError{Reason: reason}
}
