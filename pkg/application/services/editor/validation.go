package editor

import "errors"

var (
	ErrNameRequired  = errors.New("name required")
	ErrNoIngredients = errors.New("at least one ingredient required")
)

// ValidationError carries a message meant to be shown next to the form.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(message string, err error) error {
	return &ValidationError{Message: message, Err: err}
}
