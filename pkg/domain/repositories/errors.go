package repositories

import (
	"errors"
	"fmt"
)

// ErrRecordNotFound is returned when renaming a record that does not exist
var ErrRecordNotFound = errors.New("record not found")

// ParseError reports persisted data that could not be decoded
type ParseError struct {
	Store string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed %s data: %v", e.Store, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
