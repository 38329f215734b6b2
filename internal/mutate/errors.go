package mutate

import (
	"errors"
	"fmt"
)

// ValidationError is returned before any store call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StoreError wraps a failure returned by the store. Its message is the store's, verbatim.
type StoreError struct {
	Op  string
	ID  string
	Err error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed", e.Op)
	}
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

// UnexpectedError is a recovered panic from a collaborator.
type UnexpectedError struct {
	Op    string
	Cause error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected error during %s", e.Op)
}

func (e *UnexpectedError) Unwrap() error { return e.Cause }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsStore(err error) bool {
	var s *StoreError
	return errors.As(err, &s)
}
