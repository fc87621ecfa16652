package errors

import (
	"errors"
	"fmt"
)

var (
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrResourceNotFound = errors.New("resource not found")
	ErrSubjectConflict  = errors.New("subject conflict")
	ErrResourceConflict = errors.New("resource conflict")
)

// AuthorizationError wraps a deny decision when a caller wants the
// denial surfaced as an error rather than a Decision value. Model names
// the single access model that produced the denial.
type AuthorizationError struct {
	Model  string
	Reason string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("access denied by %s: %s", e.Model, e.Reason)
}
