package errors

import (
	"errors"
	"fmt"
)

// Sentinel causes for AuthenticationError, matchable with errors.Is.
var (
	ErrUnknownUser     = errors.New("unknown user")
	ErrBadPassword     = errors.New("bad password")
	ErrBadSecondFactor = errors.New("bad second factor")
)

// ValidationError reports malformed or incorrect auxiliary input, such
// as a wrong captcha answer. It never reveals anything about the
// credential itself.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Detail)
}

// AuthenticationError reports a failed credential or second-factor
// check. Cause is one of the sentinel causes above.
type AuthenticationError struct {
	Username string
	Cause    error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed for %q: %v", e.Username, e.Cause)
}

func (e *AuthenticationError) Unwrap() error { return e.Cause }

// LockedAccountError reports an attempt against an account past the
// failure threshold. It is returned before any password comparison so
// a locked account never reveals credential correctness.
type LockedAccountError struct {
	SubjectID string
}

func (e *LockedAccountError) Error() string {
	return fmt.Sprintf("account %s is locked", e.SubjectID)
}

// PrivilegeError reports a non-admin caller attempting an admin-only
// operation.
type PrivilegeError struct {
	ActorID   string
	Operation string
}

func (e *PrivilegeError) Error() string {
	return fmt.Sprintf("subject %s lacks privilege for %s", e.ActorID, e.Operation)
}
