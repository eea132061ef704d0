package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrNoPriorRecord       = errors.New("no prior access request for this person and equipment")
	ErrAlreadyPersisted    = errors.New("entity already has an identifier")
	ErrNoToken             = errors.New("no token found")
	ErrBadRequest          = errors.New("bad request")
	ErrDuplicateScan       = errors.New("token scanned again within the debounce window")
)

// ValidationError reports a missing or malformed input field. It is raised
// before any store access.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func NewValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func RequiredField(field string) error {
	return &ValidationError{Field: field, Message: "field is required"}
}

// DecodeError is returned when a scanned token is not "<personId>,<equipmentId>".
type DecodeError struct {
	Token  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode token %q: %s", e.Token, e.Reason)
}

type EncodeError struct {
	Reason string
}

func (e *EncodeError) Error() string { return "encode token: " + e.Reason }

// ConstraintError wraps a uniqueness, foreign key or check failure reported by the store.
type ConstraintError struct {
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("constraint %s violated", e.Constraint)
	}
	return fmt.Sprintf("constraint %s violated: %v", e.Constraint, e.Err)
}

func (e *ConstraintError) Is(target error) bool { return target == ErrConstraintViolation }

func (e *ConstraintError) Unwrap() error { return e.Err }

func NewConstraintError(constraint string, err error) error {
	return &ConstraintError{Constraint: constraint, Err: err}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsDecode(err error) bool {
	var d *DecodeError
	return errors.As(err, &d)
}
