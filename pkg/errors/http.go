package errors

import (
	"errors"
	"net/http"
)

// HttpError carries the status code and user-facing message for the HTTP layer.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

// StatusCode maps the domain error taxonomy onto HTTP status codes.
func StatusCode(err error) int {
	var httpErr *HttpError
	var validationErr *ValidationError
	var decodeErr *DecodeError
	var encodeErr *EncodeError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.As(err, &validationErr), errors.As(err, &decodeErr), errors.As(err, &encodeErr),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoToken):
		return http.StatusNotFound
	case errors.Is(err, ErrConstraintViolation), errors.Is(err, ErrNoPriorRecord), errors.Is(err, ErrAlreadyPersisted):
		return http.StatusConflict
	case errors.Is(err, ErrDuplicateScan):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
